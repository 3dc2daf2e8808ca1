// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"codeberg.org/ambagabon/portail/core/audit"
)

// RegistrationPath is where the portal serves its own registration endpoint.
const RegistrationPath = "/api/immatriculation"

// maxAnswerSize bounds how much of the endpoint answer is read.
const maxAnswerSize = 64 << 10

var (
	// ErrEndpointStatus is returned for any answer outside 2xx.
	ErrEndpointStatus = errors.New("registration endpoint answered with an error status")

	// ErrEndpointTransport is returned when no answer was received.
	ErrEndpointTransport = errors.New("registration endpoint unreachable")
)

// HTTPDispatcher sends each submission as one JSON POST request.
type HTTPDispatcher struct {
	Client   *http.Client
	Endpoint string
	Timeout  time.Duration

	// RequestID ties the outbound request to the inbound one in logs.
	RequestID string
}

// Dispatch encodes sub.Record and posts it to d.Endpoint.
//
// Any status outside 2xx is an error, as is a transport failure. The
// success and message fields of a JSON answer are copied to the receipt
// when present.
func (d *HTTPDispatcher) Dispatch(ctx context.Context, sub Submission) (Receipt, error) {
	body, err := json.Marshal(sub.Record)
	if err != nil {
		return Receipt{}, fmt.Errorf("encoding %s submission: %w", sub.Form, err)
	}

	if d.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	span := audit.Span{
		Destination: audit.ToEndpoint,
		RequestID:   d.RequestID,
		Method:      http.MethodPost,
		URL:         d.Endpoint,
		Body:        body,
	}

	ctx = span.Begin(ctx)

	defer func() {
		span.End()
		span.Log()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint, bytes.NewReader(body))
	if err != nil {
		span.Error = err

		return Receipt{}, fmt.Errorf("building request to %s: %w", d.Endpoint, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", sub.ID.String())

	resp, err := d.Client.Do(req)
	if err != nil {
		span.Error = err

		event(log.Error().Ctx(ctx), sub).Err(err).Str("endpoint", d.Endpoint).Msg("Registration dispatch failed")

		return Receipt{}, fmt.Errorf("%w: %w", ErrEndpointTransport, err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	answer, err := io.ReadAll(io.LimitReader(resp.Body, maxAnswerSize))
	if err != nil {
		span.Error = err
	}

	receipt := readAnswer(resp.StatusCode, answer)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: %d", ErrEndpointStatus, resp.StatusCode)
		span.Error = err

		event(log.Error().Ctx(ctx), sub).
			Int("status_code", resp.StatusCode).
			Str("endpoint", d.Endpoint).
			Str("message", receipt.Message).
			Msg("Registration endpoint rejected the submission")

		return receipt, err
	}

	event(log.Info().Ctx(ctx), sub).
		Int("status_code", resp.StatusCode).
		Str("message", receipt.Message).
		Msg("Registration dispatched")

	return receipt, nil
}

// readAnswer extracts success and message from a JSON answer. Without a
// success field, the status code decides.
func readAnswer(status int, answer []byte) Receipt {
	receipt := Receipt{
		StatusCode: status,
		Success:    status >= 200 && status <= 299,
	}

	if !gjson.ValidBytes(answer) {
		return receipt
	}

	fields := gjson.GetManyBytes(answer, "success", "message")

	if fields[0].Exists() {
		receipt.Success = receipt.Success && fields[0].Bool()
	}

	receipt.Message = fields[1].String()

	return receipt
}

var _ Dispatcher = (*HTTPDispatcher)(nil)
