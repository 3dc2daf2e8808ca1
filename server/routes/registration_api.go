// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"codeberg.org/ambagabon/portail/core/metrics"
	"codeberg.org/ambagabon/portail/i18n"
	"codeberg.org/ambagabon/portail/server/request_context"
)

// maxRegistrationSize bounds the body accepted by the registration route.
const maxRegistrationSize = 256 << 10

var errNotJSON = errors.New("registration body is not JSON")

type registrationAnswer struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegistrationAPI is the placeholder registration endpoint. It logs the
// JSON body it receives and acknowledges it; nothing is validated or kept.
func RegistrationAPI(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	requestID := request_context.FromRequest(r).RequestID

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRegistrationSize))
	if err == nil && !gjson.ValidBytes(body) {
		err = errNotJSON
	}

	if err != nil {
		log.Error().
			Str("sys", "forms").
			Str("request_id", requestID).
			Err(err).
			Msg("Registration request could not be read")

		return writeJSON(w, http.StatusInternalServerError, registrationAnswer{
			Message: i18n.Tr(ctx, "An error occurred while submitting the registration request."),
		})
	}

	metrics.CountRegistration()

	log.Info().
		Str("sys", "forms").
		Str("request_id", requestID).
		RawJSON("registration", body).
		Msg("Registration request received")

	return writeJSON(w, http.StatusOK, registrationAnswer{
		Success: true,
		Message: i18n.Tr(ctx, "Registration request received successfully."),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(v)
}
