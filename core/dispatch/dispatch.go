// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package dispatch delivers validated form submissions.

Most forms are only written to the log. The consular registration is sent
as one JSON request to the registration endpoint. Nothing is retried.
*/
package dispatch

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Submission is a validated record on its way out.
type Submission struct {
	// Form is the slug of the form, for example "immatriculation".
	Form string

	// Reference is shown to the visitor and written to every log line.
	Reference string

	// ID identifies the submission to the endpoint.
	ID uuid.UUID

	// Record is JSON encoded as is.
	Record any
}

// Receipt describes how a dispatch went.
type Receipt struct {
	StatusCode int
	Success    bool
	Message    string
}

// Dispatcher delivers a submission.
type Dispatcher interface {
	Dispatch(ctx context.Context, sub Submission) (Receipt, error)
}

// LogDispatcher writes submissions to the log. It never fails.
type LogDispatcher struct{}

// Dispatch logs the record of sub.
func (LogDispatcher) Dispatch(ctx context.Context, sub Submission) (Receipt, error) {
	event(log.Info().Ctx(ctx), sub).
		Interface("record", sub.Record).
		Msg("Form submitted")

	return Receipt{Success: true}, nil
}

// Func adapts a function to the Dispatcher interface.
type Func func(ctx context.Context, sub Submission) (Receipt, error)

// Dispatch calls f.
func (f Func) Dispatch(ctx context.Context, sub Submission) (Receipt, error) {
	return f(ctx, sub)
}

var _ Dispatcher = LogDispatcher{}

var _ Dispatcher = Func(nil)

// event adds the fields every submission log line carries.
func event(e *zerolog.Event, sub Submission) *zerolog.Event {
	return e.
		Str("sys", "forms").
		Str("form", sub.Form).
		Str("reference", sub.Reference).
		Stringer("submission_id", sub.ID)
}
