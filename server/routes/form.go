// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/ambagabon/portail/assets/views"
	"codeberg.org/ambagabon/portail/core/dispatch"
	"codeberg.org/ambagabon/portail/core/forms"
	"codeberg.org/ambagabon/portail/core/formtoken"
	"codeberg.org/ambagabon/portail/core/metrics"
	"codeberg.org/ambagabon/portail/i18n"
	"codeberg.org/ambagabon/portail/server/request_context"
	"codeberg.org/ambagabon/portail/server/utils"
)

// maxFormSize bounds the body of a form post.
const maxFormSize = 64 << 10

// Notices shown above a form that was not submitted.
const (
	noticeExpired    i18n.MsgKey = "This form has expired. Please check your answers and submit it again."
	noticeUnreadable i18n.MsgKey = "Your request could not be read. Please try again."
)

// Forms serves the request forms.
//
// Every request builds its own controller, so nothing is shared between
// visitors or between two pages of the same visitor.
type Forms struct {
	// Tokens signs the hidden token of each form. Nil disables tokens.
	Tokens *formtoken.Issuer

	// RequireToken refuses posts without a valid token.
	RequireToken bool

	// Client, Timeout and Endpoint configure the registration dispatch.
	// An empty Endpoint hands registrations to RegistrationAPI in process.
	Client   *http.Client
	Timeout  time.Duration
	Endpoint string
}

// Page renders def with empty fields.
func (f *Forms) Page(def *forms.Definition) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Cache-Control", "no-store")

		return f.render(w, r, def, forms.State{}, "")
	}
}

// Submit handles a post of def.
//
// A post to the form path with ?reset=1 clears the form. Otherwise the
// values are validated and dispatched; the answer is the same page showing
// either the field errors (422), the failure banner (502) or the success
// panel.
func (f *Forms) Submit(def *forms.Definition) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Cache-Control", "no-store")

		ctrl := forms.NewController(def, f.dispatcher(r, def))

		if r.URL.Query().Get("reset") != "" {
			ctrl.Reset()

			return f.render(w, r, def, ctrl.State(), "")
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
		if err := r.ParseForm(); err != nil {
			metrics.CountSubmission(def.Slug, metrics.OutcomeRejected)
			w.WriteHeader(http.StatusBadRequest)

			if renderErr := f.render(w, r, def, ctrl.State(), noticeUnreadable); renderErr != nil {
				return renderErr
			}

			return err
		}

		ctrl.Bind(r.PostForm)

		if f.RequireToken && f.Tokens != nil {
			if err := f.Tokens.Verify(r.PostForm.Get(formtoken.FieldName), def.Slug); err != nil {
				metrics.CountSubmission(def.Slug, metrics.OutcomeRejected)
				w.WriteHeader(http.StatusBadRequest)

				return f.render(w, r, def, ctrl.State(), noticeExpired)
			}
		}

		err := ctrl.Submit(r.Context())

		switch {
		case err == nil:
			metrics.CountSubmission(def.Slug, metrics.OutcomeAccepted)

			return f.render(w, r, def, ctrl.State(), "")
		case errors.Is(err, forms.ErrInvalid):
			metrics.CountSubmission(def.Slug, metrics.OutcomeInvalid)
			w.WriteHeader(http.StatusUnprocessableEntity)

			return f.render(w, r, def, ctrl.State(), "")
		case errors.Is(err, dispatch.ErrEndpointStatus), errors.Is(err, dispatch.ErrEndpointTransport):
			metrics.CountSubmission(def.Slug, metrics.OutcomeFailed)
			w.WriteHeader(http.StatusBadGateway)

			if renderErr := f.render(w, r, def, ctrl.State(), ""); renderErr != nil {
				return renderErr
			}

			// Logged by the request span; the visitor already sees the banner.
			return err
		default:
			metrics.CountSubmission(def.Slug, metrics.OutcomeFailed)

			return err
		}
	}
}

// dispatcher picks where the submissions of def go and times each dispatch.
func (f *Forms) dispatcher(r *http.Request, def *forms.Definition) dispatch.Dispatcher {
	var next dispatch.Dispatcher = dispatch.LogDispatcher{}

	if def.Remote {
		endpoint, client := f.Endpoint, f.Client

		switch {
		case endpoint == "":
			endpoint, client = dispatch.LocalEndpoint, localRegistration
		case client == nil:
			client = utils.HTTPClient
		}

		next = &dispatch.HTTPDispatcher{
			Client:    client,
			Endpoint:  endpoint,
			Timeout:   f.Timeout,
			RequestID: request_context.FromRequest(r).RequestID,
		}
	}

	return dispatch.Func(func(ctx context.Context, sub dispatch.Submission) (dispatch.Receipt, error) {
		start := time.Now()
		defer func() { metrics.ObserveDispatch(sub.Form, time.Since(start)) }()

		return next.Dispatch(ctx, sub)
	})
}

// localRegistration serves registrations with RegistrationAPI without
// leaving the process.
var localRegistration = dispatch.LocalClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if err := RegistrationAPI(w, r); err != nil {
		log.Error().
			Str("sys", "forms").
			Err(err).
			Msg("Local registration endpoint failed")
	}
}))

// render writes the page of def in the given state with a fresh token.
func (f *Forms) render(w http.ResponseWriter, r *http.Request, def *forms.Definition, state forms.State, notice i18n.MsgKey) error {
	data := views.NewFormData(def, state)
	data.Title = def.Title.Tr(r.Context())
	if notice != "" {
		data.Notice = notice
	}

	if f.Tokens != nil {
		data.TokenField = formtoken.FieldName
		data.Token = f.Tokens.Issue(def.Slug)
	}

	return views.Form(data).Render(r.Context(), w)
}
