// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package forms

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"codeberg.org/ambagabon/portail/core/dispatch"
	"codeberg.org/ambagabon/portail/core/idgen"
	"codeberg.org/ambagabon/portail/core/validation"
)

// Status is the lifecycle stage of a form.
type Status int

const (
	Idle Status = iota
	Submitting
	Submitted
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

var (
	// ErrInvalid is returned by Submit when at least one field failed validation.
	ErrInvalid = errors.New("form has invalid fields")

	// ErrInProgress is returned by Submit while a previous submission is being dispatched.
	ErrInProgress = errors.New("a submission is already in progress")
)

// State is a snapshot of a controller.
type State struct {
	Status Status
	Values map[string]string
	Errors validation.Errors

	// Reference and Receipt describe the last successful submission.
	Reference string
	Receipt   dispatch.Receipt

	// Failed is set when the last dispatch failed.
	Failed bool
}

// Value returns the current value of field name.
func (s State) Value(name string) string {
	return s.Values[name]
}

// Controller takes one form from input to dispatch. A controller belongs
// to a single page instance; it is safe for concurrent use.
type Controller struct {
	def        *Definition
	dispatcher dispatch.Dispatcher
	now        func() time.Time

	mu        sync.Mutex
	status    Status
	values    map[string]string
	errs      validation.Errors
	reference string
	receipt   dispatch.Receipt
	failed    bool
}

// NewController returns an idle controller with empty values.
func NewController(def *Definition, dispatcher dispatch.Dispatcher) *Controller {
	return &Controller{
		def:        def,
		dispatcher: dispatcher,
		now:        time.Now,
		values:     map[string]string{},
	}
}

// Definition returns the form the controller drives.
func (c *Controller) Definition() *Definition {
	return c.def
}

// Bind copies the values of the form's fields from values. Unknown keys
// are ignored; markup and surrounding whitespace are removed.
func (c *Controller) Bind(values url.Values) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, f := range c.def.Fields() {
		if raw, ok := values[f.Name]; ok && len(raw) > 0 {
			c.values[f.Name] = clean(raw[0])
		} else {
			delete(c.values, f.Name)
		}
	}
}

// Submit validates the bound values and dispatches the record.
//
// Invalid input keeps the controller idle and returns ErrInvalid. A
// dispatch failure returns the controller to idle with its values kept.
// After a successful dispatch the controller is submitted; forms with
// ClearOnSuccess lose their values.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()

	if c.status == Submitting {
		c.mu.Unlock()

		return ErrInProgress
	}

	c.failed = false

	record, errs := c.def.decode(c.values)

	verrs, err := validation.Validate(ctx, record, c.def.Messages())
	if err != nil {
		c.status = Idle
		c.mu.Unlock()

		return fmt.Errorf("validating %s: %w", c.def.Slug, err)
	}

	for field, msg := range verrs {
		if errs == nil {
			errs = validation.Errors{}
		}

		errs[field] = msg
	}

	c.errs = errs
	if errs != nil {
		c.status = Idle
		c.mu.Unlock()

		return ErrInvalid
	}

	sub := dispatch.Submission{
		Form:      c.def.Slug,
		Reference: idgen.Reference(c.def.ReferencePrefix, c.now()),
		ID:        uuid.New(),
		Record:    record,
	}

	c.status = Submitting
	c.mu.Unlock()

	receipt, err := c.dispatcher.Dispatch(ctx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.status = Idle
		c.failed = true

		return fmt.Errorf("dispatching %s %s: %w", c.def.Slug, sub.Reference, err)
	}

	c.status = Submitted
	c.reference = sub.Reference
	c.receipt = receipt

	if c.def.ClearOnSuccess {
		c.values = map[string]string{}
	}

	return nil
}

// Reset returns the controller to its initial state.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = Idle
	c.values = map[string]string{}
	c.errs = nil
	c.reference = ""
	c.receipt = dispatch.Receipt{}
	c.failed = false
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Status:    c.status,
		Values:    maps.Clone(c.values),
		Errors:    maps.Clone(c.errs),
		Reference: c.reference,
		Receipt:   c.receipt,
		Failed:    c.failed,
	}
}
