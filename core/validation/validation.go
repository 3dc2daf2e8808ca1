// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package validation checks form records against the rules declared in
their `validate` struct tags.

Rules are evaluated in tag order and the first failing rule of a field
decides its message. Every field is checked, so one call reports all
invalid fields at once. Error keys are the wire names taken from the
`json` tags.
*/
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"codeberg.org/ambagabon/portail/i18n"
)

// Errors maps a field's wire name to its message.
// A nil Errors means the record was accepted.
type Errors map[string]i18n.MsgKey

// FormKey is the key of a problem no single field is responsible for.
const FormKey = ""

// FieldCount returns the number of invalid fields, not counting FormKey.
func (e Errors) FieldCount() int {
	if e.Has(FormKey) {
		return len(e) - 1
	}

	return len(e)
}

// Has reports whether field failed validation.
func (e Errors) Has(field string) bool {
	_, ok := e[field]

	return ok
}

// Fields returns the names of the invalid fields in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}

	slices.Sort(fields)

	return fields
}

// Messages overrides the default message of a rule, either for one field
// ("email.required") or for every field ("required").
type Messages map[string]i18n.MsgKey

var errNotAStruct = errors.New("validation: record must be a struct or a pointer to one")

// defaultMessages is used when no override matches.
var defaultMessages = Messages{
	"required": "This field is required.",
	"email":    "Invalid email address.",
	"min":      "This value is too short.",
	"oneof":    "Please select an option.",
	"eq":       "This box must be checked.",
	"url":      "Invalid link.",
}

const fallbackMessage i18n.MsgKey = "This value is not valid."

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	return v
}

// Validate checks record and returns the message of the first failing rule
// of every invalid field. overrides may be nil.
//
// The error return is reserved for records that cannot be validated at all.
func Validate(ctx context.Context, record any, overrides Messages) (Errors, error) {
	err := validate.StructCtx(ctx, record)
	if err == nil {
		return nil, nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil, fmt.Errorf("%w: %w", errNotAStruct, err)
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return nil, fmt.Errorf("validating %T: %w", record, err)
	}

	errs := make(Errors, len(fieldErrors))

	for _, fe := range fieldErrors {
		// validator reports at most one error per field, the first failing rule.
		errs[fe.Field()] = message(overrides, fe.Field(), fe.Tag())
	}

	return errs, nil
}

func message(overrides Messages, field, rule string) i18n.MsgKey {
	for _, m := range []Messages{overrides, defaultMessages} {
		if msg, ok := m[field+"."+rule]; ok {
			return msg
		}

		if msg, ok := m[rule]; ok {
			return msg
		}
	}

	return fallbackMessage
}
