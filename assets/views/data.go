// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"errors"

	"codeberg.org/ambagabon/portail/core/content"
	"codeberg.org/ambagabon/portail/core/forms"
	"codeberg.org/ambagabon/portail/core/validation"
	"codeberg.org/ambagabon/portail/i18n"
)

var errNoTemplate = errors.New("no such template")

// IndexData is the data of the landing page; its content comes from
// content.Get.
type IndexData struct {
	Title string
}

// PageData is the data of an informational page.
type PageData struct {
	Title string
	Page  content.Page
}

// ErrorData is the data of the error page.
type ErrorData struct {
	Title      string
	StatusCode int
	Message    string
	RequestID  string
}

// FormData is the data of a form page.
type FormData struct {
	Title      string
	Form       *forms.Definition
	Sections   []SectionView
	State      forms.State
	TokenField string
	Token      string

	// Notice is shown above the form, for example when the token expired.
	Notice i18n.MsgKey
}

// SectionView is a form section with the values and errors of its fields.
type SectionView struct {
	Title  i18n.MsgKey
	Fields []FieldView
}

// FieldView is a field with its current value and error.
type FieldView struct {
	forms.Field

	Value string
	Error i18n.MsgKey
}

// ID is the id attribute of the field's control.
func (f FieldView) ID() string {
	return "field-" + f.Name
}

// ErrorID is the id of the field's error message.
func (f FieldView) ErrorID() string {
	return "error-" + f.Name
}

// Checked reports whether a checkbox is ticked.
func (f FieldView) Checked() bool {
	switch f.Value {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

// NewFormData lays out the state of a form for the template.
func NewFormData(def *forms.Definition, state forms.State) FormData {
	data := FormData{
		Form:     def,
		State:    state,
		Sections: make([]SectionView, 0, len(def.Sections)),
	}

	for _, s := range def.Sections {
		view := SectionView{Title: s.Title, Fields: make([]FieldView, 0, len(s.Fields))}

		for _, f := range s.Fields {
			view.Fields = append(view.Fields, FieldView{
				Field: f,
				Value: state.Value(f.Name),
				Error: state.Errors[f.Name],
			})
		}

		data.Sections = append(data.Sections, view)
	}

	if msg, ok := state.Errors[validation.FormKey]; ok {
		data.Notice = msg
	}

	return data
}

// Submitted reports whether the success panel is shown.
func (d FormData) Submitted() bool {
	return d.State.Status == forms.Submitted
}

// Invalid reports whether at least one field has an error.
func (d FormData) Invalid() bool {
	return d.InvalidCount() > 0
}

// InvalidCount is the number of fields with an error.
func (d FormData) InvalidCount() int {
	return d.State.Errors.FieldCount()
}
