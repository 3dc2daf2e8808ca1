// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package forms holds the consular request forms: their records, the
definitions that drive the shared form template, and the controller that
takes a submission from raw input to dispatch.
*/
package forms

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"codeberg.org/ambagabon/portail/core/validation"
	"codeberg.org/ambagabon/portail/i18n"
)

// Input is the HTML control used for a field.
type Input string

const (
	InputText     Input = "text"
	InputEmail    Input = "email"
	InputTel      Input = "tel"
	InputDate     Input = "date"
	InputTextarea Input = "textarea"
	InputSelect   Input = "select"
	InputCheckbox Input = "checkbox"
)

// Option is one choice of a select field. Value is the stable code sent on
// the wire.
type Option struct {
	Value string
	Label i18n.MsgKey
}

// Field describes one input of a form.
type Field struct {
	// Name is the wire name, shared by the HTML name, the JSON key and the
	// error key.
	Name        string
	Label       i18n.MsgKey
	Input       Input
	Placeholder i18n.MsgKey
	Rows        int
	Options     []Option

	// Wide fields span the whole row.
	Wide bool

	// Messages overrides the message of a rule for this field, keyed by
	// rule tag ("required", "email", "min", ...).
	Messages map[string]i18n.MsgKey

	// Required is derived from the record's validate tag.
	Required bool
}

// Section groups fields under an optional heading.
type Section struct {
	Title  i18n.MsgKey
	Fields []Field
}

// Definition describes a form page.
type Definition struct {
	Slug string
	Path string

	Title       i18n.MsgKey
	Lead        i18n.MsgKey
	Badge       i18n.MsgKey
	FormTitle   i18n.MsgKey
	FormIntro   i18n.MsgKey
	Steps       []i18n.MsgKey
	Sections    []Section
	SubmitLabel i18n.MsgKey
	Success     i18n.MsgKey
	Footnote    i18n.MsgKey

	// Remote forms are sent to the registration endpoint, the others are
	// only logged.
	Remote bool

	// ClearOnSuccess empties the fields once the submission went through.
	ClearOnSuccess bool

	// ReferencePrefix starts every submission reference of this form.
	ReferencePrefix string

	newRecord func() any
	messages  validation.Messages
}

// NewRecord returns a pointer to an empty record of the form.
func (d *Definition) NewRecord() any {
	return d.newRecord()
}

// Fields returns every field in display order.
func (d *Definition) Fields() []Field {
	var fields []Field
	for _, s := range d.Sections {
		fields = append(fields, s.Fields...)
	}

	return fields
}

// Field returns the field called name.
func (d *Definition) Field(name string) (Field, bool) {
	for _, f := range d.Fields() {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// Messages returns the per-field overrides in the form validation expects.
func (d *Definition) Messages() validation.Messages {
	return d.messages
}

// prepare derives Required and the message overrides from the record type
// and checks that fields and record agree. It panics on a mismatch.
func (d *Definition) prepare() {
	t := reflect.TypeOf(d.newRecord()).Elem()

	rules := make(map[string]string, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		rules[f.Tag.Get("json")] = f.Tag.Get("validate")
	}

	d.messages = validation.Messages{}
	seen := make(map[string]bool, len(rules))

	for si := range d.Sections {
		for fi := range d.Sections[si].Fields {
			f := &d.Sections[si].Fields[fi]

			tag, ok := rules[f.Name]
			if !ok {
				panic(fmt.Sprintf("forms: %s has no record field %q", d.Slug, f.Name))
			}

			seen[f.Name] = true

			ruleNames := strings.Split(tag, ",")
			f.Required = slices.Contains(ruleNames, "required") || slices.Contains(ruleNames, "eq=true")

			if f.Input == InputSelect {
				checkOptions(d.Slug, *f, ruleNames)
			}

			for rule, msg := range f.Messages {
				d.messages[f.Name+"."+rule] = msg
			}
		}
	}

	for name := range rules {
		if !seen[name] {
			panic(fmt.Sprintf("forms: %s does not display record field %q", d.Slug, name))
		}
	}
}

func checkOptions(slug string, f Field, ruleNames []string) {
	codes := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		codes = append(codes, o.Value)
	}

	for _, rule := range ruleNames {
		if allowed, ok := strings.CutPrefix(rule, "oneof="); ok {
			if !slices.Equal(strings.Fields(allowed), codes) {
				panic(fmt.Sprintf("forms: %s options of %q do not match its rule", slug, f.Name))
			}

			return
		}
	}

	panic(fmt.Sprintf("forms: %s select %q has no oneof rule", slug, f.Name))
}
