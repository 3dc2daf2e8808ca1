// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package forms

import (
	"errors"
	"html"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/gorilla/schema"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html/atom"

	"codeberg.org/ambagabon/portail/core/validation"
	"codeberg.org/ambagabon/portail/i18n"
)

const msgInvalidValue i18n.MsgKey = "This value is not valid."

// maxCleanPasses bounds clean on values that keep decoding into new markup.
const maxCleanPasses = 8

var (
	decoder = newDecoder()

	// strict removes every tag; values are plain text.
	strict = bluemonday.StrictPolicy()

	tagStart = regexp.MustCompile(`<(!|/?)([A-Za-z][A-Za-z0-9-]*)?`)
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	d.RegisterConverter(false, convertCheckbox)

	return d
}

// convertCheckbox accepts what browsers and scripts send for a checkbox.
func convertCheckbox(value string) reflect.Value {
	switch strings.ToLower(value) {
	case "on", "true", "1", "yes":
		return reflect.ValueOf(true)
	case "", "off", "false", "0", "no":
		return reflect.ValueOf(false)
	default:
		return reflect.Value{}
	}
}

// clean strips markup and surrounding whitespace from a submitted value.
//
// Entities are decoded before stripping, and stripping repeats until the
// value no longer changes, so encoded or nested markup cannot come back to
// life. Angle brackets around words that are not HTML names stay as text.
func clean(value string) string {
	for range maxCleanPasses {
		next := stripMarkup(value)
		if next == value {
			return strings.TrimSpace(value)
		}

		value = next
	}

	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(value))
}

// stripMarkup is one pass of clean.
func stripMarkup(value string) string {
	for {
		unescaped := html.UnescapeString(value)
		if unescaped == value {
			break
		}

		value = unescaped
	}

	return html.UnescapeString(strict.Sanitize(escapePlainBrackets(value)))
}

// escapePlainBrackets escapes every "<" that does not open an HTML tag,
// closing tag or comment.
func escapePlainBrackets(value string) string {
	return tagStart.ReplaceAllStringFunc(value, func(m string) string {
		if strings.HasPrefix(m, "<!") {
			return m
		}

		name := strings.TrimPrefix(m[1:], "/")
		if name != "" && atom.Lookup([]byte(strings.ToLower(name))) != 0 {
			return m
		}

		return "&lt;" + m[1:]
	})
}

// decode fills a new record of d from values. Fields that cannot be
// converted are reported in the returned Errors.
func (d *Definition) decode(values map[string]string) (any, validation.Errors) {
	src := make(url.Values, len(values))
	for name, value := range values {
		src.Set(name, value)
	}

	record := d.NewRecord()

	err := decoder.Decode(record, src)
	if err == nil {
		return record, nil
	}

	errs := validation.Errors{}

	var multi schema.MultiError
	if errors.As(err, &multi) {
		for key := range multi {
			errs[key] = msgInvalidValue
		}
	}

	if len(errs) == 0 {
		errs[validation.FormKey] = msgInvalidValue
	}

	return record, errs
}
