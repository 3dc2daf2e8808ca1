// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"

	"golang.org/x/text/language"
)

const (
	// BaseLocale is used when the visitor expresses no usable preference.
	BaseLocale = "fr"

	// SourceLocale is the language of the msgids. It needs no catalogue.
	SourceLocale = "en"
)

var errNoAssets = errors.New("i18n: assets.FS is not set")

var (
	baseTag   = language.Make(BaseLocale)
	sourceTag = language.Make(SourceLocale)
)

// Languages returns the supported language tags, BaseLocale first.
//
// The returned slice is a copy and is safe to retain.
//
// Setup must be called successfully before using Languages; otherwise it panics.
func Languages() []language.Tag {
	if matcher == nil {
		panic("i18n: Setup must be called before calling Languages")
	}

	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)

	return out
}

// Supported reports whether code names one of the loaded locales exactly,
// for example "fr" or "en".
func Supported(code string) bool {
	t, err := language.Parse(code)
	if err != nil {
		return false
	}

	for _, s := range supportedTags {
		if s == t {
			return true
		}
	}

	return false
}

// Code returns the two letter language code of the locale in effect for t,
// as used in the lang attribute of pages and in bilingual content.
func Code(t language.Tag) string {
	b, _ := match(t.String()).Base()

	return b.String()
}

// match resolves preferences to one of supportedTags.
// Each preference may be a single tag or an Accept-Language value.
func match(preferred ...string) language.Tag {
	if matcher == nil {
		return baseTag
	}

	_, index := language.MatchStrings(matcher, preferred...)

	return supportedTags[index]
}
