// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/ambagabon/portail/server/assets"
)

var (
	// poDomain is the gettext domain to load under each locale.
	poDomain = "portail"

	// localesByTag maps canonical BCP 47 tags, for example "fr", to their
	// loaded gotext.Locale. The source locale has no entry.
	localesByTag map[string]*gotext.Locale

	// supportedTags holds BaseLocale, then SourceLocale, then every other
	// locale with a catalogue. Index i matches the matcher's index i.
	supportedTags []language.Tag

	// matcher is a private [language.Matcher] derived from supportedTags.
	matcher language.Matcher
)

// Setup loads gettext catalogues from the asset tree and builds the
// language matcher.
//
// Catalogues live under po/<locale>.po; hyphens and underscores are both
// accepted in <locale>. The template po/portail.pot is ignored. BaseLocale
// and SourceLocale are always supported, even without a catalogue.
//
// Calling Setup again replaces the previously loaded locales.
func Setup() error {
	Logger = log.With().Str("sys", "i18n").Logger()

	localesByTag = make(map[string]*gotext.Locale)
	supportedTags = nil
	matcher = nil

	if assets.FS == nil {
		return errNoAssets
	}

	entries, err := fs.ReadDir(assets.FS, "po")
	if err != nil {
		return fmt.Errorf("failed to read po directory: %w", err)
	}

	var loaded []language.Tag

	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(fileName, ".po") {
			continue
		}

		t, err := language.Parse(strings.ReplaceAll(strings.TrimSuffix(fileName, ".po"), "_", "-"))
		if err != nil {
			Logger.Warn().Err(err).Str("file", fileName).Msg("Skipping invalid locale file")

			continue
		}

		canonical := t.String()

		po := gotext.NewPoFS(assets.FS)
		po.ParseFile(path.Join("po", fileName))

		loc := gotext.NewLocale("", canonical) // base path unused with AddTranslator
		loc.AddTranslator(poDomain, po)

		localesByTag[canonical] = loc
		loaded = append(loaded, t)

		Logger.Info().
			Str("locale", canonical).
			Str("domain", poDomain).
			Msg("Loaded locale")
	}

	if _, ok := localesByTag[baseTag.String()]; !ok {
		Logger.Warn().Str("locale", BaseLocale).Msg("No catalogue for the base locale, msgids will be shown")
	}

	// baseTag first makes it the matcher's fallback.
	all := []language.Tag{baseTag}
	if sourceTag != baseTag {
		all = append(all, sourceTag)
	}

	slices.SortFunc(loaded, func(a, b language.Tag) int { return strings.Compare(a.String(), b.String()) })

	for _, t := range loaded {
		if !slices.Contains(all, t) {
			all = append(all, t)
		}
	}

	supportedTags = all
	matcher = language.NewMatcher(all)

	return nil
}
