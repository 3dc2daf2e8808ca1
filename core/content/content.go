// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package content loads the editorial content of the portal: landing page
sections, slides, news, team biographies and informational pages.

Every text carries its French and English version side by side in
assets/content/site.yaml. Interface strings are not content; they go through
package i18n.
*/
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/ambagabon/portail/server/assets"
)

// Path is the location of the content file in the asset tree.
const Path = "assets/content/site.yaml"

var (
	errNotLoaded = errors.New("content: Setup has not been called")
	errNoAssets  = errors.New("content: assets.FS is not set")
)

// Text is a text in both languages. A plain YAML string sets both.
type Text struct {
	FR string `yaml:"fr"`
	EN string `yaml:"en"`
}

// UnmarshalYAML accepts either a mapping with fr and en keys or a string.
func (t *Text) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	if plain, ok := raw.(string); ok {
		t.FR, t.EN = plain, plain

		return nil
	}

	type both Text

	var b both
	if err := unmarshal(&b); err != nil {
		return err
	}

	*t = Text(b)

	return nil
}

// In returns the text for the language code, French when the English
// version is missing.
func (t Text) In(code string) string {
	if code == "en" && t.EN != "" {
		return t.EN
	}

	return t.FR
}

// Link points to a page of the portal or to an external site.
type Link struct {
	Href     string `yaml:"href"  validate:"required"`
	Label    Text   `yaml:"label" validate:"required"`
	External bool   `yaml:"external"`
}

// Section is a titled block of text with optional bullets and links.
type Section struct {
	ID    string `yaml:"id"`
	Title Text   `yaml:"title"`
	Body  []Text `yaml:"body"  validate:"dive"`
	Items []Text `yaml:"items" validate:"dive"`
	Links []Link `yaml:"links" validate:"dive"`
}

// Slide is one picture of the landing page carousel.
type Slide struct {
	Image   string `yaml:"image" validate:"required"`
	Alt     Text   `yaml:"alt"`
	Caption Text   `yaml:"caption" validate:"required"`
}

// Card presents a person or a team on the landing page.
type Card struct {
	Image   string `yaml:"image" validate:"required"`
	Alt     Text   `yaml:"alt"`
	Role    Text   `yaml:"role"`
	Name    string `yaml:"name"`
	Summary Text   `yaml:"summary"`
	Link    Link   `yaml:"link"`
}

// NewsItem is a news card.
type NewsItem struct {
	Tag   Text `yaml:"tag"`
	Title Text `yaml:"title" validate:"required"`
	Body  Text `yaml:"body"`
}

// Page is an informational page reached from the navigation.
type Page struct {
	Slug       string    `yaml:"slug"       validate:"required"`
	Path       string    `yaml:"path"       validate:"required,startswith=/"`
	Breadcrumb []Text    `yaml:"breadcrumb" validate:"dive"`
	Title      Text      `yaml:"title"      validate:"required"`
	Lead       Text      `yaml:"lead"`
	Portrait   *Card     `yaml:"portrait"`
	Sections   []Section `yaml:"sections"   validate:"dive"`
	Back       *Link     `yaml:"back"`
}

// Contact holds the mission's contact details.
type Contact struct {
	Intro    Text   `yaml:"intro"`
	Address  string `yaml:"address"  validate:"required"`
	MapURL   string `yaml:"mapUrl"   validate:"required,url"`
	MapEmbed string `yaml:"mapEmbed" validate:"omitempty,url"`
	Email    string `yaml:"email"    validate:"required,email"`
	Phone    string `yaml:"phone"`
	Hours    Text   `yaml:"hours"`
	Services []Link `yaml:"services" validate:"dive"`
	Note     Text   `yaml:"note"`
}

// Site is the whole content file.
type Site struct {
	Name    Text `yaml:"name" validate:"required"`
	Tagline Text `yaml:"tagline"`
	Footer  Text `yaml:"footer"`

	Hero            Section    `yaml:"hero"`
	Slides          []Slide    `yaml:"slides"          validate:"min=1,dive"`
	Commission      Section    `yaml:"commission"`
	Representatives []Card     `yaml:"representatives" validate:"dive"`
	Diaspora        Section    `yaml:"diaspora"`
	Services        Section    `yaml:"services"`
	Invest          Section    `yaml:"invest"`
	WhyInvest       Section    `yaml:"whyInvest"`
	Gabon           Section    `yaml:"gabon"`
	Rwanda          Section    `yaml:"rwanda"`
	News            Section    `yaml:"news"`
	NewsItems       []NewsItem `yaml:"newsItems"       validate:"dive"`
	Contact         Contact    `yaml:"contact"`

	Pages []Page `yaml:"pages" validate:"dive"`
}

// Page returns the informational page called slug.
func (s *Site) Page(slug string) (Page, bool) {
	for _, p := range s.Pages {
		if p.Slug == slug {
			return p, true
		}
	}

	return Page{}, false
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and checks a content file.
func Parse(data []byte) (*Site, error) {
	site := &Site{}

	if err := yaml.UnmarshalWithOptions(data, site, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("decoding content: %w", err)
	}

	if err := validate.Struct(site); err != nil {
		return nil, fmt.Errorf("checking content: %w", err)
	}

	seen := make(map[string]bool, len(site.Pages))
	for _, p := range site.Pages {
		if seen[p.Slug] {
			return nil, fmt.Errorf("checking content: duplicate page %q", p.Slug)
		}

		seen[p.Slug] = true
	}

	return site, nil
}

var current atomic.Pointer[Site]

// Setup loads the content file from the asset tree. Calling it again
// replaces the content served.
func Setup() error {
	if assets.FS == nil {
		return errNoAssets
	}

	data, err := fs.ReadFile(assets.FS, Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", Path, err)
	}

	site, err := Parse(data)
	if err != nil {
		return err
	}

	current.Store(site)

	log.Info().
		Str("sys", "content").
		Int("pages", len(site.Pages)).
		Int("slides", len(site.Slides)).
		Msg("Loaded site content")

	return nil
}

// Get returns the loaded content. It panics before Setup.
func Get() *Site {
	site := current.Load()
	if site == nil {
		panic(errNotLoaded)
	}

	return site
}
