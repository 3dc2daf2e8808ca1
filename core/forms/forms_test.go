// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package forms

import (
	"context"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/ambagabon/portail/core/dispatch"
	"codeberg.org/ambagabon/portail/i18n"
)

// validValues returns a complete, valid submission for every form.
func validValues() map[string]url.Values {
	return map[string]url.Values{
		SlugRegistration: {
			"nomComplet":              {"MABICKA Marie Jeanne"},
			"email":                   {"marie@example.com"},
			"telephone":               {"+250 788 000 000"},
			"dateNaissance":           {"1990-05-17"},
			"lieuNaissance":           {"Libreville, Gabon"},
			"nationalite":             {"Gabonaise"},
			"passeportNumero":         {"PP1234567"},
			"passeportDateDelivrance": {"2020-01-10"},
			"passeportDateExpiration": {"2030-01-09"},
			"adresse":                 {"KG 9 Ave, Kigali"},
			"statut":                  {"worker"},
			"contactUrgenceNom":       {"MABICKA Paul (frère)"},
			"contactUrgenceTelephone": {"+241 66 00 00 00"},
			"consentement":            {"on"},
		},
		SlugCivilStatus: {
			"nomComplet":        {"NZE Jean"},
			"email":             {"jean@example.com"},
			"telephone":         {"+250 788 111 111"},
			"typeActe":          {"birth"},
			"personneConcernee": {"NZE Léa"},
			"details":           {"Naissance le 3 mars à Kigali"},
		},
		SlugPassport: {
			"nomComplet":  {"OBAME Luc"},
			"email":       {"luc@example.com"},
			"telephone":   {"+250 788 222 222"},
			"typeDemande": {"renewal"},
			"motif":       {"Passeport expiré en juin"},
		},
		SlugInvestor: {
			"nomComplet":         {"NGOBA Isaac"},
			"email":              {"isaac@example.com"},
			"telephone":          {"+241 77 00 00 00"},
			"paysOrigine":        {"Gabon"},
			"secteur":            {"real-estate"},
			"titreProjet":        {"Résidences Kigali"},
			"localisationProjet": {"Kigali"},
			"budget":             {"50 000 000 FCFA"},
			"description":        {"Construction de logements étudiants à Kigali."},
		},
		SlugStudent: {
			"nomComplet":    {"NGUEMA Léa-Christelle"},
			"email":         {"lea@example.com"},
			"telephone":     {"+250 788 333 333"},
			"universite":    {"University of Rwanda"},
			"filiere":       {"Médecine"},
			"niveau":        {"m1"},
			"typeProgramme": {"self-funded"},
			"dateArrivee":   {"2024-09-01"},
		},
		SlugAlert: {
			"nomComplet":   {"MOUSSAVOU Eric"},
			"telephone":    {"+250 788 444 444"},
			"typeUrgence":  {"medical"},
			"localisation": {"Kimironko, Kigali"},
			"description":  {"Accident de moto, hospitalisé au CHUK."},
		},
	}
}

// recorder counts dispatches and remembers the last one.
type recorder struct {
	calls int
	last  dispatch.Submission
	err   error
}

func (r *recorder) Dispatch(_ context.Context, sub dispatch.Submission) (dispatch.Receipt, error) {
	r.calls++
	r.last = sub

	if r.err != nil {
		return dispatch.Receipt{StatusCode: 502}, r.err
	}

	return dispatch.Receipt{StatusCode: 200, Success: true, Message: "ok"}, nil
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	paths := map[string]bool{}

	for _, d := range All() {
		assert.False(t, paths[d.Path], "duplicate path %s", d.Path)
		paths[d.Path] = true

		got, ok := BySlug(d.Slug)
		require.True(t, ok)
		assert.Same(t, d, got)
		assert.NotEmpty(t, d.ReferencePrefix)
	}

	assert.Len(t, paths, 6)

	_, ok := BySlug("visa")
	assert.False(t, ok)

	reg, _ := BySlug(SlugRegistration)
	assert.True(t, reg.Remote)
	assert.True(t, reg.ClearOnSuccess)
	assert.Len(t, reg.Steps, 3)

	whatsapp, ok := reg.Field("whatsapp")
	require.True(t, ok)
	assert.False(t, whatsapp.Required)

	consent, _ := reg.Field("consentement")
	assert.True(t, consent.Required)

	alert, _ := BySlug(SlugAlert)
	email, _ := alert.Field("email")
	assert.False(t, email.Required)
}

func TestPrepareRejectsMismatches(t *testing.T) {
	t.Parallel()

	missing := &Definition{
		Slug:      "broken",
		Sections:  []Section{{Fields: []Field{{Name: "nomComplet"}}}},
		newRecord: func() any { return &Passport{} },
	}
	assert.Panics(t, missing.prepare)

	options := &Definition{
		Slug: "broken",
		Sections: []Section{{Fields: []Field{
			{Name: "nomComplet"}, {Name: "email"}, {Name: "telephone"}, {Name: "numeroPasseport"}, {Name: "motif"},
			{Name: "typeDemande", Input: InputSelect, Options: []Option{{Value: "renewal"}}},
		}}},
		newRecord: func() any { return &Passport{} },
	}
	assert.Panics(t, options.prepare)
}

func TestSubmitValidForms(t *testing.T) {
	t.Parallel()

	for slug, values := range validValues() {
		t.Run(slug, func(t *testing.T) {
			t.Parallel()

			def, ok := BySlug(slug)
			require.True(t, ok)

			rec := &recorder{}
			c := NewController(def, rec)
			c.Bind(values)

			require.NoError(t, c.Submit(t.Context()))

			state := c.State()
			assert.Equal(t, Submitted, state.Status)
			assert.Nil(t, state.Errors)
			assert.Equal(t, 1, rec.calls)
			assert.Regexp(t, regexp.MustCompile(`^`+def.ReferencePrefix+`-\d{8}-[A-Z2-7]{7}$`), state.Reference)
			assert.Equal(t, rec.last.Reference, state.Reference)
			assert.Equal(t, slug, rec.last.Form)

			if def.ClearOnSuccess {
				assert.Empty(t, state.Values)
			} else {
				assert.Equal(t, values.Get("nomComplet"), state.Value("nomComplet"))
			}
		})
	}
}

func TestSubmitEmptyRequiredField(t *testing.T) {
	t.Parallel()

	for slug, values := range validValues() {
		def, _ := BySlug(slug)

		for _, f := range def.Fields() {
			if !f.Required {
				continue
			}

			t.Run(slug+"/"+f.Name, func(t *testing.T) {
				t.Parallel()

				in := url.Values{}
				for k, v := range values {
					in[k] = v
				}

				in.Set(f.Name, "   ")

				rec := &recorder{}
				c := NewController(def, rec)
				c.Bind(in)

				require.ErrorIs(t, c.Submit(t.Context()), ErrInvalid)

				state := c.State()
				assert.Equal(t, []string{f.Name}, state.Errors.Fields())
				assert.Equal(t, Idle, state.Status)
				assert.Zero(t, rec.calls)
			})
		}
	}
}

func TestSubmitRejectsEmailWithoutAt(t *testing.T) {
	t.Parallel()

	for slug, values := range validValues() {
		def, _ := BySlug(slug)
		if _, ok := def.Field("email"); !ok {
			continue
		}

		t.Run(slug, func(t *testing.T) {
			t.Parallel()

			c := NewController(def, &recorder{})
			c.Bind(merge(values, "email", "marie.example.com"))

			require.ErrorIs(t, c.Submit(t.Context()), ErrInvalid)
			assert.Equal(t, []string{"email"}, c.State().Errors.Fields())
		})
	}
}

func TestRegistrationConsent(t *testing.T) {
	t.Parallel()

	def, _ := BySlug(SlugRegistration)
	values := validValues()[SlugRegistration]

	for _, consent := range []string{"", "off", "false"} {
		c := NewController(def, &recorder{})
		c.Bind(merge(values, "consentement", consent))

		require.ErrorIs(t, c.Submit(t.Context()), ErrInvalid)
		assert.Equal(t, i18n.MsgKey("You must give your consent to continue."), c.State().Errors["consentement"])
	}

	c := NewController(def, &recorder{})
	c.Bind(merge(values, "consentement", "maybe"))
	require.ErrorIs(t, c.Submit(t.Context()), ErrInvalid)
	assert.True(t, c.State().Errors.Has("consentement"))
}

func TestRegistrationRecordMatchesInput(t *testing.T) {
	t.Parallel()

	def, _ := BySlug(SlugRegistration)
	values := validValues()[SlugRegistration]

	rec := &recorder{}
	c := NewController(def, rec)
	c.Bind(merge(values, "nomComplet", "  <b>MABICKA</b> Marie Jeanne "))

	require.NoError(t, c.Submit(t.Context()))

	got, ok := rec.last.Record.(*Registration)
	require.True(t, ok)
	assert.Equal(t, "MABICKA Marie Jeanne", got.NomComplet)
	assert.Equal(t, "MABICKA Paul (frère)", got.ContactUrgenceNom, "text survives cleaning")
	assert.Equal(t, "worker", got.Statut)
	assert.True(t, got.Consentement)
	assert.Empty(t, got.Whatsapp)
}

func TestSelectRejectsUnknownCode(t *testing.T) {
	t.Parallel()

	def, _ := BySlug(SlugStudent)

	c := NewController(def, &recorder{})
	c.Bind(merge(validValues()[SlugStudent], "niveau", "Licence 1"))

	require.ErrorIs(t, c.Submit(t.Context()), ErrInvalid)
	assert.Equal(t, i18n.MsgKey("Level of study is required."), c.State().Errors["niveau"])
}

func TestMinimumLength(t *testing.T) {
	t.Parallel()

	def, _ := BySlug(SlugInvestor)

	c := NewController(def, &recorder{})
	c.Bind(merge(validValues()[SlugInvestor], "description", "Trop court"))

	require.ErrorIs(t, c.Submit(t.Context()), ErrInvalid)
	assert.Equal(t, i18n.MsgKey("The description must contain at least 20 characters."), c.State().Errors["description"])
}

func TestDispatchFailureKeepsValues(t *testing.T) {
	t.Parallel()

	def, _ := BySlug(SlugRegistration)
	values := validValues()[SlugRegistration]

	rec := &recorder{err: dispatch.ErrEndpointStatus}
	c := NewController(def, rec)
	c.Bind(values)

	err := c.Submit(t.Context())
	require.ErrorIs(t, err, dispatch.ErrEndpointStatus)

	state := c.State()
	assert.Equal(t, Idle, state.Status)
	assert.True(t, state.Failed)
	assert.Equal(t, values.Get("email"), state.Value("email"))
	assert.Empty(t, state.Reference)
	assert.Equal(t, 1, rec.calls)
}

func TestSubmitWhileSubmitting(t *testing.T) {
	t.Parallel()

	def, _ := BySlug(SlugPassport)

	entered := make(chan struct{})
	release := make(chan struct{})

	c := NewController(def, dispatch.Func(func(context.Context, dispatch.Submission) (dispatch.Receipt, error) {
		close(entered)
		<-release

		return dispatch.Receipt{Success: true}, nil
	}))
	c.Bind(validValues()[SlugPassport])

	done := make(chan error, 1)

	go func() { done <- c.Submit(context.Background()) }()

	<-entered
	assert.Equal(t, Submitting, c.State().Status)
	require.ErrorIs(t, c.Submit(t.Context()), ErrInProgress)

	close(release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first submission did not finish")
	}

	assert.Equal(t, Submitted, c.State().Status)
}

func TestReset(t *testing.T) {
	t.Parallel()

	def, _ := BySlug(SlugCivilStatus)

	c := NewController(def, &recorder{})
	c.Bind(validValues()[SlugCivilStatus])
	require.NoError(t, c.Submit(t.Context()))
	require.Equal(t, Submitted, c.State().Status)
	require.NotEmpty(t, c.State().Values)

	c.Reset()

	assert.Equal(t, State{Status: Idle, Values: map[string]string{}}, c.State())
}

func TestBindIgnoresUnknownKeys(t *testing.T) {
	t.Parallel()

	def, _ := BySlug(SlugPassport)

	c := NewController(def, &recorder{})
	c.Bind(url.Values{"_token": {"x"}, "motif": {" Perte "}, "admin": {"true"}})

	assert.Equal(t, map[string]string{"motif": "Perte"}, c.State().Values)
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "submitting", Submitting.String())
	assert.Equal(t, "submitted", Submitted.String())
	assert.Equal(t, "Status(7)", Status(7).String())
}

func TestClean(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Transport & logistique", clean(" Transport &amp; logistique "))
	assert.Equal(t, "l'ambassade", clean("l'ambassade"))
	assert.Equal(t, "alert", clean("<script>x</script>alert"))
	assert.Empty(t, clean("  \t "))

	tests := []struct {
		name, in, want string
	}{
		{name: "encoded tag", in: "&lt;img src=x onerror=alert(1)&gt;", want: ""},
		{name: "encoded inline markup", in: "&lt;b&gt;bold&lt;/b&gt;", want: "bold"},
		{name: "double encoded", in: "&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;", want: ""},
		{name: "tag rebuilt from pieces", in: "<<b>script>alert(1)<</b>/script>", want: ""},
		{name: "brackets around plain words", in: "Kigali <KG 7 Ave> Kimihurura", want: "Kigali <KG 7 Ave> Kimihurura"},
		{name: "comparison", in: "taille < 2 m", want: "taille < 2 m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := clean(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, clean(got), "clean is idempotent")
		})
	}
}

func merge(values url.Values, key, value string) url.Values {
	out := url.Values{}
	for k, v := range values {
		out[k] = v
	}

	out.Set(key, value)

	return out
}
