// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

const (
	// Server configuration constants.
	host      = "127.0.0.1:8282"
	authority = "http://127.0.0.1:8282"

	// Polling constants.
	retryCount  = 10
	dialTimeout = 250 * time.Millisecond
)

// httpTestCase defines a test case.
type httpTestCase struct {
	URL                string
	Method             string
	ExpectedStatusCode int

	// POST requests specific fields
	FormData map[string]string
}

// setDefault sets the default values for the test case.
func (c *httpTestCase) setDefault() {
	if c.ExpectedStatusCode == 0 {
		c.ExpectedStatusCode = http.StatusOK
	}
}

// TestMain starts the server and waits for it to be available before
// running tests.
func TestMain(m *testing.M) {
	os.Setenv("PORTAIL_HOST", "127.0.0.1")
	os.Setenv("PORTAIL_PORT", "8282")
	os.Setenv("PORTAIL_FORM_REQUIRE_TOKEN", "false")

	go func() {
		if err := run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if !waitForServerReady() {
		log.Fatalf("Server did not start in time")
	}

	os.Exit(m.Run())
}

// waitForServerReady polls the server until it's available or the retries are exhausted.
func waitForServerReady() bool {
	for range retryCount {
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err == nil {
			_ = conn.Close()

			return true
		}

		time.Sleep(dialTimeout)
	}

	return false
}

// TestBasicAllRoutes requests every page of the portal.
func TestBasicAllRoutes(t *testing.T) {
	t.Parallel()

	testCases := []httpTestCase{
		{URL: "/", Method: http.MethodGet},
		{URL: "/?lang=en", Method: http.MethodGet},
		{URL: "/services", Method: http.MethodGet},
		{URL: "/services/attestations", Method: http.MethodGet},
		{URL: "/services/legalisations", Method: http.MethodGet},
		{URL: "/infos-pratiques", Method: http.MethodGet},
		{URL: "/evenements", Method: http.MethodGet},
		{URL: "/urgences", Method: http.MethodGet},
		{URL: "/equipe", Method: http.MethodGet},
		{URL: "/equipe/ambassadeur", Method: http.MethodGet},
		{URL: "/equipe/consul", Method: http.MethodGet},

		{URL: "/immatriculation", Method: http.MethodGet},
		{URL: "/services/etat-civil", Method: http.MethodGet},
		{URL: "/services/passeports", Method: http.MethodGet},
		{URL: "/investisseurs", Method: http.MethodGet},
		{URL: "/etudiants", Method: http.MethodGet},
		{URL: "/urgences/avertisseur", Method: http.MethodGet},

		{URL: "/css/portail.css", Method: http.MethodGet},
		{URL: "/robots.txt", Method: http.MethodGet},
		{URL: "/healthz", Method: http.MethodGet},

		{URL: "/nowhere", Method: http.MethodGet, ExpectedStatusCode: http.StatusNotFound},

		// Empty submissions are refused field by field.
		{URL: "/immatriculation", Method: http.MethodPost, ExpectedStatusCode: http.StatusUnprocessableEntity},
		{URL: "/urgences/avertisseur", Method: http.MethodPost, ExpectedStatusCode: http.StatusUnprocessableEntity},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s %s", tc.Method, tc.URL), func(t *testing.T) {
			t.Parallel()
			tc.setDefault()

			resp := makeRequest(t, buildRequestWithFormData(t, authority+tc.URL, tc.Method, tc.FormData))
			defer resp.Body.Close()

			if resp.StatusCode != tc.ExpectedStatusCode {
				t.Errorf("expected status %d, got %d", tc.ExpectedStatusCode, resp.StatusCode)
			}
		})
	}
}

// TestRegistrationRoundTrip submits a complete registration, which the
// server dispatches to its own registration endpoint.
func TestRegistrationRoundTrip(t *testing.T) {
	t.Parallel()

	form := map[string]string{
		"nomComplet":              "MABICKA Marie Jeanne",
		"email":                   "marie@example.com",
		"telephone":               "+250 788 000 000",
		"dateNaissance":           "1990-04-12",
		"lieuNaissance":           "Libreville",
		"nationalite":             "Gabonaise",
		"passeportNumero":         "PP1234567",
		"passeportDateDelivrance": "2020-01-10",
		"passeportDateExpiration": "2030-01-09",
		"adresse":                 "KN 5 Rd, Kigali",
		"statut":                  "worker",
		"contactUrgenceNom":       "MABICKA Paul (frère)",
		"contactUrgenceTelephone": "+241 66 00 00 00",
		"consentement":            "on",
	}

	resp := makeRequest(t, buildRequestWithFormData(t, authority+"/immatriculation", http.MethodPost, form))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func buildRequestWithFormData(t *testing.T, link, method string, formData map[string]string) *http.Request {
	t.Helper()

	form := url.Values{}

	for k, v := range formData {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(context.TODO(), method, link, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0")

	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	return req
}

func makeRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	return resp
}
