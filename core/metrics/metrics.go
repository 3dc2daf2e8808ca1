// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package metrics exposes Prometheus counters for form submissions and the
// registration endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected" // bad or expired form token
)

// Registry holds every portal metric. It is separate from the default
// registry so tests can gather it without side effects from other packages.
var Registry = prometheus.NewRegistry()

var (
	submissions = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "portail_form_submissions_total",
		Help: "Form submissions by form and outcome",
	}, []string{"form", "outcome"})

	registrations = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "portail_registrations_received_total",
		Help: "Bodies received by the registration API",
	})

	dispatchDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portail_dispatch_duration_seconds",
		Help:    "Duration of the dispatch of a valid submission",
		Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"form"})
)

//nolint:gochecknoinits
func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// CountSubmission records the outcome of a form submission.
func CountSubmission(form, outcome string) {
	submissions.WithLabelValues(form, outcome).Inc()
}

// CountRegistration records a body received by the registration API.
func CountRegistration() {
	registrations.Inc()
}

// ObserveDispatch records how long a dispatch took.
func ObserveDispatch(form string, d time.Duration) {
	dispatchDuration.WithLabelValues(form).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
