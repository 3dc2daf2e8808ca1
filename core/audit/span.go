// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"runtime/trace"
	"strconv"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog/log"
)

// TrafficDestination describes the logical destination of an HTTP request.
type TrafficDestination string

const (
	// ToUser is a response served to a visitor.
	ToUser TrafficDestination = "user"
	// ToEndpoint is a submission sent to the registration endpoint.
	ToEndpoint TrafficDestination = "endpoint"

	bodyFilePermissions = 0o600
)

var (
	// SaveBodies enables writing outbound request bodies to BodyDirectory.
	SaveBodies bool

	// BodyDirectory is where outbound request bodies are written.
	BodyDirectory string
)

// Span represents an HTTP request in flight.
type Span struct {
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	Destination TrafficDestination
	RequestID   string
	Method      string
	URL         string
	StatusCode  int
	Error       error

	// Body is only written to disk when SaveBodies is set, never logged.
	Body []byte

	bodyFilename string
}

// ServerTimingName encodes the span as a Server-Timing metric name.
// The URL is base64 encoded without padding to stay within the token syntax.
func (span Span) ServerTimingName() string {
	return string(span.Destination) + "$" + span.Method + "$" + base64.RawURLEncoding.EncodeToString([]byte(span.URL))
}

// Begin starts timing the span and opens a runtime/trace task.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "http."+string(span.Destination))

	if timing := servertiming.FromContext(ctx); timing != nil {
		span.metric = timing.NewMetric(span.ServerTimingName())
		span.metric.Extra = map[string]string{
			"start": strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64),
		}
	}

	return ctx
}

// End stops timing the span. Calling End more than once is harmless.
func (span *Span) End() {
	if span.task == nil {
		return
	}

	span.duration = time.Since(span.start)
	span.task.End()

	if span.metric != nil {
		span.metric.Duration = span.duration
	}

	span.task = nil
}

// Duration reports the measured duration once End has been called.
func (span *Span) Duration() time.Duration {
	return span.duration
}

// Log writes the span at debug level and saves outbound bodies if enabled.
func (span *Span) Log() {
	if span.Destination == ToEndpoint && SaveBodies && len(span.Body) > 0 {
		span.saveBody()
	}

	event := log.Debug().
		Str("sys", "http").
		Str("method", span.Method).
		Str("url", span.URL).
		Int("status_code", span.StatusCode).
		Str("len", humanizeSize(len(span.Body))).
		Dur("dur", span.duration).
		Str("destination", string(span.Destination)).
		Str("request_id", span.RequestID)

	if span.bodyFilename != "" {
		event.Str("body_filename", span.bodyFilename)
	}

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}

func (span *Span) saveBody() {
	filename := filepath.Join(BodyDirectory, span.RequestID+".json")

	if err := os.WriteFile(filename, span.Body, bodyFilePermissions); err != nil {
		log.Err(err).
			Str("request_id", span.RequestID).
			Msg("Failed to save dispatched body")

		return
	}

	span.bodyFilename = filename
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
)

func humanizeSize(x int) string {
	switch {
	case x < bytesInKB:
		return strconv.Itoa(x)
	case x < bytesInMB:
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	default:
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}
}
