// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package dispatch

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
)

// LocalEndpoint names the portal's own registration route when submissions
// are served in process. The host never resolves; see LocalClient.
const LocalEndpoint = "http://portail.local" + RegistrationPath

// LocalClient returns a client that answers every request with handler
// inside the process. Nothing is sent over the network, whatever the
// request URL says.
func LocalClient(handler http.Handler) *http.Client {
	return &http.Client{
		Transport: handlerTransport{handler: handler},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type handlerTransport struct {
	handler http.Handler
}

func (t handlerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		defer req.Body.Close()
	}

	w := &bufferedResponse{header: http.Header{}}
	t.handler.ServeHTTP(w, req)

	if w.status == 0 {
		w.status = http.StatusOK
	}

	return &http.Response{
		Status:        strconv.Itoa(w.status) + " " + http.StatusText(w.status),
		StatusCode:    w.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        w.header,
		Body:          io.NopCloser(&w.body),
		ContentLength: int64(w.body.Len()),
		Request:       req,
	}, nil
}

// bufferedResponse is the http.ResponseWriter handed to the local handler.
type bufferedResponse struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (w *bufferedResponse) Header() http.Header {
	return w.header
}

func (w *bufferedResponse) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *bufferedResponse) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	return w.body.Write(p)
}
