// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package audit records HTTP traffic: requests served to visitors and
requests sent to the registration endpoint.
*/
package audit

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger installs a readable console logger used until the
// configuration has been loaded.
func SetDefaultLogger() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})
}
