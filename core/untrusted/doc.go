// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package untrusted reads and writes the public state of a request.

Public state, HTTP cookies, is received from the user agent and can be
anything. Callers must validate what they read.
*/
package untrusted
