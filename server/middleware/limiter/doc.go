// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter is a middleware that rate limits form submissions.

Only POST requests are counted. Clients are grouped by network (a /24 for
IPv4 and a /64 for IPv6 by default) and each network draws from its own
token bucket. Pass and block lists are checked first.
*/
package limiter
