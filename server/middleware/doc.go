// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware holds the HTTP middleware of the portal and the
CatchError adapter used by every page handler.

The chain itself is assembled in router.RegisterMiddleware; routes are
declared in router.DefineRoutes.
*/
package middleware
