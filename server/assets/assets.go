// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the application's static assets.

main assigns the embedded file system at startup. Tests point FS at the
repository checkout instead.
*/
package assets

import "io/fs"

// FS is the root of the asset tree: views, po, content, css, js, icons, img.
var FS fs.FS
