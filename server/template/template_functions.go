// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package template provides the functions available to the page templates and
the icon cache they draw from.

Functions that translate are bound to the request context by Funcs; the
templates are parsed once with Funcs(context.Background()) and cloned with
request-bound functions at render time.
*/
package template

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"codeberg.org/ambagabon/portail/config"
	"codeberg.org/ambagabon/portail/core/content"
	"codeberg.org/ambagabon/portail/i18n"
	"codeberg.org/ambagabon/portail/server/assets"
	"codeberg.org/ambagabon/portail/server/request_context"
	"codeberg.org/ambagabon/portail/server/template/commondata"
)

// IconsDir is where LoadIcons looks by default.
const IconsDir = "assets/icons"

// iconCache holds all of our SVGs keyed by filename (without the “.svg” suffix).
var iconCache = make(map[string]template.HTML)

// LoadIcons reads every .svg file of dir into the icon cache.
func LoadIcons(dir string) error {
	entries, err := fs.ReadDir(assets.FS, dir)
	if err != nil {
		return fmt.Errorf("reading icons directory %q: %w", dir, err)
	}

	cache := make(map[string]template.HTML, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".svg") {
			continue
		}

		// The embedded filesystem uses forward slashes on every OS.
		fullPath := path.Join(dir, name)

		data, err := fs.ReadFile(assets.FS, fullPath)
		if err != nil {
			return fmt.Errorf("reading icon %q: %w", fullPath, err)
		}

		// #nosec G203 -- icons are shipped with the binary.
		cache[strings.TrimSuffix(name, ".svg")] = template.HTML(data)
	}

	iconCache = cache

	return nil
}

// Icon returns the inline SVG called name, or nothing when it is unknown.
func Icon(name string) template.HTML {
	return iconCache[name]
}

// Funcs returns the template functions bound to ctx.
func Funcs(ctx context.Context) template.FuncMap {
	code := i18n.Code(i18n.TagFrom(ctx))

	return template.FuncMap{
		"tr": func(msgid any, kv ...any) string {
			return i18n.Tr(ctx, msgidOf(msgid), kv...)
		},
		"trc": func(contextKey string, msgid any, kv ...any) string {
			return i18n.TrC(ctx, contextKey, msgidOf(msgid), kv...)
		},
		"trn": func(singular, plural string, n int, kv ...any) string {
			return i18n.TrN(ctx, singular, plural, n, kv...)
		},
		"text": func(t content.Text) string {
			return t.In(code)
		},
		"lang": func() string {
			return code
		},
		"common": func() commondata.PageCommonData {
			return request_context.FromContext(ctx).CommonData
		},
		"requestID": func() string {
			return request_context.FromContext(ctx).RequestID
		},
		"icon":  Icon,
		"asset": Asset,
		"site":  content.Get,
		"active": func(prefix string) bool {
			current := request_context.FromContext(ctx).CommonData.CurrentPath

			return current == prefix || (prefix != "/" && strings.HasPrefix(current, prefix+"/"))
		},
	}
}

// Asset appends the instance cache ID to a static file path so that
// browsers fetch it again after a deployment.
func Asset(p string) string {
	return p + "?v=" + config.Global.Instance.FileServerCacheID
}

// msgidOf accepts the msgid forms found in page data.
func msgidOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case i18n.MsgKey:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
