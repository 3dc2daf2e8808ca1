// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n translates the portal's interface text between French and
English using GNU gettext .po catalogues.

# Quick start

The msgid is the English UI text; do not invent keys. English is the
source language and needs no catalogue, French lives in po/fr.po.
Visitors without a usable preference get French, the BaseLocale.

	i18n.Tr(ctx, "Consular services")
	i18n.TrC(ctx, "nav", "Home") // disambiguation via context
	i18n.TrN(ctx, "{{.Count}} error", "{{.Count}} errors", n, "Count", n)

Templates call the "tr" function, bound to the request context:

	{{ tr "Consular services" }}

# Missing translations

By default, missing translations return the msgid unchanged. When
StrictMissingKeys is enabled, missing lookups are logged once
per locale+key and the returned text is visibly wrapped as "⟦...⟧".

# Formatting

Translations can include text/template placeholders. Provide
substitutions as alternating key-value pairs:

	i18n.Tr(ctx, "Reference: {{.Ref}}", "Ref", ref)

# Site content

Slides, news and staff biographies are not msgids. They carry both
languages in assets/content/site.yaml and are picked with [Code].
*/
package i18n
