// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"cmp"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"time"
)

// key identifies a POT entry. plural is empty for singular entries.
type key struct {
	ctx    string
	id     string
	plural string
}

type ref struct {
	file string
	line int
}

// catalogue collects the source references of every msgid.
type catalogue struct {
	root string
	refs map[key][]ref
}

func newCatalogue(root string) *catalogue {
	return &catalogue{root: root, refs: map[key][]ref{}}
}

// add records k at file:line, with file made relative to the module root.
func (c *catalogue) add(k key, file string, line int) {
	if rel, err := filepath.Rel(c.root, file); err == nil {
		file = rel
	}

	c.refs[k] = append(c.refs[k], ref{file: filepath.ToSlash(file), line: line})
}

// write emits the POT file: the header, then one entry per key sorted by
// context, msgid and plural, each with its sorted, deduplicated references.
func (c *catalogue) write(w io.Writer, version string, now time.Time) {
	fmt.Fprintln(w, `msgid ""`)
	fmt.Fprintln(w, `msgstr ""`)
	fmt.Fprintf(w, "\"Project-Id-Version: Portail %s\\n\"\n", version)
	fmt.Fprintf(w, "\"POT-Creation-Date: %s\\n\"\n", now.UTC().Format("2006-01-02 15:04+0000"))
	fmt.Fprintln(w, `"Language: en\n"`)
	fmt.Fprintln(w, `"Report-Msgid-Bugs-To: https://codeberg.org/ambagabon/portail/issues\n"`)
	fmt.Fprintln(w, `"MIME-Version: 1.0\n"`)
	fmt.Fprintln(w, `"Content-Type: text/plain; charset=UTF-8\n"`)
	fmt.Fprintln(w, `"Content-Transfer-Encoding: 8bit\n"`)
	fmt.Fprintln(w, `"Plural-Forms: nplurals=INTEGER; plural=EXPRESSION;\n"`)

	keys := make([]key, 0, len(c.refs))
	for k := range c.refs {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b key) int {
		return cmp.Or(cmp.Compare(a.ctx, b.ctx), cmp.Compare(a.id, b.id), cmp.Compare(a.plural, b.plural))
	})

	for _, k := range keys {
		refs := slices.Clone(c.refs[k])
		slices.SortFunc(refs, func(a, b ref) int {
			return cmp.Or(cmp.Compare(a.file, b.file), cmp.Compare(a.line, b.line))
		})

		fmt.Fprintln(w)
		fmt.Fprint(w, "#:")

		for _, r := range slices.Compact(refs) {
			fmt.Fprintf(w, " %s:%d", r.file, r.line)
		}

		fmt.Fprintln(w)

		if k.ctx != "" {
			fmt.Fprintf(w, "msgctxt %q\n", k.ctx)
		}

		fmt.Fprintf(w, "msgid %q\n", k.id)

		if k.plural == "" {
			fmt.Fprintln(w, `msgstr ""`)

			continue
		}

		fmt.Fprintf(w, "msgid_plural %q\n", k.plural)
		fmt.Fprintln(w, `msgstr[0] ""`)
		fmt.Fprintln(w, `msgstr[1] ""`)
	}
}
