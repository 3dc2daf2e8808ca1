// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template/parse"
)

// templateFuncs are the functions the page templates may call, builtins
// included. The parser only checks that each name maps to a non-nil value.
var templateFuncs = func() map[string]any {
	names := []string{
		"tr", "trc", "trn", "text", "lang", "common", "requestID",
		"icon", "asset", "site", "active",
		"and", "or", "not", "len", "index", "slice",
		"eq", "ne", "lt", "le", "gt", "ge",
		"print", "printf", "println", "call", "html", "js", "urlquery",
	}

	m := make(map[string]any, len(names))
	for _, name := range names {
		m[name] = true
	}

	return m
}()

// extractTemplateRefs records the constant msgids passed to tr, trc and trn
// in the template file at path.
func extractTemplateRefs(cat *catalogue, path string) error {
	src, err := os.ReadFile(path) // #nosec G304 -- paths come from the command line
	if err != nil {
		return err
	}

	text := string(src)

	trees, err := parse.Parse(filepath.Base(path), text, "{{", "}}", templateFuncs)
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}

	for _, tree := range trees {
		walkTemplate(tree.Root, func(cmd *parse.CommandNode) {
			if k, ok := templateKey(cmd); ok {
				cat.add(k, path, 1+strings.Count(text[:cmd.Position()], "\n"))
			}
		})
	}

	return nil
}

// templateKey reads the msgid of a tr, trc or trn command. Calls whose
// msgid is not a string literal come from Go data and are skipped.
func templateKey(cmd *parse.CommandNode) (key, bool) {
	if len(cmd.Args) < 2 {
		return key{}, false
	}

	fn, ok := cmd.Args[0].(*parse.IdentifierNode)
	if !ok {
		return key{}, false
	}

	str := func(i int) (string, bool) {
		if i >= len(cmd.Args) {
			return "", false
		}

		s, ok := cmd.Args[i].(*parse.StringNode)
		if !ok {
			return "", false
		}

		return s.Text, true
	}

	switch fn.Ident {
	case "tr":
		if id, ok := str(1); ok {
			return key{id: id}, true
		}
	case "trc":
		ctx, ok1 := str(1)
		id, ok2 := str(2)

		if ok1 && ok2 {
			return key{ctx: ctx, id: id}, true
		}
	case "trn":
		singular, ok1 := str(1)
		plural, ok2 := str(2)

		if ok1 && ok2 {
			return key{id: singular, plural: plural}, true
		}
	}

	return key{}, false
}

// walkTemplate calls visit for every command of the tree under n.
func walkTemplate(n parse.Node, visit func(*parse.CommandNode)) {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}

		for _, c := range n.Nodes {
			walkTemplate(c, visit)
		}
	case *parse.ActionNode:
		walkTemplate(n.Pipe, visit)
	case *parse.PipeNode:
		if n == nil {
			return
		}

		for _, c := range n.Cmds {
			walkTemplate(c, visit)
		}
	case *parse.CommandNode:
		visit(n)

		for _, a := range n.Args {
			walkTemplate(a, visit)
		}
	case *parse.IfNode:
		walkBranch(&n.BranchNode, visit)
	case *parse.RangeNode:
		walkBranch(&n.BranchNode, visit)
	case *parse.WithNode:
		walkBranch(&n.BranchNode, visit)
	case *parse.TemplateNode:
		walkTemplate(n.Pipe, visit)
	}
}

func walkBranch(b *parse.BranchNode, visit func(*parse.CommandNode)) {
	walkTemplate(b.Pipe, visit)
	walkTemplate(b.List, visit)
	walkTemplate(b.ElseList, visit)
}
