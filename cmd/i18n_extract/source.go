// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// trArgs gives the argument index of the context, msgid and plural of each
// i18n function taking a msgid. -1 means the function has no such argument.
type trArgs struct {
	ctx, id, plural int
}

var trCalls = map[string]trArgs{
	"Tr":           {ctx: -1, id: 1, plural: -1},
	"TrC":          {ctx: 1, id: 2, plural: -1},
	"TrN":          {ctx: -1, id: 1, plural: 2},
	"TrNC":         {ctx: 1, id: 2, plural: 3},
	"NewUserError": {ctx: -1, id: 1, plural: -1},
}

// goScanner finds msgids in the syntax of one package: constants handed to
// the i18n functions above, and constants converted, implicitly or not, to
// i18n.MsgKey.
type goScanner struct {
	cat      *catalogue
	fset     *token.FileSet
	info     *types.Info
	i18nPkgs map[string]bool
}

// scanPackages records the msgids of every package in pkgs.
func scanPackages(cat *catalogue, pkgs []*packages.Package) {
	i18nPkgs := i18nPackages(pkgs)

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		s := &goScanner{cat: cat, fset: p.Fset, info: p.TypesInfo, i18nPkgs: i18nPkgs}

		for _, f := range p.Syntax {
			ast.Inspect(f, s.visit)
		}
	}
}

// i18nPackages returns the paths of the packages named i18n that declare
// a string type MsgKey.
func i18nPackages(pkgs []*packages.Package) map[string]bool {
	out := map[string]bool{}

	for _, p := range pkgs {
		if p.Name != "i18n" || p.Types == nil {
			continue
		}

		tn, ok := p.Types.Scope().Lookup("MsgKey").(*types.TypeName)
		if !ok {
			continue
		}

		if basic, ok := tn.Type().Underlying().(*types.Basic); ok && basic.Kind() == types.String {
			out[p.PkgPath] = true
		}
	}

	return out
}

func (s *goScanner) visit(n ast.Node) bool {
	switch x := n.(type) {
	case *ast.CallExpr:
		s.call(x)
	case *ast.CompositeLit:
		s.literal(x)
	case *ast.AssignStmt:
		if len(x.Lhs) == len(x.Rhs) {
			for i, lhs := range x.Lhs {
				if s.isMsgKey(s.info.TypeOf(lhs)) {
					s.addConst(x.Rhs[i], "", "")
				}
			}
		}
	}

	return true
}

// isMsgKey reports whether t is i18n.MsgKey.
func (s *goScanner) isMsgKey(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()

	return obj != nil && obj.Pkg() != nil && s.i18nPkgs[obj.Pkg().Path()] && obj.Name() == "MsgKey"
}

// constString evaluates expr to a constant string, following named
// constants and concatenations.
func (s *goScanner) constString(expr ast.Expr) (string, bool) {
	tv, ok := s.info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

// addConst records expr as a msgid when it is a constant string.
func (s *goScanner) addConst(expr ast.Expr, ctx, plural string) {
	id, ok := s.constString(expr)
	if !ok {
		return
	}

	pos := s.fset.Position(expr.Pos())
	s.cat.add(key{ctx: ctx, id: id, plural: plural}, pos.Filename, pos.Line)
}

func (s *goScanner) call(x *ast.CallExpr) {
	// i18n.MsgKey("...")
	if tv, ok := s.info.Types[x.Fun]; ok && tv.IsType() {
		if len(x.Args) == 1 && s.isMsgKey(tv.Type) {
			s.addConst(x.Args[0], "", "")
		}

		return
	}

	if sel, ok := x.Fun.(*ast.SelectorExpr); ok {
		if fn, ok := s.info.Uses[sel.Sel].(*types.Func); ok && fn.Pkg() != nil && s.i18nPkgs[fn.Pkg().Path()] {
			if args, ok := trCalls[fn.Name()]; ok {
				s.trCall(x, args)

				return
			}
		}
	}

	sig, ok := s.info.TypeOf(x.Fun).(*types.Signature)
	if !ok || sig.Params().Len() == 0 {
		return
	}

	params := sig.Params()
	last := params.Len() - 1

	for i, arg := range x.Args {
		var pt types.Type

		switch {
		case sig.Variadic() && i >= last:
			if x.Ellipsis.IsValid() {
				continue
			}

			pt = params.At(last).Type().(*types.Slice).Elem()
		case i <= last:
			pt = params.At(i).Type()
		default:
			return
		}

		if s.isMsgKey(pt) {
			s.addConst(arg, "", "")
		}
	}
}

// trCall records the msgid of a call to one of trCalls. Calls whose
// arguments are not all constant are skipped.
func (s *goScanner) trCall(x *ast.CallExpr, args trArgs) {
	str := func(i int) (string, bool) {
		if i < 0 {
			return "", true
		}

		if i >= len(x.Args) {
			return "", false
		}

		return s.constString(x.Args[i])
	}

	ctx, ok1 := str(args.ctx)
	plural, ok2 := str(args.plural)

	if ok1 && ok2 && args.id < len(x.Args) {
		s.addConst(x.Args[args.id], ctx, plural)
	}
}

// literal records constants placed in MsgKey slots of a composite literal:
// map values, slice elements and struct fields, keyed or positional.
func (s *goScanner) literal(x *ast.CompositeLit) {
	t := s.info.TypeOf(x)
	if t == nil {
		return
	}

	if p, ok := t.Underlying().(*types.Pointer); ok {
		t = p.Elem()
	}

	switch u := t.Underlying().(type) {
	case *types.Map:
		if !s.isMsgKey(u.Elem()) {
			return
		}

		for _, elt := range x.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				s.addConst(kv.Value, "", "")
			}
		}
	case *types.Slice:
		if !s.isMsgKey(u.Elem()) {
			return
		}

		for _, elt := range x.Elts {
			s.addConst(elt, "", "")
		}
	case *types.Struct:
		for i, elt := range x.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				if id, ok := kv.Key.(*ast.Ident); ok {
					if field, ok := s.info.Uses[id].(*types.Var); ok && s.isMsgKey(field.Type()) {
						s.addConst(kv.Value, "", "")
					}
				}

				continue
			}

			if i < u.NumFields() && s.isMsgKey(u.Field(i).Type()) {
				s.addConst(elt, "", "")
			}
		}
	}
}
