// Package assemble orders synthesized fragments into one generated
// unit per namespace: header, imports, bootstrap fragments for the
// foundational namespaces, foreign-call declarations, then wrapper
// declarations.
package assemble

import (
	"fmt"

	"github.com/dave/jennifer/jen"
	"github.com/gobwas/glob"

	"github.com/gtkgen/girgen/internal/model"
)

// defaultDeny lists metadata item names that are never bound eagerly.
// These entry points are variadic or demand dynamic loading, neither
// of which survives the fixed-signature foreign declarations.
var defaultDeny = []string{
	"GLib.assertion_message*",
	"GLib.log",
	"GLib.log_structured",
	"GLib.printf*",
	"GObject.signal_emit*",
}

// DenyList is the compiled skip set applied unconditionally before
// synthesis. A deny-list skip is deliberate, not an error path.
type DenyList []glob.Glob

// CompileDeny compiles the fixed default patterns plus any
// user-supplied extras.
func CompileDeny(extra []string) (DenyList, error) {
	patterns := append(append([]string(nil), defaultDeny...), extra...)
	out := make(DenyList, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("deny pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// Skip reports whether the named item is on the deny list.
func (d DenyList) Skip(n model.Name) bool {
	s := n.String()
	for _, g := range d {
		if g.Match(s) || g.Match(n.Local) {
			return true
		}
	}
	return false
}

// Unit accumulates one namespace's output as an ordered sequence with
// two partitions. Emission order is explicit: finalization performs
// the partitioning, so nothing downstream depends on append order as
// a side channel.
type Unit struct {
	ns       string
	pkgPath  string
	pkgName  string
	foreign  []jen.Code
	wrappers []jen.Code
}

func NewUnit(ns, pkgPath, pkgName string) *Unit {
	return &Unit{ns: ns, pkgPath: pkgPath, pkgName: pkgName}
}

func (u *Unit) Namespace() string { return u.ns }

// AddForeign appends native-call declarations.
func (u *Unit) AddForeign(code ...jen.Code) {
	for _, c := range code {
		if c != nil {
			u.foreign = append(u.foreign, c)
		}
	}
}

// AddWrapper appends wrapper declarations.
func (u *Unit) AddWrapper(code ...jen.Code) {
	for _, c := range code {
		if c != nil {
			u.wrappers = append(u.wrappers, c)
		}
	}
}

// Finalize assembles the unit in fixed order. verbatims are import
// paths of other generated units pulled in regardless of use.
func (u *Unit) Finalize(verbatims []string) *jen.File {
	f := jen.NewFilePathName(u.pkgPath, u.pkgName)
	f.HeaderComment("Code generated by girgen. DO NOT EDIT.")

	for _, v := range verbatims {
		f.Anon(v)
	}

	switch u.ns {
	case "GLib":
		glibBootstrap(f)
	case "GObject":
		gobjectBootstrap(f)
	}

	for _, c := range u.foreign {
		f.Add(c)
	}
	for _, c := range u.wrappers {
		f.Add(c)
	}
	return f
}
