// Package generator drives one batch generation run: ancestry,
// synthesis, and assembly per namespace, single-threaded, over an
// immutable catalog.
package generator

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/gtkgen/girgen/internal/assemble"
	"github.com/gtkgen/girgen/internal/hierarchy"
	"github.com/gtkgen/girgen/internal/model"
	"github.com/gtkgen/girgen/internal/names"
	"github.com/gtkgen/girgen/internal/synth"
	"github.com/gtkgen/girgen/internal/typemap"
)

// Generator holds the per-run state: the read-only catalog, the
// resolution tables, and the ancestor map built once up front.
type Generator struct {
	Opts *Options

	cat  *model.Catalog
	tab  names.Table
	res  *typemap.Resolver
	hier *hierarchy.Builder
	syn  *synth.Synthesizer
	deny assemble.DenyList
}

// New builds a Generator over the catalog. The ancestor map and the
// deny list are computed here; everything afterwards is read-only.
func New(cat *model.Catalog, opts ...Option) (*Generator, error) {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}
	if err := o.Normalize(); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}

	tab := names.Table{Prefixes: o.Prefixes, Overrides: o.Overrides}
	res := typemap.New(cat, tab, o.BasePkg)
	hier := hierarchy.NewBuilder(cat, res, tab)
	if _, err := hier.BuildAncestry(); err != nil {
		return nil, fmt.Errorf("ancestry: %w", err)
	}
	deny, err := assemble.CompileDeny(o.Deny)
	if err != nil {
		return nil, err
	}

	return &Generator{
		Opts: o,
		cat:  cat,
		tab:  tab,
		res:  res,
		hier: hier,
		syn:  synth.New(cat, res, tab),
		deny: deny,
	}, nil
}

// Namespaces returns the namespaces this run generates.
func (g *Generator) Namespaces() []string {
	if len(g.Opts.Namespaces) > 0 {
		return g.Opts.Namespaces
	}
	return g.cat.Namespaces()
}

// PkgName returns the package identifier of a namespace's unit.
func (g *Generator) PkgName(ns string) string {
	return strings.ToLower(g.tab.Prefix(ns))
}

// Unit generates one namespace's output file. Any fatal condition
// aborts the whole unit; there is no skip-and-continue beyond the
// deny list and duplicate-symbol suppression.
func (g *Generator) Unit(ns string) (*jen.File, error) {
	unit := assemble.NewUnit(ns, g.res.PkgPath(ns), g.PkgName(ns))

	for _, item := range g.cat.Namespace(ns) {
		if g.deny.Skip(item.ItemName()) {
			continue
		}
		if err := g.emit(unit, item); err != nil {
			return nil, fmt.Errorf("namespace %s: %w", ns, err)
		}
	}

	var verbatims []string
	for _, imp := range g.Opts.ImportNamespaces {
		if imp == ns {
			continue
		}
		verbatims = append(verbatims, g.res.PkgPath(imp))
	}
	return unit.Finalize(verbatims), nil
}

func (g *Generator) emit(unit *assemble.Unit, item model.API) error {
	switch it := item.(type) {
	case model.Constant:
		decls, err := g.syn.Constant(it)
		if err != nil {
			return err
		}
		unit.AddWrapper(decls...)

	case model.Function:
		d, err := g.syn.Function(it)
		if err != nil {
			return err
		}
		unit.AddForeign(d.Foreign)
		unit.AddWrapper(d.Wrapper)

	case model.Enum:
		decls, err := g.syn.Enum(it)
		if err != nil {
			return err
		}
		unit.AddWrapper(decls...)

	case model.Flags:
		decls, err := g.syn.Flags(it)
		if err != nil {
			return err
		}
		unit.AddWrapper(decls...)

	case model.Callback:
		decls, err := g.syn.Callback(it)
		if err != nil {
			return err
		}
		unit.AddWrapper(decls...)

	case model.Struct:
		return g.record(unit, it.Name)
	case model.Union:
		return g.record(unit, it.Name)
	case model.Boxed:
		return g.record(unit, it.Name)

	case model.Object:
		wrappers, foreign, err := g.hier.ObjectDecls(it)
		if err != nil {
			return err
		}
		unit.AddForeign(foreign...)
		unit.AddWrapper(wrappers...)
		for _, m := range it.Methods {
			d, err := g.syn.Method(it.Name, m)
			if err != nil {
				return err
			}
			unit.AddForeign(d.Foreign)
			unit.AddWrapper(d.Wrapper)
		}
		for _, sig := range it.Signals {
			decls, err := g.syn.Signal(it.Name, sig)
			if err != nil {
				return err
			}
			unit.AddWrapper(decls...)
		}

	case model.Interface:
		decls, err := g.hier.InterfaceDecls(it)
		if err != nil {
			return err
		}
		unit.AddWrapper(decls...)
		for _, m := range it.Methods {
			// the metadata sometimes duplicates an interface method
			// as a free function; the free function wins
			if g.syn.SuppressedMethod(m) {
				slog.Debug("suppressing duplicate interface method",
					"interface", it.Name.String(), "symbol", m.Symbol)
				continue
			}
			d, err := g.syn.Method(it.Name, m)
			if err != nil {
				return err
			}
			unit.AddForeign(d.Foreign)
			unit.AddWrapper(d.Wrapper)
		}
		for _, sig := range it.Signals {
			decls, err := g.syn.Signal(it.Name, sig)
			if err != nil {
				return err
			}
			unit.AddWrapper(decls...)
		}

	default:
		return fmt.Errorf("%s: unhandled item kind %T", item.ItemName(), item)
	}
	return nil
}

func (g *Generator) record(unit *assemble.Unit, n model.Name) error {
	decls, err := g.syn.Record(n)
	if err != nil {
		return err
	}
	unit.AddWrapper(decls...)
	return nil
}

// Render generates one namespace and returns the formatted source.
func (g *Generator) Render(ns string) ([]byte, error) {
	f, err := g.Unit(ns)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", ns, err)
	}
	out, err := imports.Process(g.PkgName(ns)+".go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", ns, err)
	}
	return out, nil
}

// WriteAll renders every namespace into OutDir, one package per
// namespace, and returns the written file per namespace.
func (g *Generator) WriteAll() (map[string]string, error) {
	written := make(map[string]string)
	for _, ns := range g.Namespaces() {
		src, err := g.Render(ns)
		if err != nil {
			return nil, err
		}
		pkg := g.PkgName(ns)
		dir := filepath.Join(g.Opts.OutDir, pkg)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
		path := filepath.Join(dir, pkg+".go")
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		slog.With("namespace", ns, "file", path).Info("generated unit")
		written[ns] = path
	}
	return written, nil
}
