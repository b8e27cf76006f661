// Package hierarchy reconstructs the single-inheritance object chains
// and interface memberships from flat metadata, and generates the
// capability declarations and checked casts that model them.
package hierarchy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/gtkgen/girgen/internal/model"
	"github.com/gtkgen/girgen/internal/names"
	"github.com/gtkgen/girgen/internal/typemap"
)

// ErrCycle marks a parent chain that loops back on itself. Malformed
// input; asserted, never assumed away.
var ErrCycle = errors.New("ancestry cycle")

// Builder derives the ancestor map for one generation pass and emits
// per-object hierarchy declarations. The map is computed once up
// front and read-only afterwards.
type Builder struct {
	cat     *model.Catalog
	res     *typemap.Resolver
	tab     names.Table
	parents map[model.Name]model.Name
}

func NewBuilder(cat *model.Catalog, res *typemap.Resolver, tab names.Table) *Builder {
	return &Builder{cat: cat, res: res, tab: tab}
}

// BuildAncestry derives the child → immediate-parent map for every
// object in the catalog. The sole signal is the object's first
// declared field: when it references another known object, that
// object is the parent. The metadata has no explicit extends
// relation. A first field referencing an unknown name fails fast.
func (b *Builder) BuildAncestry() (map[model.Name]model.Name, error) {
	parents := make(map[model.Name]model.Name)
	for _, n := range b.cat.Names() {
		obj, ok := mustObject(b.cat, n)
		if !ok || len(obj.Fields) == 0 {
			continue
		}
		first := obj.Fields[0]
		if first.Type.Kind != model.TypeIface {
			continue
		}
		ref := first.Type.Ref
		item, err := b.cat.Resolve(ref)
		if err != nil {
			return nil, fmt.Errorf("parent of %s: %w", n, err)
		}
		if _, isObj := item.(model.Object); !isObj {
			continue
		}
		parents[n] = normalizeRoot(ref)
	}
	b.parents = parents
	return parents, nil
}

// normalizeRoot identifies the floating-reference variant of the root
// with the canonical root; the two differ only in an ownership nuance
// invisible at the API-shape level.
func normalizeRoot(n model.Name) model.Name {
	if n == model.InitiallyUnowned {
		return model.RootObject
	}
	return n
}

func mustObject(cat *model.Catalog, n model.Name) (model.Object, bool) {
	item, ok := cat.Lookup(n)
	if !ok {
		return model.Object{}, false
	}
	obj, ok := item.(model.Object)
	return obj, ok
}

// Chain returns the ordered ancestor list for child, nearest parent
// first, ending at the root or at the first parentless ancestor.
// Cycles are detected and rejected.
func (b *Builder) Chain(child model.Name) ([]model.Name, error) {
	if b.parents == nil {
		if _, err := b.BuildAncestry(); err != nil {
			return nil, err
		}
	}
	// normalization applies to parent references only; the variant
	// root still has its own rooted chain
	var chain []model.Name
	seen := map[model.Name]bool{child: true}
	cur := child
	for cur != model.RootObject {
		parent, ok := b.parents[cur]
		if !ok {
			break
		}
		if seen[parent] {
			return nil, fmt.Errorf("%w through %s at %s", ErrCycle, child, parent)
		}
		seen[parent] = true
		chain = append(chain, parent)
		cur = parent
	}
	return chain, nil
}

// exported resolves the host type name of a catalog Name.
func (b *Builder) exported(n model.Name) (string, error) {
	return b.tab.Resolve(n.Local, names.StyleExported)
}

// typeInitSymbol returns the object's registered type-query entry
// point, deriving the conventional symbol when the metadata omits it.
func (b *Builder) typeInitSymbol(obj model.Object) (string, error) {
	if obj.TypeInit != "" {
		return obj.TypeInit, nil
	}
	snake, err := b.tab.Resolve(obj.Name.Local, names.StyleSnake)
	if err != nil {
		return "", err
	}
	return strings.ToLower(b.tab.Prefix(obj.Name.Namespace)) + "_" + snake + "_get_type", nil
}

// ObjectDecls generates the hierarchy declarations for one object:
// the wrapper struct (parent embedded), the narrowing As conversion,
// the capability interface, the pointer constructor, the runtime
// type-checked downcast, and one rewrap conversion per implemented
// interface. The type-query entry point lands in the foreign
// partition.
func (b *Builder) ObjectDecls(obj model.Object) (wrappers, foreign []jen.Code, err error) {
	name, err := b.exported(obj.Name)
	if err != nil {
		return nil, nil, err
	}
	gobject := b.res.PkgPath(model.RootObject.Namespace)

	chain, err := b.Chain(obj.Name)
	if err != nil {
		return nil, nil, err
	}
	isRoot := obj.Name == model.RootObject
	rooted := isRoot || (len(chain) > 0 && chain[len(chain)-1] == model.RootObject)

	switch {
	case isRoot:
		// The designated root: holds the raw pointer, reflexive
		// conversions only.
		wrappers = append(wrappers,
			jen.Type().Id(name).Struct(jen.Id("ptr").Uintptr()),
			jen.Func().Id("Wrap"+name).Params(jen.Id("p").Uintptr()).Id(name).Block(
				jen.Return(jen.Id(name).Values(jen.Id("ptr").Op(":").Id("p"))),
			),
			jen.Func().Params(jen.Id("o").Id(name)).Id("Native").Params().Uintptr().Block(
				jen.Return(jen.Id("o").Dot("ptr")),
			),
			jen.Func().Params(jen.Id("o").Id(name)).Id("As"+name).Params().Id(name).Block(
				jen.Return(jen.Id("o")),
			),
			jen.Type().Id("Is"+name).Interface(
				jen.Id("As"+name).Params().Id(name),
			),
		)

	case rooted:
		parent := chain[0]
		parentName, perr := b.exported(parent)
		if perr != nil {
			return nil, nil, perr
		}
		parentPkg := b.res.PkgPath(parent.Namespace)

		wrappers = append(wrappers,
			jen.Type().Id(name).Struct(jen.Qual(parentPkg, parentName)),
			jen.Func().Id("Wrap"+name).Params(jen.Id("p").Uintptr()).Id(name).Block(
				jen.Return(jen.Id(name).Values(
					jen.Id(parentName).Op(":").Qual(parentPkg, "Wrap"+parentName).Call(jen.Id("p")),
				)),
			),
			// narrowing: any qualifying instance to this type
			jen.Func().Params(jen.Id("o").Id(name)).Id("As"+name).Params().Id(name).Block(
				jen.Return(jen.Id("o")),
			),
			// capability bound: lowest common ancestor is the
			// immediate parent's capability
			jen.Type().Id("Is"+name).Interface(
				jen.Qual(parentPkg, "Is"+parentName),
				jen.Id("As"+name).Params().Id(name),
			),
		)

		// runtime type-checked downcast from the chain's terminal
		sym, serr := b.typeInitSymbol(obj)
		if serr != nil {
			return nil, nil, serr
		}
		foreign = append(foreign,
			jen.Var().Id(sym).Func().Params().Uintptr(),
		)
		wrappers = append(wrappers,
			jen.Func().Id("CastTo"+name).Params(
				jen.Id("v").Qual(gobject, "IsObject"),
			).Params(jen.Id(name), jen.Error()).Block(
				jen.Id("p").Op(":=").Id("v").Dot("AsObject").Call().Dot("Native").Call(),
				jen.If(jen.Op("!").Qual(gobject, "TypeCheckInstance").Call(
					jen.Id("p"), jen.Id(sym).Call(),
				)).Block(
					jen.Return(
						jen.Id(name).Values(),
						jen.Qual("fmt", "Errorf").Call(
							jen.Lit("cast to "+obj.Name.String()+" failed for instance %#x"),
							jen.Id("p"),
						),
					),
				),
				jen.Return(jen.Id("Wrap"+name).Call(jen.Id("p")), jen.Nil()),
			),
		)

	default:
		// parentless and not the root: standalone pointer wrapper,
		// no checked cast (nothing to widen to)
		wrappers = append(wrappers,
			jen.Type().Id(name).Struct(jen.Id("ptr").Uintptr()),
			jen.Func().Id("Wrap"+name).Params(jen.Id("p").Uintptr()).Id(name).Block(
				jen.Return(jen.Id(name).Values(jen.Id("ptr").Op(":").Id("p"))),
			),
			jen.Func().Params(jen.Id("o").Id(name)).Id("Native").Params().Uintptr().Block(
				jen.Return(jen.Id("o").Dot("ptr")),
			),
			jen.Func().Params(jen.Id("o").Id(name)).Id("As"+name).Params().Id(name).Block(
				jen.Return(jen.Id("o")),
			),
			jen.Type().Id("Is"+name).Interface(
				jen.Id("As"+name).Params().Id(name),
			),
		)
	}

	// implemented interfaces: structural rewrap, not a field copy
	for _, in := range obj.Interfaces {
		item, rerr := b.cat.Resolve(in)
		if rerr != nil {
			return nil, nil, fmt.Errorf("interface of %s: %w", obj.Name, rerr)
		}
		if _, isIfc := item.(model.Interface); !isIfc {
			return nil, nil, fmt.Errorf("interface of %s: %s is not an interface (%T)", obj.Name, in, item)
		}
		ifcName, nerr := b.exported(in)
		if nerr != nil {
			return nil, nil, nerr
		}
		ifcPkg := b.res.PkgPath(in.Namespace)
		wrappers = append(wrappers,
			jen.Func().Params(jen.Id("o").Id(name)).Id("As"+ifcName).Params().Qual(ifcPkg, ifcName).Block(
				jen.Return(jen.Qual(ifcPkg, "Wrap"+ifcName).Call(jen.Id("o").Dot("Native").Call())),
			),
		)
	}

	return wrappers, foreign, nil
}

// InterfaceDecls generates the representational wrapper for a native
// interface type and its capability.
func (b *Builder) InterfaceDecls(ifc model.Interface) ([]jen.Code, error) {
	name, err := b.exported(ifc.Name)
	if err != nil {
		return nil, err
	}
	return []jen.Code{
		jen.Type().Id(name).Struct(jen.Id("ptr").Uintptr()),
		jen.Func().Id("Wrap"+name).Params(jen.Id("p").Uintptr()).Id(name).Block(
			jen.Return(jen.Id(name).Values(jen.Id("ptr").Op(":").Id("p"))),
		),
		jen.Func().Params(jen.Id("i").Id(name)).Id("Native").Params().Uintptr().Block(
			jen.Return(jen.Id("i").Dot("ptr")),
		),
		jen.Func().Params(jen.Id("i").Id(name)).Id("As"+name).Params().Id(name).Block(
			jen.Return(jen.Id("i")),
		),
		jen.Type().Id("Is"+name).Interface(
			jen.Id("As"+name).Params().Id(name),
		),
	}, nil
}
