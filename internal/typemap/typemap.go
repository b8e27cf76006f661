// Package typemap decides, per native type, the safe representation
// exposed to wrapper callers, the wire representation crossing the
// native call boundary, and the conversion between them.
package typemap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/gtkgen/girgen/internal/model"
	"github.com/gtkgen/girgen/internal/names"
)

// ErrNoConversion marks a (safe, wire) pair with no known conversion.
// The generator refuses to emit rather than guess.
var ErrNoConversion = errors.New("no known conversion")

// Resolver maps native types onto host representations. Immutable for
// the duration of a generation pass.
type Resolver struct {
	cat  *model.Catalog
	tab  names.Table
	base string // import path root of generated packages
}

func New(cat *model.Catalog, tab names.Table, base string) *Resolver {
	return &Resolver{cat: cat, tab: tab, base: base}
}

// PkgPath returns the import path of the generated unit for a
// namespace, derived from the configured prefix.
func (r *Resolver) PkgPath(ns string) string {
	return r.base + "/" + strings.ToLower(r.tab.Prefix(ns))
}

func (r *Resolver) glib() string    { return r.PkgPath("GLib") }
func (r *Resolver) gobject() string { return r.PkgPath("GObject") }

// refName resolves the exported host name and package of a referenced
// item.
func (r *Resolver) refName(n model.Name) (pkg, name string, err error) {
	local, err := r.tab.Resolve(n.Local, names.StyleExported)
	if err != nil {
		return "", "", fmt.Errorf("resolving %s: %w", n, err)
	}
	return r.PkgPath(n.Namespace), local, nil
}

// Safe returns the representation exposed to callers of generated
// wrappers.
func (r *Resolver) Safe(t model.Type) (Rep, error) {
	switch t.Kind {
	case model.TypeBool:
		return Rep{Kind: RepBool}, nil
	case model.TypeInt8:
		return Rep{Kind: RepInt8}, nil
	case model.TypeUInt8:
		return Rep{Kind: RepUInt8}, nil
	case model.TypeInt16:
		return Rep{Kind: RepInt16}, nil
	case model.TypeUInt16:
		return Rep{Kind: RepUInt16}, nil
	case model.TypeInt32:
		return Rep{Kind: RepInt32}, nil
	case model.TypeUInt32:
		return Rep{Kind: RepUInt32}, nil
	case model.TypeInt64:
		return Rep{Kind: RepInt64}, nil
	case model.TypeUInt64:
		return Rep{Kind: RepUInt64}, nil
	case model.TypeFloat:
		return Rep{Kind: RepFloat32}, nil
	case model.TypeDouble:
		return Rep{Kind: RepFloat64}, nil
	case model.TypeUTF8, model.TypeFilename:
		return Rep{Kind: RepString}, nil
	case model.TypeGType:
		return Rep{Kind: RepNamed, Pkg: r.gobject(), Name: "GType"}, nil
	case model.TypeGError:
		return Rep{Kind: RepError}, nil
	case model.TypeArray:
		return r.container("Array", t.Elem, nil)
	case model.TypeGList:
		return r.container("List", t.Elem, nil)
	case model.TypeGSList:
		return r.container("SList", t.Elem, nil)
	case model.TypeGHash:
		return r.container("HashTable", t.Key, t.Value)
	case model.TypeIface:
		return r.safeRef(t.Ref)
	}
	return Rep{}, fmt.Errorf("%w: no safe representation for %s", ErrNoConversion, t)
}

func (r *Resolver) container(name string, elem, value *model.Type) (Rep, error) {
	if elem == nil {
		return Rep{}, fmt.Errorf("%s: missing element type", name)
	}
	er, err := r.Safe(*elem)
	if err != nil {
		return Rep{}, err
	}
	rep := Rep{Kind: RepContainer, Pkg: r.glib(), Name: name}
	if value != nil {
		vr, err := r.Safe(*value)
		if err != nil {
			return Rep{}, err
		}
		rep.Key, rep.Value = &er, &vr
		return rep, nil
	}
	rep.Elem = &er
	return rep, nil
}

func (r *Resolver) safeRef(n model.Name) (Rep, error) {
	item, err := r.cat.Resolve(n)
	if err != nil {
		return Rep{}, err
	}
	pkg, name, err := r.refName(n)
	if err != nil {
		return Rep{}, err
	}
	switch item.(type) {
	case model.Enum, model.Flags, model.Object, model.Interface,
		model.Struct, model.Union, model.Boxed, model.Callback:
		return Rep{Kind: RepNamed, Pkg: pkg, Name: name}, nil
	}
	return Rep{}, fmt.Errorf("%w: %s is not usable as a type target (%T)", ErrNoConversion, n, item)
}

// Wire returns the exact ABI-level representation passed across the
// native call boundary.
func (r *Resolver) Wire(t model.Type) (Rep, error) {
	switch t.Kind {
	case model.TypeBool:
		// gboolean is a C int on the wire
		return Rep{Kind: RepInt32}, nil
	case model.TypeInt8, model.TypeUInt8, model.TypeInt16, model.TypeUInt16,
		model.TypeInt32, model.TypeUInt32, model.TypeInt64, model.TypeUInt64,
		model.TypeFloat, model.TypeDouble:
		return r.Safe(t)
	case model.TypeUTF8, model.TypeFilename:
		return Rep{Kind: RepPointer}, nil
	case model.TypeGType:
		return Rep{Kind: RepWord}, nil
	case model.TypeGError:
		return Rep{Kind: RepPointer}, nil
	case model.TypeArray, model.TypeGList, model.TypeGSList, model.TypeGHash:
		return Rep{Kind: RepPointer}, nil
	case model.TypeIface:
		item, err := r.cat.Resolve(t.Ref)
		if err != nil {
			return Rep{}, err
		}
		switch item.(type) {
		case model.Enum:
			return Rep{Kind: RepInt32}, nil
		case model.Flags:
			return Rep{Kind: RepUInt32}, nil
		case model.Object, model.Interface, model.Struct, model.Union,
			model.Boxed, model.Callback:
			return Rep{Kind: RepPointer}, nil
		}
		return Rep{}, fmt.Errorf("%w: %s is not usable as a type target (%T)", ErrNoConversion, t.Ref, item)
	}
	return Rep{}, fmt.Errorf("%w: no wire representation for %s", ErrNoConversion, t)
}

// Capability returns the capability interface bound for an
// interface-typed argument, letting the wrapper signature generalize
// over any qualifying instance.
func (r *Resolver) Capability(t model.Type) (Rep, bool, error) {
	if t.Kind != model.TypeIface {
		return Rep{}, false, nil
	}
	item, err := r.cat.Resolve(t.Ref)
	if err != nil {
		return Rep{}, false, err
	}
	switch item.(type) {
	case model.Object, model.Interface:
	default:
		return Rep{}, false, nil
	}
	pkg, name, err := r.refName(t.Ref)
	if err != nil {
		return Rep{}, false, err
	}
	return Rep{Kind: RepCapability, Pkg: pkg, Name: "Is" + name}, true, nil
}

// Converter returns the conversion applied to a value of type t when
// marshalling in the given direction: DirIn converts safe → wire,
// DirOut (and the return value) converts wire → safe. Structurally
// identical representations take the zero-cost identity.
func (r *Resolver) Converter(t model.Type, dir model.Direction) (Conv, error) {
	safe, err := r.Safe(t)
	if err != nil {
		return Conv{}, err
	}
	wire, err := r.Wire(t)
	if err != nil {
		return Conv{}, err
	}
	if safe.Equal(wire) {
		return Identity(), nil
	}

	in := dir == model.DirIn || dir == model.DirInOut
	glib := r.glib()

	switch t.Kind {
	case model.TypeBool:
		if in {
			return convWith(func(src *jen.Statement) *jen.Statement {
				return jen.Qual(glib, "Cbool").Call(src)
			}), nil
		}
		return convWith(func(src *jen.Statement) *jen.Statement {
			return jen.Qual(glib, "Gobool").Call(src)
		}), nil

	case model.TypeUTF8, model.TypeFilename:
		if in {
			// allocating copy handed to the native side
			return convWith(func(src *jen.Statement) *jen.Statement {
				return jen.Qual(glib, "Cstring").Call(src)
			}), nil
		}
		// read the native buffer, then free it
		return convWith(func(src *jen.Statement) *jen.Statement {
			return jen.Qual(glib, "Gostring").Call(src)
		}), nil

	case model.TypeGType:
		if in {
			return convWith(func(src *jen.Statement) *jen.Statement {
				return jen.Uintptr().Call(src)
			}), nil
		}
		gobject := r.gobject()
		return convWith(func(src *jen.Statement) *jen.Statement {
			return jen.Qual(gobject, "GType").Call(src)
		}), nil

	case model.TypeGError:
		if !in {
			return convWith(func(src *jen.Statement) *jen.Statement {
				return jen.Qual(glib, "WrapError").Call(src)
			}), nil
		}

	case model.TypeArray, model.TypeGList, model.TypeGSList, model.TypeGHash:
		if in {
			return convWith(func(src *jen.Statement) *jen.Statement {
				return src.Dot("Native").Call()
			}), nil
		}
		wrap := "Wrap" + safe.Name
		targs := func() jen.Code {
			if safe.Key != nil {
				return jen.List(safe.Key.Code(), safe.Value.Code())
			}
			return safe.Elem.Code()
		}
		return convWith(func(src *jen.Statement) *jen.Statement {
			return jen.Qual(glib, wrap).Index(targs()).Call(src)
		}), nil

	case model.TypeIface:
		return r.refConverter(t.Ref, safe, wire, in)
	}

	return Conv{}, fmt.Errorf("%w: %s <-> %s for %s (%s)", ErrNoConversion, safe, wire, t, dir)
}

func (r *Resolver) refConverter(n model.Name, safe, wire Rep, in bool) (Conv, error) {
	item, err := r.cat.Resolve(n)
	if err != nil {
		return Conv{}, err
	}
	switch item.(type) {
	case model.Enum:
		if in {
			return convWith(func(src *jen.Statement) *jen.Statement {
				return jen.Int32().Call(src)
			}), nil
		}
		return convWith(func(src *jen.Statement) *jen.Statement {
			return safe.Code().Call(src)
		}), nil

	case model.Flags:
		if in {
			return convWith(func(src *jen.Statement) *jen.Statement {
				return jen.Uint32().Call(src)
			}), nil
		}
		return convWith(func(src *jen.Statement) *jen.Statement {
			return safe.Code().Call(src)
		}), nil

	case model.Object, model.Interface:
		if in {
			// narrow through the capability, then unwrap the
			// root-held pointer
			name := safe.Name
			return convWith(func(src *jen.Statement) *jen.Statement {
				return src.Dot("As" + name).Call().Dot("Native").Call()
			}), nil
		}
		return convWith(func(src *jen.Statement) *jen.Statement {
			return jen.Qual(safe.Pkg, "Wrap"+safe.Name).Call(src)
		}), nil

	case model.Struct, model.Union, model.Boxed:
		if in {
			return convWith(func(src *jen.Statement) *jen.Statement {
				return src.Dot("Native").Call()
			}), nil
		}
		return convWith(func(src *jen.Statement) *jen.Statement {
			return jen.Qual(safe.Pkg, "Wrap"+safe.Name).Call(src)
		}), nil
	}

	dir := "out"
	if in {
		dir = "in"
	}
	return Conv{}, fmt.Errorf("%w: %s <-> %s for %s (%s)", ErrNoConversion, safe, wire, n, dir)
}
