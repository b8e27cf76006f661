package synth

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/gtkgen/girgen/internal/model"
	"github.com/gtkgen/girgen/internal/names"
)

// Enum generates the symbolic type and its members. The wire layer
// sees a machine word; the symbolic layer is a defined int32 type so
// the enum-to-int conversions are plain casts.
func (s *Synthesizer) Enum(e model.Enum) ([]jen.Code, error) {
	name, err := s.tab.Resolve(e.Name.Local, names.StyleExported)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name, err)
	}
	defs, err := s.memberDefs(name, e.Name, e.Members)
	if err != nil {
		return nil, err
	}
	return []jen.Code{
		jen.Type().Id(name).Int32(),
		jen.Const().Defs(defs...),
	}, nil
}

// Flags generates the bit-set type. Members stay an opaque or-able
// word; no symbolic round-trip beyond the width cast.
func (s *Synthesizer) Flags(f model.Flags) ([]jen.Code, error) {
	name, err := s.tab.Resolve(f.Name.Local, names.StyleExported)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	defs, err := s.memberDefs(name, f.Name, f.Members)
	if err != nil {
		return nil, err
	}
	return []jen.Code{
		jen.Type().Id(name).Uint32(),
		jen.Const().Defs(defs...),
	}, nil
}

func (s *Synthesizer) memberDefs(typeName string, owner model.Name, members []model.Member) ([]jen.Code, error) {
	defs := make([]jen.Code, 0, len(members))
	for _, m := range members {
		mName, err := s.tab.Resolve(m.Name, names.StyleExported)
		if err != nil {
			return nil, fmt.Errorf("%s member %q: %w", owner, m.Name, err)
		}
		defs = append(defs, jen.Id(typeName+mName).Id(typeName).Op("=").Lit(int(m.Value)))
	}
	return defs, nil
}

// Callback generates the host-level type alias for a named callable
// type. Out-direction arguments surface as pointers to the safe type.
func (s *Synthesizer) Callback(cb model.Callback) ([]jen.Code, error) {
	name, err := s.tab.Resolve(cb.Name.Local, names.StyleExported)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cb.Name, err)
	}
	var ps []jen.Code
	for _, a := range cb.Callable.Args {
		pname, err := s.tab.Resolve(a.Name, names.StyleUnexported)
		if err != nil {
			return nil, fmt.Errorf("%s argument %q: %w", cb.Name, a.Name, err)
		}
		safe, err := s.res.Safe(a.Type)
		if err != nil {
			return nil, fmt.Errorf("%s argument %q: %w", cb.Name, a.Name, err)
		}
		t := safe.Code()
		if a.Direction != model.DirIn {
			t = jen.Op("*").Add(t)
		}
		ps = append(ps, jen.Id(pname).Add(t))
	}
	decl := jen.Type().Id(name).Func().Params(ps...)
	if !cb.Callable.Return.IsVoid() {
		safe, err := s.res.Safe(cb.Callable.Return)
		if err != nil {
			return nil, fmt.Errorf("%s return: %w", cb.Name, err)
		}
		decl.Add(safe.Code())
	}
	return []jen.Code{decl}, nil
}

// Constant generates one const declaration. String-typed constants
// are quoted; everything else carries the metadata literal verbatim.
func (s *Synthesizer) Constant(c model.Constant) ([]jen.Code, error) {
	name, err := s.tab.Resolve(c.Name.Local, names.StyleExported)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	var value jen.Code
	if c.Type.IsString() {
		value = jen.Lit(c.Value)
	} else {
		value = jen.Id(c.Value)
	}
	return []jen.Code{
		jen.Const().Id(name).Op("=").Add(value),
	}, nil
}

// Record generates the opaque pointer wrapper shared by structs,
// unions, and boxed types. Field-level access is not modelled; the
// wrapper exists so references marshal as structural casts.
func (s *Synthesizer) Record(n model.Name) ([]jen.Code, error) {
	name, err := s.tab.Resolve(n.Local, names.StyleExported)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n, err)
	}
	return []jen.Code{
		jen.Type().Id(name).Struct(jen.Id("ptr").Uintptr()),
		jen.Func().Id("Wrap"+name).Params(jen.Id("p").Uintptr()).Id(name).Block(
			jen.Return(jen.Id(name).Values(jen.Id("ptr").Op(":").Id("p"))),
		),
		jen.Func().Params(jen.Id("r").Id(name)).Id("Native").Params().Uintptr().Block(
			jen.Return(jen.Id("r").Dot("ptr")),
		),
	}, nil
}
