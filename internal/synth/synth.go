// Package synth assembles wrapper declarations for native callables:
// argument marshalling, the foreign call, and result marshalling,
// plus the plain declarations for enums, flags, records, callbacks,
// constants, and signal trampolines.
package synth

import (
	"fmt"
	"strconv"

	"github.com/dave/jennifer/jen"
	"github.com/jinzhu/inflection"

	"github.com/gtkgen/girgen/internal/model"
	"github.com/gtkgen/girgen/internal/names"
	"github.com/gtkgen/girgen/internal/typemap"
)

// Synthesizer turns catalog callables into foreign-call declarations
// and wrapper declarations. One instance serves a whole generation
// pass; it holds no mutable state beyond the catalog-wide free-symbol
// index used for duplicate suppression.
type Synthesizer struct {
	cat  *model.Catalog
	res  *typemap.Resolver
	tab  names.Table
	free map[string]model.Name // linker symbol → free function
}

func New(cat *model.Catalog, res *typemap.Resolver, tab names.Table) *Synthesizer {
	return &Synthesizer{
		cat:  cat,
		res:  res,
		tab:  tab,
		free: cat.FreeSymbols(),
	}
}

// SuppressedMethod reports whether an interface-declared method is
// shadowed by a free function with the identical linker symbol. The
// metadata sometimes lists the same entry point both ways; the free
// function is the source of truth. Matching is global across the
// pass, not namespace-scoped.
func (s *Synthesizer) SuppressedMethod(m model.Method) bool {
	_, dup := s.free[m.Symbol]
	return dup
}

// Decl is one synthesized wrapper plus its foreign-call declaration.
type Decl struct {
	Foreign jen.Code
	Wrapper jen.Code
}

// param is one wrapper-level parameter after capability
// generalization.
type param struct {
	arg       model.Arg
	name      string // resolved host identifier
	typeParam string // non-empty when generalized over a capability
	safe      typemap.Rep
	capab     typemap.Rep
}

// result is one position of the wrapper's result shape.
type result struct {
	name string
	code *jen.Statement
	expr *jen.Statement // filled while emitting the body
}

// Function synthesizes a free function wrapper.
func (s *Synthesizer) Function(fn model.Function) (Decl, error) {
	name, err := s.tab.Resolve(fn.Name.Local, names.StyleExported)
	if err != nil {
		return Decl{}, fmt.Errorf("%s: %w", fn.Name, err)
	}
	return s.synthesize(name, fn.Symbol, fn.Callable, nil)
}

// Method synthesizes an object or interface method wrapper. The
// receiver becomes an implicit first argument of the owner's own
// interface type, except for constructors, which take no receiver.
func (s *Synthesizer) Method(owner model.Name, m model.Method) (Decl, error) {
	ownerName, err := s.tab.Resolve(owner.Local, names.StyleExported)
	if err != nil {
		return Decl{}, fmt.Errorf("%s: %w", owner, err)
	}
	mName, err := s.tab.Resolve(m.Name, names.StyleExported)
	if err != nil {
		return Decl{}, fmt.Errorf("%s.%s: %w", owner, m.Name, err)
	}

	callable := m.Callable
	if !m.IsConstructor {
		recv, rerr := s.tab.Resolve(owner.Local, names.StyleUnexported)
		if rerr != nil {
			return Decl{}, rerr
		}
		args := make([]model.Arg, 0, len(callable.Args)+1)
		args = append(args, model.Arg{
			Name:      recv,
			Type:      model.Iface(owner),
			Direction: model.DirIn,
		})
		args = append(args, callable.Args...)
		callable.Args = args
	}

	return s.synthesize(ownerName+mName, m.Symbol, callable, &owner)
}

// synthesize builds the foreign declaration and the wrapper for one
// callable. The step order mirrors the marshalling contract: partition
// arguments, generalize capabilities, declare the foreign entry,
// convert in-values, allocate out-slots, call, convert results,
// assemble.
func (s *Synthesizer) synthesize(name, symbol string, c model.Callable, owner *model.Name) (Decl, error) {
	if symbol == "" {
		return Decl{}, fmt.Errorf("%s: missing linker symbol", name)
	}

	c = withThrowsArg(c)

	// fresh monotonically renamed bindings, one counter per base
	counters := map[string]int{}
	fresh := func(base string) string {
		n := counters[base]
		counters[base]++
		return base + strconv.Itoa(n)
	}

	params, err := s.params(c)
	if err != nil {
		return Decl{}, fmt.Errorf("%s (%s): %w", name, symbol, err)
	}

	foreign, err := s.foreignDecl(symbol, c)
	if err != nil {
		return Decl{}, fmt.Errorf("%s (%s): %w", name, symbol, err)
	}

	nullable := c.MayReturnNull && !c.Return.IsVoid()
	results, err := s.results(c, nullable)
	if err != nil {
		return Decl{}, fmt.Errorf("%s (%s): %w", name, symbol, err)
	}

	body, err := s.body(c, params, results, symbol, nullable, fresh)
	if err != nil {
		return Decl{}, fmt.Errorf("%s (%s): %w", name, symbol, err)
	}

	fn := jen.Func().Id(name)
	var tparams []jen.Code
	for _, p := range params {
		if p.typeParam != "" {
			tparams = append(tparams, jen.Id(p.typeParam).Add(p.capab.Code()))
		}
	}
	if len(tparams) > 0 {
		fn.Types(tparams...)
	}

	var sig []jen.Code
	for _, p := range params {
		if p.typeParam != "" {
			sig = append(sig, jen.Id(p.name).Id(p.typeParam))
		} else {
			sig = append(sig, jen.Id(p.name).Add(p.safe.Code()))
		}
	}
	fn.Params(sig...)

	if len(results) > 0 {
		rs := make([]jen.Code, len(results))
		for i, r := range results {
			rs[i] = jen.Id(r.name).Add(r.code)
		}
		fn.Params(rs...)
	}

	fn.Block(body...)
	return Decl{Foreign: foreign, Wrapper: fn}, nil
}

// withThrowsArg appends the trailing error out-argument a throwing
// callable carries at the ABI level.
func withThrowsArg(c model.Callable) model.Callable {
	if !c.Throws {
		return c
	}
	out := c
	out.Args = append(append([]model.Arg(nil), c.Args...), model.Arg{
		Name:      "err",
		Type:      model.Type{Kind: model.TypeGError},
		Direction: model.DirOut,
	})
	out.Throws = false
	return out
}

// params resolves the wrapper-level parameters for the in-partition,
// generalizing each interface-typed argument over its capability.
func (s *Synthesizer) params(c model.Callable) ([]param, error) {
	var out []param
	seen := map[string]bool{}
	for _, a := range c.InArgs() {
		pname, err := s.tab.Resolve(a.Name, names.StyleUnexported)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", a.Name, err)
		}
		safe, err := s.res.Safe(a.Type)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", a.Name, err)
		}
		p := param{arg: a, name: pname, safe: safe}

		// inout arguments keep their concrete safe type; the caller
		// supplies the slot's initial value
		if a.Direction == model.DirIn {
			capab, ok, err := s.res.Capability(a.Type)
			if err != nil {
				return nil, fmt.Errorf("argument %q: %w", a.Name, err)
			}
			if ok {
				tp, terr := s.tab.Resolve(a.Name, names.StyleExported)
				if terr != nil {
					return nil, terr
				}
				tp = "T" + tp
				for seen[tp] {
					tp += "_"
				}
				seen[tp] = true
				p.typeParam = tp
				p.capab = capab
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// results computes the wrapper's result shape: the converted return
// value first, then each value out-argument, then the nullable
// ok-flag, then error out-arguments last. Void return with no
// out-arguments yields no results at all.
func (s *Synthesizer) results(c model.Callable, nullable bool) ([]result, error) {
	var out []result

	if !c.Return.IsVoid() {
		safe, err := s.res.Safe(c.Return)
		if err != nil {
			return nil, fmt.Errorf("return: %w", err)
		}
		out = append(out, result{name: "ret", code: safe.Code()})
	}

	var errs []result
	for _, a := range c.OutArgs() {
		rname, err := s.tab.Resolve(a.Name, names.StyleUnexported)
		if err != nil {
			return nil, fmt.Errorf("out argument %q: %w", a.Name, err)
		}
		safe, err := s.res.Safe(a.Type)
		if err != nil {
			return nil, fmt.Errorf("out argument %q: %w", a.Name, err)
		}
		r := result{name: resultName(rname, a.Type), code: safe.Code()}
		if a.Type.Kind == model.TypeGError {
			r.name = "err"
			errs = append(errs, r)
			continue
		}
		out = append(out, r)
	}

	if nullable {
		out = append(out, result{name: "ok", code: jen.Bool()})
	}
	out = append(out, errs...)

	// inout results share a base name with their in-parameter; the
	// result position takes a distinguishing suffix
	seen := map[string]bool{}
	for _, a := range c.InArgs() {
		n, err := s.tab.Resolve(a.Name, names.StyleUnexported)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", a.Name, err)
		}
		seen[n] = true
	}
	for i := range out {
		for seen[out[i].name] {
			out[i].name += "Out"
		}
		seen[out[i].name] = true
	}
	return out, nil
}

// resultName names one out-value result. Container-typed outputs take
// the plural form.
func resultName(base string, t model.Type) string {
	switch t.Kind {
	case model.TypeArray, model.TypeGList, model.TypeGSList:
		return inflection.Plural(base)
	}
	return base
}

// foreignDecl emits the native-call declaration: wire types for every
// parameter in declared order, out and inout parameters as pointers
// to the wire type.
func (s *Synthesizer) foreignDecl(symbol string, c model.Callable) (jen.Code, error) {
	var ps []jen.Code
	for _, a := range c.Args {
		wire, err := s.res.Wire(a.Type)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", a.Name, err)
		}
		t := wire.Code()
		if a.Direction != model.DirIn {
			t = jen.Op("*").Add(t)
		}
		ps = append(ps, t)
	}
	decl := jen.Var().Id(symbol).Func().Params(ps...)
	if !c.Return.IsVoid() {
		wire, err := s.res.Wire(c.Return)
		if err != nil {
			return nil, fmt.Errorf("return: %w", err)
		}
		decl.Add(wire.Code())
	}
	return decl, nil
}

// body emits the marshalling sequence: in-conversions with fresh
// bindings, out-slot allocations, the call, the null check, the
// out-conversions, and the final return.
func (s *Synthesizer) body(
	c model.Callable,
	params []param,
	results []result,
	symbol string,
	nullable bool,
	fresh func(string) string,
) ([]jen.Code, error) {
	var stmts []jen.Code

	// call-site expression per declared argument
	var callArgs []jen.Code
	// out slots, in declared order
	type slot struct {
		arg  model.Arg
		base string
		name string
	}
	var slots []slot

	pi := 0
	for _, a := range c.Args {
		switch a.Direction {
		case model.DirIn:
			p := params[pi]
			pi++
			conv, err := s.res.Converter(a.Type, model.DirIn)
			if err != nil {
				return nil, err
			}
			if conv.IsIdentity() {
				callArgs = append(callArgs, jen.Id(p.name))
				break
			}
			b := fresh(p.name)
			stmts = append(stmts, jen.Id(b).Op(":=").Add(conv.Apply(jen.Id(p.name))))
			callArgs = append(callArgs, jen.Id(b))

		case model.DirInOut:
			// convert the caller's value in, then hand the native
			// side a slot holding it
			p := params[pi]
			pi++
			conv, err := s.res.Converter(a.Type, model.DirIn)
			if err != nil {
				return nil, err
			}
			b := fresh(p.name)
			stmts = append(stmts, jen.Id(b).Op(":=").Add(conv.Apply(jen.Id(p.name))))
			slots = append(slots, slot{arg: a, base: p.name, name: b})
			callArgs = append(callArgs, jen.Op("&").Id(b))

		case model.DirOut:
			wire, err := s.res.Wire(a.Type)
			if err != nil {
				return nil, err
			}
			base, err := s.tab.Resolve(a.Name, names.StyleUnexported)
			if err != nil {
				return nil, err
			}
			b := fresh(base)
			stmts = append(stmts, jen.Var().Id(b).Add(wire.Code()))
			slots = append(slots, slot{arg: a, base: base, name: b})
			callArgs = append(callArgs, jen.Op("&").Id(b))
		}
	}

	retWireName := ""
	if c.Return.IsVoid() {
		stmts = append(stmts, jen.Id(symbol).Call(callArgs...))
	} else {
		retWireName = fresh("ret")
		stmts = append(stmts, jen.Id(retWireName).Op(":=").Id(symbol).Call(callArgs...))
	}

	if nullable {
		// zero wire value means "no value"; named results zero out
		stmts = append(stmts, jen.If(jen.Id(retWireName).Op("==").Lit(0)).Block(
			jen.Return(),
		))
	}

	// out-direction conversions: the return value first, then each
	// out slot (dereference is implicit: the slot is a local)
	var retExprs []jen.Code

	if !c.Return.IsVoid() {
		conv, err := s.res.Converter(c.Return, model.DirOut)
		if err != nil {
			return nil, err
		}
		expr := jen.Id(retWireName)
		if !conv.IsIdentity() {
			b := fresh("ret")
			stmts = append(stmts, jen.Id(b).Op(":=").Add(conv.Apply(jen.Id(retWireName))))
			expr = jen.Id(b)
		}
		retExprs = append(retExprs, expr)
	}

	var errExprs []jen.Code
	for _, sl := range slots {
		conv, err := s.res.Converter(sl.arg.Type, model.DirOut)
		if err != nil {
			return nil, err
		}
		expr := jen.Id(sl.name)
		if !conv.IsIdentity() {
			b := fresh(sl.base)
			stmts = append(stmts, jen.Id(b).Op(":=").Add(conv.Apply(jen.Id(sl.name))))
			expr = jen.Id(b)
		}
		if sl.arg.Type.Kind == model.TypeGError {
			errExprs = append(errExprs, expr)
			continue
		}
		retExprs = append(retExprs, expr)
	}

	if nullable {
		retExprs = append(retExprs, jen.True())
	}
	retExprs = append(retExprs, errExprs...)

	if len(retExprs) != len(results) {
		return nil, fmt.Errorf("result shape mismatch: %d exprs for %d results", len(retExprs), len(results))
	}
	if len(retExprs) == 0 {
		return stmts, nil
	}
	stmts = append(stmts, jen.Return(retExprs...))
	return stmts, nil
}
