package synth

import (
	"errors"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/gtkgen/girgen/internal/model"
	"github.com/gtkgen/girgen/internal/names"
)

// ErrTrampoline marks a signal whose handler shape reaches beyond the
// basic-scalar-and-string subset the trampoline boundary supports.
// Fails generation; never silently narrowed.
var ErrTrampoline = errors.New("unsupported trampoline type")

// Signal synthesizes the declarations for one signal: a callback type
// alias over the handler's safe shape, and a connect wrapper that
// bridges the native dispatcher into a host callback through a
// fixed-signature trampoline.
func (s *Synthesizer) Signal(owner model.Name, sig model.Signal) ([]jen.Code, error) {
	ownerName, err := s.tab.Resolve(owner.Local, names.StyleExported)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", owner, err)
	}
	sigName, err := s.tab.Resolve(sig.Name, names.StyleExported)
	if err != nil {
		return nil, fmt.Errorf("%s signal %q: %w", owner, sig.Name, err)
	}

	c := sig.Callable
	for _, a := range c.Args {
		if a.Direction != model.DirIn {
			return nil, fmt.Errorf("%w: %s signal %q argument %q is %s-direction",
				ErrTrampoline, owner, sig.Name, a.Name, a.Direction)
		}
		if !a.Type.IsBasic() {
			return nil, fmt.Errorf("%w: %s signal %q argument %q has type %s",
				ErrTrampoline, owner, sig.Name, a.Name, a.Type)
		}
	}
	if !c.Return.IsVoid() && !c.Return.IsBasic() {
		return nil, fmt.Errorf("%w: %s signal %q returns %s",
			ErrTrampoline, owner, sig.Name, c.Return)
	}

	gobject := s.res.PkgPath(model.RootObject.Namespace)
	aliasName := ownerName + sigName + "Callback"

	// callback alias over the safe shape
	var aliasParams []jen.Code
	for _, a := range c.Args {
		pname, err := s.tab.Resolve(a.Name, names.StyleUnexported)
		if err != nil {
			return nil, err
		}
		safe, err := s.res.Safe(a.Type)
		if err != nil {
			return nil, err
		}
		aliasParams = append(aliasParams, jen.Id(pname).Add(safe.Code()))
	}
	alias := jen.Type().Id(aliasName).Func().Params(aliasParams...)
	if !c.Return.IsVoid() {
		safe, err := s.res.Safe(c.Return)
		if err != nil {
			return nil, err
		}
		alias.Add(safe.Code())
	}

	// trampoline: raw source pointer first, then one wire-typed
	// parameter per argument, wire-typed return
	trampParams := []jen.Code{jen.Id("src").Uintptr()}
	var trampBody []jen.Code
	var callArgs []jen.Code
	for i, a := range c.Args {
		wire, err := s.res.Wire(a.Type)
		if err != nil {
			return nil, err
		}
		pname := fmt.Sprintf("p%d", i)
		trampParams = append(trampParams, jen.Id(pname).Add(wire.Code()))

		conv, err := s.res.Converter(a.Type, model.DirOut) // wire → safe
		if err != nil {
			return nil, err
		}
		if conv.IsIdentity() {
			callArgs = append(callArgs, jen.Id(pname))
			continue
		}
		bname := fmt.Sprintf("a%d", i)
		trampBody = append(trampBody, jen.Id(bname).Op(":=").Add(conv.Apply(jen.Id(pname))))
		callArgs = append(callArgs, jen.Id(bname))
	}

	tramp := jen.Func().Params(trampParams...)
	if c.Return.IsVoid() {
		trampBody = append(trampBody, jen.Id("fn").Call(callArgs...))
	} else {
		wire, err := s.res.Wire(c.Return)
		if err != nil {
			return nil, err
		}
		tramp.Add(wire.Code())
		conv, err := s.res.Converter(c.Return, model.DirIn) // safe → wire
		if err != nil {
			return nil, err
		}
		trampBody = append(trampBody,
			jen.Id("r").Op(":=").Id("fn").Call(callArgs...),
			jen.Return(conv.Apply(jen.Id("r"))),
		)
	}
	tramp.Block(trampBody...)

	connect := jen.Func().Id(ownerName+"Connect"+sigName).Params(
		jen.Id("obj").Qual(gobject, "IsObject"),
		jen.Id("fn").Id(aliasName),
	).Qual(gobject, "SignalHandle").Block(
		jen.Id("tramp").Op(":=").Add(tramp),
		jen.Return(jen.Qual(gobject, "ConnectSignal").Call(
			jen.Id("obj").Dot("AsObject").Call(),
			jen.Lit(sig.Name),
			jen.Id("tramp"),
		)),
	)

	return []jen.Code{alias, connect}, nil
}
