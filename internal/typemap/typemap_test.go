package typemap

import (
	"fmt"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"

	"github.com/gtkgen/girgen/internal/model"
	"github.com/gtkgen/girgen/internal/names"
)

const base = "example.com/out"

func testResolver(items ...model.API) *Resolver {
	return New(model.NewCatalog(items...), names.Table{}, base)
}

func render(t *testing.T, c Conv, src string) string {
	t.Helper()
	return fmt.Sprintf("%#v", c.Apply(jen.Id(src)))
}

func TestScalarIdentity(t *testing.T) {
	res := testResolver()
	kinds := []model.TypeKind{
		model.TypeInt8, model.TypeUInt8, model.TypeInt16, model.TypeUInt16,
		model.TypeInt32, model.TypeUInt32, model.TypeInt64, model.TypeUInt64,
		model.TypeFloat, model.TypeDouble,
	}
	for _, k := range kinds {
		t.Run(k.String(), func(t *testing.T) {
			tt := model.Basic(k)
			safe, err := res.Safe(tt)
			require.NoError(t, err)
			wire, err := res.Wire(tt)
			require.NoError(t, err)
			require.True(t, safe.Equal(wire))

			// identity in both directions: the round-trip is the value itself
			in, err := res.Converter(tt, model.DirIn)
			require.NoError(t, err)
			out, err := res.Converter(tt, model.DirOut)
			require.NoError(t, err)
			require.True(t, in.IsIdentity())
			require.True(t, out.IsIdentity())
			require.Equal(t, "x", render(t, in, "x"))
			require.Equal(t, "x", render(t, out, "x"))
		})
	}
}

func TestBoolCrossesAsMachineInt(t *testing.T) {
	res := testResolver()
	tt := model.Basic(model.TypeBool)

	wire, err := res.Wire(tt)
	require.NoError(t, err)
	require.Equal(t, RepInt32, wire.Kind)

	in, err := res.Converter(tt, model.DirIn)
	require.NoError(t, err)
	require.Contains(t, render(t, in, "b"), "Cbool(b)")

	out, err := res.Converter(tt, model.DirOut)
	require.NoError(t, err)
	require.Contains(t, render(t, out, "i"), "Gobool(i)")
}

func TestStringAllocatesInReadsAndFreesOut(t *testing.T) {
	res := testResolver()
	for _, k := range []model.TypeKind{model.TypeUTF8, model.TypeFilename} {
		t.Run(k.String(), func(t *testing.T) {
			tt := model.Basic(k)
			safe, err := res.Safe(tt)
			require.NoError(t, err)
			require.Equal(t, RepString, safe.Kind)
			wire, err := res.Wire(tt)
			require.NoError(t, err)
			require.Equal(t, RepPointer, wire.Kind)

			in, err := res.Converter(tt, model.DirIn)
			require.NoError(t, err)
			require.Contains(t, render(t, in, "s"), "Cstring(s)")

			out, err := res.Converter(tt, model.DirOut)
			require.NoError(t, err)
			require.Contains(t, render(t, out, "p"), "Gostring(p)")
		})
	}
}

func TestEnumAndFlagsAreWordOnTheWire(t *testing.T) {
	enum := model.Enum{Name: model.Name{Namespace: "Gtk", Local: "Orientation"}}
	flags := model.Flags{Name: model.Name{Namespace: "Gtk", Local: "StateFlags"}}
	res := testResolver(enum, flags)

	et := model.Iface(enum.Name)
	wire, err := res.Wire(et)
	require.NoError(t, err)
	require.Equal(t, RepInt32, wire.Kind)

	in, err := res.Converter(et, model.DirIn)
	require.NoError(t, err)
	require.Equal(t, "int32(e)", render(t, in, "e"))

	out, err := res.Converter(et, model.DirOut)
	require.NoError(t, err)
	require.Contains(t, render(t, out, "w"), "Orientation(w)")

	ft := model.Iface(flags.Name)
	in, err = res.Converter(ft, model.DirIn)
	require.NoError(t, err)
	require.Equal(t, "uint32(f)", render(t, in, "f"))
}

func TestInterfaceTypesNeverIdentity(t *testing.T) {
	obj := model.Object{Name: model.Name{Namespace: "Gtk", Local: "Widget"}}
	res := testResolver(obj)

	tt := model.Iface(obj.Name)
	safe, err := res.Safe(tt)
	require.NoError(t, err)
	wire, err := res.Wire(tt)
	require.NoError(t, err)
	require.False(t, safe.Equal(wire))

	in, err := res.Converter(tt, model.DirIn)
	require.NoError(t, err)
	require.False(t, in.IsIdentity())
	require.Contains(t, render(t, in, "w"), "w.AsWidget().Native()")

	out, err := res.Converter(tt, model.DirOut)
	require.NoError(t, err)
	require.False(t, out.IsIdentity())
	require.Contains(t, render(t, out, "p"), "WrapWidget(p)")
}

func TestCapabilityBound(t *testing.T) {
	obj := model.Object{Name: model.Name{Namespace: "Gtk", Local: "Widget"}}
	res := testResolver(obj)

	capab, ok, err := res.Capability(model.Iface(obj.Name))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "IsWidget", capab.Name)

	// scalars carry no capability
	_, ok, err = res.Capability(model.Basic(model.TypeInt32))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestContainerWrapping(t *testing.T) {
	res := testResolver()
	tt := model.ListOf(model.Basic(model.TypeUTF8))

	safe, err := res.Safe(tt)
	require.NoError(t, err)
	require.Equal(t, RepContainer, safe.Kind)
	require.Equal(t, "List", safe.Name)

	in, err := res.Converter(tt, model.DirIn)
	require.NoError(t, err)
	require.Contains(t, render(t, in, "l"), "l.Native()")

	out, err := res.Converter(tt, model.DirOut)
	require.NoError(t, err)
	require.Contains(t, render(t, out, "p"), "WrapList[string](p)")
}

func TestHashContainerWrapping(t *testing.T) {
	res := testResolver()
	tt := model.HashOf(model.Basic(model.TypeUTF8), model.Basic(model.TypeInt32))

	safe, err := res.Safe(tt)
	require.NoError(t, err)
	require.Equal(t, RepContainer, safe.Kind)
	require.Equal(t, "HashTable", safe.Name)
	// both type parameters belong to one index list
	require.Contains(t, fmt.Sprintf("%#v", safe.Code()), "HashTable[string, int32]")

	in, err := res.Converter(tt, model.DirIn)
	require.NoError(t, err)
	require.Contains(t, render(t, in, "h"), "h.Native()")

	out, err := res.Converter(tt, model.DirOut)
	require.NoError(t, err)
	require.Contains(t, render(t, out, "p"), "WrapHashTable[string, int32](p)")
}

func TestUnresolvedReferenceIsFatal(t *testing.T) {
	res := testResolver()
	_, err := res.Safe(model.Iface(model.Name{Namespace: "Gtk", Local: "Missing"}))
	require.ErrorIs(t, err, model.ErrUnresolved)
}

func TestNoConversionNamesThePair(t *testing.T) {
	cb := model.Callback{Name: model.Name{Namespace: "Gtk", Local: "TickCallback"}}
	res := testResolver(cb)

	_, err := res.Converter(model.Iface(cb.Name), model.DirIn)
	require.ErrorIs(t, err, ErrNoConversion)
	require.Contains(t, err.Error(), "TickCallback")
}
