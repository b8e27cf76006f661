package assemble

import "github.com/dave/jennifer/jen"

// glibBootstrap injects the root generic container aliases and the
// string/bool/error marshalling helpers every other unit's converters
// lean on. Emitted only into the GLib unit.
func glibBootstrap(f *jen.File) {
	// container aliases: phantom-typed pointer wrappers
	for _, name := range []string{"List", "SList", "Array"} {
		f.Type().Id(name).Types(jen.Id("T").Any()).Struct(jen.Id("ptr").Uintptr())
		f.Func().Id("Wrap"+name).Types(jen.Id("T").Any()).
			Params(jen.Id("p").Uintptr()).Id(name).Index(jen.Id("T")).Block(
			jen.Return(jen.Id(name).Index(jen.Id("T")).Values(jen.Id("ptr").Op(":").Id("p"))),
		)
		f.Func().Params(jen.Id("l").Id(name).Index(jen.Id("T"))).
			Id("Native").Params().Uintptr().Block(
			jen.Return(jen.Id("l").Dot("ptr")),
		)
	}

	// multi-parameter instantiations go through a single Index with a
	// List; separate Index arguments would render a slice expression
	kv := func() jen.Code { return jen.List(jen.Id("K"), jen.Id("V")) }
	f.Type().Id("HashTable").Types(jen.Id("K").Comparable(), jen.Id("V").Any()).
		Struct(jen.Id("ptr").Uintptr())
	f.Func().Id("WrapHashTable").Types(jen.Id("K").Comparable(), jen.Id("V").Any()).
		Params(jen.Id("p").Uintptr()).Id("HashTable").Index(kv()).Block(
		jen.Return(jen.Id("HashTable").Index(kv()).Values(jen.Id("ptr").Op(":").Id("p"))),
	)
	f.Func().Params(jen.Id("h").Id("HashTable").Index(kv())).
		Id("Native").Params().Uintptr().Block(
		jen.Return(jen.Id("h").Dot("ptr")),
	)

	// gboolean is an int on the wire
	f.Func().Id("Cbool").Params(jen.Id("b").Bool()).Int32().Block(
		jen.If(jen.Id("b")).Block(jen.Return(jen.Lit(1))),
		jen.Return(jen.Lit(0)),
	)
	f.Func().Id("Gobool").Params(jen.Id("i").Int32()).Bool().Block(
		jen.Return(jen.Id("i").Op("!=").Lit(0)),
	)

	f.Var().Id("g_free").Func().Params(jen.Uintptr())

	// Cstring hands the native side an allocated NUL-terminated copy.
	f.Func().Id("Cstring").Params(jen.Id("s").String()).Uintptr().Block(
		jen.Id("b").Op(":=").Append(jen.Index().Byte().Parens(jen.Id("s")), jen.Lit(0)),
		jen.Return(jen.Uintptr().Call(jen.Qual("unsafe", "Pointer").Call(jen.Op("&").Id("b").Index(jen.Lit(0))))),
	)

	// Gostring copies the native buffer out, then frees it.
	f.Func().Id("Gostring").Params(jen.Id("p").Uintptr()).String().Block(
		jen.If(jen.Id("p").Op("==").Lit(0)).Block(jen.Return(jen.Lit(""))),
		jen.Id("n").Op(":=").Lit(0),
		jen.For(jen.Op("*").Parens(jen.Op("*").Byte()).Parens(
			jen.Qual("unsafe", "Pointer").Call(jen.Id("p").Op("+").Uintptr().Call(jen.Id("n"))),
		).Op("!=").Lit(0)).Block(
			jen.Id("n").Op("++"),
		),
		jen.Id("b").Op(":=").Make(jen.Index().Byte(), jen.Id("n")),
		jen.Copy(jen.Id("b"), jen.Qual("unsafe", "Slice").Call(
			jen.Parens(jen.Op("*").Byte()).Parens(jen.Qual("unsafe", "Pointer").Call(jen.Id("p"))),
			jen.Id("n"),
		)),
		jen.Id("g_free").Call(jen.Id("p")),
		jen.Return(jen.String().Parens(jen.Id("b"))),
	)

	// NativeError carries an out-of-band error record pointer.
	f.Type().Id("NativeError").Struct(jen.Id("ptr").Uintptr())
	f.Func().Params(jen.Id("e").Op("*").Id("NativeError")).Id("Error").Params().String().Block(
		jen.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit("native error %#x"), jen.Id("e").Dot("ptr"))),
	)
	f.Func().Id("WrapError").Params(jen.Id("p").Uintptr()).Error().Block(
		jen.If(jen.Id("p").Op("==").Lit(0)).Block(jen.Return(jen.Nil())),
		jen.Return(jen.Op("&").Id("NativeError").Values(jen.Id("ptr").Op(":").Id("p"))),
	)
}

// gobjectBootstrap injects the root type tag, the checked-cast
// primitive, and the signal-connection primitive. Emitted only into
// the GObject unit.
func gobjectBootstrap(f *jen.File) {
	f.Type().Id("GType").Uintptr()

	f.Var().Id("g_type_check_instance_is_a").Func().
		Params(jen.Uintptr(), jen.Uintptr()).Int32()

	f.Func().Id("TypeCheckInstance").
		Params(jen.Id("p").Uintptr(), jen.Id("t").Uintptr()).Bool().Block(
		jen.Return(jen.Id("g_type_check_instance_is_a").Call(jen.Id("p"), jen.Id("t")).Op("!=").Lit(0)),
	)

	f.Type().Id("SignalHandle").Uint64()

	// ConnectHook is installed by the loader glue; the generated
	// connect wrappers route every registration through it.
	f.Var().Id("ConnectHook").Func().
		Params(jen.Uintptr(), jen.String(), jen.Any()).Id("SignalHandle")

	f.Func().Id("ConnectSignal").Params(
		jen.Id("obj").Id("Object"),
		jen.Id("signal").String(),
		jen.Id("tramp").Any(),
	).Id("SignalHandle").Block(
		jen.Return(jen.Id("ConnectHook").Call(
			jen.Id("obj").Dot("Native").Call(),
			jen.Id("signal"),
			jen.Id("tramp"),
		)),
	)
}
