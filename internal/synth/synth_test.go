package synth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gtkgen/girgen/internal/model"
	"github.com/gtkgen/girgen/internal/names"
	"github.com/gtkgen/girgen/internal/typemap"
)

func testSynth(items ...model.API) *Synthesizer {
	cat := model.NewCatalog(items...)
	tab := names.Table{}
	return New(cat, typemap.New(cat, tab, "example.com/out"), tab)
}

func code(c any) string { return fmt.Sprintf("%#v", c) }

func TestSingleInArgScalarReturn(t *testing.T) {
	fn := model.Function{
		Name:   model.Name{Namespace: "Gtk", Local: "get_value"},
		Symbol: "gtk_get_value",
		Callable: model.Callable{
			Args:   []model.Arg{{Name: "value", Type: model.Basic(model.TypeInt32)}},
			Return: model.Basic(model.TypeInt32),
		},
	}
	s := testSynth(fn)
	d, err := s.Function(fn)
	require.NoError(t, err)

	foreign := code(d.Foreign)
	require.Contains(t, foreign, "var gtk_get_value func(int32) int32")

	wrapper := code(d.Wrapper)
	// the result is the converted return value alone: no aggregate,
	// no optional wrapper
	require.Contains(t, wrapper, "func GetValue(value int32) (ret int32)")
	require.Contains(t, wrapper, "ret0 := gtk_get_value(value)")
	require.Contains(t, wrapper, "return ret0")
	require.NotContains(t, wrapper, "ok bool")
}

func TestSingleBoolOutArgVoidReturn(t *testing.T) {
	fn := model.Function{
		Name:   model.Name{Namespace: "Gtk", Local: "check_done"},
		Symbol: "gtk_check_done",
		Callable: model.Callable{
			Args: []model.Arg{{
				Name:      "done",
				Type:      model.Basic(model.TypeBool),
				Direction: model.DirOut,
			}},
			Return: model.Basic(model.TypeVoid),
		},
	}
	s := testSynth(fn)
	d, err := s.Function(fn)
	require.NoError(t, err)

	foreign := code(d.Foreign)
	require.Contains(t, foreign, "var gtk_check_done func(*int32)")

	wrapper := code(d.Wrapper)
	// the single converted out-argument value is the whole result
	require.Contains(t, wrapper, "func CheckDone() (done bool)")
	require.Contains(t, wrapper, "var done0 int32")
	require.Contains(t, wrapper, "gtk_check_done(&done0)")
	require.Contains(t, wrapper, "Gobool(done0)")
}

func TestNullableReturnWrapsInOptional(t *testing.T) {
	widget := model.Object{Name: model.Name{Namespace: "Gtk", Local: "Widget"}}
	fn := model.Function{
		Name:   model.Name{Namespace: "Gtk", Local: "find_widget"},
		Symbol: "gtk_find_widget",
		Callable: model.Callable{
			Args:          []model.Arg{{Name: "name", Type: model.Basic(model.TypeUTF8)}},
			Return:        model.Iface(widget.Name),
			MayReturnNull: true,
		},
	}
	s := testSynth(widget, fn)
	d, err := s.Function(fn)
	require.NoError(t, err)

	wrapper := code(d.Wrapper)
	require.Contains(t, wrapper, "ok bool")
	require.Contains(t, wrapper, "if ret0 == 0")
	require.Contains(t, wrapper, "Cstring(name)")
	require.Contains(t, wrapper, "WrapWidget(ret0)")
	require.Contains(t, wrapper, "return ret1, true")
}

func TestVoidNoOutsHasNoResults(t *testing.T) {
	fn := model.Function{
		Name:   model.Name{Namespace: "Gtk", Local: "main_quit"},
		Symbol: "gtk_main_quit",
		Callable: model.Callable{
			Return: model.Basic(model.TypeVoid),
		},
	}
	s := testSynth(fn)
	d, err := s.Function(fn)
	require.NoError(t, err)

	wrapper := code(d.Wrapper)
	require.Contains(t, wrapper, "func MainQuit()")
	require.NotContains(t, wrapper, "return")
}

func TestMethodGetsImplicitReceiver(t *testing.T) {
	root := model.Object{Name: model.RootObject}
	widget := model.Object{
		Name:   model.Name{Namespace: "Gtk", Local: "Widget"},
		Fields: []model.Field{{Name: "parent_instance", Type: model.Iface(model.RootObject)}},
	}
	m := model.Method{
		Name:   "show",
		Symbol: "gtk_widget_show",
		Callable: model.Callable{
			Return: model.Basic(model.TypeVoid),
		},
	}
	s := testSynth(root, widget)
	d, err := s.Method(widget.Name, m)
	require.NoError(t, err)

	foreign := code(d.Foreign)
	require.Contains(t, foreign, "var gtk_widget_show func(uintptr)")

	wrapper := code(d.Wrapper)
	// receiver generalized over the capability class
	require.Contains(t, wrapper, "func WidgetShow[TWidget gtk.IsWidget](widget TWidget)")
	require.Contains(t, wrapper, "widget.AsWidget().Native()")
}

func TestConstructorTakesNoReceiver(t *testing.T) {
	root := model.Object{Name: model.RootObject}
	button := model.Object{
		Name:   model.Name{Namespace: "Gtk", Local: "Button"},
		Fields: []model.Field{{Name: "parent_instance", Type: model.Iface(model.RootObject)}},
	}
	m := model.Method{
		Name:          "new",
		Symbol:        "gtk_button_new",
		Callable:      model.Callable{Return: model.Iface(button.Name)},
		IsConstructor: true,
	}
	s := testSynth(root, button)
	d, err := s.Method(button.Name, m)
	require.NoError(t, err)

	wrapper := code(d.Wrapper)
	require.Contains(t, wrapper, "func ButtonNew() (ret gtk.Button)")
	require.NotContains(t, wrapper, "TButton")
}

func TestInOutArgument(t *testing.T) {
	fn := model.Function{
		Name:   model.Name{Namespace: "Gtk", Local: "clamp"},
		Symbol: "gtk_clamp",
		Callable: model.Callable{
			Args: []model.Arg{{
				Name:      "value",
				Type:      model.Basic(model.TypeBool),
				Direction: model.DirInOut,
			}},
			Return: model.Basic(model.TypeVoid),
		},
	}
	s := testSynth(fn)
	d, err := s.Function(fn)
	require.NoError(t, err)

	foreign := code(d.Foreign)
	require.Contains(t, foreign, "var gtk_clamp func(*int32)")

	wrapper := code(d.Wrapper)
	// the caller's value seeds the slot; the result takes a
	// distinguishing name
	require.Contains(t, wrapper, "func Clamp(value bool) (valueOut bool)")
	require.Contains(t, wrapper, "value0 := ")
	require.Contains(t, wrapper, "gtk_clamp(&value0)")
}

func TestEmptyArgumentNameIsFatal(t *testing.T) {
	fn := model.Function{
		Name:   model.Name{Namespace: "Gtk", Local: "clamp"},
		Symbol: "gtk_clamp",
		Callable: model.Callable{
			Args: []model.Arg{{
				Name:      "",
				Type:      model.Basic(model.TypeInt32),
				Direction: model.DirInOut,
			}},
			Return: model.Basic(model.TypeVoid),
		},
	}
	s := testSynth(fn)
	_, err := s.Function(fn)
	require.ErrorIs(t, err, names.ErrEmptyIdentifier)
}

func TestThrowsAppendsErrorResult(t *testing.T) {
	fn := model.Function{
		Name:   model.Name{Namespace: "GLib", Local: "file_read"},
		Symbol: "g_file_read",
		Callable: model.Callable{
			Args:   []model.Arg{{Name: "path", Type: model.Basic(model.TypeFilename)}},
			Return: model.Basic(model.TypeUTF8),
			Throws: true,
		},
	}
	s := testSynth(fn)
	d, err := s.Function(fn)
	require.NoError(t, err)

	foreign := code(d.Foreign)
	require.Contains(t, foreign, "var g_file_read func(uintptr, *uintptr) uintptr")

	wrapper := code(d.Wrapper)
	require.Contains(t, wrapper, "err error")
	require.Contains(t, wrapper, "WrapError(err0)")
}

func TestDuplicateSymbolSuppressed(t *testing.T) {
	free := model.Function{
		Name:     model.Name{Namespace: "Gtk", Local: "orientable_get_orientation"},
		Symbol:   "gtk_orientable_get_orientation",
		Callable: model.Callable{Return: model.Basic(model.TypeInt32)},
	}
	s := testSynth(free)

	dup := model.Method{Name: "get_orientation", Symbol: "gtk_orientable_get_orientation"}
	require.True(t, s.SuppressedMethod(dup))

	other := model.Method{Name: "set_orientation", Symbol: "gtk_orientable_set_orientation"}
	require.False(t, s.SuppressedMethod(other))
}

func TestSignalSynthesis(t *testing.T) {
	root := model.Object{Name: model.RootObject}
	window := model.Object{
		Name:   model.Name{Namespace: "Gtk", Local: "Window"},
		Fields: []model.Field{{Name: "parent_instance", Type: model.Iface(model.RootObject)}},
	}
	sig := model.Signal{
		Name: "set-focus",
		Callable: model.Callable{
			Args:   []model.Arg{{Name: "name", Type: model.Basic(model.TypeUTF8)}},
			Return: model.Basic(model.TypeBool),
		},
	}
	s := testSynth(root, window)
	decls, err := s.Signal(window.Name, sig)
	require.NoError(t, err)
	require.Len(t, decls, 2)

	alias := code(decls[0])
	require.Contains(t, alias, "type WindowSetFocusCallback func(name string) bool")

	connect := code(decls[1])
	require.Contains(t, connect, "func WindowConnectSetFocus(obj gobject.IsObject, fn WindowSetFocusCallback) gobject.SignalHandle")
	require.Contains(t, connect, `"set-focus"`)
	require.Contains(t, connect, "Gostring(p0)")
	require.Contains(t, connect, "Cbool(r)")
}

func TestSignalRejectsRichTrampolineTypes(t *testing.T) {
	window := model.Object{Name: model.Name{Namespace: "Gtk", Local: "Window"}}
	widget := model.Object{Name: model.Name{Namespace: "Gtk", Local: "Widget"}}
	sig := model.Signal{
		Name: "set-focus",
		Callable: model.Callable{
			Args:   []model.Arg{{Name: "widget", Type: model.Iface(widget.Name)}},
			Return: model.Basic(model.TypeVoid),
		},
	}
	s := testSynth(window, widget)
	_, err := s.Signal(window.Name, sig)
	require.ErrorIs(t, err, ErrTrampoline)
}
