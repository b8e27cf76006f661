package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gtkgen/girgen/pkg/catalog"
)

const sampleCatalog = `
namespaces:
  - name: GLib
    items:
      - kind: function
        name: log
        symbol: g_log
        args:
          - name: log_domain
            type: utf8
      - kind: function
        name: get_user_name
        symbol: g_get_user_name
        return: utf8
      - kind: function
        name: get_environ_table
        symbol: g_get_environ_table
        return: GHashTable<utf8,utf8>
  - name: GObject
    items:
      - kind: object
        name: Object
  - name: Gtk
    items:
      - kind: enum
        name: Orientation
        members:
          - name: horizontal
            value: 0
          - name: vertical
            value: 1
      - kind: interface
        name: Orientable
        methods:
          - name: get_orientation
            symbol: gtk_orientable_get_orientation
            args:
              - name: orientable
                type: Orientable
            return: Orientation
      - kind: function
        name: orientable_get_orientation
        symbol: gtk_orientable_get_orientation
        args:
          - name: orientable
            type: Orientable
        return: Orientation
      - kind: object
        name: Widget
        type_init: gtk_widget_get_type
        fields:
          - name: parent_instance
            type: GObject.Object
        implements: [Orientable]
        methods:
          - name: show
            symbol: gtk_widget_show
        signals:
          - name: map
      - kind: function
        name: find_widget
        symbol: gtk_find_widget
        nullable: true
        args:
          - name: name
            type: utf8
        return: Widget
`

func testGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	cat, err := catalog.Parse([]byte(sampleCatalog))
	require.NoError(t, err)
	opts = append([]Option{
		WithBasePkg("example.com/bindings"),
		WithOutDir(t.TempDir()),
	}, opts...)
	g, err := New(cat, opts...)
	require.NoError(t, err)
	return g
}

func TestNamespaces(t *testing.T) {
	g := testGenerator(t)
	require.ElementsMatch(t, []string{"GLib", "GObject", "Gtk"}, g.Namespaces())
	require.Equal(t, "gtk", g.PkgName("Gtk"))
	require.Equal(t, "gobject", g.PkgName("GObject"))

	g = testGenerator(t, WithNamespaces("Gtk"))
	require.Equal(t, []string{"Gtk"}, g.Namespaces())
}

func TestRenderGtkUnit(t *testing.T) {
	g := testGenerator(t)
	src, err := g.Render("Gtk")
	require.NoError(t, err)
	text := string(src)

	require.Contains(t, text, "Code generated by girgen. DO NOT EDIT.")
	require.Contains(t, text, "package gtk")

	// enum
	require.Contains(t, text, "type Orientation int32")
	require.Contains(t, text, "OrientationHorizontal Orientation = 0")
	require.Regexp(t, `OrientationVertical\s+Orientation = 1`, text)

	// object wrappers and checked downcast
	require.Contains(t, text, "type Widget struct")
	require.Contains(t, text, "func WrapWidget(p uintptr) Widget")
	require.Contains(t, text, "type IsWidget interface")
	require.Contains(t, text, "func CastToWidget(v gobject.IsObject)")
	require.Contains(t, text, "var gtk_widget_get_type func() uintptr")

	// implemented interface rewrap
	require.Contains(t, text, "func (o Widget) AsOrientable() Orientable")
}

func TestRenderGtkMethodsAndSignals(t *testing.T) {
	g := testGenerator(t)
	src, err := g.Render("Gtk")
	require.NoError(t, err)
	text := string(src)

	// method with implicit capability receiver
	require.Contains(t, text, "var gtk_widget_show func(uintptr)")
	require.Contains(t, text, "func WidgetShow[TWidget IsWidget](widget TWidget)")

	// nullable free function
	require.Contains(t, text, "func FindWidget(name string) (ret Widget, ok bool)")
	require.Contains(t, text, "glib.Cstring(name)")
	require.Contains(t, text, "if ret0 == 0")

	// signal alias and connect wrapper
	require.Contains(t, text, "type WidgetMapCallback func()")
	require.Contains(t, text, "func WidgetConnectMap(obj gobject.IsObject, fn WidgetMapCallback) gobject.SignalHandle")
	require.Contains(t, text, "gobject.ConnectSignal")
}

func TestDuplicateInterfaceMethodEmittedOnce(t *testing.T) {
	g := testGenerator(t)
	src, err := g.Render("Gtk")
	require.NoError(t, err)
	text := string(src)

	// the free function and the interface method share one symbol;
	// only the free function survives
	require.Equal(t, 1, strings.Count(text, "var gtk_orientable_get_orientation func"))
	require.Equal(t, 1, strings.Count(text, "func OrientableGetOrientation"))
}

func TestRenderFoundationUnits(t *testing.T) {
	g := testGenerator(t)

	src, err := g.Render("GLib")
	require.NoError(t, err)
	text := string(src)
	require.Contains(t, text, "package glib")
	require.Contains(t, text, "func Cstring(s string) uintptr")
	require.Contains(t, text, "func Gostring(p uintptr) string")
	require.Contains(t, text, "func GetUserName() (ret string)")
	require.Contains(t, text, "func GetEnvironTable() (ret HashTable[string, string])")
	require.Contains(t, text, "WrapHashTable[string, string](ret0)")
	// variadic logging entry points are denied by default
	require.NotContains(t, text, "g_log")

	src, err = g.Render("GObject")
	require.NoError(t, err)
	text = string(src)
	require.Contains(t, text, "package gobject")
	require.Contains(t, text, "type GType uintptr")
	require.Contains(t, text, "type Object struct")
	require.Contains(t, text, "func WrapObject(p uintptr) Object")
	require.Contains(t, text, "type SignalHandle uint64")
}

func TestVerbatimImports(t *testing.T) {
	g := testGenerator(t, WithImportNamespaces("GLib", "GObject"))

	// the GLib unit references nothing from gobject, so the verbatim
	// import stays anonymous
	src, err := g.Render("GLib")
	require.NoError(t, err)
	text := string(src)
	require.Contains(t, text, `_ "example.com/bindings/gobject"`)

	// a unit never imports itself verbatim
	require.NotContains(t, text, `_ "example.com/bindings/glib"`)
}

func TestWriteAll(t *testing.T) {
	out := t.TempDir()
	g := testGenerator(t, WithOutDir(out))

	written, err := g.WriteAll()
	require.NoError(t, err)
	require.Len(t, written, 3)

	for ns, pkg := range map[string]string{"GLib": "glib", "GObject": "gobject", "Gtk": "gtk"} {
		path := filepath.Join(out, pkg, pkg+".go")
		require.Equal(t, path, written[ns])
		_, err := os.Stat(path)
		require.NoError(t, err)
	}
}

func TestOptionsNormalize(t *testing.T) {
	o := NewOptions()
	require.NoError(t, o.Normalize())
	require.Equal(t, "bindings", o.BasePkg)

	o = NewOptions()
	WithBasePkg("bad path!")(o)
	require.Error(t, o.Normalize())
}
