package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameString(t *testing.T) {
	require.Equal(t, "Gtk.Widget", Name{Namespace: "Gtk", Local: "Widget"}.String())
	require.Equal(t, "Widget", Name{Local: "Widget"}.String())
	require.True(t, Name{}.IsZero())
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "GList<utf8>", ListOf(Basic(TypeUTF8)).String())
	require.Equal(t, "GHashTable<utf8,gint32>", HashOf(Basic(TypeUTF8), Basic(TypeInt32)).String())
	require.Equal(t, "array<GList<gboolean>>", ArrayOf(ListOf(Basic(TypeBool))).String())
	require.Equal(t, "Gtk.Widget", Iface(Name{Namespace: "Gtk", Local: "Widget"}).String())
}

func TestCallablePartitions(t *testing.T) {
	c := Callable{Args: []Arg{
		{Name: "a", Direction: DirIn},
		{Name: "b", Direction: DirOut},
		{Name: "c", Direction: DirInOut},
	}}

	in := c.InArgs()
	require.Len(t, in, 2)
	require.Equal(t, "a", in[0].Name)
	require.Equal(t, "c", in[1].Name)

	// inout contributes to both partitions
	out := c.OutArgs()
	require.Len(t, out, 2)
	require.Equal(t, "b", out[0].Name)
	require.Equal(t, "c", out[1].Name)
}

func TestCatalogAddReplacesInPlace(t *testing.T) {
	n := Name{Namespace: "Gtk", Local: "init"}
	cat := NewCatalog(
		Function{Name: n, Symbol: "gtk_init"},
		Enum{Name: Name{Namespace: "Gtk", Local: "Orientation"}},
	)
	cat.Add(Function{Name: n, Symbol: "gtk_init_check"})

	require.Equal(t, 2, cat.Len())
	require.Equal(t, []Name{n, {Namespace: "Gtk", Local: "Orientation"}}, cat.Names())

	item, err := cat.Resolve(n)
	require.NoError(t, err)
	require.Equal(t, "gtk_init_check", item.(Function).Symbol)
}

func TestCatalogNamespacesSorted(t *testing.T) {
	cat := NewCatalog(
		Function{Name: Name{Namespace: "Gtk", Local: "a"}},
		Function{Name: Name{Namespace: "GLib", Local: "b"}},
		Function{Name: Name{Namespace: "Gdk", Local: "c"}},
	)
	require.Equal(t, []string{"GLib", "Gdk", "Gtk"}, cat.Namespaces())
}

func TestFreeSymbols(t *testing.T) {
	fn := Function{Name: Name{Namespace: "Gtk", Local: "widget_show"}, Symbol: "gtk_widget_show"}
	cat := NewCatalog(fn, Function{Name: Name{Namespace: "Gtk", Local: "anon"}})

	free := cat.FreeSymbols()
	require.Equal(t, fn.Name, free["gtk_widget_show"])
	require.Len(t, free, 1)
}
