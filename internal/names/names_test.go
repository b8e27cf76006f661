package names

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveSnake(t *testing.T) {
	tab := Table{}
	tests := []struct {
		name  string
		local string
		want  string
	}{
		{name: "two clusters", local: "SpinButton", want: "spin_button"},
		{name: "acronym collapses", local: "HSV", want: "hsv"},
		{name: "acronym prefix merges", local: "IMContext", want: "im_context"},
		{name: "signal name", local: "row-activated", want: "row_activated"},
		{name: "already snake", local: "get_type", want: "get_type"},
		{name: "single word", local: "Window", want: "window"},
		{name: "screaming snake", local: "LEVEL_BAR_OFFSET_LOW", want: "level_bar_offset_low"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tab.Resolve(tt.local, StyleSnake)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveExported(t *testing.T) {
	tab := Table{}
	tests := []struct {
		local string
		want  string
	}{
		{local: "spin_button", want: "SpinButton"},
		{local: "im_context", want: "ImContext"},
		{local: "hsv", want: "Hsv"},
		{local: "row-activated", want: "RowActivated"},
		// separators bound the acronym merge: all-caps words stay words
		{local: "LEVEL_BAR_OFFSET_LOW", want: "LevelBarOffsetLow"},
		{local: "PRIORITY_DEFAULT", want: "PriorityDefault"},
	}
	for _, tt := range tests {
		t.Run(tt.local, func(t *testing.T) {
			got, err := tab.Resolve(tt.local, StyleExported)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUnexported(t *testing.T) {
	tab := Table{}

	got, err := tab.Resolve("allow_none", StyleUnexported)
	require.NoError(t, err)
	require.Equal(t, "allowNone", got)

	// reserved words in the output vocabulary get the fixed suffix
	got, err = tab.Resolve("type", StyleUnexported)
	require.NoError(t, err)
	require.Equal(t, "type_", got)

	got, err = tab.Resolve("string", StyleUnexported)
	require.NoError(t, err)
	require.Equal(t, "string_", got)
}

func TestResolveOverridesWin(t *testing.T) {
	tab := Table{Overrides: map[string]string{"IMContext": "IMContext"}}

	got, err := tab.Resolve("IMContext", StyleExported)
	require.NoError(t, err)
	require.Equal(t, "IMContext", got)
}

func TestResolveEmptyIsFatal(t *testing.T) {
	tab := Table{}

	_, err := tab.Resolve("", StyleSnake)
	require.ErrorIs(t, err, ErrEmptyIdentifier)
}

func TestResolveDeterministic(t *testing.T) {
	tab := Table{Overrides: map[string]string{"foo": "Bar"}}

	first, err := tab.Resolve("IMContextSimple", StyleSnake)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := tab.Resolve("IMContextSimple", StyleSnake)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
	require.Equal(t, "im_context_simple", first)
}

func TestPrefixFallback(t *testing.T) {
	tab := Table{Prefixes: map[string]string{"GObject": "gobject"}}

	require.Equal(t, "gobject", tab.Prefix("GObject"))
	require.Equal(t, "Gtk", tab.Prefix("Gtk"))
}
