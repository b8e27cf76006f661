// Package names resolves namespaced metadata identifiers into host
// identifiers under configurable casing and prefix rules.
package names

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrEmptyIdentifier signals malformed input metadata: a resolution
// step received an empty local name.
var ErrEmptyIdentifier = errors.New("empty identifier")

// Style selects the casing applied to a resolved identifier.
type Style int

const (
	// StyleSnake is lower_with_underscores, used for call-level C
	// symbol names.
	StyleSnake Style = iota
	// StyleExported is UpperCamel, used for generated type and
	// wrapper names.
	StyleExported
	// StyleUnexported is lowerCamel, used for parameters and locals
	// inside generated bodies.
	StyleUnexported
)

// Table is the immutable identifier configuration for one run: a
// per-namespace prefix override table and a user-level spelling
// override table, both keyed verbatim.
type Table struct {
	Prefixes  map[string]string
	Overrides map[string]string
}

// Prefix returns the configured prefix for a namespace, falling back
// to the namespace string itself.
func (t Table) Prefix(ns string) string {
	if p, ok := t.Prefixes[ns]; ok {
		return p
	}
	return ns
}

// Resolve maps a local metadata identifier to a host identifier in the
// requested style. User overrides take precedence over computed names;
// reserved words in the output vocabulary get a fixed "_" suffix.
// Resolution is pure: equal inputs always produce equal outputs.
func (t Table) Resolve(local string, style Style) (string, error) {
	if local == "" {
		return "", ErrEmptyIdentifier
	}
	if o, ok := t.Overrides[local]; ok {
		return o, nil
	}

	clusters := split(local)
	if len(clusters) == 0 {
		return "", fmt.Errorf("%w: %q", ErrEmptyIdentifier, local)
	}

	var out string
	switch style {
	case StyleSnake:
		lower := make([]string, len(clusters))
		for i, c := range clusters {
			lower[i] = strings.ToLower(c)
		}
		out = strings.Join(lower, "_")
	case StyleExported:
		var b strings.Builder
		for _, c := range clusters {
			b.WriteString(title(c))
		}
		out = b.String()
	case StyleUnexported:
		var b strings.Builder
		for i, c := range clusters {
			if i == 0 {
				b.WriteString(strings.ToLower(c))
				continue
			}
			b.WriteString(title(c))
		}
		out = b.String()
	default:
		return "", fmt.Errorf("unknown style %d", style)
	}

	return Escape(out), nil
}

// split breaks an identifier into casing clusters. Camel-case is split
// on every uppercase boundary, then adjacent 1-letter clusters are
// merged so acronym prefixes stay one token: HSV → [HSV],
// IMContext → [IM Context], SpinButton → [Spin Button]. Underscores
// and hyphens (signal names) also separate clusters, and the merge
// never crosses such an explicit boundary: LEVEL_BAR stays two
// tokens, not one run of letters.
func split(s string) []string {
	type cluster struct {
		text string
		hard bool // preceded by an explicit separator
	}
	var raw []cluster
	var cur strings.Builder
	hard := false
	flush := func(sep bool) {
		if cur.Len() > 0 {
			raw = append(raw, cluster{text: cur.String(), hard: hard})
			cur.Reset()
			hard = sep
			return
		}
		if sep {
			hard = true
		}
	}
	for _, r := range s {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush(true)
		case unicode.IsUpper(r):
			flush(false)
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush(false)

	// Merge runs of single-letter clusters into one token.
	var out []string
	for i := 0; i < len(raw); i++ {
		if len(raw[i].text) != 1 {
			out = append(out, raw[i].text)
			continue
		}
		j := i + 1
		var b strings.Builder
		b.WriteString(raw[i].text)
		for j < len(raw) && len(raw[j].text) == 1 && !raw[j].hard {
			b.WriteString(raw[j].text)
			j++
		}
		out = append(out, b.String())
		i = j - 1
	}
	return out
}

func title(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// reserved is the finite set of output-vocabulary words that cannot be
// used as generated identifiers.
var reserved = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true,
	"continue": true, "default": true, "defer": true, "else": true,
	"fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true,
	"map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true,
	"var": true,
	// predeclared identifiers generated bodies rely on
	"string": true, "error": true, "len": true, "cap": true,
	"make": true, "new": true, "nil": true, "true": true, "false": true,
}

// Escape suffixes reserved words with "_". Deterministic and
// collision-free for the reserved set: no reserved word ends in "_".
func Escape(s string) string {
	if reserved[s] {
		return s + "_"
	}
	return s
}
