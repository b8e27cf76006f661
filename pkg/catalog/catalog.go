// Package catalog loads the structured introspection catalog from its
// YAML form into the in-memory model. Parsing the native GIR XML is
// out of scope; this is the input boundary the generator reads from.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gtkgen/girgen/internal/model"
)

type fileDoc struct {
	Namespaces []nsDoc `yaml:"namespaces"`
}

type nsDoc struct {
	Name  string    `yaml:"name"`
	Items []itemDoc `yaml:"items"`
}

type itemDoc struct {
	Kind        string      `yaml:"kind"`
	Name        string      `yaml:"name"`
	Symbol      string      `yaml:"symbol"`
	TypeInit    string      `yaml:"type_init"`
	Type        string      `yaml:"type"`
	Value       string      `yaml:"value"`
	Fields      []fieldDoc  `yaml:"fields"`
	Members     []memberDoc `yaml:"members"`
	Implements  []string    `yaml:"implements"`
	Methods     []methodDoc `yaml:"methods"`
	Signals     []signalDoc `yaml:"signals"`
	Args        []argDoc    `yaml:"args"`
	Return      string      `yaml:"return"`
	Nullable    bool        `yaml:"nullable"`
	Throws      bool        `yaml:"throws"`
}

type fieldDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type memberDoc struct {
	Name  string `yaml:"name"`
	Value int64  `yaml:"value"`
}

type methodDoc struct {
	Name        string   `yaml:"name"`
	Symbol      string   `yaml:"symbol"`
	Args        []argDoc `yaml:"args"`
	Return      string   `yaml:"return"`
	Nullable    bool     `yaml:"nullable"`
	Throws      bool     `yaml:"throws"`
	Constructor bool     `yaml:"constructor"`
}

type signalDoc struct {
	Name   string   `yaml:"name"`
	Args   []argDoc `yaml:"args"`
	Return string   `yaml:"return"`
}

type argDoc struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Direction string `yaml:"direction"`
	Nullable  bool   `yaml:"nullable"`
	Transfer  string `yaml:"transfer"`
	Scope     string `yaml:"scope"`
}

// Load reads a catalog file.
func Load(path string) (*model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document.
func Parse(data []byte) (*model.Catalog, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}

	cat := model.NewCatalog()
	for _, ns := range doc.Namespaces {
		if ns.Name == "" {
			return nil, fmt.Errorf("catalog: namespace with empty name")
		}
		for _, it := range ns.Items {
			item, err := buildItem(ns.Name, it)
			if err != nil {
				return nil, fmt.Errorf("namespace %s: %w", ns.Name, err)
			}
			cat.Add(item)
		}
	}
	return cat, nil
}

func buildItem(ns string, it itemDoc) (model.API, error) {
	name := model.Name{Namespace: ns, Local: it.Name}
	if it.Name == "" {
		return nil, fmt.Errorf("item with empty name (kind %q)", it.Kind)
	}

	switch it.Kind {
	case "constant":
		t, err := ParseType(ns, it.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return model.Constant{Name: name, Type: t, Value: it.Value}, nil

	case "function":
		c, err := buildCallable(ns, it.Args, it.Return, it.Nullable, it.Throws)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return model.Function{Name: name, Symbol: it.Symbol, Callable: c}, nil

	case "enum":
		return model.Enum{Name: name, Members: members(it.Members)}, nil

	case "flags":
		return model.Flags{Name: name, Members: members(it.Members)}, nil

	case "callback":
		c, err := buildCallable(ns, it.Args, it.Return, it.Nullable, it.Throws)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return model.Callback{Name: name, Callable: c}, nil

	case "struct":
		fs, err := fields(ns, it.Fields)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return model.Struct{Name: name, Fields: fs}, nil

	case "union":
		fs, err := fields(ns, it.Fields)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return model.Union{Name: name, Fields: fs}, nil

	case "boxed":
		return model.Boxed{Name: name}, nil

	case "object":
		fs, err := fields(ns, it.Fields)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ms, err := methods(ns, it.Methods)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		sigs, err := signals(ns, it.Signals)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return model.Object{
			Name:       name,
			TypeInit:   it.TypeInit,
			Fields:     fs,
			Methods:    ms,
			Interfaces: refs(ns, it.Implements),
			Signals:    sigs,
		}, nil

	case "interface":
		ms, err := methods(ns, it.Methods)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		sigs, err := signals(ns, it.Signals)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return model.Interface{Name: name, Methods: ms, Signals: sigs}, nil
	}
	return nil, fmt.Errorf("%s: unknown item kind %q", name, it.Kind)
}

func members(docs []memberDoc) []model.Member {
	out := make([]model.Member, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.Member{Name: d.Name, Value: d.Value})
	}
	return out
}

func fields(ns string, docs []fieldDoc) ([]model.Field, error) {
	out := make([]model.Field, 0, len(docs))
	for _, d := range docs {
		t, err := ParseType(ns, d.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", d.Name, err)
		}
		out = append(out, model.Field{Name: d.Name, Type: t})
	}
	return out, nil
}

func refs(ns string, ss []string) []model.Name {
	out := make([]model.Name, 0, len(ss))
	for _, s := range ss {
		out = append(out, splitRef(ns, s))
	}
	return out
}

func methods(ns string, docs []methodDoc) ([]model.Method, error) {
	out := make([]model.Method, 0, len(docs))
	for _, d := range docs {
		c, err := buildCallable(ns, d.Args, d.Return, d.Nullable, d.Throws)
		if err != nil {
			return nil, fmt.Errorf("method %q: %w", d.Name, err)
		}
		out = append(out, model.Method{
			Name:          d.Name,
			Symbol:        d.Symbol,
			Callable:      c,
			IsConstructor: d.Constructor,
		})
	}
	return out, nil
}

func signals(ns string, docs []signalDoc) ([]model.Signal, error) {
	out := make([]model.Signal, 0, len(docs))
	for _, d := range docs {
		c, err := buildCallable(ns, d.Args, d.Return, false, false)
		if err != nil {
			return nil, fmt.Errorf("signal %q: %w", d.Name, err)
		}
		out = append(out, model.Signal{Name: d.Name, Callable: c})
	}
	return out, nil
}

func buildCallable(ns string, args []argDoc, ret string, nullable, throws bool) (model.Callable, error) {
	c := model.Callable{
		Return:        model.Type{Kind: model.TypeVoid},
		MayReturnNull: nullable,
		Throws:        throws,
	}
	for _, a := range args {
		t, err := ParseType(ns, a.Type)
		if err != nil {
			return model.Callable{}, fmt.Errorf("argument %q: %w", a.Name, err)
		}
		arg := model.Arg{
			Name:      a.Name,
			Type:      t,
			MayBeNull: a.Nullable,
		}
		switch a.Direction {
		case "", "in":
			arg.Direction = model.DirIn
		case "out":
			arg.Direction = model.DirOut
		case "inout":
			arg.Direction = model.DirInOut
		default:
			return model.Callable{}, fmt.Errorf("argument %q: unknown direction %q", a.Name, a.Direction)
		}
		switch a.Transfer {
		case "", "none":
			arg.Transfer = model.TransferNone
		case "container":
			arg.Transfer = model.TransferContainer
		case "full":
			arg.Transfer = model.TransferFull
		default:
			return model.Callable{}, fmt.Errorf("argument %q: unknown transfer %q", a.Name, a.Transfer)
		}
		switch a.Scope {
		case "", "call":
			arg.Scope = model.ScopeCall
		case "async":
			arg.Scope = model.ScopeAsync
		case "notified":
			arg.Scope = model.ScopeNotified
		default:
			return model.Callable{}, fmt.Errorf("argument %q: unknown scope %q", a.Name, a.Scope)
		}
		c.Args = append(c.Args, arg)
	}
	if ret != "" && ret != "void" {
		t, err := ParseType(ns, ret)
		if err != nil {
			return model.Callable{}, fmt.Errorf("return: %w", err)
		}
		c.Return = t
	}
	return c, nil
}

var scalars = map[string]model.TypeKind{
	"void":     model.TypeVoid,
	"gboolean": model.TypeBool,
	"gint8":    model.TypeInt8,
	"guint8":   model.TypeUInt8,
	"gint16":   model.TypeInt16,
	"guint16":  model.TypeUInt16,
	"gint32":   model.TypeInt32,
	"guint32":  model.TypeUInt32,
	"gint64":   model.TypeInt64,
	"guint64":  model.TypeUInt64,
	"gfloat":   model.TypeFloat,
	"gdouble":  model.TypeDouble,
	"utf8":     model.TypeUTF8,
	"filename": model.TypeFilename,
	"GType":    model.TypeGType,
	"GError":   model.TypeGError,
}

// ParseType reads the catalog's textual type syntax: scalar names,
// container forms like GList<utf8> and GHashTable<utf8,gint32>, and
// qualified or namespace-relative item references.
func ParseType(ns, s string) (model.Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Type{}, fmt.Errorf("empty type")
	}
	if k, ok := scalars[s]; ok {
		return model.Type{Kind: k}, nil
	}

	if open := strings.IndexByte(s, '<'); open > 0 && strings.HasSuffix(s, ">") {
		head := s[:open]
		inner := s[open+1 : len(s)-1]
		switch head {
		case "array", "GList", "GSList":
			elem, err := ParseType(ns, inner)
			if err != nil {
				return model.Type{}, err
			}
			switch head {
			case "array":
				return model.ArrayOf(elem), nil
			case "GList":
				return model.ListOf(elem), nil
			default:
				return model.SListOf(elem), nil
			}
		case "GHashTable":
			k, v, ok := splitPair(inner)
			if !ok {
				return model.Type{}, fmt.Errorf("malformed hash type %q", s)
			}
			kt, err := ParseType(ns, k)
			if err != nil {
				return model.Type{}, err
			}
			vt, err := ParseType(ns, v)
			if err != nil {
				return model.Type{}, err
			}
			return model.HashOf(kt, vt), nil
		}
		return model.Type{}, fmt.Errorf("unknown container %q", head)
	}

	return model.Iface(splitRef(ns, s)), nil
}

// splitPair splits a hash table's key,value at the top nesting level.
func splitPair(s string) (string, string, bool) {
	depth := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

func splitRef(ns, s string) model.Name {
	if i := strings.IndexByte(s, '.'); i > 0 {
		return model.Name{Namespace: s[:i], Local: s[i+1:]}
	}
	return model.Name{Namespace: ns, Local: s}
}
