package model

import "fmt"

// Name identifies an API item: a namespace plus a local identifier.
// Comparable; used as the catalog key. Two Names with the same local
// identifier in different namespaces are distinct.
type Name struct {
	Namespace string
	Local     string
}

func (n Name) String() string {
	if n.Namespace == "" {
		return n.Local
	}
	return n.Namespace + "." + n.Local
}

func (n Name) IsZero() bool {
	return n.Namespace == "" && n.Local == ""
}

// Canonical names of the foundational root object type.
// InitiallyUnowned differs from Object only in a floating-reference
// ownership nuance; the hierarchy builder identifies the two.
var (
	RootObject       = Name{Namespace: "GObject", Local: "Object"}
	InitiallyUnowned = Name{Namespace: "GObject", Local: "InitiallyUnowned"}
)

// TypeKind tags the Type variant.
type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeVoid
	TypeBool
	TypeInt8
	TypeUInt8
	TypeInt16
	TypeUInt16
	TypeInt32
	TypeUInt32
	TypeInt64
	TypeUInt64
	TypeFloat
	TypeDouble
	TypeUTF8     // NUL-terminated string
	TypeFilename // string in filesystem encoding
	TypeGType    // registered type tag
	TypeArray    // fixed-element C array, Elem set
	TypeGList    // doubly linked list, Elem set
	TypeGSList   // singly linked list, Elem set
	TypeGHash    // hash table, Key/Value set
	TypeGError   // out-of-band error record
	TypeIface    // reference to a named API item, Ref set
)

func (k TypeKind) String() string {
	switch k {
	case TypeVoid:
		return "void"
	case TypeBool:
		return "gboolean"
	case TypeInt8:
		return "gint8"
	case TypeUInt8:
		return "guint8"
	case TypeInt16:
		return "gint16"
	case TypeUInt16:
		return "guint16"
	case TypeInt32:
		return "gint32"
	case TypeUInt32:
		return "guint32"
	case TypeInt64:
		return "gint64"
	case TypeUInt64:
		return "guint64"
	case TypeFloat:
		return "gfloat"
	case TypeDouble:
		return "gdouble"
	case TypeUTF8:
		return "utf8"
	case TypeFilename:
		return "filename"
	case TypeGType:
		return "GType"
	case TypeArray:
		return "array"
	case TypeGList:
		return "GList"
	case TypeGSList:
		return "GSList"
	case TypeGHash:
		return "GHashTable"
	case TypeGError:
		return "GError"
	case TypeIface:
		return "interface"
	default:
		return "invalid"
	}
}

// Type is a recursive tagged variant describing a native type.
// Arrays and lists carry Elem; hash tables carry Key and Value;
// interface references carry Ref.
type Type struct {
	Kind  TypeKind
	Elem  *Type
	Key   *Type
	Value *Type
	Ref   Name
}

func (t Type) String() string {
	switch t.Kind {
	case TypeArray:
		return fmt.Sprintf("array<%s>", t.Elem)
	case TypeGList:
		return fmt.Sprintf("GList<%s>", t.Elem)
	case TypeGSList:
		return fmt.Sprintf("GSList<%s>", t.Elem)
	case TypeGHash:
		return fmt.Sprintf("GHashTable<%s,%s>", t.Key, t.Value)
	case TypeIface:
		return t.Ref.String()
	default:
		return t.Kind.String()
	}
}

// IsBasic reports whether the type is a basic scalar, including the
// two string flavors and GType.
func (t Type) IsBasic() bool {
	switch t.Kind {
	case TypeBool, TypeInt8, TypeUInt8, TypeInt16, TypeUInt16,
		TypeInt32, TypeUInt32, TypeInt64, TypeUInt64,
		TypeFloat, TypeDouble, TypeUTF8, TypeFilename, TypeGType:
		return true
	}
	return false
}

// IsString reports whether the type is one of the string flavors.
func (t Type) IsString() bool {
	return t.Kind == TypeUTF8 || t.Kind == TypeFilename
}

func (t Type) IsVoid() bool { return t.Kind == TypeVoid }

// Convenience constructors for recursive types.

func Basic(k TypeKind) Type { return Type{Kind: k} }
func Iface(n Name) Type     { return Type{Kind: TypeIface, Ref: n} }
func ArrayOf(e Type) Type   { return Type{Kind: TypeArray, Elem: &e} }
func ListOf(e Type) Type    { return Type{Kind: TypeGList, Elem: &e} }
func SListOf(e Type) Type   { return Type{Kind: TypeGSList, Elem: &e} }
func HashOf(k, v Type) Type { return Type{Kind: TypeGHash, Key: &k, Value: &v} }

// Direction of an argument relative to the native call.
type Direction int

const (
	DirIn Direction = iota
	DirOut
	DirInOut
)

func (d Direction) String() string {
	switch d {
	case DirOut:
		return "out"
	case DirInOut:
		return "inout"
	default:
		return "in"
	}
}

// Transfer is the ownership-transfer annotation on an argument or
// return value.
type Transfer int

const (
	TransferNone Transfer = iota
	TransferContainer
	TransferFull
)

// Scope describes how long a callback argument stays invocable.
type Scope int

const (
	ScopeCall Scope = iota
	ScopeAsync
	ScopeNotified
)

// Arg is a single callable argument.
type Arg struct {
	Name      string
	Type      Type
	Direction Direction
	MayBeNull bool
	Transfer  Transfer
	Scope     Scope // callbacks only
}

// Callable is an ordered argument list plus a return type. MayReturnNull
// marks callables whose success result is optional.
type Callable struct {
	Args          []Arg
	Return        Type
	MayReturnNull bool
	Throws        bool // trailing GError** out parameter at the ABI level
}

// InArgs returns the arguments marshalled into the native call.
// Inout arguments count as in for this partition.
func (c Callable) InArgs() []Arg {
	out := make([]Arg, 0, len(c.Args))
	for _, a := range c.Args {
		if a.Direction == DirIn || a.Direction == DirInOut {
			out = append(out, a)
		}
	}
	return out
}

// OutArgs returns the arguments contributing to the result shape.
// Inout arguments count as out for this partition.
func (c Callable) OutArgs() []Arg {
	out := make([]Arg, 0, len(c.Args))
	for _, a := range c.Args {
		if a.Direction == DirOut || a.Direction == DirInOut {
			out = append(out, a)
		}
	}
	return out
}
