package model

// API is the tagged variant over every kind of introspected item.
// Implementations are value types; the catalog hands out copies and
// nothing downstream mutates them.
type API interface {
	ItemName() Name
}

// Constant is a named compile-time value.
type Constant struct {
	Name  Name
	Type  Type
	Value string
}

func (c Constant) ItemName() Name { return c.Name }

// Function is a free function bound by its linker symbol.
type Function struct {
	Name     Name
	Symbol   string
	Callable Callable
}

func (f Function) ItemName() Name { return f.Name }

// Member is one named value of an enum or flags type.
type Member struct {
	Name  string
	Value int64
}

// Enum is a closed set of symbolic values over a machine word.
type Enum struct {
	Name    Name
	Members []Member
}

func (e Enum) ItemName() Name { return e.Name }

// Flags is an or-able bit-set over a machine word. Unlike enums the
// symbolic layer stays an opaque word; only the width is mapped.
type Flags struct {
	Name    Name
	Members []Member
}

func (f Flags) ItemName() Name { return f.Name }

// Callback is a named callable type.
type Callback struct {
	Name     Name
	Callable Callable
}

func (c Callback) ItemName() Name { return c.Name }

// Field is one declared struct/union/object field. The first field of
// an object doubles as the parent-pointer signal for ancestry.
type Field struct {
	Name string
	Type Type
}

// Struct is a plain record type.
type Struct struct {
	Name   Name
	Fields []Field
}

func (s Struct) ItemName() Name { return s.Name }

// Union is an overlaid record type.
type Union struct {
	Name   Name
	Fields []Field
}

func (u Union) ItemName() Name { return u.Name }

// Boxed is an opaque reference-counted value type.
type Boxed struct {
	Name Name
}

func (b Boxed) ItemName() Name { return b.Name }

// Method is a callable attached to an object or interface. Symbol is
// the exact linker name; constructors take no implicit receiver.
type Method struct {
	Name          string
	Symbol        string
	Callable      Callable
	IsConstructor bool
}

// Signal is a named event emitted through the native dispatcher.
// Its Callable describes the handler shape, receiver excluded.
type Signal struct {
	Name     string
	Callable Callable
}

// Object is an instantiable type in the single-inheritance hierarchy.
// TypeInit is the symbol of its registered type-query entry point,
// used by generated checked downcasts.
type Object struct {
	Name       Name
	TypeInit   string
	Fields     []Field
	Methods    []Method
	Interfaces []Name
	Signals    []Signal
}

func (o Object) ItemName() Name { return o.Name }

// Interface is a named method/signal set objects may implement.
type Interface struct {
	Name    Name
	Methods []Method
	Signals []Signal
}

func (i Interface) ItemName() Name { return i.Name }
