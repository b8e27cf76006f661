package typemap

import (
	"fmt"

	"github.com/dave/jennifer/jen"
)

// RepKind tags a Representation.
type RepKind int

const (
	RepInvalid RepKind = iota
	RepBool
	RepInt8
	RepUInt8
	RepInt16
	RepUInt16
	RepInt32
	RepUInt32
	RepInt64
	RepUInt64
	RepFloat32
	RepFloat64
	RepString     // host string
	RepError      // host error
	RepWord       // uintptr-sized machine word
	RepPointer    // raw pointer crossing the ABI
	RepNamed      // generated named type, Pkg/Name set
	RepCapability // generated capability interface, Pkg/Name set
	RepContainer  // generic container alias, Pkg/Name plus Elem or Key/Value
)

// Rep is one concrete representation of a native type, either at the
// safe layer (what wrapper callers see) or the wire layer (what the
// native call sees).
type Rep struct {
	Kind  RepKind
	Pkg   string // import path for named kinds
	Name  string
	Elem  *Rep
	Key   *Rep
	Value *Rep
}

// shape collapses kinds that are structurally interchangeable: a
// machine word and a raw pointer have the same width and shape, so a
// converter between them would be a no-op.
func (r Rep) shape() RepKind {
	if r.Kind == RepPointer {
		return RepWord
	}
	return r.Kind
}

// Equal reports structural identity. Identical reps take the identity
// converter at zero runtime cost.
func (r Rep) Equal(o Rep) bool {
	if r.shape() != o.shape() {
		return false
	}
	switch r.Kind {
	case RepNamed, RepCapability:
		return r.Pkg == o.Pkg && r.Name == o.Name
	case RepContainer:
		if r.Pkg != o.Pkg || r.Name != o.Name {
			return false
		}
		if (r.Elem == nil) != (o.Elem == nil) {
			return false
		}
		if r.Elem != nil && !r.Elem.Equal(*o.Elem) {
			return false
		}
		if (r.Key == nil) != (o.Key == nil) {
			return false
		}
		if r.Key != nil && (!r.Key.Equal(*o.Key) || !r.Value.Equal(*o.Value)) {
			return false
		}
		return true
	}
	return true
}

// Code renders the representation as a host type expression.
func (r Rep) Code() *jen.Statement {
	switch r.Kind {
	case RepBool:
		return jen.Bool()
	case RepInt8:
		return jen.Int8()
	case RepUInt8:
		return jen.Uint8()
	case RepInt16:
		return jen.Int16()
	case RepUInt16:
		return jen.Uint16()
	case RepInt32:
		return jen.Int32()
	case RepUInt32:
		return jen.Uint32()
	case RepInt64:
		return jen.Int64()
	case RepUInt64:
		return jen.Uint64()
	case RepFloat32:
		return jen.Float32()
	case RepFloat64:
		return jen.Float64()
	case RepString:
		return jen.String()
	case RepError:
		return jen.Error()
	case RepWord, RepPointer:
		return jen.Uintptr()
	case RepNamed, RepCapability:
		return jen.Qual(r.Pkg, r.Name)
	case RepContainer:
		if r.Key != nil {
			// a two-parameter instantiation needs one List index
			return jen.Qual(r.Pkg, r.Name).Index(jen.List(r.Key.Code(), r.Value.Code()))
		}
		return jen.Qual(r.Pkg, r.Name).Index(r.Elem.Code())
	}
	return jen.Id("invalid")
}

func (r Rep) String() string {
	switch r.Kind {
	case RepBool:
		return "bool"
	case RepInt8:
		return "int8"
	case RepUInt8:
		return "uint8"
	case RepInt16:
		return "int16"
	case RepUInt16:
		return "uint16"
	case RepInt32:
		return "int32"
	case RepUInt32:
		return "uint32"
	case RepInt64:
		return "int64"
	case RepUInt64:
		return "uint64"
	case RepFloat32:
		return "float32"
	case RepFloat64:
		return "float64"
	case RepString:
		return "string"
	case RepError:
		return "error"
	case RepWord:
		return "word"
	case RepPointer:
		return "pointer"
	case RepNamed:
		return r.Name
	case RepCapability:
		return r.Name
	case RepContainer:
		if r.Key != nil {
			return fmt.Sprintf("%s[%s,%s]", r.Name, r.Key, r.Value)
		}
		return fmt.Sprintf("%s[%s]", r.Name, r.Elem)
	}
	return "invalid"
}

// Conv is the conversion between the safe and wire layers for one
// value. The identity conversion is applied with zero cost: Apply
// returns its input untouched.
type Conv struct {
	identity bool
	apply    func(src *jen.Statement) *jen.Statement
}

// Identity is the zero-cost conversion between structurally identical
// representations.
func Identity() Conv { return Conv{identity: true} }

func convWith(fn func(src *jen.Statement) *jen.Statement) Conv {
	return Conv{apply: fn}
}

func (c Conv) IsIdentity() bool { return c.identity }

// Apply rewrites a source expression into the converted expression.
func (c Conv) Apply(src *jen.Statement) *jen.Statement {
	if c.identity {
		return src
	}
	return c.apply(src)
}
