// Package vpack implements a compact, self-describing binary serialization
// format for arbitrary JSON-superset documents, plus the codec machinery
// around it: Builder (an incremental writer), Slice (a zero-copy reader),
// and the jsonpack subpackage (a single-pass JSON parser and dumper).
//
// # Wire format
//
// Every value is a head byte followed by a type-dependent body. Container
// values (Array, Object) carry a byte-length and — when more than one
// element is present and, for an Array, elements are not all the same
// size — a trailing offset table enabling O(1) indexed access and, for
// sorted objects, O(log n) key lookup by binary search. Objects and
// Arrays with an offset table also carry an element count; an Array
// without one derives its count from its byte-length. See headtable.go
// for the head-byte layout.
//
// # Basic usage
//
//	b := vpack.NewBuilder()
//	b.AddObject()
//	b.AddKey("foo")
//	b.Add("bar")
//	b.AddKey("baz")
//	b.Add(true)
//	b.Close()
//	s := b.MustSlice()
//	v, _ := s.Get("foo")
//	str, _ := v.CopyString() // "bar"
package vpack

// Kind is the logical tag of a value, independent of its wire-width
// encoding.
type Kind uint8

const (
	// None denotes the absence of a value — the result of a missing-key
	// lookup. It is not a legal element of a constructed document.
	None Kind = iota
	Null
	Bool
	Double
	UTCDate
	External
	MinKey
	MaxKey
	SmallInt
	Int
	UInt
	String
	Binary
	BCD
	Array
	Object
	Custom
)

func (k Kind) String() string {
	switch k {
	case None:
		return "None"
	case Null:
		return "Null"
	case Bool:
		return "Bool"
	case Double:
		return "Double"
	case UTCDate:
		return "UTCDate"
	case External:
		return "External"
	case MinKey:
		return "MinKey"
	case MaxKey:
		return "MaxKey"
	case SmallInt:
		return "SmallInt"
	case Int:
		return "Int"
	case UInt:
		return "UInt"
	case String:
		return "String"
	case Binary:
		return "Binary"
	case BCD:
		return "BCD"
	case Array:
		return "Array"
	case Object:
		return "Object"
	case Custom:
		return "Custom"
	default:
		return "Unknown"
	}
}
