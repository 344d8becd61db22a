// Package errs defines the closed error taxonomy used by vpack's Builder and
// Slice and by jsonpack.
//
// Their fallible operations return an *Error carrying a Kind plus positional
// or type context; every Kind they return matches one of the sentinel
// errors below.
// vppress returns plain wrapped errors instead. Callers should match with
// errors.Is against the sentinels, not string comparison.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a vpack error.
type Kind uint8

const (
	// KindUnknown is the zero value and never returned by vpack itself.
	KindUnknown Kind = iota
	KindParseError
	KindUnexpectedControlCharacter
	KindInvalidUTF8Sequence
	KindNumberOutOfRange
	KindIndexOutOfBounds
	KindInvalidAttributePath
	KindInvalidValueType
	KindDuplicateAttributeName
	KindBuilderNeedOpenObject
	KindBuilderUnexpectedType
	KindBuilderUnexpectedValue
	KindNotImplemented
	KindNoJSONEquivalent
	KindInternalError
)

func (k Kind) String() string {
	switch k {
	case KindParseError:
		return "ParseError"
	case KindUnexpectedControlCharacter:
		return "UnexpectedControlCharacter"
	case KindInvalidUTF8Sequence:
		return "InvalidUtf8Sequence"
	case KindNumberOutOfRange:
		return "NumberOutOfRange"
	case KindIndexOutOfBounds:
		return "IndexOutOfBounds"
	case KindInvalidAttributePath:
		return "InvalidAttributePath"
	case KindInvalidValueType:
		return "InvalidValueType"
	case KindDuplicateAttributeName:
		return "DuplicateAttributeName"
	case KindBuilderNeedOpenObject:
		return "BuilderNeedOpenObject"
	case KindBuilderUnexpectedType:
		return "BuilderUnexpectedType"
	case KindBuilderUnexpectedValue:
		return "BuilderUnexpectedValue"
	case KindNotImplemented:
		return "NotImplemented"
	case KindNoJSONEquivalent:
		return "NoJsonEquivalent"
	case KindInternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Error is the single error variant carried by vpack. It wraps a Kind plus
// whatever context is available at the failure site (byte offset, type
// names, attribute name). Partial output from a failed builder or parser
// must be discarded by the caller; vpack does not retry internally.
type Error struct {
	Kind Kind
	// Offset is the byte position of the failure, when known (-1 otherwise).
	Offset int
	// Msg is a short human-readable detail.
	Msg string
	// Err, when non-nil, is a lower-level cause (e.g. an allocation failure).
	Err error
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("vpack: %s at offset %d: %s", e.Kind, e.Offset, e.Msg)
	}

	return fmt.Sprintf("vpack: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel associated with e.Kind, so that
// errors.Is(err, errs.ErrIndexOutOfBounds) works against a wrapped *Error.
func (e *Error) Is(target error) bool {
	sentinel, ok := sentinels[e.Kind]
	return ok && errors.Is(sentinel, target)
}

// New builds an *Error with no byte offset.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Offset: -1, Msg: msg}
}

// NewAt builds an *Error carrying a byte offset (e.g. a parser failure).
func NewAt(kind Kind, offset int, msg string) *Error {
	return &Error{Kind: kind, Offset: offset, Msg: msg}
}

// Wrap builds an *Error that carries a lower-level cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Offset: -1, Msg: msg, Err: cause}
}

// Sentinel errors for errors.Is comparisons against a bare Kind, independent
// of any particular *Error instance's offset/message.
var (
	ErrParseError                  = errors.New("parse error")
	ErrUnexpectedControlCharacter  = errors.New("unexpected control character in string")
	ErrInvalidUTF8Sequence         = errors.New("invalid utf-8 sequence")
	ErrNumberOutOfRange            = errors.New("number out of range")
	ErrIndexOutOfBounds            = errors.New("index out of bounds")
	ErrInvalidAttributePath        = errors.New("invalid attribute path")
	ErrInvalidValueType            = errors.New("invalid value type")
	ErrDuplicateAttributeName      = errors.New("duplicate attribute name")
	ErrBuilderNeedOpenObject       = errors.New("builder has no open container")
	ErrBuilderUnexpectedType       = errors.New("builder: unexpected value type for context")
	ErrBuilderUnexpectedValue      = errors.New("builder: unexpected value")
	ErrNotImplemented               = errors.New("not implemented")
	ErrNoJSONEquivalent             = errors.New("no JSON equivalent for value")
	ErrInternalError                = errors.New("internal error")
)

var sentinels = map[Kind]error{
	KindParseError:                 ErrParseError,
	KindUnexpectedControlCharacter: ErrUnexpectedControlCharacter,
	KindInvalidUTF8Sequence:        ErrInvalidUTF8Sequence,
	KindNumberOutOfRange:           ErrNumberOutOfRange,
	KindIndexOutOfBounds:           ErrIndexOutOfBounds,
	KindInvalidAttributePath:       ErrInvalidAttributePath,
	KindInvalidValueType:           ErrInvalidValueType,
	KindDuplicateAttributeName:     ErrDuplicateAttributeName,
	KindBuilderNeedOpenObject:      ErrBuilderNeedOpenObject,
	KindBuilderUnexpectedType:      ErrBuilderUnexpectedType,
	KindBuilderUnexpectedValue:     ErrBuilderUnexpectedValue,
	KindNotImplemented:             ErrNotImplemented,
	KindNoJSONEquivalent:           ErrNoJSONEquivalent,
	KindInternalError:              ErrInternalError,
}
