package aparse

import "strconv"

// Value is a parsed option value. The builtin variants are Bool, Int,
// String and Enum; handlers registered with RegisterKind supply their own.
type Value interface {
	Kind() Kind
	String() string
}

// Bool is the value of a boolean option.
type Bool bool

// Int is the value of an integer option.
type Int int64

// String is the value of a string option. It aliases the argument it was
// read from.
type String string

// Enum is the value of an option restricted to a list of choices.
// Index is the position of Name in the declaration's Choices.
type Enum struct {
	Index int
	Name  string
}

func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (String) Kind() Kind { return KindString }
func (Enum) Kind() Kind   { return KindEnum }

func (v Bool) String() string   { return strconv.FormatBool(bool(v)) }
func (v Int) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v String) String() string { return string(v) }
func (v Enum) String() string   { return v.Name }

// Provenance records where a ParsedValue came from.
type Provenance int

const (
	// Unset marks a slot that has not been filled yet; it never appears
	// in a completed ParseResult.
	Unset Provenance = iota
	// Explicit values were given on the command line.
	Explicit
	// Default values were filled in from the declaration.
	Default
)

func (p Provenance) String() string {
	switch p {
	case Unset:
		return "unset"
	case Explicit:
		return "explicit"
	case Default:
		return "default"
	default:
		return "unknown"
	}
}

// ParsedValue is a value together with its provenance.
type ParsedValue struct {
	Value      Value
	Provenance Provenance
}

// zeroValue returns the zero value for the builtin kinds, nil otherwise.
// Help and version options report whether they were given as a Bool.
func zeroValue(k Kind) Value {
	switch k {
	case KindBool, KindHelp, KindVersion:
		return Bool(false)
	case KindInt:
		return Int(0)
	case KindString:
		return String("")
	}
	return nil
}
