package aparse

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Handler converts the raw text of an option into a Value.
//
// attached reports whether a value was supplied at all: a flag-only option
// given as "--verbose" is parsed with attached == false, while
// "--verbose=no" is parsed with raw == "no" and attached == true. def is
// the option's default, for handlers that derive a value from it.
type Handler interface {
	Parse(raw string, attached bool, def Value) (Value, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(raw string, attached bool, def Value) (Value, error)

// Parse calls f.
func (f HandlerFunc) Parse(raw string, attached bool, def Value) (Value, error) {
	return f(raw, attached, def)
}

// ValueError locates a conversion failure inside the value text.
// Handlers return it so diagnostics can point at the offending byte.
type ValueError struct {
	Offset int
	Err    error
}

func (e *ValueError) Error() string { return e.Err.Error() }

func (e *ValueError) Unwrap() error { return e.Err }

// ErrBoolSpelling is the cause of an InvalidValue error for a boolean
// option given an unrecognized value.
var ErrBoolSpelling = errors.New("expected 1/0, true/false or yes/no")

var (
	boolValueHandler   Handler = boolHandler{}
	intValueHandler    Handler = intHandler{}
	stringValueHandler Handler = stringHandler{}
)

func builtinHandler(kind Kind) Handler {
	switch kind {
	case KindBool:
		return boolValueHandler
	case KindInt:
		return intValueHandler
	case KindString:
		return stringValueHandler
	}
	return nil
}

type boolHandler struct{}

func (boolHandler) Parse(raw string, attached bool, _ Value) (Value, error) {
	if !attached {
		return Bool(true), nil
	}
	b, ok := parseBool(raw)
	if !ok {
		return nil, &ValueError{Offset: 0, Err: ErrBoolSpelling}
	}
	return Bool(b), nil
}

// parseBool accepts 1/0, true/false and yes/no, ignoring case.
func parseBool(s string) (value, ok bool) {
	switch {
	case s == "1" || strings.EqualFold(s, "true") || strings.EqualFold(s, "yes"):
		return true, true
	case s == "0" || strings.EqualFold(s, "false") || strings.EqualFold(s, "no"):
		return false, true
	}
	return false, false
}

type intHandler struct{}

func (intHandler) Parse(raw string, attached bool, _ Value) (Value, error) {
	if !attached {
		return nil, &ValueError{Offset: 0, Err: strconv.ErrSyntax}
	}
	n, err := parseInt(raw)
	if err != nil {
		return nil, err
	}
	return Int(n), nil
}

// parseInt parses an optionally signed integer. Decimal is the default;
// "0x" selects hexadecimal and "0o" octal. Overflow of int64 is reported
// as strconv.ErrRange, never wrapped.
func parseInt(s string) (int64, error) {
	if len(s) == 0 {
		return 0, &ValueError{Offset: 0, Err: strconv.ErrSyntax}
	}

	negative := false
	i := 0
	switch s[0] {
	case '-':
		negative = true
		i = 1
	case '+':
		i = 1
	}

	base := uint64(10)
	if len(s)-i > 2 && s[i] == '0' {
		switch s[i+1] {
		case 'x', 'X':
			base = 16
			i += 2
		case 'o', 'O':
			base = 8
			i += 2
		}
	}
	if i == len(s) {
		return 0, &ValueError{Offset: i, Err: strconv.ErrSyntax}
	}

	limit := uint64(math.MaxInt64)
	if negative {
		limit++
	}

	digits := i
	var mag uint64
	for ; i < len(s); i++ {
		d, ok := digitValue(s[i])
		if !ok || d >= base {
			return 0, &ValueError{Offset: i, Err: strconv.ErrSyntax}
		}
		if mag > (limit-d)/base {
			return 0, &ValueError{Offset: digits, Err: strconv.ErrRange}
		}
		mag = mag*base + d
	}

	if !negative {
		return int64(mag), nil
	}
	if mag == uint64(math.MaxInt64)+1 {
		return math.MinInt64, nil
	}
	return -int64(mag), nil
}

// digitValue maps an ASCII hex digit to its value.
func digitValue(c byte) (uint64, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0'), true
	case c >= 'a' && c <= 'f':
		return uint64(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return uint64(c-'A') + 10, true
	}
	return 0, false
}

type stringHandler struct{}

func (stringHandler) Parse(raw string, attached bool, _ Value) (Value, error) {
	if !attached {
		return nil, &ValueError{Offset: 0, Err: strconv.ErrSyntax}
	}
	return String(raw), nil
}

// ErrInvalidChoice is matched by the cause of an InvalidValue error for an
// enum option given a value outside its choices.
var ErrInvalidChoice = errors.New("invalid choice")

// ChoiceError lists the choices an enum option accepts.
type ChoiceError struct {
	Choices []string
}

func (e *ChoiceError) Error() string {
	return "invalid choice, expected one of: " + strings.Join(e.Choices, ", ")
}

func (e *ChoiceError) Unwrap() error { return ErrInvalidChoice }

// enumHandler matches a value against the choices of the declaration it
// points at. Choices are compared exactly.
type enumHandler OptionSpec

func (h *enumHandler) Parse(raw string, attached bool, _ Value) (Value, error) {
	if !attached {
		return nil, &ValueError{Offset: 0, Err: strconv.ErrSyntax}
	}
	for i, c := range h.Choices {
		if c == raw {
			return Enum{Index: i, Name: c}, nil
		}
	}
	return nil, &ValueError{Offset: 0, Err: &ChoiceError{Choices: h.Choices}}
}
