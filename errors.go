package aparse

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/mnurzia/aparse/internal/fuzzy"
)

// ErrorType represents the closed set of failure categories.
// Callers switch on it to render diagnostics or pick exit codes.
type ErrorType string

const (
	ErrorTypeUnknownOption      ErrorType = "unknown_option"
	ErrorTypeMissingValue       ErrorType = "missing_value"
	ErrorTypeInvalidValue       ErrorType = "invalid_value"
	ErrorTypeDuplicateOption    ErrorType = "duplicate_option"
	ErrorTypeAllocationFailure  ErrorType = "allocation_failure"
	ErrorTypeInvalidDeclaration ErrorType = "invalid_declaration"
	ErrorTypeMissingRequired    ErrorType = "missing_required"
	ErrorTypeUnexpectedArgument ErrorType = "unexpected_argument"
	// ErrorTypeExit is not a failure: a help or version option asked the
	// program to print something and stop. Its Cause is ErrHelp or
	// ErrVersion.
	ErrorTypeExit ErrorType = "exit"
)

// Causes attached to ParseError.Cause by the engine.
var (
	ErrNoAllocator     = errors.New("no allocator and no buffer for variable-length output")
	ErrBufferExhausted = errors.New("fixed buffer exhausted")
	ErrShortAcquire    = errors.New("allocator returned less capacity than requested")
	ErrSetFull         = errors.New("fixed declaration set is full")
	ErrSealed          = errors.New("declaration set is sealed after parsing began")
	ErrUnexpectedValue = errors.New("option does not take a value")
	ErrHelp            = errors.New("help requested")
	ErrVersion         = errors.New("version requested")
)

// ParseError is returned by Register and Parse. It carries enough context
// to render a diagnostic without re-scanning the argument vector.
//
// Token and Value are substrings of the caller's argument; they are never
// copied, so building a ParseError does not allocate string data.
type ParseError struct {
	Type ErrorType

	// Token is the raw argument that failed (empty for registration errors).
	Token string
	// Offset is the byte offset inside Token of the offending text.
	Offset int
	// Index is the position of Token in the argument vector, -1 when the
	// error did not come from the argument vector.
	Index int
	// Value is the value text handed to a type handler, if any.
	Value string
	// Option is the declaration involved, nil for unknown options.
	Option *OptionSpec
	// Positional is the positional declaration a parse failed to fill.
	Positional *PositionalSpec
	// Cause is the underlying reason, if any.
	Cause error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	e.writeMessage(&b)
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Diagnostic renders the error the way a command-line program reports it:
//
//	prog: error: option -c, --count: invalid value "x": invalid syntax
func (e *ParseError) Diagnostic(prog string) string {
	var b strings.Builder
	if prog != "" {
		b.WriteString(prog)
		b.WriteString(": ")
	}
	b.WriteString("error: ")
	e.writeMessage(&b)
	return b.String()
}

// Suggest returns the closest declared long option to an unknown one, in
// "--name" form, or the empty string. It is computed on demand so that the
// failure path of Parse does no extra work.
func (e *ParseError) Suggest(set *DeclarationSet) string {
	if e.Type != ErrorTypeUnknownOption || set == nil {
		return ""
	}
	name := e.optionName()
	if !strings.HasPrefix(name, "--") {
		return ""
	}
	candidates := make([]string, 0, set.Len())
	for i := range set.specs {
		if set.specs[i].Long != "" {
			candidates = append(candidates, set.specs[i].Long)
		}
	}
	if best := fuzzy.FindBestOption(name[2:], candidates, 2); best != "" {
		return "--" + best
	}
	return ""
}

func (e *ParseError) writeMessage(b *strings.Builder) {
	switch e.Type { // exhaustive over ErrorType
	case ErrorTypeUnknownOption:
		b.WriteString("unrecognized option: ")
		b.WriteString(e.optionName())
		if e.Token != "" && e.optionName() != e.Token {
			b.WriteString(" in ")
			writeQuoted(b, e.Token)
		}
	case ErrorTypeMissingValue:
		writeOptionPrefix(b, e.Option)
		b.WriteString("expected a value")
	case ErrorTypeInvalidValue:
		writeOptionPrefix(b, e.Option)
		b.WriteString("invalid value ")
		writeQuoted(b, e.Value)
	case ErrorTypeDuplicateOption:
		writeOptionPrefix(b, e.Option)
		b.WriteString("already declared")
	case ErrorTypeAllocationFailure:
		b.WriteString("allocation failure")
	case ErrorTypeInvalidDeclaration:
		writeOptionPrefix(b, e.Option)
		b.WriteString("invalid declaration")
	case ErrorTypeMissingRequired:
		if e.Positional != nil {
			b.WriteString("argument ")
			b.WriteString(e.Positional.Metavar)
			b.WriteString(": required argument not given")
			break
		}
		writeOptionPrefix(b, e.Option)
		b.WriteString("required option not given")
	case ErrorTypeUnexpectedArgument:
		b.WriteString("unexpected argument ")
		writeQuoted(b, e.Token)
	case ErrorTypeExit:
		writeOptionPrefix(b, e.Option)
		if e.Cause != nil {
			b.WriteString(e.Cause.Error())
		}
		return
	default:
		b.WriteString(string(e.Type))
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
}

// optionName extracts the unknown option as written: "--name" for long
// tokens (without any "=value"), "-x" for one character of a cluster. A
// byte that does not start a valid UTF-8 sequence is rendered as \xNN.
func (e *ParseError) optionName() string {
	tok := e.Token
	if strings.HasPrefix(tok, "--") {
		name := tok
		if eq := strings.IndexByte(tok, '='); eq != -1 {
			name = tok[:eq]
		}
		if !utf8.ValidString(name) {
			var b strings.Builder
			writeEscaped(&b, name)
			return b.String()
		}
		return name
	}
	if e.Offset >= 1 && e.Offset < len(tok) {
		r, size := utf8.DecodeRuneInString(tok[e.Offset:])
		if r == utf8.RuneError && size <= 1 {
			return "-" + hexByte(tok[e.Offset])
		}
		return "-" + tok[e.Offset:e.Offset+size]
	}
	return tok
}

// writeOptionPrefix writes "option -c, --count: ".
func writeOptionPrefix(b *strings.Builder, spec *OptionSpec) {
	if spec == nil || (spec.Short == 0 && spec.Long == "") {
		return
	}
	b.WriteString("option ")
	b.WriteString(spec.displayName())
	b.WriteString(": ")
}

// writeQuoted writes s in double quotes, escaping control bytes and
// invalid UTF-8 as \xNN.
func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	writeEscaped(b, s)
	b.WriteByte('"')
}

func writeEscaped(b *strings.Builder, s string) {
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c < ' ' || c == 0x7f {
				b.WriteString(hexByte(c))
			} else {
				b.WriteByte(c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteString(hexByte(c))
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
}

func hexByte(c byte) string {
	const hexdig = "0123456789abcdef"
	return string([]byte{'\\', 'x', hexdig[c>>4], hexdig[c&0xF]})
}

// IsType reports whether err is a *ParseError of the given type.
func IsType(err error, typ ErrorType) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Type == typ
	}
	return false
}

func declError(typ ErrorType, spec *OptionSpec, cause error) *ParseError {
	return &ParseError{Type: typ, Index: -1, Option: spec, Cause: cause}
}
