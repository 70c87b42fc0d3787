package aparse

import (
	"errors"
	"strings"
)

// State is the position of the parsing state machine.
type State int

const (
	// StateScanning examines the next token as a possible option.
	StateScanning State = iota
	// StateExpectingValue waits for the value of a pending option.
	StateExpectingValue
	// StatePositional has recorded at least one positional argument.
	// Options are still recognized unless WithStopAtPositional is set.
	StatePositional
	// StateTerminated follows "--": every further token is positional.
	StateTerminated
	// StateDone is reached when the argument vector is exhausted.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "Scanning"
	case StateExpectingValue:
		return "ExpectingValue"
	case StatePositional:
		return "Positional"
	case StateTerminated:
		return "Terminated"
	case StateDone:
		return "Done"
	default:
		return "State(?)"
	}
}

var errHandlerKind = errors.New("handler returned a value of the wrong kind")

type config struct {
	buf                 []string
	hasBuf              bool
	unknownAsPositional bool
	partial             bool
	stopAtPositional    bool
}

// ParseOption configures a single Parse call.
type ParseOption func(*config)

// WithBuffer stores positionals in buf before asking the allocator for
// more room. buf belongs to the caller and is never released.
func WithBuffer(buf []string) ParseOption {
	return func(c *config) {
		c.buf = buf
		c.hasBuf = true
	}
}

// WithUnknownAsPositional records unknown options as positional arguments
// instead of failing with ErrorTypeUnknownOption. A short cluster is only
// treated this way when its first character is unknown.
func WithUnknownAsPositional() ParseOption {
	return func(c *config) { c.unknownAsPositional = true }
}

// WithPartialResults makes Parse return the values gathered before a
// failure alongside the error. Options not reached keep Provenance Unset.
func WithPartialResults() ParseOption {
	return func(c *config) { c.partial = true }
}

// WithStopAtPositional ends option processing at the first positional
// argument, as if "--" preceded it.
func WithStopAtPositional() ParseOption {
	return func(c *config) { c.stopAtPositional = true }
}

// parseState is the cursor and accumulated output of one Parse call.
type parseState struct {
	set   *DeclarationSet
	cfg   config
	state State
	index int // position of the token being stepped

	pending       int // declaration awaiting a value, -1 for none
	pendingToken  string
	pendingIndex  int
	pendingOffset int
	resume        State

	values      []ParsedValue
	positionals slotBuffer
}

func newParseState(set *DeclarationSet, alloc Allocator, cfg config) *parseState {
	return &parseState{
		set:         set,
		cfg:         cfg,
		pending:     -1,
		values:      make([]ParsedValue, set.Len()),
		positionals: newSlotBuffer(alloc, cfg.buf, cfg.hasBuf),
	}
}

// step feeds one token to the machine. It is not resumable after an error.
func (ps *parseState) step(tok string) *ParseError {
	var err *ParseError
	switch ps.state {
	case StateScanning, StatePositional:
		err = ps.scan(tok)
	case StateExpectingValue:
		err = ps.takeValue(tok)
	case StateTerminated:
		err = ps.positional(tok)
	default:
		panic("aparse: step in state " + ps.state.String())
	}
	ps.index++
	return err
}

func (ps *parseState) scan(tok string) *ParseError {
	switch {
	case tok == "--":
		ps.state = StateTerminated
		return nil
	case strings.HasPrefix(tok, "--"):
		return ps.scanLong(tok)
	case len(tok) > 1 && tok[0] == '-':
		return ps.scanShort(tok)
	default:
		return ps.positional(tok)
	}
}

func (ps *parseState) scanLong(tok string) *ParseError {
	name, value, attached := strings.Cut(tok[2:], "=")
	valueAt := 2 + len(name) + 1

	idx := ps.set.indexLong(name)
	negated := false
	if idx < 0 && strings.HasPrefix(name, "no-") {
		if j := ps.set.indexLong(name[3:]); j >= 0 && ps.set.specs[j].Kind == KindBool {
			idx, negated = j, true
		}
	}
	if idx < 0 {
		if ps.cfg.unknownAsPositional {
			return ps.positional(tok)
		}
		return &ParseError{Type: ErrorTypeUnknownOption, Token: tok, Index: ps.index}
	}

	spec := &ps.set.specs[idx]
	switch {
	case negated && attached:
		return &ParseError{
			Type:   ErrorTypeInvalidValue,
			Token:  tok,
			Offset: valueAt,
			Index:  ps.index,
			Value:  value,
			Option: spec,
			Cause:  ErrUnexpectedValue,
		}
	case negated:
		ps.store(idx, Bool(false))
		return nil
	case attached:
		return ps.convert(idx, tok, value, valueAt, true)
	case spec.Arity == ArityFlag:
		return ps.convert(idx, tok, "", 0, false)
	}
	ps.expect(idx, tok, 0)
	return nil
}

func (ps *parseState) scanShort(tok string) *ParseError {
	for i := 1; i < len(tok); i++ {
		idx := ps.set.indexShort(rune(tok[i]))
		if idx < 0 {
			if i == 1 && ps.cfg.unknownAsPositional {
				return ps.positional(tok)
			}
			return &ParseError{Type: ErrorTypeUnknownOption, Token: tok, Offset: i, Index: ps.index}
		}

		rest := tok[i+1:]
		if strings.HasPrefix(rest, "=") {
			return ps.convert(idx, tok, rest[1:], i+2, true)
		}
		if ps.set.specs[idx].Arity == ArityFlag {
			if err := ps.convert(idx, tok, "", i, false); err != nil {
				return err
			}
			continue
		}
		if rest != "" {
			return ps.convert(idx, tok, rest, i+1, true)
		}
		ps.expect(idx, tok, i)
		return nil
	}
	return nil
}

func (ps *parseState) positional(tok string) *ParseError {
	if _, most := ps.set.positionalLimits(); most >= 0 && len(ps.positionals.buf) >= most {
		return &ParseError{Type: ErrorTypeUnexpectedArgument, Token: tok, Index: ps.index}
	}
	if err := ps.positionals.append(tok); err != nil {
		return &ParseError{Type: ErrorTypeAllocationFailure, Token: tok, Index: ps.index, Cause: err}
	}
	switch {
	case ps.state == StateTerminated:
	case ps.cfg.stopAtPositional:
		ps.state = StateTerminated
	default:
		ps.state = StatePositional
	}
	return nil
}

func (ps *parseState) expect(idx int, tok string, offset int) {
	ps.pending = idx
	ps.pendingToken = tok
	ps.pendingIndex = ps.index
	ps.pendingOffset = offset
	ps.resume = ps.state
	ps.state = StateExpectingValue
}

// takeValue consumes tok whole, even when it looks like an option.
func (ps *parseState) takeValue(tok string) *ParseError {
	idx := ps.pending
	ps.pending = -1
	ps.state = ps.resume
	return ps.convert(idx, tok, tok, 0, true)
}

// convert runs the option's handler on raw, found at offset inside tok.
// Help and version options have no handler: they end the parse.
func (ps *parseState) convert(idx int, tok, raw string, offset int, attached bool) *ParseError {
	spec := &ps.set.specs[idx]
	if exitKind(spec.Kind) {
		return ps.exit(idx, tok, raw, offset, attached)
	}
	h := ps.set.handler(spec)
	if h == nil {
		panic("aparse: declared kind has no handler: " + string(spec.Kind))
	}

	v, err := h.Parse(raw, attached, ps.defaultFor(spec))
	if err == nil && (v == nil || v.Kind() != spec.Kind) {
		err = errHandlerKind
	}
	if err != nil {
		pe := &ParseError{
			Type:   ErrorTypeInvalidValue,
			Token:  tok,
			Offset: offset,
			Index:  ps.index,
			Value:  raw,
			Option: spec,
			Cause:  err,
		}
		var ve *ValueError
		if errors.As(err, &ve) {
			pe.Offset += ve.Offset
			pe.Cause = ve.Err
		}
		return pe
	}
	ps.store(idx, v)
	return nil
}

func (ps *parseState) exit(idx int, tok, raw string, offset int, attached bool) *ParseError {
	spec := &ps.set.specs[idx]
	if attached {
		return &ParseError{
			Type:   ErrorTypeInvalidValue,
			Token:  tok,
			Offset: offset,
			Index:  ps.index,
			Value:  raw,
			Option: spec,
			Cause:  ErrUnexpectedValue,
		}
	}
	ps.store(idx, Bool(true))
	cause := ErrHelp
	if spec.Kind == KindVersion {
		cause = ErrVersion
	}
	ps.state = StateDone
	return &ParseError{Type: ErrorTypeExit, Token: tok, Offset: offset, Index: ps.index, Option: spec, Cause: cause}
}

// store records an explicit value; a later occurrence replaces it.
func (ps *parseState) store(idx int, v Value) {
	ps.values[idx] = ParsedValue{Value: v, Provenance: Explicit}
}

// finish handles exhaustion of the argument vector: a pending option is
// missing its value, otherwise absent options receive their defaults.
func (ps *parseState) finish() *ParseError {
	if ps.state == StateExpectingValue {
		ps.state = StateDone
		return &ParseError{
			Type:   ErrorTypeMissingValue,
			Token:  ps.pendingToken,
			Offset: ps.pendingOffset,
			Index:  ps.pendingIndex,
			Option: &ps.set.specs[ps.pending],
		}
	}
	ps.state = StateDone

	missing := -1
	for i := range ps.values {
		if ps.values[i].Provenance != Unset {
			continue
		}
		spec := &ps.set.specs[i]
		if spec.Required && missing < 0 {
			missing = i
		}
		ps.values[i] = ParsedValue{Value: ps.defaultFor(spec), Provenance: Default}
	}
	if missing >= 0 {
		return &ParseError{Type: ErrorTypeMissingRequired, Index: -1, Option: &ps.set.specs[missing]}
	}
	if least, _ := ps.set.positionalLimits(); len(ps.positionals.buf) < least {
		return &ParseError{Type: ErrorTypeMissingRequired, Index: -1, Positional: &ps.set.positionals[len(ps.positionals.buf)]}
	}
	return nil
}

func (ps *parseState) defaultFor(spec *OptionSpec) Value {
	switch {
	case spec.Default != nil:
		return spec.Default
	case spec.Kind == KindEnum:
		return Enum{Index: 0, Name: spec.Choices[0]}
	}
	return zeroValue(spec.Kind)
}
