package aparse

// Parse walks args against the declarations in set and returns the typed
// result. args excludes the program name.
//
// alloc supplies storage for positional arguments once any buffer given
// with WithBuffer is full; a nil alloc means no allocator at all, and
// needing one fails with ErrorTypeAllocationFailure. The first call seals
// set against further registration. Every returned error is a *ParseError.
func Parse(set *DeclarationSet, args []string, alloc Allocator, opts ...ParseOption) (*ParseResult, error) {
	if set == nil {
		set = NewDeclarationSet()
	}
	set.seal()

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	ps := newParseState(set, alloc, cfg)
	for _, tok := range args {
		if err := ps.step(tok); err != nil {
			return ps.fail(err)
		}
	}
	if err := ps.finish(); err != nil {
		return ps.fail(err)
	}
	return ps.result(), nil
}

// ParseArgs is Parse with DefaultAllocator.
func ParseArgs(set *DeclarationSet, args []string, opts ...ParseOption) (*ParseResult, error) {
	return Parse(set, args, DefaultAllocator(), opts...)
}

// fail discards the accumulated output, or hands it to the caller when
// partial results were requested.
func (ps *parseState) fail(err *ParseError) (*ParseResult, error) {
	if ps.cfg.partial {
		return ps.result(), err
	}
	ps.positionals.release()
	ps.values = nil
	return nil, err
}

// result moves ownership of the output into a ParseResult.
func (ps *parseState) result() *ParseResult {
	r := &ParseResult{
		set:         ps.set,
		values:      ps.values,
		positionals: ps.positionals,
	}
	ps.values = nil
	ps.positionals = slotBuffer{released: true}
	return r
}
