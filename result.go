package aparse

import "slices"

// ParseResult holds one value per declared option, in declaration order,
// and the positional arguments in the order they appeared.
//
// Positionals and String values alias the argument vector. Storage
// acquired from an Allocator is owned by the result until Release.
type ParseResult struct {
	set         *DeclarationSet
	values      []ParsedValue
	positionals slotBuffer
}

// Lookup returns the value of the option named by "-c", "--count", "c" or
// "count". It reports false for unknown names, for options a partial
// result never reached, and after Release.
func (r *ParseResult) Lookup(name string) (ParsedValue, bool) {
	if r == nil || r.values == nil {
		return ParsedValue{}, false
	}
	idx := r.set.indexToken(name)
	if idx < 0 || r.values[idx].Provenance == Unset {
		return ParsedValue{}, false
	}
	return r.values[idx], true
}

// GetBool returns the value of a boolean option.
func (r *ParseResult) GetBool(name string) (bool, bool) {
	pv, ok := r.Lookup(name)
	if !ok {
		return false, false
	}
	b, ok := pv.Value.(Bool)
	return bool(b), ok
}

// GetInt returns the value of an integer option.
func (r *ParseResult) GetInt(name string) (int64, bool) {
	pv, ok := r.Lookup(name)
	if !ok {
		return 0, false
	}
	n, ok := pv.Value.(Int)
	return int64(n), ok
}

// GetString returns the value of a string option.
func (r *ParseResult) GetString(name string) (string, bool) {
	pv, ok := r.Lookup(name)
	if !ok {
		return "", false
	}
	s, ok := pv.Value.(String)
	return string(s), ok
}

// GetEnum returns the chosen value of an enum option.
func (r *ParseResult) GetEnum(name string) (Enum, bool) {
	pv, ok := r.Lookup(name)
	if !ok {
		return Enum{}, false
	}
	e, ok := pv.Value.(Enum)
	return e, ok
}

// Explicit reports whether the option was given on the command line.
func (r *ParseResult) Explicit(name string) bool {
	pv, ok := r.Lookup(name)
	return ok && pv.Provenance == Explicit
}

// Positionals returns the positional arguments. The slice is valid until
// Release; callers that keep it longer should use AppendPositionals.
func (r *ParseResult) Positionals() []string {
	if r == nil {
		return nil
	}
	return r.positionals.items()
}

// AppendPositionals appends the positional arguments to dst.
func (r *ParseResult) AppendPositionals(dst []string) []string {
	return append(dst, r.Positionals()...)
}

// Values returns a copy of every option's value in declaration order.
func (r *ParseResult) Values() []ParsedValue {
	if r == nil {
		return nil
	}
	return slices.Clone(r.values)
}

// Release returns acquired storage to its allocator. It is safe to call
// more than once; the result is empty afterwards.
func (r *ParseResult) Release() {
	if r == nil {
		return
	}
	r.positionals.release()
	r.values = nil
}
