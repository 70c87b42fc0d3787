package aparse

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sliceAllocator() Hook {
	return Hook{AcquireFunc: func(n int) ([]string, error) { return make([]string, 0, n), nil }}
}

func TestParse_Completeness(t *testing.T) {
	set := countSet()
	inputs := [][]string{
		nil,
		{"-v"},
		{"--count=3", "-n", "x"},
		{"-vc9", "--name=y", "-v"},
		{"--no-verbose", "a", "--", "-b"},
	}
	for _, args := range inputs {
		res, err := Parse(set, args, sliceAllocator())
		if err != nil {
			t.Fatalf("Parse(%q): %v", args, err)
		}
		values := res.Values()
		if len(values) != set.Len() {
			t.Fatalf("Parse(%q): %d values for %d options", args, len(values), set.Len())
		}
		for i, pv := range values {
			if pv.Provenance == Unset || pv.Value == nil {
				t.Errorf("Parse(%q): option %d has no value: %+v", args, i, pv)
			}
		}
	}
}

func TestParse_Idempotent(t *testing.T) {
	set := countSet()
	args := []string{"-v", "--count", "-5", "in", "--name=", "--", "--count=9"}

	first, err := Parse(set, args, sliceAllocator())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	second, err := Parse(set, args, sliceAllocator())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(first.Values(), second.Values()); diff != "" {
		t.Errorf("values differ between runs:\n%s", diff)
	}
	if diff := cmp.Diff(first.Positionals(), second.Positionals()); diff != "" {
		t.Errorf("positionals differ between runs:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"in", "--count=9"}, first.Positionals()); diff != "" {
		t.Errorf("positionals mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_IntRoundTrip(t *testing.T) {
	set := countSet()

	res, err := Parse(set, []string{"--count=42"}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n, ok := res.GetInt("count"); !ok || n != 42 {
		t.Errorf("GetInt(count) = %d, %v, want 42, true", n, ok)
	}

	_, err = Parse(set, []string{"--count=notanumber"}, nil)
	if !IsType(err, ErrorTypeInvalidValue) {
		t.Errorf("--count=notanumber: %v, want InvalidValue", err)
	}
}

func TestParse_ValueForms(t *testing.T) {
	tests := []struct {
		args []string
		want int64
	}{
		{[]string{"--count=7"}, 7},
		{[]string{"--count", "7"}, 7},
		{[]string{"-c7"}, 7},
		{[]string{"-c=7"}, 7},
		{[]string{"-c", "7"}, 7},
		{[]string{"-vc7"}, 7},
		{[]string{"-c", "-7"}, -7},
		{[]string{"--count=0x10"}, 16},
		{[]string{"-c+3"}, 3},
	}
	for _, tt := range tests {
		res, err := Parse(countSet(), tt.args, nil)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.args, err)
			continue
		}
		if n, _ := res.GetInt("c"); n != tt.want {
			t.Errorf("Parse(%q): count = %d, want %d", tt.args, n, tt.want)
		}
	}
}

func TestParse_UndeclaredShort(t *testing.T) {
	_, err := Parse(countSet(), []string{"-x"}, nil)
	if !IsType(err, ErrorTypeUnknownOption) {
		t.Fatalf("-x: %v, want UnknownOption", err)
	}
}

func TestParse_EmptyArgs(t *testing.T) {
	res, err := Parse(countSet(), []string{}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []ParsedValue{
		{Value: Bool(false), Provenance: Default},
		{Value: Int(1), Provenance: Default},
		{Value: String(""), Provenance: Default},
	}
	if diff := cmp.Diff(want, res.Values()); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if len(res.Positionals()) != 0 {
		t.Errorf("positionals = %q, want none", res.Positionals())
	}
}

func TestParse_LastWriteWins(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"--verbose", "--no-verbose"}, false},
		{[]string{"--no-verbose", "--verbose"}, true},
		{[]string{"-v", "--verbose=no"}, false},
		{[]string{"--verbose=0", "-v"}, true},
		{[]string{"-v=0", "-v=yes", "-v=false"}, false},
	}
	for _, tt := range tests {
		res, err := Parse(countSet(), tt.args, nil)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.args, err)
		}
		if got, _ := res.GetBool("verbose"); got != tt.want {
			t.Errorf("Parse(%q): verbose = %v, want %v", tt.args, got, tt.want)
		}
		if !res.Explicit("verbose") {
			t.Errorf("Parse(%q): verbose should be explicit", tt.args)
		}
	}

	res, err := Parse(countSet(), []string{"-c1", "--count", "2", "-c=3"}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n, _ := res.GetInt("count"); n != 3 {
		t.Errorf("count = %d, want the last value 3", n)
	}
}

func TestParse_NegationPrefersDeclaredName(t *testing.T) {
	set := NewDeclarationSet().MustRegister(
		Flag(0, "cache", ""),
		Flag(0, "no-cache", ""),
	)
	res, err := Parse(set, []string{"--no-cache"}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, _ := res.GetBool("no-cache"); !v {
		t.Errorf("--no-cache should set the declared no-cache option")
	}
	if res.Explicit("cache") {
		t.Errorf("--no-cache should not touch cache")
	}
}

func TestParse_Terminator(t *testing.T) {
	res, err := Parse(countSet(), []string{"--", "-not-an-option"}, sliceAllocator())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]string{"-not-an-option"}, res.Positionals()); diff != "" {
		t.Errorf("positionals mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_PositionalsInterleaved(t *testing.T) {
	res, err := Parse(countSet(), []string{"a", "-v", "-", "", "b", "-c", "2", "c"}, sliceAllocator())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "-", "", "b", "c"}, res.Positionals()); diff != "" {
		t.Errorf("positionals mismatch (-want +got):\n%s", diff)
	}
	if !res.Explicit("v") || !res.Explicit("c") {
		t.Errorf("options after positionals are still recognized")
	}
}

func TestParse_AllocationDisabled(t *testing.T) {
	_, err := Parse(countSet(), []string{"-v", "file"}, nil)
	if !IsType(err, ErrorTypeAllocationFailure) || !errors.Is(err, ErrNoAllocator) {
		t.Fatalf("positional without allocator: %v, want AllocationFailure/ErrNoAllocator", err)
	}
	var pe *ParseError
	errors.As(err, &pe)
	if pe.Token != "file" || pe.Index != 1 {
		t.Errorf("error points at %q/%d, want file/1", pe.Token, pe.Index)
	}

	// Options alone never need the allocator.
	if _, err := Parse(countSet(), []string{"-v", "--count=2"}, nil); err != nil {
		t.Errorf("options without allocator: %v", err)
	}
}

func TestParse_CallerBuffer(t *testing.T) {
	buf := make([]string, 0, 2)

	res, err := Parse(countSet(), []string{"a", "b"}, nil, WithBuffer(buf))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, res.Positionals()); diff != "" {
		t.Errorf("positionals mismatch (-want +got):\n%s", diff)
	}
	if got := buf[:2]; got[0] != "a" || got[1] != "b" {
		t.Errorf("caller buffer not used: %q", got)
	}

	_, err = Parse(countSet(), []string{"a", "b", "c"}, nil, WithBuffer(make([]string, 0, 2)))
	if !errors.Is(err, ErrBufferExhausted) {
		t.Errorf("overflowing caller buffer: %v, want ErrBufferExhausted", err)
	}

	res, err = Parse(countSet(), []string{"a", "b", "c"}, sliceAllocator(), WithBuffer(make([]string, 0, 2)))
	if err != nil {
		t.Fatalf("Parse with buffer and allocator: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, res.Positionals()); diff != "" {
		t.Errorf("positionals mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_PartialResults(t *testing.T) {
	args := []string{"-v", "pos", "--count=oops", "--name=n"}

	res, err := Parse(countSet(), args, sliceAllocator())
	if res != nil || !IsType(err, ErrorTypeInvalidValue) {
		t.Fatalf("Parse = %v, %v; want nil result and InvalidValue", res, err)
	}

	res, err = Parse(countSet(), args, sliceAllocator(), WithPartialResults())
	if !IsType(err, ErrorTypeInvalidValue) {
		t.Fatalf("err = %v, want InvalidValue", err)
	}
	if res == nil {
		t.Fatalf("partial result missing")
	}
	defer res.Release()

	if v, ok := res.GetBool("verbose"); !v || !ok {
		t.Errorf("verbose = %v, %v; want the value set before the error", v, ok)
	}
	if _, ok := res.GetString("name"); ok {
		t.Errorf("name was never reached and should be unset")
	}
	if diff := cmp.Diff([]string{"pos"}, res.Positionals()); diff != "" {
		t.Errorf("positionals mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Required(t *testing.T) {
	set := NewDeclarationSet().MustRegister(
		Flag('v', "verbose", ""),
		StringOption('o', "output", "", "").AsRequired(),
	)

	_, err := Parse(set, []string{"-v"}, nil)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Type != ErrorTypeMissingRequired || pe.Option.Long != "output" {
		t.Fatalf("missing required: %v", err)
	}
	if got, want := err.Error(), "option -o, --output: required option not given"; got != want {
		t.Errorf("message %q, want %q", got, want)
	}

	res, err := Parse(set, []string{"-o", "out.txt"}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s, _ := res.GetString("output"); s != "out.txt" {
		t.Errorf("output = %q", s)
	}
}

func TestParse_NilSet(t *testing.T) {
	res, err := Parse(nil, []string{"a"}, sliceAllocator())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Values()) != 0 || len(res.Positionals()) != 1 {
		t.Errorf("unexpected result %+v", res.Values())
	}

	if _, err := Parse(nil, []string{"-a"}, nil); !IsType(err, ErrorTypeUnknownOption) {
		t.Errorf("option with nil set: %v", err)
	}
}

func TestParseArgs_DefaultAllocator(t *testing.T) {
	if !UseMalloc {
		t.Skip("built without the default allocator")
	}
	args := make([]string, 100)
	for i := range args {
		args[i] = "p"
	}
	res, err := ParseArgs(countSet(), args)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	defer res.Release()
	if len(res.Positionals()) != 100 {
		t.Errorf("got %d positionals, want 100", len(res.Positionals()))
	}
}
