package aparse

import (
	"errors"
	"slices"
	"strings"
	"sync/atomic"
)

// Kind identifies how an option's value is converted.
type Kind string

const (
	KindBool   Kind = "bool"
	KindInt    Kind = "int"
	KindString Kind = "string"
	// KindEnum accepts exactly one of the declaration's Choices.
	KindEnum Kind = "enum"
	// KindHelp and KindVersion end the parse as soon as they are seen;
	// Parse reports them with ErrorTypeExit and ErrHelp or ErrVersion.
	KindHelp    Kind = "help"
	KindVersion Kind = "version"
)

// builtinKind reports whether kind is converted by the engine itself.
func builtinKind(kind Kind) bool {
	switch kind {
	case KindBool, KindInt, KindString, KindEnum, KindHelp, KindVersion:
		return true
	}
	return false
}

// exitKind reports whether options of kind stop the parse.
func exitKind(kind Kind) bool {
	return kind == KindHelp || kind == KindVersion
}

// Arity says whether an option is a bare flag or needs a value.
type Arity int

const (
	// ArityFlag options are satisfied by their presence. They may still
	// receive a value through the "--name=value" and "-n=value" forms.
	ArityFlag Arity = iota
	// ArityValue options consume a value, attached or as the next token.
	ArityValue
)

func (a Arity) String() string {
	if a == ArityValue {
		return "value"
	}
	return "flag"
}

var (
	errNoName      = errors.New("option needs a short or a long name")
	errBadShort    = errors.New("short name must be a printable ASCII character other than '-' and '='")
	errBadLong     = errors.New("long name must not start with '-' or contain '=' or spaces")
	errUnknownKind = errors.New("no handler for option kind")
	errNeedsValue  = errors.New("option kind requires a value")
	errDefaultKind = errors.New("default value does not match option kind")
	errBuiltinKind = errors.New("builtin kinds cannot be replaced")
	errNilHandler  = errors.New("handler is nil")
	errNoChoices   = errors.New("enum option needs at least one choice")
	errBadDefault  = errors.New("default is not one of the choices")
	errExitArity   = errors.New("help and version options do not take a value")
	errNoMetavar   = errors.New("positional argument needs a metavar")
	errAfterRest   = errors.New("no positional argument may follow a variadic one")
)

// OptionSpec declares one option. A DeclarationSet borrows it for the
// lifetime of the set and never modifies it.
type OptionSpec struct {
	Short    rune   // single character, 0 for none
	Long     string // long name without leading dashes, "" for none
	Kind     Kind
	Arity    Arity
	Default  Value // nil means the zero value of Kind
	Help     string
	Metavar  string // placeholder shown in help, "ARG" when empty
	Required bool

	Choices []string // accepted values of a KindEnum option
	Version string   // text reported by a KindVersion option
}

// PositionalSpec declares a positional argument. Once any positional is
// declared, Parse checks the number of positionals against the
// declarations; without declarations any number is accepted.
type PositionalSpec struct {
	Metavar  string
	Help     string
	Variadic bool // accepts zero or more arguments; must come last
}

// Flag declares a boolean option that is set by its presence.
func Flag(short rune, long, help string) OptionSpec {
	return OptionSpec{Short: short, Long: long, Kind: KindBool, Arity: ArityFlag, Help: help}
}

// IntOption declares an option taking an integer value.
func IntOption(short rune, long string, def int64, help string) OptionSpec {
	return OptionSpec{Short: short, Long: long, Kind: KindInt, Arity: ArityValue, Default: Int(def), Help: help}
}

// StringOption declares an option taking a string value.
func StringOption(short rune, long, def, help string) OptionSpec {
	return OptionSpec{Short: short, Long: long, Kind: KindString, Arity: ArityValue, Default: String(def), Help: help}
}

// EnumOption declares an option whose value must be one of choices. def
// is the index of the default choice.
func EnumOption(short rune, long string, choices []string, def int, help string) OptionSpec {
	d := Enum{Index: def}
	if def >= 0 && def < len(choices) {
		d.Name = choices[def]
	}
	return OptionSpec{Short: short, Long: long, Kind: KindEnum, Arity: ArityValue, Default: d, Help: help, Choices: choices}
}

// HelpOption declares an option that ends the parse with ErrHelp.
func HelpOption(short rune, long, help string) OptionSpec {
	return OptionSpec{Short: short, Long: long, Kind: KindHelp, Arity: ArityFlag, Help: help}
}

// VersionOption declares an option that ends the parse with ErrVersion.
// The caller prints version, found in the error's Option.
func VersionOption(short rune, long, version, help string) OptionSpec {
	return OptionSpec{Short: short, Long: long, Kind: KindVersion, Arity: ArityFlag, Help: help, Version: version}
}

// WithMetavar returns a copy of s with the help placeholder set.
func (s OptionSpec) WithMetavar(metavar string) OptionSpec {
	s.Metavar = metavar
	return s
}

// WithArity returns a copy of s with the given arity.
func (s OptionSpec) WithArity(a Arity) OptionSpec {
	s.Arity = a
	return s
}

// AsRequired returns a copy of s that must appear in every parse.
func (s OptionSpec) AsRequired() OptionSpec {
	s.Required = true
	return s
}

// displayName renders "-c, --count", "-c" or "--count".
func (s *OptionSpec) displayName() string {
	switch {
	case s.Short != 0 && s.Long != "":
		return "-" + string(s.Short) + ", --" + s.Long
	case s.Short != 0:
		return "-" + string(s.Short)
	default:
		return "--" + s.Long
	}
}

func (s *OptionSpec) metavar() string {
	switch {
	case s.Metavar != "":
		return s.Metavar
	case s.Kind == KindEnum:
		return "{" + strings.Join(s.Choices, ",") + "}"
	}
	return "ARG"
}

// DeclarationSet is an ordered collection of option declarations.
//
// A set built with NewDeclarationSet grows as needed and indexes names in
// maps. A set built with NewFixedDeclarationSet lives in caller-supplied
// storage and never allocates while registering options.
//
// The first Parse seals the set; from then on it is read-only and may be
// shared by concurrent Parse calls.
type DeclarationSet struct {
	specs       []OptionSpec
	positionals []PositionalSpec
	fixed       bool

	short map[rune]int
	long  map[string]int
	kinds map[Kind]Handler

	sealed atomic.Bool
}

// NewDeclarationSet returns an empty, growable declaration set.
func NewDeclarationSet() *DeclarationSet {
	return &DeclarationSet{
		specs: make([]OptionSpec, 0, 8),
		short: make(map[rune]int, 8),
		long:  make(map[string]int, 8),
	}
}

// NewFixedDeclarationSet returns a declaration set that stores at most
// len(storage) options in storage. Registering past that fails with
// ErrorTypeAllocationFailure.
func NewFixedDeclarationSet(storage []OptionSpec) *DeclarationSet {
	return &DeclarationSet{specs: storage[:0:len(storage)], fixed: true}
}

// Register validates spec and appends it to the set.
func (set *DeclarationSet) Register(spec OptionSpec) error {
	if set.sealed.Load() {
		return declError(ErrorTypeInvalidDeclaration, &spec, ErrSealed)
	}
	if err := set.validate(&spec); err != nil {
		return err
	}
	if spec.Short != 0 && set.indexShort(spec.Short) >= 0 {
		return declError(ErrorTypeDuplicateOption, &spec, nil)
	}
	if spec.Long != "" && set.indexLong(spec.Long) >= 0 {
		return declError(ErrorTypeDuplicateOption, &spec, nil)
	}
	if set.fixed && len(set.specs) == cap(set.specs) {
		return declError(ErrorTypeAllocationFailure, &spec, ErrSetFull)
	}

	set.specs = append(set.specs, spec)
	if !set.fixed {
		if set.short == nil {
			set.short = make(map[rune]int, 8)
			set.long = make(map[string]int, 8)
		}
		idx := len(set.specs) - 1
		if spec.Short != 0 {
			set.short[spec.Short] = idx
		}
		if spec.Long != "" {
			set.long[spec.Long] = idx
		}
	}
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// declarations fixed at compile time.
func (set *DeclarationSet) MustRegister(specs ...OptionSpec) *DeclarationSet {
	for _, spec := range specs {
		if err := set.Register(spec); err != nil {
			panic(err)
		}
	}
	return set
}

func (set *DeclarationSet) validate(spec *OptionSpec) error {
	if spec.Short == 0 && spec.Long == "" {
		return declError(ErrorTypeInvalidDeclaration, spec, errNoName)
	}
	if spec.Short != 0 && (spec.Short <= ' ' || spec.Short >= 0x7f || spec.Short == '-' || spec.Short == '=') {
		return declError(ErrorTypeInvalidDeclaration, spec, errBadShort)
	}
	if spec.Long != "" && (spec.Long[0] == '-' || strings.ContainsAny(spec.Long, "= \t\n")) {
		return declError(ErrorTypeInvalidDeclaration, spec, errBadLong)
	}
	if !builtinKind(spec.Kind) && set.kinds[spec.Kind] == nil {
		return declError(ErrorTypeInvalidDeclaration, spec, errUnknownKind)
	}
	switch spec.Kind {
	case KindInt, KindString, KindEnum:
		if spec.Arity == ArityFlag {
			return declError(ErrorTypeInvalidDeclaration, spec, errNeedsValue)
		}
	case KindHelp, KindVersion:
		if spec.Arity != ArityFlag {
			return declError(ErrorTypeInvalidDeclaration, spec, errExitArity)
		}
	}
	if spec.Default != nil && spec.Default.Kind() != spec.Kind {
		return declError(ErrorTypeInvalidDeclaration, spec, errDefaultKind)
	}
	if spec.Kind == KindEnum {
		if len(spec.Choices) == 0 {
			return declError(ErrorTypeInvalidDeclaration, spec, errNoChoices)
		}
		if d, ok := spec.Default.(Enum); ok && (d.Index < 0 || d.Index >= len(spec.Choices) || spec.Choices[d.Index] != d.Name) {
			return declError(ErrorTypeInvalidDeclaration, spec, errBadDefault)
		}
	}
	return nil
}

// RegisterPositional declares the next positional argument. Declarations
// are matched in order; only the last may be variadic.
func (set *DeclarationSet) RegisterPositional(p PositionalSpec) error {
	if set.sealed.Load() {
		return declError(ErrorTypeInvalidDeclaration, nil, ErrSealed)
	}
	if p.Metavar == "" {
		return declError(ErrorTypeInvalidDeclaration, nil, errNoMetavar)
	}
	if n := len(set.positionals); n > 0 && set.positionals[n-1].Variadic {
		return declError(ErrorTypeInvalidDeclaration, nil, errAfterRest)
	}
	set.positionals = append(set.positionals, p)
	return nil
}

// Positionals returns a copy of the positional declarations.
func (set *DeclarationSet) Positionals() []PositionalSpec {
	return slices.Clone(set.positionals)
}

// positionalLimits returns how many positionals a parse needs and how many
// it accepts; most is -1 for no limit.
func (set *DeclarationSet) positionalLimits() (least, most int) {
	n := len(set.positionals)
	if n == 0 {
		return 0, -1
	}
	if set.positionals[n-1].Variadic {
		return n - 1, -1
	}
	return n, n
}

// RegisterKind installs the handler used for options of a new kind.
// Builtin kinds cannot be replaced.
func (set *DeclarationSet) RegisterKind(kind Kind, h Handler) error {
	if set.sealed.Load() {
		return declError(ErrorTypeInvalidDeclaration, nil, ErrSealed)
	}
	if h == nil {
		return declError(ErrorTypeInvalidDeclaration, nil, errNilHandler)
	}
	if builtinKind(kind) {
		return declError(ErrorTypeInvalidDeclaration, nil, errBuiltinKind)
	}
	if set.kinds == nil {
		set.kinds = make(map[Kind]Handler, 2)
	}
	set.kinds[kind] = h
	return nil
}

// Lookup resolves "-x", "--name", or a bare name to its declaration.
// Unknown names return false; deciding what that means is up to the caller.
func (set *DeclarationSet) Lookup(token string) (*OptionSpec, bool) {
	idx := set.indexToken(token)
	if idx < 0 {
		return nil, false
	}
	return &set.specs[idx], true
}

// Len returns the number of declared options.
func (set *DeclarationSet) Len() int {
	return len(set.specs)
}

// Specs returns a copy of the declarations in registration order.
func (set *DeclarationSet) Specs() []OptionSpec {
	return slices.Clone(set.specs)
}

func (set *DeclarationSet) indexToken(token string) int {
	switch {
	case strings.HasPrefix(token, "--"):
		return set.indexLong(token[2:])
	case len(token) == 2 && token[0] == '-':
		return set.indexShort(rune(token[1]))
	case len(token) == 1:
		if idx := set.indexShort(rune(token[0])); idx >= 0 {
			return idx
		}
		return set.indexLong(token)
	default:
		return set.indexLong(token)
	}
}

func (set *DeclarationSet) indexShort(r rune) int {
	if r == 0 {
		return -1
	}
	if !set.fixed {
		if idx, ok := set.short[r]; ok {
			return idx
		}
		return -1
	}
	for i := range set.specs {
		if set.specs[i].Short == r {
			return i
		}
	}
	return -1
}

func (set *DeclarationSet) indexLong(name string) int {
	if name == "" {
		return -1
	}
	if !set.fixed {
		if idx, ok := set.long[name]; ok {
			return idx
		}
		return -1
	}
	for i := range set.specs {
		if set.specs[i].Long == name {
			return i
		}
	}
	return -1
}

// handler returns the converter for spec's values, nil for kinds the
// engine handles without one.
func (set *DeclarationSet) handler(spec *OptionSpec) Handler {
	if spec.Kind == KindEnum {
		return (*enumHandler)(spec)
	}
	if h := builtinHandler(spec.Kind); h != nil {
		return h
	}
	return set.kinds[spec.Kind]
}

func (set *DeclarationSet) seal() {
	set.sealed.Store(true)
}
