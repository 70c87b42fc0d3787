// Package termio binds a command to its standard streams and decides
// whether they can render ANSI colour.
package termio

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IOManager centralizes IO and terminal capabilities
type IOManager struct {
	in  io.Reader
	out io.Writer
	err io.Writer

	forceColor bool
	noColor    bool

	getenv func(string) string
}

// New returns a manager bound to process stdio
func New() *IOManager {
	return &IOManager{in: os.Stdin, out: os.Stdout, err: os.Stderr, getenv: os.Getenv}
}

// WithIn sets the input reader and returns the manager for chaining.
func (m *IOManager) WithIn(r io.Reader) *IOManager { m.in = r; return m }

// WithOut sets the standard output writer and returns the manager for chaining.
func (m *IOManager) WithOut(w io.Writer) *IOManager { m.out = w; return m }

// WithErr sets the standard error writer and returns the manager for chaining.
func (m *IOManager) WithErr(w io.Writer) *IOManager { m.err = w; return m }

// WithEnv replaces the environment lookup, for tests.
func (m *IOManager) WithEnv(getenv func(string) string) *IOManager { m.getenv = getenv; return m }

// ForceColor forces color output on, regardless of environment.
func (m *IOManager) ForceColor() *IOManager { m.forceColor = true; m.noColor = false; return m }

// NoColor disables color output, regardless of environment.
func (m *IOManager) NoColor() *IOManager { m.noColor = true; m.forceColor = false; return m }

// ColorAuto uses environment heuristics to determine color support.
func (m *IOManager) ColorAuto() *IOManager { m.noColor = false; m.forceColor = false; return m }

func (m *IOManager) In() io.Reader  { return m.in }
func (m *IOManager) Out() io.Writer { return m.out }
func (m *IOManager) Err() io.Writer { return m.err }

// IsTTY reports whether the output writer is a terminal.
func (m *IOManager) IsTTY() bool { return isTerminal(m.out) }

// IsInteractive reports whether input comes from a terminal outside CI.
func (m *IOManager) IsInteractive() bool { return isTerminal(m.in) && m.env("CI") == "" }

// SupportsColor follows NO_COLOR and FORCE_COLOR, then requires a
// terminal whose TERM is not "dumb".
func (m *IOManager) SupportsColor() bool {
	if m.noColor || m.env("NO_COLOR") != "" {
		return false
	}
	if m.forceColor || m.env("FORCE_COLOR") != "" {
		return true
	}
	if !m.IsTTY() {
		return false
	}
	term := m.env("TERM")
	return term != "" && term != "dumb"
}

// Colorize wraps s with the given ANSI SGR code (e.g., "31" for red) and a
// trailing reset. If color is not supported, it returns s unchanged.
func (m *IOManager) Colorize(s, code string) string {
	if code == "" || !m.SupportsColor() {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// Bold returns s in bold when color is supported; otherwise s unchanged.
func (m *IOManager) Bold(s string) string { return m.Colorize(s, "1") }

// Faint returns s in faint intensity when supported; otherwise s unchanged.
func (m *IOManager) Faint(s string) string { return m.Colorize(s, "2") }

func (m *IOManager) env(key string) string {
	if m.getenv == nil {
		return ""
	}
	return m.getenv(key)
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
