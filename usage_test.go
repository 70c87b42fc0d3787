package aparse

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func helpSet() *DeclarationSet {
	return NewDeclarationSet().MustRegister(
		Flag('a', "all", "include hidden entries"),
		Flag('b', "", ""),
		IntOption('c', "count", 1, "number of runs"),
		StringOption(0, "name", "", "").WithMetavar("NAME"),
		Flag(0, "dry-run", "print instead of doing"),
		StringOption('o', "output", "", "where to write").WithMetavar("FILE").AsRequired(),
	)
}

func TestWriteUsage(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteUsage(&buf, "prog", helpSet()); err != nil {
		t.Fatalf("WriteUsage: %v", err)
	}
	want := "usage: prog [-ab] [-c ARG] [--name NAME] [--dry-run] -o FILE\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("usage mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteUsage_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteUsage(&buf, "", nil)
	if buf.String() != "usage:\n" {
		t.Errorf("usage = %q", buf.String())
	}

	buf.Reset()
	WriteUsage(&buf, "prog", NewDeclarationSet())
	if buf.String() != "usage: prog\n" {
		t.Errorf("usage = %q", buf.String())
	}
}

func TestWriteHelp(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHelp(&buf, "prog", "Does things.", "", helpSet()); err != nil {
		t.Fatalf("WriteHelp: %v", err)
	}
	want := `usage: prog [-ab] [-c ARG] [--name NAME] [--dry-run] -o FILE

Does things.

optional arguments:
  -a, --all
    include hidden entries
  -b
  -c ARG, --count ARG
    number of runs
  --name NAME
  --dry-run
    print instead of doing
  -o FILE, --output FILE
    where to write
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("help mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteHelp_NoDescription(t *testing.T) {
	var buf bytes.Buffer
	set := NewDeclarationSet().MustRegister(Flag('q', "", "quiet"))
	WriteHelp(&buf, "p", "", "", set)
	want := "usage: p [-q]\n\noptional arguments:\n  -q\n    quiet\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("help mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteHelp_PositionalsEnumAndEpilog(t *testing.T) {
	set := NewDeclarationSet().MustRegister(
		HelpOption('h', "help", "show this help"),
		EnumOption('m', "mode", []string{"fast", "safe"}, 0, "how to copy"),
	)
	set.RegisterPositional(PositionalSpec{Metavar: "SRC", Help: "file to copy"})
	set.RegisterPositional(PositionalSpec{Metavar: "DST", Variadic: true})

	var buf bytes.Buffer
	if err := WriteHelp(&buf, "cp", "Copies files.", "Exit status is 0 on success.", set); err != nil {
		t.Fatalf("WriteHelp: %v", err)
	}
	want := `usage: cp [-h] [-m {fast,safe}] SRC [DST...]

Copies files.

positional arguments:
  SRC
    file to copy
  DST...

optional arguments:
  -h, --help
    show this help
  -m {fast,safe}, --mode {fast,safe}
    how to copy

Exit status is 0 on success.
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("help mismatch (-want +got):\n%s", diff)
	}
}
