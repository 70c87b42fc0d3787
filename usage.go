package aparse

import (
	"bufio"
	"io"
)

// WriteUsage writes a one-line synopsis of the declared options:
//
//	usage: prog [-vq] [-c ARG] [--name NAME] -o FILE SRC [DST...]
//
// Optional short flags are coalesced into the first bracket. Required
// options follow the optional ones without brackets, then the declared
// positionals.
func WriteUsage(w io.Writer, prog string, set *DeclarationSet) error {
	bw := bufio.NewWriter(w)
	writeUsage(bw, prog, set)
	return bw.Flush()
}

// WriteHelp writes the usage line, the description if any, one entry per
// positional and per option with its help text indented below it, and the
// epilog if any.
func WriteHelp(w io.Writer, prog, description, epilog string, set *DeclarationSet) error {
	bw := bufio.NewWriter(w)
	writeUsage(bw, prog, set)
	writeParagraph(bw, description)
	if set != nil && len(set.positionals) > 0 {
		bw.WriteString("\npositional arguments:\n")
		for i := range set.positionals {
			p := &set.positionals[i]
			bw.WriteString("  ")
			bw.WriteString(p.Metavar)
			if p.Variadic {
				bw.WriteString("...")
			}
			bw.WriteByte('\n')
			writeHelpLine(bw, p.Help)
		}
	}
	if set != nil && set.Len() > 0 {
		bw.WriteString("\noptional arguments:\n")
		for i := range set.specs {
			spec := &set.specs[i]
			bw.WriteString("  ")
			if spec.Short != 0 {
				bw.WriteByte('-')
				bw.WriteRune(spec.Short)
				writeMetavar(bw, spec)
			}
			if spec.Long != "" {
				if spec.Short != 0 {
					bw.WriteString(", ")
				}
				bw.WriteString("--")
				bw.WriteString(spec.Long)
				writeMetavar(bw, spec)
			}
			bw.WriteByte('\n')
			writeHelpLine(bw, spec.Help)
		}
	}
	writeParagraph(bw, epilog)
	return bw.Flush()
}

func writeParagraph(bw *bufio.Writer, text string) {
	if text == "" {
		return
	}
	bw.WriteByte('\n')
	bw.WriteString(text)
	bw.WriteByte('\n')
}

func writeHelpLine(bw *bufio.Writer, help string) {
	if help == "" {
		return
	}
	bw.WriteString("    ")
	bw.WriteString(help)
	bw.WriteByte('\n')
}

// coalesces reports whether spec is printed inside the leading [-abc].
func coalesces(spec *OptionSpec) bool {
	return spec.Short != 0 && spec.Arity == ArityFlag && !spec.Required
}

func writeUsage(bw *bufio.Writer, prog string, set *DeclarationSet) {
	bw.WriteString("usage:")
	if prog != "" {
		bw.WriteByte(' ')
		bw.WriteString(prog)
	}
	if set == nil {
		bw.WriteByte('\n')
		return
	}

	opened := false
	for i := range set.specs {
		if spec := &set.specs[i]; coalesces(spec) {
			if !opened {
				bw.WriteString(" [-")
				opened = true
			}
			bw.WriteRune(spec.Short)
		}
	}
	if opened {
		bw.WriteByte(']')
	}

	for _, required := range []bool{false, true} {
		for i := range set.specs {
			spec := &set.specs[i]
			if coalesces(spec) || spec.Required != required {
				continue
			}
			bw.WriteByte(' ')
			if !required {
				bw.WriteByte('[')
			}
			if spec.Short != 0 {
				bw.WriteByte('-')
				bw.WriteRune(spec.Short)
			} else {
				bw.WriteString("--")
				bw.WriteString(spec.Long)
			}
			writeMetavar(bw, spec)
			if !required {
				bw.WriteByte(']')
			}
		}
	}

	for i := range set.positionals {
		p := &set.positionals[i]
		bw.WriteByte(' ')
		if p.Variadic {
			bw.WriteByte('[')
			bw.WriteString(p.Metavar)
			bw.WriteString("...]")
		} else {
			bw.WriteString(p.Metavar)
		}
	}
	bw.WriteByte('\n')
}

func writeMetavar(bw *bufio.Writer, spec *OptionSpec) {
	if spec.Arity == ArityFlag {
		return
	}
	bw.WriteByte(' ')
	bw.WriteString(spec.metavar())
}
