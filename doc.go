// Package aparse parses command-line options for programs that need
// control over allocation.
//
// Options are declared once in a DeclarationSet and the argument vector is
// walked by an explicit state machine:
//
//	set := aparse.NewDeclarationSet().MustRegister(
//		aparse.Flag('v', "verbose", "print more"),
//		aparse.IntOption('c', "count", 1, "number of runs"),
//	)
//	res, err := aparse.ParseArgs(set, os.Args[1:])
//	if err != nil {
//		var pe *aparse.ParseError
//		if errors.As(err, &pe) {
//			fmt.Fprintln(os.Stderr, pe.Diagnostic(os.Args[0]))
//		}
//		os.Exit(2)
//	}
//	defer res.Release()
//	n, _ := res.GetInt("count")
//
// Accepted forms are "--name", "--name=value", "--name value", "--no-name"
// for boolean options, clusters such as "-vc5", "-c 5" and "-c=5", and "--"
// to end option processing.
//
// EnumOption restricts a value to a list of choices. HelpOption and
// VersionOption end the parse with an ErrorTypeExit error wrapping ErrHelp
// or ErrVersion; the caller decides what to print. RegisterPositional
// names the positional arguments for help output and bounds their count.
//
// The only variable-length output is the list of positional arguments.
// Its storage comes from a caller buffer (WithBuffer) and then from the
// Allocator passed to Parse. Builds with the aparse_nomalloc tag have no
// default allocator, so such parses report ErrorTypeAllocationFailure
// unless the caller provides storage.
package aparse
