package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mnurzia/aparse"
	"github.com/mnurzia/aparse/internal/termio"
)

func baseOptions(args []string) []aparse.ParseOption {
	if aparse.UseMalloc {
		return nil
	}
	// Without a default allocator every positional needs a slot up front.
	return []aparse.ParseOption{aparse.WithBuffer(make([]string, 0, len(args)))}
}

// parse applies --stop only when the parser itself reads it as the option:
// a first pass finds out, and a second pass stops at the first positional.
func parse(set *aparse.DeclarationSet, args []string) (*aparse.ParseResult, error) {
	opts := baseOptions(args)
	res, err := aparse.ParseArgs(set, args, append(slices.Clip(opts), aparse.WithPartialResults())...)
	if stop, _ := res.GetBool("stop"); stop {
		res.Release()
		return aparse.ParseArgs(set, args, append(slices.Clip(opts), aparse.WithStopAtPositional())...)
	}
	if err != nil {
		res.Release()
		return nil, err
	}
	return res, nil
}

func run(tio *termio.IOManager, set *aparse.DeclarationSet, args []string) error {
	log := termio.NewLogger(tio).WithFormat(termio.LogFormatTagged)

	res, err := parse(set, args)
	var pe *aparse.ParseError
	switch {
	case errors.As(err, &pe) && pe.Type == aparse.ErrorTypeExit:
		if errors.Is(err, aparse.ErrVersion) {
			_, err = fmt.Fprintln(tio.Out(), pe.Option.Version)
			return err
		}
		return aparse.WriteHelp(tio.Out(), progName, description, epilog, set)
	case err != nil:
		reportError(tio, set, err)
		return err
	}
	defer res.Release()

	levelName, _ := res.GetString("log-level")
	level, ok := termio.ParseLevel(levelName)
	if !ok {
		log.Warning("unknown log level %q, using info", levelName)
	}
	if verbose, _ := res.GetBool("verbose"); verbose {
		level = termio.LevelDebug
	}
	log.WithLevel(level)
	log.Debug("parsed %d arguments into %d options", len(args), set.Len())

	quiet, _ := res.GetBool("quiet")
	count, _ := res.GetInt("count")
	if count < 0 {
		err := &usageError{msg: fmt.Sprintf("--count must not be negative, got %d", count)}
		reportError(tio, set, err)
		return err
	}
	name, _ := res.GetString("name")

	for i := int64(0); i < count; i++ {
		if name != "" && !quiet {
			fmt.Fprintln(tio.Out(), tio.Bold(name))
		}
		if !quiet {
			writeReport(tio, set, res)
		}
		for _, p := range res.Positionals() {
			fmt.Fprintln(tio.Out(), p)
		}
	}
	log.Success("done")
	return nil
}

func writeReport(tio *termio.IOManager, set *aparse.DeclarationSet, res *aparse.ParseResult) {
	specs := set.Specs()
	for i, pv := range res.Values() {
		spec := specs[i]
		label := spec.Long
		if label == "" {
			label = string(spec.Short)
		}
		fmt.Fprintf(tio.Out(), "%-10s %-8s %s\n", label, pv.Value, tio.Faint(pv.Provenance.String()))
	}
}

// reportError writes the usage line and a diagnostic to stderr.
func reportError(tio *termio.IOManager, set *aparse.DeclarationSet, err error) {
	var pe *aparse.ParseError
	_ = aparse.WriteUsage(tio.Err(), progName, set)
	if !errors.As(err, &pe) {
		fmt.Fprintln(tio.Err(), tio.Colorize(progName+": error: "+err.Error(), "31"))
		return
	}
	fmt.Fprintln(tio.Err(), tio.Colorize(pe.Diagnostic(progName), "31"))
	if hint := pe.Suggest(set); hint != "" {
		fmt.Fprintf(tio.Err(), "did you mean %s?\n", tio.Bold(hint))
	}
}
