package benchmark_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mnurzia/aparse"
	"github.com/spf13/pflag"
)

type outcome struct {
	Verbose     bool
	Count       int64
	Name        string
	Positionals []string
	Failed      bool
}

func parseWithAparse(args []string) outcome {
	set := aparse.NewDeclarationSet().MustRegister(
		aparse.Flag('v', "verbose", ""),
		aparse.IntOption('c', "count", 1, ""),
		aparse.StringOption('n', "name", "", ""),
	)
	res, err := aparse.Parse(set, args, nil, aparse.WithBuffer(make([]string, 0, len(args))))
	if err != nil {
		return outcome{Failed: true}
	}
	defer res.Release()

	var o outcome
	o.Verbose, _ = res.GetBool("verbose")
	o.Count, _ = res.GetInt("count")
	o.Name, _ = res.GetString("name")
	o.Positionals = append([]string{}, res.Positionals()...)
	return o
}

func parseWithPflag(args []string) outcome {
	fs := pflag.NewFlagSet("diff", pflag.ContinueOnError)
	fs.SetOutput(discard{})
	fs.BoolP("verbose", "v", false, "")
	fs.Int64P("count", "c", 1, "")
	fs.StringP("name", "n", "", "")
	if err := fs.Parse(args); err != nil {
		return outcome{Failed: true}
	}

	var o outcome
	o.Verbose, _ = fs.GetBool("verbose")
	o.Count, _ = fs.GetInt64("count")
	o.Name, _ = fs.GetString("name")
	o.Positionals = append([]string{}, fs.Args()...)
	return o
}

// TestAgreesWithPflag runs argument vectors whose meaning both parsers
// share and checks that they decode them identically.
func TestAgreesWithPflag(t *testing.T) {
	vectors := [][]string{
		{},
		{"-v"},
		{"--verbose"},
		{"--verbose=true"},
		{"--verbose=false"},
		{"--verbose=1"},
		{"--verbose=0"},
		{"--verbose=TRUE"},
		{"-c", "3"},
		{"-c3"},
		{"-c=3"},
		{"-vc3"},
		{"-vc", "3"},
		{"--count", "-5"},
		{"--count=+7"},
		{"--count=0x1f"},
		{"--count=0o17"},
		{"--count=9223372036854775807"},
		{"--count=-9223372036854775808"},
		{"--count=9223372036854775808"},
		{"--count=12x"},
		{"--count="},
		{"--count"},
		{"--name", "--verbose"},
		{"--name="},
		{"-n", "bob", "a", "-v", "b"},
		{"a", "--", "-v", "--count=2"},
		{"-", "-v"},
		{"--count=1", "--count=2"},
		{"--missing"},
		{"-x"},
	}
	for _, args := range vectors {
		want := parseWithPflag(args)
		got := parseWithAparse(args)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%q: pflag and aparse disagree (-pflag +aparse):\n%s", args, diff)
		}
	}
}
