package main

import (
	"errors"
	"fmt"
	"github.com/edgarwelteKIT/dmpbbo/dmps"
	"github.com/edgarwelteKIT/dmpbbo/dynamicalsystems"
	"github.com/edgarwelteKIT/dmpbbo/functionapproximators"
	"github.com/edgarwelteKIT/dmpbbo/jsonpickle"
	"github.com/spf13/pflag"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flagSet := pflag.NewFlagSet("dmpcheck", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)

	kind := flagSet.String("kind", "auto", "document kind: auto, dmp, fa or ds")
	tags := flagSet.Bool("tags", false, "list the known class tags and exit")
	help := flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet, stderr)
			return 0
		}
		return 2
	}

	if *help {
		printHelp(flagSet, stderr)
		return 0
	}

	if *tags {
		printTags(stdout)
		return 0
	}

	switch *kind {
	case "auto", "dmp", "fa", "ds":
	default:
		fmt.Fprintf(stderr, "error: unknown kind %q\n", *kind)
		return 2
	}

	files := flagSet.Args()
	if len(files) == 0 {
		fmt.Fprintf(stderr, "error: no input files\n")
		printHelp(flagSet, stderr)
		return 2
	}

	failed := false
	for _, path := range files {
		summary, err := checkFile(path, *kind)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}

		fmt.Fprintf(stdout, "%s: %s\n", path, summary)
	}

	if failed {
		return 1
	}

	return 0
}

// checkFile decodes the document at path as the requested kind and sums it
// up in one line.
func checkFile(path, kind string) (string, error) {
	source, err := jsonpickle.ReadFile(path)
	if err != nil {
		return "", err
	}

	return check(source, kind)
}

func check(source jsonpickle.Source, kind string) (string, error) {
	switch kind {
	case "dmp":
		system, err := dmps.FromJSONPickle(source)
		if err != nil {
			return "", err
		}

		return summarizeSystem(system), nil

	case "fa":
		fa, err := functionapproximators.FromJSONPickle(source)
		if err != nil {
			return "", err
		}

		return summarizeApproximator(fa), nil

	case "ds":
		system, err := dynamicalsystems.FromJSONPickle(source)
		if err != nil {
			return "", err
		}

		return summarizeSystem(system), nil
	}

	return checkAuto(source)
}

// checkAuto tries the family registries from the most to the least
// composite, moving on while the class tag is not theirs.
func checkAuto(source jsonpickle.Source) (string, error) {
	system, err := dmps.FromJSONPickle(source)
	if err == nil {
		return summarizeSystem(system), nil
	}
	if !errors.Is(err, jsonpickle.ErrUnknownType) {
		return "", err
	}

	fa, err := functionapproximators.FromJSONPickle(source)
	if err == nil {
		return summarizeApproximator(fa), nil
	}
	if !errors.Is(err, jsonpickle.ErrUnknownType) {
		return "", err
	}

	system, err = dynamicalsystems.FromJSONPickle(source)
	if err == nil {
		return summarizeSystem(system), nil
	}

	var unknown jsonpickle.UnknownTypeError
	if errors.As(err, &unknown) {
		return "", fmt.Errorf("not a movement primitive, function approximator or dynamical system: %w", unknown)
	}

	return "", err
}

func summarizeSystem(system dynamicalsystems.DynamicalSystem) string {
	switch dmp := system.(type) {
	case *dmps.DmpWithSchedules:
		return fmt.Sprintf("%s: %d dimensions, %d schedules, tau %gs, scaling %s",
			dmp.Name(), dmp.DimDmp(), dmp.DimSchedules(), dmp.Tau(), dmp.Scaling())

	case *dmps.Dmp:
		return fmt.Sprintf("%s: %d dimensions, tau %gs, scaling %s",
			dmp.Name(), dmp.DimDmp(), dmp.Tau(), dmp.Scaling())
	}

	return fmt.Sprintf("%s: dimension %d, tau %gs", system.Name(), system.Dim(), system.Tau())
}

func summarizeApproximator(fa functionapproximators.FunctionApproximator) string {
	return fmt.Sprintf("%s: input dimension %d", fa.Name(), fa.DimInput())
}

func printTags(w io.Writer) {
	for _, tags := range [][]string{dmps.Tags(), functionapproximators.Tags(), dynamicalsystems.Tags()} {
		for _, tag := range tags {
			fmt.Fprintln(w, tag)
		}
	}
}

func printHelp(flagSet *pflag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `dmpcheck validates jsonpickle documents written by dmpbbo.

Usage:
  dmpcheck [--kind auto|dmp|fa|ds] FILE...
  dmpcheck --tags

Files may be plain JSON, JSON with comments, or gzip-compressed. Every
file is decoded through the family registries; --kind auto tries movement
primitives, then function approximators, then dynamical systems.

Exit codes:
  0  all files decoded
  1  at least one file failed to decode
  2  usage error

Flags:
%s`, flagSet.FlagUsages())
}
