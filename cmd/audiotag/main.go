// Command audiotag reads and rewrites the tags of MP3, FLAC and M4A files.
//
// Usage:
//
//	audiotag read [-verbose] FILE...
//	audiotag write [-title T] [-remove comment,cover] [-backup .bak] FILE...
//	audiotag cover [-out PATH] FILE
//	audiotag atoms FILE.m4a
//	audiotag version
//
// Every flag can also be set through an AUDIOTAG_ environment variable
// (AUDIOTAG_VERBOSE=1) or a plain config file passed with -config.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/peterbourgon/ff"

	"github.com/simonhull/audiotag"
)

const (
	programName = "audiotag"
	programVar  = "AUDIOTAG"
)

// command is one audiotag subcommand.
type command struct {
	name  string
	usage string
	flags func(set *flag.FlagSet) func(e *env, args []string) error
}

// env carries what every subcommand shares.
type env struct {
	stdout io.Writer
	logger *slog.Logger
}

var commands = []command{
	{"read", "read FILE...", readFlags},
	{"write", "write [tag flags] FILE...", writeFlags},
	{"cover", "cover [-out PATH] FILE", coverFlags},
	{"atoms", "atoms FILE", atomsFlags},
	{"version", "version", versionFlags},
}

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errUsage
	}
	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		printUsage(stderr)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	set := flag.NewFlagSet(programName+" "+cmd.name, flag.ContinueOnError)
	set.SetOutput(stderr)
	verbose := set.Bool("verbose", false, "log debug details to stderr")
	set.String("config", "", "path to a plain config file (optional)")
	exec := cmd.flags(set)

	if err := ff.Parse(set, args[1:],
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithEnvVarPrefix(programVar),
	); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	e := &env{
		stdout: stdout,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}
	return exec(e, set.Args())
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s <command> [flags]\n\ncommands:\n", programName)
	for _, c := range commands {
		fmt.Fprintf(w, "  %s %s\n", programName, c.usage)
	}
	fmt.Fprintf(w, "\nversion %s\n", audiotag.Version)
}

func versionFlags(set *flag.FlagSet) func(*env, []string) error {
	return func(e *env, args []string) error {
		_, err := fmt.Fprintf(e.stdout, "%s %s\n", programName, audiotag.GetVersionInfo())
		return err
	}
}

// needFiles checks the positional arguments of a subcommand. With single
// set, exactly one file is accepted.
func needFiles(args []string, single bool) error {
	switch {
	case single && len(args) != 1:
		return fmt.Errorf("%w: expected exactly one file", errUsage)
	case len(args) == 0:
		return fmt.Errorf("%w: expected at least one file", errUsage)
	}
	return nil
}
