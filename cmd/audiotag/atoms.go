package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/m4a"
)

// atomsFlags dumps the MP4 atom tree, which is handy for checking what a
// rewrite changed.
func atomsFlags(set *flag.FlagSet) func(*env, []string) error {
	return func(e *env, args []string) error {
		if err := needFiles(args, true); err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck // Read-only handle

		info, err := f.Stat()
		if err != nil {
			return err
		}

		sr := binary.NewSafeReader(f, info.Size(), args[0])
		return m4a.Walk(sr, func(a m4a.Atom, depth int) error {
			_, err := fmt.Fprintf(e.stdout, "%s%s (size: %s, offset: %d)\n",
				strings.Repeat("  ", depth), printable(a.Type), humanize.Comma(a.Size), a.Offset)
			return err
		})
	}
}

// printable renders an atom type, replacing the iTunes copyright byte.
func printable(name string) string {
	return strings.ReplaceAll(name, "\xA9", "©")
}
