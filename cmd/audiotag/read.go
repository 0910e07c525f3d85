package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/simonhull/audiotag"
)

func readFlags(set *flag.FlagSet) func(*env, []string) error {
	concurrency := set.Int("concurrency", 0, "files read in parallel (default: number of CPUs)")

	return func(e *env, args []string) error {
		if err := needFiles(args, false); err != nil {
			return err
		}
		opts := []audiotag.Option{audiotag.WithLogger(e.logger)}
		if *concurrency > 0 {
			opts = append(opts, audiotag.WithConcurrency(*concurrency))
		}

		all, err := audiotag.ReadMany(context.Background(), args, opts...)
		if err != nil {
			return err
		}
		for i, tags := range all {
			if i > 0 {
				fmt.Fprintln(e.stdout)
			}
			if err := printTags(e, args[i], tags); err != nil {
				return err
			}
		}
		return nil
	}
}

func printTags(e *env, path string, tags audiotag.TagSet) error {
	format, err := audiotag.FormatFromPath(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%s (%s, %s)\n", path, format, humanize.Bytes(uint64(info.Size())))

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	count := 0
	for name, value := range tags.Fields() {
		fmt.Fprintf(tw, "  %s\t%s\n", name, value)
		count++
	}
	if count == 0 {
		fmt.Fprintln(tw, "  (no tags)")
	}
	return tw.Flush()
}
