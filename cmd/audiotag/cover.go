package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/simonhull/audiotag"
)

func coverFlags(set *flag.FlagSet) func(*env, []string) error {
	out := set.String("out", "", "where to save the cover (default: next to the file)")

	return func(e *env, args []string) error {
		if err := needFiles(args, true); err != nil {
			return err
		}
		path := args[0]

		cover, err := audiotag.ReadFrontCover(path, audiotag.WithLogger(e.logger))
		if err != nil {
			return err
		}
		if cover.IsNone() {
			return fmt.Errorf("%s has no cover", path)
		}

		dest := *out
		if dest == "" {
			dest = coverPath(path, cover)
		}
		if err := os.WriteFile(dest, cover.Data(), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "%s: %s (%s)\n", dest, cover.Kind(), humanize.Bytes(uint64(len(cover.Data()))))
		return nil
	}
}

// coverPath names the image after the audio file: song.mp3 becomes song.jpg.
func coverPath(path string, cover audiotag.CoverImage) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if cover.Kind() == audiotag.ImagePNG {
		return base + ".png"
	}
	return base + ".jpg"
}
