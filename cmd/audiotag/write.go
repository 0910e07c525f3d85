package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/simonhull/audiotag"
)

// tagFlag binds one TagSet field to a write flag.
type tagFlag struct {
	name   string
	usage  string
	set    func(t *audiotag.TagSet, value string) error
	remove func(t *audiotag.TagSet)
}

func textFlag(name string, field func(t *audiotag.TagSet) *audiotag.TagField[string]) tagFlag {
	return tagFlag{
		name:  name,
		usage: "set the " + strings.ReplaceAll(name, "-", " "),
		set: func(t *audiotag.TagSet, v string) error {
			*field(t) = audiotag.Present(v)
			return nil
		},
		remove: func(t *audiotag.TagSet) { *field(t) = audiotag.Absent[string]() },
	}
}

func numberFlag(name string, field func(t *audiotag.TagSet) *audiotag.TagField[uint16]) tagFlag {
	return tagFlag{
		name:  name,
		usage: "set the " + strings.ReplaceAll(name, "-", " "),
		set: func(t *audiotag.TagSet, v string) error {
			n, err := strconv.ParseUint(v, 10, 16)
			if err != nil {
				return fmt.Errorf("%s must be a number between 0 and 65535", name)
			}
			*field(t) = audiotag.Present(uint16(n))
			return nil
		},
		remove: func(t *audiotag.TagSet) { *field(t) = audiotag.Absent[uint16]() },
	}
}

var tagFlags = []tagFlag{
	textFlag("title", func(t *audiotag.TagSet) *audiotag.TagField[string] { return &t.Title }),
	textFlag("artist", func(t *audiotag.TagSet) *audiotag.TagField[string] { return &t.Artist }),
	textFlag("album", func(t *audiotag.TagSet) *audiotag.TagField[string] { return &t.Album }),
	textFlag("album-artist", func(t *audiotag.TagSet) *audiotag.TagField[string] { return &t.AlbumArtist }),
	textFlag("composer", func(t *audiotag.TagSet) *audiotag.TagField[string] { return &t.Composer }),
	textFlag("grouping", func(t *audiotag.TagSet) *audiotag.TagField[string] { return &t.Grouping }),
	textFlag("genre", func(t *audiotag.TagSet) *audiotag.TagField[string] { return &t.Genre }),
	textFlag("comment", func(t *audiotag.TagSet) *audiotag.TagField[string] { return &t.Comment }),
	textFlag("title-sort", func(t *audiotag.TagSet) *audiotag.TagField[string] { return &t.TitleSort }),
	textFlag("artist-sort", func(t *audiotag.TagSet) *audiotag.TagField[string] { return &t.ArtistSort }),
	textFlag("album-sort", func(t *audiotag.TagSet) *audiotag.TagField[string] { return &t.AlbumSort }),
	textFlag("album-artist-sort", func(t *audiotag.TagSet) *audiotag.TagField[string] { return &t.AlbumArtistSort }),
	textFlag("composer-sort", func(t *audiotag.TagSet) *audiotag.TagField[string] { return &t.ComposerSort }),
	numberFlag("track-number", func(t *audiotag.TagSet) *audiotag.TagField[uint16] { return &t.TrackNumber }),
	numberFlag("track-total", func(t *audiotag.TagSet) *audiotag.TagField[uint16] { return &t.TrackTotal }),
	numberFlag("disc-number", func(t *audiotag.TagSet) *audiotag.TagField[uint16] { return &t.DiscNumber }),
	numberFlag("disc-total", func(t *audiotag.TagSet) *audiotag.TagField[uint16] { return &t.DiscTotal }),
	numberFlag("bpm", func(t *audiotag.TagSet) *audiotag.TagField[uint16] { return &t.BPM }),
	{
		name:  "compilation",
		usage: "mark as part of a compilation (true or false)",
		set: func(t *audiotag.TagSet, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.New("compilation must be true or false")
			}
			t.Compilation = audiotag.Present(b)
			return nil
		},
		remove: func(t *audiotag.TagSet) { t.Compilation = audiotag.Absent[bool]() },
	},
	{
		name:  "date",
		usage: "set the release date (YYYY[-MM[-DD[THH[:MM[:SS]]]]])",
		set: func(t *audiotag.TagSet, v string) error {
			d, ok := audiotag.ParseDate(v)
			if !ok {
				return fmt.Errorf("invalid date %q", v)
			}
			t.Date = audiotag.Present(d)
			return nil
		},
		remove: func(t *audiotag.TagSet) { t.Date = audiotag.Absent[audiotag.ReleaseDate]() },
	},
	{
		name:  "cover",
		usage: "embed the PNG or JPEG image at this path as front cover",
		set: func(t *audiotag.TagSet, v string) error {
			data, err := os.ReadFile(v)
			if err != nil {
				return err
			}
			img := audiotag.SniffCover(data)
			if img.IsNone() {
				return fmt.Errorf("%s is neither PNG nor JPEG", v)
			}
			t.Cover = audiotag.Present(img)
			return nil
		},
		remove: func(t *audiotag.TagSet) { t.Cover = audiotag.Absent[audiotag.CoverImage]() },
	},
}

// removeTags marks the comma-separated fields in list Absent. Field names
// match the flag names; underscores are accepted in place of hyphens.
func removeTags(t *audiotag.TagSet, list string) error {
	for name := range strings.SplitSeq(list, ",") {
		name = strings.ReplaceAll(strings.TrimSpace(name), "_", "-")
		if name == "" {
			continue
		}
		found := false
		for _, tf := range tagFlags {
			if tf.name == name {
				tf.remove(t)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown field %q", name)
		}
	}
	return nil
}

func writeFlags(set *flag.FlagSet) func(*env, []string) error {
	var update audiotag.TagSet
	for _, tf := range tagFlags {
		set.Func(tf.name, tf.usage, func(v string) error { return tf.set(&update, v) })
	}
	remove := set.String("remove", "", "comma-separated fields to remove, e.g. comment,cover")
	backup := set.String("backup", "", "keep the original next to the file with this suffix")
	validate := set.Bool("validate", false, "re-read the new file before replacing the original")
	preserve := set.Bool("preserve-mtime", false, "keep the original modification time")

	return func(e *env, args []string) error {
		if err := needFiles(args, false); err != nil {
			return err
		}
		if err := removeTags(&update, *remove); err != nil {
			return err
		}

		opts := []audiotag.Option{audiotag.WithLogger(e.logger)}
		if *backup != "" {
			opts = append(opts, audiotag.WithBackup(*backup))
		}
		if *validate {
			opts = append(opts, audiotag.WithValidation())
		}
		if *preserve {
			opts = append(opts, audiotag.WithPreserveModTime())
		}

		for _, path := range args {
			if err := audiotag.WriteTags(path, update, opts...); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			e.logger.Info("tags written", "path", path)
		}
		return nil
	}
}
