// Package audiotag reads and writes the tags of MP3, FLAC and M4A files
// through one format-agnostic model.
//
// # Quick Start
//
// Reading tags:
//
//	tags, err := audiotag.ReadTags("song.flac")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%s - %s\n", tags.Artist.OrElse("?"), tags.Title.OrElse("?"))
//
// Writing tags is a delta: only the fields you name change.
//
//	err := audiotag.WriteTags("song.mp3", audiotag.TagSet{
//		Title:   audiotag.Present("New Title"),
//		Comment: audiotag.Absent[string](), // remove the comment
//	})
//
// # Supported Formats
//
// The format is chosen by file suffix, case-insensitively:
//
//   - .mp3: ID3v2.2, 2.3 and 2.4 tags are read, with an ID3v1 trailer as
//     fallback. Writes always produce a single ID3v2.4 tag and drop the
//     trailer.
//   - .flac: Vorbis comments and picture blocks.
//   - .m4a: iTunes-style ilst atoms. Writes patch the chunk offset tables
//     so the audio samples stay addressable.
//
// # Tri-state Fields
//
// Every TagSet field is a TagField, which is Present (carries a value),
// Absent (explicitly empty) or Unspecified (the zero value). Reads return
// only Present and Absent fields. When writing, Unspecified keeps what the
// file already holds, Absent removes the tag and Present replaces it:
//
//	merged := audiotag.Merge(existing, update)
//
// # Writes
//
// WriteTags stages the new file next to the original, syncs it, and
// renames it into place, so a failed write never damages the original.
// See WithBackup, WithValidation and WithPreserveModTime. WriteTagsTo
// exposes the raw stream transform.
//
// # Error Handling
//
// Errors fall into three groups:
//
//   - *UnsupportedFormatError: the suffix is not routed to any codec. This
//     is reported before the file is opened.
//   - Tag-format errors (*TagError, *OutOfBoundsError): the tag structure is
//     malformed or cannot be rewritten safely. Check with IsFormatError.
//   - I/O errors from the operating system, wrapped with context.
//
// Problems inside a tag (a bad frame, block or atom) do not fail a read:
// scanning stops and whatever was decoded so far is returned. Pass
// WithLogger to see them at debug level.
//
// # Concurrency
//
// Reads and writes are independent per file. ReadMany reads many files in
// parallel:
//
//	all, err := audiotag.ReadMany(ctx, paths, audiotag.WithConcurrency(8))
package audiotag
