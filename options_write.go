package audiotag

// WithBackup keeps the original file next to the rewritten one.
//
// The backup file will have the specified suffix appended to the original
// filename. For example, WithBackup(".bak") will keep "song.mp3.bak"
// after modifying "song.mp3".
//
// If the backup file already exists, it will be overwritten.
//
// Example:
//
//	err := audiotag.WriteTags("song.mp3", update, audiotag.WithBackup(".bak"))
//	// Original file preserved as song.mp3.bak
func WithBackup(suffix string) Option {
	return func(o *options) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads the staged file before it replaces the original.
//
// The tags read back must equal the merge of the old tags and the update;
// otherwise the write fails and the original is left untouched. This adds
// a full read of the new tags.
//
// Example:
//
//	err := audiotag.WriteTags("song.flac", update, audiotag.WithValidation())
func WithValidation() Option {
	return func(o *options) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the original file modification time.
//
// By default, writing updates the file's modification time to the current
// time. Use this when retagging should not look like a content change to
// tools that sync or index by mtime.
//
// Example:
//
//	err := audiotag.WriteTags("song.m4a", update, audiotag.WithPreserveModTime())
func WithPreserveModTime() Option {
	return func(o *options) {
		o.preserveModTime = true
	}
}
