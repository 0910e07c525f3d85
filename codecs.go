package audiotag

// Codecs register themselves with the registry from init.
import (
	_ "github.com/simonhull/audiotag/internal/flac" // Register FLAC codec
	_ "github.com/simonhull/audiotag/internal/m4a"  // Register M4A codec
	_ "github.com/simonhull/audiotag/internal/mp3"  // Register MP3 codec
)
