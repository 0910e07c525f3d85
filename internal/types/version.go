package types

// Version is the library version. It is recorded in the vendor string of
// written Vorbis comments.
const Version = "0.2.0"
