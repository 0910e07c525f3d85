package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// TagSet is an alias to types.TagSet.
// Re-exporting from internal/types to maintain public API.
type TagSet = types.TagSet

// TagField is an alias to types.TagField.
type TagField[T any] = types.TagField[T]

// FieldState is an alias to types.FieldState.
type FieldState = types.FieldState

// Field states.
const (
	StateUnspecified = types.StateUnspecified
	StateAbsent      = types.StateAbsent
	StatePresent     = types.StatePresent
)

// ReleaseDate is an alias to types.ReleaseDate.
type ReleaseDate = types.ReleaseDate

// CoverImage is an alias to types.CoverImage.
type CoverImage = types.CoverImage

// ImageKind is an alias to types.ImageKind.
type ImageKind = types.ImageKind

// Image kinds.
const (
	ImageNone = types.ImageNone
	ImagePNG  = types.ImagePNG
	ImageJPEG = types.ImageJPEG
)

// PictureType is an alias to types.PictureType.
type PictureType = types.PictureType

// Present returns a field holding v.
func Present[T any](v T) TagField[T] { return types.Present(v) }

// Absent returns an explicitly empty field. Writing it removes the tag.
func Absent[T any]() TagField[T] { return types.Absent[T]() }

// Unspecified returns a field that leaves the existing value untouched.
func Unspecified[T any]() TagField[T] { return types.Unspecified[T]() }

// EmptyTagSet returns a TagSet with every field Absent.
func EmptyTagSet() TagSet { return types.EmptyTagSet() }

// Merge reconciles an update against existing tags. See types.Merge.
func Merge(old, next TagSet) TagSet { return types.Merge(old, next) }

// NewDate builds a ReleaseDate from a year and up to five further
// components, failing when any of them is out of range.
func NewDate(year int, rest ...int) (ReleaseDate, error) { return types.NewDate(year, rest...) }

// MustDate is like NewDate but panics on invalid components.
func MustDate(year int, rest ...int) ReleaseDate { return types.MustDate(year, rest...) }

// ParseDate parses an ISO-8601 prefix such as "2004" or "2004-07-15T10:30".
func ParseDate(s string) (ReleaseDate, bool) { return types.ParseDate(s) }

// PNG wraps PNG-encoded bytes.
func PNG(data []byte) CoverImage { return types.PNG(data) }

// JPEG wraps JPEG-encoded bytes.
func JPEG(data []byte) CoverImage { return types.JPEG(data) }

// NoCover returns the empty image.
func NoCover() CoverImage { return types.NoCover() }

// SniffCover wraps image bytes according to their leading magic bytes,
// returning NoCover for anything that is neither PNG nor JPEG.
func SniffCover(data []byte) CoverImage { return types.SniffCover(data) }
