package types

// PictureType categorizes embedded pictures.
//
// Values follow the ID3v2 APIC and FLAC PICTURE type byte.
// See: https://id3.org/id3v2.4.0-frames (APIC frame)
type PictureType uint8

const (
	PictureOther             PictureType = iota // Other
	PictureIcon                                 // File icon (32x32 PNG)
	PictureOtherIcon                            // Other file icon
	PictureFrontCover                           // Front cover
	PictureBackCover                            // Back cover
	PictureLeaflet                              // Leaflet page
	PictureMedia                                // Media (CD/vinyl label)
	PictureLeadArtist                           // Lead artist/performer/soloist
	PictureArtist                               // Artist/performer
	PictureConductor                            // Conductor
	PictureBand                                 // Band/orchestra
	PictureComposer                             // Composer
	PictureLyricist                             // Lyricist/text writer
	PictureRecordingLocation                    // Recording location
	PictureDuringRecording                      // During recording
	PictureDuringPerformance                    // During performance
	PictureVideoCapture                         // Movie/video screen capture
	PictureBrightFish                           // A bright colored fish
	PictureIllustration                         // Illustration
	PictureBandLogotype                         // Band/artist logotype
	PicturePublisherLogotype                    // Publisher/studio logotype
)

var pictureTypeNames = [...]string{
	"Other", "File icon", "Other file icon", "Front cover", "Back cover",
	"Leaflet page", "Media", "Lead artist", "Artist", "Conductor", "Band",
	"Composer", "Lyricist", "Recording location", "During recording",
	"During performance", "Video capture", "A bright colored fish",
	"Illustration", "Band logotype", "Publisher logotype",
}

func (p PictureType) String() string {
	if int(p) < len(pictureTypeNames) {
		return pictureTypeNames[p]
	}
	return "Unknown"
}

type arbiterState uint8

const (
	arbiterEmpty arbiterState = iota
	arbiterSeenAny
	arbiterSeenFront
)

// CoverArbiter picks the cover among several embedded pictures.
//
// The first picture offered is kept until a front cover arrives; a front
// cover always replaces what is held, and once one is held no other
// picture type can replace it.
//
//	var arb types.CoverArbiter
//	arb.Offer(back, types.PictureBackCover)   // held
//	arb.Offer(front, types.PictureFrontCover) // replaces back
//	arb.Offer(other, types.PictureOther)      // ignored
type CoverArbiter struct {
	image CoverImage
	state arbiterState
}

// Offer presents a decoded picture. None images are ignored. It reports
// whether the picture was taken.
func (a *CoverArbiter) Offer(img CoverImage, typ PictureType) bool {
	if img.IsNone() {
		return false
	}
	front := typ == PictureFrontCover
	if a.state != arbiterEmpty && !front {
		return false
	}
	a.image = img
	if front {
		a.state = arbiterSeenFront
	} else {
		a.state = arbiterSeenAny
	}
	return true
}

// Seen reports whether any picture was taken.
func (a *CoverArbiter) Seen() bool {
	return a.state != arbiterEmpty
}

// Result returns the chosen cover, or Absent if nothing was taken.
func (a *CoverArbiter) Result() TagField[CoverImage] {
	if a.state == arbiterEmpty {
		return Absent[CoverImage]()
	}
	return Present(a.image)
}
