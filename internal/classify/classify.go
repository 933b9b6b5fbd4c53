package classify

import "strings"

// Kind is the processing path chosen for an uploaded file.
type Kind int

const (
	KindRejected Kind = iota
	KindImage
	KindVideo
	KindDocument
)

var allowedTypes = map[string]Kind{
	"image/jpeg":      KindImage,
	"image/png":       KindImage,
	"image/webp":      KindImage,
	"video/mp4":       KindVideo,
	"application/pdf": KindDocument,
}

// Classify maps a declared MIME type to its processing path. Anything outside
// the allow-list is KindRejected.
func Classify(mimeType string) Kind {
	// strip parameters like "; charset=utf-8"
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return allowedTypes[mimeType]
}

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindDocument:
		return "document"
	default:
		return "rejected"
	}
}
