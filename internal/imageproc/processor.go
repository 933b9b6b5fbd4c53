package imageproc

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// webp uploads are allowed but imaging cannot decode them
	_ "golang.org/x/image/webp"
)

const (
	outputMimeType = "image/jpeg"
	jpegQuality    = 85
	thumbWidth     = 320
)

// Processed is the result of normalizing one image.
type Processed struct {
	Data             []byte
	MimeType         string
	Width            int
	Height           int
	OriginalMimeType string // set only when the encoding changed
	Compressed       bool   // true when normalization changed the encoding
	Thumbnail        []byte // nil when thumbnail generation failed
}

// Processor normalizes accepted images to a single JPEG encoding and derives
// a fixed-width thumbnail. Input bytes are never mutated.
type Processor struct{}

func New() *Processor { return &Processor{} }

func (p *Processor) Process(data []byte, mimeType string) (*Processed, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", mimeType, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	bounds := img.Bounds()
	out := &Processed{
		Data:     buf.Bytes(),
		MimeType: outputMimeType,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}
	if mimeType != outputMimeType {
		out.OriginalMimeType = mimeType
		out.Compressed = true
	}

	// thumbnail failure is not fatal, the asset just ships without one
	if thumb, err := thumbnail(img); err == nil {
		out.Thumbnail = thumb
	}
	return out, nil
}

func thumbnail(img image.Image) ([]byte, error) {
	small := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, small, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
