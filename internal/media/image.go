package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"

	// register stdlib decoders
	_ "image/gif"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	// register webp decoding
	_ "golang.org/x/image/webp"
)

const (
	// CoverSize is the side of the square output canvas in pixels
	CoverSize = 1200

	webpQuality = 82
	jpegQuality = 84
)

// allowedImageMIMETypes holds the sniffed content types accepted for
// cover uploads.
var allowedImageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// AllowedImageType reports whether the sniffed MIME type is accepted for
// cover uploads.
func AllowedImageType(mimeType string) bool {
	return allowedImageMIMETypes[mimeType]
}

// CoverProcessor transforms uploaded cover images into square,
// web-optimized assets.
type CoverProcessor struct {
	size int
}

// NewCoverProcessor creates a cover processor with the standard output size
func NewCoverProcessor() *CoverProcessor {
	return &CoverProcessor{size: CoverSize}
}

// Process decodes the raw upload, center-crops it to a square, resamples
// it onto a transparent size×size canvas, and encodes it. WEBP is
// preferred; when the encoder is unavailable it falls back to JPEG. The
// returned extension matches the chosen encoding.
func (p *CoverProcessor) Process(data []byte) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(err, "decode image")
	}

	bounds := img.Bounds()
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}

	// Center anchor floors the crop origin for odd differences
	square := imaging.CropAnchor(img, side, side, imaging.Center)
	resized := imaging.Resize(square, p.size, p.size, imaging.Lanczos)

	// Transparent base. After an equal-aspect crop nothing letterboxes,
	// but content with alpha keeps it.
	canvas := imaging.New(p.size, p.size, color.NRGBA{})
	final := imaging.PasteCenter(canvas, resized)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, final, &webp.Options{Quality: webpQuality}); err == nil {
		return buf.Bytes(), ".webp", nil
	}

	buf.Reset()
	if err := jpeg.Encode(&buf, final, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", errors.Wrap(err, "encode image")
	}
	return buf.Bytes(), ".jpg", nil
}
