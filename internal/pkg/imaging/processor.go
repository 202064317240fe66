package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrDecode reports bytes that did not decode as an image, usually corrupt
// data uploaded under a valid-looking extension.
var ErrDecode = errors.New("imaging: decode failed")

// DefaultQuality is the JPEG quality used for recompression. Deliberately
// low to cut stored size; uploads are recompressed, never kept verbatim.
const DefaultQuality = 40

// Normalized is the result of recompressing an upload.
type Normalized struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Processor decodes uploads and re-encodes them at a fixed quality.
type Processor struct {
	quality int
}

// NewProcessor creates a processor. quality applies to JPEG output only;
// values outside 1-100 fall back to DefaultQuality.
func NewProcessor(quality int) *Processor {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &Processor{quality: quality}
}

// Normalize decodes data and re-encodes it in the format implied by ext
// ("png", "jpg", "jpeg" or "bmp", dot optional, case-insensitive). The
// output keeps the source dimensions; only the encoding changes.
func (p *Processor) Normalize(data []byte, ext string) (*Normalized, error) {
	// "jpg" and "jpeg" both map to the JPEG encoder here; the caller keeps
	// whatever suffix the upload declared.
	format, err := imaging.FormatFromExtension(strings.ToLower(ext))
	if err != nil {
		return nil, fmt.Errorf("imaging: unknown extension %q: %w", ext, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("imaging: encode %s: %w", format, err)
	}

	return &Normalized{
		Data:        buf.Bytes(),
		ContentType: contentTypeForFormat(format),
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}, nil
}

func contentTypeForFormat(format imaging.Format) string {
	switch format {
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.PNG:
		return "image/png"
	case imaging.BMP:
		return "image/bmp"
	case imaging.GIF:
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
