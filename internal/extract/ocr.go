package extract

import (
	"bytes"
	"context"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// DefaultOCRLanguages are the Tesseract language packs loaded when the
// configuration does not override them.
var DefaultOCRLanguages = []string{"eng", "spa"}

// TesseractEngine runs OCR through a local Tesseract installation. Tesseract
// clients are not safe for concurrent use, so every call creates its own.
type TesseractEngine struct {
	languages []string
}

// NewTesseractEngine creates a TesseractEngine for the given language packs.
func NewTesseractEngine(languages []string) *TesseractEngine {
	if len(languages) == 0 {
		languages = DefaultOCRLanguages
	}
	return &TesseractEngine{languages: languages}
}

// BytesText recognizes text in encoded image bytes.
func (e *TesseractEngine) BytesText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return "", err
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", err
	}
	return client.Text()
}

// ImageText recognizes text in a decoded image. The image is re-encoded as
// PNG on the way in, which also normalizes exotic color models Tesseract
// cannot ingest directly.
func (e *TesseractEngine) ImageText(ctx context.Context, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return e.BytesText(ctx, buf.Bytes())
}
