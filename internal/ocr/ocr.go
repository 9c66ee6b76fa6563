// Package ocr provides text recognition on rasterized PDF pages.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"pdf-translator/internal/logger"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text in a page image.
type Engine interface {
	// Recognize extracts text from the image. An empty result is valid;
	// pages may genuinely contain no text.
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// tesseractLanguages maps ISO 639-1 codes to tesseract traineddata names.
var tesseractLanguages = map[string]string{
	"en": "eng",
	"es": "spa",
	"de": "deu",
	"fr": "fra",
	"it": "ita",
	"pt": "por",
	"nl": "nld",
	"pl": "pol",
	"ru": "rus",
	"zh": "chi_sim",
	"ja": "jpn",
	"ko": "kor",
	"ar": "ara",
	"hi": "hin",
}

// TesseractLanguage returns the tesseract language name for an ISO 639-1
// code, falling back to "eng" for unknown codes.
func TesseractLanguage(code string) string {
	if name, ok := tesseractLanguages[code]; ok {
		return name
	}
	return "eng"
}

// Tesseract is the default Engine, backed by the gosseract client.
type Tesseract struct {
	language      string
	dpi           int
	clientFactory func() *gosseract.Client
}

// NewTesseract constructs a tesseract-backed engine. language is an ISO
// 639-1 code used as a recognition hint; dpi is the resolution the input
// images were rasterized at.
func NewTesseract(language string, dpi int) *Tesseract {
	return &Tesseract{
		language:      TesseractLanguage(language),
		dpi:           dpi,
		clientFactory: gosseract.NewClient,
	}
}

// Recognize performs OCR on a single page image.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	data, err := encodePNG(prepare(img))
	if err != nil {
		return "", fmt.Errorf("encode page image: %w", err)
	}

	c := t.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if err := c.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if t.dpi > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(t.dpi)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}

	logger.Debug("page recognized",
		logger.String("language", t.language),
		logger.Int("chars", len(text)))

	return text, nil
}

// minRecognitionWidth is the narrowest raster tesseract handles reliably;
// smaller inputs are upscaled before recognition.
const minRecognitionWidth = 1000

// prepare normalizes a page image for recognition: grayscale, and upscale
// when the raster is too small for reliable glyph detection.
func prepare(img image.Image) image.Image {
	out := imaging.Grayscale(img)
	if out.Bounds().Dx() < minRecognitionWidth {
		out = imaging.Resize(out, minRecognitionWidth, 0, imaging.Lanczos)
	}
	return out
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
