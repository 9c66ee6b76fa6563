// Package pdf provides PDF page to image conversion functionality.
package pdf

import (
	"image"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"

	"github.com/gen2brain/go-fitz"
)

// Rasterizer converts PDF pages into pixel images at a configurable
// resolution. Recognition uses a higher DPI than previews.
type Rasterizer struct {
	dpi int
}

// NewRasterizer creates a rasterizer that renders at the given DPI.
func NewRasterizer(dpi int) *Rasterizer {
	if dpi <= 0 {
		dpi = 200
	}
	return &Rasterizer{dpi: dpi}
}

// DPI returns the resolution the rasterizer renders at.
func (r *Rasterizer) DPI() int {
	return r.dpi
}

// RasterizePage renders the given 1-based page of the PDF at path into an image.
func (r *Rasterizer) RasterizePage(path string, pageNum int) (image.Image, error) {
	logger.Debug("rasterizing PDF page",
		logger.String("pdf", path),
		logger.Int("page", pageNum),
		logger.Int("dpi", r.dpi))

	doc, err := fitz.New(path)
	if err != nil {
		return nil, types.NewPageError(types.ErrInvalidInput, "cannot open PDF for rasterization", pageNum, err)
	}
	defer doc.Close()

	if pageNum < 1 || pageNum > doc.NumPage() {
		return nil, types.NewPageError(types.ErrInvalidInput, "page index out of range", pageNum, nil)
	}

	// go-fitz pages are 0-based
	img, err := doc.ImageDPI(pageNum-1, float64(r.dpi))
	if err != nil {
		return nil, types.NewPageError(types.ErrInternal, "failed to rasterize page", pageNum, err)
	}

	logger.Debug("page rasterized",
		logger.Int("width", img.Bounds().Dx()),
		logger.Int("height", img.Bounds().Dy()))

	return img, nil
}
