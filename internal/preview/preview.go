package preview

import (
	"image"

	"pdf-translator/internal/pdf"
)

// Generator renders page previews at preview resolution, lower than the
// resolution used for recognition.
type Generator struct {
	rasterizer *pdf.Rasterizer
}

// NewGenerator creates a preview generator rendering at the given DPI.
func NewGenerator(dpi int) *Generator {
	if dpi <= 0 {
		dpi = 100
	}
	return &Generator{rasterizer: pdf.NewRasterizer(dpi)}
}

// DPI returns the resolution previews are rendered at.
func (g *Generator) DPI() int {
	return g.rasterizer.DPI()
}

// PagePreview renders the given 1-based page of the document at path.
// It works for both the original and the translated document.
func (g *Generator) PagePreview(path string, pageNum int) (image.Image, error) {
	return g.rasterizer.RasterizePage(path, pageNum)
}
