package render

import (
	"os"
	"path/filepath"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/signintech/gopdf"
)

const (
	// Letter page size in points
	pageWidth  = 612.0
	pageHeight = 792.0
	// margin on all four sides
	margin = 72.0
	// fontSize is the body text size
	fontSize = 11.0
	// lineHeight is the vertical advance per wrapped line
	lineHeight = 15.0
	// paragraphSpacing is the fixed vertical gap after each paragraph
	paragraphSpacing = 12.0

	fontName = "body"
)

// defaultFontPaths are scanned when no font is configured.
var defaultFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

// Renderer re-flows translated text into a letter-size paginated PDF.
// Pagination is driven entirely by the renderer; the output page count is
// independent of the original document's.
type Renderer struct {
	fontPath string
}

// NewRenderer creates a Renderer. fontPath may be empty, in which case a
// font is looked up from well-known system locations at render time.
func NewRenderer(fontPath string) *Renderer {
	return &Renderer{fontPath: fontPath}
}

// SetFontPath sets the path to the TTF font used for body text.
func (r *Renderer) SetFontPath(fontPath string) {
	r.fontPath = fontPath
}

// Render splits text into paragraphs, lays them out onto letter-size pages
// with fixed spacing, and persists the document at outputPath. Any layout or
// persistence error fails with RENDER_FAILED.
func (r *Renderer) Render(text, outputPath string) (*types.RenderedDocument, error) {
	if outputPath == "" {
		return nil, types.NewAppError(types.ErrRenderFailed, "output path cannot be empty", nil)
	}

	paragraphs := SplitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil, types.NewAppError(types.ErrRenderFailed, "translated text contains no renderable paragraphs", nil)
	}

	fontPath, err := r.resolveFont()
	if err != nil {
		return nil, err
	}

	outputDir := filepath.Dir(outputPath)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return nil, types.NewAppError(types.ErrRenderFailed, "cannot create output directory", err)
		}
	}

	logger.Info("rendering translated document",
		logger.String("output", outputPath),
		logger.Int("paragraphs", len(paragraphs)))

	doc := gopdf.GoPdf{}
	doc.Start(gopdf.Config{PageSize: gopdf.Rect{W: pageWidth, H: pageHeight}})

	if err := doc.AddTTFFont(fontName, fontPath); err != nil {
		return nil, types.NewAppError(types.ErrRenderFailed, "failed to load font", err)
	}
	if err := doc.SetFont(fontName, "", fontSize); err != nil {
		return nil, types.NewAppError(types.ErrRenderFailed, "failed to select font", err)
	}

	doc.AddPage()
	y := margin
	textWidth := pageWidth - 2*margin

	for _, paragraph := range paragraphs {
		lines, err := doc.SplitText(paragraph, textWidth)
		if err != nil {
			return nil, types.NewAppError(types.ErrRenderFailed, "failed to wrap paragraph", err)
		}

		for _, line := range lines {
			if y+lineHeight > pageHeight-margin {
				doc.AddPage()
				y = margin
			}
			doc.SetXY(margin, y)
			if err := doc.Cell(nil, line); err != nil {
				return nil, types.NewAppError(types.ErrRenderFailed, "failed to draw text", err)
			}
			y += lineHeight
		}

		y += paragraphSpacing
	}

	if err := doc.WritePdf(outputPath); err != nil {
		return nil, types.NewAppError(types.ErrRenderFailed, "failed to write output document", err)
	}

	// Read the page count back from the persisted file rather than trusting
	// the layout loop.
	pageCount, err := api.PageCountFile(outputPath)
	if err != nil {
		return nil, types.NewAppError(types.ErrRenderFailed, "rendered document failed validation", err)
	}

	logger.Info("document rendered",
		logger.String("output", outputPath),
		logger.Int("pages", pageCount))

	return &types.RenderedDocument{
		Path:       outputPath,
		Paragraphs: len(paragraphs),
		PageCount:  pageCount,
	}, nil
}

// resolveFont returns the configured font path or the first known system
// font that exists.
func (r *Renderer) resolveFont() (string, error) {
	if r.fontPath != "" {
		if _, err := os.Stat(r.fontPath); err != nil {
			return "", types.NewAppErrorWithDetails(types.ErrRenderFailed, "configured font not found", r.fontPath, err)
		}
		return r.fontPath, nil
	}

	for _, path := range defaultFontPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", types.NewAppError(types.ErrRenderFailed, "no usable TTF font found; set a font path in the configuration", nil)
}
