// Package extract implements the text acquisition stage: per-page text
// extraction with a recognition fallback for pages without embedded text.
package extract

import (
	"context"
	"image"
	"strings"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/ocr"
	"pdf-translator/internal/types"
)

// PageSource is the view of a document the acquisition stage needs. It is
// satisfied by *pdf.Document.
type PageSource interface {
	Path() string
	PageCount() int
	PageText(pageNum int) (string, error)
}

// Rasterizer renders a 1-based page of the document at path into an image.
// It is satisfied by *pdf.Rasterizer.
type Rasterizer interface {
	RasterizePage(path string, pageNum int) (image.Image, error)
}

// ProgressFunc receives acquisition progress values in [0,50], reported
// after each completed page.
type ProgressFunc func(value int)

// Acquirer runs the acquisition stage over a document.
type Acquirer struct {
	rasterizer Rasterizer
	engine     ocr.Engine
}

// NewAcquirer creates an Acquirer with the given rasterization and
// recognition collaborators.
func NewAcquirer(rasterizer Rasterizer, engine ocr.Engine) *Acquirer {
	return &Acquirer{
		rasterizer: rasterizer,
		engine:     engine,
	}
}

// Acquire extracts the text of every page of the source, in page order,
// each page's contribution terminated by a line break.
//
// Per-page policy: embedded text is accepted when non-blank after trimming;
// otherwise the page is rasterized and recognized, and the recognition
// result (which may be empty) is accepted. A rasterization or recognition
// failure on any page fails the whole acquisition with ACQUISITION_FAILED
// carrying that page's 1-based index; no partial text is returned.
//
// A blank concatenation across all pages fails with NO_TEXT_FOUND.
func (a *Acquirer) Acquire(ctx context.Context, source PageSource, progress ProgressFunc) (string, error) {
	total := source.PageCount()
	if total == 0 {
		return "", types.NewAppError(types.ErrNoTextFound, "document has no pages", nil)
	}

	logger.Info("acquiring text", logger.String("file", source.Path()), logger.Int("pages", total))

	var sb strings.Builder
	for i := 1; i <= total; i++ {
		select {
		case <-ctx.Done():
			return "", types.NewPageError(types.ErrAcquisitionFailed, "acquisition aborted", i, ctx.Err())
		default:
		}

		pageText, err := source.PageText(i)
		if err != nil {
			return "", types.NewPageError(types.ErrAcquisitionFailed, "failed to read page text", i, err)
		}

		if strings.TrimSpace(pageText) != "" {
			sb.WriteString(pageText)
			sb.WriteString("\n")
		} else {
			recognized, err := a.recognizePage(ctx, source.Path(), i)
			if err != nil {
				return "", err
			}
			sb.WriteString(recognized)
			sb.WriteString("\n")
		}

		if progress != nil {
			progress(i * 50 / total)
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		logger.Warn("acquisition produced no text", logger.String("file", source.Path()))
		return "", types.NewAppError(types.ErrNoTextFound, "no text could be extracted from the document", nil)
	}

	return text, nil
}

// recognizePage rasterizes a textless page and runs recognition on it.
func (a *Acquirer) recognizePage(ctx context.Context, path string, pageNum int) (string, error) {
	logger.Debug("falling back to recognition", logger.Int("page", pageNum))

	img, err := a.rasterizer.RasterizePage(path, pageNum)
	if err != nil {
		return "", types.NewPageError(types.ErrAcquisitionFailed, "failed to rasterize page for recognition", pageNum, err)
	}

	text, err := a.engine.Recognize(ctx, img)
	if err != nil {
		return "", types.NewPageError(types.ErrAcquisitionFailed, "recognition failed", pageNum, err)
	}

	return text, nil
}
