// Package pdf wraps the PDF collaborators used by the translation pipeline:
// page-addressed text extraction and page rasterization.
package pdf

import (
	"os"
	"path/filepath"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"

	"github.com/ledongthuc/pdf"
)

// Info PDF 文件信息
type Info struct {
	FilePath  string `json:"file_path"`
	FileName  string `json:"file_name"`
	PageCount int    `json:"page_count"`
	FileSize  int64  `json:"file_size"`
}

// Document is a read-only view of a PDF file. It is immutable once opened;
// the acquisition stage reads pages from it but never mutates it.
type Document struct {
	path   string
	file   *os.File
	reader *pdf.Reader
	info   *Info
}

// Open opens the PDF at path for reading.
func Open(path string) (*Document, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewAppError(types.ErrInvalidInput, "input file does not exist", err)
		}
		return nil, types.NewAppError(types.ErrInvalidInput, "cannot access input file", err)
	}
	if fileInfo.IsDir() {
		return nil, types.NewAppError(types.ErrInvalidInput, "input path is a directory, not a file", nil)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrInvalidInput, "cannot open PDF file", err)
	}

	doc := &Document{
		path:   path,
		file:   f,
		reader: r,
		info: &Info{
			FilePath:  path,
			FileName:  filepath.Base(path),
			PageCount: r.NumPage(),
			FileSize:  fileInfo.Size(),
		},
	}

	logger.Debug("opened PDF document",
		logger.String("file", doc.info.FileName),
		logger.Int("pages", doc.info.PageCount))

	return doc, nil
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// Path returns the storage location the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// Info returns basic file information.
func (d *Document) Info() *Info {
	return d.info
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.reader.NumPage()
}

// PageText extracts the embedded text of the given 1-based page.
// A page without embedded text yields an empty string, not an error;
// callers decide whether to fall back to recognition.
func (d *Document) PageText(pageNum int) (string, error) {
	if pageNum < 1 || pageNum > d.reader.NumPage() {
		return "", types.NewPageError(types.ErrInvalidInput, "page index out of range", pageNum, nil)
	}

	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		// Extraction errors are treated like missing text: the page may
		// still be recoverable through recognition.
		logger.Debug("text extraction failed, treating page as textless",
			logger.Int("page", pageNum), logger.Err(err))
		return "", nil
	}

	return content, nil
}
