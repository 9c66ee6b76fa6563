// Package preview provides the UI-free view-model for page-by-page document
// previews: integer page navigation and preview-resolution rasterization.
// A host shell drives it; it never touches toolkit state itself.
package preview

// Pager tracks the current position within a paginated document. Pages are
// 1-based; navigation clamps to [1, total]. A zero-page document pins the
// current page at 0.
type Pager struct {
	current int
	total   int
}

// NewPager creates a pager over a document with the given page count.
func NewPager(totalPages int) *Pager {
	p := &Pager{}
	p.Reset(totalPages)
	return p
}

// Reset points the pager at page 1 of a document with the given page count.
func (p *Pager) Reset(totalPages int) {
	if totalPages < 0 {
		totalPages = 0
	}
	p.total = totalPages
	if totalPages == 0 {
		p.current = 0
	} else {
		p.current = 1
	}
}

// CurrentPage returns the 1-based current page, or 0 for an empty document.
func (p *Pager) CurrentPage() int {
	return p.current
}

// TotalPages returns the document's page count.
func (p *Pager) TotalPages() int {
	return p.total
}

// Next advances one page. At the last page it is a no-op.
func (p *Pager) Next() {
	if p.current < p.total {
		p.current++
	}
}

// Previous goes back one page. At the first page it is a no-op.
func (p *Pager) Previous() {
	if p.current > 1 {
		p.current--
	}
}

// HasNext reports whether Next would move.
func (p *Pager) HasNext() bool {
	return p.current < p.total
}

// HasPrevious reports whether Previous would move.
func (p *Pager) HasPrevious() bool {
	return p.current > 1
}
