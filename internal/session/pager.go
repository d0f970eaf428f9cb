package session

import (
	"sync"

	"library-catalog-service/internal/domain"
)

// Pager tracks numbered-page navigation over search responses.
type Pager struct {
	mu      sync.Mutex
	current int
	total   int

	onChange    func(page int)
	scrollToTop func()
}

// PagerOption configures a Pager.
type PagerOption func(*Pager)

// WithScrollToTop registers a hook run before the change callback.
func WithScrollToTop(fn func()) PagerOption {
	return func(p *Pager) {
		p.scrollToTop = fn
	}
}

// NewPager creates a pager on page 1. onChange receives every new page.
func NewPager(onChange func(page int), opts ...PagerOption) *Pager {
	p := &Pager{current: 1, onChange: onChange}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Sync mirrors the position reported by a response.
func (p *Pager) Sync(pg domain.Pagination) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = max(pg.CurrentPage, 1)
	p.total = max(pg.TotalPages, 0)
}

// SetPage moves to page, clamped to the known range, and reports whether the
// page changed. Callbacks run only on change.
func (p *Pager) SetPage(page int) bool {
	p.mu.Lock()
	page = max(page, 1)
	if p.total > 0 {
		page = min(page, p.total)
	}
	if page == p.current {
		p.mu.Unlock()
		return false
	}
	p.current = page
	p.mu.Unlock()

	if p.scrollToTop != nil {
		p.scrollToTop()
	}
	if p.onChange != nil {
		p.onChange(page)
	}
	return true
}

// Next moves forward one page.
func (p *Pager) Next() bool {
	return p.SetPage(p.Current() + 1)
}

// Prev moves back one page.
func (p *Pager) Prev() bool {
	return p.SetPage(p.Current() - 1)
}

// Current returns the selected page.
func (p *Pager) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Total returns the known page count, 0 until a response is synced.
func (p *Pager) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}
