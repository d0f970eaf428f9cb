package session

import (
	"context"
	"errors"
	"slices"
	"sync"

	"library-catalog-service/internal/domain"
)

// Feed accumulates pages of one search for infinite scrolling.
type Feed struct {
	session *Session

	mu      sync.Mutex
	gen     uint64
	params  domain.SearchParams
	items   []*domain.SearchResult
	page    int
	hasMore bool
	loading bool
	started bool
}

// NewFeed creates a feed backed by session.
func NewFeed(session *Session) *Feed {
	return &Feed{session: session}
}

// Start resets the feed and loads the first page of params.
func (f *Feed) Start(ctx context.Context, params domain.SearchParams) error {
	params.Page = 1

	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.params = params
	f.items = nil
	f.page = 0
	f.hasMore = false
	f.loading = true
	f.started = true
	f.mu.Unlock()

	return f.load(ctx, gen, params)
}

// LoadMore appends the next page. It is a no-op while a page is loading or
// when the last page was reached.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if !f.started || f.loading || !f.hasMore {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	gen := f.gen
	next := f.params
	next.Page = f.page + 1
	f.mu.Unlock()

	return f.load(ctx, gen, next)
}

func (f *Feed) load(ctx context.Context, gen uint64, params domain.SearchParams) error {
	resp, err := f.session.Search(ctx, params)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		// Restarted while this page was loading.
		return nil
	}
	f.loading = false

	if err != nil {
		if errors.Is(err, ErrSuperseded) {
			return nil
		}
		return err
	}

	f.items = append(f.items, resp.Results...)
	f.page = resp.Pagination.CurrentPage
	f.hasMore = resp.Pagination.HasNextPage
	return nil
}

// Items returns the accumulated results.
func (f *Feed) Items() []*domain.SearchResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.items)
}

// HasMore reports whether another page is available.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.hasMore
}

// Loading reports whether a page is being fetched.
func (f *Feed) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.loading
}

// Page returns the last loaded page number, 0 before the first load.
func (f *Feed) Page() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.page
}
