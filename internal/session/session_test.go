package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"library-catalog-service/internal/domain"
	"library-catalog-service/internal/searchcache"
)

type stubSearcher struct {
	calls atomic.Int32
	fn    func(ctx context.Context, params domain.SearchParams) (*domain.SearchResponse, error)
}

func (s *stubSearcher) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResponse, error) {
	s.calls.Add(1)
	return s.fn(ctx, params)
}

// catalogSearcher serves n results matching any query.
func catalogSearcher(n int) *stubSearcher {
	all := make([]*domain.SearchResult, n)
	for i := range all {
		all[i] = &domain.SearchResult{ID: fmt.Sprintf("r%02d", i), Title: fmt.Sprintf("Resource %d", i)}
	}

	return &stubSearcher{fn: func(_ context.Context, params domain.SearchParams) (*domain.SearchResponse, error) {
		info := domain.SearchInfo{Query: params.Query, Strategy: params.Strategy(), SortBy: params.SortBy, Searched: n}
		return domain.Paginate(all, params, info), nil
	}}
}

type stateRecorder struct {
	mu     sync.Mutex
	states []State
}

func (r *stateRecorder) record(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s.State)
}

func (r *stateRecorder) take() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.states
	r.states = nil
	return out
}

func TestSession_SuccessCommitsAndCaches(t *testing.T) {
	searcher := catalogSearcher(45)
	rec := &stateRecorder{}
	s := New(searcher, searchcache.New(), zap.NewNop(), WithOnChange(rec.record))

	assert.Equal(t, StateIdle, s.Snapshot().State)

	resp, err := s.Search(context.Background(), domain.SearchParams{Query: "resource"})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 20)
	assert.Equal(t, []State{StateSearching, StateSuccess}, rec.take())

	snap := s.Snapshot()
	assert.Equal(t, StateSuccess, snap.State)
	assert.False(t, snap.FromCache)
	assert.Equal(t, 3, snap.Pagination.TotalPages)
	assert.Empty(t, snap.Error)

	// Same search again is served from cache without passing through searching.
	s.Wait()
	before := searcher.calls.Load()
	_, err = s.Search(context.Background(), domain.SearchParams{Query: "resource"})
	require.NoError(t, err)
	assert.Equal(t, before, searcher.calls.Load())
	assert.Equal(t, []State{StateSuccess}, rec.take())
	assert.True(t, s.Snapshot().FromCache)
}

func TestSession_PrefetchesNextPage(t *testing.T) {
	searcher := catalogSearcher(45)
	cache := searchcache.New()
	s := New(searcher, cache, zap.NewNop())

	_, err := s.Search(context.Background(), domain.SearchParams{Query: "resource"})
	require.NoError(t, err)
	s.Wait()
	assert.Equal(t, int32(2), searcher.calls.Load(), "page 1 plus prefetch of page 2")

	// Page 2 is a cache hit, which prefetches page 3.
	resp, err := s.Search(context.Background(), domain.SearchParams{Query: "resource", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, "r20", resp.Results[0].ID)
	assert.True(t, s.Snapshot().FromCache)
	s.Wait()
	assert.Equal(t, int32(3), searcher.calls.Load())

	// Last page: nothing left to prefetch.
	_, err = s.Search(context.Background(), domain.SearchParams{Query: "resource", Page: 3})
	require.NoError(t, err)
	s.Wait()
	assert.Equal(t, int32(3), searcher.calls.Load())
	assert.Equal(t, 3, cache.Len())
}

func TestSession_PrefetchFailureDoesNotTouchState(t *testing.T) {
	inner := catalogSearcher(45)
	searcher := &stubSearcher{fn: func(ctx context.Context, p domain.SearchParams) (*domain.SearchResponse, error) {
		if p.Page > 1 {
			return nil, errors.New("boom")
		}
		return inner.fn(ctx, p)
	}}
	s := New(searcher, searchcache.New(), zap.NewNop())

	_, err := s.Search(context.Background(), domain.SearchParams{Query: "x"})
	require.NoError(t, err)
	s.Wait()

	snap := s.Snapshot()
	assert.Equal(t, StateSuccess, snap.State)
	assert.Empty(t, snap.Error)
}

func TestSession_ErrorCommitsMessageAndClearsResults(t *testing.T) {
	fail := true
	inner := catalogSearcher(5)
	searcher := &stubSearcher{fn: func(ctx context.Context, p domain.SearchParams) (*domain.SearchResponse, error) {
		if fail {
			return nil, errors.New("catalog unavailable")
		}
		return inner.fn(ctx, p)
	}}
	s := New(searcher, searchcache.New(), zap.NewNop())

	_, err := s.Search(context.Background(), domain.SearchParams{Query: "x"})
	require.Error(t, err)

	snap := s.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Equal(t, "catalog unavailable", snap.Error)
	assert.False(t, snap.Canceled)
	assert.Nil(t, snap.Results)
	assert.Equal(t, int32(1), searcher.calls.Load(), "no automatic retry")

	fail = false
	resp, err := s.Retry(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Results, 5)
	assert.Equal(t, StateSuccess, s.Snapshot().State)
	assert.Equal(t, "x", s.Snapshot().Params.Query)
}

func TestSession_RetryBeforeSearch(t *testing.T) {
	s := New(catalogSearcher(1), nil, zap.NewNop())

	_, err := s.Retry(context.Background())
	assert.ErrorIs(t, err, ErrNothingToRetry)
}

func TestSession_SupersededResultIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	inner := catalogSearcher(5)

	searcher := &stubSearcher{fn: func(ctx context.Context, p domain.SearchParams) (*domain.SearchResponse, error) {
		if p.Query == "slow" {
			close(started)
			<-release
			// Respond even though the context was cancelled.
			return &domain.SearchResponse{Results: []*domain.SearchResult{{ID: "stale"}}}, nil
		}
		return inner.fn(ctx, p)
	}}
	s := New(searcher, searchcache.New(), zap.NewNop())

	errc := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), domain.SearchParams{Query: "slow"})
		errc <- err
	}()
	<-started

	resp, err := s.Search(context.Background(), domain.SearchParams{Query: "fast"})
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-errc, ErrSuperseded)

	snap := s.Snapshot()
	assert.Equal(t, StateSuccess, snap.State)
	assert.Equal(t, "fast", snap.Params.Query)
	assert.Equal(t, resp.Results, snap.Results)
}

func TestSession_CacheHitSupersedesInFlight(t *testing.T) {
	started := make(chan struct{})
	inner := catalogSearcher(5)

	searcher := &stubSearcher{fn: func(ctx context.Context, p domain.SearchParams) (*domain.SearchResponse, error) {
		if p.Query == "slow" {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return inner.fn(ctx, p)
	}}
	s := New(searcher, searchcache.New(), zap.NewNop())

	_, err := s.Search(context.Background(), domain.SearchParams{Query: "cached"})
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), domain.SearchParams{Query: "slow"})
		errc <- err
	}()
	<-started

	_, err = s.Search(context.Background(), domain.SearchParams{Query: "cached"})
	require.NoError(t, err)

	assert.ErrorIs(t, <-errc, ErrSuperseded)
	snap := s.Snapshot()
	assert.Equal(t, StateSuccess, snap.State)
	assert.True(t, snap.FromCache)
	assert.Equal(t, "cached", snap.Params.Query)
}

func TestSession_CancelCommitsSilentError(t *testing.T) {
	started := make(chan struct{})
	searcher := &stubSearcher{fn: func(ctx context.Context, _ domain.SearchParams) (*domain.SearchResponse, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	s := New(searcher, searchcache.New(), zap.NewNop())

	errc := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), domain.SearchParams{Query: "x"})
		errc <- err
	}()
	<-started
	assert.Equal(t, StateSearching, s.Snapshot().State)

	s.Cancel()

	err := <-errc
	assert.ErrorIs(t, err, context.Canceled)

	snap := s.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.True(t, snap.Canceled)
	assert.Empty(t, snap.Error)
}

func TestSession_CallerContextCancellation(t *testing.T) {
	searcher := &stubSearcher{fn: func(ctx context.Context, _ domain.SearchParams) (*domain.SearchResponse, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return nil, errors.New("not cancelled")
		}
	}}

	tests := []struct {
		name     string
		ctx      func() (context.Context, context.CancelFunc)
		wantErr  error
		canceled bool
		message  string
	}{
		{
			name: "explicit cancel is silent",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				time.AfterFunc(20*time.Millisecond, cancel)
				return ctx, cancel
			},
			wantErr:  context.Canceled,
			canceled: true,
		},
		{
			name: "deadline is reported",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 20*time.Millisecond)
			},
			wantErr: context.DeadlineExceeded,
			message: "search timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(searcher, nil, zap.NewNop())
			ctx, cancel := tt.ctx()
			defer cancel()

			_, err := s.Search(ctx, domain.SearchParams{Query: "x"})
			assert.ErrorIs(t, err, tt.wantErr)

			snap := s.Snapshot()
			assert.Equal(t, StateError, snap.State)
			assert.Equal(t, tt.canceled, snap.Canceled)
			assert.Equal(t, tt.message, snap.Error)
		})
	}
}
