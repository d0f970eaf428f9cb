// Package session orchestrates catalog searches on the client side: a
// per-session state machine with cache lookups, cancellation of superseded
// requests and next-page prefetch, plus the pagination helpers built on it.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"library-catalog-service/internal/domain"
	"library-catalog-service/internal/searchcache"
)

// State is the lifecycle state of a session.
type State string

const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateSuccess   State = "success"
	StateError     State = "error"
)

var (
	// ErrSuperseded is returned to a search whose result arrived after a newer
	// search started. Nothing is committed for it.
	ErrSuperseded = errors.New("search superseded by a newer request")

	// ErrNothingToRetry is returned by Retry before any search ran.
	ErrNothingToRetry = errors.New("no previous search to retry")
)

// DefaultPrefetchTimeout bounds a background next-page fetch.
const DefaultPrefetchTimeout = 10 * time.Second

// Snapshot is a consistent view of the session state.
type Snapshot struct {
	State      State
	Params     domain.SearchParams
	Results    []*domain.SearchResult
	Pagination domain.Pagination
	Info       domain.SearchInfo
	Error      string // user-visible message, empty for cancellations
	Canceled   bool
	FromCache  bool
}

// Session runs one logical search at a time. Starting a new search cancels the
// one in flight; a generation counter discards results that arrive late.
type Session struct {
	searcher domain.Searcher
	cache    *searchcache.Cache
	logger   *zap.Logger

	prefetchTimeout time.Duration
	prefetch        singleflight.Group
	prefetchWG      sync.WaitGroup
	onChange        func(Snapshot)

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	snap       Snapshot
	hasLast    bool
}

// Option configures a Session.
type Option func(*Session)

// WithPrefetchTimeout sets the timeout of background next-page fetches.
func WithPrefetchTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.prefetchTimeout = d
		}
	}
}

// WithOnChange registers a callback invoked after every committed state change.
// It runs on the goroutine that committed the change, outside the session lock.
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Session) {
		s.onChange = fn
	}
}

// New creates an idle session. A nil cache gets a default one.
func New(searcher domain.Searcher, cache *searchcache.Cache, logger *zap.Logger, opts ...Option) *Session {
	if cache == nil {
		cache = searchcache.New()
	}

	s := &Session{
		searcher:        searcher,
		cache:           cache,
		logger:          logger,
		prefetchTimeout: DefaultPrefetchTimeout,
		snap:            Snapshot{State: StateIdle},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs params and commits the outcome.
//
// A fresh cache entry is committed as success without a network call and
// supersedes any request in flight. Otherwise the in-flight request is
// cancelled and the searcher is called. A result that arrives after a newer
// search started returns ErrSuperseded and changes nothing.
func (s *Session) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResponse, error) {
	params.Validate()
	key := searchcache.BuildKey(params)

	if entry, ok := s.cache.Get(key); ok {
		s.logger.Debug("search cache hit",
			zap.String("query", params.Query),
			zap.Int("page", params.Page),
		)

		s.mu.Lock()
		s.supersedeLocked()
		s.commitSuccessLocked(params, entry.Data, true)
		snap := s.snap
		s.mu.Unlock()

		s.notify(snap)
		s.schedulePrefetch(ctx, params, entry.Data)
		return entry.Data, nil
	}

	s.mu.Lock()
	s.supersedeLocked()
	gen := s.generation
	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.snap = Snapshot{
		State:      StateSearching,
		Params:     params,
		Results:    s.snap.Results,
		Pagination: s.snap.Pagination,
		Info:       s.snap.Info,
	}
	s.hasLast = true
	snap := s.snap
	s.mu.Unlock()

	s.notify(snap)

	resp, err := s.searcher.Search(reqCtx, params)
	// Only an explicit cancellation is silent. A caller deadline is a failure.
	canceled := errors.Is(context.Cause(reqCtx), context.Canceled)
	cancel()

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded search result",
			zap.String("query", params.Query),
			zap.Uint64("generation", gen),
		)
		return nil, ErrSuperseded
	}
	s.cancel = nil

	switch {
	case canceled:
		s.snap = Snapshot{State: StateError, Params: params, Canceled: true}
		if err == nil {
			err = context.Cause(reqCtx)
		}
	case err != nil:
		s.snap = Snapshot{State: StateError, Params: params, Error: errorMessage(err)}
	case resp == nil:
		err = errors.New("search returned no response")
		s.snap = Snapshot{State: StateError, Params: params, Error: err.Error()}
	default:
		s.cache.Set(key, resp, params.Strategy())
		s.commitSuccessLocked(params, resp, false)
	}
	snap = s.snap
	s.mu.Unlock()

	s.notify(snap)

	if err != nil {
		if canceled {
			s.logger.Debug("search canceled", zap.String("query", params.Query))
		} else {
			s.logger.Warn("search failed",
				zap.String("query", params.Query),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.schedulePrefetch(ctx, params, resp)
	return resp, nil
}

// Retry re-issues the most recent search.
func (s *Session) Retry(ctx context.Context) (*domain.SearchResponse, error) {
	s.mu.Lock()
	params, ok := s.snap.Params, s.hasLast
	s.mu.Unlock()

	if !ok {
		return nil, ErrNothingToRetry
	}
	return s.Search(ctx, params)
}

// Cancel aborts the search in flight, if any. The aborted search commits an
// error state flagged as canceled.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snap
}

// Wait blocks until outstanding prefetches finish.
func (s *Session) Wait() {
	s.prefetchWG.Wait()
}

// errorMessage returns the user-visible text for a failed search.
func errorMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "search timed out"
	}
	return err.Error()
}

// supersedeLocked invalidates the request in flight. Callers hold s.mu.
func (s *Session) supersedeLocked() {
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) commitSuccessLocked(params domain.SearchParams, resp *domain.SearchResponse, fromCache bool) {
	s.hasLast = true
	s.snap = Snapshot{
		State:      StateSuccess,
		Params:     params,
		Results:    resp.Results,
		Pagination: resp.Pagination,
		Info:       resp.SearchInfo,
		FromCache:  fromCache,
	}
}

func (s *Session) notify(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}

// schedulePrefetch warms the cache with the page after resp. It never touches
// session state and its failures are only logged.
func (s *Session) schedulePrefetch(ctx context.Context, params domain.SearchParams, resp *domain.SearchResponse) {
	if !resp.Pagination.HasNextPage {
		return
	}

	next := params.NextPage()
	key := searchcache.BuildKey(next)
	if _, ok := s.cache.Get(key); ok {
		return
	}

	s.prefetchWG.Add(1)
	go func() {
		defer s.prefetchWG.Done()

		_, err, shared := s.prefetch.Do(key, func() (any, error) {
			pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.prefetchTimeout)
			defer cancel()

			r, err := s.searcher.Search(pctx, next)
			if err != nil {
				return nil, err
			}
			s.cache.Set(key, r, next.Strategy())
			return r, nil
		})
		if err != nil {
			s.logger.Debug("prefetch failed",
				zap.String("query", next.Query),
				zap.Int("page", next.Page),
				zap.Bool("shared", shared),
				zap.Error(err),
			)
		}
	}()
}
