package session

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultScrollThreshold = 0.8
	DefaultLoadInterval    = time.Second
)

// ScrollTrigger decides when an infinite list should load its next page.
// Two signals feed it: sentinel visibility and scroll position. Loads are
// throttled and suppressed while loading or when nothing is left.
type ScrollTrigger struct {
	loadMore func()

	mu             sync.Mutex
	limiter        *rate.Limiter
	threshold      float64
	visibleEnabled bool
	scrollEnabled  bool
	loading        bool
	hasMore        bool
	now            func() time.Time
}

// TriggerOption configures a ScrollTrigger.
type TriggerOption func(*ScrollTrigger)

// WithThreshold sets the scroll fraction (0, 1] that triggers a load.
func WithThreshold(f float64) TriggerOption {
	return func(t *ScrollTrigger) {
		if f > 0 && f <= 1 {
			t.threshold = f
		}
	}
}

// WithLoadInterval sets the minimum time between two loads.
func WithLoadInterval(d time.Duration) TriggerOption {
	return func(t *ScrollTrigger) {
		t.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithVisibilitySignal enables or disables OnVisible.
func WithVisibilitySignal(enabled bool) TriggerOption {
	return func(t *ScrollTrigger) {
		t.visibleEnabled = enabled
	}
}

// WithScrollSignal enables or disables OnScroll.
func WithScrollSignal(enabled bool) TriggerOption {
	return func(t *ScrollTrigger) {
		t.scrollEnabled = enabled
	}
}

// WithTriggerClock replaces time.Now, for tests.
func WithTriggerClock(now func() time.Time) TriggerOption {
	return func(t *ScrollTrigger) {
		t.now = now
	}
}

// NewScrollTrigger creates a trigger calling loadMore. It starts with
// hasMore set and both signals enabled.
func NewScrollTrigger(loadMore func(), opts ...TriggerOption) *ScrollTrigger {
	t := &ScrollTrigger{
		loadMore:       loadMore,
		limiter:        rate.NewLimiter(rate.Every(DefaultLoadInterval), 1),
		threshold:      DefaultScrollThreshold,
		visibleEnabled: true,
		scrollEnabled:  true,
		hasMore:        true,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// OnVisible reports a change in sentinel visibility. It returns true when a
// load was triggered.
func (t *ScrollTrigger) OnVisible(visible bool) bool {
	t.mu.Lock()
	enabled := t.visibleEnabled
	t.mu.Unlock()

	if !enabled || !visible {
		return false
	}
	return t.fire()
}

// OnScroll reports the scrolled fraction of the list, 0 to 1.
func (t *ScrollTrigger) OnScroll(percent float64) bool {
	t.mu.Lock()
	enabled, threshold := t.scrollEnabled, t.threshold
	t.mu.Unlock()

	if !enabled || percent < threshold {
		return false
	}
	return t.fire()
}

// SetLoading suppresses loads while a page is being fetched.
func (t *ScrollTrigger) SetLoading(loading bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = loading
}

// SetHasMore suppresses loads once the last page was reached.
func (t *ScrollTrigger) SetHasMore(hasMore bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hasMore = hasMore
}

func (t *ScrollTrigger) fire() bool {
	t.mu.Lock()
	if t.loading || !t.hasMore || !t.limiter.AllowN(t.now(), 1) {
		t.mu.Unlock()
		return false
	}
	t.mu.Unlock()

	if t.loadMore != nil {
		t.loadMore()
	}
	return true
}
