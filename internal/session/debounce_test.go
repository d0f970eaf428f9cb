package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(v string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, v)
}

func (l *callLog) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func TestDebouncer_AuthorEditsCollapse(t *testing.T) {
	log := &callLog{}
	d := NewDebouncer(DefaultAuthorDebounce, log.add)

	// Typing "Ana" one key every 100ms, well inside an 800ms window.
	for _, v := range []string{"A", "An", "Ana"} {
		d.Trigger(v)
		time.Sleep(100 * time.Millisecond)
	}
	assert.Empty(t, log.get(), "nothing applied while typing")

	require.Eventually(t, func() bool { return len(log.get()) > 0 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, []string{"Ana"}, log.get())
}

func TestDebouncer_Flush(t *testing.T) {
	log := &callLog{}
	d := NewDebouncer(time.Hour, log.add)

	d.Flush()
	assert.Empty(t, log.get(), "nothing pending")

	d.Trigger("x")
	d.Trigger("xy")
	d.Flush()
	assert.Equal(t, []string{"xy"}, log.get())

	d.Flush()
	assert.Len(t, log.get(), 1)
}

func TestDebouncer_Stop(t *testing.T) {
	log := &callLog{}
	d := NewDebouncer(30*time.Millisecond, log.add)

	d.Trigger("x")
	d.Stop()
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, log.get())

	d.Trigger("y")
	require.Eventually(t, func() bool { return len(log.get()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"y"}, log.get())
}
