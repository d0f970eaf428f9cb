package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli/v3"

	"library-catalog-service/internal/domain"
	"library-catalog-service/internal/infra/searchapi"
	"library-catalog-service/internal/session"
)

const browseHelp = `Commands:
  q <text>       search for text
  author <text>  filter by author (applied after a short pause)
  type <t>       filter by type: video, titulo, podcast or all
  page <n>       jump to page n
  next, prev     move one page
  more           append the next page to the list
  retry          repeat the last search
  history        show recent searches
  quit           leave`

// BrowseCommand creates the interactive browse command
func BrowseCommand() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse the catalog interactively",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Results per page",
				Value: domain.DefaultLimit,
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Pause before an author filter is applied",
				Value: session.DefaultAuthorDebounce,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()

			cl, err := newClient(c)
			if err != nil {
				return err
			}
			defer func() { _ = cl.logger.Sync() }()

			b := newBrowser(cl.session, cl.api.History, os.Stdout, c.Int("limit"), c.Duration("debounce"))
			defer b.close()

			return b.run(ctx, os.Stdin)
		},
	}
}

// browser is a line-oriented catalog session. Output from the debounced author
// filter can arrive between commands, so writes are serialized.
type browser struct {
	session *session.Session
	history func(context.Context) ([]searchapi.HistoryEntry, error)
	feed    *session.Feed
	pager   *session.Pager
	trigger *session.ScrollTrigger
	author  *session.Debouncer[string]

	ctx     context.Context
	loadErr error

	mu     sync.Mutex
	out    io.Writer
	params domain.SearchParams
}

func newBrowser(s *session.Session, history func(context.Context) ([]searchapi.HistoryEntry, error), out io.Writer, limit int, debounce time.Duration) *browser {
	b := &browser{
		session: s,
		history: history,
		feed:    session.NewFeed(s),
		out:     out,
		ctx:     context.Background(),
		params:  domain.SearchParams{Page: 1, Limit: limit},
	}
	b.params.Validate()

	b.pager = session.NewPager(b.goToPage)
	b.trigger = session.NewScrollTrigger(func() {
		b.loadErr = b.feed.LoadMore(b.ctx)
	}, session.WithScrollSignal(false), session.WithLoadInterval(time.Millisecond))
	b.author = session.NewDebouncer(debounce, func(author string) {
		b.mu.Lock()
		b.params.Filters.Author = author
		b.mu.Unlock()
		b.restart()
	})
	return b
}

func (b *browser) close() {
	b.author.Stop()
	b.session.Cancel()
}

func (b *browser) run(ctx context.Context, in io.Reader) error {
	b.ctx = ctx
	b.printf("%s\n", browseHelp)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		b.printf("> ")
		select {
		case <-ctx.Done():
			b.printf("\n")
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			if !b.handle(line) {
				return nil
			}
		}
	}
}

// handle runs one command line and reports whether the session continues.
func (b *browser) handle(line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	cmd, arg = strings.ToLower(cmd), strings.TrimSpace(arg)

	if cmd != "author" {
		b.author.Flush()
	}

	switch cmd {
	case "":
	case "q", "query":
		b.mu.Lock()
		b.params.Query = arg
		b.mu.Unlock()
		b.restart()
	case "author":
		b.author.Trigger(arg)
	case "type":
		b.mu.Lock()
		b.params.Filters.ResourceType = nil
		if t := strings.ToLower(arg); t != "" {
			b.params.Filters.ResourceType = []string{t}
		}
		b.mu.Unlock()
		b.restart()
	case "page":
		n, err := strconv.Atoi(arg)
		if err != nil {
			b.printf("%s\n", errorStyle.Render("page needs a number"))
			return true
		}
		if !b.pager.SetPage(n) {
			b.printf("%s\n", metaStyle.Render(fmt.Sprintf("already on page %d of %d", b.pager.Current(), b.pager.Total())))
		}
	case "next":
		if !b.pager.Next() {
			b.printf("%s\n", metaStyle.Render("no next page"))
		}
	case "prev":
		if !b.pager.Prev() {
			b.printf("%s\n", metaStyle.Render("no previous page"))
		}
	case "more":
		b.more()
	case "retry":
		b.retry()
	case "history":
		b.showHistory()
	case "help", "?":
		b.printf("%s\n", browseHelp)
	case "quit", "exit":
		return false
	default:
		b.printf("%s\n", errorStyle.Render("unknown command "+cmd))
	}
	return true
}

// restart runs the current criteria from page 1 and resets the list.
func (b *browser) restart() {
	b.mu.Lock()
	params := b.params
	b.mu.Unlock()

	err := b.feed.Start(b.ctx, params)
	b.show(err)
}

func (b *browser) goToPage(page int) {
	b.mu.Lock()
	params := b.params
	b.mu.Unlock()
	params.Page = page

	_, err := b.session.Search(b.ctx, params)
	b.show(err)
}

func (b *browser) retry() {
	_, err := b.session.Retry(b.ctx)
	if errors.Is(err, session.ErrNothingToRetry) {
		b.printf("%s\n", metaStyle.Render("nothing to retry"))
		return
	}
	b.show(err)
}

func (b *browser) more() {
	before := len(b.feed.Items())

	b.trigger.SetLoading(b.feed.Loading())
	b.trigger.SetHasMore(b.feed.HasMore())
	b.loadErr = nil
	if !b.trigger.OnVisible(true) {
		b.printf("%s\n", metaStyle.Render("no more results"))
		return
	}
	if b.loadErr != nil {
		b.show(b.loadErr)
		return
	}

	b.pager.Sync(b.session.Snapshot().Pagination)

	items := b.feed.Items()
	added, offset := appended(items, before)
	b.mu.Lock()
	renderResults(b.out, added, offset)
	fmt.Fprintln(b.out, metaStyle.Render(fmt.Sprintf("%d loaded", len(items))))
	b.mu.Unlock()
}

// appended returns the items added after the first before entries and their
// offset. The debounced author filter can restart the list concurrently, in
// which case the whole list is new.
func appended(items []*domain.SearchResult, before int) ([]*domain.SearchResult, int) {
	if before > len(items) {
		return items, 0
	}
	return items[before:], before
}

func (b *browser) showHistory() {
	entries, err := b.history(b.ctx)
	if err != nil {
		b.printf("%s\n", errorStyle.Render("loading history: "+err.Error()))
		return
	}

	b.mu.Lock()
	renderHistory(b.out, entries)
	b.mu.Unlock()
}

// show prints the committed session state. A superseded search has nothing
// of its own to show.
func (b *browser) show(err error) {
	if errors.Is(err, session.ErrSuperseded) {
		return
	}

	snap := b.session.Snapshot()
	if snap.State == session.StateSuccess {
		b.pager.Sync(snap.Pagination)
	}

	b.mu.Lock()
	renderSnapshot(b.out, snap)
	b.mu.Unlock()
}

func (b *browser) printf(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, format, args...)
}
