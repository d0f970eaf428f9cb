package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"library-catalog-service/internal/domain"
	"library-catalog-service/internal/session"
)

// walkInterval throttles page loads when walking every page.
const walkInterval = 200 * time.Millisecond

// searchOptions holds the search flags.
type searchOptions struct {
	query        string
	types        []string
	subjects     []string
	author       string
	year         string
	duration     string
	languages    []string
	documentType []string
	sortBy       string
	page         int
	limit        int
}

func (o searchOptions) params() domain.SearchParams {
	types := make([]string, 0, len(o.types))
	for _, t := range o.types {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			types = append(types, t)
		}
	}

	params := domain.SearchParams{
		Query: o.query,
		Filters: domain.SearchFilters{
			ResourceType: types,
			Subject:      o.subjects,
			Author:       o.author,
			Year:         o.year,
			Duration:     o.duration,
			Language:     o.languages,
			DocumentType: o.documentType,
		},
		SortBy: domain.ParseSortField(o.sortBy),
		Page:   o.page,
		Limit:  o.limit,
	}
	params.Validate()
	return params
}

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "type",
				Usage: "Resource type: video, titulo, podcast or all",
			},
			&cli.StringSliceFlag{
				Name:  "subject",
				Usage: "Subject filter",
			},
			&cli.StringFlag{
				Name:  "author",
				Usage: "Author substring",
			},
			&cli.StringFlag{
				Name:  "year",
				Usage: "Year or range, e.g. 2020 or 2018-2022",
			},
			&cli.StringFlag{
				Name:  "duration",
				Usage: "Duration band: short, medium or long",
			},
			&cli.StringSliceFlag{
				Name:  "language",
				Usage: "Language filter",
			},
			&cli.StringSliceFlag{
				Name:  "document-type",
				Usage: "Document type filter",
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort order: relevance, recent, accessed, type or title",
				Value: string(domain.SortRelevance),
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page number",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Results per page",
				Value: domain.DefaultLimit,
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Walk every page of results",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			opts := searchOptions{
				query:        strings.Join(c.Args().Slice(), " "),
				types:        c.StringSlice("type"),
				subjects:     c.StringSlice("subject"),
				author:       c.String("author"),
				year:         c.String("year"),
				duration:     c.String("duration"),
				languages:    c.StringSlice("language"),
				documentType: c.StringSlice("document-type"),
				sortBy:       c.String("sort"),
				page:         c.Int("page"),
				limit:        c.Int("limit"),
			}

			cl, err := newClient(c)
			if err != nil {
				return err
			}
			defer func() { _ = cl.logger.Sync() }()

			if c.Bool("all") {
				return walkAll(ctx, os.Stdout, cl.session, opts.params())
			}
			return searchOnce(ctx, os.Stdout, cl.session, opts.params())
		},
	}
}

func searchOnce(ctx context.Context, w io.Writer, s *session.Session, params domain.SearchParams) error {
	resp, err := s.Search(ctx, params)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	renderResponse(w, resp, params.Limit)
	return nil
}

// walkAll loads pages through a feed until the last one, printing results as
// they arrive. Each printed page counts as the end of the list coming into view.
func walkAll(ctx context.Context, w io.Writer, s *session.Session, params domain.SearchParams) error {
	feed := session.NewFeed(s)

	var loadErr error
	trigger := session.NewScrollTrigger(func() {
		loadErr = feed.LoadMore(ctx)
	},
		session.WithScrollSignal(false),
		session.WithLoadInterval(walkInterval),
	)

	if err := feed.Start(ctx, params); err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	printed := 0
	for {
		items := feed.Items()
		renderResults(w, items[printed:], printed)
		printed = len(items)

		if !feed.HasMore() {
			break
		}

		trigger.SetLoading(feed.Loading())
		trigger.SetHasMore(feed.HasMore())
		if trigger.OnVisible(true) {
			if loadErr != nil {
				return fmt.Errorf("loading page %d: %w", feed.Page()+1, loadErr)
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(walkInterval / 4):
		}
	}

	if printed == 0 {
		fmt.Fprintln(w, noDataStyle.Render("No results found"))
		return nil
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d results across %d pages", printed, feed.Page())))
	return nil
}
