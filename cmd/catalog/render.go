package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"library-catalog-service/internal/domain"
	"library-catalog-service/internal/infra/searchapi"
	"library-catalog-service/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 0, 0)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("32"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

// renderResults prints results numbered from offset+1.
func renderResults(w io.Writer, results []*domain.SearchResult, offset int) {
	for i, r := range results {
		fmt.Fprintf(w, "%3d. %s %s\n", offset+i+1, titleStyle.Render(r.Title), typeStyle.Render("["+typeLabel(r)+"]"))
		if meta := resultMeta(r); meta != "" {
			fmt.Fprintf(w, "     %s\n", metaStyle.Render(meta))
		}
		if r.URL != "" {
			fmt.Fprintf(w, "     %s\n", urlStyle.Render(r.URL))
		}
	}
}

func resultMeta(r *domain.SearchResult) string {
	var parts []string
	if r.Author != "" {
		parts = append(parts, r.Author)
	}
	if y := r.YearString(); y != "" {
		parts = append(parts, y)
	}
	if r.Subject != "" {
		parts = append(parts, r.Subject)
	}
	if r.Duration != "" {
		parts = append(parts, r.Duration)
	}
	if r.Pages > 0 {
		parts = append(parts, fmt.Sprintf("%d pages", r.Pages))
	}
	if r.Language != "" {
		parts = append(parts, r.Language)
	}
	return strings.Join(parts, " · ")
}

func typeLabel(r *domain.SearchResult) string {
	switch {
	case r.IsVideo():
		return "video"
	case r.IsTitle():
		return "book"
	case r.IsPodcast():
		return "podcast"
	}
	return string(r.Type)
}

// renderResponse prints one page of results with its pagination line.
func renderResponse(w io.Writer, resp *domain.SearchResponse, limit int) {
	if len(resp.Results) == 0 {
		fmt.Fprintln(w, noDataStyle.Render("No results found"))
		return
	}

	offset := max(resp.Pagination.CurrentPage-1, 0) * max(limit, 1)
	renderResults(w, resp.Results, offset)
	fmt.Fprintln(w, paginationLine(resp.Pagination))
}

func paginationLine(pg domain.Pagination) string {
	line := fmt.Sprintf("page %d of %d, %d results", pg.CurrentPage, pg.TotalPages, pg.TotalResults)
	if pg.HasNextPage {
		line += ", more available"
	}
	return headerStyle.Render(line)
}

// renderSnapshot prints the state of a browse session after a command.
func renderSnapshot(w io.Writer, snap session.Snapshot) {
	switch snap.State {
	case session.StateIdle:
		fmt.Fprintln(w, noDataStyle.Render("Type a query to start searching"))
	case session.StateSearching:
		fmt.Fprintln(w, metaStyle.Render("Searching..."))
	case session.StateError:
		if snap.Canceled {
			fmt.Fprintln(w, metaStyle.Render("Search canceled"))
			return
		}
		fmt.Fprintln(w, errorStyle.Render("Search failed: "+snap.Error))
		fmt.Fprintln(w, metaStyle.Render("Type 'retry' to try again"))
	case session.StateSuccess:
		resp := &domain.SearchResponse{Results: snap.Results, Pagination: snap.Pagination, SearchInfo: snap.Info}
		renderResponse(w, resp, snap.Params.Limit)
		if snap.FromCache {
			fmt.Fprintln(w, metaStyle.Render("(cached)"))
		}
	}
}

func renderHistory(w io.Writer, entries []searchapi.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, noDataStyle.Render("No recent searches"))
		return
	}

	for i, e := range entries {
		q := e.Query
		if q == "" {
			q = "(filters only)"
		}
		fmt.Fprintf(w, "%2d. %s %s\n", i+1, titleStyle.Render(q), metaStyle.Render(e.SearchedAt.Local().Format("2006-01-02 15:04")))
	}
}
