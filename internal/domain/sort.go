package domain

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField represents a result ordering.
type SortField string

const (
	SortRelevance SortField = "relevance" // title prefix > title substring > rest, then newest
	SortRecent    SortField = "recent"    // year descending
	SortAccessed  SortField = "accessed"  // access counts are not tracked, input order
	SortType      SortField = "type"      // grouped by resource type
	SortTitle     SortField = "title"     // locale-aware alphabetical
)

// SortFields lists the supported orderings.
var SortFields = []SortField{SortRelevance, SortRecent, SortAccessed, SortType, SortTitle}

// DefaultCollationLocale is the locale used for title ordering.
var DefaultCollationLocale = language.BrazilianPortuguese

// SortResults returns a sorted copy of results. The input slice is never
// modified and equal keys keep their input order.
func SortResults(results []*SearchResult, sortBy SortField, query string) []*SearchResult {
	return SortResultsLocale(results, sortBy, query, DefaultCollationLocale)
}

// SortResultsLocale is SortResults with an explicit collation locale for the
// title ordering.
func SortResultsLocale(results []*SearchResult, sortBy SortField, query string, locale language.Tag) []*SearchResult {
	out := slices.Clone(results)
	if out == nil {
		out = make([]*SearchResult, 0)
	}

	switch sortBy {
	case SortRelevance:
		sortByRelevance(out, query)
	case SortRecent:
		slices.SortStableFunc(out, func(a, b *SearchResult) int {
			return b.Year - a.Year
		})
	case SortType:
		slices.SortStableFunc(out, func(a, b *SearchResult) int {
			return typeRank(a.Type) - typeRank(b.Type)
		})
	case SortTitle:
		// Collators are not safe for concurrent use.
		c := collate.New(locale, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b *SearchResult) int {
			return c.CompareString(a.Title, b.Title)
		})
	default:
		// SortAccessed and unknown orderings keep input order.
	}

	return out
}

func sortByRelevance(results []*SearchResult, query string) {
	q := Normalize(query)
	ranks := make(map[*SearchResult]int, len(results))
	for _, r := range results {
		ranks[r] = titleRank(Normalize(r.Title), q)
	}

	slices.SortStableFunc(results, func(a, b *SearchResult) int {
		if d := ranks[a] - ranks[b]; d != 0 {
			return d
		}
		return b.Year - a.Year
	})
}

// titleRank scores how the title matches the query; lower is better.
func titleRank(title, query string) int {
	switch {
	case query == "":
		return 0
	case strings.HasPrefix(title, query):
		return 0
	case strings.Contains(title, query):
		return 1
	default:
		return 2
	}
}

func typeRank(t ResourceType) int {
	for i, known := range ResourceTypes {
		if t == known {
			return i
		}
	}
	return len(ResourceTypes)
}

// ParseSortField converts user input to a SortField, defaulting to relevance.
func ParseSortField(s string) SortField {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range SortFields {
		if string(f) == s {
			return f
		}
	}
	return SortRelevance
}
