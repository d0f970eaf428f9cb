package domain

import "strings"

// FilterResults returns the resources matching the query and every active
// filter clause (logical AND). When there are no criteria at all it returns an
// empty slice, never the whole collection.
//
// Clauses:
//   - query: substring of title, description, subject or author
//   - resource type: membership, empty set or "all" means unrestricted
//   - subject, language, document type: membership, empty set means unrestricted
//   - author: substring
//   - year: equality
//   - duration: bucket (short, medium, long)
//
// Text comparisons are case and accent insensitive. Invalid filter values
// simply match nothing.
func FilterResults(all []*SearchResult, query string, filters SearchFilters) []*SearchResult {
	out := make([]*SearchResult, 0)
	if !HasActiveFilters(query, filters) {
		return out
	}

	m := newMatcher(query, filters)
	for _, r := range all {
		if r != nil && m.match(r) {
			out = append(out, r)
		}
	}

	return out
}

// matcher holds the normalized clauses so they are computed once per search.
type matcher struct {
	query        string
	types        map[string]struct{}
	subjects     map[string]struct{}
	languages    map[string]struct{}
	docTypes     map[string]struct{}
	author       string
	year         string
	duration     DurationBucket
	durationSet  bool
	filterByType bool
}

func newMatcher(query string, f SearchFilters) *matcher {
	m := &matcher{
		query:        Normalize(query),
		subjects:     normalizedSet(f.Subject),
		languages:    normalizedSet(f.Language),
		docTypes:     normalizedSet(f.DocumentType),
		author:       Normalize(f.Author),
		year:         strings.TrimSpace(f.Year),
		filterByType: f.HasTypeRestriction(),
	}
	if m.filterByType {
		m.types = normalizedSet(f.ResourceType)
	}
	if d := strings.TrimSpace(f.Duration); d != "" {
		m.duration = DurationBucket(Normalize(d))
		m.durationSet = true
	}

	return m
}

func (m *matcher) match(r *SearchResult) bool {
	if m.query != "" && !m.matchQuery(r) {
		return false
	}
	if m.filterByType && !inSet(m.types, string(r.Type)) {
		return false
	}
	if len(m.subjects) > 0 && !inSet(m.subjects, r.Subject) {
		return false
	}
	if len(m.languages) > 0 && !inSet(m.languages, r.Language) {
		return false
	}
	if len(m.docTypes) > 0 && !inSet(m.docTypes, r.DocumentType) {
		return false
	}
	if m.author != "" && !strings.Contains(Normalize(r.Author), m.author) {
		return false
	}
	if m.year != "" && r.YearString() != m.year {
		return false
	}
	if m.durationSet {
		minutes, ok := r.DurationMinutes()
		if !ok || BucketFor(minutes) != m.duration {
			return false
		}
	}

	return true
}

func (m *matcher) matchQuery(r *SearchResult) bool {
	for _, field := range []string{r.Title, r.Description, r.Subject, r.Author} {
		if strings.Contains(Normalize(field), m.query) {
			return true
		}
	}
	return false
}

func normalizedSet(vals []string) map[string]struct{} {
	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if n := Normalize(v); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func inSet(set map[string]struct{}, value string) bool {
	_, ok := set[Normalize(value)]
	return ok
}
