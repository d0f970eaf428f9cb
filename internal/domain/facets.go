package domain

import (
	"slices"
	"strings"
)

// FacetField names a resource field that facets can be built from.
type FacetField string

const (
	FacetAuthor       FacetField = "author"
	FacetSubject      FacetField = "subject"
	FacetLanguage     FacetField = "language"
	FacetDocumentType FacetField = "document_type"
)

// Facet is a distinct field value and its number of occurrences.
type Facet struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FacetSet groups the facets shown in the catalog sidebar.
type FacetSet struct {
	Authors       []Facet `json:"authors"`
	Subjects      []Facet `json:"subjects"`
	Languages     []Facet `json:"languages"`
	DocumentTypes []Facet `json:"document_types"`
}

// ExtractFacets counts the distinct values of field across results.
// Values are grouped by their normalized form and reported under the first
// spelling seen. The list is ordered by count descending, ties by first
// occurrence. Empty input returns an empty list.
func ExtractFacets(results []*SearchResult, field FacetField) []Facet {
	facets := make([]Facet, 0)
	index := make(map[string]int)

	for _, r := range results {
		if r == nil {
			continue
		}
		value := strings.TrimSpace(facetValue(r, field))
		key := Normalize(value)
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			facets[i].Count++
			continue
		}
		index[key] = len(facets)
		facets = append(facets, Facet{Name: value, Count: 1})
	}

	slices.SortStableFunc(facets, func(a, b Facet) int {
		return b.Count - a.Count
	})

	return facets
}

// BuildFacetSet extracts every sidebar facet from results.
func BuildFacetSet(results []*SearchResult) FacetSet {
	return FacetSet{
		Authors:       ExtractFacets(results, FacetAuthor),
		Subjects:      ExtractFacets(results, FacetSubject),
		Languages:     ExtractFacets(results, FacetLanguage),
		DocumentTypes: ExtractFacets(results, FacetDocumentType),
	}
}

// SearchFacets keeps the facets whose name contains term, ignoring case and
// accents. An empty term returns the input unchanged.
func SearchFacets(facets []Facet, term string) []Facet {
	if Normalize(term) == "" {
		return facets
	}

	out := make([]Facet, 0, len(facets))
	for _, f := range facets {
		if ContainsFold(f.Name, term) {
			out = append(out, f)
		}
	}
	return out
}

// Filter narrows every facet list of the set by term.
func (s FacetSet) Filter(term string) FacetSet {
	return FacetSet{
		Authors:       SearchFacets(s.Authors, term),
		Subjects:      SearchFacets(s.Subjects, term),
		Languages:     SearchFacets(s.Languages, term),
		DocumentTypes: SearchFacets(s.DocumentTypes, term),
	}
}

func facetValue(r *SearchResult, field FacetField) string {
	switch field {
	case FacetAuthor:
		return r.Author
	case FacetSubject:
		return r.Subject
	case FacetLanguage:
		return r.Language
	case FacetDocumentType:
		return r.DocumentType
	default:
		return ""
	}
}
