package domain

import (
	"reflect"
	"slices"
	"testing"
)

func TestSortResults_RelevancePrefixBeforeSubstring(t *testing.T) {
	matched := FilterResults(catalogFixture(), "gestão", SearchFilters{})
	got := ids(SortResults(matched, SortRelevance, "gestão"))

	// prefix matches (newest first), substring matches (newest first), the rest
	want := []string{"v1", "b1", "v2", "b2", "v5", "b3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("relevance order = %v, want %v", got, want)
	}
}

func TestSortResults_RelevanceWithoutQueryIsNewestFirst(t *testing.T) {
	got := ids(SortResults(catalogFixture(), SortRelevance, ""))
	want := []string{"v2", "v3", "b2", "v1", "v4", "v5", "b1", "b3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSortResults_Recent(t *testing.T) {
	got := ids(SortResults(catalogFixture(), SortRecent, "ignored"))
	want := []string{"v2", "v3", "b2", "v1", "v4", "v5", "b1", "b3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("recent order = %v, want %v", got, want)
	}
}

func TestSortResults_AccessedIsPassthrough(t *testing.T) {
	in := catalogFixture()
	got := ids(SortResults(in, SortAccessed, "gestão"))
	if !reflect.DeepEqual(got, ids(in)) {
		t.Errorf("accessed order = %v, want input order %v", got, ids(in))
	}
}

func TestSortResults_TypeGroupsStably(t *testing.T) {
	in := []*SearchResult{
		{ID: "p1", Type: ResourceTypePodcast},
		{ID: "b1", Type: ResourceTypeTitle},
		{ID: "x1", Type: "image"},
		{ID: "v1", Type: ResourceTypeVideo},
		{ID: "p2", Type: ResourceTypePodcast},
		{ID: "v2", Type: ResourceTypeVideo},
		{ID: "b2", Type: ResourceTypeTitle},
	}

	got := ids(SortResults(in, SortType, ""))
	want := []string{"v1", "v2", "b1", "b2", "p1", "p2", "x1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("type order = %v, want %v", got, want)
	}
}

func TestSortResults_TitleLocaleAware(t *testing.T) {
	in := []*SearchResult{
		{ID: "Bola", Title: "Bola"},
		{ID: "Árvore", Title: "Árvore"},
		{ID: "abacate", Title: "abacate"},
		{ID: "Casa", Title: "Casa"},
		{ID: "Ética", Title: "Ética"},
		{ID: "dado", Title: "dado"},
	}

	got := ids(SortResults(in, SortTitle, ""))
	want := []string{"abacate", "Árvore", "Bola", "Casa", "dado", "Ética"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("title order = %v, want %v", got, want)
	}
}

func TestSortResults_IsPermutationAndDoesNotMutate(t *testing.T) {
	for _, field := range append(SortFields, "unknown") {
		t.Run(string(field), func(t *testing.T) {
			in := catalogFixture()
			before := ids(in)

			out := SortResults(in, field, "gestão")

			if !reflect.DeepEqual(ids(in), before) {
				t.Fatalf("input was mutated: %v", ids(in))
			}

			got := ids(out)
			slices.Sort(got)
			want := slices.Clone(before)
			slices.Sort(want)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("output is not a permutation of input: %v vs %v", got, want)
			}
		})
	}
}

func TestSortResults_EmptyInput(t *testing.T) {
	out := SortResults(nil, SortTitle, "")
	if out == nil || len(out) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", out)
	}
}

func TestParseSortField(t *testing.T) {
	tests := map[string]SortField{
		"":          SortRelevance,
		"recent":    SortRecent,
		" TITLE ":   SortTitle,
		"type":      SortType,
		"accessed":  SortAccessed,
		"bogus":     SortRelevance,
		"relevance": SortRelevance,
	}

	for in, want := range tests {
		if got := ParseSortField(in); got != want {
			t.Errorf("ParseSortField(%q) = %q, want %q", in, got, want)
		}
	}
}
