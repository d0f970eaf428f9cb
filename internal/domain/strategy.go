package domain

// Strategy classifies a search for caching purposes.
type Strategy string

const (
	// StrategyGlobal is a search with neither query nor filters.
	StrategyGlobal Strategy = "global"
	// StrategyFiltered is a search with a text query or non-type filters.
	StrategyFiltered Strategy = "filtered"
	// StrategyPaginated is a listing restricted only by resource type.
	StrategyPaginated Strategy = "paginated"
)

// DetectStrategy classifies a search from its query and filters.
func DetectStrategy(query string, f SearchFilters) Strategy {
	switch {
	case !HasActiveFilters(query, f):
		return StrategyGlobal
	case Normalize(query) != "" || f.HasNonTypeFilters():
		return StrategyFiltered
	default:
		return StrategyPaginated
	}
}
