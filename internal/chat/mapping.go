package chat

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/sibyl/pkg/query"
	"github.com/JaimeStill/sibyl/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "exchanges", "e").
	Project("id", "ID").
	Project("question", "Question").
	Project("answer", "Answer").
	Project("needs_search", "NeedsSearch").
	Project("search_query", "SearchQuery").
	Project("search_results", "SearchResults").
	Project("model_name", "ModelName").
	Project("provider_name", "ProviderName").
	Project("duration_ms", "DurationMs").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for exchange queries.
// Nil fields are ignored. NeedsSearch and ModelName use exact matching.
// SearchQuery uses case-insensitive contains matching.
type Filters struct {
	NeedsSearch *bool   `json:"needs_search,omitempty"`
	SearchQuery *string `json:"search_query,omitempty"`
	ModelName   *string `json:"model_name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("NeedsSearch", f.NeedsSearch).
		WhereContains("SearchQuery", f.SearchQuery).
		WhereEquals("ModelName", f.ModelName)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("needs_search"); n != "" {
		if v, err := strconv.ParseBool(n); err == nil {
			f.NeedsSearch = &v
		}
	}

	if s := values.Get("search_query"); s != "" {
		f.SearchQuery = &s
	}

	if m := values.Get("model_name"); m != "" {
		f.ModelName = &m
	}

	return f
}

func scanExchange(s repository.Scanner) (Exchange, error) {
	var e Exchange
	err := s.Scan(
		&e.ID,
		&e.Question,
		&e.Answer,
		&e.NeedsSearch,
		&e.SearchQuery,
		&e.SearchResults,
		&e.ModelName,
		&e.ProviderName,
		&e.DurationMs,
		&e.CreatedAt,
	)
	return e, err
}
