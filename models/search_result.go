package models

import (
	"github.com/richardsabow/airports-backend/geo"
	"github.com/richardsabow/airports-backend/models/airport"
)

// SearchQuery asks a backend for one page of airports matching Filter.
// An empty Bookmark requests the first page.
type SearchQuery struct {
	Index    string
	Filter   geo.Filter
	PageSize int
	Bookmark string
}

// SearchResult is one page of a paginated search.
type SearchResult struct {
	Rows      []airport.Airport `json:"rows"`
	Bookmark  string            `json:"bookmark"`
	TotalRows int               `json:"total_rows"`

	// RowsRead is the number of records the backend returned for this page
	// before any were dropped. Zero means len(Rows).
	RowsRead int `json:"-"`
}

// Count is the page size as seen by the backend.
func (r *SearchResult) Count() int {
	if r.RowsRead > 0 {
		return r.RowsRead
	}
	return len(r.Rows)
}
