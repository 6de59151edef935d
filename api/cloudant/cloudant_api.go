package cloudant

import "context"

// CloudantAPI defines the subset of the Cloudant search API used by the airport search.
type CloudantAPI interface {
	Search(ctx context.Context, params SearchParams) (*SearchResponse, error)
	Ping(ctx context.Context) error
}

// SearchParams addresses one page of a search index query.
type SearchParams struct {
	DesignDoc string
	Index     string
	Query     string
	Limit     int
	Bookmark  string
}

// SearchResponse is the body of GET /{db}/_design/{ddoc}/_search/{index}.
type SearchResponse struct {
	TotalRows int         `json:"total_rows"`
	Bookmark  string      `json:"bookmark"`
	Rows      []SearchRow `json:"rows"`
}

type SearchRow struct {
	ID     string                 `json:"id"`
	Order  []interface{}          `json:"order,omitempty"`
	Fields map[string]interface{} `json:"fields"`
}
