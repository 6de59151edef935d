// Package dao defines the paginated search backend consumed by the airport
// search. Each subpackage implements it over a different store.
package dao

import (
	"context"

	"github.com/richardsabow/airports-backend/models"
)

// AirportSearchDAO returns one page of airports whose location satisfies
// query.Filter. An empty result page means the search is exhausted.
type AirportSearchDAO interface {
	SearchPage(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error)
	Ping(ctx context.Context) error
	// Name labels the backend in logs and metrics.
	Name() string
}
