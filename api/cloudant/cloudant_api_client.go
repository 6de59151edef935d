package cloudant

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/richardsabow/airports-backend/api"
)

// CloudantApiClient embeds the common HTTPClient and is bound to one database.
type CloudantApiClient struct {
	*api.HTTPClient
	database string
}

// NewCloudantApiClient creates a client for database on the account behind httpClient.
func NewCloudantApiClient(httpClient *api.HTTPClient, database string) *CloudantApiClient {
	return &CloudantApiClient{
		HTTPClient: httpClient,
		database:   database,
	}
}

// Search runs a Lucene query against a search index and returns one page.
func (c *CloudantApiClient) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	endpoint := fmt.Sprintf("/%s/_design/%s/_search/%s",
		url.PathEscape(c.database), url.PathEscape(params.DesignDoc), url.PathEscape(params.Index))

	query := url.Values{}
	query.Set("q", params.Query)
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Bookmark != "" {
		query.Set("bookmark", params.Bookmark)
	}

	var response SearchResponse
	if err := c.Request(ctx, http.MethodGet, endpoint, query, nil, &response); err != nil {
		return nil, fmt.Errorf("cloudant search %s/%s: %w", params.DesignDoc, params.Index, err)
	}
	return &response, nil
}

// Ping checks that the database exists and the credentials are accepted.
func (c *CloudantApiClient) Ping(ctx context.Context) error {
	if err := c.Request(ctx, http.MethodGet, "/"+url.PathEscape(c.database), nil, nil, nil); err != nil {
		return fmt.Errorf("cloudant ping %s: %w", c.database, err)
	}
	return nil
}
