package cloudant

import (
	"context"
	"errors"
	"testing"

	api "github.com/richardsabow/airports-backend/api/cloudant"
	"github.com/richardsabow/airports-backend/geo"
	"github.com/richardsabow/airports-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudantAirportDAO_SearchPage(t *testing.T) {
	mock := api.NewCloudantApiClientMock(api.SearchResponse{
		TotalRows: 3,
		Bookmark:  "next",
		Rows: []api.SearchRow{
			{ID: "SFO", Fields: map[string]interface{}{"lat": 37.6213, "lon": -122.379, "name": "San Francisco International"}},
			{ID: "broken", Fields: map[string]interface{}{"name": "No coordinates"}},
			{ID: "OAK", Fields: map[string]interface{}{"lat": 37.7126, "lon": -122.2197, "name": "Oakland International", "city": "Oakland"}},
		},
	})
	dao := NewCloudantAirportDAO(mock, "view1", "geo")

	filter := geo.Filter{
		Latitude:   geo.Range{Min: 37, Max: 38},
		Longitudes: []geo.Range{{Min: -123, Max: -122}},
	}
	res, err := dao.SearchPage(context.Background(), models.SearchQuery{Filter: filter, PageSize: 200, Bookmark: "prev"})

	require.NoError(t, err)
	assert.Equal(t, "next", res.Bookmark)
	assert.Equal(t, 3, res.TotalRows)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, 3, res.Count())
	assert.Equal(t, "SFO", res.Rows[0].ID)
	assert.Equal(t, "San Francisco International", res.Rows[0].Name)
	assert.Equal(t, "Oakland", res.Rows[1].Fields["city"])

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, api.SearchParams{
		DesignDoc: "view1",
		Index:     "geo",
		Query:     "lon:[-123 TO -122] AND lat:[37 TO 38]",
		Limit:     200,
		Bookmark:  "prev",
	}, calls[0])
}

func TestCloudantAirportDAO_IndexOverride(t *testing.T) {
	mock := api.NewCloudantApiClientMock()
	dao := NewCloudantAirportDAO(mock, "view1", "geo")

	_, err := dao.SearchPage(context.Background(), models.SearchQuery{Index: "geo2", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, "geo2", mock.Calls()[0].Index)
}

func TestCloudantAirportDAO_Error(t *testing.T) {
	mock := api.NewCloudantApiClientMock()
	mock.FailWith(errors.New("503 Service Unavailable"))
	dao := NewCloudantAirportDAO(mock, "view1", "geo")

	_, err := dao.SearchPage(context.Background(), models.SearchQuery{PageSize: 200})
	assert.ErrorContains(t, err, "503 Service Unavailable")
	assert.Error(t, dao.Ping(context.Background()))
	assert.Equal(t, "cloudant", dao.Name())
}
