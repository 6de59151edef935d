package redis

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/richardsabow/airports-backend/db"
	"github.com/richardsabow/airports-backend/geo"
	"github.com/richardsabow/airports-backend/models"
	"github.com/richardsabow/airports-backend/models/airport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bayArea = []airport.Airport{
	{ID: "SFO", Lat: 37.6213, Lon: -122.379, Name: "San Francisco International"},
	{ID: "OAK", Lat: 37.7126, Lon: -122.2197, Name: "Oakland International"},
	{ID: "SJC", Lat: 37.3639, Lon: -121.9289, Name: "San Jose International"},
	// Same latitude band, far away in longitude.
	{ID: "ATH", Lat: 37.9364, Lon: 23.9445, Name: "Athens International"},
	{ID: "LAX", Lat: 33.9416, Lon: -118.4085, Name: "Los Angeles International"},
}

var bayFilter = geo.Filter{
	Latitude:   geo.Range{Min: 37, Max: 38},
	Longitudes: []geo.Range{{Min: -123, Max: -121}},
}

func newSeededDAO(t *testing.T, client db.RedisClient, airports []airport.Airport) *RedisAirportDAO {
	t.Helper()
	dao := NewRedisAirportDAO(client)
	for _, a := range airports {
		require.NoError(t, dao.UpsertAirport(context.Background(), a))
	}
	return dao
}

func TestRedisAirportDAO_SearchPage_FiltersLongitude(t *testing.T) {
	dao := newSeededDAO(t, db.NewMockRedisClient(), bayArea)

	res, err := dao.SearchPage(context.Background(), models.SearchQuery{Filter: bayFilter, PageSize: 200})
	require.NoError(t, err)

	ids := make([]string, len(res.Rows))
	for i, r := range res.Rows {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"SJC", "SFO", "OAK"}, ids)
	assert.Equal(t, 4, res.TotalRows)
	assert.Equal(t, "4", res.Bookmark)
}

func TestRedisAirportDAO_SearchPage_Paginates(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := db.NewGeoRedisClient(context.Background(), goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	require.NoError(t, err)

	var airports []airport.Airport
	for i := 0; i < 5; i++ {
		airports = append(airports, airport.Airport{ID: fmt.Sprintf("A%d", i), Lat: 37.1 + float64(i)*0.1, Lon: -122})
	}
	dao := newSeededDAO(t, client, airports)
	ctx := context.Background()

	first, err := dao.SearchPage(ctx, models.SearchQuery{Filter: bayFilter, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first.Rows, 2)
	assert.Equal(t, "A0", first.Rows[0].ID)
	assert.Equal(t, "2", first.Bookmark)

	second, err := dao.SearchPage(ctx, models.SearchQuery{Filter: bayFilter, PageSize: 2, Bookmark: first.Bookmark})
	require.NoError(t, err)
	require.Len(t, second.Rows, 2)
	assert.Equal(t, "A2", second.Rows[0].ID)

	third, err := dao.SearchPage(ctx, models.SearchQuery{Filter: bayFilter, PageSize: 2, Bookmark: second.Bookmark})
	require.NoError(t, err)
	require.Len(t, third.Rows, 1)
	assert.Equal(t, "A4", third.Rows[0].ID)
	assert.Equal(t, "5", third.Bookmark)
}

func TestRedisAirportDAO_SearchPage_Antimeridian(t *testing.T) {
	pacific := []airport.Airport{
		{ID: "SUV", Lat: -18.0431, Lon: 178.5592},
		{ID: "FUT", Lat: -14.3114, Lon: -178.0661},
		{ID: "NOU", Lat: -16.0, Lon: 166.2},
	}
	dao := newSeededDAO(t, db.NewMockRedisClient(), pacific)

	filter := geo.Filter{
		Latitude:   geo.Range{Min: -20, Max: -13},
		Longitudes: []geo.Range{{Min: 177, Max: 180}, {Min: -180, Max: -177}},
	}
	res, err := dao.SearchPage(context.Background(), models.SearchQuery{Filter: filter, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "SUV", res.Rows[0].ID)
	assert.Equal(t, "FUT", res.Rows[1].ID)
}

func TestRedisAirportDAO_SearchPage_InvalidBookmark(t *testing.T) {
	dao := NewRedisAirportDAO(db.NewMockRedisClient())

	_, err := dao.SearchPage(context.Background(), models.SearchQuery{Filter: bayFilter, PageSize: 10, Bookmark: "g1AAA"})
	assert.ErrorContains(t, err, "invalid bookmark")
}

func TestRedisAirportDAO_SearchPage_BackendDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := db.NewGeoRedisClient(context.Background(), goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	require.NoError(t, err)
	dao := NewRedisAirportDAO(client)

	mr.SetError("ERR backend unavailable")
	_, err = dao.SearchPage(context.Background(), models.SearchQuery{Filter: bayFilter, PageSize: 10})
	assert.ErrorContains(t, err, "failed to read latitude band")
}
