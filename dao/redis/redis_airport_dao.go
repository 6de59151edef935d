package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/richardsabow/airports-backend/db"
	"github.com/richardsabow/airports-backend/logging"
	"github.com/richardsabow/airports-backend/models"
	"github.com/richardsabow/airports-backend/models/airport"
)

const BACKEND_NAME = "redis"

// AIRPORTS_LAT_KEY_V1 is a sorted set of airport ids scored by latitude.
const AIRPORTS_LAT_KEY_V1 = "airports_lat_v1"
const AIRPORT_DOC_KEY_FORMAT_V1 = "airport_v1:%s"

// RedisAirportDAO answers bounding-box queries from a latitude-scored sorted
// set. Longitude is checked in process. The bookmark is the sorted-set offset
// of the next unread member.
type RedisAirportDAO struct {
	client db.RedisClient
}

// NewRedisAirportDAO initializes a RedisAirportDAO with the Redis client.
func NewRedisAirportDAO(client db.RedisClient) *RedisAirportDAO {
	return &RedisAirportDAO{client: client}
}

func (dao *RedisAirportDAO) Name() string {
	return BACKEND_NAME
}

// UpsertAirport indexes a by latitude and stores its JSON document.
func (dao *RedisAirportDAO) UpsertAirport(ctx context.Context, a airport.Airport) error {
	return dao.client.AddScoredJSON(ctx, AIRPORTS_LAT_KEY_V1, a.ID, a.Lat, docKey(a.ID), a)
}

// SearchPage keeps reading the latitude band until PageSize rows pass the
// longitude check or the band is exhausted, so a short page is always the last.
func (dao *RedisAirportDAO) SearchPage(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	offset, err := parseBookmark(query.Bookmark)
	if err != nil {
		return nil, err
	}
	if query.PageSize <= 0 {
		return nil, fmt.Errorf("[RedisAirportDAO] invalid page size %d", query.PageSize)
	}

	lat := query.Filter.Latitude
	rows := make([]airport.Airport, 0, query.PageSize)

	for len(rows) < query.PageSize {
		want := int64(query.PageSize - len(rows))
		ids, err := dao.client.RangeByScore(ctx, AIRPORTS_LAT_KEY_V1, lat.Min, lat.Max, offset, want)
		if err != nil {
			return nil, fmt.Errorf("[RedisAirportDAO] failed to read latitude band: %w", err)
		}
		if len(ids) == 0 {
			break
		}
		offset += int64(len(ids))

		matched, err := dao.load(ctx, ids, query)
		if err != nil {
			return nil, err
		}
		rows = append(rows, matched...)

		if int64(len(ids)) < want {
			break
		}
	}

	total, err := dao.client.CountByScore(ctx, AIRPORTS_LAT_KEY_V1, lat.Min, lat.Max)
	if err != nil {
		return nil, fmt.Errorf("[RedisAirportDAO] failed to count latitude band: %w", err)
	}

	return &models.SearchResult{
		Rows:      rows,
		Bookmark:  strconv.FormatInt(offset, 10),
		TotalRows: int(total),
	}, nil
}

func (dao *RedisAirportDAO) Ping(ctx context.Context) error {
	return dao.client.Ping(ctx)
}

// load fetches the documents for ids and keeps those matching the filter.
func (dao *RedisAirportDAO) load(ctx context.Context, ids []string, query models.SearchQuery) ([]airport.Airport, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(id)
	}

	docs, err := dao.client.MGet(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("[RedisAirportDAO] failed to load airports: %w", err)
	}

	var matched []airport.Airport
	for i, doc := range docs {
		if doc == "" {
			logging.FromContext(ctx).Warn("airport document missing", "id", ids[i])
			continue
		}
		var a airport.Airport
		if err := json.Unmarshal([]byte(doc), &a); err != nil {
			logging.FromContext(ctx).Warn("skipping malformed airport document", "id", ids[i], "error", err)
			continue
		}
		if query.Filter.Matches(a.Location()) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func docKey(id string) string {
	return fmt.Sprintf(AIRPORT_DOC_KEY_FORMAT_V1, id)
}

func parseBookmark(bookmark string) (int64, error) {
	if bookmark == "" {
		return 0, nil
	}
	offset, err := strconv.ParseInt(bookmark, 10, 64)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("[RedisAirportDAO] invalid bookmark %q", bookmark)
	}
	return offset, nil
}
