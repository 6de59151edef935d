package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/richardsabow/airports-backend/geo"
	"github.com/richardsabow/airports-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	data [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.pos-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(row) != len(dest) {
		return fmt.Errorf("expected %d columns, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *float64:
			*p = row[i].(float64)
		case **string:
			if row[i] == nil {
				*p = nil
			} else {
				s := row[i].(string)
				*p = &s
			}
		case *[]byte:
			if row[i] != nil {
				*p = []byte(row[i].(string))
			}
		case *int64:
			*p = row[i].(int64)
		default:
			return fmt.Errorf("unsupported scan target %T", d)
		}
	}
	return nil
}

type fakeQuerier struct {
	rows    *fakeRows
	err     error
	gotSQL  string
	gotArgs []any
}

func (q *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.gotSQL = sql
	q.gotArgs = args
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func (q *fakeQuerier) Ping(ctx context.Context) error { return q.err }

func TestBuildSearchSQL_SingleRange(t *testing.T) {
	sql, args := buildSearchSQL("airports", models.SearchQuery{
		Filter: geo.Filter{
			Latitude:   geo.Range{Min: 36, Max: 38},
			Longitudes: []geo.Range{{Min: -123, Max: -121}},
		},
		PageSize: 200,
	})

	assert.Equal(t, `SELECT id, lat, lon, name, fields, count(*) OVER () FROM "airports" WHERE lat BETWEEN $1 AND $2 AND (lon BETWEEN $3 AND $4) ORDER BY id LIMIT $5`, sql)
	assert.Equal(t, []any{36.0, 38.0, -123.0, -121.0, 200}, args)
}

func TestBuildSearchSQL_AntimeridianWithBookmark(t *testing.T) {
	sql, args := buildSearchSQL("public.airports", models.SearchQuery{
		Filter: geo.Filter{
			Latitude:   geo.Range{Min: -19, Max: -15},
			Longitudes: []geo.Range{{Min: 177, Max: 180}, {Min: -180, Max: -178}},
		},
		PageSize: 50,
		Bookmark: "NAN",
	})

	assert.Equal(t, `SELECT id, lat, lon, name, fields, count(*) OVER () FROM "public"."airports" WHERE lat BETWEEN $1 AND $2 AND (lon BETWEEN $3 AND $4 OR lon BETWEEN $5 AND $6) AND id > $7 ORDER BY id LIMIT $8`, sql)
	assert.Equal(t, []any{-19.0, -15.0, 177.0, 180.0, -180.0, -178.0, "NAN", 50}, args)
}

func TestPostgresAirportDAO_SearchPage(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{data: [][]any{
		{"OAK", 37.7126, -122.2197, "Oakland International", `{"iata":"OAK"}`, int64(2)},
		{"SFO", 37.6213, -122.379, nil, nil, int64(2)},
	}}}
	dao := NewPostgresAirportDAO(q, "")

	res, err := dao.SearchPage(context.Background(), models.SearchQuery{
		Filter:   geo.Filter{Latitude: geo.Range{Min: 37, Max: 38}, Longitudes: []geo.Range{{Min: -123, Max: -122}}},
		PageSize: 200,
	})

	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Oakland International", res.Rows[0].Name)
	assert.Equal(t, "OAK", res.Rows[0].Fields["iata"])
	assert.Empty(t, res.Rows[1].Name)
	assert.Equal(t, "SFO", res.Bookmark)
	assert.Equal(t, 2, res.TotalRows)
	assert.Contains(t, q.gotSQL, `FROM "airports"`)
}

func TestPostgresAirportDAO_SearchPage_EmptyKeepsBookmark(t *testing.T) {
	dao := NewPostgresAirportDAO(&fakeQuerier{rows: &fakeRows{}}, "airports")

	res, err := dao.SearchPage(context.Background(), models.SearchQuery{PageSize: 10, Bookmark: "ZZZ"})
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.NotNil(t, res.Rows)
	assert.Equal(t, "ZZZ", res.Bookmark)
}

func TestPostgresAirportDAO_Errors(t *testing.T) {
	dao := NewPostgresAirportDAO(&fakeQuerier{err: errors.New("connection refused")}, "airports")
	_, err := dao.SearchPage(context.Background(), models.SearchQuery{PageSize: 10})
	assert.ErrorContains(t, err, "connection refused")

	dao = NewPostgresAirportDAO(&fakeQuerier{rows: &fakeRows{err: errors.New("conn reset")}}, "airports")
	_, err = dao.SearchPage(context.Background(), models.SearchQuery{PageSize: 10})
	assert.ErrorContains(t, err, "rows failed")
}
