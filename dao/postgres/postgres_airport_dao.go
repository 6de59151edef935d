package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/richardsabow/airports-backend/models"
	"github.com/richardsabow/airports-backend/models/airport"
)

const BACKEND_NAME = "postgres"
const DEFAULT_TABLE = "airports"

// Querier is the part of *pgxpool.Pool the DAO needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// PostgresAirportDAO reads airports from a table shaped like
//
//	CREATE TABLE airports (
//	    id     text PRIMARY KEY,
//	    lat    double precision NOT NULL,
//	    lon    double precision NOT NULL,
//	    name   text,
//	    fields jsonb
//	);
//
// Pages are keyset-paginated by id; the bookmark is the last id returned.
type PostgresAirportDAO struct {
	db    Querier
	table string
}

// NewPool opens a pgx connection pool and checks it.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not connect to postgres: %w", err)
	}
	return pool, nil
}

func NewPostgresAirportDAO(db Querier, table string) *PostgresAirportDAO {
	if table == "" {
		table = DEFAULT_TABLE
	}
	return &PostgresAirportDAO{db: db, table: table}
}

func (dao *PostgresAirportDAO) Name() string {
	return BACKEND_NAME
}

func (dao *PostgresAirportDAO) SearchPage(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	sql, args := buildSearchSQL(dao.table, query)

	rows, err := dao.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("[PostgresAirportDAO] query failed: %w", err)
	}
	defer rows.Close()

	result := &models.SearchResult{Rows: []airport.Airport{}, Bookmark: query.Bookmark}
	for rows.Next() {
		var (
			a      airport.Airport
			name   *string
			fields []byte
			total  int64
		)
		if err := rows.Scan(&a.ID, &a.Lat, &a.Lon, &name, &fields, &total); err != nil {
			return nil, fmt.Errorf("[PostgresAirportDAO] scan failed: %w", err)
		}
		if name != nil {
			a.Name = *name
		}
		if len(fields) > 0 {
			if err := json.Unmarshal(fields, &a.Fields); err != nil {
				return nil, fmt.Errorf("[PostgresAirportDAO] airport %s: bad fields: %w", a.ID, err)
			}
		}
		result.Rows = append(result.Rows, a)
		result.Bookmark = a.ID
		result.TotalRows = int(total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("[PostgresAirportDAO] rows failed: %w", err)
	}
	return result, nil
}

func (dao *PostgresAirportDAO) Ping(ctx context.Context) error {
	return dao.db.Ping(ctx)
}

// buildSearchSQL renders the filter as a parameterized range query. The
// window count covers every row after the bookmark, not just this page.
func buildSearchSQL(table string, query models.SearchQuery) (string, []any) {
	args := []any{query.Filter.Latitude.Min, query.Filter.Latitude.Max}

	lonClauses := make([]string, 0, len(query.Filter.Longitudes))
	for _, r := range query.Filter.Longitudes {
		args = append(args, r.Min, r.Max)
		lonClauses = append(lonClauses, fmt.Sprintf("lon BETWEEN $%d AND $%d", len(args)-1, len(args)))
	}
	if len(lonClauses) == 0 {
		lonClauses = append(lonClauses, "FALSE")
	}

	var sb strings.Builder
	sb.WriteString("SELECT id, lat, lon, name, fields, count(*) OVER () FROM ")
	sb.WriteString(pgx.Identifier(strings.Split(table, ".")).Sanitize())
	sb.WriteString(" WHERE lat BETWEEN $1 AND $2 AND (")
	sb.WriteString(strings.Join(lonClauses, " OR "))
	sb.WriteString(")")

	if query.Bookmark != "" {
		args = append(args, query.Bookmark)
		fmt.Fprintf(&sb, " AND id > $%d", len(args))
	}

	sb.WriteString(" ORDER BY id")
	if query.PageSize > 0 {
		args = append(args, query.PageSize)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	return sb.String(), args
}
