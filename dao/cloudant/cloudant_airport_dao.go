package cloudant

import (
	"context"
	"fmt"

	"github.com/richardsabow/airports-backend/api/cloudant"
	"github.com/richardsabow/airports-backend/logging"
	"github.com/richardsabow/airports-backend/models"
	"github.com/richardsabow/airports-backend/models/airport"
)

const BACKEND_NAME = "cloudant"

// CloudantAirportDAO searches airports through a Cloudant search index.
type CloudantAirportDAO struct {
	api       cloudant.CloudantAPI
	designDoc string
	index     string
}

// NewCloudantAirportDAO binds the DAO to the design document and index that
// hold the lat/lon search function.
func NewCloudantAirportDAO(api cloudant.CloudantAPI, designDoc, index string) *CloudantAirportDAO {
	return &CloudantAirportDAO{api: api, designDoc: designDoc, index: index}
}

func (dao *CloudantAirportDAO) Name() string {
	return BACKEND_NAME
}

// SearchPage renders the filter as a Lucene query and maps the returned rows.
// Rows without numeric lat/lon fields are skipped.
func (dao *CloudantAirportDAO) SearchPage(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	index := dao.index
	if query.Index != "" {
		index = query.Index
	}

	res, err := dao.api.Search(ctx, cloudant.SearchParams{
		DesignDoc: dao.designDoc,
		Index:     index,
		Query:     cloudant.BuildGeoQuery(query.Filter),
		Limit:     query.PageSize,
		Bookmark:  query.Bookmark,
	})
	if err != nil {
		return nil, fmt.Errorf("[CloudantAirportDAO] search failed: %w", err)
	}

	rows := make([]airport.Airport, 0, len(res.Rows))
	for _, row := range res.Rows {
		a, err := toAirport(row)
		if err != nil {
			logging.FromContext(ctx).Warn("skipping search row", "id", row.ID, "error", err)
			continue
		}
		rows = append(rows, a)
	}

	return &models.SearchResult{
		Rows:      rows,
		Bookmark:  res.Bookmark,
		TotalRows: res.TotalRows,
		RowsRead:  len(res.Rows),
	}, nil
}

func (dao *CloudantAirportDAO) Ping(ctx context.Context) error {
	return dao.api.Ping(ctx)
}

// toAirport flattens {id, fields} into a single airport record.
func toAirport(row cloudant.SearchRow) (airport.Airport, error) {
	fields := make(map[string]interface{}, len(row.Fields)+1)
	for k, v := range row.Fields {
		fields[k] = v
	}
	fields[airport.ID_FIELD] = row.ID
	return airport.FromFields(fields)
}
