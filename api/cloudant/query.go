package cloudant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/richardsabow/airports-backend/geo"
)

const (
	LAT_INDEX_FIELD = "lat"
	LON_INDEX_FIELD = "lon"
)

// BuildGeoQuery renders a geo.Filter as a Lucene range query, e.g.
//
//	lon:[-123.5 TO -121.2] AND lat:[36.7 TO 38.5]
//	(lon:[177.6 TO 180] OR lon:[-180 TO -178.6]) AND lat:[-18.8 TO -15.2]
func BuildGeoQuery(filter geo.Filter) string {
	lons := make([]string, 0, len(filter.Longitudes))
	for _, r := range filter.Longitudes {
		lons = append(lons, rangeClause(LON_INDEX_FIELD, r))
	}

	lonClause := strings.Join(lons, " OR ")
	if len(lons) > 1 {
		lonClause = "(" + lonClause + ")"
	}
	return lonClause + " AND " + rangeClause(LAT_INDEX_FIELD, filter.Latitude)
}

func rangeClause(field string, r geo.Range) string {
	return fmt.Sprintf("%s:[%s TO %s]", field, formatNumber(r.Min), formatNumber(r.Max))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
