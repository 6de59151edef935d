package rtree

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/richardsabow/airports-backend/geo"
	"github.com/richardsabow/airports-backend/models"
	"github.com/richardsabow/airports-backend/models/airport"
)

const BACKEND_NAME = "memory"

const (
	dimensions  = 2
	minChildren = 25
	maxChildren = 50
	tolerance   = 1e-9
)

// spatialAirport wraps an airport to implement rtreego.Spatial.
type spatialAirport struct {
	airport airport.Airport
	rect    rtreego.Rect
}

func (s *spatialAirport) Bounds() rtreego.Rect {
	return s.rect
}

// RtreeAirportDAO serves searches from an in-memory R-tree keyed on
// (lat, lon). The bookmark is the offset into the id-ordered match list.
type RtreeAirportDAO struct {
	mu   sync.RWMutex
	tree *rtreego.Rtree
}

// NewRtreeAirportDAO indexes airports; invalid coordinates are rejected.
func NewRtreeAirportDAO(airports []airport.Airport) (*RtreeAirportDAO, error) {
	dao := &RtreeAirportDAO{tree: rtreego.NewTree(dimensions, minChildren, maxChildren)}
	if err := dao.Load(airports); err != nil {
		return nil, err
	}
	return dao, nil
}

func (dao *RtreeAirportDAO) Name() string {
	return BACKEND_NAME
}

// Load adds airports to the index.
func (dao *RtreeAirportDAO) Load(airports []airport.Airport) error {
	items := make([]*spatialAirport, 0, len(airports))
	for _, a := range airports {
		if err := a.Location().Validate(); err != nil {
			return fmt.Errorf("[RtreeAirportDAO] airport %s: %w", a.ID, err)
		}
		p := rtreego.Point{a.Lat, a.Lon}
		items = append(items, &spatialAirport{airport: a, rect: p.ToRect(tolerance)})
	}

	dao.mu.Lock()
	defer dao.mu.Unlock()
	for _, item := range items {
		dao.tree.Insert(item)
	}
	return nil
}

func (dao *RtreeAirportDAO) Size() int {
	dao.mu.RLock()
	defer dao.mu.RUnlock()
	return dao.tree.Size()
}

func (dao *RtreeAirportDAO) SearchPage(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	offset, err := parseBookmark(query.Bookmark)
	if err != nil {
		return nil, err
	}

	matches, err := dao.search(query.Filter)
	if err != nil {
		return nil, err
	}

	end := len(matches)
	if offset > end {
		offset = end
	}
	if query.PageSize > 0 && offset+query.PageSize < end {
		end = offset + query.PageSize
	}

	rows := make([]airport.Airport, end-offset)
	copy(rows, matches[offset:end])

	return &models.SearchResult{
		Rows:      rows,
		Bookmark:  strconv.Itoa(end),
		TotalRows: len(matches),
	}, nil
}

func (dao *RtreeAirportDAO) Ping(ctx context.Context) error {
	return ctx.Err()
}

// search returns every airport matching filter, ordered by id.
func (dao *RtreeAirportDAO) search(filter geo.Filter) ([]airport.Airport, error) {
	dao.mu.RLock()
	defer dao.mu.RUnlock()

	seen := make(map[*spatialAirport]struct{})
	var matches []airport.Airport
	for _, lon := range filter.Longitudes {
		bounds, err := rtreego.NewRectFromPoints(
			rtreego.Point{filter.Latitude.Min, lon.Min},
			rtreego.Point{filter.Latitude.Max, lon.Max},
		)
		if err != nil {
			return nil, fmt.Errorf("[RtreeAirportDAO] invalid search rect: %w", err)
		}

		for _, result := range dao.tree.SearchIntersect(bounds) {
			item, ok := result.(*spatialAirport)
			if !ok {
				continue
			}
			if _, dup := seen[item]; dup {
				continue
			}
			// Strict check, the tree matches on the tolerance rect.
			if !filter.Matches(item.airport.Location()) {
				continue
			}
			seen[item] = struct{}{}
			matches = append(matches, item.airport)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

func parseBookmark(bookmark string) (int, error) {
	if bookmark == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(bookmark)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("[RtreeAirportDAO] invalid bookmark %q", bookmark)
	}
	return offset, nil
}
