package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/richardsabow/airports-backend/apperr"
	"github.com/richardsabow/airports-backend/dao"
	"github.com/richardsabow/airports-backend/geo"
	"github.com/richardsabow/airports-backend/logging"
	"github.com/richardsabow/airports-backend/metrics"
	"github.com/richardsabow/airports-backend/models"
	"github.com/richardsabow/airports-backend/models/airport"
)

const (
	DEFAULT_PAGE_SIZE         = 200
	DEFAULT_MAX_RADIUS_METERS = 1000000
	RADIUS_TOO_LARGE_MESSAGE  = "Given radius is too large"
)

const getAirportsOp = "AirportService.GetAirports"

// AirportService runs geo-radius searches against a paginated backend.
type AirportService struct {
	airportDao dao.AirportSearchDAO
	pageSize   int
	maxRadius  float64
	index      string
}

type Option func(*AirportService)

// WithPageSize sets the number of records requested per backend page.
func WithPageSize(n int) Option {
	return func(s *AirportService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithMaxRadius sets the largest accepted radius in meters.
func WithMaxRadius(meters float64) Option {
	return func(s *AirportService) {
		if meters > 0 {
			s.maxRadius = meters
		}
	}
}

// WithIndex names the backend index to query, for backends that have several.
func WithIndex(index string) Option {
	return func(s *AirportService) {
		s.index = index
	}
}

// NewAirportService constructs a new AirportService over airportDao.
func NewAirportService(airportDao dao.AirportSearchDAO, options ...Option) *AirportService {
	s := &AirportService{
		airportDao: airportDao,
		pageSize:   DEFAULT_PAGE_SIZE,
		maxRadius:  DEFAULT_MAX_RADIUS_METERS,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *AirportService) MaxRadius() float64 {
	return s.maxRadius
}

// Ping checks that the search backend is reachable.
func (s *AirportService) Ping(ctx context.Context) error {
	return s.airportDao.Ping(ctx)
}

// GetAirports returns the airports within radiusMeters of center, nearest
// first, at most limit of them. The backend is paged until it has nothing
// more to give; any failure discards what was gathered so far.
func (s *AirportService) GetAirports(ctx context.Context, center geo.Point, radiusMeters float64, limit int) ([]airport.Airport, error) {
	if err := s.validate(center, radiusMeters, limit); err != nil {
		return nil, err.WithOp(getAirportsOp)
	}

	start := time.Now()
	backend := s.airportDao.Name()
	log := logging.FromContext(ctx)

	box := geo.ComputeBoundingBox(center, radiusMeters)
	query := models.SearchQuery{
		Index:    s.index,
		Filter:   box.Filter(),
		PageSize: s.pageSize,
	}
	log.Debug("searching airports",
		"center", center.String(),
		"radius_m", radiusMeters,
		"limit", limit,
		"min", box.Min.String(),
		"max", box.Max.String(),
		"wraps", box.Wraps(),
	)

	var (
		ranked []airport.RankedAirport
		pages  int
	)
	for {
		if err := ctx.Err(); err != nil {
			s.observe(backend, "timeout", start)
			return nil, apperr.Timeout("search cancelled", err).WithOp(getAirportsOp)
		}

		page, err := s.airportDao.SearchPage(ctx, query)
		pages++
		metrics.PagesFetched.WithLabelValues(backend).Inc()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
				s.observe(backend, "timeout", start)
				return nil, apperr.Timeout("search timed out", err).WithOp(getAirportsOp)
			}
			metrics.BackendErrors.WithLabelValues(backend).Inc()
			s.observe(backend, "backend_error", start)
			return nil, apperr.BackendFailure("search backend failed", err).WithOp(getAirportsOp)
		}

		log.Info("showing airports",
			"page", pages,
			"showing", len(page.Rows),
			"total", page.TotalRows,
		)
		metrics.CandidatesScanned.WithLabelValues(backend).Add(float64(len(page.Rows)))

		for _, a := range page.Rows {
			d := geo.Distance(center, a.Location())
			if d <= radiusMeters {
				ranked = append(ranked, airport.RankedAirport{Airport: a, Distance: d})
			}
		}

		if lastPage(query, page) {
			break
		}
		query.Bookmark = page.Bookmark
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	result := make([]airport.Airport, len(ranked))
	for i, r := range ranked {
		result[i] = r.Airport
	}

	metrics.ResultsReturned.WithLabelValues(backend).Observe(float64(len(result)))
	s.observe(backend, "ok", start)
	log.Debug("search finished", "pages", pages, "results", len(result), "elapsed", time.Since(start))
	return result, nil
}

// lastPage reports whether the backend has nothing beyond page: it came
// back empty or short, or gave no new bookmark to continue from.
func lastPage(query models.SearchQuery, page *models.SearchResult) bool {
	n := page.Count()
	return n == 0 ||
		n < query.PageSize ||
		page.Bookmark == "" ||
		page.Bookmark == query.Bookmark
}

func (s *AirportService) validate(center geo.Point, radiusMeters float64, limit int) *apperr.Error {
	if err := center.Validate(); err != nil {
		return apperr.InvalidInput(err.Error())
	}
	if math.IsNaN(radiusMeters) || math.IsInf(radiusMeters, 0) || radiusMeters < 0 {
		return apperr.InvalidInput("radius must be a non-negative number of meters")
	}
	if radiusMeters > s.maxRadius {
		return apperr.RadiusTooLarge(RADIUS_TOO_LARGE_MESSAGE)
	}
	if limit < 1 {
		return apperr.InvalidInput("limit must be at least 1")
	}
	return nil
}

func (s *AirportService) observe(backend, outcome string, start time.Time) {
	metrics.SearchDuration.WithLabelValues(backend, outcome).Observe(time.Since(start).Seconds())
}
