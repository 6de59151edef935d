package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/richardsabow/airports-backend/apperr"
	"github.com/richardsabow/airports-backend/geo"
	"github.com/richardsabow/airports-backend/logging"
	"github.com/richardsabow/airports-backend/models/airport"
	"github.com/richardsabow/airports-backend/server/response"
	services "github.com/richardsabow/airports-backend/service"
)

const (
	RADIUS_QUERY_ARG = "radius"
	LAT_QUERY_ARG    = "lat"
	LON_QUERY_ARG    = "lon"
	LIMIT_QUERY_ARG  = "limit"

	DEFAULT_LIMIT = 50
	READY_TIMEOUT = 3 * time.Second
)

// AirportSearcher is the part of the airport service the handler needs.
type AirportSearcher interface {
	GetAirports(ctx context.Context, center geo.Point, radiusMeters float64, limit int) ([]airport.Airport, error)
	MaxRadius() float64
	Ping(ctx context.Context) error
}

// searchArgs are the parsed query arguments of GET /airports.
type searchArgs struct {
	Radius *float64 `query:"radius" validate:"required,gte=0"`
	Lat    *float64 `query:"lat" validate:"required,gte=-90,lte=90"`
	Lon    *float64 `query:"lon" validate:"required,gte=-180,lte=180"`
	Limit  int      `query:"limit" validate:"gte=1"`
}

type AirportHandler struct {
	airportSearcher AirportSearcher
	validate        *validator.Validate
	defaultLimit    int
}

func NewAirportHandler(airportSearcher AirportSearcher, defaultLimit int) *AirportHandler {
	if defaultLimit < 1 {
		defaultLimit = DEFAULT_LIMIT
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("query")
	})

	return &AirportHandler{
		airportSearcher: airportSearcher,
		validate:        v,
		defaultLimit:    defaultLimit,
	}
}

// GetAirports handles GET /airports?radius={meters}&lat={lat}&lon={lon}[&limit={n}]
// and answers with the matching airports, nearest first.
func (h *AirportHandler) GetAirports(w http.ResponseWriter, r *http.Request) {
	args, err := h.parseArgs(r.URL.Query())
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	if *args.Radius > h.airportSearcher.MaxRadius() {
		response.HandleError(w, r, apperr.RadiusTooLarge(services.RADIUS_TOO_LARGE_MESSAGE))
		return
	}

	center := geo.Point{Latitude: *args.Lat, Longitude: *args.Lon}
	airports, err := h.airportSearcher.GetAirports(r.Context(), center, *args.Radius, args.Limit)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Debug("airports found", "count", len(airports))
	response.JSON(w, r, http.StatusOK, airports)
}

func (h *AirportHandler) parseArgs(vals url.Values) (*searchArgs, error) {
	args := &searchArgs{Limit: h.defaultLimit}

	for _, arg := range []struct {
		name   string
		target **float64
	}{
		{RADIUS_QUERY_ARG, &args.Radius},
		{LAT_QUERY_ARG, &args.Lat},
		{LON_QUERY_ARG, &args.Lon},
	} {
		raw := vals.Get(arg.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, invalidArgument(arg.name)
		}
		*arg.target = &v
	}

	if raw := vals.Get(LIMIT_QUERY_ARG); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, invalidArgument(LIMIT_QUERY_ARG)
		}
		args.Limit = limit
	}

	if err := h.validate.Struct(args); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, invalidArgument(fieldErrs[0].Field())
		}
		return nil, apperr.InvalidInput(err.Error())
	}
	return args, nil
}

func invalidArgument(name string) *apperr.Error {
	return apperr.InvalidInput("Invalid argument " + name)
}

// Ping handles GET /ping
func (h *AirportHandler) Ping(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "pong"})
}

// Ready handles GET /ready by pinging the search backend.
func (h *AirportHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), READY_TIMEOUT)
	defer cancel()

	if err := h.airportSearcher.Ping(ctx); err != nil {
		logging.FromContext(r.Context()).Warn("backend not ready", "error", err)
		response.JSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
