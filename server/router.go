package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/richardsabow/airports-backend/metrics"
	"github.com/richardsabow/airports-backend/server/middleware"
	"github.com/richardsabow/airports-backend/server/response"
)

// AirportRoutes is what the router serves.
type AirportRoutes interface {
	GetAirports(w http.ResponseWriter, r *http.Request)
	Ping(w http.ResponseWriter, r *http.Request)
	Ready(w http.ResponseWriter, r *http.Request)
}

type RouterOptions struct {
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

type Router struct {
	airportHandler AirportRoutes
	router         *mux.Router
	options        RouterOptions
}

// NewRouter creates a router with the app’s routes.
func NewRouter(
	airportHandler AirportRoutes,
	router *mux.Router,
	options RouterOptions) *Router {
	return &Router{
		airportHandler: airportHandler,
		router:         router,
		options:        options,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(
		middleware.RequestID,
		middleware.AccessLog,
		middleware.Metrics,
		middleware.Recover,
		middleware.SecurityHeaders,
		middleware.NewIPRateLimiter(r.options.RateLimitRPS, r.options.RateLimitBurst).Middleware,
	)
	if r.options.RequestTimeout > 0 {
		r.router.Use(middleware.Timeout(r.options.RequestTimeout))
	}

	// expects ?radius={meters(float)}&lat={latitude(float)}&lon={longitude(float)}[&limit={int}]
	r.router.HandleFunc("/airports", r.airportHandler.GetAirports).Methods(http.MethodGet)
	r.router.HandleFunc("/airports/", r.airportHandler.GetAirports).Methods(http.MethodGet)

	r.router.HandleFunc("/ping", r.airportHandler.Ping).Methods(http.MethodGet)
	r.router.HandleFunc("/ready", r.airportHandler.Ready).Methods(http.MethodGet)
	r.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, req, http.StatusNotFound, "not_found", "route not found")
	})
}

func (r *Router) Handler() http.Handler {
	return r.router
}
