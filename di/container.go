package di

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/richardsabow/airports-backend/api"
	"github.com/richardsabow/airports-backend/api/cloudant"
	"github.com/richardsabow/airports-backend/config"
	"github.com/richardsabow/airports-backend/dao"
	cloudantdao "github.com/richardsabow/airports-backend/dao/cloudant"
	"github.com/richardsabow/airports-backend/dao/postgres"
	redisdao "github.com/richardsabow/airports-backend/dao/redis"
	"github.com/richardsabow/airports-backend/dao/rtree"
	"github.com/richardsabow/airports-backend/db"
	"github.com/richardsabow/airports-backend/models/airport"
	"github.com/richardsabow/airports-backend/server"
	"github.com/richardsabow/airports-backend/server/handlers"
	services "github.com/richardsabow/airports-backend/service"
	"github.com/richardsabow/airports-backend/util"
)

// Container holds all application dependencies.
type Container struct {
	Config         *config.Config
	AirportDao     dao.AirportSearchDAO
	AirportService *services.AirportService
	AirportHandler *handlers.AirportHandler
	MuxRouter      *mux.Router
	Router         *server.Router
	HttpServer     *server.AirportHttpServer

	// AirportsLoader is set only for backends that can be seeded.
	AirportsLoader *services.AirportsLoaderService

	closers []func()
}

// NewContainer initializes and wires up all dependencies for cfg.Backend.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	slog.Info("initializing container", "backend", cfg.Backend)
	c := &Container{Config: cfg}

	if err := c.initBackend(ctx); err != nil {
		c.Close()
		return nil, err
	}

	// Initialize service layer with the backend dependency
	c.AirportService = services.NewAirportService(c.AirportDao,
		services.WithPageSize(cfg.SearchPageSize),
		services.WithMaxRadius(cfg.MaxRadiusMeters),
	)

	c.AirportHandler = handlers.NewAirportHandler(c.AirportService, cfg.DefaultLimit)

	c.MuxRouter = mux.NewRouter()
	c.Router = server.NewRouter(c.AirportHandler, c.MuxRouter, server.RouterOptions{
		RequestTimeout: cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	c.HttpServer = server.NewAirportHttpServer(c.Router, cfg.Addr())

	return c, nil
}

func (c *Container) initBackend(ctx context.Context) error {
	cfg := c.Config

	switch cfg.Backend {
	case config.BACKEND_CLOUDANT:
		httpClient, err := api.NewHTTPClient(cfg.CloudantURL)
		if err != nil {
			return err
		}
		cloudantAPI := cloudant.NewCloudantApiClient(httpClient, cfg.CloudantDB)
		c.AirportDao = cloudantdao.NewCloudantAirportDAO(cloudantAPI, cfg.CloudantDesignDoc, cfg.CloudantIndex)

	case config.BACKEND_REDIS:
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		redisClient, err := db.NewGeoRedisClient(ctx, redisInternalClient)
		if err != nil {
			redisInternalClient.Close()
			return err
		}
		c.closers = append(c.closers, func() { redisClient.Close() })

		redisAirportDao := redisdao.NewRedisAirportDAO(redisClient)
		c.AirportDao = redisAirportDao
		c.AirportsLoader = services.NewAirportsLoaderService(redisAirportDao, c.fixtureSource())

	case config.BACKEND_POSTGRES:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, pool.Close)
		c.AirportDao = postgres.NewPostgresAirportDAO(pool, cfg.PostgresTable)

	case config.BACKEND_MEMORY:
		airports, err := c.fixtureSource()()
		if err != nil {
			return err
		}
		rtreeDao, err := rtree.NewRtreeAirportDAO(airports)
		if err != nil {
			return err
		}
		slog.Info("loaded airports into memory", "count", rtreeDao.Size())
		c.AirportDao = rtreeDao

	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return nil
}

func (c *Container) fixtureSource() services.AirportsSource {
	path := c.Config.AirportsFixture
	return func() ([]airport.Airport, error) {
		return util.ReadAirportsFromJSON(path)
	}
}

// Close releases backend connections.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
