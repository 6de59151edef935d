package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/richardsabow/airports-backend/models/airport"
	"golang.org/x/sync/errgroup"
)

const DEFAULT_LOAD_CONCURRENCY = 8

// AirportWriter is implemented by backends that can be seeded.
type AirportWriter interface {
	UpsertAirport(ctx context.Context, a airport.Airport) error
}

// AirportsSource returns the full airport dataset.
type AirportsSource func() ([]airport.Airport, error)

// AirportsLoaderService copies a dataset into a writable backend, once or on
// a schedule.
type AirportsLoaderService struct {
	writer      AirportWriter
	source      AirportsSource
	concurrency int
}

func NewAirportsLoaderService(writer AirportWriter, source AirportsSource) *AirportsLoaderService {
	return &AirportsLoaderService{
		writer:      writer,
		source:      source,
		concurrency: DEFAULT_LOAD_CONCURRENCY,
	}
}

// LoadAirports upserts every airport from the source and returns how many
// were written. Airports with invalid coordinates are skipped.
func (l *AirportsLoaderService) LoadAirports(ctx context.Context) (int, error) {
	airports, err := l.source()
	if err != nil {
		return 0, fmt.Errorf("[AirportsLoaderService] failed to read airports: %w", err)
	}

	valid := make([]airport.Airport, 0, len(airports))
	for _, a := range airports {
		if err := a.Location().Validate(); err != nil {
			slog.Warn("[AirportsLoaderService] skipping airport", "id", a.ID, "error", err)
			continue
		}
		valid = append(valid, a)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for _, a := range valid {
		a := a
		g.Go(func() error {
			if err := l.writer.UpsertAirport(gctx, a); err != nil {
				return fmt.Errorf("[AirportsLoaderService] failed to upsert airport %s: %w", a.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	slog.Info("[AirportsLoaderService] airports loaded", "count", len(valid), "skipped", len(airports)-len(valid))
	return len(valid), nil
}

// StartPeriodicJob reloads the dataset every interval until ctx is done.
func (l *AirportsLoaderService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	go l.startPeriodicJob(ctx, interval)
}

func (l *AirportsLoaderService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			slog.Info("[AirportsLoaderService] running periodic airports reload")
			if _, err := l.LoadAirports(ctx); err != nil {
				slog.Error("[AirportsLoaderService] reload failed", "error", err)
			}
		}
	}
}
