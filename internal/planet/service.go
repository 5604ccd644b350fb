package planet

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"mission-control-server/internal/shared/database"
	"mission-control-server/internal/shared/errors"
)

// Store is the persisted planet set.
type Store interface {
	GetAll(ctx context.Context) ([]Planet, error)
	ReplaceAll(ctx context.Context, names []string) error
}

type Service struct {
	store  Store
	cache  *Cache
	logger *slog.Logger
}

func NewService(store Store, cache *Cache, logger *slog.Logger) *Service {
	logger.Debug("Initializing planet service")

	return &Service{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Ingest scans the dataset stream, filters it down to habitable planets and
// replaces the persisted planet set. Any read or parse error aborts the run
// before the store is touched, leaving the previous set intact. Returns the
// number of habitable planets persisted.
func (s *Service) Ingest(ctx context.Context, r io.Reader) (int, error) {
	logger := s.logger.With("component", "planet_service", "operation", "ingest")
	logger.Debug("Starting dataset ingestion")

	scanner, err := newDatasetScanner(r)
	if err != nil {
		return 0, fmt.Errorf("failed to open dataset: %w", err)
	}

	var names []string
	for {
		candidate, err := scanner.Next()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Error("Dataset scan failed", "error", err)
			return 0, fmt.Errorf("failed to scan dataset: %w", err)
		}

		if !candidate.Habitable() {
			continue
		}

		name := candidate.Name()
		if name == "" {
			logger.Debug("Dropping unnamed habitable candidate")
			continue
		}
		names = append(names, name)
	}

	storeCtx, cancel := database.OperationContext(ctx)
	defer cancel()

	if err := s.store.ReplaceAll(storeCtx, names); err != nil {
		return 0, errors.WrapStore("failed to replace planet set", err)
	}

	if s.cache != nil {
		planets := make([]Planet, len(names))
		for i, name := range names {
			planets[i] = Planet{KeplerName: name}
		}
		s.cache.Set(ctx, planets)
	}

	logger.Info("Dataset ingestion finished", "habitable_planets", len(names))
	return len(names), nil
}

// GetAll returns the planet set, preferring the cache when warm.
func (s *Service) GetAll(ctx context.Context) ([]Planet, error) {
	if planets, ok := s.cache.Get(ctx); ok {
		return planets, nil
	}

	storeCtx, cancel := database.OperationContext(ctx)
	defer cancel()

	planets, err := s.store.GetAll(storeCtx)
	if err != nil {
		return nil, errors.WrapStore("failed to load planets", err)
	}

	s.cache.Set(ctx, planets)
	return planets, nil
}
