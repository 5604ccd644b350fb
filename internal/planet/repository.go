package planet

import (
	"context"
	"fmt"
	"log/slog"

	"mission-control-server/internal/shared/database"

	"github.com/lib/pq"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing planet repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetAll(ctx context.Context) ([]Planet, error) {
	logger := r.logger.With("component", "planet_repository", "operation", "get_all")
	logger.Debug("Getting all planets")

	query := `
		SELECT kepler_name
		FROM planets
		ORDER BY kepler_name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query planets", "error", err)
		return nil, fmt.Errorf("failed to query planets: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var planets []Planet
	for rows.Next() {
		var planet Planet
		if err := rows.Scan(&planet.KeplerName); err != nil {
			logger.Error("Failed to scan planet row", "error", err)
			return nil, fmt.Errorf("failed to scan planet: %w", err)
		}
		planets = append(planets, planet)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating planets: %w", err)
	}

	logger.Debug("Planets retrieved", "count", len(planets))
	return planets, nil
}

// ReplaceAll swaps the whole planet set for the given names inside a single
// transaction. An empty slice still clears the table; that is the full-replace
// contract of ingestion.
func (r *Repository) ReplaceAll(ctx context.Context, names []string) error {
	logger := r.logger.With("component", "planet_repository", "operation", "replace_all", "count", len(names))
	logger.Debug("Replacing planet set")

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err.Error() != "sql: transaction has already been committed or rolled back" {
			logger.Error("Failed to rollback transaction", "error", err)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM planets`); err != nil {
		logger.Error("Failed to clear planets", "error", err)
		return fmt.Errorf("failed to clear planets: %w", err)
	}

	if len(names) > 0 {
		query := `
			INSERT INTO planets (kepler_name)
			SELECT unnest($1::text[])
		`
		if _, err := tx.ExecContext(ctx, query, pq.Array(names)); err != nil {
			logger.Error("Failed to insert planets", "error", err)
			return fmt.Errorf("failed to insert planets: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit planet replacement", "error", err)
		return fmt.Errorf("failed to commit planet replacement: %w", err)
	}

	logger.Info("Planet set replaced", "count", len(names))
	return nil
}
