package launch

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"mission-control-server/internal/shared/database"

	"github.com/lib/pq"
)

// ErrFlightNumberTaken reports that a concurrent scheduler claimed the flight
// number this insert computed. Callers retry the allocation.
var ErrFlightNumberTaken = stderrors.New("flight number already taken")

const launchColumns = `flight_number, mission, rocket, launch_date, target, customers, upcoming, success`

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing launch repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func scanLaunch(row interface{ Scan(...interface{}) error }) (*Launch, error) {
	var launch Launch
	err := row.Scan(
		&launch.FlightNumber,
		&launch.Mission,
		&launch.Rocket,
		&launch.LaunchDate,
		&launch.Target,
		pq.Array(&launch.Customers),
		&launch.Upcoming,
		&launch.Success,
	)
	if err != nil {
		return nil, err
	}
	return &launch, nil
}

func (r *Repository) GetAll(ctx context.Context) ([]Launch, error) {
	logger := r.logger.With("component", "launch_repository", "operation", "get_all")
	logger.Debug("Getting all launches")

	query := fmt.Sprintf(`
		SELECT %s
		FROM launches
		ORDER BY flight_number
	`, launchColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query launches", "error", err)
		return nil, fmt.Errorf("failed to query launches: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var launches []Launch
	for rows.Next() {
		launch, err := scanLaunch(rows)
		if err != nil {
			logger.Error("Failed to scan launch row", "error", err)
			return nil, fmt.Errorf("failed to scan launch: %w", err)
		}
		launches = append(launches, *launch)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating launches: %w", err)
	}

	logger.Debug("Launches retrieved", "count", len(launches))
	return launches, nil
}

// InsertNext persists the launch under the next free flight number. The
// number is computed and the row inserted in one statement, so two
// concurrent schedulers cannot both observe the same high-water mark without
// one of them tripping the primary key; that case surfaces as
// ErrFlightNumberTaken and is retried by the service.
func (r *Repository) InsertNext(ctx context.Context, launch Launch) (*Launch, error) {
	logger := r.logger.With("component", "launch_repository", "operation", "insert_next", "mission", launch.Mission)
	logger.Debug("Inserting launch with next flight number")

	query := fmt.Sprintf(`
		INSERT INTO launches (flight_number, mission, rocket, launch_date, target, customers, upcoming, success)
		SELECT COALESCE(MAX(flight_number), %d) + 1, $1, $2, $3, $4, $5, $6, $7
		FROM launches
		RETURNING %s
	`, FlightNumberBaseline, launchColumns)

	created, err := scanLaunch(r.db.QueryRowContext(ctx, query,
		launch.Mission,
		launch.Rocket,
		launch.LaunchDate,
		launch.Target,
		pq.Array(launch.Customers),
		launch.Upcoming,
		launch.Success,
	))
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			logger.Info("Flight number collision, caller will retry")
			return nil, ErrFlightNumberTaken
		}
		logger.Error("Failed to insert launch", "error", err)
		return nil, fmt.Errorf("failed to insert launch: %w", err)
	}

	logger.Info("Launch inserted", "flight_number", created.FlightNumber)
	return created, nil
}

// Upsert writes the launch under its flight number, replacing any existing
// record. Used for seeding and idempotent re-writes of known launches.
func (r *Repository) Upsert(ctx context.Context, launch Launch) error {
	logger := r.logger.With("component", "launch_repository", "operation", "upsert", "flight_number", launch.FlightNumber)
	logger.Debug("Upserting launch")

	query := `
		INSERT INTO launches (flight_number, mission, rocket, launch_date, target, customers, upcoming, success)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (flight_number) DO UPDATE SET
			mission = EXCLUDED.mission,
			rocket = EXCLUDED.rocket,
			launch_date = EXCLUDED.launch_date,
			target = EXCLUDED.target,
			customers = EXCLUDED.customers,
			upcoming = EXCLUDED.upcoming,
			success = EXCLUDED.success
	`

	_, err := r.db.ExecContext(ctx, query,
		launch.FlightNumber,
		launch.Mission,
		launch.Rocket,
		launch.LaunchDate,
		launch.Target,
		pq.Array(launch.Customers),
		launch.Upcoming,
		launch.Success,
	)
	if err != nil {
		logger.Error("Failed to upsert launch", "error", err)
		return fmt.Errorf("failed to upsert launch: %w", err)
	}

	return nil
}

// Abort marks the launch as no longer upcoming and unsuccessful, leaving all
// other fields untouched. Returns whether a row was updated.
func (r *Repository) Abort(ctx context.Context, flightNumber int) (bool, error) {
	logger := r.logger.With("component", "launch_repository", "operation", "abort", "flight_number", flightNumber)
	logger.Debug("Aborting launch")

	query := `
		UPDATE launches
		SET upcoming = false, success = false
		WHERE flight_number = $1
	`

	result, err := r.db.ExecContext(ctx, query, flightNumber)
	if err != nil {
		logger.Error("Failed to abort launch", "error", err)
		return false, fmt.Errorf("failed to abort launch: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.Error("Failed to read abort result", "error", err)
		return false, fmt.Errorf("failed to read abort result: %w", err)
	}

	logger.Debug("Abort update finished", "rows_affected", affected)
	return affected == 1, nil
}

// Exists reports whether a launch with the flight number is persisted.
func (r *Repository) Exists(ctx context.Context, flightNumber int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM launches WHERE flight_number = $1)`,
		flightNumber,
	).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check launch existence", "flight_number", flightNumber, "error", err)
		return false, fmt.Errorf("failed to check launch existence: %w", err)
	}
	return exists, nil
}
