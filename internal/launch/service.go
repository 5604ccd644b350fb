package launch

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"mission-control-server/internal/shared/database"
	"mission-control-server/internal/shared/errors"
)

// allocationAttempts bounds how often a flight-number collision with a
// concurrent scheduler is retried before giving up.
const allocationAttempts = 3

// Store is the persisted launch registry.
type Store interface {
	GetAll(ctx context.Context) ([]Launch, error)
	InsertNext(ctx context.Context, launch Launch) (*Launch, error)
	Upsert(ctx context.Context, launch Launch) error
	Abort(ctx context.Context, flightNumber int) (bool, error)
	Exists(ctx context.Context, flightNumber int) (bool, error)
}

// ScheduleRequest is the client payload for scheduling a launch. All fields
// are required. The target is not checked against the planet catalog; the
// catalog is advisory for the client.
type ScheduleRequest struct {
	Mission    string `json:"mission"`
	Rocket     string `json:"rocket"`
	LaunchDate string `json:"launchDate"`
	Target     string `json:"target"`
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	logger.Debug("Initializing launch service")

	return &Service{
		store:  store,
		logger: logger,
	}
}

// Seed writes the historical demo launch. The upsert is keyed by flight
// number, so repeated startups rewrite the same record instead of
// accumulating copies.
func (s *Service) Seed(ctx context.Context) error {
	logger := s.logger.With("component", "launch_service", "operation", "seed", "flight_number", SeedLaunch.FlightNumber)

	storeCtx, cancel := database.OperationContext(ctx)
	defer cancel()

	seed := SeedLaunch
	seed.Customers = append([]string(nil), SeedLaunch.Customers...)

	if err := s.store.Upsert(storeCtx, seed); err != nil {
		return errors.WrapStore("failed to seed launch registry", err)
	}

	logger.Info("Launch registry seeded", "mission", seed.Mission)
	return nil
}

// List returns every persisted launch, ascending by flight number. Splitting
// upcoming from past launches is left to the caller.
func (s *Service) List(ctx context.Context) ([]Launch, error) {
	storeCtx, cancel := database.OperationContext(ctx)
	defer cancel()

	launches, err := s.store.GetAll(storeCtx)
	if err != nil {
		return nil, errors.WrapStore("failed to load launches", err)
	}
	return launches, nil
}

// Schedule validates the request, allocates the next flight number and
// persists the launch. Validation failures never reach the store.
func (s *Service) Schedule(ctx context.Context, req ScheduleRequest) (*Launch, error) {
	logger := s.logger.With("component", "launch_service", "operation", "schedule", "mission", req.Mission)

	launchDate, err := validateRequest(req)
	if err != nil {
		return nil, err
	}

	candidate := Launch{
		Mission:    req.Mission,
		Rocket:     req.Rocket,
		LaunchDate: launchDate,
		Target:     req.Target,
		Customers:  append([]string(nil), DefaultCustomers...),
		Upcoming:   true,
		Success:    true,
	}

	storeCtx, cancel := database.OperationContext(ctx)
	defer cancel()

	for attempt := 1; ; attempt++ {
		created, err := s.store.InsertNext(storeCtx, candidate)
		if err == nil {
			logger.Info("Launch scheduled", "flight_number", created.FlightNumber, "target", created.Target)
			return created, nil
		}

		if stderrors.Is(err, ErrFlightNumberTaken) && attempt < allocationAttempts {
			logger.Debug("Retrying flight number allocation", "attempt", attempt)
			continue
		}

		return nil, errors.WrapStore("failed to schedule launch", err)
	}
}

// Abort marks the launch as failed and no longer upcoming. A launch that was
// already aborted can be aborted again; the update simply re-applies the
// terminal values.
func (s *Service) Abort(ctx context.Context, flightNumber int) error {
	logger := s.logger.With("component", "launch_service", "operation", "abort", "flight_number", flightNumber)

	storeCtx, cancel := database.OperationContext(ctx)
	defer cancel()

	aborted, err := s.store.Abort(storeCtx, flightNumber)
	if err != nil {
		return errors.WrapStore("failed to abort launch", err)
	}

	if aborted {
		logger.Info("Launch aborted")
		return nil
	}

	// Zero rows updated: either the launch never existed, or it vanished
	// between the client's read and this call. Tell the two apart so the
	// client sees 404 for the former and a conflict for the latter.
	exists, err := s.store.Exists(storeCtx, flightNumber)
	if err != nil {
		return errors.WrapStore("failed to check launch existence", err)
	}
	if !exists {
		return errors.NotFoundf("launch %d not found", flightNumber)
	}
	return errors.Conflictf("launch %d was not aborted", flightNumber)
}

func validateRequest(req ScheduleRequest) (time.Time, error) {
	missing := ""
	switch {
	case req.Mission == "":
		missing = "mission"
	case req.Rocket == "":
		missing = "rocket"
	case req.LaunchDate == "":
		missing = "launchDate"
	case req.Target == "":
		missing = "target"
	}
	if missing != "" {
		return time.Time{}, errors.Validationf("missing required launch property: %s", missing)
	}

	launchDate, err := parseLaunchDate(req.LaunchDate)
	if err != nil {
		return time.Time{}, errors.WrapValidation("invalid launch date", err)
	}

	return launchDate, nil
}

// parseLaunchDate accepts RFC 3339 timestamps and bare dates.
func parseLaunchDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
