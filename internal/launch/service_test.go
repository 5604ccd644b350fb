package launch

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"mission-control-server/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore mimics the Postgres repository's allocation and abort semantics
// over an in-memory map.
type fakeStore struct {
	launches    map[int]Launch
	insertCalls int
	failInserts int // number of leading InsertNext calls to fail with ErrFlightNumberTaken
	storeErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{launches: map[int]Launch{}}
}

func (f *fakeStore) GetAll(ctx context.Context) ([]Launch, error) {
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	all := make([]Launch, 0, len(f.launches))
	for _, l := range f.launches {
		all = append(all, l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FlightNumber < all[j].FlightNumber })
	return all, nil
}

func (f *fakeStore) InsertNext(ctx context.Context, launch Launch) (*Launch, error) {
	f.insertCalls++
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	if f.insertCalls <= f.failInserts {
		return nil, ErrFlightNumberTaken
	}

	next := FlightNumberBaseline
	for n := range f.launches {
		if n > next {
			next = n
		}
	}
	launch.FlightNumber = next + 1
	f.launches[launch.FlightNumber] = launch
	return &launch, nil
}

func (f *fakeStore) Upsert(ctx context.Context, launch Launch) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.launches[launch.FlightNumber] = launch
	return nil
}

func (f *fakeStore) Abort(ctx context.Context, flightNumber int) (bool, error) {
	if f.storeErr != nil {
		return false, f.storeErr
	}
	l, ok := f.launches[flightNumber]
	if !ok {
		return false, nil
	}
	l.Upcoming = false
	l.Success = false
	f.launches[flightNumber] = l
	return true, nil
}

func (f *fakeStore) Exists(ctx context.Context, flightNumber int) (bool, error) {
	if f.storeErr != nil {
		return false, f.storeErr
	}
	_, ok := f.launches[flightNumber]
	return ok, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validRequest() ScheduleRequest {
	return ScheduleRequest{
		Mission:    "Kepler Exploration X",
		Rocket:     "Explorer IS1",
		LaunchDate: "2030-12-27",
		Target:     "Kepler-442 b",
	}
}

func TestScheduleAllocatesFrom101(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, testLogger())

	created, err := service.Schedule(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 101, created.FlightNumber)
	assert.Equal(t, "Kepler Exploration X", created.Mission)
	assert.Equal(t, "Explorer IS1", created.Rocket)
	assert.Equal(t, "Kepler-442 b", created.Target)
	assert.Equal(t, []string{"Zero to Mastery", "NASA"}, created.Customers)
	assert.True(t, created.Upcoming)
	assert.True(t, created.Success)
	assert.Equal(t, time.Date(2030, 12, 27, 0, 0, 0, 0, time.UTC), created.LaunchDate)
}

func TestScheduleAllocationIsMonotonic(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, testLogger())

	var numbers []int
	for i := 0; i < 5; i++ {
		created, err := service.Schedule(context.Background(), validRequest())
		require.NoError(t, err)
		numbers = append(numbers, created.FlightNumber)
	}

	assert.Equal(t, []int{101, 102, 103, 104, 105}, numbers)
}

func TestScheduleRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScheduleRequest)
		field  string
	}{
		{"missing mission", func(r *ScheduleRequest) { r.Mission = "" }, "mission"},
		{"missing rocket", func(r *ScheduleRequest) { r.Rocket = "" }, "rocket"},
		{"missing launch date", func(r *ScheduleRequest) { r.LaunchDate = "" }, "launchDate"},
		{"missing target", func(r *ScheduleRequest) { r.Target = "" }, "target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			service := NewService(store, testLogger())

			req := validRequest()
			tt.mutate(&req)

			_, err := service.Schedule(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
			assert.Contains(t, err.Error(), tt.field)
			assert.Zero(t, store.insertCalls, "validation failures must not reach the store")
		})
	}
}

func TestScheduleRejectsInvalidDate(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, testLogger())

	req := validRequest()
	req.LaunchDate = "not-a-date"

	_, err := service.Schedule(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
	assert.Zero(t, store.insertCalls)
}

func TestScheduleAcceptsRFC3339Date(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, testLogger())

	req := validRequest()
	req.LaunchDate = "2030-12-27T14:30:00Z"

	created, err := service.Schedule(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 12, 27, 14, 30, 0, 0, time.UTC), created.LaunchDate)
}

func TestScheduleRetriesFlightNumberCollision(t *testing.T) {
	store := newFakeStore()
	store.failInserts = 2
	service := NewService(store, testLogger())

	created, err := service.Schedule(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, 101, created.FlightNumber)
	assert.Equal(t, 3, store.insertCalls)
}

func TestScheduleGivesUpAfterBoundedRetries(t *testing.T) {
	store := newFakeStore()
	store.failInserts = 10
	service := NewService(store, testLogger())

	_, err := service.Schedule(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, allocationAttempts, store.insertCalls)
	assert.True(t, stderrors.Is(err, ErrFlightNumberTaken))
}

func TestAbortFlipsTerminalFlagsOnly(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, testLogger())

	created, err := service.Schedule(context.Background(), validRequest())
	require.NoError(t, err)

	require.NoError(t, service.Abort(context.Background(), created.FlightNumber))

	aborted := store.launches[created.FlightNumber]
	assert.False(t, aborted.Upcoming)
	assert.False(t, aborted.Success)
	assert.Equal(t, created.Mission, aborted.Mission)
	assert.Equal(t, created.Rocket, aborted.Rocket)
	assert.Equal(t, created.Target, aborted.Target)
	assert.Equal(t, created.Customers, aborted.Customers)
	assert.Equal(t, created.LaunchDate, aborted.LaunchDate)
}

func TestAbortIsRepeatable(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, testLogger())

	created, err := service.Schedule(context.Background(), validRequest())
	require.NoError(t, err)

	require.NoError(t, service.Abort(context.Background(), created.FlightNumber))
	require.NoError(t, service.Abort(context.Background(), created.FlightNumber))
}

// racedStore simulates a launch that vanishes between the abort update and
// nothing: the update matches no row even though the launch still reads as
// existing.
type racedStore struct {
	*fakeStore
}

func (r *racedStore) Abort(ctx context.Context, flightNumber int) (bool, error) {
	return false, nil
}

func TestAbortNotAppliedReportsConflict(t *testing.T) {
	inner := newFakeStore()
	service := NewService(inner, testLogger())

	created, err := service.Schedule(context.Background(), validRequest())
	require.NoError(t, err)

	raced := NewService(&racedStore{fakeStore: inner}, testLogger())

	err = raced.Abort(context.Background(), created.FlightNumber)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeConflict, errors.GetType(err))

	// The record itself is untouched by the failed abort.
	assert.True(t, inner.launches[created.FlightNumber].Upcoming)
}

func TestSeedWritesHistoricalLaunch(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, testLogger())

	require.NoError(t, service.Seed(context.Background()))

	seeded, ok := store.launches[FlightNumberBaseline]
	require.True(t, ok)
	assert.Equal(t, "Kepler Exploration X", seeded.Mission)
	assert.Equal(t, "Explorer IS1", seeded.Rocket)
	assert.Equal(t, "Kepler-442 b", seeded.Target)
	assert.Equal(t, []string{"Zero to Mastery", "NASA"}, seeded.Customers)
	assert.True(t, seeded.Upcoming)
	assert.True(t, seeded.Success)
}

func TestSeedIsIdempotent(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, testLogger())

	require.NoError(t, service.Seed(context.Background()))
	require.NoError(t, service.Seed(context.Background()))

	assert.Len(t, store.launches, 1)

	// Scheduling after seeding still allocates one past the baseline.
	created, err := service.Schedule(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, FlightNumberBaseline+1, created.FlightNumber)
}

func TestAbortUnknownFlightNumber(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, testLogger())

	err := service.Abort(context.Background(), 99999)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))
}

func TestListOrdersByFlightNumber(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, testLogger())

	for i := 0; i < 3; i++ {
		_, err := service.Schedule(context.Background(), validRequest())
		require.NoError(t, err)
	}

	launches, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, launches, 3)
	assert.Equal(t, 101, launches[0].FlightNumber)
	assert.Equal(t, 102, launches[1].FlightNumber)
	assert.Equal(t, 103, launches[2].FlightNumber)
}
