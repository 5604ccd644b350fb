package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"mission-control-server/internal/planet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	planets []planet.Planet
}

func (f *fakeStore) GetAll(ctx context.Context) ([]planet.Planet, error) {
	return f.planets, nil
}

func (f *fakeStore) ReplaceAll(ctx context.Context, names []string) error {
	f.planets = f.planets[:0]
	for _, name := range names {
		f.planets = append(f.planets, planet.Planet{KeplerName: name})
	}
	return nil
}

func newTestHandler(store *fakeStore) *PlanetsHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := planet.NewService(store, nil, logger)
	return NewPlanetsHandler(service)
}

func TestGetPlanets(t *testing.T) {
	handler := newTestHandler(&fakeStore{planets: []planet.Planet{
		{KeplerName: "Kepler-442 b"},
		{KeplerName: "Kepler-62 f"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/planets", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"keplerName":"Kepler-442 b"},{"keplerName":"Kepler-62 f"}]`, rec.Body.String())
}

func TestGetPlanetsEmpty(t *testing.T) {
	handler := newTestHandler(&fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/planets", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetPlanetsMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(&fakeStore{})

	req := httptest.NewRequest(http.MethodPost, "/planets", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
