package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/errs"
	"github.com/GregMSThompson/drought-monitor/internal/handlers"
	"github.com/GregMSThompson/drought-monitor/internal/models"
	"github.com/GregMSThompson/drought-monitor/internal/response"
	"github.com/GregMSThompson/drought-monitor/pkg/helpers"
)

type stubDashboard struct{}

func (stubDashboard) Indices() []models.DroughtIndex { return models.DroughtIndices }

func (stubDashboard) Divisions(context.Context) ([]models.Division, error) {
	return []models.Division{{Name: "Lahore", FileName: "lahore.csv"}}, nil
}

func (stubDashboard) Selection(context.Context, dto.SelectionQuery) (dto.Selection, error) {
	return dto.Selection{}, nil
}

func (stubDashboard) MapOptions(context.Context, int, int) (dto.MapOptions, error) {
	return dto.MapOptions{Years: []int{2020}}, nil
}

func (stubDashboard) MapLayer(context.Context, dto.SelectionQuery) (dto.MapLayer, error) {
	return dto.MapLayer{}, errs.NewNoImageError("SPEI_03_month", "2030-01-01", "2031-01-01")
}

func (stubDashboard) Legend(string) (dto.Legend, error) { return dto.Legend{}, nil }

func (stubDashboard) Outlines(context.Context) (dto.Outline, error) { return dto.Outline{}, nil }

func (stubDashboard) SeriesOptions(context.Context, dto.SelectionQuery) (dto.SeriesOptions, error) {
	return dto.SeriesOptions{}, nil
}

func (stubDashboard) Chart(context.Context, dto.SelectionQuery) (dto.Chart, error) {
	return dto.Chart{}, errs.NewMissingColumnError("Quetta", "spei12")
}

func (stubDashboard) ChartPNG(context.Context, dto.SelectionQuery, io.Writer) error { return nil }

func (stubDashboard) Export(context.Context, dto.SelectionQuery) (*dto.ExportFile, error) {
	return &dto.ExportFile{Filename: "LAHORE_SPEI03_1950_2018.csv", Content: []byte("time,spei03\n")}, nil
}

func newTestRouter(auth func(http.Handler) http.Handler) http.Handler {
	log := helpers.TestLogger()
	svc := stubDashboard{}
	deps := &handlers.Deps{
		Log:             log,
		ResponseHandler: response.New(log),
		ReferenceSvc:    svc,
		MapSvc:          svc,
		SeriesSvc:       svc,
	}
	return NewRouter(deps, auth)
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestRouter_Health(t *testing.T) {
	rr := get(newTestRouter(nil), "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_ServesDashboardPage(t *testing.T) {
	rr := get(newTestRouter(nil), "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Pakistan Drought Monitor")
}

func TestRouter_Divisions(t *testing.T) {
	rr := get(newTestRouter(nil), "/api/divisions")
	require.Equal(t, http.StatusOK, rr.Code)

	var env struct {
		Success bool              `json:"success"`
		Data    []models.Division `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	assert.True(t, env.Success)
	assert.Equal(t, "Lahore", env.Data[0].Name)
}

func TestRouter_ErrorMapping(t *testing.T) {
	h := newTestRouter(nil)
	assert.Equal(t, http.StatusNotFound, get(h, "/api/map/layer?year=2030&month=1").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, get(h, "/api/series/chart?division=Quetta&index=spei12").Code)
	assert.Equal(t, http.StatusBadRequest, get(h, "/api/map/layer?year=later").Code)
}

func TestRouter_Export(t *testing.T) {
	rr := get(newTestRouter(nil), "/api/series/export?division=Lahore")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "LAHORE_SPEI03_1950_2018.csv")
}

func TestRouter_AuthWrapsAPIOnly(t *testing.T) {
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	h := newTestRouter(deny)
	assert.Equal(t, http.StatusUnauthorized, get(h, "/api/indices").Code)
	assert.Equal(t, http.StatusOK, get(h, "/healthz").Code)
}
