package eeclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/errs"
	"github.com/GregMSThompson/drought-monitor/internal/observability"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewAdapter(srv.Client(), srv.URL, "demo", observability.NewMetricsForTesting())
}

func readExpression(t *testing.T, r *http.Request) string {
	t.Helper()
	b, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	return string(b)
}

func TestTimeStarts(t *testing.T) {
	var body string
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/projects/demo/value:compute", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body = readExpression(t, r)
		_, _ = w.Write([]byte(`{"result":[-2208988800000,1672531200000]}`))
	})

	got, err := a.TimeStarts(context.Background(), "CSIC/SPEI/2_8")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), got[0])
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), got[1])
	assert.Contains(t, body, "AggregateFeatureCollection.array")
	assert.Contains(t, body, "CSIC/SPEI/2_8")
}

func TestTimeStarts_UnexpectedResult(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"nope"}`))
	})
	_, err := a.TimeStarts(context.Background(), "CSIC/SPEI/2_8")
	var ese *errs.ExternalServiceError
	require.True(t, errors.As(err, &ese))
	assert.False(t, ese.Transient)
}

func TestCountImages(t *testing.T) {
	var body string
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		body = readExpression(t, r)
		_, _ = w.Write([]byte(`{"result":1}`))
	})

	n, err := a.CountImages(context.Background(), dto.RasterQuery{
		CollectionID: "CSIC/SPEI/2_8",
		Band:         "SPEI_06_month",
		Start:        time.Date(2015, 4, 1, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2016, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, body, `"2015-04-01"`)
	assert.Contains(t, body, `"2016-04-01"`)
	assert.Contains(t, body, "Collection.size")
}

func TestCreateMap(t *testing.T) {
	var req EarthEngineMap
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/demo/maps", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_, _ = w.Write([]byte(`{"name":"projects/demo/maps/abc123"}`))
	})

	tiles, err := a.CreateMap(context.Background(), dto.RasterQuery{
		CollectionID: "CSIC/SPEI/2_8",
		Band:         "SPEI_06_month",
		Start:        time.Date(2015, 4, 1, 0, 0, 0, 0, time.UTC),
		End:          time.Date(2016, 4, 1, 0, 0, 0, 0, time.UTC),
		Clip:         [][][][2]float64{{{{60, 24}, {65, 24}, {65, 30}, {60, 24}}}},
	}, dto.SPEIVisParams)
	require.NoError(t, err)

	assert.Equal(t, "projects/demo/maps/abc123", tiles.MapName)
	assert.Equal(t, "https://earthengine.googleapis.com/v1/projects/demo/maps/abc123/tiles/{z}/{x}/{y}", tiles.TileURL)
	require.NotNil(t, req.VisualizationOptions)
	assert.Equal(t, dto.SPEIVisParams.Palette, req.VisualizationOptions.PaletteColors)
	require.Len(t, req.VisualizationOptions.Ranges, 1)
	assert.Equal(t, -2.33, req.VisualizationOptions.Ranges[0].Min)
	assert.Equal(t, "Image.clip", req.Expression.Values["0"].FunctionInvocationValue.FunctionName)
}

func TestCreateMap_ServerErrorIsTransient(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":503,"message":"busy"}}`, http.StatusServiceUnavailable)
	})
	_, err := a.CreateMap(context.Background(), dto.RasterQuery{CollectionID: "c", Band: "b"}, dto.SPEIVisParams)
	var ese *errs.ExternalServiceError
	require.True(t, errors.As(err, &ese))
	assert.True(t, ese.Transient)
	assert.Equal(t, "earthengine", ese.Service)
}

func TestImageExpression_WithoutClip(t *testing.T) {
	expr := ImageExpression(dto.RasterQuery{CollectionID: "c", Band: "SPEI_03_month"})
	root := expr.Values[expr.Result].FunctionInvocationValue
	require.NotNil(t, root)
	assert.Equal(t, "Image.select", root.FunctionName)
	assert.Equal(t, []string{"SPEI_03_month"}, root.Arguments["bandSelectors"].ConstantValue)
	assert.Equal(t, "Collection.first", root.Arguments["input"].FunctionInvocationValue.FunctionName)
}

func TestFilterDate_Shape(t *testing.T) {
	node := FilterDate(LoadCollection("c"), "2015-04-01", "2016-04-01")
	b, err := json.Marshal(node)
	require.NoError(t, err)
	s := string(b)
	assert.True(t, strings.Contains(s, "Filter.dateRangeContains"))
	assert.True(t, strings.Contains(s, "system:time_start"))
	assert.True(t, strings.Contains(s, `"functionName":"DateRange"`))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&googleapi.Error{Code: 429}))
	assert.True(t, IsTransient(&googleapi.Error{Code: 500}))
	assert.False(t, IsTransient(&googleapi.Error{Code: 400}))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.False(t, IsTransient(errors.New("boom")))
}

func TestCreateMap_ClientErrorIsPermanent(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"Image.select: band not found"}}`))
	})
	_, err := a.CreateMap(context.Background(), dto.RasterQuery{CollectionID: "c", Band: "b"}, dto.SPEIVisParams)
	var ese *errs.ExternalServiceError
	require.True(t, errors.As(err, &ese))
	assert.False(t, ese.Transient)

	var gerr *googleapi.Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, http.StatusBadRequest, gerr.Code)
}

func TestCreateMap_EmptyNameIsUnexpected(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	_, err := a.CreateMap(context.Background(), dto.RasterQuery{CollectionID: "c", Band: "b"}, dto.SPEIVisParams)
	var ese *errs.ExternalServiceError
	require.True(t, errors.As(err, &ese))
}

func TestNewAdapter_Endpoint(t *testing.T) {
	a := NewAdapter(http.DefaultClient, "", "my-project", nil)
	assert.Equal(t, "https://earthengine.googleapis.com/v1/projects/my-project/maps", a.endpoint("maps"))

	a = NewAdapter(http.DefaultClient, "http://localhost:9000", "demo", nil)
	assert.Equal(t, "http://localhost:9000/v1/projects/demo/value:compute", a.endpoint("value:compute"))
}

func TestConstantZeroIsSent(t *testing.T) {
	b, err := json.Marshal(Constant(0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"constantValue":0}`, string(b))
}
