package services

import (
	"context"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/errs"
	"github.com/GregMSThompson/drought-monitor/internal/models"
	"github.com/GregMSThompson/drought-monitor/internal/observability"
	"github.com/GregMSThompson/drought-monitor/pkg/helpers"
)

// --- Fakes ---

type fakeDivisions struct {
	divisions []models.Division
	err       error
}

func (f *fakeDivisions) List(_ context.Context) ([]models.Division, error) {
	return f.divisions, f.err
}

type fakeFiles struct {
	files map[string]string
}

func (f *fakeFiles) Open(_ context.Context, name string) (io.ReadCloser, error) {
	body, ok := f.files[name]
	if !ok {
		return nil, errs.NewNotFoundError("series file not found: " + name)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

const lahoreSeries = "time,spei03,spei06,spei09,spei12\n" +
	"1949-12-01,0.5,0.5,0.5,0.5\n" +
	"1950-01-01,1.2,-0.4,0,0.1\n" +
	"1950-02-01,-1.1,0.3,0.2,\n" +
	"1951-01-01,0,0.9,-0.3,0.4\n" +
	"2018-12-01,0.7,-2.1,0.6,-0.5\n"

func newTestSeries() *seriesService {
	divisions := &fakeDivisions{divisions: []models.Division{
		{Name: "Lahore", FileName: "lahore.csv"},
		{Name: "Quetta", FileName: "quetta.csv"},
		{Name: "Kalat", FileName: "kalat.csv"},
	}}
	files := &fakeFiles{files: map[string]string{
		"lahore.csv": lahoreSeries,
		"quetta.csv": "time,spei03\n2001-01-01,0.2\n",
		"kalat.csv":  "date,spei03\n2001-01-01,0.2\n",
	}}
	return NewSeriesService(divisions, files, 1950, observability.NewMetricsForTesting())
}

func obs(y int, m time.Month, v float64) models.Observation {
	return models.Observation{Time: time.Date(y, m, 1, 0, 0, 0, 0, time.UTC), SPEI03: v, SPEI06: v, SPEI09: v, SPEI12: v}
}

// --- FilterYears ---

func TestFilterYears_InclusiveAndOrdered(t *testing.T) {
	records := []models.Observation{
		obs(1948, time.December, 1), obs(1950, time.January, 2), obs(1950, time.June, 3),
		obs(1960, time.March, 4), obs(1961, time.January, 5),
	}
	got := FilterYears(records, 1950, 1960)
	require.Len(t, got, 3)
	for i, want := range []float64{2, 3, 4} {
		assert.Equal(t, want, got[i].SPEI03, "record %d", i)
	}
	for _, r := range got {
		assert.GreaterOrEqual(t, r.Time.Year(), 1950)
		assert.LessOrEqual(t, r.Time.Year(), 1960)
	}
	assert.Same(t, &records[1], &got[0], "expected a sub-slice of the input")
}

func TestFilterYears_Empty(t *testing.T) {
	records := []models.Observation{obs(1950, time.January, 1), obs(1951, time.January, 2)}
	assert.Empty(t, FilterYears(records, 1990, 2000))
	assert.Empty(t, FilterYears(records, 1951, 1950), "inverted range")
	assert.Empty(t, FilterYears(nil, 1950, 2000), "empty input")
}

func TestFilterYears_DoesNotMutateInput(t *testing.T) {
	records := []models.Observation{obs(1950, time.January, 1), obs(1951, time.January, 2), obs(1952, time.January, 3)}
	got := FilterYears(records, 1950, 1950)
	_ = append(got, obs(2000, time.January, 9))
	assert.Equal(t, 2.0, records[1].SPEI03, "appending to the filtered slice overwrote the source")
}

// --- Division and load ---

func TestDivision_DefaultAndLookup(t *testing.T) {
	svc := newTestSeries()
	ctx := helpers.TestCtx()

	d, err := svc.Division(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Lahore", d.Name)

	d, err = svc.Division(ctx, "Quetta")
	require.NoError(t, err)
	assert.Equal(t, "quetta.csv", d.FileName)

	_, err = svc.Division(ctx, "Atlantis")
	var nf *errs.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestLoadIndex_SortedSeries(t *testing.T) {
	svc := newTestSeries()
	s, err := svc.LoadIndex(helpers.TestCtx(), models.Division{Name: "Lahore", FileName: "lahore.csv"}, models.SPEI12)
	require.NoError(t, err)
	require.Len(t, s.Records, 5)
	assert.True(t, math.IsNaN(s.Records[2].SPEI12), "expected missing reading to be NaN, got %v", s.Records[2].SPEI12)
}

func TestLoadIndex_MissingColumn(t *testing.T) {
	svc := newTestSeries()
	_, err := svc.LoadIndex(helpers.TestCtx(), models.Division{Name: "Quetta", FileName: "quetta.csv"}, models.SPEI12)
	var mc *errs.MissingColumnError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, "spei12", mc.Column)
	assert.Equal(t, "Quetta", mc.Division)
}

func TestLoad_MissingTimeColumn(t *testing.T) {
	svc := newTestSeries()
	_, err := svc.Load(helpers.TestCtx(), models.Division{Name: "Kalat", FileName: "kalat.csv"})
	var dse *errs.DataSourceError
	assert.ErrorAs(t, err, &dse)
}

func TestLoad_MissingFile(t *testing.T) {
	svc := newTestSeries()
	_, err := svc.Load(helpers.TestCtx(), models.Division{Name: "Gwadar", FileName: "gwadar.csv"})
	var nf *errs.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

// --- Options ---

func TestOptions_FloorYearNotFirstRecord(t *testing.T) {
	svc := newTestSeries()
	s, err := svc.LoadIndex(helpers.TestCtx(), models.Division{Name: "Lahore", FileName: "lahore.csv"}, models.SPEI03)
	require.NoError(t, err)
	opts, err := svc.Options(s)
	require.NoError(t, err)
	assert.Equal(t, dto.SeriesOptions{Division: "Lahore", Min: 1950, Max: 2018, From: 1950, To: 2018}, opts)
}

func TestOptions_EmptySeries(t *testing.T) {
	svc := newTestSeries()
	_, err := svc.Options(&models.Series{Division: "Lahore"})
	var nf *errs.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestResolveRange(t *testing.T) {
	opts := dto.SeriesOptions{Min: 1950, Max: 2018, From: 1950, To: 2018}

	from, to, err := ResolveRange(opts, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, [2]int{1950, 2018}, [2]int{from, to})

	from, to, err = ResolveRange(opts, 1990, 0)
	require.NoError(t, err)
	assert.Equal(t, [2]int{1990, 2018}, [2]int{from, to})

	_, _, err = ResolveRange(opts, 2000, 1990)
	var ve *errs.ValidationError
	assert.ErrorAs(t, err, &ve, "inverted range")
}
