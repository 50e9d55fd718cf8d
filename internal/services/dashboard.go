package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/errs"
	"github.com/GregMSThompson/drought-monitor/internal/models"
	"github.com/GregMSThompson/drought-monitor/internal/observability"
	"github.com/GregMSThompson/drought-monitor/pkg/logger"
)

// dashboardWindows resolves the remote dataset window.
type dashboardWindows interface {
	Window(ctx context.Context, collectionID string) (models.DatasetWindow, error)
}

// dashboardRaster builds map layers and overlays.
type dashboardRaster interface {
	Layer(ctx context.Context, idx models.DroughtIndex, year, month int) (dto.MapLayer, error)
	Legend(idx models.DroughtIndex) dto.Legend
	Outlines(ctx context.Context) (dto.Outline, error)
}

// dashboardSeries reads the division reference table and series files.
type dashboardSeries interface {
	Divisions(ctx context.Context) ([]models.Division, error)
	Division(ctx context.Context, name string) (models.Division, error)
	LoadIndex(ctx context.Context, div models.Division, key models.IndexKey) (*models.Series, error)
	Options(series *models.Series) (dto.SeriesOptions, error)
}

type dashboardService struct {
	windows      dashboardWindows
	raster       dashboardRaster
	series       dashboardSeries
	collectionID string
	metrics      *observability.Metrics
}

func NewDashboardService(windows dashboardWindows, raster dashboardRaster, series dashboardSeries, collectionID string, metrics *observability.Metrics) *dashboardService {
	return &dashboardService{
		windows:      windows,
		raster:       raster,
		series:       series,
		collectionID: collectionID,
		metrics:      metrics,
	}
}

// seriesView is a loaded series narrowed to the selected year range.
type seriesView struct {
	index    models.DroughtIndex
	division models.Division
	from     int
	to       int
	lastYear int
	records  []models.Observation
}

// --- Public service methods ---

func (s *dashboardService) Indices() []models.DroughtIndex {
	return models.DroughtIndices
}

func (s *dashboardService) Divisions(ctx context.Context) ([]models.Division, error) {
	return s.series.Divisions(ctx)
}

// Selection resolves every control, filling in the defaults the dashboard
// shows before the user has chosen anything.
func (s *dashboardService) Selection(ctx context.Context, q dto.SelectionQuery) (dto.Selection, error) {
	idx, err := ResolveIndex(q.Index)
	if err != nil {
		return dto.Selection{}, err
	}
	w, err := s.windows.Window(ctx, s.collectionID)
	if err != nil {
		return dto.Selection{}, err
	}
	year, month, err := ResolveMapDate(w, q.Year, q.Month)
	if err != nil {
		return dto.Selection{}, err
	}
	view, err := s.seriesView(ctx, q)
	if err != nil {
		return dto.Selection{}, err
	}
	return dto.Selection{
		Index:    idx,
		Division: view.division,
		Year:     year,
		Month:    month,
		From:     view.from,
		To:       view.to,
	}, nil
}

func (s *dashboardService) MapOptions(ctx context.Context, year, month int) (dto.MapOptions, error) {
	w, err := s.windows.Window(ctx, s.collectionID)
	if err != nil {
		return dto.MapOptions{}, err
	}
	year, month, err = ResolveMapDate(w, year, month)
	if err != nil {
		return dto.MapOptions{}, err
	}
	return dto.MapOptions{
		CollectionID: w.CollectionID,
		Start:        w.Start,
		End:          w.End,
		Years:        YearOptions(w),
		Year:         year,
		Months:       MonthOptions(w, year),
		Month:        month,
	}, nil
}

func (s *dashboardService) MapLayer(ctx context.Context, q dto.SelectionQuery) (dto.MapLayer, error) {
	idx, err := ResolveIndex(q.Index)
	if err != nil {
		return dto.MapLayer{}, err
	}
	w, err := s.windows.Window(ctx, s.collectionID)
	if err != nil {
		return dto.MapLayer{}, err
	}
	year, month, err := ResolveMapDate(w, q.Year, q.Month)
	if err != nil {
		return dto.MapLayer{}, err
	}
	logger.FromContext(ctx).Debug("resolving map layer", "index", idx.Key, "year", year, "month", month)
	return s.raster.Layer(ctx, idx, year, month)
}

func (s *dashboardService) Legend(index string) (dto.Legend, error) {
	idx, err := ResolveIndex(index)
	if err != nil {
		return dto.Legend{}, err
	}
	return s.raster.Legend(idx), nil
}

func (s *dashboardService) Outlines(ctx context.Context) (dto.Outline, error) {
	return s.raster.Outlines(ctx)
}

func (s *dashboardService) SeriesOptions(ctx context.Context, q dto.SelectionQuery) (dto.SeriesOptions, error) {
	idx, err := ResolveIndex(q.Index)
	if err != nil {
		return dto.SeriesOptions{}, err
	}
	div, err := s.series.Division(ctx, q.Division)
	if err != nil {
		return dto.SeriesOptions{}, err
	}
	series, err := s.series.LoadIndex(ctx, div, idx.Key)
	if err != nil {
		return dto.SeriesOptions{}, err
	}
	return s.series.Options(series)
}

func (s *dashboardService) Chart(ctx context.Context, q dto.SelectionQuery) (dto.Chart, error) {
	view, err := s.seriesView(ctx, q)
	if err != nil {
		return dto.Chart{}, err
	}
	return BuildChart(view.division.Name, view.index.Key, view.from, view.to, view.records), nil
}

func (s *dashboardService) ChartPNG(ctx context.Context, q dto.SelectionQuery, w io.Writer) error {
	view, err := s.seriesView(ctx, q)
	if err != nil {
		return err
	}
	c := BuildChart(view.division.Name, view.index.Key, view.from, view.to, view.records)
	if err := RenderPNG(w, c, view.records, view.index.Key); err != nil {
		if errors.Is(err, errEmptyChart) {
			return errs.NewNotFoundError(err.Error())
		}
		return errs.NewDataSourceError("render", "failed to render chart", err)
	}
	return nil
}

func (s *dashboardService) Export(ctx context.Context, q dto.SelectionQuery) (*dto.ExportFile, error) {
	view, err := s.seriesView(ctx, q)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := ExportCSV(&buf, view.records, view.index.Key); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.Exports.Inc()
	}
	return &dto.ExportFile{
		Filename: ExportFilename(view.division.Name, view.index.Key, view.from, view.lastYear),
		Content:  buf.Bytes(),
	}, nil
}

// --- Helpers ---

// ResolveIndex maps an index key to its band; empty selects the first option.
func ResolveIndex(key string) (models.DroughtIndex, error) {
	if strings.TrimSpace(key) == "" {
		return models.DroughtIndices[0], nil
	}
	idx, ok := models.LookupIndex(key)
	if !ok {
		return models.DroughtIndex{}, errs.NewValidationError(fmt.Sprintf("unknown drought index %q", key))
	}
	return idx, nil
}

func (s *dashboardService) seriesView(ctx context.Context, q dto.SelectionQuery) (seriesView, error) {
	idx, err := ResolveIndex(q.Index)
	if err != nil {
		return seriesView{}, err
	}
	div, err := s.series.Division(ctx, q.Division)
	if err != nil {
		return seriesView{}, err
	}
	series, err := s.series.LoadIndex(ctx, div, idx.Key)
	if err != nil {
		return seriesView{}, err
	}
	opts, err := s.series.Options(series)
	if err != nil {
		return seriesView{}, err
	}
	from, to, err := ResolveRange(opts, q.From, q.To)
	if err != nil {
		return seriesView{}, err
	}
	return seriesView{
		index:    idx,
		division: div,
		from:     from,
		to:       to,
		lastYear: opts.Max,
		records:  FilterYears(series.Records, from, to),
	}, nil
}
