package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/GregMSThompson/drought-monitor/internal/csvcodec"
	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/errs"
	"github.com/GregMSThompson/drought-monitor/internal/models"
	"github.com/GregMSThompson/drought-monitor/internal/observability"
	"github.com/GregMSThompson/drought-monitor/pkg/logger"
)

// divisionSource is the reference table of selectable divisions.
type divisionSource interface {
	List(ctx context.Context) ([]models.Division, error)
}

// seriesSource opens a division series file by its reference-table file name.
type seriesSource interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

type seriesService struct {
	divisions divisionSource
	files     seriesSource
	floorYear int
	metrics   *observability.Metrics
}

func NewSeriesService(divisions divisionSource, files seriesSource, floorYear int, metrics *observability.Metrics) *seriesService {
	return &seriesService{
		divisions: divisions,
		files:     files,
		floorYear: floorYear,
		metrics:   metrics,
	}
}

func (s *seriesService) Divisions(ctx context.Context) ([]models.Division, error) {
	return s.divisions.List(ctx)
}

// Division looks a division up by name; an empty name selects the first row.
func (s *seriesService) Division(ctx context.Context, name string) (models.Division, error) {
	divisions, err := s.divisions.List(ctx)
	if err != nil {
		return models.Division{}, err
	}
	if len(divisions) == 0 {
		return models.Division{}, errs.NewNotFoundError("no divisions configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return divisions[0], nil
	}
	for _, d := range divisions {
		if d.Name == name {
			return d, nil
		}
	}
	return models.Division{}, errs.NewNotFoundError(fmt.Sprintf("division %q not found", name))
}

// Load reads and parses the series file of a division.
func (s *seriesService) Load(ctx context.Context, div models.Division) (*models.Series, error) {
	rc, err := s.files.Open(ctx, div.FileName)
	if err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			s.count("not_found")
		} else {
			s.count("error")
		}
		return nil, err
	}
	defer rc.Close()

	series, err := csvcodec.ParseSeries(div.Name, rc)
	if err != nil {
		s.count("error")
		return nil, errs.NewDataSourceError("parse", fmt.Sprintf("failed to parse %s", div.FileName), err)
	}
	s.count("success")
	logger.FromContext(ctx).Debug("series loaded", "division", div.Name, "records", len(series.Records))
	return series, nil
}

// LoadIndex loads a division series and checks it carries the index column.
func (s *seriesService) LoadIndex(ctx context.Context, div models.Division, key models.IndexKey) (*models.Series, error) {
	series, err := s.Load(ctx, div)
	if err != nil {
		return nil, err
	}
	if !series.HasColumn(key) {
		s.count("missing_column")
		return nil, errs.NewMissingColumnError(div.Name, string(key))
	}
	return series, nil
}

// Options returns the year-range slider bounds: the configured floor year up
// to the last year in the series, both selected by default.
func (s *seriesService) Options(series *models.Series) (dto.SeriesOptions, error) {
	_, last, ok := series.YearSpan()
	if !ok {
		return dto.SeriesOptions{}, errs.NewNotFoundError(fmt.Sprintf("series for %q is empty", series.Division))
	}
	return dto.SeriesOptions{
		Division: series.Division,
		Min:      s.floorYear,
		Max:      last,
		From:     s.floorYear,
		To:       last,
	}, nil
}

// ResolveRange fills unset bounds from the slider defaults and validates order.
func ResolveRange(opts dto.SeriesOptions, from, to int) (int, int, error) {
	if from == 0 {
		from = opts.From
	}
	if to == 0 {
		to = opts.To
	}
	if from > to {
		return 0, 0, errs.NewValidationError(fmt.Sprintf("from %d is after to %d", from, to))
	}
	return from, to, nil
}

// FilterYears returns the records whose calendar year is in [lo, hi]. Records
// must be sorted by time; the result is a sub-slice of the input.
func FilterYears(records []models.Observation, lo, hi int) []models.Observation {
	start := sort.Search(len(records), func(i int) bool {
		return records[i].Time.Year() >= lo
	})
	end := sort.Search(len(records), func(i int) bool {
		return records[i].Time.Year() > hi
	})
	if start >= end {
		return records[:0:0]
	}
	return records[start:end:end]
}

func (s *seriesService) count(outcome string) {
	if s.metrics != nil {
		s.metrics.SeriesLoads.WithLabelValues(outcome).Inc()
	}
}
