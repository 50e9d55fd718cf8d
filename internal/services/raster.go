package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/errs"
	"github.com/GregMSThompson/drought-monitor/internal/models"
	"github.com/GregMSThompson/drought-monitor/internal/observability"
	"github.com/GregMSThompson/drought-monitor/pkg/logger"
)

const (
	filterDateLayout = "2006-01-02"

	// DivisionBoundsLayer names the outline overlay in the layer control.
	DivisionBoundsLayer = "Division Bounds"
)

type rasterSource interface {
	CountImages(ctx context.Context, q dto.RasterQuery) (int, error)
	CreateMap(ctx context.Context, q dto.RasterQuery, vis dto.VisParams) (dto.MapTiles, error)
}

type boundarySource interface {
	National(ctx context.Context) ([][][][2]float64, error)
	DivisionOutlines(ctx context.Context) (*dto.FeatureCollection, error)
}

type rasterService struct {
	source       rasterSource
	boundaries   boundarySource
	collectionID string
	maps         *expirable.LRU[string, dto.MapTiles]
	metrics      *observability.Metrics
}

func NewRasterService(source rasterSource, boundaries boundarySource, collectionID string, cacheSize int, ttl time.Duration, metrics *observability.Metrics) *rasterService {
	return &rasterService{
		source:       source,
		boundaries:   boundaries,
		collectionID: collectionID,
		maps:         expirable.NewLRU[string, dto.MapTiles](cacheSize, nil, ttl),
		metrics:      metrics,
	}
}

// FilterWindow is the half-open [year-month-01, (year+1)-month-01) range used
// to pick the map image.
func FilterWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

func (s *rasterService) Query(ctx context.Context, idx models.DroughtIndex, year, month int) (dto.RasterQuery, error) {
	if month < 1 || month > 12 {
		return dto.RasterQuery{}, errs.NewValidationError(fmt.Sprintf("invalid month %d", month))
	}
	clip, err := s.boundaries.National(ctx)
	if err != nil {
		return dto.RasterQuery{}, err
	}
	start, end := FilterWindow(year, month)
	return dto.RasterQuery{
		CollectionID: s.collectionID,
		Band:         idx.Band,
		Start:        start,
		End:          end,
		Clip:         clip,
	}, nil
}

// Layer selects the first image in the filter window for the index band, clipped
// to the national boundary, and returns its tile layer.
func (s *rasterService) Layer(ctx context.Context, idx models.DroughtIndex, year, month int) (dto.MapLayer, error) {
	q, err := s.Query(ctx, idx, year, month)
	if err != nil {
		return dto.MapLayer{}, err
	}
	layer := dto.MapLayer{
		Name:        idx.Band,
		Band:        idx.Band,
		Year:        year,
		Month:       month,
		FilterStart: q.Start.Format(filterDateLayout),
		FilterEnd:   q.End.Format(filterDateLayout),
		Vis:         dto.SPEIVisParams,
		Center:      dto.PakistanCenter,
	}

	key := fmt.Sprintf("%s|%s|%s", s.collectionID, idx.Band, layer.FilterStart)
	if tiles, ok := s.maps.Get(key); ok {
		s.count("hit")
		layer.TileURL = tiles.TileURL
		return layer, nil
	}
	s.count("miss")

	n, err := s.source.CountImages(ctx, q)
	if err != nil {
		return dto.MapLayer{}, err
	}
	if n == 0 {
		return dto.MapLayer{}, errs.NewNoImageError(idx.Band, layer.FilterStart, layer.FilterEnd)
	}

	tiles, err := s.source.CreateMap(ctx, q, dto.SPEIVisParams)
	if err != nil {
		return dto.MapLayer{}, err
	}
	s.maps.Add(key, tiles)
	logger.FromContext(ctx).Debug("map created", "band", idx.Band, "start", layer.FilterStart, "map", tiles.MapName)

	layer.TileURL = tiles.TileURL
	return layer, nil
}

func (s *rasterService) Legend(idx models.DroughtIndex) dto.Legend {
	return dto.Legend{Title: idx.Band, Vis: dto.SPEIVisParams}
}

func (s *rasterService) Outlines(ctx context.Context) (dto.Outline, error) {
	fc, err := s.boundaries.DivisionOutlines(ctx)
	if err != nil {
		return dto.Outline{}, err
	}
	return dto.Outline{Name: DivisionBoundsLayer, Style: dto.OutlineStyle, Data: fc}, nil
}

func (s *rasterService) count(result string) {
	if s.metrics != nil {
		s.metrics.MapCache.WithLabelValues(result).Inc()
	}
}
