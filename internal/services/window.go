package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/GregMSThompson/drought-monitor/internal/errs"
	"github.com/GregMSThompson/drought-monitor/internal/models"
	"github.com/GregMSThompson/drought-monitor/internal/observability"
	"github.com/GregMSThompson/drought-monitor/pkg/logger"
)

// timestampSource lists the system:time_start values of a remote collection.
type timestampSource interface {
	TimeStarts(ctx context.Context, collectionID string) ([]time.Time, error)
}

// windowService memoizes dataset windows per collection id for the life of the
// process. Concurrent first lookups share one remote call; failures are not kept.
type windowService struct {
	source  timestampSource
	metrics *observability.Metrics

	mu      sync.RWMutex
	windows map[string]models.DatasetWindow
	group   singleflight.Group
}

func NewWindowService(source timestampSource, metrics *observability.Metrics) *windowService {
	return &windowService{
		source:  source,
		metrics: metrics,
		windows: make(map[string]models.DatasetWindow),
	}
}

func (s *windowService) Window(ctx context.Context, collectionID string) (models.DatasetWindow, error) {
	s.mu.RLock()
	w, ok := s.windows[collectionID]
	s.mu.RUnlock()
	if ok {
		s.count("hit")
		return w, nil
	}
	s.count("miss")

	// The shared fetch outlives any one caller; each caller still stops
	// waiting when its own context ends.
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(collectionID, func() (any, error) {
		s.mu.RLock()
		w, ok := s.windows[collectionID]
		s.mu.RUnlock()
		if ok {
			return w, nil
		}

		log := logger.FromContext(fetchCtx)
		log.Debug("fetching dataset window", "collection", collectionID)
		starts, err := s.source.TimeStarts(fetchCtx, collectionID)
		if err != nil {
			return models.DatasetWindow{}, err
		}
		if len(starts) == 0 {
			return models.DatasetWindow{}, errs.NewExternalServiceError("earthengine", "collection has no images", false,
				fmt.Errorf("empty time index for %s", collectionID))
		}
		w = models.DatasetWindow{
			CollectionID: collectionID,
			Start:        starts[0],
			End:          starts[len(starts)-1],
		}

		s.mu.Lock()
		s.windows[collectionID] = w
		s.mu.Unlock()
		log.Info("dataset window cached", "collection", collectionID, "start", w.Start, "end", w.End)
		return w, nil
	})

	select {
	case <-ctx.Done():
		return models.DatasetWindow{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.DatasetWindow{}, res.Err
		}
		return res.Val.(models.DatasetWindow), nil
	}
}

func (s *windowService) count(result string) {
	if s.metrics != nil {
		s.metrics.WindowCache.WithLabelValues(result).Inc()
	}
}

// YearOptions lists every calendar year touched by the window.
func YearOptions(w models.DatasetWindow) []int {
	first, last := w.Start.Year(), w.End.Year()
	if last < first {
		return []int{}
	}
	years := make([]int, 0, last-first+1)
	for y := first; y <= last; y++ {
		years = append(years, y)
	}
	return years
}

// MonthOptions lists the months of year that fall inside the window. Both the
// start and end truncations apply when the window sits in a single year.
func MonthOptions(w models.DatasetWindow, year int) []int {
	if year < w.Start.Year() || year > w.End.Year() {
		return []int{}
	}
	lo, hi := 1, 12
	if year == w.Start.Year() {
		lo = int(w.Start.Month())
	}
	if year == w.End.Year() {
		hi = int(w.End.Month())
	}
	months := make([]int, 0, 12)
	for m := lo; m <= hi; m++ {
		months = append(months, m)
	}
	return months
}

// ResolveMapDate applies slider defaults (first year, first valid month) and
// checks the choice against the window.
func ResolveMapDate(w models.DatasetWindow, year, month int) (int, int, error) {
	years := YearOptions(w)
	if len(years) == 0 {
		return 0, 0, errs.NewValidationError("dataset window is empty")
	}
	if year == 0 {
		year = years[0]
	}
	if year < years[0] || year > years[len(years)-1] {
		return 0, 0, errs.NewValidationError(fmt.Sprintf("year %d outside %d-%d", year, years[0], years[len(years)-1]))
	}
	months := MonthOptions(w, year)
	if len(months) == 0 {
		return 0, 0, errs.NewValidationError(fmt.Sprintf("no months available for %d", year))
	}
	if month == 0 {
		month = months[0]
	}
	if month < months[0] || month > months[len(months)-1] {
		return 0, 0, errs.NewValidationError(fmt.Sprintf("month %d not available for %d", month, year))
	}
	return year, month, nil
}
