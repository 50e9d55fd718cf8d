package bootstrap

import (
	"context"
	"io"

	"github.com/GregMSThompson/drought-monitor/internal/config"
	"github.com/GregMSThompson/drought-monitor/internal/models"
	"github.com/GregMSThompson/drought-monitor/internal/store"
)

type DivisionSource interface {
	List(ctx context.Context) ([]models.Division, error)
}

type SeriesSource interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// DivisionStore picks the reference table backend named by DIVISIONSOURCE.
func (bs *Bootstrap) DivisionStore(cfg *config.Config) DivisionSource {
	if cfg.DivisionSource == config.SourceFirestore {
		return store.NewFirestoreDivisionStore(bs.Firestore)
	}
	return store.NewCSVDivisionStore(cfg.DivisionFile)
}

// SeriesStore picks the series file backend named by SERIESSOURCE.
func (bs *Bootstrap) SeriesStore(cfg *config.Config) SeriesSource {
	if cfg.SeriesSource == config.SourceGCS {
		return store.NewGCSSeriesStore(bs.Storage, cfg.SeriesBucket, cfg.SeriesPrefix)
	}
	return store.NewLocalSeriesStore(cfg.SeriesDir)
}
