package bootstrap

import (
	"context"
	"log/slog"
	"net/http"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/drought-monitor/internal/config"
	"github.com/GregMSThompson/drought-monitor/internal/observability"
	"github.com/GregMSThompson/drought-monitor/pkg/logger"
)

// Bootstrap holds the process-wide clients. Optional clients stay nil when
// the configuration does not call for them.
type Bootstrap struct {
	Log         *slog.Logger
	Metrics     *observability.Metrics
	EarthEngine *http.Client
	Firestore   *firestore.Client
	Storage     *storage.Client
	Firebase    *auth.Client
}

// Run opens every client the API server needs.
func Run(cfg *config.Config) (*Bootstrap, error) {
	applicationCtx := context.Background()
	bs, err := RunData(cfg)
	if err != nil {
		return bs, err
	}

	var key []byte
	if cfg.EEKeySecret != "" {
		key, err = readKey(applicationCtx, cfg)
		if err != nil {
			return bs, err
		}
	}
	bs.EarthEngine, err = InitEarthEngine(applicationCtx, key, cfg.EEServiceAccount)
	if err != nil {
		return bs, err
	}

	if cfg.AuthEnabled {
		bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
	}

	bs.Log.Info("bootstrap complete",
		"ee_project", cfg.EEProject,
		"division_source", cfg.DivisionSource,
		"series_source", cfg.SeriesSource,
		"auth", cfg.AuthEnabled)
	return bs, nil
}

// RunData opens only the clients behind the division table and series files.
func RunData(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	if err = cfg.Validate(); err != nil {
		return bs, err
	}
	bs.Metrics = observability.NewMetrics()

	if cfg.DivisionSource == config.SourceFirestore {
		bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
	}
	if cfg.SeriesSource == config.SourceGCS {
		bs.Storage, err = InitStorage(applicationCtx)
		if err != nil {
			return bs, err
		}
	}
	return bs, nil
}

func readKey(ctx context.Context, cfg *config.Config) ([]byte, error) {
	sm, err := InitSecretManager(ctx)
	if err != nil {
		return nil, err
	}
	defer sm.Close()
	return AccessSecret(ctx, sm, cfg.ProjectID, cfg.EEKeySecret)
}

// Close releases whichever clients were opened.
func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Warn("firestore close failed", "error", err)
		}
	}
	if bs.Storage != nil {
		if err := bs.Storage.Close(); err != nil {
			bs.Log.Warn("storage close failed", "error", err)
		}
	}
}
