// Command seed copies the CSV division reference table into Firestore so the
// API can run with DIVISIONSOURCE=firestore.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/GregMSThompson/drought-monitor/internal/bootstrap"
	"github.com/GregMSThompson/drought-monitor/internal/config"
	"github.com/GregMSThompson/drought-monitor/internal/store"
	"github.com/GregMSThompson/drought-monitor/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	cfg := config.New()
	src := flag.String("file", cfg.DivisionFile, "division reference CSV")
	flag.Parse()

	cfg.DivisionSource = config.SourceFirestore
	bs, err := bootstrap.RunData(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	ctx := logger.ToContext(context.Background(), bs.Log)
	divisions, err := store.NewCSVDivisionStore(*src).List(ctx)
	exitOnError("read divisions failed", err, bs.Log)

	err = store.NewFirestoreDivisionStore(bs.Firestore).Seed(ctx, divisions)
	exitOnError("seed failed", err, bs.Log)
	bs.Log.Info("divisions seeded", "count", len(divisions))
}
