// Command export writes one division's index series to CSV without starting
// the dashboard server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/GregMSThompson/drought-monitor/internal/bootstrap"
	"github.com/GregMSThompson/drought-monitor/internal/config"
	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/services"
	"github.com/GregMSThompson/drought-monitor/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	var q dto.SelectionQuery
	flag.StringVar(&q.Division, "division", "", "division name (default: first in the reference table)")
	flag.StringVar(&q.Index, "index", "", "index key, spei03..spei12 (default: spei03)")
	flag.IntVar(&q.From, "from", 0, "first year (default: series floor)")
	flag.IntVar(&q.To, "to", 0, "last year (default: last year in the series)")
	out := flag.String("out", ".", "output directory, or - for stdout")
	flag.Parse()

	cfg := config.New()
	bs, err := bootstrap.RunData(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	sserv := services.NewSeriesService(bs.DivisionStore(cfg), bs.SeriesStore(cfg), cfg.SeriesFloorYear, bs.Metrics)
	dserv := services.NewDashboardService(nil, nil, sserv, cfg.EECollection, bs.Metrics)

	ctx := logger.ToContext(context.Background(), bs.Log)
	file, err := dserv.Export(ctx, q)
	exitOnError("export failed", err, bs.Log)

	if *out == "-" {
		_, err = os.Stdout.Write(file.Content)
		exitOnError("write failed", err, bs.Log)
		return
	}
	path := filepath.Join(*out, file.Filename)
	err = os.WriteFile(path, file.Content, 0o644)
	exitOnError("write failed", err, bs.Log)
	bs.Log.Info("export written", "path", path, "bytes", len(file.Content))
}
