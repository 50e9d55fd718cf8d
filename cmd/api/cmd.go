package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/drought-monitor/internal/bootstrap"
	eeclient "github.com/GregMSThompson/drought-monitor/internal/client/earthengine"
	"github.com/GregMSThompson/drought-monitor/internal/config"
	"github.com/GregMSThompson/drought-monitor/internal/handlers"
	"github.com/GregMSThompson/drought-monitor/internal/middleware"
	"github.com/GregMSThompson/drought-monitor/internal/response"
	"github.com/GregMSThompson/drought-monitor/internal/router"
	"github.com/GregMSThompson/drought-monitor/internal/services"
	"github.com/GregMSThompson/drought-monitor/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// adapters
	ee := eeclient.NewAdapter(bs.EarthEngine, cfg.EEBaseURL, cfg.EEProject, bs.Metrics)

	// stores
	dstore := bs.DivisionStore(cfg)
	sstore := bs.SeriesStore(cfg)
	bstore := store.NewBoundaryStore(cfg.NationalBoundary, cfg.DivisionBoundary, cfg.DivisionNameField)

	// services
	wserv := services.NewWindowService(ee, bs.Metrics)
	rserv := services.NewRasterService(ee, bstore, cfg.EECollection, cfg.MapCacheSize, cfg.MapCacheTTL, bs.Metrics)
	sserv := services.NewSeriesService(dstore, sstore, cfg.SeriesFloorYear, bs.Metrics)
	dserv := services.NewDashboardService(wserv, rserv, sserv, cfg.EECollection, bs.Metrics)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.ReferenceSvc = dserv
	deps.MapSvc = dserv
	deps.SeriesSvc = dserv

	var auth func(http.Handler) http.Handler
	if bs.Firebase != nil {
		auth = middleware.NewMiddleware(bs.Firebase).FirebaseAuth
	}

	// router
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(deps, auth),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Warn("shutdown failed", "error", err)
		}
	}()

	bs.Log.Info("listening", "addr", srv.Addr)
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	exitOnError("server start failed", err, bs.Log)
}
