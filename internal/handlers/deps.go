package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/drought-monitor/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	ReferenceSvc    referenceService
	MapSvc          mapService
	SeriesSvc       seriesService
}
