package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/response"
)

type seriesService interface {
	SeriesOptions(ctx context.Context, q dto.SelectionQuery) (dto.SeriesOptions, error)
	Chart(ctx context.Context, q dto.SelectionQuery) (dto.Chart, error)
	ChartPNG(ctx context.Context, q dto.SelectionQuery, w io.Writer) error
	Export(ctx context.Context, q dto.SelectionQuery) (*dto.ExportFile, error)
}

type seriesHandlers struct {
	ResponseHandler response.ResponseHandler
	SeriesSvc       seriesService
}

func NewSeriesHandlers(deps *Deps) *seriesHandlers {
	return &seriesHandlers{
		ResponseHandler: deps.ResponseHandler,
		SeriesSvc:       deps.SeriesSvc,
	}
}

func (h *seriesHandlers) SeriesRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/options", h.GetOptions)
	r.Get("/chart", h.GetChart)
	r.Get("/chart.png", h.GetChartPNG)
	r.Get("/export", h.GetExport)
	return r
}

func (h *seriesHandlers) GetOptions(w http.ResponseWriter, r *http.Request) {
	q, err := selectionQuery(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	opts, err := h.SeriesSvc.SeriesOptions(r.Context(), q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, opts)
}

func (h *seriesHandlers) GetChart(w http.ResponseWriter, r *http.Request) {
	q, err := selectionQuery(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	chart, err := h.SeriesSvc.Chart(r.Context(), q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, chart)
}

func (h *seriesHandlers) GetChartPNG(w http.ResponseWriter, r *http.Request) {
	q, err := selectionQuery(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	// rendered into a buffer so a failure can still produce an error response
	var buf bytes.Buffer
	if err := h.SeriesSvc.ChartPNG(r.Context(), q, &buf); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteFile(w, r, "image/png", "", buf.Bytes())
}

func (h *seriesHandlers) GetExport(w http.ResponseWriter, r *http.Request) {
	q, err := selectionQuery(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	file, err := h.SeriesSvc.Export(r.Context(), q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteFile(w, r, "text/csv; charset=utf-8", file.Filename, file.Content)
}
