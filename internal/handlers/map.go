package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/response"
)

type mapService interface {
	MapOptions(ctx context.Context, year, month int) (dto.MapOptions, error)
	MapLayer(ctx context.Context, q dto.SelectionQuery) (dto.MapLayer, error)
	Legend(index string) (dto.Legend, error)
	Outlines(ctx context.Context) (dto.Outline, error)
}

type mapHandlers struct {
	ResponseHandler response.ResponseHandler
	MapSvc          mapService
}

func NewMapHandlers(deps *Deps) *mapHandlers {
	return &mapHandlers{
		ResponseHandler: deps.ResponseHandler,
		MapSvc:          deps.MapSvc,
	}
}

func (h *mapHandlers) MapRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/options", h.GetOptions)
	r.Get("/layer", h.GetLayer)
	r.Get("/legend", h.GetLegend)
	r.Get("/divisions", h.GetDivisionOutlines)
	return r
}

func (h *mapHandlers) GetOptions(w http.ResponseWriter, r *http.Request) {
	q, err := selectionQuery(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	opts, err := h.MapSvc.MapOptions(r.Context(), q.Year, q.Month)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, opts)
}

func (h *mapHandlers) GetLayer(w http.ResponseWriter, r *http.Request) {
	q, err := selectionQuery(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	layer, err := h.MapSvc.MapLayer(r.Context(), q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, layer)
}

func (h *mapHandlers) GetLegend(w http.ResponseWriter, r *http.Request) {
	legend, err := h.MapSvc.Legend(r.URL.Query().Get("index"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, legend)
}

func (h *mapHandlers) GetDivisionOutlines(w http.ResponseWriter, r *http.Request) {
	outline, err := h.MapSvc.Outlines(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, outline)
}
