package handlers

import (
	"context"
	"net/http"

	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/models"
	"github.com/GregMSThompson/drought-monitor/internal/response"
)

type referenceService interface {
	Indices() []models.DroughtIndex
	Divisions(ctx context.Context) ([]models.Division, error)
	Selection(ctx context.Context, q dto.SelectionQuery) (dto.Selection, error)
}

type referenceHandlers struct {
	ResponseHandler response.ResponseHandler
	ReferenceSvc    referenceService
}

func NewReferenceHandlers(deps *Deps) *referenceHandlers {
	return &referenceHandlers{
		ResponseHandler: deps.ResponseHandler,
		ReferenceSvc:    deps.ReferenceSvc,
	}
}

func (h *referenceHandlers) GetIndices(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.ReferenceSvc.Indices())
}

func (h *referenceHandlers) GetDivisions(w http.ResponseWriter, r *http.Request) {
	divisions, err := h.ReferenceSvc.Divisions(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, divisions)
}

func (h *referenceHandlers) GetSelection(w http.ResponseWriter, r *http.Request) {
	q, err := selectionQuery(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	sel, err := h.ReferenceSvc.Selection(r.Context(), q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, sel)
}
