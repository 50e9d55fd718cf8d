package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/drought-monitor/internal/errs"
	"github.com/GregMSThompson/drought-monitor/pkg/logger"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// apiError is how one error kind is logged and reported.
type apiError struct {
	status  int
	code    string
	message string // log message
	public  string // response message
	level   slog.Level
	attrs   []any
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
	}); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode error response", "error", err, "status", status, "code", code)
	}
}

// HandleError logs err on the request logger and writes the matching status.
// Wrapped errors are matched by their innermost typed cause.
func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	e := classify(err)
	logger.FromContext(r.Context()).Log(r.Context(), e.level, e.message, e.attrs...)
	h.WriteError(w, r, e.status, e.code, e.public)
}

func classify(err error) apiError {
	var (
		notFound   *errs.NotFoundError
		validation *errs.ValidationError
		missingCol *errs.MissingColumnError
		noImage    *errs.NoImageError
		dataSource *errs.DataSourceError
		external   *errs.ExternalServiceError
	)

	switch {
	case errors.As(err, &missingCol):
		return apiError{http.StatusUnprocessableEntity, "missing_column", "series column missing", missingCol.Message, slog.LevelWarn,
			[]any{"division", missingCol.Division, "column", missingCol.Column}}

	case errors.As(err, &noImage):
		return apiError{http.StatusNotFound, "no_image", "no image for selection", noImage.Message, slog.LevelWarn,
			[]any{"band", noImage.Band, "start", noImage.Start, "end", noImage.End}}

	case errors.As(err, &notFound):
		return apiError{http.StatusNotFound, "not_found", "resource not found", notFound.Message, slog.LevelWarn,
			[]any{"error", notFound.Message}}

	case errors.As(err, &validation):
		return apiError{http.StatusBadRequest, "invalid_input", "validation failed", validation.Message, slog.LevelWarn,
			[]any{"error", validation.Message}}

	case errors.As(err, &dataSource):
		return apiError{http.StatusInternalServerError, "internal_error", "data source error", "An error occurred", slog.LevelError,
			[]any{"operation", dataSource.Operation, "error", dataSource.Message, "cause", dataSource.Err}}

	case errors.As(err, &external):
		e := apiError{http.StatusBadGateway, "service_unavailable", "external service error", "Service temporarily unavailable", slog.LevelError,
			[]any{"service", external.Service, "transient", external.Transient, "error", external.Message, "cause", external.Err}}
		if external.Transient {
			e.status = http.StatusServiceUnavailable
			e.level = slog.LevelWarn
		}
		return e

	default:
		return apiError{http.StatusInternalServerError, "internal_error", "unexpected error", "An unexpected error occurred", slog.LevelError,
			[]any{"error", err, "type", fmt.Sprintf("%T", err)}}
	}
}
