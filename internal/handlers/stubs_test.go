package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/models"
)

// --- Stub response handler ---

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error

	writeErrorCalled bool
	writeErrorStatus int
	writeErrorCode   string

	writeFileCalled      bool
	writeFileContentType string
	writeFileName        string
	writeFileBody        []byte
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":true}`))
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, code, _ string) {
	s.writeErrorCalled = true
	s.writeErrorStatus = status
	s.writeErrorCode = code
	w.WriteHeader(status)
}

func (s *stubResponseHandler) WriteFile(w http.ResponseWriter, _ *http.Request, contentType, filename string, body []byte) {
	s.writeFileCalled = true
	s.writeFileContentType = contentType
	s.writeFileName = filename
	s.writeFileBody = body
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

// --- Stub services ---

type stubReferenceService struct {
	divisions    []models.Division
	divisionsErr error
	selection    dto.Selection
	selectionErr error
	lastQuery    dto.SelectionQuery
}

func (s *stubReferenceService) Indices() []models.DroughtIndex {
	return models.DroughtIndices
}

func (s *stubReferenceService) Divisions(_ context.Context) ([]models.Division, error) {
	return s.divisions, s.divisionsErr
}

func (s *stubReferenceService) Selection(_ context.Context, q dto.SelectionQuery) (dto.Selection, error) {
	s.lastQuery = q
	return s.selection, s.selectionErr
}

type stubMapService struct {
	options    dto.MapOptions
	optionsErr error
	layer      dto.MapLayer
	layerErr   error
	legendErr  error
	outline    dto.Outline
	lastYear   int
	lastMonth  int
	lastQuery  dto.SelectionQuery
	lastIndex  string
}

func (s *stubMapService) MapOptions(_ context.Context, year, month int) (dto.MapOptions, error) {
	s.lastYear, s.lastMonth = year, month
	return s.options, s.optionsErr
}

func (s *stubMapService) MapLayer(_ context.Context, q dto.SelectionQuery) (dto.MapLayer, error) {
	s.lastQuery = q
	return s.layer, s.layerErr
}

func (s *stubMapService) Legend(index string) (dto.Legend, error) {
	s.lastIndex = index
	return dto.Legend{Title: "SPEI_03_month"}, s.legendErr
}

func (s *stubMapService) Outlines(_ context.Context) (dto.Outline, error) {
	return s.outline, nil
}

type stubSeriesService struct {
	options    dto.SeriesOptions
	optionsErr error
	chart      dto.Chart
	chartErr   error
	png        []byte
	pngErr     error
	export     *dto.ExportFile
	exportErr  error
	lastQuery  dto.SelectionQuery
}

func (s *stubSeriesService) SeriesOptions(_ context.Context, q dto.SelectionQuery) (dto.SeriesOptions, error) {
	s.lastQuery = q
	return s.options, s.optionsErr
}

func (s *stubSeriesService) Chart(_ context.Context, q dto.SelectionQuery) (dto.Chart, error) {
	s.lastQuery = q
	return s.chart, s.chartErr
}

func (s *stubSeriesService) ChartPNG(_ context.Context, q dto.SelectionQuery, w io.Writer) error {
	s.lastQuery = q
	if s.pngErr != nil {
		return s.pngErr
	}
	_, err := w.Write(s.png)
	return err
}

func (s *stubSeriesService) Export(_ context.Context, q dto.SelectionQuery) (*dto.ExportFile, error) {
	s.lastQuery = q
	return s.export, s.exportErr
}
