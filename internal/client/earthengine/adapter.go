package eeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/errs"
	"github.com/GregMSThompson/drought-monitor/internal/observability"
)

const (
	serviceName = "earthengine"
	dateLayout  = "2006-01-02"

	// DefaultBaseURL is the public REST endpoint; tile URLs always use it.
	DefaultBaseURL = "https://earthengine.googleapis.com/"
	tileBaseURL    = DefaultBaseURL + "v1/"

	maxResponseBytes = 64 << 20
)

// Adapter calls the Earth Engine REST API through an authenticated client.
type Adapter struct {
	client  *http.Client
	baseURL string
	project string
	metrics *observability.Metrics
}

func NewAdapter(client *http.Client, baseURL, project string, metrics *observability.Metrics) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Adapter{
		client:  client,
		baseURL: baseURL,
		project: project,
		metrics: metrics,
	}
}

func (a *Adapter) endpoint(method string) string {
	return a.baseURL + "v1/projects/" + a.project + "/" + method
}

// TimeStarts returns the system:time_start of every image in the collection, in
// collection order.
func (a *Adapter) TimeStarts(ctx context.Context, collectionID string) ([]time.Time, error) {
	expr := Build(TimeStarts(LoadCollection(collectionID)))
	result, err := a.compute(ctx, "timestamps", expr)
	if err != nil {
		return nil, err
	}
	raw, ok := result.([]any)
	if !ok {
		return nil, a.unexpected("timestamps", result)
	}
	out := make([]time.Time, 0, len(raw))
	for _, v := range raw {
		ms, ok := v.(float64)
		if !ok {
			return nil, a.unexpected("timestamps", v)
		}
		out = append(out, time.UnixMilli(int64(ms)).UTC())
	}
	return out, nil
}

// CountImages returns the number of images left after the date filter.
func (a *Adapter) CountImages(ctx context.Context, q dto.RasterQuery) (int, error) {
	expr := Build(Size(filtered(q)))
	result, err := a.compute(ctx, "size", expr)
	if err != nil {
		return 0, err
	}
	n, ok := result.(float64)
	if !ok {
		return 0, a.unexpected("size", result)
	}
	return int(n), nil
}

// CreateMap renders the first filtered image, band-selected and clipped, and
// returns its tile URL template.
func (a *Adapter) CreateMap(ctx context.Context, q dto.RasterQuery, vis dto.VisParams) (dto.MapTiles, error) {
	m := &EarthEngineMap{
		Expression: ImageExpression(q),
		VisualizationOptions: &VisualizationOptions{
			PaletteColors: vis.Palette,
			Ranges:        []DoubleRange{{Min: vis.Min, Max: vis.Max}},
		},
	}

	var resp EarthEngineMap
	start := time.Now()
	err := a.post(ctx, "maps", m, &resp)
	a.observe("map", start, err)
	if err != nil {
		return dto.MapTiles{}, wrap("failed to create map", err)
	}
	if resp.Name == "" {
		return dto.MapTiles{}, a.unexpected("map", resp)
	}
	return dto.MapTiles{
		MapName: resp.Name,
		TileURL: TileURL(resp.Name),
	}, nil
}

// ImageExpression is collection.filterDate(start, end).first().select(band),
// clipped when a geometry is given.
func ImageExpression(q dto.RasterQuery) *Expression {
	image := Select(First(filtered(q)), q.Band)
	if len(q.Clip) > 0 {
		image = Clip(image, MultiPolygon(q.Clip))
	}
	return Build(image)
}

func TileURL(mapName string) string {
	return tileBaseURL + mapName + "/tiles/{z}/{x}/{y}"
}

func filtered(q dto.RasterQuery) ValueNode {
	return FilterDate(LoadCollection(q.CollectionID), q.Start.Format(dateLayout), q.End.Format(dateLayout))
}

func (a *Adapter) compute(ctx context.Context, operation string, expr *Expression) (any, error) {
	var resp computeValueResponse
	start := time.Now()
	err := a.post(ctx, "value:compute", computeValueRequest{Expression: expr}, &resp)
	a.observe(operation, start, err)
	if err != nil {
		return nil, wrap(fmt.Sprintf("failed to compute %s", operation), err)
	}
	return resp.Result, nil
}

// post sends body as JSON and decodes a 2xx reply into out. Other statuses
// come back as *googleapi.Error.
func (a *Adapter) post(ctx context.Context, method string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint(method), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := googleapi.CheckResponse(res); err != nil {
		return err
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (a *Adapter) observe(operation string, start time.Time, err error) {
	if a.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	a.metrics.EERequests.WithLabelValues(operation, outcome).Inc()
	a.metrics.EEDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (a *Adapter) unexpected(operation string, v any) error {
	return errs.NewExternalServiceError(serviceName, "unexpected "+operation+" result", false, fmt.Errorf("got %T", v))
}

func wrap(message string, err error) error {
	return errs.NewExternalServiceError(serviceName, message, IsTransient(err), err)
}

// IsTransient reports throttling, server-side failures and expired deadlines.
func IsTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests || gerr.Code >= http.StatusInternalServerError
	}
	return false
}
