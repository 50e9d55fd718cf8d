package services

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/GregMSThompson/drought-monitor/internal/dto"
	"github.com/GregMSThompson/drought-monitor/internal/models"
)

const (
	chartWidth     = 1200
	chartHeight    = 500
	maxChartLabels = 12
)

var errEmptyChart = errors.New("no bars to draw for the selected range")

// Partitioned splits records by the sign of one index. Neither holds zero and
// missing values, so the three groups cover the input without overlap.
type Partitioned struct {
	Positive []models.Observation
	Negative []models.Observation
	Neither  []models.Observation
}

func Partition(records []models.Observation, key models.IndexKey) Partitioned {
	var p Partitioned
	for _, rec := range records {
		v := rec.Value(key)
		switch {
		case v > 0:
			p.Positive = append(p.Positive, rec)
		case v < 0:
			p.Negative = append(p.Negative, rec)
		default:
			p.Neither = append(p.Neither, rec)
		}
	}
	return p
}

// BuildChart assembles the flood/drought bar traces for the filtered records.
func BuildChart(division string, key models.IndexKey, from, to int, records []models.Observation) dto.Chart {
	p := Partition(records, key)
	return dto.Chart{
		Title:      fmt.Sprintf("%s-%s", key.Upper(), division),
		Subtitle:   fmt.Sprintf("%d - %d", from, to),
		XAxisTitle: dto.ChartXAxisTitle,
		YAxisTitle: dto.ChartYAxisTitle,
		Traces: []dto.ChartTrace{
			trace(dto.TraceFlood, dto.TraceFloodColor, p.Positive, key),
			trace(dto.TraceDrought, dto.TraceDroughtColor, p.Negative, key),
		},
	}
}

func trace(name, color string, records []models.Observation, key models.IndexKey) dto.ChartTrace {
	t := dto.ChartTrace{
		Name:  name,
		Color: color,
		X:     make([]time.Time, 0, len(records)),
		Y:     make([]float64, 0, len(records)),
	}
	for _, rec := range records {
		t.X = append(t.X, rec.Time)
		t.Y = append(t.Y, rec.Value(key))
	}
	return t
}

// RenderPNG draws the non-zero readings as bars around zero, blue above and
// red below, in time order.
func RenderPNG(w io.Writer, c dto.Chart, records []models.Observation, key models.IndexKey) error {
	bars := make([]chart.Value, 0, len(records))
	lo, hi := 0.0, 0.0
	step := labelStep(records)
	for _, rec := range records {
		v := rec.Value(key)
		if math.IsNaN(v) || v == 0 {
			continue
		}
		fill := drawing.ColorBlue
		if v < 0 {
			fill = drawing.ColorRed
		}
		bar := chart.Value{
			Value: v,
			Style: chart.Style{FillColor: fill, StrokeColor: fill},
		}
		if rec.Time.Month() == time.January && rec.Time.Year()%step == 0 {
			bar.Label = strconv.Itoa(rec.Time.Year())
		}
		bars = append(bars, bar)
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if len(bars) == 0 {
		return errEmptyChart
	}

	bc := chart.BarChart{
		Title:        c.Title + " (" + c.Subtitle + ")",
		Width:        chartWidth,
		Height:       chartHeight,
		BarWidth:     2,
		BarSpacing:   1,
		UseBaseValue: true,
		BaseValue:    0,
		Background:   chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Name:  c.YAxisTitle,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}

// labelStep spaces year labels so at most maxChartLabels are drawn.
func labelStep(records []models.Observation) int {
	if len(records) == 0 {
		return 1
	}
	span := records[len(records)-1].Time.Year() - records[0].Time.Year() + 1
	step := (span + maxChartLabels - 1) / maxChartLabels
	if step < 1 {
		step = 1
	}
	return step
}
