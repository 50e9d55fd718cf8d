package dto

import "time"

// Trace labels and colours for the dual-polarity bar chart.
const (
	TraceFlood        = "flood"
	TraceDrought      = "drought"
	TraceFloodColor   = "blue"
	TraceDroughtColor = "red"
	ChartXAxisTitle   = "Time"
	ChartYAxisTitle   = "SPEI"
)

// SeriesOptions drives the year-range slider for a division.
type SeriesOptions struct {
	Division string `json:"division"`
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	From     int    `json:"from"`
	To       int    `json:"to"`
}

type ChartTrace struct {
	Name  string      `json:"name"`
	Color string      `json:"color"`
	X     []time.Time `json:"x"`
	Y     []float64   `json:"y"`
}

type Chart struct {
	Title      string       `json:"title"`
	Subtitle   string       `json:"subtitle"`
	XAxisTitle string       `json:"xAxisTitle"`
	YAxisTitle string       `json:"yAxisTitle"`
	Traces     []ChartTrace `json:"traces"`
}

// ExportFile is a rendered CSV download.
type ExportFile struct {
	Filename string
	Content  []byte
}
