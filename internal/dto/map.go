package dto

import "time"

// VisParams is the colour ramp handed to the tile renderer and the colorbar.
type VisParams struct {
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Palette []string `json:"palette"`
}

// SPEIVisParams is the diverging ramp from dark red (drought) to dark blue (wet).
var SPEIVisParams = VisParams{
	Min: -2.33,
	Max: 2.33,
	Palette: []string{
		"8b1a1a", "de2929", "f3641d",
		"fdc404", "9afa94", "03f2fd",
		"12adf3", "1771de", "00008b",
	},
}

type MapCenter struct {
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
	Zoom float64 `json:"zoom"`
}

// PakistanCenter is the initial map view.
var PakistanCenter = MapCenter{Lon: 69.3451, Lat: 30.3753, Zoom: 5.3}

// OutlineStyle is applied to the division boundary overlay.
var OutlineStyle = map[string]string{"color": "black"}

// MapOptions drives the year and month sliders.
type MapOptions struct {
	CollectionID string    `json:"collectionId"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Years        []int     `json:"years"`
	Year         int       `json:"year"`
	Months       []int     `json:"months"`
	Month        int       `json:"month"`
}

// RasterQuery selects and clips one image from a collection.
type RasterQuery struct {
	CollectionID string
	Band         string
	Start        time.Time
	End          time.Time
	// Clip holds MultiPolygon coordinates: polygons → rings → [lon, lat].
	Clip [][][][2]float64
}

// MapTiles identifies a rendered map on the remote service.
type MapTiles struct {
	MapName string `json:"mapName"`
	TileURL string `json:"tileUrl"`
}

type MapLayer struct {
	Name        string    `json:"name"`
	Band        string    `json:"band"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	FilterStart string    `json:"filterStart"`
	FilterEnd   string    `json:"filterEnd"`
	TileURL     string    `json:"tileUrl"`
	Vis         VisParams `json:"vis"`
	Center      MapCenter `json:"center"`
}

type Legend struct {
	Title string    `json:"title"`
	Vis   VisParams `json:"vis"`
}
