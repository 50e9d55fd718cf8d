package dto

// GeoJSON shapes served to the map overlay.

type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Outline is the styled division boundary overlay.
type Outline struct {
	Name  string             `json:"name"`
	Style map[string]string  `json:"style"`
	Data  *FeatureCollection `json:"data"`
}
