package dto

import "github.com/GregMSThompson/drought-monitor/internal/models"

// SelectionQuery is the raw control state sent by the dashboard. Zero values
// mean "not chosen yet" and are replaced by the control's default.
type SelectionQuery struct {
	Index    string
	Division string
	Year     int
	Month    int
	From     int
	To       int
}

// Selection is the fully resolved control state for one render pass.
type Selection struct {
	Index    models.DroughtIndex `json:"index"`
	Division models.Division     `json:"division"`
	Year     int                 `json:"year"`
	Month    int                 `json:"month"`
	From     int                 `json:"from"`
	To       int                 `json:"to"`
}
