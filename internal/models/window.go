package models

import "time"

// DatasetWindow is the time extent of a remote image collection, taken from the
// first and last entries of its system:time_start index.
type DatasetWindow struct {
	CollectionID string    `json:"collectionId"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}
