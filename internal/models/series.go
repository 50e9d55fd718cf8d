package models

import (
	"math"
	"time"
)

// Observation is one row of a division series. Missing readings are NaN.
type Observation struct {
	Time   time.Time `json:"time"`
	SPEI03 float64   `json:"spei03"`
	SPEI06 float64   `json:"spei06"`
	SPEI09 float64   `json:"spei09"`
	SPEI12 float64   `json:"spei12"`
}

// Value returns the reading for key, NaN for unknown keys.
func (o Observation) Value(key IndexKey) float64 {
	switch key {
	case SPEI03:
		return o.SPEI03
	case SPEI06:
		return o.SPEI06
	case SPEI09:
		return o.SPEI09
	case SPEI12:
		return o.SPEI12
	}
	return math.NaN()
}

// Series is a division's observations sorted ascending by time.
type Series struct {
	Division string
	Records  []Observation
	// Columns lists the index columns present in the source file.
	Columns map[IndexKey]bool
}

func (s *Series) HasColumn(key IndexKey) bool {
	return s.Columns[key]
}

// YearSpan returns the calendar years of the first and last records.
func (s *Series) YearSpan() (first, last int, ok bool) {
	if len(s.Records) == 0 {
		return 0, 0, false
	}
	return s.Records[0].Time.Year(), s.Records[len(s.Records)-1].Time.Year(), true
}
