package models

import "strings"

// IndexKey names a drought index column in the division CSVs.
type IndexKey string

const (
	SPEI03 IndexKey = "spei03"
	SPEI06 IndexKey = "spei06"
	SPEI09 IndexKey = "spei09"
	SPEI12 IndexKey = "spei12"
)

// DroughtIndex pairs a CSV column with the Earth Engine band carrying the same
// accumulation window. Band names are part of the CSIC/SPEI collection contract.
type DroughtIndex struct {
	Key    IndexKey `json:"key"`
	Band   string   `json:"band"`
	Months int      `json:"months"`
}

// DroughtIndices is ordered the way the selector lists them; the first entry is the default.
var DroughtIndices = []DroughtIndex{
	{Key: SPEI03, Band: "SPEI_03_month", Months: 3},
	{Key: SPEI06, Band: "SPEI_06_month", Months: 6},
	{Key: SPEI09, Band: "SPEI_09_month", Months: 9},
	{Key: SPEI12, Band: "SPEI_12_month", Months: 12},
}

// LookupIndex resolves a key case-insensitively.
func LookupIndex(key string) (DroughtIndex, bool) {
	k := IndexKey(strings.ToLower(strings.TrimSpace(key)))
	for _, idx := range DroughtIndices {
		if idx.Key == k {
			return idx, true
		}
	}
	return DroughtIndex{}, false
}

func (k IndexKey) Upper() string {
	return strings.ToUpper(string(k))
}
