package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/GregMSThompson/drought-monitor/internal/csvcodec"
	"github.com/GregMSThompson/drought-monitor/internal/errs"
	"github.com/GregMSThompson/drought-monitor/internal/models"
)

// ExportFilename is {DIVISION}_{INDEX}_{from}_{lastYear}.csv with the division
// upper-cased and spaces replaced by underscores. lastYear is the final year of
// the series, whatever upper bound was selected.
func ExportFilename(division string, key models.IndexKey, from, lastYear int) string {
	name := strings.ReplaceAll(strings.ToUpper(division), " ", "_")
	return fmt.Sprintf("%s_%s_%d_%d.csv", name, key.Upper(), from, lastYear)
}

// ExportCSV writes the (time, index) pairs of records as CSV.
func ExportCSV(w io.Writer, records []models.Observation, key models.IndexKey) error {
	if err := csvcodec.WriteSeries(w, records, key); err != nil {
		return errs.NewDataSourceError("write", "failed to write export", err)
	}
	return nil
}
