// Package csvcodec reads and writes the per-division SPEI series files.
package csvcodec

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/GregMSThompson/drought-monitor/internal/models"
)

const (
	TimeColumn = "time"

	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var ErrMissingTimeColumn = errors.New("series has no time column")

// time layouts accepted for the time column, most specific first
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	dateTimeLayout,
	"2006-01-02 15:04",
	dateLayout,
	"2006-01",
	"2006/01/02",
}

// Timestamp parses ISO-style dates and datetimes. Values without a zone are UTC.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unparseable time %q", s)
}

// Reading is an index value; blanks and NaN markers decode to NaN and encode as blank.
type Reading float64

func (r *Reading) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "null":
		*r = Reading(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("unparseable reading %q", s)
	}
	*r = Reading(f)
	return nil
}

func (r Reading) MarshalCSV() (string, error) {
	f := float64(r)
	if math.IsNaN(f) {
		return "", nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

type seriesRow struct {
	Time   Timestamp `csv:"time"`
	SPEI03 Reading   `csv:"spei03"`
	SPEI06 Reading   `csv:"spei06"`
	SPEI09 Reading   `csv:"spei09"`
	SPEI12 Reading   `csv:"spei12"`
}

// ParseSeries decodes a division CSV and returns its records sorted by time.
// Index columns absent from the header read as NaN and are left out of Columns.
func ParseSeries(division string, r io.Reader) (*models.Series, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	header, err := csv.NewReader(bytes.NewReader(raw)).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingTimeColumn
		}
		return nil, err
	}
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}
	if !present[TimeColumn] {
		return nil, ErrMissingTimeColumn
	}

	var rows []*seriesRow
	if err := gocsv.UnmarshalBytes(raw, &rows); err != nil {
		return nil, err
	}

	series := &models.Series{
		Division: division,
		Records:  make([]models.Observation, 0, len(rows)),
		Columns:  make(map[models.IndexKey]bool, len(models.DroughtIndices)),
	}
	for _, idx := range models.DroughtIndices {
		series.Columns[idx.Key] = present[string(idx.Key)]
	}

	for _, row := range rows {
		series.Records = append(series.Records, models.Observation{
			Time:   row.Time.Time,
			SPEI03: columnValue(series.Columns[models.SPEI03], row.SPEI03),
			SPEI06: columnValue(series.Columns[models.SPEI06], row.SPEI06),
			SPEI09: columnValue(series.Columns[models.SPEI09], row.SPEI09),
			SPEI12: columnValue(series.Columns[models.SPEI12], row.SPEI12),
		})
	}

	sort.SliceStable(series.Records, func(i, j int) bool {
		return series.Records[i].Time.Before(series.Records[j].Time)
	})
	return series, nil
}

func columnValue(present bool, v Reading) float64 {
	if !present {
		return math.NaN()
	}
	return float64(v)
}

type exportRow struct {
	Time  string  `csv:"time"`
	Value Reading `csv:"value"`
}

// WriteSeries writes (time, key) pairs with a "time,<key>" header.
func WriteSeries(w io.Writer, records []models.Observation, key models.IndexKey) error {
	layout := TimeLayout(records)
	rows := make([]*exportRow, len(records))
	for i, rec := range records {
		rows[i] = &exportRow{
			Time:  rec.Time.Format(layout),
			Value: Reading(rec.Value(key)),
		}
	}

	cw := gocsv.DefaultCSVWriter(w)
	if err := cw.Write([]string{TimeColumn, string(key)}); err != nil {
		return err
	}
	return gocsv.MarshalCSVWithoutHeaders(&rows, cw)
}

// TimeLayout picks a date-only layout when every timestamp is at midnight.
func TimeLayout(records []models.Observation) string {
	for _, rec := range records {
		h, m, s := rec.Time.Clock()
		if h != 0 || m != 0 || s != 0 || rec.Time.Nanosecond() != 0 {
			return dateTimeLayout
		}
	}
	return dateLayout
}
