package store

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/gocarina/gocsv"

	"github.com/GregMSThompson/drought-monitor/internal/errs"
	"github.com/GregMSThompson/drought-monitor/internal/models"
)

// csvDivisionStore reads the division reference table from a CSV file with
// "Division" and "File Name" columns. The table is read on first use and kept.
type csvDivisionStore struct {
	path string

	mu        sync.Mutex
	divisions []models.Division
}

func NewCSVDivisionStore(path string) *csvDivisionStore {
	return &csvDivisionStore{path: path}
}

func (s *csvDivisionStore) List(ctx context.Context) ([]models.Division, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.divisions != nil {
		return s.divisions, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, errs.NewDataSourceError("read", "failed to open division table", err)
	}
	defer f.Close()

	var rows []*models.Division
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, errs.NewDataSourceError("read", "division table is empty", err)
		}
		return nil, errs.NewDataSourceError("read", "failed to parse division table", err)
	}

	divisions := make([]models.Division, 0, len(rows))
	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		divisions = append(divisions, models.Division{
			Name:     name,
			FileName: strings.TrimSpace(row.FileName),
			Position: i,
		})
	}
	s.divisions = divisions
	return s.divisions, nil
}

// firestoreDivisionStore reads the reference table from the "divisions"
// collection ordered by position.
type firestoreDivisionStore struct {
	client *firestore.Client

	mu        sync.Mutex
	divisions []models.Division
}

func NewFirestoreDivisionStore(client *firestore.Client) *firestoreDivisionStore {
	return &firestoreDivisionStore{client: client}
}

func (s *firestoreDivisionStore) collection() *firestore.CollectionRef {
	return s.client.Collection("divisions")
}

func (s *firestoreDivisionStore) List(ctx context.Context) ([]models.Division, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.divisions != nil {
		return s.divisions, nil
	}

	docs, err := s.collection().OrderBy("position", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDataSourceError("read", "failed to list divisions", err)
	}
	divisions := make([]models.Division, 0, len(docs))
	for _, d := range docs {
		var div models.Division
		if err := d.DataTo(&div); err != nil {
			return nil, errs.NewDataSourceError("read", "failed to parse division data", err)
		}
		divisions = append(divisions, div)
	}
	s.divisions = divisions
	return s.divisions, nil
}

// Seed writes the given divisions, replacing documents with the same name.
func (s *firestoreDivisionStore) Seed(ctx context.Context, divisions []models.Division) error {
	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(divisions))
	for i, div := range divisions {
		div.Position = i
		job, err := bw.Set(s.collection().Doc(div.Name), div)
		if err != nil {
			bw.End()
			return errs.NewDataSourceError("write", "failed to queue division", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return errs.NewDataSourceError("write", "failed to write division", err)
		}
	}

	s.mu.Lock()
	s.divisions = nil
	s.mu.Unlock()
	return nil
}
