package store

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/GregMSThompson/drought-monitor/internal/errs"
)

// ValidateFileName rejects series file names that would escape the series root.
func ValidateFileName(name string) error {
	if name == "" {
		return errs.NewValidationError("series file name is empty")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return errs.NewValidationError("invalid series file name " + name)
	}
	return nil
}

type localSeriesStore struct {
	dir string
}

func NewLocalSeriesStore(dir string) *localSeriesStore {
	return &localSeriesStore{dir: dir}
}

// Path resolves a series file name under the series directory.
func (s *localSeriesStore) Path(name string) (string, error) {
	if err := ValidateFileName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

func (s *localSeriesStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.NewNotFoundError("series file not found: " + name)
		}
		return nil, errs.NewDataSourceError("read", "failed to open series file", err)
	}
	return f, nil
}

type gcsSeriesStore struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSSeriesStore(client *storage.Client, bucket, prefix string) *gcsSeriesStore {
	return &gcsSeriesStore{client: client, bucket: bucket, prefix: prefix}
}

func (s *gcsSeriesStore) objectName(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *gcsSeriesStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ValidateFileName(name); err != nil {
		return nil, err
	}
	r, err := s.client.Bucket(s.bucket).Object(s.objectName(name)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, errs.NewNotFoundError("series object not found: " + name)
		}
		return nil, errs.NewDataSourceError("read", "failed to open series object", err)
	}
	return r, nil
}
