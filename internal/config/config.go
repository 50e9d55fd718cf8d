package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Division reference and series sources.
const (
	SourceCSV       = "csv"
	SourceFirestore = "firestore"
	SourceLocal     = "local"
	SourceGCS       = "gcs"
)

// DefaultSeriesFloorYear is the fixed lower bound offered by the year-range
// control. It does not follow the first observation in a division's series.
const DefaultSeriesFloorYear = 1950

type Config struct {
	Port      string
	ProjectID string
	LogLevel  string

	EEProject        string
	EEBaseURL        string
	EECollection     string
	EEServiceAccount string
	EEKeySecret      string

	DivisionSource string
	DivisionFile   string
	SeriesSource   string
	SeriesDir      string
	SeriesBucket   string
	SeriesPrefix   string

	NationalBoundary  string
	DivisionBoundary  string
	DivisionNameField string

	SeriesFloorYear int
	MapCacheSize    int
	MapCacheTTL     time.Duration

	AuthEnabled bool
}

// New reads configuration from the environment (and an optional .env file),
// applying defaults for anything unset.
func New() *Config {
	_ = godotenv.Load() // a missing .env is fine

	projectID := os.Getenv("PROJECTID")
	return &Config{
		Port:      envOr("PORT", "8080"),
		ProjectID: projectID,
		LogLevel:  envOr("LOGLEVEL", "info"),

		EEProject:        envOr("EEPROJECT", defaultEEProject(projectID)),
		EEBaseURL:        os.Getenv("EEBASEURL"),
		EECollection:     envOr("EECOLLECTION", "CSIC/SPEI/2_8"),
		EEServiceAccount: os.Getenv("EESERVICEACCOUNT"),
		EEKeySecret:      os.Getenv("EEKEYSECRET"),

		DivisionSource: envOr("DIVISIONSOURCE", SourceCSV),
		DivisionFile:   envOr("DIVISIONFILE", "DivisionFileNames.csv"),
		SeriesSource:   envOr("SERIESSOURCE", SourceLocal),
		SeriesDir:      envOr("SERIESDIR", "csv files"),
		SeriesBucket:   os.Getenv("SERIESBUCKET"),
		SeriesPrefix:   os.Getenv("SERIESPREFIX"),

		NationalBoundary:  envOr("NATIONALBOUNDARY", "Pakistan_with_Kashmir.shp"),
		DivisionBoundary:  envOr("DIVISIONBOUNDARY", "shapefile/PAK_adm2.shp"),
		DivisionNameField: envOr("DIVISIONNAMEFIELD", "NAME_2"),

		SeriesFloorYear: envInt("SERIESFLOORYEAR", DefaultSeriesFloorYear),
		MapCacheSize:    envInt("MAPCACHESIZE", 256),
		MapCacheTTL:     envDuration("MAPCACHETTL", 30*time.Minute),

		AuthEnabled: os.Getenv("AUTHENABLED") == "true",
	}
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.DivisionSource {
	case SourceCSV:
	case SourceFirestore:
		if c.ProjectID == "" {
			return errors.New("PROJECTID is required when DIVISIONSOURCE=firestore")
		}
	default:
		return fmt.Errorf("unknown DIVISIONSOURCE %q", c.DivisionSource)
	}

	switch c.SeriesSource {
	case SourceLocal:
	case SourceGCS:
		if c.SeriesBucket == "" {
			return errors.New("SERIESBUCKET is required when SERIESSOURCE=gcs")
		}
	default:
		return fmt.Errorf("unknown SERIESSOURCE %q", c.SeriesSource)
	}

	if c.EEKeySecret != "" && c.ProjectID == "" {
		return errors.New("PROJECTID is required to read EEKEYSECRET")
	}
	if c.MapCacheSize <= 0 {
		return errors.New("MAPCACHESIZE must be positive")
	}
	return nil
}

// Earth Engine accounts without a cloud project use the legacy project.
func defaultEEProject(projectID string) string {
	if projectID == "" {
		return "earthengine-legacy"
	}
	return projectID
}

// ---- Helpers ----

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
