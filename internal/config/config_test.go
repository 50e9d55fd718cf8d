package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("PROJECTID", "")
	t.Setenv("EEPROJECT", "")

	cfg := New()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "CSIC/SPEI/2_8", cfg.EECollection)
	assert.Equal(t, "earthengine-legacy", cfg.EEProject)
	assert.Equal(t, SourceCSV, cfg.DivisionSource)
	assert.Equal(t, "DivisionFileNames.csv", cfg.DivisionFile)
	assert.Equal(t, SourceLocal, cfg.SeriesSource)
	assert.Equal(t, "csv files", cfg.SeriesDir)
	assert.Equal(t, "Pakistan_with_Kashmir.shp", cfg.NationalBoundary)
	assert.Equal(t, "shapefile/PAK_adm2.shp", cfg.DivisionBoundary)
	assert.Equal(t, 1950, cfg.SeriesFloorYear)
	assert.Equal(t, 30*time.Minute, cfg.MapCacheTTL)
	assert.False(t, cfg.AuthEnabled)
	require.NoError(t, cfg.Validate())
}

func TestNew_CustomEnv(t *testing.T) {
	t.Setenv("PROJECTID", "drought-prod")
	t.Setenv("SERIESFLOORYEAR", "1981")
	t.Setenv("SERIESSOURCE", "gcs")
	t.Setenv("SERIESBUCKET", "spei-series")
	t.Setenv("MAPCACHETTL", "5m")
	t.Setenv("AUTHENABLED", "true")

	cfg := New()

	assert.Equal(t, "drought-prod", cfg.EEProject)
	assert.Equal(t, 1981, cfg.SeriesFloorYear)
	assert.Equal(t, SourceGCS, cfg.SeriesSource)
	assert.Equal(t, 5*time.Minute, cfg.MapCacheTTL)
	assert.True(t, cfg.AuthEnabled)
	require.NoError(t, cfg.Validate())
}

func TestNew_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SERIESFLOORYEAR", "nineteen-fifty")
	t.Setenv("MAPCACHETTL", "-1s")

	cfg := New()

	assert.Equal(t, DefaultSeriesFloorYear, cfg.SeriesFloorYear)
	assert.Equal(t, 30*time.Minute, cfg.MapCacheTTL)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"gcs without bucket", func(c *Config) { c.SeriesSource = SourceGCS; c.SeriesBucket = "" }},
		{"firestore without project", func(c *Config) { c.DivisionSource = SourceFirestore; c.ProjectID = "" }},
		{"unknown division source", func(c *Config) { c.DivisionSource = "sheets" }},
		{"unknown series source", func(c *Config) { c.SeriesSource = "ftp" }},
		{"secret without project", func(c *Config) { c.EEKeySecret = "ee-key"; c.ProjectID = "" }},
		{"zero cache size", func(c *Config) { c.MapCacheSize = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PROJECTID", "")
			cfg := New()
			tc.mut(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
