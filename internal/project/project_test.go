package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaneev/areafitter/internal/model"
)

func TestSaveLoadJob_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "atlas.json")

	job := model.NewJob()
	job.Name = "icons"
	job.Areas = []model.FitArea{
		model.NewFitArea("cursor", 32, 32),
		model.NewFitArea("banner", 250, 60),
	}
	job.Settings.MaxImageWidth = 512
	job.Result = &model.FitResult{
		Areas:   job.Areas,
		Images:  []model.OutImage{{Width: 250, Height: 92, Size: 23000}},
		Quality: 87.5,
	}

	require.NoError(t, SaveJob(path, job))

	loaded, err := LoadJob(path)
	require.NoError(t, err)
	assert.Equal(t, "icons", loaded.Name)
	assert.Equal(t, job.Areas, loaded.Areas)
	assert.Equal(t, 512, loaded.Settings.MaxImageWidth)
	require.NotNil(t, loaded.Result)
	assert.InDelta(t, 87.5, loaded.Result.Quality, 0.0001)
}

func TestLoadJob_MissingFile(t *testing.T) {
	_, err := LoadJob(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadJob_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadJob(path)
	assert.ErrorContains(t, err, "invalid job file")
}

func TestSaveLoadAppConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultFitCallsLimit = 123456
	cfg.AddRecentJob("recent.json", 5)

	require.NoError(t, SaveAppConfig(path, cfg))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 123456, loaded.DefaultFitCallsLimit)
	assert.Equal(t, []string{"recent.json"}, loaded.RecentJobs)
}

func TestLoadAppConfig_MissingFileReturnsDefaults(t *testing.T) {
	loaded, err := LoadAppConfig(filepath.Join(t.TempDir(), "config.json"))

	require.NoError(t, err)
	assert.Equal(t, model.DefaultAppConfig(), loaded)
	assert.NotNil(t, loaded.RecentJobs)
}
