// Package project handles persistence of fit jobs and application
// configuration as JSON files.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avaneev/areafitter/internal/model"
)

// SaveJob writes the job to the specified JSON file. It creates parent
// directories if they do not exist.
func SaveJob(path string, job model.Job) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadJob reads a job from the specified JSON file.
func LoadJob(path string) (model.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Job{}, err
	}
	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return model.Job{}, fmt.Errorf("invalid job file %q: %w", path, err)
	}
	if job.Areas == nil {
		job.Areas = []model.FitArea{}
	}
	return job, nil
}
