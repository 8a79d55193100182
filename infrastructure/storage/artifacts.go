package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"course_e2e/domain/entities"
	"course_e2e/domain/interfaces"
)

const summaryFile = "summary.json"

type artifactStore struct {
	dir         string
	summaryPath string
}

// NewArtifactStore - creates the artifact directory and returns a store writing into it
func NewArtifactStore(dir string) (interfaces.ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	return &artifactStore{
		dir:         dir,
		summaryPath: filepath.Join(dir, summaryFile),
	}, nil
}

// Dir - returns the artifact directory
func (s *artifactStore) Dir() string {
	return s.dir
}

// SaveScreenshot - writes PNG bytes to <dir>/<name>
func (s *artifactStore) SaveScreenshot(name string, png []byte) (string, error) {
	return s.write(name, png)
}

// SaveDOM - writes a DOM dump to <dir>/<name>
func (s *artifactStore) SaveDOM(name string, html string) (string, error) {
	return s.write(name, []byte(html))
}

func (s *artifactStore) write(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	// the directory may have been removed by a cleanup between captures
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// SaveSummary - saves the run summary to file
func (s *artifactStore) SaveSummary(summary entities.RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.summaryPath, data, 0644)
}

// LoadSummary - loads the run summary from file
func (s *artifactStore) LoadSummary() (entities.RunSummary, error) {
	data, err := os.ReadFile(s.summaryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return entities.RunSummary{}, nil
		}
		return entities.RunSummary{}, err
	}

	var summary entities.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return entities.RunSummary{}, err
	}

	return summary, nil
}
