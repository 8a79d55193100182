package interfaces

import "course_e2e/domain/entities"

// ArtifactStore persists diagnostic files and run summaries
type ArtifactStore interface {
	// SaveScreenshot writes PNG bytes under name and returns the path
	SaveScreenshot(name string, png []byte) (string, error)

	// SaveDOM writes a DOM dump under name and returns the path
	SaveDOM(name string, html string) (string, error)

	// SaveSummary persists the run summary
	SaveSummary(summary entities.RunSummary) error

	// LoadSummary loads the last persisted run summary
	LoadSummary() (entities.RunSummary, error)

	// Dir returns the directory artifacts are written to
	Dir() string
}
