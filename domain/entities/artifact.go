package entities

import "time"

// ArtifactKind represents the type of diagnostic file captured on failure
type ArtifactKind string

const (
	ArtifactScreenshot ArtifactKind = "screenshot"
	ArtifactDOM        ArtifactKind = "dom"
)

// Artifact is a diagnostic file written for post-mortem analysis
type Artifact struct {
	Kind       ArtifactKind `json:"kind"`
	Path       string       `json:"path"`
	Locator    string       `json:"locator,omitempty"`
	Event      string       `json:"event"`
	CapturedAt time.Time    `json:"captured_at"`
}
