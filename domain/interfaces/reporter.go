package interfaces

import (
	"context"

	"course_e2e/domain/entities"
)

// Reporter captures diagnostics when an interaction fails.
// Capture never returns an error; write failures are only logged.
type Reporter interface {
	Capture(ctx context.Context, locator entities.Locator, event string, kind entities.FailureKind) []entities.Artifact
}
