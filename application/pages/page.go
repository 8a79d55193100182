package pages

import (
	"context"
	"time"

	"course_e2e/application/automation"
	"course_e2e/domain/entities"
)

// Short probes for elements that may legitimately be absent
const (
	errorProbeTimeout   = 2 * time.Second
	welcomeProbeTimeout = 3 * time.Second
	pendingProbeTimeout = 5 * time.Second
)

// field is one form input and the text typed into it
type field struct {
	locator entities.Locator
	value   string
}

// fill types every field in order, stopping at the first failure
func fill(ctx context.Context, s *automation.Session, fields []field) error {
	for _, f := range fields {
		if err := s.Type(ctx, f.locator, f.value); err != nil {
			return err
		}
	}
	return nil
}
