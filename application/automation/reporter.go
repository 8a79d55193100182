package automation

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"course_e2e/domain/entities"
	"course_e2e/domain/interfaces"
)

const maxNamePart = 60

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FailureReporter writes a screenshot, and optionally the DOM, for every
// failure it is told about. It never fails the caller.
type FailureReporter struct {
	driver  interfaces.Driver
	store   interfaces.ArtifactStore
	domDump bool
	logger  logrus.FieldLogger

	seq atomic.Uint64
	now func() time.Time

	mu        sync.Mutex
	artifacts []entities.Artifact
}

// NewFailureReporter - creates a reporter writing into store
func NewFailureReporter(driver interfaces.Driver, store interfaces.ArtifactStore, domDump bool, logger logrus.FieldLogger) *FailureReporter {
	return &FailureReporter{
		driver:  driver,
		store:   store,
		domDump: domDump,
		logger:  logger,
		now:     time.Now,
	}
}

// Capture - saves diagnostics for event and returns what was written
func (r *FailureReporter) Capture(ctx context.Context, locator entities.Locator, event string, kind entities.FailureKind) []entities.Artifact {
	capturedAt := r.now()
	base := r.fileName(locator, event, kind, capturedAt)
	log := r.logger.WithFields(logrus.Fields{
		"event":   event,
		"locator": locatorLabel(locator),
	})

	var captured []entities.Artifact

	png, err := r.driver.Screenshot(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to take screenshot")
	} else if path, err := r.store.SaveScreenshot(base+".png", png); err != nil {
		log.WithError(err).Error("Failed to save screenshot")
	} else {
		log.WithField("path", path).Info("Screenshot saved")
		captured = append(captured, entities.Artifact{
			Kind:       entities.ArtifactScreenshot,
			Path:       path,
			Locator:    locatorLabel(locator),
			Event:      event,
			CapturedAt: capturedAt,
		})
	}

	if r.domDump {
		html, err := r.driver.PageSource(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to read page source")
		} else if path, err := r.store.SaveDOM(base+".html", html); err != nil {
			log.WithError(err).Error("Failed to save page source")
		} else {
			captured = append(captured, entities.Artifact{
				Kind:       entities.ArtifactDOM,
				Path:       path,
				Locator:    locatorLabel(locator),
				Event:      event,
				CapturedAt: capturedAt,
			})
		}
	}

	r.mu.Lock()
	r.artifacts = append(r.artifacts, captured...)
	r.mu.Unlock()

	return captured
}

// Artifacts - returns everything captured so far
func (r *FailureReporter) Artifacts() []entities.Artifact {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.Artifact(nil), r.artifacts...)
}

// fileName builds <event>_<locator>_<kind>_<timestamp>_<seq>; the sequence
// keeps names unique when two captures share a timestamp
func (r *FailureReporter) fileName(locator entities.Locator, event string, kind entities.FailureKind, at time.Time) string {
	var parts []string
	for _, p := range []string{event, locatorLabel(locator), string(kind)} {
		if s := sanitizeName(p); s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts,
		at.UTC().Format("20060102T150405.000000000Z"),
		fmt.Sprintf("%04d", r.seq.Add(1)))
	return strings.Join(parts, "_")
}

func locatorLabel(locator entities.Locator) string {
	if locator.Kind == "" {
		return ""
	}
	return locator.String()
}

func sanitizeName(s string) string {
	s = strings.Trim(unsafeNameChars.ReplaceAllString(s, "-"), "-")
	if len(s) > maxNamePart {
		s = strings.TrimRight(s[:maxNamePart], "-")
	}
	return s
}
