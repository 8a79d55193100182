//go:build e2e

package e2e

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"course_e2e/application/automation"
	"course_e2e/infrastructure/browser"
	"course_e2e/infrastructure/storage"
)

// newSession starts a browser for t and closes it when t finishes.
// Artifacts go to a directory named after the test.
func newSession(t *testing.T) *automation.Session {
	t.Helper()
	if skipReason != "" {
		t.Skip(skipReason)
	}

	driver, err := browser.NewDriver(cfg, logger)
	require.NoError(t, err, "failed to start browser")

	dir := filepath.Join(cfg.Artifacts.Dir, strings.ReplaceAll(t.Name(), "/", "_"))
	store, err := storage.NewArtifactStore(dir)
	require.NoError(t, err)

	s := automation.NewSession(driver, store, automation.OptionsFromConfig(cfg), logger.WithField("test", t.Name()))
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("failed to close browser: %v", err)
		}
	})
	return s
}

// requireAccount skips t unless every credential is configured
func requireAccount(t *testing.T, values ...string) {
	t.Helper()
	for _, v := range values {
		if v == "" {
			t.Skip("account not configured, set the E2E_CREDENTIALS_* variables")
		}
	}
}

// unique appends a timestamp so repeated runs do not collide
func unique(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano()/int64(time.Millisecond))
}
