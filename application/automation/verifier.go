package automation

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"course_e2e/domain/entities"
)

// TestReporter is the part of testing.TB the verifier fails through
type TestReporter interface {
	Helper()
	Errorf(format string, args ...interface{})
	FailNow()
}

// Verifier collects the verification points of one test case and fails
// the test at the end if any point failed, so later checks still run.
type Verifier struct {
	session *Session
	logger  logrus.FieldLogger

	mu      sync.Mutex
	results []entities.Verification
	history []entities.Verification
}

// NewVerifier - session is used for screenshots of failed points and may be nil
func NewVerifier(session *Session, logger logrus.FieldLogger) *Verifier {
	return &Verifier{
		session: session,
		logger:  logger,
	}
}

// Mark - records one verification point
func (v *Verifier) Mark(ctx context.Context, ok bool, msg string) {
	result := entities.VerificationPass
	if !ok {
		result = entities.VerificationFail
	}
	v.record(ctx, entities.Verification{Result: result, Message: msg})
}

// MarkErr - records a point that passed when err is nil
func (v *Verifier) MarkErr(ctx context.Context, err error, msg string) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	v.Mark(ctx, err == nil, msg)
}

func (v *Verifier) record(ctx context.Context, vr entities.Verification) {
	log := v.logger.WithField("message", vr.Message)
	if vr.Result == entities.VerificationPass {
		log.Info("### VERIFICATION SUCCESSFUL")
	} else {
		log.Error("### VERIFICATION FAILED")
		if v.session != nil {
			v.session.Screenshot(ctx, vr.Message)
		}
	}

	v.mu.Lock()
	v.results = append(v.results, vr)
	v.history = append(v.history, vr)
	v.mu.Unlock()
}

// MarkFinal - records the last point, logs the verdict of testName and
// fails tb when any point of the test case failed. The pending list is
// cleared for the next test case.
func (v *Verifier) MarkFinal(ctx context.Context, tb TestReporter, testName string, ok bool, msg string) {
	tb.Helper()
	v.Mark(ctx, ok, msg)

	v.mu.Lock()
	results := v.results
	v.results = nil
	v.mu.Unlock()

	var failed []string
	for _, r := range results {
		if r.Result != entities.VerificationPass {
			failed = append(failed, r.Message)
		}
	}

	log := v.logger.WithField("test", testName)
	if len(failed) > 0 {
		log.WithField("failed", len(failed)).Error("### TEST FAILED")
		tb.Errorf("%s failed %d verification(s): %s", testName, len(failed), strings.Join(failed, "; "))
		tb.FailNow()
		return
	}
	log.Info("### TEST SUCCESSFUL")
}

// History - every point recorded by this verifier, across test cases
func (v *Verifier) History() []entities.Verification {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]entities.Verification(nil), v.history...)
}
