package entities

import "time"

// VerificationResult is the outcome of one verification point
type VerificationResult string

const (
	VerificationPass VerificationResult = "PASS"
	VerificationFail VerificationResult = "FAIL"
)

// Verification is a single recorded check inside a test case
type Verification struct {
	Result  VerificationResult `json:"result"`
	Message string             `json:"message"`
}

// RunSummary is persisted after a CLI run or suite for later inspection
type RunSummary struct {
	RunID      string         `json:"run_id"`
	Browser    string         `json:"browser"`
	BaseURL    string         `json:"base_url"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Checks     []Verification `json:"checks"`
	Artifacts  []Artifact     `json:"artifacts,omitempty"`
}

// Passed reports whether every recorded check passed
func (s RunSummary) Passed() bool {
	for _, c := range s.Checks {
		if c.Result != VerificationPass {
			return false
		}
	}
	return true
}
