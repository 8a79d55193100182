package entities

import (
	"fmt"
	"strings"
	"time"
)

// Condition is the element state a wait polls for
type Condition string

const (
	ConditionPresent   Condition = "present"
	ConditionVisible   Condition = "visible"
	ConditionClickable Condition = "clickable"
	ConditionInvisible Condition = "invisible"
)

// ParseCondition parses a condition name
func ParseCondition(s string) (Condition, error) {
	switch c := Condition(strings.ToLower(strings.TrimSpace(s))); c {
	case ConditionPresent, ConditionVisible, ConditionClickable, ConditionInvisible:
		return c, nil
	}
	return "", fmt.Errorf("condition %q not supported", s)
}

const (
	DefaultWaitTimeout  = 10 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
)

// WaitConfig holds the parameters of one explicit wait
type WaitConfig struct {
	Timeout      time.Duration `json:"timeout"`
	PollInterval time.Duration `json:"poll_interval"`
	Condition    Condition     `json:"condition"`
}

// DefaultWaitConfig returns the wait used when callers pass no overrides
func DefaultWaitConfig(cond Condition) WaitConfig {
	return WaitConfig{
		Timeout:      DefaultWaitTimeout,
		PollInterval: DefaultPollInterval,
		Condition:    cond,
	}
}

// WithTimeout returns a copy with a different timeout
func (w WaitConfig) WithTimeout(d time.Duration) WaitConfig {
	w.Timeout = d
	return w
}

func (w WaitConfig) Validate() error {
	if w.Timeout < 0 {
		return fmt.Errorf("wait timeout must not be negative, got %s", w.Timeout)
	}
	if w.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", w.PollInterval)
	}
	if _, err := ParseCondition(string(w.Condition)); err != nil {
		return err
	}
	return nil
}
