package entities

// RetryState tracks the resolve+act cycles of a single interaction call
type RetryState struct {
	Attempt     int `json:"attempt"`
	MaxAttempts int `json:"max_attempts"`
}

// Remaining returns how many cycles may still be started
func (r RetryState) Remaining() int {
	if n := r.MaxAttempts - r.Attempt; n > 0 {
		return n
	}
	return 0
}

// Exhausted reports whether no further cycle may be started
func (r RetryState) Exhausted() bool {
	return r.Attempt >= r.MaxAttempts
}
