package effects

import "time"

// Status represents the state of a show execution.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusPartial   Status = "partial"   // Some effects failed, playback continued
	StatusFailed    Status = "failed"    // A failure aborted the root timeline
	StatusCancelled Status = "cancelled" // Context cancelled mid-playback
)

// EffectFailure records a single failed leaf dispatch within an execution.
type EffectFailure struct {
	Kind     string    `json:"kind"`
	Target   string    `json:"target"`
	ErrorMsg string    `json:"error_message"`
	At       time.Time `json:"at"`
}

// Execution is the report of one Play invocation.
//
// Counters track leaves only; sections are structure, not effects. A leaf
// interrupted by cancellation is counted as dispatched but neither
// completed nor failed, so the counters need not sum under cancellation.
type Execution struct {
	ID       string `json:"id"`
	ShowID   string `json:"show_id"`
	ShowName string `json:"show_name"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Status      Status    `json:"status"`

	// Leaf counts
	EffectsDispatched int `json:"effects_dispatched"`
	EffectsCompleted  int `json:"effects_completed"`
	EffectsFailed     int `json:"effects_failed"`

	// Failure details (populated when effects fail)
	Failures []EffectFailure `json:"failures,omitempty"`
}

// Duration returns the wall-clock duration of the run, zero while the run
// is still in flight.
func (e *Execution) Duration() time.Duration {
	if e.CompletedAt.IsZero() {
		return 0
	}
	return e.CompletedAt.Sub(e.StartedAt)
}
