package runlog

import (
	"time"

	"github.com/nerrad567/show-logic-core/effects"
)

// Run is one finished playback of a show.
//
// It mirrors effects.Execution closely; the extra Error field captures the
// joined error returned by Play, which the report itself does not carry.
type Run struct {
	ID       string `json:"id"`
	ShowID   string `json:"show_id"`
	ShowName string `json:"show_name"`

	Status      effects.Status `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
	DurationMS  int64          `json:"duration_ms"`

	EffectsDispatched int `json:"effects_dispatched"`
	EffectsCompleted  int `json:"effects_completed"`
	EffectsFailed     int `json:"effects_failed"`

	// Failures holds the per-effect failure details, empty for clean runs.
	Failures []effects.EffectFailure `json:"failures,omitempty"`

	// Error is the combined error text returned by Play, empty when nil.
	Error string `json:"error,omitempty"`
}

// FromExecution maps a finished execution report to a Run ready for storage.
// playErr is the error returned by Play alongside the report.
func FromExecution(exec *effects.Execution, playErr error) *Run {
	run := &Run{
		ID:                exec.ID,
		ShowID:            exec.ShowID,
		ShowName:          exec.ShowName,
		Status:            exec.Status,
		StartedAt:         exec.StartedAt,
		CompletedAt:       exec.CompletedAt,
		DurationMS:        exec.Duration().Milliseconds(),
		EffectsDispatched: exec.EffectsDispatched,
		EffectsCompleted:  exec.EffectsCompleted,
		EffectsFailed:     exec.EffectsFailed,
		Failures:          exec.Failures,
	}
	if playErr != nil {
		run.Error = playErr.Error()
	}
	return run
}
