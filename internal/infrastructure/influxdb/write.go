package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteEffectEvent records one dispatched effect in the effect_events
// measurement. The write is non-blocking; points are batched and sent
// asynchronously.
//
// Target is whatever the effect acted on (light name, sound path) and
// is omitted when empty, as for delays. Status is "completed" or
// "failed".
func (c *Client) WriteEffectEvent(showName, kind, target, status string) {
	fields := map[string]any{"count": 1}
	if target != "" {
		fields["target"] = target
	}

	c.WritePoint("effect_events", map[string]string{
		"show":   showName,
		"kind":   kind,
		"status": status,
	}, fields)
}

// WriteRunSummary records the outcome of a show run in the show_runs
// measurement: one point per playback, written after the timeline
// finishes or is cancelled. Summaries let dashboards chart durations
// and failure rates per show.
func (c *Client) WriteRunSummary(showName, runID, status string, dispatched, completed, failed int, duration time.Duration) {
	c.WritePoint("show_runs", map[string]string{
		"show":   showName,
		"status": status,
	}, map[string]any{
		"run_id":             runID,
		"effects_dispatched": dispatched,
		"effects_completed":  completed,
		"effects_failed":     failed,
		"duration_ms":        duration.Milliseconds(),
	})
}

// WritePoint writes a custom point timestamped now. Tags should stay
// low-cardinality; fields carry the data.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	c.WritePointWithTime(measurement, tags, fields, time.Now())
}

// WritePointWithTime writes a custom point with an explicit timestamp,
// e.g. for backfilled run history. All writers funnel through here; the
// call is a no-op when the client is disconnected.
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, at time.Time) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, at))
}
