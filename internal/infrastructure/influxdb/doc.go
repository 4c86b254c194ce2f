// Package influxdb records show telemetry in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library and feeds two
// measurements: effect_events (one point per dispatched effect, with
// its kind, target and outcome) and show_runs (one summary point per
// playback). WritePoint and WritePointWithTime are available for
// custom measurements.
//
// The integration is optional. When the influxdb section of config.yaml
// has enabled: false, Connect returns ErrDisabled and the caller runs
// without telemetry; a zero-value or nil-connected Client swallows all
// writes.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "showlogic",
//	    Bucket:  "telemetry",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteEffectEvent("Fireplace Evening", "light_on", "hearth", "completed")
//
// # Write semantics
//
// Writes never block playback: points are batched per the batch_size
// and flush_interval settings and shipped on a background goroutine.
// Batch failures surface through the SetOnError callback rather than a
// return value; connection and health check errors are returned
// directly. All methods are safe for concurrent use.
package influxdb
