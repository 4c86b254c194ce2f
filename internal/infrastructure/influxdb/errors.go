package influxdb

import "errors"

// Sentinel errors, matched with errors.Is. ErrDisabled in particular is
// expected during normal operation when telemetry is switched off:
//
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // run without telemetry
//	}
var (
	// ErrNotConnected: the client has no live InfluxDB connection.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed: the initial connection attempt failed.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrDisabled: the influxdb section of config.yaml has enabled: false.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)
