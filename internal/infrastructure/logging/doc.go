// Package logging provides structured logging for Show Logic Core.
//
// It is a thin layer over log/slog: New builds a logger from the
// logging section of config.yaml, stamps every record with service and
// version attributes, and filters by level. JSON output is the default
// and is intended for production; the text handler reads better during
// development. Loggers are safe for concurrent use.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting service", "show", "fireplace")
//	logger.Error("failed to connect", "error", err)
//
// Derive component loggers with With:
//
//	mqttLog := logger.With("component", "mqtt")
//
// # Security
//
// Never log secrets, tokens, or passwords. When a credential must be
// referenced at all, log a truncated prefix:
//
//	logger.Info("API key used", "key_prefix", key[:8]+"...")
package logging
