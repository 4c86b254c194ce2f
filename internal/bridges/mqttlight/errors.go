package mqttlight

import "errors"

// Domain errors for the MQTT light bridge.
var (
	// ErrInvalidConfig is returned when a light configuration is invalid.
	ErrInvalidConfig = errors.New("mqttlight: invalid config")

	// ErrNilPublisher is returned when a light is created without a publisher.
	ErrNilPublisher = errors.New("mqttlight: publisher cannot be nil")

	// ErrNilSubscriber is returned when a monitor is created without a subscriber.
	ErrNilSubscriber = errors.New("mqttlight: subscriber cannot be nil")

	// ErrCommandFailed is returned when a light command could not be published.
	ErrCommandFailed = errors.New("mqttlight: command failed")

	// ErrInvalidState is returned when a state message cannot be parsed.
	ErrInvalidState = errors.New("mqttlight: invalid state message")
)
