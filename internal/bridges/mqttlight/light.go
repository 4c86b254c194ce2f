package mqttlight

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/show-logic-core/device"
	"github.com/nerrad567/show-logic-core/internal/infrastructure/mqtt"
)

// maxQoS is the highest valid MQTT QoS level.
const maxQoS = 2

// Publisher publishes messages to the MQTT broker.
// Satisfied by *mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Config configures a single MQTT-backed light.
type Config struct {
	// ID is the light identifier used in the command topic
	// (showlogic/command/light/{id}).
	ID string

	// QoS is the quality of service for command publishes (0-2).
	QoS byte

	// Retained marks command publishes as retained. Leave false for normal
	// operation: commands are imperative, not state, and a retained command
	// would replay against controllers that reconnect.
	Retained bool
}

// Light publishes command messages for one fixture. It implements
// device.Light, so it can be registered directly with a device.Registry.
type Light struct {
	cfg       Config
	publisher Publisher
	topic     string
}

var _ device.Light = (*Light)(nil)

// New creates a light that publishes commands through the given publisher.
//
// Returns:
//   - *Light: Ready to register with a device.Registry
//   - error: ErrInvalidConfig or ErrNilPublisher on bad input
func New(cfg Config, publisher Publisher) (*Light, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("%w: light id cannot be empty", ErrInvalidConfig)
	}
	if cfg.QoS > maxQoS {
		return nil, fmt.Errorf("%w: qos %d (must be 0, 1, or 2)", ErrInvalidConfig, cfg.QoS)
	}
	if publisher == nil {
		return nil, ErrNilPublisher
	}

	return &Light{
		cfg:       cfg,
		publisher: publisher,
		topic:     mqtt.Topics{}.LightCommand(cfg.ID),
	}, nil
}

// ID returns the light identifier.
func (l *Light) ID() string {
	return l.cfg.ID
}

// TurnOn publishes a turn_on command.
func (l *Light) TurnOn(ctx context.Context) error {
	return l.publish(ctx, NewCommandMessage(l.cfg.ID, CommandTurnOn, nil))
}

// TurnOff publishes a turn_off command.
func (l *Light) TurnOff(ctx context.Context) error {
	return l.publish(ctx, NewCommandMessage(l.cfg.ID, CommandTurnOff, nil))
}

// SetColour publishes a set_colour command carrying the channel values.
func (l *Light) SetColour(ctx context.Context, hue, saturation, value int) error {
	params := map[string]any{
		"hue":        hue,
		"saturation": saturation,
		"value":      value,
	}
	return l.publish(ctx, NewCommandMessage(l.cfg.ID, CommandSetColour, params))
}

// publish serialises and sends one command message.
//
// The context is checked before publishing so cancelled shows stop issuing
// commands, but the publish itself is delegated to the client's own
// timeout handling.
func (l *Light) publish(ctx context.Context, msg CommandMessage) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrCommandFailed, msg.Command, l.cfg.ID, err)
	}

	payload, err := json.Marshal(&msg)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %w", ErrCommandFailed, msg.Command, err)
	}

	if err := l.publisher.Publish(l.topic, payload, l.cfg.QoS, l.cfg.Retained); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrCommandFailed, msg.Command, l.cfg.ID, err)
	}

	return nil
}
