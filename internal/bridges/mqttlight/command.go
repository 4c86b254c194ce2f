package mqttlight

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Command names understood by fixture controllers.
const (
	// CommandTurnOn switches a light on.
	CommandTurnOn = "turn_on"

	// CommandTurnOff switches a light off.
	CommandTurnOff = "turn_off"

	// CommandSetColour applies a colour. Parameters carry hue (0-255),
	// saturation (0-100) and value (0-100).
	CommandSetColour = "set_colour"
)

// commandSource identifies show playback as the origin of a command.
const commandSource = "show"

// CommandMessage is sent from the engine to a fixture controller to drive
// a light.
// Topic: showlogic/command/light/{id}
type CommandMessage struct {
	// ID uniquely identifies this command for correlation in controller logs.
	ID string `json:"id"`

	// Timestamp is when the command was issued (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// LightID is the light identifier the command targets.
	LightID string `json:"light_id"`

	// Command is the command name (e.g., "turn_on", "set_colour").
	Command string `json:"command"`

	// Parameters contains command-specific values.
	// Example: {"hue": 10, "saturation": 90, "value": 40} for set_colour.
	Parameters map[string]any `json:"parameters,omitempty"`

	// Source indicates where the command originated. Always "show" for
	// commands issued by the playback engine.
	Source string `json:"source"`
}

// StateMessage is published (retained) by fixture controllers when a
// light's state changes.
// Topic: showlogic/state/light/{id}
type StateMessage struct {
	// LightID is the light identifier reporting state.
	LightID string `json:"light_id"`

	// Timestamp is when the state was observed (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// On reports whether the light is currently on.
	On bool `json:"on"`

	// Colour is the current colour, if the fixture reports one.
	Colour *ColourState `json:"colour,omitempty"`
}

// ColourState is a reported colour in the same channel convention as
// SetColour: hue 0-255, saturation and value 0-100.
type ColourState struct {
	Hue        int `json:"hue"`
	Saturation int `json:"saturation"`
	Value      int `json:"value"`
}

// NewCommandMessage creates a command for a light with a fresh correlation ID.
func NewCommandMessage(lightID, command string, params map[string]any) CommandMessage {
	return CommandMessage{
		ID:         uuid.New().String(),
		Timestamp:  time.Now().UTC(),
		LightID:    lightID,
		Command:    command,
		Parameters: params,
		Source:     commandSource,
	}
}

// MarshalJSON marshals a CommandMessage with an RFC3339 timestamp.
func (m *CommandMessage) MarshalJSON() ([]byte, error) {
	type Alias CommandMessage
	return json.Marshal(&struct {
		*Alias
		Timestamp string `json:"timestamp"`
	}{
		Alias:     (*Alias)(m),
		Timestamp: m.Timestamp.UTC().Format(time.RFC3339),
	})
}

// UnmarshalJSON unmarshals a CommandMessage from JSON.
func (m *CommandMessage) UnmarshalJSON(data []byte) error {
	type Alias CommandMessage
	aux := &struct {
		*Alias
		Timestamp string `json:"timestamp"`
	}{
		Alias: (*Alias)(m),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return fmt.Errorf("unmarshal command message: %w", err)
	}
	if aux.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, aux.Timestamp)
		if err != nil {
			return fmt.Errorf("parse timestamp: %w", err)
		}
		m.Timestamp = t
	}
	return nil
}
