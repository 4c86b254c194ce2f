package mqtt

import "fmt"

// Topic prefixes for the Show Logic MQTT bus.
//
// Light topics use the flat scheme: showlogic/{category}/light/{light_id}.
// This matches what the fixture controllers subscribe to.
const (
	// TopicPrefix is the base for all Show Logic topics.
	TopicPrefix = "showlogic"

	// TopicPrefixShow is the base for show playback topics.
	TopicPrefixShow = "showlogic/show"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "showlogic/system"
)

// Topics provides builders for Show Logic MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	cmdTopic := topics.LightCommand("hearth")
//	// Returns: "showlogic/command/light/hearth"
type Topics struct{}

// =============================================================================
// Light Topics
// =============================================================================

// LightCommand returns the topic for commands to a light fixture.
//
// Example: showlogic/command/light/hearth
func (Topics) LightCommand(lightID string) string {
	return fmt.Sprintf("%s/command/light/%s", TopicPrefix, lightID)
}

// LightState returns the topic for state reports from a light fixture.
//
// Example: showlogic/state/light/hearth
func (Topics) LightState(lightID string) string {
	return fmt.Sprintf("%s/state/light/%s", TopicPrefix, lightID)
}

// =============================================================================
// Show Topics
// =============================================================================

// ShowEvent returns the topic for live effect events during playback.
//
// Example: showlogic/show/fireplace/event
func (Topics) ShowEvent(showID string) string {
	return fmt.Sprintf("%s/%s/event", TopicPrefixShow, showID)
}

// ShowRun returns the topic for finished run reports.
//
// Example: showlogic/show/fireplace/run
func (Topics) ShowRun(showID string) string {
	return fmt.Sprintf("%s/%s/run", TopicPrefixShow, showID)
}

// =============================================================================
// System Topics
// =============================================================================

// SystemStatus returns the system status topic (online/offline, LWT).
//
// Example: showlogic/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllLightCommands returns a pattern matching commands to every light.
//
// Pattern: showlogic/command/light/+
func (Topics) AllLightCommands() string {
	return fmt.Sprintf("%s/command/light/+", TopicPrefix)
}

// AllLightStates returns a pattern matching state reports from every light.
//
// Pattern: showlogic/state/light/+
func (Topics) AllLightStates() string {
	return fmt.Sprintf("%s/state/light/+", TopicPrefix)
}

// AllShowEvents returns a pattern matching effect events from every show.
//
// Pattern: showlogic/show/+/event
func (Topics) AllShowEvents() string {
	return fmt.Sprintf("%s/+/event", TopicPrefixShow)
}

// AllTopics returns a pattern matching all Show Logic topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: showlogic/#
func (Topics) AllTopics() string {
	return "showlogic/#"
}
