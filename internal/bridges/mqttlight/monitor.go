package mqttlight

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nerrad567/show-logic-core/internal/infrastructure/mqtt"
)

// Subscriber registers handlers for broker topics.
// Satisfied by *mqtt.Client.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Monitor caches the most recent reported state of every light.
//
// Controllers publish state retained, so a monitor started after the
// fixtures are already up still converges on the current state as the
// broker replays retained messages.
type Monitor struct {
	subscriber Subscriber
	qos        byte

	mu     sync.RWMutex
	states map[string]StateMessage
}

// NewMonitor creates a monitor that tracks state via the given subscriber.
func NewMonitor(subscriber Subscriber, qos byte) (*Monitor, error) {
	if subscriber == nil {
		return nil, ErrNilSubscriber
	}
	if qos > maxQoS {
		return nil, fmt.Errorf("%w: qos %d (must be 0, 1, or 2)", ErrInvalidConfig, qos)
	}

	return &Monitor{
		subscriber: subscriber,
		qos:        qos,
		states:     make(map[string]StateMessage),
	}, nil
}

// Start subscribes to all light state topics.
func (m *Monitor) Start() error {
	return m.subscriber.Subscribe(mqtt.Topics{}.AllLightStates(), m.qos, m.handleState)
}

// handleState parses one state message and updates the cache.
func (m *Monitor) handleState(topic string, payload []byte) error {
	id := lightIDFromTopic(topic)

	// A cleared retained message (zero-length payload) removes the state.
	if len(payload) == 0 {
		m.mu.Lock()
		delete(m.states, id)
		m.mu.Unlock()
		return nil
	}

	var msg StateMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidState, topic, err)
	}
	if msg.LightID == "" {
		msg.LightID = id
	}

	m.mu.Lock()
	m.states[id] = msg
	m.mu.Unlock()

	return nil
}

// State returns the last reported state for a light, if any.
func (m *Monitor) State(id string) (StateMessage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msg, ok := m.states[id]
	return msg, ok
}

// IDs returns the identifiers of all lights that have reported state,
// sorted for stable output.
func (m *Monitor) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.states))
	for id := range m.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// lightIDFromTopic extracts the light identifier from a state topic.
// Example: "showlogic/state/light/hearth" → "hearth"
func lightIDFromTopic(topic string) string {
	if i := strings.LastIndex(topic, "/"); i >= 0 {
		return topic[i+1:]
	}
	return topic
}
