package device

import (
	"fmt"
	"sort"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry maps light and group names to capability handles.
//
// Lights are registered individually; groups are ordered sets of
// previously-registered light names. Names share one namespace — a group may
// not take a light's name and vice versa. Each registry belongs to one
// engine instance; there is no process-wide sharing.
//
// All public methods are thread-safe.
type Registry struct {
	mu     sync.RWMutex
	lights map[string]Light
	groups map[string][]string // ordered member names, snapshot at registration
	logger Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		lights: make(map[string]Light),
		groups: make(map[string][]string),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterLight registers a light capability under the given name.
//
// Returns ErrInvalidName for an empty name, ErrNilLight for a nil handle,
// and ErrDuplicateName when the name is already taken by a light or group.
func (r *Registry) RegisterLight(name string, light Light) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if light == nil {
		return fmt.Errorf("%w: %q", ErrNilLight, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	r.lights[name] = light
	r.logger.Debug("light registered", "name", name)
	return nil
}

// RegisterGroup registers a group of previously-registered lights.
//
// The member list is captured as given: resolution preserves member order,
// and because names can never be re-registered the captured list stays valid
// for the life of the registry. Groups are flat — a member must name a
// light, not another group.
//
// Parameters:
//   - name: The group name; shares a namespace with light names
//   - members: One or more registered light names
//
// Returns:
//   - ErrInvalidName for an empty group name
//   - ErrEmptyGroup when no members are given
//   - ErrDuplicateName when the name is already taken, or a member is listed twice
//   - ErrUnknownName when a member has not been registered as a light
func (r *Registry) RegisterGroup(name string, members ...string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if len(members) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyGroup, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	seen := make(map[string]bool, len(members))
	for _, member := range members {
		if _, ok := r.lights[member]; !ok {
			return fmt.Errorf("%w: group %q member %q", ErrUnknownName, name, member)
		}
		if seen[member] {
			return fmt.Errorf("%w: group %q lists member %q twice", ErrDuplicateName, name, member)
		}
		seen[member] = true
	}

	snapshot := make([]string, len(members))
	copy(snapshot, members)
	r.groups[name] = snapshot

	r.logger.Debug("group registered", "name", name, "members", len(members))
	return nil
}

// Resolve returns the capability handles behind a name.
//
// A light name resolves to a single-element slice; a group name resolves to
// its members' handles in registration order.
//
// Returns ErrUnknownName when the name is not registered.
func (r *Registry) Resolve(name string) ([]Light, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if light, ok := r.lights[name]; ok {
		return []Light{light}, nil
	}

	members, ok := r.groups[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}

	lights := make([]Light, 0, len(members))
	for _, member := range members {
		light, ok := r.lights[member]
		if !ok {
			return nil, fmt.Errorf("%w: group %q member %q", ErrUnknownName, name, member)
		}
		lights = append(lights, light)
	}
	return lights, nil
}

// Has reports whether a light or group is registered under the given name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nameTaken(name)
}

// Members returns a copy of a group's member names in registration order.
// Returns ErrUnknownName when no group exists under the given name.
func (r *Registry) Members(name string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.groups[name]
	if !ok {
		return nil, fmt.Errorf("%w: group %q", ErrUnknownName, name)
	}

	out := make([]string, len(members))
	copy(out, members)
	return out, nil
}

// LightCount returns the number of registered lights.
func (r *Registry) LightCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lights)
}

// GroupCount returns the number of registered groups.
func (r *Registry) GroupCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups)
}

// LightNames returns all registered light names in sorted order.
func (r *Registry) LightNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.lights))
	for name := range r.lights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GroupNames returns all registered group names in sorted order.
func (r *Registry) GroupNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// nameTaken reports whether a name is used by a light or group.
// Callers must hold at least a read lock.
func (r *Registry) nameTaken(name string) bool {
	if _, ok := r.lights[name]; ok {
		return true
	}
	_, ok := r.groups[name]
	return ok
}
