// Package device provides the capability registry that maps light and group
// names to backend capability handles.
//
// # Overview
//
// A show refers to lights by name. The registry owns the name → capability
// mapping for one engine instance: individual lights are registered with a
// handle implementing the Light interface, and groups are registered as an
// ordered set of previously-registered light names. Resolution happens at
// playback time — a light name resolves to one handle, a group name resolves
// to the handles of its members in registration order.
//
// # Naming
//
// Lights and groups share a single namespace. Registering a name twice —
// whether as a light, as a group, or one of each — is rejected with
// ErrDuplicateName. Group membership is captured when the group is
// registered; because names can never be re-registered, the member list a
// group resolves to is fixed for the life of the registry.
//
// # Backends
//
// The Light interface is the only contract a backend must satisfy. The
// registry never interprets colour channels or device state; it hands the
// engine's calls straight to the registered handle. Concrete backends (MQTT
// bridges, test fakes) live outside this package.
//
// # Thread Safety
//
// All registry methods are safe for concurrent use. Registration is expected
// during recording, resolution during playback; interleaving them is
// permitted but a show should not be recorded and played concurrently.
package device
