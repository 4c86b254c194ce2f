package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// fakeLight is a no-op Light used to populate registries under test.
type fakeLight struct {
	name string
}

func (f *fakeLight) TurnOn(_ context.Context) error  { return nil }
func (f *fakeLight) TurnOff(_ context.Context) error { return nil }
func (f *fakeLight) SetColour(_ context.Context, _, _, _ int) error {
	return nil
}

// newTestRegistry returns a registry pre-loaded with the given light names.
func newTestRegistry(t *testing.T, names ...string) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, name := range names {
		if err := r.RegisterLight(name, &fakeLight{name: name}); err != nil {
			t.Fatalf("RegisterLight(%q): %v", name, err)
		}
	}
	return r
}

func TestRegisterLight(t *testing.T) {
	tests := []struct {
		name      string
		lightName string
		light     Light
		setup     func(r *Registry)
		wantErr   error
	}{
		{
			name:      "valid registration",
			lightName: "hearth",
			light:     &fakeLight{},
		},
		{
			name:      "empty name",
			lightName: "",
			light:     &fakeLight{},
			wantErr:   ErrInvalidName,
		},
		{
			name:      "nil light",
			lightName: "hearth",
			light:     nil,
			wantErr:   ErrNilLight,
		},
		{
			name:      "duplicate light name",
			lightName: "hearth",
			light:     &fakeLight{},
			setup: func(r *Registry) {
				_ = r.RegisterLight("hearth", &fakeLight{})
			},
			wantErr: ErrDuplicateName,
		},
		{
			name:      "name taken by group",
			lightName: "all",
			light:     &fakeLight{},
			setup: func(r *Registry) {
				_ = r.RegisterLight("hearth", &fakeLight{})
				_ = r.RegisterGroup("all", "hearth")
			},
			wantErr: ErrDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if tt.setup != nil {
				tt.setup(r)
			}

			err := r.RegisterLight(tt.lightName, tt.light)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("RegisterLight() error = %v, want nil", err)
				}
				if !r.Has(tt.lightName) {
					t.Errorf("Has(%q) = false after registration", tt.lightName)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RegisterLight() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterGroup(t *testing.T) {
	tests := []struct {
		name      string
		groupName string
		members   []string
		wantErr   error
	}{
		{
			name:      "valid group",
			groupName: "mantel",
			members:   []string{"left", "right"},
		},
		{
			name:      "empty group name",
			groupName: "",
			members:   []string{"left"},
			wantErr:   ErrInvalidName,
		},
		{
			name:      "no members",
			groupName: "mantel",
			members:   nil,
			wantErr:   ErrEmptyGroup,
		},
		{
			name:      "unknown member",
			groupName: "mantel",
			members:   []string{"left", "ghost"},
			wantErr:   ErrUnknownName,
		},
		{
			name:      "member listed twice",
			groupName: "mantel",
			members:   []string{"left", "left"},
			wantErr:   ErrDuplicateName,
		},
		{
			name:      "name taken by light",
			groupName: "left",
			members:   []string{"right"},
			wantErr:   ErrDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t, "left", "right")

			err := r.RegisterGroup(tt.groupName, tt.members...)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("RegisterGroup() error = %v, want nil", err)
				}
				if !r.Has(tt.groupName) {
					t.Errorf("Has(%q) = false after registration", tt.groupName)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RegisterGroup() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterGroupRejectsNestedGroup(t *testing.T) {
	r := newTestRegistry(t, "left", "right")
	if err := r.RegisterGroup("inner", "left"); err != nil {
		t.Fatalf("RegisterGroup(inner): %v", err)
	}

	// Groups are flat: a group name is not a valid member.
	err := r.RegisterGroup("outer", "inner", "right")
	if !errors.Is(err, ErrUnknownName) {
		t.Errorf("RegisterGroup with group member error = %v, want ErrUnknownName", err)
	}
}

func TestResolveLight(t *testing.T) {
	r := NewRegistry()
	hearth := &fakeLight{name: "hearth"}
	if err := r.RegisterLight("hearth", hearth); err != nil {
		t.Fatalf("RegisterLight: %v", err)
	}

	lights, err := r.Resolve("hearth")
	if err != nil {
		t.Fatalf("Resolve(hearth): %v", err)
	}
	if len(lights) != 1 {
		t.Fatalf("Resolve(hearth) returned %d handles, want 1", len(lights))
	}
	if lights[0] != Light(hearth) {
		t.Error("Resolve(hearth) returned a different handle than registered")
	}
}

func TestResolveGroupPreservesOrder(t *testing.T) {
	r := NewRegistry()
	lightA := &fakeLight{name: "a"}
	lightB := &fakeLight{name: "b"}
	lightC := &fakeLight{name: "c"}
	for name, l := range map[string]*fakeLight{"a": lightA, "b": lightB, "c": lightC} {
		if err := r.RegisterLight(name, l); err != nil {
			t.Fatalf("RegisterLight(%q): %v", name, err)
		}
	}

	// Registration order is deliberately not alphabetical.
	if err := r.RegisterGroup("trio", "c", "a", "b"); err != nil {
		t.Fatalf("RegisterGroup: %v", err)
	}

	lights, err := r.Resolve("trio")
	if err != nil {
		t.Fatalf("Resolve(trio): %v", err)
	}

	want := []*fakeLight{lightC, lightA, lightB}
	if len(lights) != len(want) {
		t.Fatalf("Resolve(trio) returned %d handles, want %d", len(lights), len(want))
	}
	for i, l := range lights {
		if l != Light(want[i]) {
			t.Errorf("Resolve(trio)[%d] = %v, want %v", i, l, want[i].name)
		}
	}
}

func TestResolveUnknownName(t *testing.T) {
	r := newTestRegistry(t, "hearth")

	_, err := r.Resolve("nonexistent")
	if !errors.Is(err, ErrUnknownName) {
		t.Errorf("Resolve(nonexistent) error = %v, want ErrUnknownName", err)
	}
}

func TestMembers(t *testing.T) {
	r := newTestRegistry(t, "left", "right")
	if err := r.RegisterGroup("mantel", "right", "left"); err != nil {
		t.Fatalf("RegisterGroup: %v", err)
	}

	members, err := r.Members("mantel")
	if err != nil {
		t.Fatalf("Members(mantel): %v", err)
	}
	if len(members) != 2 || members[0] != "right" || members[1] != "left" {
		t.Errorf("Members(mantel) = %v, want [right left]", members)
	}

	// The returned slice is a copy; mutating it must not affect the registry.
	members[0] = "mutated"
	again, err := r.Members("mantel")
	if err != nil {
		t.Fatalf("Members(mantel) second call: %v", err)
	}
	if again[0] != "right" {
		t.Errorf("Members() copy not isolated: got %v", again)
	}

	if _, err := r.Members("left"); !errors.Is(err, ErrUnknownName) {
		t.Errorf("Members(light name) error = %v, want ErrUnknownName", err)
	}
}

func TestCountsAndNames(t *testing.T) {
	r := newTestRegistry(t, "beta", "alpha")
	if err := r.RegisterGroup("pair", "alpha", "beta"); err != nil {
		t.Fatalf("RegisterGroup: %v", err)
	}

	if got := r.LightCount(); got != 2 {
		t.Errorf("LightCount() = %d, want 2", got)
	}
	if got := r.GroupCount(); got != 1 {
		t.Errorf("GroupCount() = %d, want 1", got)
	}

	names := r.LightNames()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("LightNames() = %v, want [alpha beta]", names)
	}
	groups := r.GroupNames()
	if len(groups) != 1 || groups[0] != "pair" {
		t.Errorf("GroupNames() = %v, want [pair]", groups)
	}
}

// TestRegistryConcurrency hammers the registry from multiple goroutines to
// surface data races under the race detector.
func TestRegistryConcurrency(t *testing.T) {
	r := newTestRegistry(t, "base")

	const workers = 10
	const iterations = 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				name := fmt.Sprintf("light-%d-%d", id, i)
				if err := r.RegisterLight(name, &fakeLight{name: name}); err != nil {
					t.Errorf("RegisterLight(%q): %v", name, err)
					return
				}
				if _, err := r.Resolve("base"); err != nil {
					t.Errorf("Resolve(base): %v", err)
					return
				}
				_ = r.LightNames()
				_ = r.Has(name)
			}
		}(w)
	}
	wg.Wait()

	want := 1 + workers*iterations
	if got := r.LightCount(); got != want {
		t.Errorf("LightCount() = %d, want %d", got, want)
	}
}
