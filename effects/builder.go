package effects

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/show-logic-core/audio"
	"github.com/nerrad567/show-logic-core/device"
	"github.com/nerrad567/show-logic-core/effects/easing"
)

// Forever marks a section as repeating until playback is cancelled.
const Forever = -1

// Logger defines the logging interface used by the Show.
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

// SectionConfig configures one scheduling of a section.
type SectionConfig struct {
	// Name makes the section a reusable named template. Opening a name
	// again schedules the same template and may append to it. Anonymous
	// sections (empty name) are scheduled exactly once.
	Name string

	// Parallel controls whether the section's children run concurrently.
	// nil inherits the template's last explicitly-set value (false when
	// never set); an explicit value applies to this scheduling and becomes
	// the template's new default.
	Parallel *bool

	// Repeat is the number of sequential full iterations. 0 and 1 both
	// mean a single iteration; Forever repeats until cancellation. Repeats
	// never run concurrently with each other, regardless of Parallel.
	Repeat int
}

// Bool returns a pointer to v, for SectionConfig.Parallel.
func Bool(v bool) *bool {
	return &v
}

// Show records a timeline of effects and plays it back.
//
// A show owns its device registry and its named-section templates; nothing
// is shared between instances. Builder methods validate fail-fast: naming
// and configuration errors surface at recording time, before Play.
//
// Recording is single-owner — builder calls must come from one goroutine,
// and a show must not be recorded and played concurrently.
type Show struct {
	id   string
	name string

	devices *device.Registry
	player  audio.Player

	sections map[string]*sectionTemplate
	root     *sectionTemplate
	stack    []*sectionTemplate

	observer Observer
	logger   Logger
	tick     time.Duration // colour transition cadence
}

// New creates an empty show with its own device and section registries.
func New(name string) *Show {
	root := &sectionTemplate{id: GenerateID()}
	return &Show{
		id:       GenerateID(),
		name:     name,
		devices:  device.NewRegistry(),
		sections: make(map[string]*sectionTemplate),
		root:     root,
		stack:    []*sectionTemplate{root},
		logger:   noopLogger{},
		tick:     defaultTransitionTick,
	}
}

// ID returns the show's generated identifier.
func (s *Show) ID() string { return s.id }

// Name returns the show's name.
func (s *Show) Name() string { return s.name }

// SetLogger sets the logger for the show and its device registry.
func (s *Show) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	s.logger = logger
	s.devices.SetLogger(logger)
}

// SetObserver sets the observer notified of leaf dispatches during playback.
func (s *Show) SetObserver(o Observer) {
	s.observer = o
}

// SetDefaultPlayer sets the audio player used by sounds recorded without an
// override. It may be called any time before Play.
func (s *Show) SetDefaultPlayer(p audio.Player) {
	s.player = p
}

// AddLight registers a light capability under the given name.
// Names are shared with groups; see device.Registry.
func (s *Show) AddLight(name string, light device.Light) error {
	return s.devices.RegisterLight(name, light)
}

// AddLightGroup registers a group of previously-registered lights. Light
// effects targeting the group fan out to every member.
func (s *Show) AddLightGroup(name string, members ...string) error {
	return s.devices.RegisterGroup(name, members...)
}

// AddLightOn records switching a light or group on.
func (s *Show) AddLightOn(name string) error {
	if err := s.requireName(name); err != nil {
		return err
	}
	s.appendNode(lightOnNode{name: name})
	return nil
}

// AddLightOff records switching a light or group off.
func (s *Show) AddLightOff(name string) error {
	if err := s.requireName(name); err != nil {
		return err
	}
	s.appendNode(lightOffNode{name: name})
	return nil
}

// AddLightColour records applying a colour to a light or group. Channel
// values are passed to the backend untouched.
func (s *Show) AddLightColour(name string, colour device.Colour) error {
	if err := s.requireName(name); err != nil {
		return err
	}
	s.appendNode(lightColourNode{name: name, colour: colour})
	return nil
}

// AddLightColourTransition records an eased sweep from one colour to
// another over the given duration.
//
// The easing identifier is resolved immediately — see the easing package
// for the accepted identifiers. A zero duration dispatches the start and
// end colours back to back.
//
// Returns ErrInvalidConfig for a negative duration or unknown easing, and
// device.ErrUnknownName for an unregistered target.
func (s *Show) AddLightColourTransition(name string, from, to device.Colour, duration time.Duration, easingKind string) error {
	if err := s.requireName(name); err != nil {
		return err
	}
	if duration < 0 {
		return fmt.Errorf("%w: transition duration %v is negative", ErrInvalidConfig, duration)
	}
	curve, err := easing.Resolve(easingKind)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	s.appendNode(colourTransitionNode{
		name:     name,
		from:     from,
		to:       to,
		duration: duration,
		easing:   easingKind,
		curve:    curve,
	})
	return nil
}

// AddSound records dispatching a sound file. Playback is fire-and-forget:
// the branch moves on as soon as the sound is handed to the player, so a
// following AddDelay provides audible duration.
//
// An optional player overrides the show's default for this sound only.
func (s *Show) AddSound(path string, player ...audio.Player) error {
	if path == "" {
		return fmt.Errorf("%w: sound path is empty", ErrInvalidConfig)
	}
	if len(player) > 1 {
		return fmt.Errorf("%w: at most one player override", ErrInvalidConfig)
	}

	n := soundNode{path: path}
	if len(player) == 1 {
		if player[0] == nil {
			return fmt.Errorf("%w: nil player override", ErrInvalidConfig)
		}
		n.player = player[0]
	}
	s.appendNode(n)
	return nil
}

// AddDelay records suspending the branch for the given duration. Inside a
// sequential scope this blocks subsequent siblings; inside a parallel scope
// it delays only its own branch.
func (s *Show) AddDelay(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: delay %v is negative", ErrInvalidConfig, d)
	}
	s.appendNode(delayNode{duration: d})
	return nil
}

// AddCustom records invoking fn during playback. The function runs on the
// branch's goroutine and is awaited before the branch advances; it may
// block. Inputs are captured by closing over them. The context is the play
// context — long-running functions should honour its cancellation.
func (s *Show) AddCustom(fn func(ctx context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("%w: custom effect function is nil", ErrInvalidConfig)
	}
	s.appendNode(customNode{fn: fn})
	return nil
}

// Section opens a scope, runs body to record the scope's children, and
// closes the scope again.
//
// Opening a new name registers a template; opening a known name schedules
// the existing template again — effects recorded by body are appended to
// the shared template and become part of every scheduling of that name. A
// nil body schedules a named template without appending to it.
//
// The scope is closed even when body returns an error, so a failed
// recording leaves the stack balanced.
//
// Returns ErrInvalidConfig for a repeat below Forever, or body's error.
func (s *Show) Section(cfg SectionConfig, body func() error) error {
	repeat, err := normaliseRepeat(cfg.Repeat)
	if err != nil {
		return err
	}

	tpl := s.templateFor(cfg.Name)

	// Resolve the effective parallel flag for this scheduling. Explicit
	// values become the template's default for future inherit-mode refs.
	parallel := tpl.resolvedParallel
	if cfg.Parallel != nil {
		parallel = *cfg.Parallel
		tpl.resolvedParallel = parallel
	}

	s.appendNode(sectionRefNode{template: tpl, parallel: parallel, repeat: repeat})

	s.stack = append(s.stack, tpl)
	defer func() {
		s.stack = s.stack[:len(s.stack)-1]
	}()

	if body == nil {
		return nil
	}
	return body()
}

// templateFor returns the template a section name refers to, creating and
// registering it on first use. Anonymous sections get a fresh template with
// a generated id each time.
func (s *Show) templateFor(name string) *sectionTemplate {
	if name == "" {
		return &sectionTemplate{id: GenerateID()}
	}
	if tpl, ok := s.sections[name]; ok {
		return tpl
	}
	tpl := &sectionTemplate{id: name}
	s.sections[name] = tpl
	return tpl
}

// appendNode adds a node to the children of the innermost open scope.
func (s *Show) appendNode(n node) {
	top := s.stack[len(s.stack)-1]
	top.children = append(top.children, n)
}

// requireName fails fast when a light or group has not been registered.
func (s *Show) requireName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: light name is empty", ErrInvalidConfig)
	}
	if !s.devices.Has(name) {
		return fmt.Errorf("%w: %q", device.ErrUnknownName, name)
	}
	return nil
}

// normaliseRepeat validates a repeat count. Zero means unset and is treated
// as a single iteration.
func normaliseRepeat(repeat int) (int, error) {
	switch {
	case repeat == Forever:
		return Forever, nil
	case repeat < 0:
		return 0, fmt.Errorf("%w: repeat %d (use effects.Forever for unbounded)", ErrInvalidConfig, repeat)
	case repeat == 0:
		return 1, nil
	default:
		return repeat, nil
	}
}
