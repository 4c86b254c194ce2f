package effects

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/show-logic-core/audio"
	"github.com/nerrad567/show-logic-core/device"
	"github.com/nerrad567/show-logic-core/effects/easing"
)

// effectKind identifies a node variant in events, failure records and logs.
type effectKind string

const (
	kindLightOn          effectKind = "light_on"
	kindLightOff         effectKind = "light_off"
	kindLightColour      effectKind = "light_colour"
	kindColourTransition effectKind = "colour_transition"
	kindSound            effectKind = "sound"
	kindDelay            effectKind = "delay"
	kindCustom           effectKind = "custom"
	kindSection          effectKind = "section"
)

// node is one element of a recorded timeline. Leaf nodes dispatch a single
// action; section refs schedule a template with a repeat count and a
// resolved parallel flag. The set of variants is closed within this package.
type node interface {
	kind() effectKind
	target() string
}

// lightOnNode switches a light or every member of a group on.
type lightOnNode struct {
	name string
}

func (lightOnNode) kind() effectKind { return kindLightOn }
func (n lightOnNode) target() string { return n.name }

// lightOffNode switches a light or every member of a group off.
type lightOffNode struct {
	name string
}

func (lightOffNode) kind() effectKind { return kindLightOff }
func (n lightOffNode) target() string { return n.name }

// lightColourNode applies a colour to a light or group.
type lightColourNode struct {
	name   string
	colour device.Colour
}

func (lightColourNode) kind() effectKind { return kindLightColour }
func (n lightColourNode) target() string { return n.name }

// colourTransitionNode sweeps a light or group between two colours over a
// duration, eased by the curve resolved at recording time.
type colourTransitionNode struct {
	name     string
	from     device.Colour
	to       device.Colour
	duration time.Duration
	easing   string
	curve    easing.Curve
}

func (colourTransitionNode) kind() effectKind { return kindColourTransition }
func (n colourTransitionNode) target() string { return n.name }

// soundNode dispatches a sound file to an audio player. A nil player means
// the show's default player.
type soundNode struct {
	path   string
	player audio.Player
}

func (soundNode) kind() effectKind { return kindSound }
func (n soundNode) target() string { return n.path }

// delayNode suspends its branch for a duration.
type delayNode struct {
	duration time.Duration
}

func (delayNode) kind() effectKind { return kindDelay }
func (n delayNode) target() string { return n.duration.String() }

// customNode invokes a caller-provided function and waits for it.
type customNode struct {
	fn func(ctx context.Context) error
}

func (customNode) kind() effectKind { return kindCustom }
func (customNode) target() string   { return "" }

// sectionRefNode schedules a template. The parallel flag is resolved when
// the scope opens; the template's children are read at playback time.
type sectionRefNode struct {
	template *sectionTemplate
	parallel bool
	repeat   int
}

func (sectionRefNode) kind() effectKind { return kindSection }
func (n sectionRefNode) target() string { return n.template.id }

// sectionTemplate is the persistent definition behind a section. Named
// templates are shared: every scheduling of the name points at the same
// template, and children appended during a reuse are visible to all of
// them. Anonymous templates get a generated id and a single ref.
type sectionTemplate struct {
	id               string
	children         []node
	resolvedParallel bool // last explicitly-supplied parallel value
}

// GenerateID creates a new UUID for an execution or anonymous section.
func GenerateID() string {
	return uuid.New().String()
}
