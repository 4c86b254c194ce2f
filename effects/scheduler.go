package effects

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/show-logic-core/device"
	"github.com/nerrad567/show-logic-core/effects/easing"
)

// defaultTransitionTick is the cadence at which colour transitions emit
// intermediate values. Tests lower it via Show.tick.
const defaultTransitionTick = 100 * time.Millisecond

// Play executes the recorded timeline from the beginning.
//
// Play blocks until every scheduled effect has run, failed, or been
// abandoned by cancellation of ctx. The returned Execution always carries
// the outcome; consult its Status to distinguish completed, partial,
// failed and cancelled runs. The returned error joins the individual
// effect failures and is nil when no dispatched effect failed — including
// a run cancelled before anything went wrong.
//
// A failed effect aborts the rest of its own sequential branch. Inside a
// parallel section the abort stops at the section boundary: sibling
// branches run to completion and playback continues after the join.
// Cancellation, by contrast, unwinds everything — no further effects are
// dispatched, and already-dispatched sounds are left to play out.
//
// Returns ErrOpenSection without running anything when a Section scope is
// still open, and ErrNoPlayer when a sound was recorded without a player
// override and no default player is configured.
func (s *Show) Play(ctx context.Context) (*Execution, error) {
	if open := len(s.stack) - 1; open > 0 {
		return nil, fmt.Errorf("%w: %d scope(s) still open", ErrOpenSection, open)
	}
	if s.player == nil && needsDefaultPlayer(s.root, make(map[*sectionTemplate]bool)) {
		return nil, fmt.Errorf("%w: recorded sounds have no override and no default is set", ErrNoPlayer)
	}

	exec := &Execution{
		ID:        GenerateID(),
		ShowID:    s.id,
		ShowName:  s.name,
		StartedAt: time.Now().UTC(),
		Status:    StatusRunning,
	}

	x := &executor{show: s, exec: exec, tick: s.tick}

	s.logger.Info("starting show playback",
		"show", s.name,
		"execution_id", exec.ID)

	err := x.runSection(ctx, sectionRefNode{template: s.root, parallel: false, repeat: 1})

	exec.CompletedAt = time.Now().UTC()
	switch {
	case ctx.Err() != nil:
		exec.Status = StatusCancelled
	case err != nil:
		// The failure unwound the root branch itself, so nothing after
		// the failing effect ran.
		exec.Status = StatusFailed
	case exec.EffectsFailed > 0:
		exec.Status = StatusPartial
	default:
		exec.Status = StatusCompleted
	}

	s.logger.Info("show playback finished",
		"show", s.name,
		"execution_id", exec.ID,
		"status", string(exec.Status),
		"dispatched", exec.EffectsDispatched,
		"completed", exec.EffectsCompleted,
		"failed", exec.EffectsFailed,
		"duration", exec.Duration().String())

	return exec, errors.Join(x.errs...)
}

// executor carries the mutable state of one Play call. Counter and failure
// updates are serialised by mu because parallel sections dispatch from
// multiple goroutines.
type executor struct {
	show *Show
	exec *Execution
	tick time.Duration

	mu   sync.Mutex
	errs []error
}

// runSection runs one scheduling of a section: repeat full iterations of
// its children, sequentially or in parallel.
//
// Children are read from the template at the top of every iteration, not
// captured up front, so effects appended to a shared template between
// schedulings — or between iterations — take part in later passes.
func (x *executor) runSection(ctx context.Context, ref sectionRefNode) error {
	for iteration := 0; ref.repeat == Forever || iteration < ref.repeat; iteration++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		children := ref.template.children

		var err error
		if ref.parallel {
			err = x.runParallel(ctx, children)
		} else {
			err = x.runSequential(ctx, children)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (x *executor) runSequential(ctx context.Context, children []node) error {
	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := x.runNode(ctx, child); err != nil {
			return err
		}
	}
	return nil
}

// runParallel starts every child on its own goroutine and waits for all of
// them. Child failures are recorded where they happen and deliberately not
// propagated past the join — a failed branch must not tear down its
// siblings. Only cancellation crosses the boundary.
func (x *executor) runParallel(ctx context.Context, children []node) error {
	var wg sync.WaitGroup
	for _, child := range children {
		wg.Add(1)
		go func(n node) {
			defer wg.Done()
			_ = x.runNode(ctx, n)
		}(child)
	}
	wg.Wait()
	return ctx.Err()
}

func (x *executor) runNode(ctx context.Context, n node) error {
	if ref, ok := n.(sectionRefNode); ok {
		return x.runSection(ctx, ref)
	}
	return x.runLeaf(ctx, n)
}

// runLeaf dispatches a single effect and accounts for its outcome. A leaf
// interrupted by cancellation is neither completed nor failed; it simply
// never finished.
func (x *executor) runLeaf(ctx context.Context, n node) error {
	x.leafStarted(n)

	err := x.dispatch(ctx, n)
	if err == nil {
		x.leafCompleted(n)
		return nil
	}
	if isCancellation(ctx, err) {
		return err
	}
	x.leafFailed(n, err)
	return err
}

func (x *executor) dispatch(ctx context.Context, n node) error {
	switch v := n.(type) {
	case lightOnNode:
		return x.dispatchLights(ctx, v.name, func(ctx context.Context, l device.Light) error {
			return l.TurnOn(ctx)
		})
	case lightOffNode:
		return x.dispatchLights(ctx, v.name, func(ctx context.Context, l device.Light) error {
			return l.TurnOff(ctx)
		})
	case lightColourNode:
		return x.setColour(ctx, v.name, v.colour)
	case colourTransitionNode:
		return x.runTransition(ctx, v)
	case soundNode:
		return x.playSound(ctx, v)
	case delayNode:
		return x.runDelay(ctx, v.duration)
	case customNode:
		return v.fn(ctx)
	default:
		return fmt.Errorf("%w: unsupported effect kind %q", ErrInvalidConfig, n.kind())
	}
}

// dispatchLights resolves a light or group name and applies op to every
// handle. Group members are driven concurrently and all of them are
// awaited, so a slow member holds the branch but never leaks past it.
func (x *executor) dispatchLights(ctx context.Context, name string, op func(context.Context, device.Light) error) error {
	lights, err := x.show.devices.Resolve(name)
	if err != nil {
		return err
	}
	if len(lights) == 1 {
		return op(ctx, lights[0])
	}

	var g errgroup.Group
	for _, l := range lights {
		light := l
		g.Go(func() error {
			return op(ctx, light)
		})
	}
	return g.Wait()
}

func (x *executor) setColour(ctx context.Context, name string, colour device.Colour) error {
	return x.dispatchLights(ctx, name, func(ctx context.Context, l device.Light) error {
		return l.SetColour(ctx, colour[0], colour[1], colour[2])
	})
}

// runDelay suspends the branch, waking early only for cancellation.
func (x *executor) runDelay(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return fmt.Errorf("delay interrupted: %w", ctx.Err())
	}
}

// playSound hands the file to the per-sound override or the show default
// and returns as soon as playback has been dispatched.
func (x *executor) playSound(ctx context.Context, n soundNode) error {
	player := n.player
	if player == nil {
		player = x.show.player
	}
	if player == nil {
		return fmt.Errorf("%w: sound %q", ErrNoPlayer, n.path)
	}
	return player.Play(ctx, n.path)
}

// runTransition sweeps a light from one colour to another. The exact start
// and end colours are always dispatched; intermediate values are emitted on
// the executor tick with progress measured against the wall clock, so a
// slow backend skips steps rather than stretching the transition.
func (x *executor) runTransition(ctx context.Context, n colourTransitionNode) error {
	if err := x.setColour(ctx, n.name, n.from); err != nil {
		return err
	}

	if n.duration > 0 {
		start := time.Now()
		ticker := time.NewTicker(x.tick)
		defer ticker.Stop()

	sweep:
		for {
			select {
			case <-ticker.C:
				progress := float64(time.Since(start)) / float64(n.duration)
				if progress >= 1 {
					break sweep
				}
				if err := x.setColour(ctx, n.name, blendColour(n.curve, n.from, n.to, progress)); err != nil {
					return err
				}
			case <-ctx.Done():
				return fmt.Errorf("transition interrupted: %w", ctx.Err())
			}
		}
	}

	return x.setColour(ctx, n.name, n.to)
}

// blendColour eases each channel independently and rounds to the nearest
// step. Channel values are opaque here; hue wrapping or colour-space
// conversion is the backend's business.
func blendColour(curve easing.Curve, from, to device.Colour, t float64) device.Colour {
	var out device.Colour
	for i := range out {
		out[i] = int(math.Round(easing.Interpolate(curve, float64(from[i]), float64(to[i]), t)))
	}
	return out
}

func (x *executor) leafStarted(n node) {
	x.mu.Lock()
	x.exec.EffectsDispatched++
	x.mu.Unlock()

	x.notifyStarted(Event{Kind: string(n.kind()), Target: n.target(), At: time.Now().UTC()})
}

func (x *executor) leafCompleted(n node) {
	x.mu.Lock()
	x.exec.EffectsCompleted++
	x.mu.Unlock()

	x.notifyCompleted(Event{Kind: string(n.kind()), Target: n.target(), At: time.Now().UTC()})
}

func (x *executor) leafFailed(n node, err error) {
	now := time.Now().UTC()

	x.mu.Lock()
	x.exec.EffectsFailed++
	x.exec.Failures = append(x.exec.Failures, EffectFailure{
		Kind:     string(n.kind()),
		Target:   n.target(),
		ErrorMsg: err.Error(),
		At:       now,
	})
	x.errs = append(x.errs, err)
	x.mu.Unlock()

	x.show.logger.Warn("effect failed",
		"show", x.show.name,
		"execution_id", x.exec.ID,
		"kind", string(n.kind()),
		"target", n.target(),
		"error", err)

	x.notifyCompleted(Event{Kind: string(n.kind()), Target: n.target(), At: now, Err: err})
}

func (x *executor) notifyStarted(ev Event) {
	if x.show.observer != nil {
		x.show.observer.EffectStarted(ev)
	}
}

func (x *executor) notifyCompleted(ev Event) {
	if x.show.observer != nil {
		x.show.observer.EffectCompleted(ev)
	}
}

// isCancellation reports whether err is the play context's cancellation
// surfacing, as opposed to an effect failing on its own. Backends may
// legitimately return context errors of their own making; those only count
// as cancellation once the play context itself has been cancelled.
func isCancellation(ctx context.Context, err error) bool {
	if ctx.Err() == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// needsDefaultPlayer walks the recorded timeline looking for a sound that
// would fall back to the show default. Visited templates are tracked so a
// self-referencing template cannot loop the walk.
func needsDefaultPlayer(tpl *sectionTemplate, seen map[*sectionTemplate]bool) bool {
	if seen[tpl] {
		return false
	}
	seen[tpl] = true

	for _, child := range tpl.children {
		switch v := child.(type) {
		case soundNode:
			if v.player == nil {
				return true
			}
		case sectionRefNode:
			if needsDefaultPlayer(v.template, seen) {
				return true
			}
		}
	}
	return false
}
