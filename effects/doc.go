// Package effects provides the show recording and scheduling engine for
// Show Logic Core.
//
// A Show is recorded declaratively: builder calls append leaf effects
// (light commands, colour transitions, sounds, delays, custom callbacks) to
// the innermost open section, and sections nest to describe sequential or
// parallel structure. Playback walks the recorded tree and dispatches
// leaves with the declared ordering — callers never write concurrency code.
//
// Architecture:
//
//	┌─────────────────────────────────────────────────────────┐
//	│                   Show (builder.go)                      │
//	│  Records the timeline: scope stack + named templates     │
//	│  ┌──────────────┐     ┌──────────────────┐              │
//	│  │ device.      │     │ section templates │              │
//	│  │ Registry     │     │ (name → children) │              │
//	│  └──────────────┘     └──────────────────┘              │
//	│         │                      │                         │
//	│         ▼                      ▼                         │
//	│  ┌──────────────────────────────────────────────┐       │
//	│  │  Playback (scheduler.go)                      │       │
//	│  │  1. Sequential scopes: one child at a time    │       │
//	│  │  2. Parallel scopes: goroutine per child +    │       │
//	│  │     join before the scope completes           │       │
//	│  │  3. Repeats loop whole iterations; Forever    │       │
//	│  │     runs until the context is cancelled       │       │
//	│  │  4. Leaves dispatch to lights/players;        │       │
//	│  │     transitions tick eased colours            │       │
//	│  │  5. Result recorded as an Execution           │       │
//	│  └──────────────────────────────────────────────┘       │
//	└─────────────────────────────────────────────────────────┘
//
// # Sections
//
// A section groups effects with its own parallel flag and repeat count.
// Named sections are persistent templates: re-opening a name schedules the
// same template again, and children added during any reuse become part of
// the shared template. Templates are read at playback time, so every
// scheduling of a name plays the template's current contents. Anonymous
// sections are scheduled exactly once and never alias each other.
//
// # Failure and cancellation
//
// A failed leaf aborts its own branch: the remaining effects of the
// enclosing scope chain are skipped up to the nearest parallel fork.
// Parallel siblings are never cancelled by a sibling's failure; the scope's
// join always waits for every branch. Cancelling the Play context stops
// playback cooperatively at the next dispatch or iteration boundary —
// effects already dispatched are not recalled. The returned Execution
// distinguishes completed, partial, failed and cancelled outcomes.
//
// # Thread Safety
//
// Recording is single-owner: builder calls must come from one goroutine.
// Playback is internally concurrent and safe; recording into a show while
// it is playing is a caller error.
//
// # Usage
//
//	show := effects.New("fireplace")
//	_ = show.AddLight("hearth", hearthLight)
//	_ = show.AddLight("ember", emberLight)
//	_ = show.AddLightGroup("all", "hearth", "ember")
//
//	_ = show.AddLightOn("all")
//	_ = show.Section(effects.SectionConfig{Parallel: effects.Bool(true)}, func() error {
//	    if err := show.AddLightColourTransition("hearth", warm, amber, 2*time.Second, easing.SineInOut); err != nil {
//	        return err
//	    }
//	    return show.AddSound("crackle.wav")
//	})
//
//	exec, err := show.Play(ctx)
package effects
