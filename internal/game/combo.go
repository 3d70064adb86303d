package game

import (
	"time"

	"mazerun/internal/config"
	"mazerun/internal/mathutil"
)

// ComboScorer is the movement-driven combo state machine. It consumes
// discrete player-move events carrying the new distance-to-goal and
// produces combo counts, decay, and milestone notifications.
//
// All gameplay timers here are frame counters stepped by Tick, not
// wall-clock callbacks, so the machine is deterministic and testable
// by stepping frames. Only the spacing between two moves compares the
// timestamps the input layer supplies.
type ComboScorer struct {
	cfg config.ComboConfig

	decayWindowFrames int
	cooldownFrames    int

	combo    int
	maxCombo int

	prevDistance int
	hasPrev      bool
	lastMove     time.Time
	hasLast      bool

	// decayRemaining counts down to the next idle decay; -1 disarmed.
	decayRemaining    int
	cooldownRemaining int

	// decayedSinceMove marks that the current idle gap has already been
	// charged, so the timestamp check on the next move must not charge
	// it again.
	decayedSinceMove bool

	fired []bool
	emit  Listener
}

// NewComboScorer builds a scorer against the rules table. emit may be
// nil.
func NewComboScorer(cfg *config.Config, emit Listener) *ComboScorer {
	return &ComboScorer{
		cfg:               cfg.Combo,
		decayWindowFrames: cfg.FramesFromMs(cfg.Combo.DecayWindowMs),
		cooldownFrames:    cfg.FramesFromMs(cfg.Combo.CooldownMs),
		decayRemaining:    -1,
		fired:             make([]bool, len(cfg.Combo.Milestones)),
		emit:              emit,
	}
}

// Reset clears all combo state and cancels pending timers. Level start
// and session teardown. startDistance seeds the distance baseline so
// the first move of a level can already count as progress.
func (c *ComboScorer) Reset(startDistance int) {
	c.combo = 0
	c.maxCombo = 0
	c.prevDistance = startDistance
	c.hasPrev = true
	c.hasLast = false
	c.decayRemaining = -1
	c.cooldownRemaining = 0
	c.decayedSinceMove = false
	for i := range c.fired {
		c.fired[i] = false
	}
}

// Combo returns the current combo count.
func (c *ComboScorer) Combo() int { return c.combo }

// MaxCombo returns the highest combo reached since the last reset.
func (c *ComboScorer) MaxCombo() int { return c.maxCombo }

// CanBuild reports whether combo-building is currently permitted
// (false during the post-decay cooldown).
func (c *ComboScorer) CanBuild() bool { return c.cooldownRemaining == 0 }

// RecordMove feeds one player-move event with the new Manhattan
// distance to the goal and the move's timestamp.
//
// The decay window and the fresh-move branch are mutually exclusive on
// a strict-less-than comparison: elapsed < decayWindow means no decay;
// anything else charges the idle gap exactly once (and starts the
// cooldown) before the move is classified, so the move cannot build.
// A gap already charged by the frame timer in Tick is never charged
// again here.
func (c *ComboScorer) RecordMove(distanceToGoal int, now time.Time) {
	elapsed := time.Duration(-1)
	if c.hasLast {
		elapsed = now.Sub(c.lastMove)
		if elapsed >= c.cfg.DecayWindow() && !c.decayedSinceMove {
			c.applyDecay()
		}
	}

	if c.hasPrev {
		switch {
		case distanceToGoal < c.prevDistance:
			fast := !c.hasLast || elapsed <= c.cfg.FastThreshold()
			switch {
			case fast && c.CanBuild():
				c.increment()
			case c.hasLast && elapsed > c.cfg.SlowThreshold() && !c.decayedSinceMove:
				// Slower than the grace zone with nothing charged for
				// this gap yet: the streak loses a point.
				c.decrement()
			}
			// Between fast and slow thresholds: grace zone, no change.
		case distanceToGoal > c.prevDistance:
			c.decrement()
		}
		// Equal distance: no change.
	}

	c.prevDistance = distanceToGoal
	c.hasPrev = true
	c.lastMove = now
	c.hasLast = true
	c.decayRemaining = c.decayWindowFrames
	c.decayedSinceMove = false
}

// Tick advances the frame-counter timers: the post-decay cooldown
// first, then the idle decay window.
func (c *ComboScorer) Tick() {
	if c.cooldownRemaining > 0 {
		c.cooldownRemaining--
		if c.cooldownRemaining == 0 && c.hasLast {
			// Building re-enabled; idling further drains another point.
			c.decayRemaining = c.decayWindowFrames
		}
		return
	}
	if c.decayRemaining > 0 {
		c.decayRemaining--
		if c.decayRemaining == 0 {
			c.applyDecay()
		}
	}
}

// ResetCombo zeroes the combo (wall hits, unshielded agent hits) while
// leaving maxCombo and the timers intact.
func (c *ComboScorer) ResetCombo() {
	c.combo = 0
	c.rearmMilestones()
}

func (c *ComboScorer) increment() {
	c.combo++
	c.maxCombo = mathutil.IntMax(c.maxCombo, c.combo)
	for i, threshold := range c.cfg.Milestones {
		if c.combo >= threshold && !c.fired[i] {
			c.fired[i] = true
			c.fire(Event{Kind: EventComboMilestone, Combo: c.combo, Milestone: threshold})
		}
	}
}

func (c *ComboScorer) decrement() {
	c.combo = mathutil.IntMax(0, c.combo-1)
	c.rearmMilestones()
}

// applyDecay takes one combo point and suspends building for the
// cooldown window. The decay timer disarms until the cooldown expires
// or the next move re-arms it.
func (c *ComboScorer) applyDecay() {
	c.decrement()
	c.cooldownRemaining = c.cooldownFrames
	c.decayRemaining = -1
	c.decayedSinceMove = true
}

// rearmMilestones re-arms every tier the combo has fallen below, so a
// rebuilt combo fires them again.
func (c *ComboScorer) rearmMilestones() {
	for i, threshold := range c.cfg.Milestones {
		if c.combo < threshold {
			c.fired[i] = false
		}
	}
}

func (c *ComboScorer) fire(e Event) {
	if c.emit != nil {
		c.emit(e)
	}
}
