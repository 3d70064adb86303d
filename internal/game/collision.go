package game

import (
	"math/rand"

	"mazerun/internal/agent"
	"mazerun/internal/mathutil"
)

// CollisionResolver evaluates player-vs-wall and player-vs-agent
// collision outcomes against the session's persistent counters.
type CollisionResolver struct {
	session *Session
}

// NewCollisionResolver binds a resolver to its session.
func NewCollisionResolver(session *Session) *CollisionResolver {
	return &CollisionResolver{session: session}
}

// ResolveWallHit applies the wall-bump outcome: the combo resets, the
// wall-hit counter advances, and a feedback intent goes out for the
// presentation layer's screen shake.
func (r *CollisionResolver) ResolveWallHit() {
	s := r.session
	s.scorer.ResetCombo()
	s.wallHits++
	s.emit(Event{Kind: EventWallHit, Combo: 0})
}

// ResolveAgentHit applies the player-agent collision chain in priority
// order: invincibility window, then shield absorption, then life loss
// with respawn or defeat.
func (r *CollisionResolver) ResolveAgentHit(a *agent.Agent) HitOutcome {
	s := r.session

	if s.invincibilityFrames > 0 {
		// No damage, countdown untouched; feedback may still fire.
		s.emit(Event{Kind: EventAgentHit, Outcome: HitIgnoredInvincible, AgentID: a.ID, Variant: a.Variant, Lives: s.lives})
		return HitIgnoredInvincible
	}

	if s.shieldActive {
		// Shield soaks the hit; combo survives.
		s.shieldActive = false
		s.invincibilityFrames = s.cfg.Collision.ShieldInvincibilityFrames
		s.emit(Event{Kind: EventAgentHit, Outcome: HitShieldAbsorbed, AgentID: a.ID, Variant: a.Variant, Lives: s.lives})
		return HitShieldAbsorbed
	}

	s.scorer.ResetCombo()
	s.lives--

	if s.lives <= 0 {
		s.defeated = true
		s.emit(Event{Kind: EventAgentHit, Outcome: HitDefeat, AgentID: a.ID, Variant: a.Variant, Lives: s.lives})
		s.emit(Event{Kind: EventDefeat, Lives: s.lives})
		return HitDefeat
	}

	s.emit(Event{Kind: EventAgentHit, Outcome: HitLifeLost, AgentID: a.ID, Variant: a.Variant, Lives: s.lives})
	r.respawn()
	return HitLifeLost
}

// respawn returns the player to the session start cell, pushes nearby
// pursuers out of the safe zone, and grants a longer invincibility
// window so the respawn cannot chain into another hit.
func (r *CollisionResolver) respawn() {
	s := r.session
	s.playerX, s.playerZ = s.startX, s.startZ
	r.pushAwayFromRespawn()
	s.invincibilityFrames = s.cfg.Collision.RespawnInvincibilityFrames
	s.population.SetPlayerPosition(s.playerX, s.playerZ, s.lightBoost)
	s.emit(Event{Kind: EventRespawn, Lives: s.lives})
}

// pushAwayFromRespawn relocates every chase-capable agent inside the
// safe radius of the respawn cell to a random cell in the half of the
// maze farthest from it, updating the registry as it goes.
func (r *CollisionResolver) pushAwayFromRespawn() {
	s := r.session
	safeRadius := s.cfg.Collision.SafeRadius
	size := s.grid.Size()

	for _, a := range s.population.Live() {
		if !a.ChaseCapable() {
			continue
		}
		if mathutil.Manhattan(a.GridX, a.GridZ, s.startX, s.startZ) >= safeRadius {
			continue
		}

		x, z := r.farCell(size)
		a.Relocate(x, z)
		s.registry.Update(a.ID, x, z)
		s.log.WithField("agent", a.ID).Debug("pushed agent out of respawn safe zone")
	}
}

// farCell samples a random unoccupied cell in the quadrant diagonally
// opposite the respawn cell, falling back to any far-half cell when
// the quadrant is crowded.
func (r *CollisionResolver) farCell(size int) (int, int) {
	s := r.session
	half := size / 2
	if half < 1 {
		half = 1
	}

	xBase, zBase := 0, 0
	if s.startX < half {
		xBase = half
	}
	if s.startZ < half {
		zBase = half
	}
	span := size - half

	for i := 0; i < 20; i++ {
		x := xBase + rand.Intn(span)
		z := zBase + rand.Intn(span)
		if !s.registry.IsOccupied(x, z, "") {
			return x, z
		}
	}
	// Crowded far quadrant: overlap is benign, take any far cell.
	return xBase + rand.Intn(span), zBase + rand.Intn(span)
}
