package agent

import (
	"math"
	"math/rand"

	"mazerun/internal/mathutil"
	"mazerun/internal/maze"
)

// SetPlayerPosition re-evaluates the behavioral state against a fresh
// player grid position. Called by the population manager whenever the
// input layer reports a player move.
func (a *Agent) SetPlayerPosition(playerX, playerZ int, lightBoostActive bool) {
	if a.disposed || a.dead {
		return
	}

	dist := mathutil.Manhattan(a.GridX, a.GridZ, playerX, playerZ)

	switch {
	case lightBoostActive && a.ChaseCapable() && dist <= a.def.ChaseRange+2:
		// Light boost repels: run 3-4 cells away along the current offset.
		a.state = StateFlee
		a.setFleeTarget(playerX, playerZ)
		a.alertLevel = 0

	case (a.def.CanChase && dist <= a.def.ChaseRange) || a.HordeSpawn:
		// Direct sight. Horde spawns ignore range entirely.
		a.state = StateChase
		a.alertLevel = maxAlert
		a.setTarget(playerX, playerZ)
		a.lastKnownX, a.lastKnownZ = playerX, playerZ
		a.hasLastKnown = true

	case a.def.CanChase && dist <= a.def.ChaseRange+a.def.ChaseBuffer && a.alertLevel >= suspiciousAlert:
		// Lost direct sight but still suspicious: keep pressing the
		// last known cell while alert drains in Tick.
		if a.hasLastKnown {
			a.state = StateChase
			a.setTarget(a.lastKnownX, a.lastKnownZ)
		}

	default:
		// Out of range. Alert decay in Tick drives the transition from
		// investigating to patrol.
		if a.state == StateChase {
			if a.alertLevel >= investigateAlert && a.hasLastKnown {
				a.setTarget(a.lastKnownX, a.lastKnownZ)
			} else {
				a.returnToPatrol()
			}
		}
		if a.state == StateFlee && !lightBoostActive {
			a.returnToPatrol()
		}
	}
}

// Tick advances the agent by the given number of effective frames.
// Throttled agents receive their skipped frames here in one batch, and
// every move interval the batch covers executes, so their movement
// speed matches an unthrottled agent's.
func (a *Agent) Tick(grid WallGrid, occ Occupancy, ticks int) {
	if a.disposed || a.dead || ticks <= 0 {
		return
	}

	a.tickCount += ticks
	a.decayAlert(ticks)

	a.moveCounter += ticks
	for n := 0; n < ticks; n++ {
		interval := a.effectiveInterval()
		if a.moveCounter < interval {
			break
		}
		a.moveCounter -= interval

		var moved bool
		switch a.state {
		case StatePatrol:
			moved = a.tickPatrol(grid, occ)
		case StateChase, StateFlee:
			moved = a.seekStep(grid, occ, a.targetX, a.targetZ, false)
		}
		if moved {
			a.blockedTicks = 0
		} else {
			a.blockedTicks++
		}
		a.settleArrival()
	}
	a.clampToBounds(occ)
}

// decayAlert drains the alert level one point per alertInterval frames.
func (a *Agent) decayAlert(ticks int) {
	if a.alertLevel <= 0 {
		return
	}
	a.alertCounter += ticks
	steps := a.alertCounter / a.alertInterval
	if steps == 0 {
		return
	}
	a.alertCounter %= a.alertInterval
	a.alertLevel = mathutil.IntClamp(a.alertLevel-steps, 0, maxAlert)
}

// effectiveInterval shortens the move interval while engaged so chasing
// and fleeing agents feel faster.
func (a *Agent) effectiveInterval() int {
	if a.state == StateChase || a.state == StateFlee {
		return mathutil.IntMax(1, int(float64(a.moveInterval)*a.def.ChaseIntervalScale))
	}
	return mathutil.IntMax(1, a.moveInterval)
}

// settleArrival retires a pursuit or flee target once reached.
func (a *Agent) settleArrival() {
	if !a.hasTarget || a.GridX != a.targetX || a.GridZ != a.targetZ {
		if a.state == StateChase && a.alertLevel < investigateAlert && a.alertLevel < maxAlert {
			// Alert fully drained mid-investigation.
			a.returnToPatrol()
		}
		return
	}
	switch a.state {
	case StateFlee:
		a.returnToPatrol()
	case StateChase:
		if a.alertLevel < maxAlert {
			// Reached the last known cell without regaining sight.
			a.returnToPatrol()
		}
	}
}

func (a *Agent) setTarget(x, z int) {
	a.targetX, a.targetZ = x, z
	a.hasTarget = true
}

func (a *Agent) returnToPatrol() {
	a.state = StatePatrol
	a.hasTarget = false
	a.hasLastKnown = false
}

// setFleeTarget displaces the target 3-4 cells away from the player
// along the sign of the current offset, clamped to maze bounds.
func (a *Agent) setFleeTarget(playerX, playerZ int) {
	dx := mathutil.IntSign(a.GridX - playerX)
	dz := mathutil.IntSign(a.GridZ - playerZ)
	if dx == 0 && dz == 0 {
		dx = 1
	}
	dist := 3 + rand.Intn(2)
	a.setTarget(
		mathutil.IntClamp(a.GridX+dx*dist, 0, a.mazeSize-1),
		mathutil.IntClamp(a.GridZ+dz*dist, 0, a.mazeSize-1),
	)
}

// tickPatrol advances the patrol sub-strategy chosen at spawn: waypoint
// patrol walks the precomputed territory corners, free patrol random-
// walks within the territory bounds.
func (a *Agent) tickPatrol(grid WallGrid, occ Occupancy) bool {
	if a.waypointPatrol && len(a.waypoints) > 0 {
		wp := a.waypoints[a.waypointIdx]
		if a.GridX == wp.X && a.GridZ == wp.Z {
			a.waypointIdx = (a.waypointIdx + 1) % len(a.waypoints)
			wp = a.waypoints[a.waypointIdx]
		}
		return a.seekStep(grid, occ, wp.X, wp.Z, true)
	}
	return a.randomStep(grid, occ)
}

// seekStep moves one cell toward a target, preferring the axis with
// the larger remaining delta and falling back to the other axis when
// walls or occupancy block the first choice. Near-diagonal pursuit on
// an orthogonal grid. randomFallback is set for patrol-classified
// movement to avoid permanent deadlock.
func (a *Agent) seekStep(grid WallGrid, occ Occupancy, targetX, targetZ int, randomFallback bool) bool {
	if !randomFallback && !a.hasTarget {
		return false
	}

	dx := targetX - a.GridX
	dz := targetZ - a.GridZ
	if dx == 0 && dz == 0 {
		return false
	}

	var xDir, zDir maze.Direction
	if dx > 0 {
		xDir = maze.DirEast
	} else {
		xDir = maze.DirWest
	}
	if dz > 0 {
		zDir = maze.DirSouth
	} else {
		zDir = maze.DirNorth
	}

	try := make([]maze.Direction, 0, 2)
	if mathutil.IntAbs(dx) >= mathutil.IntAbs(dz) {
		if dx != 0 {
			try = append(try, xDir)
		}
		if dz != 0 {
			try = append(try, zDir)
		}
	} else {
		if dz != 0 {
			try = append(try, zDir)
		}
		if dx != 0 {
			try = append(try, xDir)
		}
	}

	for _, d := range try {
		if a.tryStep(grid, occ, d) {
			return true
		}
	}

	if randomFallback {
		return a.randomStep(grid, occ)
	}
	// Both axes blocked: hold position this tick.
	return false
}

// randomStep picks a uniformly random open direction that stays inside
// the territory bounds.
func (a *Agent) randomStep(grid WallGrid, occ Occupancy) bool {
	a.dirBuf = grid.OpenDirections(a.GridX, a.GridZ, a.dirBuf)

	legal := a.dirBuf[:0]
	for _, d := range a.dirBuf {
		dx, dz := d.Delta()
		nx, nz := a.GridX+dx, a.GridZ+dz
		if nx < a.minX || nx > a.maxX || nz < a.minZ || nz > a.maxZ {
			continue
		}
		if a.def.ChecksOccupancy && occ.IsOccupied(nx, nz, a.ID) {
			continue
		}
		legal = append(legal, d)
	}
	if len(legal) == 0 {
		return false
	}
	return a.tryStep(grid, occ, legal[rand.Intn(len(legal))])
}

// tryStep commits a single-cell move if it is legal: in bounds, no wall
// edge, and (for occupancy-checking variants) the destination is free.
// The registry is updated immediately so agents evaluated later in the
// same frame observe the new occupancy.
func (a *Agent) tryStep(grid WallGrid, occ Occupancy, d maze.Direction) bool {
	if !grid.CanStep(a.GridX, a.GridZ, d) {
		return false
	}
	dx, dz := d.Delta()
	nx, nz := a.GridX+dx, a.GridZ+dz
	if a.def.ChecksOccupancy && occ.IsOccupied(nx, nz, a.ID) {
		return false
	}

	a.GridX, a.GridZ = nx, nz
	a.heading = math.Atan2(float64(dz), float64(dx))
	occ.Update(a.ID, nx, nz)
	return true
}

// clampToBounds enforces the position invariant after every update.
func (a *Agent) clampToBounds(occ Occupancy) {
	cx := mathutil.IntClamp(a.GridX, 0, a.mazeSize-1)
	cz := mathutil.IntClamp(a.GridZ, 0, a.mazeSize-1)
	if cx != a.GridX || cz != a.GridZ {
		a.GridX, a.GridZ = cx, cz
		occ.Update(a.ID, cx, cz)
	}
}
