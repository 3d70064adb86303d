package agent

import (
	"math"
	"math/rand"
	"strconv"

	"mazerun/internal/mathutil"
	"mazerun/internal/maze"
)

// Global counter for unique agent IDs
var nextAgentID int = 1

// generateUniqueAgentID creates a unique ID for an agent
func generateUniqueAgentID() string {
	id := "agent_" + strconv.Itoa(nextAgentID)
	nextAgentID++
	return id
}

// WallGrid is the maze-connectivity collaborator the agent queries
// before moving. Satisfied by *maze.Grid.
type WallGrid interface {
	Size() int
	CellAt(x, z int) maze.Cell
	CanStep(x, z int, d maze.Direction) bool
	OpenDirections(x, z int, buf []maze.Direction) []maze.Direction
}

// Occupancy is the slice of the spatial registry the agent needs: an
// occupancy query plus the write-back on a committed move. Satisfied
// by *spatial.Registry.
type Occupancy interface {
	IsOccupied(x, z int, ignoreID string) bool
	Update(id string, x, z int)
}

// Point is a grid cell coordinate.
type Point struct {
	X, Z int
}

// Agent is one hostile entity: a generic state machine parameterized by
// its variant Definition. Position is authoritative in grid cells; the
// presentation layer derives world transforms from it.
type Agent struct {
	ID         string
	Variant    Variant
	HordeSpawn bool

	GridX, GridZ int

	moveInterval int
	moveCounter  int
	tickCount    int

	state State

	hasTarget        bool
	targetX, targetZ int

	hasLastKnown           bool
	lastKnownX, lastKnownZ int

	alertLevel    int
	alertCounter  int
	alertInterval int

	// Territory bounds and patrol route around the spawn cell.
	minX, maxX, minZ, maxZ int
	waypointPatrol         bool
	waypoints              []Point
	waypointIdx            int

	heading      float64
	blockedTicks int

	def      Definition
	level    int
	mazeSize int

	dead     bool
	disposed bool

	dirBuf []maze.Direction
}

// SpawnParams carries everything needed to materialize one agent.
type SpawnParams struct {
	Variant  Variant
	Def      Definition
	X, Z     int
	Level    int
	MazeSize int
	Horde    bool

	// WaypointChance is the level-scaled probability of waypoint patrol
	// over free random walk, drawn once at spawn.
	WaypointChance float64

	// HordeIntervalScale shortens the move interval of horde spawns.
	HordeIntervalScale float64

	// AlertDecayInterval is the level-scaled frame count between alert
	// decay steps.
	AlertDecayInterval int
}

// New creates an agent at a grid cell. The caller registers it in the
// spatial registry.
func New(p SpawnParams) *Agent {
	size := mathutil.IntMax(1, p.MazeSize)
	a := &Agent{
		ID:            generateUniqueAgentID(),
		Variant:       p.Variant,
		HordeSpawn:    p.Horde,
		GridX:         mathutil.IntClamp(p.X, 0, size-1),
		GridZ:         mathutil.IntClamp(p.Z, 0, size-1),
		state:         StatePatrol,
		heading:       rand.Float64() * 2 * math.Pi,
		def:           p.Def,
		level:         mathutil.IntMax(1, p.Level),
		mazeSize:      size,
		alertInterval: mathutil.IntMax(1, p.AlertDecayInterval),
	}

	a.moveInterval = p.Def.MoveIntervalAt(a.level)
	if p.Horde && p.HordeIntervalScale > 0 {
		a.moveInterval = mathutil.IntMax(1, int(float64(a.moveInterval)*p.HordeIntervalScale))
	}

	a.setupTerritory()
	a.waypointPatrol = rand.Float64() < p.WaypointChance
	return a
}

// setupTerritory computes the bounding rectangle and the 4-corner +
// center patrol route, clamped to maze bounds.
func (a *Agent) setupTerritory() {
	r := a.def.PatrolRange
	if a.HordeSpawn {
		// Horde agents roam the whole maze.
		r = a.mazeSize
	}
	a.minX = mathutil.IntClamp(a.GridX-r, 0, a.mazeSize-1)
	a.maxX = mathutil.IntClamp(a.GridX+r, 0, a.mazeSize-1)
	a.minZ = mathutil.IntClamp(a.GridZ-r, 0, a.mazeSize-1)
	a.maxZ = mathutil.IntClamp(a.GridZ+r, 0, a.mazeSize-1)

	a.waypoints = []Point{
		{X: a.minX, Z: a.minZ},
		{X: a.maxX, Z: a.minZ},
		{X: a.maxX, Z: a.maxZ},
		{X: a.minX, Z: a.maxZ},
		{X: (a.minX + a.maxX) / 2, Z: (a.minZ + a.maxZ) / 2},
	}
	a.waypointIdx = rand.Intn(len(a.waypoints))
}

// State returns the current behavioral state.
func (a *Agent) State() State { return a.state }

// Position returns the authoritative grid cell.
func (a *Agent) Position() (x, z int) { return a.GridX, a.GridZ }

// Heading returns the angle (radians) toward the agent's current
// movement direction, for the renderer to consume.
func (a *Agent) Heading() float64 { return a.heading }

// AlertLevel returns the decaying sense-of-player confidence, 0..100.
func (a *Agent) AlertLevel() int { return a.alertLevel }

// TickCount returns the cumulative movement-timer advancement this
// agent has received, throttle compensation included.
func (a *Agent) TickCount() int { return a.tickCount }

// ChaseCapable reports whether this agent ever pursues the player.
func (a *Agent) ChaseCapable() bool { return a.def.CanChase || a.HordeSpawn }

// ChaseRange returns the level-independent pursuit range.
func (a *Agent) ChaseRange() int { return a.def.ChaseRange }

// IsDead reports whether the agent is flagged for removal.
func (a *Agent) IsDead() bool { return a.dead }

// Kill flags the agent for removal in the next cleanup pass.
func (a *Agent) Kill() { a.dead = true }

// IsDisposed reports whether the agent has been torn down.
func (a *Agent) IsDisposed() bool { return a.disposed }

// Dispose tears the agent down. Idempotent; a disposed agent is never
// updated again and any pending countdowns die with it.
func (a *Agent) Dispose() {
	if a.disposed {
		return
	}
	a.disposed = true
	a.hasTarget = false
	a.hasLastKnown = false
	a.alertLevel = 0
}

// Relocate teleports the agent, clearing any pursuit so it does not
// immediately resume the chase. The caller updates the registry.
func (a *Agent) Relocate(x, z int) {
	a.GridX = mathutil.IntClamp(x, 0, a.mazeSize-1)
	a.GridZ = mathutil.IntClamp(z, 0, a.mazeSize-1)
	a.state = StatePatrol
	a.hasTarget = false
	a.hasLastKnown = false
	a.alertLevel = 0
	a.setupTerritory()
}
