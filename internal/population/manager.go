package population

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"mazerun/internal/agent"
	"mazerun/internal/config"
	"mazerun/internal/mathutil"
	"mazerun/internal/spatial"
)

// SpawnTask is a queued description of an agent to materialize. Tasks
// are drained at a bounded rate per frame so a large wave never spikes
// frame time.
type SpawnTask struct {
	Variant agent.Variant
	X, Z    int
	Horde   bool
}

// Manager owns every agent instance: it creates the level's starting
// population, runs the per-frame throttled update pass, drains the
// horde spawn queue, and removes dead agents after each pass.
//
// Iteration order is part of the contract: variants in agent.Variants
// order, each collection in slice order. Registry writes by an earlier
// agent are observed by later agents in the same pass.
type Manager struct {
	cfg  *config.Config
	defs agent.Definitions
	grid agent.WallGrid
	reg  *spatial.Registry
	log  logrus.FieldLogger

	agents [agent.VariantCount][]*agent.Agent

	level            int
	frame            uint64
	playerX, playerZ int
	lightBoost       bool

	spawnQueue  []SpawnTask
	hordeActive bool

	// OnAgentRemoved, when set, is invoked once per agent as the
	// cleanup pass disposes it. Presentation hook.
	OnAgentRemoved func(*agent.Agent)
}

// NewManager creates an empty population bound to a maze, a registry
// and the rules table.
func NewManager(cfg *config.Config, defs agent.Definitions, grid agent.WallGrid, reg *spatial.Registry, log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		cfg:  cfg,
		defs: defs,
		grid: grid,
		reg:  reg,
		log:  log,
	}
}

// PopulateLevel despawns any previous population and creates the
// starting agents for a level. Counts come from the rules table;
// placement uses rejection sampling with a bounded attempt budget and
// degrades gracefully when cells run out.
func (m *Manager) PopulateLevel(level, playerX, playerZ, goalX, goalZ int) {
	m.Clear()
	m.level = mathutil.IntMax(1, level)
	m.playerX, m.playerZ = playerX, playerZ

	reserved := map[agent.Point]bool{
		{X: playerX, Z: playerZ}: true,
		{X: goalX, Z: goalZ}:     true,
	}

	placed, requested := 0, 0
	for _, v := range agent.Variants {
		def := m.defs[v]
		count := def.CountAt(m.level)
		requested += count
		for i := 0; i < count; i++ {
			minDist := 0
			if def.CanChase {
				minDist = m.cfg.Simulation.MinPlayerDistance
			}
			x, z, ok := m.sampleSpawnCell(reserved, minDist)
			if !ok {
				m.log.WithFields(logrus.Fields{
					"variant": v.String(),
					"level":   m.level,
				}).Warn("no legal spawn cell within attempt budget, skipping spawn")
				continue
			}
			reserved[agent.Point{X: x, Z: z}] = true
			m.materialize(v, x, z, false)
			placed++
		}
	}

	m.log.WithFields(logrus.Fields{
		"level":     m.level,
		"placed":    placed,
		"requested": requested,
	}).Info("level population created")
}

// sampleSpawnCell draws uniformly random cells until one clears the
// reserved set, current occupancy, and the minimum player distance, or
// the attempt budget runs out.
func (m *Manager) sampleSpawnCell(reserved map[agent.Point]bool, minPlayerDist int) (int, int, bool) {
	size := m.grid.Size()
	attempts := mathutil.IntMax(1, m.cfg.Simulation.PlacementAttempts)
	for i := 0; i < attempts; i++ {
		x := rand.Intn(size)
		z := rand.Intn(size)
		if reserved[agent.Point{X: x, Z: z}] {
			continue
		}
		if m.reg.IsOccupied(x, z, "") {
			continue
		}
		if minPlayerDist > 0 && mathutil.Manhattan(x, z, m.playerX, m.playerZ) < minPlayerDist {
			continue
		}
		return x, z, true
	}
	return 0, 0, false
}

// materialize constructs one agent, registers it, and files it in its
// variant collection.
func (m *Manager) materialize(v agent.Variant, x, z int, horde bool) *agent.Agent {
	a := agent.New(agent.SpawnParams{
		Variant:            v,
		Def:                m.defs[v],
		X:                  x,
		Z:                  z,
		Level:              m.level,
		MazeSize:           m.grid.Size(),
		Horde:              horde,
		WaypointChance:     m.cfg.Simulation.WaypointChance(m.level),
		HordeIntervalScale: m.cfg.Horde.MoveIntervalScale,
		AlertDecayInterval: m.cfg.Simulation.AlertDecayInterval(m.level),
	})
	m.reg.Register(a.ID, x, z, v.String())
	m.agents[v] = append(m.agents[v], a)
	if horde {
		a.SetPlayerPosition(m.playerX, m.playerZ, m.lightBoost)
	}
	return a
}

// Spawn materializes one agent at a cell immediately, bypassing the
// queue. Scripted placements.
func (m *Manager) Spawn(v agent.Variant, x, z int, horde bool) *agent.Agent {
	return m.materialize(v, x, z, horde)
}

// SetPlayerPosition forwards a fresh player grid position to every live
// agent so behavioral transitions are evaluated immediately.
func (m *Manager) SetPlayerPosition(x, z int, lightBoostActive bool) {
	m.playerX, m.playerZ = x, z
	m.lightBoost = lightBoostActive
	for _, v := range agent.Variants {
		for _, a := range m.agents[v] {
			if a.IsDead() || a.IsDisposed() {
				continue
			}
			a.SetPlayerPosition(x, z, lightBoostActive)
		}
	}
}

// Update runs one frame: the throttled agent pass, the spawn-queue
// drain, and the cleanup pass, in that order.
func (m *Manager) Update() {
	m.frame++
	m.updateAgents()
	m.drainSpawnQueue()
	m.cleanup()
}

// updateAgents walks every collection, updating each agent 1-in-factor
// frames based on its distance band. Phase is distributed by agent
// index so skipped agents do not all stall on the same frames, and a
// skipped agent's movement timer is repaid in full on its update frame
// (tick batch == factor), so throttling never visibly slows an agent.
func (m *Manager) updateAgents() {
	for _, v := range agent.Variants {
		for i, a := range m.agents[v] {
			if a.IsDead() || a.IsDisposed() {
				continue
			}
			dist := mathutil.Manhattan(a.GridX, a.GridZ, m.playerX, m.playerZ)
			factor := m.cfg.Throttle.FactorFor(dist)
			if (m.frame+uint64(i))%uint64(factor) != 0 {
				continue
			}
			a.Tick(m.grid, m.reg, factor)
		}
	}
}

// StartHorde computes a batch of wave spawn positions and enqueues
// them. Three successively relaxed distance thresholds are tried so a
// crowded maze still yields a full wave when possible.
func (m *Manager) StartHorde(v agent.Variant, count int) {
	thresholds := m.cfg.Horde.DistanceThresholds
	if len(thresholds) == 0 {
		thresholds = []int{0}
	}

	reserved := make(map[agent.Point]bool)
	queued := 0
	for _, minDist := range thresholds {
		for queued < count {
			x, z, ok := m.sampleSpawnCell(reserved, minDist)
			if !ok {
				break
			}
			reserved[agent.Point{X: x, Z: z}] = true
			m.spawnQueue = append(m.spawnQueue, SpawnTask{Variant: v, X: x, Z: z, Horde: true})
			queued++
		}
		if queued >= count {
			break
		}
	}

	if queued < count {
		m.log.WithFields(logrus.Fields{
			"queued":    queued,
			"requested": count,
		}).Warn("horde wave under-filled, no legal spawn cells remain")
	}
	if queued > 0 {
		m.hordeActive = true
		m.log.WithFields(logrus.Fields{
			"variant": v.String(),
			"queued":  queued,
		}).Info("horde wave queued")
	}
}

// drainSpawnQueue materializes a bounded number of queued tasks.
func (m *Manager) drainSpawnQueue() {
	n := mathutil.IntMin(m.cfg.Horde.SpawnsPerFrame, len(m.spawnQueue))
	for i := 0; i < n; i++ {
		task := m.spawnQueue[i]
		m.materialize(task.Variant, task.X, task.Z, task.Horde)
	}
	m.spawnQueue = m.spawnQueue[n:]
}

// EndHorde removes wave agents and resets the wave flag. Up to keep
// horde agents are converted into persistent residents instead of
// despawning.
func (m *Manager) EndHorde(keep int) {
	kept := 0
	for _, v := range agent.Variants {
		for _, a := range m.agents[v] {
			if !a.HordeSpawn || a.IsDead() || a.IsDisposed() {
				continue
			}
			if kept < keep {
				a.HordeSpawn = false
				kept++
				continue
			}
			a.Kill()
		}
	}
	m.spawnQueue = m.spawnQueue[:0]
	m.hordeActive = false
	m.log.WithField("kept", kept).Info("horde wave ended")
}

// cleanup drops dead agents from every collection, unregistering and
// disposing each exactly once.
func (m *Manager) cleanup() {
	for _, v := range agent.Variants {
		live := m.agents[v][:0]
		for _, a := range m.agents[v] {
			if a.IsDead() || a.IsDisposed() {
				m.remove(a)
				continue
			}
			live = append(live, a)
		}
		// Zero the tail so removed agents do not linger in the backing array.
		for i := len(live); i < len(m.agents[v]); i++ {
			m.agents[v][i] = nil
		}
		m.agents[v] = live
	}
}

func (m *Manager) remove(a *agent.Agent) {
	m.reg.Unregister(a.ID)
	if !a.IsDisposed() {
		a.Dispose()
		if m.OnAgentRemoved != nil {
			m.OnAgentRemoved(a)
		}
	}
}

// Clear despawns everything. Level transitions and session teardown.
func (m *Manager) Clear() {
	for _, v := range agent.Variants {
		for _, a := range m.agents[v] {
			m.reg.Unregister(a.ID)
			a.Dispose()
		}
		m.agents[v] = nil
	}
	m.spawnQueue = nil
	m.hordeActive = false
}

// Live returns every live agent in the contract iteration order.
func (m *Manager) Live() []*agent.Agent {
	out := make([]*agent.Agent, 0, m.Count())
	for _, v := range agent.Variants {
		for _, a := range m.agents[v] {
			if a.IsDead() || a.IsDisposed() {
				continue
			}
			out = append(out, a)
		}
	}
	return out
}

// Count returns the number of live agents.
func (m *Manager) Count() int {
	n := 0
	for _, v := range agent.Variants {
		for _, a := range m.agents[v] {
			if a.IsDead() || a.IsDisposed() {
				continue
			}
			n++
		}
	}
	return n
}

// HordeActive reports whether a wave is in progress.
func (m *Manager) HordeActive() bool { return m.hordeActive }

// QueuedSpawns returns the number of spawn tasks awaiting drain.
func (m *Manager) QueuedSpawns() int { return len(m.spawnQueue) }

// Frame returns the global frame counter driving throttle phases.
func (m *Manager) Frame() uint64 { return m.frame }
