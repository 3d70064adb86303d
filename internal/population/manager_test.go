package population

import (
	"testing"

	"mazerun/internal/agent"
	"mazerun/internal/config"
	"mazerun/internal/mathutil"
	"mazerun/internal/maze"
	"mazerun/internal/spatial"
)

// stationaryDefs returns records whose agents never chase and whose
// move interval is too long to fire inside a short test, so position
// and timing assertions stay deterministic.
func stationaryDefs() agent.Definitions {
	defs := agent.Definitions{}
	for _, v := range agent.Variants {
		defs[v] = agent.Definition{
			Name:               v.String(),
			MoveInterval:       100000,
			MoveIntervalMin:    100000,
			ChaseIntervalScale: 1.0,
			ChecksOccupancy:    true,
			PatrolRange:        4,
		}
	}
	return defs
}

func newTestManager(cfg *config.Config, defs agent.Definitions) (*Manager, *spatial.Registry) {
	reg := spatial.NewRegistry()
	grid := maze.NewGrid(15)
	return NewManager(cfg, defs, grid, reg, nil), reg
}

func TestThrottleCompensationKeepsTickRate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Throttle = config.ThrottleConfig{
		FarDistance:    8,
		FarFactor:      4,
		MediumDistance: 4,
		MediumFactor:   2,
	}
	m, _ := newTestManager(cfg, stationaryDefs())

	far := m.Spawn(agent.VariantPatroller, 14, 14, false)
	near := m.Spawn(agent.VariantDog, 1, 0, false)
	m.SetPlayerPosition(0, 0, false)

	const frames = 8
	for i := 0; i < frames; i++ {
		m.Update()
	}

	if near.TickCount() != frames {
		t.Errorf("Expected near agent ticked every frame (%d), got %d", frames, near.TickCount())
	}
	// Far agents update 1-in-4 frames but receive 4 ticks per update, so
	// cumulative ticks never trail real frames by a full factor.
	drift := mathutil.IntAbs(far.TickCount() - frames)
	if drift >= 4 {
		t.Errorf("Expected far agent tick drift under factor 4, got %d (ticks=%d)", drift, far.TickCount())
	}
}

func TestThrottlePhaseSpreadsByIndex(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Throttle = config.ThrottleConfig{
		FarDistance:    2,
		FarFactor:      4,
		MediumDistance: 1,
		MediumFactor:   2,
	}
	m, _ := newTestManager(cfg, stationaryDefs())

	agents := make([]*agent.Agent, 4)
	for i := range agents {
		agents[i] = m.Spawn(agent.VariantPatroller, 10+i, 14, false)
	}
	m.SetPlayerPosition(0, 0, false)

	m.Update() // frame 1

	updated := 0
	for _, a := range agents {
		if a.TickCount() > 0 {
			updated++
		}
	}
	if updated != 1 {
		t.Errorf("Expected exactly one of four phase-offset agents to update on one frame, got %d", updated)
	}
}

func TestPopulateLevelRespectsMinPlayerDistance(t *testing.T) {
	cfg := config.DefaultConfig()
	defs := stationaryDefs()
	d := defs[agent.VariantPatroller]
	d.CanChase = true
	d.ChaseRange = 6
	d.CountBase = 5
	defs[agent.VariantPatroller] = d
	m, _ := newTestManager(cfg, defs)

	m.PopulateLevel(1, 14, 14, 0, 0)

	for _, a := range m.Live() {
		dist := mathutil.Manhattan(a.GridX, a.GridZ, 14, 14)
		if dist < cfg.Simulation.MinPlayerDistance {
			t.Errorf("Expected chase-capable spawn at least %d from player, got %d at (%d, %d)",
				cfg.Simulation.MinPlayerDistance, dist, a.GridX, a.GridZ)
		}
	}
}

func TestPopulateLevelDegradesWhenCellsRunOut(t *testing.T) {
	cfg := config.DefaultConfig()
	defs := stationaryDefs()
	d := defs[agent.VariantPatroller]
	d.CountBase = 10
	defs[agent.VariantPatroller] = d

	reg := spatial.NewRegistry()
	grid := maze.NewGrid(2)
	m := NewManager(cfg, defs, grid, reg, nil)

	// 4 cells, 2 reserved for player and goal: at most 2 spawns fit.
	m.PopulateLevel(1, 0, 0, 1, 1)

	if m.Count() > 2 {
		t.Errorf("Expected at most 2 spawns on a 2x2 maze, got %d", m.Count())
	}
	if reg.Len() != m.Count() {
		t.Errorf("Expected registry to track every spawn, reg=%d agents=%d", reg.Len(), m.Count())
	}
}

func TestSpawnQueueDrainsAtBoundedRate(t *testing.T) {
	cfg := config.DefaultConfig()
	m, _ := newTestManager(cfg, stationaryDefs())
	m.SetPlayerPosition(0, 0, false)

	m.StartHorde(agent.VariantDog, 5)

	if m.QueuedSpawns() != 5 {
		t.Fatalf("Expected 5 queued spawn tasks, got %d", m.QueuedSpawns())
	}
	if !m.HordeActive() {
		t.Error("Expected horde active after queueing")
	}

	m.Update()
	if m.QueuedSpawns() != 3 || m.Count() != 2 {
		t.Errorf("Expected 2 spawns per frame, queued=%d live=%d", m.QueuedSpawns(), m.Count())
	}

	m.Update()
	m.Update()
	if m.QueuedSpawns() != 0 || m.Count() != 5 {
		t.Errorf("Expected full drain after 3 frames, queued=%d live=%d", m.QueuedSpawns(), m.Count())
	}
}

func TestHordeSpawnsAreOmniscient(t *testing.T) {
	cfg := config.DefaultConfig()
	m, _ := newTestManager(cfg, stationaryDefs())
	m.SetPlayerPosition(0, 0, false)

	a := m.Spawn(agent.VariantDog, 14, 14, true)

	if a.State() != agent.StateChase {
		t.Errorf("Expected horde spawn chasing immediately, got %s", a.State())
	}
}

func TestEndHordeKeepsResidents(t *testing.T) {
	cfg := config.DefaultConfig()
	m, _ := newTestManager(cfg, stationaryDefs())
	m.SetPlayerPosition(0, 0, false)

	removed := 0
	m.OnAgentRemoved = func(*agent.Agent) { removed++ }

	for i := 0; i < 5; i++ {
		m.Spawn(agent.VariantDog, 10+i%3, 10+i/3, true)
	}

	m.EndHorde(2)
	m.Update()

	if m.Count() != 2 {
		t.Errorf("Expected 2 kept residents after horde end, got %d", m.Count())
	}
	if removed != 3 {
		t.Errorf("Expected 3 removal notifications, got %d", removed)
	}
	if m.HordeActive() {
		t.Error("Expected horde inactive after EndHorde")
	}
	for _, a := range m.Live() {
		if a.HordeSpawn {
			t.Error("Expected kept residents converted out of horde status")
		}
	}
}

func TestEndHordeClearsPendingQueue(t *testing.T) {
	cfg := config.DefaultConfig()
	m, _ := newTestManager(cfg, stationaryDefs())
	m.SetPlayerPosition(0, 0, false)

	m.StartHorde(agent.VariantDog, 6)
	m.EndHorde(0)

	if m.QueuedSpawns() != 0 {
		t.Errorf("Expected spawn queue cleared on horde end, got %d", m.QueuedSpawns())
	}
}

func TestCleanupDisposesExactlyOnce(t *testing.T) {
	cfg := config.DefaultConfig()
	m, reg := newTestManager(cfg, stationaryDefs())

	removed := 0
	m.OnAgentRemoved = func(*agent.Agent) { removed++ }

	a := m.Spawn(agent.VariantPatroller, 5, 5, false)
	a.Kill()

	m.Update()
	m.Update()

	if removed != 1 {
		t.Errorf("Expected exactly one removal notification, got %d", removed)
	}
	if !a.IsDisposed() {
		t.Error("Expected killed agent disposed by cleanup")
	}
	if _, ok := reg.Lookup(a.ID); ok {
		t.Error("Expected killed agent unregistered")
	}
	if m.Count() != 0 {
		t.Errorf("Expected empty population, got %d", m.Count())
	}
}

func TestClearTearsEverythingDown(t *testing.T) {
	cfg := config.DefaultConfig()
	m, reg := newTestManager(cfg, stationaryDefs())
	m.SetPlayerPosition(0, 0, false)

	m.Spawn(agent.VariantPatroller, 5, 5, false)
	m.Spawn(agent.VariantBoss, 9, 9, false)
	m.StartHorde(agent.VariantDog, 3)

	m.Clear()

	if m.Count() != 0 || reg.Len() != 0 || m.QueuedSpawns() != 0 {
		t.Errorf("Expected full teardown, agents=%d reg=%d queued=%d", m.Count(), reg.Len(), m.QueuedSpawns())
	}
}

func TestLiveReturnsVariantOrder(t *testing.T) {
	cfg := config.DefaultConfig()
	m, _ := newTestManager(cfg, stationaryDefs())

	m.Spawn(agent.VariantBoss, 9, 9, false)
	m.Spawn(agent.VariantPatroller, 5, 5, false)

	live := m.Live()
	if len(live) != 2 {
		t.Fatalf("Expected 2 live agents, got %d", len(live))
	}
	if live[0].Variant != agent.VariantPatroller || live[1].Variant != agent.VariantBoss {
		t.Errorf("Expected patroller before boss in iteration order, got %v then %v",
			live[0].Variant, live[1].Variant)
	}
}
