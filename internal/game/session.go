package game

import (
	"time"

	"github.com/sirupsen/logrus"

	"mazerun/internal/agent"
	"mazerun/internal/config"
	"mazerun/internal/mathutil"
	"mazerun/internal/maze"
	"mazerun/internal/population"
	"mazerun/internal/spatial"
)

// Session owns one simulation instance: the spatial registry, the
// agent population, the collision resolver, the combo scorer, and the
// player's persistent counters. Everything is constructed here and
// torn down by Reset, so sessions never leak state into each other.
//
// The session is single-threaded: one Advance call per frame drives
// every component sequentially, and all shared mutable state has that
// pass as its only writer.
type Session struct {
	cfg        *config.Config
	grid       *maze.Grid
	registry   *spatial.Registry
	population *population.Manager
	resolver   *CollisionResolver
	scorer     *ComboScorer
	log        logrus.FieldLogger
	listener   Listener

	level            int
	playerX, playerZ int
	startX, startZ   int
	goalX, goalZ     int

	lives               int
	invincibilityFrames int
	shieldActive        bool
	lightBoost          bool
	timeFreeze          bool

	frame     uint64
	wallHits  int
	collected int
	despawned int
	defeated  bool
	startTime time.Time
}

// Stats is a read-only snapshot of the session counters for the HUD.
type Stats struct {
	Level     int
	Lives     int
	Combo     int
	MaxCombo  int
	Score     int
	WallHits  int
	Collected int
	Despawned int
	Frame     uint64
	Agents    int
}

// NewSession builds a simulation bound to a maze and the rules table.
// listener and log may be nil.
func NewSession(cfg *config.Config, defs agent.Definitions, grid *maze.Grid, log logrus.FieldLogger, listener Listener) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Session{
		cfg:      cfg,
		grid:     grid,
		registry: spatial.NewRegistry(),
		log:      log,
		listener: listener,
		lives:    cfg.Simulation.StartLives,
	}
	s.scorer = NewComboScorer(cfg, s.emit)
	s.resolver = NewCollisionResolver(s)
	s.population = population.NewManager(cfg, defs, grid, s.registry, log)
	s.population.OnAgentRemoved = func(a *agent.Agent) {
		s.despawned++
		s.emit(Event{Kind: EventAgentDied, AgentID: a.ID, Variant: a.Variant})
	}
	return s
}

// StartLevel resets per-level state and creates the starting
// population. The goal sits at the maze's origin corner.
func (s *Session) StartLevel(level, startX, startZ int) {
	size := s.grid.Size()
	s.level = mathutil.IntMax(1, level)
	s.startX = mathutil.IntClamp(startX, 0, size-1)
	s.startZ = mathutil.IntClamp(startZ, 0, size-1)
	s.playerX, s.playerZ = s.startX, s.startZ
	s.goalX, s.goalZ = 0, 0

	s.invincibilityFrames = 0
	s.defeated = false
	s.frame = 0
	s.wallHits = 0
	s.collected = 0
	s.despawned = 0
	s.startTime = time.Now()

	s.scorer.Reset(mathutil.Manhattan(s.playerX, s.playerZ, s.goalX, s.goalZ))
	s.population.PopulateLevel(s.level, s.playerX, s.playerZ, s.goalX, s.goalZ)
	s.population.SetPlayerPosition(s.playerX, s.playerZ, s.lightBoost)
}

// Advance runs one frame: invincibility countdown, the throttled agent
// pass (suspended under time freeze), combo timers, then collision
// checks against the resulting positions. Structural changes happen in
// the population's own post-pass cleanup, never mid-iteration.
func (s *Session) Advance() {
	if s.defeated {
		return
	}
	s.frame++

	if s.invincibilityFrames > 0 {
		s.invincibilityFrames--
	}
	if !s.timeFreeze {
		s.population.Update()
	}
	// Combo timers keep draining even while agents are frozen.
	s.scorer.Tick()

	s.checkCollisions()
}

// checkCollisions resolves any agent sharing the player's cell. A
// damaging outcome moves the player, so at most one is applied per
// frame.
func (s *Session) checkCollisions() {
	for _, a := range s.population.Live() {
		if a.GridX != s.playerX || a.GridZ != s.playerZ {
			continue
		}
		outcome := s.resolver.ResolveAgentHit(a)
		if outcome == HitLifeLost || outcome == HitDefeat {
			return
		}
	}
}

// MovePlayer consumes one validated player grid move from the input
// layer (already wall-checked), feeds the combo machine, and fans the
// new position out to every agent.
func (s *Session) MovePlayer(x, z int, now time.Time) {
	if s.defeated {
		return
	}
	size := s.grid.Size()
	s.playerX = mathutil.IntClamp(x, 0, size-1)
	s.playerZ = mathutil.IntClamp(z, 0, size-1)

	s.scorer.RecordMove(mathutil.Manhattan(s.playerX, s.playerZ, s.goalX, s.goalZ), now)
	s.population.SetPlayerPosition(s.playerX, s.playerZ, s.lightBoost)
	s.checkCollisions()
}

// WallBump reports a player move rejected by a wall.
func (s *Session) WallBump() {
	if s.defeated {
		return
	}
	s.resolver.ResolveWallHit()
}

// Collect advances the collection counter feeding the score formula.
func (s *Session) Collect(n int) {
	s.collected += n
}

// StartHorde launches a staggered wave of amplified agents.
func (s *Session) StartHorde(v agent.Variant, count int) {
	s.population.StartHorde(v, count)
	s.emit(Event{Kind: EventHordeStarted, Variant: v})
}

// EndHorde despawns the wave, optionally converting keep agents into
// persistent residents.
func (s *Session) EndHorde(keep int) {
	s.population.EndHorde(keep)
	s.emit(Event{Kind: EventHordeEnded})
}

// SetShield toggles the shield the input layer reports.
func (s *Session) SetShield(active bool) { s.shieldActive = active }

// SetLightBoost toggles the agent-repelling boost flag.
func (s *Session) SetLightBoost(active bool) {
	s.lightBoost = active
	s.population.SetPlayerPosition(s.playerX, s.playerZ, active)
}

// SetTimeFreeze suspends agent updates while active.
func (s *Session) SetTimeFreeze(active bool) { s.timeFreeze = active }

// Reset tears the session down: every agent disposed, the registry
// cleared, all pending combo timers cancelled.
func (s *Session) Reset() {
	s.population.Clear()
	s.registry.Clear()
	s.scorer.Reset(0)
	s.invincibilityFrames = 0
	s.defeated = false
	s.lives = s.cfg.Simulation.StartLives
	s.frame = 0
	s.wallHits = 0
	s.collected = 0
	s.despawned = 0
}

// Score recomputes the score from the rules table.
func (s *Session) Score() int {
	return CalculateScore(s.cfg.Score, ScoreData{
		Combo:     s.scorer.Combo(),
		MaxCombo:  s.scorer.MaxCombo(),
		Collected: s.collected,
		Level:     s.level,
		PlayTime:  time.Since(s.startTime),
	})
}

// Stats snapshots the session counters.
func (s *Session) Stats() Stats {
	return Stats{
		Level:     s.level,
		Lives:     s.lives,
		Combo:     s.scorer.Combo(),
		MaxCombo:  s.scorer.MaxCombo(),
		Score:     s.Score(),
		WallHits:  s.wallHits,
		Collected: s.collected,
		Despawned: s.despawned,
		Frame:     s.frame,
		Agents:    s.population.Count(),
	}
}

// PlayerPosition returns the player's grid cell.
func (s *Session) PlayerPosition() (x, z int) { return s.playerX, s.playerZ }

// Lives returns the remaining lives.
func (s *Session) Lives() int { return s.lives }

// Combo returns the current combo count.
func (s *Session) Combo() int { return s.scorer.Combo() }

// Defeated reports whether the terminal defeat outcome fired.
func (s *Session) Defeated() bool { return s.defeated }

// Invincible reports whether an invincibility window is running.
func (s *Session) Invincible() bool { return s.invincibilityFrames > 0 }

// ShieldActive reports whether a shield charge is held.
func (s *Session) ShieldActive() bool { return s.shieldActive }

// Population exposes the agent collections for the renderer.
func (s *Session) Population() *population.Manager { return s.population }

// Registry exposes the occupancy table. Read-only use outside the core.
func (s *Session) Registry() *spatial.Registry { return s.registry }

// Grid returns the maze the session runs on.
func (s *Session) Grid() *maze.Grid { return s.grid }

func (s *Session) emit(e Event) {
	if s.listener != nil {
		s.listener(e)
	}
}
