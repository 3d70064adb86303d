package game

import "mazerun/internal/agent"

// EventKind identifies a discrete notification for the presentation
// layer (audio, VFX, HUD). Events flow out of the core only; nothing
// feeds back into simulation decisions.
type EventKind int

const (
	EventWallHit EventKind = iota
	EventAgentHit
	EventComboMilestone
	EventAgentDied
	EventRespawn
	EventDefeat
	EventHordeStarted
	EventHordeEnded
)

func (k EventKind) String() string {
	switch k {
	case EventWallHit:
		return "wall_hit"
	case EventAgentHit:
		return "agent_hit"
	case EventComboMilestone:
		return "combo_milestone"
	case EventAgentDied:
		return "agent_died"
	case EventRespawn:
		return "respawn"
	case EventDefeat:
		return "defeat"
	case EventHordeStarted:
		return "horde_started"
	case EventHordeEnded:
		return "horde_ended"
	}
	return "unknown"
}

// HitOutcome is the resolved result of a player-agent collision.
type HitOutcome int

const (
	HitIgnoredInvincible HitOutcome = iota
	HitShieldAbsorbed
	HitLifeLost
	HitDefeat
)

// Event is one presentation notification.
type Event struct {
	Kind      EventKind
	Outcome   HitOutcome // set for EventAgentHit
	AgentID   string
	Variant   agent.Variant
	Combo     int
	Milestone int
	Lives     int
}

// Listener consumes presentation events. May be nil.
type Listener func(Event)
