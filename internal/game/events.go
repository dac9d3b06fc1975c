package game

import (
	"fmt"
	"time"
)

// Handle identifies a registry-owned entity (enemy, projectile or weapon).
// Handles are never reused within a session; zero is never issued.
type Handle uint64

// EventKind tags an Event.
type EventKind int

const (
	EventGameStarted EventKind = iota
	EventModeChanged
	EventDrawStarted
	EventDrawCancelled
	EventProjectileFired
	EventProjectileExpired
	EventMeleeHit
	EventEnemySpawned
	EventEnemyDamaged
	EventEnemyKilled
	EventChargeStarted
	EventRusherExploded
	EventPlayerHit
	EventHaptic
	EventGeometryRejected
	EventGameClear
)

func (k EventKind) String() string {
	switch k {
	case EventGameStarted:
		return "game_started"
	case EventModeChanged:
		return "mode_changed"
	case EventDrawStarted:
		return "draw_started"
	case EventDrawCancelled:
		return "draw_cancelled"
	case EventProjectileFired:
		return "projectile_fired"
	case EventProjectileExpired:
		return "projectile_expired"
	case EventMeleeHit:
		return "melee_hit"
	case EventEnemySpawned:
		return "enemy_spawned"
	case EventEnemyDamaged:
		return "enemy_damaged"
	case EventEnemyKilled:
		return "enemy_killed"
	case EventChargeStarted:
		return "charge_started"
	case EventRusherExploded:
		return "rusher_exploded"
	case EventPlayerHit:
		return "player_hit"
	case EventHaptic:
		return "haptic"
	case EventGeometryRejected:
		return "geometry_rejected"
	case EventGameClear:
		return "game_clear"
	default:
		return "unknown"
	}
}

// DeathCause records why an enemy left the registry.
type DeathCause int

const (
	CauseSlain     DeathCause = iota // melee or arrow damage
	CauseDetonated                   // rusher self-destruct
)

func (c DeathCause) String() string {
	if c == CauseDetonated {
		return "detonated"
	}
	return "slain"
}

// Event is one thing that happened during a tick. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind     EventKind
	Tick     int
	At       time.Duration // session time
	Handle   Handle        // enemy, projectile or weapon
	Target   Handle        // enemy struck by a projectile or blade
	Hand     Hand
	Mode     WeaponMode
	Enemy    EnemyKind
	Owner    Owner
	Cause    DeathCause
	Position Vec3
	Value    float64 // draw progress, swing speed, haptic intensity, distance...
	Duration time.Duration
	Score    *ScoreResult // GameClear only
}

func (e Event) String() string {
	return fmt.Sprintf("[T=%04d %6.2fs] %-17s h=%d v=%.2f", e.Tick, e.At.Seconds(), e.Kind, e.Handle, e.Value)
}

// EventSink receives every event a session emits, in order, at the end of
// each Step. Sinks must not call back into the session.
type EventSink interface {
	HandleEvent(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// HandleEvent calls f(e).
func (f EventSinkFunc) HandleEvent(e Event) { f(e) }
