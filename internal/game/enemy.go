package game

import (
	"fmt"
	"strings"
	"time"
)

// EnemyKind selects an enemy's behaviour.
type EnemyKind int

const (
	EnemyTurret EnemyKind = iota // stationary charger
	EnemyMobile                  // hovering shooter
	EnemyRusher                  // suicide drone
)

func (k EnemyKind) String() string {
	switch k {
	case EnemyTurret:
		return "turret"
	case EnemyMobile:
		return "mobile"
	case EnemyRusher:
		return "rusher"
	default:
		return "unknown"
	}
}

// label is the one-letter prefix used in SimLog actor labels.
func (k EnemyKind) label() string {
	switch k {
	case EnemyTurret:
		return "T"
	case EnemyMobile:
		return "M"
	default:
		return "R"
	}
}

// model is the asset requested for this kind.
func (k EnemyKind) model() string {
	switch k {
	case EnemyMobile:
		return ModelDroneWhite
	case EnemyRusher:
		return ModelDroneBlack
	default:
		return ModelTurret
	}
}

// ParseEnemyKind accepts kind names and the drone colour aliases.
func ParseEnemyKind(s string) (EnemyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "turret":
		return EnemyTurret, nil
	case "mobile", "white":
		return EnemyMobile, nil
	case "rusher", "black":
		return EnemyRusher, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEnemyKind, s)
	}
}

// EnemyState is the externally visible state of an enemy's machine. Each kind
// uses a subset.
type EnemyState int

const (
	StateIdle        EnemyState = iota // turret cooling down
	StateCharging                      // turret or rusher winding up
	StateHovering                      // mobile shooter
	StateApproaching                   // rusher hopping in
	StateExploding                     // rusher terminal
	StateDead
)

func (s EnemyState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCharging:
		return "charging"
	case StateHovering:
		return "hovering"
	case StateApproaching:
		return "approaching"
	case StateExploding:
		return "exploding"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Cosmetic carries the per-enemy animation parameters the render surface
// may show. None of it feeds back into gameplay.
type Cosmetic struct {
	ChargeProgress float64 // 0..1 while charging
	Intensity      float64 // turret core heat, 0 = white, 1 = red
	Spin           float64 // radians of roll about the facing axis
	PulseScale     float64 // rusher charge pulse, 1 when idle
}

// behavior is the kind-specific payload of an Enemy. The set of
// implementations is closed: turretBrain, mobileBrain, rusherBrain.
type behavior interface {
	state() EnemyState
	tick(s *Session, e *Enemy, dt time.Duration)
	cosmetic() Cosmetic
}

// Enemy is a live hostile agent. It is owned by the Registry; everything
// else refers to it by Handle.
type Enemy struct {
	Handle    Handle
	Kind      EnemyKind
	Health    int
	Transform Transform
	Visual    Visual
	SpawnedAt time.Duration
	Label     string // e.g. "T0", "M2"

	lastHit time.Duration
	wasHit  bool
	dead    bool
	brain   behavior
}

func newEnemy(kind EnemyKind, t Transform, now time.Duration, tun Tuning) *Enemy {
	e := &Enemy{
		Kind:      kind,
		Health:    tun.EnemyHealth,
		Transform: t,
		SpawnedAt: now,
	}
	if e.Transform.Scale == 0 {
		e.Transform.Scale = 1
	}
	if e.Transform.Orientation == (Quat{}) {
		e.Transform.Orientation = QuatIdentity()
	}
	switch kind {
	case EnemyTurret:
		e.brain = newTurretBrain(t.Position, now, tun)
	case EnemyMobile:
		e.brain = newMobileBrain(now)
	default:
		e.brain = newRusherBrain()
	}
	return e
}

// Position is the enemy's world position.
func (e *Enemy) Position() Vec3 { return e.Transform.Position }

// Alive reports whether the enemy has not died yet.
func (e *Enemy) Alive() bool { return !e.dead }

// State returns the current machine state, StateDead once dead.
func (e *Enemy) State() EnemyState {
	if e.dead {
		return StateDead
	}
	return e.brain.state()
}

// Cosmetic returns the current animation parameters.
func (e *Enemy) Cosmetic() Cosmetic { return e.brain.cosmetic() }

// LastHitTime returns when a blade last registered on this enemy.
func (e *Enemy) LastHitTime() (time.Duration, bool) {
	return e.lastHit, e.wasHit
}

// rehitReady reports whether the per-enemy melee cooldown has elapsed.
func (e *Enemy) rehitReady(now, cooldown time.Duration) bool {
	return !e.wasHit || now-e.lastHit > cooldown
}

func (e *Enemy) markHit(now time.Duration) {
	e.lastHit = now
	e.wasHit = true
}

// face turns the enemy toward target, then rolls it by spin.
func (e *Enemy) face(target Vec3, spin float64) {
	dir := target.Sub(e.Transform.Position)
	q := LookRotation(dir)
	if spin != 0 {
		q = q.Mul(QuatAxisAngle(Vec3{0, 0, -1}, spin))
	}
	e.Transform.Orientation = q
}
