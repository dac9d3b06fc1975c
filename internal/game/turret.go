package game

import (
	"fmt"
	"time"
)

const turretSpinRate = 1.0 // rad/s at rest; ×(1+10p) while charging

// turretBrain: Idle -> Charging -> burst -> Idle.
type turretBrain struct {
	anchor      Vec3 // jitter is applied around this, so the turret never drifts
	charging    bool
	chargeStart time.Duration
	lastShot    time.Duration
	progress    float64
	spin        float64
	bursts      int
}

// newTurretBrain backdates the last shot so the first charge starts
// TurretFirstCharge after spawn rather than a full cooldown.
func newTurretBrain(anchor Vec3, now time.Duration, tun Tuning) *turretBrain {
	return &turretBrain{
		anchor:   anchor,
		lastShot: now - (tun.TurretCooldown - tun.TurretFirstCharge),
	}
}

func (b *turretBrain) state() EnemyState {
	if b.charging {
		return StateCharging
	}
	return StateIdle
}

func (b *turretBrain) cosmetic() Cosmetic {
	return Cosmetic{ChargeProgress: b.progress, Intensity: b.progress, Spin: b.spin, PulseScale: 1}
}

func (b *turretBrain) tick(s *Session, e *Enemy, dt time.Duration) {
	tun := s.tun
	if !b.charging && s.now-b.lastShot >= tun.TurretCooldown {
		b.charging = true
		b.chargeStart = s.now
		b.progress = 0
		s.emit(Event{Kind: EventChargeStarted, Handle: e.Handle, Enemy: e.Kind, Position: e.Position()})
		s.simLog.Add(s.tick, e.Label, "enemy", "charge_start", "turret", 0)
	}

	rate := turretSpinRate
	pos := b.anchor
	if b.charging {
		b.progress = clamp01(float64(s.now-b.chargeStart) / float64(tun.TurretChargeTime))
		rate *= 1 + 10*b.progress
		pos.X += (s.rng.Float64() - 0.5) * tun.TurretJitter * b.progress
	}
	b.spin += rate * dt.Seconds()
	e.Transform.Position = pos
	e.face(s.head.Position, b.spin)

	if b.charging && b.progress >= 1 {
		b.fire(s, e)
	}
}

// fire captures the head position once and schedules the whole burst along
// that line. The first round leaves immediately; the rest are owned by the
// turret so they die with it.
func (b *turretBrain) fire(s *Session, e *Enemy) {
	tun := s.tun
	b.charging = false
	b.progress = 0
	b.lastShot = s.now
	b.bursts++

	origin := b.anchor
	target := s.head.Position
	dir := target.Sub(origin)
	s.simLog.Add(s.tick, e.Label, "enemy", "burst", fmt.Sprintf("target=(%.1f,%.1f,%.1f)", target.X, target.Y, target.Z), float64(tun.TurretBurstCount))

	shooter := e.Handle
	shoot := func(at time.Duration) {
		s.spawnProjectile(OwnerEnemy, shooter, origin, dir, tun.TurretShotSpeed, at, ModelBeam)
	}
	shoot(s.now)
	for i := 1; i < tun.TurretBurstCount; i++ {
		s.sched.At(s.now+time.Duration(i)*tun.TurretBurstSpacing, shooter, shoot)
	}
}
