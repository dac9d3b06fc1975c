package game

import (
	"fmt"
	"math"
	"time"
)

// rusherBrain: Approaching -> Charging -> Exploding. Exploding is terminal;
// the rusher dies in the same tick.
type rusherBrain struct {
	st          EnemyState
	hopTimer    time.Duration
	hops        int
	chargeStart time.Duration
	pulse       float64
	progress    float64
}

func newRusherBrain() *rusherBrain {
	return &rusherBrain{st: StateApproaching, pulse: 1}
}

func (b *rusherBrain) state() EnemyState { return b.st }

func (b *rusherBrain) cosmetic() Cosmetic {
	return Cosmetic{ChargeProgress: b.progress, PulseScale: b.pulse}
}

func (b *rusherBrain) tick(s *Session, e *Enemy, dt time.Duration) {
	head := s.head.Position
	e.face(head, 0)

	switch b.st {
	case StateApproaching:
		b.hopTimer += dt
		if b.hopTimer >= s.tun.RusherHopInterval {
			b.hopTimer = 0
			b.hop(s, e)
		}
		if d := e.Position().Dist(head); d < s.tun.RusherTriggerDist {
			b.st = StateCharging
			b.chargeStart = s.now
			s.emit(Event{Kind: EventChargeStarted, Handle: e.Handle, Enemy: e.Kind, Position: e.Position(), Value: d})
			s.simLog.Add(s.tick, e.Label, "enemy", "charge_start", fmt.Sprintf("dist=%.2f", d), d)
		}

	case StateCharging:
		elapsed := s.now - b.chargeStart
		b.progress = clamp01(float64(elapsed) / float64(s.tun.RusherChargeTime))
		b.pulse = 1 + math.Sin(float64(elapsed.Milliseconds())*0.01)*0.1
		if elapsed >= s.tun.RusherChargeTime {
			b.explode(s, e)
		}
	}
}

// hop jumps a fixed distance toward the head along a jittered direction.
func (b *rusherBrain) hop(s *Session, e *Enemy) {
	dir := s.head.Position.Sub(e.Position()).Normalize()
	dir.X += (s.rng.Float64() - 0.5) * s.tun.RusherJitterXZ
	dir.Y += (s.rng.Float64() - 0.5) * s.tun.RusherJitterY
	dir.Z += (s.rng.Float64() - 0.5) * s.tun.RusherJitterXZ
	dir = dir.Normalize()
	e.Transform.Position = e.Position().Add(dir.Scale(s.tun.RusherHopDistance))
	b.hops++
	s.simLog.AddVerbose(s.tick, e.Label, "enemy", "hop", "", e.Position().Dist(s.head.Position))
}

// explode damages the player when inside the blast radius, then removes the
// rusher whatever the outcome.
func (b *rusherBrain) explode(s *Session, e *Enemy) {
	b.st = StateExploding
	b.pulse = 1
	d := e.Position().Dist(s.head.Position)
	inside := d < s.tun.RusherBlastRadius
	s.emit(Event{Kind: EventRusherExploded, Handle: e.Handle, Enemy: e.Kind, Position: e.Position(), Value: d})
	s.simLog.Add(s.tick, e.Label, "enemy", "explode", fmt.Sprintf("dist=%.2f hit=%t", d, inside), d)
	if inside {
		s.playerHit(e.Handle, e.Kind, e.Position())
	}
	s.kill(e, CauseDetonated)
}
