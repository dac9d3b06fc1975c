package game

import (
	"fmt"
	"time"
)

// Blade returns the hit segment of the sword in world space. Its span along
// the forward axis scales with the model scale.
func (w *Weapon) Blade(tun Tuning) (a, b Vec3) {
	t := w.Transform()
	fwd := t.Forward()
	a = t.Position.Add(fwd.Scale(tun.BladeStart * t.Scale))
	b = t.Position.Add(fwd.Scale(tun.BladeEnd * t.Scale))
	return a, b
}

// BladeBounds is the box around the blade capsule used for the sanity check.
func (w *Weapon) BladeBounds(tun Tuning) AABB {
	a, b := w.Blade(tun)
	return BoundsOfCapsule(a, b, tun.BladeRadius)
}

// meleeTest runs the swing-gated blade test against every live enemy.
// Callers have already checked mode and warm-up.
func (s *Session) meleeTest(w *Weapon) {
	if w.SwingSpeed <= s.tun.SwingThreshold {
		return
	}

	box := w.BladeBounds(s.tun)
	if diag := box.Diagonal(); diag > s.tun.MaxBladeExtent {
		if !w.warned {
			w.warned = true
			s.log.Warn("blade hit volume rejected",
				"hand", w.Hand.String(),
				"diagonal", diag,
				"limit", s.tun.MaxBladeExtent,
				"scale", w.Visual.Scale)
			s.emit(Event{Kind: EventGeometryRejected, Handle: w.Handle, Hand: w.Hand, Value: diag})
			s.simLog.Add(s.tick, w.label(), "weapon", "geometry_rejected", fmt.Sprintf("diag=%.1fm", diag), diag)
		}
		return
	}

	a, b := w.Blade(s.tun)
	reach := s.tun.BladeRadius + s.tun.EnemyRadius
	for _, e := range s.reg.enemies {
		if e.dead {
			continue
		}
		d := PointSegmentDistance(e.Position(), a, b)
		if d >= reach || !e.rehitReady(s.now, s.tun.RehitCooldown) {
			continue
		}
		e.markHit(s.now)
		s.reg.MeleeHits++
		s.emit(Event{Kind: EventMeleeHit, Handle: w.Handle, Target: e.Handle, Hand: w.Hand, Enemy: e.Kind, Position: e.Position(), Value: w.SwingSpeed})
		s.simLog.Add(s.tick, w.label(), "weapon", "melee_hit", fmt.Sprintf("%s speed=%.1f", e.Label, w.SwingSpeed), w.SwingSpeed)
		s.haptic(w.Hand, 1, 100*time.Millisecond)
		s.damage(e.Handle, 1, CauseSlain)
	}
}
