package game

import (
	"fmt"
	"time"
)

// --- Hit resolution ---
//
// Every change to enemy health goes through damage, and every death through
// kill. Both tolerate stale handles and repeated calls, so a blade and an
// arrow landing on the same enemy in one tick score once.

// TakeDamage applies amount to the enemy behind h. It returns false for
// stale handles and enemies that are already dead.
func (s *Session) TakeDamage(h Handle, amount int) bool {
	return s.damage(h, amount, CauseSlain)
}

func (s *Session) damage(h Handle, amount int, cause DeathCause) bool {
	e, ok := s.reg.Enemy(h)
	if !ok {
		return false
	}
	e.Health -= amount
	s.emit(Event{Kind: EventEnemyDamaged, Handle: h, Enemy: e.Kind, Position: e.Position(), Value: float64(e.Health)})
	if e.Health <= 0 {
		s.kill(e, cause)
	}
	return true
}

// kill runs the death path once: counter, pending callbacks, clear check.
// The registry drops the enemy in the end-of-tick sweep.
func (s *Session) kill(e *Enemy, cause DeathCause) {
	if e.dead {
		return
	}
	e.dead = true
	s.reg.IncrementKills()
	if cause == CauseDetonated {
		s.reg.Detonations++
	}
	dropped := s.sched.CancelOwner(e.Handle)
	s.emit(Event{Kind: EventEnemyKilled, Handle: e.Handle, Enemy: e.Kind, Cause: cause, Position: e.Position()})
	s.simLog.Add(s.tick, e.Label, "enemy", "killed", cause.String(), float64(s.reg.Kills))
	s.log.Debug("enemy killed",
		"enemy", e.Label,
		"kind", e.Kind.String(),
		"cause", cause.String(),
		"cancelled", dropped,
		"kills", s.reg.Kills)
	s.checkClear()
}

// playerHit records damage taken by the player.
func (s *Session) playerHit(source Handle, kind EnemyKind, at Vec3) {
	s.reg.IncrementHits()
	s.emit(Event{Kind: EventPlayerHit, Handle: source, Enemy: kind, Owner: OwnerEnemy, Position: at, Value: float64(s.reg.Hits)})
	s.simLog.Add(s.tick, "--", "player", "hit", kind.String(), float64(s.reg.Hits))
	for h := Hand(0); h < handCount; h++ {
		s.haptic(h, 1, 200*time.Millisecond)
	}
}

// checkClear raises the clear condition the first time the live set is
// empty after start. Later calls are no-ops.
func (s *Session) checkClear() {
	if !s.reg.markCleared(s.now) {
		return
	}
	res := CalculateScore(s.Elapsed(), s.reg.Kills, s.reg.Hits)
	s.result = &res

	// Shots still in flight belong to a finished round.
	for _, p := range s.reg.projectiles {
		p.destroy()
	}
	s.emit(Event{Kind: EventGameClear, Duration: s.Elapsed(), Value: float64(res.Final), Score: &res})
	s.simLog.Add(s.tick, "--", "session", "clear", res.String(), float64(res.Final))
	s.log.Info("arena cleared",
		"elapsed", s.Elapsed().Round(time.Millisecond).String(),
		"kills", res.Kills,
		"hits", res.Hits,
		"score", res.Final)
	s.pushHUD()
}

// --- Projectiles ---

// spawnProjectile launches a shot that was due at session time at. Shots
// fired late (a burst round picked up on a later tick) start with their age
// caught up, so they sit where they would have been.
func (s *Session) spawnProjectile(owner Owner, shooter Handle, origin, dir Vec3, speed float64, at time.Duration, model string) *Projectile {
	p := NewProjectile(owner, origin, dir, speed, at, s.tun.ProjectileLifetime)
	p.Shooter = shooter
	switch src := s.reg.byHandle[shooter].(type) {
	case *Enemy:
		p.Source = src.Label
		p.kind = src.Kind
	default:
		if w, ok := s.reg.weaponHandle[shooter]; ok {
			p.Source = w.label()
		}
	}
	p.Visual = s.visual(model)
	p.bornTick = s.tick
	h := s.reg.AddProjectile(p)
	if owner == OwnerEnemy {
		s.reg.EnemyShots++
	}

	expired := false
	if late := s.now - at; late > 0 {
		expired = !p.Advance(late)
	}
	s.surface.SpawnProjectile(h, owner, Transform{Position: p.Position, Orientation: LookRotation(p.Direction), Scale: 1}, p.Visual)
	s.emit(Event{Kind: EventProjectileFired, Handle: h, Target: shooter, Owner: owner, Enemy: p.kind, Position: p.Position, Value: speed, Duration: p.Age})
	s.simLog.AddVerbose(s.tick, fmt.Sprintf("P%d", h), "projectile", "spawn", owner.String(), speed)
	if expired {
		s.emit(Event{Kind: EventProjectileExpired, Handle: h, Owner: owner, Position: p.Position})
	}
	return p
}

// tickProjectiles moves every shot older than this tick, then tests it along
// the path it covered: enemy shots against the head, arrows against enemies.
func (s *Session) tickProjectiles(dt time.Duration) {
	for _, p := range s.reg.projectiles {
		if p.done {
			continue
		}
		from := p.Position
		if p.bornTick == s.tick {
			from = p.Origin
		} else if !p.Advance(dt) {
			s.emit(Event{Kind: EventProjectileExpired, Handle: p.Handle, Owner: p.Owner, Position: p.Position})
			continue
		}

		switch p.Owner {
		case OwnerEnemy:
			if PointSegmentDistance(s.head.Position, from, p.Position) < s.tun.PlayerHitRadius {
				p.destroy()
				s.playerHit(p.Shooter, p.kind, p.Position)
			}
		case OwnerPlayer:
			for _, e := range s.reg.enemies {
				if e.dead {
					continue
				}
				if PointSegmentDistance(e.Position(), from, p.Position) < s.tun.EnemyHitRadius {
					p.destroy()
					s.reg.ArrowHits++
					s.simLog.Add(s.tick, fmt.Sprintf("P%d", p.Handle), "projectile", "arrow_hit", e.Label, p.Age.Seconds())
					s.damage(e.Handle, 1, CauseSlain)
					break
				}
			}
		}
	}
}
