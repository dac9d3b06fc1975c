package game

import "time"

const mobileRingSpin = 2.0 // rad/s

// mobileBrain hovers in place, faces the head and shoots on a fixed cadence.
type mobileBrain struct {
	lastShot time.Duration
	ring     float64
}

func newMobileBrain(now time.Duration) *mobileBrain {
	return &mobileBrain{lastShot: now}
}

func (b *mobileBrain) state() EnemyState { return StateHovering }

func (b *mobileBrain) cosmetic() Cosmetic {
	return Cosmetic{Spin: b.ring, PulseScale: 1}
}

func (b *mobileBrain) tick(s *Session, e *Enemy, dt time.Duration) {
	b.ring += mobileRingSpin * dt.Seconds()
	e.face(s.head.Position, 0)

	if s.now-b.lastShot < s.tun.MobileCooldown {
		return
	}
	b.lastShot = s.now
	// Aimed at where the head is now; no lead.
	dir := s.head.Position.Sub(e.Position())
	s.spawnProjectile(OwnerEnemy, e.Handle, e.Position(), dir, s.tun.MobileShotSpeed, s.now, ModelBullet)
}
