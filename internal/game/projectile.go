package game

import "time"

// Owner says which side fired a projectile.
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
)

func (o Owner) String() string {
	if o == OwnerEnemy {
		return "enemy"
	}
	return "player"
}

// Projectile is a straight-line kinematic shot with a bounded lifetime.
type Projectile struct {
	Handle    Handle
	Owner     Owner
	Shooter   Handle // enemy or weapon that fired it
	Source    string // shooter label, e.g. "T1" or "Wr"
	Origin    Vec3
	Direction Vec3 // unit
	Speed     float64
	SpawnedAt time.Duration
	Age       time.Duration
	Position  Vec3
	Visual    Visual

	lifetime time.Duration
	done     bool
	kind     EnemyKind // shooter kind for enemy shots
	bornTick int       // tick that created it; it does not move until the next one
}

// NewProjectile creates a projectile at origin. direction is normalised here;
// a zero direction produces a stationary shot that still expires.
func NewProjectile(owner Owner, origin, direction Vec3, speed float64, spawnedAt, lifetime time.Duration) *Projectile {
	return &Projectile{
		Owner:     owner,
		Origin:    origin,
		Direction: direction.Normalize(),
		Speed:     speed,
		SpawnedAt: spawnedAt,
		Position:  origin,
		lifetime:  lifetime,
	}
}

// Velocity is direction × speed in m/s.
func (p *Projectile) Velocity() Vec3 {
	return p.Direction.Scale(p.Speed)
}

// PositionAt returns where the projectile is age after spawning.
func (p *Projectile) PositionAt(age time.Duration) Vec3 {
	return p.Origin.Add(p.Velocity().Scale(age.Seconds()))
}

// Advance integrates dt of flight. Position is recomputed from the origin so
// that the result after any sequence of steps equals origin + v*age exactly.
// Returns false once the lifetime is used up.
func (p *Projectile) Advance(dt time.Duration) bool {
	if p.done {
		return false
	}
	p.Age += dt
	if p.Age >= p.lifetime {
		p.Age = p.lifetime
		p.Position = p.PositionAt(p.Age)
		p.done = true
		return false
	}
	p.Position = p.PositionAt(p.Age)
	return true
}

// Expired reports whether the lifetime cap was reached.
func (p *Projectile) Expired() bool {
	return p.Age >= p.lifetime
}

// Done reports whether the projectile has been destroyed (hit or timeout).
func (p *Projectile) Done() bool { return p.done }

// destroy marks the projectile for removal at the end of the tick.
func (p *Projectile) destroy() { p.done = true }
