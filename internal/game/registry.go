package game

import (
	"math"
	"time"
)

// Registry is the session-owned ledger of live enemies and projectiles plus
// the running counters. Everything else holds handles into it.
//
// Removal is deferred: dead enemies and finished projectiles stay in the
// slices until Sweep runs at the end of the tick, so loops over Enemies or
// Projectiles within a tick never skip or revisit an entry.
type Registry struct {
	enemies     []*Enemy
	projectiles []*Projectile
	byHandle    map[Handle]any
	next        Handle

	Kills int
	Hits  int

	ShotsFired   int // player arrows
	ShotsCancel  int // releases below the misfire threshold
	EnemyShots   int
	MeleeHits    int
	ArrowHits    int
	Detonations  int
	StartedAt    time.Duration
	Mode         WeaponMode // mode of the active hand's weapon
	ActiveHand   Hand
	started      bool
	cleared      bool
	clearedAt    time.Duration
	everSpawned  bool
	weaponHandle map[Handle]*Weapon
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byHandle:     make(map[Handle]any),
		weaponHandle: make(map[Handle]*Weapon),
	}
}

// nextHandle issues a fresh, never reused handle.
func (r *Registry) nextHandle() Handle {
	r.next++
	return r.next
}

// --- Enemies ---

// AddEnemy registers e and assigns it a handle.
func (r *Registry) AddEnemy(e *Enemy) Handle {
	e.Handle = r.nextHandle()
	r.enemies = append(r.enemies, e)
	r.byHandle[e.Handle] = e
	r.everSpawned = true
	return e.Handle
}

// Enemy looks up a live enemy. Stale handles return false.
func (r *Registry) Enemy(h Handle) (*Enemy, bool) {
	e, ok := r.byHandle[h].(*Enemy)
	if !ok || e.dead {
		return nil, false
	}
	return e, true
}

// Enemies returns the live enemies in spawn order. The slice is a copy.
func (r *Registry) Enemies() []*Enemy {
	out := make([]*Enemy, 0, len(r.enemies))
	for _, e := range r.enemies {
		if !e.dead {
			out = append(out, e)
		}
	}
	return out
}

// LiveEnemyCount counts enemies that have not died.
func (r *Registry) LiveEnemyCount() int {
	n := 0
	for _, e := range r.enemies {
		if !e.dead {
			n++
		}
	}
	return n
}

// --- Projectiles ---

// AddProjectile registers p and assigns it a handle.
func (r *Registry) AddProjectile(p *Projectile) Handle {
	p.Handle = r.nextHandle()
	r.projectiles = append(r.projectiles, p)
	r.byHandle[p.Handle] = p
	return p.Handle
}

// Projectile looks up a projectile still in flight.
func (r *Registry) Projectile(h Handle) (*Projectile, bool) {
	p, ok := r.byHandle[h].(*Projectile)
	if !ok || p.done {
		return nil, false
	}
	return p, true
}

// Projectiles returns the projectiles still in flight, oldest first.
func (r *Registry) Projectiles() []*Projectile {
	out := make([]*Projectile, 0, len(r.projectiles))
	for _, p := range r.projectiles {
		if !p.done {
			out = append(out, p)
		}
	}
	return out
}

// --- Weapons ---

func (r *Registry) addWeapon(w *Weapon) Handle {
	w.Handle = r.nextHandle()
	r.weaponHandle[w.Handle] = w
	return w.Handle
}

// Alive reports whether h refers to a live entity. Weapons live for the whole
// session.
func (r *Registry) Alive(h Handle) bool {
	if _, ok := r.weaponHandle[h]; ok {
		return true
	}
	switch v := r.byHandle[h].(type) {
	case *Enemy:
		return !v.dead
	case *Projectile:
		return !v.done
	}
	return false
}

// --- Counters ---

// IncrementKills adds one kill.
func (r *Registry) IncrementKills() { r.Kills++ }

// IncrementHits adds one hit taken by the player.
func (r *Registry) IncrementHits() { r.Hits++ }

// Accuracy returns round(kills / hits * 100), or 0 when no hits were taken.
// The ratio is the one the arena HUD has always shown; it is not clamped.
func (r *Registry) Accuracy() int {
	if r.Hits == 0 {
		return 0
	}
	return int(math.Round(float64(r.Kills) / float64(r.Hits) * 100))
}

// Started reports whether the session has begun.
func (r *Registry) Started() bool { return r.started }

// Cleared reports whether the clear condition has fired.
func (r *Registry) Cleared() bool { return r.cleared }

// ClearedAt returns the session time of the clear, if any.
func (r *Registry) ClearedAt() (time.Duration, bool) { return r.clearedAt, r.cleared }

// markCleared latches the clear condition. It returns true exactly once per
// session: the first time it is called after start with no live enemies.
func (r *Registry) markCleared(now time.Duration) bool {
	if r.cleared || !r.started || !r.everSpawned || r.LiveEnemyCount() > 0 {
		return false
	}
	r.cleared = true
	r.clearedAt = now
	return true
}

// Sweep drops dead enemies and finished projectiles, keeping the order of
// the survivors. It returns the handles removed.
func (r *Registry) Sweep() []Handle {
	var removed []Handle
	liveE := r.enemies[:0]
	for _, e := range r.enemies {
		if e.dead {
			removed = append(removed, e.Handle)
			delete(r.byHandle, e.Handle)
			continue
		}
		liveE = append(liveE, e)
	}
	for i := len(liveE); i < len(r.enemies); i++ {
		r.enemies[i] = nil
	}
	r.enemies = liveE

	liveP := r.projectiles[:0]
	for _, p := range r.projectiles {
		if p.done {
			removed = append(removed, p.Handle)
			delete(r.byHandle, p.Handle)
			continue
		}
		liveP = append(liveP, p)
	}
	for i := len(liveP); i < len(r.projectiles); i++ {
		r.projectiles[i] = nil
	}
	r.projectiles = liveP
	return removed
}
