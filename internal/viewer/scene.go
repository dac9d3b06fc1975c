package viewer

import (
	"time"

	"github.com/Garsondee/Snipe-Slash/internal/game"
)

// burstLife is how long a destroyed entity's ring stays on screen.
const burstLife = 400 * time.Millisecond

type spriteKind int

const (
	spriteEnemy spriteKind = iota
	spriteProjectile
)

// sprite is the render-side record of something the session spawned.
type sprite struct {
	kind   spriteKind
	enemy  game.EnemyKind
	owner  game.Owner
	visual game.Visual
	last   game.Vec3
}

// burst marks where an entity disappeared.
type burst struct {
	at    game.Vec3
	born  time.Duration
	enemy bool
}

// Scene is the viewer's render surface and HUD sink. The session calls it
// from Step; the viewer reads it from Draw on the same goroutine.
type Scene struct {
	sprites map[game.Handle]*sprite
	bursts  []burst
	hud     game.HUDSnapshot
	hudSeen bool
	now     time.Duration

	spawned   int
	destroyed int
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{sprites: make(map[game.Handle]*sprite)}
}

// SpawnEnemy implements game.Surface.
func (sc *Scene) SpawnEnemy(h game.Handle, kind game.EnemyKind, t game.Transform, v game.Visual) {
	sc.sprites[h] = &sprite{kind: spriteEnemy, enemy: kind, visual: v, last: t.Position}
	sc.spawned++
}

// SpawnProjectile implements game.Surface.
func (sc *Scene) SpawnProjectile(h game.Handle, owner game.Owner, t game.Transform, v game.Visual) {
	sc.sprites[h] = &sprite{kind: spriteProjectile, owner: owner, visual: v, last: t.Position}
	sc.spawned++
}

// Destroy implements game.Surface. Unknown handles are ignored.
func (sc *Scene) Destroy(h game.Handle) {
	sp, ok := sc.sprites[h]
	if !ok {
		return
	}
	delete(sc.sprites, h)
	sc.destroyed++
	sc.bursts = append(sc.bursts, burst{at: sp.last, born: sc.now, enemy: sp.kind == spriteEnemy})
}

// UpdateHUD implements game.HUDSink.
func (sc *Scene) UpdateHUD(s game.HUDSnapshot) {
	sc.hud = s
	sc.hudSeen = true
}

// HUD returns the last pushed snapshot.
func (sc *Scene) HUD() (game.HUDSnapshot, bool) { return sc.hud, sc.hudSeen }

// Sync copies live positions out of the registry and ages out old bursts.
func (sc *Scene) Sync(reg *game.Registry, now time.Duration) {
	sc.now = now
	for _, e := range reg.Enemies() {
		if sp, ok := sc.sprites[e.Handle]; ok {
			sp.last = e.Position()
		}
	}
	for _, p := range reg.Projectiles() {
		if sp, ok := sc.sprites[p.Handle]; ok {
			sp.last = p.Position
		}
	}
	kept := sc.bursts[:0]
	for _, b := range sc.bursts {
		if now-b.born < burstLife {
			kept = append(kept, b)
		}
	}
	sc.bursts = kept
}

// Visual returns the visual the session handed over for h.
func (sc *Scene) Visual(h game.Handle) (game.Visual, bool) {
	sp, ok := sc.sprites[h]
	if !ok {
		return game.Visual{}, false
	}
	return sp.visual, true
}

// Len is the number of spawned entities not yet destroyed.
func (sc *Scene) Len() int { return len(sc.sprites) }

// Reset forgets everything, for a restart.
func (sc *Scene) Reset() {
	*sc = *NewScene()
}

var (
	_ game.Surface = (*Scene)(nil)
	_ game.HUDSink = (*Scene)(nil)
)
