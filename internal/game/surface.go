package game

import "time"

// --- Collaborators outside the core ---

// Visual is an opaque handle to a render-side model. Placeholder visuals are
// built-in geometry used when the asset provider has nothing to offer.
type Visual struct {
	Name        string
	Placeholder bool
	Scale       float64 // model scale; blade length scales with it
	Source      string  // where the asset was loaded from, empty for placeholders
}

// PlaceholderVisual returns the built-in stand-in for name.
func PlaceholderVisual(name string) Visual {
	return Visual{Name: name, Placeholder: true, Scale: 1}
}

// AssetProvider hands out per-entity clones of preloaded models.
type AssetProvider interface {
	// Clone returns a fresh visual for name, or false when it is not loaded.
	Clone(name string) (Visual, bool)
}

// Surface receives one-way spawn and destroy commands.
type Surface interface {
	SpawnEnemy(h Handle, kind EnemyKind, t Transform, v Visual)
	SpawnProjectile(h Handle, owner Owner, t Transform, v Visual)
	Destroy(h Handle)
}

// HUDSnapshot is pushed to the HUD sink.
type HUDSnapshot struct {
	Kills    int
	Hits     int
	Accuracy int // percent
	Elapsed  time.Duration
	Score    int // live estimate
	Mode     WeaponMode
	Cleared  bool
}

// HUDSink displays snapshots. Push-only.
type HUDSink interface {
	UpdateHUD(HUDSnapshot)
}

// Model names requested from the asset provider.
const (
	ModelSword      = "sword"
	ModelDroneWhite = "drone_white"
	ModelDroneBlack = "drone_black"
	ModelTurret     = "turret"
	ModelArrow      = "arrow"
	ModelBullet     = "bullet"
	ModelBeam       = "beam"
)

// ModelNames lists every model the core may ask for.
func ModelNames() []string {
	return []string{ModelSword, ModelDroneWhite, ModelDroneBlack, ModelTurret, ModelArrow, ModelBullet, ModelBeam}
}

type nopSurface struct{}

func (nopSurface) SpawnEnemy(Handle, EnemyKind, Transform, Visual)  {}
func (nopSurface) SpawnProjectile(Handle, Owner, Transform, Visual) {}
func (nopSurface) Destroy(Handle)                                   {}

type nopHUD struct{}

func (nopHUD) UpdateHUD(HUDSnapshot) {}

type emptyProvider struct{}

func (emptyProvider) Clone(string) (Visual, bool) { return Visual{}, false }
