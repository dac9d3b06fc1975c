package game

import (
	"errors"
	"fmt"
	"time"
)

// Tuning collects every gameplay constant. DefaultTuning holds the values the
// arena ships with; config files may override any of them.
type Tuning struct {
	// Weapon: ranged.
	NockOffset       float64       `mapstructure:"nockOffset"`       // m behind the grip along +Z
	NockReach        float64       `mapstructure:"nockReach"`        // off-hand must be closer than this to grab
	DrawMinDist      float64       `mapstructure:"drawMinDist"`      // hand separation at draw 0
	DrawMaxDist      float64       `mapstructure:"drawMaxDist"`      // hand separation at draw 1
	MisfireThreshold float64       `mapstructure:"misfireThreshold"` // releases below this cancel
	ArrowBaseSpeed   float64       `mapstructure:"arrowBaseSpeed"`   // m/s at draw 0
	ArrowDrawSpeed   float64       `mapstructure:"arrowDrawSpeed"`   // extra m/s at full draw
	RevertDelay      time.Duration `mapstructure:"revertDelay"`      // ranged -> melee after release

	// Weapon: melee.
	MeleeWarmup    time.Duration `mapstructure:"meleeWarmup"`
	SwingThreshold float64       `mapstructure:"swingThreshold"` // m/s
	BladeStart     float64       `mapstructure:"bladeStart"`     // m along forward
	BladeEnd       float64       `mapstructure:"bladeEnd"`
	BladeRadius    float64       `mapstructure:"bladeRadius"`
	EnemyRadius    float64       `mapstructure:"enemyRadius"`
	RehitCooldown  time.Duration `mapstructure:"rehitCooldown"`
	MaxBladeExtent float64       `mapstructure:"maxBladeExtent"` // m, hit-volume diagonal sanity bound
	WeaponHands    []string      `mapstructure:"weaponHands"`

	// Projectiles.
	ProjectileLifetime time.Duration `mapstructure:"projectileLifetime"`
	PlayerHitRadius    float64       `mapstructure:"playerHitRadius"` // enemy shot vs head
	EnemyHitRadius     float64       `mapstructure:"enemyHitRadius"`  // arrow vs enemy

	// Enemies.
	EnemyHealth int `mapstructure:"enemyHealth"`

	TurretCooldown     time.Duration `mapstructure:"turretCooldown"`
	TurretFirstCharge  time.Duration `mapstructure:"turretFirstCharge"`
	TurretChargeTime   time.Duration `mapstructure:"turretChargeTime"`
	TurretBurstCount   int           `mapstructure:"turretBurstCount"`
	TurretBurstSpacing time.Duration `mapstructure:"turretBurstSpacing"`
	TurretShotSpeed    float64       `mapstructure:"turretShotSpeed"`
	TurretJitter       float64       `mapstructure:"turretJitter"` // m of x shake at full charge

	MobileCooldown  time.Duration `mapstructure:"mobileCooldown"`
	MobileShotSpeed float64       `mapstructure:"mobileShotSpeed"`

	RusherHopInterval time.Duration `mapstructure:"rusherHopInterval"`
	RusherHopDistance float64       `mapstructure:"rusherHopDistance"`
	RusherJitterXZ    float64       `mapstructure:"rusherJitterXZ"` // full span per axis, centred on zero
	RusherJitterY     float64       `mapstructure:"rusherJitterY"`
	RusherTriggerDist float64       `mapstructure:"rusherTriggerDist"`
	RusherChargeTime  time.Duration `mapstructure:"rusherChargeTime"`
	RusherBlastRadius float64       `mapstructure:"rusherBlastRadius"`

	// Session.
	HUDInterval time.Duration `mapstructure:"hudInterval"`
}

// DefaultTuning returns the shipped constants.
func DefaultTuning() Tuning {
	return Tuning{
		NockOffset:       0.2,
		NockReach:        0.4,
		DrawMinDist:      0.1,
		DrawMaxDist:      0.6,
		MisfireThreshold: 0.2,
		ArrowBaseSpeed:   10,
		ArrowDrawSpeed:   15,
		RevertDelay:      300 * time.Millisecond,

		MeleeWarmup:    3 * time.Second,
		SwingThreshold: 1.5,
		BladeStart:     0.1,
		BladeEnd:       0.8,
		BladeRadius:    0.3,
		EnemyRadius:    0.5,
		RehitCooldown:  400 * time.Millisecond,
		MaxBladeExtent: 5,
		WeaponHands:    []string{"right", "left"},

		ProjectileLifetime: 5 * time.Second,
		PlayerHitRadius:    0.3,
		EnemyHitRadius:     0.5,

		EnemyHealth: 1,

		TurretCooldown:     5 * time.Second,
		TurretFirstCharge:  2 * time.Second,
		TurretChargeTime:   3 * time.Second,
		TurretBurstCount:   5,
		TurretBurstSpacing: 50 * time.Millisecond,
		TurretShotSpeed:    20,
		TurretJitter:       0.05,

		MobileCooldown:  2 * time.Second,
		MobileShotSpeed: 3,

		RusherHopInterval: 300 * time.Millisecond,
		RusherHopDistance: 0.8,
		RusherJitterXZ:    0.5,
		RusherJitterY:     0.3,
		RusherTriggerDist: 2,
		RusherChargeTime:  1500 * time.Millisecond,
		RusherBlastRadius: 3,

		HUDInterval: 100 * time.Millisecond,
	}
}

// ErrInvalidTuning wraps every Validate failure.
var ErrInvalidTuning = errors.New("invalid tuning")

// Validate rejects combinations the state machines cannot run with.
func (t Tuning) Validate() error {
	switch {
	case t.DrawMaxDist <= t.DrawMinDist:
		return fmt.Errorf("%w: drawMaxDist %.2f must exceed drawMinDist %.2f", ErrInvalidTuning, t.DrawMaxDist, t.DrawMinDist)
	case t.MisfireThreshold < 0 || t.MisfireThreshold > 1:
		return fmt.Errorf("%w: misfireThreshold %.2f outside [0,1]", ErrInvalidTuning, t.MisfireThreshold)
	case t.BladeEnd <= t.BladeStart:
		return fmt.Errorf("%w: bladeEnd %.2f must exceed bladeStart %.2f", ErrInvalidTuning, t.BladeEnd, t.BladeStart)
	case t.ProjectileLifetime <= 0:
		return fmt.Errorf("%w: projectileLifetime must be positive", ErrInvalidTuning)
	case t.EnemyHealth <= 0:
		return fmt.Errorf("%w: enemyHealth must be positive", ErrInvalidTuning)
	case t.TurretBurstCount <= 0:
		return fmt.Errorf("%w: turretBurstCount must be positive", ErrInvalidTuning)
	case t.TurretChargeTime <= 0 || t.RusherChargeTime <= 0:
		return fmt.Errorf("%w: charge times must be positive", ErrInvalidTuning)
	case t.RusherHopInterval <= 0:
		return fmt.Errorf("%w: rusherHopInterval must be positive", ErrInvalidTuning)
	case t.HUDInterval <= 0:
		return fmt.Errorf("%w: hudInterval must be positive", ErrInvalidTuning)
	}
	for _, h := range t.WeaponHands {
		if _, err := ParseHand(h); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTuning, err)
		}
	}
	return nil
}
