package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var meleeTarget = Vec3{0, 1.5, -5}

// swingFrame whips the right hand side to side in front of meleeTarget so the
// middle of an unscaled blade sweeps through it. lateral shifts the whole
// swing sideways; stroke is the half-width of the swing.
func swingFrame(tick int, lateral, stroke, along float64) InputFrame {
	side := stroke
	if tick%2 == 1 {
		side = -stroke
	}
	var in InputFrame
	in.Head = PoseAt(testHead)
	in.Hand(HandRight).Pose = PoseAt(meleeTarget.Add(Vec3{lateral + side, 0, along}))
	return in
}

func swingFor(ts *TestSim, d time.Duration, lateral, stroke, along float64) {
	end := ts.Session.Now() + d
	for i := 0; ts.Session.Now() < end; i++ {
		ts.Step(swingFrame(i, lateral, stroke, along))
	}
}

func TestMelee_NotArmedDuringWarmup(t *testing.T) {
	ts := NewTestSim(WithTickRate(100), WithEnemy(EnemyMobile, meleeTarget.X, meleeTarget.Y, meleeTarget.Z))
	w := rightWeapon(t, ts)

	swingFor(ts, 2900*time.Millisecond, 0, 0.1, 0.45)
	assert.False(t, w.IsReady)
	assert.Zero(t, ts.Registry().MeleeHits)
	assert.Equal(t, 1, ts.Registry().LiveEnemyCount())

	swingFor(ts, 200*time.Millisecond, 0, 0.1, 0.45)
	assert.True(t, w.IsReady)
	assert.Equal(t, 1, ts.Registry().MeleeHits)
	assert.Equal(t, 1, ts.Registry().Kills)
	assert.Equal(t, 1, ts.Count(EventGameClear))
}

func TestMelee_PerEnemyCooldown(t *testing.T) {
	ts := NewTestSim(
		WithTickRate(100),
		WithSimTuning(func(tun *Tuning) { tun.EnemyHealth = 3 }),
		WithEnemy(EnemyMobile, meleeTarget.X, meleeTarget.Y, meleeTarget.Z),
	)
	ts.RunFor(3 * time.Second)
	require.True(t, rightWeapon(t, ts).IsReady)

	// Continuous swinging for less than the cooldown lands once.
	swingFor(ts, 300*time.Millisecond, 0, 0.1, 0.45)
	require.Equal(t, 1, ts.Registry().MeleeHits)

	swingFor(ts, 150*time.Millisecond, 0, 0.1, 0.45)
	assert.Equal(t, 2, ts.Registry().MeleeHits)

	hits := ts.EventsOf(EventMeleeHit)
	require.Len(t, hits, 2)
	assert.Greater(t, hits[1].At-hits[0].At, DefaultTuning().RehitCooldown)

	e, ok := ts.EnemyByLabel("M0")
	require.True(t, ok)
	assert.Equal(t, 1, e.Health)
	last, ok := e.LastHitTime()
	assert.True(t, ok)
	assert.Equal(t, hits[1].At, last)
}

func TestMelee_SlowHandDoesNotHit(t *testing.T) {
	ts := NewTestSim(WithTickRate(100), WithEnemy(EnemyMobile, meleeTarget.X, meleeTarget.Y, meleeTarget.Z))

	// 1 cm per 10 ms tick is 1 m/s, below the 1.5 m/s threshold. Start
	// during warm-up so the jump onto the swing line is not sampled armed.
	swingFor(ts, 4*time.Second, 0, 0.005, 0.45)
	w := rightWeapon(t, ts)
	assert.InDelta(t, 1.0, w.SwingSpeed, 1e-6)
	assert.Zero(t, ts.Registry().MeleeHits)
}

func TestMelee_OutOfReachDoesNotHit(t *testing.T) {
	ts := NewTestSim(WithTickRate(100), WithEnemy(EnemyMobile, meleeTarget.X, meleeTarget.Y, meleeTarget.Z))
	ts.RunFor(3 * time.Second)

	// Blade passes 0.85 to 0.95 m beside the enemy; reach is 0.3 + 0.5.
	swingFor(ts, time.Second, 0.9, 0.05, 0.45)
	assert.Zero(t, ts.Registry().MeleeHits)
	assert.Equal(t, 1, ts.Registry().LiveEnemyCount())
}

func TestMelee_OversizedBladeRejectedOnce(t *testing.T) {
	logger, buf := captureLogger()
	assets := fakeAssets{ModelSword: {Name: ModelSword, Scale: 20}}
	ts := NewTestSim(
		WithTickRate(100),
		WithSessionOptions(WithAssets(assets), WithLogger(logger)),
		WithEnemy(EnemyMobile, meleeTarget.X, meleeTarget.Y, meleeTarget.Z),
	)
	ts.RunFor(3 * time.Second)

	// At scale 20 the blade spans 2..16 m; put the enemy 9 m down it.
	swingFor(ts, time.Second, 0, 0.1, 9)

	assert.Zero(t, ts.Registry().MeleeHits)
	assert.Equal(t, 1, ts.Registry().LiveEnemyCount())
	assert.Equal(t, 1, ts.Count(EventGeometryRejected))
	assert.Equal(t, 1, countLines(buf, "blade hit volume rejected"))

	w := rightWeapon(t, ts)
	assert.Greater(t, w.BladeBounds(DefaultTuning()).Diagonal(), DefaultTuning().MaxBladeExtent)
}

func TestMelee_ScaledBladeReachesFurther(t *testing.T) {
	assets := fakeAssets{ModelSword: {Name: ModelSword, Scale: 4}}
	ts := NewTestSim(
		WithTickRate(100),
		WithSessionOptions(WithAssets(assets)),
		WithEnemy(EnemyMobile, meleeTarget.X, meleeTarget.Y, meleeTarget.Z),
	)
	ts.RunFor(3 * time.Second)

	// An unscaled blade ends 0.8 m out; at scale 4 it spans 0.4..3.2 m.
	swingFor(ts, 100*time.Millisecond, 0, 0.1, 2.5)
	assert.Equal(t, 1, ts.Registry().MeleeHits)
}
