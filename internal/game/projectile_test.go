package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectile_PositionIsOriginPlusVelocityTimesAge(t *testing.T) {
	origin := Vec3{1, 2, 3}
	p := NewProjectile(OwnerPlayer, origin, Vec3{0, 0, -10}, 4, 0, 5*time.Second)
	assertVec(t, Vec3{0, 0, -4}, p.Velocity())

	steps := []time.Duration{16 * time.Millisecond, 17 * time.Millisecond, 100 * time.Millisecond, time.Millisecond}
	var total time.Duration
	for i := 0; i < 40; i++ {
		dt := steps[i%len(steps)]
		require.True(t, p.Advance(dt))
		total += dt
		want := origin.Add(Vec3{0, 0, -4 * total.Seconds()})
		assertVec(t, want, p.Position, "after %v", total)
	}
	assert.Equal(t, total, p.Age)
}

func TestProjectile_ExpiresAtLifetime(t *testing.T) {
	p := NewProjectile(OwnerEnemy, Vec3{}, Vec3{1, 0, 0}, 3, 0, 5*time.Second)
	dt := time.Second / 60
	ticks := 0
	for p.Advance(dt) {
		ticks++
		require.Less(t, ticks, 1000)
	}
	assert.True(t, p.Done())
	assert.True(t, p.Expired())
	assert.LessOrEqual(t, p.Age, 5*time.Second)
	assert.Equal(t, 300, ticks)
	assertVec(t, Vec3{15, 0, 0}, p.Position)
	assert.False(t, p.Advance(dt), "done projectiles stay done")
}

func TestProjectile_ZeroDirectionStillExpires(t *testing.T) {
	p := NewProjectile(OwnerEnemy, Vec3{1, 1, 1}, Vec3{}, 20, 0, time.Second)
	assert.True(t, p.Advance(500*time.Millisecond))
	assertVec(t, Vec3{1, 1, 1}, p.Position)
	assert.False(t, p.Advance(600*time.Millisecond))
}

func TestSession_LateBurstRoundSpawnsCaughtUp(t *testing.T) {
	ts := NewTestSim(WithTickRate(10))
	ts.RunTicks(1) // now = 100ms

	s := ts.Session
	p := s.spawnProjectile(OwnerEnemy, noOwner, Vec3{}, Vec3{1, 0, 0}, 20, 50*time.Millisecond, ModelBeam)
	assert.Equal(t, 50*time.Millisecond, p.SpawnedAt)
	assert.Equal(t, 50*time.Millisecond, p.Age)
	assertVec(t, Vec3{1, 0, 0}, p.Position)
}

func TestSession_ProjectilesRemovedAfterLifetime(t *testing.T) {
	ts := NewTestSim(WithTickRate(100))
	s := ts.Session
	p := s.spawnProjectile(OwnerEnemy, noOwner, Vec3{0, 50, 0}, Vec3{0, 1, 0}, 1, 0, ModelBullet)
	h := p.Handle

	ts.RunFor(4900 * time.Millisecond)
	_, ok := ts.Registry().Projectile(h)
	assert.True(t, ok)

	ts.RunFor(200 * time.Millisecond)
	_, ok = ts.Registry().Projectile(h)
	assert.False(t, ok)
	assert.Equal(t, 1, ts.Count(EventProjectileExpired))
	assert.Empty(t, ts.Registry().Projectiles())
}
