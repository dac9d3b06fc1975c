package game

import (
	"math"
	"math/rand"
)

// SpawnSpec is one enemy to place at game start.
type SpawnSpec struct {
	Kind     EnemyKind
	Position Vec3
}

// Arena layout constants.
const (
	mobileRingRadius = 10.0
	mobileHeight     = 1.5
	rusherRingRadius = 15.0
	rusherHeight     = 1.5
	turretHeight     = 2.0
	turretDepth      = -15.0
	turretSpread     = 5.0

	DefaultSpawnRadius = 15.0
	DefaultSpawnHeight = 1.6
	minSpawnDistance   = 5.0
)

// ClassicLayout is the standard arena: a ring of three mobiles, two rushers
// further out between them, and two turrets straight ahead.
func ClassicLayout() []SpawnSpec {
	var out []SpawnSpec
	for i := 0; i < 3; i++ {
		a := float64(i) / 3 * 2 * math.Pi
		out = append(out, SpawnSpec{EnemyMobile, Vec3{math.Cos(a) * mobileRingRadius, mobileHeight, math.Sin(a) * mobileRingRadius}})
	}
	for i := 0; i < 2; i++ {
		a := (float64(i) + 0.5) / 2 * 2 * math.Pi
		out = append(out, SpawnSpec{EnemyRusher, Vec3{math.Cos(a) * rusherRingRadius, rusherHeight, math.Sin(a) * rusherRingRadius}})
	}
	out = append(out,
		SpawnSpec{EnemyTurret, Vec3{turretSpread, turretHeight, turretDepth}},
		SpawnSpec{EnemyTurret, Vec3{-turretSpread, turretHeight, turretDepth}},
	)
	return out
}

// RandomSpawnPosition picks a point on the horizontal plane at height, at a
// distance in [5, 5+radius) from the origin.
func RandomSpawnPosition(rng *rand.Rand, radius, height float64) Vec3 {
	a := rng.Float64() * 2 * math.Pi
	d := minSpawnDistance + rng.Float64()*radius
	return Vec3{math.Cos(a) * d, height, math.Sin(a) * d}
}

// RandomLayout scatters count enemies of random kinds.
func RandomLayout(rng *rand.Rand, count int) []SpawnSpec {
	out := make([]SpawnSpec, 0, count)
	for i := 0; i < count; i++ {
		kind := EnemyKind(rng.Intn(3))
		h := DefaultSpawnHeight
		if kind == EnemyTurret {
			h = turretHeight
		}
		out = append(out, SpawnSpec{kind, RandomSpawnPosition(rng, DefaultSpawnRadius, h)})
	}
	return out
}
