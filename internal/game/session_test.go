package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Lifecycle ---

func TestSession_StepBeforeStartIsNoop(t *testing.T) {
	s := NewSession(WithSpawns([]SpawnSpec{{EnemyMobile, Vec3{0, 1.5, -5}}}))
	assert.Nil(t, s.Step(time.Second, InputFrame{}))
	assert.Zero(t, s.Tick())
	assert.Zero(t, s.Now())
	assert.Zero(t, s.Registry().LiveEnemyCount())

	_, err := s.Result()
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestSession_StartTwice(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)
	assert.Equal(t, 7, s.Registry().LiveEnemyCount(), "classic layout when none given")
}

func TestSession_StartCancelledWhileLoading(t *testing.T) {
	s := NewSession(WithAssets(slowAssets{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Start(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, s.Started())
	assert.Zero(t, s.Registry().LiveEnemyCount())
}

type brokenAssets struct{ fakeAssets }

func (brokenAssets) Wait(context.Context) error { return errors.New("disk on fire") }

func TestSession_FailedPreloadFallsBackToPlaceholders(t *testing.T) {
	logger, buf := captureLogger()
	s := NewSession(WithAssets(brokenAssets{}), WithLogger(logger),
		WithSpawns([]SpawnSpec{{EnemyTurret, Vec3{0, 2, -15}}}))
	require.NoError(t, s.Start(context.Background()))

	e := s.Registry().Enemies()[0]
	assert.True(t, e.Visual.Placeholder)
	assert.Equal(t, ModelTurret, e.Visual.Name)
	assert.Equal(t, 1, countLines(buf, "asset preload incomplete"))
}

func TestSession_UnknownWeaponHandFailsStart(t *testing.T) {
	tun := DefaultTuning()
	tun.WeaponHands = []string{"right", "tail"}
	s := NewSession(WithTuning(tun))
	require.Error(t, s.Start(context.Background()))
	assert.False(t, s.Started())
}

func TestSession_InvalidTuningFailsStart(t *testing.T) {
	for name, edit := range map[string]func(*Tuning){
		"zero hud interval":  func(tun *Tuning) { tun.HUDInterval = 0 },
		"zero rusher charge": func(tun *Tuning) { tun.RusherChargeTime = 0 },
		"inverted draw":      func(tun *Tuning) { tun.DrawMaxDist = tun.DrawMinDist },
	} {
		tun := DefaultTuning()
		edit(&tun)
		s := NewSession(WithTuning(tun))
		err := s.Start(context.Background())
		assert.ErrorIs(t, err, ErrInvalidTuning, name)
		assert.False(t, s.Started(), name)
		assert.Zero(t, s.Registry().LiveEnemyCount(), name)
		assert.Empty(t, s.Weapons(), name)
	}
}

func TestParseHand_IgnoresCase(t *testing.T) {
	for in, want := range map[string]Hand{"right": HandRight, "Left": HandLeft, " RIGHT ": HandRight} {
		got, err := ParseHand(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseHand("tail")
	assert.Error(t, err)
}

func TestSession_WeaponsPerHand(t *testing.T) {
	ts := NewTestSim()
	require.Len(t, ts.Session.Weapons(), 2)
	assert.Equal(t, HandRight, ts.Session.Weapons()[0].Hand)
	assert.Equal(t, HandLeft, ts.Session.Weapons()[1].Hand)
	assert.Equal(t, HandRight, ts.Registry().ActiveHand)

	ts = NewTestSim(WithSimTuning(func(tun *Tuning) { tun.WeaponHands = nil }))
	require.Len(t, ts.Session.Weapons(), 1)
	_, ok := ts.Session.Weapon(HandLeft)
	assert.False(t, ok)

	ts = NewTestSim(WithSimTuning(func(tun *Tuning) { tun.WeaponHands = []string{"left", "left"} }))
	require.Len(t, ts.Session.Weapons(), 1)
	assert.Equal(t, HandLeft, ts.Registry().ActiveHand)
}

func TestSession_StartEvents(t *testing.T) {
	var got []Event
	sink := EventSinkFunc(func(e Event) { got = append(got, e) })
	surf := newSurfaceRecorder()
	s := NewSession(WithSinks(sink), WithSurface(surf), WithSpawns([]SpawnSpec{
		{EnemyMobile, Vec3{0, 1.5, -5}},
		{EnemyRusher, Vec3{3, 1.5, -10}},
	}))
	require.NoError(t, s.Start(context.Background()))

	require.Len(t, got, 3)
	assert.Equal(t, EventGameStarted, got[0].Kind)
	assert.Equal(t, EventEnemySpawned, got[1].Kind)
	assert.Equal(t, EnemyRusher, got[2].Enemy)
	assert.Len(t, surf.enemies, 2)

	labels := []string{s.Registry().Enemies()[0].Label, s.Registry().Enemies()[1].Label}
	assert.Equal(t, []string{"M0", "R0"}, labels)
}

// --- Damage and clear ---

func TestSession_TakeDamageKillsOnce(t *testing.T) {
	ts := NewTestSim(
		WithSimTuning(func(tun *Tuning) { tun.EnemyHealth = 2 }),
		WithEnemy(EnemyMobile, 0, 1.5, -5),
		WithEnemy(EnemyMobile, 2, 1.5, -5),
	)
	m0, _ := ts.EnemyByLabel("M0")
	h := m0.Handle

	assert.True(t, ts.Session.TakeDamage(h, 1))
	assert.Equal(t, 1, m0.Health)
	assert.Zero(t, ts.Registry().Kills)

	assert.True(t, ts.Session.TakeDamage(h, 5))
	assert.False(t, ts.Session.TakeDamage(h, 1), "already dead")
	assert.Equal(t, 1, ts.Registry().Kills)

	ts.RunTicks(1)
	assert.False(t, ts.Session.TakeDamage(h, 1), "stale after sweep")
	assert.False(t, ts.Session.TakeDamage(12345, 1))
	assert.Equal(t, 1, ts.Registry().Kills)
	assert.Equal(t, 1, ts.Count(EventEnemyKilled))
	assert.False(t, ts.Session.Cleared())
}

func TestSession_ClearFiresOnceAndFreezesClock(t *testing.T) {
	hud := &hudRecorder{}
	ts := NewTestSim(
		WithTickRate(100),
		WithSessionOptions(WithHUD(hud)),
		WithEnemy(EnemyMobile, 0, 1.5, -5),
	)
	ts.RunFor(2500 * time.Millisecond)
	require.NotEmpty(t, ts.Registry().Projectiles(), "mobile shot in flight")

	m0, _ := ts.EnemyByLabel("M0")
	require.True(t, ts.Session.TakeDamage(m0.Handle, 1))
	assert.True(t, ts.Session.Cleared())
	elapsed := ts.Session.Elapsed()
	assert.Equal(t, 2500*time.Millisecond, elapsed)

	ts.RunFor(3 * time.Second)
	assert.Equal(t, elapsed, ts.Session.Elapsed())
	assert.Empty(t, ts.Registry().Projectiles(), "in-flight shots end with the round")
	assert.Zero(t, ts.Registry().Hits)

	// The clear is emitted on the next flush.
	clears := ts.EventsOf(EventGameClear)
	require.Len(t, clears, 1)
	require.NotNil(t, clears[0].Score)
	assert.Equal(t, 96, clears[0].Score.Final)

	res, err := ts.Session.Result()
	require.NoError(t, err)
	assert.Equal(t, *clears[0].Score, res)

	last := hud.snaps[len(hud.snaps)-1]
	assert.True(t, last.Cleared)
	assert.Equal(t, 1, last.Kills)
	assert.Equal(t, 96, last.Score)
}

func TestSession_HUDPushedOnInterval(t *testing.T) {
	hud := &hudRecorder{}
	ts := NewTestSim(WithTickRate(100), WithSessionOptions(WithHUD(hud)))
	ts.RunFor(time.Second)
	assert.Len(t, hud.snaps, 10)
	assert.Equal(t, time.Second, hud.snaps[9].Elapsed)
}

func TestSession_ArrowKillsMobile(t *testing.T) {
	surf := newSurfaceRecorder()
	ts := NewTestSim(
		WithTickRate(100),
		WithSessionOptions(WithSurface(surf)),
		WithEnemy(EnemyMobile, testGrip.X, testGrip.Y, -5.3),
		WithEnemy(EnemyTurret, 10, 2, -15),
	)
	mobile, _ := ts.EnemyByLabel("M0")

	in := bowFrame(1)
	in.Hand(HandRight).TriggerDown = true
	ts.Step(in)
	in = bowFrame(DefaultTuning().NockOffset)
	in.Hand(HandLeft).GripDown = true
	ts.Step(in)
	ts.Step(bowFrame(0.7))
	in = bowFrame(0.7)
	in.Hand(HandLeft).GripUp = true
	ts.Step(in)

	// 5 m at 25 m/s.
	for i := 0; i < 25; i++ {
		ts.Step(bowFrame(1))
	}
	reg := ts.Registry()
	assert.Equal(t, 1, reg.ArrowHits)
	assert.Equal(t, 1, reg.Kills)
	assert.False(t, reg.Alive(mobile.Handle))
	assert.Contains(t, surf.destroyed, mobile.Handle)
	assert.Empty(t, reg.Projectiles())
	assert.True(t, ts.SimLog.HasEntry("projectile", "arrow_hit", "M0"))
}

func TestSession_ModelFallbackWarnsOncePerName(t *testing.T) {
	logger, buf := captureLogger()
	ts := NewTestSim(
		WithSessionOptions(WithLogger(logger)),
		WithEnemy(EnemyMobile, 0, 1.5, -5),
		WithEnemy(EnemyMobile, 1, 1.5, -5),
		WithEnemy(EnemyMobile, 2, 1.5, -5),
	)
	for _, e := range ts.Registry().Enemies() {
		assert.True(t, e.Visual.Placeholder)
	}
	assert.Equal(t, 1, countLines(buf, "model=drone_white"))
	assert.Equal(t, 1, countLines(buf, "model=sword"), "two weapons, one warning")

	ts.RunFor(5 * time.Second)
	assert.Equal(t, 1, countLines(buf, "model=bullet"))
}

func TestSession_LoadedModelsUsed(t *testing.T) {
	assets := fakeAssets{
		ModelDroneBlack: {Name: ModelDroneBlack, Source: "models/drone_black.glb"},
	}
	ts := NewTestSim(WithSessionOptions(WithAssets(assets)), WithEnemy(EnemyRusher, 0, 1.5, -10))
	r0, _ := ts.EnemyByLabel("R0")
	assert.False(t, r0.Visual.Placeholder)
	assert.Equal(t, "models/drone_black.glb", r0.Visual.Source)
	assert.Equal(t, 1.0, r0.Visual.Scale)
}

func TestSession_StepReturnsWhatSinksSee(t *testing.T) {
	var seen []Event
	ts := NewTestSim(
		WithTickRate(100),
		WithSessionOptions(WithSinks(EventSinkFunc(func(e Event) { seen = append(seen, e) }))),
		WithEnemy(EnemyMobile, 0, 1.5, -5),
	)
	ts.RunFor(3 * time.Second)
	// Start's events reach sinks before any Step.
	require.Len(t, seen, len(ts.Events)+2)
	assert.Equal(t, EventGameStarted, seen[0].Kind)
	assert.Equal(t, ts.Events, seen[2:])
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i].Tick, seen[i-1].Tick)
	}
}

func TestSession_ModeChangeHaptic(t *testing.T) {
	ts := NewTestSim(WithTickRate(100))
	in := bowFrame(1)
	in.Hand(HandRight).TriggerDown = true
	evs := ts.Step(in)

	var buzz []Event
	for _, e := range evs {
		if e.Kind == EventHaptic {
			buzz = append(buzz, e)
		}
	}
	require.Len(t, buzz, 1)
	assert.Equal(t, HandRight, buzz[0].Hand)
	assert.InDelta(t, 0.3, buzz[0].Value, 1e-9)
	assert.Equal(t, 50*time.Millisecond, buzz[0].Duration)
}

// --- Layouts ---

func TestClassicLayout(t *testing.T) {
	specs := ClassicLayout()
	require.Len(t, specs, 7)
	count := map[EnemyKind]int{}
	for _, sp := range specs {
		count[sp.Kind]++
		switch sp.Kind {
		case EnemyMobile:
			assert.InDelta(t, 10, Vec3{sp.Position.X, 0, sp.Position.Z}.Len(), 1e-9)
		case EnemyRusher:
			assert.InDelta(t, 15, Vec3{sp.Position.X, 0, sp.Position.Z}.Len(), 1e-9)
		case EnemyTurret:
			assert.Equal(t, -15.0, sp.Position.Z)
		}
	}
	assert.Equal(t, map[EnemyKind]int{EnemyMobile: 3, EnemyRusher: 2, EnemyTurret: 2}, count)
}

func TestRandomLayout_DeterministicAndInRange(t *testing.T) {
	a := RandomLayout(rand.New(rand.NewSource(7)), 20)
	b := RandomLayout(rand.New(rand.NewSource(7)), 20)
	assert.Equal(t, a, b)
	require.Len(t, a, 20)
	for _, sp := range a {
		d := Vec3{sp.Position.X, 0, sp.Position.Z}.Len()
		assert.GreaterOrEqual(t, d, minSpawnDistance-1e-9)
		assert.Less(t, d, minSpawnDistance+DefaultSpawnRadius)
	}
}
