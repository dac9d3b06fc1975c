package game

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimLog_FiltersAndFormat(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "T0", "enemy", "spawn", "turret", 0)
	sl.Add(3, "Wr", "weapon", "fire", "draw=1.00 speed=25.0", 25)
	sl.AddVerbose(4, "R0", "enemy", "hop", "", 3.2)
	sl.Add(9, "T0", "enemy", "killed", "slain", 1)

	assert.Len(t, sl.Entries(), 3, "verbose entries dropped")
	assert.Len(t, sl.FilterActor("T0"), 2)
	assert.Equal(t, 2, sl.CountCategory("enemy", ""))
	assert.Len(t, sl.FilterTickRange(2, 8), 1)
	last, ok := sl.LastOf("enemy", "")
	require.True(t, ok)
	assert.Equal(t, "killed", last.Key)
	assert.True(t, sl.HasEntry("weapon", "fire", "speed=25"))
	assert.False(t, sl.HasEntry("weapon", "fire", "speed=10"))

	out := sl.Format()
	assert.Contains(t, out, "[T=0003] Wr   weapon     fire")

	v := NewSimLog(true)
	v.AddVerbose(1, "R0", "enemy", "hop", "", 3)
	assert.Len(t, v.Entries(), 1)
}

func TestSimReporter_WindowDeltas(t *testing.T) {
	ts := NewTestSim(
		WithTickRate(100),
		WithEnemy(EnemyMobile, 0, 1.5, -3),
		WithEnemy(EnemyRusher, 0, 1.5, -20),
	)
	r := NewSimReporter(300)
	for i := 0; i < 6; i++ {
		ts.RunFor(time.Second)
		r.Collect(ts.Session)
	}
	require.Len(t, r.History(), 6)

	latest := r.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, 600, latest.Tick)
	assert.Equal(t, 1, latest.Alive[EnemyMobile])
	assert.Positive(t, latest.Threat)
	assert.Positive(t, latest.ClosestDist)

	wr := r.WindowSummary()
	require.NotNil(t, wr)
	assert.Equal(t, 300, wr.FromTick)
	assert.Equal(t, 600, wr.ToTick)
	assert.Equal(t, 4, wr.SampleCount)
	assert.GreaterOrEqual(t, wr.EnemyShots, 1)

	assert.Contains(t, wr.Format(), "Pressure Report")
	assert.Contains(t, r.FormatLatest(), "mobile=1")
}

func TestSimReporter_Empty(t *testing.T) {
	r := NewSimReporter(0)
	assert.Nil(t, r.Latest())
	assert.Nil(t, r.WindowSummary())
	assert.Equal(t, "No data.\n", r.FormatLatest())
	var wr *WindowReport
	assert.Equal(t, "No data collected yet.\n", wr.Format())
}

func TestThreatLabel(t *testing.T) {
	assert.Equal(t, "none", threatLabel(0))
	assert.Equal(t, "light", threatLabel(0.2))
	assert.Equal(t, "moderate", threatLabel(0.5))
	assert.Equal(t, "heavy", threatLabel(1.5))
	assert.Equal(t, "overwhelming", threatLabel(3))
}

func TestSessionReport(t *testing.T) {
	ts := NewTestSim(WithTickRate(100), WithEnemy(EnemyTurret, 0, 2, -15), WithEnemy(EnemyRusher, 0, 1.5, -30))
	ts.RunFor(time.Second)
	out := SessionReport(ts.Session)
	assert.True(t, strings.HasPrefix(out, "=== Arena Report "+ts.Session.ID))
	assert.Contains(t, out, "outcome=in_progress")
	assert.Contains(t, out, "remaining=2")
	assert.Contains(t, out, "T0")
	assert.Contains(t, out, "weapon right: mode=melee arrows=0")
	assert.Contains(t, out, "weapon left: mode=melee arrows=0")

	t0, _ := ts.EnemyByLabel("T0")
	r0, _ := ts.EnemyByLabel("R0")
	ts.Session.TakeDamage(t0.Handle, 1)
	ts.Session.TakeDamage(r0.Handle, 1)
	ts.RunTicks(1)
	out = SessionReport(ts.Session)
	assert.Contains(t, out, "outcome=cleared (cleared_untouched)")
	assert.NotContains(t, out, "remaining=")
}

func TestPilot_HeadSway(t *testing.T) {
	p := NewPilot()
	assertVec(t, defaultHead, p.HeadAt(0))
	assert.InDelta(t, 0.5, p.HeadAt(750*time.Millisecond).X, 1e-9)
	assert.InDelta(t, 0, p.HeadAt(3*time.Second).X, 1e-9)

	p.Dodge = false
	assertVec(t, defaultHead, p.HeadAt(750*time.Millisecond))
}
