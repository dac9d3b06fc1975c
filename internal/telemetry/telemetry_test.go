package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/Garsondee/Snipe-Slash/internal/game"
)

func TestNewRecorder_GlobalMeter(t *testing.T) {
	r, err := NewRecorder(Meter())
	require.NoError(t, err)
	assert.Zero(t, r.Alive())
}

func TestRecorder_TalliesARound(t *testing.T) {
	r, err := NewRecorder(noop.Meter{})
	require.NoError(t, err)

	ts := game.NewTestSim(
		game.WithTickRate(100),
		game.WithSessionOptions(game.WithSinks(r)),
		game.WithEnemy(game.EnemyMobile, 0, 1.6, -3),
		game.WithEnemy(game.EnemyRusher, 0, 1.6, -1.5),
	)
	assert.Equal(t, 2, r.Alive())

	// The rusher detonates at 1.51s; the mobile's first shot lands near 3s.
	ts.RunFor(3200 * time.Millisecond)
	mobile, ok := ts.EnemyByLabel("M0")
	require.True(t, ok)
	ts.Session.TakeDamage(mobile.Handle, 1)
	ts.RunTicks(1)

	tot := r.Totals()
	assert.Equal(t, 1, tot.Sessions)
	assert.Equal(t, 1, tot.Cleared)
	assert.Equal(t, map[string]int{"mobile": 1, "rusher": 1}, tot.Kills)
	assert.Equal(t, 1, tot.Detonations)
	assert.Equal(t, 2, tot.PlayerHits)
	assert.Equal(t, 1, tot.EnemyShots)
	assert.Zero(t, tot.Arrows)

	res, err := ts.Session.Result()
	require.NoError(t, err)
	assert.Equal(t, res.Final, tot.ScoreSum)
	assert.Zero(t, r.Alive())
}

func TestRecorder_TotalsIsACopy(t *testing.T) {
	r, err := NewRecorder(noop.Meter{})
	require.NoError(t, err)
	r.HandleEvent(game.Event{Kind: game.EventEnemyKilled, Enemy: game.EnemyTurret})

	tot := r.Totals()
	tot.Kills["turret"] = 99
	assert.Equal(t, 1, r.Totals().Kills["turret"])
}
