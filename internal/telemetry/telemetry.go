// Package telemetry turns session events into OpenTelemetry metrics.
package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Garsondee/Snipe-Slash/internal/game"
)

const instrumentationName = "github.com/Garsondee/Snipe-Slash/internal/telemetry"

// Meter returns the meter from the global provider. It is a no-op unless the
// process installs an SDK provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Totals is the recorder's own tally, kept alongside the instruments so
// callers without a metrics backend can still read them.
type Totals struct {
	Sessions    int
	Cleared     int
	Kills       map[string]int // by enemy kind
	PlayerHits  int
	Arrows      int
	EnemyShots  int
	MeleeHits   int
	Detonations int
	ScoreSum    int
}

// Recorder is a game.EventSink feeding OTel instruments.
type Recorder struct {
	ctx context.Context

	killed   metric.Int64Counter
	hits     metric.Int64Counter
	fired    metric.Int64Counter
	melee    metric.Int64Counter
	cleared  metric.Int64Counter
	score    metric.Int64Histogram
	clearSec metric.Float64Histogram
	live     metric.Int64ObservableGauge

	mu     sync.Mutex
	alive  int64
	totals Totals
}

// NewRecorder creates the instruments on m.
func NewRecorder(m metric.Meter) (*Recorder, error) {
	r := &Recorder{ctx: context.Background(), totals: Totals{Kills: map[string]int{}}}

	var err error
	if r.killed, err = m.Int64Counter("arena.enemies.killed",
		metric.WithDescription("Enemies removed, by kind and cause")); err != nil {
		return nil, fmt.Errorf("creating killed counter: %w", err)
	}
	if r.hits, err = m.Int64Counter("arena.player.hits",
		metric.WithDescription("Hits taken by the player, by source kind")); err != nil {
		return nil, fmt.Errorf("creating hits counter: %w", err)
	}
	if r.fired, err = m.Int64Counter("arena.projectiles.fired",
		metric.WithDescription("Projectiles launched, by owner")); err != nil {
		return nil, fmt.Errorf("creating fired counter: %w", err)
	}
	if r.melee, err = m.Int64Counter("arena.melee.hits",
		metric.WithDescription("Blade hits landed")); err != nil {
		return nil, fmt.Errorf("creating melee counter: %w", err)
	}
	if r.cleared, err = m.Int64Counter("arena.sessions.cleared",
		metric.WithDescription("Rounds cleared")); err != nil {
		return nil, fmt.Errorf("creating cleared counter: %w", err)
	}
	if r.score, err = m.Int64Histogram("arena.session.score",
		metric.WithDescription("Final score of cleared rounds")); err != nil {
		return nil, fmt.Errorf("creating score histogram: %w", err)
	}
	if r.clearSec, err = m.Float64Histogram("arena.session.duration",
		metric.WithDescription("Time to clear"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}
	if r.live, err = m.Int64ObservableGauge("arena.enemies.live",
		metric.WithDescription("Enemies currently alive")); err != nil {
		return nil, fmt.Errorf("creating live gauge: %w", err)
	}
	if _, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		o.ObserveInt64(r.live, r.alive)
		return nil
	}, r.live); err != nil {
		return nil, fmt.Errorf("registering live callback: %w", err)
	}
	return r, nil
}

// HandleEvent implements game.EventSink.
func (r *Recorder) HandleEvent(e game.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e.Kind {
	case game.EventGameStarted:
		r.totals.Sessions++
		r.alive = 0
	case game.EventEnemySpawned:
		r.alive++
	case game.EventEnemyKilled:
		r.alive--
		kind := e.Enemy.String()
		r.totals.Kills[kind]++
		if e.Cause == game.CauseDetonated {
			r.totals.Detonations++
		}
		r.killed.Add(r.ctx, 1, metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("cause", e.Cause.String())))
	case game.EventPlayerHit:
		r.totals.PlayerHits++
		r.hits.Add(r.ctx, 1, metric.WithAttributes(attribute.String("source", e.Enemy.String())))
	case game.EventProjectileFired:
		if e.Owner == game.OwnerPlayer {
			r.totals.Arrows++
		} else {
			r.totals.EnemyShots++
		}
		r.fired.Add(r.ctx, 1, metric.WithAttributes(attribute.String("owner", e.Owner.String())))
	case game.EventMeleeHit:
		r.totals.MeleeHits++
		r.melee.Add(r.ctx, 1, metric.WithAttributes(attribute.String("hand", e.Hand.String())))
	case game.EventGameClear:
		r.totals.Cleared++
		r.cleared.Add(r.ctx, 1)
		r.clearSec.Record(r.ctx, e.Duration.Seconds())
		if e.Score != nil {
			r.totals.ScoreSum += e.Score.Final
			r.score.Record(r.ctx, int64(e.Score.Final))
		}
	}
}

// Totals returns a copy of the tally.
func (r *Recorder) Totals() Totals {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.totals
	t.Kills = make(map[string]int, len(r.totals.Kills))
	for k, v := range r.totals.Kills {
		t.Kills[k] = v
	}
	return t
}

// Alive is the live enemy count as seen through events.
func (r *Recorder) Alive() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.alive)
}
