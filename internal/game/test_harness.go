package game

import (
	"context"
	"time"
)

// TestSim is a headless arena harness used by tests and the headless report.
// It drives a Session at a fixed tick rate with either scripted input (the
// Pilot), a held manual frame, or frames passed to Step.
type TestSim struct {
	Session *Session
	SimLog  *SimLog
	Pilot   *Pilot
	Events  []Event // everything emitted since construction
	Input   InputFrame
	DT      time.Duration

	tun     Tuning
	seed    int64
	spawns  []SpawnSpec
	verbose bool
	extra   []Option
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // seed, tuning, tick rate, verbose: applied first
	simOptEnemy                      // spawns: applied after tuning is final
	simOptInput                      // pilot, head pose: applied after the session exists
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithSimSeed sets the RNG seed for deterministic runs.
func WithSimSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.seed = seed }}
}

// WithSimTuning edits the tuning before the session is built.
func WithSimTuning(edit func(*Tuning)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { edit(&ts.tun) }}
}

// WithTickRate sets the fixed step in ticks per second.
func WithTickRate(hz int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		if hz > 0 {
			ts.DT = time.Second / time.Duration(hz)
		}
	}}
}

// WithVerbose enables per-hop and per-shot logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.verbose = v }}
}

// WithSessionOptions passes extra options straight to NewSession.
func WithSessionOptions(opts ...Option) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.extra = append(ts.extra, opts...) }}
}

// WithEnemy places one enemy of kind at (x,y,z).
func WithEnemy(kind EnemyKind, x, y, z float64) SimOption {
	return SimOption{simOptEnemy, func(ts *TestSim) {
		ts.spawns = append(ts.spawns, SpawnSpec{Kind: kind, Position: Vec3{x, y, z}})
	}}
}

// WithLayout appends a whole spawn list (e.g. ClassicLayout()).
func WithLayout(spawns []SpawnSpec) SimOption {
	return SimOption{simOptEnemy, func(ts *TestSim) {
		ts.spawns = append(ts.spawns, spawns...)
	}}
}

// WithPilot lets the scripted player drive the weapons.
func WithPilot(p *Pilot) SimOption {
	return SimOption{simOptInput, func(ts *TestSim) { ts.Pilot = p }}
}

// WithHead holds the player's head at (x,y,z) for manual runs.
func WithHead(x, y, z float64) SimOption {
	return SimOption{simOptInput, func(ts *TestSim) { ts.Input.Head = PoseAt(Vec3{x, y, z}) }}
}

// NewTestSim constructs a started TestSim from the given options in ordered
// passes:
//  1. Infrastructure (seed, tuning, tick rate, verbose)
//  2. Enemies
//  3. Session build and start
//  4. Input (pilot, head)
//
// With no enemy options the arena is empty and never clears.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		DT:   time.Second / 60,
		tun:  DefaultTuning(),
		seed: 1,
	}
	ts.Input.Head = PoseAt(defaultHead)
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	for _, o := range opts {
		if o.kind == simOptEnemy {
			o.fn(ts)
		}
	}

	ts.SimLog = NewSimLog(ts.verbose)
	spawns := ts.spawns
	if spawns == nil {
		spawns = []SpawnSpec{}
	}
	sessionOpts := append([]Option{
		WithTuning(ts.tun),
		WithSeed(ts.seed),
		WithSimLog(ts.SimLog),
		WithSpawns(spawns),
	}, ts.extra...)
	ts.Session = NewSession(sessionOpts...)
	if err := ts.Session.Start(context.Background()); err != nil {
		panic(err) // harness misconfiguration
	}

	for _, o := range opts {
		if o.kind == simOptInput {
			o.fn(ts)
		}
	}
	return ts
}

// Step advances one tick with the given frame and records its events.
func (ts *TestSim) Step(in InputFrame) []Event {
	evs := ts.Session.Step(ts.DT, in)
	ts.Events = append(ts.Events, evs...)
	return evs
}

// tickOnce advances with pilot input when a pilot is set, otherwise with the
// held frame. Edges on the held frame fire once.
func (ts *TestSim) tickOnce() {
	if ts.Pilot != nil {
		ts.Step(ts.Pilot.Next(ts.Session, ts.DT))
		return
	}
	ts.Step(ts.Input)
	ts.Input.ClearEdges()
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.tickOnce()
	}
}

// RunFor advances by at least d of session time.
func (ts *TestSim) RunFor(d time.Duration) {
	end := ts.Session.Now() + d
	for ts.Session.Now() < end {
		ts.tickOnce()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.tickOnce()
		if predicate(ts) {
			return ts.Session.Tick()
		}
	}
	return -1
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.Session.Tick()
}

// Registry is shorthand for ts.Session.Registry().
func (ts *TestSim) Registry() *Registry { return ts.Session.Registry() }

// EventsOf returns the recorded events of kind, oldest first.
func (ts *TestSim) EventsOf(kind EventKind) []Event {
	var out []Event
	for _, e := range ts.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many events of kind were recorded.
func (ts *TestSim) Count(kind EventKind) int { return len(ts.EventsOf(kind)) }

// EnemyByLabel finds a live enemy by label, e.g. "R0".
func (ts *TestSim) EnemyByLabel(label string) (*Enemy, bool) {
	for _, e := range ts.Registry().Enemies() {
		if e.Label == label {
			return e, true
		}
	}
	return nil, false
}

// SimSnapshot is a lightweight state summary at a tick.
type SimSnapshot struct {
	Tick    int
	At      time.Duration
	Enemies []EnemySnapshot
	Kills   int
	Hits    int
}

// EnemySnapshot is a lightweight copy of an enemy's state at a tick.
type EnemySnapshot struct {
	Handle   Handle
	Label    string
	Kind     EnemyKind
	Position Vec3
	State    EnemyState
	Health   int
}

// Snapshot returns the current state of all live enemies.
func (ts *TestSim) Snapshot() SimSnapshot {
	reg := ts.Registry()
	snap := SimSnapshot{Tick: ts.Session.Tick(), At: ts.Session.Now(), Kills: reg.Kills, Hits: reg.Hits}
	for _, e := range reg.Enemies() {
		snap.Enemies = append(snap.Enemies, EnemySnapshot{
			Handle:   e.Handle,
			Label:    e.Label,
			Kind:     e.Kind,
			Position: e.Position(),
			State:    e.State(),
			Health:   e.Health,
		})
	}
	return snap
}
