package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Session errors.
var (
	ErrNotStarted       = errors.New("session not started")
	ErrAlreadyStarted   = errors.New("session already started")
	ErrUnknownEnemyKind = errors.New("unknown enemy kind")
)

// defaultHead is where the player's head is assumed to be before the first
// input frame arrives.
var defaultHead = Vec3{0, DefaultSpawnHeight, 0}

// Session is one arena round: the registry, the scheduler, the weapons and
// every collaborator, threaded explicitly through each tick.
type Session struct {
	ID string

	tun     Tuning
	seed    int64
	rng     *rand.Rand
	log     *slog.Logger
	simLog  *SimLog
	surface Surface
	hud     HUDSink
	assets  AssetProvider
	sinks   []EventSink
	spawns  []SpawnSpec

	reg     *Registry
	sched   *Scheduler
	weapons []*Weapon

	now    time.Duration
	tick   int
	head   Pose
	events []Event
	result *ScoreResult

	warnedAssets map[string]bool
	labelSeq     map[EnemyKind]int
}

// Option configures a Session.
type Option func(*Session)

// WithTuning replaces the default constants.
func WithTuning(t Tuning) Option {
	return func(s *Session) { s.tun = t }
}

// WithSeed seeds the session RNG (turret jitter, rusher hops).
func WithSeed(seed int64) Option {
	return func(s *Session) { s.seed = seed }
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSimLog records gameplay events into sl.
func WithSimLog(sl *SimLog) Option {
	return func(s *Session) {
		if sl != nil {
			s.simLog = sl
		}
	}
}

// WithSurface sets the render surface that receives spawn/destroy commands.
func WithSurface(sf Surface) Option {
	return func(s *Session) {
		if sf != nil {
			s.surface = sf
		}
	}
}

// WithHUD sets the HUD sink.
func WithHUD(h HUDSink) Option {
	return func(s *Session) {
		if h != nil {
			s.hud = h
		}
	}
}

// WithAssets sets the model provider.
func WithAssets(a AssetProvider) Option {
	return func(s *Session) {
		if a != nil {
			s.assets = a
		}
	}
}

// WithSinks adds event sinks.
func WithSinks(sinks ...EventSink) Option {
	return func(s *Session) { s.sinks = append(s.sinks, sinks...) }
}

// WithSpawns sets the enemies placed at start. Without it the classic
// layout is used.
func WithSpawns(spawns []SpawnSpec) Option {
	return func(s *Session) { s.spawns = spawns }
}

// NewSession builds an idle session. Nothing spawns until Start.
func NewSession(opts ...Option) *Session {
	s := &Session{
		ID:           uuid.NewString(),
		tun:          DefaultTuning(),
		seed:         1,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		simLog:       NewSimLog(false),
		surface:      nopSurface{},
		hud:          nopHUD{},
		assets:       emptyProvider{},
		head:         PoseAt(defaultHead),
		warnedAssets: make(map[string]bool),
		labelSeq:     make(map[EnemyKind]int),
	}
	for _, o := range opts {
		o(s)
	}
	if s.spawns == nil {
		s.spawns = ClassicLayout()
	}
	s.rng = rand.New(rand.NewSource(s.seed)) // #nosec G404 -- gameplay jitter, not security
	s.log = s.log.With("session", s.ID)
	s.reg = NewRegistry()
	s.sched = NewScheduler(s.reg.Alive)
	return s
}

// readier is implemented by providers that load asynchronously.
type readier interface {
	Wait(ctx context.Context) error
}

// Start validates the tuning, waits for the asset provider, spawns the configured enemies, creates
// one weapon per configured hand and emits GameStarted. A provider that
// fails to load is not fatal: missing models fall back to placeholders.
// Only a cancelled ctx aborts the start.
func (s *Session) Start(ctx context.Context) error {
	if s.reg.started {
		return ErrAlreadyStarted
	}
	if err := s.tun.Validate(); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if r, ok := s.assets.(readier); ok {
		if err := r.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("start session: %w", ctx.Err())
			}
			s.log.Warn("asset preload incomplete, using placeholders", "err", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	hands, err := s.weaponHands()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	s.reg.started = true
	s.reg.StartedAt = s.now
	s.emit(Event{Kind: EventGameStarted})
	s.simLog.Add(s.tick, "--", "session", "start", s.ID, float64(len(s.spawns)))

	for _, sp := range s.spawns {
		s.spawnEnemy(sp.Kind, sp.Position)
	}

	for _, h := range hands {
		w := newWeapon(h, s.now, s.visual(ModelSword))
		s.reg.addWeapon(w)
		s.weapons = append(s.weapons, w)
		s.sched.After(s.now, s.tun.MeleeWarmup, w.Handle, func(time.Duration) {
			w.IsReady = true
			s.simLog.Add(s.tick, w.label(), "weapon", "armed", "", 0)
		})
	}
	if len(s.weapons) > 0 {
		s.reg.ActiveHand = s.weapons[0].Hand
	}
	s.scheduleHUD(s.now)

	s.log.Info("session started",
		"enemies", len(s.spawns),
		"weapons", len(s.weapons),
		"seed", s.seed)
	s.flush()
	return nil
}

// weaponHands resolves the configured hands, right hand only when unset.
func (s *Session) weaponHands() ([]Hand, error) {
	if len(s.tun.WeaponHands) == 0 {
		return []Hand{HandRight}, nil
	}
	out := make([]Hand, 0, len(s.tun.WeaponHands))
	seen := map[Hand]bool{}
	for _, name := range s.tun.WeaponHands {
		h, err := ParseHand(name)
		if err != nil {
			return nil, err
		}
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out, nil
}

// Step advances the session by dt with this tick's input. It returns the
// events raised during the tick, which have also been delivered to sinks.
// Before Start it does nothing.
func (s *Session) Step(dt time.Duration, in InputFrame) []Event {
	if !s.reg.started {
		return nil
	}
	if dt < 0 {
		dt = 0
	}
	s.tick++
	s.now += dt
	s.head = in.Head
	if s.head.Orientation == (Quat{}) {
		s.head.Orientation = QuatIdentity()
	}

	s.sched.Run(s.now)

	for _, w := range s.weapons {
		s.tickWeapon(w, &in, dt)
	}

	for _, e := range s.reg.enemies {
		if e.dead {
			continue
		}
		e.brain.tick(s, e, dt)
	}

	s.tickProjectiles(dt)

	for _, h := range s.reg.Sweep() {
		s.surface.Destroy(h)
	}
	s.checkClear()

	return s.flush()
}

// flush hands the pending events to the sinks and returns them.
func (s *Session) flush() []Event {
	out := s.events
	s.events = nil
	for _, ev := range out {
		for _, sink := range s.sinks {
			sink.HandleEvent(ev)
		}
	}
	return out
}

func (s *Session) emit(e Event) {
	e.Tick = s.tick
	e.At = s.now
	s.events = append(s.events, e)
}

func (s *Session) haptic(h Hand, intensity float64, d time.Duration) {
	s.emit(Event{Kind: EventHaptic, Hand: h, Value: intensity, Duration: d})
}

// spawnEnemy registers an enemy and tells the surface about it.
func (s *Session) spawnEnemy(kind EnemyKind, pos Vec3) *Enemy {
	e := newEnemy(kind, NewTransform(pos), s.now, s.tun)
	e.Visual = s.visual(kind.model())
	e.Label = fmt.Sprintf("%s%d", kind.label(), s.labelSeq[kind])
	s.labelSeq[kind]++
	e.face(s.head.Position, 0)
	h := s.reg.AddEnemy(e)
	s.surface.SpawnEnemy(h, kind, e.Transform, e.Visual)
	s.emit(Event{Kind: EventEnemySpawned, Handle: h, Enemy: kind, Position: pos})
	s.simLog.Add(s.tick, e.Label, "enemy", "spawn", kind.String(), 0)
	return e
}

// visual clones a model, falling back to a placeholder. Each missing name is
// warned about once.
func (s *Session) visual(name string) Visual {
	if v, ok := s.assets.Clone(name); ok {
		if v.Scale == 0 {
			v.Scale = 1
		}
		return v
	}
	if !s.warnedAssets[name] {
		s.warnedAssets[name] = true
		s.log.Warn("model not loaded, using placeholder", "model", name)
	}
	return PlaceholderVisual(name)
}

// --- HUD ---

func (s *Session) scheduleHUD(from time.Duration) {
	s.sched.At(from+s.tun.HUDInterval, noOwner, func(at time.Duration) {
		s.pushHUD()
		if !s.reg.cleared {
			s.scheduleHUD(at)
		}
	})
}

// Snapshot returns the current HUD values.
func (s *Session) Snapshot() HUDSnapshot {
	return HUDSnapshot{
		Kills:    s.reg.Kills,
		Hits:     s.reg.Hits,
		Accuracy: s.reg.Accuracy(),
		Elapsed:  s.Elapsed(),
		Score:    s.LiveScore(),
		Mode:     s.reg.Mode,
		Cleared:  s.reg.cleared,
	}
}

func (s *Session) pushHUD() { s.hud.UpdateHUD(s.Snapshot()) }

// --- Accessors ---

// Registry exposes the entity ledger. Callers must not mutate it.
func (s *Session) Registry() *Registry { return s.reg }

// Weapons returns the weapons in hand order of creation.
func (s *Session) Weapons() []*Weapon { return s.weapons }

// Weapon returns the weapon held in h, if any.
func (s *Session) Weapon(h Hand) (*Weapon, bool) {
	for _, w := range s.weapons {
		if w.Hand == h {
			return w, true
		}
	}
	return nil, false
}

// Scheduler exposes the callback queue.
func (s *Session) Scheduler() *Scheduler { return s.sched }

// SimLog returns the gameplay log.
func (s *Session) SimLog() *SimLog { return s.simLog }

// Tuning returns the constants in use.
func (s *Session) Tuning() Tuning { return s.tun }

// Seed returns the RNG seed.
func (s *Session) Seed() int64 { return s.seed }

// Now is the session clock.
func (s *Session) Now() time.Duration { return s.now }

// Tick is the number of steps taken.
func (s *Session) Tick() int { return s.tick }

// Head is the last reported head pose.
func (s *Session) Head() Pose { return s.head }

// Started reports whether Start succeeded.
func (s *Session) Started() bool { return s.reg.started }

// Cleared reports whether the arena has been cleared.
func (s *Session) Cleared() bool { return s.reg.cleared }

// Elapsed is play time since start, frozen at the clear.
func (s *Session) Elapsed() time.Duration {
	if !s.reg.started {
		return 0
	}
	if at, ok := s.reg.ClearedAt(); ok {
		return at - s.reg.StartedAt
	}
	return s.now - s.reg.StartedAt
}

// LiveScore is the running score estimate.
func (s *Session) LiveScore() int {
	return CalculateScore(s.Elapsed(), s.reg.Kills, s.reg.Hits).Final
}

// Result returns the authoritative score once cleared, or the running
// breakdown before that.
func (s *Session) Result() (ScoreResult, error) {
	if !s.reg.started {
		return ScoreResult{}, ErrNotStarted
	}
	if s.result == nil {
		return CalculateScore(s.Elapsed(), s.reg.Kills, s.reg.Hits), nil
	}
	return *s.result, nil
}
