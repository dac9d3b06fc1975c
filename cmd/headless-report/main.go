package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Garsondee/Snipe-Slash/internal/config"
	"github.com/Garsondee/Snipe-Slash/internal/game"
	"github.com/Garsondee/Snipe-Slash/internal/logging"
	"github.com/Garsondee/Snipe-Slash/internal/telemetry"
)

type runStats struct {
	runIndex int
	seed     int64
	spawned  int

	outcome game.SessionOutcomeReason

	clearTick     int
	firstKillTick int
	firstHitTick  int
	firstBlast    int

	arrows      int
	cancels     int
	arrowHits   int
	meleeHits   int
	enemyShots  int
	byKind      map[string]int // kills per enemy kind
	killedLabel map[string]struct{}

	windowSummary *game.WindowReport
}

type arenaParams struct {
	tuning   game.Tuning
	spawns   []game.SpawnSpec
	tickRate int
	deadline time.Duration
	log      *slog.Logger
	sinks    []game.EventSink
}

func main() {
	var runs int
	var duration time.Duration
	var seedBase int64
	var seedStep int64
	var layout string
	var configDir string

	flag.IntVar(&runs, "runs", 0, "number of headless arena runs (0 = report.runs from config)")
	flag.DurationVar(&duration, "duration", 0, "session time limit per run (0 = report.duration from config)")
	flag.Int64Var(&seedBase, "seed-base", 0, "base RNG seed for run 1 (0 = seed from config)")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&layout, "layout", "", "arena layout: classic or random (empty = arena.layout from config)")
	flag.StringVar(&configDir, "config", ".", "directory holding snipe_slash.cfg")
	flag.Parse()

	if err := config.Load(configDir); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	if runs == 0 {
		runs = config.GetInt("report.runs")
	}
	if duration == 0 {
		duration = config.GetDuration("report.duration")
	}
	if seedBase == 0 {
		seedBase = int64(config.GetInt("seed"))
	}
	if layout != "" {
		viper.Set("arena.layout", layout)
	}
	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(1)
	}
	if duration <= 0 {
		fmt.Println("error: -duration must be > 0")
		os.Exit(1)
	}

	logFile, err := logging.OpenFile(config.GetString("logFile"))
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	var logOut io.Writer = io.Discard
	if logFile != nil {
		defer logFile.Close()
		logOut = logFile
	}
	log := logging.NewManager().Setup(logOut, config.GetString("logLevel"))

	tun, err := config.Tuning()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	rec, err := telemetry.NewRecorder(telemetry.Meter())
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Headless Arena Report ===\n")
	fmt.Printf("layout=%s runs=%d duration=%s seed_base=%d seed_step=%d\n\n",
		config.GetString("arena.layout"), runs, duration, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		spawns, err := config.Spawns(rand.New(rand.NewSource(seed))) // #nosec G404 -- arena layout
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		stats := runArena(i+1, seed, arenaParams{
			tuning:   tun,
			spawns:   spawns,
			tickRate: config.GetInt("tickRate"),
			deadline: duration,
			log:      log,
			sinks:    []game.EventSink{rec},
		})
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all, rec.Totals())
}

// runArena flies the autopilot through one arena until it clears or the
// deadline passes.
func runArena(runIndex int, seed int64, p arenaParams) runStats {
	hz := p.tickRate
	if hz <= 0 {
		hz = 60
	}
	ts := game.NewTestSim(
		game.WithSimSeed(seed),
		game.WithSimTuning(func(t *game.Tuning) { *t = p.tuning }),
		game.WithTickRate(hz),
		game.WithLayout(p.spawns),
		game.WithPilot(game.NewPilot()),
		game.WithSessionOptions(game.WithLogger(p.log), game.WithSinks(p.sinks...)),
	)
	reporter := game.NewSimReporter(10 * hz)
	for ts.Session.Now() < p.deadline && !ts.Session.Cleared() {
		ts.RunTicks(1)
		if ts.CurrentTick()%hz == 0 {
			reporter.Collect(ts.Session)
		}
	}
	reporter.Collect(ts.Session)

	entries := ts.SimLog.Entries()
	byKind := map[string]int{}
	killed := map[string]struct{}{}
	for _, e := range ts.EventsOf(game.EventEnemyKilled) {
		byKind[e.Enemy.String()]++
	}
	for _, e := range entries {
		if e.Category == "enemy" && e.Key == "killed" {
			killed[e.Actor] = struct{}{}
		}
	}

	reg := ts.Registry()
	return runStats{
		runIndex:      runIndex,
		seed:          seed,
		spawned:       len(p.spawns),
		outcome:       game.DetermineOutcome(ts.Session, p.deadline),
		clearTick:     firstTick(entries, "session", "clear", ""),
		firstKillTick: firstTick(entries, "enemy", "killed", ""),
		firstHitTick:  firstTick(entries, "player", "hit", ""),
		firstBlast:    firstTick(entries, "enemy", "explode", ""),
		arrows:        reg.ShotsFired,
		cancels:       reg.ShotsCancel,
		arrowHits:     ts.SimLog.CountCategory("projectile", "arrow_hit"),
		meleeHits:     ts.SimLog.CountCategory("weapon", "melee_hit"),
		enemyShots:    reg.EnemyShots,
		byKind:        byKind,
		killedLabel:   killed,
		windowSummary: reporter.WindowSummary(),
	}
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	o := rs.outcome
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome=%s (%s) elapsed=%.1fs kills=%d/%d hits=%d score=%d\n",
		o.Outcome, o.Description, o.Elapsed.Seconds(), o.Kills, rs.spawned, o.Hits, finalScore(o))
	fmt.Printf("phase_markers: first_kill=%d first_hit=%d first_blast=%d clear=%d\n",
		rs.firstKillTick, rs.firstHitTick, rs.firstBlast, rs.clearTick)
	fmt.Printf("player: arrows=%d cancelled=%d arrow_hits=%d melee_hits=%d accuracy=%.0f%%\n",
		rs.arrows, rs.cancels, rs.arrowHits, rs.meleeHits, arrowAccuracy(rs))
	fmt.Printf("enemies: shots=%d detonations=%d kills_by_kind=%s\n",
		rs.enemyShots, o.Detonations, joinCounts(rs.byKind))
	fmt.Printf("killed_labels: %s\n", joinSet(rs.killedLabel))
	if rs.windowSummary != nil {
		fmt.Printf("window_samples=%d window_tick_range=%d..%d avg_threat=%.2f peak_threat=%.2f min_closest=%.1fm\n",
			rs.windowSummary.SampleCount, rs.windowSummary.FromTick, rs.windowSummary.ToTick,
			rs.windowSummary.AvgThreat, rs.windowSummary.PeakThreat, rs.windowSummary.MinClosest)
	}
	fmt.Println()
}

// finalScore is the frozen result for cleared runs and the live estimate
// otherwise.
func finalScore(o game.SessionOutcomeReason) int {
	if o.Outcome == game.OutcomeCleared {
		return o.Score.Final
	}
	return game.Score(int(o.Elapsed.Seconds()), o.Kills, o.Hits)
}

// arrowAccuracy is arrows that struck an enemy over arrows loosed. It is a
// report metric only; the HUD accuracy is the game's own kills/hits ratio.
func arrowAccuracy(rs runStats) float64 {
	if rs.arrows == 0 {
		return 0
	}
	return float64(rs.arrowHits) / float64(rs.arrows) * 100
}

func printAggregate(all []runStats, totals telemetry.Totals) {
	cleared := 0
	untouched := 0
	totalArrows := 0
	totalArrowHits := 0
	totalMelee := 0
	totalScore := 0

	clearTimes := make([]int, 0, len(all))
	killTicks := make([]int, 0, len(all))
	hitTicks := make([]int, 0, len(all))
	descriptions := map[string]int{}

	for _, rs := range all {
		descriptions[rs.outcome.Description]++
		if rs.outcome.Outcome == game.OutcomeCleared {
			cleared++
			clearTimes = append(clearTimes, int(rs.outcome.Elapsed.Milliseconds()))
			if rs.outcome.Hits == 0 {
				untouched++
			}
		}
		totalArrows += rs.arrows
		totalArrowHits += rs.arrowHits
		totalMelee += rs.meleeHits
		totalScore += finalScore(rs.outcome)
		if rs.firstKillTick >= 0 {
			killTicks = append(killTicks, rs.firstKillTick)
		}
		if rs.firstHitTick >= 0 {
			hitTicks = append(hitTicks, rs.firstHitTick)
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d cleared=%d (%.0f%%) untouched=%d\n", len(all), cleared, pct(cleared, len(all)), untouched)
	fmt.Printf("avg_per_run: arrows=%.1f arrow_hits=%.1f melee_hits=%.1f score=%.1f\n",
		avg(totalArrows, len(all)), avg(totalArrowHits, len(all)), avg(totalMelee, len(all)), avg(totalScore, len(all)))
	fmt.Printf("avg_clear_time_ms=%s phase_marker_avg_ticks: first_kill=%s first_hit=%s\n",
		avgTickString(clearTimes), avgTickString(killTicks), avgTickString(hitTicks))
	fmt.Printf("outcomes: %s\n", joinCounts(descriptions))

	fmt.Println("\n--- Event totals (telemetry) ---")
	fmt.Printf("sessions=%d cleared=%d player_hits=%d arrows=%d enemy_shots=%d melee_hits=%d detonations=%d score_sum=%d\n",
		totals.Sessions, totals.Cleared, totals.PlayerHits, totals.Arrows, totals.EnemyShots,
		totals.MeleeHits, totals.Detonations, totals.ScoreSum)
	fmt.Printf("kills_by_kind: %s\n", joinCounts(totals.Kills))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func pct(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ",")
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
