package game

import (
	"fmt"
	"strings"
	"time"
)

// reportWindowTicks is the default sliding window for recent-pressure reports (~10s at 60TPS).
const reportWindowTicks = 600

// --- Snapshot types ---

// SimReport is a snapshot of the arena at one tick.
type SimReport struct {
	Tick    int
	At      time.Duration
	Alive   map[EnemyKind]int
	Charges int // enemies currently charging
	Threat  float64

	Kills       int
	Hits        int
	ShotsFired  int
	ShotsCancel int
	MeleeHits   int
	ArrowHits   int
	EnemyShots  int
	InFlight    int
	Mode        WeaponMode
	ClosestDist float64 // nearest live enemy to the head, 0 when none
}

// --- Reporter ---

// SimReporter collects periodic reports from a session and can produce
// summaries over sliding time windows.
type SimReporter struct {
	history     []SimReport
	windowTicks int
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{windowTicks: windowTicks}
}

// Collect gathers a snapshot from the current session state.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *SimReporter) Collect(s *Session) {
	reg := s.Registry()
	rpt := SimReport{
		Tick:        s.Tick(),
		At:          s.Now(),
		Alive:       make(map[EnemyKind]int),
		Kills:       reg.Kills,
		Hits:        reg.Hits,
		ShotsFired:  reg.ShotsFired,
		ShotsCancel: reg.ShotsCancel,
		MeleeHits:   reg.MeleeHits,
		ArrowHits:   reg.ArrowHits,
		EnemyShots:  reg.EnemyShots,
		InFlight:    len(reg.Projectiles()),
		Mode:        reg.Mode,
	}
	head := s.Head().Position
	for _, e := range reg.Enemies() {
		rpt.Alive[e.Kind]++
		if e.State() == StateCharging {
			rpt.Charges++
		}
		d := e.Position().Dist(head)
		if rpt.ClosestDist == 0 || d < rpt.ClosestDist {
			rpt.ClosestDist = d
		}
		rpt.Threat += threatOf(e, d)
	}
	r.history = append(r.history, rpt)
}

// threatOf weights an enemy by kind, state and distance. Charging enemies
// close to the head dominate.
func threatOf(e *Enemy, dist float64) float64 {
	w := 1.0
	switch e.Kind {
	case EnemyTurret:
		w = 1.5
	case EnemyRusher:
		w = 2.0
	}
	if e.State() == StateCharging {
		w *= 2
	}
	return w / (1 + dist)
}

// Latest returns the most recent report, or nil.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all collected reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	AvgAlive    float64
	AvgThreat   float64
	PeakThreat  float64
	AvgInFlight float64
	MinClosest  float64

	// Deltas across the window.
	Kills      int
	Hits       int
	ShotsFired int
	MeleeHits  int
	ArrowHits  int
	EnemyShots int
}

// WindowSummary returns an aggregated summary over the recent time window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}
	if len(window) == 0 {
		return nil
	}

	first, last := window[len(window)-1], window[0]
	n := float64(len(window))
	wr := &WindowReport{
		FromTick:    first.Tick,
		ToTick:      last.Tick,
		SampleCount: len(window),
		Kills:       last.Kills - first.Kills,
		Hits:        last.Hits - first.Hits,
		ShotsFired:  last.ShotsFired - first.ShotsFired,
		MeleeHits:   last.MeleeHits - first.MeleeHits,
		ArrowHits:   last.ArrowHits - first.ArrowHits,
		EnemyShots:  last.EnemyShots - first.EnemyShots,
	}
	for _, rpt := range window {
		alive := 0
		for _, c := range rpt.Alive {
			alive += c
		}
		wr.AvgAlive += float64(alive)
		wr.AvgThreat += rpt.Threat
		wr.AvgInFlight += float64(rpt.InFlight)
		if rpt.Threat > wr.PeakThreat {
			wr.PeakThreat = rpt.Threat
		}
		if rpt.ClosestDist > 0 && (wr.MinClosest == 0 || rpt.ClosestDist < wr.MinClosest) {
			wr.MinClosest = rpt.ClosestDist
		}
	}
	wr.AvgAlive /= n
	wr.AvgThreat /= n
	wr.AvgInFlight /= n
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Pressure Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)
	fmt.Fprintf(&sb, "  alive=%.1f  threat avg=%.2f peak=%.2f (%s)  in_flight=%.1f  closest=%.1fm\n",
		wr.AvgAlive, wr.AvgThreat, wr.PeakThreat, threatLabel(wr.PeakThreat), wr.AvgInFlight, wr.MinClosest)
	fmt.Fprintf(&sb, "  kills=%d hits=%d arrows=%d arrow_hits=%d melee_hits=%d enemy_shots=%d\n",
		wr.Kills, wr.Hits, wr.ShotsFired, wr.ArrowHits, wr.MeleeHits, wr.EnemyShots)
	return sb.String()
}

func threatLabel(t float64) string {
	switch {
	case t > 2:
		return "overwhelming"
	case t > 1:
		return "heavy"
	case t > 0.4:
		return "moderate"
	case t > 0:
		return "light"
	default:
		return "none"
	}
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *SimReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d (%.1fs) ---\n", rpt.Tick, rpt.At.Seconds())
	fmt.Fprintf(&sb, "alive: turret=%d mobile=%d rusher=%d  charging=%d  threat=%.2f\n",
		rpt.Alive[EnemyTurret], rpt.Alive[EnemyMobile], rpt.Alive[EnemyRusher], rpt.Charges, rpt.Threat)
	fmt.Fprintf(&sb, "kills=%d hits=%d mode=%s  arrows=%d (cancelled %d) in_flight=%d\n",
		rpt.Kills, rpt.Hits, rpt.Mode, rpt.ShotsFired, rpt.ShotsCancel, rpt.InFlight)
	return sb.String()
}

// --- Session report ---

// SessionReport renders the end-of-round summary shown by the viewer and the
// headless report, and copied to the clipboard.
func SessionReport(s *Session) string {
	reg := s.Registry()
	res, _ := s.Result()
	out := DetermineOutcome(s, 0)

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Arena Report %s ===\n", s.ID)
	fmt.Fprintf(&sb, "outcome=%s (%s) elapsed=%.1fs ticks=%d seed=%d\n",
		out.Outcome, out.Description, s.Elapsed().Seconds(), s.Tick(), s.Seed())
	fmt.Fprintf(&sb, "kills=%d hits=%d accuracy=%d%%\n", reg.Kills, reg.Hits, reg.Accuracy())
	fmt.Fprintf(&sb, "%s\n", res)
	fmt.Fprintf(&sb, "arrows fired=%d cancelled=%d hit=%d  melee hits=%d  detonations=%d  enemy shots=%d\n",
		reg.ShotsFired, reg.ShotsCancel, reg.ArrowHits, reg.MeleeHits, reg.Detonations, reg.EnemyShots)
	for _, w := range s.Weapons() {
		fmt.Fprintf(&sb, "weapon %s: mode=%s arrows=%d\n", w.Hand, w.Mode, w.Shots())
	}
	if n := reg.LiveEnemyCount(); n > 0 {
		fmt.Fprintf(&sb, "remaining=%d\n", n)
		for _, e := range reg.Enemies() {
			fmt.Fprintf(&sb, "  %-4s %-7s %s\n", e.Label, e.Kind, e.State())
		}
	}
	return sb.String()
}
