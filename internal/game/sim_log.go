package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded gameplay event.
type SimLogEntry struct {
	Tick     int
	Actor    string  // label e.g. "T0", "R1", "Wr", or "--" for session events
	Category string  // weapon, enemy, projectile, player, session
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042] T1   enemy      charge_start     turret
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-4s %-10s %-16s %s",
		e.Tick, e.Actor, e.Category, e.Key, e.Value)
}

// SimLog is the unbounded, queryable record of a round. The viewer's feed
// keeps only the latest lines; tests and the headless report read this.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. verbose keeps the per-hop and per-shot lines
// that AddVerbose would otherwise drop.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add appends an entry.
func (sl *SimLog) Add(tick int, actor, category, key, value string, num float64) {
	sl.entries = append(sl.entries, SimLogEntry{tick, actor, category, key, value, num})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, actor, category, key, value string, num float64) {
	if sl.verbose {
		sl.Add(tick, actor, category, key, value, num)
	}
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// match reports whether e belongs to category/key; empty strings match
// anything.
func (e SimLogEntry) match(category, key string) bool {
	return (category == "" || e.Category == category) && (key == "" || e.Key == key)
}

func (sl *SimLog) where(keep func(SimLogEntry) bool) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Filter returns the entries of category and key. Empty arguments are
// wildcards.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	return sl.where(func(e SimLogEntry) bool { return e.match(category, key) })
}

// FilterActor returns one actor's entries.
func (sl *SimLog) FilterActor(label string) []SimLogEntry {
	return sl.where(func(e SimLogEntry) bool { return e.Actor == label })
}

// FilterTickRange returns entries with from <= Tick <= to.
func (sl *SimLog) FilterTickRange(from, to int) []SimLogEntry {
	return sl.where(func(e SimLogEntry) bool { return e.Tick >= from && e.Tick <= to })
}

// CountCategory counts the entries Filter would return.
func (sl *SimLog) CountCategory(category, key string) int {
	n := 0
	for _, e := range sl.entries {
		if e.match(category, key) {
			n++
		}
	}
	return n
}

// LastOf returns the latest entry of category and key.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if sl.entries[i].match(category, key) {
			return sl.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry reports whether some entry of category and key has a value
// containing sub.
func (sl *SimLog) HasEntry(category, key, sub string) bool {
	for _, e := range sl.entries {
		if e.match(category, key) && strings.Contains(e.Value, sub) {
			return true
		}
	}
	return false
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Format renders the whole log, one entry per line.
func (sl *SimLog) Format() string { return formatEntries(sl.entries) }

// FormatRange renders the entries between two ticks.
func (sl *SimLog) FormatRange(from, to int) string {
	return formatEntries(sl.FilterTickRange(from, to))
}

// Summary returns a short human-readable summary of the arena state.
func (sl *SimLog) Summary(tick int, reg *Registry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%04d ---\n", tick)

	// Live enemies by kind and state.
	byKind := map[EnemyKind]int{}
	for _, e := range reg.Enemies() {
		byKind[e.Kind]++
		fmt.Fprintf(&sb, "%-4s %-7s %-11s (%.1f, %.1f, %.1f)\n",
			e.Label, e.Kind, e.State(), e.Position().X, e.Position().Y, e.Position().Z)
	}
	fmt.Fprintf(&sb, "Alive: turret=%d  mobile=%d  rusher=%d\n",
		byKind[EnemyTurret], byKind[EnemyMobile], byKind[EnemyRusher])

	fmt.Fprintf(&sb, "Kills=%d  Hits=%d  Accuracy=%d%%  Mode=%s\n", reg.Kills, reg.Hits, reg.Accuracy(), reg.Mode)
	fmt.Fprintf(&sb, "Arrows: fired=%d cancelled=%d hit=%d  Melee hits=%d  Enemy shots=%d  In flight=%d\n",
		reg.ShotsFired, reg.ShotsCancel, reg.ArrowHits, reg.MeleeHits, reg.EnemyShots, len(reg.Projectiles()))
	return sb.String()
}
