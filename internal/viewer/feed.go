package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Snipe-Slash/internal/game"
)

const (
	feedPanelWidth = 320
	feedMaxEntries = 60
	feedLineHeight = 14
)

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Tick    int
	Hostile bool // enemy action, drawn with the red marker
	Message string
}

// Feed is a ring buffer of recent session events rendered on-screen.
type Feed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewFeed creates a feed with a fixed capacity.
func NewFeed() *Feed {
	return &Feed{entries: make([]FeedEntry, feedMaxEntries)}
}

// Add appends an entry.
func (f *Feed) Add(tick int, hostile bool, msg string) {
	f.entries[f.head] = FeedEntry{Tick: tick, Hostile: hostile, Message: msg}
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Recent returns entries oldest first.
func (f *Feed) Recent() []FeedEntry {
	out := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		out[i] = f.entries[idx]
	}
	return out
}

// Clear empties the feed.
func (f *Feed) Clear() {
	f.head, f.count = 0, 0
}

// HandleEvent implements game.EventSink. Haptics, expiries and spawns are
// too chatty to list.
func (f *Feed) HandleEvent(e game.Event) {
	var msg string
	hostile := false
	switch e.Kind {
	case game.EventGameStarted:
		msg = "round started"
	case game.EventModeChanged:
		msg = fmt.Sprintf("%s hand: %s", e.Hand, e.Mode)
	case game.EventDrawStarted:
		msg = "nocked"
	case game.EventDrawCancelled:
		msg = fmt.Sprintf("draw let down (%.0f%%)", e.Value*100)
	case game.EventProjectileFired:
		if e.Owner == game.OwnerEnemy {
			hostile = true
			msg = fmt.Sprintf("%s fired", e.Enemy)
		} else {
			msg = fmt.Sprintf("arrow loosed %.1f m/s", e.Value)
		}
	case game.EventMeleeHit:
		msg = fmt.Sprintf("slash %.1f m/s", e.Value)
	case game.EventEnemyKilled:
		msg = fmt.Sprintf("%s down (%s)", e.Enemy, e.Cause)
	case game.EventChargeStarted:
		hostile = true
		msg = fmt.Sprintf("%s charging", e.Enemy)
	case game.EventRusherExploded:
		hostile = true
		msg = fmt.Sprintf("rusher blast at %.1fm", e.Value)
	case game.EventPlayerHit:
		hostile = true
		msg = fmt.Sprintf("HIT by %s", e.Enemy)
	case game.EventGeometryRejected:
		msg = "blade too large, melee off"
	case game.EventGameClear:
		if e.Score != nil {
			msg = fmt.Sprintf("CLEAR  score %d", e.Score.Final)
		} else {
			msg = "CLEAR"
		}
	default:
		return
	}
	f.Add(e.Tick, hostile, msg)
}

// Draw renders the feed panel at panelX.
func (f *Feed) Draw(screen *ebiten.Image, face text.Face, panelX, panelH int) {
	px := float32(panelX)
	vector.FillRect(screen, px, 0, feedPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 14, A: 248}, false)
	vector.StrokeLine(screen, px, 0, px, float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)
	vector.FillRect(screen, px, 0, feedPanelWidth, 18, color.RGBA{R: 20, G: 24, B: 34, A: 255}, false)
	drawText(screen, face, "EVENTS", panelX+8, 3, color.White)

	entries := f.Recent()
	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	const recent = 3

	y := 22
	for i, e := range entries {
		if i >= len(entries)-recent {
			vector.FillRect(screen, px+2, float32(y), feedPanelWidth-4, feedLineHeight, color.RGBA{R: 30, G: 34, B: 46, A: 160}, false)
		}
		dot := color.RGBA{R: 90, G: 180, B: 230, A: 255}
		if e.Hostile {
			dot = color.RGBA{R: 220, G: 70, B: 70, A: 255}
		}
		vector.FillRect(screen, px+5, float32(y+4), 3, 6, dot, false)
		drawText(screen, face, fmt.Sprintf("%5d %s", e.Tick, e.Message), panelX+12, y, color.RGBA{R: 210, G: 215, B: 220, A: 255})
		y += feedLineHeight
	}
}

var _ game.EventSink = (*Feed)(nil)
