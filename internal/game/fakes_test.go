package game

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
)

// fakeAssets serves a fixed set of models.
type fakeAssets map[string]Visual

func (f fakeAssets) Clone(name string) (Visual, bool) {
	v, ok := f[name]
	return v, ok
}

// slowAssets never finishes loading until its context ends.
type slowAssets struct{ fakeAssets }

func (slowAssets) Wait(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

type hudRecorder struct{ snaps []HUDSnapshot }

func (h *hudRecorder) UpdateHUD(s HUDSnapshot) { h.snaps = append(h.snaps, s) }

type surfaceRecorder struct {
	enemies     map[Handle]EnemyKind
	projectiles map[Handle]Owner
	destroyed   []Handle
}

func newSurfaceRecorder() *surfaceRecorder {
	return &surfaceRecorder{enemies: map[Handle]EnemyKind{}, projectiles: map[Handle]Owner{}}
}

func (s *surfaceRecorder) SpawnEnemy(h Handle, k EnemyKind, _ Transform, _ Visual) { s.enemies[h] = k }
func (s *surfaceRecorder) SpawnProjectile(h Handle, o Owner, _ Transform, _ Visual) {
	s.projectiles[h] = o
}
func (s *surfaceRecorder) Destroy(h Handle) { s.destroyed = append(s.destroyed, h) }

// captureLogger returns a logger writing text records into the returned buffer.
func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func countLines(buf *bytes.Buffer, substr string) int {
	n := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}
