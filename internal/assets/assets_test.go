package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Snipe-Slash/internal/game"
)

func writeModel(t *testing.T, dir, file string, size int) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), make([]byte, size), 0o600))
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "sword.glb", 16)
	writeModel(t, dir, "turret.obj", 8)
	writeModel(t, dir, "arrow.glb", 0)

	f := FileLoader{Dir: dir}
	ctx := context.Background()

	m, err := f.Load(ctx, "sword")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sword.glb"), m.Path)
	assert.Equal(t, int64(16), m.Size)
	assert.Equal(t, 1.0, m.Scale)

	m, err = f.Load(ctx, "turret")
	require.NoError(t, err)
	assert.Equal(t, ".obj", filepath.Ext(m.Path))

	_, err = f.Load(ctx, "arrow")
	assert.ErrorIs(t, err, ErrNotLoaded)

	_, err = f.Load(ctx, "beam")
	assert.ErrorIs(t, err, ErrNotLoaded)

	_, err = FileLoader{Dir: dir, Exts: []string{".gltf"}}.Load(ctx, "sword")
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestLibrary_PreloadRecordsFailures(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "sword.glb", 4)
	writeModel(t, dir, "bullet.glb", 4)

	lib := NewLibrary(FileLoader{Dir: dir}, nil)
	lib.Preload(context.Background(), []string{"sword", "bullet", "beam", "arrow"})
	err := lib.Wait(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.Contains(t, err.Error(), "arrow")
	assert.Contains(t, err.Error(), "beam")

	assert.Equal(t, []string{"bullet", "sword"}, lib.Loaded())

	v, ok := lib.Clone("sword")
	require.True(t, ok)
	assert.Equal(t, game.Visual{Name: "sword", Scale: 1, Source: filepath.Join(dir, "sword.glb")}, v)

	_, ok = lib.Clone("beam")
	assert.False(t, ok)
}

func TestLibrary_WaitBeforePreload(t *testing.T) {
	lib := NewLibrary(FileLoader{Dir: t.TempDir()}, nil)
	assert.NoError(t, lib.Wait(context.Background()))
	assert.Empty(t, lib.Loaded())
}

func TestLibrary_PreloadTwiceIsNoop(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "sword.glb", 4)
	writeModel(t, dir, "arrow.glb", 4)

	lib := NewLibrary(FileLoader{Dir: dir}, nil)
	lib.Preload(context.Background(), []string{"sword"})
	lib.Preload(context.Background(), []string{"arrow"})
	require.NoError(t, lib.Wait(context.Background()))
	assert.Equal(t, []string{"sword"}, lib.Loaded())
}

type blockingLoader struct{}

func (blockingLoader) Load(ctx context.Context, _ string) (Model, error) {
	<-ctx.Done()
	return Model{}, ctx.Err()
}

func TestLibrary_WaitHonoursContext(t *testing.T) {
	preloadCtx, stop := context.WithCancel(context.Background())
	defer stop()

	lib := NewLibrary(blockingLoader{}, nil)
	lib.Preload(preloadCtx, []string{"sword", "arrow"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := lib.Wait(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	// Cancelling the preload is not a per-model failure.
	stop()
	assert.NoError(t, lib.Wait(context.Background()))
	assert.Empty(t, lib.Loaded())
}

type scaledLoader map[string]float64

func (s scaledLoader) Load(_ context.Context, name string) (Model, error) {
	sc, ok := s[name]
	if !ok {
		return Model{}, ErrNotLoaded
	}
	return Model{Name: name, Path: "mem://" + name, Scale: sc}, nil
}

func TestLibrary_DrivesSession(t *testing.T) {
	lib := NewLibrary(scaledLoader{game.ModelSword: 2, game.ModelTurret: 0}, nil)
	lib.Preload(context.Background(), game.ModelNames())

	s := game.NewSession(
		game.WithAssets(lib),
		game.WithSpawns([]game.SpawnSpec{{Kind: game.EnemyTurret, Position: game.Vec3{X: 0, Y: 2, Z: -15}}}),
	)
	require.NoError(t, s.Start(context.Background()))

	ws := s.Weapons()
	require.NotEmpty(t, ws)
	assert.Equal(t, 2.0, ws[0].Visual.Scale)
	assert.False(t, ws[0].Visual.Placeholder)

	enemies := s.Registry().Enemies()
	require.Len(t, enemies, 1)
	assert.Equal(t, 1.0, enemies[0].Visual.Scale)
	assert.Equal(t, "mem://turret", enemies[0].Visual.Source)
}
