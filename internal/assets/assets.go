// Package assets preloads named models and hands out per-entity clones.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Snipe-Slash/internal/game"
)

// ErrNotLoaded is returned when a model could not be found or read.
var ErrNotLoaded = errors.New("model not loaded")

// preloadLimit bounds concurrent loads.
const preloadLimit = 4

// Model is a loaded model description.
type Model struct {
	Name  string
	Path  string
	Size  int64
	Scale float64
}

// Loader resolves a model name to a loaded model.
type Loader interface {
	Load(ctx context.Context, name string) (Model, error)
}

// FileLoader looks for <Dir>/<name><ext>, trying each extension in order.
type FileLoader struct {
	Dir  string
	Exts []string
}

// DefaultExts are tried when FileLoader.Exts is empty.
var DefaultExts = []string{".glb", ".gltf", ".obj"}

// Load implements Loader.
func (f FileLoader) Load(ctx context.Context, name string) (Model, error) {
	exts := f.Exts
	if len(exts) == 0 {
		exts = DefaultExts
	}
	for _, ext := range exts {
		if err := ctx.Err(); err != nil {
			return Model{}, err
		}
		p := filepath.Join(f.Dir, name+ext)
		st, err := os.Stat(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return Model{}, fmt.Errorf("load %s: %w: %w", name, ErrNotLoaded, err)
		}
		if st.IsDir() || st.Size() == 0 {
			return Model{}, fmt.Errorf("load %s: %w: %s is empty", name, ErrNotLoaded, p)
		}
		return Model{Name: name, Path: p, Size: st.Size(), Scale: 1}, nil
	}
	return Model{}, fmt.Errorf("load %s: %w: no file in %s", name, ErrNotLoaded, f.Dir)
}

// Library caches loaded models. It satisfies game.AssetProvider, and its
// Wait method lets a session block on the preload.
type Library struct {
	loader Loader
	log    *slog.Logger

	mu       sync.RWMutex
	models   map[string]Model
	failures map[string]error

	done    chan struct{}
	started bool
}

// NewLibrary returns an empty library backed by loader.
func NewLibrary(loader Loader, log *slog.Logger) *Library {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Library{
		loader:   loader,
		log:      log.With("component", "assets"),
		models:   make(map[string]Model),
		failures: make(map[string]error),
		done:     make(chan struct{}),
	}
}

// Preload loads names in the background. A model that fails to load is
// recorded and left out; the rest keep loading. Calling Preload twice is a
// no-op.
func (l *Library) Preload(ctx context.Context, names []string) {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go func() {
		defer close(l.done)
		if err := l.load(ctx, names); err != nil {
			l.log.Warn("preload aborted", "err", err)
		}
	}()
}

func (l *Library) load(ctx context.Context, names []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadLimit)
	for _, name := range names {
		g.Go(func() error {
			m, err := l.loader.Load(gctx, name)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				l.mu.Lock()
				l.failures[name] = err
				l.mu.Unlock()
				l.log.Warn("model failed to load", "model", name, "err", err)
				return nil
			}
			if m.Scale == 0 {
				m.Scale = 1
			}
			l.mu.Lock()
			l.models[name] = m
			l.mu.Unlock()
			l.log.Debug("model loaded", "model", name, "path", m.Path, "bytes", m.Size)
			return nil
		})
	}
	return g.Wait()
}

// Wait blocks until the preload finishes or ctx is done. It returns the
// joined per-model failures, or ctx's error. Wait before Preload returns
// immediately with nil.
func (l *Library) Wait(ctx context.Context) error {
	l.mu.RLock()
	started := l.started
	l.mu.RUnlock()
	if !started {
		return nil
	}
	select {
	case <-l.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.failures))
	for n := range l.failures {
		names = append(names, n)
	}
	sort.Strings(names)
	errs := make([]error, 0, len(names))
	for _, n := range names {
		errs = append(errs, l.failures[n])
	}
	return errors.Join(errs...)
}

// Clone returns a fresh visual for name, or false when it is not loaded.
func (l *Library) Clone(name string) (game.Visual, bool) {
	l.mu.RLock()
	m, ok := l.models[name]
	l.mu.RUnlock()
	if !ok {
		return game.Visual{}, false
	}
	return game.Visual{Name: m.Name, Scale: m.Scale, Source: m.Path}, true
}

// Loaded lists the loaded model names in order.
func (l *Library) Loaded() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.models))
	for n := range l.models {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

var _ game.AssetProvider = (*Library)(nil)
