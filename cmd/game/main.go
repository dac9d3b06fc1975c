package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Snipe-Slash/internal/assets"
	"github.com/Garsondee/Snipe-Slash/internal/config"
	"github.com/Garsondee/Snipe-Slash/internal/game"
	"github.com/Garsondee/Snipe-Slash/internal/logging"
	"github.com/Garsondee/Snipe-Slash/internal/telemetry"
	"github.com/Garsondee/Snipe-Slash/internal/viewer"
)

func main() {
	var configDir string
	flag.StringVar(&configDir, "config", ".", "directory holding snipe_slash.cfg")
	flag.Parse()

	if err := config.Load(configDir); err != nil {
		log.Fatal(err)
	}
	logFile, err := logging.OpenFile(config.GetString("logFile"))
	if err != nil {
		log.Fatal(err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger := logging.NewManager().Setup(logFile, config.GetString("logLevel"))

	tun, err := config.Tuning()
	if err != nil {
		log.Fatal(err)
	}

	var sinks []game.EventSink
	if config.GetBool("telemetry.enabled") {
		rec, err := telemetry.NewRecorder(telemetry.Meter())
		if err != nil {
			log.Fatal(err)
		}
		sinks = append(sinks, rec)
	}

	lib := assets.NewLibrary(assets.FileLoader{Dir: config.GetString("assets.dir")}, logger)
	lib.Preload(context.Background(), config.GetStringSlice("assets.names"))

	seed := int64(config.GetInt("seed"))
	round := int64(0)
	factory := func(ctx context.Context, opts ...game.Option) (*game.Session, error) {
		// Each restart gets a fresh seed so random layouts differ.
		s := seed + round
		round++
		spawns, err := config.Spawns(rand.New(rand.NewSource(s))) // #nosec G404 -- arena layout
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			game.WithTuning(tun),
			game.WithSeed(s),
			game.WithLogger(logger),
			game.WithAssets(lib),
			game.WithSpawns(spawns),
			game.WithSinks(sinks...),
		)
		sess := game.NewSession(opts...)
		startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := sess.Start(startCtx); err != nil {
			return nil, err
		}
		return sess, nil
	}

	v, err := viewer.New(factory, logger)
	if err != nil {
		log.Fatal(err)
	}
	if hz := config.GetInt("tickRate"); hz > 0 {
		ebiten.SetTPS(hz)
	}
	w, h := v.Size()
	ebiten.SetWindowTitle("Snipe & Slash")
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
