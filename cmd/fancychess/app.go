package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/lab/base/randx"

	"fancy_chessboard/internal/config"
	"fancy_chessboard/internal/game"
	"fancy_chessboard/internal/geometry"
	"fancy_chessboard/internal/httpx"
	"fancy_chessboard/internal/journal"
	"fancy_chessboard/internal/sim"
)

// app is what every command shares: the scene behind its runner and the
// move journal.
type app struct {
	cfg     *config.Config
	catalog *geometry.Catalog
	journal *journal.Journal
	runner  *sim.Runner
}

// newApp builds the scene from c. A nil clock uses the runner's monotonic
// clock.
func newApp(c *config.Config, clock func() float64) (*app, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.ApplyLogging()

	params, err := c.Scene.Params()
	if err != nil {
		return nil, err
	}
	catalog, err := c.Catalog()
	if err != nil {
		return nil, err
	}
	var rnd randx.Rand
	if c.Seed != 0 {
		rnd = randx.NewSysRand(c.Seed)
	}
	scene, err := game.NewScene(params, catalog, rnd)
	if err != nil {
		return nil, err
	}

	var j *journal.Journal
	if c.Journal == "" {
		j, err = journal.OpenMemory()
	} else {
		j, err = journal.Open(c.Journal)
	}
	if err != nil {
		return nil, err
	}
	slog.Debug("journal open", "path", c.Journal, "moves", j.Len())

	runner := sim.New(scene, sim.Options{
		Tick:               time.Duration(c.TickMillis) * time.Millisecond,
		RestartOnStalemate: c.RestartOnStalemate,
		Recorder:           j,
		Clock:              clock,
	})
	return &app{cfg: c, catalog: catalog, journal: j, runner: runner}, nil
}

func (a *app) close() {
	errors.Log(a.journal.Close())
}

// watch applies scene tunables from the config file as it changes, when
// enabled.
func (a *app) watch(ctx context.Context) {
	if !a.cfg.Watch {
		return
	}
	path := config.WatchPath()
	go func() {
		errors.Log(config.Watch(ctx, path, func(c *config.Config) {
			params, err := c.Scene.Params()
			if errors.Log(err) != nil {
				return
			}
			errors.Log(a.runner.Apply(func(s *game.Scene) error { return s.SetParams(params) }))
		}))
	}()
	slog.Info("watching config", "path", path)
}

// serve runs srv until ctx is done. Port 0 disables the API.
func (a *app) serve(ctx context.Context, srv *httpx.Server) {
	addr := a.cfg.Addr()
	if addr == "" {
		return
	}
	go func() {
		<-ctx.Done()
		shutdown(srv)
	}()
	if err := srv.Listen(addr); err != nil {
		errors.Log(fmt.Errorf("http: %w", err))
	}
}
