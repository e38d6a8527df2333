// Command fancychess runs the animated chessboard in a window, behind an
// HTTP API, or headless in a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cogentcore.org/core/cli"

	"fancy_chessboard/internal/config"
	"fancy_chessboard/internal/game"
	"fancy_chessboard/internal/httpx"
	"fancy_chessboard/internal/view"
	"fancy_chessboard/internal/view/window"
)

func main() {
	cli.Run(config.Options(), &config.Config{},
		&cli.Cmd[*config.Config]{
			Func: Window,
			Name: "window",
			Doc:  "Window shows the board in a desktop window and serves the HTTP API alongside it.",
			Root: true,
		},
		&cli.Cmd[*config.Config]{
			Func: Serve,
			Name: "serve",
			Doc:  "Serve runs the scene in real time behind the HTTP API.",
		},
		&cli.Cmd[*config.Config]{
			Func: Headless,
			Name: "headless",
			Doc:  "Headless prints the board to the terminal after every move.",
		},
	)
}

// Window runs the desktop window on the main goroutine.
func Window(c *config.Config) error {
	ctx, stop := signalContext()
	defer stop()
	a, err := newApp(c, nil)
	if err != nil {
		return err
	}
	defer a.close()

	a.watch(ctx)
	srv := httpx.NewServer(a.runner, a.journal)
	go a.serve(ctx, srv)

	return endOfGame(window.New(a.runner, a.catalog, c.Width, c.Height).Run())
}

// Serve runs the scene at its tick rate until interrupted.
func Serve(c *config.Config) error {
	ctx, stop := signalContext()
	defer stop()
	a, err := newApp(c, nil)
	if err != nil {
		return err
	}
	defer a.close()

	a.watch(ctx)
	srv := httpx.NewServer(a.runner, a.journal)
	go a.serve(ctx, srv)

	return endOfGame(a.runner.Run(ctx))
}

// Headless advances scene time in fixed ticks as fast as possible for
// Seconds of scene time, or in real time when Seconds is 0.
func Headless(c *config.Config) error {
	if c.Seconds == 0 {
		return headlessRealTime(c)
	}
	var now float64
	a, err := newApp(c, func() float64 { return now })
	if err != nil {
		return err
	}
	defer a.close()

	text := view.NewText(os.Stdout)
	dt := float64(c.TickMillis) / 1000
	a.runner.Start()
	for now = dt; now <= c.Seconds; now += dt {
		tick, err := a.runner.Step(now)
		if err != nil {
			return endOfGame(err)
		}
		if tick.Outcome == game.OutcomeCommitted || tick.Outcome == game.OutcomeStalemate {
			if err := text.Print(a.runner.Snapshot()); err != nil {
				return err
			}
		}
	}
	fmt.Println(view.Status(a.runner.Snapshot()))
	return nil
}

func headlessRealTime(c *config.Config) error {
	ctx, stop := signalContext()
	defer stop()
	a, err := newApp(c, nil)
	if err != nil {
		return err
	}
	defer a.close()
	a.watch(ctx)

	snaps, cancel := a.runner.Subscribe(16)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.runner.Run(ctx) }()

	text := view.NewText(os.Stdout)
	var printed uint64
	for {
		select {
		case err := <-done:
			return endOfGame(err)
		case snap := <-snaps:
			if snap.Moves == printed && !snap.Stalled {
				continue
			}
			printed = snap.Moves
			if err := text.Print(snap); err != nil {
				return err
			}
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// endOfGame turns a stalemate into a clean exit.
func endOfGame(err error) error {
	var stale *game.StalemateError
	if errors.As(err, &stale) {
		slog.Info("game over", "reason", err)
		return nil
	}
	return err
}

func shutdown(srv *httpx.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Close(ctx); err != nil {
		slog.Warn("http shutdown", "err", err)
	}
}
