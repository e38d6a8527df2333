// Package sim drives a game.Scene at a fixed cadence and shares its
// snapshots with readers on other goroutines.
package sim

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/logx"

	"fancy_chessboard/internal/game"
)

// DefaultTick is the update cadence of Run.
const DefaultTick = 20 * time.Millisecond

// Recorder receives every committed move.
type Recorder interface {
	Append(rec game.MoveRecord) error
}

type Options struct {
	// Tick is the Run cadence; zero means DefaultTick.
	Tick time.Duration
	// RestartOnStalemate resets the scene instead of ending Run.
	RestartOnStalemate bool
	// Recorder, if set, is given each committed move.
	Recorder Recorder
	// Clock returns scene time in seconds; the default is a monotonic
	// clock starting at New.
	Clock func() float64
}

// Runner owns a Scene. Step and Apply are the only writers; Snapshot can
// be called from any goroutine.
type Runner struct {
	mu    sync.RWMutex
	scene *game.Scene
	last  game.Snapshot
	opts  Options

	subsMu  sync.Mutex
	subs    map[int]chan game.Snapshot
	nextSub int
}

func New(scene *game.Scene, opts Options) *Runner {
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	if opts.Clock == nil {
		epoch := time.Now()
		opts.Clock = func() float64 { return time.Since(epoch).Seconds() }
	}
	return &Runner{
		scene: scene,
		last:  scene.Snapshot(),
		opts:  opts,
		subs:  make(map[int]chan game.Snapshot),
	}
}

// Now is the current scene time according to the runner's clock.
func (r *Runner) Now() float64 { return r.opts.Clock() }

// Start arms the scene at the current clock time.
func (r *Runner) Start() {
	now := r.Now()
	r.mu.Lock()
	r.scene.Start(now)
	r.last = r.scene.Snapshot()
	snap := r.last
	r.mu.Unlock()
	r.publish(snap)
}

// Step advances the scene to now. On stalemate it either resets the scene
// or returns a *game.StalemateError.
func (r *Runner) Step(now float64) (game.Tick, error) {
	r.mu.Lock()
	tick := r.scene.Update(now)
	var rec game.MoveRecord
	var committed bool
	if tick.Outcome == game.OutcomeCommitted {
		rec, committed = r.scene.LastMove()
	}
	if tick.Outcome == game.OutcomeStalemate && r.opts.RestartOnStalemate {
		slog.Info("stalemate, restarting", "color", tick.Color, "moves", r.last.Moves)
		r.scene.Reset(now)
	}
	r.last = r.scene.Snapshot()
	snap := r.last
	r.mu.Unlock()

	if committed {
		logx.PrintfDebug("move %s\n", rec)
		if r.opts.Recorder != nil {
			errors.Log(r.opts.Recorder.Append(rec))
		}
	}
	r.publish(snap)

	if tick.Outcome == game.OutcomeStalemate && !r.opts.RestartOnStalemate {
		return tick, tick.Err()
	}
	return tick, nil
}

// Apply runs fn with exclusive access to the scene, typically to change
// its tunables, and publishes the resulting snapshot.
func (r *Runner) Apply(fn func(s *game.Scene) error) error {
	r.mu.Lock()
	err := fn(r.scene)
	r.last = r.scene.Snapshot()
	snap := r.last
	r.mu.Unlock()
	r.publish(snap)
	return err
}

// Snapshot returns the state after the last Step or Apply. Its slices are
// shared and must not be modified.
func (r *Runner) Snapshot() game.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// History returns the scene's in-memory move history.
func (r *Runner) History() []game.MoveRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scene.History()
}

// Subscribe returns a channel that receives every published snapshot. A
// slow reader loses the oldest pending snapshot, never blocking the
// runner. Call cancel to unsubscribe and close the channel.
func (r *Runner) Subscribe(buffer int) (<-chan game.Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan game.Snapshot, buffer)
	r.subsMu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	r.subsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.subsMu.Lock()
			delete(r.subs, id)
			r.subsMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (r *Runner) publish(snap game.Snapshot) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	for _, ch := range r.subs {
		for {
			select {
			case ch <- snap:
			default:
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}

// Run starts the scene and steps it every tick until ctx is done, or until
// stalemate when RestartOnStalemate is off.
func (r *Runner) Run(ctx context.Context) error {
	r.Start()
	ticker := time.NewTicker(r.opts.Tick)
	defer ticker.Stop()

	slog.Info("simulation running", "tick", r.opts.Tick)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.Step(r.Now()); err != nil {
				return err
			}
		}
	}
}
