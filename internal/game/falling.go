package game

import (
	"fmt"

	"cogentcore.org/core/math32"
	"cogentcore.org/lab/base/randx"

	"fancy_chessboard/internal/geometry"
)

// FallingParams are the physics constants of the landing animation.
type FallingParams struct {
	// G is the free-fall acceleration above the rest height.
	G float32 `json:"g"`
	// K is the spring constant below the rest height.
	K float32 `json:"k"`
	// Alpha is the velocity damping below the rest height.
	Alpha float32 `json:"alpha"`
	// Epsilon bounds |velocity| and |acceleration| of a settled piece.
	Epsilon float32 `json:"epsilon"`
	// TimeCutOff stops the simulation after this many seconds regardless.
	TimeCutOff float64 `json:"timeCutOff"`
	// StartingHeight is added above each piece's rest height at start.
	StartingHeight float32 `json:"startingHeight"`
	// Jitter is the upper bound of the uniform per-piece extra height.
	Jitter float32 `json:"jitter"`
}

func DefaultFallingParams() FallingParams {
	return FallingParams{
		G:              9.81,
		K:              10,
		Alpha:          20,
		Epsilon:        0.1,
		TimeCutOff:     15,
		StartingHeight: 3,
		Jitter:         1.5,
	}
}

func (p FallingParams) Validate() error {
	switch {
	case p.G <= 0:
		return fmt.Errorf("%w: g must be positive, got %v", ErrInvalidParam, p.G)
	case p.K <= 0:
		return fmt.Errorf("%w: k must be positive, got %v", ErrInvalidParam, p.K)
	case p.Alpha < 0:
		return fmt.Errorf("%w: alpha must not be negative, got %v", ErrInvalidParam, p.Alpha)
	case p.Epsilon <= 0:
		return fmt.Errorf("%w: epsilon must be positive, got %v", ErrInvalidParam, p.Epsilon)
	case p.TimeCutOff <= 0:
		return fmt.Errorf("%w: time cut-off must be positive, got %v", ErrInvalidParam, p.TimeCutOff)
	case p.StartingHeight < 0 || p.Jitter < 0:
		return fmt.Errorf("%w: starting height and jitter must not be negative", ErrInvalidParam)
	}
	return nil
}

// Falling drops every piece onto the board: each one is a point mass on a
// damped spring anchored at its rest height, integrated with explicit
// Euler steps of the time elapsed since the previous update.
type Falling struct {
	Params FallingParams

	height   []float32
	velocity []float32
	accel    []float32
	mass     []float32
	rest     []float32

	running bool
	settled bool
	start   float64
	last    float64
}

// NewFalling returns an inactive integrator.
func NewFalling(p FallingParams) *Falling {
	return &Falling{Params: p}
}

// Start drops each piece from StartingHeight + U(0, Jitter) above its
// rest height.
func (f *Falling) Start(now float64, pieces []geometry.Descriptor, rnd randx.Rand) {
	heights := make([]float32, len(pieces))
	for i, d := range pieces {
		heights[i] = f.Params.StartingHeight + f.Params.Jitter*rnd.Float32() + d.Height()
	}
	f.StartAt(now, heights, pieces)
}

// StartAt drops each piece from an explicit absolute height. Only the
// first min(len(heights), len(pieces)) pieces take part.
func (f *Falling) StartAt(now float64, heights []float32, pieces []geometry.Descriptor) {
	n := min(len(heights), len(pieces))
	pieces = pieces[:n]
	f.height = append(f.height[:0], heights[:n]...)
	f.velocity = make([]float32, n)
	f.accel = make([]float32, n)
	f.mass = make([]float32, n)
	f.rest = make([]float32, n)
	for i, d := range pieces {
		f.rest[i] = d.Height()
		f.mass[i] = d.Volume()
	}
	f.running = n > 0
	f.settled = false
	f.start = now
	f.last = now
}

// Update advances every piece by now - last and reports whether the
// simulation is still running.
func (f *Falling) Update(now float64) bool {
	if !f.running {
		return false
	}
	dt := float32(now - f.last)
	if dt <= 0 {
		return true
	}
	f.last = now

	p := f.Params
	settled := true
	for i := range f.height {
		d := f.rest[i] - f.height[i]
		var a float32
		if d > 0 {
			a = d*p.K/f.mass[i] - p.Alpha*f.velocity[i]
		} else {
			a = -p.G
		}
		f.accel[i] = a
		f.velocity[i] += a * dt
		f.height[i] += f.velocity[i] * dt
		if math32.Abs(f.velocity[i]) >= p.Epsilon || math32.Abs(a) >= p.Epsilon {
			settled = false
		}
	}
	if settled {
		f.running = false
		f.settled = true
	} else if now-f.start > p.TimeCutOff {
		f.running = false
	}
	return f.running
}

// Running reports whether the integrator is still driving piece heights.
func (f *Falling) Running() bool { return f.running }

// Settled reports whether the last run ended by every piece coming to
// rest, as opposed to hitting the time cut-off.
func (f *Falling) Settled() bool { return f.settled }

// Len is the number of simulated pieces.
func (f *Falling) Len() int { return len(f.height) }

// Height is the absolute top height of piece i.
func (f *Falling) Height(i int) float32 { return f.height[i] }

func (f *Falling) Velocity(i int) float32 { return f.velocity[i] }

func (f *Falling) Acceleration(i int) float32 { return f.accel[i] }

// Offset is how far piece i sits above its rest height; renderers add it
// to the board-plane position while the integrator runs.
func (f *Falling) Offset(i int) float32 {
	if i >= len(f.height) {
		return 0
	}
	return f.height[i] - f.rest[i]
}

// Elapsed is the time since Start as of the last update.
func (f *Falling) Elapsed() float64 { return f.last - f.start }
