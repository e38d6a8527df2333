package game

import (
	"fmt"

	"cogentcore.org/core/math32"

	"fancy_chessboard/internal/shared"
)

// AnimState is the turn scheduler state.
type AnimState uint8

const (
	// AnimWait is idle; a new move may start once the idle threshold passed.
	AnimWait AnimState = iota
	// AnimRun is interpolating the moving piece.
	AnimRun
	// AnimDone has committed the move; the scene folds it back to AnimWait.
	AnimDone
)

func (s AnimState) String() string {
	switch s {
	case AnimWait:
		return "wait"
	case AnimRun:
		return "run"
	case AnimDone:
		return "done"
	default:
		return "?"
	}
}

func (s AnimState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *AnimState) UnmarshalText(text []byte) error {
	for v := AnimWait; v <= AnimDone; v++ {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("invalid animation state %q", text)
}

// Curve is the interpolation kind of a move.
type Curve uint8

const (
	CurveLinear Curve = iota
	CurveQuadBezier
	CurveCubicBezier
)

func (c Curve) String() string {
	switch c {
	case CurveLinear:
		return "linear"
	case CurveQuadBezier:
		return "quad-bezier"
	case CurveCubicBezier:
		return "cubic-bezier"
	default:
		return "?"
	}
}

func (c Curve) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Curve) UnmarshalText(text []byte) error {
	for v := CurveLinear; v <= CurveCubicBezier; v++ {
		if v.String() == string(text) {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("invalid curve %q", text)
}

// CellCenter maps a square to board-plane coordinates: cell units, origin
// at the board centre, z = 0.
func CellCenter(sq Square) math32.Vector3 {
	const half = float32(shared.BoardSize) / 2
	return math32.Vec3(float32(sq.File())+0.5-half, float32(sq.Rank())+0.5-half, 0)
}

// Animation moves one piece from its square to a destination along a
// timed curve. Only one animation exists per scene, so at most one piece
// is ever in flight.
type Animation struct {
	state    AnimState
	piece    int
	from, to Square
	start    float64
	elapsed  float64
	duration float64
	curve    Curve
	arc      float32
	p        [4]math32.Vector3
	pos      math32.Vector3
	heading  float32
}

// NewAnimation returns an idle animation.
func NewAnimation() *Animation {
	return &Animation{state: AnimWait, piece: -1}
}

// Begin arms the animation for a move starting at now.
func (a *Animation) Begin(m Move, now, duration float64, curve Curve, arc float32) {
	a.state = AnimRun
	a.piece = m.PieceID
	a.from, a.to = m.From, m.To
	a.start = now
	a.elapsed = 0
	a.duration = duration
	a.curve = curve
	a.arc = arc

	src, dst := CellCenter(m.From), CellCenter(m.To)
	switch curve {
	case CurveQuadBezier:
		mid := src.Add(dst).MulScalar(0.5)
		mid.Z = arc
		a.p = [4]math32.Vector3{src, mid, dst, dst}
	case CurveCubicBezier:
		p1, p2 := src, dst
		p1.Z, p2.Z = arc, arc
		a.p = [4]math32.Vector3{src, p1, p2, dst}
	default:
		a.p = [4]math32.Vector3{src, dst, dst, dst}
	}
	d := dst.Sub(src)
	a.heading = shared.Angle2D(math32.Vec2(d.X, d.Y))
	a.pos = src
}

// Advance recomputes the position at now. Once elapsed exceeds the
// duration the piece is committed to its destination on b and the state
// becomes AnimDone.
func (a *Animation) Advance(b *Board, now float64) (AnimState, error) {
	if a.state != AnimRun {
		return a.state, nil
	}
	a.elapsed = now - a.start
	a.pos = a.Point(a.Progress())
	if a.duration > 0 && a.elapsed <= a.duration {
		return a.state, nil
	}
	a.pos = a.Point(1)
	if err := b.commit(a.piece, a.to); err != nil {
		return a.state, err
	}
	a.state = AnimDone
	return a.state, nil
}

// Reset returns the animation to AnimWait.
func (a *Animation) Reset() {
	a.state = AnimWait
	a.piece = -1
}

// Progress is elapsed/duration clamped to [0, 1]; a non-positive duration
// counts as already complete.
func (a *Animation) Progress() float32 {
	if a.duration <= 0 {
		return 1
	}
	return math32.Clamp(float32(a.elapsed/a.duration), 0, 1)
}

// Point evaluates the curve at parameter t.
func (a *Animation) Point(t float32) math32.Vector3 {
	u := 1 - t
	p := a.p
	switch a.curve {
	case CurveQuadBezier:
		return p[0].MulScalar(u * u).
			Add(p[1].MulScalar(2 * u * t)).
			Add(p[2].MulScalar(t * t))
	case CurveCubicBezier:
		return p[0].MulScalar(u * u * u).
			Add(p[1].MulScalar(3 * u * u * t)).
			Add(p[2].MulScalar(3 * u * t * t)).
			Add(p[3].MulScalar(t * t * t))
	default:
		return p[0].Add(p[1].Sub(p[0]).MulScalar(t))
	}
}

// Tangent is the curve derivative at parameter t.
func (a *Animation) Tangent(t float32) math32.Vector3 {
	u := 1 - t
	p := a.p
	switch a.curve {
	case CurveQuadBezier:
		return p[1].Sub(p[0]).MulScalar(2 * u).
			Add(p[2].Sub(p[1]).MulScalar(2 * t))
	case CurveCubicBezier:
		return p[1].Sub(p[0]).MulScalar(3 * u * u).
			Add(p[2].Sub(p[1]).MulScalar(6 * u * t)).
			Add(p[3].Sub(p[2]).MulScalar(3 * t * t))
	default:
		return p[1].Sub(p[0])
	}
}

func (a *Animation) State() AnimState { return a.state }

// PieceID is the moving piece, or -1 when idle.
func (a *Animation) PieceID() int { return a.piece }

func (a *Animation) From() Square { return a.from }
func (a *Animation) To() Square   { return a.to }

func (a *Animation) Curve() Curve { return a.curve }

func (a *Animation) ArcHeight() float32 { return a.arc }

func (a *Animation) Duration() float64 { return a.duration }

func (a *Animation) Start() float64 { return a.start }

func (a *Animation) Elapsed() float64 { return a.elapsed }

// Position is the interpolated board-plane position of the moving piece.
func (a *Animation) Position() math32.Vector3 { return a.pos }

// Heading is the direction of travel, atan2 of destination minus source.
func (a *Animation) Heading() float32 { return a.heading }
