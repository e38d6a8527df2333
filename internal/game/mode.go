package game

import "fmt"

// Mode is the slider-facing animation selector. 0 is a flat linear slide;
// odd values are quadratic arcs and even values cubic arcs, with the arc
// height growing every two steps.
type Mode int

const (
	// MaxMode is the highest accepted mode.
	MaxMode Mode = 8
	// ArcStep is the arc height gained every two mode steps, in cell units.
	ArcStep float32 = 0.5
)

func (m Mode) Valid() bool { return m >= 0 && m <= MaxMode }

// Curve is the interpolation kind encoded by the mode.
func (m Mode) Curve() Curve {
	switch {
	case m <= 0:
		return CurveLinear
	case m%2 == 1:
		return CurveQuadBezier
	default:
		return CurveCubicBezier
	}
}

// ArcHeight is the peak height encoded by the mode.
func (m Mode) ArcHeight() float32 {
	if m <= 0 {
		return 0
	}
	return float32((m+1)/2) * ArcStep
}

func (m Mode) String() string {
	return fmt.Sprintf("%d (%s, arc %.2f)", int(m), m.Curve(), m.ArcHeight())
}
