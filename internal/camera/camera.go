// Package camera is the orbit camera looking at the board and the light
// circling above it.
package camera

import (
	"cogentcore.org/core/math32"

	"fancy_chessboard/internal/shared"
)

const (
	minLength = 1
	zoomStep  = 0.25
	dragScale = 0.01
	panScale  = 0.5
	near      = 0.1
)

var (
	minFromUp = shared.Radians(1)
	maxFromUp = shared.Radians(179)
	up        = math32.Vec3(0, 0, 1)
)

// Camera orbits Target at distance Length. Angles are in radians.
type Camera struct {
	Length        float32
	AngleFromUp   float32
	AngleOnGround float32
	Target        math32.Vector3

	// FovY is the vertical field of view.
	FovY float32

	// LightSpeed is in turns per second. The light circles the board
	// origin at LightRadius, LightHeight above it, starting from the
	// ground angle LightInitPos at t = 0.
	LightSpeed   float32
	LightRadius  float32
	LightHeight  float32
	LightInitPos float32

	// MoveScale converts pointer pixels to board units when panning.
	MoveScale float32
}

func New() *Camera {
	return &Camera{
		Length:        12,
		AngleFromUp:   shared.Radians(60),
		AngleOnGround: shared.Radians(225),
		FovY:          shared.Radians(45),
		LightSpeed:    0.2,
		LightRadius:   8,
		LightHeight:   8,
		MoveScale:     0.02,
	}
}

// ApplyDelta orbits by a pointer drag of (dx, dy) pixels. Dragging down
// tilts the eye toward the board plane.
func (c *Camera) ApplyDelta(dx, dy float32) {
	c.AngleOnGround += dx * dragScale
	c.AngleFromUp = math32.Clamp(c.AngleFromUp+dy*dragScale, minFromUp, maxFromUp)
}

// ApplyMove pans the target along the board plane.
func (c *Camera) ApplyMove(dx, dy float32) {
	c.Target = c.Target.Add(math32.Vec3(dx, dy, 0).MulScalar(panScale * c.MoveScale))
}

// ApplyZoom moves the eye toward the target for positive z.
func (c *Camera) ApplyZoom(z float32) {
	c.Length = max(c.Length-zoomStep*z, minLength)
}

// Eye is the camera position.
func (c *Camera) Eye() math32.Vector3 {
	return c.Target.Add(shared.SphericalLen(c.Length, c.AngleFromUp, c.AngleOnGround))
}

// Light is the light position at scene time t.
func (c *Camera) Light(t float64) math32.Vector3 {
	a := float32(shared.LinearAngle(t*float64(c.LightSpeed))) + c.LightInitPos
	return shared.Vec3From2(shared.PolarLen(c.LightRadius, a), c.LightHeight)
}

// Projection is a world point mapped onto the screen.
type Projection struct {
	X, Y float32
	// Depth is the distance along the view direction.
	Depth float32
	// Scale is pixels per board unit at Depth.
	Scale   float32
	Visible bool
}

// Project maps p onto a w×h pixel screen, y pointing down.
func (c *Camera) Project(p math32.Vector3, w, h int) Projection {
	eye := c.Eye()
	forward := c.Target.Sub(eye).Normal()
	right := forward.Cross(up).Normal()
	camUp := right.Cross(forward)

	d := p.Sub(eye)
	z := d.Dot(forward)
	if z <= near || w <= 0 || h <= 0 {
		return Projection{Depth: z}
	}
	f := 1 / math32.Tan(c.FovY/2)
	aspect := float32(w) / float32(h)
	nx := f * d.Dot(right) / (z * aspect)
	ny := f * d.Dot(camUp) / z
	return Projection{
		X:       (nx + 1) / 2 * float32(w),
		Y:       (1 - ny) / 2 * float32(h),
		Depth:   z,
		Scale:   f / z * float32(h) / 2,
		Visible: nx >= -1 && nx <= 1 && ny >= -1 && ny <= 1,
	}
}
