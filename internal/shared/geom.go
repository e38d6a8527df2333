package shared

import (
	"math"

	"cogentcore.org/core/math32"
)

// Radians converts degrees to radians.
func Radians(degrees float32) float32 { return math32.DegToRad(degrees) }

func Degrees(radians float32) float32 { return math32.RadToDeg(radians) }

// Polar returns (cos a, sin a).
func Polar(angle float32) math32.Vector2 {
	return math32.Vec2(math32.Cos(angle), math32.Sin(angle))
}

// PolarLen returns l·(cos a, sin a).
func PolarLen(l, angle float32) math32.Vector2 {
	return Polar(angle).MulScalar(l)
}

// Angle2D returns atan2(v.Y, v.X).
func Angle2D(v math32.Vector2) float32 {
	return math32.Atan2(v.Y, v.X)
}

// Spherical returns the unit vector at inclination fromUp (0 is +Z) and
// azimuth onGround (0 is the XZ plane).
func Spherical(fromUp, onGround float32) math32.Vector3 {
	s := math32.Sin(fromUp)
	return math32.Vec3(s*math32.Cos(onGround), s*math32.Sin(onGround), math32.Cos(fromUp))
}

// SphericalLen returns length * Spherical(fromUp, onGround).
func SphericalLen(length, fromUp, onGround float32) math32.Vector3 {
	return Spherical(fromUp, onGround).MulScalar(length)
}

// Vec3From2 lifts v into 3D at height z.
func Vec3From2(v math32.Vector2, z float32) math32.Vector3 {
	return math32.Vec3(v.X, v.Y, z)
}

// Frac returns x - floor(x).
func Frac(x float64) float64 {
	return x - math.Floor(x)
}

// FracC is the distance from x to the nearest integer, a triangle wave in
// [0, 0.5].
func FracC(x float64) float64 {
	f := Frac(x)
	return min(f, 1-f)
}

// LinearAngle maps turns to an angle in [0, 2π).
func LinearAngle(x float64) float64 {
	return Frac(x) * 2 * math.Pi
}

