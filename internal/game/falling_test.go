package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fancy_chessboard/internal/geometry"
)

func openingDescriptors() []geometry.Descriptor {
	cat := geometry.Default()
	b := NewBoard()
	out := make([]geometry.Descriptor, b.Len())
	for i := range out {
		out[i] = cat.Get(b.Piece(i).Type)
	}
	return out
}

func restPlus(descs []geometry.Descriptor, dh float32) []float32 {
	out := make([]float32, len(descs))
	for i, d := range descs {
		out[i] = d.Height() + dh
	}
	return out
}

// runFalling steps f at a fixed dt and returns the time it stopped.
func runFalling(f *Falling, dt float64, limit int) float64 {
	now := 0.0
	for i := 0; i < limit && f.Update(now+dt); i++ {
		now += dt
	}
	return now + dt
}

func TestFallingSettlesBeforeCutOff(t *testing.T) {
	descs := openingDescriptors()
	for _, dt := range []float64{0.01, 0.02, 0.05} {
		f := NewFalling(DefaultFallingParams())
		f.StartAt(0, restPlus(descs, 1), descs)
		require.True(t, f.Running())

		stopped := runFalling(f, dt, 10000)
		assert.False(t, f.Running(), "dt %v", dt)
		assert.True(t, f.Settled(), "dt %v stopped by cut-off", dt)
		assert.Less(t, stopped, f.Params.TimeCutOff, "dt %v", dt)
		for i := 0; i < f.Len(); i++ {
			assert.InDelta(t, 0, f.Offset(i), 0.15, "piece %d", i)
			assert.Less(t, abs32(f.Velocity(i)), f.Params.Epsilon)
		}
	}
}

func TestFallingCutOffStopsUndampedSprings(t *testing.T) {
	p := DefaultFallingParams()
	p.Alpha = 0
	p.TimeCutOff = 2
	descs := openingDescriptors()
	f := NewFalling(p)
	f.StartAt(0, restPlus(descs, 1), descs)

	stopped := runFalling(f, 0.02, 10000)
	assert.False(t, f.Running())
	assert.False(t, f.Settled())
	assert.InDelta(t, 2.0, stopped, 0.05)
}

func TestFallingFreeFallAboveRest(t *testing.T) {
	descs := openingDescriptors()[:1]
	f := NewFalling(DefaultFallingParams())
	f.StartAt(0, restPlus(descs, 10), descs)

	require.True(t, f.Update(0.1))
	assert.InDelta(t, -f.Params.G, f.Acceleration(0), 1e-5)
	assert.InDelta(t, -0.981, f.Velocity(0), 1e-4)
	assert.InDelta(t, 10-0.0981, f.Offset(0), 1e-4)
}

func TestFallingRepeatedTimestampIsNoOp(t *testing.T) {
	descs := openingDescriptors()
	f := NewFalling(DefaultFallingParams())
	f.StartAt(1, restPlus(descs, 2), descs)
	require.True(t, f.Update(1.5))
	before := f.Height(0)

	assert.True(t, f.Update(1.5))
	assert.True(t, f.Update(1.2))
	assert.Equal(t, before, f.Height(0))
}

func TestFallingStartAtMismatchedLengths(t *testing.T) {
	descs := openingDescriptors()[:3]
	t.Run("fewer heights", func(t *testing.T) {
		f := NewFalling(DefaultFallingParams())
		f.StartAt(0, restPlus(descs, 1)[:1], descs)
		require.Equal(t, 1, f.Len())
		assert.NotPanics(t, func() { runFalling(f, 0.02, 10000) })
		assert.InDelta(t, 0, f.Offset(0), 0.15)
	})
	t.Run("more heights", func(t *testing.T) {
		f := NewFalling(DefaultFallingParams())
		f.StartAt(0, append(restPlus(descs, 1), 7, 8), descs)
		require.Equal(t, 3, f.Len())
		assert.NotPanics(t, func() { f.Update(0.02) })
	})
	t.Run("no heights", func(t *testing.T) {
		f := NewFalling(DefaultFallingParams())
		f.StartAt(0, nil, descs)
		assert.False(t, f.Running())
		assert.Zero(t, f.Len())
	})
}

func TestFallingStartJitter(t *testing.T) {
	descs := openingDescriptors()
	f := NewFalling(DefaultFallingParams())
	f.Start(0, descs, newTestRand(11))

	p := f.Params
	for i := 0; i < f.Len(); i++ {
		off := f.Offset(i)
		assert.GreaterOrEqual(t, off, p.StartingHeight-1e-4)
		assert.LessOrEqual(t, off, p.StartingHeight+p.Jitter+1e-4)
	}
}

func TestFallingParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultFallingParams().Validate())

	tests := []struct {
		name string
		mut  func(*FallingParams)
	}{
		{"ZeroGravity", func(p *FallingParams) { p.G = 0 }},
		{"NegativeSpring", func(p *FallingParams) { p.K = -1 }},
		{"NegativeDamping", func(p *FallingParams) { p.Alpha = -0.5 }},
		{"ZeroEpsilon", func(p *FallingParams) { p.Epsilon = 0 }},
		{"NoCutOff", func(p *FallingParams) { p.TimeCutOff = 0 }},
		{"NegativeJitter", func(p *FallingParams) { p.Jitter = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultFallingParams()
			tt.mut(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParam)
		})
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
