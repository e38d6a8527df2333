package view

import (
	"bytes"
	"strings"
	"testing"

	"cogentcore.org/lab/base/randx"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fancy_chessboard/internal/camera"
	"fancy_chessboard/internal/game"
	"fancy_chessboard/internal/geometry"
)

func openingScene(t *testing.T) *game.Scene {
	t.Helper()
	p := game.DefaultParams()
	p.FallOnStart = false
	p.MovementWaiting = 0
	s, err := game.NewScene(p, nil, randx.NewSysRand(11))
	require.NoError(t, err)
	s.Start(0)
	return s
}

func TestTextRendersOpening(t *testing.T) {
	out := NewText(&bytes.Buffer{}, termenv.Ascii).Render(openingScene(t).Snapshot())
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 10)
	assert.Equal(t, "8  r  n  b  q  k  b  n  r ", lines[0])
	assert.Equal(t, "7  p  p  p  p  p  p  p  p ", lines[1])
	assert.Equal(t, "4                         ", lines[4])
	assert.Equal(t, "1  R  N  B  Q  K  B  N  R ", lines[7])
	assert.Equal(t, "   a  b  c  d  e  f  g  h", lines[8])
	assert.Equal(t, "t=0.00s idle moves=0 next=white", lines[9])
}

func TestTextMarksMovingPiece(t *testing.T) {
	s := openingScene(t)
	tick := s.Update(0.5)
	require.Equal(t, game.OutcomeStarted, tick.Outcome)

	var buf bytes.Buffer
	require.NoError(t, NewText(&buf, termenv.Ascii).Print(s.Snapshot()))
	out := buf.String()
	assert.Contains(t, out, "["+string(tick.Move.Type.Letter())+"]")
	assert.Contains(t, out, tick.Move.From.String()+"-"+tick.Move.To.String())
}

func TestStatus(t *testing.T) {
	snap := game.Snapshot{Time: 3.25, Outcome: game.OutcomeStalemate, Stalled: true, ToMove: game.Black, Moves: 12}
	assert.Equal(t, "t=3.25s stalemate moves=12 stalemate=black", Status(snap))

	snap = game.Snapshot{Outcome: game.OutcomeFalling, ToMove: game.White}
	snap.Falling.Running = true
	assert.Equal(t, "t=0.00s falling moves=0 next=white falling", Status(snap))
}

func TestBuildFrame(t *testing.T) {
	snap := openingScene(t).Snapshot()
	f := BuildFrame(snap, camera.New(), geometry.Default(), 800, 600)

	assert.Len(t, f.Squares, 64)
	assert.Len(t, f.Pieces, 32)
	for i := 1; i < len(f.Pieces); i++ {
		assert.GreaterOrEqual(t, f.Pieces[i-1].Depth, f.Pieces[i].Depth)
	}
	for i := 1; i < len(f.Squares); i++ {
		assert.GreaterOrEqual(t, f.Squares[i-1].Depth, f.Squares[i].Depth)
	}
	for _, s := range f.Pieces {
		assert.Less(t, s.Top.Y, s.Base.Y, "piece %d stands upright", s.ID)
		assert.Greater(t, s.Radius, float32(0))
	}
	// The default camera sits behind rank 1, so white is drawn last.
	last := snap.Pieces[f.Pieces[len(f.Pieces)-1].ID]
	assert.Equal(t, game.White, last.Color)
	assert.Equal(t, Status(snap), f.Status)
}

func TestBuildFrameSkipsBehindCamera(t *testing.T) {
	cam := camera.New()
	cam.Length = 1
	cam.AngleFromUp = 1.5
	snap := openingScene(t).Snapshot()
	f := BuildFrame(snap, cam, geometry.Default(), 800, 600)
	assert.Less(t, len(f.Pieces), 32)
	assert.Less(t, len(f.Squares), 64)
}

func TestBuildFrameTintsPath(t *testing.T) {
	snap := openingScene(t).Snapshot()
	for _, c := range []string{"d4", "d5"} {
		sq, ok := game.CoordToSquare(c)
		require.True(t, ok)
		snap.Animation.Path = append(snap.Animation.Path, sq)
	}
	f := BuildFrame(snap, camera.New(), geometry.Default(), 800, 600)
	tinted := 0
	for _, q := range f.Squares {
		if q.Color == pathRGBA {
			tinted++
		}
	}
	assert.Equal(t, 2, tinted)

	snap.Animation.Path = nil
	f = BuildFrame(snap, camera.New(), geometry.Default(), 800, 600)
	for _, q := range f.Squares {
		assert.NotEqual(t, pathRGBA, q.Color)
	}
}
