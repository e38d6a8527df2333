// Package window shows a running scene in a desktop window.
package window

import (
	"errors"
	"image"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"fancy_chessboard/internal/camera"
	"fancy_chessboard/internal/game"
	"fancy_chessboard/internal/geometry"
	"fancy_chessboard/internal/sim"
	"fancy_chessboard/internal/view"
)

// TPS matches the simulation's default 20ms tick.
const TPS = 50

var (
	background = color.RGBA{0x1e, 0x1e, 0x28, 0xff}
	lightColor = color.RGBA{0xff, 0xf0, 0xb4, 0xff}

	modeKeys = [...]ebiten.Key{
		ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2,
		ebiten.KeyDigit3, ebiten.KeyDigit4, ebiten.KeyDigit5,
		ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8,
	}
)

// Window is an ebiten.Game that steps the runner once per frame on the
// game loop goroutine.
type Window struct {
	runner  *sim.Runner
	cam     *camera.Camera
	catalog *geometry.Catalog
	title   string

	width, height int
	dragging      bool
	lastX, lastY  int

	pixel *ebiten.Image
	err   error
}

func New(runner *sim.Runner, catalog *geometry.Catalog, width, height int) *Window {
	pixel := ebiten.NewImage(3, 3)
	pixel.Fill(color.White)
	return &Window{
		runner:  runner,
		cam:     camera.New(),
		catalog: catalog,
		title:   "Fancy Chessboard",
		width:   width,
		height:  height,
		pixel:   pixel.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// Run opens the window and blocks until it is closed or the scene ends
// in stalemate, which is returned as a *game.StalemateError.
func (w *Window) Run() error {
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(TPS)

	w.runner.Start()
	if err := ebiten.RunGame(w); err != nil {
		return err
	}
	return w.err
}

func (w *Window) Update() error {
	w.handleInput()

	if _, err := w.runner.Step(w.runner.Now()); err != nil {
		var stale *game.StalemateError
		if errors.As(err, &stale) {
			slog.Info("scene ended", "err", err)
		}
		w.err = err
		return ebiten.Termination
	}
	return nil
}

func (w *Window) handleInput() {
	x, y := ebiten.CursorPosition()
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if (left || right) && w.dragging {
		dx, dy := float32(x-w.lastX), float32(y-w.lastY)
		if left {
			w.cam.ApplyDelta(dx, dy)
		} else {
			w.cam.ApplyMove(-dx, dy)
		}
	}
	w.dragging = left || right
	w.lastX, w.lastY = x, y

	if _, dy := ebiten.Wheel(); dy != 0 {
		w.cam.ApplyZoom(float32(dy))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		now := w.runner.Now()
		_ = w.runner.Apply(func(s *game.Scene) error {
			s.RestartFalling(now)
			return nil
		})
	}
	for i, key := range modeKeys {
		if inpututil.IsKeyJustPressed(key) {
			mode := game.Mode(i)
			if err := w.runner.Apply(func(s *game.Scene) error { return s.SetMode(mode) }); err != nil {
				slog.Warn("set mode", "err", err)
			}
		}
	}
}

func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	f := view.BuildFrame(w.runner.Snapshot(), w.cam, w.catalog, w.width, w.height)

	for _, q := range f.Squares {
		w.drawQuad(screen, q)
	}
	if f.Light.Visible {
		vector.DrawFilledCircle(screen, f.Light.X, f.Light.Y, 6, lightColor, true)
	}
	for _, s := range f.Pieces {
		vector.StrokeLine(screen, s.Base.X, s.Base.Y, s.Top.X, s.Top.Y, 2*s.Radius, s.Color, true)
		vector.DrawFilledCircle(screen, s.Base.X, s.Base.Y, s.Radius, s.Color, true)
		vector.DrawFilledCircle(screen, s.Top.X, s.Top.Y, s.Radius, s.Color, true)
	}
	ebitenutil.DebugPrint(screen, f.Status+"\ndrag: orbit  right-drag: pan  wheel: zoom  R: drop  0-8: curve")
}

func (w *Window) drawQuad(screen *ebiten.Image, q view.Quad) {
	r, g, b, a := float32(q.Color.R)/0xff, float32(q.Color.G)/0xff, float32(q.Color.B)/0xff, float32(q.Color.A)/0xff
	var vs [4]ebiten.Vertex
	for i, c := range q.Corners {
		vs[i] = ebiten.Vertex{
			DstX: c.X, DstY: c.Y,
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		}
	}
	screen.DrawTriangles(vs[:], []uint16{0, 1, 2, 0, 2, 3}, w.pixel, nil)
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	w.width, w.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
