package view

import (
	"image/color"
	"sort"

	"cogentcore.org/core/math32"

	"fancy_chessboard/internal/camera"
	"fancy_chessboard/internal/game"
	"fancy_chessboard/internal/geometry"
)

// Quad is one projected board square.
type Quad struct {
	Corners [4]math32.Vector2
	Color   color.RGBA
	Depth   float32
}

// Sprite is one projected piece: a column from Base to Top.
type Sprite struct {
	ID        int
	Base, Top math32.Vector2
	// Radius is in pixels at the base.
	Radius float32
	Color  color.RGBA
	Depth  float32
}

// Frame is everything the window draws for one snapshot, far to near.
type Frame struct {
	Squares []Quad
	Pieces  []Sprite
	Light   camera.Projection
	Status  string
}

var (
	lightRGBA  = color.RGBA{0xc8, 0xb4, 0x8c, 0xff}
	darkRGBA   = color.RGBA{0x78, 0x5a, 0x3c, 0xff}
	whiteRGBA  = color.RGBA{0xfa, 0xfa, 0xfa, 0xff}
	blackRGBA  = color.RGBA{0x28, 0x28, 0x28, 0xff}
	movingRGBA = color.RGBA{0xd2, 0x3c, 0x28, 0xff}
	pathRGBA   = color.RGBA{0xa0, 0x8c, 0x50, 0xff}
)

// BuildFrame projects snap through cam onto a w×h screen. Anything behind
// the camera is left out. Squares a moving piece slides over are tinted.
func BuildFrame(snap game.Snapshot, cam *camera.Camera, catalog *geometry.Catalog, w, h int) Frame {
	f := Frame{Light: cam.Project(cam.Light(snap.Time), w, h), Status: Status(snap)}
	var path game.Bitboard
	for _, sq := range snap.Animation.Path {
		path = path.Add(sq)
	}

	for rank := 0; rank < game.BoardSize; rank++ {
		for file := 0; file < game.BoardSize; file++ {
			sq, _ := game.SquareAt(file, rank)
			c := game.CellCenter(sq)
			q := Quad{Color: lightRGBA}
			switch {
			case path.Has(sq):
				q.Color = pathRGBA
			case (file+rank)%2 == 0:
				q.Color = darkRGBA
			}
			corners := [4]math32.Vector3{
				math32.Vec3(c.X-0.5, c.Y-0.5, 0),
				math32.Vec3(c.X+0.5, c.Y-0.5, 0),
				math32.Vec3(c.X+0.5, c.Y+0.5, 0),
				math32.Vec3(c.X-0.5, c.Y+0.5, 0),
			}
			visible := true
			for i, p := range corners {
				pr := cam.Project(p, w, h)
				if pr.Depth <= 0 || pr.Scale == 0 {
					visible = false
					break
				}
				q.Corners[i] = math32.Vec2(pr.X, pr.Y)
				q.Depth += pr.Depth / 4
			}
			if visible {
				f.Squares = append(f.Squares, q)
			}
		}
	}

	for _, ps := range snap.Pieces {
		d := catalog.Get(ps.Type)
		size := d.Size()
		base := cam.Project(ps.Pos, w, h)
		top := cam.Project(ps.Pos.Add(math32.Vec3(0, 0, size.Z)), w, h)
		if base.Scale == 0 || top.Scale == 0 {
			continue
		}
		s := Sprite{
			ID:     ps.ID,
			Base:   math32.Vec2(base.X, base.Y),
			Top:    math32.Vec2(top.X, top.Y),
			Radius: max(size.X, size.Y) / 2 * base.Scale,
			Color:  whiteRGBA,
			Depth:  base.Depth,
		}
		if ps.Color == game.Black {
			s.Color = blackRGBA
		}
		if ps.Moving {
			s.Color = movingRGBA
		}
		f.Pieces = append(f.Pieces, s)
	}

	sort.SliceStable(f.Squares, func(i, j int) bool { return f.Squares[i].Depth > f.Squares[j].Depth })
	sort.SliceStable(f.Pieces, func(i, j int) bool { return f.Pieces[i].Depth > f.Pieces[j].Depth })
	return f
}
