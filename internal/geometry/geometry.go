// Package geometry describes the static shape of each piece type: the
// bounding box the animation core reads heights and volumes from.
package geometry

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"

	"fancy_chessboard/internal/shared"
)

var (
	ErrMissingPiece    = errors.New("missing piece geometry")
	ErrDegenerateShape = errors.New("degenerate piece geometry")
)

// Descriptor is the geometry of one piece type, in board cell units with
// the piece base at z = 0.
type Descriptor struct {
	Type   shared.PieceType
	Bounds math32.Box3
}

func (d Descriptor) Size() math32.Vector3 { return d.Bounds.Size() }

// Height is the bounding-box height; it is also the piece's rest height.
func (d Descriptor) Height() float32 { return d.Bounds.Size().Z }

// Volume is size.x * size.y * size.z.
func (d Descriptor) Volume() float32 {
	s := d.Bounds.Size()
	return s.X * s.Y * s.Z
}

// Catalog holds one descriptor per piece type.
type Catalog struct {
	byType [shared.NumPieceTypes]Descriptor
	set    [shared.NumPieceTypes]bool
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog { return &Catalog{} }

// Set stores the bounds of a piece type.
func (c *Catalog) Set(pt shared.PieceType, bounds math32.Box3) {
	c.byType[pt] = Descriptor{Type: pt, Bounds: bounds}
	c.set[pt] = true
}

// Get returns the descriptor of a piece type.
func (c *Catalog) Get(pt shared.PieceType) Descriptor {
	return c.byType[pt]
}

// Validate checks every piece type is present with a non-degenerate box.
func (c *Catalog) Validate() error {
	for _, pt := range shared.AllPieceTypes {
		if !c.set[pt] {
			return fmt.Errorf("%w: %s", ErrMissingPiece, pt)
		}
		d := c.byType[pt]
		if d.Height() <= 0 || d.Volume() <= 0 {
			return fmt.Errorf("%w: %s has size %v", ErrDegenerateShape, pt, d.Size())
		}
	}
	return nil
}

// footprint returns a box centred on the cell with the given width and height.
func footprint(width, height float32) math32.Box3 {
	h := width / 2
	return math32.B3(-h, -h, 0, h, h, height)
}

// Default returns the built-in piece proportions used when no mesh asset
// is supplied.
func Default() *Catalog {
	c := NewCatalog()
	c.Set(shared.Tower, footprint(0.6, 1.0))
	c.Set(shared.Knight, footprint(0.6, 1.1))
	c.Set(shared.Bishop, footprint(0.6, 1.2))
	c.Set(shared.Queen, footprint(0.65, 1.4))
	c.Set(shared.King, footprint(0.65, 1.5))
	c.Set(shared.Pawn, footprint(0.5, 0.8))
	return c
}
