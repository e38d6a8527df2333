package game

import (
	"fmt"

	"fancy_chessboard/internal/shared"
)

// MaxPieces is the roster capacity of a board.
const MaxPieces = 32

// Board owns the piece roster as parallel arrays indexed by piece id, with
// per-color occupancy masks kept in sync on every mutation.
type Board struct {
	n         int
	squares   [MaxPieces]Square
	types     [MaxPieces]PieceType
	colors    [MaxPieces]Color
	occupancy [shared.NumColors]Bitboard
}

// NewEmptyBoard returns a board with no pieces.
func NewEmptyBoard() *Board {
	return &Board{}
}

// NewBoard returns the standard opening setup: color 0 on ranks 1-2,
// color 1 on ranks 7-8 (ranks 0-1 and 6-7 zero-based).
func NewBoard() *Board {
	b := NewEmptyBoard()
	back := [8]PieceType{Tower, Knight, Bishop, Queen, King, Bishop, Knight, Tower}
	add := func(color Color, typ PieceType, file, rank int) {
		sq, _ := SquareAt(file, rank)
		if _, err := b.Place(color, typ, sq); err != nil {
			panic(err) // setup squares are distinct and on the board
		}
	}
	for file := 0; file < shared.BoardSize; file++ {
		add(White, back[file], file, 0)
		add(White, Pawn, file, 1)
		add(Black, Pawn, file, 6)
		add(Black, back[file], file, 7)
	}
	return b
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	out := *b
	return &out
}

// Place adds a piece and returns its id.
func (b *Board) Place(color Color, typ PieceType, sq Square) (int, error) {
	if !sq.Valid() {
		return -1, fmt.Errorf("%w: %d", ErrOutOfBounds, sq)
	}
	if !color.Valid() || !typ.Valid() {
		return -1, fmt.Errorf("%w: color %d type %d", ErrInvalidPiece, color, typ)
	}
	if b.IsOccupied(sq) {
		return -1, fmt.Errorf("%w: %s", ErrOccupied, sq)
	}
	if b.n == MaxPieces {
		return -1, ErrBoardFull
	}
	id := b.n
	b.squares[id] = sq
	b.types[id] = typ
	b.colors[id] = color
	b.occupancy[color.Index()] = b.occupancy[color.Index()].Add(sq)
	b.n++
	return id, nil
}

// Len is the number of pieces on the board.
func (b *Board) Len() int { return b.n }

// Piece returns the piece with the given id.
func (b *Board) Piece(id int) Piece {
	return Piece{ID: id, Type: b.types[id], Color: b.colors[id], Square: b.squares[id]}
}

// Pieces returns every piece in id order.
func (b *Board) Pieces() []Piece {
	out := make([]Piece, b.n)
	for i := range out {
		out[i] = b.Piece(i)
	}
	return out
}

// PiecesOf returns the ids of the pieces with the given color and type.
func (b *Board) PiecesOf(color Color, typ PieceType) []int {
	var out []int
	for i := 0; i < b.n; i++ {
		if b.colors[i] == color && b.types[i] == typ {
			out = append(out, i)
		}
	}
	return out
}

// PieceAt returns the id of the piece on sq, or -1.
func (b *Board) PieceAt(sq Square) int {
	if !b.IsOccupied(sq) {
		return -1
	}
	for i := 0; i < b.n; i++ {
		if b.squares[i] == sq {
			return i
		}
	}
	return -1
}

// IsOccupied reports whether any piece stands on sq.
func (b *Board) IsOccupied(sq Square) bool {
	if !sq.Valid() {
		return false
	}
	return b.Occupancy().Has(sq)
}

// Occupancy is the set of all occupied squares.
func (b *Board) Occupancy() Bitboard {
	return b.occupancy[0] | b.occupancy[1]
}

// OccupancyOf is the set of squares occupied by color.
func (b *Board) OccupancyOf(color Color) Bitboard {
	return b.occupancy[color.Index()]
}

// commit moves piece id to an empty square. It is the only position
// mutation and runs at move completion or during replay.
func (b *Board) commit(id int, to Square) error {
	if id < 0 || id >= b.n {
		return fmt.Errorf("%w: piece %d", ErrInvalidPiece, id)
	}
	if !to.Valid() {
		return fmt.Errorf("%w: %d", ErrOutOfBounds, to)
	}
	if b.IsOccupied(to) {
		return fmt.Errorf("%w: %s", ErrOccupied, to)
	}
	from := b.squares[id]
	ci := b.colors[id].Index()
	b.occupancy[ci] = b.occupancy[ci].Remove(from).Add(to)
	b.squares[id] = to
	return nil
}
