package game

import (
	"fmt"

	"fancy_chessboard/internal/shared"
)

type (
	Color     = shared.Color
	PieceType = shared.PieceType
	Square    = shared.Square
	Delta     = shared.Delta
)

const (
	White = shared.White
	Black = shared.Black

	Tower  = shared.Tower
	Knight = shared.Knight
	Bishop = shared.Bishop
	Queen  = shared.Queen
	King   = shared.King
	Pawn   = shared.Pawn

	SquareInvalid = shared.SquareInvalid
	BoardSize     = shared.BoardSize
)

func SquareAt(file, rank int) (Square, bool) { return shared.SquareAt(file, rank) }

func CoordToSquare(coord string) (Square, bool) { return shared.CoordToSquare(coord) }

func InBounds(file, rank int) bool { return shared.InBounds(file, rank) }

func ParseColor(s string) (Color, bool) { return shared.ParseColor(s) }

func ParsePieceType(s string) (PieceType, bool) { return shared.ParsePieceType(s) }

// Piece is a read-only view of one roster entry.
type Piece struct {
	ID     int       `json:"id"`
	Type   PieceType `json:"type"`
	Color  Color     `json:"color"`
	Square Square    `json:"square"`
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s@%s", p.Color, p.Type, p.Square)
}

// Move is a chosen piece and destination for one turn.
type Move struct {
	PieceID int       `json:"pieceId"`
	Type    PieceType `json:"type"`
	Color   Color     `json:"color"`
	From    Square    `json:"from"`
	To      Square    `json:"to"`
}

func (m Move) String() string {
	return fmt.Sprintf("%s %c%s-%s", m.Color, m.Type.Letter(), m.From, m.To)
}
