package shared

import (
	"fmt"
	"strings"
)

type Color uint8

const (
	White Color = iota
	Black
)

// NumColors is the number of piece colors on the board.
const NumColors = 2

func (c Color) Index() int { return int(c) }

func (c Color) Valid() bool { return c < NumColors }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "white", "w":
		return White, true
	case "1", "black", "b":
		return Black, true
	default:
		return White, false
	}
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(text []byte) error {
	parsed, ok := ParseColor(string(text))
	if !ok {
		return fmt.Errorf("invalid color %q", string(text))
	}
	*c = parsed
	return nil
}

type PieceType uint8

const (
	Tower PieceType = iota
	Knight
	Bishop
	Queen
	King
	Pawn
)

// NumPieceTypes is the number of distinct piece types.
const NumPieceTypes = 6

var AllPieceTypes = [NumPieceTypes]PieceType{Tower, Knight, Bishop, Queen, King, Pawn}

func (p PieceType) Valid() bool { return p < NumPieceTypes }

func (p PieceType) String() string {
	switch p {
	case Tower:
		return "tower"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Queen:
		return "queen"
	case King:
		return "king"
	case Pawn:
		return "pawn"
	default:
		return fmt.Sprintf("piece(%d)", p)
	}
}

// Letter returns the upper-case algebraic letter of the piece type.
func (p PieceType) Letter() byte {
	switch p {
	case Tower:
		return 'R'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	case Pawn:
		return 'P'
	default:
		return '?'
	}
}

func ParsePieceType(s string) (PieceType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tower", "rook", "r":
		return Tower, true
	case "knight", "n":
		return Knight, true
	case "bishop", "b":
		return Bishop, true
	case "queen", "q":
		return Queen, true
	case "king", "k":
		return King, true
	case "pawn", "p":
		return Pawn, true
	default:
		return Tower, false
	}
}

func (p PieceType) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *PieceType) UnmarshalText(text []byte) error {
	parsed, ok := ParsePieceType(string(text))
	if !ok {
		return fmt.Errorf("invalid piece type %q", string(text))
	}
	*p = parsed
	return nil
}

// ---------------------------
// Squares
// ---------------------------

// BoardSize is the number of files (and ranks) on the board.
const BoardSize = 8

// Square is a board cell encoded as rank*8+file.
type Square uint8

// SquareInvalid marks the absence of a square.
const SquareInvalid Square = 255

func (s Square) Rank() int { return int(s) >> 3 }
func (s Square) File() int { return int(s) & 7 }

func (s Square) Valid() bool { return s < BoardSize*BoardSize }

// InBounds reports whether (file, rank) lies on the 8x8 board.
func InBounds(file, rank int) bool {
	return file >= 0 && file < BoardSize && rank >= 0 && rank < BoardSize
}

// SquareAt returns the square at (file, rank), or false when off the board.
func SquareAt(file, rank int) (Square, bool) {
	if !InBounds(file, rank) {
		return SquareInvalid, false
	}
	return Square(rank*BoardSize + file), true
}

// Offset returns the square reached by stepping d from s.
func (s Square) Offset(d Delta) (Square, bool) {
	return SquareAt(s.File()+d.DF, s.Rank()+d.DR)
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	file := byte('a' + s.File())
	rank := byte('1' + s.Rank())
	return string([]byte{file, rank})
}

func CoordToSquare(coord string) (Square, bool) {
	if len(coord) != 2 {
		return SquareInvalid, false
	}
	file := coord[0]
	rank := coord[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return SquareInvalid, false
	}
	return SquareAt(int(file-'a'), int(rank-'1'))
}

func (s Square) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Square) UnmarshalText(text []byte) error {
	if string(text) == "-" {
		*s = SquareInvalid
		return nil
	}
	sq, ok := CoordToSquare(strings.ToLower(strings.TrimSpace(string(text))))
	if !ok {
		return fmt.Errorf("invalid square %q", string(text))
	}
	*s = sq
	return nil
}
