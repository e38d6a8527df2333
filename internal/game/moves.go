package game

import "fancy_chessboard/internal/shared"

// Moves here are movement into empty squares only: no captures, no check,
// no castling. They exist to give the animation a plausible destination.

var (
	towerDirections = [...]Delta{
		{DF: 0, DR: 1},
		{DF: 0, DR: -1},
		{DF: 1, DR: 0},
		{DF: -1, DR: 0},
	}
	bishopDirections = [...]Delta{
		{DF: 1, DR: 1},
		{DF: 1, DR: -1},
		{DF: -1, DR: 1},
		{DF: -1, DR: -1},
	}
	knightOffsets = [...]Delta{
		{DF: 1, DR: 2},
		{DF: 2, DR: 1},
		{DF: 2, DR: -1},
		{DF: 1, DR: -2},
		{DF: -1, DR: -2},
		{DF: -2, DR: -1},
		{DF: -2, DR: 1},
		{DF: -1, DR: 2},
	}
	royalDirections = [...]Delta{
		{DF: 0, DR: 1}, {DF: 1, DR: 1}, {DF: 1, DR: 0}, {DF: 1, DR: -1},
		{DF: 0, DR: -1}, {DF: -1, DR: -1}, {DF: -1, DR: 0}, {DF: -1, DR: 1},
	}
)

// slideRange caps sliding pieces at the board size.
const slideRange = shared.BoardSize

type moveRule struct {
	dirs []Delta
	rng  int
}

var moveRules = [shared.NumPieceTypes]moveRule{
	Tower:  {dirs: towerDirections[:], rng: slideRange},
	Knight: {dirs: knightOffsets[:], rng: 1},
	Bishop: {dirs: bishopDirections[:], rng: slideRange},
	Queen:  {dirs: royalDirections[:], rng: slideRange},
	King:   {dirs: royalDirections[:], rng: 1},
}

// PawnStartRank is the rank a pawn of the given color starts on.
func PawnStartRank(c Color) int {
	if c == White {
		return 1
	}
	return shared.BoardSize - 2
}

// PawnForward is the rank step of a pawn of the given color.
func PawnForward(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

func ruleFor(pc Piece) moveRule {
	if pc.Type != Pawn {
		return moveRules[pc.Type]
	}
	rng := 1
	if pc.Square.Rank() == PawnStartRank(pc.Color) {
		rng = 2
	}
	return moveRule{dirs: []Delta{{DF: 0, DR: PawnForward(pc.Color)}}, rng: rng}
}

// LegalMoves returns the empty squares piece id can move to.
func LegalMoves(b *Board, id int) Bitboard {
	pc := b.Piece(id)
	rule := ruleFor(pc)
	occ := b.Occupancy()

	var moves Bitboard
	for _, d := range rule.dirs {
		sq := pc.Square
		for step := 0; step < rule.rng; step++ {
			next, ok := sq.Offset(d)
			if !ok || occ.Has(next) {
				break
			}
			moves = moves.Add(next)
			sq = next
		}
	}
	return moves
}

// Destinations lists LegalMoves in ascending square order.
func Destinations(b *Board, id int) []Square {
	return LegalMoves(b, id).Squares()
}

// IsLegal reports whether id may move to sq.
func IsLegal(b *Board, id int, sq Square) bool {
	return sq.Valid() && LegalMoves(b, id).Has(sq)
}
