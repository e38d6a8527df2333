package game

import (
	"fmt"

	"cogentcore.org/lab/base/randx"

	"fancy_chessboard/internal/shared"
)

// TypeWeights is the relative chance of each piece type being tried first
// when a turn is chosen, indexed by PieceType.
type TypeWeights [shared.NumPieceTypes]float64

// DefaultTypeWeights favors knights and pawns.
func DefaultTypeWeights() TypeWeights {
	var w TypeWeights
	w[Tower] = 1
	w[Knight] = 6
	w[Bishop] = 1
	w[Queen] = 1
	w[King] = 1
	w[Pawn] = 3
	return w
}

// Validate rejects negative weights and an all-zero table.
func (w TypeWeights) Validate() error {
	total := 0.0
	for pt, v := range w {
		if v < 0 {
			return fmt.Errorf("%w: weight of %s is %v", ErrInvalidParam, PieceType(pt), v)
		}
		total += v
	}
	if total <= 0 {
		return fmt.Errorf("%w: all type weights are zero", ErrInvalidParam)
	}
	return nil
}

// typeBag draws piece types without replacement, each draw weighted by
// the remaining types' weights.
type typeBag struct {
	weights TypeWeights
	left    [shared.NumPieceTypes]bool
	n       int
	probs   []float64
	types   []PieceType
}

func newTypeBag(w TypeWeights) *typeBag {
	bag := &typeBag{weights: w}
	for pt, v := range w {
		if v > 0 {
			bag.left[pt] = true
			bag.n++
		}
	}
	return bag
}

func (bag *typeBag) draw(rnd randx.Rand) (PieceType, bool) {
	if bag.n == 0 {
		return 0, false
	}
	bag.probs = bag.probs[:0]
	bag.types = bag.types[:0]
	total := 0.0
	for pt, ok := range bag.left {
		if ok {
			total += bag.weights[pt]
		}
	}
	for pt, ok := range bag.left {
		if ok {
			bag.probs = append(bag.probs, bag.weights[pt]/total)
			bag.types = append(bag.types, PieceType(pt))
		}
	}
	pt := bag.types[randx.PChoose64(bag.probs, rnd)]
	bag.left[pt] = false
	bag.n--
	return pt, true
}

// ChooseMove picks this turn's move for color: piece types are tried in
// weighted random order until one has a piece with a legal destination,
// then a piece and a destination are picked uniformly. It reports false
// when no type of that color can move.
func ChooseMove(b *Board, color Color, weights TypeWeights, rnd randx.Rand) (Move, bool) {
	bag := newTypeBag(weights)
	for {
		pt, ok := bag.draw(rnd)
		if !ok {
			return Move{}, false
		}
		var movable []int
		var dests []Bitboard
		for _, id := range b.PiecesOf(color, pt) {
			if moves := LegalMoves(b, id); !moves.Empty() {
				movable = append(movable, id)
				dests = append(dests, moves)
			}
		}
		if len(movable) == 0 {
			continue
		}
		k := rnd.Intn(len(movable))
		to, _ := dests[k].Nth(rnd.Intn(dests[k].Count()))
		pc := b.Piece(movable[k])
		return Move{PieceID: pc.ID, Type: pc.Type, Color: pc.Color, From: pc.Square, To: to}, true
	}
}

// HasAnyMove reports whether color can move any piece.
func HasAnyMove(b *Board, color Color) bool {
	for i := 0; i < b.Len(); i++ {
		if b.colors[i] == color && !LegalMoves(b, i).Empty() {
			return true
		}
	}
	return false
}
