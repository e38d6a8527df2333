package game

import "cogentcore.org/core/math32"

// PieceState is the renderer's view of one piece.
type PieceState struct {
	ID     int       `json:"id"`
	Type   PieceType `json:"type"`
	Color  Color     `json:"color"`
	Square Square    `json:"square"`
	// Pos is the board-plane position including any falling offset.
	Pos     math32.Vector3 `json:"pos"`
	Heading float32        `json:"heading"`
	Moving  bool           `json:"moving"`
	// FallOffset is the height above rest while falling runs.
	FallOffset float32 `json:"fallOffset"`
}

// AnimationState summarizes the turn scheduler.
type AnimationState struct {
	State    AnimState `json:"state"`
	PieceID  int       `json:"pieceId"`
	From     Square    `json:"from"`
	To       Square    `json:"to"`
	Curve    Curve     `json:"curve"`
	Arc      float32   `json:"arc"`
	Progress float32   `json:"progress"`
	// Path holds the squares a sliding move passes over, from side first.
	Path []Square `json:"path,omitempty"`
}

// FallingState summarizes the falling integrator.
type FallingState struct {
	Running bool    `json:"running"`
	Settled bool    `json:"settled"`
	Elapsed float64 `json:"elapsed"`
}

// Snapshot is a self-contained copy of a Scene, safe to hand to another
// goroutine.
type Snapshot struct {
	Time      float64        `json:"time"`
	Outcome   Outcome        `json:"outcome"`
	Stalled   bool           `json:"stalled"`
	ToMove    Color          `json:"toMove"`
	Pieces    []PieceState   `json:"pieces"`
	Animation AnimationState `json:"animation"`
	Falling   FallingState   `json:"falling"`
	Params    Params         `json:"params"`
	LastMove  *MoveRecord    `json:"lastMove,omitempty"`
	Moves     uint64         `json:"moves"`
}

// Piece returns the state of piece id and whether it exists.
func (s *Snapshot) Piece(id int) (PieceState, bool) {
	if id < 0 || id >= len(s.Pieces) {
		return PieceState{}, false
	}
	return s.Pieces[id], true
}

// At returns the piece standing on sq, ignoring an in-flight piece's
// interpolated position.
func (s *Snapshot) At(sq Square) (PieceState, bool) {
	for _, p := range s.Pieces {
		if p.Square == sq {
			return p, true
		}
	}
	return PieceState{}, false
}
