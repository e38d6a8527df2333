package game

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds   = errors.New("square out of bounds")
	ErrOccupied      = errors.New("square occupied")
	ErrBoardFull     = errors.New("board full")
	ErrInvalidPiece  = errors.New("invalid piece")
	ErrInvalidParam  = errors.New("invalid parameter")
	ErrInvalidMode   = errors.New("invalid animation mode")
	ErrIllegalReplay = errors.New("illegal move in replay")
)

// StalemateError reports that a color has no legal move for any piece
// type. The scene stays in this terminal state until it is reset.
type StalemateError struct {
	Color Color
}

func (e *StalemateError) Error() string {
	return fmt.Sprintf("stalemate: %s has no legal move", e.Color)
}
