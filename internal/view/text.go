// Package view turns scene snapshots into something to look at: a
// coloured text board for terminals and a projected frame for the
// desktop window.
package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"fancy_chessboard/internal/game"
)

const (
	lightSquare = "#c8b48c"
	darkSquare  = "#785a3c"
	whitePiece  = "#fafafa"
	blackPiece  = "#141414"
	movingPiece = "#d23c28"
)

// Text renders snapshots as an 8×8 board, rank 8 at the top.
type Text struct {
	out *termenv.Output
}

// NewText writes to w. Pass termenv.Ascii as the profile for plain text;
// with no profile the terminal is queried.
func NewText(w io.Writer, profile ...termenv.Profile) *Text {
	var opts []termenv.OutputOption
	if len(profile) > 0 {
		opts = append(opts, termenv.WithProfile(profile[0]))
	}
	return &Text{out: termenv.NewOutput(w, opts...)}
}

// Render returns the board followed by a status line.
func (t *Text) Render(snap game.Snapshot) string {
	var grid [game.BoardSize][game.BoardSize]*game.PieceState
	for i := range snap.Pieces {
		ps := &snap.Pieces[i]
		if ps.Square.Valid() {
			grid[ps.Square.Rank()][ps.Square.File()] = ps
		}
	}

	var b strings.Builder
	for rank := game.BoardSize - 1; rank >= 0; rank-- {
		fmt.Fprintf(&b, "%d ", rank+1)
		for file := 0; file < game.BoardSize; file++ {
			bg := lightSquare
			if (file+rank)%2 == 0 {
				bg = darkSquare
			}
			b.WriteString(t.cell(grid[rank][file], bg))
		}
		b.WriteByte('\n')
	}
	b.WriteString("   a  b  c  d  e  f  g  h\n")
	b.WriteString(Status(snap))
	b.WriteByte('\n')
	return b.String()
}

func (t *Text) cell(ps *game.PieceState, bg string) string {
	if ps == nil {
		return t.out.String("   ").Background(t.out.Color(bg)).String()
	}
	letter := ps.Type.Letter()
	fg := whitePiece
	if ps.Color == game.Black {
		letter += 'a' - 'A'
		fg = blackPiece
	}
	left, right := " ", " "
	if ps.Moving {
		left, right = "[", "]"
		fg = movingPiece
	}
	s := t.out.String(left + string(letter) + right).
		Foreground(t.out.Color(fg)).
		Background(t.out.Color(bg))
	if ps.FallOffset > 0.05 {
		s = s.Faint()
	}
	return s.Bold().String()
}

// Print writes Render(snap) to the output.
func (t *Text) Print(snap game.Snapshot) error {
	_, err := io.WriteString(t.out, t.Render(snap))
	return err
}

// Status is a one-line summary of snap.
func Status(snap game.Snapshot) string {
	s := fmt.Sprintf("t=%.2fs %s moves=%d", snap.Time, snap.Outcome, snap.Moves)
	switch {
	case snap.Stalled:
		s += fmt.Sprintf(" stalemate=%s", snap.ToMove)
	case snap.Animation.State == game.AnimRun:
		s += fmt.Sprintf(" %s-%s %s %.0f%%", snap.Animation.From, snap.Animation.To, snap.Animation.Curve, snap.Animation.Progress*100)
	default:
		s += fmt.Sprintf(" next=%s", snap.ToMove)
	}
	if snap.Falling.Running {
		s += " falling"
	}
	if snap.LastMove != nil {
		s += " last=" + snap.LastMove.String()
	}
	return s
}
