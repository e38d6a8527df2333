package shared

// Delta is a (file, rank) step on the board.
type Delta struct {
	DF int
	DR int
}

// Line returns the squares strictly between from and to when both lie on
// one file, rank or diagonal; otherwise nil.
func Line(from, to Square) []Square {
	df, dr := to.File()-from.File(), to.Rank()-from.Rank()
	n := max(abs(df), abs(dr))
	if n < 2 || (df != 0 && dr != 0 && abs(df) != abs(dr)) {
		return nil
	}
	step := Delta{DF: sign(df), DR: sign(dr)}
	out := make([]Square, 0, n-1)
	sq := from
	for i := 1; i < n; i++ {
		sq, _ = sq.Offset(step)
		out = append(out, sq)
	}
	return out
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
