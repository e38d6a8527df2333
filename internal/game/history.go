package game

import "fmt"

// MoveRecord is one committed move with its timing.
type MoveRecord struct {
	Seq     uint64  `json:"seq"`
	Move    Move    `json:"move"`
	Started float64 `json:"started"`
	Ended   float64 `json:"ended"`
	Curve   Curve   `json:"curve"`
	Arc     float32 `json:"arc"`
}

func (r MoveRecord) String() string {
	return fmt.Sprintf("#%d %s (%s, %.2fs-%.2fs)", r.Seq, r.Move, r.Curve, r.Started, r.Ended)
}

// history is a bounded ring of the most recent records.
type history struct {
	limit   int
	records []MoveRecord
	next    uint64
}

func newHistory(limit int) *history {
	return &history{limit: limit, next: 1}
}

func (h *history) add(r MoveRecord) MoveRecord {
	r.Seq = h.next
	h.next++
	if h.limit <= 0 {
		return r
	}
	if len(h.records) == h.limit {
		copy(h.records, h.records[1:])
		h.records = h.records[:len(h.records)-1]
	}
	h.records = append(h.records, r)
	return r
}

func (h *history) setLimit(limit int) {
	h.limit = limit
	if limit <= 0 {
		h.records = nil
		return
	}
	if over := len(h.records) - limit; over > 0 {
		h.records = append(h.records[:0], h.records[over:]...)
	}
}

func (h *history) list() []MoveRecord {
	return append([]MoveRecord(nil), h.records...)
}

func (h *history) clear() {
	h.records = h.records[:0]
	h.next = 1
}

// ReplayMoves applies records to b in order. Each move must be legal on
// the board as it stands; the first one that is not stops the replay with
// ErrIllegalReplay and leaves b at the position before it.
func ReplayMoves(b *Board, records []MoveRecord) error {
	for _, r := range records {
		m := r.Move
		if m.PieceID < 0 || m.PieceID >= b.Len() {
			return fmt.Errorf("%w: #%d unknown piece %d", ErrIllegalReplay, r.Seq, m.PieceID)
		}
		pc := b.Piece(m.PieceID)
		if pc.Square != m.From || pc.Type != m.Type || pc.Color != m.Color {
			return fmt.Errorf("%w: #%d expected %s, board has %s", ErrIllegalReplay, r.Seq, m, pc)
		}
		if !IsLegal(b, m.PieceID, m.To) {
			return fmt.Errorf("%w: #%d %s", ErrIllegalReplay, r.Seq, m)
		}
		if err := b.commit(m.PieceID, m.To); err != nil {
			return fmt.Errorf("%w: #%d: %v", ErrIllegalReplay, r.Seq, err)
		}
	}
	return nil
}
