// Package game implements the animated chessboard scene: the board model,
// the movement rules, the turn scheduler and the falling simulation.
package game

import (
	"fmt"

	"cogentcore.org/lab/base/randx"

	"fancy_chessboard/internal/geometry"
	"fancy_chessboard/internal/shared"
)

// Scene is the whole simulation context. It is not safe for concurrent
// use; a single caller drives Update and the setters between ticks.
type Scene struct {
	params  Params
	catalog *geometry.Catalog
	rnd     randx.Rand

	board   *Board
	anim    *Animation
	falling *Falling
	hist    *history

	now       float64
	lastEnd   float64
	turn      int
	outcome   Outcome
	stuck     Color
	current   MoveRecord
	last      *MoveRecord
	committed uint64
}

// NewScene builds a scene on the standard opening position. A nil catalog
// uses the built-in piece geometry and a nil rnd a time-seeded source.
func NewScene(p Params, catalog *geometry.Catalog, rnd randx.Rand) (*Scene, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if catalog == nil {
		catalog = geometry.Default()
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = randx.NewGlobalRand()
	}
	p.Colors = append([]Color(nil), p.Colors...)
	s := &Scene{
		params:  p,
		catalog: catalog,
		rnd:     rnd,
		board:   NewBoard(),
		anim:    NewAnimation(),
		falling: NewFalling(p.Falling),
		hist:    newHistory(p.HistoryLimit),
	}
	return s, nil
}

// Start arms the idle timer at now and, when FallOnStart is set, drops
// every piece onto the board.
func (s *Scene) Start(now float64) {
	s.now = now
	s.lastEnd = now
	if s.params.FallOnStart {
		s.RestartFalling(now)
	}
}

// RestartFalling drops every piece again from above its rest height.
// A move already in flight keeps running.
func (s *Scene) RestartFalling(now float64) {
	s.falling.Params = s.params.Falling
	s.falling.Start(now, s.descriptors(), s.rnd)
}

// Reset puts the pieces back on their opening squares, clears history
// and stalemate, and starts again at now.
func (s *Scene) Reset(now float64) {
	s.board = NewBoard()
	s.anim.Reset()
	s.falling = NewFalling(s.params.Falling)
	s.hist.clear()
	s.turn = 0
	s.outcome = OutcomeIdle
	s.last = nil
	s.committed = 0
	s.Start(now)
}

func (s *Scene) descriptors() []geometry.Descriptor {
	out := make([]geometry.Descriptor, s.board.Len())
	for i := range out {
		out[i] = s.catalog.Get(s.board.types[i])
	}
	return out
}

// Update advances the scene to now. Falling advances first; a move in
// flight keeps interpolating regardless, but no new move starts while
// falling runs. Once stalemate is reached every later call reports it
// again until Reset.
func (s *Scene) Update(now float64) Tick {
	s.now = now
	if s.outcome == OutcomeStalemate {
		return Tick{Outcome: OutcomeStalemate, Color: s.stuck, Time: now}
	}
	falling := s.falling.Update(now)

	if s.anim.State() == AnimRun {
		m := s.current.Move
		state, err := s.anim.Advance(s.board, now)
		if err != nil {
			// the destination was empty when chosen and nothing else moves
			panic(fmt.Sprintf("commit %s: %v", m, err))
		}
		if state != AnimDone {
			return s.tick(OutcomeMoving, &m)
		}
		s.current.Ended = now
		rec := s.hist.add(s.current)
		s.last = &rec
		s.committed++
		s.anim.Reset()
		s.lastEnd = now
		return s.tick(OutcomeCommitted, &m)
	}

	if falling {
		return s.tick(OutcomeFalling, nil)
	}
	if now-s.lastEnd <= s.params.MovementWaiting {
		return s.tick(OutcomeIdle, nil)
	}

	color := s.ToMove()
	m, ok := ChooseMove(s.board, color, s.params.Weights, s.rnd)
	if !ok {
		s.outcome = OutcomeStalemate
		s.stuck = color
		return Tick{Outcome: OutcomeStalemate, Color: color, Time: now}
	}
	s.turn++
	mode := s.params.Mode
	s.anim.Begin(m, now, s.params.Duration, mode.Curve(), mode.ArcHeight())
	s.current = MoveRecord{Move: m, Started: now, Curve: mode.Curve(), Arc: mode.ArcHeight()}
	return s.tick(OutcomeStarted, &m)
}

func (s *Scene) tick(o Outcome, m *Move) Tick {
	s.outcome = o
	t := Tick{Outcome: o, Move: m, Time: s.now}
	if m != nil {
		t.Color = m.Color
	}
	return t
}

// ToMove is the color whose turn starts next.
func (s *Scene) ToMove() Color {
	return s.params.Colors[s.turn%len(s.params.Colors)]
}

// Params returns a copy of the current tunables.
func (s *Scene) Params() Params {
	p := s.params
	p.Colors = append([]Color(nil), p.Colors...)
	return p
}

// SetParams replaces every tunable at once.
func (s *Scene) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Colors = append([]Color(nil), p.Colors...)
	s.params = p
	s.falling.Params = p.Falling
	s.hist.setLimit(p.HistoryLimit)
	return nil
}

func (s *Scene) SetMovementWaiting(seconds float64) error {
	if err := validSeconds("movement waiting", seconds); err != nil {
		return err
	}
	s.params.MovementWaiting = seconds
	return nil
}

// SetDuration changes the length of moves started from now on.
func (s *Scene) SetDuration(seconds float64) error {
	p := s.params
	p.Duration = seconds
	if err := p.Validate(); err != nil {
		return err
	}
	s.params.Duration = seconds
	return nil
}

// SetMode changes the curve of moves started from now on.
func (s *Scene) SetMode(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidMode, m, MaxMode)
	}
	s.params.Mode = m
	return nil
}

// SetFalling changes the physics constants, including those of a falling
// simulation that is already running.
func (s *Scene) SetFalling(p FallingParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.params.Falling = p
	s.falling.Params = p
	return nil
}

func (s *Scene) SetWeights(w TypeWeights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.params.Weights = w
	return nil
}

// SetColors changes the turn cycle; the next turn goes to its first color.
func (s *Scene) SetColors(colors ...Color) error {
	p := s.params
	p.Colors = colors
	if err := p.Validate(); err != nil {
		return err
	}
	s.params.Colors = append([]Color(nil), colors...)
	s.turn = 0
	return nil
}

// SetBoard replaces the position with a copy of b. Stalemate and history
// are cleared; it is refused while a move is in flight.
func (s *Scene) SetBoard(b *Board) error {
	if s.anim.State() == AnimRun {
		return fmt.Errorf("%w: a move is in flight", ErrInvalidParam)
	}
	s.board = b.Clone()
	s.falling = NewFalling(s.params.Falling)
	s.hist.clear()
	s.turn = 0
	s.outcome = OutcomeIdle
	s.last = nil
	s.committed = 0
	return nil
}

// Board returns a copy of the current position.
func (s *Scene) Board() *Board { return s.board.Clone() }

// Animation exposes the turn scheduler for read access.
func (s *Scene) Animation() *Animation { return s.anim }

// Falling exposes the falling integrator for read access.
func (s *Scene) Falling() *Falling { return s.falling }

func (s *Scene) Time() float64 { return s.now }

// Outcome is the result of the last Update.
func (s *Scene) Outcome() Outcome { return s.outcome }

// Stalemate reports the stuck color once the scene has reached stalemate.
func (s *Scene) Stalemate() (Color, bool) {
	return s.stuck, s.outcome == OutcomeStalemate
}

// History returns the retained move records, oldest first.
func (s *Scene) History() []MoveRecord { return s.hist.list() }

// LastMove is the most recent committed move.
func (s *Scene) LastMove() (MoveRecord, bool) {
	if s.last == nil {
		return MoveRecord{}, false
	}
	return *s.last, true
}

// Replay applies records on top of the current position. It is only
// allowed while no move is in flight.
func (s *Scene) Replay(records []MoveRecord) error {
	if s.anim.State() == AnimRun {
		return fmt.Errorf("%w: a move is in flight", ErrIllegalReplay)
	}
	b := s.board.Clone()
	if err := ReplayMoves(b, records); err != nil {
		return err
	}
	s.board = b
	for _, r := range records {
		rec := s.hist.add(r)
		s.last = &rec
		s.committed++
	}
	s.turn += len(records)
	return nil
}

// Snapshot copies everything a renderer needs.
func (s *Scene) Snapshot() Snapshot {
	snap := Snapshot{
		Time:    s.now,
		Outcome: s.outcome,
		Stalled: s.outcome == OutcomeStalemate,
		ToMove:  s.ToMove(),
		Pieces:  make([]PieceState, s.board.Len()),
		Animation: AnimationState{
			State:    s.anim.State(),
			PieceID:  s.anim.PieceID(),
			From:     s.anim.From(),
			To:       s.anim.To(),
			Curve:    s.anim.Curve(),
			Arc:      s.anim.ArcHeight(),
			Progress: s.anim.Progress(),
		},
		Falling: FallingState{
			Running: s.falling.Running(),
			Settled: s.falling.Settled(),
			Elapsed: s.falling.Elapsed(),
		},
		Params: s.Params(),
		Moves:  s.committed,
	}
	if s.last != nil {
		rec := *s.last
		snap.LastMove = &rec
	}
	moving := -1
	if s.anim.State() == AnimRun {
		moving = s.anim.PieceID()
		snap.Animation.Path = shared.Line(s.anim.From(), s.anim.To())
	}
	for i := range snap.Pieces {
		pc := s.board.Piece(i)
		ps := PieceState{ID: pc.ID, Type: pc.Type, Color: pc.Color, Square: pc.Square, Pos: CellCenter(pc.Square)}
		if i == moving {
			ps.Pos = s.anim.Position()
			ps.Heading = s.anim.Heading()
			ps.Moving = true
		}
		if s.falling.Running() {
			ps.FallOffset = s.falling.Offset(i)
			ps.Pos.Z += ps.FallOffset
		}
		snap.Pieces[i] = ps
	}
	return snap
}
