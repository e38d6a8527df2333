package game

import (
	"fmt"
	"math"
)

// Params are the tunables of a Scene. Every field can be changed between
// ticks through the Scene setters.
type Params struct {
	// MovementWaiting is the idle time in seconds between the end of one
	// move and the start of the next.
	MovementWaiting float64 `json:"movementWaiting"`
	// Duration is the length of one move animation in seconds.
	Duration float64 `json:"duration"`
	Mode     Mode    `json:"mode"`
	// Weights bias which piece type is tried first each turn.
	Weights TypeWeights `json:"weights"`
	// Colors is the cycle of colors that take turns moving.
	Colors []Color `json:"colors"`
	Falling FallingParams `json:"falling"`
	// FallOnStart drops the pieces onto the board when the scene starts.
	FallOnStart bool `json:"fallOnStart"`
	// HistoryLimit bounds the in-memory move history; 0 keeps none.
	HistoryLimit int `json:"historyLimit"`
}

func DefaultParams() Params {
	return Params{
		MovementWaiting: 1,
		Duration:        1.5,
		Mode:            3,
		Weights:         DefaultTypeWeights(),
		Colors:          []Color{White, Black},
		Falling:         DefaultFallingParams(),
		FallOnStart:     true,
		HistoryLimit:    256,
	}
}

// Validate checks every field; a zero or negative duration is accepted and
// means moves complete instantly.
func (p Params) Validate() error {
	if err := validSeconds("movement waiting", p.MovementWaiting); err != nil {
		return err
	}
	if math.IsNaN(p.Duration) || math.IsInf(p.Duration, 0) {
		return fmt.Errorf("%w: duration %v", ErrInvalidParam, p.Duration)
	}
	if !p.Mode.Valid() {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidMode, p.Mode, MaxMode)
	}
	if err := p.Weights.Validate(); err != nil {
		return err
	}
	if len(p.Colors) == 0 {
		return fmt.Errorf("%w: no colors to cycle", ErrInvalidParam)
	}
	for _, c := range p.Colors {
		if !c.Valid() {
			return fmt.Errorf("%w: color %d", ErrInvalidParam, c)
		}
	}
	if p.HistoryLimit < 0 {
		return fmt.Errorf("%w: history limit %d", ErrInvalidParam, p.HistoryLimit)
	}
	return p.Falling.Validate()
}

func validSeconds(name string, v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s %v", ErrInvalidParam, name, v)
	}
	return nil
}
