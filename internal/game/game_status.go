package game

import "fmt"

// Outcome classifies what one Scene.Update call did.
type Outcome uint8

const (
	// OutcomeIdle: nothing moved, the idle timer is still running.
	OutcomeIdle Outcome = iota
	// OutcomeFalling: the falling integrator advanced; no move may start.
	OutcomeFalling
	// OutcomeStarted: a new move animation began this tick.
	OutcomeStarted
	// OutcomeMoving: the running animation advanced.
	OutcomeMoving
	// OutcomeCommitted: the running animation finished and the piece now
	// stands on its destination.
	OutcomeCommitted
	// OutcomeStalemate: the color to move has no legal move. Terminal
	// until the scene is reset.
	OutcomeStalemate
)

var outcomeNames = [...]string{
	OutcomeIdle:      "idle",
	OutcomeFalling:   "falling",
	OutcomeStarted:   "started",
	OutcomeMoving:    "moving",
	OutcomeCommitted: "committed",
	OutcomeStalemate: "stalemate",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Outcome) UnmarshalText(text []byte) error {
	for i, name := range outcomeNames {
		if name == string(text) {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("invalid outcome %q", text)
}

// Terminal reports whether the scene can make no further progress.
func (o Outcome) Terminal() bool { return o == OutcomeStalemate }

// Tick is the result of one Scene.Update.
type Tick struct {
	Outcome Outcome `json:"outcome"`
	// Move is set for Started, Moving and Committed.
	Move *Move `json:"move,omitempty"`
	// Color is the color that moved, or the stuck color on stalemate.
	Color Color `json:"color"`
	Time  float64 `json:"time"`
}

// Err converts a stalemate tick into a *StalemateError; every other tick
// yields nil.
func (t Tick) Err() error {
	if t.Outcome != OutcomeStalemate {
		return nil
	}
	return &StalemateError{Color: t.Color}
}

func (t Tick) String() string {
	if t.Move != nil {
		return fmt.Sprintf("%s %s", t.Outcome, t.Move)
	}
	if t.Outcome == OutcomeStalemate {
		return fmt.Sprintf("%s (%s)", t.Outcome, t.Color)
	}
	return t.Outcome.String()
}
