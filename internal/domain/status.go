package domain

import "fmt"

// Status describes a game at one point in time.
type Status struct {
	Phase   Phase
	Outcome Outcome
	Active  Seat
	Players [2]Player
}

// ActivePlayer returns the player whose move is accepted next.
func (s Status) ActivePlayer() Player { return s.Players[s.Active] }

// Winner returns the player whose marker completed a line.
func (s Status) Winner() (Player, bool) {
	if s.Outcome.Kind != Win {
		return Player{}, false
	}
	seat, ok := SeatOf(s.Outcome.Marker)
	if !ok {
		return Player{}, false
	}
	return s.Players[seat], true
}

// Text is the status line shown to players.
func (s Status) Text() string {
	switch s.Phase {
	case NotStarted:
		return "Press start"
	case Ended:
		if w, ok := s.Winner(); ok {
			return fmt.Sprintf("%s wins!", displayName(w))
		}
		return "It's a draw!"
	default:
		return fmt.Sprintf("%s's turn", displayName(s.ActivePlayer()))
	}
}

func displayName(p Player) string {
	if p.Name != "" {
		return p.Name
	}
	return p.Marker.String()
}

// Result is returned by every controller operation. Applied is false when the
// call was ignored; Reason then says why. Board and Status always reflect the
// game after the call.
type Result struct {
	Applied bool
	Reason  error
	Board   [Size]Cell
	Status  Status
}
