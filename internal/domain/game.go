package domain

import "errors"

// Phase is the turn controller's state.
type Phase uint8

const (
	NotStarted Phase = iota
	Playing
	Ended
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case Ended:
		return "ended"
	default:
		return "not started"
	}
}

// Seat identifies one of the two players.
type Seat uint8

const (
	PlayerOne Seat = iota
	PlayerTwo
)

// Other returns the opposite seat.
func (s Seat) Other() Seat {
	if s == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

// Marker returns the fixed marker for the seat: X for PlayerOne, O for PlayerTwo.
func (s Seat) Marker() Cell {
	if s == PlayerOne {
		return X
	}
	return O
}

func (s Seat) String() string {
	if s == PlayerOne {
		return "player one"
	}
	return "player two"
}

// SeatOf returns the seat playing marker m.
func SeatOf(m Cell) (Seat, bool) {
	switch m {
	case X:
		return PlayerOne, true
	case O:
		return PlayerTwo, true
	default:
		return PlayerOne, false
	}
}

// Player is a named participant holding a fixed marker.
type Player struct {
	Name   string
	Marker Cell
}

// Reasons a call left the game unchanged. They are reported in Result.Reason
// and never returned as errors.
var (
	ErrNotStarted  = errors.New("game not started")
	ErrOutOfBounds = errors.New("out of bounds")
	ErrOccupied    = errors.New("cell occupied")
	ErrGameOver    = errors.New("game over")
)

// Game sequences moves between two players over a single board.
// It is not safe for concurrent use.
type Game struct {
	board     Board
	players   [2]Player
	active    Seat
	phase     Phase
	outcome   Outcome
	observers []Observer
}

// NewGame returns a game that has not been started yet.
func NewGame(opts ...Option) *Game {
	g := &Game{
		players: [2]Player{{Marker: X}, {Marker: O}},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// StartGame (re)creates both players and hands the turn to player one.
// The board is left as is; pair with ResetRound for a clean board.
func (g *Game) StartGame(p1, p2 string) Result {
	g.players = [2]Player{{Name: p1, Marker: X}, {Name: p2, Marker: O}}
	g.active = PlayerOne
	g.phase = Playing
	g.outcome = Outcome{}
	res := g.result(nil)
	g.notify(Event{Kind: EventStarted, Index: -1, Result: res})
	return res
}

// ResetRound clears the board and gives the turn back to player one.
// Player names are kept.
func (g *Game) ResetRound() Result {
	g.board.Reset()
	g.active = PlayerOne
	g.phase = Playing
	g.outcome = Outcome{}
	res := g.result(nil)
	g.notify(Event{Kind: EventReset, Index: -1, Result: res})
	return res
}

// PlayRound places the active player's marker at index. Moves before start,
// after the game ended, off the board or onto a taken cell are ignored and
// the reason is reported in the result.
func (g *Game) PlayRound(index int) Result {
	switch g.phase {
	case NotStarted:
		return g.result(ErrNotStarted)
	case Ended:
		return g.result(ErrGameOver)
	}
	if index < 0 || index >= Size {
		return g.result(ErrOutOfBounds)
	}
	if !g.board.ApplyMove(index, g.players[g.active].Marker) {
		return g.result(ErrOccupied)
	}

	kind := EventMoved
	g.outcome = g.board.Evaluate()
	if g.outcome.Terminal() {
		g.phase = Ended
		kind = EventEnded
	} else {
		g.active = g.active.Other()
	}
	res := g.result(nil)
	g.notify(Event{Kind: kind, Index: index, Result: res})
	return res
}

// Board returns a snapshot of the cells.
func (g *Game) Board() [Size]Cell { return g.board.Snapshot() }

// WinningLine returns the completed line once the game is won.
func (g *Game) WinningLine() (Line, bool) { return g.board.WinningLine() }

// Phase returns the controller state.
func (g *Game) Phase() Phase { return g.phase }

// Outcome returns the outcome of the last applied move.
func (g *Game) Outcome() Outcome { return g.outcome }

// Active returns the player whose move is accepted next.
func (g *Game) Active() (Player, Seat) { return g.players[g.active], g.active }

// Player returns the player in seat s.
func (g *Game) Player(s Seat) Player { return g.players[s] }

// Winner returns the winning player once the game is won.
func (g *Game) Winner() (Player, bool) { return g.Status().Winner() }

// Status returns what a presentation needs to describe the game.
func (g *Game) Status() Status {
	return Status{
		Phase:   g.phase,
		Outcome: g.outcome,
		Active:  g.active,
		Players: g.players,
	}
}

func (g *Game) result(reason error) Result {
	return Result{
		Applied: reason == nil,
		Reason:  reason,
		Board:   g.board.Snapshot(),
		Status:  g.Status(),
	}
}
