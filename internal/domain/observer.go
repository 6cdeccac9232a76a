package domain

// EventKind names a state transition.
type EventKind uint8

const (
	EventStarted EventKind = iota
	EventMoved
	EventEnded
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventMoved:
		return "moved"
	case EventEnded:
		return "ended"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is delivered to observers after a transition completes. Index is the
// played cell for EventMoved and EventEnded, -1 otherwise. Ignored calls do
// not produce events.
type Event struct {
	Kind   EventKind
	Index  int
	Result Result
}

// Observer is notified of every transition, synchronously and in order.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

// Option configures a Game.
type Option func(*Game)

// WithObserver registers o before the game is used.
func WithObserver(o Observer) Option {
	return func(g *Game) { g.Observe(o) }
}

// Observe registers o for all subsequent transitions.
func (g *Game) Observe(o Observer) {
	if o == nil {
		return
	}
	g.observers = append(g.observers, o)
}

func (g *Game) notify(e Event) {
	for _, o := range g.observers {
		o.Observe(e)
	}
}
