package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe/internal/domain"
	"github.com/jaminalder/tictactoe/internal/logging"
)

// subscriberBuffer holds more states than a single round can produce.
const subscriberBuffer = 16

// Errors exposed by the service layer.
var (
	ErrNotFound = errors.New("game not found")
)

// GameState is a copy of one session taken after a call.
type GameState struct {
	ID      string
	Board   [domain.Size]domain.Cell
	Status  domain.Status
	Line    []int
	Reason  error
	Created time.Time
	Updated time.Time
}

// Playable reports whether a click on cell i would be accepted.
func (gs GameState) Playable(i int) bool {
	return gs.Status.Phase == domain.Playing && i >= 0 && i < domain.Size && gs.Board[i] == domain.Empty
}

// Highlighted reports whether cell i belongs to the winning line.
func (gs GameState) Highlighted(i int) bool {
	for _, idx := range gs.Line {
		if idx == i {
			return true
		}
	}
	return false
}

type session struct {
	id      string
	game    *domain.Game
	created time.Time
	updated time.Time

	// fanout is taken before the service lock is released so states reach
	// subscribers in the order they were applied.
	fanout sync.Mutex
}

type subscriber struct {
	mu     sync.Mutex
	ch     chan GameState
	closed bool
}

// send delivers gs without blocking. It reports false when the buffer is full.
func (s *subscriber) send(gs GameState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- gs:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Service owns independent hot-seat games and the subscribers watching them.
// Every call into a game happens under the service lock, so moves for one
// game are applied in the order they arrive.
type Service struct {
	mu       sync.Mutex
	games    map[string]*session
	subs     map[string]map[*subscriber]struct{}
	log      *zap.Logger
	ids      IDFunc
	defaults [2]string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for service events and per-game transitions.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithDefaultNames sets the names used for blank player names.
func WithDefaultNames(one, two string) Option {
	return func(s *Service) { s.defaults = [2]string{one, two} }
}

// WithIDs replaces the session id generator.
func WithIDs(ids IDFunc) Option {
	return func(s *Service) { s.ids = ids }
}

// NewService creates an empty service.
func NewService(opts ...Option) *Service {
	s := &Service{
		games:    make(map[string]*session),
		subs:     make(map[string]map[*subscriber]struct{}),
		log:      zap.NewNop(),
		ids:      newID,
		defaults: [2]string{"Player 1", "Player 2"},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("app")
	return s
}

// CreateGame registers a new game and starts it with the given names.
func (s *Service) CreateGame(p1, p2 string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.ids()
	now := time.Now()
	glog := s.log.With(zap.String("game", id))
	sess := &session{
		id:      id,
		game:    domain.NewGame(domain.WithObserver(logging.NewObserver(glog))),
		created: now,
		updated: now,
	}
	s.games[id] = sess
	one, two := s.names(p1, p2)
	res := sess.game.StartGame(one, two)
	glog.Info("game created")
	cp := s.snapshotLocked(sess, res)
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := s.snapshotLocked(sess, domain.Result{Applied: true})
	return &cp, true
}

// Start renames both players and begins a fresh round.
func (s *Service) Start(id, p1, p2 string) (*GameState, error) {
	return s.apply(id, func(g *domain.Game) domain.Result {
		one, two := s.names(p1, p2)
		g.StartGame(one, two)
		return g.ResetRound()
	})
}

// Play forwards a move to the game. Ignored moves are not errors; the
// returned state carries the reason.
func (s *Service) Play(id string, index int) (*GameState, error) {
	return s.apply(id, func(g *domain.Game) domain.Result {
		return g.PlayRound(index)
	})
}

// Reset clears the board of a game and keeps its players.
func (s *Service) Reset(id string) (*GameState, error) {
	return s.apply(id, func(g *domain.Game) domain.Result {
		return g.ResetRound()
	})
}

// Remove forgets a game and closes its subscribers.
func (s *Service) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return false
	}
	delete(s.games, id)
	for sub := range s.subs[id] {
		sub.close()
	}
	delete(s.subs, id)
	s.log.Info("game removed", zap.String("game", id))
	return true
}

func (s *Service) apply(id string, op func(*domain.Game) domain.Result) (*GameState, error) {
	var toDrop []*subscriber

	s.mu.Lock()
	sess, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	res := op(sess.game)
	if !res.Applied {
		cp := s.snapshotLocked(sess, res)
		s.mu.Unlock()
		return &cp, nil
	}
	sess.updated = time.Now()

	// Snapshot state and subscribers
	cp := s.snapshotLocked(sess, res)
	subs := s.copySubsLocked(id)
	sess.fanout.Lock()
	s.mu.Unlock()

	// Fan-out; drop slow subscribers by closing and marking for deletion
	for sub := range subs {
		if !sub.send(cp) {
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	sess.fanout.Unlock()
	if len(toDrop) > 0 {
		s.mu.Lock()
		for _, sub := range toDrop {
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
		}
		s.mu.Unlock()
		s.log.Warn("dropped slow subscribers", zap.String("game", id), zap.Int("count", len(toDrop)))
	}
	return &cp, nil
}

// Subscribe registers a subscriber for a game. It receives a state after
// every applied transition until ctx is done or unsubscribe is called.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameState, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, nil, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan GameState, subscriberBuffer)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

func (s *Service) names(p1, p2 string) (string, string) {
	one, two := strings.TrimSpace(p1), strings.TrimSpace(p2)
	if one == "" {
		one = s.defaults[0]
	}
	if two == "" {
		two = s.defaults[1]
	}
	return one, two
}

func (s *Service) snapshotLocked(sess *session, res domain.Result) GameState {
	gs := GameState{
		ID:      sess.id,
		Board:   sess.game.Board(),
		Status:  sess.game.Status(),
		Reason:  res.Reason,
		Created: sess.created,
		Updated: sess.updated,
	}
	if ln, ok := sess.game.WinningLine(); ok && gs.Status.Phase == domain.Ended {
		gs.Line = ln[:]
	}
	return gs
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
