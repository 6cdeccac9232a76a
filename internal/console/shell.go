package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/jaminalder/tictactoe/internal/domain"
)

const help = `Keys 1-9 play a cell (top-left is 1), r resets the round,
n starts over with new names, q quits.`

// Shell plays one hot-seat game on a terminal.
type Shell struct {
	in       *bufio.Scanner
	lines    chan string
	readErr  error
	reading  sync.Once
	out      io.Writer
	game     *domain.Game
	defaults [2]string
}

// Option configures a Shell.
type Option func(*shellConfig)

type shellConfig struct {
	defaults  [2]string
	observers []domain.Observer
}

// WithDefaultNames sets the names used when a prompt is left blank.
func WithDefaultNames(one, two string) Option {
	return func(c *shellConfig) { c.defaults = [2]string{one, two} }
}

// WithObserver adds an observer next to the renderer, for example a logger.
func WithObserver(o domain.Observer) Option {
	return func(c *shellConfig) { c.observers = append(c.observers, o) }
}

// NewShell reads commands from in and draws to out through r.
func NewShell(in io.Reader, out io.Writer, r *Renderer, opts ...Option) *Shell {
	cfg := shellConfig{defaults: [2]string{"Player 1", "Player 2"}}
	for _, opt := range opts {
		opt(&cfg)
	}
	gameOpts := []domain.Option{domain.WithObserver(r)}
	for _, o := range cfg.observers {
		gameOpts = append(gameOpts, domain.WithObserver(o))
	}
	return &Shell{
		in:       bufio.NewScanner(in),
		lines:    make(chan string),
		out:      out,
		game:     domain.NewGame(gameOpts...),
		defaults: cfg.defaults,
	}
}

// Game exposes the shell's game for inspection.
func (s *Shell) Game() *domain.Game { return s.game }

// Run prompts for names and then plays until q, end of input or ctx is done.
// A pending read does not delay cancellation.
func (s *Shell) Run(ctx context.Context) error {
	s.reading.Do(func() { go s.read() })

	fmt.Fprintln(s.out, help)
	if ok, err := s.newGame(ctx); !ok {
		return err
	}
	for {
		fmt.Fprint(s.out, "> ")
		line, ok, err := s.readLine(ctx)
		if !ok {
			return err
		}
		switch cmd := strings.ToLower(strings.TrimSpace(line)); cmd {
		case "q", "quit":
			return nil
		case "r", "reset":
			s.game.ResetRound()
		case "n", "new":
			if ok, err := s.newGame(ctx); !ok {
				return err
			}
		case "h", "help", "?":
			fmt.Fprintln(s.out, help)
		default:
			s.play(cmd)
		}
	}
}

// read feeds input lines to the shell until the input ends.
func (s *Shell) read() {
	defer close(s.lines)
	for s.in.Scan() {
		s.lines <- s.in.Text()
	}
	s.readErr = s.in.Err()
}

// readLine waits for the next line. It reports false at end of input, with
// the scanner error if any, or when ctx is done.
func (s *Shell) readLine(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", false, s.readErr
		}
		return line, true, nil
	}
}

// play forwards a key to the game. Anything that is not a number is ignored.
func (s *Shell) play(cmd string) {
	n, err := strconv.Atoi(cmd)
	if err != nil {
		return
	}
	res := s.game.PlayRound(n - 1)
	switch {
	case errors.Is(res.Reason, domain.ErrOccupied):
		fmt.Fprintln(s.out, "Cell is occupied")
	case errors.Is(res.Reason, domain.ErrGameOver):
		fmt.Fprintln(s.out, "Game is over, press r to play again or n for new players")
	}
}

// newGame asks for both names and starts on a clean board.
func (s *Shell) newGame(ctx context.Context) (bool, error) {
	one, ok, err := s.ask(ctx, "Player 1 (X) name", s.defaults[0])
	if !ok {
		return false, err
	}
	two, ok, err := s.ask(ctx, "Player 2 (O) name", s.defaults[1])
	if !ok {
		return false, err
	}
	s.game.StartGame(one, two)
	s.game.ResetRound()
	return true, nil
}

func (s *Shell) ask(ctx context.Context, prompt, def string) (string, bool, error) {
	fmt.Fprintf(s.out, "%s [%s]: ", prompt, def)
	line, ok, err := s.readLine(ctx)
	if !ok {
		return "", false, err
	}
	name := strings.TrimSpace(line)
	if name == "" {
		name = def
	}
	return name, true, nil
}
