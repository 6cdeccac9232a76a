package console

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jaminalder/tictactoe/internal/domain"
	"github.com/jaminalder/tictactoe/internal/logging"
)

func plainRenderer(sb *strings.Builder) *Renderer {
	return NewRenderer(sb, termenv.WithProfile(termenv.Ascii))
}

func runShell(t *testing.T, input string, opts ...Option) (*Shell, string) {
	t.Helper()
	var out strings.Builder
	sh := NewShell(strings.NewReader(input), &out, plainRenderer(&out), opts...)
	require.NoError(t, sh.Run(context.Background()))
	return sh, out.String()
}

func TestRendererBoard(t *testing.T) {
	var sb strings.Builder
	r := plainRenderer(&sb)

	got := r.Board([domain.Size]domain.Cell{0: domain.X, 4: domain.O, 8: domain.X})

	want := " X | 2 | 3 \n" +
		"---+---+---\n" +
		" 4 | O | 6 \n" +
		"---+---+---\n" +
		" 7 | 8 | X \n"
	assert.Equal(t, want, got)
}

func TestRendererSkipsStart(t *testing.T) {
	var sb strings.Builder
	g := domain.NewGame(domain.WithObserver(plainRenderer(&sb)))

	g.StartGame("Alice", "Bob")
	assert.Empty(t, sb.String())

	g.ResetRound()
	assert.Contains(t, sb.String(), "Alice's turn")
}

func TestShellPlaysToAWin(t *testing.T) {
	// Given: Alice takes the top row while Bob plays the middle row
	sh, out := runShell(t, "Alice\nBob\n1\n4\n2\n5\n3\nq\n")

	// Then: the game ended with Alice as the winner
	g := sh.Game()
	assert.Equal(t, domain.Ended, g.Phase())
	w, ok := g.Winner()
	require.True(t, ok)
	assert.Equal(t, "Alice", w.Name)
	assert.Contains(t, out, "Alice wins!")
	assert.Contains(t, out, " X | X | X \n")
}

func TestShellDefaultNames(t *testing.T) {
	t.Run("Built-in", func(t *testing.T) {
		sh, out := runShell(t, "\n\nq\n")

		assert.Equal(t, "Player 1", sh.Game().Player(domain.PlayerOne).Name)
		assert.Equal(t, "Player 2", sh.Game().Player(domain.PlayerTwo).Name)
		assert.Contains(t, out, "Player 1's turn")
	})

	t.Run("Configured", func(t *testing.T) {
		sh, _ := runShell(t, "\nBob\nq\n", WithDefaultNames("Crosses", "Noughts"))

		assert.Equal(t, "Crosses", sh.Game().Player(domain.PlayerOne).Name)
		assert.Equal(t, "Bob", sh.Game().Player(domain.PlayerTwo).Name)
	})
}

func TestShellIgnoresBadInput(t *testing.T) {
	// When: a valid move is surrounded by junk and out-of-range keys
	sh, out := runShell(t, "Alice\nBob\nfoo\n0\n10\n5\n5\n\nq\n")

	// Then: only the centre is taken and Bob is still to move
	g := sh.Game()
	assert.Equal(t, [domain.Size]domain.Cell{4: domain.X}, g.Board())
	_, seat := g.Active()
	assert.Equal(t, domain.PlayerTwo, seat)
	assert.Contains(t, out, "Cell is occupied")
}

func TestShellResetAndNewGame(t *testing.T) {
	sh, out := runShell(t, "Alice\nBob\n1\n2\nr\n9\nn\nCarol\nDan\nq\n")

	g := sh.Game()
	assert.Equal(t, [domain.Size]domain.Cell{}, g.Board())
	assert.Equal(t, domain.Playing, g.Phase())
	assert.Equal(t, "Carol", g.Player(domain.PlayerOne).Name)
	assert.Equal(t, "Dan", g.Player(domain.PlayerTwo).Name)
	assert.Contains(t, out, "Carol's turn")
}

func TestShellMovesAfterEndAreRefused(t *testing.T) {
	sh, out := runShell(t, "Alice\nBob\n1\n4\n2\n5\n3\n9\nq\n")

	assert.Equal(t, domain.Empty, sh.Game().Board()[8])
	assert.Contains(t, out, "Game is over")
}

func TestShellStopsAtEndOfInput(t *testing.T) {
	t.Run("During the name prompt", func(t *testing.T) {
		sh, _ := runShell(t, "Alice\n")

		assert.Equal(t, domain.NotStarted, sh.Game().Phase())
	})

	t.Run("During play", func(t *testing.T) {
		sh, _ := runShell(t, "Alice\nBob\n5")

		assert.Equal(t, domain.X, sh.Game().Board()[4])
	})
}

func TestShellHonoursContext(t *testing.T) {
	t.Run("Cancelled while waiting for a move", func(t *testing.T) {
		// Given: a shell reading from a pipe that never delivers a move
		pr, pw := io.Pipe()
		defer pw.Close()
		var out strings.Builder
		sh := NewShell(pr, &out, plainRenderer(&out))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- sh.Run(ctx) }()
		_, err := io.WriteString(pw, "Alice\nBob\n")
		require.NoError(t, err)
		time.Sleep(100 * time.Millisecond)

		// When: the context is cancelled mid-read
		cancel()

		// Then: Run returns promptly
		select {
		case err = <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("Run still blocked after cancel")
		}
		assert.Equal(t, "Alice", sh.Game().Player(domain.PlayerOne).Name)
		assert.Equal(t, [domain.Size]domain.Cell{}, sh.Game().Board())
	})

	t.Run("Cancelled before the names are read", func(t *testing.T) {
		var out strings.Builder
		sh := NewShell(strings.NewReader("Alice\nBob\n5\n"), &out, plainRenderer(&out))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := sh.Run(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, domain.NotStarted, sh.Game().Phase())
	})
}

func TestShellLogsTransitions(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	obs := logging.NewObserver(zap.New(core))

	runShell(t, "Alice\nBob\n1\n4\n2\n5\n3\nq\n", WithObserver(obs))

	assert.Equal(t, 1, logs.FilterMessage("game started").Len())
	assert.Equal(t, 1, logs.FilterMessage("game ended").Len())
}
