package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jaminalder/tictactoe/internal/domain"
)

func TestNew(t *testing.T) {
	t.Run("Defaults to info", func(t *testing.T) {
		logger, err := New("")

		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("Honours debug", func(t *testing.T) {
		logger, err := New("debug")

		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("Writes to the given file", func(t *testing.T) {
		// Given: a warn logger pointed at a file
		path := filepath.Join(t.TempDir(), "console.log")
		logger, err := New("warn", path)
		require.NoError(t, err)

		// When: logging below and at the level
		logger.Info("game started")
		logger.Warn("dropped slow subscribers")
		require.NoError(t, logger.Sync())

		// Then: only the warning lands in the file
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"dropped slow subscribers"`)
		assert.NotContains(t, string(data), "game started")
	})

	t.Run("Rejects unknown levels", func(t *testing.T) {
		_, err := New("loud")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestObserver(t *testing.T) {
	// Given: a game logging to an in-memory core
	core, logs := observer.New(zapcore.DebugLevel)
	g := domain.NewGame(domain.WithObserver(NewObserver(zap.New(core))))

	// When: X wins on the top row and the round is reset
	g.StartGame("Alice", "Bob")
	for _, cell := range []int{0, 3, 1, 4, 2} {
		g.PlayRound(cell)
	}
	g.PlayRound(8)
	g.ResetRound()

	// Then: start, four moves, the end and the reset were logged
	require.Equal(t, 7, logs.Len())
	assert.Equal(t, 1, logs.FilterMessage("game started").Len())
	assert.Equal(t, 4, logs.FilterMessage("move played").Len())
	assert.Equal(t, 1, logs.FilterMessage("round reset").Len())

	ended := logs.FilterMessage("game ended").All()
	require.Len(t, ended, 1)
	ctx := ended[0].ContextMap()
	assert.Equal(t, "Alice", ctx["winner"])
	assert.Equal(t, int64(2), ctx["cell"])
	assert.Equal(t, "win", ctx["outcome"])
	assert.Equal(t, "game", ended[0].LoggerName)
}
