package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults without a file", func(t *testing.T) {
		// When: loading from the environment only
		conf, err := Load("")

		// Then: defaults are applied
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, ":8080", conf.HTTP.Addr)
		assert.Equal(t, 15*time.Second, conf.HTTP.Heartbeat)
		one, two := conf.Players.DefaultNames()
		assert.Equal(t, "Player 1", one)
		assert.Equal(t, "Player 2", two)
		assert.Equal(t, "warn", conf.Console.LogLevel)
		assert.Empty(t, conf.Console.LogFile)
	})

	t.Run("Reads a yaml file", func(t *testing.T) {
		// Given: a config file overriding a few values
		path := filepath.Join(t.TempDir(), "config.yml")
		content := "log-level: debug\nhttp:\n  addr: \":9090\"\n  heartbeat: 2s\nplayers:\n  one: Crosses\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: loading it
		conf, err := Load(path)

		// Then: file values win and the rest fall back to defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, ":9090", conf.HTTP.Addr)
		assert.Equal(t, 2*time.Second, conf.HTTP.Heartbeat)
		assert.Equal(t, "Crosses", conf.Players.One)
		assert.Equal(t, "Player 2", conf.Players.Two)
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		t.Setenv("TTT_PLAYER_TWO", "Noughts")
		t.Setenv("TTT_HTTP_ADDR", "127.0.0.1:7000")
		t.Setenv("TTT_CONSOLE_LOG_FILE", "/tmp/ttt.log")

		conf, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, "/tmp/ttt.log", conf.Console.LogFile)
		assert.Equal(t, "Noughts", conf.Players.Two)
		assert.Equal(t, "127.0.0.1:7000", conf.HTTP.Addr)
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to load config file")
	})
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "nope.yml"))
	})
}
