package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"info"`
	HTTP     HTTP    `yaml:"http"`
	Players  Players `yaml:"players"`
	Console  Console `yaml:"console"`
}

type HTTP struct {
	Addr      string        `yaml:"addr" env:"TTT_HTTP_ADDR" env-default:":8080"`
	Heartbeat time.Duration `yaml:"heartbeat" env:"TTT_HEARTBEAT" env-default:"15s"`
}

// Console keeps log output away from the terminal board: a quieter level
// and, when LogFile is set, a file instead of stderr.
type Console struct {
	LogLevel string `yaml:"log-level" env:"TTT_CONSOLE_LOG_LEVEL" env-default:"warn"`
	LogFile  string `yaml:"log-file" env:"TTT_CONSOLE_LOG_FILE"`
}

// Players holds the names used when a player leaves the name field blank.
type Players struct {
	One string `yaml:"one" env:"TTT_PLAYER_ONE" env-default:"Player 1"`
	Two string `yaml:"two" env:"TTT_PLAYER_TWO" env-default:"Player 2"`
}

// Load reads the yaml file at path, or only the environment when path is empty.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read environment: %w", err)
		}
		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// MustLoad - same as Load but panics on error.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// DefaultNames returns the placeholder names for player one and two.
func (that *Players) DefaultNames() (string, string) {
	return that.One, that.Two
}
