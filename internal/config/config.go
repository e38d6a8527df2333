// Package config holds the fancychess configuration: defaults from struct
// tags, overrides from a TOML file and the command line.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"

	"cogentcore.org/core/base/iox/tomlx"
	"cogentcore.org/core/base/logx"
	"cogentcore.org/core/cli"

	"fancy_chessboard/internal/game"
	"fancy_chessboard/internal/geometry"
)

// EnvFile names the environment variable consulted for the config file
// when none is given.
const EnvFile = "FANCYCHESS_CONFIG"

// DefaultFile is read from the working directory when present.
const DefaultFile = "fancychess.toml"

var ErrInvalid = errors.New("invalid configuration")

// Config is the configuration for every fancychess command.
type Config struct {

	// Host is the interface the HTTP API listens on; empty means all.
	Host string

	// Port of the HTTP API; 0 disables it.
	Port int `default:"8080"`

	// Journal is the LevelDB directory for committed moves.
	// Empty keeps the journal in memory.
	Journal string

	// Mesh is an OBJ file providing piece geometry; empty uses built-in
	// proportions.
	Mesh string

	// Seed for piece selection and falling jitter; 0 seeds from the clock.
	Seed int64

	// TickMillis is the simulation cadence in milliseconds.
	TickMillis int `default:"20"`

	// RestartOnStalemate starts a new game instead of stopping.
	RestartOnStalemate bool `default:"true"`

	// Watch reloads the scene tunables when the config file changes.
	Watch bool

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `default:"info"`

	// Width and Height size the desktop window.
	Width  int `default:"1024"`
	Height int `default:"768"`

	// Headless run length in seconds of scene time; 0 runs until stalemate
	// or interrupt.
	Seconds float64 `default:"30"`

	Scene SceneConfig
}

// SceneConfig are the scene tunables, the ones that can change while the
// simulation runs.
type SceneConfig struct {

	// MovementWaiting is the idle time between moves, in seconds.
	MovementWaiting float64 `default:"1"`

	// Duration of one move animation, in seconds.
	Duration float64 `default:"1.5"`

	// Mode selects the move curve: 0 linear, odd quadratic, even cubic.
	Mode int `default:"3"`

	// Colors is the turn cycle; empty means white then black.
	Colors []string

	// FallOnStart drops the pieces onto the board at start.
	FallOnStart bool `default:"true"`

	// HistoryLimit bounds the in-memory move history.
	HistoryLimit int `default:"256"`

	Weights WeightsConfig

	Falling FallingConfig
}

// WeightsConfig are the relative piece type selection weights.
type WeightsConfig struct {
	Tower  float64 `default:"1"`
	Knight float64 `default:"6"`
	Bishop float64 `default:"1"`
	Queen  float64 `default:"1"`
	King   float64 `default:"1"`
	Pawn   float64 `default:"3"`
}

// FallingConfig are the falling simulation constants.
type FallingConfig struct {
	G              float32 `default:"9.81"`
	K              float32 `default:"10"`
	Alpha          float32 `default:"20"`
	Epsilon        float32 `default:"0.1"`
	TimeCutOff     float64 `default:"15"`
	StartingHeight float32 `default:"3"`
	Jitter         float32 `default:"1.5"`
}

// Options returns the command line options for fancychess.
func Options() *cli.Options {
	opts := cli.DefaultOptions("fancychess", "An animated chessboard where pieces fall into place and move on their own.")
	opts.DefaultFiles = []string{DefaultFile}
	if path := getenv(EnvFile, ""); path != "" {
		opts.DefaultFiles = append(opts.DefaultFiles, path)
	}
	return opts
}

// WatchPath is the file hot reload follows: $FANCYCHESS_CONFIG, or
// DefaultFile in the working directory.
func WatchPath() string {
	return getenv(EnvFile, DefaultFile)
}

// Default returns a Config holding only the defaults.
func Default() *Config {
	cfg := &Config{}
	if err := cli.SetFromDefaults(cfg); err != nil {
		panic(err) // tags are constant
	}
	cfg.Scene.Colors = defaultColors()
	return cfg
}

func defaultColors() []string {
	var out []string
	for _, c := range game.DefaultParams().Colors {
		out = append(out, c.String())
	}
	return out
}

// Addr is the HTTP API listen address, or "" when Port is 0.
func (c *Config) Addr() string {
	if c.Port == 0 {
		return ""
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load returns the defaults overridden by the TOML file at path. An empty
// path falls back to $FANCYCHESS_CONFIG, and to defaults only when that is
// unset too.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = getenv(EnvFile, "")
	}
	if path == "" {
		return cfg, nil
	}
	if err := tomlx.Open(cfg, path); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that cannot be checked by the scene.
func (c *Config) Validate() error {
	switch {
	case c.TickMillis <= 0:
		return fmt.Errorf("%w: tick %dms", ErrInvalid, c.TickMillis)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Width, c.Height)
	case c.Seconds < 0:
		return fmt.Errorf("%w: seconds %v", ErrInvalid, c.Seconds)
	case c.Port < 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d", ErrInvalid, c.Port)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.Scene.Params(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Params converts the scene section into validated game parameters.
func (s SceneConfig) Params() (game.Params, error) {
	p := game.Params{
		MovementWaiting: s.MovementWaiting,
		Duration:        s.Duration,
		Mode:            game.Mode(s.Mode),
		FallOnStart:     s.FallOnStart,
		HistoryLimit:    s.HistoryLimit,
		Falling: game.FallingParams{
			G:              s.Falling.G,
			K:              s.Falling.K,
			Alpha:          s.Falling.Alpha,
			Epsilon:        s.Falling.Epsilon,
			TimeCutOff:     s.Falling.TimeCutOff,
			StartingHeight: s.Falling.StartingHeight,
			Jitter:         s.Falling.Jitter,
		},
	}
	p.Weights[game.Tower] = s.Weights.Tower
	p.Weights[game.Knight] = s.Weights.Knight
	p.Weights[game.Bishop] = s.Weights.Bishop
	p.Weights[game.Queen] = s.Weights.Queen
	p.Weights[game.King] = s.Weights.King
	p.Weights[game.Pawn] = s.Weights.Pawn

	names := s.Colors
	if len(names) == 0 {
		names = defaultColors()
	}
	for _, name := range names {
		c, ok := game.ParseColor(name)
		if !ok {
			return game.Params{}, fmt.Errorf("%w: color %q", game.ErrInvalidParam, name)
		}
		p.Colors = append(p.Colors, c)
	}
	return p, p.Validate()
}

// Catalog loads the piece geometry named by Mesh, or the built-in one.
func (c *Config) Catalog() (*geometry.Catalog, error) {
	if c.Mesh == "" {
		return geometry.Default(), nil
	}
	return geometry.LoadFile(c.Mesh, geometry.DefaultNames)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, name)
	}
	return l, nil
}

// ApplyLogging installs a text handler at the configured level and sets
// the debug print level to match.
func (c *Config) ApplyLogging() {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	logx.UserLevel = level
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
