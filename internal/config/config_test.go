package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/core/cli"
	"cogentcore.org/lab/base/randx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fancy_chessboard/internal/game"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestDefaultsMatchScene(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, []string{"white", "black"}, cfg.Scene.Colors)
	assert.Equal(t, 20, cfg.TickMillis)
	assert.True(t, cfg.RestartOnStalemate)

	p, err := cfg.Scene.Params()
	require.NoError(t, err)
	assert.Equal(t, game.DefaultParams(), p)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fancychess.toml")
	writeFile(t, path, `
Host = "127.0.0.1"
Port = 9090
LogLevel = "debug"

[Scene]
Mode = 4
Colors = ["black"]
Duration = 0.5

[Scene.Weights]
Knight = 0
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, 20, cfg.TickMillis)

	p, err := cfg.Scene.Params()
	require.NoError(t, err)
	assert.Equal(t, game.Mode(4), p.Mode)
	assert.Equal(t, []game.Color{game.Black}, p.Colors)
	assert.Equal(t, 0.5, p.Duration)
	assert.Zero(t, p.Weights[game.Knight])
	assert.Equal(t, 3.0, p.Weights[game.Pawn])
}

func TestLoadFallsBackToEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.toml")
	writeFile(t, path, "TickMillis = 5\n")
	t.Setenv(EnvFile, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.TickMillis)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv(EnvFile, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"tick", "TickMillis = 0\n"},
		{"window", "Width = -1\n"},
		{"level", "LogLevel = \"loud\"\n"},
		{"mode", "[Scene]\nMode = 9\n"},
		{"color", "[Scene]\nColors = [\"white\", \"red\"]\n"},
		{"port", "Port = 70000\n"},
		{"weights", "[Scene.Weights]\nTower = -1\n"},
		{"falling", "[Scene.Falling]\nEpsilon = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			writeFile(t, path, tt.body)
			_, err := Load(path)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestDefaultSceneTakesTurnsForBothColors(t *testing.T) {
	tests := []struct {
		name string
		cfg  func() *Config
	}{
		{"Default", Default},
		{"tags only", func() *Config {
			cfg := &Config{}
			require.NoError(t, cli.SetFromDefaults(cfg))
			return cfg
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg()
			require.NoError(t, cfg.Validate())
			assert.Equal(t, ":8080", cfg.Addr())

			p, err := cfg.Scene.Params()
			require.NoError(t, err)
			require.Equal(t, []game.Color{game.White, game.Black}, p.Colors)
			p.FallOnStart = false
			p.MovementWaiting = 0
			p.Duration = 0.1

			s, err := game.NewScene(p, nil, randx.NewSysRand(1))
			require.NoError(t, err)
			s.Start(0)
			moved := map[game.Color]int{}
			for now := 0.05; now < 5; now += 0.05 {
				tick := s.Update(now)
				require.NotEqual(t, game.OutcomeStalemate, tick.Outcome)
				if tick.Outcome == game.OutcomeStarted {
					moved[tick.Color]++
				}
			}
			assert.Positive(t, moved[game.White])
			assert.Positive(t, moved[game.Black])
		})
	}
}

func TestAddr(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	assert.Empty(t, cfg.Addr())
	cfg.Port, cfg.Host = 81, "::1"
	assert.Equal(t, "[::1]:81", cfg.Addr())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)
	_, err = ParseLevel("chatty")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCatalogDefault(t *testing.T) {
	cat, err := Default().Catalog()
	require.NoError(t, err)
	assert.NotNil(t, cat)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fancychess.toml")
	writeFile(t, path, "[Scene]\nMode = 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) {
			select {
			case got <- c:
			default:
			}
		})
	}()

	// The watcher may not be registered yet; keep rewriting until a reload
	// is seen.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	var cfg *Config
	for cfg == nil {
		select {
		case cfg = <-got:
		case <-tick.C:
			writeFile(t, filepath.Join(dir, "other.toml"), "ignored")
			writeFile(t, path, "[Scene]\nMode = 2\n")
		case <-deadline:
			t.Fatal("no reload after writing the config file")
		}
	}
	assert.Equal(t, 2, cfg.Scene.Mode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestOptionsIncludeEnvFile(t *testing.T) {
	t.Setenv(EnvFile, "")
	assert.Equal(t, []string{DefaultFile}, Options().DefaultFiles)
	assert.Equal(t, DefaultFile, WatchPath())

	t.Setenv(EnvFile, "/etc/fancychess.toml")
	assert.Equal(t, []string{DefaultFile, "/etc/fancychess.toml"}, Options().DefaultFiles)
	assert.Equal(t, "/etc/fancychess.toml", WatchPath())
}
