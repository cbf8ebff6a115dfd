package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/algotrace/pkg/playback"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfig, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, Duration(playback.DefaultBaseDelay), cfg.Playback.BaseDelay)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "algotrace.yaml", `
playback:
  speed: 2.5
  loop: true
  base_delay: 300ms
server:
  addr: ":9090"
cache:
  redis_addr: localhost:6379
  dir: /tmp/runs
  ttl: 10m
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Playback.Speed)
	assert.True(t, cfg.Playback.Loop)
	assert.Equal(t, Duration(300*time.Millisecond), cfg.Playback.BaseDelay)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/", cfg.Server.BaseURL, "unset keys keep defaults")
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "/tmp/runs", cfg.Cache.Dir)
	assert.Equal(t, Duration(10*time.Minute), cfg.Cache.TTL)
	assert.Equal(t, "algotrace:run:", cfg.Cache.Prefix)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "algotrace.json", `{"playback":{"speed":0.5,"base_delay":"1s"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Playback.Speed)
	assert.Equal(t, Duration(time.Second), cfg.Playback.BaseDelay)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "cfg.yaml", "cache:\n  redis_addr: from-file:6379\n")
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvRedisAddr, "from-env:6379")
	t.Setenv(EnvAddr, ":7070")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Malformed YAML", "playback: [\n"},
		{"Bad Duration", "playback:\n  base_delay: soon\n"},
		{"Speed Out Of Range", "playback:\n  speed: 9\n"},
		{"Zero Delay", "playback:\n  base_delay: 0s\n"},
		{"Negative TTL", "cache:\n  ttl: -1m\n"},
		{"Unknown Level", "log:\n  level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "algotrace.yaml", tt.content))
			assert.Error(t, err)
		})
	}

	t.Run("Missing Explicit File", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, -4, int(level))

	_, err = ParseLevel("")
	assert.Error(t, err)
}

func TestPlayerOptions(t *testing.T) {
	cfg := Default()
	cfg.Playback.Speed = 2
	cfg.Playback.Loop = true

	p := playback.New(cfg.PlayerOptions()...)
	assert.Equal(t, 2.0, p.Speed())
	assert.True(t, p.Loop())
	assert.Equal(t, playback.DefaultBaseDelay/2, p.Interval())
}
