package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/algotrace/pkg/playback"
)

// Environment variables read by Load.
const (
	EnvConfig    = "ALGOTRACE_CONFIG"
	EnvRedisAddr = "ALGOTRACE_REDIS_ADDR"
	EnvAddr      = "ALGOTRACE_ADDR"
	EnvLogLevel  = "ALGOTRACE_LOG_LEVEL"
)

// DefaultPath is read when neither a path nor ALGOTRACE_CONFIG is given.
const DefaultPath = "algotrace.yaml"

// Config is the application configuration.
type Config struct {
	Playback PlaybackConfig `yaml:"playback" json:"playback"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Cache    CacheConfig    `yaml:"cache" json:"cache"`
	Log      LogConfig      `yaml:"log" json:"log"`
}

// PlaybackConfig holds player defaults.
type PlaybackConfig struct {
	Speed     float64  `yaml:"speed" json:"speed"`
	Loop      bool     `yaml:"loop" json:"loop"`
	BaseDelay Duration `yaml:"base_delay" json:"base_delay"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr       string   `yaml:"addr" json:"addr"`
	BaseURL    string   `yaml:"base_url" json:"base_url"`
	SessionTTL Duration `yaml:"session_ttl" json:"session_ttl"`
}

// CacheConfig selects the run cache: Redis when RedisAddr is set, else
// files under Dir when it is set, else memory.
type CacheConfig struct {
	RedisAddr     string   `yaml:"redis_addr" json:"redis_addr"`
	Dir           string   `yaml:"dir" json:"dir"`
	RedisPassword string   `yaml:"redis_password" json:"redis_password"`
	RedisDB       int      `yaml:"redis_db" json:"redis_db"`
	Prefix        string   `yaml:"prefix" json:"prefix"`
	TTL           Duration `yaml:"ttl" json:"ttl"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// Duration is a time.Duration written as "650ms" or "1h" in config files.
type Duration time.Duration

// UnmarshalYAML accepts a duration string such as "650ms".
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.parse(s)
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalJSON accepts a duration string.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.parse(s)
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) parse(s string) error {
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Playback: PlaybackConfig{
			Speed:     1,
			BaseDelay: Duration(playback.DefaultBaseDelay),
		},
		Server: ServerConfig{
			Addr:       ":8080",
			BaseURL:    "/",
			SessionTTL: Duration(30 * time.Minute),
		},
		Cache: CacheConfig{
			Prefix: "algotrace:run:",
			TTL:    Duration(time.Hour),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path falls back to ALGOTRACE_CONFIG, then DefaultPath; a missing
// default file is not an error, a missing explicit one is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, data, &cfg); err != nil {
			return Config{}, err
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// Validate rejects values no component can use.
func (c Config) Validate() error {
	if c.Playback.Speed < playback.MinSpeed || c.Playback.Speed > playback.MaxSpeed {
		return fmt.Errorf("playback.speed %v outside [%v, %v]", c.Playback.Speed, playback.MinSpeed, playback.MaxSpeed)
	}
	if c.Playback.BaseDelay <= 0 {
		return fmt.Errorf("playback.base_delay must be positive")
	}
	if c.Cache.TTL < 0 || c.Server.SessionTTL < 0 {
		return fmt.Errorf("ttl values must not be negative")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// PlayerOptions converts the playback section into player options.
func (c Config) PlayerOptions() []playback.Option {
	return []playback.Option{
		playback.WithSpeed(c.Playback.Speed),
		playback.WithLoop(c.Playback.Loop),
		playback.WithBaseDelay(time.Duration(c.Playback.BaseDelay)),
	}
}
