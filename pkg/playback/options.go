package playback

import (
	"log/slog"
	"time"
)

// DefaultBaseDelay is the tick interval at speed 1.
const DefaultBaseDelay = 650 * time.Millisecond

// Speed bounds. SetSpeed clamps to this range.
const (
	MinSpeed = 0.1
	MaxSpeed = 3.0
)

// Option configures a Player.
type Option func(*Player)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Player) {
		p.logger = logger
	}
}

// WithClock replaces the time source. Tests use a ManualClock.
func WithClock(clock Clock) Option {
	return func(p *Player) {
		p.clock = clock
	}
}

// WithBaseDelay sets the tick interval at speed 1. Non-positive values are ignored.
func WithBaseDelay(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.baseDelay = d
		}
	}
}

// WithVariableMode selects how emitted variables accumulate.
func WithVariableMode(mode VariableMode) Option {
	return func(p *Player) {
		p.acc = newAccumulator(mode)
	}
}

// WithSpeed sets the initial speed multiplier, clamped like SetSpeed.
func WithSpeed(speed float64) Option {
	return func(p *Player) {
		p.speed = clampSpeed(speed)
	}
}

// WithLoop sets the initial loop flag.
func WithLoop(loop bool) Option {
	return func(p *Player) {
		p.loop = loop
	}
}
