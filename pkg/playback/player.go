package playback

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/aretw0/algotrace/internal/logging"
	"github.com/aretw0/algotrace/pkg/domain"
)

// State is the coarse playback state.
type State int

const (
	// Idle means nothing has played since the last Load or Reset.
	Idle State = iota
	// Paused means autoplay ran and was stopped.
	Paused
	// Playing means a ticker is live.
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return "unknown"
	}
}

// Emission is what observers receive on every cursor change.
// Step is nil at index -1. State always belongs to Index.
type Emission struct {
	Step      *domain.Step       `json:"step"`
	Index     int                `json:"index"`
	Total     int                `json:"total"`
	State     domain.VisualState `json:"state"`
	Variables domain.Vars        `json:"variables"`
}

// Hooks are the observer callbacks. Any of them may be nil.
//
// Hooks run synchronously while the Player holds its lock, so a hook must not
// call back into the Player: doing so deadlocks. Hand the work off to another
// goroutine when a hook needs to query or drive the Player.
type Hooks struct {
	OnStep  func(Emission)
	OnPlay  func()
	OnPause func()
	OnReset func()
}

// Player steps through a recorded run. It is safe for concurrent use.
type Player struct {
	mu sync.Mutex

	run    *domain.Run
	cursor int
	state  State
	hooks  Hooks
	acc    accumulator

	speed     float64
	loop      bool
	baseDelay time.Duration
	clock     Clock
	stop      func() // live ticker, nil when not playing
	closed    bool
	gen       uint64 // bumped whenever the ticker changes; stale ticks are dropped

	logger *slog.Logger
}

// New creates a Player with an empty run.
func New(opts ...Option) *Player {
	p := &Player{
		cursor:    -1,
		speed:     1,
		baseDelay: DefaultBaseDelay,
		clock:     SystemClock{},
		acc:       newAccumulator(VarsReplay),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load replaces the run and rewinds to the initial snapshot, which is
// emitted. A live ticker is stopped first. Nil hooks keep the current ones.
func (p *Player) Load(run *domain.Run, hooks *Hooks) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pauseLocked()
	if hooks != nil {
		p.hooks = *hooks
	}
	p.run = run
	p.cursor = -1
	p.state = Idle
	p.acc.clear()

	algorithm := ""
	if run != nil {
		algorithm = run.Algorithm
	}
	p.logger.Debug("run loaded", "algorithm", algorithm, "steps", p.run.Len())
	p.emitLocked()
}

// StepForward advances one step. It returns false at the last step.
func (p *Player) StepForward() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.forwardLocked()
}

// StepBackward rewinds one step. It returns false at the initial snapshot.
func (p *Player) StepBackward() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cursor <= -1 {
		return false
	}
	p.cursor--
	p.emitLocked()
	return true
}

// Reset stops autoplay, rewinds to the initial snapshot and fires OnReset.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pauseLocked()
	p.state = Idle
	p.cursor = -1
	p.emitLocked()
	if p.hooks.OnReset != nil {
		p.hooks.OnReset()
	}
}

// Play starts autoplay from the current cursor. It is a no-op while playing
// and after Close.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop != nil || p.closed {
		return
	}
	p.startLocked()
	p.state = Playing
	p.logger.Debug("playback started", "cursor", p.cursor, "interval", p.intervalLocked())
	if p.hooks.OnPlay != nil {
		p.hooks.OnPlay()
	}
}

// Pause stops autoplay. OnPause fires only if a ticker was live.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseLocked()
}

// Close stops autoplay for good. Play is ignored afterwards; stepping still
// works so that late readers see a consistent cursor.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseLocked()
	p.closed = true
}

// SetSpeed sets the speed multiplier, clamped to [MinSpeed, MaxSpeed].
// NaN resets to 1. A live ticker is restarted at the new interval without
// firing OnPause or OnPlay.
func (p *Player) SetSpeed(speed float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.speed = clampSpeed(speed)
	if p.stop != nil {
		p.stopLocked()
		p.startLocked()
	}
}

// SetLoop enables or disables wrapping to the initial snapshot at the end.
func (p *Player) SetLoop(loop bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loop = loop
}

// Loop reports whether looping is enabled.
func (p *Player) Loop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loop
}

// Speed returns the current speed multiplier.
func (p *Player) Speed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

// IsPlaying reports whether a ticker is live.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}

// State returns the playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Position returns the cursor and the number of steps.
func (p *Player) Position() (index, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor, p.run.Len()
}

// Current returns the emission for the cursor without notifying observers.
func (p *Player) Current() Emission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.emissionLocked()
}

// Interval returns the tick interval at the current speed.
func (p *Player) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.intervalLocked()
}

func (p *Player) forwardLocked() bool {
	if p.cursor >= p.run.Len()-1 {
		return false
	}
	p.cursor++
	p.emitLocked()
	return true
}

func (p *Player) emitLocked() {
	p.acc.moveTo(p.run, p.cursor)
	if p.hooks.OnStep != nil {
		p.hooks.OnStep(p.emissionLocked())
	}
}

// emissionLocked copies the step and state so observers cannot reach the run.
func (p *Player) emissionLocked() Emission {
	step, state := p.run.At(p.cursor)
	e := Emission{
		Index:     p.cursor,
		Total:     p.run.Len(),
		State:     state.Clone(),
		Variables: p.acc.view(),
	}
	if step != nil {
		s := step.Clone()
		e.Step = &s
	}
	return e
}

func (p *Player) intervalLocked() time.Duration {
	return time.Duration(float64(p.baseDelay) / p.speed)
}

func (p *Player) startLocked() {
	p.gen++
	gen := p.gen
	p.stop = p.clock.Tick(p.intervalLocked(), func() { p.tick(gen) })
}

// stopLocked cancels the live ticker and reports whether there was one.
func (p *Player) stopLocked() bool {
	if p.stop == nil {
		return false
	}
	p.stop()
	p.stop = nil
	p.gen++
	return true
}

func (p *Player) pauseLocked() {
	if !p.stopLocked() {
		return
	}
	p.state = Paused
	p.logger.Debug("playback paused", "cursor", p.cursor)
	if p.hooks.OnPause != nil {
		p.hooks.OnPause()
	}
}

func (p *Player) tick(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen || p.stop == nil {
		return
	}
	if p.forwardLocked() {
		return
	}
	if p.loop {
		p.cursor = -1
		p.emitLocked()
		return
	}
	p.pauseLocked()
}

func clampSpeed(speed float64) float64 {
	if math.IsNaN(speed) {
		return 1
	}
	return min(MaxSpeed, max(MinSpeed, speed))
}
