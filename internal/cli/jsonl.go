package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/algotrace/pkg/playback"
	"github.com/aretw0/algotrace/pkg/session"
)

// JSONLines writes every player event as one JSON object per line, in the
// same shape the HTTP event stream uses.
type JSONLines struct {
	mu     sync.Mutex
	enc    *json.Encoder
	err    error
	paused chan struct{}
}

// NewJSONLines creates a writer over w.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{
		enc:    json.NewEncoder(w),
		paused: make(chan struct{}, 1),
	}
}

// Hooks returns the observer callbacks to load the player with.
func (j *JSONLines) Hooks() *playback.Hooks {
	return &playback.Hooks{
		OnStep: func(e playback.Emission) {
			j.write(session.Event{Type: session.EventStep, Emission: &e})
		},
		OnPlay: func() { j.write(session.Event{Type: session.EventPlay}) },
		OnPause: func() {
			j.write(session.Event{Type: session.EventPause})
			select {
			case j.paused <- struct{}{}:
			default:
			}
		},
		OnReset: func() { j.write(session.Event{Type: session.EventReset}) },
	}
}

// Drain steps p forward to the last step without waiting between steps.
func (j *JSONLines) Drain(p *playback.Player) error {
	for p.StepForward() {
	}
	return j.Err()
}

// Play autoplays p and returns once it pauses at the end or ctx is done.
// A looping player only stops with ctx.
func (j *JSONLines) Play(ctx context.Context, p *playback.Player) error {
	p.Play()
	select {
	case <-j.paused:
		return j.Err()
	case <-ctx.Done():
		p.Pause()
		return ctx.Err()
	}
}

// Err returns the first write error.
func (j *JSONLines) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

func (j *JSONLines) write(ev session.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return
	}
	if err := j.enc.Encode(ev); err != nil {
		j.err = fmt.Errorf("failed to write event: %w", err)
	}
}
