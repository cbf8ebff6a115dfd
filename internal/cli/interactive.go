package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/aretw0/algotrace/internal/presentation/tui"
	"github.com/aretw0/algotrace/pkg/playback"
)

// SpeedStep is how much + and - change the speed multiplier.
const SpeedStep = 0.25

const clearScreen = "\x1b[H\x1b[2J"

// Interactive drives a Player from the keyboard and redraws a frame on
// every emission.
type Interactive struct {
	In    io.Reader
	Out   io.Writer
	Frame tui.Frame

	// Clear redraws in place instead of appending frames.
	Clear bool

	mu    sync.Mutex
	last  playback.Emission
	state playback.State
	speed float64
	loop  bool
	raw   bool
}

// NewInteractive creates a player UI reading keys from in.
func NewInteractive(in io.Reader, out io.Writer, frame tui.Frame) *Interactive {
	return &Interactive{In: in, Out: out, Frame: frame, speed: 1}
}

// Hooks returns the observer callbacks to load the player with.
// They never call back into the Player.
func (ui *Interactive) Hooks() *playback.Hooks {
	return &playback.Hooks{
		OnStep: func(e playback.Emission) {
			ui.mu.Lock()
			ui.last = e
			ui.mu.Unlock()
			ui.redraw()
		},
		OnPlay:  func() { ui.setState(playback.Playing) },
		OnPause: func() { ui.setState(playback.Paused) },
		OnReset: func() { ui.setState(playback.Idle) },
	}
}

// Run reads keys until q, Ctrl-C, end of input or ctx is done. A terminal
// input is switched to raw mode for the duration.
func (ui *Interactive) Run(ctx context.Context, p *playback.Player) error {
	if f, ok := ui.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		ui.setRaw(true)
		defer func() {
			_ = term.Restore(fd, oldState)
			ui.setRaw(false)
		}()
	}
	defer p.Pause()

	ui.sync(p)
	ui.redraw()

	keys := make(chan []Command)
	errs := make(chan error, 1)
	go ui.readKeys(ctx, keys, errs)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errs:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read keys: %w", err)
		case cmds := <-keys:
			for _, cmd := range cmds {
				if cmd == CmdQuit {
					return nil
				}
				Apply(p, cmd)
			}
			ui.sync(p)
			ui.redraw()
		}
	}
}

// Apply performs one command on p. Toggling play on the last step of a
// non-looping run starts over from the initial snapshot.
func Apply(p *playback.Player, cmd Command) {
	switch cmd {
	case CmdToggle:
		if p.IsPlaying() {
			p.Pause()
			return
		}
		if index, total := p.Position(); total > 0 && index == total-1 && !p.Loop() {
			p.Reset()
		}
		p.Play()
	case CmdForward:
		p.StepForward()
	case CmdBackward:
		p.StepBackward()
	case CmdReset:
		p.Reset()
	case CmdLoop:
		p.SetLoop(!p.Loop())
	case CmdFaster:
		p.SetSpeed(p.Speed() + SpeedStep)
	case CmdSlower:
		p.SetSpeed(p.Speed() - SpeedStep)
	}
}

func (ui *Interactive) readKeys(ctx context.Context, keys chan<- []Command, errs chan<- error) {
	buf := make([]byte, 64)
	for {
		n, err := ui.In.Read(buf)
		if n > 0 {
			if cmds := ParseKeys(buf[:n]); len(cmds) > 0 {
				select {
				case keys <- cmds:
				case <-ctx.Done():
					return
				}
			}
		}
		if err != nil {
			errs <- err
			return
		}
	}
}

// sync copies the settings the hooks cannot see.
func (ui *Interactive) sync(p *playback.Player) {
	state, speed, loop := p.State(), p.Speed(), p.Loop()
	ui.mu.Lock()
	ui.state, ui.speed, ui.loop = state, speed, loop
	ui.mu.Unlock()
}

func (ui *Interactive) setState(s playback.State) {
	ui.mu.Lock()
	ui.state = s
	ui.mu.Unlock()
	ui.redraw()
}

func (ui *Interactive) setRaw(raw bool) {
	ui.mu.Lock()
	ui.raw = raw
	ui.mu.Unlock()
}

func (ui *Interactive) redraw() {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	loop := "off"
	if ui.loop {
		loop = "on"
	}
	status := fmt.Sprintf("%s, %.2fx, loop %s", ui.state, ui.speed, loop)
	out := ui.Frame.Render(ui.last, status) + "\n" + KeyHelp + "\n"
	if ui.raw {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	if ui.Clear {
		out = clearScreen + out
	}
	_, _ = io.WriteString(ui.Out, out)
}
