/*
Package playback drives a recorded run over time.

A Player holds one run and a cursor in [-1, N-1], where -1 is the initial
snapshot before any step. Callers move the cursor by hand (StepForward,
StepBackward, Reset) or start autoplay (Play), which advances one step per
tick of an injected Clock until the run ends or Pause is called. Every cursor
change is reported to Hooks.OnStep as an Emission.

# Usage

	p := playback.New(playback.WithSpeed(2), playback.WithLoop(true))
	p.Load(run, &playback.Hooks{
		OnStep: func(e playback.Emission) { render(e) },
	})
	p.Play()
	defer p.Pause()

Hooks run synchronously while the player lock is held. They must not call
back into the Player.
*/
package playback
