package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/algotrace"
	"github.com/aretw0/algotrace/internal/cli"
	"github.com/aretw0/algotrace/internal/presentation/tui"
	"github.com/aretw0/algotrace/pkg/playback"
)

var runFlags inputFlags

var runCmd = &cobra.Command{
	Use:   "run <algorithm>",
	Short: "Play an algorithm step by step",
	Long: `Runs an algorithm on an input and plays the recorded trace.

Interactive keys: space play/pause, right arrow or n next, left arrow or p
previous, r reset, l loop, + and - speed, q quit.

With --json every emission is written as one JSON object per line, stepping
through the trace at once, or at playback speed with --play.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		play, _ := cmd.Flags().GetBool("play")

		def, in, err := runFlags.resolve(args)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		engine, closeEngine := newEngine(ctx, appConfig)
		defer closeEngine()

		opts := playerOptions(cmd)
		out := cmd.OutOrStdout()

		if jsonMode {
			lines := cli.NewJSONLines(out)
			p, err := engine.NewPlayer(ctx, def.ID, in, lines.Hooks(), opts...)
			if err != nil {
				return err
			}
			if play {
				return cli.HandleExecutionError(lines.Play(ctx, p))
			}
			return lines.Drain(p)
		}

		stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))
		if stdoutTTY {
			tui.PrintBanner(out, strings.TrimSpace(algotrace.Version))
		}
		ui := cli.NewInteractive(cmd.InOrStdin(), out, tui.Frame{Title: def.Name})
		ui.Clear = stdoutTTY
		p, err := engine.NewPlayer(ctx, def.ID, in, ui.Hooks(), opts...)
		if err != nil {
			return err
		}
		if play {
			p.Play()
		}
		return cli.HandleExecutionError(ui.Run(ctx, p))
	},
}

// playerOptions layers the speed and loop flags over the config file.
func playerOptions(cmd *cobra.Command) []playback.Option {
	opts := appConfig.PlayerOptions()
	if cmd.Flags().Changed("speed") {
		speed, _ := cmd.Flags().GetFloat64("speed")
		opts = append(opts, playback.WithSpeed(speed))
	}
	if cmd.Flags().Changed("loop") {
		loop, _ := cmd.Flags().GetBool("loop")
		opts = append(opts, playback.WithLoop(loop))
	}
	if leaky, _ := cmd.Flags().GetBool("leaky-vars"); leaky {
		opts = append(opts, playback.WithVariableMode(playback.VarsLeaky))
	}
	return opts
}

func addInputFlags(cmd *cobra.Command, f *inputFlags) {
	cmd.Flags().StringVar(&f.input, "input", "", "Input as a JSON object, e.g. '{\"array\":[3,1,2]}' (defaults apply to missing fields)")
	cmd.Flags().StringVar(&f.permalink, "permalink", "", "Load the algorithm and input from a permalink or its state blob")
	cmd.Flags().IntVar(&f.random, "random", 0, "Replace the sequence input with this many random values")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Seed for --random (0 picks one)")
}

func init() {
	rootCmd.AddCommand(runCmd)
	addInputFlags(runCmd, &runFlags)
	runCmd.Flags().Float64("speed", 1, "Speed multiplier (0.1 to 3)")
	runCmd.Flags().Bool("loop", false, "Restart from the initial state after the last step")
	runCmd.Flags().Bool("play", false, "Start playing immediately")
	runCmd.Flags().Bool("json", false, "Write emissions as JSON lines instead of drawing frames")
	runCmd.Flags().Bool("leaky-vars", false, "Keep variables of later steps when stepping back")
}
