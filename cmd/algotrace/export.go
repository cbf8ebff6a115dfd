package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/algotrace/internal/presentation/graph"
	"github.com/aretw0/algotrace/pkg/domain"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a recorded run",
}

var mermaidFlags inputFlags

var exportMermaidCmd = &cobra.Command{
	Use:   "mermaid <algorithm>",
	Short: "Print the snapshot of one step as a Mermaid diagram",
	Long: `Prints a Mermaid diagram (graph, tree or linked list) of the snapshot at
--step. Step -1 is the initial state; the default is the last step.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := buildFromFlags(cmd, mermaidFlags, args)
		if err != nil {
			return err
		}
		step := run.Len() - 1
		if cmd.Flags().Changed("step") {
			step, _ = cmd.Flags().GetInt("step")
		}
		if step < -1 || step >= run.Len() {
			return fmt.Errorf("%w: step %d out of range [-1, %d]", domain.ErrInvalidInput, step, run.Len()-1)
		}

		_, state := run.At(step)
		out, err := graph.GenerateMermaid(state)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	},
}

var jsonFlags inputFlags

var exportJSONCmd = &cobra.Command{
	Use:   "json <algorithm>",
	Short: "Print the whole run as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := buildFromFlags(cmd, jsonFlags, args)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

func buildFromFlags(cmd *cobra.Command, f inputFlags, args []string) (*domain.Run, error) {
	def, in, err := f.resolve(args)
	if err != nil {
		return nil, err
	}
	engine, closeEngine := newEngine(cmd.Context(), appConfig)
	defer closeEngine()
	return engine.Build(cmd.Context(), def.ID, in)
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportMermaidCmd, exportJSONCmd)
	addInputFlags(exportMermaidCmd, &mermaidFlags)
	addInputFlags(exportJSONCmd, &jsonFlags)
	exportMermaidCmd.Flags().Int("step", 0, "Step index, -1 for the initial state (default last step)")
}
