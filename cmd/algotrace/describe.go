package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/algotrace/internal/presentation/tui"
	"github.com/aretw0/algotrace/pkg/algorithms"
	"github.com/aretw0/algotrace/pkg/domain"
)

var describeFlags inputFlags

// describeSteps is how many steps describe lists.
const describeSteps = 5

var describeCmd = &cobra.Command{
	Use:   "describe <algorithm>",
	Short: "Describe an algorithm and summarize its trace",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")
		width, _ := cmd.Flags().GetInt("width")

		def, in, err := describeFlags.resolve(args)
		if err != nil {
			return err
		}
		engine, closeEngine := newEngine(cmd.Context(), appConfig)
		defer closeEngine()

		run, err := engine.Build(cmd.Context(), def.ID, in)
		if err != nil {
			return err
		}

		doc := describeMarkdown(def, in.WithDefaults(def.Defaults), run)
		if raw {
			_, err = io.WriteString(cmd.OutOrStdout(), doc)
			return err
		}
		out, err := tui.NewMarkdownRenderer(width)(doc)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	},
}

func describeMarkdown(def algorithms.Definition, in domain.Input, run *domain.Run) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", def.Name)
	fmt.Fprintf(&b, "`%s` in *%s*. %s.\n\n", def.ID, def.Category, def.Description)

	b.WriteString("## Input\n\n```json\n")
	data, _ := json.MarshalIndent(in, "", "  ")
	b.Write(data)
	b.WriteString("\n```\n\n")

	fmt.Fprintf(&b, "## Trace\n\n%d steps.\n\n", run.Len())
	kinds := map[domain.StepKind]int{}
	for _, st := range run.Steps {
		kinds[st.Kind]++
	}
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, string(k))
	}
	slices.Sort(names)
	b.WriteString("| Operation | Count |\n|---|---|\n")
	for _, name := range names {
		fmt.Fprintf(&b, "| %s | %d |\n", name, kinds[domain.StepKind(name)])
	}

	if run.Len() > 0 {
		b.WriteString("\n## First steps\n\n")
		for i, st := range run.Steps[:min(run.Len(), describeSteps)] {
			fmt.Fprintf(&b, "%d. **%s** %s\n", i+1, st.Kind, st.Description)
		}
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(describeCmd)
	addInputFlags(describeCmd, &describeFlags)
	describeCmd.Flags().Bool("raw", false, "Print the Markdown source")
	describeCmd.Flags().Int("width", 80, "Word wrap width")
}
