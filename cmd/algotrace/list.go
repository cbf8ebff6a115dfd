package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aretw0/algotrace/pkg/algorithms"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available algorithms",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		jsonMode, _ := cmd.Flags().GetBool("json")

		defs := filterCategory(algorithms.All(), category)
		if jsonMode {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(defs)
		}
		writeCatalog(cmd.OutOrStdout(), defs)
		return nil
	},
}

func filterCategory(defs []algorithms.Definition, category string) []algorithms.Definition {
	if category == "" {
		return defs
	}
	var out []algorithms.Definition
	for _, d := range defs {
		if strings.EqualFold(d.Category, category) {
			out = append(out, d)
		}
	}
	return out
}

func writeCatalog(w io.Writer, defs []algorithms.Definition) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"ID", "Name", "Category", "Input"})
	tbl.SetAutoWrapText(false)
	for _, d := range defs {
		tbl.Append([]string{d.ID, d.Name, d.Category, string(d.InputKind)})
	}
	tbl.Render()
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("category", "", "Only list this category")
	listCmd.Flags().Bool("json", false, "Print the catalog as JSON")
}
