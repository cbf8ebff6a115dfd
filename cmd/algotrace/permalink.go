package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/algotrace/pkg/permalink"
)

var permalinkCmd = &cobra.Command{
	Use:   "permalink",
	Short: "Encode and decode shareable run links",
}

var encodeFlags inputFlags

var permalinkEncodeCmd = &cobra.Command{
	Use:   "encode <algorithm>",
	Short: "Print the state blob and link for an algorithm and input",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, _ := cmd.Flags().GetString("base-url")
		if !cmd.Flags().Changed("base-url") {
			base = appConfig.Server.BaseURL
		}

		def, in, err := encodeFlags.resolve(args)
		if err != nil {
			return err
		}
		link, err := permalink.URL(base, def.ID, in)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), permalink.Encode(def.ID, in))
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	},
}

var permalinkDecodeCmd = &cobra.Command{
	Use:   "decode <state-or-url>",
	Short: "Print the algorithm and input a permalink carries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := permalink.Decode(permalinkState(args[0]))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

func init() {
	rootCmd.AddCommand(permalinkCmd)
	permalinkCmd.AddCommand(permalinkEncodeCmd, permalinkDecodeCmd)
	addInputFlags(permalinkEncodeCmd, &encodeFlags)
	permalinkEncodeCmd.Flags().String("base-url", "/", "Page the link points at (default from config)")
}
