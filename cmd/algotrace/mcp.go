package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/aretw0/algotrace/internal/cli"
	"github.com/aretw0/algotrace/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the algorithm catalog and run traces as MCP tools, so agents can
list algorithms, build runs, inspect single steps and share permalinks.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")
		baseURL, _ := cmd.Flags().GetString("base-url")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		engine, closeEngine := newEngine(ctx, appConfig)
		defer closeEngine()

		srv := mcp.NewServer(engine, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			logger.Info("Starting algotrace MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			if baseURL == "" {
				baseURL = "http://localhost" + addr
			}
			logger.Info("Starting algotrace MCP Server (SSE)", "addr", addr, "base_url", baseURL)
			if err := srv.ServeSSE(ctx, addr, baseURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on (only for SSE)")
	mcpCmd.Flags().String("base-url", "", "Public base URL of the SSE endpoint (default http://localhost<addr>)")
}
