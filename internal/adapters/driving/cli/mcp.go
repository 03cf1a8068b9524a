package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/webrecall/internal/adapters/driving/mcp"
	"github.com/custodia-labs/webrecall/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search and
ask questions of your browsing history.

Tools: search, ask. Resource: webrecall://stats.

By default the server speaks JSON-RPC over stdio. Use --port to serve the
streamable HTTP transport instead, for example to test with MCP Inspector.

Examples:
  # Stdio mode (default)
  webrecall mcp serve

  # HTTP mode
  webrecall mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "webrecall": {
        "command": "/path/to/webrecall",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	// Logs go to stderr, so stdio mode stays clean.
	logger.EnableAtLeast(slog.LevelInfo)

	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search: svc.Search,
		Chat:   svc.Chat,
		Index:  svc.Index,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf("localhost:%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
