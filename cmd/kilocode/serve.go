package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/bridge"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP server over stdio",
	Long: `Run as an MCP server over stdio.

The assistant commands are exposed as MCP tools (kc, kc-explain, kc-generate,
kc-refactor, kc-fix, kc-docs) so any MCP-capable editor can call them.

Example editor configuration:
  "context_servers": {
    "kilocode": { "command": { "path": "kilocode", "args": ["mcp"] } }
  }`,
	RunE: runMCP,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local WebSocket bridge for editor extensions",
	Long: `Run the local WebSocket bridge for editor extensions.

Clients connect to ws://<addr>/ws and send JSON frames:
  {"id": "1", "command": "kc-explain", "code": "...", "language": "go"}

Each frame is answered with {"type": "result", "id": "1", "text": "..."}
or {"type": "error", "id": "1", "error": "..."}. GET /health reports status.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", bridge.DefaultAddr, "Listen address")
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	server := tools.NewServer(appVersion, a.assistant, tools.Options{
		Config:    a.client,
		DocsStyle: a.settings.DocsStyle,
		Logger:    a.logger,
	})

	a.logger.Info("mcp server starting", "model", a.client.Model)
	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")

	s := bridge.New(a.assistant,
		bridge.WithDocsStyle(a.settings.DocsStyle),
		bridge.WithLogger(a.logger),
		bridge.WithVersion(appVersion),
	)
	return s.ListenAndServe(cmd.Context(), addr)
}
