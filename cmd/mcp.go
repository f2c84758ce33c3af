/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/tasksage/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server so AI assistants can plan
tasks with tasksage.

Tools:
  group_tasks, prioritize_tasks, infer_dependencies,
  create_schedule, find_similar_tasks

The server speaks JSON-RPC over stdio and runs until the client disconnects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

func runMCPServer(ctx context.Context) error {
	// stdout carries JSON-RPC only; status goes to stderr.
	fmt.Fprintln(os.Stderr, "tasksage MCP server starting...")

	engine, err := buildEngine(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}

	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "tasksage",
		Version: version,
	}, &mcpsdk.ServerOptions{})

	mcp.Register(server, mcp.NewHandlers(engine, buildBriefer(ctx), nil))

	if err := server.Run(ctx, mcpsdk.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
