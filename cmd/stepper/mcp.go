package main

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/spf13/cobra"

	mcptools "github.com/felixgeelhaar/stepper/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agent integration",
	Long: `Start a Model Context Protocol (MCP) server for AI agent integration.

The server exposes the sessions of one definition so an agent can walk a
user through the flow.

Available tools:
  - stepper_status        Current step and every step's status
  - stepper_sessions      List stored sessions
  - stepper_next          Move to the next step
  - stepper_prev          Move to the previous step
  - stepper_goto          Jump to a step
  - stepper_set_metadata  Store and validate step data
  - stepper_set_status    Override a step status
  - stepper_complete      Mark a step as done
  - stepper_undo          Undo the last change
  - stepper_redo          Redo the last undone change
  - stepper_reset         Reset the session
  - stepper_clear         Delete the stored session

Examples:
  stepper mcp -f checkout.yaml              # Start stdio MCP server
  stepper mcp -f checkout.yaml --http :8080 # Start HTTP MCP server`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

var mcpHTTP string

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringVar(&mcpHTTP, "http", "", "Start HTTP server on address (e.g., :8080)")
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := openService(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	srv := mcp.NewServer(mcp.ServerInfo{
		Name:    "stepper",
		Version: version,
	})

	mcptools.RegisterAll(srv, svc, mcptools.VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
	})

	if mcpHTTP != "" {
		return mcp.ServeHTTP(ctx, srv, mcpHTTP)
	}
	return mcp.ServeStdio(ctx, srv)
}
