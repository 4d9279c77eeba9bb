package main

import (
	"context"

	"github.com/spf13/cobra"

	"nivizrater/internal/database"
	"nivizrater/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	extra, err := parsePragmaFlags(pragmaFlags)
	if err != nil {
		return err
	}

	var cache database.Cache
	defer cache.Close(ctx)

	db, err := cache.GetOrResolve(ctx, newResolver(logger), cfg, extra...)
	if err != nil {
		return err
	}
	logger.Info("serving mcp", "backend", db.Backend())

	server := mcp.NewServer(db, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
