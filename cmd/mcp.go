package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omnidive/omnidive/internal/explorer"
	mcpserver "github.com/omnidive/omnidive/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the explore_topic and recent_searches tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Logs go to stderr; stdout carries the protocol.
		logger, closeLog, err := createLogger(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		cg, ig, err := createGenerators(cfg, logger)
		if err != nil {
			return err
		}

		database, store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		shell := explorer.NewShell(cg, ig, explorer.Options{
			SessionID:    "mcp",
			Policy:       cfg.OverlapPolicy,
			DefaultTopic: cfg.DefaultTopic,
			Logger:       logger,
			Recorder:     store,
		})

		fmt.Fprintf(os.Stderr, "omnidive MCP server started on stdio (provider=%s)\n", cfg.Provider)

		srv := mcpserver.NewServer(shell, store)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
