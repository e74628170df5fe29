package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/campusmap/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing read-only campus directory tools. Contact details are never returned.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dir, err := loadDirectory(context.Background(), cfg)
		if err != nil {
			return err
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "campusmap MCP server started on stdio (locations=%d)\n", dir.Len())

		srv := mcpserver.NewServer(dir)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
