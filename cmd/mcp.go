package cmd

import (
	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the path2prep MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents recommend careers and match scholarships via standard tools.`,
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr so stdio stays free for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := mcp.StartMCPServer(rootCtx, cfg, cacheManager); err != nil {
			contract.LogWarn("MCP server stopped", err)
			return err
		}
		return nil
	},
}
