package commands

import (
	"github.com/spf13/cobra"

	"github.com/ezpy/ezdev/internal/project"
)

// mcpConfigLMStudio switches the output to the LM Studio shape.
var mcpConfigLMStudio bool

func init() {
	mcpConfigCmd.Flags().BoolVar(&mcpConfigLMStudio, "lm-studio", false,
		"emit the LM Studio mcp.json shape instead of the mcpServers document")
	rootCmd.AddCommand(mcpConfigCmd)
}

var mcpConfigCmd = &cobra.Command{
	Use:   "mcp_config",
	Short: "Print the MCP client configuration JSON",
	Long: `Print the JSON snippet an MCP client needs to launch this server:
the uv command, its arguments, and the invocation directory as the
working directory. Paste it into the client's server configuration.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTask(cmd, "mcp_config", func(p *project.Project) {
			p.LMStudio = mcpConfigLMStudio
		})
	},
}
