package commands

func init() {
	rootCmd.AddCommand(inspectorCmd)
}

var inspectorCmd = taskCommand("inspector",
	"Launch the MCP inspector against the server",
	`Start the MCP inspector through npx, wired to launch the tools
server over stdio. Requires Node.js.`)
