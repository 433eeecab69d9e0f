package commands

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runMCPCmd)
}

var runCmd = taskCommand("run",
	"Run the MCP server with the HTTP transport",
	`Launch the tools server in the foreground over the HTTP transport on
the configured port. Stops when the server exits or on Ctrl-C.`)

var runMCPCmd = taskCommand("run_mcp",
	"Run the server, restarting when Python sources change",
	`Launch the server like run, additionally watching the project tree
for changes to files matching the configured pattern (default **/*.py)
and restarting the server when they change.`)
