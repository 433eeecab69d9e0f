package commands

func init() {
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(pyReqCmd)
	rootCmd.AddCommand(userInfoCmd)
}

var setupCmd = taskCommand("setup",
	"Prepare a fresh checkout end to end",
	`Run the full first-time setup: verify the Python toolchain, sync
dependencies, complete the user-info record, and print the MCP client
configuration. Equivalent to running py_req, user_info, and mcp_config
in dependency order.`)

var pyReqCmd = taskCommand("py_req",
	"Verify the Python interpreter and install uv if absent",
	`Check that python3 meets the configured minimum version and that the
uv dependency tool is on PATH, installing uv through pip when missing.`)

var userInfoCmd = taskCommand("user_info",
	"Sync dependencies and complete user.data.json",
	`Run uv sync, then interactively fill in any missing fields of the
user.data.json record. A complete record is left untouched, so the
command is safe to re-run.`)
