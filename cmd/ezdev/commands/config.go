package commands

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = taskCommand("config",
	"Render the mcphost config from its template",
	`Source the project's optional .env file, expand ${VAR} references in
the mcphost config template, and write the rendered YAML next to it.
Values from .env take precedence over the process environment.`)
