package commands

func init() {
	rootCmd.AddCommand(setupOllamaCmd)
	rootCmd.AddCommand(runOllamaCmd)
}

var setupOllamaCmd = taskCommand("setup_ollama",
	"Pull the configured Ollama model",
	`Download the configured model through ollama pull so the first chat
session does not stall on the fetch. The OLLAMA_MODEL environment
variable overrides the configured model.`)

var runOllamaCmd = taskCommand("run_ollama",
	"Start Ollama and launch an mcphost session",
	`Render the mcphost configuration, start the Ollama daemon in the
background if it is not already running, wait until it answers on its
HTTP endpoint, and launch an interactive mcphost session against it.
A daemon started here is stopped when the session ends.`)
