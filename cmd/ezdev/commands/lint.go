package commands

func init() {
	rootCmd.AddCommand(lintCmd)
}

var lintCmd = taskCommand("lint",
	"Format, lint, and type-check the Python sources",
	`Run the project's lint pipeline in order: ruff format, ruff check
with auto-fix, then mypy. The pipeline stops at the first failing
stage.`)
