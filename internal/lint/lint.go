// Package lint runs the project's Python lint pipeline.
package lint

import (
	"context"

	"github.com/ezpy/ezdev/internal/execx"
	"github.com/ezpy/ezdev/internal/logging"
)

// Step is one stage of the lint pipeline.
type Step struct {
	// Name labels the stage in logs and errors.
	Name string

	// Cmd is the invocation, run through uv so the project venv is used.
	Cmd execx.Cmd
}

// Steps returns the pipeline stages in execution order: format first so
// check and type analysis see canonical source, auto-fixable findings
// repaired, and mypy last as the strictest gate.
func Steps(projectDir string) []Step {
	return []Step{
		{
			Name: "ruff format",
			Cmd:  execx.Cmd{Name: "uv", Args: []string{"run", "ruff", "format", "."}, Dir: projectDir},
		},
		{
			Name: "ruff check",
			Cmd:  execx.Cmd{Name: "uv", Args: []string{"run", "ruff", "check", "--fix", "."}, Dir: projectDir},
		},
		{
			Name: "mypy",
			Cmd:  execx.Cmd{Name: "uv", Args: []string{"run", "mypy", "."}, Dir: projectDir},
		},
	}
}

// Run executes the pipeline, stopping at the first failing stage.
func Run(ctx context.Context, runner execx.Runner, projectDir string) error {
	logger := logging.FromContext(ctx)
	for _, step := range Steps(projectDir) {
		logger.Info("lint stage", "stage", step.Name)
		if err := runner.Run(ctx, step.Cmd); err != nil {
			return err
		}
	}
	return nil
}
