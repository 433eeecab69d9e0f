package commands

import (
	"github.com/spf13/cobra"

	"github.com/ezpy/ezdev/internal/execx"
	"github.com/ezpy/ezdev/internal/project"
	"github.com/ezpy/ezdev/internal/task"
)

// newProject binds the loaded configuration to the real process runner
// and the command's output stream.
func newProject(cmd *cobra.Command) (*project.Project, error) {
	p, err := project.New(cfg, execx.System())
	if err != nil {
		return nil, err
	}
	p.Out = cmd.OutOrStdout()
	return p, nil
}

// runTask executes one named task with its dependencies. The configure
// hook lets commands adjust the project before the registry is built.
func runTask(cmd *cobra.Command, name string, configure func(*project.Project)) error {
	p, err := newProject(cmd)
	if err != nil {
		return err
	}
	if configure != nil {
		configure(p)
	}
	reg, err := p.Tasks()
	if err != nil {
		return err
	}
	return task.NewRunner(reg, cmd.OutOrStdout()).Run(cmd.Context(), name)
}

// taskCommand builds the common shape of a command that just runs one
// registered task.
func taskCommand(name, short, long string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd, name, nil)
		},
	}
}
