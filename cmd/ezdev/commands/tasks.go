package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/logging"
	"github.com/ezpy/ezdev/internal/task"
)

// tasksList forces the plain listing even on a TTY.
var tasksList bool

func init() {
	tasksCmd.Flags().BoolVar(&tasksList, "list", false,
		"print the task table instead of the interactive picker")
	rootCmd.AddCommand(tasksCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List available tasks or pick one to run",
	Long: `Show every registered task, built-in and manifest-defined, with its
summary and dependencies. On a terminal this opens a fuzzy picker and
runs the selected task; use --list for the plain table.`,
	Args: cobra.NoArgs,
	RunE: runTasks,
}

func runTasks(cmd *cobra.Command, _ []string) error {
	p, err := newProject(cmd)
	if err != nil {
		return err
	}
	reg, err := p.Tasks()
	if err != nil {
		return err
	}

	if tasksList || !logging.IsTTY(os.Stdout) {
		printTaskTable(cmd.OutOrStdout(), reg)
		return nil
	}

	name, err := pickTask(reg)
	if err != nil {
		return err
	}
	if name == "" {
		return nil
	}
	return task.NewRunner(reg, cmd.OutOrStdout()).Run(cmd.Context(), name)
}

func printTaskTable(w io.Writer, reg *task.Registry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range reg.Names() {
		t, _ := reg.Get(name)
		deps := ""
		if len(t.Deps) > 0 {
			deps = fmt.Sprintf("(deps: %v)", t.Deps)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, t.Summary, deps)
	}
	tw.Flush()
}

// pickTask opens the fuzzy finder; an aborted pick returns "" with no
// error.
func pickTask(reg *task.Registry) (string, error) {
	names := reg.Names()
	idx, err := fuzzyfinder.Find(
		names,
		func(i int) string {
			t, _ := reg.Get(names[i])
			return fmt.Sprintf("%s: %s", t.Name, t.Summary)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			t, _ := reg.Get(names[i])
			return fmt.Sprintf("Task: %s\nDeps: %v\n\n%s", t.Name, t.Deps, t.Summary)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", nil
		}
		return "", errors.Wrap(err, "interactive task pick failed")
	}
	return names[idx], nil
}
