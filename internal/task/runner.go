package task

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/logging"
)

// Runner executes tasks in dependency order.
type Runner struct {
	reg *Registry
	out io.Writer
}

// NewRunner creates a Runner writing progress to out.
// A nil out defaults to os.Stdout.
func NewRunner(reg *Registry, out io.Writer) *Runner {
	if out == nil {
		out = os.Stdout
	}
	return &Runner{reg: reg, out: out}
}

// Run resolves and executes the named task.
// Execution is sequential and fail-fast: the first failing task aborts
// the run, and no task runs more than once per invocation.
func (r *Runner) Run(ctx context.Context, name string) error {
	order, err := r.reg.Resolve(name)
	if err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	useColor := logging.SupportsColor(r.out)

	for i, t := range order {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "run aborted before %q", t.Name)
		}

		label := t.Name
		if useColor {
			label = color.New(color.Bold).Sprint(label)
		}
		fmt.Fprintf(r.out, "[%d/%d] %s\n", i+1, len(order), label)

		if t.Run == nil {
			continue
		}

		start := time.Now()
		if err := t.Run(ctx); err != nil {
			logger.Error("task failed", "task", t.Name, "elapsed", time.Since(start).Round(time.Millisecond))
			return errors.Wrapf(err, "task %s", t.Name)
		}
		logger.Debug("task done", "task", t.Name, "elapsed", time.Since(start).Round(time.Millisecond))
	}

	return nil
}
