package task

import (
	"context"

	"github.com/ezpy/ezdev/internal/errors"
)

// Task is a named operation with declared dependencies.
type Task struct {
	// Name is the unique task identifier used on the command line.
	Name string

	// Summary is a one-line description for task listings.
	Summary string

	// Deps are task names that must complete successfully first.
	Deps []string

	// Run executes the task body. It is only called after all Deps
	// succeeded. A nil Run is valid for aggregate tasks like setup.
	Run func(ctx context.Context) error
}

// Registry holds named tasks and resolves execution order.
type Registry struct {
	tasks map[string]*Task
	order []string
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*Task)}
}

// Register adds a task to the registry.
// It rejects empty names and duplicates.
func (r *Registry) Register(t *Task) error {
	if t == nil || t.Name == "" {
		return errors.New("task name is required")
	}
	if _, exists := r.tasks[t.Name]; exists {
		return errors.Newf("task %q already registered", t.Name)
	}
	r.tasks[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// MustRegister is Register for the built-in task table, where a
// registration error is a programming bug.
func (r *Registry) MustRegister(t *Task) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get returns the task with the given name.
func (r *Registry) Get(name string) (*Task, bool) {
	t, ok := r.tasks[name]
	return t, ok
}

// Names returns all task names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Resolve returns the execution order for the named task: dependencies
// before dependents, each task exactly once. Unknown tasks return
// ErrTaskNotFound; dependency cycles return ErrTaskCycle.
func (r *Registry) Resolve(name string) ([]*Task, error) {
	var (
		order   []*Task
		done    = make(map[string]bool)
		onStack = make(map[string]bool)
	)

	var visit func(string) error
	visit = func(n string) error {
		if done[n] {
			return nil
		}
		if onStack[n] {
			return errors.Wrapf(errors.ErrTaskCycle, "involving %q", n)
		}
		t, ok := r.tasks[n]
		if !ok {
			return errors.Wrapf(errors.ErrTaskNotFound, "%q", n)
		}

		onStack[n] = true
		for _, dep := range t.Deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		onStack[n] = false

		done[n] = true
		order = append(order, t)
		return nil
	}

	if err := visit(name); err != nil {
		return nil, err
	}
	return order, nil
}
