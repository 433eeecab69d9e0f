package task

import (
	"context"
	"testing"

	"github.com/ezpy/ezdev/internal/errors"
)

func noop(context.Context) error { return nil }

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(&Task{Name: "lint", Run: noop}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register(&Task{Name: "lint", Run: noop}); err == nil {
		t.Error("expected error for duplicate name")
	}
	if err := reg.Register(&Task{Name: ""}); err == nil {
		t.Error("expected error for empty name")
	}
	if err := reg.Register(nil); err == nil {
		t.Error("expected error for nil task")
	}
}

func TestRegistry_Resolve_Order(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"py_req", "user_info", "mcp_config"} {
		reg.MustRegister(&Task{Name: name, Run: noop})
	}
	reg.MustRegister(&Task{
		Name: "setup",
		Deps: []string{"py_req", "user_info", "mcp_config"},
	})

	order, err := reg.Resolve("setup")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	got := make([]string, len(order))
	for i, tk := range order {
		got[i] = tk.Name
	}
	want := []string{"py_req", "user_info", "mcp_config", "setup"}
	if len(got) != len(want) {
		t.Fatalf("Resolve() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_Resolve_SharedDepOnce(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(&Task{Name: "py_req", Run: noop})
	reg.MustRegister(&Task{Name: "user_info", Deps: []string{"py_req"}, Run: noop})
	reg.MustRegister(&Task{Name: "docker-build", Deps: []string{"py_req", "user_info"}, Run: noop})

	order, err := reg.Resolve("docker-build")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(order) != 3 {
		t.Errorf("shared dependency resolved more than once: %d tasks", len(order))
	}
}

func TestRegistry_Resolve_Unknown(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(&Task{Name: "run", Deps: []string{"missing"}, Run: noop})

	if _, err := reg.Resolve("nope"); !errors.Is(err, errors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := reg.Resolve("run"); !errors.Is(err, errors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for unknown dep, got %v", err)
	}
}

func TestRegistry_Resolve_Cycle(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(&Task{Name: "a", Deps: []string{"b"}, Run: noop})
	reg.MustRegister(&Task{Name: "b", Deps: []string{"a"}, Run: noop})

	if _, err := reg.Resolve("a"); !errors.Is(err, errors.ErrTaskCycle) {
		t.Errorf("expected ErrTaskCycle, got %v", err)
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(&Task{Name: "b", Run: noop})
	reg.MustRegister(&Task{Name: "a", Run: noop})

	names := reg.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Errorf("Names() = %v, want registration order [b a]", names)
	}
}
