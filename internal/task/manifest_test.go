package task

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ezpy/ezdev/internal/execx"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ezdev.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest_MissingFileIsFine(t *testing.T) {
	reg := NewRegistry()
	err := LoadManifest(filepath.Join(t.TempDir(), "ezdev.toml"), reg, execx.NewFake())
	if err != nil {
		t.Errorf("missing manifest should not error: %v", err)
	}
}

func TestLoadManifest_RegistersTask(t *testing.T) {
	path := writeManifest(t, `
[tasks.freeze]
summary = "export the locked dependency set"
deps = ["py_req"]

[[tasks.freeze.cmds]]
program = "uv"
args = ["export", "--frozen"]
`)

	reg := NewRegistry()
	reg.MustRegister(&Task{Name: "py_req", Run: func(context.Context) error { return nil }})

	fake := execx.NewFake()
	if err := LoadManifest(path, reg, fake); err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}

	tk, ok := reg.Get("freeze")
	if !ok {
		t.Fatal("manifest task not registered")
	}
	if tk.Summary != "export the locked dependency set" {
		t.Errorf("Summary = %q", tk.Summary)
	}
	if len(tk.Deps) != 1 || tk.Deps[0] != "py_req" {
		t.Errorf("Deps = %v", tk.Deps)
	}

	if err := tk.Run(context.Background()); err != nil {
		t.Fatalf("manifest task run error = %v", err)
	}
	if len(fake.Calls) != 1 || fake.Calls[0].Name != "uv" {
		t.Errorf("Calls = %v", fake.Calls)
	}
	if len(fake.Calls[0].Args) != 2 || fake.Calls[0].Args[0] != "export" {
		t.Errorf("Args = %v", fake.Calls[0].Args)
	}
}

func TestLoadManifest_RejectsShadowing(t *testing.T) {
	path := writeManifest(t, `
[tasks.lint]
[[tasks.lint.cmds]]
program = "true"
`)

	reg := NewRegistry()
	reg.MustRegister(&Task{Name: "lint", Run: func(context.Context) error { return nil }})

	if err := LoadManifest(path, reg, execx.NewFake()); err == nil {
		t.Error("expected error when manifest shadows a built-in")
	}
}

func TestLoadManifest_RejectsEmptyCmds(t *testing.T) {
	path := writeManifest(t, `
[tasks.hollow]
summary = "no body"
`)

	if err := LoadManifest(path, NewRegistry(), execx.NewFake()); err == nil {
		t.Error("expected error for task with no cmds")
	}
}

func TestLoadManifest_BadTOML(t *testing.T) {
	path := writeManifest(t, "tasks = [broken")
	if err := LoadManifest(path, NewRegistry(), execx.NewFake()); err == nil {
		t.Error("expected parse error")
	}
}
