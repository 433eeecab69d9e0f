package image

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/execx"
)

func TestDockerfile_Defaults(t *testing.T) {
	content, err := Dockerfile(Options{})
	if err != nil {
		t.Fatalf("Dockerfile() error = %v", err)
	}

	for _, want := range []string{
		"FROM python:3.12-alpine",
		"WORKDIR /app",
		"pip install --no-cache-dir uv",
		"COPY pyproject.toml uv.lock ./",
		"uv sync --frozen --no-dev",
		`CMD ["uv", "run", "python", "mcp_server.py", "--transport", "stdio"]`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Dockerfile missing %q:\n%s", want, content)
		}
	}
}

func TestDockerfile_ManifestsCopiedBeforeSource(t *testing.T) {
	content, err := Dockerfile(Options{})
	if err != nil {
		t.Fatal(err)
	}
	manifests := strings.Index(content, "COPY pyproject.toml uv.lock ./")
	source := strings.Index(content, "COPY . .")
	if manifests == -1 || source == -1 || manifests > source {
		t.Error("dependency manifests must be copied before application source")
	}
}

func TestDockerfile_RemovesOnlyBuildDeps(t *testing.T) {
	content, err := Dockerfile(Options{
		RuntimePackages: []string{"tzdata", "libstdc++"},
		BuildPackages:   []string{"build-base", "cmake", "pkgconf"},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Runtime packages are installed outside the virtual group, so the
	// final apk del cannot take them out.
	if !strings.Contains(content, "apk add --no-cache tzdata libstdc++") {
		t.Errorf("runtime packages not installed plainly:\n%s", content)
	}
	if !strings.Contains(content, "apk add --no-cache --virtual .build-deps build-base cmake pkgconf") {
		t.Errorf("build packages not grouped as %s:\n%s", BuildDepsGroup, content)
	}

	delCount := strings.Count(content, "apk del")
	if delCount != 1 || !strings.Contains(content, "apk del "+BuildDepsGroup) {
		t.Errorf("expected a single apk del of %s:\n%s", BuildDepsGroup, content)
	}

	// The removal happens after the dependency install and before the
	// source copy, leaving the runtime layer intact.
	del := strings.Index(content, "apk del "+BuildDepsGroup)
	sync := strings.Index(content, "uv sync --frozen")
	if del < sync {
		t.Error("build deps removed before dependency install")
	}
}

func TestDockerfile_CustomOptions(t *testing.T) {
	content, err := Dockerfile(Options{
		BaseImage:  "python:3.13-alpine",
		Entrypoint: "server.py",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content, "FROM python:3.13-alpine") {
		t.Errorf("base image not applied:\n%s", content)
	}
	if !strings.Contains(content, `"server.py"`) {
		t.Errorf("entrypoint not applied:\n%s", content)
	}
}

func TestBuilder_Build(t *testing.T) {
	dir := t.TempDir()
	fake := execx.NewFake()

	b := NewBuilder(fake, "ezpy-tools:alpine", dir, Options{})
	if err := b.Build(context.Background()); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Dockerfile lands in the build context.
	if _, err := os.Stat(filepath.Join(dir, "Dockerfile")); err != nil {
		t.Errorf("Dockerfile not written: %v", err)
	}

	if len(fake.Calls) != 1 || fake.Calls[0].Name != "docker" {
		t.Fatalf("Calls = %v", fake.CallNames())
	}
	args := strings.Join(fake.Calls[0].Args, " ")
	if !strings.Contains(args, "build -t ezpy-tools:alpine") {
		t.Errorf("docker args = %q", args)
	}
}

func TestBuilder_BuildFailurePropagates(t *testing.T) {
	fake := execx.NewFake()
	fake.Script("docker", execx.Result{Err: errors.New("exit status 1")})

	b := NewBuilder(fake, "ezpy-tools:alpine", t.TempDir(), Options{})
	if err := b.Build(context.Background()); err == nil {
		t.Error("expected build failure to propagate")
	}
}

func TestBuilder_MissingDocker(t *testing.T) {
	fake := execx.NewFake()
	fake.MissingTools = []string{"docker"}

	b := NewBuilder(fake, "ezpy-tools:alpine", t.TempDir(), Options{})
	err := b.Build(context.Background())
	if !errors.Is(err, errors.ErrToolMissing) {
		t.Errorf("expected ErrToolMissing, got %v", err)
	}
}
