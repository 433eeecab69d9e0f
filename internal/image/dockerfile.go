// Package image builds the tools server container image.
//
// The Dockerfile is generated, not checked in: the build recipe is a
// direct function of configuration (base image, entrypoint), and
// generating it keeps the layer-cache-friendly ordering — manifests
// before source, transient toolchain removed after dependency install —
// in one place.
package image

import (
	"strings"
	"text/template"

	"github.com/ezpy/ezdev/internal/errors"
)

// BuildDepsGroup is the apk virtual package group holding compilers
// and build tooling needed only while native extensions compile.
const BuildDepsGroup = ".build-deps"

// Options control Dockerfile generation.
type Options struct {
	// BaseImage is the runtime base, e.g. python:3.12-alpine.
	BaseImage string

	// Entrypoint is the server script launched by the default command.
	Entrypoint string

	// RuntimePackages are OS packages the server needs at runtime.
	RuntimePackages []string

	// BuildPackages are OS packages needed only to compile native
	// dependency extensions; they are removed after uv sync.
	BuildPackages []string
}

func (o *Options) applyDefaults() {
	if o.BaseImage == "" {
		o.BaseImage = "python:3.12-alpine"
	}
	if o.Entrypoint == "" {
		o.Entrypoint = "mcp_server.py"
	}
	if o.RuntimePackages == nil {
		o.RuntimePackages = []string{"tzdata", "libstdc++"}
	}
	if o.BuildPackages == nil {
		o.BuildPackages = []string{"build-base", "cmake", "pkgconf"}
	}
}

var dockerfileTmpl = template.Must(template.New("dockerfile").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(`FROM {{.BaseImage}}

WORKDIR /app

# Runtime packages stay; the virtual {{.Group}} group exists only while
# native dependency extensions compile.
RUN apk add --no-cache {{join .RuntimePackages " "}} \
    && apk add --no-cache --virtual {{.Group}} {{join .BuildPackages " "}}

RUN pip install --no-cache-dir uv

# Manifests first so dependency layers cache across source-only changes.
COPY pyproject.toml uv.lock ./

RUN uv sync --frozen --no-dev

RUN apk del {{.Group}}

COPY . .

CMD ["uv", "run", "python", "{{.Entrypoint}}", "--transport", "stdio"]
`))

// Dockerfile renders the container build recipe.
func Dockerfile(opts Options) (string, error) {
	opts.applyDefaults()

	data := struct {
		Options
		Group string
	}{Options: opts, Group: BuildDepsGroup}

	var sb strings.Builder
	if err := dockerfileTmpl.Execute(&sb, data); err != nil {
		return "", errors.Wrap(err, "rendering dockerfile")
	}
	return sb.String(), nil
}
