package task

import (
	"context"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/execx"
)

// Manifest is the on-disk shape of ezdev.toml.
type Manifest struct {
	Tasks map[string]ManifestTask `toml:"tasks"`
}

// ManifestTask declares a project-defined task.
type ManifestTask struct {
	Summary string        `toml:"summary"`
	Deps    []string      `toml:"deps"`
	Cmds    []ManifestCmd `toml:"cmds"`
}

// ManifestCmd is one external command in a manifest task body.
type ManifestCmd struct {
	Program string   `toml:"program"`
	Args    []string `toml:"args"`
	Dir     string   `toml:"dir"`
}

// LoadManifest reads an ezdev.toml file and registers its tasks.
// A missing file is not an error; projects without custom tasks are
// the common case. Manifest tasks may depend on built-ins but must not
// shadow them: a name collision is reported, not silently overridden.
func LoadManifest(path string, reg *Registry, runner execx.Runner) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading manifest %s", path)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return errors.Wrapf(err, "parsing manifest %s", path)
	}

	for name, mt := range m.Tasks {
		if _, exists := reg.Get(name); exists {
			return errors.Newf("manifest task %q shadows a built-in task", name)
		}
		if len(mt.Cmds) == 0 {
			return errors.Newf("manifest task %q has no cmds", name)
		}
		for _, c := range mt.Cmds {
			if c.Program == "" {
				return errors.Newf("manifest task %q has a cmd with no program", name)
			}
		}

		cmds := mt.Cmds
		if err := reg.Register(&Task{
			Name:    name,
			Summary: mt.Summary,
			Deps:    mt.Deps,
			Run: func(ctx context.Context) error {
				for _, c := range cmds {
					err := runner.Run(ctx, execx.Cmd{
						Name: c.Program,
						Args: c.Args,
						Dir:  c.Dir,
					})
					if err != nil {
						return err
					}
				}
				return nil
			},
		}); err != nil {
			return err
		}
	}

	return nil
}
