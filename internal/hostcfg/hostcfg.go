// Package hostcfg renders the mcphost configuration from a template.
//
// The template holds ${VAR} references for values that differ between
// machines (API keys, model overrides). Variables resolve from an
// optional project .env file first, then the process environment, and
// the rendered document must parse as YAML before it is written.
package hostcfg

import (
	"context"
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/logging"
	"github.com/ezpy/ezdev/internal/paths"
)

// LoadEnv reads KEY=VALUE pairs from the project .env file. A missing
// file is not an error; the template then resolves against the process
// environment alone.
func LoadEnv(projectDir string) (map[string]string, error) {
	f, err := os.Open(filepath.Join(projectDir, paths.EnvFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "opening .env")
	}
	defer f.Close()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, errors.Wrap(err, "parsing .env")
	}
	return env, nil
}

// Expand substitutes ${VAR} references, preferring env over the
// process environment. Unset variables expand to the empty string.
func Expand(template string, env map[string]string) string {
	return os.Expand(template, func(key string) string {
		if v, ok := env[key]; ok {
			return v
		}
		return os.Getenv(key)
	})
}

// Render reads the template, sources .env, expands variables, and
// writes the result after checking it still parses as YAML.
func Render(ctx context.Context, projectDir, templateName, outName string) error {
	raw, err := os.ReadFile(filepath.Join(projectDir, templateName))
	if err != nil {
		return errors.Wrapf(err, "reading %s", templateName)
	}

	env, err := LoadEnv(projectDir)
	if err != nil {
		return err
	}
	if len(env) > 0 {
		// .env files routinely hold provider keys; mask before logging.
		logging.FromContext(ctx).Debug("sourced .env",
			"vars", logging.MaskSecrets(env))
	}

	rendered := Expand(string(raw), env)

	var doc map[string]any
	if err := yaml.Unmarshal([]byte(rendered), &doc); err != nil {
		return errors.Wrapf(err, "rendered %s is not valid YAML", outName)
	}

	outPath := filepath.Join(projectDir, outName)
	if err := os.WriteFile(outPath, []byte(rendered), 0600); err != nil {
		return errors.Wrapf(err, "writing %s", outName)
	}
	return nil
}
