package smoke

import (
	"context"

	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/execx"
	"github.com/ezpy/ezdev/internal/logging"
)

// runTool invokes a tool through the project's utils CLI via uv and
// returns the validated payload error, if any.
func runTool(ctx context.Context, runner execx.Runner, projectDir, tool string, validate func(map[string]any) error) error {
	out, err := runner.Output(ctx, execx.Cmd{
		Name: "uv",
		Args: []string{"run", "python", "utils.py", tool},
		Dir:  projectDir,
	})
	if err != nil {
		return errors.Wrapf(err, "invoking %s", tool)
	}
	if err := checkPayload(out, validate); err != nil {
		return errors.Wrapf(err, "%s", tool)
	}
	logging.FromContext(ctx).Debug("tool check passed", "tool", tool)
	return nil
}

// CheckIP invokes the public-IP tool and asserts the lookup returned
// a non-empty address.
func CheckIP(ctx context.Context, runner execx.Runner, projectDir string) error {
	return runTool(ctx, runner, projectDir, "ip_address.public_ipv4", validatePublicIP)
}

// CheckUserInfo invokes the personal-data tool and asserts the record
// resolves with a name and a computed age.
func CheckUserInfo(ctx context.Context, runner execx.Runner, projectDir string) error {
	return runTool(ctx, runner, projectDir, "user_information.personal_data", validatePersonalData)
}
