package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(testIPCmd)
	rootCmd.AddCommand(testUserInfoCmd)
}

var testCmd = taskCommand("test",
	"Container smoke test of the built image",
	`Build the tools image if needed, then run every tool smoke case in a
short-lived container with the user-data file bind-mounted read-only
and the entrypoint overridden to call tools directly.`)

var testIPCmd = &cobra.Command{
	Use:     "test_ip",
	Aliases: []string{"test-ip"},
	Short:   "Check the public-IP tool returns an address",
	Long: `Invoke the public-IP lookup through the project's utils CLI and
assert the response carries a non-empty public_ip field.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTask(cmd, "test_ip", nil)
	},
}

var testUserInfoCmd = taskCommand("test_user_info",
	"Check the personal-data tool resolves the record",
	`Invoke the personal-data tool through the project's utils CLI and
assert the response carries a name and a computed age.`)
