package commands

func init() {
	rootCmd.AddCommand(dockerBuildCmd)
	rootCmd.AddCommand(dockerTestCmd)
}

var dockerBuildCmd = taskCommand("docker-build",
	"Generate the Dockerfile and build the tools image",
	`Write the container build recipe into the project directory and run
docker build. The recipe installs runtime packages, syncs the locked
dependency set with uv, and strips the transient build toolchain so
the final image stays small. The user-info record is completed first
so the image can be smoke-tested immediately.`)

var dockerTestCmd = taskCommand("docker-test",
	"Run the dockerized tool smoke cases",
	`Build the image if needed, then execute one container per tool smoke
case with the user-data file bind-mounted read-only and the entrypoint
overridden. Each tool must print a JSON object; key tools get shape
assertions on the payload.`)
