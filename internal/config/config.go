package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "ezdev"

// Config represents the top-level configuration structure.
type Config struct {
	Version    int    `mapstructure:"version" yaml:"version"`
	ProjectDir string `mapstructure:"project_dir" yaml:"project_dir"`
	UserData   string `mapstructure:"user_data" yaml:"user_data"`
	Python     Python `mapstructure:"python" yaml:"python"`
	Server     Server `mapstructure:"server" yaml:"server"`
	Docker     Docker `mapstructure:"docker" yaml:"docker"`
	Ollama     Ollama `mapstructure:"ollama" yaml:"ollama"`
	Host       Host   `mapstructure:"host" yaml:"host"`
}

// Python configures the language runtime preconditions.
type Python struct {
	// MinVersion is the minimum accepted interpreter version (major.minor).
	MinVersion string `mapstructure:"min_version" yaml:"min_version"`
}

// Server configures how the MCP server process is launched.
type Server struct {
	// Entrypoint is the server script, relative to the project dir.
	Entrypoint string `mapstructure:"entrypoint" yaml:"entrypoint"`

	// HTTPPort is the port used for the HTTP transport variants.
	HTTPPort int `mapstructure:"http_port" yaml:"http_port"`

	// WatchPattern filters which files trigger a watch-mode restart.
	WatchPattern string `mapstructure:"watch_pattern" yaml:"watch_pattern"`
}

// Docker configures image building and the container smoke test.
type Docker struct {
	// Image is the tag applied to the built image.
	Image string `mapstructure:"image" yaml:"image"`

	// BaseImage is the runtime base the Dockerfile starts from.
	BaseImage string `mapstructure:"base_image" yaml:"base_image"`

	// UserDataMount is the in-container path the user-data file is bound to.
	UserDataMount string `mapstructure:"user_data_mount" yaml:"user_data_mount"`

	// SmokeEntrypoint overrides the image entrypoint during smoke tests.
	SmokeEntrypoint string `mapstructure:"smoke_entrypoint" yaml:"smoke_entrypoint"`

	// SmokeParallelism bounds how many smoke cases run at once.
	SmokeParallelism int `mapstructure:"smoke_parallelism" yaml:"smoke_parallelism"`
}

// Ollama configures the local model host combination.
type Ollama struct {
	// Model is the default model identifier; the OLLAMA_MODEL environment
	// variable overrides it at launch time.
	Model string `mapstructure:"model" yaml:"model"`

	// Host is the daemon's HTTP endpoint used for the readiness poll.
	Host string `mapstructure:"host" yaml:"host"`

	// ReadyTimeoutSeconds bounds how long to wait for the daemon.
	ReadyTimeoutSeconds int `mapstructure:"ready_timeout_seconds" yaml:"ready_timeout_seconds"`
}

// Host configures the MCP host (mcphost) config rendering.
type Host struct {
	// ConfigTemplate is the template file with ${VAR} references.
	ConfigTemplate string `mapstructure:"config_template" yaml:"config_template"`

	// ConfigOut is where the rendered config is written.
	ConfigOut string `mapstructure:"config_out" yaml:"config_out"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName(AppName)
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), AppName))

	viper.SetEnvPrefix("EZDEV")
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("project_dir", ".")
	viper.SetDefault("user_data", paths.UserDataFile)
	viper.SetDefault("python.min_version", "3.11")
	viper.SetDefault("server.entrypoint", "mcp_server.py")
	viper.SetDefault("server.http_port", 8000)
	viper.SetDefault("server.watch_pattern", "**/*.py")
	viper.SetDefault("docker.image", "ezpy-tools:alpine")
	viper.SetDefault("docker.base_image", "python:3.12-alpine")
	viper.SetDefault("docker.user_data_mount", "/app/user.data.json")
	viper.SetDefault("docker.smoke_entrypoint", "./tools")
	viper.SetDefault("docker.smoke_parallelism", 4)
	viper.SetDefault("ollama.model", "qwen2.5:7b")
	viper.SetDefault("ollama.host", "http://127.0.0.1:11434")
	viper.SetDefault("ollama.ready_timeout_seconds", 30)
	viper.SetDefault("host.config_template", "mcphost.yml.tmpl")
	viper.SetDefault("host.config_out", ".mcphost.yml")
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If the user specified a path, a missing file is an error;
			// otherwise defaults are fine.
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
