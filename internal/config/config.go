package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override the config
// file, e.g. BINARRAY_LOGGING_LEVEL.
const EnvPrefix = "binarray"

// Config represents the optional binarray configuration file.
// Every field has a usable default, so no file is required.
type Config struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	// Output configures the generated file.
	Output OutputConfig `yaml:"output" toml:"output"`
	// Watch configures --watch mode.
	Watch WatchConfig `yaml:"watch" toml:"watch"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level" toml:"level"`
	// Path is the log file path. Empty logs to stderr.
	Path string `yaml:"path" toml:"path"`
}

// OutputConfig configures how the generated source is written.
type OutputConfig struct {
	// FileMode is the octal permission of the generated file (e.g. "0644").
	// Empty keeps the mode of an existing output file; new files get 0644.
	FileMode string `yaml:"file_mode" toml:"file_mode" split_words:"true"`
}

// WatchConfig configures regeneration on input changes.
type WatchConfig struct {
	// Debounce is the quiet period after the last change before regenerating (e.g. "100ms").
	Debounce string `yaml:"debounce" toml:"debounce"`
}

// Mode parses FileMode. An empty FileMode yields 0, meaning "not set".
func (o *OutputConfig) Mode() (os.FileMode, error) {
	if o.FileMode == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(o.FileMode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid output file mode: %s (expected octal, e.g. 0644)", o.FileMode)
	}
	if v > 0777 {
		return 0, fmt.Errorf("invalid output file mode: %s (must be at most 0777)", o.FileMode)
	}
	return os.FileMode(v), nil
}

// Interval parses Debounce.
func (w *WatchConfig) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid watch debounce: %s: %w", w.Debounce, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid watch debounce: %s (must be positive)", w.Debounce)
	}
	return d, nil
}

// Load reads the config file at path, choosing the decoder by extension
// (.yaml, .yml or .toml). An empty path returns an empty Config.
// Defaults are not applied.
//
// Parameters:
//   - fs: The filesystem holding the config file.
//   - path: The config file path, or "".
//
// Returns:
//   - *Config: The decoded configuration.
//   - error: An error if the file cannot be read or parsed.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %q (allowed: .yaml, .yml, .toml)", ext)
	}
	return cfg, nil
}

// ApplyEnv overrides fields of config from BINARRAY_* environment variables.
// Unset variables leave the field untouched.
func ApplyEnv(config *Config) error {
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// ApplyDefaults sets default values for configuration fields that are missing.
//
// Parameters:
//   - config: The Config object to modify.
func ApplyDefaults(config *Config) {
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Watch.Debounce == "" {
		config.Watch.Debounce = "100ms"
	}
}

// Validate checks the configuration for errors.
//
// Parameters:
//   - config: The Config object to validate.
//
// Returns:
//   - error: An error if the configuration is invalid, or nil otherwise.
func Validate(config *Config) error {
	if config.Logging.Level != "" {
		switch strings.ToLower(config.Logging.Level) {
		case "debug", "info", "warn", "error":
			// ok
		default:
			return fmt.Errorf("invalid logging level: %s (allowed: debug, info, warn, error)", config.Logging.Level)
		}
	}

	if config.Output.FileMode != "" {
		if _, err := config.Output.Mode(); err != nil {
			return err
		}
	}

	if config.Watch.Debounce != "" {
		if _, err := config.Watch.Interval(); err != nil {
			return err
		}
	}

	return nil
}
