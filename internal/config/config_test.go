package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantError string
	}{
		{
			name:      "empty config",
			cfg:       Config{},
			wantError: "",
		},
		{
			name: "valid values",
			cfg: Config{
				Logging: LoggingConfig{Level: "DEBUG"},
				Output:  OutputConfig{FileMode: "0600"},
				Watch:   WatchConfig{Debounce: "250ms"},
			},
			wantError: "",
		},
		{
			name:      "invalid level",
			cfg:       Config{Logging: LoggingConfig{Level: "verbose"}},
			wantError: "invalid logging level: verbose",
		},
		{
			name:      "non-octal file mode",
			cfg:       Config{Output: OutputConfig{FileMode: "0689"}},
			wantError: "invalid output file mode: 0689",
		},
		{
			name:      "file mode too large",
			cfg:       Config{Output: OutputConfig{FileMode: "1777"}},
			wantError: "must be at most 0777",
		},
		{
			name:      "unparsable debounce",
			cfg:       Config{Watch: WatchConfig{Debounce: "soon"}},
			wantError: "invalid watch debounce: soon",
		},
		{
			name:      "negative debounce",
			cfg:       Config{Watch: WatchConfig{Debounce: "-1s"}},
			wantError: "must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if tt.wantError != "" {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantError)
				} else if !strings.Contains(err.Error(), tt.wantError) {
					t.Errorf("Validate() error = %v, want substring %q", err, tt.wantError)
				}
			} else {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "warn"}}
	ApplyDefaults(cfg)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "", cfg.Logging.Path)
	assert.Equal(t, "", cfg.Output.FileMode, "file mode stays unset so existing outputs keep theirs")
	assert.Equal(t, "100ms", cfg.Watch.Debounce)

	mode, err := cfg.Output.Mode()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0), mode)

	cfg.Output.FileMode = "0640"
	mode, err = cfg.Output.Mode()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), mode)

	interval, err := cfg.Watch.Interval()
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, interval)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/binarray.yaml", []byte(`
logging:
  level: debug
  path: /var/log/binarray.log
output:
  file_mode: "0600"
watch:
  debounce: 1s
`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/cfg/binarray.toml", []byte(`
[logging]
level = "debug"
path = "/var/log/binarray.log"

[output]
file_mode = "0600"

[watch]
debounce = "1s"
`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/cfg/binarray.json", []byte(`{}`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/cfg/broken.yaml", []byte("logging: [unterminated"), 0644))

	want := &Config{
		Logging: LoggingConfig{Level: "debug", Path: "/var/log/binarray.log"},
		Output:  OutputConfig{FileMode: "0600"},
		Watch:   WatchConfig{Debounce: "1s"},
	}

	t.Run("yaml", func(t *testing.T) {
		cfg, err := Load(fs, "/cfg/binarray.yaml")
		require.NoError(t, err)
		assert.Equal(t, want, cfg)
	})

	t.Run("toml", func(t *testing.T) {
		cfg, err := Load(fs, "/cfg/binarray.toml")
		require.NoError(t, err)
		assert.Equal(t, want, cfg)
	})

	t.Run("no path", func(t *testing.T) {
		cfg, err := Load(fs, "")
		require.NoError(t, err)
		assert.Equal(t, &Config{}, cfg)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load(fs, "/cfg/binarray.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported config format")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(fs, "/cfg/missing.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read /cfg/missing.yaml")
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Load(fs, "/cfg/broken.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse /cfg/broken.yaml")
	})
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BINARRAY_LOGGING_LEVEL", "error")
	t.Setenv("BINARRAY_OUTPUT_FILE_MODE", "0640")

	cfg := &Config{
		Logging: LoggingConfig{Level: "debug", Path: "/tmp/keep.log"},
		Watch:   WatchConfig{Debounce: "2s"},
	}
	require.NoError(t, ApplyEnv(cfg))

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "/tmp/keep.log", cfg.Logging.Path, "unset variables must not clear fields")
	assert.Equal(t, "0640", cfg.Output.FileMode)
	assert.Equal(t, "2s", cfg.Watch.Debounce)
}
