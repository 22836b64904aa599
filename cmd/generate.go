package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/afero"
	"github.com/untodesu/binarray/internal/config"
	"github.com/untodesu/binarray/internal/generator"
	"github.com/untodesu/binarray/internal/ui"
	"github.com/untodesu/binarray/internal/watch"
	"github.com/untodesu/binarray/pkg/log"
)

// runRoot loads the configuration, sets up logging and generates the output
// file. In watch mode it then regenerates on every input change until ctx
// is cancelled.
//
// Returns:
//   - error: An error if configuration, validation or generation fails.
func runRoot(ctx context.Context, args []string) error {
	cfg, err := loadConfig(appFs)
	if err != nil {
		return err
	}

	if err := log.Init(cfg.Logging.Path, cfg.Logging.Level); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	if len(args) > 3 {
		slog.Warn("ignoring extra arguments", "args", args[3:])
		ui.PrintWarning("Ignored", strings.Join(args[3:], " "))
	}

	mode, err := cfg.Output.Mode()
	if err != nil {
		return err
	}

	req := generator.Request{
		InputPath:  args[0],
		OutputPath: args[1],
		Prefix:     args[2],
	}
	opts := generator.Options{
		FileMode: mode,
	}

	if err := runGenerate(appFs, req, opts); err != nil {
		return err
	}

	if !watchMode {
		return nil
	}

	interval, err := cfg.Watch.Interval()
	if err != nil {
		return err
	}

	ui.PrintHeader(fmt.Sprintf("Watching %s (Ctrl+C to stop)", req.InputPath))
	return watch.File(ctx, req.InputPath, interval, func() error {
		err := runGenerate(appFs, req, opts)
		if err != nil {
			ui.PrintError("Error", err.Error())
		}
		return err
	})
}

// runGenerate runs a single generation and reports it on the status output.
func runGenerate(fs afero.Fs, req generator.Request, opts generator.Options) error {
	res, err := generator.Generate(fs, req, opts)
	if err != nil {
		return err
	}
	ui.PrintSuccess("Generated", fmt.Sprintf("%s (%s, %d bytes)", res.OutputPath, req.Prefix, res.Size))
	return nil
}

// loadConfig layers defaults, the config file, BINARRAY_* environment
// variables and command-line flags, in increasing priority.
func loadConfig(fs afero.Fs) (*config.Config, error) {
	cfg, err := config.Load(fs, configPath)
	if err != nil {
		return nil, err
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFile != "" {
		cfg.Logging.Path = logFile
	}

	config.ApplyDefaults(cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
