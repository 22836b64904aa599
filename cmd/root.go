package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/untodesu/binarray/internal/generator"
	"github.com/untodesu/binarray/version"
)

// appFs is the filesystem every command reads from and writes to.
var appFs afero.Fs = afero.NewOsFs()

var (
	configPath string
	logLevel   string
	logFile    string
	watchMode  bool
)

// rootCmd represents the base command. It is the generator itself.
var rootCmd = &cobra.Command{
	Use:   "binarray <input_path> <output_path> <symbol_prefix>",
	Short: "Embed a binary file into C++ source as a byte array",
	Long: `binarray reads an arbitrary binary file and writes a C++ source file declaring
its bytes as a fixed-size array plus its length:

    extern const std::size_t <symbol_prefix>_size = <N>;
    extern const std::uint8_t <symbol_prefix>[] = { ... };

The output directory must already exist. Any existing output file is replaced;
a symlinked output is written through to its target.

Flags must come before the paths. Use -- to pass a path that starts with '-':

    binarray --watch -- -logo.bin logo.cpp logo`,
	Version:       version.Version,
	Args:          requireArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoot(cmd.Context(), args)
	},
}

// Execute runs the root command and exits with status 1 on any error.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init initializes the root command and its flags.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (.yaml, .yml or .toml)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Log file path (overrides config, default stderr)")
	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Regenerate whenever the input file changes")
	// Arguments after the first path are never parsed as flags.
	rootCmd.Flags().SetInterspersed(false)
}

// requireArgs rejects invocations with fewer than three positional arguments.
// Extra arguments are allowed and ignored.
func requireArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: expected <input_path> <output_path> <symbol_prefix>, got %d argument(s)", generator.ErrMissingArguments, len(args))
	}
	return nil
}
