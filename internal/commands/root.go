// Package commands provides CLI commands for nearbychat.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/nearbychat/internal/config"
	"github.com/diogo/nearbychat/internal/logging"
	"github.com/diogo/nearbychat/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootOptions holds the flag values shared by the commands
type rootOptions struct {
	endpoint string
	live     bool
	verbose  bool
	logLevel string
	file     string
	raw      bool
}

// reportedError marks a failure that was already shown to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "nearbychat [query]",
		Short: "Chat with the nearby services assistant",
		Long: `nearbychat is a terminal client for the nearby services assistant. It sends
your question together with a short rolling history and your location
context to the assistant endpoint and prints the reply with any places found.

Examples:
  nearbychat chat                          Start interactive chat
  nearbychat "cafes open now"              Send a single query
  nearbychat --live "pharmacy"             Ask with live mode enabled
  nearbychat -f question.txt               Read the query from a file
  echo "ATM near me" | nearbychat          Read the query from stdin
  nearbychat config init                   Write the default configuration`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "nearbychat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			query, ok, err := readQuery(deps, opts, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}

			cfg, err := effectiveConfig(cmd, deps, opts)
			if err != nil {
				return err
			}
			return runQuery(cmd.Context(), deps, cfg, query, opts.raw || !deps.StdoutIsTTY())
		},
	}

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVar(&opts.endpoint, "endpoint", "", "Assistant endpoint URL (default from config)")
	cmd.PersistentFlags().BoolVar(&opts.live, "live", false, "Enable live mode for the session")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Log request details")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read query from file")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print plain text without styling")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, opts))
	cmd.AddCommand(NewConfigCmd(deps, opts))

	return cmd
}

// rootCmd is the command tree Execute runs
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	if code := exitCode(rootCmd.Execute(), os.Stderr); code != 0 {
		os.Exit(code)
	}
}

// exitCode maps the result of a command run to a process exit status,
// printing errors that were not already shown as a chat turn.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(stderr, tui.FormatError(err))
	}
	return 1
}

// readQuery picks the query from --file, stdin or the positional argument,
// in that order. ok is false when no input was given.
func readQuery(deps *Dependencies, opts *rootOptions, args []string) (string, bool, error) {
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if deps.StdinIsPipe() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}
	return "", false, nil
}

// effectiveConfig loads the configuration and applies explicitly set flags
func effectiveConfig(cmd *cobra.Command, deps *Dependencies, opts *rootOptions) (config.Config, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = opts.endpoint
	}
	if flags.Changed("live") {
		cfg.LiveMode = opts.live
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	cfg.LogLevel = logging.EffectiveLevel(cfg.LogLevel, cfg.Verbose)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
