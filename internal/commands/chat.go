package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/nearbychat/internal/config"
	"github.com/diogo/nearbychat/internal/logging"
	"github.com/diogo/nearbychat/internal/render"
	"github.com/diogo/nearbychat/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the nearby services assistant.

The last turns of the conversation are sent along with every question.
Press Ctrl+L to toggle live mode and Ctrl+Y to copy the last reply.
Type 'exit', 'quit', or press Esc or Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig(cmd, deps, opts)
			if err != nil {
				return err
			}
			return runChat(cmd, deps, cfg)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, cfg config.Config) error {
	if err := render.SetTUITheme(cfg.TUITheme); err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: %v, using %s\n", err, render.DefaultTUITheme)
		_ = render.SetTUITheme(render.DefaultTUITheme)
	}
	tui.UpdateTheme()

	// The alt screen owns the terminal, so logs go to a file
	logPath, err := config.GetLogPath()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.NewFile(logPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closeLog()

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	logger.Info().
		Str("endpoint", client.Endpoint()).
		Bool("live_mode", cfg.LiveMode).
		Msg("chat session started")

	return deps.TUI.RunChat(cmd.Context(), client, tui.ChatConfig{
		RequestContext: cfg.RequestContext(),
		LiveMode:       cfg.LiveMode,
		Render:         render.OptionsFromConfig(cfg.Markdown, 80),
		Logger:         logger,
		CopyFunc:       deps.Clipboard,
	})
}
