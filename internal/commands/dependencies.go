package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/diogo/nearbychat/internal/api"
	"github.com/diogo/nearbychat/internal/config"
	"github.com/diogo/nearbychat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, client api.ClientInterface, cfg tui.ChatConfig) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// LoadConfig returns the configuration before flag overrides.
	LoadConfig func() (config.Config, error)

	// NewClient builds the assistant client for the effective configuration.
	NewClient func(cfg config.Config, logger zerolog.Logger) (api.ClientInterface, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard writes text to the system clipboard.
	Clipboard func(text string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinIsPipe reports whether a query can be read from Stdin.
	StdinIsPipe func() bool
	// StdoutIsTTY selects decorated output over plain text.
	StdoutIsTTY func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, client api.ClientInterface, cfg tui.ChatConfig) error {
	return tui.RunChat(ctx, client, cfg)
}

// newAPIClient is the production client factory.
func newAPIClient(cfg config.Config, logger zerolog.Logger) (api.ClientInterface, error) {
	client, err := api.NewClient(
		api.WithEndpoint(cfg.Endpoint),
		api.WithTimeoutSeconds(cfg.TimeoutSeconds),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		LoadConfig:  config.LoadConfig,
		NewClient:   newAPIClient,
		TUI:         &DefaultTUI{},
		Clipboard:   clipboard.WriteAll,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		StdinIsPipe: stdinIsPipe,
		StdoutIsTTY: isStdoutTTY,
	}
}

func stdinIsPipe() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
