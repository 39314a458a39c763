package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	apierrors "github.com/diogo/nearbychat/internal/errors"
	"github.com/diogo/nearbychat/internal/models"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStderr string
	}{
		{
			name:     "success",
			wantCode: 0,
		},
		{
			name:     "turn already reported",
			err:      &reportedError{err: apierrors.NewServerError(400, models.DefaultEndpoint, "bad request")},
			wantCode: 1,
		},
		{
			name:       "plain error is printed",
			err:        errors.New("failed to load config: bad json"),
			wantCode:   1,
			wantStderr: "failed to load config: bad json",
		},
		{
			name:       "transport error uses the connection message",
			err:        apierrors.NewTransportError("send request", models.DefaultEndpoint, errors.New("connection refused")),
			wantCode:   1,
			wantStderr: "Connection error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if got := exitCode(tt.err, &stderr); got != tt.wantCode {
				t.Errorf("exitCode() = %d, want %d", got, tt.wantCode)
			}
			if tt.wantStderr == "" {
				if stderr.Len() != 0 {
					t.Errorf("stderr should be empty, got %q", stderr.String())
				}
				return
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestExecute_OneShotSuccessDoesNotExit(t *testing.T) {
	h := newHarness(t)

	old := rootCmd
	rootCmd = NewRootCmd(h.deps)
	rootCmd.SetArgs([]string{"--raw", "atm"})
	defer func() { rootCmd = old }()

	// returns normally instead of calling os.Exit
	Execute()

	if got := h.stdout.String(); got != "Hello\n" {
		t.Errorf("stdout = %q, want %q", got, "Hello\n")
	}
}

func TestExecute_SubcommandTree(t *testing.T) {
	cmd := NewRootCmd(newHarness(t).deps)
	for _, name := range []string{"chat", "config"} {
		found, _, err := cmd.Find([]string{name})
		if err != nil || found == nil || found.Name() != name {
			t.Errorf("subcommand %q not registered: %v", name, err)
		}
	}
}
