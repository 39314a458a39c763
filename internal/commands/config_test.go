package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/nearbychat/internal/config"
)

func TestConfigPath(t *testing.T) {
	h := newHarness(t)
	if err := h.run("config", "path"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(h.stdout.String()), filepath.Join(".nearbychat", "config.json")) {
		t.Errorf("path output = %q", h.stdout.String())
	}
}

func TestConfigShow_AppliesFlags(t *testing.T) {
	h := newHarness(t)
	if err := h.run("config", "show", "--endpoint", "https://assistant.example/ai"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got config.Config
	if err := json.Unmarshal(h.stdout.Bytes(), &got); err != nil {
		t.Fatalf("config show should print JSON: %v\n%s", err, h.stdout.String())
	}
	if got.Endpoint != "https://assistant.example/ai" {
		t.Errorf("endpoint = %q", got.Endpoint)
	}
	if got.UserID != config.DefaultUserID {
		t.Errorf("user_id = %q", got.UserID)
	}
}

func TestConfigInit(t *testing.T) {
	h := newHarness(t)
	if err := h.run("config", "init"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, _ := config.GetConfigPath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	// A second init refuses to overwrite
	if err := h.run("config", "init"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected overwrite refusal, got %v", err)
	}
	if err := h.run("config", "init", "--force"); err != nil {
		t.Errorf("--force should overwrite: %v", err)
	}
}
