package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func clientFlags() *pflag.FlagSet {
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.String("server", DefaultClient().Server, "")
	f.String("user", DefaultClient().User, "")
	f.String("deck", "", "")
	return f
}

func TestLoadClientDefaults(t *testing.T) {
	cfg, err := LoadClient("", clientFlags())
	if err != nil {
		t.Fatalf("LoadClient failed: %v", err)
	}
	if cfg.Server != "http://localhost:8080" {
		t.Errorf("Expected default server, got %q", cfg.Server)
	}
	if cfg.User != "default" {
		t.Errorf("Expected fallback user, got %q", cfg.User)
	}
	if cfg.Deck != "" {
		t.Errorf("Expected no deck preselected, got %q", cfg.Deck)
	}
}

func TestLoadClientPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server: http://filehost:9999\nuser: fileuser\ndeck: filedeck\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("MEMORIZER_USER", "envuser")

	f := clientFlags()
	if err := f.Parse([]string{"--deck", "flagdeck"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := LoadClient(path, f)
	if err != nil {
		t.Fatalf("LoadClient failed: %v", err)
	}
	if cfg.Server != "http://filehost:9999" {
		t.Errorf("Expected server from file, got %q", cfg.Server)
	}
	if cfg.User != "envuser" {
		t.Errorf("Expected env to override file, got %q", cfg.User)
	}
	if cfg.Deck != "flagdeck" {
		t.Errorf("Expected flag to override file, got %q", cfg.Deck)
	}
}

func TestLoadClientValidation(t *testing.T) {
	f := clientFlags()
	if err := f.Parse([]string{"--server", "not a url"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	if _, err := LoadClient("", f); err == nil {
		t.Error("Expected an invalid server URL to be rejected, got nil")
	}
}

func TestLoadServer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	content := `
listen: ":8081"
users:
  - name: alice
    decks:
      - name: spanish
        path: decks/spanish.txt
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadServer(path, nil)
	if err != nil {
		t.Fatalf("LoadServer failed: %v", err)
	}
	if cfg.Listen != ":8081" {
		t.Errorf("Expected listen from file, got %q", cfg.Listen)
	}
	if cfg.DB != "memorizer.db" {
		t.Errorf("Expected default db path, got %q", cfg.DB)
	}
	if len(cfg.Users) != 1 || cfg.Users[0].Name != "alice" {
		t.Fatalf("Expected one user alice, got %+v", cfg.Users)
	}
	if len(cfg.Users[0].Decks) != 1 || cfg.Users[0].Decks[0].Name != "spanish" {
		t.Errorf("Expected deck spanish, got %+v", cfg.Users[0].Decks)
	}
}

func TestLoadServerRequiresUsers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("listen: \":8081\"\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := LoadServer(path, nil); err == nil {
		t.Error("Expected a config without users to be rejected, got nil")
	}
}
