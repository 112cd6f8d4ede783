package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/finpulse/internal/config"
	"github.com/iwvelando/finpulse/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.MessageSizeBytes() != constants.DefaultMaxMessageSizeBytes {
		t.Fatalf("expected default max message size, got %d", cfg.MessageSizeBytes())
	}
	if cfg.RefreshRate != constants.DefaultRefreshRate || cfg.RefreshBurst != constants.DefaultRefreshBurst {
		t.Fatalf("expected default refresh limits, got %v/%d", cfg.RefreshRate, cfg.RefreshBurst)
	}
	if cfg.StreamBuffer != constants.DefaultStreamBuffer {
		t.Fatalf("expected default stream buffer, got %d", cfg.StreamBuffer)
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("server logging must default to empty so the simulator config applies, got %+v", cfg.Logging)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	yamlDoc := `address: 127.0.0.1:9000
refreshRate: 0.5
refreshBurst: 2
streamBuffer: 8
maxMessageSize: 2M
logging:
  level: debug
  format: console
  outputFile: /var/log/finpulse/server.log
`
	if err := os.WriteFile(path, []byte(yamlDoc), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := Config{
		Address:        "127.0.0.1:9000",
		RefreshRate:    0.5,
		RefreshBurst:   2,
		StreamBuffer:   8,
		MaxMessageSize: "2097152",
		Logging: config.LoggingConfig{
			Level:      "debug",
			Format:     "console",
			OutputFile: "/var/log/finpulse/server.log",
		},
		messageBytes: 2 << 20,
	}
	if *cfg != want {
		t.Fatalf("LoadConfig() = %+v, want %+v", *cfg, want)
	}
}

func TestLoadConfigNormalizesNonPositive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	if err := os.WriteFile(path, []byte("address: \"\"\nrefreshRate: -1\nrefreshBurst: 0\nstreamBuffer: -3\nmaxMessageSize: \"\"\n"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Address != constants.DefaultServerAddress || cfg.RefreshRate != constants.DefaultRefreshRate ||
		cfg.RefreshBurst != constants.DefaultRefreshBurst || cfg.StreamBuffer != constants.DefaultStreamBuffer {
		t.Fatalf("expected defaults for non-positive values, got %+v", cfg)
	}
	if cfg.MessageSizeBytes() != constants.DefaultMaxMessageSizeBytes {
		t.Fatalf("expected default message size, got %d", cfg.MessageSizeBytes())
	}
}

func TestLoadConfigInvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")

	if err := os.WriteFile(path, []byte("maxMessageSize: invalid"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid size but got nil")
	}

	if err := os.WriteFile(path, []byte("address: [unclosed"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for malformed YAML but got nil")
	}
}

func TestSetMessageSizeBytes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetMessageSizeBytes(0)
	if cfg.MessageSizeBytes() != constants.DefaultMaxMessageSizeBytes {
		t.Fatalf("expected non-positive override to be ignored, got %d", cfg.MessageSizeBytes())
	}
	cfg.SetMessageSizeBytes(4096)
	if cfg.MessageSizeBytes() != 4096 || cfg.MaxMessageSize != "4096" {
		t.Fatalf("expected 4096 override, got %d (%s)", cfg.MessageSizeBytes(), cfg.MaxMessageSize)
	}
}

func TestParseSize(t *testing.T) {
	sizes := map[string]int64{
		"":          constants.DefaultMaxMessageSizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"64kb":      64 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"2G":        2 * 1024 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, want := range sizes {
		if got, err := ParseSize(input); err != nil || got != want {
			t.Errorf("ParseSize(%q) = %d, %v; want %d", input, got, err, want)
		}
	}

	if _, err := ParseSize("1TB"); err == nil {
		t.Fatal("expected error for unsupported unit")
	}
	if _, err := ParseSize("abc"); err == nil {
		t.Fatal("expected error for invalid number")
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	if err := os.WriteFile(path, []byte("address: :9000\nmaxUploadSize: 10M\n"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown key but got nil")
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
}

func TestParseSizeOverflow(t *testing.T) {
	if _, err := ParseSize("9223372036854775807K"); err == nil {
		t.Fatal("expected overflow error")
	}
}
