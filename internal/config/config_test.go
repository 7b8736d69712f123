package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OVERLAY_CONFIG", "OVERLAY_SOCKET", "OVERLAY_WIDTH", "OVERLAY_HEIGHT",
		"OVERLAY_FPS", "OVERLAY_SHM_PATH", "OVERLAY_PIXEL_FORMAT",
		"OVERLAY_DEBUG_ADDR", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load([]string{"overlay"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SocketPath != "/tmp/voice-cli-overlay.sock" {
		t.Errorf("unexpected socket path %q", cfg.SocketPath)
	}
	if cfg.Width != 800 || cfg.Height != 60 || cfg.FPS != 30 {
		t.Errorf("unexpected surface defaults %dx%d@%d", cfg.Width, cfg.Height, cfg.FPS)
	}
	if cfg.QueueCapacity != 100 || cfg.HistorySize != 60 {
		t.Errorf("unexpected capacities queue=%d history=%d", cfg.QueueCapacity, cfg.HistorySize)
	}
	if cfg.ReconnectBackoff != 2*time.Second {
		t.Errorf("unexpected backoff %s", cfg.ReconnectBackoff)
	}
	if cfg.DebugAddr != "" {
		t.Errorf("debug API should be disabled by default, got %q", cfg.DebugAddr)
	}
}

func TestPositionalSocketPathWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("OVERLAY_SOCKET", "/tmp/from-env.sock")

	cfg, err := Load([]string{"overlay", "/tmp/from-arg.sock"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SocketPath != "/tmp/from-arg.sock" {
		t.Errorf("expected positional path, got %q", cfg.SocketPath)
	}

	cfg, err = Load([]string{"overlay"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SocketPath != "/tmp/from-env.sock" {
		t.Errorf("expected env path, got %q", cfg.SocketPath)
	}
}

func TestYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	data := "width: 640\nheight: 48\nfps: 60\nreconnect_backoff: 500ms\ndebug_addr: 127.0.0.1:9464\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OVERLAY_CONFIG", path)
	t.Setenv("OVERLAY_FPS", "24")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 48 {
		t.Errorf("expected yaml size 640x48, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS != 24 {
		t.Errorf("expected env fps to override yaml, got %d", cfg.FPS)
	}
	if cfg.ReconnectBackoff != 500*time.Millisecond {
		t.Errorf("expected 500ms backoff, got %s", cfg.ReconnectBackoff)
	}
	if cfg.DebugAddr != "127.0.0.1:9464" {
		t.Errorf("unexpected debug addr %q", cfg.DebugAddr)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("OVERLAY_WIDTH", "wide")
	if _, err := Load(nil); err == nil || !strings.Contains(err.Error(), "OVERLAY_WIDTH") {
		t.Errorf("expected OVERLAY_WIDTH parse error, got %v", err)
	}

	clearEnv(t)
	t.Setenv("OVERLAY_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(nil); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	cfg.Width = 0
	cfg.FPS = -1
	cfg.PixelFormat = "bgr"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"surface size", "fps", "pixel format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
