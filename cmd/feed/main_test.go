package main

import (
	"testing"
	"time"

	"github.com/Snehit70/voice-cli/internal/ipc"
)

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if opts.path != ipc.DefaultSocketPath || opts.interactive || opts.rate != 50*time.Millisecond {
		t.Errorf("unexpected defaults %+v", opts)
	}

	opts, err = parseFlags([]string{"-interactive", "-rate", "20ms", "/tmp/other.sock"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if opts.path != "/tmp/other.sock" || !opts.interactive || opts.rate != 20*time.Millisecond {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestParseFlagsRejectsNonPositiveRate(t *testing.T) {
	for _, rate := range []string{"0", "0s", "-5ms"} {
		if _, err := parseFlags([]string{"-rate", rate}); err == nil {
			t.Errorf("-rate %s: expected error", rate)
		}
	}
}
