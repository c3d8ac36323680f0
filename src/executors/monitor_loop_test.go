package executors

import (
	"context"
	"testing"
	"time"
)

func TestGetConfigDefaults(t *testing.T) {
	config := GetConfig()

	if config.BaseURL != "http://localhost:9898/api" {
		t.Fatalf("unexpected default base URL: %s", config.BaseURL)
	}
	if config.PollPeriod != 30*time.Second {
		t.Fatalf("unexpected default poll period: %s", config.PollPeriod)
	}
	if config.Timeout != 15*time.Second {
		t.Fatalf("unexpected default timeout: %s", config.Timeout)
	}
}

func TestGetConfigOverrides(t *testing.T) {
	t.Setenv("POLL_PERIOD", "5s")
	t.Setenv("MONITOR_USERNAME", "demo")

	config := GetConfig()
	if config.PollPeriod != 5*time.Second {
		t.Fatalf("expected poll period override, got %s", config.PollPeriod)
	}
	if config.Username != "demo" {
		t.Fatalf("expected username override, got %s", config.Username)
	}
}

// Without credentials the loop must refuse to start instead of spinning
// against a login endpoint it can never pass.
func TestStartMonitorLoopRequiresCredentials(t *testing.T) {
	t.Setenv("MONITOR_USERNAME", "")
	t.Setenv("MONITOR_PASSWORD", "")

	err := StartMonitorLoop(context.Background())
	if err == nil {
		t.Fatal("expected error when credentials are missing")
	}
}
