package health

import (
	"testing"
	"time"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusHealthy, "healthy"},
		{StatusDegraded, "degraded"},
		{StatusUnhealthy, "unhealthy"},
		{StatusSkipped, "skipped"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.String(); got != tt.expected {
				t.Errorf("Status.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   Status
	}{
		{"healthy", Healthy("ok"), StatusHealthy},
		{"degraded", Degraded("ok"), StatusDegraded},
		{"unhealthy", Unhealthy("ok"), StatusUnhealthy},
		{"skipped", Skipped("ok"), StatusSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result.Status != tt.want {
				t.Errorf("Status = %v, want %v", tt.result.Status, tt.want)
			}
			if tt.result.Message != "ok" {
				t.Errorf("Message = %q, want %q", tt.result.Message, "ok")
			}
			if tt.result.Details == nil {
				t.Error("Details should be initialized")
			}
		})
	}
}

func TestFluentAPI(t *testing.T) {
	result := Healthy("brew is installed").
		WithDetail("version", "4.2.1").
		WithDetail("path", "/opt/homebrew/bin/brew").
		WithLatency(50 * time.Millisecond)

	if result.Latency != 50*time.Millisecond {
		t.Errorf("Latency = %v, want %v", result.Latency, 50*time.Millisecond)
	}

	if val, ok := result.Details["version"].(string); !ok || val != "4.2.1" {
		t.Errorf("Details[version] = %v, want %q", result.Details["version"], "4.2.1")
	}

	if len(result.Details) != 2 {
		t.Errorf("expected 2 details, got %d", len(result.Details))
	}
}
