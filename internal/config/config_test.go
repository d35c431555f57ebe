package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Client.BaseURL != defaultAPIBaseURL {
		t.Fatalf("expected default base url %s, got %s", defaultAPIBaseURL, cfg.Client.BaseURL)
	}
	if cfg.Client.EnableMocks {
		t.Fatalf("expected mocks disabled by default")
	}
	if cfg.Client.RequestTimeout != 30*time.Second {
		t.Fatalf("expected 30s request timeout, got %s", cfg.Client.RequestTimeout)
	}
	if cfg.Client.PollInterval != 5*time.Second {
		t.Fatalf("expected 5s poll interval, got %s", cfg.Client.PollInterval)
	}
	if cfg.Client.MissingPageSize != 20 || cfg.Client.ComparisonsPerPage != 10 {
		t.Fatalf("unexpected page sizes %+v", cfg.Client)
	}
	if cfg.Client.SearchDebounce != 300*time.Millisecond {
		t.Fatalf("expected 300ms debounce, got %s", cfg.Client.SearchDebounce)
	}
	if cfg.Mock.DelayMin != 300*time.Millisecond || cfg.Mock.DelayMax != 800*time.Millisecond {
		t.Fatalf("unexpected mock delay window %s-%s", cfg.Mock.DelayMin, cfg.Mock.DelayMax)
	}
	if cfg.Mock.Envelope != EnvelopeWrapped {
		t.Fatalf("expected wrapped envelope, got %s", cfg.Mock.Envelope)
	}
	if cfg.Mock.JobDuration != 30*time.Second || cfg.Mock.JobTick != 2*time.Second {
		t.Fatalf("unexpected job timing %s/%s", cfg.Mock.JobDuration, cfg.Mock.JobTick)
	}
	if cfg.Mock.JobStore != JobStoreMemory {
		t.Fatalf("expected memory job store, got %s", cfg.Mock.JobStore)
	}
	if cfg.Metrics.ServiceName != defaultServiceName {
		t.Fatalf("expected default service name, got %s", cfg.Metrics.ServiceName)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "5000")
	t.Setenv(envAPIBaseURL, "http://backend.internal/api")
	t.Setenv(envEnableMocks, "true")
	t.Setenv(envPollInterval, "1s")
	t.Setenv(envMockEnvelope, "raw")
	t.Setenv(envJobStore, "redis")
	t.Setenv(envRedisAddr, "localhost:6379")
	t.Setenv(envRedisDB, "2")

	cfg := Load()

	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.Client.BaseURL != "http://backend.internal/api" {
		t.Fatalf("expected base url override, got %s", cfg.Client.BaseURL)
	}
	if !cfg.Client.EnableMocks {
		t.Fatalf("expected mocks enabled")
	}
	if cfg.Client.PollInterval != time.Second {
		t.Fatalf("expected poll interval 1s, got %s", cfg.Client.PollInterval)
	}
	if cfg.Mock.Envelope != EnvelopeRaw {
		t.Fatalf("expected raw envelope, got %s", cfg.Mock.Envelope)
	}
	if cfg.Mock.JobStore != JobStoreRedis || cfg.Mock.Redis.Addr != "localhost:6379" || cfg.Mock.Redis.DB != 2 {
		t.Fatalf("unexpected redis config %+v", cfg.Mock)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv(envPollInterval, "not-a-duration")

	cfg := Load()

	if cfg.Client.PollInterval != defaultPollInterval {
		t.Fatalf("expected default poll interval on invalid value, got %s", cfg.Client.PollInterval)
	}
}

func TestLoadClampsInvertedDelayWindow(t *testing.T) {
	t.Setenv(envMockDelayMin, "900ms")
	t.Setenv(envMockDelayMax, "100ms")

	cfg := Load()

	if cfg.Mock.DelayMax != cfg.Mock.DelayMin {
		t.Fatalf("expected max clamped to min, got %s-%s", cfg.Mock.DelayMin, cfg.Mock.DelayMax)
	}
}

func TestMetricsConfigHelpers(t *testing.T) {
	m := MetricsConfig{Enabled: true, Port: "9090"}
	if m.Addr() != ":9090" {
		t.Fatalf("expected :9090, got %s", m.Addr())
	}
	if m.ExportsOTLP() {
		t.Fatalf("expected no otlp export without an endpoint")
	}
	m.OtlpEndpoint = "collector:4318"
	if !m.ExportsOTLP() {
		t.Fatalf("expected otlp export with an endpoint")
	}
	m.Enabled = false
	if m.ExportsOTLP() {
		t.Fatalf("expected disabled metrics to skip otlp")
	}
}
