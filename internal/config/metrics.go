package config

// MetricsConfig controls telemetry export settings. The mock backend serves
// Prometheus on its own port; the dashboard CLI records in-process only.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	OtlpEndpoint string
	ServiceName  string
	OtlpInsecure bool
}

// Addr is the listen address for the Prometheus endpoint.
func (m MetricsConfig) Addr() string {
	return ":" + m.Port
}

// ExportsOTLP reports whether an OTLP collector is configured.
func (m MetricsConfig) ExportsOTLP() bool {
	return m.Enabled && m.OtlpEndpoint != ""
}

func loadMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:      boolEnvOrDefault(envMetricsOn, true),
		Port:         envOrDefault(envMetricsPort, defaultMetricsPort),
		OtlpEndpoint: envOrDefault(envOtelEndpoint, ""),
		ServiceName:  envOrDefault(envOtelService, defaultServiceName),
		OtlpInsecure: boolEnvOrDefault(envOtelInsecure, true),
	}
}
