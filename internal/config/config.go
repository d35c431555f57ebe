package config

// Config holds runtime configuration for the mock backend and the dashboard client.
type Config struct {
	Port    string
	Client  ClientConfig
	Mock    MockConfig
	Metrics MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:    envOrDefault(envPort, defaultPort),
		Client:  loadClient(),
		Mock:    loadMock(),
		Metrics: loadMetrics(),
	}
}
