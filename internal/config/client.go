package config

// ClientConfig controls how the dashboard session reaches the backend.
type ClientConfig struct {
	BaseURL            string
	EnableMocks        bool
	RequestTimeout     Duration
	PollInterval       Duration
	RetryAttempts      int
	RetryDelay         Duration
	SearchDebounce     Duration
	MissingPageSize    int
	ComparisonsPerPage int
}

func loadClient() ClientConfig {
	return ClientConfig{
		BaseURL:            envOrDefault(envAPIBaseURL, defaultAPIBaseURL),
		EnableMocks:        boolEnvOrDefault(envEnableMocks, false),
		RequestTimeout:     durationEnvOrDefault(envRequestTimeout, defaultRequestTimeout),
		PollInterval:       durationEnvOrDefault(envPollInterval, defaultPollInterval),
		RetryAttempts:      nonNegativeIntEnvOrDefault(envRetryAttempts, defaultRetryAttempts),
		RetryDelay:         durationEnvOrDefault(envRetryDelay, defaultRetryDelay),
		SearchDebounce:     durationEnvOrDefault(envSearchDebounce, defaultSearchDebounce),
		MissingPageSize:    intEnvOrDefault(envMissingPageSize, defaultMissingPageSize),
		ComparisonsPerPage: intEnvOrDefault(envComparisonsLimit, defaultComparisonsPerPage),
	}
}
