package config

import "time"

const (
	envPort         = "PORT"
	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	envAPIBaseURL       = "API_BASE_URL"
	envEnableMocks      = "ENABLE_MOCKS"
	envRequestTimeout   = "REQUEST_TIMEOUT"
	envPollInterval     = "POLL_INTERVAL"
	envRetryAttempts    = "QUERY_RETRY_ATTEMPTS"
	envRetryDelay       = "QUERY_RETRY_DELAY"
	envSearchDebounce   = "SEARCH_DEBOUNCE"
	envMissingPageSize  = "MISSING_CASINOS_PAGE_SIZE"
	envComparisonsLimit = "COMPARISONS_PAGE_SIZE"

	envMockDelayEnabled = "MOCK_DELAY_ENABLED"
	envMockDelayMin     = "MOCK_DELAY_MIN"
	envMockDelayMax     = "MOCK_DELAY_MAX"
	envMockEnvelope     = "MOCK_ENVELOPE"
	envCORSOrigin       = "CORS_ORIGIN"
	envAdminToken       = "ADMIN_TOKEN"
	envJobDuration      = "RESEARCH_JOB_DURATION"
	envJobTick          = "RESEARCH_JOB_TICK"
	envJobStore         = "JOB_STORE"
	envRedisAddr        = "REDIS_ADDR"
	envRedisPassword    = "REDIS_PASSWORD"
	envRedisDB          = "REDIS_DB"
	envRedisKey         = "REDIS_KEY"

	defaultPort        = "3000"
	defaultMetricsPort = "9090"
	defaultServiceName = "casino-research-dashboard"

	defaultAPIBaseURL = "http://localhost:3000"
	// Upper bound for a single backend call, including response decoding.
	defaultRequestTimeout = 30 * Duration(time.Second)
	// Dashboard stats are re-fetched at this cadence while research is active.
	defaultPollInterval       = 5 * Duration(time.Second)
	defaultRetryAttempts      = 3
	defaultRetryDelay         = Duration(time.Second)
	defaultSearchDebounce     = 300 * Duration(time.Millisecond)
	defaultMissingPageSize    = 20
	defaultComparisonsPerPage = 10

	defaultMockDelayMin = 300 * Duration(time.Millisecond)
	defaultMockDelayMax = 800 * Duration(time.Millisecond)
	defaultCORSOrigin   = "*"
	defaultJobDuration  = 30 * Duration(time.Second)
	defaultJobTick      = 2 * Duration(time.Second)
	defaultRedisKey     = "casino-research:job"

	EnvelopeWrapped = "wrapped"
	EnvelopeRaw     = "raw"

	JobStoreMemory = "memory"
	JobStoreRedis  = "redis"
)
