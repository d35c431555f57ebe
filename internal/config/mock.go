package config

// MockConfig controls the mock backend: latency, envelope shape and the research job simulator.
type MockConfig struct {
	DelayEnabled bool
	DelayMin     Duration
	DelayMax     Duration
	Envelope     string
	CORSOrigin   string
	AdminToken   string
	JobDuration  Duration
	JobTick      Duration
	JobStore     string
	Redis        RedisConfig
}

// RedisConfig points the job simulator at a shared redis when JobStore is "redis".
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

func loadMock() MockConfig {
	cfg := MockConfig{
		DelayEnabled: boolEnvOrDefault(envMockDelayEnabled, true),
		DelayMin:     durationEnvOrDefault(envMockDelayMin, defaultMockDelayMin),
		DelayMax:     durationEnvOrDefault(envMockDelayMax, defaultMockDelayMax),
		Envelope:     choiceEnvOrDefault(envMockEnvelope, EnvelopeWrapped, EnvelopeWrapped, EnvelopeRaw),
		CORSOrigin:   envOrDefault(envCORSOrigin, defaultCORSOrigin),
		AdminToken:   envOrDefault(envAdminToken, ""),
		JobDuration:  durationEnvOrDefault(envJobDuration, defaultJobDuration),
		JobTick:      durationEnvOrDefault(envJobTick, defaultJobTick),
		JobStore:     choiceEnvOrDefault(envJobStore, JobStoreMemory, JobStoreMemory, JobStoreRedis),
		Redis: RedisConfig{
			Addr:     envOrDefault(envRedisAddr, ""),
			Password: envOrDefault(envRedisPassword, ""),
			DB:       nonNegativeIntEnvOrDefault(envRedisDB, 0),
			Key:      envOrDefault(envRedisKey, defaultRedisKey),
		},
	}
	if cfg.DelayMax < cfg.DelayMin {
		cfg.DelayMax = cfg.DelayMin
	}
	return cfg
}
