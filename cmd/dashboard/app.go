package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/preston-bernstein/casino-research-dashboard/internal/apiclient"
	"github.com/preston-bernstein/casino-research-dashboard/internal/config"
	"github.com/preston-bernstein/casino-research-dashboard/internal/logging"
	"github.com/preston-bernstein/casino-research-dashboard/internal/metrics"
	"github.com/preston-bernstein/casino-research-dashboard/internal/notify"
	"github.com/preston-bernstein/casino-research-dashboard/internal/server"
	"github.com/preston-bernstein/casino-research-dashboard/internal/session"
)

const (
	keyBaseURL        = "api-base-url"
	keyMocks          = "mocks"
	keyPollInterval   = "poll-interval"
	keyRequestTimeout = "request-timeout"
	keyMockDelay      = "mock-delay"
	keyLogLevel       = "log-level"
	keyLogFormat      = "log-format"

	closeTimeout = 5 * time.Second
)

// app carries the resolved configuration shared by every command.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newApp() *app {
	return &app{v: viper.New()}
}

func (rt *app) bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	for _, key := range []string{keyBaseURL, keyMocks, keyPollInterval, keyRequestTimeout, keyMockDelay, keyLogLevel, keyLogFormat} {
		_ = rt.v.BindPFlag(key, flags.Lookup(key))
	}
	_ = rt.v.BindEnv(keyLogLevel, "LOG_LEVEL")
	_ = rt.v.BindEnv(keyLogFormat, "LOG_FORMAT")
}

// init layers flags over the config file over environment defaults.
func (rt *app) init(cmd *cobra.Command, _ []string) error {
	if rt.cfgFile != "" {
		rt.v.SetConfigFile(rt.cfgFile)
		if err := rt.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := config.Load()
	rt.v.SetDefault(keyBaseURL, cfg.Client.BaseURL)
	rt.v.SetDefault(keyMocks, cfg.Client.EnableMocks)
	rt.v.SetDefault(keyPollInterval, cfg.Client.PollInterval)
	rt.v.SetDefault(keyRequestTimeout, cfg.Client.RequestTimeout)
	rt.v.SetDefault(keyMockDelay, cfg.Mock.DelayEnabled)

	cfg.Client.BaseURL = rt.v.GetString(keyBaseURL)
	cfg.Client.EnableMocks = rt.v.GetBool(keyMocks)
	cfg.Client.PollInterval = rt.v.GetDuration(keyPollInterval)
	cfg.Client.RequestTimeout = rt.v.GetDuration(keyRequestTimeout)
	cfg.Mock.DelayEnabled = rt.v.GetBool(keyMockDelay)
	rt.cfg = cfg

	rt.logger = logging.NewLogger(logging.Config{
		Level:   rt.v.GetString(keyLogLevel),
		Format:  rt.v.GetString(keyLogFormat),
		Service: serviceName,
		Version: appVersion,
		Output:  cmd.ErrOrStderr(),
	})
	rt.metrics = metrics.NewRecorder()
	return nil
}

// withSession opens a client session for one command and closes it afterwards.
func (rt *app) withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session.Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	clientCfg := rt.cfg.Client
	if clientCfg.EnableMocks {
		baseURL, stop, err := rt.startMockBackend(cmd)
		if err != nil {
			return err
		}
		defer stop()
		clientCfg.BaseURL = baseURL
	}

	client := apiclient.NewClient(apiclient.Config{
		BaseURL: clientCfg.BaseURL,
		Timeout: clientCfg.RequestTimeout,
		Logger:  rt.logger,
		Metrics: rt.metrics,
	})
	logging.Debug(rt.logger, "api client ready", "baseURL", client.BaseURL(), "mocks", clientCfg.EnableMocks)
	s := session.New(ctx, session.Config{
		Requester: client,
		Client:    clientCfg,
		Notifier:  notify.Multi{notify.NewPrinter(cmd.OutOrStdout()), notify.Log{Logger: rt.logger}},
		Logger:    rt.logger,
		Metrics:   rt.metrics,
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := s.Close(closeCtx); err != nil {
			logging.Warn(rt.logger, "session close failed", "error", err)
		}
	}()

	return fn(ctx, s)
}

// startMockBackend serves the mock backend on a loopback port for the life of one command.
func (rt *app) startMockBackend(cmd *cobra.Command) (string, func(), error) {
	level := "warn"
	if strings.EqualFold(rt.v.GetString(keyLogLevel), "debug") {
		level = "debug"
	}
	logger := logging.NewLogger(logging.Config{
		Level:   level,
		Format:  rt.v.GetString(keyLogFormat),
		Service: "casino-research-mock",
		Version: appVersion,
		Output:  cmd.ErrOrStderr(),
	})

	local, err := server.StartLocal(rt.cfg.Mock, logger, rt.metrics)
	if err != nil {
		return "", nil, err
	}
	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := local.Stop(ctx); err != nil {
			logging.Warn(logger, "mock backend stop failed", "error", err)
		}
	}
	return local.URL, stop, nil
}
