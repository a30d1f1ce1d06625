package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/statuswatch/statuswatch/internal/badge"
	"github.com/statuswatch/statuswatch/internal/config"
	"github.com/statuswatch/statuswatch/internal/healthcheck"
	"github.com/statuswatch/statuswatch/internal/logging"
	"github.com/statuswatch/statuswatch/internal/metrics"
	"github.com/statuswatch/statuswatch/internal/monitor"
	"github.com/statuswatch/statuswatch/internal/notify"
	"github.com/statuswatch/statuswatch/internal/scheduler"
	"github.com/statuswatch/statuswatch/internal/server"
	"github.com/statuswatch/statuswatch/internal/state"
	"github.com/statuswatch/statuswatch/internal/statuspage"
)

func main() {
	logger := logging.New()
	logger.Info().Msg("statuswatch starting")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load configuration failed")
	}

	providerConfigs, err := config.LoadProvidersFile(cfg.ProvidersFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("load providers failed")
	}

	providers := make([]monitor.Provider, 0, len(providerConfigs))
	for _, pc := range providerConfigs {
		timeout := cfg.FetchTimeout
		if pc.Timeout > 0 {
			timeout = pc.Timeout
		}
		client, err := statuspage.NewClient(
			logger.With().Str("provider", pc.ID).Logger(),
			pc.URL, timeout, cfg.MaxRetries, cfg.RetryDelay,
		)
		if err != nil {
			logger.Fatal().Err(err).Str("provider", pc.ID).Msg("initialize provider client failed")
		}
		providers = append(providers, monitor.Provider{ID: pc.ID, Name: pc.Name, Client: client})
	}
	logger.Info().Int("providers", len(providers)).Msg("providers configured")

	store := state.NewFileStore(cfg.StatePath, logger)
	collector := metrics.New()
	tracker := healthcheck.NewTracker()
	applier := badge.NewLogApplier(logger)
	notifier := buildNotifier(logger, cfg)

	mon := monitor.New(logger, providers, store, applier,
		monitor.WithNotifier(notifier),
		monitor.WithMetrics(collector),
		monitor.WithTracker(tracker),
		monitor.WithRecentWindow(cfg.RecentWindow),
		monitor.WithHistorySize(cfg.HistorySize),
	)

	sched := scheduler.New(logger, cfg.PollInterval, mon.CheckStatus)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.Start(ctx, logger, cfg.PollInterval, store, sched, tracker, collector, cfg.APIPort, cfg.MetricsPort)

	if err := sched.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("scheduler failed")
	}
	logger.Info().Msg("statuswatch stopped")
}

func buildNotifier(logger zerolog.Logger, cfg config.Config) notify.Notifier {
	notifiers := make([]notify.Notifier, 0, 2)

	if cfg.SlackWebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(logger, cfg.SlackWebhookURL))
	}
	if cfg.NotifyWebhook != "" {
		webhook, err := notify.NewWebhookNotifier(logger, cfg.NotifyWebhook, "")
		if err != nil {
			logger.Fatal().Err(err).Msg("initialize webhook notifier failed")
		}
		notifiers = append(notifiers, webhook)
	}

	if len(notifiers) == 0 {
		return notify.NewNoop(logger, "no notifiers configured; transitions logged only")
	}

	var notifier notify.Notifier = notify.NewMultiNotifier(notifiers...)
	if cfg.NotifyDryRun {
		notifier = notify.NewDryRunNotifier(logger, notifier)
	}
	return notifier
}
