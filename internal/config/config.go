package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envPollInterval    = "SW_POLL_INTERVAL"
	envFetchTimeout    = "SW_FETCH_TIMEOUT"
	envMaxRetries      = "SW_MAX_RETRIES"
	envRetryDelay      = "SW_RETRY_DELAY"
	envRecentWindow    = "SW_RECENT_WINDOW"
	envHistorySize     = "SW_INCIDENT_HISTORY"
	envStatePath       = "SW_STATE_PATH"
	envProvidersFile   = "SW_PROVIDERS_FILE"
	envAPIPort         = "SW_API_PORT"
	envMetricsPort     = "SW_METRICS_PORT"
	envSlackWebhookURL = "SW_SLACK_WEBHOOK_URL"
	envNotifyWebhook   = "SW_NOTIFY_WEBHOOK_URL"
	envNotifyDryRun    = "SW_NOTIFY_DRY_RUN"
)

const (
	defaultPollInterval = 5 * time.Minute
	defaultFetchTimeout = 10 * time.Second
	defaultMaxRetries   = 3
	defaultRetryDelay   = 2 * time.Second
	defaultRecentWindow = 24 * time.Hour
	defaultHistorySize  = 5
	defaultStatePath    = "statuswatch-state.json"
	defaultAPIPort      = 8090
)

// Config describes runtime configuration loaded from the environment.
type Config struct {
	PollInterval    time.Duration
	FetchTimeout    time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	RecentWindow    time.Duration
	HistorySize     int
	StatePath       string
	ProvidersFile   string
	APIPort         int
	MetricsPort     int
	SlackWebhookURL string
	NotifyWebhook   string
	NotifyDryRun    bool
}

// Load reads configuration from environment variables and a local .env file if present.
// Existing environment variables take precedence over values in .env.
func Load() (Config, error) {
	if err := loadDotEnvIfPresent(".env"); err != nil {
		return Config{}, err
	}

	cfg := Config{
		PollInterval: defaultPollInterval,
		FetchTimeout: defaultFetchTimeout,
		MaxRetries:   defaultMaxRetries,
		RetryDelay:   defaultRetryDelay,
		RecentWindow: defaultRecentWindow,
		HistorySize:  defaultHistorySize,
		StatePath:    defaultStatePath,
		APIPort:      defaultAPIPort,
		MetricsPort:  defaultAPIPort,
	}

	durations := []struct {
		key     string
		target  *time.Duration
		minZero bool
	}{
		{envPollInterval, &cfg.PollInterval, true},
		{envFetchTimeout, &cfg.FetchTimeout, true},
		{envRetryDelay, &cfg.RetryDelay, true},
		{envRecentWindow, &cfg.RecentWindow, true},
	}
	for _, d := range durations {
		if value, ok := lookupTrimmed(d.key); ok {
			parsed, err := time.ParseDuration(value)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", d.key, err)
			}
			if d.minZero && parsed <= 0 {
				return Config{}, fmt.Errorf("%s must be greater than zero", d.key)
			}
			*d.target = parsed
		}
	}

	if value, ok := lookupTrimmed(envMaxRetries); ok {
		retries, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envMaxRetries, err)
		}
		if retries < 0 {
			return Config{}, fmt.Errorf("%s cannot be negative", envMaxRetries)
		}
		cfg.MaxRetries = retries
	}

	if value, ok := lookupTrimmed(envHistorySize); ok {
		size, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envHistorySize, err)
		}
		if size <= 0 {
			return Config{}, fmt.Errorf("%s must be greater than zero", envHistorySize)
		}
		cfg.HistorySize = size
	}

	if value, ok := lookupTrimmed(envStatePath); ok {
		cfg.StatePath = value
	}
	if value, ok := lookupTrimmed(envProvidersFile); ok {
		cfg.ProvidersFile = value
	}

	ports := []struct {
		key    string
		target *int
	}{
		{envAPIPort, &cfg.APIPort},
		{envMetricsPort, &cfg.MetricsPort},
	}
	for _, p := range ports {
		if value, ok := lookupTrimmed(p.key); ok {
			port, err := strconv.Atoi(value)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", p.key, err)
			}
			if port < 0 || port > 65535 {
				return Config{}, fmt.Errorf("%s must be a valid port", p.key)
			}
			*p.target = port
		}
	}

	if value, ok := lookupTrimmed(envSlackWebhookURL); ok {
		cfg.SlackWebhookURL = value
	}
	if value, ok := lookupTrimmed(envNotifyWebhook); ok {
		cfg.NotifyWebhook = value
	}
	if value, ok := lookupTrimmed(envNotifyDryRun); ok {
		dryRun, err := strconv.ParseBool(value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envNotifyDryRun, err)
		}
		cfg.NotifyDryRun = dryRun
	}

	if cfg.SlackWebhookURL != "" {
		if err := validateURL(cfg.SlackWebhookURL, envSlackWebhookURL); err != nil {
			return Config{}, err
		}
	}
	if cfg.NotifyWebhook != "" {
		if err := validateURL(cfg.NotifyWebhook, envNotifyWebhook); err != nil {
			return Config{}, err
		}
	}

	if cfg.StatePath == "" {
		return Config{}, errors.New("SW_STATE_PATH must not be empty")
	}

	return cfg, nil
}

func lookupTrimmed(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func loadDotEnvIfPresent(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) && errors.Is(pathErr.Err, os.ErrNotExist) {
		return nil
	}

	return err
}

func validateURL(value, name string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid %s: must include scheme and host", name)
	}
	return nil
}
