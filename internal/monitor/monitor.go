package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/statuswatch/statuswatch/internal/badge"
	"github.com/statuswatch/statuswatch/internal/healthcheck"
	"github.com/statuswatch/statuswatch/internal/incident"
	"github.com/statuswatch/statuswatch/internal/metrics"
	"github.com/statuswatch/statuswatch/internal/notify"
	"github.com/statuswatch/statuswatch/internal/severity"
	"github.com/statuswatch/statuswatch/internal/state"
	"github.com/statuswatch/statuswatch/internal/statuspage"
	"github.com/statuswatch/statuswatch/internal/transition"
)

// StatusClient is the per-provider fetch surface the monitor depends on.
type StatusClient interface {
	Status(ctx context.Context) (statuspage.StatusResponse, error)
	Incidents(ctx context.Context) ([]statuspage.Incident, error)
	Summary(ctx context.Context) (statuspage.SummaryResponse, error)
}

// Provider pairs a configured provider identity with its fetch client.
type Provider struct {
	ID     string
	Name   string
	Client StatusClient
}

// Monitor orchestrates one poll cycle: concurrent per-provider fetches with
// per-field fallback, severity combination, incident classification, snapshot
// persistence, and badge projection. CheckStatus never surfaces an error to
// its caller; all failures are converted to state.
type Monitor struct {
	logger       zerolog.Logger
	providers    []Provider
	store        state.Store
	applier      badge.Applier
	notifier     notify.Notifier
	metrics      *metrics.Metrics
	tracker      *healthcheck.Tracker
	recentWindow time.Duration
	historySize  int
	now          func() time.Time
	inFlight     atomic.Bool
}

// Option customizes monitor behavior.
type Option func(*Monitor)

// WithNotifier enables severity-transition notifications.
func WithNotifier(notifier notify.Notifier) Option {
	return func(m *Monitor) {
		m.notifier = notifier
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(collector *metrics.Metrics) Option {
	return func(m *Monitor) {
		m.metrics = collector
	}
}

// WithTracker enables cycle recording for health endpoints.
func WithTracker(tracker *healthcheck.Tracker) Option {
	return func(m *Monitor) {
		m.tracker = tracker
	}
}

// WithRecentWindow overrides the trailing incident window.
func WithRecentWindow(window time.Duration) Option {
	return func(m *Monitor) {
		m.recentWindow = window
	}
}

// WithHistorySize overrides the bounded "latest incidents" list size.
func WithHistorySize(n int) Option {
	return func(m *Monitor) {
		m.historySize = n
	}
}

// WithClock overrides the time source for testing.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// New constructs a Monitor over the given providers, snapshot store, and
// badge applier.
func New(logger zerolog.Logger, providers []Provider, store state.Store, applier badge.Applier, opts ...Option) *Monitor {
	m := &Monitor{
		logger:       logger,
		providers:    providers,
		store:        store,
		applier:      applier,
		recentWindow: incident.DefaultWindow,
		historySize:  incident.DefaultHistorySize,
		now:          func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// providerOutcome holds the settled results of one provider's three
// sub-fetches. Each field fails independently.
type providerOutcome struct {
	status       statuspage.StatusResponse
	statusErr    error
	incidents    []statuspage.Incident
	incidentsErr error
	summary      statuspage.SummaryResponse
	summaryErr   error
}

func (o providerOutcome) failures() int {
	failed := 0
	for _, err := range []error{o.statusErr, o.incidentsErr, o.summaryErr} {
		if err != nil {
			failed++
		}
	}
	return failed
}

// CheckStatus runs one complete poll cycle. An invocation that overlaps a
// cycle already in flight returns immediately, preserving the single-writer
// invariant between scheduled and forced refreshes.
func (m *Monitor) CheckStatus(ctx context.Context) {
	if !m.inFlight.CompareAndSwap(false, true) {
		m.logger.Debug().Msg("check already in flight, skipping")
		return
	}
	defer m.inFlight.Store(false)

	start := m.now()

	outcomes := make([]providerOutcome, len(m.providers))
	var wg sync.WaitGroup
	for i, provider := range m.providers {
		wg.Add(1)
		go func(i int, provider Provider) {
			defer wg.Done()
			outcomes[i] = m.pollProvider(ctx, provider)
		}(i, provider)
	}
	wg.Wait()

	snapshot := m.buildSnapshot(start, outcomes)

	previous, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("load previous snapshot failed")
		previous = state.Empty()
	}
	m.carryOverFailureState(&snapshot, previous, outcomes)

	// Persist happens-after all fetch settlement and classification; readers
	// never see a partial cycle.
	if err := m.store.Save(ctx, snapshot); err != nil {
		m.logger.Error().Err(err).Msg("persist snapshot failed")
	}

	m.applyBadge(ctx, snapshot.Badge)
	m.notifyTransitions(ctx, previous, snapshot)
	m.recordCycle(start, snapshot)
}

// pollProvider launches the three sub-fetches for one provider concurrently
// and waits for all of them to settle, success or failure.
func (m *Monitor) pollProvider(ctx context.Context, provider Provider) providerOutcome {
	var outcome providerOutcome
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		outcome.status, outcome.statusErr = provider.Client.Status(ctx)
		m.noteFetchError(provider.ID, "status", outcome.statusErr)
	}()
	go func() {
		defer wg.Done()
		outcome.incidents, outcome.incidentsErr = provider.Client.Incidents(ctx)
		m.noteFetchError(provider.ID, "incidents", outcome.incidentsErr)
	}()
	go func() {
		defer wg.Done()
		outcome.summary, outcome.summaryErr = provider.Client.Summary(ctx)
		m.noteFetchError(provider.ID, "summary", outcome.summaryErr)
	}()
	wg.Wait()

	return outcome
}

func (m *Monitor) noteFetchError(providerID, endpoint string, err error) {
	if err == nil {
		return
	}
	m.logger.Warn().Err(err).Str("provider", providerID).Str("endpoint", endpoint).Msg("sub-fetch failed")
	m.metrics.IncFetchErrors(providerID, endpoint)
}

// buildSnapshot derives the full persisted snapshot from settled outcomes,
// applying the per-field fallback: a failed sub-fetch degrades only its own
// field, never the whole provider or cycle.
func (m *Monitor) buildSnapshot(now time.Time, outcomes []providerOutcome) state.Snapshot {
	snapshot := state.Empty()
	snapshot.LastUpdated = now

	severities := make([]severity.Severity, 0, len(m.providers))
	componentStatuses := make([]string, 0)

	for i, provider := range m.providers {
		outcome := outcomes[i]

		sev := severity.Unknown
		result := state.ProviderResult{
			Name:       provider.Name,
			Components: []statuspage.Component{},
		}
		if outcome.statusErr == nil {
			sev = severity.FromIndicator(outcome.status.Status.Indicator)
			result.Indicator = outcome.status.Status.Indicator
			result.Description = outcome.status.Status.Description
		}
		result.Severity = sev
		severities = append(severities, sev)

		if outcome.summaryErr == nil {
			for _, component := range outcome.summary.Components {
				if component.Group {
					continue
				}
				result.Components = append(result.Components, component)
				componentStatuses = append(componentStatuses, component.Status)
			}
		}

		incidents := outcome.incidents
		if outcome.incidentsErr != nil {
			incidents = nil
		}
		digest := state.IncidentDigest{
			Active: incident.Active(incidents),
			Recent: incident.RecentWindow(now, incidents, m.recentWindow),
			Latest: incident.LastN(incidents, m.historySize),
		}

		snapshot.Providers[provider.ID] = result
		snapshot.Incidents[provider.ID] = digest

		m.metrics.SetProviderSeverity(provider.ID, sev)
		m.metrics.SetActiveIncidents(provider.ID, len(digest.Active))
	}

	snapshot.CombinedSeverity = severity.Combine(severities...)
	snapshot.AffectedComponents = severity.CountAffected(componentStatuses)
	snapshot.Badge = badge.Project(snapshot.CombinedSeverity, snapshot.AffectedComponents)

	return snapshot
}

// carryOverFailureState applies the cycle-level error policy: a fully
// successful cycle clears lastError and advances lastSuccessfulCheck, a total
// failure records a fresh lastError, and a partial failure leaves the
// previous values untouched.
func (m *Monitor) carryOverFailureState(snapshot *state.Snapshot, previous state.Snapshot, outcomes []providerOutcome) {
	totalFetches := 3 * len(outcomes)
	failedFetches := 0
	messages := make([]string, 0)
	for i, outcome := range outcomes {
		failedFetches += outcome.failures()
		for _, err := range []error{outcome.statusErr, outcome.incidentsErr, outcome.summaryErr} {
			if err != nil {
				messages = append(messages, fmt.Sprintf("%s: %v", m.providers[i].ID, err))
			}
		}
	}

	switch {
	case totalFetches > 0 && failedFetches == totalFetches:
		snapshot.LastError = &state.CheckError{
			Message:   strings.Join(messages, "; "),
			Timestamp: snapshot.LastUpdated,
		}
		snapshot.LastSuccessfulCheck = previous.LastSuccessfulCheck
	case failedFetches == 0:
		checked := snapshot.LastUpdated
		snapshot.LastSuccessfulCheck = &checked
		snapshot.LastError = nil
	default:
		snapshot.LastError = previous.LastError
		snapshot.LastSuccessfulCheck = previous.LastSuccessfulCheck
	}
}

func (m *Monitor) applyBadge(ctx context.Context, projection badge.Projection) {
	if m.applier == nil {
		return
	}
	if err := m.applier.Apply(ctx, projection); err != nil {
		m.logger.Error().Err(err).Msg("badge apply failed")
	}
}

func (m *Monitor) notifyTransitions(ctx context.Context, previous state.Snapshot, current state.Snapshot) {
	if m.notifier == nil {
		return
	}
	transitions := transition.Detect(&previous, current)
	if len(transitions) == 0 {
		return
	}
	if err := m.notifier.Notify(ctx, transitions); err != nil {
		m.logger.Error().Err(err).Int("transitions", len(transitions)).Msg("notification failed")
	}
}

func (m *Monitor) recordCycle(start time.Time, snapshot state.Snapshot) {
	duration := m.now().Sub(start)

	m.metrics.ObserveCycleDuration(duration)
	m.metrics.SetCombinedSeverity(snapshot.CombinedSeverity)
	m.metrics.SetAffectedComponents(snapshot.AffectedComponents)
	if snapshot.LastSuccessfulCheck != nil {
		m.metrics.SetLastSuccessfulCycleTimestamp(*snapshot.LastSuccessfulCheck)
	}
	m.tracker.RecordCycle(duration, len(m.providers))

	event := m.logger.Info().
		Str("combined_severity", snapshot.CombinedSeverity.String()).
		Int("affected_components", snapshot.AffectedComponents).
		Dur("duration", duration)
	if snapshot.LastError != nil {
		event = event.Str("last_error", snapshot.LastError.Message)
	}
	event.Msg("cycle complete")
}
