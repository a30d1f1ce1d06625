package notify

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/statuswatch/statuswatch/internal/transition"
)

// DryRunNotifier logs transitions without sending notifications.
type DryRunNotifier struct {
	logger zerolog.Logger
	inner  Notifier
}

// NewDryRunNotifier returns a notifier that suppresses delivery and logs instead.
func NewDryRunNotifier(logger zerolog.Logger, inner Notifier) *DryRunNotifier {
	return &DryRunNotifier{logger: logger, inner: inner}
}

// Notify implements Notifier.
func (n *DryRunNotifier) Notify(_ context.Context, transitions []transition.SeverityTransition) error {
	for _, change := range transitions {
		n.logger.Info().
			Str("scope", change.Scope).
			Str("previous_severity", change.Previous.String()).
			Str("current_severity", change.Current.String()).
			Int("active_incidents", change.ActiveIncidents).
			Msg("[DRY-RUN] Would notify")
	}
	return nil
}
