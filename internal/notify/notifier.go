package notify

import (
	"context"

	"github.com/statuswatch/statuswatch/internal/transition"
)

// Notifier delivers severity-transition alerts to external systems.
type Notifier interface {
	Notify(ctx context.Context, transitions []transition.SeverityTransition) error
}
