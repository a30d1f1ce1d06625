package state

import (
	"context"
	"time"

	"github.com/statuswatch/statuswatch/internal/badge"
	"github.com/statuswatch/statuswatch/internal/incident"
	"github.com/statuswatch/statuswatch/internal/severity"
	"github.com/statuswatch/statuswatch/internal/statuspage"
)

// ProviderResult is one provider's outcome for one poll cycle. A failed
// sub-fetch degrades its field to the documented fallback (severity Unknown,
// empty components, empty incidents) without touching the other fields.
type ProviderResult struct {
	Name        string                 `json:"name"`
	Severity    severity.Severity      `json:"severity"`
	Indicator   string                 `json:"indicator,omitempty"`
	Description string                 `json:"description,omitempty"`
	Components  []statuspage.Component `json:"components"`
}

// IncidentDigest holds the three classified incident views for a provider.
type IncidentDigest struct {
	Active []incident.Classified `json:"active"`
	Recent []incident.Classified `json:"recent"`
	Latest []incident.Classified `json:"latest"`
}

// CheckError records the most recent cycle-level failure.
type CheckError struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is the persisted state for one poll cycle and the sole channel to
// UI readers. It is written whole on every cycle, never merged incrementally.
type Snapshot struct {
	CombinedSeverity    severity.Severity         `json:"combined_severity"`
	AffectedComponents  int                       `json:"affected_components"`
	Providers           map[string]ProviderResult `json:"providers"`
	Incidents           map[string]IncidentDigest `json:"incidents"`
	Badge               badge.Projection          `json:"badge"`
	LastUpdated         time.Time                 `json:"last_updated"`
	LastSuccessfulCheck *time.Time                `json:"last_successful_check,omitempty"`
	LastError           *CheckError               `json:"last_error,omitempty"`
}

// Empty returns a snapshot with initialized maps and Unknown severity.
func Empty() Snapshot {
	return Snapshot{
		CombinedSeverity: severity.Unknown,
		Providers:        map[string]ProviderResult{},
		Incidents:        map[string]IncidentDigest{},
	}
}

// Store defines the interface for persisting snapshots. The monitor is the
// only writer; readers see whole snapshots, never partial writes.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
}
