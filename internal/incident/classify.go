package incident

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/statuswatch/statuswatch/internal/statuspage"
)

const (
	// DefaultWindow bounds the trailing "recent" view.
	DefaultWindow = 24 * time.Hour

	// DefaultHistorySize bounds the "latest" view regardless of resolution.
	DefaultHistorySize = 5

	titleTimeFormat = "Jan 2, 15:04 UTC"
)

// Classified is a display-ready incident derived from the provider record.
// TitleWithDate and Duration are computed at classification time and never
// stored upstream.
type Classified struct {
	ID            string                      `json:"id"`
	Name          string                      `json:"name"`
	Status        string                      `json:"status"`
	Impact        string                      `json:"impact,omitempty"`
	Shortlink     string                      `json:"shortlink,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
	ResolvedAt    *time.Time                  `json:"resolved_at,omitempty"`
	TitleWithDate string                      `json:"title_with_date"`
	Duration      string                      `json:"duration,omitempty"`
	Updates       []statuspage.IncidentUpdate `json:"updates"`
}

// Active returns unresolved incidents, newest-created first.
func Active(all []statuspage.Incident) []Classified {
	out := make([]Classified, 0)
	for _, inc := range all {
		if isResolved(inc) {
			continue
		}
		out = append(out, classify(inc))
	}
	sortNewestFirst(out)
	return out
}

// RecentWindow returns incidents whose creation or resolution falls within the
// trailing window ending at now. The window edge is inclusive: an incident
// created exactly window ago still qualifies. Resolved incidents carry a
// formatted duration.
func RecentWindow(now time.Time, all []statuspage.Incident, window time.Duration) []Classified {
	if window <= 0 {
		window = DefaultWindow
	}
	cutoff := now.Add(-window)

	out := make([]Classified, 0)
	for _, inc := range all {
		inWindow := !inc.CreatedAt.Before(cutoff)
		if !inWindow && inc.ResolvedAt != nil {
			inWindow = !inc.ResolvedAt.Before(cutoff)
		}
		if !inWindow {
			continue
		}
		out = append(out, classify(inc))
	}
	sortNewestFirst(out)
	return out
}

// LastN returns the n newest-created incidents regardless of status.
func LastN(all []statuspage.Incident, n int) []Classified {
	if n <= 0 {
		n = DefaultHistorySize
	}

	out := make([]Classified, 0, len(all))
	for _, inc := range all {
		out = append(out, classify(inc))
	}
	sortNewestFirst(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func classify(inc statuspage.Incident) Classified {
	c := Classified{
		ID:            inc.ID,
		Name:          inc.Name,
		Status:        inc.Status,
		Impact:        inc.Impact,
		Shortlink:     inc.Shortlink,
		CreatedAt:     inc.CreatedAt,
		ResolvedAt:    inc.ResolvedAt,
		TitleWithDate: fmt.Sprintf("[%s] %s", inc.CreatedAt.UTC().Format(titleTimeFormat), inc.Name),
		Updates:       inc.Updates,
	}
	if c.Updates == nil {
		c.Updates = []statuspage.IncidentUpdate{}
	}
	if inc.ResolvedAt != nil {
		c.Duration = FormatDuration(inc.ResolvedAt.Sub(inc.CreatedAt))
	}
	return c
}

func isResolved(inc statuspage.Incident) bool {
	switch strings.ToLower(inc.Status) {
	case "resolved", "postmortem", "completed":
		return true
	default:
		return false
	}
}

// sortNewestFirst orders by creation time descending. Incidents sharing a
// creation time keep their input order.
func sortNewestFirst(incidents []Classified) {
	sort.SliceStable(incidents, func(i, j int) bool {
		return incidents[i].CreatedAt.After(incidents[j].CreatedAt)
	})
}

// FormatDuration renders a duration as "{h}h {m}m", clamping negatives to zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
