package severity

import "strings"

// Severity represents aggregate provider health, ordered from least to most
// informative: combining severities always keeps the worst one, and Unknown
// only wins when nothing better is known.
type Severity int

const (
	Unknown Severity = iota
	Operational
	Minor
	Major
	Critical
)

func (s Severity) String() string {
	switch s {
	case Operational:
		return "operational"
	case Minor:
		return "minor"
	case Major:
		return "major"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity as its lowercase name for JSON snapshots.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name; unrecognized values become Unknown.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "operational":
		*s = Operational
	case "minor":
		*s = Minor
	case "major":
		*s = Major
	case "critical":
		*s = Critical
	default:
		*s = Unknown
	}
	return nil
}

// FromIndicator maps a statuspage status indicator ("none", "minor", "major",
// "critical") to a severity. Unrecognized indicators map to Unknown.
func FromIndicator(indicator string) Severity {
	switch strings.ToLower(strings.TrimSpace(indicator)) {
	case "none":
		return Operational
	case "minor":
		return Minor
	case "major":
		return Major
	case "critical":
		return Critical
	default:
		return Unknown
	}
}

// componentRules maps component status vocabulary to severities by substring
// containment, checked in order. "major_outage" matches the "major" rule
// before the "outage" rule ever runs.
var componentRules = []struct {
	keywords []string
	severity Severity
}{
	{[]string{"operational"}, Operational},
	{[]string{"degraded", "minor"}, Minor},
	{[]string{"major", "partial"}, Major},
	{[]string{"outage", "critical"}, Critical},
}

// FromComponentStatus maps a provider component status string (for example
// "degraded_performance" or "partial_outage") to a severity using
// case-insensitive substring rules.
func FromComponentStatus(raw string) Severity {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Unknown
	}
	for _, rule := range componentRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.severity
			}
		}
	}
	return Unknown
}

// Combine returns the worst severity of the inputs. With no inputs the result
// is Unknown. Any one degraded provider degrades the combined result; the
// policy favors false alarms over missed incidents.
func Combine(severities ...Severity) Severity {
	combined := Unknown
	for _, s := range severities {
		if s > combined {
			combined = s
		}
	}
	return combined
}

// CountAffected counts component statuses whose mapped severity is strictly
// Minor, Major, or Critical. Operational and Unknown statuses do not count.
func CountAffected(statuses []string) int {
	affected := 0
	for _, raw := range statuses {
		switch FromComponentStatus(raw) {
		case Minor, Major, Critical:
			affected++
		}
	}
	return affected
}
