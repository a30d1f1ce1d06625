package transition

import (
	"sort"

	"github.com/statuswatch/statuswatch/internal/severity"
	"github.com/statuswatch/statuswatch/internal/state"
)

// CombinedScope labels the transition covering the cross-provider severity.
const CombinedScope = "combined"

// SeverityTransition captures a severity change between consecutive snapshots,
// either for the combined state or for a single provider.
type SeverityTransition struct {
	Scope           string
	Previous        severity.Severity
	Current         severity.Severity
	Description     string
	ActiveIncidents int
}

// Detect compares a previous snapshot with the current one and emits severity
// transitions. On the first run (no previous snapshot) only non-operational
// states are reported, so a fresh install stays quiet when everything is fine.
func Detect(prev *state.Snapshot, current state.Snapshot) []SeverityTransition {
	firstRun := prev == nil || prev.LastUpdated.IsZero()

	transitions := make([]SeverityTransition, 0)

	prevCombined := severity.Unknown
	if !firstRun {
		prevCombined = prev.CombinedSeverity
	}
	if shouldReport(firstRun, prevCombined, current.CombinedSeverity) {
		transitions = append(transitions, SeverityTransition{
			Scope:           CombinedScope,
			Previous:        prevCombined,
			Current:         current.CombinedSeverity,
			ActiveIncidents: totalActive(current),
		})
	}

	for id, result := range current.Providers {
		prevSeverity := severity.Unknown
		if !firstRun {
			if prevResult, ok := prev.Providers[id]; ok {
				prevSeverity = prevResult.Severity
			}
		}
		if !shouldReport(firstRun, prevSeverity, result.Severity) {
			continue
		}
		transitions = append(transitions, SeverityTransition{
			Scope:           id,
			Previous:        prevSeverity,
			Current:         result.Severity,
			Description:     result.Description,
			ActiveIncidents: len(current.Incidents[id].Active),
		})
	}

	// Sort by scope for deterministic output; "combined" stays first.
	sort.SliceStable(transitions, func(i, j int) bool {
		if transitions[i].Scope == CombinedScope {
			return transitions[j].Scope != CombinedScope
		}
		if transitions[j].Scope == CombinedScope {
			return false
		}
		return transitions[i].Scope < transitions[j].Scope
	})

	return transitions
}

func shouldReport(firstRun bool, prev, current severity.Severity) bool {
	if firstRun {
		return current > severity.Operational
	}
	return prev != current
}

func totalActive(snapshot state.Snapshot) int {
	total := 0
	for _, digest := range snapshot.Incidents {
		total += len(digest.Active)
	}
	return total
}
