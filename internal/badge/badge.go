package badge

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/statuswatch/statuswatch/internal/severity"
)

// Icon set names, used to key per-size icon paths.
const (
	IconGreen  = "green"
	IconYellow = "yellow"
	IconRed    = "red"
	IconGray   = "gray"
)

// Badge background palette keyed by severity.
const (
	ColorGreen = "#10b981"
	ColorAmber = "#f59e0b"
	ColorRed   = "#ef4444"
	ColorGray  = "#64748b"
)

var iconSizes = []string{"16", "32", "48", "128"}

// Projection is the visible icon/badge/tooltip triple derived from combined
// severity and affected-component count.
type Projection struct {
	Icon      string            `json:"icon"`
	IconPaths map[string]string `json:"icon_paths"`
	Text      string            `json:"text"`
	Color     string            `json:"color"`
	Tooltip   string            `json:"tooltip"`
}

// Project maps a combined severity and affected-component count to a
// projection. Pure function; applying the result is the Applier's job.
func Project(sev severity.Severity, affected int) Projection {
	p := Projection{}

	switch sev {
	case severity.Operational:
		p.Icon = IconGreen
		p.Color = ColorGreen
		p.Text = ""
		p.Tooltip = "All systems operational"
	case severity.Minor:
		p.Icon = IconYellow
		p.Color = ColorAmber
		p.Text = countText(affected)
		p.Tooltip = degradedTooltip("Minor service degradation", affected)
	case severity.Major:
		p.Icon = IconRed
		p.Color = ColorRed
		p.Text = countText(affected)
		p.Tooltip = degradedTooltip("Major service disruption", affected)
	case severity.Critical:
		p.Icon = IconRed
		p.Color = ColorRed
		p.Text = countText(affected)
		p.Tooltip = degradedTooltip("Critical service outage", affected)
	default:
		p.Icon = IconGray
		p.Color = ColorGray
		p.Text = "?"
		p.Tooltip = "Service status unknown"
	}

	p.IconPaths = iconPaths(p.Icon)
	return p
}

// countText renders the affected count, falling back to "!" when the count is
// zero or unavailable but the severity is degraded.
func countText(affected int) string {
	if affected > 0 {
		return strconv.Itoa(affected)
	}
	return "!"
}

func degradedTooltip(label string, affected int) string {
	if affected > 0 {
		return fmt.Sprintf("%s (%d affected)", label, affected)
	}
	return label
}

func iconPaths(name string) map[string]string {
	paths := make(map[string]string, len(iconSizes))
	for _, size := range iconSizes {
		paths[size] = fmt.Sprintf("icons/%s-%s.png", name, size)
	}
	return paths
}

// Applier applies a projection to the host surface. Implementations must not
// let apply failures escape the badge layer.
type Applier interface {
	Apply(ctx context.Context, p Projection) error
}

// LogApplier renders projections as log events. It stands in for a host
// action API and never fails.
type LogApplier struct {
	logger zerolog.Logger
}

// NewLogApplier returns an Applier backed by the given logger.
func NewLogApplier(logger zerolog.Logger) *LogApplier {
	return &LogApplier{logger: logger}
}

// Apply implements Applier.
func (a *LogApplier) Apply(_ context.Context, p Projection) error {
	a.logger.Info().
		Str("icon", p.Icon).
		Str("text", p.Text).
		Str("color", p.Color).
		Str("tooltip", p.Tooltip).
		Msg("badge updated")
	return nil
}
