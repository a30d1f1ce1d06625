package badge

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/statuswatch/statuswatch/internal/severity"
)

func TestProject_Operational(t *testing.T) {
	p := Project(severity.Operational, 0)
	if p.Icon != IconGreen {
		t.Fatalf("expected green icon, got %q", p.Icon)
	}
	if p.Text != "" {
		t.Fatalf("expected empty badge text, got %q", p.Text)
	}
	if p.Color != ColorGreen {
		t.Fatalf("unexpected color: %q", p.Color)
	}
	if p.Tooltip != "All systems operational" {
		t.Fatalf("unexpected tooltip: %q", p.Tooltip)
	}
}

func TestProject_MinorWithAffectedCount(t *testing.T) {
	p := Project(severity.Minor, 1)
	if p.Icon != IconYellow {
		t.Fatalf("expected yellow icon, got %q", p.Icon)
	}
	if p.Text != "1" {
		t.Fatalf("expected badge text 1, got %q", p.Text)
	}
	if p.Color != ColorAmber {
		t.Fatalf("unexpected color: %q", p.Color)
	}
}

func TestProject_MajorUsesRed(t *testing.T) {
	p := Project(severity.Major, 3)
	if p.Icon != IconRed {
		t.Fatalf("expected red icon, got %q", p.Icon)
	}
	if p.Text != "3" {
		t.Fatalf("expected badge text 3, got %q", p.Text)
	}
	if p.Color != ColorRed {
		t.Fatalf("unexpected color: %q", p.Color)
	}
}

func TestProject_CriticalWithoutCountShowsBang(t *testing.T) {
	p := Project(severity.Critical, 0)
	if p.Icon != IconRed {
		t.Fatalf("expected red icon, got %q", p.Icon)
	}
	if p.Text != "!" {
		t.Fatalf("expected badge text !, got %q", p.Text)
	}
}

func TestProject_UnknownIsGray(t *testing.T) {
	p := Project(severity.Unknown, 0)
	if p.Icon != IconGray {
		t.Fatalf("expected gray icon, got %q", p.Icon)
	}
	if p.Color != ColorGray {
		t.Fatalf("unexpected color: %q", p.Color)
	}
	if p.Text != "?" {
		t.Fatalf("expected badge text ?, got %q", p.Text)
	}
}

func TestProject_IconPathsCoverAllSizes(t *testing.T) {
	p := Project(severity.Operational, 0)
	for _, size := range []string{"16", "32", "48", "128"} {
		path, ok := p.IconPaths[size]
		if !ok || path == "" {
			t.Fatalf("missing icon path for size %s", size)
		}
	}
}

func TestLogApplierNeverFails(t *testing.T) {
	applier := NewLogApplier(zerolog.Nop())
	if err := applier.Apply(context.Background(), Project(severity.Critical, 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
