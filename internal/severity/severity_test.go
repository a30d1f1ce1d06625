package severity

import "testing"

func TestFromIndicator(t *testing.T) {
	cases := []struct {
		indicator string
		want      Severity
	}{
		{"none", Operational},
		{"minor", Minor},
		{"major", Major},
		{"critical", Critical},
		{"NONE", Operational},
		{" critical ", Critical},
		{"maintenance", Unknown},
		{"", Unknown},
	}

	for _, tc := range cases {
		if got := FromIndicator(tc.indicator); got != tc.want {
			t.Fatalf("FromIndicator(%q) = %v, want %v", tc.indicator, got, tc.want)
		}
	}
}

func TestFromComponentStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Severity
	}{
		{"operational", Operational},
		{"degraded_performance", Minor},
		{"minor_outage", Minor},
		{"partial_outage", Major},
		{"major_outage", Major},
		{"outage", Critical},
		{"critical", Critical},
		{"Degraded Performance", Minor},
		{"under_maintenance", Unknown},
		{"", Unknown},
	}

	for _, tc := range cases {
		if got := FromComponentStatus(tc.raw); got != tc.want {
			t.Fatalf("FromComponentStatus(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestCombineIsWorstCase(t *testing.T) {
	all := []Severity{Unknown, Operational, Minor, Major, Critical}

	for _, a := range all {
		for _, b := range all {
			got := Combine(a, b)
			if got != Combine(b, a) {
				t.Fatalf("Combine(%v, %v) not commutative", a, b)
			}
			if got < a || got < b {
				t.Fatalf("Combine(%v, %v) = %v, lower than an input", a, b, got)
			}
		}
		if Combine(a, a) != a {
			t.Fatalf("Combine(%v, %v) not idempotent", a, a)
		}
	}
}

func TestCombineEmptyIsUnknown(t *testing.T) {
	if got := Combine(); got != Unknown {
		t.Fatalf("Combine() = %v, want Unknown", got)
	}
}

func TestCombineUnknownNeverMasksKnownWorse(t *testing.T) {
	if got := Combine(Unknown, Critical); got != Critical {
		t.Fatalf("Combine(Unknown, Critical) = %v, want Critical", got)
	}
	if got := Combine(Operational, Unknown); got != Operational {
		t.Fatalf("Combine(Operational, Unknown) = %v, want Operational", got)
	}
}

func TestCountAffected(t *testing.T) {
	if got := CountAffected(nil); got != 0 {
		t.Fatalf("CountAffected(nil) = %d, want 0", got)
	}
	if got := CountAffected([]string{}); got != 0 {
		t.Fatalf("CountAffected(empty) = %d, want 0", got)
	}

	statuses := []string{
		"operational",
		"degraded_performance",
		"major_outage",
		"under_maintenance",
		"operational",
	}
	if got := CountAffected(statuses); got != 2 {
		t.Fatalf("CountAffected = %d, want 2", got)
	}
}

func TestSeverityTextRoundTrip(t *testing.T) {
	for _, sev := range []Severity{Unknown, Operational, Minor, Major, Critical} {
		text, err := sev.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", sev, err)
		}
		var decoded Severity
		if err := decoded.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if decoded != sev {
			t.Fatalf("round trip %v -> %q -> %v", sev, text, decoded)
		}
	}

	var decoded Severity
	if err := decoded.UnmarshalText([]byte("bogus")); err != nil {
		t.Fatalf("UnmarshalText(bogus): %v", err)
	}
	if decoded != Unknown {
		t.Fatalf("unrecognized severity decoded to %v, want Unknown", decoded)
	}
}
