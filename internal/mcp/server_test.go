package mcp

import (
	"testing"
)

// TestDefaultTimeRange verifies time range defaults (last 30 days) and parsing.
func TestDefaultTimeRange(t *testing.T) {
	// Both empty → defaults to last 30 days
	start, end, err := defaultTimeRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diff := end.Sub(start)
	if diff.Hours() < 719 || diff.Hours() > 721 { // ~720 hours = 30 days
		t.Errorf("default range = %.0f hours, want ~720", diff.Hours())
	}

	// Explicit dates
	start, end, err = defaultTimeRange("2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Year() != 2026 || start.Month() != 1 || start.Day() != 1 {
		t.Errorf("start = %v, want 2026-01-01", start)
	}
	if end.Year() != 2026 || end.Month() != 1 || end.Day() != 31 {
		t.Errorf("end = %v, want 2026-01-31", end)
	}

	// RFC3339
	start, _, err = defaultTimeRange("2026-06-15T10:30:00Z", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Errorf("start = %v, want 10:30", start)
	}

	// Invalid
	_, _, err = defaultTimeRange("not-a-date", "")
	if err == nil {
		t.Error("expected error for invalid date")
	}
}

// TestParseWeekday verifies the weekday filter bounds.
func TestParseWeekday(t *testing.T) {
	if d, err := parseWeekday("0"); err != nil || d != 0 {
		t.Errorf("parseWeekday(0) = %d, %v", d, err)
	}
	if d, err := parseWeekday("6"); err != nil || d != 6 {
		t.Errorf("parseWeekday(6) = %d, %v", d, err)
	}
	for _, bad := range []string{"7", "-1", "monday", ""} {
		if _, err := parseWeekday(bad); err == nil {
			t.Errorf("parseWeekday(%q) accepted", bad)
		}
	}
}

// TestParsePositiveInt verifies limit parsing.
func TestParsePositiveInt(t *testing.T) {
	if n, err := parsePositiveInt("25"); err != nil || n != 25 {
		t.Errorf("parsePositiveInt(25) = %d, %v", n, err)
	}
	for _, bad := range []string{"0", "-3", "ten"} {
		if _, err := parsePositiveInt(bad); err == nil {
			t.Errorf("parsePositiveInt(%q) accepted", bad)
		}
	}
}
