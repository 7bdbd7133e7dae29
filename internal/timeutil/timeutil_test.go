package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC); !parsed.Equal(want) {
		t.Fatalf("expected %s, got %s", want, parsed)
	}
	if _, err := ParseDate("02/01/2024"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestParseKickoff(t *testing.T) {
	cases := []struct {
		date  string
		clock string
		want  time.Time
	}{
		{"2024-05-01", "15:00", time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)},
		{"2024-05-01", "19:45:30", time.Date(2024, 5, 1, 19, 45, 30, 0, time.UTC)},
		{"2024-05-01", "", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseKickoff(tc.date, tc.clock)
		if err != nil {
			t.Fatalf("ParseKickoff(%q, %q) unexpected error: %v", tc.date, tc.clock, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseKickoff(%q, %q) = %s, want %s", tc.date, tc.clock, got, tc.want)
		}
	}
}

func TestParseKickoffRejectsGarbage(t *testing.T) {
	if _, err := ParseKickoff("not-a-date", "15:00"); err == nil {
		t.Fatal("expected error for invalid date")
	}
	if _, err := ParseKickoff("2024-05-01", "tea time"); err == nil {
		t.Fatal("expected error for invalid clock")
	}
}
