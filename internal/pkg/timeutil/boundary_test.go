package timeutil

import (
	"errors"
	"testing"
	"time"
)

func TestUTCDateKey(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"2025-03-10T00:00:00Z", "2025-03-10T00:00:00Z"},
		{"2025-03-10T23:59:59Z", "2025-03-10T00:00:00Z"},
		{"2025-03-10T18:30:00-07:00", "2025-03-11T00:00:00Z"}, // next UTC day
		{"2025-12-31T23:00:00Z", "2025-12-31T00:00:00Z"},
	}
	for _, c := range cases {
		in, _ := time.Parse(time.RFC3339, c.input)
		want, _ := time.Parse(time.RFC3339, c.want)
		got := UTCDateKey(in)
		if !got.Equal(want) {
			t.Errorf("UTCDateKey(%s) = %s, want %s", c.input, got, want)
		}
	}
}

func TestParseShiftTime(t *testing.T) {
	cases := []struct {
		input string
		want  TimeOfDay
	}{
		{"9:00 AM", TimeOfDay{9, 0}},
		{"09:30 am", TimeOfDay{9, 30}},
		{"12:00 AM", TimeOfDay{0, 0}},
		{"12:00 PM", TimeOfDay{12, 0}},
		{"6:00 PM", TimeOfDay{18, 0}},
		{"11:45 pm", TimeOfDay{23, 45}},
		{"  10:15 PM ", TimeOfDay{22, 15}},
		{"18:00", TimeOfDay{18, 0}},
		{"00:00", TimeOfDay{0, 0}},
	}
	for _, c := range cases {
		got, err := ParseShiftTime(c.input)
		if err != nil {
			t.Errorf("ParseShiftTime(%q) unexpected error: %v", c.input, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseShiftTime(%q) = %+v, want %+v", c.input, got, c.want)
		}
	}
}

func TestParseShiftTime_Invalid(t *testing.T) {
	invalid := []string{
		"", "   ", "9 AM", "9:0 AM", "13:00 PM", "0:30 AM", "9:60 AM",
		"9:00 XM", "nine AM", "9:00 AM extra", "25:00", "18:5",
	}
	for _, s := range invalid {
		_, err := ParseShiftTime(s)
		if err == nil {
			t.Errorf("ParseShiftTime(%q) = nil error, want ErrInvalidShiftTime", s)
			continue
		}
		if !errors.Is(err, ErrInvalidShiftTime) {
			t.Errorf("ParseShiftTime(%q) error = %v, want ErrInvalidShiftTime", s, err)
		}
	}
}

func TestResolveShiftInstant(t *testing.T) {
	ref, _ := time.Parse(time.RFC3339, "2025-03-10T08:30:00Z")

	// Boundary later the same day.
	got := ResolveShiftInstant(TimeOfDay{18, 0}, ref)
	want, _ := time.Parse(time.RFC3339, "2025-03-10T18:00:00Z")
	if !got.Equal(want) {
		t.Errorf("same-day boundary = %s, want %s", got, want)
	}

	// Cross-midnight: check-in 10 PM, checkout boundary 6 AM next day.
	nightRef, _ := time.Parse(time.RFC3339, "2025-03-10T22:00:00Z")
	got = ResolveShiftInstant(TimeOfDay{6, 0}, nightRef)
	want, _ = time.Parse(time.RFC3339, "2025-03-11T06:00:00Z")
	if !got.Equal(want) {
		t.Errorf("cross-midnight boundary = %s, want %s", got, want)
	}

	// Boundary exactly at the reference rolls forward one day.
	exactRef, _ := time.Parse(time.RFC3339, "2025-03-10T18:00:00Z")
	got = ResolveShiftInstant(TimeOfDay{18, 0}, exactRef)
	want, _ = time.Parse(time.RFC3339, "2025-03-11T18:00:00Z")
	if !got.Equal(want) {
		t.Errorf("at-boundary reference = %s, want %s", got, want)
	}
}

func TestResolveShiftInstant_IdempotentPastBoundary(t *testing.T) {
	ref, _ := time.Parse(time.RFC3339, "2025-03-10T08:30:00Z")
	first := ResolveShiftInstant(TimeOfDay{18, 0}, ref)

	// Re-resolving against the original reference must not keep rolling days.
	second := ResolveShiftInstant(TimeOfDay{18, 0}, ref)
	if !first.Equal(second) {
		t.Errorf("re-application diverged: %s vs %s", first, second)
	}
}

func TestIsOverdue(t *testing.T) {
	checkIn, _ := time.Parse(time.RFC3339, "2025-03-10T09:00:00Z")
	shiftEnd := TimeOfDay{18, 0}
	grace := 30 * time.Minute

	within, _ := time.Parse(time.RFC3339, "2025-03-10T18:15:00Z")
	if IsOverdue(checkIn, shiftEnd, grace, within) {
		t.Error("within grace period reported as overdue")
	}

	atLimit, _ := time.Parse(time.RFC3339, "2025-03-10T18:30:00Z")
	if IsOverdue(checkIn, shiftEnd, grace, atLimit) {
		t.Error("exactly at grace limit reported as overdue")
	}

	past, _ := time.Parse(time.RFC3339, "2025-03-10T18:30:01Z")
	if !IsOverdue(checkIn, shiftEnd, grace, past) {
		t.Error("past grace limit not reported as overdue")
	}
}

func TestEndOfDay(t *testing.T) {
	in, _ := time.Parse(time.RFC3339, "2025-03-10T14:22:05Z")
	want, _ := time.Parse(time.RFC3339, "2025-03-10T23:59:59Z")
	if got := EndOfDay(in); !got.Equal(want) {
		t.Errorf("EndOfDay = %s, want %s", got, want)
	}
}

func TestRoundHours(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want float64
	}{
		{4 * time.Hour, 4.0},
		{5 * time.Hour, 5.0},
		{4*time.Hour + 30*time.Minute, 4.5},
		{1*time.Hour + 20*time.Minute, 1.33},
		{59 * time.Second, 0.02},
		{0, 0},
	}
	for _, c := range cases {
		if got := RoundHours(c.d); got != c.want {
			t.Errorf("RoundHours(%v) = %v, want %v", c.d, got, c.want)
		}
	}
}
