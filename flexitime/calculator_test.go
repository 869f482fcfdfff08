package flexitime_test

import (
	"testing"

	"github.com/warp/flexitime-engine/flexitime"
)

// =============================================================================
// NET WORKING TIME TESTS
// =============================================================================

func TestNetMinutes_BreakTiers(t *testing.T) {
	// GIVEN: Presence spans around the two break thresholds
	// WHEN: Computing net working time
	// THEN: Breaks are deducted per tier, with clamping in the windows

	cases := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"short day no deduction", "08:00", "13:00", 300},
		{"exactly six hours", "08:00", "14:00", 360},
		{"inside first clamp window", "08:00", "14:20", 360},
		{"clamp window upper edge", "08:00", "14:30", 360},
		{"just past first window", "08:00", "14:31", 361},
		{"eight and a half hours gross", "08:00", "16:30", 480},
		{"exactly nine hours adjusted", "08:00", "17:30", 540},
		{"inside second clamp window", "08:00", "17:40", 540},
		{"second window upper edge", "08:00", "17:45", 540},
		{"ten hours gross", "08:00", "18:00", 555},
		{"long day both breaks", "07:00", "19:00", 675},
		{"zero length", "08:00", "08:00", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := flexitime.NetMinutes(tc.start, tc.end)
			if !ok {
				t.Fatalf("NetMinutes(%q, %q) not computable", tc.start, tc.end)
			}
			if got != tc.want {
				t.Errorf("NetMinutes(%q, %q) = %d, want %d", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestNetMinutes_Overnight(t *testing.T) {
	// GIVEN: A clock-out earlier than the clock-in
	// WHEN: Computing net working time
	// THEN: The shift is treated as crossing midnight

	got, ok := flexitime.NetMinutes("22:00", "06:00")
	if !ok {
		t.Fatal("overnight shift should be computable")
	}
	// 8h gross, 30 min first break
	if got != 450 {
		t.Errorf("overnight net = %d, want 450", got)
	}
}

func TestNetMinutes_AbsentOrMalformed(t *testing.T) {
	// GIVEN: Blank or malformed clock cells
	// WHEN: Computing net working time
	// THEN: The day has no computable working time, never an error

	cases := []struct {
		name  string
		start string
		end   string
	}{
		{"both blank", "", ""},
		{"missing end", "08:00", ""},
		{"missing start", "", "16:00"},
		{"garbage start", "8am", "16:00"},
		{"hour out of range", "25:00", "16:00"},
		{"minute out of range", "08:61", "16:00"},
		{"single digit minutes", "08:0", "16:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := flexitime.NetMinutes(tc.start, tc.end); ok {
				t.Errorf("NetMinutes(%q, %q) should not be computable", tc.start, tc.end)
			}
		})
	}
}
