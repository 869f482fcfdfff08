package flexitime_test

import (
	"testing"
	"time"

	"github.com/warp/flexitime-engine/flexitime"
)

func TestMergeRange_FillsSpanWithDefaults(t *testing.T) {
	// GIVEN: No existing records
	// WHEN: Materializing Monday through Sunday
	// THEN: Weekdays get the presence label, Sat/Sun the weekend label

	from := flexitime.NewDate(2025, time.March, 10) // Monday
	to := flexitime.NewDate(2025, time.March, 16)   // Sunday

	records, added := flexitime.MergeRange(nil, "00001234", from, to, "present", "weekend")
	if added != 7 || len(records) != 7 {
		t.Fatalf("added %d records, want 7", added)
	}

	for i, r := range records {
		wantDate := from.AddDays(i)
		if !r.Date.Equal(wantDate) {
			t.Errorf("record %d date = %s, want %s", i, r.Date, wantDate)
		}
		want := "present"
		if wantDate.IsWeekend() {
			want = "weekend"
		}
		if r.Status != want {
			t.Errorf("%s status = %q, want %q", r.Date, r.Status, want)
		}
		if r.Start != "" || r.End != "" || r.Balance != "" {
			t.Errorf("%s should start with blank cells", r.Date)
		}
	}
}

func TestMergeRange_Idempotent(t *testing.T) {
	// GIVEN: A span already materialized, with one record edited
	// WHEN: Materializing the same span again
	// THEN: Nothing is added and the edit survives

	from := flexitime.NewDate(2025, time.March, 10)
	to := flexitime.NewDate(2025, time.March, 14)

	records, _ := flexitime.MergeRange(nil, "00001234", from, to, "present", "weekend")
	records[2].Status = "vacation"
	records[2].Balance = "+1:00"

	again, added := flexitime.MergeRange(records, "00001234", from, to, "present", "weekend")
	if added != 0 {
		t.Fatalf("second merge added %d, want 0", added)
	}
	if again[2].Status != "vacation" || again[2].Balance != "+1:00" {
		t.Errorf("existing record was touched: %+v", again[2])
	}
}

func TestMergeRange_PartialOverlap(t *testing.T) {
	from := flexitime.NewDate(2025, time.March, 10)
	to := flexitime.NewDate(2025, time.March, 12)

	records, _ := flexitime.MergeRange(nil, "00001234", from, to, "present", "weekend")

	// Extend by two days on each side
	merged, added := flexitime.MergeRange(records, "00001234",
		from.AddDays(-2), to.AddDays(2), "present", "weekend")
	if added != 4 {
		t.Fatalf("added %d, want 4", added)
	}

	// Order by date is preserved after the merge
	for i := 1; i < len(merged); i++ {
		if !merged[i-1].Date.Before(merged[i].Date) {
			t.Fatalf("records out of order at %d: %s then %s",
				i, merged[i-1].Date, merged[i].Date)
		}
	}
}

func TestMergeRange_InvertedSpanIsEmpty(t *testing.T) {
	// GIVEN: from after to
	// WHEN: Materializing
	// THEN: Zero records, no error path at all

	from := flexitime.NewDate(2025, time.March, 14)
	to := flexitime.NewDate(2025, time.March, 10)

	records, added := flexitime.MergeRange(nil, "00001234", from, to, "present", "weekend")
	if added != 0 || len(records) != 0 {
		t.Errorf("inverted span produced %d records", added)
	}
}
