package flexitime_test

import (
	"testing"
	"time"

	"github.com/warp/flexitime-engine/flexitime"
)

func day(d int) flexitime.Date { return flexitime.NewDate(2025, time.March, d) }

func rec(d int, balance string) flexitime.Record {
	return flexitime.Record{EmployeeID: "00001234", Date: day(d), Balance: balance}
}

func TestPreviousBalance_LatestStrictlyBefore(t *testing.T) {
	// GIVEN: Records on the 10th, 11th and 12th
	// WHEN: Asking for the balance before the 12th
	// THEN: The 11th's cell counts, not the 12th's

	records := []flexitime.Record{
		rec(10, "+1:00"),
		rec(11, "-0:30"),
		rec(12, "+5:00"),
	}

	got := flexitime.PreviousBalance(records, day(12))
	if got.Defaulted || got.Minutes != -30 {
		t.Errorf("PreviousBalance = %+v, want -30 minutes", got)
	}
}

func TestPreviousBalance_NoPriorRecord(t *testing.T) {
	records := []flexitime.Record{rec(11, "+1:00")}

	got := flexitime.PreviousBalance(records, day(10))
	if !got.Defaulted || got.Minutes != 0 {
		t.Errorf("PreviousBalance = %+v, want defaulted zero", got)
	}

	got = flexitime.PreviousBalance(nil, day(10))
	if !got.Defaulted || got.Minutes != 0 {
		t.Errorf("PreviousBalance(nil) = %+v, want defaulted zero", got)
	}
}

func TestPreviousBalance_MalformedCell(t *testing.T) {
	// GIVEN: The latest prior record has a corrupt balance cell
	// WHEN: Reading the previous balance
	// THEN: It degrades to a defaulted zero; earlier cells are not consulted

	records := []flexitime.Record{
		rec(10, "+2:00"),
		rec(11, "garbage"),
	}

	got := flexitime.PreviousBalance(records, day(12))
	if !got.Defaulted || got.Minutes != 0 {
		t.Errorf("PreviousBalance = %+v, want defaulted zero", got)
	}
}

func TestPrior_CountersSkipBlankCells(t *testing.T) {
	// GIVEN: Counters set on different, non-adjacent days
	// WHEN: Collecting prior state
	// THEN: Each counter comes from the last record that set it

	records := []flexitime.Record{
		{Date: day(10), Balance: "+1:00", Vacation: "25", SpecialDuty: "3"},
		{Date: day(11), Balance: "+1:30"},
		{Date: day(12), Balance: "+2:00", Vacation: "24"},
	}

	st := flexitime.Prior(records, day(13))
	if st.Balance.Minutes != 120 {
		t.Errorf("balance = %d, want 120", st.Balance.Minutes)
	}
	if st.Vacation != 24 {
		t.Errorf("vacation = %d, want 24", st.Vacation)
	}
	if st.SpecialDuty != 3 {
		t.Errorf("special duty = %d, want 3", st.SpecialDuty)
	}
}
