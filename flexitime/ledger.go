/*
ledger.go - Reading running state out of an employee's record sequence

PURPOSE:
  The balance is not stored centrally; each record carries the running
  balance as of its own day. Reading "the balance before date X" means
  finding the latest record strictly before X and parsing its cell.
  Vacation and special-duty counters follow the same carry-forward idea
  but skip blank cells, since only the rules that spend them write them.

SEE ALSO:
  - rules.go: Consumes PriorState during recomputation
  - engine.go: Replays records in order so every row carries fresh state
*/
package flexitime

// PriorState is the running state carried into a record's recomputation.
type PriorState struct {
	Balance     SignedMinutes
	Vacation    int
	SpecialDuty int
}

// PreviousBalance returns the balance in effect before date: the balance
// cell of the latest record strictly before it. A blank or malformed
// cell, or no prior record at all, yields a defaulted zero. records must
// be sorted by date ascending.
func PreviousBalance(records []Record, date Date) SignedMinutes {
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Date.Before(date) {
			return ParseSignedMinutes(records[i].Balance)
		}
	}
	return SignedMinutes{Defaulted: true}
}

// Prior collects the full running state before date. Counters scan past
// blank cells back to the last record that actually set them.
func Prior(records []Record, date Date) PriorState {
	st := PriorState{Balance: PreviousBalance(records, date)}
	vacDone, sdDone := false, false
	for i := len(records) - 1; i >= 0 && !(vacDone && sdDone); i-- {
		if !records[i].Date.Before(date) {
			continue
		}
		if !vacDone {
			if n, ok := ParseCount(records[i].Vacation); ok {
				st.Vacation = n
				vacDone = true
			}
		}
		if !sdDone {
			if n, ok := ParseCount(records[i].SpecialDuty); ok {
				st.SpecialDuty = n
				sdDone = true
			}
		}
	}
	return st
}
