package flexitime

import (
	"sort"
)

// =============================================================================
// RANGE MATERIALIZATION - Default records for calendar spans
// =============================================================================

// MergeRange inserts a default record for every day in [from, to] that
// records does not already cover. Existing records are never touched,
// so the operation is idempotent. A from after to inserts nothing.
// Weekdays default to the presence label, Saturdays and Sundays to the
// weekend label; clock and balance cells start blank.
//
// Returns the merged slice, sorted by date, and the number of records
// inserted.
func MergeRange(records []Record, employeeID string, from, to Date, presenceLabel, weekendLabel string) ([]Record, int) {
	if from.After(to) {
		return records, 0
	}

	existing := make(map[string]struct{}, len(records))
	for _, r := range records {
		existing[r.Date.String()] = struct{}{}
	}

	span := DaysBetween(from, to) + 1
	if cap(records)-len(records) < span {
		grown := make([]Record, len(records), len(records)+span)
		copy(grown, records)
		records = grown
	}

	added := 0
	for d := from; !d.After(to); d = d.AddDays(1) {
		if _, ok := existing[d.String()]; ok {
			continue
		}
		status := presenceLabel
		if d.IsWeekend() {
			status = weekendLabel
		}
		records = append(records, Record{
			EmployeeID: employeeID,
			Date:       d,
			Status:     status,
		})
		added++
	}
	if added > 0 {
		sort.Slice(records, func(i, j int) bool {
			return records[i].Date.Before(records[j].Date)
		})
	}
	return records, added
}
