package flexitime

import (
	"time"
)

// =============================================================================
// SCHEDULE RESOLUTION - Required minutes per date
// =============================================================================

// Fallback schedule used when an employee has no resolvable work-time
// model: a 38.5-hour week front-loaded Monday through Thursday with a
// short Friday. This is a deliberate policy default, not an error path;
// unknown models and unassigned employees both land here.
const (
	fallbackWeekdayMinutes = 9 * 60 // Mon-Thu
	fallbackFridayMinutes  = 5 * 60 // Fri
)

// RequiredMinutes resolves the scheduled minutes for a date. Weekends
// are always zero. A nil model selects the fallback schedule.
func RequiredMinutes(date Date, model *WorkTimeModel) int {
	if date.IsWeekend() {
		return 0
	}
	if model != nil {
		return model.MinutesOn(date.Weekday())
	}
	if date.Weekday() == time.Friday {
		return fallbackFridayMinutes
	}
	return fallbackWeekdayMinutes
}
