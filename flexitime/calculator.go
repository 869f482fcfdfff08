package flexitime

// =============================================================================
// NET WORKING TIME - Tiered break deduction
// =============================================================================
//
// Gross presence is end minus start; an end before the start means the
// shift ran past midnight and a day is added. Statutory breaks are then
// deducted in two tiers:
//
//   gross <= 6h00          -> no deduction
//   6h00 < gross <= 6h30   -> clamped to 6h00 (break eats the overshoot)
//   gross  > 6h30          -> 30 min deducted
//
// and, on the adjusted value:
//
//   adjusted <= 9h00         -> no further deduction
//   9h00 < adjusted <= 9h15  -> clamped to 9h00
//   adjusted  > 9h15         -> 15 more min deducted
//
// A 10-hour presence therefore nets 9h15 (45 min of breaks total).

const (
	firstBreakThreshold  = 6 * 60     // 360
	firstBreakClampEnd   = 6*60 + 30  // 390
	firstBreakMinutes    = 30
	secondBreakThreshold = 9 * 60     // 540
	secondBreakClampEnd  = 9*60 + 15  // 555
	secondBreakMinutes   = 15
	minutesPerDay        = 24 * 60
)

// NetMinutes computes net working minutes from two clock cells.
// Returns false when either cell is blank or malformed; such days have
// no computable working time and net-dependent rules leave their cells
// untouched.
func NetMinutes(start, end string) (int, bool) {
	s, ok := ParseClock(start)
	if !ok {
		return 0, false
	}
	e, ok := ParseClock(end)
	if !ok {
		return 0, false
	}
	gross := e.Minutes() - s.Minutes()
	if gross < 0 {
		gross += minutesPerDay // overnight shift
	}

	adjusted := gross
	switch {
	case gross <= firstBreakThreshold:
		// no deduction
	case gross <= firstBreakClampEnd:
		adjusted = firstBreakThreshold
	default:
		adjusted = gross - firstBreakMinutes
	}

	switch {
	case adjusted <= secondBreakThreshold:
		return adjusted, true
	case adjusted <= secondBreakClampEnd:
		return secondBreakThreshold, true
	default:
		return adjusted - secondBreakMinutes, true
	}
}
