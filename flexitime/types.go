/*
Package flexitime provides the core attendance accounting engine.

PURPOSE:
  This package contains the domain types and algorithms for flexitime
  accounting: daily attendance records, clock-time arithmetic, schedule
  resolution, and the status rule engine that folds records into a
  running balance ledger.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: A person identified by an 8-digit personnel number
  - WorkTimeModel: Weekly schedule with per-weekday hours (Mon-Fri)
  - Record: One attendance day (status, clock times, balance cells)
  - Clock: A parsed "HH:MM" clock time
  - SignedMinutes: A parsed "+H:MM"/"-H:MM" cell with a defaulted flag

DESIGN PRINCIPLES:
  1. Degradation over failure: malformed cells parse to safe defaults,
     never to fatal errors
  2. Explicitness: every parse result says whether the value was read
     or defaulted
  3. Precision: model hours use decimal.Decimal, minutes use int

USAGE:
  net, ok := flexitime.NetMinutes("08:00", "16:30")
  bal := flexitime.ParseSignedMinutes("+1:15")
  cell := flexitime.FormatSigned(net - 480)

SEE ALSO:
  - calculator.go: Net working time with tiered break deduction
  - rules.go: Status rule engine and record recomputation
  - engine.go: Orchestration over the record store
*/
package flexitime

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

type Employee struct {
	ID        string // 8-digit personnel number
	LastName  string
	FirstName string
	Model     string // work-time model name, may be empty
	Rank      string
	Unit      string
}

// IsValidEmployeeID reports whether id is exactly eight ASCII digits.
func IsValidEmployeeID(id string) bool {
	if len(id) != 8 {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeName collapses runs of whitespace to single spaces and
// title-cases each word.
func NormalizeName(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		runes := []rune(strings.ToLower(f))
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}

// =============================================================================
// WORK-TIME MODEL
// =============================================================================

// WorkTimeModel describes scheduled hours per weekday. Days holds hours
// for Monday through Friday in that order; weekends are always zero.
type WorkTimeModel struct {
	Name   string
	Weekly decimal.Decimal    // total weekly hours
	Days   [5]decimal.Decimal // Mon..Fri hours
}

// modelTolerance is the maximum allowed drift between the declared weekly
// hours and the sum of the daily hours.
var modelTolerance = decimal.NewFromFloat(0.01)

// Validate checks that the declared weekly hours match the sum of the
// daily hours within tolerance, and that no value is negative.
func (m WorkTimeModel) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidModel)
	}
	if m.Weekly.IsNegative() {
		return fmt.Errorf("%w: negative weekly hours", ErrInvalidModel)
	}
	sum := decimal.Zero
	for _, d := range m.Days {
		if d.IsNegative() {
			return fmt.Errorf("%w: negative daily hours", ErrInvalidModel)
		}
		sum = sum.Add(d)
	}
	if m.Weekly.Sub(sum).Abs().GreaterThan(modelTolerance) {
		return fmt.Errorf("%w: weekly hours %s do not match daily sum %s",
			ErrInvalidModel, m.Weekly, sum)
	}
	return nil
}

// MinutesOn returns the scheduled minutes for a weekday. Saturday and
// Sunday are always zero.
func (m WorkTimeModel) MinutesOn(wd time.Weekday) int {
	if wd == time.Saturday || wd == time.Sunday {
		return 0
	}
	// time.Weekday has Sunday == 0; Days is Monday-indexed.
	return int(m.Days[int(wd)-1].Mul(decimal.NewFromInt(60)).Round(0).IntPart())
}

// =============================================================================
// RECORD - One attendance day
// =============================================================================

// Record is a single attendance day for one employee. The cell fields
// (Start, End, Balance, Vacation, SpecialDuty, Overtime) hold raw text;
// blank means "not set". Recomputation writes canonical text back into
// the cells it owns and leaves the others untouched.
type Record struct {
	EmployeeID  string
	Date        Date
	Status      string
	Start       string // "HH:MM" or blank
	End         string // "HH:MM" or blank
	Balance     string // signed "±H:MM" or blank
	Vacation    string // remaining vacation days, integer text or blank
	SpecialDuty string // remaining special-duty days, integer text or blank
	Overtime    string // signed "±H:MM" or blank
}

// =============================================================================
// CLOCK TIMES
// =============================================================================

type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (leading zero optional for the hour).
// Returns false for blank or malformed input.
func ParseClock(s string) (Clock, bool) {
	s = strings.TrimSpace(s)
	h, m, ok := splitClock(s)
	if !ok || h < 0 || h > 23 || m < 0 || m > 59 {
		return Clock{}, false
	}
	return Clock{Hour: h, Minute: m}, true
}

func (c Clock) Minutes() int { return c.Hour*60 + c.Minute }

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

func splitClock(s string) (h, m int, ok bool) {
	left, right, found := strings.Cut(s, ":")
	if !found || left == "" || len(right) != 2 {
		return 0, 0, false
	}
	if h, ok = parseDigits(left); !ok {
		return 0, 0, false
	}
	if m, ok = parseDigits(right); !ok {
		return 0, 0, false
	}
	return h, m, true
}

func parseDigits(s string) (int, bool) {
	if s == "" || len(s) > 4 {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// =============================================================================
// SIGNED MINUTE CELLS - "+H:MM" / "-H:MM"
// =============================================================================

// SignedMinutes is the result of parsing a signed duration cell.
// Defaulted is true when the cell was blank or malformed and the zero
// value was substituted.
type SignedMinutes struct {
	Minutes   int
	Defaulted bool
}

// ParseSignedMinutes parses a balance or overtime cell. The sign is
// optional and defaults to positive; minutes must be two digits.
// Blank or malformed cells yield a defaulted zero.
func ParseSignedMinutes(s string) SignedMinutes {
	s = strings.TrimSpace(s)
	if s == "" {
		return SignedMinutes{Defaulted: true}
	}
	sign := 1
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	}
	h, m, ok := splitClock(s)
	if !ok || m > 59 {
		return SignedMinutes{Defaulted: true}
	}
	return SignedMinutes{Minutes: sign * (h*60 + m)}
}

// FormatSigned renders minutes as a signed "±H:MM" cell. Zero renders
// as "+0:00".
func FormatSigned(minutes int) string {
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%d:%02d", sign, minutes/60, minutes%60)
}

// ParseCount parses an integer counter cell (vacation, special duty).
// Returns false for blank or malformed cells.
func ParseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
		s = s[1:]
	}
	n, ok := parseDigits(s)
	if !ok {
		return 0, false
	}
	return sign * n, true
}

// FormatCount renders a counter cell.
func FormatCount(n int) string { return fmt.Sprintf("%d", n) }
