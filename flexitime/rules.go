/*
rules.go - Status rule engine

PURPOSE:
  Every attendance status belongs to exactly one rule kind, a closed
  enumeration of behaviors. Recompute is the single place where a
  record's derived cells (balance, counters, overtime) are produced
  from its inputs; everything else in the system either prepares its
  inputs or persists its output.

KEY CONCEPTS:
  - RuleKind: Closed enumeration of the seven rule behaviors
  - RuleSet: Case-insensitive status label -> RuleKind binding
  - Recompute: Pure function from (record, required, prior) to record

INVARIANTS:
  - Recompute never mutates its input and never fails
  - Unknown labels fall back to the attendance behavior
  - A blank status is normalized to the canonical presence label and
    the normalization is persisted
  - Cells a rule does not own are passed through untouched

SEE ALSO:
  - factory/rules.go: Builds a validated RuleSet from configuration
  - ledger.go: PriorState
*/
package flexitime

import (
	"sort"
	"strings"
)

// =============================================================================
// RULE KINDS - Closed enumeration
// =============================================================================

type RuleKind int

const (
	// RuleAttendance credits net working time against the schedule.
	RuleAttendance RuleKind = iota

	// RuleNone carries the balance forward with a zero delta. Weekends,
	// holidays and sick days use it: the day neither credits nor debits.
	RuleNone

	// RuleVacation behaves like attendance and spends one vacation day.
	RuleVacation

	// RuleSpecialDuty behaves like attendance and spends one
	// special-duty day.
	RuleSpecialDuty

	// RuleTimeOffInLieu debits the full scheduled time; clock times are
	// irrelevant because the day is taken off against the balance.
	RuleTimeOffInLieu

	// RuleOvertimeAccrual behaves like attendance and additionally books
	// time worked beyond the schedule into the overtime cell.
	RuleOvertimeAccrual

	// RuleOvertimeComp books the scheduled time as negative overtime,
	// drawing down accrued overtime. Clock times do not change the
	// draw-down amount.
	RuleOvertimeComp
)

var ruleKindNames = map[RuleKind]string{
	RuleAttendance:      "attendance",
	RuleNone:            "none",
	RuleVacation:        "vacation",
	RuleSpecialDuty:     "special-duty",
	RuleTimeOffInLieu:   "time-off-in-lieu",
	RuleOvertimeAccrual: "overtime-accrual",
	RuleOvertimeComp:    "overtime-compensation",
}

func (k RuleKind) String() string {
	if s, ok := ruleKindNames[k]; ok {
		return s
	}
	return "attendance"
}

// ParseRuleKind resolves a rule kind by its configuration name.
func ParseRuleKind(s string) (RuleKind, bool) {
	for k, name := range ruleKindNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return k, true
		}
	}
	return RuleAttendance, false
}

// =============================================================================
// RULE SET - Status label bindings
// =============================================================================

// RuleSet binds status labels to rule kinds. Lookup is case-insensitive
// on the trimmed label. Construct via NewRuleSet or factory.LoadRuleSet.
type RuleSet struct {
	kinds         map[string]RuleKind
	labels        map[string]string // normalized -> display form
	PresenceLabel string            // canonical label written for blank statuses
	WeekendLabel  string            // default label for materialized weekend rows
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewRuleSet builds a RuleSet from display-form labels. presence and
// weekend must be present in bindings.
func NewRuleSet(presence, weekend string, bindings map[string]RuleKind) *RuleSet {
	rs := &RuleSet{
		kinds:         make(map[string]RuleKind, len(bindings)),
		labels:        make(map[string]string, len(bindings)),
		PresenceLabel: presence,
		WeekendLabel:  weekend,
	}
	for label, kind := range bindings {
		n := normalizeStatus(label)
		rs.kinds[n] = kind
		rs.labels[n] = label
	}
	return rs
}

// Kind resolves a status label. Blank and unknown labels both resolve
// to the attendance behavior.
func (rs *RuleSet) Kind(status string) RuleKind {
	if k, ok := rs.kinds[normalizeStatus(status)]; ok {
		return k
	}
	return RuleAttendance
}

// Known reports whether the label is bound in this rule set.
func (rs *RuleSet) Known(status string) bool {
	_, ok := rs.kinds[normalizeStatus(status)]
	return ok
}

// Labels returns the display-form labels sorted alphabetically.
func (rs *RuleSet) Labels() []string {
	out := make([]string, 0, len(rs.labels))
	for _, l := range rs.labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// =============================================================================
// RECOMPUTE - The one place derived cells are produced
// =============================================================================

// Recompute derives a record's balance, counter and overtime cells from
// its status, clock times, the scheduled minutes and the running state
// before it. The input is not modified.
//
// When net working time is not computable (a clock cell blank or
// malformed) a net-dependent balance rule leaves the stored balance
// cell as it is rather than guessing.
func (rs *RuleSet) Recompute(rec Record, required int, prior PriorState) Record {
	if strings.TrimSpace(rec.Status) == "" {
		rec.Status = rs.PresenceLabel
	}

	net, netOK := NetMinutes(rec.Start, rec.End)
	setBalanceFromNet := func() {
		if netOK {
			rec.Balance = FormatSigned(prior.Balance.Minutes + net - required)
		}
	}

	switch rs.Kind(rec.Status) {
	case RuleAttendance:
		setBalanceFromNet()

	case RuleNone:
		rec.Balance = FormatSigned(prior.Balance.Minutes)

	case RuleVacation:
		setBalanceFromNet()
		rec.Vacation = FormatCount(prior.Vacation - 1)

	case RuleSpecialDuty:
		setBalanceFromNet()
		rec.SpecialDuty = FormatCount(prior.SpecialDuty - 1)

	case RuleTimeOffInLieu:
		rec.Balance = FormatSigned(prior.Balance.Minutes - required)

	case RuleOvertimeAccrual:
		setBalanceFromNet()
		if netOK {
			extra := net - required
			if extra < 0 {
				extra = 0
			}
			rec.Overtime = FormatSigned(extra)
		}

	case RuleOvertimeComp:
		setBalanceFromNet()
		rec.Overtime = FormatSigned(-required)
	}
	return rec
}
