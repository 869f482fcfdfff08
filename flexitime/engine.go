/*
engine.go - Orchestration over stores, rules and the calculator

PURPOSE:
  The Engine ties the pure pieces together: it materializes record
  spans, applies edits, and replays the order-dependent balance fold
  after every change so that each record carries the running state as
  of its own day.

KEY OPERATIONS:
  - EnsureRange / EnsureDefault: idempotent span materialization
  - UpdateRecord: apply an edit, then replay all later days
  - SetClockIn / SetClockOut: bulk quick-clocking for today
  - CreateEmployee / DeleteEmployee: lifecycle with span hooks

CONCURRENCY:
  Mutations are load-modify-replace cycles over one employee's record
  set. A per-employee mutex serializes those cycles, so concurrent
  callers (HTTP handlers, the background scheduler) can never commit a
  stale snapshot over a newer one.

ERROR POSTURE:
  Data-quality problems (unknown model, missing employee row, malformed
  cells) degrade to documented defaults and a warning log. Only invalid
  caller input and store failures surface as errors.

SEE ALSO:
  - rules.go: Recompute, the fold step
  - materialize.go: MergeRange
*/
package flexitime

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

type Engine struct {
	records   RecordStore
	employees EmployeeStore
	models    ModelStore
	rules     *RuleSet
	log       logrus.FieldLogger

	// Every mutation is a load-modify-replace cycle over one employee's
	// record set; locks serializes those cycles per employee so a stale
	// snapshot can never be committed over a newer one.
	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// now is a seam for tests; defaults to Today.
	now func() Date
}

func NewEngine(records RecordStore, employees EmployeeStore, models ModelStore, rules *RuleSet, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{
		records:   records,
		employees: employees,
		models:    models,
		rules:     rules,
		log:       log,
		locks:     make(map[string]*sync.Mutex),
		now:       Today,
	}
}

// Rules exposes the engine's status rule set.
func (e *Engine) Rules() *RuleSet { return e.rules }

// lockEmployee acquires the write lock for one employee's record set.
// The caller must Unlock the returned mutex.
func (e *Engine) lockEmployee(employeeID string) *sync.Mutex {
	e.mu.Lock()
	l, ok := e.locks[employeeID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[employeeID] = l
	}
	e.mu.Unlock()
	l.Lock()
	return l
}

// =============================================================================
// MATERIALIZATION
// =============================================================================

// EnsureRange materializes default records for [from, to]. Idempotent;
// existing records are untouched. Returns the number of records added.
func (e *Engine) EnsureRange(ctx context.Context, employeeID string, from, to Date) (int, error) {
	defer e.lockEmployee(employeeID).Unlock()

	records, err := e.records.Records(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	merged, added := MergeRange(records, employeeID, from, to, e.rules.PresenceLabel, e.rules.WeekendLabel)
	if added == 0 {
		return 0, nil
	}
	if err := e.records.ReplaceRecords(ctx, employeeID, merged); err != nil {
		return 0, err
	}
	e.log.WithFields(logrus.Fields{
		"employee": employeeID,
		"from":     from.String(),
		"to":       to.String(),
		"added":    added,
	}).Info("materialized records")
	return added, nil
}

// EnsureDefault materializes the default span: today through December 31
// of the current year.
func (e *Engine) EnsureDefault(ctx context.Context, employeeID string) (int, error) {
	today := e.now()
	return e.EnsureRange(ctx, employeeID, today, today.EndOfYear())
}

// PurgeRecords removes all records for an employee and returns how many
// were deleted. Idempotent: a second call deletes zero.
func (e *Engine) PurgeRecords(ctx context.Context, employeeID string) (int, error) {
	defer e.lockEmployee(employeeID).Unlock()

	records, err := e.records.Records(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	if err := e.records.ReplaceRecords(ctx, employeeID, nil); err != nil {
		return 0, err
	}
	return len(records), nil
}

// =============================================================================
// RECORD ACCESS AND EDITS
// =============================================================================

// Records returns an employee's records, optionally filtered to
// [from, to]. Zero bounds are open.
func (e *Engine) Records(ctx context.Context, employeeID string, from, to Date) ([]Record, error) {
	records, err := e.records.Records(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if from.IsZero() && to.IsZero() {
		return records, nil
	}
	out := records[:0:0]
	for _, r := range records {
		if !from.IsZero() && r.Date.Before(from) {
			continue
		}
		if !to.IsZero() && r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Record returns the record for one day, or ErrRecordNotFound if the
// day has not been materialized.
func (e *Engine) Record(ctx context.Context, employeeID string, date Date) (Record, error) {
	records, err := e.records.Records(ctx, employeeID)
	if err != nil {
		return Record{}, err
	}
	idx := indexByDate(records, date)
	if idx < 0 {
		return Record{}, ErrRecordNotFound
	}
	return records[idx], nil
}

// RecordUpdate is a partial edit; nil fields are left unchanged.
type RecordUpdate struct {
	Status *string
	Start  *string
	End    *string
}

// UpdateRecord applies an edit to one day and replays every later day,
// since the balance fold depends on order. The day is materialized
// first if it does not exist yet. Caller-supplied clock cells must be
// blank or well-formed; stored cells are never validated here.
func (e *Engine) UpdateRecord(ctx context.Context, employeeID string, date Date, upd RecordUpdate) (Record, error) {
	for _, clock := range []*string{upd.Start, upd.End} {
		if clock == nil || *clock == "" {
			continue
		}
		if _, ok := ParseClock(*clock); !ok {
			return Record{}, ErrInvalidClock
		}
	}

	defer e.lockEmployee(employeeID).Unlock()

	records, err := e.records.Records(ctx, employeeID)
	if err != nil {
		return Record{}, err
	}
	records, _ = MergeRange(records, employeeID, date, date, e.rules.PresenceLabel, e.rules.WeekendLabel)

	idx := indexByDate(records, date)
	if upd.Status != nil {
		records[idx].Status = *upd.Status
	}
	if upd.Start != nil {
		records[idx].Start = *upd.Start
	}
	if upd.End != nil {
		records[idx].End = *upd.End
	}

	if err := e.replay(ctx, employeeID, records, idx); err != nil {
		return Record{}, err
	}
	return records[idx], nil
}

// Replay recomputes every record from date onward. A zero from replays
// everything. Exposed for callers that change inputs out of band (e.g.
// a model edit).
func (e *Engine) Replay(ctx context.Context, employeeID string, from Date) error {
	defer e.lockEmployee(employeeID).Unlock()

	records, err := e.records.Records(ctx, employeeID)
	if err != nil {
		return err
	}
	idx := len(records)
	for i, r := range records {
		if !r.Date.Before(from) {
			idx = i
			break
		}
	}
	if idx == len(records) {
		return nil
	}
	return e.replay(ctx, employeeID, records, idx)
}

// replay folds the rule engine over records[idx:] in place and saves.
func (e *Engine) replay(ctx context.Context, employeeID string, records []Record, idx int) error {
	model, err := e.resolveModel(ctx, employeeID)
	if err != nil {
		return err
	}
	for i := idx; i < len(records); i++ {
		required := RequiredMinutes(records[i].Date, model)
		prior := Prior(records[:i], records[i].Date)
		records[i] = e.rules.Recompute(records[i], required, prior)
	}
	return e.records.ReplaceRecords(ctx, employeeID, records)
}

// resolveModel finds the employee's work-time model. Missing employees
// and unknown models degrade to the fallback schedule with a warning.
func (e *Engine) resolveModel(ctx context.Context, employeeID string) (*WorkTimeModel, error) {
	emp, err := e.employees.Employee(ctx, employeeID)
	switch {
	case errors.Is(err, ErrEmployeeNotFound):
		e.log.WithField("employee", employeeID).Warn("no employee row, using fallback schedule")
		return nil, nil
	case err != nil:
		return nil, err
	case emp.Model == "":
		return nil, nil
	}
	m, err := e.models.Model(ctx, emp.Model)
	switch {
	case errors.Is(err, ErrModelNotFound):
		e.log.WithFields(logrus.Fields{
			"employee": employeeID,
			"model":    emp.Model,
		}).Warn("unknown work-time model, using fallback schedule")
		return nil, nil
	case err != nil:
		return nil, err
	}
	return &m, nil
}

// RequiredMinutesOn resolves the scheduled minutes for one employee and
// date, applying the same degradation as replay.
func (e *Engine) RequiredMinutesOn(ctx context.Context, employeeID string, date Date) (int, error) {
	model, err := e.resolveModel(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	return RequiredMinutes(date, model), nil
}

// Balance returns the running balance as of the end of today.
func (e *Engine) Balance(ctx context.Context, employeeID string) (SignedMinutes, error) {
	records, err := e.records.Records(ctx, employeeID)
	if err != nil {
		return SignedMinutes{}, err
	}
	return PreviousBalance(records, e.now().AddDays(1)), nil
}

func indexByDate(records []Record, date Date) int {
	for i, r := range records {
		if r.Date.Equal(date) {
			return i
		}
	}
	return -1
}

// =============================================================================
// QUICK CLOCKING
// =============================================================================

// ClockResult reports how a bulk clock operation went.
type ClockResult struct {
	Changed int
	Skipped int
}

// SetClockIn writes the clock-in time into today's record for each
// employee. Non-blank cells are skipped unless overwrite is set.
func (e *Engine) SetClockIn(ctx context.Context, employeeIDs []string, at Clock, overwrite bool) (ClockResult, error) {
	return e.setClock(ctx, employeeIDs, at, overwrite, func(r *Record) *string { return &r.Start })
}

// SetClockOut writes the clock-out time into today's record for each
// employee. Non-blank cells are skipped unless overwrite is set.
func (e *Engine) SetClockOut(ctx context.Context, employeeIDs []string, at Clock, overwrite bool) (ClockResult, error) {
	return e.setClock(ctx, employeeIDs, at, overwrite, func(r *Record) *string { return &r.End })
}

func (e *Engine) setClock(ctx context.Context, employeeIDs []string, at Clock, overwrite bool, cell func(*Record) *string) (ClockResult, error) {
	var res ClockResult
	today := e.now()
	for _, id := range employeeIDs {
		changed, err := e.setClockOne(ctx, id, today, at, overwrite, cell)
		if err != nil {
			return res, err
		}
		if changed {
			res.Changed++
		} else {
			res.Skipped++
		}
	}
	return res, nil
}

func (e *Engine) setClockOne(ctx context.Context, employeeID string, today Date, at Clock, overwrite bool, cell func(*Record) *string) (bool, error) {
	defer e.lockEmployee(employeeID).Unlock()

	records, err := e.records.Records(ctx, employeeID)
	if err != nil {
		return false, err
	}
	records, _ = MergeRange(records, employeeID, today, today, e.rules.PresenceLabel, e.rules.WeekendLabel)
	idx := indexByDate(records, today)
	target := cell(&records[idx])
	if *target != "" && !overwrite {
		return false, nil
	}
	*target = at.String()
	if err := e.replay(ctx, employeeID, records, idx); err != nil {
		return false, err
	}
	return true, nil
}

// =============================================================================
// EMPLOYEE LIFECYCLE
// =============================================================================

// CreateEmployee validates and stores an employee, then materializes
// the default record span for them.
func (e *Engine) CreateEmployee(ctx context.Context, emp Employee) error {
	if !IsValidEmployeeID(emp.ID) {
		return ErrInvalidEmployeeID
	}
	if _, err := e.employees.Employee(ctx, emp.ID); err == nil {
		return ErrDuplicateEmployee
	} else if !errors.Is(err, ErrEmployeeNotFound) {
		return err
	}
	emp.LastName = NormalizeName(emp.LastName)
	emp.FirstName = NormalizeName(emp.FirstName)
	if err := e.employees.SaveEmployee(ctx, emp); err != nil {
		return err
	}
	_, err := e.EnsureDefault(ctx, emp.ID)
	return err
}

// UpdateEmployee stores changed master data and replays the employee's
// records, since a model change alters every scheduled day.
func (e *Engine) UpdateEmployee(ctx context.Context, emp Employee) error {
	if !IsValidEmployeeID(emp.ID) {
		return ErrInvalidEmployeeID
	}
	if _, err := e.employees.Employee(ctx, emp.ID); err != nil {
		return err
	}
	emp.LastName = NormalizeName(emp.LastName)
	emp.FirstName = NormalizeName(emp.FirstName)
	if err := e.employees.SaveEmployee(ctx, emp); err != nil {
		return err
	}
	return e.Replay(ctx, emp.ID, Date{})
}

// DeleteEmployee removes an employee and purges their records.
func (e *Engine) DeleteEmployee(ctx context.Context, id string) error {
	if err := e.employees.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	_, err := e.PurgeRecords(ctx, id)
	return err
}

// PurgeOrphans removes record sets whose employee no longer exists in
// master data. DeleteEmployee purges on its own; this catches records
// orphaned by out-of-band edits. Returns the purged employee ids.
func (e *Engine) PurgeOrphans(ctx context.Context) ([]string, error) {
	ids, err := e.records.EmployeeIDs(ctx)
	if err != nil {
		return nil, err
	}
	var purged []string
	for _, id := range ids {
		_, err := e.employees.Employee(ctx, id)
		switch {
		case errors.Is(err, ErrEmployeeNotFound):
			if _, err := e.PurgeRecords(ctx, id); err != nil {
				return purged, err
			}
			e.log.WithField("employee", id).Warn("purged orphaned records")
			purged = append(purged, id)
		case err != nil:
			return purged, err
		}
	}
	return purged, nil
}
