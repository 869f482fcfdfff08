package flexitime_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/flexitime-engine/flexitime"
	"github.com/warp/flexitime-engine/flexitime/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestEngine(t *testing.T) (*flexitime.Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return flexitime.NewEngine(mem, mem, mem, testRules(), log), mem
}

func seedStandardModel(t *testing.T, mem *store.Memory) {
	t.Helper()
	eight := decimal.NewFromFloat(8)
	require.NoError(t, mem.SaveModel(context.Background(), flexitime.WorkTimeModel{
		Name:   "Standard",
		Weekly: decimal.NewFromFloat(40),
		Days:   [5]decimal.Decimal{eight, eight, eight, eight, eight},
	}))
}

func seedEmployee(t *testing.T, mem *store.Memory, id, model string) {
	t.Helper()
	require.NoError(t, mem.SaveEmployee(context.Background(), flexitime.Employee{
		ID: id, LastName: "Winter", FirstName: "Anna", Model: model,
	}))
}

func recordOn(t *testing.T, records []flexitime.Record, date flexitime.Date) flexitime.Record {
	t.Helper()
	for _, r := range records {
		if r.Date.Equal(date) {
			return r
		}
	}
	t.Fatalf("no record on %s", date)
	return flexitime.Record{}
}

// =============================================================================
// TWO-DAY ACCOUNTING WALKTHROUGH
// =============================================================================

func TestEngine_TwoDayWalkthrough(t *testing.T) {
	// GIVEN: Employee 00001234 on the 40h "Standard" model (480 min/day)
	// WHEN: A plain presence day and then an overtime day are entered
	// THEN: Day one lands exactly on schedule, day two books 75 overtime
	//       minutes into both the balance and the overtime cell

	eng, mem := newTestEngine(t)
	ctx := context.Background()
	seedStandardModel(t, mem)
	seedEmployee(t, mem, "00001234", "Standard")

	monday := flexitime.NewDate(2025, time.March, 10)
	tuesday := monday.AddDays(1)

	_, err := eng.EnsureRange(ctx, "00001234", monday, monday.AddDays(4))
	require.NoError(t, err)

	present, overtime := "present", "overtime"
	in, out1, out2 := "08:00", "16:30", "18:00"

	day1, err := eng.UpdateRecord(ctx, "00001234", monday, flexitime.RecordUpdate{
		Status: &present, Start: &in, End: &out1,
	})
	require.NoError(t, err)
	assert.Equal(t, "+0:00", day1.Balance, "510 gross - 30 break = 480 = schedule")

	day2, err := eng.UpdateRecord(ctx, "00001234", tuesday, flexitime.RecordUpdate{
		Status: &overtime, Start: &in, End: &out2,
	})
	require.NoError(t, err)
	assert.Equal(t, "+1:15", day2.Balance, "600 gross nets 555, 75 over schedule")
	assert.Equal(t, "+1:15", day2.Overtime)
}

func TestEngine_EditingEarlierDayReplaysLaterDays(t *testing.T) {
	// GIVEN: Two computed days in sequence
	// WHEN: The first day's clock-out is corrected
	// THEN: The second day's balance is recomputed from the new prior

	eng, mem := newTestEngine(t)
	ctx := context.Background()
	seedStandardModel(t, mem)
	seedEmployee(t, mem, "00001234", "Standard")

	monday := flexitime.NewDate(2025, time.March, 10)
	tuesday := monday.AddDays(1)

	present := "present"
	in, out, longer := "08:00", "16:30", "17:30"
	_, err := eng.UpdateRecord(ctx, "00001234", monday, flexitime.RecordUpdate{
		Status: &present, Start: &in, End: &out,
	})
	require.NoError(t, err)
	_, err = eng.UpdateRecord(ctx, "00001234", tuesday, flexitime.RecordUpdate{
		Status: &present, Start: &in, End: &out,
	})
	require.NoError(t, err)

	// Correct Monday upward by an hour
	day1, err := eng.UpdateRecord(ctx, "00001234", monday, flexitime.RecordUpdate{End: &longer})
	require.NoError(t, err)
	assert.Equal(t, "+1:00", day1.Balance)

	records, err := eng.Records(ctx, "00001234", flexitime.Date{}, flexitime.Date{})
	require.NoError(t, err)
	assert.Equal(t, "+1:00", recordOn(t, records, tuesday).Balance,
		"Tuesday still on schedule, carries Monday's +1:00")
}

func TestEngine_BalanceCarriesAcrossWeekend(t *testing.T) {
	// GIVEN: A positive balance on Friday and a materialized weekend
	// WHEN: Monday is computed
	// THEN: The weekend rows carry the balance forward with zero delta

	eng, mem := newTestEngine(t)
	ctx := context.Background()
	seedStandardModel(t, mem)
	seedEmployee(t, mem, "00001234", "Standard")

	friday := flexitime.NewDate(2025, time.March, 14)
	monday := friday.AddDays(3)

	_, err := eng.EnsureRange(ctx, "00001234", friday, monday)
	require.NoError(t, err)

	present := "present"
	in, out := "08:00", "17:30" // net 540, +60 over the 480 schedule
	_, err = eng.UpdateRecord(ctx, "00001234", friday, flexitime.RecordUpdate{
		Status: &present, Start: &in, End: &out,
	})
	require.NoError(t, err)

	records, err := eng.Records(ctx, "00001234", flexitime.Date{}, flexitime.Date{})
	require.NoError(t, err)
	assert.Equal(t, "+1:00", recordOn(t, records, friday.AddDays(1)).Balance)
	assert.Equal(t, "+1:00", recordOn(t, records, friday.AddDays(2)).Balance)

	shorter := "16:30"
	_, err = eng.UpdateRecord(ctx, "00001234", monday, flexitime.RecordUpdate{
		Status: &present, Start: &in, End: &shorter,
	})
	require.NoError(t, err)
	records, err = eng.Records(ctx, "00001234", flexitime.Date{}, flexitime.Date{})
	require.NoError(t, err)
	assert.Equal(t, "+1:00", recordOn(t, records, monday).Balance,
		"Monday on schedule keeps Friday's surplus")
}

func TestEngine_VacationCounterCarriesAndSpends(t *testing.T) {
	eng, mem := newTestEngine(t)
	ctx := context.Background()
	seedStandardModel(t, mem)
	seedEmployee(t, mem, "00001234", "Standard")

	sunday := flexitime.NewDate(2025, time.March, 9)
	monday := sunday.AddDays(1)

	// A prior record carries the remaining vacation entitlement.
	require.NoError(t, mem.ReplaceRecords(ctx, "00001234", []flexitime.Record{
		{EmployeeID: "00001234", Date: sunday, Status: "weekend", Vacation: "25"},
	}))

	vacation := "vacation"
	rec, err := eng.UpdateRecord(ctx, "00001234", monday, flexitime.RecordUpdate{Status: &vacation})
	require.NoError(t, err)
	assert.Equal(t, "24", rec.Vacation)
}

// =============================================================================
// MATERIALIZATION AND PURGE
// =============================================================================

func TestEngine_EnsureRangeIdempotent(t *testing.T) {
	eng, mem := newTestEngine(t)
	ctx := context.Background()
	seedEmployee(t, mem, "00001234", "")

	from := flexitime.NewDate(2025, time.March, 10)
	to := flexitime.NewDate(2025, time.March, 16)

	added, err := eng.EnsureRange(ctx, "00001234", from, to)
	require.NoError(t, err)
	assert.Equal(t, 7, added)

	added, err = eng.EnsureRange(ctx, "00001234", from, to)
	require.NoError(t, err)
	assert.Zero(t, added, "second materialization adds nothing")
}

func TestEngine_InvertedRangeIsNoop(t *testing.T) {
	eng, _ := newTestEngine(t)

	from := flexitime.NewDate(2025, time.March, 16)
	to := flexitime.NewDate(2025, time.March, 10)

	added, err := eng.EnsureRange(context.Background(), "00001234", from, to)
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestEngine_PurgeIdempotent(t *testing.T) {
	eng, mem := newTestEngine(t)
	ctx := context.Background()
	seedEmployee(t, mem, "00001234", "")

	_, err := eng.EnsureRange(ctx, "00001234",
		flexitime.NewDate(2025, time.March, 10), flexitime.NewDate(2025, time.March, 14))
	require.NoError(t, err)

	deleted, err := eng.PurgeRecords(ctx, "00001234")
	require.NoError(t, err)
	assert.Equal(t, 5, deleted)

	records, err := eng.Records(ctx, "00001234", flexitime.Date{}, flexitime.Date{})
	require.NoError(t, err)
	assert.Empty(t, records)

	// Purging again deletes nothing.
	deleted, err = eng.PurgeRecords(ctx, "00001234")
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

// =============================================================================
// SCHEDULE DEGRADATION
// =============================================================================

func TestEngine_UnknownModelFallsBack(t *testing.T) {
	// GIVEN: An employee assigned to a model that no longer exists
	// WHEN: Recomputing a Monday presence day
	// THEN: The fallback schedule (9h Mon-Thu) applies without error

	eng, mem := newTestEngine(t)
	ctx := context.Background()
	seedEmployee(t, mem, "00001234", "Ghost")

	monday := flexitime.NewDate(2025, time.March, 10)
	present := "present"
	in, out := "08:00", "17:30" // net 540 = fallback Monday schedule

	rec, err := eng.UpdateRecord(ctx, "00001234", monday, flexitime.RecordUpdate{
		Status: &present, Start: &in, End: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "+0:00", rec.Balance)
}

func TestEngine_MissingEmployeeRowFallsBack(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	friday := flexitime.NewDate(2025, time.March, 14)
	required, err := eng.RequiredMinutesOn(ctx, "99999999", friday)
	require.NoError(t, err)
	assert.Equal(t, 300, required, "fallback Friday is 5h")
}

// =============================================================================
// QUICK CLOCKING
// =============================================================================

func TestEngine_ClockInFillsOnlyEmptyCells(t *testing.T) {
	eng, mem := newTestEngine(t)
	ctx := context.Background()
	seedEmployee(t, mem, "00001234", "")
	seedEmployee(t, mem, "00005678", "")

	ids := []string{"00001234", "00005678"}
	res, err := eng.SetClockIn(ctx, ids, flexitime.Clock{Hour: 7, Minute: 30}, false)
	require.NoError(t, err)
	assert.Equal(t, flexitime.ClockResult{Changed: 2}, res)

	// Second pass skips both; overwrite changes both.
	res, err = eng.SetClockIn(ctx, ids, flexitime.Clock{Hour: 8, Minute: 0}, false)
	require.NoError(t, err)
	assert.Equal(t, flexitime.ClockResult{Skipped: 2}, res)

	res, err = eng.SetClockIn(ctx, ids, flexitime.Clock{Hour: 8, Minute: 0}, true)
	require.NoError(t, err)
	assert.Equal(t, flexitime.ClockResult{Changed: 2}, res)

	records, err := eng.Records(ctx, "00001234", flexitime.Date{}, flexitime.Date{})
	require.NoError(t, err)
	assert.Equal(t, "08:00", recordOn(t, records, flexitime.Today()).Start)
}

func TestEngine_ClockOutIndependentOfClockIn(t *testing.T) {
	eng, mem := newTestEngine(t)
	ctx := context.Background()
	seedEmployee(t, mem, "00001234", "")

	ids := []string{"00001234"}
	_, err := eng.SetClockIn(ctx, ids, flexitime.Clock{Hour: 7, Minute: 30}, false)
	require.NoError(t, err)

	res, err := eng.SetClockOut(ctx, ids, flexitime.Clock{Hour: 16, Minute: 0}, false)
	require.NoError(t, err)
	assert.Equal(t, flexitime.ClockResult{Changed: 1}, res)

	records, err := eng.Records(ctx, "00001234", flexitime.Date{}, flexitime.Date{})
	require.NoError(t, err)
	today := recordOn(t, records, flexitime.Today())
	assert.Equal(t, "07:30", today.Start)
	assert.Equal(t, "16:00", today.End)
}

// =============================================================================
// EMPLOYEE LIFECYCLE
// =============================================================================

func TestEngine_CreateEmployeeMaterializesSpan(t *testing.T) {
	eng, mem := newTestEngine(t)
	ctx := context.Background()

	err := eng.CreateEmployee(ctx, flexitime.Employee{
		ID: "00001234", LastName: "winter", FirstName: "anna  maria",
	})
	require.NoError(t, err)

	emp, err := mem.Employee(ctx, "00001234")
	require.NoError(t, err)
	assert.Equal(t, "Winter", emp.LastName)
	assert.Equal(t, "Anna Maria", emp.FirstName)

	records, err := eng.Records(ctx, "00001234", flexitime.Date{}, flexitime.Date{})
	require.NoError(t, err)
	assert.NotEmpty(t, records, "span through year end is materialized")
	assert.True(t, records[0].Date.Equal(flexitime.Today()))
}

func TestEngine_CreateEmployeeValidation(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	err := eng.CreateEmployee(ctx, flexitime.Employee{ID: "123"})
	assert.ErrorIs(t, err, flexitime.ErrInvalidEmployeeID)

	require.NoError(t, eng.CreateEmployee(ctx, flexitime.Employee{ID: "00001234", LastName: "Winter"}))
	err = eng.CreateEmployee(ctx, flexitime.Employee{ID: "00001234", LastName: "Winter"})
	assert.ErrorIs(t, err, flexitime.ErrDuplicateEmployee)
}

func TestEngine_DeleteEmployeePurgesRecords(t *testing.T) {
	eng, mem := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.CreateEmployee(ctx, flexitime.Employee{ID: "00001234", LastName: "Winter"}))
	require.NoError(t, eng.DeleteEmployee(ctx, "00001234"))

	_, err := mem.Employee(ctx, "00001234")
	assert.ErrorIs(t, err, flexitime.ErrEmployeeNotFound)

	records, err := eng.Records(ctx, "00001234", flexitime.Date{}, flexitime.Date{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEngine_PurgeOrphansKeepsKnownEmployees(t *testing.T) {
	// GIVEN: Records for one known employee and one id with no master
	//        data row (e.g. left over from an out-of-band edit)
	eng, mem := newTestEngine(t)
	ctx := context.Background()
	seedEmployee(t, mem, "00001234", "")

	monday := flexitime.NewDate(2025, time.March, 10)
	_, err := eng.EnsureRange(ctx, "00001234", monday, monday)
	require.NoError(t, err)
	_, err = eng.EnsureRange(ctx, "99999999", monday, monday)
	require.NoError(t, err)

	// WHEN: Orphans are purged
	purged, err := eng.PurgeOrphans(ctx)
	require.NoError(t, err)

	// THEN: The orphaned set is gone, the known employee's is untouched
	assert.Equal(t, []string{"99999999"}, purged)

	records, err := eng.Records(ctx, "99999999", flexitime.Date{}, flexitime.Date{})
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = eng.Records(ctx, "00001234", flexitime.Date{}, flexitime.Date{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// =============================================================================
// SINGLE-RECORD ACCESS
// =============================================================================

func TestEngine_RecordByDate(t *testing.T) {
	eng, mem := newTestEngine(t)
	ctx := context.Background()
	seedEmployee(t, mem, "00001234", "")

	monday := flexitime.NewDate(2025, time.March, 10)
	_, err := eng.EnsureRange(ctx, "00001234", monday, monday)
	require.NoError(t, err)

	rec, err := eng.Record(ctx, "00001234", monday)
	require.NoError(t, err)
	assert.True(t, rec.Date.Equal(monday))

	_, err = eng.Record(ctx, "00001234", monday.AddDays(1))
	assert.ErrorIs(t, err, flexitime.ErrRecordNotFound)
}

// =============================================================================
// WRITE SERIALIZATION
// =============================================================================

func TestEngine_ConcurrentMaterializeKeepsEdits(t *testing.T) {
	// GIVEN: An editor writing clock times to Monday while a
	//        scheduler-style caller materializes the same week
	// THEN: However the two interleave, the edit is never lost to a
	//       stale snapshot

	eng, mem := newTestEngine(t)
	ctx := context.Background()
	seedStandardModel(t, mem)
	seedEmployee(t, mem, "00001234", "Standard")

	monday := flexitime.NewDate(2025, time.March, 10)
	in, out := "08:00", "16:30"

	for i := 0; i < 50; i++ {
		_, err := eng.PurgeRecords(ctx, "00001234")
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := eng.EnsureRange(ctx, "00001234", monday, monday.AddDays(6))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := eng.UpdateRecord(ctx, "00001234", monday, flexitime.RecordUpdate{
				Start: &in, End: &out,
			})
			assert.NoError(t, err)
		}()
		wg.Wait()

		rec, err := eng.Record(ctx, "00001234", monday)
		require.NoError(t, err)
		assert.Equal(t, in, rec.Start)
		assert.Equal(t, out, rec.End)
		assert.Equal(t, "+0:00", rec.Balance)
	}
}
