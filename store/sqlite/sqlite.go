/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements all persistence interfaces (RecordStore, EmployeeStore,
  ModelStore, ReferenceStore) using SQLite. In production, the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

REPLACE-ON-WRITE:
  An employee's records are replaced wholesale inside a single database
  transaction (delete then insert). The balance is an order-dependent
  fold over the whole sequence, so partial writes would corrupt the
  ledger; the transaction boundary is what makes replay atomic.

KEY TABLES:
  records:         One row per employee per day (the attendance ledger)
  employees:       Master data (personnel number, name, model, rank, unit)
  models:          Work-time models with per-weekday hours
  reference_lists: Ordered rank and unit vocabularies

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/flexitime.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - flexitime/store.go: Interface definitions
  - flexitime/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/flexitime-engine/flexitime"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Attendance records (one row per employee per day)
	CREATE TABLE IF NOT EXISTS records (
		employee_id  TEXT NOT NULL,
		date         TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT '',
		clock_in     TEXT,
		clock_out    TEXT,
		balance      TEXT,
		vacation     TEXT,
		special_duty TEXT,
		overtime     TEXT,
		PRIMARY KEY (employee_id, date)
	);

	-- Records are always read per employee in date order (hot path)
	CREATE INDEX IF NOT EXISTS idx_records_employee_date
		ON records(employee_id, date);

	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id         TEXT PRIMARY KEY,
		last_name  TEXT NOT NULL,
		first_name TEXT NOT NULL,
		model      TEXT,
		rank       TEXT,
		unit       TEXT
	);

	-- Work-time models (hours stored as decimal strings)
	CREATE TABLE IF NOT EXISTS models (
		name      TEXT PRIMARY KEY,
		weekly    TEXT NOT NULL,
		monday    TEXT NOT NULL,
		tuesday   TEXT NOT NULL,
		wednesday TEXT NOT NULL,
		thursday  TEXT NOT NULL,
		friday    TEXT NOT NULL
	);

	-- Reference lists (ranks, units), ordered
	CREATE TABLE IF NOT EXISTS reference_lists (
		list     TEXT NOT NULL,
		position INTEGER NOT NULL,
		value    TEXT NOT NULL,
		PRIMARY KEY (list, position)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECORD STORE (flexitime.RecordStore interface)
// =============================================================================

// Records returns all records for one employee, sorted by date.
func (s *Store) Records(ctx context.Context, employeeID string) ([]flexitime.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT employee_id, date, status, clock_in, clock_out, balance,
		       vacation, special_duty, overtime
		FROM records
		WHERE employee_id = ?
		ORDER BY date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []flexitime.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ReplaceRecords atomically replaces all records for one employee.
func (s *Store) ReplaceRecords(ctx context.Context, employeeID string, records []flexitime.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE employee_id = ?", employeeID); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}

	insert := `
		INSERT INTO records
		(employee_id, date, status, clock_in, clock_out, balance, vacation, special_duty, overtime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, rec := range records {
		_, err := tx.ExecContext(ctx, insert,
			employeeID,
			rec.Date.String(),
			rec.Status,
			nullString(rec.Start),
			nullString(rec.End),
			nullString(rec.Balance),
			nullString(rec.Vacation),
			nullString(rec.SpecialDuty),
			nullString(rec.Overtime),
		)
		if err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.Date, err)
		}
	}

	return tx.Commit()
}

// EmployeeIDs returns every employee id that has records, sorted.
func (s *Store) EmployeeIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT employee_id FROM records ORDER BY employee_id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query employee ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanRecord(rows *sql.Rows) (flexitime.Record, error) {
	var (
		rec         flexitime.Record
		date        string
		clockIn     sql.NullString
		clockOut    sql.NullString
		balance     sql.NullString
		vacation    sql.NullString
		specialDuty sql.NullString
		overtime    sql.NullString
	)

	err := rows.Scan(
		&rec.EmployeeID, &date, &rec.Status,
		&clockIn, &clockOut, &balance, &vacation, &specialDuty, &overtime,
	)
	if err != nil {
		return rec, fmt.Errorf("failed to scan record: %w", err)
	}

	// A corrupt date column keeps its zero date and sorts first rather
	// than aborting the whole read.
	rec.Date, _ = flexitime.ParseDate(date)
	rec.Start = clockIn.String
	rec.End = clockOut.String
	rec.Balance = balance.String
	rec.Vacation = vacation.String
	rec.SpecialDuty = specialDuty.String
	rec.Overtime = overtime.String

	return rec, nil
}

// =============================================================================
// EMPLOYEE STORE (flexitime.EmployeeStore interface)
// =============================================================================

func (s *Store) Employees(ctx context.Context) ([]flexitime.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, last_name, first_name, model, rank, unit
		FROM employees
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []flexitime.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) Employee(ctx context.Context, id string) (flexitime.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, last_name, first_name, model, rank, unit
		FROM employees
		WHERE id = ?
	`, id)
	if err != nil {
		return flexitime.Employee{}, fmt.Errorf("failed to query employee: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return flexitime.Employee{}, flexitime.ErrEmployeeNotFound
	}
	return scanEmployee(rows)
}

func (s *Store) SaveEmployee(ctx context.Context, e flexitime.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, last_name, first_name, model, rank, unit)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_name = excluded.last_name,
			first_name = excluded.first_name,
			model = excluded.model,
			rank = excluded.rank,
			unit = excluded.unit
	`, e.ID, e.LastName, e.FirstName, nullString(e.Model), nullString(e.Rank), nullString(e.Unit))
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

func scanEmployee(rows *sql.Rows) (flexitime.Employee, error) {
	var (
		emp   flexitime.Employee
		model sql.NullString
		rank  sql.NullString
		unit  sql.NullString
	)
	if err := rows.Scan(&emp.ID, &emp.LastName, &emp.FirstName, &model, &rank, &unit); err != nil {
		return emp, fmt.Errorf("failed to scan employee: %w", err)
	}
	emp.Model = model.String
	emp.Rank = rank.String
	emp.Unit = unit.String
	return emp, nil
}

// =============================================================================
// MODEL STORE (flexitime.ModelStore interface)
// =============================================================================

func (s *Store) Models(ctx context.Context) ([]flexitime.WorkTimeModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, weekly, monday, tuesday, wednesday, thursday, friday
		FROM models
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	defer rows.Close()

	var models []flexitime.WorkTimeModel
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

func (s *Store) Model(ctx context.Context, name string) (flexitime.WorkTimeModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, weekly, monday, tuesday, wednesday, thursday, friday
		FROM models
		WHERE name = ?
	`, name)
	if err != nil {
		return flexitime.WorkTimeModel{}, fmt.Errorf("failed to query model: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return flexitime.WorkTimeModel{}, flexitime.ErrModelNotFound
	}
	return scanModel(rows)
}

func (s *Store) SaveModel(ctx context.Context, m flexitime.WorkTimeModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO models (name, weekly, monday, tuesday, wednesday, thursday, friday)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			weekly = excluded.weekly,
			monday = excluded.monday,
			tuesday = excluded.tuesday,
			wednesday = excluded.wednesday,
			thursday = excluded.thursday,
			friday = excluded.friday
	`, m.Name, m.Weekly.String(),
		m.Days[0].String(), m.Days[1].String(), m.Days[2].String(),
		m.Days[3].String(), m.Days[4].String())
	if err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	return nil
}

func (s *Store) DeleteModel(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM models WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to delete model: %w", err)
	}
	return nil
}

// =============================================================================
// REFERENCE STORE (flexitime.ReferenceStore interface)
// =============================================================================

// ReferenceList returns the list's values in stored order.
func (s *Store) ReferenceList(ctx context.Context, name string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT value FROM reference_lists WHERE list = ? ORDER BY position ASC", name)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference list: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan reference value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// ReplaceReferenceList replaces the list's values wholesale.
func (s *Store) ReplaceReferenceList(ctx context.Context, name string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM reference_lists WHERE list = ?", name); err != nil {
		return fmt.Errorf("failed to clear reference list: %w", err)
	}
	for i, v := range values {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO reference_lists (list, position, value) VALUES (?, ?, ?)", name, i, v)
		if err != nil {
			return fmt.Errorf("failed to insert reference value: %w", err)
		}
	}
	return tx.Commit()
}

func scanModel(rows *sql.Rows) (flexitime.WorkTimeModel, error) {
	var (
		m    flexitime.WorkTimeModel
		cols [6]string
	)
	if err := rows.Scan(&m.Name, &cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5]); err != nil {
		return m, fmt.Errorf("failed to scan model: %w", err)
	}
	m.Weekly = mustDecimal(cols[0])
	for i := 0; i < 5; i++ {
		m.Days[i] = mustDecimal(cols[i+1])
	}
	return m, nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
