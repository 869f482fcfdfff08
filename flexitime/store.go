/*
store.go - Persistence interfaces for the flexitime engine

PURPOSE:
  The engine is persistence-agnostic. These interfaces are what a
  backend must provide; flexitime/store holds the in-memory
  implementation and store/sqlite the durable one.

DESIGN:
  Records are replaced wholesale per employee. The engine always works
  on the full sorted sequence (the balance is an order-dependent fold),
  so a replace-on-write contract keeps backends simple and makes
  atomicity their problem, not the engine's.

SEE ALSO:
  - store/memory.go: Reference in-memory implementation
  - store/sqlite/sqlite.go: SQLite implementation
*/
package flexitime

import (
	"context"
)

// RecordStore persists attendance records. Implementations must return
// records sorted by date ascending and must replace an employee's
// records atomically.
type RecordStore interface {
	// Records returns all records for one employee, sorted by date.
	Records(ctx context.Context, employeeID string) ([]Record, error)

	// ReplaceRecords atomically replaces all records for one employee.
	// An empty slice deletes everything.
	ReplaceRecords(ctx context.Context, employeeID string, records []Record) error

	// EmployeeIDs returns every employee id that has records, sorted.
	EmployeeIDs(ctx context.Context) ([]string, error)
}

// EmployeeStore persists employee master data.
type EmployeeStore interface {
	Employees(ctx context.Context) ([]Employee, error)

	// Employee returns ErrEmployeeNotFound for unknown ids.
	Employee(ctx context.Context, id string) (Employee, error)

	SaveEmployee(ctx context.Context, e Employee) error
	DeleteEmployee(ctx context.Context, id string) error
}

// ModelStore persists work-time models.
type ModelStore interface {
	Models(ctx context.Context) ([]WorkTimeModel, error)

	// Model returns ErrModelNotFound for unknown names.
	Model(ctx context.Context, name string) (WorkTimeModel, error)

	SaveModel(ctx context.Context, m WorkTimeModel) error
	DeleteModel(ctx context.Context, name string) error
}

// Names of the built-in reference lists.
const (
	ListRanks = "ranks"
	ListUnits = "units"
)

// ReferenceStore persists simple ordered reference lists: the rank and
// unit vocabularies employees are tagged with. Lists are replaced
// wholesale, like records.
type ReferenceStore interface {
	// ReferenceList returns the list's values in stored order. An
	// unknown name returns an empty list.
	ReferenceList(ctx context.Context, name string) ([]string, error)

	// ReplaceReferenceList replaces the list's values. An empty slice
	// deletes the list.
	ReplaceReferenceList(ctx context.Context, name string, values []string) error
}
