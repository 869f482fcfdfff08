// Package store provides in-memory store implementations (for testing/dev).
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/flexitime-engine/flexitime"
)

// =============================================================================
// MEMORY STORE - Implements all of the store interfaces
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	records   map[string][]flexitime.Record
	employees map[string]flexitime.Employee
	models    map[string]flexitime.WorkTimeModel
	lists     map[string][]string
}

func NewMemory() *Memory {
	return &Memory{
		records:   make(map[string][]flexitime.Record),
		employees: make(map[string]flexitime.Employee),
		models:    make(map[string]flexitime.WorkTimeModel),
		lists:     make(map[string][]string),
	}
}

// =============================================================================
// RECORDS
// =============================================================================

func (m *Memory) Records(_ context.Context, employeeID string) ([]flexitime.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]flexitime.Record, len(m.records[employeeID]))
	copy(result, m.records[employeeID])
	return result, nil
}

func (m *Memory) ReplaceRecords(_ context.Context, employeeID string, records []flexitime.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(records) == 0 {
		delete(m.records, employeeID)
		return nil
	}
	stored := make([]flexitime.Record, len(records))
	copy(stored, records)
	sort.Slice(stored, func(i, j int) bool {
		return stored[i].Date.Before(stored[j].Date)
	})
	m.records[employeeID] = stored
	return nil
}

func (m *Memory) EmployeeIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) Employees(_ context.Context) ([]flexitime.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]flexitime.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) Employee(_ context.Context, id string) (flexitime.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.employees[id]
	if !ok {
		return flexitime.Employee{}, flexitime.ErrEmployeeNotFound
	}
	return e, nil
}

func (m *Memory) SaveEmployee(_ context.Context, e flexitime.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
	return nil
}

func (m *Memory) DeleteEmployee(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.employees, id)
	return nil
}

// =============================================================================
// WORK-TIME MODELS
// =============================================================================

func (m *Memory) Models(_ context.Context) ([]flexitime.WorkTimeModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]flexitime.WorkTimeModel, 0, len(m.models))
	for _, wm := range m.models {
		result = append(result, wm)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) Model(_ context.Context, name string) (flexitime.WorkTimeModel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wm, ok := m.models[name]
	if !ok {
		return flexitime.WorkTimeModel{}, flexitime.ErrModelNotFound
	}
	return wm, nil
}

func (m *Memory) SaveModel(_ context.Context, wm flexitime.WorkTimeModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.models[wm.Name] = wm
	return nil
}

func (m *Memory) DeleteModel(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.models, name)
	return nil
}

// =============================================================================
// REFERENCE LISTS
// =============================================================================

func (m *Memory) ReferenceList(_ context.Context, name string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]string, len(m.lists[name]))
	copy(result, m.lists[name])
	return result, nil
}

func (m *Memory) ReplaceReferenceList(_ context.Context, name string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(values) == 0 {
		delete(m.lists, name)
		return nil
	}
	stored := make([]string, len(values))
	copy(stored, values)
	m.lists[name] = stored
	return nil
}
