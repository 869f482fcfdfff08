/*
scheduler.go - Automated record materialization

PURPOSE:
  Periodically ensures every employee's record span covers today through
  the end of the year, so new days appear without manual intervention.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Materialization is idempotent, so re-running is always safe
  - Skips nothing: every employee is checked on every tick
  - Each tick also purges record sets orphaned by out-of-band edits

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewMaterializeScheduler(engine, employees, log)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: Materialize endpoint (manual materialization)
  - flexitime/engine.go: EnsureDefault
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/flexitime-engine/flexitime"
)

// MaterializeScheduler keeps record spans current for all employees.
type MaterializeScheduler struct {
	Engine        *flexitime.Engine
	Employees     flexitime.EmployeeStore
	Log           logrus.FieldLogger
	CheckInterval time.Duration
	Enabled       bool

	ticker  *time.Ticker
	stop    chan bool
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

// NewMaterializeScheduler creates a new scheduler.
func NewMaterializeScheduler(engine *flexitime.Engine, employees flexitime.EmployeeStore, log logrus.FieldLogger) *MaterializeScheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MaterializeScheduler{
		Engine:        engine,
		Employees:     employees,
		Log:           log,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (ms *MaterializeScheduler) Start() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if !ms.Enabled {
		ms.Log.Info("materialize scheduler disabled, not starting")
		return
	}

	ms.ticker = time.NewTicker(ms.CheckInterval)
	ms.wg.Add(1)

	go ms.run()

	ms.Log.WithField("interval", ms.CheckInterval.String()).Info("materialize scheduler started")
}

// Stop stops the scheduler. Safe to call more than once.
func (ms *MaterializeScheduler) Stop() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.ticker == nil || ms.stopped {
		return
	}
	ms.stopped = true
	ms.ticker.Stop()
	close(ms.stop)
	ms.wg.Wait()
	ms.Log.Info("materialize scheduler stopped")
}

func (ms *MaterializeScheduler) run() {
	defer ms.wg.Done()

	// Run immediately on start
	ms.materializeAll()

	for {
		select {
		case <-ms.ticker.C:
			ms.materializeAll()
		case <-ms.stop:
			return
		}
	}
}

func (ms *MaterializeScheduler) materializeAll() {
	ctx := context.Background()

	if _, err := ms.Engine.PurgeOrphans(ctx); err != nil {
		ms.Log.WithError(err).Error("materialize scheduler: purging orphans failed")
	}

	employees, err := ms.Employees.Employees(ctx)
	if err != nil {
		ms.Log.WithError(err).Error("materialize scheduler: listing employees failed")
		return
	}

	added := 0
	for _, emp := range employees {
		n, err := ms.Engine.EnsureDefault(ctx, emp.ID)
		if err != nil {
			ms.Log.WithError(err).WithField("employee", emp.ID).
				Error("materialize scheduler: ensuring span failed")
			continue
		}
		added += n
	}

	if added > 0 {
		ms.Log.WithField("added", added).Info("materialize scheduler: filled missing records")
	}
}
