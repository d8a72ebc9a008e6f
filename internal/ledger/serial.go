package ledger

import (
	"context"
	"sync"

	"github.com/kada-dev/kada-commute/pkg/schema"
)

// Serialized wraps a Ledger and serializes mutating operations per partition.
// The ledger's read-locate-write chains are not atomic, so concurrent callers
// targeting the same week must take turns; callers on different weeks do not
// block each other. Reads (FindEmployee, EmployeeHistory) pass through
// unlocked.
type Serialized struct {
	*Ledger
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSerialized wraps a ledger with per-partition write serialization.
func NewSerialized(l *Ledger) *Serialized {
	return &Serialized{Ledger: l, locks: make(map[string]*sync.Mutex)}
}

func (s *Serialized) lock(partition string) func() {
	s.mu.Lock()
	m, ok := s.locks[partition]
	if !ok {
		m = &sync.Mutex{}
		s.locks[partition] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// lockFor resolves the partition for an optional explicit date and locks it.
// Resolution errors are left for the wrapped operation to report.
func (s *Serialized) lockFor(explicitDate string) func() {
	_, partition, err := s.resolveDay(explicitDate)
	if err != nil {
		return func() {}
	}
	return s.lock(partition)
}

func (s *Serialized) CheckIn(ctx context.Context, emp schema.Employee, opts CheckOptions) (schema.Record, error) {
	unlock := s.lockFor(opts.Date)
	defer unlock()
	return s.Ledger.CheckIn(ctx, emp, opts)
}

func (s *Serialized) CheckOut(ctx context.Context, emp schema.Employee, opts CheckOptions) (string, error) {
	unlock := s.lockFor(opts.Date)
	defer unlock()
	return s.Ledger.CheckOut(ctx, emp, opts)
}

func (s *Serialized) UpdateRecord(ctx context.Context, employeeID, date, checkin, checkout string) error {
	unlock := s.lockFor(date)
	defer unlock()
	return s.Ledger.UpdateRecord(ctx, employeeID, date, checkin, checkout)
}

func (s *Serialized) DeleteRecord(ctx context.Context, employeeID, date string) error {
	unlock := s.lockFor(date)
	defer unlock()
	return s.Ledger.DeleteRecord(ctx, employeeID, date)
}
