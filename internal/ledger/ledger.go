package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/kada-dev/kada-commute/internal/tabular"
	"github.com/kada-dev/kada-commute/pkg/schema"
)

// Publisher receives human-readable status lines. Delivery is best-effort
// and never affects the outcome of a ledger operation.
type Publisher interface {
	Publish(msg string)
}

// nopPublisher drops every message.
type nopPublisher struct{}

func (nopPublisher) Publish(string) {}

// Ledger orchestrates attendance operations over a tabular store. Operations
// are sequential read-locate-write chains with no atomicity guarantee across
// round-trips; serialize concurrent writers per partition one layer up (see
// Serialized).
type Ledger struct {
	store tabular.Store
	clock Clock
	pub   Publisher
}

// New creates a Ledger. A nil clock falls back to the randomized production
// clock; a nil publisher drops status lines.
func New(store tabular.Store, clock Clock, pub Publisher) *Ledger {
	if clock == nil {
		clock = NewRandomClock()
	}
	if pub == nil {
		pub = nopPublisher{}
	}
	return &Ledger{store: store, clock: clock, pub: pub}
}

// CheckOptions carries the optional explicit time and date of a check-in or
// check-out. Empty means "let the server pick". An explicit time is written
// verbatim; its format is the caller's responsibility.
type CheckOptions struct {
	Time string
	Date string
}

// CheckIn appends a new attendance record for the employee. It is add-only:
// no same-day duplicate guard, matching the historical behavior of the
// system. Calling it twice for the same day produces two rows.
func (l *Ledger) CheckIn(ctx context.Context, emp schema.Employee, opts CheckOptions) (schema.Record, error) {
	date, partition, err := l.resolveDay(opts.Date)
	if err != nil {
		return schema.Record{}, err
	}

	checkin := opts.Time
	if checkin == "" {
		checkin = l.clock.CheckInTime()
	}

	rec := schema.Record{
		Date:        date,
		Name:        emp.Name,
		Location:    emp.Location,
		CheckInTime: checkin,
		EmployeeID:  emp.ID,
		Reason:      DefaultReason,
	}
	if err := l.store.AppendRow(ctx, partition, cellValues(rec)); err != nil {
		return schema.Record{}, mapStoreErr(err, partition)
	}

	l.pub.Publish(fmt.Sprintf("Check-in recorded for %s at %s (reason: %s)", emp.Name, checkin, DefaultReason))
	return rec, nil
}

// CheckOut locates the employee's record for the day and writes only its
// checkout_time and reason cells, leaving every other column untouched. It
// returns the recorded time. A second check-out for the same day finds the
// same row again and overwrites it.
func (l *Ledger) CheckOut(ctx context.Context, emp schema.Employee, opts CheckOptions) (string, error) {
	date, partition, err := l.resolveDay(opts.Date)
	if err != nil {
		return "", err
	}

	rowNum, _, err := l.locate(ctx, partition, date, emp.ID, colDate, colEmployeeID, colCheckOutTime, colReason)
	if err != nil {
		return "", err
	}

	checkout := opts.Time
	if checkout == "" {
		checkout = l.clock.CheckOutTime()
	}

	cells := map[string]string{
		colCheckOutTime: checkout,
		colReason:       DefaultReason,
	}
	if err := l.store.WriteCells(ctx, partition, rowNum, cells); err != nil {
		return "", mapStoreErr(err, partition)
	}

	l.pub.Publish(fmt.Sprintf("Check-out recorded for %s at %s (reason: %s)", emp.Name, checkout, DefaultReason))
	return checkout, nil
}

// UpdateRecord rewrites the check-in and/or check-out time of the record
// matching (employeeID, date). At least one of the two must be supplied;
// the other field and the reason are left untouched.
func (l *Ledger) UpdateRecord(ctx context.Context, employeeID, date, checkin, checkout string) error {
	if checkin == "" && checkout == "" {
		return ErrNoFieldsToUpdate
	}

	partition, err := PartitionForDate(date)
	if err != nil {
		return err
	}

	required := []string{colDate, colEmployeeID}
	cells := make(map[string]string, 2)
	if checkin != "" {
		required = append(required, colCheckInTime)
		cells[colCheckInTime] = checkin
	}
	if checkout != "" {
		required = append(required, colCheckOutTime)
		cells[colCheckOutTime] = checkout
	}

	rowNum, _, err := l.locate(ctx, partition, date, employeeID, required...)
	if err != nil {
		return err
	}
	if err := l.store.WriteCells(ctx, partition, rowNum, cells); err != nil {
		return mapStoreErr(err, partition)
	}

	l.pub.Publish(fmt.Sprintf("Record updated for employee %s on %s", employeeID, date))
	return nil
}

// DeleteRecord removes the record matching (employeeID, date) entirely.
// Rows below the deleted one shift up, so row indices are never assumed
// stable across calls.
func (l *Ledger) DeleteRecord(ctx context.Context, employeeID, date string) error {
	partition, err := PartitionForDate(date)
	if err != nil {
		return err
	}

	rowNum, _, err := l.locate(ctx, partition, date, employeeID, colDate, colEmployeeID)
	if err != nil {
		return err
	}
	if err := l.store.DeleteRow(ctx, partition, rowNum); err != nil {
		return mapStoreErr(err, partition)
	}

	l.pub.Publish(fmt.Sprintf("Record deleted for employee %s on %s", employeeID, date))
	return nil
}

// EmployeeHistory aggregates an employee's records across every weekly
// partition, most recent week first, stored row order within a week. A
// partition that fails to read is logged and skipped so one corrupted week
// cannot hide the rest of the data.
func (l *Ledger) EmployeeHistory(ctx context.Context, employeeID string) ([]schema.Record, error) {
	names, err := l.store.ListPartitions(ctx)
	if err != nil {
		return nil, mapStoreErr(err, "")
	}

	var weekly []string
	for _, name := range names {
		if IsWeeklyPartition(name) {
			weekly = append(weekly, name)
		}
	}
	// Fixed-width YYYY_WW names make lexicographic descending equivalent to
	// reverse-chronological.
	sort.Sort(sort.Reverse(sort.StringSlice(weekly)))

	records := []schema.Record{}
	for _, partition := range weekly {
		rows, err := l.store.ReadAllRows(ctx, partition)
		if err != nil {
			log.Printf("history: skipping partition %s: %v", partition, err)
			continue
		}
		if len(rows) < 2 {
			continue
		}
		idx := newHeaderIndex(rows[0])
		if err := idx.require(colEmployeeID); err != nil {
			log.Printf("history: skipping partition %s: %v", partition, err)
			continue
		}
		for _, row := range rows[1:] {
			if idx.cell(row, colEmployeeID) == employeeID {
				records = append(records, idx.recordFromRow(row))
			}
		}
	}
	return records, nil
}

// locate reads a partition and returns the 1-based row number (header is
// row 1) of the first row matching date and employee id. Rows too short to
// hold both match columns are skipped.
func (l *Ledger) locate(ctx context.Context, partition, date, employeeID string, required ...string) (int, headerIndex, error) {
	rows, err := l.store.ReadAllRows(ctx, partition)
	if err != nil {
		return 0, nil, mapStoreErr(err, partition)
	}
	if len(rows) == 0 {
		return 0, nil, fmt.Errorf("%w: %s", ErrEmptyPartition, partition)
	}

	idx := newHeaderIndex(rows[0])
	if err := idx.require(required...); err != nil {
		return 0, nil, err
	}

	dateIdx := idx[colDate]
	idIdx := idx[colEmployeeID]
	for i, row := range rows[1:] {
		if len(row) <= dateIdx || len(row) <= idIdx {
			continue
		}
		if row[dateIdx] == date && row[idIdx] == employeeID {
			return i + 2, idx, nil
		}
	}
	return 0, nil, fmt.Errorf("%w: employee %s on %s", ErrRecordNotFound, employeeID, date)
}

// resolveDay returns the target date string and its owning partition, using
// today when no explicit date is given.
func (l *Ledger) resolveDay(explicit string) (string, string, error) {
	if explicit == "" {
		today := l.clock.Today()
		return today.Format("2006-01-02"), PartitionFor(today), nil
	}
	partition, err := PartitionForDate(explicit)
	if err != nil {
		return "", "", err
	}
	return explicit, partition, nil
}

// mapStoreErr translates transport-level failures into the ledger's error
// taxonomy. Write errors are propagated as-is; nothing is retried.
func mapStoreErr(err error, partition string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrStoreTimeout, err)
	case errors.Is(err, tabular.ErrPartitionNotFound):
		return fmt.Errorf("%w: %s", ErrPartitionNotFound, partition)
	default:
		return err
	}
}
