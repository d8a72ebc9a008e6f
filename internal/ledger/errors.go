// Package ledger implements the partitioned attendance ledger: mapping dates
// to weekly partitions, appending check-ins, locating and mutating the row
// for a check-out, update or delete, and aggregating an employee's records
// across all weekly partitions.
package ledger

import "errors"

var (
	// ErrPartitionNotFound is returned when the target week's partition is
	// absent. Partitions are provisioned by the store administrator; the
	// ledger never auto-creates one.
	ErrPartitionNotFound = errors.New("weekly partition not found")
	// ErrEmptyPartition is returned when the target partition exists but
	// holds no rows at all, not even a header.
	ErrEmptyPartition = errors.New("partition is empty")
	// ErrSchemaMismatch is returned when the partition header lacks a column
	// the operation needs.
	ErrSchemaMismatch = errors.New("partition header missing required columns")
	// ErrRecordNotFound is returned when no row matches the requested
	// (employee, date) pair.
	ErrRecordNotFound = errors.New("attendance record not found")
	// ErrEmployeeNotFound is returned when the directory holds no employee
	// with the requested name.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrInvalidDate is returned when a caller-supplied date is not
	// YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date, want YYYY-MM-DD")
	// ErrNoFieldsToUpdate is returned when an update supplies neither a
	// check-in nor a check-out time.
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	// ErrStoreTimeout is returned when a storage round-trip exceeds the
	// caller's deadline.
	ErrStoreTimeout = errors.New("storage round-trip timed out")
)
