// Package tabular defines the partitioned tabular storage contract the
// attendance ledger writes to. A store holds named partitions; each partition
// is an ordered list of rows whose first row is the header declaring column
// order. Row indices are 1-based and count the header as row 1, matching the
// addressing of the spreadsheet backends this package stands in for.
package tabular

import (
	"context"
	"errors"
)

var (
	// ErrPartitionNotFound is returned when a requested partition does not exist.
	// Partitions are created by the store administrator, never by callers.
	ErrPartitionNotFound = errors.New("partition not found")
	// ErrColumnNotFound is returned when a cell write names a column the
	// partition header does not declare.
	ErrColumnNotFound = errors.New("column not in partition header")
	// ErrRowOutOfRange is returned when a row index does not address an
	// existing data row.
	ErrRowOutOfRange = errors.New("row index out of range")
)

// Store is the primary interface for partitioned tabular storage.
// Both the in-memory engine and the workbook-backed store implement it.
type Store interface {
	// ListPartitions returns the names of every partition in the store.
	ListPartitions(ctx context.Context) ([]string, error)

	// ReadAllRows returns every row of a partition, header row first.
	ReadAllRows(ctx context.Context, partition string) ([][]string, error)

	// AppendRow adds one row to the end of a partition. Values are keyed by
	// column name and laid out in the partition's declared header order;
	// header columns absent from the mapping are written as empty cells.
	AppendRow(ctx context.Context, partition string, values map[string]string) error

	// WriteCells updates only the named columns of one existing row,
	// leaving every other cell untouched.
	WriteCells(ctx context.Context, partition string, rowIndex int, values map[string]string) error

	// DeleteRow removes one row entirely; subsequent rows shift up by one.
	DeleteRow(ctx context.Context, partition string, rowIndex int) error
}
