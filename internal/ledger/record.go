package ledger

import (
	"fmt"

	"github.com/kada-dev/kada-commute/pkg/schema"
)

// Column names of the attendance partitions. The header row of each partition
// declares the physical order; the ledger only ever addresses cells by name.
const (
	colDate         = "date"
	colName         = "name"
	colLocation     = "location"
	colCheckInTime  = "checkin_time"
	colCheckOutTime = "checkout_time"
	colEmployeeID   = "employee_id"
	colReason       = "reason"
)

// EmployeesPartition is the fixed directory partition name.
const EmployeesPartition = "Employees"

// DefaultReason is the placeholder annotation written at check-in and
// check-out.
const DefaultReason = "-"

// headerIndex maps column names to their position in a partition header.
// It is built once per partition read so row access stays typed instead of
// threading raw key-value maps through the pipeline.
type headerIndex map[string]int

func newHeaderIndex(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, col := range header {
		if _, seen := idx[col]; !seen {
			idx[col] = i
		}
	}
	return idx
}

// require fails with ErrSchemaMismatch unless every named column is present.
func (h headerIndex) require(cols ...string) error {
	for _, col := range cols {
		if _, ok := h[col]; !ok {
			return fmt.Errorf("%w: %q", ErrSchemaMismatch, col)
		}
	}
	return nil
}

// cell returns a row's value for a column, or "" when the row is shorter
// than the header or the column is absent.
func (h headerIndex) cell(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// recordFromRow builds a typed Record from one partition row.
func (h headerIndex) recordFromRow(row []string) schema.Record {
	return schema.Record{
		Date:         h.cell(row, colDate),
		Name:         h.cell(row, colName),
		Location:     h.cell(row, colLocation),
		CheckInTime:  h.cell(row, colCheckInTime),
		CheckOutTime: h.cell(row, colCheckOutTime),
		EmployeeID:   h.cell(row, colEmployeeID),
		Reason:       h.cell(row, colReason),
	}
}

// cellValues flattens a Record into the column->value mapping the store
// lays out against the partition's own header order.
func cellValues(r schema.Record) map[string]string {
	return map[string]string{
		colDate:         r.Date,
		colName:         r.Name,
		colLocation:     r.Location,
		colCheckInTime:  r.CheckInTime,
		colCheckOutTime: r.CheckOutTime,
		colEmployeeID:   r.EmployeeID,
		colReason:       r.Reason,
	}
}
