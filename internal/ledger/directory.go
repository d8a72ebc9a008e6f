package ledger

import (
	"context"
	"fmt"

	"github.com/kada-dev/kada-commute/pkg/schema"
)

// FindEmployee scans the fixed Employees partition and returns the first
// exact, case-sensitive match on the name column. The directory is small and
// changes rarely, so a linear scan is fine; the lookup is read-only.
func (l *Ledger) FindEmployee(ctx context.Context, name string) (schema.Employee, error) {
	rows, err := l.store.ReadAllRows(ctx, EmployeesPartition)
	if err != nil {
		return schema.Employee{}, mapStoreErr(err, EmployeesPartition)
	}
	if len(rows) == 0 {
		return schema.Employee{}, fmt.Errorf("%w: %s", ErrEmptyPartition, EmployeesPartition)
	}

	idx := newHeaderIndex(rows[0])
	if err := idx.require("id", colName, colLocation); err != nil {
		return schema.Employee{}, err
	}

	for _, row := range rows[1:] {
		if idx.cell(row, colName) == name {
			return schema.Employee{
				ID:       idx.cell(row, "id"),
				Name:     idx.cell(row, colName),
				Location: idx.cell(row, colLocation),
			}, nil
		}
	}
	return schema.Employee{}, fmt.Errorf("%w: %q", ErrEmployeeNotFound, name)
}
