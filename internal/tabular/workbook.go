package tabular

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"
)

// WorkbookStore is a Store backed by an .xlsx workbook on disk, one sheet per
// partition. It is the production stand-in for the hosted spreadsheet the
// attendance ledger was built against: the same header-driven layout, the
// same one-writer-at-a-time expectations. Every mutation is flushed to disk
// before it returns.
type WorkbookStore struct {
	mu   sync.Mutex
	path string
	file *excelize.File
}

// OpenWorkbook opens an existing workbook file. The workbook (and its weekly
// sheets) must already exist; this mirrors the rule that partitions are
// provisioned by the administrator, not created on demand.
func OpenWorkbook(path string) (*WorkbookStore, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &WorkbookStore{path: path, file: f}, nil
}

// Close releases the underlying workbook handle.
func (w *WorkbookStore) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *WorkbookStore) ListPartitions(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.GetSheetList(), nil
}

func (w *WorkbookStore) ReadAllRows(ctx context.Context, partition string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.readRows(partition)
}

func (w *WorkbookStore) AppendRow(ctx context.Context, partition string, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.readRows(partition)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("partition %q has no header row", partition)
	}

	header := rows[0]
	target := len(rows) + 1
	for i, col := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, target)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(partition, cell, values[col]); err != nil {
			return err
		}
	}
	return w.file.Save()
}

func (w *WorkbookStore) WriteCells(ctx context.Context, partition string, rowIndex int, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.readRows(partition)
	if err != nil {
		return err
	}
	if rowIndex < 2 || rowIndex > len(rows) {
		return fmt.Errorf("%w: row %d of %s", ErrRowOutOfRange, rowIndex, partition)
	}

	header := rows[0]
	for col, val := range values {
		idx := columnIndex(header, col)
		if idx < 0 {
			return fmt.Errorf("%w: %q in %s", ErrColumnNotFound, col, partition)
		}
		cell, err := excelize.CoordinatesToCellName(idx+1, rowIndex)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(partition, cell, val); err != nil {
			return err
		}
	}
	return w.file.Save()
}

func (w *WorkbookStore) DeleteRow(ctx context.Context, partition string, rowIndex int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.readRows(partition)
	if err != nil {
		return err
	}
	if rowIndex < 2 || rowIndex > len(rows) {
		return fmt.Errorf("%w: row %d of %s", ErrRowOutOfRange, rowIndex, partition)
	}

	if err := w.file.RemoveRow(partition, rowIndex); err != nil {
		return err
	}
	return w.file.Save()
}

// readRows fetches a sheet's rows, translating a missing sheet into
// ErrPartitionNotFound. Callers must hold w.mu.
func (w *WorkbookStore) readRows(partition string) ([][]string, error) {
	idx, err := w.file.GetSheetIndex(partition)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrPartitionNotFound, partition)
	}
	return w.file.GetRows(partition)
}
