package tabular

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is a thread-safe in-memory Store with optional JSON snapshot
// persistence. It is the embedded backend for the daemon and the fixture
// backend for tests.
type MemStore struct {
	mu         sync.RWMutex
	partitions map[string][][]string
	persister  *Persistence
	wg         sync.WaitGroup
}

// NewMemStore initializes a store. It accepts existing partition data
// (from LoadAll) and an optional persister.
func NewMemStore(initial map[string][][]string, p *Persistence) *MemStore {
	if initial == nil {
		initial = make(map[string][][]string)
	}
	return &MemStore{
		partitions: initial,
		persister:  p,
	}
}

// Wait blocks until all background persistence tasks have completed.
func (m *MemStore) Wait() {
	m.wg.Wait()
}

// CreatePartition adds an empty partition with the given header row.
// This is an administrative operation; the ledger never creates partitions.
func (m *MemStore) CreatePartition(name string, header []string) error {
	m.mu.Lock()
	if _, exists := m.partitions[name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("partition %q already exists", name)
	}
	m.partitions[name] = [][]string{append([]string(nil), header...)}
	snapshot := m.copyPartition(name)
	m.mu.Unlock()

	m.persist(name, snapshot)
	return nil
}

func (m *MemStore) ListPartitions(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name := range m.partitions {
		names = append(names, name)
	}
	return names, nil
}

func (m *MemStore) ReadAllRows(ctx context.Context, partition string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, ok := m.partitions[partition]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartitionNotFound, partition)
	}

	// Copy so callers cannot mutate the store through the returned slices.
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (m *MemStore) AppendRow(ctx context.Context, partition string, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	rows, ok := m.partitions[partition]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPartitionNotFound, partition)
	}
	if len(rows) == 0 {
		m.mu.Unlock()
		return fmt.Errorf("partition %q has no header row", partition)
	}

	header := rows[0]
	row := make([]string, len(header))
	for i, col := range header {
		row[i] = values[col]
	}
	m.partitions[partition] = append(rows, row)
	snapshot := m.copyPartition(partition)
	m.mu.Unlock()

	m.persist(partition, snapshot)
	return nil
}

func (m *MemStore) WriteCells(ctx context.Context, partition string, rowIndex int, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	rows, ok := m.partitions[partition]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPartitionNotFound, partition)
	}
	if rowIndex < 2 || rowIndex > len(rows) {
		m.mu.Unlock()
		return fmt.Errorf("%w: row %d of %s", ErrRowOutOfRange, rowIndex, partition)
	}

	header := rows[0]
	row := rows[rowIndex-1]
	for col, val := range values {
		idx := columnIndex(header, col)
		if idx < 0 {
			m.mu.Unlock()
			return fmt.Errorf("%w: %q in %s", ErrColumnNotFound, col, partition)
		}
		// Rows may be shorter than the header when trailing cells were
		// never written.
		for len(row) <= idx {
			row = append(row, "")
		}
		row[idx] = val
	}
	rows[rowIndex-1] = row
	snapshot := m.copyPartition(partition)
	m.mu.Unlock()

	m.persist(partition, snapshot)
	return nil
}

func (m *MemStore) DeleteRow(ctx context.Context, partition string, rowIndex int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	rows, ok := m.partitions[partition]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPartitionNotFound, partition)
	}
	if rowIndex < 2 || rowIndex > len(rows) {
		m.mu.Unlock()
		return fmt.Errorf("%w: row %d of %s", ErrRowOutOfRange, rowIndex, partition)
	}

	m.partitions[partition] = append(rows[:rowIndex-1], rows[rowIndex:]...)
	snapshot := m.copyPartition(partition)
	m.mu.Unlock()

	m.persist(partition, snapshot)
	return nil
}

// copyPartition deep-copies one partition's rows.
// It MUST be called while holding m.mu.
func (m *MemStore) copyPartition(partition string) [][]string {
	rows, ok := m.partitions[partition]
	if !ok {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// persist saves a partition snapshot in the background.
func (m *MemStore) persist(partition string, snapshot [][]string) {
	if m.persister == nil || snapshot == nil {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.persister.SavePartition(partition, snapshot)
	}()
}

func columnIndex(header []string, col string) int {
	for i, h := range header {
		if h == col {
			return i
		}
	}
	return -1
}
