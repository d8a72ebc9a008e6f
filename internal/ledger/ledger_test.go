package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kada-dev/kada-commute/internal/tabular"
	"github.com/kada-dev/kada-commute/pkg/schema"
)

var attendanceHeader = []string{"date", "name", "location", "checkin_time", "checkout_time", "employee_id", "reason"}

// fixedClock pins the day and the default times so assertions are exact.
type fixedClock struct{}

func (fixedClock) Today() time.Time {
	return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) // ISO week 2024_10
}
func (fixedClock) CheckInTime() string  { return "09:15:00" }
func (fixedClock) CheckOutTime() string { return "21:30:00" }

// capturePublisher records every published status line.
type capturePublisher struct{ lines []string }

func (p *capturePublisher) Publish(msg string) { p.lines = append(p.lines, msg) }

func newTestStore(t *testing.T) *tabular.MemStore {
	t.Helper()
	store := tabular.NewMemStore(nil, nil)
	require.NoError(t, store.CreatePartition(EmployeesPartition, []string{"id", "name", "location"}))
	require.NoError(t, store.AppendRow(context.Background(), EmployeesPartition,
		map[string]string{"id": "1001", "name": "Alice", "location": "Seoul"}))
	require.NoError(t, store.AppendRow(context.Background(), EmployeesPartition,
		map[string]string{"id": "1002", "name": "Bob", "location": "Busan"}))
	require.NoError(t, store.CreatePartition("2024_10", attendanceHeader))
	require.NoError(t, store.CreatePartition("2024_09", attendanceHeader))
	return store
}

func newTestLedger(t *testing.T) (*Ledger, *tabular.MemStore, *capturePublisher) {
	t.Helper()
	store := newTestStore(t)
	pub := &capturePublisher{}
	return New(store, fixedClock{}, pub), store, pub
}

func alice() schema.Employee {
	return schema.Employee{ID: "1001", Name: "Alice", Location: "Seoul"}
}

func TestFindEmployee(t *testing.T) {
	l, _, _ := newTestLedger(t)

	emp, err := l.FindEmployee(context.Background(), "Alice")
	require.NoError(t, err)
	assert.Equal(t, alice(), emp)

	_, err = l.FindEmployee(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrEmployeeNotFound, "lookup is case-sensitive")

	_, err = l.FindEmployee(context.Background(), "Mallory")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestCheckInThenHistory(t *testing.T) {
	l, _, pub := newTestLedger(t)

	rec, err := l.CheckIn(context.Background(), alice(), CheckOptions{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", rec.Date)
	assert.Equal(t, "09:15:00", rec.CheckInTime)

	records, err := l.EmployeeHistory(context.Background(), "1001")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, schema.Record{
		Date:        "2024-03-05",
		Name:        "Alice",
		Location:    "Seoul",
		CheckInTime: "09:15:00",
		EmployeeID:  "1001",
		Reason:      "-",
	}, records[0])

	require.Len(t, pub.lines, 1)
	assert.Contains(t, pub.lines[0], "Alice")
	assert.Contains(t, pub.lines[0], "09:15:00")
}

func TestCheckInExplicitTimeAndDate(t *testing.T) {
	l, _, _ := newTestLedger(t)

	rec, err := l.CheckIn(context.Background(), alice(), CheckOptions{Time: "08:00:00", Date: "2024-02-27"})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-27", rec.Date) // lands in 2024_09
	assert.Equal(t, "08:00:00", rec.CheckInTime)

	records, err := l.EmployeeHistory(context.Background(), "1001")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-02-27", records[0].Date)
}

func TestCheckInPartitionMissing(t *testing.T) {
	l, _, _ := newTestLedger(t)

	_, err := l.CheckIn(context.Background(), alice(), CheckOptions{Date: "2024-05-01"})
	assert.ErrorIs(t, err, ErrPartitionNotFound)
}

func TestCheckInInvalidDate(t *testing.T) {
	l, _, _ := newTestLedger(t)

	_, err := l.CheckIn(context.Background(), alice(), CheckOptions{Date: "01-05-2024"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCheckInHasNoDuplicateGuard(t *testing.T) {
	l, _, _ := newTestLedger(t)

	_, err := l.CheckIn(context.Background(), alice(), CheckOptions{})
	require.NoError(t, err)
	_, err = l.CheckIn(context.Background(), alice(), CheckOptions{})
	require.NoError(t, err)

	// Check-in is add-only: two calls produce two rows for the same day.
	records, err := l.EmployeeHistory(context.Background(), "1001")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestCheckOutExplicitTime(t *testing.T) {
	l, _, _ := newTestLedger(t)

	_, err := l.CheckIn(context.Background(), alice(), CheckOptions{})
	require.NoError(t, err)

	got, err := l.CheckOut(context.Background(), alice(), CheckOptions{Time: "18:00:00"})
	require.NoError(t, err)
	assert.Equal(t, "18:00:00", got)

	records, err := l.EmployeeHistory(context.Background(), "1001")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "09:15:00", records[0].CheckInTime, "check-in must be untouched")
	assert.Equal(t, "18:00:00", records[0].CheckOutTime)
	assert.Equal(t, "-", records[0].Reason)
}

func TestCheckOutDefaultTime(t *testing.T) {
	l, _, _ := newTestLedger(t)

	_, err := l.CheckIn(context.Background(), alice(), CheckOptions{})
	require.NoError(t, err)

	got, err := l.CheckOut(context.Background(), alice(), CheckOptions{})
	require.NoError(t, err)
	assert.Equal(t, "21:30:00", got)
}

func TestCheckOutTwiceOverwrites(t *testing.T) {
	l, _, _ := newTestLedger(t)

	_, err := l.CheckIn(context.Background(), alice(), CheckOptions{})
	require.NoError(t, err)

	_, err = l.CheckOut(context.Background(), alice(), CheckOptions{Time: "18:00:00"})
	require.NoError(t, err)

	// A second check-out finds the same row again: the cell is overwritten,
	// no new row appears.
	_, err = l.CheckOut(context.Background(), alice(), CheckOptions{Time: "19:45:00"})
	require.NoError(t, err)

	records, err := l.EmployeeHistory(context.Background(), "1001")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "19:45:00", records[0].CheckOutTime)
}

func TestCheckOutNoRecord(t *testing.T) {
	l, _, _ := newTestLedger(t)

	_, err := l.CheckOut(context.Background(), alice(), CheckOptions{})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestCheckOutWrongEmployee(t *testing.T) {
	l, _, _ := newTestLedger(t)

	_, err := l.CheckIn(context.Background(), alice(), CheckOptions{})
	require.NoError(t, err)

	bob := schema.Employee{ID: "1002", Name: "Bob", Location: "Busan"}
	_, err = l.CheckOut(context.Background(), bob, CheckOptions{})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestCheckOutEmptyPartition(t *testing.T) {
	store := tabular.NewMemStore(map[string][][]string{"2024_10": {}}, nil)
	l := New(store, fixedClock{}, nil)

	_, err := l.CheckOut(context.Background(), alice(), CheckOptions{})
	assert.ErrorIs(t, err, ErrEmptyPartition)
}

func TestCheckOutSchemaMismatch(t *testing.T) {
	store := tabular.NewMemStore(map[string][][]string{
		"2024_10": {
			{"date", "employee_id"}, // no checkout_time, no reason
			{"2024-03-05", "1001"},
		},
	}, nil)
	l := New(store, fixedClock{}, nil)

	_, err := l.CheckOut(context.Background(), alice(), CheckOptions{})
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestUpdateOnlyCheckinLeavesCheckout(t *testing.T) {
	l, _, _ := newTestLedger(t)

	_, err := l.CheckIn(context.Background(), alice(), CheckOptions{})
	require.NoError(t, err)
	_, err = l.CheckOut(context.Background(), alice(), CheckOptions{Time: "18:00:00"})
	require.NoError(t, err)

	require.NoError(t, l.UpdateRecord(context.Background(), "1001", "2024-03-05", "10:00:00", ""))

	records, err := l.EmployeeHistory(context.Background(), "1001")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "10:00:00", records[0].CheckInTime)
	assert.Equal(t, "18:00:00", records[0].CheckOutTime, "checkout must survive a checkin-only update")
	assert.Equal(t, "-", records[0].Reason)
}

func TestUpdateNoFields(t *testing.T) {
	l, _, _ := newTestLedger(t)

	err := l.UpdateRecord(context.Background(), "1001", "2024-03-05", "", "")
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
}

func TestUpdateInvalidDate(t *testing.T) {
	l, _, _ := newTestLedger(t)

	err := l.UpdateRecord(context.Background(), "1001", "bad-date", "10:00:00", "")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestUpdateRecordNotFound(t *testing.T) {
	l, _, _ := newTestLedger(t)

	err := l.UpdateRecord(context.Background(), "1001", "2024-03-05", "10:00:00", "")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteRecord(t *testing.T) {
	l, _, _ := newTestLedger(t)

	bob := schema.Employee{ID: "1002", Name: "Bob", Location: "Busan"}
	_, err := l.CheckIn(context.Background(), alice(), CheckOptions{Time: "09:00:00", Date: "2024-03-04"})
	require.NoError(t, err)
	_, err = l.CheckIn(context.Background(), bob, CheckOptions{Time: "09:01:00", Date: "2024-03-04"})
	require.NoError(t, err)
	_, err = l.CheckIn(context.Background(), alice(), CheckOptions{Time: "09:02:00", Date: "2024-03-05"})
	require.NoError(t, err)

	require.NoError(t, l.DeleteRecord(context.Background(), "1002", "2024-03-04"))

	// Bob's row is gone; the rows around it are intact after the shift.
	records, err := l.EmployeeHistory(context.Background(), "1002")
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = l.EmployeeHistory(context.Background(), "1001")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-03-04", records[0].Date)
	assert.Equal(t, "2024-03-05", records[1].Date)
}

func TestDeleteRecordNotFound(t *testing.T) {
	l, _, _ := newTestLedger(t)

	err := l.DeleteRecord(context.Background(), "1001", "2024-03-05")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteRecordInvalidDate(t *testing.T) {
	l, _, _ := newTestLedger(t)

	err := l.DeleteRecord(context.Background(), "1001", "2024/03/05")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestHistoryOrderingAndFiltering(t *testing.T) {
	l, _, _ := newTestLedger(t)

	bob := schema.Employee{ID: "1002", Name: "Bob", Location: "Busan"}
	_, err := l.CheckIn(context.Background(), alice(), CheckOptions{Time: "09:00:00", Date: "2024-02-27"})
	require.NoError(t, err)
	_, err = l.CheckIn(context.Background(), bob, CheckOptions{Time: "09:01:00", Date: "2024-02-27"})
	require.NoError(t, err)
	_, err = l.CheckIn(context.Background(), alice(), CheckOptions{Time: "09:02:00", Date: "2024-03-04"})
	require.NoError(t, err)
	_, err = l.CheckIn(context.Background(), alice(), CheckOptions{Time: "09:03:00", Date: "2024-03-05"})
	require.NoError(t, err)

	records, err := l.EmployeeHistory(context.Background(), "1001")
	require.NoError(t, err)
	require.Len(t, records, 3, "only Alice's rows")

	// 2024_10 before 2024_09; stored row order within a week.
	assert.Equal(t, "2024-03-04", records[0].Date)
	assert.Equal(t, "2024-03-05", records[1].Date)
	assert.Equal(t, "2024-02-27", records[2].Date)
}

func TestHistoryUnknownEmployee(t *testing.T) {
	l, _, _ := newTestLedger(t)

	records, err := l.EmployeeHistory(context.Background(), "9999")
	require.NoError(t, err)
	assert.Empty(t, records)
}

// failingStore makes one partition unreadable.
type failingStore struct {
	tabular.Store
	broken string
}

func (f failingStore) ReadAllRows(ctx context.Context, partition string) ([][]string, error) {
	if partition == f.broken {
		return nil, errors.New("backing store unavailable")
	}
	return f.Store.ReadAllRows(ctx, partition)
}

func TestHistorySkipsBrokenPartition(t *testing.T) {
	store := newTestStore(t)
	l := New(store, fixedClock{}, nil)

	_, err := l.CheckIn(context.Background(), alice(), CheckOptions{Time: "09:00:00", Date: "2024-02-27"})
	require.NoError(t, err)
	_, err = l.CheckIn(context.Background(), alice(), CheckOptions{Time: "09:01:00", Date: "2024-03-05"})
	require.NoError(t, err)

	// One corrupted week must not hide the others.
	broken := New(failingStore{Store: store, broken: "2024_09"}, fixedClock{}, nil)
	records, err := broken.EmployeeHistory(context.Background(), "1001")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-03-05", records[0].Date)
}

func TestStoreTimeoutSurfaced(t *testing.T) {
	l, _, _ := newTestLedger(t)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := l.CheckOut(ctx, alice(), CheckOptions{})
	assert.ErrorIs(t, err, ErrStoreTimeout)
}
