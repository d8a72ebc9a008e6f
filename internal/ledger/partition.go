package ledger

import (
	"fmt"
	"regexp"
	"time"
)

// Weekly partitions are named YEAR_WEEK with a two-digit ISO week number.
// The fixed width is what makes the shape filter and the reverse-chronological
// lexicographic sort in EmployeeHistory correct.
var weeklyName = regexp.MustCompile(`^\d{4}_\d{2}$`)

// PartitionFor maps a date to the name of the weekly partition that owns it,
// using ISO-8601 week rules (weeks start Monday; week 1 contains the year's
// first Thursday). Note the ISO year can differ from the calendar year at
// year boundaries: 2023-01-01 belongs to 2022_52.
func PartitionFor(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d_%02d", year, week)
}

// PartitionForDate parses a YYYY-MM-DD date string and returns the owning
// partition name.
func PartitionForDate(date string) (string, error) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return PartitionFor(t), nil
}

// IsWeeklyPartition reports whether a partition name has the YYYY_WW shape.
// The filter is structural: partitions with unrelated names, such as the
// employee directory, are excluded by shape alone.
func IsWeeklyPartition(name string) bool {
	return weeklyName.MatchString(name)
}
