package utils

import (
	"sort"
	"time"
)

// SortedDates returns the keys of a date-indexed map in ascending order,
// the order the cube's time axis requires.
func SortedDates[T any](m map[time.Time]T) []time.Time {
	dates := make([]time.Time, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}
