package utils

import (
	"testing"
	"time"
)

func TestSortedDates(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	m := map[time.Time]string{d3: "c", d1: "a", d2: "b"}
	got := SortedDates(m)

	want := []time.Time{d1, d2, d3}
	if len(got) != len(want) {
		t.Fatalf("expecting %d dates, actual %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("expecting %v at position %d, actual %v", want[i], i, got[i])
		}
	}
}

func TestSortedDatesEmpty(t *testing.T) {
	if got := SortedDates(map[time.Time]int{}); len(got) != 0 {
		t.Errorf("expecting no dates, actual %v", got)
	}
}
