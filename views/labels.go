package views

import (
	"iter"
	"time"
)

// WindowLabels yields labels for the n calendar days ending on the day of now(),
// oldest first, formatted with layout. The clock is read each time the sequence
// is ranged over, so a sequence kept across midnight moves with the date.
func WindowLabels(now func() time.Time, loc *time.Location, n int, layout string) iter.Seq[string] {
	if loc == nil {
		loc = time.Local
	}
	return func(yield func(string) bool) {
		t := now().In(loc)
		// Noon keeps AddDate away from DST transitions at midnight.
		today := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc)
		for i := n - 1; i >= 0; i-- {
			if !yield(today.AddDate(0, 0, -i).Format(layout)) {
				return
			}
		}
	}
}
