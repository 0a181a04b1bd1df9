package source

import (
	"fmt"
	"math"
)

// ValidateTimeSeries checks a time series against its window length.
func ValidateTimeSeries(pts []Point, windowDays int) error {
	if len(pts) != windowDays {
		return Unavailable("time series", fmt.Errorf("got %d points, want %d", len(pts), windowDays))
	}
	return validateValues("time series", pts)
}

// ValidateRanked checks a ranked series: no more than limit points, non-increasing values.
func ValidateRanked(pts []Point, limit int) error {
	if len(pts) > limit {
		return Unavailable("ranked", fmt.Errorf("got %d points, limit is %d", len(pts), limit))
	}
	if err := validateValues("ranked", pts); err != nil {
		return err
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].Value > pts[i-1].Value {
			return Unavailable("ranked", fmt.Errorf("point %d (%s) out of order", i, pts[i].Label))
		}
	}
	return nil
}

// ValidateShare checks a categorical share series.
func ValidateShare(pts []Point) error {
	return validateValues("share", pts)
}

func validateValues(op string, pts []Point) error {
	for i, p := range pts {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) || p.Value < 0 {
			return Unavailable(op, fmt.Errorf("point %d (%s) has invalid value %v", i, p.Label, p.Value))
		}
	}
	return nil
}
