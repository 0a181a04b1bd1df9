// Package source provides the analytics data sources that feed the dashboard.
package source

import (
	"context"
	"errors"
	"fmt"
)

// Point is a single labelled value of a series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// DataSource answers the three dashboard queries.
type DataSource interface {
	// TimeSeries returns one point per day for the trailing window, oldest first.
	TimeSeries(ctx context.Context, windowDays int) ([]Point, error)
	// Ranked returns at most limit points in descending order of value.
	Ranked(ctx context.Context, limit int) ([]Point, error)
	// CategoricalShare returns the breakdown of a total across categories.
	CategoricalShare(ctx context.Context) ([]Point, error)
}

// ErrDataUnavailable is reported for every failed query, whatever the cause.
var ErrDataUnavailable = errors.New("data unavailable")

// UnavailableError records which query failed and why.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return e.Op + ": " + ErrDataUnavailable.Error()
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrDataUnavailable, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is reports ErrDataUnavailable as a match so callers need not know the cause.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// Unavailable wraps err as a data-unavailable failure of op.
// Errors that already are unavailable failures are returned as is.
func Unavailable(op string, err error) error {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return err
	}
	return &UnavailableError{Op: op, Err: err}
}

// Labels returns the labels of pts in order.
func Labels(pts []Point) []string {
	out := make([]string, len(pts))
	for i, p := range pts {
		out[i] = p.Label
	}
	return out
}

// Values returns the values of pts in order.
func Values(pts []Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Value
	}
	return out
}

// Total sums the values of pts.
func Total(pts []Point) float64 {
	var sum float64
	for _, p := range pts {
		sum += p.Value
	}
	return sum
}
