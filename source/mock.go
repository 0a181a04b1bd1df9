package source

import (
	"context"
	"fmt"
)

// Mock is a DataSource whose queries are supplied as functions.
// A nil function answers with an empty series.
type Mock struct {
	TimeSeriesFunc       func(ctx context.Context, windowDays int) ([]Point, error)
	RankedFunc           func(ctx context.Context, limit int) ([]Point, error)
	CategoricalShareFunc func(ctx context.Context) ([]Point, error)
}

var _ DataSource = (*Mock)(nil)

// TimeSeries calls TimeSeriesFunc. When unset it returns windowDays zero points.
func (m *Mock) TimeSeries(ctx context.Context, windowDays int) ([]Point, error) {
	if m.TimeSeriesFunc != nil {
		return m.TimeSeriesFunc(ctx, windowDays)
	}
	if windowDays < 0 {
		return nil, Unavailable("mock time series", fmt.Errorf("negative window %d", windowDays))
	}
	return make([]Point, windowDays), nil
}

func (m *Mock) Ranked(ctx context.Context, limit int) ([]Point, error) {
	if m.RankedFunc != nil {
		return m.RankedFunc(ctx, limit)
	}
	return []Point{}, nil
}

func (m *Mock) CategoricalShare(ctx context.Context) ([]Point, error) {
	if m.CategoricalShareFunc != nil {
		return m.CategoricalShareFunc(ctx)
	}
	return []Point{}, nil
}
