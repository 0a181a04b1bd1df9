package views

import (
	"errors"
	"fmt"

	"github.com/deevus/blogstats/source"
)

// ErrRegionNotFound is returned by a Renderer asked to draw into a region it does not have.
var ErrRegionNotFound = errors.New("display region not found")

// Handle is an opaque reference to a live chart owned by a panel.
type Handle interface {
	Region() string
}

// Renderer draws panels into display regions.
type Renderer interface {
	// Create attaches a chart of the given kind to region.
	Create(region string, kind Kind, initial []source.Point) (Handle, error)
	// Update replaces the chart's series. Repeating a call with the same series
	// leaves the rendered state unchanged.
	Update(h Handle, series []source.Point) error
	// ShowError replaces the region's content with message.
	ShowError(region, message string) error
}

// ConfigurationError reports a dashboard that cannot be set up as configured.
type ConfigurationError struct {
	Kind   Kind
	Region string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Region == "" {
		return fmt.Sprintf("configuration error: %s panel: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("configuration error: %s panel region %q: %v", e.Kind, e.Region, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
