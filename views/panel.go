package views

import (
	"errors"
	"fmt"

	"github.com/deevus/blogstats/source"
)

// Kind identifies what a panel shows.
type Kind int

const (
	KindTimeSeries Kind = iota // daily page views
	KindRanked                 // most popular posts
	KindShare                  // visitor locations
)

// Kinds lists every panel kind in display order.
var Kinds = []Kind{KindTimeSeries, KindRanked, KindShare}

func (k Kind) String() string {
	switch k {
	case KindTimeSeries:
		return "time-series"
	case KindRanked:
		return "ranked-bar"
	case KindShare:
		return "categorical-share"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is the lifecycle state of a panel.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Panel is one chart area bound to one data query.
type Panel struct {
	Kind   Kind
	Region string
	Handle Handle
	State  State
	Series []source.Point // last series applied to Handle
}

// Regions maps each panel kind to its display region id.
type Regions map[Kind]string

// validate checks that every kind has a distinct, non-empty region.
func (r Regions) validate() error {
	seen := make(map[string]Kind, len(r))
	for _, k := range Kinds {
		id := r[k]
		if id == "" {
			return &ConfigurationError{Kind: k, Err: errors.New("no display region configured")}
		}
		if other, ok := seen[id]; ok {
			return &ConfigurationError{Kind: k, Region: id, Err: fmt.Errorf("region already used by %s panel", other)}
		}
		seen[id] = k
	}
	return nil
}
