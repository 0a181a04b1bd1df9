package source

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// SeedParams controls synthetic visit generation.
type SeedParams struct {
	Days   int    // spread visits over this many trailing days
	Visits int    // total number of visits
	Seed   uint64 // zero picks a random seed
	Now    time.Time
}

var (
	seedPaths     = []string{"/", "/blog/hello-world", "/blog/go-generics", "/blog/sqlite-wal", "/blog/tui-dashboards", "/about", "/blog/errgroup-patterns"}
	seedCountries = []string{"China", "US", "Japan", "Germany", "UK", "France", "Brazil"}
	seedBrowsers  = []string{"Chrome", "Firefox", "Safari", "Edge"}
	seedOS        = []string{"Windows", "macOS", "Linux", "Android", "iOS"}
	seedDevices   = []string{"Desktop", "Mobile", "Tablet"}
	seedReferrers = []string{"Direct", "Google", "GitHub", "DuckDuckGo", "news.ycombinator.com"}
)

// Seed fills s with synthetic visits. Earlier entries of each list are favoured
// so the ranked and share panels show a clear ordering.
func Seed(ctx context.Context, s *SQLite, p SeedParams) (int, error) {
	if p.Days <= 0 || p.Visits <= 0 {
		return 0, fmt.Errorf("seed needs positive days and visits, got %d and %d", p.Days, p.Visits)
	}
	if p.Now.IsZero() {
		p.Now = time.Now()
	}
	seed := p.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	for i := 0; i < p.Visits; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		offset := time.Duration(rng.Int64N(int64(time.Duration(p.Days) * 24 * time.Hour)))
		v := Visit{
			Path:      skewed(rng, seedPaths),
			Country:   skewed(rng, seedCountries),
			Browser:   skewed(rng, seedBrowsers),
			OS:        skewed(rng, seedOS),
			Device:    skewed(rng, seedDevices),
			Referrer:  skewed(rng, seedReferrers),
			Timestamp: p.Now.Add(-offset),
		}
		if err := s.RecordVisit(ctx, v); err != nil {
			return i, err
		}
	}
	return p.Visits, nil
}

// skewed picks the lower of two uniform draws, biasing towards the front of xs.
func skewed(rng *rand.Rand, xs []string) string {
	return xs[min(rng.IntN(len(xs)), rng.IntN(len(xs)))]
}
