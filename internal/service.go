package internal

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/deevus/blogstats/config"
	"github.com/deevus/blogstats/source"
	"go.uber.org/zap"
)

// Services holds the data source selected by the configuration.
type Services struct {
	Source source.DataSource
	// Store is set when the source is the local SQLite database.
	Store *source.SQLite

	closers []func() error
}

// NewServices builds the data source named by cfg.Source.Kind.
func NewServices(cfg *config.Config, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &Services{}

	switch cfg.Source.Kind {
	case config.SourceSample, "":
		svc.Source = source.NewSample(cfg.Source.Seed).WithLabels(cfg.Dashboard.DateLayout, nil)
	case config.SourceSQLite:
		store, err := source.OpenSQLite(source.SQLiteParams{
			Path:           cfg.Source.Path,
			WindowDays:     cfg.Dashboard.WindowDays,
			ShareDimension: cfg.Source.ShareDimension,
			DateLayout:     cfg.Dashboard.DateLayout,
		})
		if err != nil {
			return nil, fmt.Errorf("opening analytics database: %w", err)
		}
		svc.Source = store
		svc.Store = store
		svc.closers = append(svc.closers, store.Close)
	case config.SourceHTTP:
		h, err := source.NewHTTP(source.HTTPParams{
			BaseURL: cfg.Source.URL,
			Client:  &http.Client{Timeout: cfg.Dashboard.Timeout()},
		})
		if err != nil {
			return nil, fmt.Errorf("creating analytics client: %w", err)
		}
		svc.Source = h
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}

	logger.Debug("data source ready", zap.String("kind", cfg.Source.Kind))
	return svc, nil
}

// Close releases whatever the data source holds open.
func (s *Services) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	s.closers = nil
	return errors.Join(errs...)
}
