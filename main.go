package main

import (
	"fmt"
	"io"
	"os"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/blogstats/app"
	"github.com/deevus/blogstats/config"
	"github.com/deevus/blogstats/export"
	"github.com/deevus/blogstats/internal"
	"github.com/deevus/blogstats/source"
	"github.com/deevus/blogstats/views"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	cliApp := &cli.App{
		Name:  "blogstats",
		Usage: "blog statistics dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultPath(),
				Usage:   "path to config file",
			},
		},
		Action: runTUI,
		Commands: []*cli.Command{
			{
				Name:   "tui",
				Usage:  "show the dashboard in the terminal",
				Action: runTUI,
			},
			{
				Name:  "export",
				Usage: "write the dashboard as a static HTML page",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "stats.html", Usage: "output file, - for stdout"},
				},
				Action: runExport,
			},
			{
				Name:  "seed",
				Usage: "fill the SQLite store with synthetic visits",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days", Value: 30, Usage: "spread visits over this many days"},
					&cli.IntFlag{Name: "visits", Value: 500, Usage: "number of visits to record"},
					&cli.Uint64Flag{Name: "seed", Usage: "random seed, 0 for a random one"},
				},
				Action: runSeed,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadFrom(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newDashboard(cfg *config.Config, src source.DataSource, r views.Renderer, logger *zap.Logger) (*views.Dashboard, error) {
	return views.NewDashboard(views.DashboardParams{
		Source:   src,
		Renderer: r,
		Regions: views.Regions{
			views.KindTimeSeries: cfg.Regions.TimeSeries,
			views.KindRanked:     cfg.Regions.Ranked,
			views.KindShare:      cfg.Regions.Share,
		},
		WindowDays:   cfg.Dashboard.WindowDays,
		TopN:         cfg.Dashboard.TopPosts,
		Timeout:      cfg.Dashboard.Timeout(),
		DateLayout:   cfg.Dashboard.DateLayout,
		ErrorMessage: cfg.Dashboard.ErrorMessage,
		Logger:       logger,
	})
}

func titles(cfg *config.Config) map[views.Kind]string {
	t := cfg.Titles.Expand(cfg.Dashboard.WindowDays, cfg.Dashboard.TopPosts)
	return map[views.Kind]string{
		views.KindTimeSeries: t.TimeSeries,
		views.KindRanked:     t.Ranked,
		views.KindShare:      t.Share,
	}
}

func runTUI(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	// Nothing may be written to the terminal while vaxis owns it.
	logger, err := internal.NewLogger(cfg.Log, "")
	if err != nil {
		return err
	}
	defer logger.Sync()

	svc, err := internal.NewServices(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	canvas := views.NewCanvas(views.CanvasParams{Regions: cfg.RegionIDs(), Titles: titles(cfg)})
	dashboard, err := newDashboard(cfg, svc.Source, canvas, logger)
	if err != nil {
		return err
	}
	if err := dashboard.Initialize(c.Context); err != nil {
		return err
	}

	root := app.New(app.Params{Dashboard: dashboard, Canvas: canvas, Logger: logger})

	vxApp, err := vxfw.NewApp(vaxis.Options{})
	if err != nil {
		return err
	}
	return vxApp.Run(root)
}

func runExport(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := internal.NewLogger(cfg.Log, "stderr")
	if err != nil {
		return err
	}
	defer logger.Sync()

	svc, err := internal.NewServices(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	page := export.NewHTML(export.HTMLParams{Regions: cfg.RegionIDs(), Titles: titles(cfg)})
	dashboard, err := newDashboard(cfg, svc.Source, page, logger)
	if err != nil {
		return err
	}
	if err := dashboard.Initialize(c.Context); err != nil {
		return err
	}

	out := c.String("out")
	if err := writePage(page, out); err != nil {
		return err
	}
	if page.Failed() {
		return fmt.Errorf("statistics unavailable, wrote error page to %s", out)
	}
	logger.Info("exported dashboard", zap.String("out", out))
	return nil
}

func writePage(page *export.HTML, out string) error {
	var w io.Writer = os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	return page.Render(w)
}

func runSeed(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := internal.NewLogger(cfg.Log, "stderr")
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg.Source.Kind = config.SourceSQLite
	svc, err := internal.NewServices(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	n, err := source.Seed(c.Context, svc.Store, source.SeedParams{
		Days:   c.Int("days"),
		Visits: c.Int("visits"),
		Seed:   c.Uint64("seed"),
	})
	if err != nil {
		return fmt.Errorf("seeding %s: %w", cfg.Source.Path, err)
	}
	fmt.Printf("Recorded %s visits in %s\n", humanize.Comma(int64(n)), cfg.Source.Path)
	return nil
}
