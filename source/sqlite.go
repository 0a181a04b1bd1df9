package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// timestampLayout is how visit timestamps are stored; it sorts lexically.
const timestampLayout = "2006-01-02 15:04:05"

// ShareDimensions lists the visit columns the categorical share can break down by.
var ShareDimensions = []string{"country", "browser", "os", "device", "referrer"}

// IsShareDimension reports whether dim is a known share dimension.
func IsShareDimension(dim string) bool {
	for _, d := range ShareDimensions {
		if d == dim {
			return true
		}
	}
	return false
}

// Visit is a single recorded page view.
type Visit struct {
	Path      string
	Country   string
	Browser   string
	OS        string
	Device    string
	Referrer  string
	Timestamp time.Time
}

// SQLiteParams holds configuration for opening a SQLite store.
type SQLiteParams struct {
	Path           string
	WindowDays     int            // trailing window for ranked and share queries
	ShareDimension string         // column used by CategoricalShare, default "country"
	DateLayout     string         // time series labels, default DefaultDateLayout
	Location       *time.Location // days are counted in this zone, default time.Local
	Now            func() time.Time
}

// SQLite is a DataSource backed by a local analytics database.
type SQLite struct {
	db         *sql.DB
	windowDays int
	dimension  string
	layout     string
	loc        *time.Location
	now        func() time.Time
}

var _ DataSource = (*SQLite)(nil)

// OpenSQLite opens (and if needed creates) the analytics database at p.Path.
func OpenSQLite(p SQLiteParams) (*SQLite, error) {
	if p.ShareDimension == "" {
		p.ShareDimension = "country"
	}
	if !IsShareDimension(p.ShareDimension) {
		return nil, fmt.Errorf("unknown share dimension %q", p.ShareDimension)
	}
	if p.WindowDays <= 0 {
		p.WindowDays = 7
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.DateLayout == "" {
		p.DateLayout = DefaultDateLayout
	}
	if p.Location == nil {
		p.Location = time.Local
	}

	if dir := filepath.Dir(p.Path); p.Path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", p.Path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	s := &SQLite{
		db:         db,
		windowDays: p.WindowDays,
		dimension:  p.ShareDimension,
		layout:     p.DateLayout,
		loc:        p.Location,
		now:        p.Now,
	}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			country TEXT NOT NULL DEFAULT 'Unknown',
			browser TEXT NOT NULL DEFAULT 'Other',
			os TEXT NOT NULL DEFAULT 'Other',
			device TEXT NOT NULL DEFAULT 'Desktop',
			referrer TEXT NOT NULL DEFAULT 'Direct',
			timestamp TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_visits_timestamp ON visits(timestamp);
		CREATE INDEX IF NOT EXISTS idx_visits_path ON visits(path);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// currentSchemaVersion is the latest schema version. Increment when adding migrations.
const currentSchemaVersion = 1

func (s *SQLite) migrate() error {
	verStr, err := s.setting("schema_version")
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	version := 0
	if verStr != "" {
		version, err = strconv.Atoi(verStr)
		if err != nil {
			return fmt.Errorf("parse schema version %q: %w", verStr, err)
		}
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("schema version %d is newer than supported %d", version, currentSchemaVersion)
	}
	return s.setSetting("schema_version", strconv.Itoa(currentSchemaVersion))
}

func (s *SQLite) setting(key string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

func (s *SQLite) setSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// RecordVisit stores a page view.
func (s *SQLite) RecordVisit(ctx context.Context, v Visit) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO visits
		(path, country, browser, os, device, referrer, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.Path, orDefault(v.Country, "Unknown"), orDefault(v.Browser, "Other"),
		orDefault(v.OS, "Other"), orDefault(v.Device, "Desktop"), orDefault(v.Referrer, "Direct"),
		v.Timestamp.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}
	return nil
}

// window returns the start of the first day of a days-long window ending
// today and the start of tomorrow, both as instants in the store's zone.
func (s *SQLite) window(days int) (from, to time.Time) {
	t := s.now().In(s.loc)
	today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
	return today.AddDate(0, 0, -(days - 1)), today.AddDate(0, 0, 1)
}

// TimeSeries returns daily views, zero-filling days without visits. Visits are
// counted per UTC hour and the hours assigned to days in the store's zone.
func (s *SQLite) TimeSeries(ctx context.Context, windowDays int) ([]Point, error) {
	if windowDays < 0 {
		return nil, Unavailable("daily views", fmt.Errorf("negative window %d", windowDays))
	}
	from, to := s.window(windowDays)
	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(timestamp, 1, 13) AS hour, COUNT(*) AS views
		FROM visits
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY hour`,
		from.UTC().Format(timestampLayout), to.UTC().Format(timestampLayout))
	if err != nil {
		return nil, Unavailable("daily views", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var hour string
		var views int64
		if err := rows.Scan(&hour, &views); err != nil {
			return nil, Unavailable("daily views", err)
		}
		at, err := time.ParseInLocation("2006-01-02 15", hour, time.UTC)
		if err != nil {
			return nil, Unavailable("daily views", fmt.Errorf("parse hour %q: %w", hour, err))
		}
		counts[at.In(s.loc).Format(DefaultDateLayout)] += views
	}
	if err := rows.Err(); err != nil {
		return nil, Unavailable("daily views", err)
	}

	now := s.now()
	keys := dayLabels(now, s.loc, windowDays, DefaultDateLayout)
	labels := dayLabels(now, s.loc, windowDays, s.layout)
	pts := make([]Point, windowDays)
	for i := range pts {
		pts[i] = Point{Label: labels[i], Value: float64(counts[keys[i]])}
	}
	return pts, nil
}

// Ranked returns the most viewed paths within the store's window.
func (s *SQLite) Ranked(ctx context.Context, limit int) ([]Point, error) {
	if limit < 0 {
		return nil, Unavailable("top pages", fmt.Errorf("negative limit %d", limit))
	}
	from, to := s.window(s.windowDays)
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, COUNT(*) AS views
		FROM visits
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY path
		ORDER BY views DESC, path ASC
		LIMIT ?`,
		from.UTC().Format(timestampLayout), to.UTC().Format(timestampLayout), limit)
	if err != nil {
		return nil, Unavailable("top pages", err)
	}
	return scanPoints("top pages", rows)
}

// CategoricalShare breaks views within the window down by the configured dimension.
func (s *SQLite) CategoricalShare(ctx context.Context) ([]Point, error) {
	from, to := s.window(s.windowDays)
	// dimension is checked against ShareDimensions in OpenSQLite.
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+s.dimension+` AS name, COUNT(*) AS views
		FROM visits
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY name
		ORDER BY views DESC, name ASC`,
		from.UTC().Format(timestampLayout), to.UTC().Format(timestampLayout))
	if err != nil {
		return nil, Unavailable(s.dimension+" share", err)
	}
	return scanPoints(s.dimension+" share", rows)
}

func scanPoints(op string, rows *sql.Rows) ([]Point, error) {
	defer rows.Close()
	pts := []Point{}
	for rows.Next() {
		var label string
		var n int64
		if err := rows.Scan(&label, &n); err != nil {
			return nil, Unavailable(op, err)
		}
		pts = append(pts, Point{Label: label, Value: float64(n)})
	}
	if err := rows.Err(); err != nil {
		return nil, Unavailable(op, err)
	}
	return pts, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
