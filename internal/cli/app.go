package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	otelx "github.com/prolifichq/prolific/internal/adapters/otel"
	"github.com/prolifichq/prolific/internal/adapters/turso"
	"github.com/prolifichq/prolific/internal/config"
	"github.com/prolifichq/prolific/internal/domain"
	"github.com/prolifichq/prolific/internal/export"
	"github.com/prolifichq/prolific/internal/importer"
)

// app wires the shared dependencies every command needs.
type app struct {
	cfg      *config.Env
	rules    *config.Rules
	db       *turso.DB
	events   *turso.EventRepository
	coffee   *turso.CoffeeRepository
	blog     *turso.BlogRepository
	settings *turso.SettingsRepository
	legacy   *turso.LegacyRepository
	exporter *export.Exporter
	importer *importer.Importer
	metrics  otelx.Recorder
	loc      *time.Location
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, err
	}

	db, err := turso.NewDB(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := turso.InitSchema(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	var metrics otelx.Recorder
	exp, err := otelx.NewExporter(ctx, otelx.LoadConfig())
	if err != nil {
		metrics = otelx.NewNoOpRecorder()
	} else {
		metrics = exp
	}

	loc := time.Local
	a := &app{
		cfg:      cfg,
		rules:    rules,
		db:       db,
		events:   turso.NewEventRepository(db.DB, loc),
		coffee:   turso.NewCoffeeRepository(db.DB, loc),
		blog:     turso.NewBlogRepository(db.DB),
		settings: turso.NewSettingsRepository(db.DB),
		legacy:   turso.NewLegacyRepository(db.DB),
		metrics:  metrics,
		loc:      loc,
	}
	a.exporter = export.New(a.events, a.coffee, a.blog,
		func(ctx context.Context) ([]int64, error) {
			return turso.ListDayTimestamps(ctx, db.DB)
		}, cfg.RenderDir())
	a.importer = importer.New(cfg.LogDir, a.legacy, metrics)
	return a, nil
}

func (a *app) close(ctx context.Context) {
	_ = a.metrics.Close(ctx)
	_ = a.db.Close()
}

func nowUnix() int64 { return time.Now().Unix() }

// parseDayArg resolves a day argument to its 7 AM start timestamp.
// Accepted forms: empty or "today", "yesterday", "YYYY-MM-DD", or a raw
// unix timestamp anywhere inside the wanted day.
func parseDayArg(arg string, now time.Time, loc *time.Location) (int64, error) {
	switch arg {
	case "", "today":
		return domain.RewindTime(now.Unix(), loc), nil
	case "yesterday":
		return domain.RewindTime(now.Unix(), loc) - domain.DaySeconds, nil
	}

	if date, err := time.ParseInLocation("2006-01-02", arg, loc); err == nil {
		// Noon avoids the before-7AM rollback to the previous day.
		return domain.RewindTime(date.Add(12*time.Hour).Unix(), loc), nil
	}

	if unix, err := strconv.ParseInt(arg, 10, 64); err == nil && unix > 0 {
		return domain.RewindTime(unix, loc), nil
	}
	return 0, fmt.Errorf("invalid day %q: want today, yesterday, YYYY-MM-DD or a unix timestamp", arg)
}
