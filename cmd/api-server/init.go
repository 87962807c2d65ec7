package main

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/itbasis/go-clock"
	"github.com/kridavyuha/cricket-pools/db"
	"github.com/kridavyuha/cricket-pools/internals/auth"
	"github.com/kridavyuha/cricket-pools/internals/leaderboard"
	"github.com/kridavyuha/cricket-pools/internals/ledger"
	"github.com/kridavyuha/cricket-pools/internals/metrics"
	"github.com/kridavyuha/cricket-pools/internals/profile"
	"github.com/kridavyuha/cricket-pools/internals/refdata"
	"github.com/kridavyuha/cricket-pools/pkg/conf"
	"github.com/kridavyuha/cricket-pools/pkg/kvstore"
	"github.com/rs/cors"
)

func failOnError(err error, msg string) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}

// newApp wires the ledger and its services onto a router. It does not touch
// the network beyond kv.
func newApp(ctx context.Context, cfg *conf.Config, kv kvstore.KVStore, clk clock.Clock) (*App, error) {
	m := metrics.New()
	hub := NewHub()

	l, err := ledger.New(ctx, kv, clk,
		ledger.WithSlot(cfg.Ledger.Slot),
		ledger.WithMetrics(m),
		ledger.WithNotificationSink(hub),
	)
	if err != nil {
		return nil, err
	}

	app := &App{
		R:           chi.NewRouter(),
		Conf:        cfg,
		KVStore:     kv,
		Clock:       clk,
		Ledger:      l,
		Auth:        auth.New(kv, l, clk, cfg.Auth.Secret, cfg.Auth.TokenTTL, cfg.Auth.Admins),
		Leaderboard: leaderboard.New(l),
		Profile:     profile.New(l),
		Metrics:     m,
		Hub:         hub,
		joinLimiter: newUserLimiter(cfg.Server.JoinRatePerMinute),
	}

	// CORS middleware configuration
	app.R.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)

	app.initHandlers()
	return app, nil
}

// initKVStore connects to redis when an address is configured and falls back
// to an embedded redis otherwise.
func initKVStore(ctx context.Context, cfg conf.Redis) (kvstore.KVStore, func()) {
	var (
		r   *kvstore.Redis
		err error
	)
	if cfg.Addr == "" {
		log.Printf("No redis address configured, using embedded redis")
		r, err = kvstore.NewEmbedded(ctx)
	} else {
		r, err = kvstore.NewRedis(ctx, cfg.Addr, cfg.Password, cfg.DB)
	}
	failOnError(err, "Failed to connect to redis")
	return r, func() {
		if err := r.Close(); err != nil {
			log.Printf("Error closing redis: %v", err)
		}
	}
}

// initRefData picks postgres over the seed file. It returns nil when neither
// is configured.
func (app *App) initRefData(cfg conf.RefData, pg conf.Postgres) *refdata.Syncer {
	if pg.DSN != "" {
		gdb, err := db.SetupDB(pg.DSN)
		failOnError(err, "Failed to connect to postgres")
		return refdata.NewSyncer(refdata.NewGormSource(gdb), app.Ledger)
	}
	if cfg.SeedFile != "" {
		src, err := refdata.NewFileSource(cfg.SeedFile)
		failOnError(err, "Failed to load seed file")
		return refdata.NewSyncer(src, app.Ledger)
	}
	log.Printf("No reference data source configured")
	return nil
}
