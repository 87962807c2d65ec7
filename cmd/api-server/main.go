package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/itbasis/go-clock"
	"github.com/joho/godotenv"
	"github.com/kridavyuha/cricket-pools/internals/auth"
	"github.com/kridavyuha/cricket-pools/internals/leaderboard"
	"github.com/kridavyuha/cricket-pools/internals/ledger"
	"github.com/kridavyuha/cricket-pools/internals/metrics"
	"github.com/kridavyuha/cricket-pools/internals/profile"
	"github.com/kridavyuha/cricket-pools/internals/results"
	"github.com/kridavyuha/cricket-pools/pkg/conf"
	"github.com/kridavyuha/cricket-pools/pkg/kvstore"
	amqp "github.com/rabbitmq/amqp091-go"
)

type App struct {
	R           *chi.Mux
	Conf        *conf.Config
	KVStore     kvstore.KVStore
	Clock       clock.Clock
	Ledger      *ledger.Ledger
	Auth        *auth.AuthService
	Leaderboard *leaderboard.Leaderboard
	Profile     *profile.ProfileService
	Metrics     *metrics.LedgerMetrics
	Hub         *Hub
	joinLimiter *userLimiter
}

func main() {
	// .env is optional; real deployments set POOLS_* directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Error loading .env: %v", err)
	}

	cfg, err := conf.Load(".")
	failOnError(err, "Failed to load config")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeKV := initKVStore(ctx, cfg.Redis)
	defer closeKV()

	app, err := newApp(ctx, cfg, kv, clock.New())
	failOnError(err, "Failed to build app")

	syncer := app.initRefData(cfg.RefData, cfg.Postgres)
	if syncer != nil {
		if err := syncer.Sync(ctx); err != nil {
			log.Printf("Initial reference data sync failed: %v", err)
		}
		sched, err := syncer.Schedule(ctx, cfg.RefData.SyncInterval)
		failOnError(err, "Failed to schedule reference data sync")
		defer func() {
			if err := sched.Shutdown(); err != nil {
				log.Printf("Error stopping scheduler: %v", err)
			}
		}()
	}

	if cfg.AMQP.URL != "" {
		conn, err := amqp.Dial(cfg.AMQP.URL)
		failOnError(err, "Failed to connect to RabbitMQ")
		defer conn.Close()

		ch, err := conn.Channel()
		failOnError(err, "Failed to open a channel")
		defer ch.Close()

		msgs, err := results.Subscribe(ch, cfg.AMQP.Exchange)
		failOnError(err, "Failed to subscribe to match results")

		go results.NewConsumer(app.Ledger).Run(ctx, msgs)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app.R,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		app.Hub.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Listening on %s", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}
