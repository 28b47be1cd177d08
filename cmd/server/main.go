package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"shoppos/internal/config"
	"shoppos/internal/infra"
	"shoppos/internal/middleware"
	"shoppos/internal/repository"
	"shoppos/internal/router"
	"shoppos/internal/service"
	"shoppos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// drainDelay is how long a replaced connection pool stays open for requests
// that were already in flight.
const drainDelay = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	store := infra.NewConnectionStore(cfg.ConnectionOverridePath)
	dsn, source, err := store.Resolve(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read connection override")
	}
	log.Info().Str("source", source).Str("database_url", infra.MaskDSN(dsn)).Msg("database connection resolved")

	limiters, err := middleware.NewLimiters(cfg.RateLimit, cfg.LoginRateLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid rate limit")
	}

	a := &app{cfg: cfg, rdb: rdb, mailer: infra.NewMailer(cfg), limiters: limiters}
	a.setup = service.NewSetupService(store, cfg.DatabaseURL, infra.PingDSN, a.reload)
	if err := a.reload(dsn); err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      a,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("ShopPOS backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	a.stop()
	log.Info().Msg("server exited")
}

// ── Reloadable application ───────────────────────────────────────────────────
// A generation owns one connection pool, the router built on it, and the
// background workers reading from it. Switching the database connection from
// the setup page builds a new generation and swaps it in atomically.

type generation struct {
	db     *gorm.DB
	engine *gin.Engine
	cancel context.CancelFunc
}

type app struct {
	cfg      *config.Config
	rdb      *redis.Client
	mailer   *infra.Mailer
	setup    service.SetupService
	limiters middleware.Limiters

	mu      sync.Mutex // serializes reloads
	current atomic.Pointer[generation]
}

func (a *app) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.current.Load().engine.ServeHTTP(w, r)
}

// reload connects to dsn, applies the schema, and replaces the running
// generation. On error the running generation is left untouched.
func (a *app) reload(dsn string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	db, err := infra.NewDatabase(dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	engine, err := router.New(router.Deps{
		Config:   a.cfg,
		Redis:    a.rdb,
		Mailer:   a.mailer,
		Setup:    a.setup,
		Limiters: a.limiters,
	}, db)
	if err != nil {
		_ = infra.CloseDatabase(db)
		return fmt.Errorf("router: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.startBackground(ctx, db)

	old := a.current.Swap(&generation{db: db, engine: engine, cancel: cancel})
	if old != nil {
		old.cancel()
		go func() {
			time.Sleep(drainDelay)
			if err := infra.CloseDatabase(old.db); err != nil {
				log.Warn().Err(err).Msg("closing replaced database pool")
			}
		}()
		log.Info().Str("database_url", infra.MaskDSN(dsn)).Msg("database connection reloaded")
	}
	return nil
}

// startBackground runs the job workers and the ledger reconciliation cron
// until ctx is cancelled.
func (a *app) startBackground(ctx context.Context, db *gorm.DB) {
	dispatcher := worker.NewDispatcher(a.rdb)
	handlers := worker.Handlers{
		worker.JobReceipt: worker.NewReceiptWorker(
			repository.NewSaleRepository(db),
			repository.NewSettingsRepository(db),
			dispatcher,
			a.cfg.ReceiptStoragePath,
		),
		worker.JobEmail: worker.NewEmailWorker(a.mailer),
	}
	worker.StartWorkerPool(ctx, a.rdb, handlers, a.cfg.WorkerPoolSize)

	if a.cfg.ReconcileIntervalMinutes > 0 {
		customers := service.NewCustomerService(repository.NewCustomerRepository(db))
		worker.StartReconcileCron(ctx, customers, time.Duration(a.cfg.ReconcileIntervalMinutes)*time.Minute)
	}
}

func (a *app) stop() {
	if g := a.current.Load(); g != nil {
		g.cancel()
		if err := infra.CloseDatabase(g.db); err != nil {
			log.Warn().Err(err).Msg("closing database")
		}
	}
	if err := a.rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("closing redis")
	}
}
