package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"kudos/internal/admintoken"
	"kudos/internal/audit"
	"kudos/internal/award"
	awardhandler "kudos/internal/award/handler"
	awardmetrics "kudos/internal/award/metrics"
	"kudos/internal/balance"
	balancehandler "kudos/internal/balance/handler"
	"kudos/internal/events"
	"kudos/internal/ledger"
	"kudos/internal/platform/config"
	"kudos/internal/platform/httpserver"
	"kudos/internal/platform/logger"
	"kudos/internal/platform/metrics"
	platformredis "kudos/internal/platform/redis"
	"kudos/internal/reservation"
	"kudos/internal/submission"
	httptransport "kudos/internal/transport/http"
	"kudos/pkg/platform/tx"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal packages; anything here beyond construction and
// shutdown is a smell.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appMetrics := metrics.New()
	engineMetrics := awardmetrics.New()

	var (
		ledgerStore     ledger.Store
		submissionStore submission.Store
		auditStore      audit.Store
		runner          award.TxRunner
		health          []httptransport.HealthChecker
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			return
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping database", "error", err)
			return
		}
		ledgerStore = ledger.NewPostgres(db)
		submissionStore = submission.NewPostgres(db)
		auditStore = audit.NewPostgres(db)
		runner = tx.Runner(db)
		health = append(health, httptransport.HealthFunc(db.PingContext))
		log.Info("storage: postgres")
	} else {
		ledgerStore = ledger.NewInMemoryStore()
		submissionStore = submission.NewInMemoryStore()
		auditStore = audit.NewInMemoryStore()
		runner = award.SerialTxRunner()
		log.Info("storage: in-memory (KUDOS_DATABASE_URL not set)")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis", "error", err)
		return
	}
	var cache balance.Cache
	if redisClient != nil {
		defer redisClient.Close()
		cache = balance.NewRedisCache(redisClient.Client, cfg.BalanceCacheTTL, log)
		health = append(health, redisClient)
		log.Info("balance cache: redis")
	}

	var reservations reservation.Calculator = reservation.None
	if cfg.ReservationURL != "" {
		reservations = reservation.NewHTTPClient(cfg.ReservationURL, log)
	}

	balances := balance.NewService(ledgerStore, submissionStore, reservations, cache, log, appMetrics)

	inbox := make(chan audit.Event, 1024)
	auditor := audit.NewPublisher(inbox,
		audit.WithLogger(log),
		audit.WithDroppedCounter(appMetrics.AuditEventsDropped))
	auditWorker := audit.NewWorker(auditStore, inbox, log)

	engine := award.NewEngine(ledgerStore, submissionStore, award.DefaultRegistry(log), log,
		award.WithMetrics(engineMetrics),
		award.WithAuditor(auditor),
		award.WithInvalidator(balances),
		award.WithTxRunner(runner))

	dispatcher := events.NewDispatcher(engine, events.DefaultSubscriptions(), log)

	tokens := admintoken.NewService(cfg.AdminTokenKey)
	router := httptransport.NewRouter(httptransport.Deps{
		Award:          awardhandler.New(engine, dispatcher, log),
		Balance:        balancehandler.New(balances, log),
		TokenValidator: tokens,
		Logger:         log,
		Metrics:        appMetrics,
		Health:         health,
	})
	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return auditWorker.Run(ctx)
	})

	if len(cfg.Kafka.Brokers) > 0 {
		source, err := events.NewKafkaSource(cfg.Kafka, dispatcher, log)
		if err != nil {
			log.Error("kafka source", "error", err)
			return
		}
		group.Go(func() error {
			return source.Run(ctx)
		})
		log.Info("event source: kafka", "topic", cfg.Kafka.Topic)
	}

	group.Go(func() error {
		log.Info("starting kudos", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("shutdown", "error", err)
	}
}
