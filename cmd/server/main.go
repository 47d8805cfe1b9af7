package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	complianceconfig "vigil/internal/compliance/config"
	"vigil/internal/compliance/handler"
	"vigil/internal/compliance/metrics"
	"vigil/internal/compliance/ports"
	"vigil/internal/compliance/service/ingest"
	"vigil/internal/compliance/service/intel"
	"vigil/internal/compliance/service/registry"
	auditlogstore "vigil/internal/compliance/store/auditlog"
	counterstore "vigil/internal/compliance/store/counter"
	entitystore "vigil/internal/compliance/store/entity"
	escalationstore "vigil/internal/compliance/store/escalation"
	oraclestore "vigil/internal/compliance/store/oracle"
	reportstore "vigil/internal/compliance/store/report"
	systemstore "vigil/internal/compliance/store/system"
	"vigil/internal/jwttoken"
	"vigil/internal/platform/clock"
	"vigil/internal/platform/config"
	"vigil/internal/platform/httpserver"
	"vigil/internal/platform/logger"
	platformredis "vigil/internal/platform/redis"
	"vigil/pkg/platform/audit"
	"vigil/pkg/platform/audit/worker"
	"vigil/pkg/platform/middleware/admin"
	"vigil/pkg/platform/middleware/auth"
	"vigil/pkg/platform/middleware/request"
)

// main wires stores, services, and the HTTP surface. Persistence backends
// are optional: with no Postgres/Redis/Kafka configured the engine runs
// fully in-memory, which is what the test and development setups use.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: in-memory by default, Postgres/Redis when configured.
	oracles := oraclestore.New()
	escalations := escalationstore.New()
	audits := auditlogstore.New()
	system := systemstore.New()

	var entities ports.EntityStore = entitystore.New()
	var reports ports.ReportStore = reportstore.New()
	if cfg.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		entityPG := entitystore.NewPostgres(pool)
		reportPG := reportstore.NewPostgres(pool)
		if err := entityPG.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure entity schema", "error", err)
			os.Exit(1)
		}
		if err := reportPG.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure report schema", "error", err)
			os.Exit(1)
		}
		entities = entityPG
		reports = reportPG
		log.Info("postgres stores enabled")
	}

	var counters ports.CounterStore = counterstore.New()
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		counters = counterstore.NewRedis(redisClient.Client)
		log.Info("redis counter store enabled")
	}

	// Trail publisher: Kafka when brokers are configured, otherwise an
	// in-memory store fed through the background worker channel.
	var publisher ports.AuditPublisher
	if cfg.KafkaBrokers != "" {
		kafkaPublisher, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, audit.WithKafkaLogger(log))
		if err != nil {
			log.Error("failed to build kafka publisher", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("kafka trail publisher enabled", "topic", cfg.KafkaTopic)
	} else {
		inbox := make(chan audit.Event, 256)
		trailWorker := worker.NewWorker(audit.NewMemoryStore(), inbox)
		go func() {
			if err := trailWorker.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error("trail worker stopped", "error", err)
			}
		}()
		publisher = audit.NewChannelPublisher(inbox)
	}

	m := metrics.New()
	logicalClock := clock.NewLogical(0)
	domainCfg := complianceconfig.Default()

	registrySvc, err := registry.New(oracles, entities, system, logicalClock, domainCfg,
		registry.WithLogger(log),
		registry.WithAuditPublisher(publisher),
	)
	if err != nil {
		log.Error("failed to build registry service", "error", err)
		os.Exit(1)
	}

	ingestSvc, err := ingest.New(ingest.Stores{
		Oracles:     oracles,
		Entities:    entities,
		Reports:     reports,
		Audits:      audits,
		Escalations: escalations,
		Counters:    counters,
		System:      system,
	}, logicalClock, domainCfg,
		ingest.WithLogger(log),
		ingest.WithAuditPublisher(publisher),
		ingest.WithMetrics(m),
	)
	if err != nil {
		log.Error("failed to build ingest service", "error", err)
		os.Exit(1)
	}

	intelSvc, err := intel.New(oracles, entities, logicalClock, domainCfg,
		intel.WithLogger(log),
		intel.WithAuditPublisher(publisher),
		intel.WithMetrics(m),
	)
	if err != nil {
		log.Error("failed to build intel service", "error", err)
		os.Exit(1)
	}

	jwtSvc := jwttoken.New(cfg.JWTSigningKey, "vigil")

	router := chi.NewRouter()
	router.Use(request.RequestID)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.Handler())

	h := handler.New(registrySvc, ingestSvc, intelSvc, log)
	h.Register(router,
		admin.RequireAdminToken(cfg.AdminToken, log),
		auth.RequireOracle(jwttoken.NewAuthenticator(jwtSvc), log),
	)

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting vigil", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
