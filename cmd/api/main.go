package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-scheduler/internal/db"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/archive"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/payment"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/jobs"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
	"github.com/BruksfildServices01/salon-scheduler/internal/observability"
	"github.com/BruksfildServices01/salon-scheduler/internal/routes"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

const serviceName = "salon-scheduler"

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger(serviceName, cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc := timezone.Location(cfg.SalonTimezone)
	clock := timezone.SalonClock(loc)

	// ======================================================
	// STORE
	// ======================================================
	repo, err := newRepository(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	// ======================================================
	// ADAPTERS
	// ======================================================
	var (
		slotCache ucAppointment.SlotCache
		publisher notify.Publisher = events.LogPublisher{}
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		slotCache = cache.NewSlotCache(rdb, cfg.SlotCacheTTL)
		publisher = events.NewRedisPublisher(rdb, cfg.NotifyChannel)
	}

	dispatcher := notify.NewDispatcher(publisher, cfg.NotifyQueue)
	defer dispatcher.Close()

	payments, err := newPayments(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure payments")
	}

	var archiver ucAppointment.Archiver
	if cfg.ArchiveBucket != "" {
		client := archive.NewS3Client(cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
		archiver = archive.NewS3Archiver(client, cfg.ArchiveBucket)
	}

	schedulingMetrics := metrics.NewSchedulingMetrics(prometheus.DefaultRegisterer)

	deps := ucAppointment.Dependencies{
		Repo:     repo,
		Clock:    clock,
		Location: loc,
		Payments: payments,
		Notifier: dispatcher,
		Cache:    slotCache,
		Archive:  archiver,
		Metrics:  schedulingMetrics,
		Recorder: audit.New(),
		Deposit: ucAppointment.DepositPolicy{
			Required: cfg.DepositRequired,
			Percent:  cfg.DepositPercent,
		},
	}

	// ======================================================
	// JOBS
	// ======================================================
	reminders := &jobs.Reminders{
		Repo:     repo,
		Notifier: dispatcher,
		Clock:    clock,
		Metrics:  schedulingMetrics,
		Lead:     cfg.ReminderLead,
		Window:   cfg.ReminderWindow,
	}
	scheduler, err := reminders.Start(cfg.ReminderSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start reminder job")
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, cfg, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("store", cfg.StoreDriver).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newRepository(cfg *config.Config) (domain.Repository, error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return memory.NewStore(cfg.ReservationLockTimeout), nil
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, err
	}
	return repository.NewScheduleGormRepository(db, cfg.ReservationLockTimeout), nil
}

// newPayments picks Mercado Pago when a token is set. Outside production
// the offline gateway stands in; in production no token means deposits
// cannot be captured.
func newPayments(cfg *config.Config) (domain.PaymentGateway, error) {
	if cfg.MercadoPagoAccessToken != "" {
		return payment.NewMercadoPago(cfg.MercadoPagoAccessToken)
	}
	if !cfg.IsProduction() {
		log.Warn().Msg("MERCADOPAGO_ACCESS_TOKEN not set, using offline payments")
		return payment.Offline{}, nil
	}
	return nil, nil
}
