package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/md-rashed-zaman/bayslots/libs/auth"
	"github.com/md-rashed-zaman/bayslots/libs/cache"
	"github.com/md-rashed-zaman/bayslots/libs/config"
	"github.com/md-rashed-zaman/bayslots/libs/db"
	"github.com/md-rashed-zaman/bayslots/libs/httpx"
	"github.com/md-rashed-zaman/bayslots/libs/kafkax"
	otelx "github.com/md-rashed-zaman/bayslots/libs/otel"
	"github.com/md-rashed-zaman/bayslots/libs/runtime"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/availability"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/consumer"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/handlers"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/inbox"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/metrics"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/schedule"
	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/storage"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "availability-service")
	port, err := config.Port("PORT", "8085")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLoggerWithLevel(service, config.String("LOG_LEVEL", "info"))

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	loc, err := config.Location("BUSINESS_TIMEZONE", "UTC")
	if err != nil {
		panic(err)
	}
	bays, err := config.Int("DEFAULT_BAY_COUNT", availability.DefaultBayCount)
	if err != nil {
		panic(err)
	}
	buffer, err := config.Int("DEFAULT_BUFFER_MINUTES", availability.DefaultBufferMinutes)
	if err != nil {
		panic(err)
	}
	jobPolicy, err := availability.ParseJobPolicy(config.String("UNSCHEDULED_JOB_POLICY", "placeholder"))
	if err != nil {
		panic(err)
	}
	ratePerMinute, err := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		panic(err)
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	maxConns, err := config.Int("DB_MAX_CONNS", 10)
	if err != nil {
		panic(err)
	}
	pool, err := db.OpenWithOptions(ctx, dbURL, db.PoolOptions{MaxConns: int32(maxConns)})
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	rdb, err := cache.Open(ctx, cache.Config{
		Addr:     config.String("REDIS_ADDR", ""),
		Password: config.String("REDIS_PASSWORD", ""),
	})
	if err != nil {
		logger.Error("redis connection failed", "err", err)
		panic(err)
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	commitments := storage.NewCommitmentRepository(pool)
	schedules := storage.NewScheduleRepository(pool)
	evaluator := availability.NewEvaluator(commitments, availability.Config{
		Schedule:  schedule.Default(),
		Schedules: schedules,
		Location:  loc,
		JobPolicy: jobPolicy,
		Defaults:  &availability.QueryDefaults{BayCount: bays, BufferMinutes: buffer},
		Logger:    logger,
	})
	logger.Info("availability configured",
		"timezone", loc.String(),
		"bay_count", bays,
		"buffer_minutes", buffer,
		"unscheduled_jobs", jobPolicy.String(),
	)

	brokers := config.String("KAFKA_BROKERS", "")
	if strings.TrimSpace(brokers) != "" {
		hoursConsumer := consumer.New(logger, inbox.NewRepository(pool), consumer.Config{
			Brokers: brokers,
			GroupID: config.String("KAFKA_GROUP_ID", service),
			Topic:   config.String("KAFKA_HOURS_TOPIC", "business.hours.updated.v1"),
		}, consumer.NewBusinessHoursHandler(schedules, logger))
		go hoursConsumer.Run(ctx)
	} else {
		logger.Info("KAFKA_BROKERS not set; business hours consumer disabled")
	}

	var limiter httpx.Limiter
	if ratePerMinute > 0 {
		if rdb != nil {
			limiter = httpx.NewRedisRateLimiter(rdb, ratePerMinute, time.Minute, service)
		} else {
			limiter = httpx.NewRateLimiter(ratePerMinute, time.Minute)
		}
	}

	m := metrics.New()
	availabilityHandler := handlers.NewAvailabilityHandler(evaluator, m, logger)
	hoursHandler := handlers.NewBusinessHoursHandler(schedules, evaluator.DefaultSchedule(), logger)

	verifier := &auth.Verifier{Secret: config.String("JWT_SECRET", "")}
	if jwksURL := config.String("JWKS_URL", ""); jwksURL != "" {
		jwksTTL, err := config.Int("JWKS_TTL_SECONDS", 300)
		if err != nil {
			panic(err)
		}
		verifier.JWKS = auth.NewJWKSClient(jwksURL, time.Duration(jwksTTL)*time.Second)
	}
	var hoursRoute http.Handler = hoursHandler
	if verifier.Enabled() {
		hoursRoute = auth.Require(verifier, "owner", "admin")(hoursHandler)
	} else {
		logger.Warn("JWT_SECRET and JWKS_URL not set; business hours endpoint is unauthenticated")
	}

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "redis", Check: cache.ReadyCheck(rdb)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)},
	)
	registerRoutes(mux, m, httpx.RateLimit(limiter, logger, true), availabilityHandler, hoursRoute)

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.PublicWidgetCORS(config.List("CORS_ALLOWED_ORIGINS"))),
		httpx.WithBodyLimit(64<<10),
		httpx.WithTimeout(10*time.Second),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "availability")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
