package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"certbot/config"
	_ "certbot/docs"
	"certbot/internal/adapters/auth"
	"certbot/internal/adapters/email"
	"certbot/internal/adapters/lock"
	"certbot/internal/adapters/pdf"
	"certbot/internal/adapters/ratelimit"
	"certbot/internal/adapters/templates"
	httpdelivery "certbot/internal/delivery/http"
	"certbot/internal/delivery/http/controllers"
	"certbot/internal/delivery/http/middleware"
	"certbot/internal/domain"
	"certbot/internal/metrics"
	"certbot/internal/repository/postgres"
	"certbot/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := postgres.Migrate(ctx, db, logger); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	locker, limiter, closeRedis, err := coordination(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRedis()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
		Resend: email.ResendConfig{APIKey: cfg.Email.ResendAPIKey},
	}, logger)
	if err != nil {
		return err
	}
	mailer = email.NewRetryingMailer(mailer, cfg.Email.RetryBackoff, logger, m)

	templateStore, err := templates.NewStore(templates.Config{
		Provider: cfg.Template.Provider,
		Dir:      cfg.Template.Dir,
		BaseURL:  cfg.Template.BaseURL,
		S3: templates.S3Config{
			Bucket:    cfg.Template.S3Bucket,
			Prefix:    cfg.Template.S3Prefix,
			Region:    cfg.Email.AWSRegion,
			AccessKey: cfg.Email.AWSAccessKeyID,
			SecretKey: cfg.Email.AWSSecretAccessKey,
			Endpoint:  cfg.Template.S3Endpoint,
			PathStyle: cfg.Template.S3PathStyle,
		},
	})
	if err != nil {
		return err
	}

	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)

	issuance := services.NewIssuanceService(services.IssuanceDeps{
		Events:       eventRepo,
		Participants: participantRepo,
		Templates:    templateStore,
		Renderer:     pdf.NewRenderer(logger, pdf.WithDateOffset(cfg.Render.DateOffset)),
		Email:        services.NewEmailService(mailer, email.NewTemplateRenderer(), logger),
		Locker:       locker,
		Metrics:      m,
		Logger:       logger,
	})

	routes := httpdelivery.RouterConfig{
		Logger:         logger,
		Webhook:        controllers.NewWebhookController(logger, issuance),
		Health:         controllers.NewHealthController(logger, postgres.NewStoreChecker(db)),
		MailWebhook:    controllers.NewMailWebhookController(logger),
		Limiter:        limiter,
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		AllowedOrigins: cfg.AllowedOrigins,
	}
	if cfg.JWTSecret != "" {
		routes.Events = controllers.NewEventController(logger, services.NewEventService(eventRepo, cfg.RequestTimeout))
		routes.Verifier = auth.NewJWT(cfg.JWTSecret)
	} else {
		logger.Warn("JWT_SECRET not set, admin API disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpdelivery.NewRouter(routes),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting certbot", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// coordination returns the submission locker and webhook rate limiter.
// Without REDIS_URL both are process-local, which is only correct for a single instance.
func coordination(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.SubmissionLocker, middleware.RateLimiter, func(), error) {
	var limiter middleware.RateLimiter
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, using in-memory lock and rate limiter")
		if cfg.RateLimitPerMinute > 0 {
			limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitPerMinute, ratelimit.DefaultWindow)
		}
		return lock.NewMemoryLocker(), limiter, func() {}, nil
	}

	client, err := lock.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.RateLimitPerMinute > 0 {
		limiter = ratelimit.NewRedisLimiter(client, cfg.RateLimitPerMinute, ratelimit.DefaultWindow)
	}
	closeFn := func() {
		if err := client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			logger.Warn("closing redis", "error", err)
		}
	}
	return lock.NewRedisLocker(client, cfg.LockTTL), limiter, closeFn, nil
}
