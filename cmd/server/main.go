package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"

	"github.com/iliyamo/dance-studio-admin/internal/config"
	"github.com/iliyamo/dance-studio-admin/internal/database"
	"github.com/iliyamo/dance-studio-admin/internal/handler"
	"github.com/iliyamo/dance-studio-admin/internal/idgen"
	"github.com/iliyamo/dance-studio-admin/internal/jobs"
	"github.com/iliyamo/dance-studio-admin/internal/logger"
	"github.com/iliyamo/dance-studio-admin/internal/middleware"
	"github.com/iliyamo/dance-studio-admin/internal/model"
	"github.com/iliyamo/dance-studio-admin/internal/queue"
	"github.com/iliyamo/dance-studio-admin/internal/repository"
	"github.com/iliyamo/dance-studio-admin/internal/router"
	"github.com/iliyamo/dance-studio-admin/internal/schedule"
	"github.com/iliyamo/dance-studio-admin/internal/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.LogError("load config", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel)

	if err := run(cfg); err != nil {
		logger.LogError("server stopped", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Integrations.APIKey == "" {
		logger.LogWarn("API_KEY is not set; remote integrations stay disabled")
	}

	window, err := schedule.NewWindow(cfg.ScheduleStart, cfg.ScheduleEnd)
	if err != nil {
		return err
	}

	initial := state.State{
		Students:    []model.Student{},
		Instructors: []model.Instructor{},
		Classes:     []model.DanceClass{},
		Payments:    []model.Payment{},
	}
	if cfg.SeedEnabled {
		if initial, err = state.Seed(); err != nil {
			return err
		}
	}
	store := state.NewStore(initial, idgen.UUID{}, cfg.Location)

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.AMQPURL != "" {
		events = queue.NewAMQPPublisher(cfg.AMQPURL)
		consumer := queue.NewActivityConsumer(cfg.AMQPURL, cfg.ActivityLog)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.LogError("activity consumer stopped", err)
			}
		}()
	} else {
		logger.LogInfo("RABBITMQ_URL not set; studio events are dropped")
	}

	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		logger.LogWarn("redis unavailable; rate limiting and caching disabled", "error", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomw.Recover())

	health := &handler.HealthHandler{Checks: map[string]handler.Pinger{}}
	if rdb != nil {
		health.Checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()
	limit := middleware.NewTokenBucket(rlCfg, rdb)

	opts := router.StudioOptions{
		RateLimit:  limit,
		Cache:      middleware.NewRedisCache(cacheCfg, rdb),
		Invalidate: middleware.InvalidateOnWrite(cacheCfg, rdb),
	}

	if cfg.AuthEnabled() {
		db, err := openAccounts(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		health.Checks["mysql"] = db.PingContext

		auth := handler.NewAuthHandler(cfg, repository.NewAdminRepo(db), repository.NewSessionRepo(db))
		router.RegisterAuth(e, auth, cfg.JWTSecret, limit)
		opts.JWTSecret = cfg.JWTSecret
	} else {
		logger.LogWarn("DB_HOST not set; the API runs without authentication")
	}

	router.RegisterRoutes(e, health)
	router.RegisterStudio(e, handler.NewStudioHandler(store, events, window), opts)

	cr, err := jobs.StartScheduler(cfg.RosterCron, cfg.Location, &jobs.RosterJob{Store: store, Publisher: events})
	if err != nil {
		return err
	}
	defer func() { <-cr.Stop().Done() }()

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", echo.HeaderXRequestID},
		ExposedHeaders: []string{echo.HeaderContentDisposition, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         600,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(e),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.LogInfo("listening", "addr", srv.Addr, "env", cfg.Env, "auth", cfg.AuthEnabled(), "tz", cfg.Location.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.LogInfo("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openAccounts connects to MySQL, creates the account tables and the
// bootstrap owner account when ADMIN_EMAIL and ADMIN_PASSWORD are set.
func openAccounts(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, err
	}
	setupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := database.EnsureSchema(setupCtx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := repository.NewAdminRepo(db).EnsureOwner(setupCtx, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if created {
			logger.LogInfo("created owner account", "email", cfg.AdminEmail)
		}
	}
	return db, nil
}
