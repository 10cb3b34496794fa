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

	"github.com/Eursukkul/room-booking/config"
	"github.com/Eursukkul/room-booking/internal/auth"
	"github.com/Eursukkul/room-booking/internal/consumer"
	"github.com/Eursukkul/room-booking/internal/handler"
	"github.com/Eursukkul/room-booking/internal/middleware"
	"github.com/Eursukkul/room-booking/internal/repository"
	"github.com/Eursukkul/room-booking/internal/scheduler"
	"github.com/Eursukkul/room-booking/internal/service"
	"github.com/Eursukkul/room-booking/pkg/cache"
	"github.com/Eursukkul/room-booking/pkg/database"
	"github.com/Eursukkul/room-booking/pkg/rabbitmq"
	"github.com/Eursukkul/room-booking/pkg/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()
	loc := time.Local

	db := database.NewPostgresDB(cfg.DSN())

	// Repositories
	tx := repository.NewTransactor(db)
	sectorRepo := repository.NewSectorRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	userRepo := repository.NewUserRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// RabbitMQ: lifecycle events out, audit trail in. Both are optional.
	var publisher service.EventPublisher
	var auditDone <-chan struct{}
	var mqConsumer *rabbitmq.Consumer
	if cfg.RabbitURL != "" {
		mqPublisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Printf("RabbitMQ publisher unavailable, events disabled: %v", err)
		} else {
			defer mqPublisher.Close()
			publisher = mqPublisher
		}

		mqConsumer, err = rabbitmq.NewConsumer(cfg.RabbitURL, rabbitmq.AuditQueue, rabbitmq.AuditBinding)
		if err != nil {
			log.Printf("RabbitMQ consumer unavailable, audit trail disabled: %v", err)
		} else {
			msgs, err := mqConsumer.Consume()
			if err != nil {
				log.Fatalf("failed to start consuming: %v", err)
			}
			auditDone = consumer.NewAuditConsumer(auditRepo).Start(msgs)
		}
	}

	rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}

	// Services
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	userSvc := service.NewUserService(userRepo, issuer, cfg.BcryptCost)
	catalogSvc := service.NewCatalogService(tx, sectorRepo, spaceRepo)
	reservationSvc := service.NewReservationService(tx, spaceRepo, reservationRepo, publisher)
	reportSvc := service.NewReportService(sectorRepo, spaceRepo, reservationRepo)

	if err := userSvc.EnsureAdmin(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}

	// Daily report
	store := newReportStore(cfg)
	var sched *scheduler.Scheduler
	if cfg.ReportCron != "" {
		var err error
		sched, err = scheduler.Start(cfg.ReportCron, scheduler.NewDailyReportJob(reportSvc, store))
		if err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestIDWithConfig(echoMw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d %s rid=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "room-booking"})
	})

	apiLimit := middleware.RateLimitConfig{
		Enabled:  cfg.RateLimit.Enabled,
		Requests: cfg.RateLimit.Requests,
		Window:   cfg.RateLimit.Window,
		Prefix:   cfg.RateLimit.Prefix,
		Scope:    "api",
	}
	loginLimit := apiLimit
	loginLimit.Requests = cfg.RateLimit.LoginRequests
	loginLimit.Scope = "login"

	api := e.Group("/api/v1", middleware.RateLimit(apiLimit, rdb), middleware.JWTAuth(issuer, userSvc))

	handler.NewAuthHandler(userSvc).RegisterRoutes(e, api, middleware.RateLimit(loginLimit, rdb))
	handler.NewCatalogHandler(catalogSvc).RegisterRoutes(api)
	handler.NewReservationHandler(reservationSvc, catalogSvc, auditRepo, loc).RegisterRoutes(api)
	handler.NewCalendarHandler(reservationSvc, reportSvc, loc).RegisterRoutes(api)
	handler.NewReportHandler(reportSvc, loc).RegisterRoutes(api)

	go func() {
		log.Printf("Room Booking Service starting on :%s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if sched != nil {
		sched.Stop()
	}
	if mqConsumer != nil {
		mqConsumer.Close()
		if auditDone != nil {
			<-auditDone
		}
	}
}

func newReportStore(cfg *config.Config) storage.ReportStore {
	if cfg.Minio.Endpoint != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := storage.NewMinioStore(ctx, storage.MinioOptions{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err == nil {
			return store
		}
		log.Printf("[Storage] MinIO unavailable, falling back to %s: %v", cfg.ReportDir, err)
	}

	store, err := storage.NewLocalStore(cfg.ReportDir)
	if err != nil {
		log.Fatalf("failed to open report directory: %v", err)
	}
	return store
}
