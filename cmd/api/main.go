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

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/config"
	"github.com/sangkips/billing-api/internal/domain/billing"
	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/internal/infrastructure/database"
	"github.com/sangkips/billing-api/internal/infrastructure/memory"
	"github.com/sangkips/billing-api/internal/infrastructure/repository"
	"github.com/sangkips/billing-api/internal/presentation/http/handler"
	"github.com/sangkips/billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/billing-api/internal/presentation/http/routes"
	"github.com/sangkips/billing-api/pkg/logger"
	"github.com/sangkips/billing-api/pkg/printer"
	"github.com/sangkips/billing-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, err := openRepositories(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.App.Name)

	rules := billing.NewRuleSet(
		billing.NewThresholdRule("AUTO-001", cfg.Billing.AutoDiscountThreshold, cfg.Billing.AutoDiscountPercent),
	)

	// Initialize services
	authService := service.NewAuthService(repos.Staff, jwtManager, zlog)
	billingService := service.NewBillingService(service.NewWorkspaceRegistry(), repos, rules, service.BillingOptions{
		StoreID:             cfg.Store.ID,
		CollaboratorTimeout: cfg.Billing.CollaboratorTimeout,
	}, zlog)
	savedCartService := service.NewSavedCartService(billingService, repos, cfg.Billing.SavedCartTTL, zlog)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		zlog.Warn("failed to initialize printer, receipts will not print", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	defer func() { _ = thermalPrinter.Close() }()

	receiptService := service.NewReceiptService(thermalPrinter, repos.Invoices, service.ReceiptOptions{
		Header:      receiptHeader(cfg),
		PrinterType: cfg.Printer.Type,
		Width:       cfg.Printer.Width,
	}, zlog)

	// Background jobs
	scheduler := cron.New()
	if err := savedCartService.ScheduleExpirySweep(scheduler, cfg.Billing.SweepSchedule); err != nil {
		zlog.Fatal("invalid saved cart sweep schedule", zap.String("schedule", cfg.Billing.SweepSchedule), zap.Error(err))
	}
	if _, err := scheduler.AddFunc("@hourly", func() {
		if err := repos.Idempotency.DeleteExpired(context.Background(), time.Now()); err != nil {
			zlog.Error("idempotency key cleanup failed", zap.Error(err))
		}
	}); err != nil {
		zlog.Fatal("failed to schedule idempotency cleanup", zap.Error(err))
	}
	scheduler.Start()

	rateLimiter := middleware.NewStaffRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Stop()

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Cart:      handler.NewCartHandler(billingService),
		Checkout:  handler.NewCheckoutHandler(billingService),
		SavedCart: handler.NewSavedCartHandler(savedCartService),
		Invoice:   handler.NewInvoiceHandler(billingService, receiptService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repos.Idempotency,
		RateLimiter:     rateLimiter,
		Log:             zlog,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("store", cfg.Store.ID),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down")

	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openRepositories wires either the fixture-seeded memory store or Postgres
func openRepositories(cfg *config.Config, zlog *zap.Logger) (*domainRepo.Repositories, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := database.NewPostgresDB(&cfg.Database, zlog)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db, zlog); err != nil {
			return nil, err
		}
		if err := database.SeedDefaultData(db, cfg.Store.ID, zlog); err != nil {
			zlog.Warn("failed to seed default data", zap.Error(err))
		}
		return repository.NewRepositories(db), nil
	default:
		return memory.NewSeeded(cfg.Store.ID, time.Now(), zlog)
	}
}

func receiptHeader(cfg *config.Config) entity.ReceiptHeader {
	return entity.ReceiptHeader{
		StoreName: cfg.Store.Name,
		StoreID:   cfg.Store.ID,
		Address:   cfg.Store.Address,
		Phone:     cfg.Store.Phone,
		TaxID:     cfg.Store.TaxID,
	}
}
