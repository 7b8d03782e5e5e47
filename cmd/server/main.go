// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ofo/internal/config"
	"ofo/internal/handlers"
	"ofo/internal/lib/logger/sl"
	"ofo/internal/metrics"
	"ofo/internal/middleware"
	"ofo/internal/models"
	"ofo/internal/repositories"
	"ofo/internal/routes"
	"ofo/internal/services/bank"
	"ofo/internal/services/billing"
	"ofo/internal/services/funding"
	"ofo/internal/services/notification"
	"ofo/internal/services/reconciliation"
	"ofo/internal/services/statement"
	"ofo/internal/services/transfer"
	"ofo/internal/utils/response"
	"ofo/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Initializes database and cache connections
// - Sets up dependency injection
// - Configures routes
// - Starts the HTTP server and drains it on shutdown
func main() {
	config.LoadEnv()
	log := sl.Setup(config.Env(), os.Stdout)
	slog.SetDefault(log)

	db, err := repositories.InitDB(repositories.LoadDBConfig())
	if err != nil {
		log.Error("failed to initialize database", sl.Err(err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("failed to get database instance", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Warn("failed to close database connection", sl.Err(err))
		}
	}()

	cacheService := repositories.InitCache(context.Background(), log)
	defer func() {
		if err := cacheService.Close(); err != nil {
			log.Warn("failed to close cache", sl.Err(err))
		}
	}()

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	// Repositories
	userRepo := repositories.NewUserRepository(db, cacheService, log)
	ledgerRepo := repositories.NewLedgerRepository(db)
	reconRepo := repositories.NewReconciliationRepository(db)

	// External clients
	gatewayCfg := config.LoadGateway()
	gateway := billing.NewClient(gatewayCfg, nil, log)
	resolver := bank.NewHTTPResolver(gatewayCfg.BankLookupURL, &http.Client{Timeout: gatewayCfg.Timeout})
	fundingSource := newFundingSource(log)

	// Notifications
	pushCfg := config.LoadPush()
	var publisher notification.BalancePublisher
	if pusherCfg := config.LoadPusher(); pusherCfg.Enabled {
		publisher = notification.NewPusherPublisher(pusherCfg)
	}
	notifier := notification.NewService(
		notification.NewOneSignal(pushCfg, nil),
		publisher,
		userRepo,
		collector,
		log,
		notification.Config{Timeout: pushCfg.Timeout},
	)

	// Services
	reconService := reconciliation.NewService(reconRepo, collector, log)
	transferService := transfer.NewService(transfer.Dependencies{
		Ledger:        ledgerRepo,
		Users:         userRepo,
		Gateway:       gateway,
		Banks:         resolver,
		Funding:       fundingSource,
		Reconciler:    reconService,
		Notifications: notifier,
		Cache:         cacheService,
		Metrics:       collector,
		Log:           log,
	}, config.LoadLedger())
	statementService := statement.NewService(ledgerRepo)

	v := validation.New()

	app := fiber.New(fiber.Config{
		AppName:      "ofo",
		ReadTimeout:  config.GetDurationEnv("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: config.GetDurationEnv("HTTP_WRITE_TIMEOUT", 30*time.Second),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return response.Error(c, fe.Code, fe.Message)
			}
			log.Error("unhandled error", sl.String("path", c.Path()), sl.Err(err))
			return response.ServerError(c, "internal server error")
		},
	})

	app.Use(recover.New())

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.HeaderIdempotencyKey,
		AllowMethods: "GET,POST,HEAD",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/v1/transaction", limiter.New(limiter.Config{
		Max:        config.GetIntEnv("RATE_LIMIT_PER_MINUTE", 30),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, routes.Handlers{
		Auth:           middleware.NewAuthMiddleware(userRepo, log),
		Idempotency:    middleware.Idempotency(cacheService, log),
		Health:         handlers.NewHealthHandler(sqlDB, cacheService),
		Transfer:       handlers.NewTransferHandler(transferService, v, log),
		Bill:           handlers.NewBillHandler(transferService, v, log),
		Account:        handlers.NewAccountHandler(transferService, statementService, userRepo, v, log),
		Reconciliation: handlers.NewReconciliationHandler(reconService, v, log),
		Metrics:        promhttp.Handler(),
	})

	go func() {
		addr := ":" + config.GetEnv("PORT", "3000")
		log.Info("starting server", sl.String("addr", addr), sl.String("env", config.Env()))
		if err := app.Listen(addr); err != nil {
			log.Error("server stopped", sl.Err(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(config.GetDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second)); err != nil {
		log.Error("graceful shutdown failed", sl.Err(err))
	}
	notifier.Wait()
}

// newFundingSource uses Stripe when a secret key is configured and the
// instant source otherwise.
func newFundingSource(log *slog.Logger) funding.Source {
	fcfg := config.LoadFunding()
	settlement := models.BankAccount{
		Bank:          models.BankType(fcfg.Bank),
		AccountNumber: fcfg.AccountNumber,
		Name:          fcfg.Name,
	}

	if scfg := config.LoadStripe(); scfg.SecretKey != "" {
		log.Info("top-ups funded by stripe")
		return funding.NewStripeSource(scfg.SecretKey, scfg.PaymentMethod, settlement)
	}
	log.Info("top-ups funded by instant source")
	return funding.NewInstantSource(settlement.Bank, settlement.AccountNumber, settlement.Name)
}
