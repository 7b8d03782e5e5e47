// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"net/http"

	"ofo/internal/handlers"
	"ofo/internal/middleware"
	"ofo/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// Handlers is everything SetupRoutes mounts.
type Handlers struct {
	Auth           *middleware.AuthMiddleware
	Idempotency    fiber.Handler
	Health         *handlers.HealthHandler
	Transfer       *handlers.TransferHandler
	Bill           *handlers.BillHandler
	Account        *handlers.AccountHandler
	Reconciliation *handlers.ReconciliationHandler
	Metrics        http.Handler
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/health", h.Health.HealthCheck)
	if h.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.Metrics))
	}

	api := app.Group("/api")

	v1 := api.Group("/v1", h.Auth.Handler)
	setupAccountRoutes(v1, h)
	setupTransactionRoutes(v1.Group("/transaction"), h)

	admin := api.Group("/admin", h.Auth.Handler, middleware.AdminAuthMiddleware)
	setupAdminRoutes(admin, h)
}

func setupAccountRoutes(router fiber.Router, h Handlers) {
	read := middleware.HasPermission(models.PermissionLedgerRead)

	router.Get("/account", read, h.Account.GetAccount)
	router.Get("/account/statement", read, h.Account.Statement)
	router.Post("/account/devices", middleware.HasPermission(models.PermissionLedgerWrite), h.Account.RegisterDevice)
}

func setupTransactionRoutes(router fiber.Router, h Handlers) {
	read := middleware.HasPermission(models.PermissionLedgerRead)
	write := middleware.HasPermission(models.PermissionLedgerWrite)

	// Money-moving routes replay their first response for a repeated key.
	moving := func(handler fiber.Handler) []fiber.Handler {
		if h.Idempotency == nil {
			return []fiber.Handler{write, handler}
		}
		return []fiber.Handler{write, h.Idempotency, handler}
	}

	router.Get("/history", read, h.Account.History)

	router.Post("/transfer/user/inquiry", read, h.Transfer.InquireUser)
	router.Post("/transfer/user/confirm", moving(h.Transfer.TransferToUser)...)

	router.Post("/transfer/bank/inquiry", read, h.Transfer.InquireBank)
	router.Post("/transfer/bank/confirm", moving(h.Transfer.TransferToBank)...)

	router.Post("/topup/instant", moving(h.Transfer.TopUp)...)

	router.Post("/payment/pln/:service/inquiry", read, h.Bill.Inquiry)
	router.Post("/payment/pln/:service/confirm", moving(h.Bill.Confirm)...)
}

func setupAdminRoutes(router fiber.Router, h Handlers) {
	router.Get("/reconciliations", middleware.HasPermission(models.PermissionReconciliationRead), h.Reconciliation.List)
	router.Post("/reconciliations/:id/resolve", middleware.HasPermission(models.PermissionReconciliationWrite), h.Reconciliation.Resolve)
}
