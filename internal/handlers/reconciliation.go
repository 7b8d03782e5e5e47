package handlers

import (
	"log/slog"

	"ofo/internal/services/reconciliation"
	"ofo/internal/utils/pagination"
	"ofo/internal/utils/response"
	"ofo/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ReconciliationHandler is the operator queue for unresolved payments.
type ReconciliationHandler struct {
	base
	service reconciliation.Service
}

func NewReconciliationHandler(s reconciliation.Service, v *validation.RequestValidator, log *slog.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{base: base{validator: v, log: log}, service: s}
}

// List handles GET /admin/reconciliations?status=OPEN.
func (h *ReconciliationHandler) List(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	recs, total, err := h.service.List(c.UserContext(), c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return h.fail(c, "handlers.ListReconciliations", err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, recs))
}

// Resolve handles POST /admin/reconciliations/:id/resolve.
func (h *ReconciliationHandler) Resolve(c *fiber.Ctx) error {
	var req validation.ResolveReconciliationRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	rec, err := h.service.Resolve(c.UserContext(), c.Params("id"), req.Note)
	if err != nil {
		return h.fail(c, "handlers.ResolveReconciliation", err)
	}
	return response.Success(c, "reconciliation resolved", rec)
}
