package handlers

import (
	"log/slog"

	"ofo/internal/models"
	"ofo/internal/services/transfer"
	"ofo/internal/utils/response"
	"ofo/internal/validation"

	"github.com/gofiber/fiber/v2"
)

var billServices = map[string]models.PaymentService{
	"prepaid":  models.ServicePLNPrepaid,
	"postpaid": models.ServicePLNPostpaid,
}

type BillHandler struct {
	base
	service transfer.Service
}

func NewBillHandler(s transfer.Service, v *validation.RequestValidator, log *slog.Logger) *BillHandler {
	return &BillHandler{base: base{validator: v, log: log}, service: s}
}

func (h *BillHandler) paymentService(c *fiber.Ctx) (models.PaymentService, bool) {
	s, ok := billServices[c.Params("service")]
	return s, ok
}

// Inquiry handles POST /transaction/payment/pln/:service/inquiry.
func (h *BillHandler) Inquiry(c *fiber.Ctx) error {
	service, ok := h.paymentService(c)
	if !ok {
		return response.Error(c, fiber.StatusNotFound, "unknown payment service")
	}

	var req validation.BillInquiryRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	inquiry, err := h.service.InquireBill(c.UserContext(), service, req.AccountRef)
	if err != nil {
		return h.fail(c, "handlers.BillInquiry", err)
	}
	return response.Success(c, "bill found", inquiry)
}

// Confirm handles POST /transaction/payment/pln/:service/confirm.
func (h *BillHandler) Confirm(c *fiber.Ctx) error {
	service, ok := h.paymentService(c)
	if !ok {
		return response.Error(c, fiber.StatusNotFound, "unknown payment service")
	}

	var req validation.BillConfirmRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	res, err := h.service.ConfirmBill(c.UserContext(), transfer.BillPayment{
		UserID:     userID(c),
		Service:    service,
		AccountRef: req.AccountRef,
		WalletType: models.WalletType(req.WalletType),
		Amount:     req.Amount,
	})
	if err != nil {
		return h.fail(c, "handlers.BillConfirm", err)
	}
	return response.Success(c, "payment completed", res)
}
