package handlers

import (
	"log/slog"

	"ofo/internal/models"
	"ofo/internal/services/transfer"
	"ofo/internal/utils/response"
	"ofo/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// TransferHandler exposes the money-moving endpoints.
type TransferHandler struct {
	base
	service transfer.Service
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(s transfer.Service, v *validation.RequestValidator, log *slog.Logger) *TransferHandler {
	return &TransferHandler{base: base{validator: v, log: log}, service: s}
}

// InquireUser handles POST /transaction/transfer/user/inquiry.
func (h *TransferHandler) InquireUser(c *fiber.Ctx) error {
	var req validation.TransferUserInquiryRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	receiver, err := h.service.InquireUser(c.UserContext(), userID(c), req.PhoneNumber)
	if err != nil {
		return h.fail(c, "handlers.InquireUser", err)
	}
	return response.Success(c, "receiver found", receiver)
}

// TransferToUser handles POST /transaction/transfer/user/confirm.
func (h *TransferHandler) TransferToUser(c *fiber.Ctx) error {
	var req validation.TransferUserConfirmRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	res, err := h.service.TransferToUser(c.UserContext(), transfer.UserTransfer{
		SenderID:      userID(c),
		ReceiverPhone: req.PhoneNumber,
		Amount:        req.Amount,
		Note:          req.Note,
	})
	if err != nil {
		return h.fail(c, "handlers.TransferToUser", err)
	}
	return response.Success(c, "transfer completed", res)
}

// InquireBank handles POST /transaction/transfer/bank/inquiry.
func (h *TransferHandler) InquireBank(c *fiber.Ctx) error {
	var req validation.BankInquiryRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	account, err := h.service.InquireBank(c.UserContext(), models.BankType(req.Bank), req.AccountNumber)
	if err != nil {
		return h.fail(c, "handlers.InquireBank", err)
	}
	return response.Success(c, "bank account found", account)
}

// TransferToBank handles POST /transaction/transfer/bank/confirm.
func (h *TransferHandler) TransferToBank(c *fiber.Ctx) error {
	var req validation.BankConfirmRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	res, err := h.service.TransferToBank(c.UserContext(), transfer.BankTransfer{
		SenderID:      userID(c),
		BankAccountID: req.BankAccountID,
		Amount:        req.Amount,
		Note:          req.Note,
	})
	if err != nil {
		return h.fail(c, "handlers.TransferToBank", err)
	}
	return response.Success(c, "transfer completed", res)
}

// TopUp handles POST /transaction/topup/instant.
func (h *TransferHandler) TopUp(c *fiber.Ctx) error {
	var req validation.TopUpRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	res, err := h.service.TopUp(c.UserContext(), transfer.TopUp{
		UserID:        userID(c),
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return h.fail(c, "handlers.TopUp", err)
	}
	return response.Success(c, "top up completed", res)
}
