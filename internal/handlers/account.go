package handlers

import (
	"context"
	"log/slog"

	appErrors "ofo/internal/errors"
	"ofo/internal/models"
	"ofo/internal/services/statement"
	"ofo/internal/services/transfer"
	"ofo/internal/utils/pagination"
	"ofo/internal/utils/response"
	"ofo/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type DeviceRegistry interface {
	AddDevice(ctx context.Context, device *models.Device) error
}

// AccountHandler serves balance, history and device endpoints.
type AccountHandler struct {
	base
	service    transfer.Service
	statements *statement.Service
	devices    DeviceRegistry
}

func NewAccountHandler(s transfer.Service, statements *statement.Service, devices DeviceRegistry, v *validation.RequestValidator, log *slog.Logger) *AccountHandler {
	return &AccountHandler{base: base{validator: v, log: log}, service: s, statements: statements, devices: devices}
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	account, err := h.service.GetAccount(c.UserContext(), userID(c))
	if err != nil {
		return h.fail(c, "handlers.GetAccount", err)
	}
	return response.Success(c, "account retrieved", account)
}

func (h *AccountHandler) History(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	txs, total, err := h.service.History(c.UserContext(), userID(c), p.Limit, p.Offset)
	if err != nil {
		return h.fail(c, "handlers.History", err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, txs))
}

func (h *AccountHandler) Statement(c *fiber.Ctx) error {
	var q validation.StatementQuery
	if err := c.QueryParser(&q); err != nil {
		return response.BadRequest(c, "invalid query")
	}
	if err := h.validator.Struct(q); err != nil {
		return response.DomainError(c, err)
	}

	doc, err := h.statements.Generate(c.UserContext(), statement.Request{
		UserID:     userID(c),
		WalletType: models.WalletType(q.WalletType),
		From:       q.From,
		To:         q.To,
	})
	if err != nil {
		return h.fail(c, "handlers.Statement", err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.Filename+`"`)
	return c.Send(doc.Content)
}

func (h *AccountHandler) RegisterDevice(c *fiber.Ctx) error {
	var req validation.RegisterDeviceRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	device := &models.Device{UserID: userID(c), PlayerID: req.PlayerID, Platform: req.Platform}
	if err := h.devices.AddDevice(c.UserContext(), device); err != nil {
		return h.fail(c, "handlers.RegisterDevice", appErrors.Internal("failed to register device", err))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "device registered", "data": device})
}
