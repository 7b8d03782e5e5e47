package billing

import (
	"context"
	"errors"

	"ofo/internal/models"
)

// ErrOutcomeUnknown means the payment request reached the wire but no
// usable answer came back. The provider may or may not have settled it.
var ErrOutcomeUnknown = errors.New("billing: payment outcome unknown")

// Inquiry is the resolved identity of a bill account. Amount is the
// amount due for postpaid services and zero for prepaid ones.
type Inquiry struct {
	Service      models.PaymentService `json:"service"`
	AccountRef   string                `json:"account_ref"`
	CustomerID   string                `json:"customer_id"`
	MeterNumber  string                `json:"meter_number"`
	SubscriberID string                `json:"subscriber_id"`
	FullName     string                `json:"full_name"`
	SegmentPower string                `json:"segment_power"`
	Period       string                `json:"period,omitempty"`
	Amount       int64                 `json:"amount"`
	ProviderRef  string                `json:"provider_ref,omitempty"`
	Raw          models.JSON           `json:"-"`
}

type PayRequest struct {
	// RefID is our idempotency reference sent to the provider.
	RefID string
	// Amount is the principal for prepaid purchases.
	Amount int64
	// ProviderRef is the provider's bill id returned by a postpaid inquiry.
	ProviderRef string
}

type ProviderResponse struct {
	RefID       string      `json:"ref_id"`
	ProviderRef string      `json:"provider_ref"`
	Status      int         `json:"status"`
	Message     string      `json:"message"`
	Raw         models.JSON `json:"raw"`
}

// Gateway is the bill aggregator. Inquire never moves money. Pay returns
// an UPSTREAM_UNAVAILABLE DomainError when the request was never sent,
// UPSTREAM_REJECTED when the provider refused it, and an error wrapping
// ErrOutcomeUnknown when the result is ambiguous.
type Gateway interface {
	Inquire(ctx context.Context, service models.PaymentService, accountRef string) (*Inquiry, error)
	Pay(ctx context.Context, service models.PaymentService, accountRef string, req PayRequest) (*ProviderResponse, error)
}
