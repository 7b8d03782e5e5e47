package funding

import (
	"context"
	"errors"
	"fmt"

	appErrors "ofo/internal/errors"
	"ofo/internal/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
)

// Stripe amounts for IDR carry two decimals.
const idrMinorFactor = 100

type paymentIntents interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Capture(id string, params *stripe.PaymentIntentCaptureParams) (*stripe.PaymentIntent, error)
	Cancel(id string, params *stripe.PaymentIntentCancelParams) (*stripe.PaymentIntent, error)
}

// StripeSource funds top-ups with manually captured card PaymentIntents.
type StripeSource struct {
	intents       paymentIntents
	defaultMethod string
	account       models.BankAccount
}

func NewStripeSource(secretKey, defaultMethod string, settlement models.BankAccount) *StripeSource {
	return &StripeSource{
		intents: &paymentintent.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: secretKey,
		},
		defaultMethod: defaultMethod,
		account:       settlement,
	}
}

func (s *StripeSource) Hold(ctx context.Context, userID string, amount int64, method string) (*Hold, error) {
	if method == "" {
		method = s.defaultMethod
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amount * idrMinorFactor),
		Currency:      stripe.String(string(stripe.CurrencyIDR)),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		Confirm:       stripe.Bool(true),
		PaymentMethod: stripe.String(method),
	}
	params.Context = ctx
	params.AddMetadata("user_id", userID)
	params.SetIdempotencyKey(uuid.NewString())

	pi, err := s.intents.New(params)
	if err != nil {
		return nil, classify("card authorization failed", err)
	}
	if pi.Status != stripe.PaymentIntentStatusRequiresCapture {
		return nil, appErrors.Rejected(fmt.Sprintf("card authorization ended in status %s", pi.Status), nil)
	}

	return &Hold{Reference: pi.ID, Method: method, Account: s.account}, nil
}

func (s *StripeSource) Capture(ctx context.Context, hold *Hold) error {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx
	if _, err := s.intents.Capture(hold.Reference, params); err != nil {
		return classify("card capture failed", err)
	}
	return nil
}

func (s *StripeSource) Release(ctx context.Context, hold *Hold) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	if _, err := s.intents.Cancel(hold.Reference, params); err != nil {
		return classify("card release failed", err)
	}
	return nil
}

func classify(msg string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Type == stripe.ErrorTypeCard {
		return appErrors.Rejected(msg+": "+se.Msg, err)
	}
	return appErrors.Unavailable(msg, err)
}
