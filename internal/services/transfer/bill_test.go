package transfer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	appErrors "ofo/internal/errors"
	"ofo/internal/models"
	"ofo/internal/repositories"
	"ofo/internal/services/billing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const meter = "32127971177"

func paid(ref string) *billing.ProviderResponse {
	return &billing.ProviderResponse{
		RefID:       ref,
		ProviderRef: "tr-991",
		Message:     "SUCCESS",
		Raw:         models.JSON{"status": float64(1), "message": "SUCCESS"},
	}
}

func TestConfirmBill_PrepaidDebitsAmountPlusFee(t *testing.T) {
	h := newHarness(t)
	user := h.seedUser(t, "Alice", "+6281100000001", 100000, 0)
	h.gateway.On("Pay", models.ServicePLNPrepaid, meter, int64(50000)).Return(paid("r1"), nil)

	res, err := h.svc.ConfirmBill(context.Background(), BillPayment{
		UserID: user.UserID, Service: models.ServicePLNPrepaid, AccountRef: meter, WalletType: models.WalletCash, Amount: 50000,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(48000), res.Account.Cash)
	assert.Equal(t, int64(50000), res.Transaction.Amount)
	assert.Equal(t, int64(2000), res.Transaction.Fee)
	assert.Equal(t, models.TargetPayment, res.Transaction.TargetType)

	var payment models.Payment
	require.NoError(t, h.db.Where("payment_id = ?", res.Transaction.TargetID).First(&payment).Error)
	assert.Equal(t, meter, payment.AccountNumber)
	assert.Equal(t, "SUCCESS", payment.Details["message"])
	assert.Equal(t, int64(1), h.count(t, &models.BalanceHistory{}))
	h.gateway.AssertExpectations(t)
}

func TestConfirmBill_PostpaidChargesAmountDue(t *testing.T) {
	h := newHarness(t)
	user := h.seedUser(t, "Alice", "+6281100000001", 0, 90000)
	h.gateway.On("Inquire", models.ServicePLNPostpaid, meter).Return(&billing.Inquiry{Amount: 75000, ProviderRef: "tr-55"}, nil)
	h.gateway.On("Pay", models.ServicePLNPostpaid, meter, int64(75000)).Return(paid("r2"), nil)

	res, err := h.svc.ConfirmBill(context.Background(), BillPayment{
		UserID: user.UserID, Service: models.ServicePLNPostpaid, AccountRef: meter, WalletType: models.WalletPoint,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(13000), res.Account.Point)
	assert.Equal(t, models.WalletPoint, res.Transaction.WalletType)
	assert.Zero(t, h.balance(t, user.UserID, models.WalletCash))
}

func TestConfirmBill_FailuresBeforeChargeLeaveNoTrace(t *testing.T) {
	tests := []struct {
		name    string
		req     func(userID string) BillPayment
		payErr  error
		want    error
		payCall bool
	}{
		{
			name: "insufficient incl fee",
			req: func(id string) BillPayment {
				return BillPayment{UserID: id, Service: models.ServicePLNPrepaid, AccountRef: meter, WalletType: models.WalletCash, Amount: 49000}
			},
			want: appErrors.ErrInsufficientFunds,
		},
		{
			name: "invalid wallet",
			req: func(id string) BillPayment {
				return BillPayment{UserID: id, Service: models.ServicePLNPrepaid, AccountRef: meter, WalletType: "GOLD", Amount: 20000}
			},
			want: appErrors.ErrInvalidWalletType,
		},
		{
			name: "short account ref",
			req: func(id string) BillPayment {
				return BillPayment{UserID: id, Service: models.ServicePLNPrepaid, AccountRef: "1234", WalletType: models.WalletCash, Amount: 20000}
			},
			want: appErrors.ErrInvalidAccountRef,
		},
		{
			name: "gateway rejected",
			req: func(id string) BillPayment {
				return BillPayment{UserID: id, Service: models.ServicePLNPrepaid, AccountRef: meter, WalletType: models.WalletCash, Amount: 20000}
			},
			payErr:  appErrors.Rejected("INVALID METER", nil),
			want:    appErrors.ErrUpstreamRejected,
			payCall: true,
		},
		{
			name: "gateway unavailable",
			req: func(id string) BillPayment {
				return BillPayment{UserID: id, Service: models.ServicePLNPrepaid, AccountRef: meter, WalletType: models.WalletCash, Amount: 20000}
			},
			payErr:  appErrors.Unavailable("connection refused", nil),
			want:    appErrors.ErrUpstreamUnavailable,
			payCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			user := h.seedUser(t, "Alice", "+6281100000001", 50000, 0)
			if tt.payCall {
				h.gateway.On("Pay", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.payErr)
			}

			_, err := h.svc.ConfirmBill(context.Background(), tt.req(user.UserID))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			if !tt.payCall {
				h.gateway.AssertNotCalled(t, "Pay", mock.Anything, mock.Anything, mock.Anything)
			}
			assert.Equal(t, int64(50000), h.balance(t, user.UserID, models.WalletCash))
			assert.Zero(t, h.count(t, &models.Transaction{}))
			assert.Zero(t, h.count(t, &models.Payment{}))
			assert.Zero(t, h.count(t, &models.Reconciliation{}))
		})
	}
}

func TestConfirmBill_UnavailableIsRetryable(t *testing.T) {
	h := newHarness(t)
	user := h.seedUser(t, "Alice", "+6281100000001", 50000, 0)
	h.gateway.On("Pay", mock.Anything, mock.Anything, mock.Anything).Return(nil, appErrors.Unavailable("dial tcp: refused", nil))

	_, err := h.svc.ConfirmBill(context.Background(), BillPayment{
		UserID: user.UserID, Service: models.ServicePLNPrepaid, AccountRef: meter, WalletType: models.WalletCash, Amount: 20000,
	})
	de, ok := appErrors.As(err)
	require.True(t, ok)
	assert.True(t, de.Retryable())
}

func TestConfirmBill_AmbiguousOutcomeIsReconciled(t *testing.T) {
	h := newHarness(t)
	user := h.seedUser(t, "Alice", "+6281100000001", 50000, 0)
	h.gateway.On("Pay", models.ServicePLNPrepaid, meter, int64(20000)).
		Return(nil, fmt.Errorf("read response: %w", billing.ErrOutcomeUnknown))

	_, err := h.svc.ConfirmBill(context.Background(), BillPayment{
		UserID: user.UserID, Service: models.ServicePLNPrepaid, AccountRef: meter, WalletType: models.WalletCash, Amount: 20000,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrReconciliationRequired))
	de, _ := appErrors.As(err)
	assert.False(t, de.Retryable())

	assert.Equal(t, int64(50000), h.balance(t, user.UserID, models.WalletCash))
	assert.Zero(t, h.count(t, &models.Transaction{}))

	var rec models.Reconciliation
	require.NoError(t, h.db.First(&rec).Error)
	assert.Equal(t, models.ReasonGatewayAmbiguous, rec.Reason)
	assert.Equal(t, meter, rec.AccountRef)
	assert.Equal(t, int64(20000), rec.Amount)
	assert.Equal(t, int64(2000), rec.Fee)
	assert.Contains(t, de.Message, rec.ReconciliationID)
}

func TestConfirmBill_LocalFailureAfterChargeIsReconciled(t *testing.T) {
	h := newHarness(t, withLedger(func(l repositories.LedgerRepository) repositories.LedgerRepository {
		return &failingLedger{LedgerRepository: l, err: errors.New("disk full")}
	}))
	user := h.seedUser(t, "Alice", "+6281100000001", 50000, 0)
	h.gateway.On("Pay", models.ServicePLNPrepaid, meter, int64(20000)).Return(paid("r3"), nil)

	_, err := h.svc.ConfirmBill(context.Background(), BillPayment{
		UserID: user.UserID, Service: models.ServicePLNPrepaid, AccountRef: meter, WalletType: models.WalletCash, Amount: 20000,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrReconciliationRequired))

	// The debit and payment row rolled back; the reconciliation row did not.
	assert.Equal(t, int64(50000), h.balance(t, user.UserID, models.WalletCash))
	assert.Zero(t, h.count(t, &models.Payment{}))
	assert.Zero(t, h.count(t, &models.Transaction{}))

	var rec models.Reconciliation
	require.NoError(t, h.db.First(&rec).Error)
	assert.Equal(t, models.ReasonLocalCommitFailed, rec.Reason)
	assert.Equal(t, "tr-991", rec.ProviderRef)
}

func TestInquireBill(t *testing.T) {
	h := newHarness(t)
	h.gateway.On("Inquire", models.ServicePLNPrepaid, meter).Return(&billing.Inquiry{FullName: "SUBAGIO", SegmentPower: "R1/1300"}, nil)

	inq, err := h.svc.InquireBill(context.Background(), models.ServicePLNPrepaid, meter)
	require.NoError(t, err)
	assert.Equal(t, "SUBAGIO", inq.FullName)

	_, err = h.svc.InquireBill(context.Background(), models.PaymentService("WATER"), meter)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	h.gateway.AssertNumberOfCalls(t, "Inquire", 1)
}
