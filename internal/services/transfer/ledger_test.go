package transfer

import (
	"context"
	"testing"

	"ofo/internal/models"
	"ofo/internal/services/billing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedSum adds incoming legs and subtracts outgoing legs including fees.
func (h *harness) signedSum(t *testing.T, userID string, wallet models.WalletType) int64 {
	t.Helper()
	var txs []models.Transaction
	require.NoError(t, h.db.Where("user_id = ? AND wallet_type = ?", userID, wallet).Find(&txs).Error)

	var sum int64
	for _, tx := range txs {
		switch tx.Flow {
		case models.FlowIncoming:
			sum += tx.Amount
		case models.FlowOutgoing:
			sum -= tx.Amount + tx.Fee
		}
	}
	return sum
}

func TestLedger_BalanceEqualsOpeningPlusSignedLegs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	type opening struct{ cash, point int64 }
	alice := h.seedUser(t, "Alice", "+6281100000001", 100000, 50000)
	budi := h.seedUser(t, "Budi", "+6281100000002", 30000, 0)
	openings := map[string]opening{
		alice.UserID: {100000, 50000},
		budi.UserID:  {30000, 0},
	}

	h.gateway.On("Pay", models.ServicePLNPrepaid, meter, int64(20000)).Return(paid("r1"), nil)
	h.gateway.On("Inquire", models.ServicePLNPostpaid, meter).Return(&billing.Inquiry{Amount: 30000, ProviderRef: "tr-7"}, nil)
	h.gateway.On("Pay", models.ServicePLNPostpaid, meter, int64(30000)).Return(paid("r2"), nil)

	_, err := h.svc.TransferToUser(ctx, UserTransfer{SenderID: alice.UserID, ReceiverPhone: "+6281100000002", Amount: 20000})
	require.NoError(t, err)
	_, err = h.svc.TransferToUser(ctx, UserTransfer{SenderID: budi.UserID, ReceiverPhone: "+6281100000001", Amount: 5000})
	require.NoError(t, err)

	dest, err := h.svc.InquireBank(ctx, models.BankBCA, "1234567890")
	require.NoError(t, err)
	_, err = h.svc.TransferToBank(ctx, BankTransfer{SenderID: alice.UserID, BankAccountID: dest.BankAccountID, Amount: 15000})
	require.NoError(t, err)

	_, err = h.svc.TopUp(ctx, TopUp{UserID: alice.UserID, Amount: 50000})
	require.NoError(t, err)

	_, err = h.svc.ConfirmBill(ctx, BillPayment{
		UserID: alice.UserID, Service: models.ServicePLNPrepaid, AccountRef: meter, WalletType: models.WalletCash, Amount: 20000,
	})
	require.NoError(t, err)
	_, err = h.svc.ConfirmBill(ctx, BillPayment{
		UserID: alice.UserID, Service: models.ServicePLNPostpaid, AccountRef: meter, WalletType: models.WalletPoint,
	})
	require.NoError(t, err)

	for id, open := range openings {
		cash := h.balance(t, id, models.WalletCash)
		point := h.balance(t, id, models.WalletPoint)
		assert.Equal(t, open.cash+h.signedSum(t, id, models.WalletCash), cash, "cash of %s", id)
		assert.Equal(t, open.point+h.signedSum(t, id, models.WalletPoint), point, "point of %s", id)
	}

	assert.Equal(t, int64(100000-20000+5000-15000+50000-22000), h.balance(t, alice.UserID, models.WalletCash))
	assert.Equal(t, int64(50000-32000), h.balance(t, alice.UserID, models.WalletPoint))
	assert.Equal(t, int64(30000+20000-5000), h.balance(t, budi.UserID, models.WalletCash))
	h.gateway.AssertExpectations(t)
}
