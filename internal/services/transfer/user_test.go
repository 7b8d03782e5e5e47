package transfer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	appErrors "ofo/internal/errors"
	"ofo/internal/models"
	"ofo/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferToUser_MovesCashAndWritesBothLegs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sender := h.seedUser(t, "Alice Wijaya", "+6281100000001", 50000, 0)
	receiver := h.seedUser(t, "Budi Santoso", "+6281100000002", 0, 0)

	res, err := h.svc.TransferToUser(ctx, UserTransfer{
		SenderID:      sender.UserID,
		ReceiverPhone: "081100000002",
		Amount:        20000,
		Note:          "lunch",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(30000), res.Account.Cash)
	assert.Equal(t, models.FlowOutgoing, res.Transaction.Flow)
	assert.Equal(t, models.TargetUser, res.Transaction.TargetType)
	assert.Equal(t, receiver.UserID, res.Transaction.TargetID)
	assert.Equal(t, int64(30000), h.balance(t, sender.UserID, models.WalletCash))
	assert.Equal(t, int64(20000), h.balance(t, receiver.UserID, models.WalletCash))

	var incoming models.Transaction
	require.NoError(t, h.db.Where("user_id = ?", receiver.UserID).First(&incoming).Error)
	assert.Equal(t, models.FlowIncoming, incoming.Flow)
	assert.Equal(t, sender.UserID, incoming.TargetID)
	assert.Equal(t, int64(20000), incoming.Amount)

	assert.Equal(t, int64(2), h.count(t, &models.Transaction{}))
	assert.Equal(t, int64(2), h.count(t, &models.BalanceHistory{}))

	var snap models.BalanceHistory
	require.NoError(t, h.db.Where("user_id = ?", receiver.UserID).First(&snap).Error)
	assert.Equal(t, int64(20000), snap.Balance)
	assert.Equal(t, models.WalletCash, snap.Type)

	require.Len(t, h.notes.transfers, 1)
	assert.Equal(t, transferEvent{receiver.UserID, "Alice Wijaya", 20000}, h.notes.transfers[0])
	assert.Len(t, h.notes.balances, 2)
}

func TestTransferToUser_BalanceBoundary(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sender := h.seedUser(t, "Alice", "+6281100000001", 5000, 0)
	h.seedUser(t, "Budi", "+6281100000002", 0, 0)

	_, err := h.svc.TransferToUser(ctx, UserTransfer{SenderID: sender.UserID, ReceiverPhone: "+6281100000002", Amount: 5001})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInsufficientFunds))
	assert.Equal(t, int64(5000), h.balance(t, sender.UserID, models.WalletCash))
	assert.Zero(t, h.count(t, &models.Transaction{}))
	assert.Zero(t, h.count(t, &models.BalanceHistory{}))
	assert.Empty(t, h.notes.transfers)
	assert.Contains(t, h.metrics.aborts, KindUserTransfer+":"+string(StageDebiting))

	_, err = h.svc.TransferToUser(ctx, UserTransfer{SenderID: sender.UserID, ReceiverPhone: "+6281100000002", Amount: 5000})
	require.NoError(t, err)
	assert.Zero(t, h.balance(t, sender.UserID, models.WalletCash))
}

func TestTransferToUser_Validation(t *testing.T) {
	h := newHarness(t)
	sender := h.seedUser(t, "Alice", "+6281100000001", 50000, 0)
	h.seedUser(t, "Budi", "+6281100000002", 0, 0)

	tests := []struct {
		name string
		req  UserTransfer
		want error
	}{
		{
			name: "zero amount",
			req:  UserTransfer{SenderID: sender.UserID, ReceiverPhone: "+6281100000002", Amount: 0},
			want: appErrors.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			req:  UserTransfer{SenderID: sender.UserID, ReceiverPhone: "+6281100000002", Amount: -100},
			want: appErrors.ErrInvalidAmount,
		},
		{
			name: "below minimum",
			req:  UserTransfer{SenderID: sender.UserID, ReceiverPhone: "+6281100000002", Amount: 999},
			want: appErrors.ErrAmountBelowMinimum,
		},
		{
			name: "self transfer",
			req:  UserTransfer{SenderID: sender.UserID, ReceiverPhone: "081100000001", Amount: 5000},
			want: appErrors.ErrSelfTransfer,
		},
		{
			name: "unknown receiver",
			req:  UserTransfer{SenderID: sender.UserID, ReceiverPhone: "+6281199999999", Amount: 5000},
			want: appErrors.ErrReceiverNotFound,
		},
		{
			name: "unknown sender",
			req:  UserTransfer{SenderID: "missing", ReceiverPhone: "+6281100000002", Amount: 5000},
			want: appErrors.ErrAccountNotFound,
		},
		{
			name: "note too long",
			req:  UserTransfer{SenderID: sender.UserID, ReceiverPhone: "+6281100000002", Amount: 5000, Note: strings.Repeat("x", 101)},
			want: appErrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.TransferToUser(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	assert.Equal(t, int64(50000), h.balance(t, sender.UserID, models.WalletCash))
	assert.Zero(t, h.count(t, &models.Transaction{}))
}

func TestTransferToUser_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	h := newHarness(t)
	sender := h.seedUser(t, "Alice", "+6281100000001", 10000, 0)
	receiver := h.seedUser(t, "Budi", "+6281100000002", 0, 0)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		rejected  atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.svc.TransferToUser(context.Background(), UserTransfer{
				SenderID: sender.UserID, ReceiverPhone: "+6281100000002", Amount: 1000,
			})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, appErrors.ErrInsufficientFunds):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), succeeded.Load())
	assert.Equal(t, int32(10), rejected.Load())
	assert.Zero(t, h.balance(t, sender.UserID, models.WalletCash))
	assert.Equal(t, int64(10000), h.balance(t, receiver.UserID, models.WalletCash))
	assert.Equal(t, int64(20), h.count(t, &models.Transaction{}))
}

func TestTransferToUser_OppositeDirectionsPreserveTotal(t *testing.T) {
	h := newHarness(t)
	a := h.seedUser(t, "Alice", "+6281100000001", 30000, 0)
	b := h.seedUser(t, "Budi", "+6281100000002", 30000, 0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = h.svc.TransferToUser(context.Background(), UserTransfer{SenderID: a.UserID, ReceiverPhone: b.PhoneNumber, Amount: 4000})
		}()
		go func() {
			defer wg.Done()
			_, _ = h.svc.TransferToUser(context.Background(), UserTransfer{SenderID: b.UserID, ReceiverPhone: a.PhoneNumber, Amount: 3000})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(60000), h.totalCash(t))
	assert.GreaterOrEqual(t, h.balance(t, a.UserID, models.WalletCash), int64(0))
	assert.GreaterOrEqual(t, h.balance(t, b.UserID, models.WalletCash), int64(0))
}

func TestInquireUser_MasksName(t *testing.T) {
	h := newHarness(t)
	sender := h.seedUser(t, "Alice", "+6281100000001", 0, 0)
	h.seedUser(t, "Budi Santoso", "+6281100000002", 0, 0)

	cp, err := h.svc.InquireUser(context.Background(), sender.UserID, "0811-0000-0002")
	require.NoError(t, err)
	assert.Equal(t, "Bu*i Sa****o", cp.FullName)
	assert.Equal(t, "+6281100000002", cp.PhoneNumber)

	_, err = h.svc.InquireUser(context.Background(), sender.UserID, "+6281100000001")
	assert.True(t, errors.Is(err, appErrors.ErrSelfTransfer))
}

func TestGetAccount_ReflectsCommittedTransfers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sender := h.seedUser(t, "Alice", "+6281100000001", 50000, 700)
	h.seedUser(t, "Budi", "+6281100000002", 0, 0)

	before, err := h.svc.GetAccount(ctx, sender.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), before.Cash)
	assert.Equal(t, int64(700), before.Point)

	_, err = h.svc.TransferToUser(ctx, UserTransfer{SenderID: sender.UserID, ReceiverPhone: "+6281100000002", Amount: 10000})
	require.NoError(t, err)

	after, err := h.svc.GetAccount(ctx, sender.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(40000), after.Cash)

	txs, total, err := h.svc.History(ctx, sender.UserID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, txs, 1)
	assert.Equal(t, models.FlowOutgoing, txs[0].Flow)

	_, err = h.svc.GetAccount(ctx, "missing")
	assert.True(t, errors.Is(err, appErrors.ErrAccountNotFound))
}

// interleavingLedger runs afterRead once, between the account read and
// the caller's next step.
type interleavingLedger struct {
	repositories.LedgerRepository
	once      sync.Once
	afterRead func()
}

func (l *interleavingLedger) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	account, err := l.LedgerRepository.GetAccount(ctx, userID)
	if l.afterRead != nil {
		l.once.Do(l.afterRead)
	}
	return account, err
}

func TestGetAccount_ReadRacingCommitKeepsCommittedSnapshot(t *testing.T) {
	var wrapped *interleavingLedger
	h := newHarness(t, withLedger(func(inner repositories.LedgerRepository) repositories.LedgerRepository {
		wrapped = &interleavingLedger{LedgerRepository: inner}
		return wrapped
	}))
	ctx := context.Background()
	sender := h.seedUser(t, "Alice", "+6281100000001", 50000, 0)
	h.seedUser(t, "Budi", "+6281100000002", 0, 0)

	wrapped.afterRead = func() {
		_, err := h.svc.TransferToUser(ctx, UserTransfer{SenderID: sender.UserID, ReceiverPhone: "+6281100000002", Amount: 10000})
		require.NoError(t, err)
	}

	_, err := h.svc.GetAccount(ctx, sender.UserID)
	require.NoError(t, err)

	got, err := h.svc.GetAccount(ctx, sender.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(40000), h.balance(t, sender.UserID, models.WalletCash))
	assert.Equal(t, int64(40000), got.Cash)
}
