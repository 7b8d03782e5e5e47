package transfer

import (
	"context"
	"time"

	"ofo/internal/models"
	"ofo/internal/services/billing"
)

// UserDirectory resolves the identities taking part in a transfer.
type UserDirectory interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
}

// Notifications is invoked only after a unit of work has committed.
type Notifications interface {
	TransferReceived(ctx context.Context, receiverID, senderName string, amount int64)
	BalanceChanged(ctx context.Context, account models.Account, reason string)
}

// BankResolver looks up the holder name of an external bank account.
type BankResolver interface {
	ResolveName(ctx context.Context, bank models.BankType, accountNumber string) (string, error)
}

// Reconciler records operations whose external and local outcomes may
// disagree.
type Reconciler interface {
	Record(ctx context.Context, rec *models.Reconciliation) string
}

type Cache interface {
	GetAccount(ctx context.Context, userID string) (*models.Account, bool, error)
	CacheAccount(ctx context.Context, account *models.Account) error
	CacheAccountIfAbsent(ctx context.Context, account *models.Account) (bool, error)
	InvalidateAccounts(ctx context.Context, userIDs ...string) error
	GenerateKey(entityType, keyType string, value interface{}) string
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type MetricsCollector interface {
	RecordOperationResult(kind, result string)
	RecordOperationDuration(kind string, d time.Duration)
	RecordVolume(kind string, amount int64)
	RecordAbort(kind, stage string)
}

// Service is the transfer engine. Every money-moving operation runs as a
// single unit of work; either all of its balance changes, transaction
// legs and balance snapshots commit, or none do.
type Service interface {
	InquireUser(ctx context.Context, senderID, phone string) (*Counterparty, error)
	TransferToUser(ctx context.Context, req UserTransfer) (*Result, error)

	InquireBank(ctx context.Context, bank models.BankType, accountNumber string) (*models.BankAccount, error)
	TransferToBank(ctx context.Context, req BankTransfer) (*Result, error)

	TopUp(ctx context.Context, req TopUp) (*Result, error)

	InquireBill(ctx context.Context, service models.PaymentService, accountRef string) (*billing.Inquiry, error)
	ConfirmBill(ctx context.Context, req BillPayment) (*Result, error)

	GetAccount(ctx context.Context, userID string) (*models.Account, error)
	History(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, int64, error)
}
