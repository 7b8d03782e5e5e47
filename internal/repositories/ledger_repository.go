package repositories

import (
	"context"
	"errors"
	"time"

	"ofo/internal/models"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceCeiling      = errors.New("balance ceiling exceeded")
	ErrNoUnitOfWork        = errors.New("ledger write outside of a unit of work")
	ErrInvalidWalletType   = errors.New("invalid wallet type")
	ErrBankAccountNotFound = errors.New("bank account not found")
)

// LedgerRepository owns the two account balances and the append-only
// transaction log and balance history. Writes are only accepted on the
// repository handed to ExecuteInTransaction.
type LedgerRepository interface {
	GetAccount(ctx context.Context, userID string) (*models.Account, error)
	GetBalance(ctx context.Context, userID string, wallet models.WalletType) (int64, error)

	// ApplyDelta adds delta to the wallet balance in one conditional
	// update and returns the new balance. It fails with
	// ErrInsufficientBalance when the result would be negative.
	ApplyDelta(ctx context.Context, userID string, wallet models.WalletType, delta int64) (int64, error)

	// ApplyCappedDelta is ApplyDelta that also fails with
	// ErrBalanceCeiling when the result would exceed ceiling.
	ApplyCappedDelta(ctx context.Context, userID string, wallet models.WalletType, delta, ceiling int64) (int64, error)

	// RecordTransaction assigns id and timestamp and inserts the row.
	RecordTransaction(ctx context.Context, tx *models.Transaction) error
	Snapshot(ctx context.Context, userID string, wallet models.WalletType, balance int64) (*models.BalanceHistory, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error

	GetBankAccount(ctx context.Context, bankAccountID string) (*models.BankAccount, error)
	// SaveBankAccount finds the account by (bank, number) or creates it,
	// refreshing the holder name.
	SaveBankAccount(ctx context.Context, account *models.BankAccount) error

	ListTransactions(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, int64, error)
	ListBalanceHistory(ctx context.Context, userID string, wallet models.WalletType, from, to time.Time) ([]models.BalanceHistory, error)

	// ExecuteInTransaction runs fn in one database transaction. Any error
	// returned by fn rolls back every write made through the tx repository.
	ExecuteInTransaction(ctx context.Context, fn func(tx LedgerRepository) error) error
}
