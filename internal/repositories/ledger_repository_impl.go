package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ofo/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ledgerRepository struct {
	db   *gorm.DB
	inTx bool
	now  func() time.Time
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{
		db:  db,
		now: time.Now,
	}
}

func (r *ledgerRepository) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("user_id", "cash", "point").
		Where("user_id = ?", userID).
		Take(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *ledgerRepository) GetBalance(ctx context.Context, userID string, wallet models.WalletType) (int64, error) {
	if !wallet.Valid() {
		return 0, ErrInvalidWalletType
	}
	account, err := r.GetAccount(ctx, userID)
	if err != nil {
		return 0, err
	}
	return account.Balance(wallet), nil
}

func (r *ledgerRepository) ApplyDelta(ctx context.Context, userID string, wallet models.WalletType, delta int64) (int64, error) {
	return r.applyDelta(ctx, userID, wallet, delta, nil)
}

func (r *ledgerRepository) ApplyCappedDelta(ctx context.Context, userID string, wallet models.WalletType, delta, ceiling int64) (int64, error) {
	return r.applyDelta(ctx, userID, wallet, delta, &ceiling)
}

func (r *ledgerRepository) applyDelta(ctx context.Context, userID string, wallet models.WalletType, delta int64, ceiling *int64) (int64, error) {
	if !r.inTx {
		return 0, ErrNoUnitOfWork
	}
	col := wallet.Column()
	if col == "" {
		return 0, ErrInvalidWalletType
	}

	affected, err := r.guardedUpdate(ctx, userID, col, delta, ceiling)
	if err != nil {
		return 0, err
	}

	current, err := r.GetBalance(ctx, userID, wallet)
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, rejection(delta, ceiling, current)
	}
	return current, nil
}

// guardedUpdate applies delta in a single UPDATE whose WHERE clause is
// evaluated against the row at write time. It reports the rows changed.
func (r *ledgerRepository) guardedUpdate(ctx context.Context, userID, col string, delta int64, ceiling *int64) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", userID).
		Where(col+" + ? >= 0", delta)
	if ceiling != nil {
		q = q.Where(col+" + ? <= ?", delta, *ceiling)
	}

	res := q.UpdateColumn(col, gorm.Expr(col+" + ?", delta))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to apply delta: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// rejection names the guard that refused the update. Without a ceiling only
// the non-negative guard exists. current is re-read after the update and
// may already include a concurrent commit, so it only breaks the tie for a
// capped debit.
func rejection(delta int64, ceiling *int64, current int64) error {
	switch {
	case ceiling == nil:
		return ErrInsufficientBalance
	case delta > 0:
		return ErrBalanceCeiling
	case current+delta < 0:
		return ErrInsufficientBalance
	default:
		return ErrBalanceCeiling
	}
}

func (r *ledgerRepository) RecordTransaction(ctx context.Context, tx *models.Transaction) error {
	if !r.inTx {
		return ErrNoUnitOfWork
	}
	tx.TransactionID = uuid.NewString()
	tx.CreatedAt = r.now()
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) Snapshot(ctx context.Context, userID string, wallet models.WalletType, balance int64) (*models.BalanceHistory, error) {
	if !r.inTx {
		return nil, ErrNoUnitOfWork
	}
	h := &models.BalanceHistory{
		BalanceHistoryID: uuid.NewString(),
		UserID:           userID,
		Type:             wallet,
		Balance:          balance,
		CreatedAt:        r.now(),
	}
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return nil, fmt.Errorf("failed to snapshot balance: %w", err)
	}
	return h, nil
}

func (r *ledgerRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if !r.inTx {
		return ErrNoUnitOfWork
	}
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetBankAccount(ctx context.Context, bankAccountID string) (*models.BankAccount, error) {
	var account models.BankAccount
	if err := r.db.WithContext(ctx).Where("bank_account_id = ?", bankAccountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBankAccountNotFound
		}
		return nil, fmt.Errorf("failed to get bank account: %w", err)
	}
	return &account, nil
}

func (r *ledgerRepository) SaveBankAccount(ctx context.Context, account *models.BankAccount) error {
	name := account.Name
	err := r.db.WithContext(ctx).
		Where(models.BankAccount{Bank: account.Bank, AccountNumber: account.AccountNumber}).
		FirstOrCreate(account).Error
	if err != nil {
		return fmt.Errorf("failed to save bank account: %w", err)
	}
	if name != "" && account.Name != name {
		account.Name = name
		if err := r.db.WithContext(ctx).Model(account).Update("name", name).Error; err != nil {
			return fmt.Errorf("failed to update bank account name: %w", err)
		}
	}
	return nil
}

func (r *ledgerRepository) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, int64, error) {
	var (
		txs   []models.Transaction
		total int64
	)
	base := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	err := base.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return txs, total, nil
}

func (r *ledgerRepository) ListBalanceHistory(ctx context.Context, userID string, wallet models.WalletType, from, to time.Time) ([]models.BalanceHistory, error) {
	var rows []models.BalanceHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND created_at >= ? AND created_at < ?", userID, wallet, from, to).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}
	return rows, nil
}

func (r *ledgerRepository) ExecuteInTransaction(ctx context.Context, fn func(LedgerRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &ledgerRepository{db: tx, inTx: true, now: r.now}
		return fn(txRepo)
	})
}
