package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ofo/internal/config"
	appErrors "ofo/internal/errors"
	"ofo/internal/lib/logger/sl"
	"ofo/internal/models"
	"ofo/internal/repositories"
	"ofo/internal/services/billing"
	"ofo/internal/services/funding"

	"github.com/google/uuid"
)

type service struct {
	ledger   repositories.LedgerRepository
	users    UserDirectory
	gateway  billing.Gateway
	banks    BankResolver
	funding  funding.Source
	recon    Reconciler
	notify   Notifications
	cache    Cache
	config   config.LedgerConfig
	metrics  MetricsCollector
	log      *slog.Logger
	newRefID func() string
}

// Dependencies groups the collaborators of the engine. Cache and Metrics
// are optional.
type Dependencies struct {
	Ledger        repositories.LedgerRepository
	Users         UserDirectory
	Gateway       billing.Gateway
	Banks         BankResolver
	Funding       funding.Source
	Reconciler    Reconciler
	Notifications Notifications
	Cache         Cache
	Metrics       MetricsCollector
	Log           *slog.Logger
}

// NewService creates a new transfer engine
func NewService(deps Dependencies, cfg config.LedgerConfig) Service {
	if deps.Ledger == nil {
		panic("ledger is required")
	}
	if deps.Users == nil {
		panic("user directory is required")
	}
	if deps.Gateway == nil {
		panic("billing gateway is required")
	}
	if deps.Banks == nil {
		panic("bank resolver is required")
	}
	if deps.Funding == nil {
		panic("funding source is required")
	}
	if deps.Reconciler == nil {
		panic("reconciler is required")
	}
	if deps.Notifications == nil {
		panic("notifications are required")
	}
	if deps.Log == nil {
		panic("logger is required")
	}

	if cfg.MinUserTransfer <= 0 {
		cfg.MinUserTransfer = 1000
	}
	if cfg.MinBankTransfer <= 0 {
		cfg.MinBankTransfer = 10000
	}
	if cfg.MinTopUp <= 0 {
		cfg.MinTopUp = 10000
	}
	if cfg.MaxCashBalance <= 0 {
		cfg.MaxCashBalance = 10000000
	}
	if cfg.BillFee < 0 {
		cfg.BillFee = 0
	}

	if deps.Metrics == nil {
		deps.Metrics = &NoopMetricsCollector{}
	}

	return &service{
		ledger:   deps.Ledger,
		users:    deps.Users,
		gateway:  deps.Gateway,
		banks:    deps.Banks,
		funding:  deps.Funding,
		recon:    deps.Reconciler,
		notify:   deps.Notifications,
		cache:    deps.Cache,
		config:   cfg,
		metrics:  deps.Metrics,
		log:      deps.Log,
		newRefID: uuid.NewString,
	}
}

func (s *service) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	const op = "transfer.GetAccount"

	if s.cache != nil {
		if account, found, err := s.cache.GetAccount(ctx, userID); err == nil && found {
			return account, nil
		}
	}

	account, err := s.ledger.GetAccount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ledgerError(err))
	}

	if s.cache != nil {
		if _, err := s.cache.CacheAccountIfAbsent(ctx, account); err != nil {
			s.log.Warn("failed to cache account", sl.String("user_id", userID), sl.Err(err))
		}
	}
	return account, nil
}

func (s *service) History(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, int64, error) {
	const op = "transfer.History"

	txs, total, err := s.ledger.ListTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, ledgerError(err))
	}
	return txs, total, nil
}

// commitView reads the post-commit account inside the unit of work so the
// returned balances match what was written.
func commitView(ctx context.Context, tx repositories.LedgerRepository, userID string) (models.Account, error) {
	account, err := tx.GetAccount(ctx, userID)
	if err != nil {
		return models.Account{}, err
	}
	return *account, nil
}

// afterCommit writes the committed snapshots into the cache and publishes
// the new balances. A snapshot that cannot be written is evicted instead.
func (s *service) afterCommit(ctx context.Context, reason string, accounts ...models.Account) {
	if s.cache != nil {
		for i := range accounts {
			a := accounts[i]
			err := s.cache.CacheAccount(ctx, &a)
			if err == nil {
				continue
			}
			s.log.Warn("failed to cache committed account", sl.String("user_id", a.UserID), sl.Err(err))
			if err := s.cache.InvalidateAccounts(ctx, a.UserID); err != nil {
				s.log.Warn("failed to invalidate cached account", sl.String("user_id", a.UserID), sl.Err(err))
			}
		}
	}
	for _, a := range accounts {
		s.notify.BalanceChanged(ctx, a, reason)
	}
}

func validateAmount(amount, minimum int64) error {
	if amount <= 0 {
		return appErrors.ErrInvalidAmount.WithMessage("amount must be greater than zero")
	}
	if amount < minimum {
		return appErrors.ErrAmountBelowMinimum.WithMessage(fmt.Sprintf("minimum amount is %d", minimum))
	}
	return nil
}

func validateNote(note string) error {
	if len([]rune(note)) > maxNoteLength {
		return appErrors.Validation("INVALID_NOTE", fmt.Sprintf("note must be at most %d characters", maxNoteLength))
	}
	return nil
}

func (s *service) lookupUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, appErrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, ledgerError(err)
	}
	return user, nil
}
