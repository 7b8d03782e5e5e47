package transfer

import (
	"context"
	"errors"
	"fmt"

	appErrors "ofo/internal/errors"
	"ofo/internal/lib/logger/sl"
	"ofo/internal/models"
	"ofo/internal/repositories"
	"ofo/internal/validation"
)

// InquireBank resolves the holder of an external account and stores the
// account so a confirm call can reference it by id.
func (s *service) InquireBank(ctx context.Context, bank models.BankType, accountNumber string) (*models.BankAccount, error) {
	const op = "transfer.InquireBank"

	if !bank.Valid() {
		return nil, fmt.Errorf("%s: %w", op, appErrors.Validation("INVALID_BANK", "bank must be one of BCA, BNI, BRI, MANDIRI"))
	}
	if len(accountNumber) < 5 || !validation.IsDigits(accountNumber) {
		return nil, fmt.Errorf("%s: %w", op, appErrors.ErrInvalidAccountRef.WithMessage("account number must be at least 5 digits"))
	}

	key := ""
	if s.cache != nil {
		key = s.cache.GenerateKey("bank", string(bank), accountNumber)
		var cached models.BankAccount
		if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	name, err := s.banks.ResolveName(ctx, bank, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	account := &models.BankAccount{Bank: bank, AccountNumber: accountNumber, Name: name}
	if err := s.ledger.SaveBankAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ledgerError(err))
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, key, account, bankInquiryTTL); err != nil {
			s.log.Warn("failed to cache bank inquiry", sl.String("op", op), sl.Err(err))
		}
	}
	return account, nil
}

// TransferToBank debits the sender's cash toward a previously inquired
// bank account.
func (s *service) TransferToBank(ctx context.Context, req BankTransfer) (res *Result, err error) {
	const op = "transfer.TransferToBank"

	r := s.begin(KindBankTransfer, s.log.With(sl.String("op", op), sl.String("user_id", req.SenderID)))
	r.amount = req.Amount
	defer func() { s.finish(ctx, r, err) }()

	if err := validateAmount(req.Amount, s.config.MinBankTransfer); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := validateNote(req.Note); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	target, err := s.ledger.GetBankAccount(ctx, req.BankAccountID)
	if errors.Is(err, repositories.ErrBankAccountNotFound) {
		return nil, fmt.Errorf("%s: %w", op, appErrors.ErrBankAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ledgerError(err))
	}

	var (
		outgoing models.Transaction
		account  models.Account
	)

	err = s.ledger.ExecuteInTransaction(ctx, func(tx repositories.LedgerRepository) error {
		r.advance(StageDebiting)
		balance, err := tx.ApplyDelta(ctx, req.SenderID, models.WalletCash, -req.Amount)
		if err != nil {
			return err
		}

		r.advance(StageLogging)
		outgoing = models.Transaction{
			UserID:     req.SenderID,
			Amount:     req.Amount,
			WalletType: models.WalletCash,
			Flow:       models.FlowOutgoing,
			TargetType: models.TargetBank,
			TargetID:   target.BankAccountID,
			Note:       req.Note,
		}
		if err := tx.RecordTransaction(ctx, &outgoing); err != nil {
			return err
		}
		if _, err := tx.Snapshot(ctx, req.SenderID, models.WalletCash, balance); err != nil {
			return err
		}

		account, err = commitView(ctx, tx, req.SenderID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ledgerError(err))
	}

	s.afterCommit(ctx, KindBankTransfer, account)

	return &Result{Account: account, Transaction: outgoing, Target: target}, nil
}
