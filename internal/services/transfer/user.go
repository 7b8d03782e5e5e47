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

func (s *service) resolveReceiver(ctx context.Context, senderID, phone string) (*models.User, error) {
	receiver, err := s.users.GetByPhone(ctx, validation.NormalizePhone(phone))
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, appErrors.ErrReceiverNotFound
	}
	if err != nil {
		return nil, ledgerError(err)
	}
	if receiver.UserID == senderID {
		return nil, appErrors.ErrSelfTransfer
	}
	return receiver, nil
}

// InquireUser previews the receiver of an internal transfer with a masked
// name. Nothing is written.
func (s *service) InquireUser(ctx context.Context, senderID, phone string) (*Counterparty, error) {
	const op = "transfer.InquireUser"

	receiver, err := s.resolveReceiver(ctx, senderID, phone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Counterparty{
		UserID:      receiver.UserID,
		FullName:    validation.MaskName(receiver.FullName),
		PhoneNumber: receiver.PhoneNumber,
	}, nil
}

// TransferToUser moves cash between two wallets. The sender's debit, the
// receiver's credit, both transaction legs and both balance snapshots
// commit together.
func (s *service) TransferToUser(ctx context.Context, req UserTransfer) (res *Result, err error) {
	const op = "transfer.TransferToUser"

	r := s.begin(KindUserTransfer, s.log.With(sl.String("op", op), sl.String("user_id", req.SenderID)))
	r.amount = req.Amount
	defer func() { s.finish(ctx, r, err) }()

	if err := validateAmount(req.Amount, s.config.MinUserTransfer); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := validateNote(req.Note); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sender, err := s.lookupUser(ctx, req.SenderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	receiver, err := s.resolveReceiver(ctx, sender.UserID, req.ReceiverPhone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		outgoing        models.Transaction
		senderAccount   models.Account
		receiverAccount models.Account
	)

	err = s.ledger.ExecuteInTransaction(ctx, func(tx repositories.LedgerRepository) error {
		var (
			senderBalance, receiverBalance int64
			err                            error
		)

		debit := func() (err error) {
			r.advance(StageDebiting)
			senderBalance, err = tx.ApplyDelta(ctx, sender.UserID, models.WalletCash, -req.Amount)
			return err
		}
		credit := func() (err error) {
			r.advance(StageCrediting)
			receiverBalance, err = tx.ApplyDelta(ctx, receiver.UserID, models.WalletCash, req.Amount)
			return err
		}

		// Rows are locked in user id order so opposite transfers cannot deadlock.
		steps := []func() error{debit, credit}
		if receiver.UserID < sender.UserID {
			steps = []func() error{credit, debit}
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}

		r.advance(StageLogging)
		outgoing = models.Transaction{
			UserID:     sender.UserID,
			Amount:     req.Amount,
			WalletType: models.WalletCash,
			Flow:       models.FlowOutgoing,
			TargetType: models.TargetUser,
			TargetID:   receiver.UserID,
			Note:       req.Note,
		}
		if err := tx.RecordTransaction(ctx, &outgoing); err != nil {
			return err
		}
		incoming := models.Transaction{
			UserID:     receiver.UserID,
			Amount:     req.Amount,
			WalletType: models.WalletCash,
			Flow:       models.FlowIncoming,
			TargetType: models.TargetUser,
			TargetID:   sender.UserID,
			Note:       req.Note,
		}
		if err := tx.RecordTransaction(ctx, &incoming); err != nil {
			return err
		}
		if _, err := tx.Snapshot(ctx, sender.UserID, models.WalletCash, senderBalance); err != nil {
			return err
		}
		if _, err := tx.Snapshot(ctx, receiver.UserID, models.WalletCash, receiverBalance); err != nil {
			return err
		}

		if senderAccount, err = commitView(ctx, tx, sender.UserID); err != nil {
			return err
		}
		receiverAccount, err = commitView(ctx, tx, receiver.UserID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ledgerError(err))
	}

	s.afterCommit(ctx, KindUserTransfer, senderAccount, receiverAccount)
	s.notify.TransferReceived(ctx, receiver.UserID, sender.FullName, req.Amount)

	return &Result{
		Account:     senderAccount,
		Transaction: outgoing,
		Target: Counterparty{
			UserID:      receiver.UserID,
			FullName:    receiver.FullName,
			PhoneNumber: receiver.PhoneNumber,
		},
	}, nil
}
