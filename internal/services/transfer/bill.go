package transfer

import (
	"context"
	"errors"
	"fmt"

	appErrors "ofo/internal/errors"
	"ofo/internal/lib/logger/sl"
	"ofo/internal/models"
	"ofo/internal/repositories"
	"ofo/internal/services/billing"
	"ofo/internal/services/reconciliation"
	"ofo/internal/validation"
)

func validateBillTarget(service models.PaymentService, accountRef string) error {
	if !service.Valid() {
		return appErrors.Validation("INVALID_SERVICE", "unsupported payment service")
	}
	if len(accountRef) < 9 || !validation.IsDigits(accountRef) {
		return appErrors.ErrInvalidAccountRef.WithMessage("account reference must be at least 9 digits")
	}
	return nil
}

// InquireBill asks the gateway who owns accountRef and, for postpaid
// services, how much is due. Nothing is written.
func (s *service) InquireBill(ctx context.Context, service models.PaymentService, accountRef string) (*billing.Inquiry, error) {
	const op = "transfer.InquireBill"

	if err := validateBillTarget(service, accountRef); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	inquiry, err := s.gateway.Inquire(ctx, service, accountRef)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return inquiry, nil
}

// ConfirmBill pays a bill from the chosen wallet. The gateway is charged
// first; when its outcome is unknown, or the local write fails after it
// accepted the payment, the operation is queued for reconciliation and
// never retried automatically.
func (s *service) ConfirmBill(ctx context.Context, req BillPayment) (res *Result, err error) {
	const op = "transfer.ConfirmBill"

	log := s.log.With(sl.String("op", op), sl.String("user_id", req.UserID), sl.String("service", string(req.Service)))
	r := s.begin(KindBillPayment, log)
	defer func() { s.finish(ctx, r, err) }()

	if !req.WalletType.Valid() {
		return nil, fmt.Errorf("%s: %w", op, appErrors.ErrInvalidWalletType)
	}
	if err := validateBillTarget(req.Service, req.AccountRef); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	amount := req.Amount
	pay := billing.PayRequest{RefID: s.newRefID(), Amount: amount}

	if req.Service == models.ServicePLNPostpaid {
		inquiry, err := s.gateway.Inquire(ctx, req.Service, req.AccountRef)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if inquiry.Amount <= 0 {
			return nil, fmt.Errorf("%s: %w", op, appErrors.Validation("NO_OUTSTANDING_BILL", "no outstanding bill for this account"))
		}
		amount = inquiry.Amount
		pay.Amount = amount
		pay.ProviderRef = inquiry.ProviderRef
	} else if amount <= 0 {
		return nil, fmt.Errorf("%s: %w", op, appErrors.ErrInvalidAmount.WithMessage("amount must be greater than zero"))
	}

	fee := s.config.BillFee
	total := amount + fee
	r.amount = total

	balance, err := s.ledger.GetBalance(ctx, req.UserID, req.WalletType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ledgerError(err))
	}
	if balance < total {
		return nil, fmt.Errorf("%s: %w", op, appErrors.ErrInsufficientFunds)
	}

	log = log.With(sl.String("ref_id", pay.RefID))

	resp, err := s.gateway.Pay(ctx, req.Service, req.AccountRef, pay)
	if errors.Is(err, billing.ErrOutcomeUnknown) {
		id := s.recon.Record(ctx, billRecord(models.ReasonGatewayAmbiguous, req, amount, fee, pay, nil, err))
		return nil, fmt.Errorf("%s: %w", op, reconciliation.RequiredError(id, err))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		outgoing models.Transaction
		payment  models.Payment
		account  models.Account
	)

	err = s.ledger.ExecuteInTransaction(ctx, func(tx repositories.LedgerRepository) error {
		r.advance(StageDebiting)
		newBalance, err := tx.ApplyDelta(ctx, req.UserID, req.WalletType, -total)
		if err != nil {
			return err
		}

		r.advance(StageLogging)
		payment = models.Payment{
			AccountNumber: req.AccountRef,
			Service:       req.Service,
			Details:       resp.Raw,
		}
		if err := tx.CreatePayment(ctx, &payment); err != nil {
			return err
		}
		outgoing = models.Transaction{
			UserID:     req.UserID,
			Amount:     amount,
			Fee:        fee,
			WalletType: req.WalletType,
			Flow:       models.FlowOutgoing,
			TargetType: models.TargetPayment,
			TargetID:   payment.PaymentID,
		}
		if err := tx.RecordTransaction(ctx, &outgoing); err != nil {
			return err
		}
		if _, err := tx.Snapshot(ctx, req.UserID, req.WalletType, newBalance); err != nil {
			return err
		}

		account, err = commitView(ctx, tx, req.UserID)
		return err
	})
	if err != nil {
		id := s.recon.Record(ctx, billRecord(models.ReasonLocalCommitFailed, req, amount, fee, pay, resp, err))
		log.Error("bill accepted by gateway but not recorded", sl.String("reconciliation_id", id), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, reconciliation.RequiredError(id, err))
	}

	s.afterCommit(ctx, KindBillPayment, account)

	return &Result{Account: account, Transaction: outgoing, Target: payment}, nil
}

func billRecord(reason string, req BillPayment, amount, fee int64, pay billing.PayRequest, resp *billing.ProviderResponse, cause error) *models.Reconciliation {
	details := models.JSON{
		"ref_id": pay.RefID,
		"error":  cause.Error(),
	}
	providerRef := pay.ProviderRef
	if resp != nil {
		details["provider_response"] = map[string]interface{}(resp.Raw)
		if resp.ProviderRef != "" {
			providerRef = resp.ProviderRef
		}
	}
	return &models.Reconciliation{
		UserID:      req.UserID,
		Reason:      reason,
		Service:     string(req.Service),
		AccountRef:  req.AccountRef,
		WalletType:  req.WalletType,
		Amount:      amount,
		Fee:         fee,
		ProviderRef: providerRef,
		Details:     details,
	}
}
