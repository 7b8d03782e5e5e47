package transfer

import (
	"errors"

	appErrors "ofo/internal/errors"
	"ofo/internal/repositories"
)

// ledgerError maps repository failures onto the domain error taxonomy.
func ledgerError(err error) error {
	if _, ok := appErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repositories.ErrInsufficientBalance):
		return appErrors.ErrInsufficientFunds
	case errors.Is(err, repositories.ErrBalanceCeiling):
		return appErrors.ErrLimitExceeded
	case errors.Is(err, repositories.ErrUserNotFound):
		return appErrors.ErrAccountNotFound
	case errors.Is(err, repositories.ErrBankAccountNotFound):
		return appErrors.ErrBankAccountNotFound
	case errors.Is(err, repositories.ErrInvalidWalletType):
		return appErrors.ErrInvalidWalletType
	default:
		return appErrors.Internal("ledger operation failed", err)
	}
}
