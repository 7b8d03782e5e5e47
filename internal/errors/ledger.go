package errors

// Kind-level sentinels for errors.Is checks.
var (
	ErrValidation             = &DomainError{Kind: KindValidation}
	ErrNotFound               = &DomainError{Kind: KindNotFound}
	ErrUpstreamUnavailable    = &DomainError{Kind: KindUpstreamUnavailable}
	ErrUpstreamRejected       = &DomainError{Kind: KindUpstreamRejected}
	ErrReconciliationRequired = &DomainError{Kind: KindReconciliationRequired}
)

var (
	ErrInsufficientFunds = &DomainError{
		Kind:    KindInsufficientFunds,
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient wallet balance",
	}
	ErrLimitExceeded = &DomainError{
		Kind:    KindLimitExceeded,
		Code:    "BALANCE_LIMIT_EXCEEDED",
		Message: "resulting balance exceeds the allowed maximum",
	}
	ErrInvalidAmount = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
	}
	ErrAmountBelowMinimum = &DomainError{
		Kind:    KindValidation,
		Code:    "AMOUNT_BELOW_MINIMUM",
		Message: "amount is below the minimum",
	}
	ErrSelfTransfer = &DomainError{
		Kind:    KindValidation,
		Code:    "SELF_TRANSFER",
		Message: "cannot transfer to yourself",
	}
	ErrInvalidWalletType = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_WALLET_TYPE",
		Message: "wallet type must be CASH or POINT",
	}
	ErrInvalidAccountRef = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_ACCOUNT_REF",
		Message: "invalid account reference",
	}
	ErrAccountNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "ACCOUNT_NOT_FOUND",
		Message: "user not found",
	}
	ErrReceiverNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "RECEIVER_NOT_FOUND",
		Message: "receiver not found",
	}
	ErrBankAccountNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "BANK_ACCOUNT_NOT_FOUND",
		Message: "bank account not found",
	}
)
