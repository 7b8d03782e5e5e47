package models

type WalletType string

const (
	WalletCash  WalletType = "CASH"
	WalletPoint WalletType = "POINT"
)

func (w WalletType) Valid() bool {
	return w == WalletCash || w == WalletPoint
}

// Column returns the users table column that holds the balance.
func (w WalletType) Column() string {
	switch w {
	case WalletCash:
		return "cash"
	case WalletPoint:
		return "point"
	}
	return ""
}

type Flow string

const (
	FlowIncoming Flow = "INCOMING"
	FlowOutgoing Flow = "OUTGOING"
)

type TargetType string

const (
	TargetUser    TargetType = "USER"
	TargetBank    TargetType = "BANK"
	TargetPayment TargetType = "PAYMENT"
)

type BankType string

const (
	BankBCA     BankType = "BCA"
	BankBNI     BankType = "BNI"
	BankBRI     BankType = "BRI"
	BankMandiri BankType = "MANDIRI"
)

func (b BankType) Valid() bool {
	switch b {
	case BankBCA, BankBNI, BankBRI, BankMandiri:
		return true
	}
	return false
}

type PaymentService string

const (
	ServicePLNPrepaid  PaymentService = "PLN_PREPAID"
	ServicePLNPostpaid PaymentService = "PLN_POSTPAID"
)

func (s PaymentService) Valid() bool {
	return s == ServicePLNPrepaid || s == ServicePLNPostpaid
}
