package transfer

import (
	"time"

	"ofo/internal/models"
)

const (
	KindUserTransfer = "user_transfer"
	KindBankTransfer = "bank_transfer"
	KindTopUp        = "topup"
	KindBillPayment  = "bill_payment"

	bankInquiryTTL = time.Hour
	maxNoteLength  = 100
)

type Stage string

const (
	StageValidating Stage = "VALIDATING"
	StageDebiting   Stage = "DEBITING"
	StageCrediting  Stage = "CREDITING"
	StageLogging    Stage = "LOGGING"
	StageCommitted  Stage = "COMMITTED"
	StageAborted    Stage = "ABORTED"
)

type UserTransfer struct {
	SenderID      string
	ReceiverPhone string
	Amount        int64
	Note          string
}

type BankTransfer struct {
	SenderID      string
	BankAccountID string
	Amount        int64
	Note          string
}

type TopUp struct {
	UserID        string
	Amount        int64
	PaymentMethod string
}

type BillPayment struct {
	UserID     string
	Service    models.PaymentService
	AccountRef string
	WalletType models.WalletType
	// Amount is the prepaid denomination. Postpaid bills are charged the
	// amount due reported by the gateway.
	Amount int64
}

// Counterparty is the public view of an internal transfer receiver.
type Counterparty struct {
	UserID      string `json:"user_id"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

// Result is returned by every committed operation. Account is the
// caller's balance after the commit and Transaction the caller's leg.
type Result struct {
	Account     models.Account     `json:"account"`
	Transaction models.Transaction `json:"transaction"`
	Target      interface{}        `json:"target"`
}
