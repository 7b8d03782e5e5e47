package validation

type TransferUserInquiryRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone_id"`
}

type TransferUserConfirmRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone_id"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Note        string `json:"note" validate:"max=100"`
}

type BankInquiryRequest struct {
	Bank          string `json:"bank" validate:"required,bank"`
	AccountNumber string `json:"account_number" validate:"required,digits,min=5,max=20"`
}

type BankConfirmRequest struct {
	BankAccountID string `json:"bank_account_id" validate:"required,uuid"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	Note          string `json:"note" validate:"max=100"`
}

type TopUpRequest struct {
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	PaymentMethod string `json:"payment_method" validate:"max=64"`
}

type BillInquiryRequest struct {
	AccountRef string `json:"account_ref" validate:"required,digits,min=9,max=20"`
}

type BillConfirmRequest struct {
	AccountRef string `json:"account_ref" validate:"required,digits,min=9,max=20"`
	WalletType string `json:"wallet_type" validate:"required,wallet_type"`
	Amount     int64  `json:"amount" validate:"gte=0"`
}

type RegisterDeviceRequest struct {
	PlayerID string `json:"player_id" validate:"required,max=128"`
	Platform string `json:"platform" validate:"max=20"`
}

type ResolveReconciliationRequest struct {
	Note string `json:"note" validate:"required,max=500"`
}

type StatementQuery struct {
	WalletType string `query:"wallet_type" json:"wallet_type" validate:"omitempty,wallet_type"`
	From       string `query:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `query:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
}
