package config

import "time"

// LedgerConfig holds the monetary limits applied by the transfer engine.
// All amounts are in minor units.
type LedgerConfig struct {
	MinUserTransfer int64
	MinBankTransfer int64
	MinTopUp        int64
	MaxCashBalance  int64
	BillFee         int64
}

func LoadLedger() LedgerConfig {
	return LedgerConfig{
		MinUserTransfer: GetInt64Env("LEDGER_MIN_USER_TRANSFER", 1000),
		MinBankTransfer: GetInt64Env("LEDGER_MIN_BANK_TRANSFER", 10000),
		MinTopUp:        GetInt64Env("LEDGER_MIN_TOPUP", 10000),
		MaxCashBalance:  GetInt64Env("LEDGER_MAX_CASH_BALANCE", 10000000),
		BillFee:         GetInt64Env("LEDGER_BILL_FEE", 2000),
	}
}

// GatewayConfig configures the bill aggregator and the bank name resolver.
type GatewayConfig struct {
	PrepaidURL    string
	PostpaidURL   string
	Username      string
	APIKey        string
	BankLookupURL string
	Timeout       time.Duration
}

func LoadGateway() GatewayConfig {
	return GatewayConfig{
		PrepaidURL:    GetEnv("MOBILEPULSA_PREPAID_URL", "https://testprepaid.mobilepulsa.net/v1/legacy/index"),
		PostpaidURL:   GetEnv("MOBILEPULSA_POSTPAID_URL", "https://testpostpaid.mobilepulsa.net/api/v1/bill/check"),
		Username:      GetEnv("MOBILEPULSA_USERNAME", ""),
		APIKey:        GetEnv("MOBILEPULSA_API_KEY", ""),
		BankLookupURL: GetEnv("BANK_LOOKUP_URL", "http://localhost:4000/bank-account"),
		Timeout:       GetDurationEnv("GATEWAY_TIMEOUT", 15*time.Second),
	}
}

type PushConfig struct {
	OneSignalURL    string
	OneSignalAppID  string
	OneSignalAPIKey string
	Timeout         time.Duration
}

func LoadPush() PushConfig {
	return PushConfig{
		OneSignalURL:    GetEnv("ONESIGNAL_URL", "https://onesignal.com/api/v1/notifications"),
		OneSignalAppID:  GetEnv("ONESIGNAL_APP_ID", ""),
		OneSignalAPIKey: GetEnv("ONESIGNAL_API_KEY", ""),
		Timeout:         GetDurationEnv("PUSH_TIMEOUT", 10*time.Second),
	}
}

type PusherConfig struct {
	Enabled bool
	AppID   string
	Key     string
	Secret  string
	Cluster string
}

func LoadPusher() PusherConfig {
	return PusherConfig{
		Enabled: GetBoolEnv("PUSHER_ENABLED", false),
		AppID:   GetEnv("PUSHER_APP_ID", ""),
		Key:     GetEnv("PUSHER_KEY", ""),
		Secret:  GetEnv("PUSHER_SECRET", ""),
		Cluster: GetEnv("PUSHER_CLUSTER", "ap1"),
	}
}

// StripeConfig enables card-funded top-ups. An empty SecretKey keeps
// top-ups on the instant funding source.
type StripeConfig struct {
	SecretKey     string
	PaymentMethod string
}

func LoadStripe() StripeConfig {
	return StripeConfig{
		SecretKey:     GetEnv("STRIPE_SECRET_KEY", ""),
		PaymentMethod: GetEnv("STRIPE_DEFAULT_PAYMENT_METHOD", "pm_card_visa"),
	}
}

// FundingConfig names the bank account recorded as the counterparty of
// every top-up.
type FundingConfig struct {
	Bank          string
	AccountNumber string
	Name          string
}

func LoadFunding() FundingConfig {
	return FundingConfig{
		Bank:          GetEnv("FUNDING_BANK", "BCA"),
		AccountNumber: GetEnv("FUNDING_ACCOUNT_NUMBER", "0000000000"),
		Name:          GetEnv("FUNDING_ACCOUNT_NAME", "OFO TOPUP"),
	}
}
