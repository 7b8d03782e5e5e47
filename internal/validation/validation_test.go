package validation

import (
	"errors"
	"testing"

	appErrors "ofo/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"081234567890", "+6281234567890"},
		{"6281234567890", "+6281234567890"},
		{"+6281234567890", "+6281234567890"},
		{" 0812-3456-7890 ", "+6281234567890"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), tt.in)
	}
}

func TestMaskName(t *testing.T) {
	assert.Equal(t, "Bu*i Sa****o", MaskName("Budi Santoso"))
	assert.Equal(t, "Al", MaskName("Al"))
	assert.Equal(t, "Ani", MaskName("Ani"))
	assert.Equal(t, "", MaskName(""))
}

func TestStruct(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		req     interface{}
		wantErr string
	}{
		{
			name: "valid user transfer",
			req:  TransferUserConfirmRequest{PhoneNumber: "+6281234567890", Amount: 1000},
		},
		{
			name:    "bad phone",
			req:     TransferUserConfirmRequest{PhoneNumber: "12345", Amount: 1000},
			wantErr: "field phone_number must be a valid phone number",
		},
		{
			name:    "missing amount",
			req:     TransferUserConfirmRequest{PhoneNumber: "+6281234567890"},
			wantErr: "field amount is required",
		},
		{
			name:    "short bank account",
			req:     BankInquiryRequest{Bank: "BCA", AccountNumber: "1234"},
			wantErr: "field account_number must be at least 5 characters",
		},
		{
			name:    "non numeric bank account",
			req:     BankInquiryRequest{Bank: "BCA", AccountNumber: "12a45"},
			wantErr: "field account_number must contain digits only",
		},
		{
			name:    "unknown bank",
			req:     BankInquiryRequest{Bank: "XYZ", AccountNumber: "12345"},
			wantErr: "field bank must be one of",
		},
		{
			name:    "short meter number",
			req:     BillInquiryRequest{AccountRef: "12345678"},
			wantErr: "field account_ref must be at least 9 characters",
		},
		{
			name:    "bad wallet type",
			req:     BillConfirmRequest{AccountRef: "123456789", WalletType: "GOLD"},
			wantErr: "field wallet_type must be CASH or POINT",
		},
		{
			name: "point bill",
			req:  BillConfirmRequest{AccountRef: "123456789", WalletType: "POINT", Amount: 20000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, appErrors.ErrValidation))
		})
	}
}
