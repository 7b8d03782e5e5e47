package statement

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	appErrors "ofo/internal/errors"
	"ofo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	rows     []models.BalanceHistory
	from, to time.Time
}

func (f *fakeHistory) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	return &models.Account{UserID: userID, Cash: 35000, Point: 10}, nil
}

func (f *fakeHistory) ListBalanceHistory(ctx context.Context, userID string, wallet models.WalletType, from, to time.Time) ([]models.BalanceHistory, error) {
	f.from, f.to = from, to
	return f.rows, nil
}

func TestGenerate(t *testing.T) {
	at := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	history := &fakeHistory{rows: []models.BalanceHistory{
		{BalanceHistoryID: "bh-000000001", Balance: 50000, Type: models.WalletCash, CreatedAt: at},
		{BalanceHistoryID: "bh-000000002", Balance: 35000, Type: models.WalletCash, CreatedAt: at.Add(time.Hour)},
	}}
	svc := NewService(history)

	doc, err := svc.Generate(context.Background(), Request{UserID: "user-1234-5678", From: "2024-03-01", To: "2024-03-31"})
	require.NoError(t, err)

	assert.Equal(t, "ofo-cash-statement-2024-03-01-to-2024-03-31.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF")))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), history.from)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), history.to)
}

func TestGenerate_DefaultsToLast30Days(t *testing.T) {
	history := &fakeHistory{}
	svc := NewService(history)
	svc.now = func() time.Time { return time.Date(2024, 3, 30, 15, 0, 0, 0, time.UTC) }

	doc, err := svc.Generate(context.Background(), Request{UserID: "u1", WalletType: models.WalletPoint})
	require.NoError(t, err)
	assert.Equal(t, "ofo-point-statement-2024-03-01-to-2024-03-30.pdf", doc.Filename)
}

func TestGenerate_RejectsBadInput(t *testing.T) {
	svc := NewService(&fakeHistory{})

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"bad wallet", Request{UserID: "u1", WalletType: "GOLD"}, appErrors.ErrInvalidWalletType},
		{"bad date", Request{UserID: "u1", From: "03/01/2024", To: "2024-03-31"}, appErrors.ErrValidation},
		{"reversed", Request{UserID: "u1", From: "2024-03-31", To: "2024-03-01"}, appErrors.ErrValidation},
		{"too long", Request{UserID: "u1", From: "2022-01-01", To: "2024-01-01"}, appErrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), tt.req)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 0", FormatRupiah(0))
	assert.Equal(t, "Rp 999", FormatRupiah(999))
	assert.Equal(t, "Rp 1.000", FormatRupiah(1000))
	assert.Equal(t, "Rp 10.000.000", FormatRupiah(10000000))
	assert.Equal(t, "-Rp 25.500", FormatRupiah(-25500))
}
