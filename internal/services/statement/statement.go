// Package statement renders a wallet's balance history as a PDF.
package statement

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appErrors "ofo/internal/errors"
	"ofo/internal/models"
	"ofo/internal/repositories"

	"github.com/phpdave11/gofpdf"
)

const (
	dateLayout = "2006-01-02"
	maxRows    = 500
	// maxRange bounds a single statement request.
	maxRange = 366 * 24 * time.Hour
)

type HistoryReader interface {
	GetAccount(ctx context.Context, userID string) (*models.Account, error)
	ListBalanceHistory(ctx context.Context, userID string, wallet models.WalletType, from, to time.Time) ([]models.BalanceHistory, error)
}

type Request struct {
	UserID     string
	WalletType models.WalletType
	// From and To are inclusive calendar days in YYYY-MM-DD. Both empty
	// selects the last 30 days.
	From string
	To   string
}

type Document struct {
	Filename string
	Content  []byte
}

type Service struct {
	history HistoryReader
	now     func() time.Time
}

func NewService(history HistoryReader) *Service {
	return &Service{history: history, now: time.Now}
}

func (s *Service) period(req Request) (time.Time, time.Time, error) {
	if req.From == "" && req.To == "" {
		end := s.now()
		end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
		return end.AddDate(0, 0, -29), end, nil
	}
	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Validation("INVALID_PERIOD", "from must be YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Validation("INVALID_PERIOD", "to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, appErrors.Validation("INVALID_PERIOD", "to must not be before from")
	}
	if to.Sub(from) > maxRange {
		return time.Time{}, time.Time{}, appErrors.Validation("INVALID_PERIOD", "period must not exceed one year")
	}
	return from, to, nil
}

// Generate builds the statement for one wallet over the requested period.
func (s *Service) Generate(ctx context.Context, req Request) (*Document, error) {
	const op = "statement.Generate"

	wallet := req.WalletType
	if wallet == "" {
		wallet = models.WalletCash
	}
	if !wallet.Valid() {
		return nil, fmt.Errorf("%s: %w", op, appErrors.ErrInvalidWalletType)
	}

	from, to, err := s.period(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	account, err := s.history.GetAccount(ctx, req.UserID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("%s: %w", op, appErrors.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, appErrors.Internal("failed to load account", err))
	}

	rows, err := s.history.ListBalanceHistory(ctx, req.UserID, wallet, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, appErrors.Internal("failed to load balance history", err))
	}

	content, err := render(account, wallet, from, to, rows, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, appErrors.Internal("pdf build failed", err))
	}

	return &Document{
		Filename: fmt.Sprintf("ofo-%s-statement-%s-to-%s.pdf", strings.ToLower(string(wallet)), from.Format(dateLayout), to.Format(dateLayout)),
		Content:  content,
	}, nil
}

var columns = []float64{40, 50, 50, 42}

func header(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(columns[0], 8, "DATE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(columns[1], 8, "CHANGE", "1", 0, "R", true, 0, "")
	pdf.CellFormat(columns[2], 8, "BALANCE", "1", 0, "R", true, 0, "")
	pdf.CellFormat(columns[3], 8, "REF", "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
}

func render(account *models.Account, wallet models.WalletType, from, to time.Time, rows []models.BalanceHistory, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 48)
	pdf.SetTextColor(235, 235, 235)
	pdf.Text(60, 140, "OFO")

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "OFO "+titleCase(string(wallet))+" Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Period: "+from.Format(dateLayout)+" to "+to.Format(dateLayout))
	pdf.Ln(5)
	pdf.Cell(0, 6, "Account: "+maskID(account.UserID))
	pdf.Ln(10)

	var opening, closing int64
	if len(rows) > 0 {
		opening = rows[0].Balance
		closing = rows[len(rows)-1].Balance
	}

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)
	summary := []float64{61, 61, 60}
	pdf.CellFormat(summary[0], 10, "First balance", "1", 0, "C", true, 0, "")
	pdf.CellFormat(summary[1], 10, "Last balance", "1", 0, "C", true, 0, "")
	pdf.CellFormat(summary[2], 10, "Current balance", "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(summary[0], 10, FormatRupiah(opening), "1", 0, "C", false, 0, "")
	pdf.CellFormat(summary[1], 10, FormatRupiah(closing), "1", 0, "C", false, 0, "")
	pdf.CellFormat(summary[2], 10, FormatRupiah(account.Balance(wallet)), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetTextColor(30, 30, 30)
	header(pdf)

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 8, "No balance changes in this period", "1", 1, "C", false, 0, "")
	}

	var previous int64
	for i, row := range rows {
		if i >= maxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, "truncated, narrow the period for the full history", "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header(pdf)
		}

		change := "-"
		if i > 0 {
			change = signed(row.Balance - previous)
		}
		previous = row.Balance

		pdf.CellFormat(columns[0], 8, row.CreatedAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(columns[1], 8, change, "1", 0, "R", false, 0, "")
		pdf.CellFormat(columns[2], 8, FormatRupiah(row.Balance), "1", 0, "R", false, 0, "")
		pdf.CellFormat(columns[3], 8, shortID(row.BalanceHistoryID), "1", 1, "C", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated by OFO "+generated.Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatRupiah renders minor units with dot thousand separators.
func FormatRupiah(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "Rp " + b.String()
}

func signed(n int64) string {
	if n > 0 {
		return "+" + FormatRupiah(n)
	}
	return FormatRupiah(n)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func maskID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "..." + id[len(id)-4:]
}
