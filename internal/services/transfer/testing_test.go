package transfer

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ofo/internal/config"
	"ofo/internal/lib/logger/sl"
	"ofo/internal/models"
	"ofo/internal/repositories"
	"ofo/internal/repositories/cache"
	"ofo/internal/services/billing"
	"ofo/internal/services/funding"
	"ofo/internal/services/reconciliation"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testConfig = config.LedgerConfig{
	MinUserTransfer: 1000,
	MinBankTransfer: 10000,
	MinTopUp:        10000,
	MaxCashBalance:  10000000,
	BillFee:         2000,
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Inquire(ctx context.Context, service models.PaymentService, accountRef string) (*billing.Inquiry, error) {
	args := m.Called(service, accountRef)
	inq, _ := args.Get(0).(*billing.Inquiry)
	return inq, args.Error(1)
}

func (m *mockGateway) Pay(ctx context.Context, service models.PaymentService, accountRef string, req billing.PayRequest) (*billing.ProviderResponse, error) {
	args := m.Called(service, accountRef, req.Amount)
	resp, _ := args.Get(0).(*billing.ProviderResponse)
	return resp, args.Error(1)
}

type mockFunding struct {
	mock.Mock
}

func (m *mockFunding) Hold(ctx context.Context, userID string, amount int64, method string) (*funding.Hold, error) {
	args := m.Called(userID, amount)
	hold, _ := args.Get(0).(*funding.Hold)
	return hold, args.Error(1)
}

func (m *mockFunding) Capture(ctx context.Context, hold *funding.Hold) error {
	return m.Called(hold.Reference).Error(0)
}

func (m *mockFunding) Release(ctx context.Context, hold *funding.Hold) error {
	return m.Called(hold.Reference).Error(0)
}

type stubResolver struct {
	mu    sync.Mutex
	name  string
	err   error
	calls int
}

func (r *stubResolver) ResolveName(ctx context.Context, bank models.BankType, accountNumber string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.name, r.err
}

type transferEvent struct {
	ReceiverID string
	SenderName string
	Amount     int64
}

type recordingNotifications struct {
	mu        sync.Mutex
	transfers []transferEvent
	balances  []models.Account
}

func (n *recordingNotifications) TransferReceived(ctx context.Context, receiverID, senderName string, amount int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.transfers = append(n.transfers, transferEvent{receiverID, senderName, amount})
}

func (n *recordingNotifications) BalanceChanged(ctx context.Context, account models.Account, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.balances = append(n.balances, account)
}

type recordingMetrics struct {
	NoopMetricsCollector
	mu     sync.Mutex
	aborts []string
}

func (m *recordingMetrics) RecordAbort(kind, stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aborts = append(m.aborts, kind+":"+stage)
}

// failingLedger fails RecordTransaction inside the unit of work.
type failingLedger struct {
	repositories.LedgerRepository
	err error
}

func (f *failingLedger) ExecuteInTransaction(ctx context.Context, fn func(tx repositories.LedgerRepository) error) error {
	return f.LedgerRepository.ExecuteInTransaction(ctx, func(tx repositories.LedgerRepository) error {
		return fn(&failingLedger{LedgerRepository: tx, err: f.err})
	})
}

func (f *failingLedger) RecordTransaction(ctx context.Context, tx *models.Transaction) error {
	return f.err
}

type harness struct {
	svc      Service
	db       *gorm.DB
	ledger   repositories.LedgerRepository
	gateway  *mockGateway
	resolver *stubResolver
	notes    *recordingNotifications
	metrics  *recordingMetrics
}

type option func(*Dependencies)

func withFunding(src funding.Source) option {
	return func(d *Dependencies) { d.Funding = src }
}

func withLedger(wrap func(repositories.LedgerRepository) repositories.LedgerRepository) option {
	return func(d *Dependencies) { d.Ledger = wrap(d.Ledger) }
}

func newHarness(t *testing.T, opts ...option) *harness {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ofo.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repositories.Migrate(db))

	log := sl.Discard()
	h := &harness{
		db:       db,
		ledger:   repositories.NewLedgerRepository(db),
		gateway:  new(mockGateway),
		resolver: &stubResolver{name: "BUDI SANTOSO"},
		notes:    &recordingNotifications{},
		metrics:  &recordingMetrics{},
	}

	deps := Dependencies{
		Ledger:        h.ledger,
		Users:         repositories.NewUserRepository(db, nil, log),
		Gateway:       h.gateway,
		Banks:         h.resolver,
		Funding:       funding.NewInstantSource(models.BankBCA, "8800112233", "OFO SETTLEMENT"),
		Reconciler:    reconciliation.NewService(repositories.NewReconciliationRepository(db), nil, log),
		Notifications: h.notes,
		Cache:         cache.NewCacheService(cache.NewMemoryStore(time.Minute, time.Minute), time.Minute),
		Metrics:       h.metrics,
		Log:           log,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	h.svc = NewService(deps, testConfig)
	return h
}

func (h *harness) seedUser(t *testing.T, name, phone string, cash, point int64) *models.User {
	t.Helper()
	u := &models.User{FullName: name, PhoneNumber: phone, Cash: cash, Point: point, IsVerified: true}
	require.NoError(t, h.db.Create(u).Error)
	return u
}

func (h *harness) balance(t *testing.T, userID string, wallet models.WalletType) int64 {
	t.Helper()
	b, err := h.ledger.GetBalance(context.Background(), userID, wallet)
	require.NoError(t, err)
	return b
}

func (h *harness) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Model(model).Count(&n).Error)
	return n
}

func (h *harness) totalCash(t *testing.T) int64 {
	t.Helper()
	var total int64
	require.NoError(t, h.db.Model(&models.User{}).Select("COALESCE(SUM(cash), 0)").Scan(&total).Error)
	return total
}
