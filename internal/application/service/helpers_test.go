package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sangkips/billing-api/internal/domain/billing"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/internal/infrastructure/fixtures"
	"github.com/sangkips/billing-api/internal/infrastructure/memory"
	"github.com/sangkips/billing-api/pkg/money"
)

const (
	testStore = "STORE-001"
	testWS    = "till-1"

	barcodeTea     = "8901234567890" // SKU-101, offer 225
	barcodeCoffee  = "8901234567891" // SKU-102, offer 400
	barcodeBasmati = "8901234567894" // SKU-105, mrp 650
)

var (
	vikram = entity.Staff{ID: "STAFF-001", Name: "Vikram Singh"}
	sneha  = entity.Staff{ID: "STAFF-002", Name: "Sneha Reddy"}
)

type harness struct {
	repos   *repository.Repositories
	catalog *memory.Catalog
	billing *BillingService
	saved   *SavedCartService
}

func newHarness(t *testing.T, rules billing.Evaluator) *harness {
	t.Helper()
	repos, err := memory.NewSeeded(testStore, time.Now(), zap.NewNop())
	require.NoError(t, err)

	catalog := memory.NewCatalogRepository(fixtures.Catalog())
	repos.Catalog = catalog

	if rules == nil {
		rules = billing.DefaultRuleSet()
	}
	b := NewBillingService(NewWorkspaceRegistry(), repos, rules, BillingOptions{
		StoreID:             testStore,
		CollaboratorTimeout: time.Second,
	}, zap.NewNop())

	return &harness{
		repos:   repos,
		catalog: catalog,
		billing: b,
		saved:   NewSavedCartService(b, repos, 48*time.Hour, zap.NewNop()),
	}
}

func (h *harness) scan(t *testing.T, barcode string, times int) *entity.Cart {
	t.Helper()
	var cart *entity.Cart
	for i := 0; i < times; i++ {
		var err error
		cart, err = h.billing.ScanBarcode(context.Background(), testWS, vikram, barcode)
		require.NoError(t, err)
	}
	return cart
}

func major(units int64) money.Amount {
	return money.Major(units)
}

// gatedEvaluator holds its first evaluation until released
type gatedEvaluator struct {
	inner   billing.Evaluator
	calls   int32
	entered chan struct{}
	release chan struct{}
}

func newGatedEvaluator() *gatedEvaluator {
	return &gatedEvaluator{
		inner:   billing.DefaultRuleSet(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedEvaluator) Evaluate(ctx context.Context, lines []entity.CartLine) ([]entity.AutoDiscount, error) {
	if atomic.AddInt32(&g.calls, 1) == 1 {
		close(g.entered)
		<-g.release
	}
	return g.inner.Evaluate(ctx, lines)
}

type failingEvaluator struct{}

func (failingEvaluator) Evaluate(ctx context.Context, lines []entity.CartLine) ([]entity.AutoDiscount, error) {
	return nil, errors.New("promotion service unavailable")
}

type failingInvoiceRepository struct{}

func (failingInvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return errors.New("disk full")
}

func (failingInvoiceRepository) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return nil, nil
}

// recordingPrinter keeps every job it was sent
type recordingPrinter struct {
	mu   sync.Mutex
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(ctx context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

func (p *recordingPrinter) Close() error      { return nil }
func (p *recordingPrinter) IsConnected() bool { return p.err == nil }
