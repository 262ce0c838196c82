package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sangkips/billing-api/internal/domain/billing"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/money"
	"github.com/sangkips/billing-api/pkg/utils"
)

const (
	customerSearchMinLength = 3
	customerSearchLimit     = 10
)

// BillingOptions carries the store-level settings of the billing service
type BillingOptions struct {
	StoreID             string
	CollaboratorTimeout time.Duration
}

// BillingService drives the live cart of each workspace from first scan to invoice
type BillingService struct {
	workspaces  *WorkspaceRegistry
	catalog     repository.CatalogRepository
	customers   repository.CustomerRepository
	creditNotes repository.CreditNoteRepository
	invoices    repository.InvoiceRepository
	rules       billing.Evaluator
	storeID     string
	timeout     time.Duration
	now         func() time.Time
	log         *zap.Logger
}

// NewBillingService creates a new billing service
func NewBillingService(
	workspaces *WorkspaceRegistry,
	repos *repository.Repositories,
	rules billing.Evaluator,
	opts BillingOptions,
	log *zap.Logger,
) *BillingService {
	if opts.CollaboratorTimeout <= 0 {
		opts.CollaboratorTimeout = 3 * time.Second
	}
	return &BillingService{
		workspaces:  workspaces,
		catalog:     repos.Catalog,
		customers:   repos.Customers,
		creditNotes: repos.CreditNotes,
		invoices:    repos.Invoices,
		rules:       rules,
		storeID:     opts.StoreID,
		timeout:     opts.CollaboratorTimeout,
		now:         time.Now,
		log:         log,
	}
}

// CheckoutView is the payment screen state of a workspace
type CheckoutView struct {
	Cart        *entity.Cart         `json:"cart"`
	Payments    []entity.PaymentLine `json:"payments"`
	Payable     money.Amount         `json:"payable"`
	Paid        money.Amount         `json:"paid"`
	Remaining   money.Amount         `json:"remaining"`
	ChangeDue   money.Amount         `json:"change_due"`
	CanConfirm  bool                 `json:"can_confirm"`
	CreditNotes []entity.CreditNote  `json:"credit_notes"`
}

// PaymentInput is a payment line as entered at the till
type PaymentInput struct {
	Amount  money.Amount
	Details entity.PaymentDetails
}

func (s *BillingService) collaboratorContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// GetCart returns a snapshot of the workspace cart
func (s *BillingService) GetCart(ctx context.Context, wsID string, staff entity.Staff) *entity.Cart {
	ws := s.workspaces.Acquire(wsID, staff)
	defer ws.Unlock()
	return ws.cart.Clone()
}

// ScanBarcode resolves a barcode and adds one unit of the item to the cart
func (s *BillingService) ScanBarcode(ctx context.Context, wsID string, staff entity.Staff, barcode string) (*entity.Cart, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, apperror.NewFieldValidationError("barcode", "is required")
	}

	item, err := s.LookupBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	return s.mutateLines(ctx, wsID, staff, func(cart *entity.Cart) error {
		billing.AddItem(cart, *item)
		return nil
	})
}

// LookupBarcode resolves a barcode against the catalog
func (s *BillingService) LookupBarcode(ctx context.Context, barcode string) (*entity.CatalogItem, error) {
	cctx, cancel := s.collaboratorContext(ctx)
	defer cancel()

	item, err := s.catalog.GetByBarcode(cctx, barcode)
	if err != nil {
		return nil, apperror.NewCollaboratorError("Catalog lookup failed", err)
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	return item, nil
}

// ChangeQuantity adjusts a line by delta, stopping at 1
func (s *BillingService) ChangeQuantity(ctx context.Context, wsID string, staff entity.Staff, sku string, delta int) (*entity.Cart, error) {
	return s.mutateLines(ctx, wsID, staff, func(cart *entity.Cart) error {
		_, err := billing.ChangeQuantity(cart, sku, delta)
		return err
	})
}

// SetQuantity sets a line quantity. Zero removes the line.
func (s *BillingService) SetQuantity(ctx context.Context, wsID string, staff entity.Staff, sku string, qty int) (*entity.Cart, error) {
	return s.mutateLines(ctx, wsID, staff, func(cart *entity.Cart) error {
		_, err := billing.SetQuantity(cart, sku, qty)
		return err
	})
}

func (s *BillingService) RemoveLine(ctx context.Context, wsID string, staff entity.Staff, sku string) (*entity.Cart, error) {
	return s.mutateLines(ctx, wsID, staff, func(cart *entity.Cart) error {
		return billing.RemoveLine(cart, sku)
	})
}

// SetLineDiscount validates and applies a line discount. A nil input clears it.
func (s *BillingService) SetLineDiscount(ctx context.Context, wsID string, staff entity.Staff, sku string, input *billing.ManualDiscountInput) (*entity.Cart, error) {
	var discount *entity.ManualDiscount
	if input != nil {
		d, err := input.Build()
		if err != nil {
			return nil, err
		}
		discount = &d
	}
	return s.mutateLines(ctx, wsID, staff, func(cart *entity.Cart) error {
		return billing.SetLineDiscount(cart, sku, discount)
	})
}

func (s *BillingService) AddBillDiscount(ctx context.Context, wsID string, staff entity.Staff, input billing.ManualDiscountInput) (*entity.Cart, error) {
	discount, err := input.Build()
	if err != nil {
		return nil, err
	}
	return s.mutateCart(wsID, staff, func(cart *entity.Cart) error {
		billing.AddBillDiscount(cart, discount)
		return nil
	})
}

func (s *BillingService) RemoveBillDiscount(ctx context.Context, wsID string, staff entity.Staff, index int) (*entity.Cart, error) {
	return s.mutateCart(wsID, staff, func(cart *entity.Cart) error {
		return billing.RemoveBillDiscount(cart, index)
	})
}

// SetTaxes records the tax figure supplied by the caller
func (s *BillingService) SetTaxes(ctx context.Context, wsID string, staff entity.Staff, taxes money.Amount) (*entity.Cart, error) {
	return s.mutateCart(wsID, staff, func(cart *entity.Cart) error {
		return billing.SetTaxes(cart, taxes)
	})
}

// RefreshDiscounts re-evaluates the automatic discounts if they lag behind the lines
func (s *BillingService) RefreshDiscounts(ctx context.Context, wsID string, staff entity.Staff) (*entity.Cart, error) {
	ws := s.workspaces.Acquire(wsID, staff)
	if ws.cart.DiscountsFresh() {
		cart := ws.cart.Clone()
		ws.Unlock()
		return cart, nil
	}
	revision := ws.cart.Revision
	lines := entity.CloneLines(ws.cart.Lines)
	ws.Unlock()

	return s.evaluateDiscounts(ctx, wsID, staff, revision, lines)
}

// SearchCustomers finds customers by phone fragment or name prefix.
// Queries shorter than three characters return nothing.
func (s *BillingService) SearchCustomers(ctx context.Context, query string) ([]entity.Customer, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < customerSearchMinLength {
		return []entity.Customer{}, nil
	}

	cctx, cancel := s.collaboratorContext(ctx)
	defer cancel()

	customers, err := s.customers.Search(cctx, query, customerSearchLimit)
	if err != nil {
		return nil, apperror.NewCollaboratorError("Customer search failed", err)
	}
	return customers, nil
}

// SetCustomer attaches a customer to the cart, registering the phone if it is new
func (s *BillingService) SetCustomer(ctx context.Context, wsID string, staff entity.Staff, phone, name string) (*entity.Cart, error) {
	phone = strings.TrimSpace(phone)
	name = strings.TrimSpace(name)
	if phone == "" {
		return nil, apperror.NewFieldValidationError("phone", "is required")
	}

	cctx, cancel := s.collaboratorContext(ctx)
	defer cancel()

	customer, err := s.customers.GetByPhone(cctx, phone)
	if err != nil {
		return nil, apperror.NewCollaboratorError("Customer lookup failed", err)
	}
	if customer == nil {
		customer = &entity.Customer{Phone: phone, Name: name}
		if err := s.customers.Create(cctx, customer); err != nil {
			return nil, apperror.NewCollaboratorError("Failed to register customer", err)
		}
		s.log.Info("customer registered", zap.String("phone", phone))
	}

	attached := *customer
	return s.mutateCart(wsID, staff, func(cart *entity.Cart) error {
		cart.Customer = attached
		return nil
	})
}

// SetGuest marks the cart as a walk-in sale
func (s *BillingService) SetGuest(ctx context.Context, wsID string, staff entity.Staff) (*entity.Cart, error) {
	return s.mutateCart(wsID, staff, func(cart *entity.Cart) error {
		cart.Customer = entity.Customer{Phone: utils.GenerateGuestPhone(), Name: "Guest", IsGuest: true}
		return nil
	})
}

// BeginCheckout freezes the cart and opens a payment ledger for its payable total
func (s *BillingService) BeginCheckout(ctx context.Context, wsID string, staff entity.Staff) (*CheckoutView, error) {
	if _, err := s.RefreshDiscounts(ctx, wsID, staff); err != nil {
		return nil, err
	}

	ws := s.workspaces.Acquire(wsID, staff)
	defer ws.Unlock()

	if err := ws.requireOpen(); err != nil {
		return nil, err
	}
	if len(ws.cart.Lines) == 0 {
		return nil, apperror.NewStateError("Cart is empty")
	}
	if !ws.cart.DiscountsFresh() {
		return nil, apperror.NewStateError("Automatic discounts are not up to date, try again")
	}

	var notes []entity.CreditNote
	if customerID := ws.cart.Customer.ID(); customerID != "" {
		cctx, cancel := s.collaboratorContext(ctx)
		defer cancel()

		var err error
		notes, err = s.creditNotes.ListRedeemable(cctx, customerID, s.now())
		if err != nil {
			return nil, apperror.NewCollaboratorError("Failed to load credit notes", err)
		}
	}

	billing.Recalculate(ws.cart)
	ws.ledger = billing.NewLedger(ws.cart.TotalPayable, notes)
	ws.cart.Status = enum.CartStatusCheckingOut

	s.log.Info("checkout started",
		zap.String("workspace", wsID),
		zap.String("cart_id", ws.cart.ID),
		zap.Stringer("payable", ws.cart.TotalPayable),
		zap.Int("credit_notes", len(notes)),
	)
	return s.view(ws), nil
}

// CancelCheckout returns the cart to Open and discards any payment lines
func (s *BillingService) CancelCheckout(ctx context.Context, wsID string, staff entity.Staff) (*entity.Cart, error) {
	ws := s.workspaces.Acquire(wsID, staff)
	defer ws.Unlock()

	if err := ws.requireCheckout(); err != nil {
		return nil, err
	}
	ws.cart.Status = enum.CartStatusOpen
	ws.ledger = nil
	return ws.cart.Clone(), nil
}

// GetCheckout returns the payment screen state
func (s *BillingService) GetCheckout(ctx context.Context, wsID string, staff entity.Staff) (*CheckoutView, error) {
	return s.withLedger(wsID, staff, func(*Workspace) error { return nil })
}

// ListCreditNotes returns the customer's notes that can pay for this checkout
func (s *BillingService) ListCreditNotes(ctx context.Context, wsID string, staff entity.Staff) ([]entity.CreditNote, error) {
	view, err := s.GetCheckout(ctx, wsID, staff)
	if err != nil {
		return nil, err
	}
	return view.CreditNotes, nil
}

// QuoteCreditNotes proposes a payment amount for the selected notes without debiting them
func (s *BillingService) QuoteCreditNotes(ctx context.Context, wsID string, staff entity.Staff, noteIDs []string) (money.Amount, error) {
	var quote money.Amount
	_, err := s.withLedger(wsID, staff, func(ws *Workspace) error {
		var err error
		quote, err = ws.ledger.QuoteCreditNotes(noteIDs)
		return err
	})
	return quote, err
}

func (s *BillingService) AddPayment(ctx context.Context, wsID string, staff entity.Staff, input PaymentInput) (*CheckoutView, error) {
	return s.withLedger(wsID, staff, func(ws *Workspace) error {
		_, err := ws.ledger.AddLine(input.Amount, input.Details)
		return err
	})
}

// EditPayment replaces a payment line. The line does not count against its own ceiling.
func (s *BillingService) EditPayment(ctx context.Context, wsID string, staff entity.Staff, index int, input PaymentInput) (*CheckoutView, error) {
	return s.withLedger(wsID, staff, func(ws *Workspace) error {
		_, err := ws.ledger.EditLine(index, input.Amount, input.Details)
		return err
	})
}

func (s *BillingService) RemovePayment(ctx context.Context, wsID string, staff entity.Staff, index int) (*CheckoutView, error) {
	return s.withLedger(wsID, staff, func(ws *Workspace) error {
		return ws.ledger.RemoveLine(index)
	})
}

// Confirm settles the checkout: credit notes are debited, the invoice is written,
// and the workspace moves on to a fresh cart. Nothing changes if any step fails.
func (s *BillingService) Confirm(ctx context.Context, wsID string, staff entity.Staff) (*entity.Invoice, error) {
	ws := s.workspaces.Acquire(wsID, staff)
	defer ws.Unlock()

	if err := ws.requireCheckout(); err != nil {
		return nil, err
	}

	payments, redemptions, err := ws.ledger.Settle()
	if err != nil {
		return nil, err
	}

	debits := make(map[string]money.Amount, len(redemptions))
	for _, r := range redemptions {
		debits[r.NoteID] += r.Amount
	}

	cctx, cancel := s.collaboratorContext(ctx)
	defer cancel()

	if len(debits) > 0 {
		failedIDs, err := s.creditNotes.DebitBatch(cctx, debits, s.now())
		if err != nil {
			return nil, apperror.NewCollaboratorError("Failed to redeem credit notes", err)
		}
		if len(failedIDs) > 0 {
			sort.Strings(failedIDs)
			return nil, apperror.NewStateErrorf("Credit notes can no longer cover the payment: %s", strings.Join(failedIDs, ", "))
		}
	}

	cart := ws.cart
	invoice := &entity.Invoice{
		InvoiceNo:           utils.GenerateInvoiceNo(),
		StoreID:             s.storeID,
		CartID:              cart.ID,
		CustomerID:          cart.Customer.ID(),
		Customer:            cart.Customer,
		StaffID:             cart.Staff.ID,
		Staff:               entity.Staff{ID: cart.Staff.ID, Name: cart.Staff.Name},
		Lines:               entity.CloneLines(cart.Lines),
		AutoDiscounts:       append([]entity.AutoDiscount{}, cart.AutoDiscounts...),
		BillManualDiscounts: append([]entity.ManualDiscount{}, cart.BillManualDiscounts...),
		Payments:            payments,
		Totals: entity.InvoiceTotals{
			Subtotal:  cart.Subtotal,
			Discounts: cart.TotalDiscount,
			Taxes:     cart.Taxes,
			Payable:   cart.TotalPayable,
		},
		ChangeDue: ws.ledger.ChangeDue(),
		CreatedAt: s.now(),
	}

	if err := s.invoices.Create(cctx, invoice); err != nil {
		// Restore credit note balances on failure
		if len(debits) > 0 {
			if rerr := s.creditNotes.CreditBatch(context.WithoutCancel(ctx), debits); rerr != nil {
				s.log.Error("failed to restore credit notes after invoice failure",
					zap.String("cart_id", cart.ID),
					zap.Error(rerr),
				)
			}
		}
		return nil, apperror.NewCollaboratorError("Failed to create invoice", err)
	}

	cart.Status = enum.CartStatusPaid
	s.log.Info("checkout confirmed",
		zap.String("workspace", wsID),
		zap.String("cart_id", cart.ID),
		zap.String("invoice_no", invoice.InvoiceNo),
		zap.Stringer("payable", invoice.Totals.Payable),
		zap.Int("payments", len(payments)),
	)
	ws.reset(staff)
	return invoice, nil
}

// GetInvoice retrieves a confirmed invoice
func (s *BillingService) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	cctx, cancel := s.collaboratorContext(ctx)
	defer cancel()

	invoice, err := s.invoices.GetByID(cctx, id)
	if err != nil {
		return nil, apperror.NewCollaboratorError("Failed to load invoice", err)
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// mutateCart applies fn to an open cart. fn must leave the cart untouched when it fails.
func (s *BillingService) mutateCart(wsID string, staff entity.Staff, fn func(*entity.Cart) error) (*entity.Cart, error) {
	ws := s.workspaces.Acquire(wsID, staff)
	defer ws.Unlock()

	if err := ws.requireOpen(); err != nil {
		return nil, err
	}
	if err := fn(ws.cart); err != nil {
		return nil, err
	}
	billing.Recalculate(ws.cart)
	return ws.cart.Clone(), nil
}

// mutateLines applies a line change and then re-evaluates the automatic discounts
// against the resulting lines.
func (s *BillingService) mutateLines(ctx context.Context, wsID string, staff entity.Staff, fn func(*entity.Cart) error) (*entity.Cart, error) {
	ws := s.workspaces.Acquire(wsID, staff)
	if err := ws.requireOpen(); err != nil {
		ws.Unlock()
		return nil, err
	}
	if err := fn(ws.cart); err != nil {
		ws.Unlock()
		return nil, err
	}
	if ws.cart.DiscountsFresh() {
		cart := ws.cart.Clone()
		ws.Unlock()
		return cart, nil
	}
	revision := ws.cart.Revision
	lines := entity.CloneLines(ws.cart.Lines)
	ws.Unlock()

	return s.evaluateDiscounts(ctx, wsID, staff, revision, lines)
}

// evaluateDiscounts runs the rule set outside the workspace lock. A result computed
// for an older revision is discarded. The line change is already committed, so a
// failed evaluation is logged and leaves the discounts pending.
func (s *BillingService) evaluateDiscounts(ctx context.Context, wsID string, staff entity.Staff, revision uint64, lines []entity.CartLine) (*entity.Cart, error) {
	cctx, cancel := s.collaboratorContext(ctx)
	discounts, err := s.rules.Evaluate(cctx, lines)
	cancel()

	ws := s.workspaces.Acquire(wsID, staff)
	defer ws.Unlock()

	if err != nil {
		s.log.Warn("auto discount evaluation failed",
			zap.String("workspace", wsID),
			zap.Uint64("revision", revision),
			zap.Error(err),
		)
		return ws.cart.Clone(), nil
	}
	if !billing.ApplyAutoDiscounts(ws.cart, revision, discounts) {
		s.log.Debug("discarded stale auto discounts",
			zap.String("workspace", wsID),
			zap.Uint64("evaluated", revision),
			zap.Uint64("current", ws.cart.Revision),
		)
	}
	return ws.cart.Clone(), nil
}

func (s *BillingService) withLedger(wsID string, staff entity.Staff, fn func(*Workspace) error) (*CheckoutView, error) {
	ws := s.workspaces.Acquire(wsID, staff)
	defer ws.Unlock()

	if err := ws.requireCheckout(); err != nil {
		return nil, err
	}
	if err := fn(ws); err != nil {
		return nil, err
	}
	return s.view(ws), nil
}

func (s *BillingService) view(ws *Workspace) *CheckoutView {
	l := ws.ledger
	return &CheckoutView{
		Cart:        ws.cart.Clone(),
		Payments:    l.Lines(),
		Payable:     l.Payable(),
		Paid:        l.Paid(),
		Remaining:   l.Remaining(),
		ChangeDue:   l.ChangeDue(),
		CanConfirm:  l.CanConfirm(),
		CreditNotes: l.CreditNotes(),
	}
}

