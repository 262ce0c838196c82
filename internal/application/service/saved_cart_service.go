package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sangkips/billing-api/internal/domain/billing"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/pagination"
)

const defaultSavedCartTTL = 48 * time.Hour

// SavedCartService parks carts for later and brings them back into a workspace
type SavedCartService struct {
	workspaces *WorkspaceRegistry
	billing    *BillingService
	savedCarts repository.SavedCartRepository
	catalog    repository.CatalogRepository
	storeID    string
	ttl        time.Duration
	timeout    time.Duration
	now        func() time.Time
	log        *zap.Logger
}

// NewSavedCartService creates a new saved cart service. It shares the workspace
// registry of billingService so resumed carts land in the live workspace.
func NewSavedCartService(
	billingService *BillingService,
	repos *repository.Repositories,
	ttl time.Duration,
	log *zap.Logger,
) *SavedCartService {
	if ttl <= 0 {
		ttl = defaultSavedCartTTL
	}
	return &SavedCartService{
		workspaces: billingService.workspaces,
		billing:    billingService,
		savedCarts: repos.SavedCarts,
		catalog:    repos.Catalog,
		storeID:    billingService.storeID,
		ttl:        ttl,
		timeout:    billingService.timeout,
		now:        time.Now,
		log:        log,
	}
}

// ListSavedCartsInput represents the saved cart list filters
type ListSavedCartsInput struct {
	StaffID    string
	Status     *enum.SavedCartStatus
	Search     string
	Pagination *pagination.PaginationParams
}

// ResumeResult is the outcome of bringing a saved cart back into a workspace
type ResumeResult struct {
	Cart             *entity.Cart             `json:"cart"`
	RepricingChanges []entity.RepricingChange `json:"repricing_changes"`
	ExpiredWarning   bool                     `json:"expired_warning"`
}

// Save snapshots the workspace cart into the saved pool and clears the workspace
func (s *SavedCartService) Save(ctx context.Context, wsID string, staff entity.Staff, label string) (*entity.SavedCart, error) {
	ws := s.workspaces.Acquire(wsID, staff)
	defer ws.Unlock()

	if err := ws.requireOpen(); err != nil {
		return nil, err
	}
	if len(ws.cart.Lines) == 0 {
		return nil, apperror.NewStateError("Cannot save an empty cart")
	}

	now := s.now()
	label = strings.TrimSpace(label)
	if label == "" {
		label = fmt.Sprintf("Cart %d", now.UnixMilli())
	}
	expiresAt := now.Add(s.ttl)

	cart := ws.cart
	saved := &entity.SavedCart{
		Label:               label,
		StoreID:             s.storeID,
		CreatedByID:         cart.Staff.ID,
		CreatedBy:           entity.Staff{ID: cart.Staff.ID, Name: cart.Staff.Name},
		Status:              enum.SavedCartStatusSaved,
		Customer:            cart.Customer,
		Lines:               entity.CloneLines(cart.Lines),
		SubtotalAtSave:      billing.Subtotal(cart.Lines),
		BillManualDiscounts: append([]entity.ManualDiscount{}, cart.BillManualDiscounts...),
		DeviceID:            wsID,
		CreatedAt:           now,
		UpdatedAt:           now,
		ExpiresAt:           &expiresAt,
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.savedCarts.Create(cctx, saved); err != nil {
		return nil, apperror.NewCollaboratorError("Failed to save cart", err)
	}

	s.log.Info("cart saved",
		zap.String("workspace", wsID),
		zap.String("saved_cart_id", saved.ID),
		zap.Stringer("subtotal", saved.SubtotalAtSave),
	)
	ws.reset(staff)
	return saved, nil
}

// List returns saved carts of the store, newest first
func (s *SavedCartService) List(ctx context.Context, input *ListSavedCartsInput) (*pagination.PaginatedResult[entity.SavedCart], error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	input.Pagination.Validate()

	params := &repository.SavedCartFilterParams{
		Pagination: input.Pagination,
		StoreID:    s.storeID,
		StaffID:    input.StaffID,
		Status:     input.Status,
		Search:     strings.TrimSpace(input.Search),
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	carts, total, err := s.savedCarts.List(cctx, params)
	if err != nil {
		return nil, apperror.NewCollaboratorError("Failed to list saved carts", err)
	}

	return pagination.NewPaginatedResult(carts, pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)), nil
}

// Resume reprices a saved cart against the current catalog and makes it the
// workspace cart. The workspace must hold an empty open cart. The saved cart
// leaves the pool once resumed.
func (s *SavedCartService) Resume(ctx context.Context, wsID string, staff entity.Staff, savedCartID string) (*ResumeResult, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	saved, err := s.savedCarts.GetByID(cctx, savedCartID)
	if err != nil {
		return nil, apperror.NewCollaboratorError("Failed to load saved cart", err)
	}
	if saved == nil {
		return nil, apperror.NewNotFoundError("Saved cart")
	}
	if saved.Status == enum.SavedCartStatusLocked {
		return nil, apperror.NewStateError("Saved cart is locked")
	}
	expired := saved.IsExpired(s.now())

	skus := make([]string, len(saved.Lines))
	for i, line := range saved.Lines {
		skus[i] = line.SKU
	}
	items, err := s.catalog.GetBySKUs(cctx, skus)
	if err != nil {
		return nil, apperror.NewCollaboratorError("Failed to load current prices", err)
	}
	current := make(map[string]entity.CatalogItem, len(items))
	for _, item := range items {
		current[item.SKU] = item
	}
	lines, changes := billing.Reprice(saved.Lines, current)

	ws := s.workspaces.Acquire(wsID, staff)
	if err := ws.requireOpen(); err != nil {
		ws.Unlock()
		return nil, err
	}
	if !ws.cart.IsBlank() {
		ws.Unlock()
		return nil, apperror.NewStateError("Workspace already has a cart in progress; save or clear it first")
	}

	deleted, err := s.savedCarts.Delete(cctx, saved.ID)
	if err != nil {
		ws.Unlock()
		return nil, apperror.NewCollaboratorError("Failed to remove saved cart", err)
	}
	if !deleted {
		ws.Unlock()
		return nil, apperror.NewNotFoundError("Saved cart")
	}

	owner := saved.CreatedBy
	if owner.ID == "" {
		owner = staff
	}
	cart := entity.NewCart(owner)
	cart.Customer = saved.Customer
	cart.Lines = lines
	cart.BillManualDiscounts = append([]entity.ManualDiscount{}, saved.BillManualDiscounts...)
	// auto discounts are never carried over; mark them pending
	cart.Revision = 1
	billing.Recalculate(cart)
	ws.cart = cart
	ws.ledger = nil
	revision := cart.Revision
	snapshot := entity.CloneLines(cart.Lines)
	ws.Unlock()

	if expired {
		s.log.Warn("resumed an expired saved cart",
			zap.String("workspace", wsID),
			zap.String("saved_cart_id", saved.ID),
		)
	}
	s.log.Info("cart resumed",
		zap.String("workspace", wsID),
		zap.String("saved_cart_id", saved.ID),
		zap.Int("repricing_changes", len(changes)),
	)

	resumed, err := s.billing.evaluateDiscounts(ctx, wsID, staff, revision, snapshot)
	if err != nil {
		return nil, err
	}
	if changes == nil {
		changes = []entity.RepricingChange{}
	}
	return &ResumeResult{Cart: resumed, RepricingChanges: changes, ExpiredWarning: expired}, nil
}

// Delete removes a saved cart from the pool
func (s *SavedCartService) Delete(ctx context.Context, id string) error {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.savedCarts.Delete(cctx, id)
	if err != nil {
		return apperror.NewCollaboratorError("Failed to delete saved cart", err)
	}
	if !deleted {
		return apperror.NewNotFoundError("Saved cart")
	}
	s.log.Info("saved cart deleted", zap.String("saved_cart_id", id))
	return nil
}

// ExpireStale moves saved carts past their expiry to Expired
func (s *SavedCartService) ExpireStale(ctx context.Context) (int64, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.savedCarts.ExpireBefore(cctx, s.now())
	if err != nil {
		return 0, apperror.NewCollaboratorError("Failed to expire saved carts", err)
	}
	if n > 0 {
		s.log.Info("saved carts expired", zap.Int64("count", n))
	}
	return n, nil
}

// ScheduleExpirySweep registers the expiry sweep on c on the given cron schedule
func (s *SavedCartService) ScheduleExpirySweep(c *cron.Cron, schedule string) error {
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.ExpireStale(context.Background()); err != nil {
			s.log.Error("saved cart expiry sweep failed", zap.Error(err))
		}
	})
	return err
}
