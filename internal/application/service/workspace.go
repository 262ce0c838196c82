package service

import (
	"sync"

	"github.com/sangkips/billing-api/internal/domain/billing"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/apperror"
)

// Workspace is one billing till. It owns exactly one live cart and,
// while checking out, the payment ledger for that cart.
type Workspace struct {
	mu     sync.Mutex
	id     string
	cart   *entity.Cart
	ledger *billing.Ledger
}

// ID returns the workspace identifier
func (w *Workspace) ID() string {
	return w.id
}

// attribute hands an untouched cart to the operator now at the till
func (w *Workspace) attribute(staff entity.Staff) {
	if staff.ID == "" || w.cart.Staff.ID == staff.ID {
		return
	}
	if w.cart.Status == enum.CartStatusOpen && len(w.cart.Lines) == 0 && len(w.cart.BillManualDiscounts) == 0 {
		w.cart.Staff = staff
	}
}

func (w *Workspace) requireOpen() error {
	if w.cart.Status != enum.CartStatusOpen {
		return apperror.NewStateErrorf("Cart is %s; cancel checkout before changing it", w.cart.Status)
	}
	return nil
}

func (w *Workspace) requireCheckout() error {
	if w.cart.Status != enum.CartStatusCheckingOut || w.ledger == nil {
		return apperror.NewStateError("Checkout has not been started")
	}
	return nil
}

// reset starts a fresh cart for staff and drops any ledger
func (w *Workspace) reset(staff entity.Staff) {
	w.cart = entity.NewCart(staff)
	w.ledger = nil
}

// WorkspaceRegistry holds the live workspaces of this process
type WorkspaceRegistry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewWorkspaceRegistry creates an empty registry
func NewWorkspaceRegistry() *WorkspaceRegistry {
	return &WorkspaceRegistry{workspaces: make(map[string]*Workspace)}
}

// Acquire returns the workspace for id, creating it with an empty cart for staff,
// and locks it. The caller must call Unlock on the returned workspace.
func (r *WorkspaceRegistry) Acquire(id string, staff entity.Staff) *Workspace {
	r.mu.Lock()
	ws, ok := r.workspaces[id]
	if !ok {
		ws = &Workspace{id: id, cart: entity.NewCart(staff)}
		r.workspaces[id] = ws
	}
	r.mu.Unlock()

	ws.mu.Lock()
	ws.attribute(staff)
	return ws
}

// Unlock releases a workspace obtained from Acquire
func (w *Workspace) Unlock() {
	w.mu.Unlock()
}
