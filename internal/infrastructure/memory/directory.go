package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
)

type customerRepository struct {
	mu        sync.RWMutex
	customers map[string]entity.Customer
}

// NewCustomerRepository creates an in-memory customer directory
func NewCustomerRepository(customers []entity.Customer) domainRepo.CustomerRepository {
	r := &customerRepository{customers: make(map[string]entity.Customer, len(customers))}
	for _, c := range customers {
		r.customers[c.Phone] = c
	}
	return r
}

func (r *customerRepository) Search(ctx context.Context, query string, limit int) ([]entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var out []entity.Customer
	for _, c := range r.customers {
		if strings.Contains(c.Phone, query) || strings.HasPrefix(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Phone < out[j].Phone })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[phone]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.Phone] = *customer
	return nil
}

type staffRepository struct {
	staff map[string]entity.Staff
}

// NewStaffRepository creates an in-memory staff directory. Staff must carry a PIN hash.
func NewStaffRepository(staff []entity.Staff) domainRepo.StaffRepository {
	r := &staffRepository{staff: make(map[string]entity.Staff, len(staff))}
	for _, s := range staff {
		r.staff[s.ID] = s
	}
	return r
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*entity.Staff, error) {
	s, ok := r.staff[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}
