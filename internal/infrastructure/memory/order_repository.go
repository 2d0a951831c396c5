package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

var _ repository.MaterialOrderRepository = (*MaterialOrderRepo)(nil)

// MaterialOrderRepo implementación en memoria de repository.MaterialOrderRepository.
type MaterialOrderRepo struct {
	s *Store
}

func (r *MaterialOrderRepo) Create(_ context.Context, o *entity.MaterialOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[o.ID] = *o
	return nil
}

func (r *MaterialOrderRepo) GetByID(_ context.Context, companyID, id string) (*entity.MaterialOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok || o.CompanyID != companyID {
		return nil, nil
	}
	return &o, nil
}

func (r *MaterialOrderRepo) ListByCompany(_ context.Context, companyID string) ([]repository.MaterialOrderView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]repository.MaterialOrderView, 0)
	for _, o := range r.s.orders {
		if o.CompanyID != companyID {
			continue
		}
		o := o
		v := repository.MaterialOrderView{Order: &o}
		if rec, ok := r.s.materials[o.MaterialID]; ok {
			v.MaterialName = rec.material.Name
			v.Unit = rec.material.Unit
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Order, out[j].Order
		if !a.OrderDate.Equal(b.OrderDate) {
			return a.OrderDate.After(b.OrderDate)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r *MaterialOrderRepo) Update(_ context.Context, o *entity.MaterialOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.orders[o.ID]
	if !ok || existing.CompanyID != o.CompanyID {
		return domain.ErrNotFound
	}
	r.s.orders[o.ID] = *o
	return nil
}

func (r *MaterialOrderRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.orders[id]
	if !ok || existing.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.orders, id)
	return nil
}
