package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/domain/inventory"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación en memoria de repository.MaterialRepository.
type MaterialRepo struct {
	s *Store
}

func (r *MaterialRepo) Create(_ context.Context, m *entity.Material, opening *entity.ImportEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.materials {
		if rec.material.CompanyID == m.CompanyID && rec.material.Name == m.Name {
			return domain.ErrDuplicate
		}
	}
	rec := &materialRecord{material: *m}
	if opening != nil {
		rec.imports = append(rec.imports, copyImport(*opening))
	}
	r.s.materials[m.ID] = rec
	r.s.matOrder = append(r.s.matOrder, m.ID)
	return nil
}

func (r *MaterialRepo) GetByID(_ context.Context, companyID, id string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec := r.find(companyID, id)
	if rec == nil {
		return nil, nil
	}
	m := rec.material
	return &m, nil
}

func (r *MaterialRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Material, 0)
	for _, id := range r.s.matOrder {
		rec, ok := r.s.materials[id]
		if ok && rec.material.CompanyID == companyID {
			m := rec.material
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r *MaterialRepo) Update(_ context.Context, m *entity.Material, stock *decimal.Decimal) (*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec := r.find(m.CompanyID, m.ID)
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	for id, other := range r.s.materials {
		if id != m.ID && other.material.CompanyID == m.CompanyID && other.material.Name == m.Name {
			return nil, domain.ErrDuplicate
		}
	}
	current := rec.material.Stock
	rec.material = *m
	rec.material.Stock = current
	if stock != nil {
		imp, use := inventory.CorrectionEntry(m.ID, current, *stock, m.UpdatedAt, m.LastModifiedBy)
		switch {
		case imp != nil:
			rec.imports = append(rec.imports, *imp)
		case use != nil:
			rec.usages = append(rec.usages, *use)
		}
		rec.material.Stock = *stock
	}
	out := rec.material
	return &out, nil
}

func (r *MaterialRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.find(companyID, id) == nil {
		return domain.ErrNotFound
	}
	delete(r.s.materials, id)
	for i, mid := range r.s.matOrder {
		if mid == id {
			r.s.matOrder = append(r.s.matOrder[:i], r.s.matOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MaterialRepo) GetLedger(_ context.Context, companyID, materialID string) (*entity.MaterialLedger, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec := r.find(companyID, materialID)
	if rec == nil {
		return nil, nil
	}
	m := rec.material
	ledger := &entity.MaterialLedger{
		Material: &m,
		Imports:  make([]entity.ImportEntry, 0, len(rec.imports)),
		Usages:   make([]entity.UsageEntry, 0, len(rec.usages)),
	}
	for _, e := range rec.imports {
		ledger.Imports = append(ledger.Imports, copyImport(e))
	}
	ledger.Usages = append(ledger.Usages, rec.usages...)
	return ledger, nil
}

func (r *MaterialRepo) AppendImport(_ context.Context, companyID, materialID string, e *entity.ImportEntry) (*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec := r.find(companyID, materialID)
	if rec == nil {
		return nil, fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
	}
	rec.imports = append(rec.imports, copyImport(*e))
	rec.material.Stock = rec.material.Stock.Add(e.Quantity)
	touch(&rec.material, e.CreatedBy, e.CreatedAt)
	m := rec.material
	return &m, nil
}

func (r *MaterialRepo) AppendUsage(_ context.Context, companyID, materialID string, e *entity.UsageEntry) (*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec := r.find(companyID, materialID)
	if rec == nil {
		return nil, fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
	}
	if rec.material.Stock.LessThan(e.Quantity) {
		return nil, domain.ErrInsufficientStock
	}
	rec.usages = append(rec.usages, *e)
	rec.material.Stock = rec.material.Stock.Sub(e.Quantity)
	touch(&rec.material, e.CreatedBy, e.CreatedAt)
	m := rec.material
	return &m, nil
}

func (r *MaterialRepo) RemoveImport(_ context.Context, companyID, materialID, entryID string, adjustStock bool, modifiedBy string) (*entity.ImportEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec := r.find(companyID, materialID)
	if rec == nil {
		return nil, fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
	}
	for i, e := range rec.imports {
		if e.ID != entryID {
			continue
		}
		if adjustStock {
			if rec.material.Stock.LessThan(e.Quantity) {
				return nil, domain.ErrInsufficientStock
			}
			rec.material.Stock = rec.material.Stock.Sub(e.Quantity)
		}
		rec.imports = append(rec.imports[:i:i], rec.imports[i+1:]...)
		touch(&rec.material, modifiedBy, time.Now())
		return &e, nil
	}
	return nil, fmt.Errorf("entrada %s: %w", entryID, domain.ErrNotFound)
}

func (r *MaterialRepo) RemoveUsage(_ context.Context, companyID, materialID, entryID string, adjustStock bool, modifiedBy string) (*entity.UsageEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec := r.find(companyID, materialID)
	if rec == nil {
		return nil, fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
	}
	for i, e := range rec.usages {
		if e.ID != entryID {
			continue
		}
		if adjustStock {
			rec.material.Stock = rec.material.Stock.Add(e.Quantity)
		}
		rec.usages = append(rec.usages[:i:i], rec.usages[i+1:]...)
		touch(&rec.material, modifiedBy, time.Now())
		return &e, nil
	}
	return nil, fmt.Errorf("salida %s: %w", entryID, domain.ErrNotFound)
}

func (r *MaterialRepo) ListImportHistory(_ context.Context, companyID string, f repository.HistoryFilter) ([]repository.ImportHistoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]repository.ImportHistoryItem, 0)
	for _, id := range r.s.matOrder {
		rec := r.s.materials[id]
		if rec.material.CompanyID != companyID {
			continue
		}
		for _, e := range rec.imports {
			if inFilter(e.Date, f) {
				out = append(out, repository.ImportHistoryItem{
					MaterialID: id, MaterialName: rec.material.Name, Unit: rec.material.Unit, Entry: copyImport(e),
				})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Entry.Date.After(out[j].Entry.Date) })
	return out, nil
}

func (r *MaterialRepo) ListUsageHistory(_ context.Context, companyID string, f repository.HistoryFilter) ([]repository.UsageHistoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]repository.UsageHistoryItem, 0)
	for _, id := range r.s.matOrder {
		rec := r.s.materials[id]
		if rec.material.CompanyID != companyID {
			continue
		}
		for _, e := range rec.usages {
			if inFilter(e.Date, f) {
				out = append(out, repository.UsageHistoryItem{
					MaterialID: id, MaterialName: rec.material.Name, Unit: rec.material.Unit, Entry: e,
				})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Entry.Date.After(out[j].Entry.Date) })
	return out, nil
}

func (r *MaterialRepo) find(companyID, id string) *materialRecord {
	rec, ok := r.s.materials[id]
	if !ok || rec.material.CompanyID != companyID {
		return nil
	}
	return rec
}

func touch(m *entity.Material, by string, at time.Time) {
	m.LastModifiedBy = by
	m.LastModifiedAt = &at
	m.UpdatedAt = at
}

func copyImport(e entity.ImportEntry) entity.ImportEntry {
	if e.UnitPrice != nil {
		p := *e.UnitPrice
		e.UnitPrice = &p
	}
	return e
}

func inFilter(t time.Time, f repository.HistoryFilter) bool {
	if f.From != nil && t.Before(*f.From) {
		return false
	}
	if f.To != nil && t.After(*f.To) {
		return false
	}
	return true
}
