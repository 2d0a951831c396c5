package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/domain/inventory"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

// OrderUseCase pedidos de material a proveedores.
type OrderUseCase struct {
	repo         repository.MaterialOrderRepository
	materialRepo repository.MaterialRepository
	loc          *time.Location
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(repo repository.MaterialOrderRepository, materialRepo repository.MaterialRepository, loc *time.Location) *OrderUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderUseCase{repo: repo, materialRepo: materialRepo, loc: loc}
}

// Create registra un pedido de un material de la empresa.
func (uc *OrderUseCase) Create(ctx context.Context, rc dto.RequestContext, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := validateOrderAmounts(in.Quantity, in.Price); err != nil {
		return nil, err
	}
	material, err := uc.material(ctx, rc, in.MaterialID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	orderDate, err := inventory.ParseEntryDate(in.OrderDate, uc.loc, now)
	if err != nil {
		return nil, err
	}
	o := &entity.MaterialOrder{
		ID:             uuid.NewString(),
		CompanyID:      rc.CompanyID,
		MaterialID:     material.ID,
		Quantity:       in.Quantity,
		Price:          in.Price,
		OrderDate:      orderDate,
		LastModifiedBy: rc.Email,
		LastModifiedAt: &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(repository.MaterialOrderView{Order: o, MaterialName: material.Name, Unit: material.Unit})
	return &resp, nil
}

// List pedidos de la empresa, del más reciente al más antiguo.
func (uc *OrderUseCase) List(ctx context.Context, rc dto.RequestContext) ([]dto.OrderResponse, error) {
	views, err := uc.repo.ListByCompany(ctx, rc.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(views))
	for _, v := range views {
		out = append(out, dto.NewOrderResponse(v))
	}
	return out, nil
}

// Update aplica el patch y deja constancia de quién lo modificó.
func (uc *OrderUseCase) Update(ctx context.Context, rc dto.RequestContext, id string, in dto.OrderPatch) (*dto.OrderResponse, error) {
	o, err := uc.repo.GetByID(ctx, rc.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if in.Quantity != nil {
		o.Quantity = *in.Quantity
	}
	if in.Price != nil {
		o.Price = *in.Price
	}
	if err := validateOrderAmounts(o.Quantity, o.Price); err != nil {
		return nil, err
	}
	if in.MaterialID != nil {
		o.MaterialID = *in.MaterialID
	}
	material, err := uc.material(ctx, rc, o.MaterialID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if in.OrderDate != nil {
		if o.OrderDate, err = inventory.ParseEntryDate(*in.OrderDate, uc.loc, now); err != nil {
			return nil, err
		}
	}
	o.LastModifiedBy = rc.Email
	o.LastModifiedAt = &now
	o.UpdatedAt = now
	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	resp := dto.NewOrderResponse(repository.MaterialOrderView{Order: o, MaterialName: material.Name, Unit: material.Unit})
	return &resp, nil
}

// Delete elimina un pedido de la empresa.
func (uc *OrderUseCase) Delete(ctx context.Context, rc dto.RequestContext, id string) error {
	return uc.repo.Delete(ctx, rc.CompanyID, id)
}

func (uc *OrderUseCase) material(ctx context.Context, rc dto.RequestContext, id string) (*entity.Material, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: material_id es obligatorio", domain.ErrInvalidInput)
	}
	m, err := uc.materialRepo.GetByID(ctx, rc.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("material %s: %w", id, domain.ErrNotFound)
	}
	return m, nil
}

func validateOrderAmounts(qty, price decimal.Decimal) error {
	if !qty.IsPositive() {
		return fmt.Errorf("%w: quantity debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	}
	if err := inventory.CheckAmount("quantity", qty); err != nil {
		return err
	}
	return inventory.CheckAmount("price", price)
}
