package repository

import (
	"context"

	"github.com/jhoicas/Magacin-api/internal/domain/entity"
)

// MaterialOrderView pedido con el nombre del material resuelto.
type MaterialOrderView struct {
	Order        *entity.MaterialOrder
	MaterialName string
	Unit         string
}

// MaterialOrderRepository define el puerto de persistencia para pedidos de material.
type MaterialOrderRepository interface {
	Create(ctx context.Context, order *entity.MaterialOrder) error
	GetByID(ctx context.Context, companyID, id string) (*entity.MaterialOrder, error)
	// ListByCompany ordena por order_date descendente.
	ListByCompany(ctx context.Context, companyID string) ([]MaterialOrderView, error)
	Update(ctx context.Context, order *entity.MaterialOrder) error
	Delete(ctx context.Context, companyID, id string) error
}
