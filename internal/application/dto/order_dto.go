package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/material-orders.
type CreateOrderRequest struct {
	MaterialID string          `json:"material_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	OrderDate  string          `json:"order_date" validate:"omitempty,max=40"` // vacío = ahora
}

// OrderPatch body para PUT /api/material-orders/:id. Campos nil = sin cambio.
type OrderPatch struct {
	MaterialID *string          `json:"material_id" validate:"omitempty,min=1"`
	Quantity   *decimal.Decimal `json:"quantity"`
	Price      *decimal.Decimal `json:"price"`
	OrderDate  *string          `json:"order_date" validate:"omitempty,max=40"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID             string          `json:"id"`
	MaterialID     string          `json:"material_id"`
	MaterialName   string          `json:"material,omitempty"`
	Unit           string          `json:"unit,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Total          decimal.Decimal `json:"total"`
	OrderDate      time.Time       `json:"order_date"`
	LastModifiedBy string          `json:"last_modified_by,omitempty"`
	LastModifiedAt *time.Time      `json:"last_modified_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
