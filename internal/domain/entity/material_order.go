package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialOrder es un pedido de compra de un material a proveedor.
type MaterialOrder struct {
	ID             string
	CompanyID      string
	MaterialID     string
	Quantity       decimal.Decimal
	Price          decimal.Decimal // EUR por unidad acordado
	OrderDate      time.Time
	LastModifiedBy string
	LastModifiedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
