package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordImportRequest body para POST /api/materials/:id/import.
type RecordImportRequest struct {
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	Date         string           `json:"date" validate:"omitempty,max=40"` // YYYY-MM-DD o RFC3339; vacío = ahora
	DeliveryNote string           `json:"delivery_note" validate:"omitempty,max=100"`
	Supplier     string           `json:"supplier" validate:"omitempty,max=200"`
	Note         string           `json:"note" validate:"omitempty,max=1000"`
}

// RecordUsageRequest body para POST /api/materials/:id/usage.
type RecordUsageRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Date     string          `json:"date" validate:"omitempty,max=40"`
	Note     string          `json:"note" validate:"omitempty,max=1000"`
}

// ImportEntryResponse entrada del historial.
type ImportEntryResponse struct {
	ID           string           `json:"id"`
	MaterialID   string           `json:"material_id"`
	MaterialName string           `json:"material,omitempty"`
	Unit         string           `json:"unit,omitempty"`
	Date         time.Time        `json:"date"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	DeliveryNote string           `json:"delivery_note,omitempty"`
	Supplier     string           `json:"supplier,omitempty"`
	Note         string           `json:"note,omitempty"`
	CreatedBy    string           `json:"created_by,omitempty"`
}

// UsageEntryResponse salida del historial.
type UsageEntryResponse struct {
	ID           string          `json:"id"`
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Date         time.Time       `json:"date"`
	Quantity     decimal.Decimal `json:"quantity"`
	Note         string          `json:"note,omitempty"`
	CreatedBy    string          `json:"created_by,omitempty"`
}

// MovementResponse resultado de registrar una entrada o salida.
type MovementResponse struct {
	Material MaterialResponse     `json:"material"`
	Import   *ImportEntryResponse `json:"import,omitempty"`
	Usage    *UsageEntryResponse  `json:"usage,omitempty"`
}

// RemoveEntryResponse resultado de borrar una entrada del historial.
// StockAdjusted=false significa que el stock vigente ya no cuadra con el historial por Quantity.
type RemoveEntryResponse struct {
	EntryID       string          `json:"entry_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	StockAdjusted bool            `json:"stock_adjusted"`
}

// HistoryQuery filtros de GET /api/materials/import-history y usage-history.
type HistoryQuery struct {
	From string `query:"from"`
	To   string `query:"to"`
}
