package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest body para POST /api/materials.
type CreateMaterialRequest struct {
	Name             string          `json:"material" validate:"required,min=1,max=200"`
	DailyConsumption decimal.Decimal `json:"daily_consumption"`
	Stock            decimal.Decimal `json:"stock"`
	Unit             string          `json:"unit" validate:"omitempty,max=20"`
	Supplier         string          `json:"supplier" validate:"omitempty,max=200"`
	OriginCountry    string          `json:"origin_country" validate:"omitempty,max=120"`
	PaymentTerms     string          `json:"payment_terms" validate:"omitempty,max=200"`
}

// MaterialPatch body para PUT /api/materials/:id. Campos nil = sin cambio.
// Un cambio de stock se registra como entrada (sube) o salida (baja) por la diferencia.
type MaterialPatch struct {
	Name             *string          `json:"material" validate:"omitempty,min=1,max=200"`
	DailyConsumption *decimal.Decimal `json:"daily_consumption"`
	Stock            *decimal.Decimal `json:"stock"`
	Unit             *string          `json:"unit" validate:"omitempty,max=20"`
	Supplier         *string          `json:"supplier" validate:"omitempty,max=200"`
	OriginCountry    *string          `json:"origin_country" validate:"omitempty,max=120"`
	PaymentTerms     *string          `json:"payment_terms" validate:"omitempty,max=200"`
}

// ConsumptionProfileDTO proyección de consumo y días de cobertura.
type ConsumptionProfileDTO struct {
	Daily            decimal.Decimal  `json:"daily"`
	Monthly          decimal.Decimal  `json:"monthly"`
	Yearly           decimal.Decimal  `json:"yearly"`
	DailyTonnes      decimal.Decimal  `json:"daily_t"`
	MonthlyTonnes    decimal.Decimal  `json:"monthly_t"`
	YearlyTonnes     decimal.Decimal  `json:"yearly_t"`
	CoverageTwoLines *decimal.Decimal `json:"coverage_two_lines_days"`
	CoverageOneLine  *decimal.Decimal `json:"coverage_one_line_days"`
}

// MaterialResponse salida de un material con su perfil de consumo.
type MaterialResponse struct {
	ID               string                `json:"id"`
	Name             string                `json:"material"`
	DailyConsumption decimal.Decimal       `json:"daily_consumption"`
	Stock            decimal.Decimal       `json:"stock"`
	Unit             string                `json:"unit"`
	Supplier         string                `json:"supplier"`
	OriginCountry    string                `json:"origin_country"`
	PaymentTerms     string                `json:"payment_terms"`
	Consumption      ConsumptionProfileDTO `json:"consumption"`
	LastModifiedBy   string                `json:"last_modified_by,omitempty"`
	LastModifiedAt   *time.Time            `json:"last_modified_at,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// MaterialListResponse lista paginada de materiales.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// HasDescriptiveChanges indica si el patch toca algún campo distinto del stock.
func (p MaterialPatch) HasDescriptiveChanges() bool {
	return p.Name != nil || p.DailyConsumption != nil || p.Unit != nil ||
		p.Supplier != nil || p.OriginCountry != nil || p.PaymentTerms != nil
}
