package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalMaterials int `json:"total_materials"`

	// Valor del stock a costo promedio ponderado; los materiales sin precio conocido no suman.
	StockValue            decimal.Decimal `json:"stock_value"`
	MaterialsWithoutPrice int             `json:"materials_without_price"`

	YearlyConsumptionTonnes decimal.Decimal `json:"yearly_consumption_t"`

	// Informe de los últimos 30 días
	Last30From        string           `json:"last_30_from"`
	Last30To          string           `json:"last_30_to"`
	Last30CostValue   decimal.Decimal  `json:"last_30_cost_value"`
	Last30Consumption []ConsumptionDTO `json:"last_30_consumption"`

	LowCoverageDays decimal.Decimal  `json:"low_coverage_days"`
	LowCoverage     []LowCoverageDTO `json:"low_coverage"`
}

// ConsumptionDTO consumo de un material en el periodo del dashboard.
type ConsumptionDTO struct {
	MaterialID  string           `json:"material_id"`
	Material    string           `json:"material"`
	Unit        string           `json:"unit"`
	Consumption decimal.Decimal  `json:"consumption"`
	CostValue   *decimal.Decimal `json:"cost_value"`
}

// LowCoverageDTO material cuya cobertura con dos líneas está por debajo del umbral.
type LowCoverageDTO struct {
	MaterialID   string          `json:"material_id"`
	Material     string          `json:"material"`
	Stock        decimal.Decimal `json:"stock"`
	CoverageDays decimal.Decimal `json:"coverage_days"`
}
