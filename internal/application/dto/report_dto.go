package dto

import "github.com/shopspring/decimal"

// Formatos de exportación del informe.
const (
	ReportFormatPDF = "pdf"
	ReportFormatXML = "xlsx-xml"
)

// ReportRowDTO fila del informe de periodo. Los punteros nil se serializan como null (sin dato, no cero).
type ReportRowDTO struct {
	MaterialID        string           `json:"material_id"`
	Material          string           `json:"material"`
	Unit              string           `json:"unit"`
	OpeningStock      *decimal.Decimal `json:"opening_stock"`
	PeriodInflow      *decimal.Decimal `json:"period_inflow"`
	ClosingStock      *decimal.Decimal `json:"closing_stock"`
	PeriodConsumption *decimal.Decimal `json:"period_consumption"`
	LastUnitPrice     *decimal.Decimal `json:"last_unit_price"`
	PeriodCostValue   *decimal.Decimal `json:"period_cost_value"`
	CostTwoLines      *decimal.Decimal `json:"cost_two_lines"`
	CostOneLine       *decimal.Decimal `json:"cost_one_line"`
	Error             string           `json:"error,omitempty"`
}

// ReportTotalsDTO agregados del informe.
type ReportTotalsDTO struct {
	CostValue        decimal.Decimal `json:"cost_value"`
	RowsWithPrice    int             `json:"rows_with_price"`
	RowsWithoutPrice int             `json:"rows_without_price"`
	RowsFailed       int             `json:"rows_failed"`
}

// PeriodReportResponse respuesta de GET /api/materials/report.
type PeriodReportResponse struct {
	CompanyName string          `json:"company_name"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Rows        []ReportRowDTO  `json:"rows"`
	Totals      ReportTotalsDTO `json:"totals"`
}

// ReportFile documento generado para descarga.
type ReportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
