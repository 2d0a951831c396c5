package inventory

import "github.com/shopspring/decimal"

var (
	daysPerYear   = decimal.NewFromInt(365)
	monthsPerYear = decimal.NewFromInt(12)
	kgPerTonne    = decimal.NewFromInt(1000)
)

// ConsumptionProfile proyección de consumo y cobertura de un material a partir de su consumo diario.
// La cobertura es nil cuando el consumo diario es cero.
type ConsumptionProfile struct {
	Daily            decimal.Decimal
	Monthly          decimal.Decimal
	Yearly           decimal.Decimal
	DailyTonnes      decimal.Decimal
	MonthlyTonnes    decimal.Decimal
	YearlyTonnes     decimal.Decimal
	CoverageTwoLines *decimal.Decimal // días de stock con las dos líneas (stock / diario)
	CoverageOneLine  *decimal.Decimal // días de stock con una línea (stock / (diario/2))
}

// Profile calcula el perfil de consumo. Las cifras en unidad se redondean a 2 decimales y las toneladas a 4.
func Profile(stock, daily decimal.Decimal) ConsumptionProfile {
	yearly := daily.Mul(daysPerYear)
	monthly := yearly.Div(monthsPerYear)
	p := ConsumptionProfile{
		Daily:         daily.Round(2),
		Monthly:       monthly.Round(2),
		Yearly:        yearly.Round(2),
		DailyTonnes:   daily.Div(kgPerTonne).Round(4),
		MonthlyTonnes: monthly.Div(kgPerTonne).Round(4),
		YearlyTonnes:  yearly.Div(kgPerTonne).Round(4),
	}
	if daily.IsPositive() {
		bothLines := stock.Div(daily).Round(2)
		oneLine := stock.Div(daily.Div(two)).Round(2)
		p.CoverageTwoLines = &bothLines
		p.CoverageOneLine = &oneLine
	}
	return p
}
