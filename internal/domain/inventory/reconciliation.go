package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Magacin-api/internal/domain/entity"
)

// Ledger entrada de solo lectura del motor: saldo vigente más historial completo.
type Ledger struct {
	CurrentStock decimal.Decimal
	Imports      []entity.ImportEntry
	Usages       []entity.UsageEntry
}

// LedgerFrom adapta el libro persistido a la entrada del motor.
func LedgerFrom(ml *entity.MaterialLedger) Ledger {
	if ml == nil || ml.Material == nil {
		return Ledger{}
	}
	return Ledger{CurrentStock: ml.Material.Stock, Imports: ml.Imports, Usages: ml.Usages}
}

// Reconciliation resultado del cuadre de un material en un periodo.
// Los punteros nil significan "no aplica" (sin entrada con precio en el periodo).
type Reconciliation struct {
	OpeningStock      decimal.Decimal
	PeriodInflow      decimal.Decimal
	ClosingStock      decimal.Decimal
	PeriodConsumption decimal.Decimal
	LastUnitPrice     *decimal.Decimal
	PeriodCostValue   *decimal.Decimal
	CostHalfShare     *decimal.Decimal
}

var two = decimal.NewFromInt(2)

// Reconcile reconstruye hacia atrás desde el stock vigente el saldo inicial y final del periodo,
// y deduce el consumo como inicial + entradas − final. Es pura: no modifica el libro.
// Un consumo negativo (libro incoherente) se devuelve tal cual.
func Reconcile(l Ledger, p Period) Reconciliation {
	opening := l.CurrentStock.Sub(importsAfter(l.Imports, p.From)).Add(usagesAfter(l.Usages, p.From))
	closing := l.CurrentStock.Sub(importsAfter(l.Imports, p.To)).Add(usagesAfter(l.Usages, p.To))

	inflow := decimal.Zero
	var last *entity.ImportEntry
	for i := range l.Imports {
		imp := &l.Imports[i]
		if !p.Contains(imp.Date) {
			continue
		}
		inflow = inflow.Add(imp.Quantity)
		// misma fecha: gana la posterior en orden de almacenamiento
		if last == nil || !imp.Date.Before(last.Date) {
			last = imp
		}
	}

	r := Reconciliation{
		OpeningStock:      opening,
		PeriodInflow:      inflow,
		ClosingStock:      closing,
		PeriodConsumption: opening.Add(inflow).Sub(closing),
	}
	if last != nil && last.UnitPrice != nil {
		price := *last.UnitPrice
		cost := r.PeriodConsumption.Mul(price)
		half := cost.Div(two)
		r.LastUnitPrice = &price
		r.PeriodCostValue = &cost
		r.CostHalfShare = &half
	}
	return r
}

func importsAfter(entries []entity.ImportEntry, t time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		if e.Date.After(t) {
			sum = sum.Add(e.Quantity)
		}
	}
	return sum
}

func usagesAfter(entries []entity.UsageEntry, t time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		if e.Date.After(t) {
			sum = sum.Add(e.Quantity)
		}
	}
	return sum
}
