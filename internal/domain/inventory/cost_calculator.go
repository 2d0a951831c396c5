package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

type movement struct {
	isImport bool
	index    int
}

// WeightedAverageCost recorre el libro en orden cronológico y aplica CostCalculator en cada entrada con precio.
// Las entradas sin precio suman stock al costo vigente; las salidas restan stock sin alterar el costo.
// Devuelve nil si ninguna entrada tiene precio.
func WeightedAverageCost(l Ledger) *decimal.Decimal {
	moves := make([]movement, 0, len(l.Imports)+len(l.Usages))
	for i := range l.Imports {
		moves = append(moves, movement{isImport: true, index: i})
	}
	for i := range l.Usages {
		moves = append(moves, movement{index: i})
	}
	dateOf := func(m movement) int64 {
		if m.isImport {
			return l.Imports[m.index].Date.UnixNano()
		}
		return l.Usages[m.index].Date.UnixNano()
	}
	// a igual fecha, primero entradas y luego salidas; dentro de cada tipo, orden de almacenamiento
	sort.SliceStable(moves, func(i, j int) bool {
		di, dj := dateOf(moves[i]), dateOf(moves[j])
		if di != dj {
			return di < dj
		}
		return moves[i].isImport && !moves[j].isImport
	})

	var (
		running = decimal.Zero
		cost    = decimal.Zero
		priced  bool
	)
	for _, m := range moves {
		if !m.isImport {
			running = decimal.Max(decimal.Zero, running.Sub(l.Usages[m.index].Quantity))
			continue
		}
		imp := l.Imports[m.index]
		if imp.UnitPrice == nil {
			running = running.Add(imp.Quantity)
			continue
		}
		if !priced {
			cost = *imp.UnitPrice
			priced = true
		} else {
			cost = CostCalculator(running, cost, imp.Quantity, *imp.UnitPrice)
		}
		running = running.Add(imp.Quantity)
	}
	if !priced {
		return nil
	}
	return &cost
}
