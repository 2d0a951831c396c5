package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Magacin-api/internal/domain"
)

// AmountScale decimales que admiten cantidades, stock y precios (columnas NUMERIC(18,4)).
const AmountScale = 4

// maxAmount cota exclusiva de NUMERIC(18,4): 14 dígitos enteros.
var maxAmount = decimal.New(1, 18-AmountScale)

// CheckAmount rechaza con domain.ErrInvalidInput los valores que no caben exactos en NUMERIC(18,4).
// El signo lo valida cada caso de uso.
func CheckAmount(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(AmountScale)) {
		return fmt.Errorf("%w: %s admite como máximo %d decimales", domain.ErrInvalidInput, field, AmountScale)
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%w: %s fuera de rango", domain.ErrInvalidInput, field)
	}
	return nil
}
