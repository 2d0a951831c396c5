package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/inventory"
)

func TestCheckAmount(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"entero", "1000", true},
		{"cuatro decimales", "0.0001", true},
		{"ceros de cola", "1.50000000", true},
		{"maximo", "99999999999999.9999", true},
		{"cinco decimales", "0.00004", false},
		{"fuera de rango", "100000000000000", false},
		{"negativo fuera de rango", "-100000000000000", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := inventory.CheckAmount("quantity", decimal.RequireFromString(tt.value))
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), "quantity")
		})
	}
}
