package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Magacin-api/internal/domain/entity"
)

// CorrectionNote nota que acompaña a los movimientos generados por una corrección manual de stock.
const CorrectionNote = "corrección manual de stock"

// CorrectionEntry traduce el paso de current a target en el movimiento que lo explica:
// una entrada sin precio si sube, una salida si baja, nada si no cambia.
// Se evalúa con el stock leído bajo bloqueo para que la diferencia sea exacta.
func CorrectionEntry(materialID string, current, target decimal.Decimal, at time.Time, by string) (*entity.ImportEntry, *entity.UsageEntry) {
	diff := target.Sub(current)
	switch {
	case diff.IsPositive():
		return &entity.ImportEntry{
			ID:         uuid.NewString(),
			MaterialID: materialID,
			Date:       at,
			Quantity:   diff,
			Note:       CorrectionNote,
			CreatedBy:  by,
			CreatedAt:  at,
		}, nil
	case diff.IsNegative():
		return nil, &entity.UsageEntry{
			ID:         uuid.NewString(),
			MaterialID: materialID,
			Date:       at,
			Quantity:   diff.Neg(),
			Note:       CorrectionNote,
			CreatedBy:  by,
			CreatedAt:  at,
		}
	}
	return nil, nil
}
