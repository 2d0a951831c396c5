package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Magacin-api/internal/domain/entity"
)

// ImportHistoryItem fila del historial de entradas de toda la empresa.
type ImportHistoryItem struct {
	MaterialID   string
	MaterialName string
	Unit         string
	Entry        entity.ImportEntry
}

// UsageHistoryItem fila del historial de salidas de toda la empresa.
type UsageHistoryItem struct {
	MaterialID   string
	MaterialName string
	Unit         string
	Entry        entity.UsageEntry
}

// HistoryFilter acota el historial por fecha (ambos extremos opcionales e inclusivos).
type HistoryFilter struct {
	From *time.Time
	To   *time.Time
}

// MaterialRepository define el puerto de persistencia para materiales y su libro de movimientos.
// Todas las operaciones van acotadas a companyID: un material de otra empresa se trata como inexistente.
// Las mutaciones del libro son atómicas: la entrada y el cambio de stock se aplican juntos o no se aplican.
type MaterialRepository interface {
	// Create inserta el material; si opening != nil se registra como primera entrada en la misma operación.
	Create(ctx context.Context, m *entity.Material, opening *entity.ImportEntry) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, companyID, id string) (*entity.Material, error)
	// ListByCompany devuelve los materiales en orden de creación (sin historial).
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Material, error)
	// Update persiste los campos descriptivos. Si stock != nil fija además el stock, registrando la diferencia
	// como entrada (sube) o salida (baja) con fecha m.UpdatedAt. Todo se aplica junto o nada.
	Update(ctx context.Context, m *entity.Material, stock *decimal.Decimal) (*entity.Material, error)
	Delete(ctx context.Context, companyID, id string) error

	// GetLedger lee stock e historial en una lectura consistente. (nil, nil) si no existe.
	GetLedger(ctx context.Context, companyID, materialID string) (*entity.MaterialLedger, error)
	// AppendImport agrega la entrada y suma su cantidad al stock. Devuelve el material actualizado.
	AppendImport(ctx context.Context, companyID, materialID string, entry *entity.ImportEntry) (*entity.Material, error)
	// AppendUsage agrega la salida y resta su cantidad si stock >= cantidad; si no, domain.ErrInsufficientStock.
	AppendUsage(ctx context.Context, companyID, materialID string, entry *entity.UsageEntry) (*entity.Material, error)
	// RemoveImport borra una entrada. Con adjustStock resta su cantidad del stock (ErrInsufficientStock si quedaría negativo).
	RemoveImport(ctx context.Context, companyID, materialID, entryID string, adjustStock bool, modifiedBy string) (*entity.ImportEntry, error)
	// RemoveUsage borra una salida. Con adjustStock devuelve su cantidad al stock.
	RemoveUsage(ctx context.Context, companyID, materialID, entryID string, adjustStock bool, modifiedBy string) (*entity.UsageEntry, error)

	ListImportHistory(ctx context.Context, companyID string, filter HistoryFilter) ([]ImportHistoryItem, error)
	ListUsageHistory(ctx context.Context, companyID string, filter HistoryFilter) ([]UsageHistoryItem, error)
}
