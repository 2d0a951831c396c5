package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Magacin-api/internal/domain/inventory"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

// LedgerUseCase registra entradas y salidas de material. Cada operación es una única
// mutación atómica en el repositorio: el movimiento y el cambio de stock van juntos o no van.
type LedgerUseCase struct {
	repo repository.MaterialRepository
	loc  *time.Location
	log  zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(repo repository.MaterialRepository, loc *time.Location, log zerolog.Logger) *LedgerUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerUseCase{repo: repo, loc: loc, log: log}
}

// RecordImport registra una entrada y suma la cantidad al stock. El precio es opcional pero,
// si viene, no puede ser negativo.
func (uc *LedgerUseCase) RecordImport(ctx context.Context, rc dto.RequestContext, materialID string, in dto.RecordImportRequest) (*dto.MovementResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if err := domaininv.CheckAmount("quantity", in.Quantity); err != nil {
		return nil, err
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit_price no puede ser negativo", domain.ErrInvalidInput)
		}
		if err := domaininv.CheckAmount("unit_price", *in.UnitPrice); err != nil {
			return nil, err
		}
	}
	now := time.Now()
	date, err := domaininv.ParseEntryDate(in.Date, uc.loc, now)
	if err != nil {
		return nil, err
	}
	entry := &entity.ImportEntry{
		ID:           uuid.NewString(),
		MaterialID:   materialID,
		Date:         date,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		DeliveryNote: in.DeliveryNote,
		Supplier:     in.Supplier,
		Note:         in.Note,
		CreatedBy:    rc.Email,
		CreatedAt:    now,
	}
	m, err := uc.repo.AppendImport(ctx, rc.CompanyID, materialID, entry)
	if err != nil {
		return nil, err
	}
	imp := dto.NewImportEntryResponse(*entry)
	return &dto.MovementResponse{Material: dto.NewMaterialResponse(m), Import: &imp}, nil
}

// RecordUsage registra una salida. Si la cantidad supera el stock devuelve domain.ErrInsufficientStock
// y el libro queda intacto.
func (uc *LedgerUseCase) RecordUsage(ctx context.Context, rc dto.RequestContext, materialID string, in dto.RecordUsageRequest) (*dto.MovementResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if err := domaininv.CheckAmount("quantity", in.Quantity); err != nil {
		return nil, err
	}
	now := time.Now()
	date, err := domaininv.ParseEntryDate(in.Date, uc.loc, now)
	if err != nil {
		return nil, err
	}
	entry := &entity.UsageEntry{
		ID:         uuid.NewString(),
		MaterialID: materialID,
		Date:       date,
		Quantity:   in.Quantity,
		Note:       in.Note,
		CreatedBy:  rc.Email,
		CreatedAt:  now,
	}
	m, err := uc.repo.AppendUsage(ctx, rc.CompanyID, materialID, entry)
	if err != nil {
		return nil, err
	}
	use := dto.NewUsageEntryResponse(*entry)
	return &dto.MovementResponse{Material: dto.NewMaterialResponse(m), Usage: &use}, nil
}

// RemoveImportEntry borra una entrada del historial. Por defecto no toca el stock: es una corrección
// administrativa del registro y el descuadre queda en el log. Con adjustStock resta la cantidad en la misma operación.
func (uc *LedgerUseCase) RemoveImportEntry(ctx context.Context, rc dto.RequestContext, materialID, entryID string, adjustStock bool) (*dto.RemoveEntryResponse, error) {
	removed, err := uc.repo.RemoveImport(ctx, rc.CompanyID, materialID, entryID, adjustStock, rc.Email)
	if err != nil {
		return nil, err
	}
	if !adjustStock {
		uc.log.Warn().
			Str("company_id", rc.CompanyID).
			Str("material_id", materialID).
			Str("entry_id", entryID).
			Str("unreconciled_quantity", removed.Quantity.String()).
			Str("by", rc.Email).
			Msg("entrada borrada sin ajustar stock: el stock vigente ya no cuadra con el historial")
	}
	return &dto.RemoveEntryResponse{EntryID: removed.ID, Quantity: removed.Quantity, StockAdjusted: adjustStock}, nil
}

// RemoveUsageEntry borra una salida del historial con las mismas reglas que RemoveImportEntry;
// con adjustStock la cantidad vuelve al stock.
func (uc *LedgerUseCase) RemoveUsageEntry(ctx context.Context, rc dto.RequestContext, materialID, entryID string, adjustStock bool) (*dto.RemoveEntryResponse, error) {
	removed, err := uc.repo.RemoveUsage(ctx, rc.CompanyID, materialID, entryID, adjustStock, rc.Email)
	if err != nil {
		return nil, err
	}
	if !adjustStock {
		uc.log.Warn().
			Str("company_id", rc.CompanyID).
			Str("material_id", materialID).
			Str("entry_id", entryID).
			Str("unreconciled_quantity", removed.Quantity.String()).
			Str("by", rc.Email).
			Msg("salida borrada sin ajustar stock: el stock vigente ya no cuadra con el historial")
	}
	return &dto.RemoveEntryResponse{EntryID: removed.ID, Quantity: removed.Quantity, StockAdjusted: adjustStock}, nil
}
