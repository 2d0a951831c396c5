package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/domain/inventory"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

// OpeningStockNote nota de la entrada que registra el stock inicial de un material.
const OpeningStockNote = "stock inicial"

// MaterialUseCase CRUD de materiales y consulta del historial de movimientos.
type MaterialUseCase struct {
	repo   repository.MaterialRepository
	loc    *time.Location
	locale language.Tag
	log    zerolog.Logger
}

// NewMaterialUseCase construye el caso de uso. locale define el orden alfabético de los listados.
func NewMaterialUseCase(repo repository.MaterialRepository, loc *time.Location, locale language.Tag, log zerolog.Logger) *MaterialUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &MaterialUseCase{repo: repo, loc: loc, locale: locale, log: log}
}

// Create registra un material. Un stock inicial > 0 queda como primera entrada (sin precio)
// para que el historial explique el saldo desde el primer día.
func (uc *MaterialUseCase) Create(ctx context.Context, rc dto.RequestContext, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre del material es obligatorio", domain.ErrInvalidInput)
	}
	if in.DailyConsumption.IsNegative() {
		return nil, fmt.Errorf("%w: daily_consumption no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.Stock.IsNegative() {
		return nil, fmt.Errorf("%w: stock no puede ser negativo", domain.ErrInvalidInput)
	}
	if err := inventory.CheckAmount("daily_consumption", in.DailyConsumption); err != nil {
		return nil, err
	}
	if err := inventory.CheckAmount("stock", in.Stock); err != nil {
		return nil, err
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = entity.DefaultUnit
	}
	now := time.Now()
	m := &entity.Material{
		ID:               uuid.NewString(),
		CompanyID:        rc.CompanyID,
		Name:             name,
		DailyConsumption: in.DailyConsumption,
		Stock:            in.Stock,
		Unit:             unit,
		Supplier:         strings.TrimSpace(in.Supplier),
		OriginCountry:    strings.TrimSpace(in.OriginCountry),
		PaymentTerms:     strings.TrimSpace(in.PaymentTerms),
		LastModifiedBy:   rc.Email,
		LastModifiedAt:   &now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	var opening *entity.ImportEntry
	if in.Stock.IsPositive() {
		opening = &entity.ImportEntry{
			ID:         uuid.NewString(),
			MaterialID: m.ID,
			Date:       now,
			Quantity:   in.Stock,
			Supplier:   m.Supplier,
			Note:       OpeningStockNote,
			CreatedBy:  rc.Email,
			CreatedAt:  now,
		}
	}
	if err := uc.repo.Create(ctx, m, opening); err != nil {
		return nil, err
	}
	resp := dto.NewMaterialResponse(m)
	return &resp, nil
}

// GetByID obtiene un material de la empresa del llamador.
func (uc *MaterialUseCase) GetByID(ctx context.Context, rc dto.RequestContext, id string) (*dto.MaterialResponse, error) {
	m, err := uc.repo.GetByID(ctx, rc.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.NewMaterialResponse(m)
	return &resp, nil
}

// List lista los materiales ordenados alfabéticamente según el idioma configurado.
func (uc *MaterialUseCase) List(ctx context.Context, rc dto.RequestContext, page dto.PageRequest) (*dto.MaterialListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, rc.CompanyID)
	if err != nil {
		return nil, err
	}
	// collate.Collator no es seguro entre goroutines: uno por llamada
	col := collate.New(uc.locale, collate.IgnoreCase)
	sort.SliceStable(list, func(i, j int) bool {
		return col.CompareString(list[i].Name, list[j].Name) < 0
	})
	total := len(list)
	start := page.Offset
	if start > total {
		start = total
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	items := make([]dto.MaterialResponse, 0, end-start)
	for _, m := range list[start:end] {
		items = append(items, dto.NewMaterialResponse(m))
	}
	return &dto.MaterialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update aplica el patch. Los campos descriptivos se guardan tal cual; un cambio de stock se registra
// en el libro como entrada (sube, sin precio) o salida (baja) por la diferencia. Ambos van en una sola
// operación del repositorio: si falla, el material queda como estaba.
func (uc *MaterialUseCase) Update(ctx context.Context, rc dto.RequestContext, id string, in dto.MaterialPatch) (*dto.MaterialResponse, error) {
	if in.DailyConsumption != nil {
		if in.DailyConsumption.IsNegative() {
			return nil, fmt.Errorf("%w: daily_consumption no puede ser negativo", domain.ErrInvalidInput)
		}
		if err := inventory.CheckAmount("daily_consumption", *in.DailyConsumption); err != nil {
			return nil, err
		}
	}
	if in.Stock != nil {
		if in.Stock.IsNegative() {
			return nil, fmt.Errorf("%w: stock no puede ser negativo", domain.ErrInvalidInput)
		}
		if err := inventory.CheckAmount("stock", *in.Stock); err != nil {
			return nil, err
		}
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: el nombre del material es obligatorio", domain.ErrInvalidInput)
	}
	m, err := uc.repo.GetByID(ctx, rc.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}

	var stock *decimal.Decimal
	if in.Stock != nil && !in.Stock.Equal(m.Stock) {
		stock = in.Stock
	}
	if !in.HasDescriptiveChanges() && stock == nil {
		resp := dto.NewMaterialResponse(m)
		return &resp, nil
	}
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.DailyConsumption != nil {
		m.DailyConsumption = *in.DailyConsumption
	}
	if in.Unit != nil {
		m.Unit = strings.TrimSpace(*in.Unit)
		if m.Unit == "" {
			m.Unit = entity.DefaultUnit
		}
	}
	if in.Supplier != nil {
		m.Supplier = strings.TrimSpace(*in.Supplier)
	}
	if in.OriginCountry != nil {
		m.OriginCountry = strings.TrimSpace(*in.OriginCountry)
	}
	if in.PaymentTerms != nil {
		m.PaymentTerms = strings.TrimSpace(*in.PaymentTerms)
	}
	now := time.Now()
	m.LastModifiedBy = rc.Email
	m.LastModifiedAt = &now
	m.UpdatedAt = now

	previous := m.Stock
	updated, err := uc.repo.Update(ctx, m, stock)
	if err != nil {
		return nil, err
	}
	if stock != nil {
		uc.log.Info().Str("material_id", id).Str("from", previous.String()).Str("to", updated.Stock.String()).
			Str("by", rc.Email).Msg("stock corregido manualmente")
	}
	resp := dto.NewMaterialResponse(updated)
	return &resp, nil
}

// Delete elimina el material junto con su historial.
func (uc *MaterialUseCase) Delete(ctx context.Context, rc dto.RequestContext, id string) error {
	return uc.repo.Delete(ctx, rc.CompanyID, id)
}

// ListImportHistory historial de entradas de toda la empresa, de la más reciente a la más antigua.
func (uc *MaterialUseCase) ListImportHistory(ctx context.Context, rc dto.RequestContext, q dto.HistoryQuery) ([]dto.ImportEntryResponse, error) {
	f, err := historyFilter(q, uc.loc)
	if err != nil {
		return nil, err
	}
	items, err := uc.repo.ListImportHistory(ctx, rc.CompanyID, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ImportEntryResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewImportHistoryResponse(it))
	}
	return out, nil
}

// ListUsageHistory historial de salidas de toda la empresa, de la más reciente a la más antigua.
func (uc *MaterialUseCase) ListUsageHistory(ctx context.Context, rc dto.RequestContext, q dto.HistoryQuery) ([]dto.UsageEntryResponse, error) {
	f, err := historyFilter(q, uc.loc)
	if err != nil {
		return nil, err
	}
	items, err := uc.repo.ListUsageHistory(ctx, rc.CompanyID, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsageEntryResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewUsageHistoryResponse(it))
	}
	return out, nil
}

func historyFilter(q dto.HistoryQuery, loc *time.Location) (repository.HistoryFilter, error) {
	var f repository.HistoryFilter
	from, to := strings.TrimSpace(q.From), strings.TrimSpace(q.To)
	switch {
	case from != "" && to != "":
		p, err := inventory.ParsePeriod(from, to, loc)
		if err != nil {
			return f, err
		}
		f.From, f.To = &p.From, &p.To
	case from != "":
		t, err := time.ParseInLocation(inventory.DateLayout, from, loc)
		if err != nil {
			return f, fmt.Errorf("%w: from inválido %q (YYYY-MM-DD)", domain.ErrInvalidInput, from)
		}
		f.From = &t
	case to != "":
		t, err := time.ParseInLocation(inventory.DateLayout, to, loc)
		if err != nil {
			return f, fmt.Errorf("%w: to inválido %q (YYYY-MM-DD)", domain.ErrInvalidInput, to)
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		f.To = &end
	}
	return f, nil
}
