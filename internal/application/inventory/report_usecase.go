package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/domain"
	domaininv "github.com/jhoicas/Magacin-api/internal/domain/inventory"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

// ReportUseCase informe de periodo: para cada material reconstruye saldo inicial, entradas,
// saldo final, consumo y costo a partir del stock vigente y su historial.
type ReportUseCase struct {
	materialRepo repository.MaterialRepository
	companyRepo  repository.CompanyRepository
	renderers    map[string]ReportRenderer
	loc          *time.Location
	log          zerolog.Logger
}

// NewReportUseCase construye el caso de uso. Los renderers habilitan la exportación por formato.
func NewReportUseCase(
	materialRepo repository.MaterialRepository,
	companyRepo repository.CompanyRepository,
	loc *time.Location,
	log zerolog.Logger,
	renderers ...ReportRenderer,
) *ReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	byFormat := make(map[string]ReportRenderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &ReportUseCase{materialRepo: materialRepo, companyRepo: companyRepo, renderers: byFormat, loc: loc, log: log}
}

// GetReport valida el periodo antes de leer nada y calcula una fila por material en orden de creación.
// Política por lotes: best effort. Si falla la lectura de un material, su fila lleva error y cifras nulas
// y el resto del informe se calcula igual.
func (uc *ReportUseCase) GetReport(ctx context.Context, rc dto.RequestContext, from, to string) (*dto.PeriodReportResponse, error) {
	period, err := domaininv.ParsePeriod(from, to, uc.loc)
	if err != nil {
		return nil, err
	}
	return uc.Build(ctx, rc, period)
}

// Build calcula el informe para un periodo ya validado.
func (uc *ReportUseCase) Build(ctx context.Context, rc dto.RequestContext, period domaininv.Period) (*dto.PeriodReportResponse, error) {
	materials, err := uc.materialRepo.ListByCompany(ctx, rc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("report: listar materiales: %w", err)
	}
	report := &dto.PeriodReportResponse{
		From: period.From.Format(domaininv.DateLayout),
		To:   period.To.Format(domaininv.DateLayout),
		Rows: make([]dto.ReportRowDTO, 0, len(materials)),
		Totals: dto.ReportTotalsDTO{
			CostValue: decimal.Zero,
		},
	}
	for _, m := range materials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ledger, err := uc.materialRepo.GetLedger(ctx, rc.CompanyID, m.ID)
		if err == nil && ledger == nil {
			// borrado entre el listado y la lectura
			err = domain.ErrNotFound
		}
		if err != nil {
			uc.log.Warn().Err(err).Str("company_id", rc.CompanyID).Str("material_id", m.ID).
				Msg("report: no se pudo leer el historial del material")
			report.Rows = append(report.Rows, dto.ReportRowDTO{
				MaterialID: m.ID,
				Material:   m.Name,
				Unit:       m.Unit,
				Error:      "no se pudo leer el historial del material",
			})
			report.Totals.RowsFailed++
			continue
		}
		r := domaininv.Reconcile(domaininv.LedgerFrom(ledger), period)
		row := dto.NewReportRow(ledger.Material, r)
		if row.PeriodCostValue != nil {
			report.Totals.CostValue = report.Totals.CostValue.Add(*row.PeriodCostValue)
			report.Totals.RowsWithPrice++
		} else {
			report.Totals.RowsWithoutPrice++
		}
		report.Rows = append(report.Rows, row)
	}
	if uc.companyRepo != nil {
		if company, err := uc.companyRepo.GetByID(ctx, rc.CompanyID); err == nil && company != nil {
			report.CompanyName = company.Name
		}
	}
	return report, nil
}

// ExportReport genera el informe y lo entrega renderizado en el formato pedido (pdf, xlsx-xml).
func (uc *ReportUseCase) ExportReport(ctx context.Context, rc dto.RequestContext, from, to, format string) (*dto.ReportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = dto.ReportFormatPDF
	}
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato de exportación no soportado %q", domain.ErrInvalidInput, format)
	}
	report, err := uc.GetReport(ctx, rc, from, to)
	if err != nil {
		return nil, err
	}
	file, err := renderer.Render(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("report: render %s: %w", format, err)
	}
	return file, nil
}
