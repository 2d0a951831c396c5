// Package analytics contiene el resumen del dashboard del almacén.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	appinv "github.com/jhoicas/Magacin-api/internal/application/inventory"
	domaininv "github.com/jhoicas/Magacin-api/internal/domain/inventory"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

const dashboardWindowDays = 30 // días del informe reciente

var kgPerTonne = decimal.NewFromInt(1000)

// DashboardUseCase genera el resumen del almacén: valor del stock, consumo anual estimado,
// consumo de los últimos 30 días y materiales con poca cobertura.
type DashboardUseCase struct {
	materialRepo    repository.MaterialRepository
	reports         *appinv.ReportUseCase
	lowCoverageDays decimal.Decimal
	loc             *time.Location
	log             zerolog.Logger
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	materialRepo repository.MaterialRepository,
	reports *appinv.ReportUseCase,
	lowCoverageDays int,
	loc *time.Location,
	log zerolog.Logger,
) *DashboardUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardUseCase{
		materialRepo:    materialRepo,
		reports:         reports,
		lowCoverageDays: decimal.NewFromInt(int64(lowCoverageDays)),
		loc:             loc,
		log:             log,
	}
}

type stockFigures struct {
	total        int
	value        decimal.Decimal
	withoutPrice int
	yearlyT      decimal.Decimal
	low          []dto.LowCoverageDTO
}

// GetSummary construye el DashboardSummaryDTO para la empresa del llamador.
//
// Dos cargas en paralelo:
//  1. materiales + historial → valor del stock, consumo anual, cobertura
//  2. informe de los últimos 30 días → consumo y costo recientes
func (uc *DashboardUseCase) GetSummary(ctx context.Context, rc dto.RequestContext) (*dto.DashboardSummaryDTO, error) {
	window := domaininv.LastDays(time.Now().In(uc.loc), dashboardWindowDays)

	var (
		figures stockFigures
		report  *dto.PeriodReportResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := uc.stockFigures(gctx, rc)
		if err != nil {
			return fmt.Errorf("dashboard: stock: %w", err)
		}
		figures = f
		return nil
	})
	g.Go(func() error {
		r, err := uc.reports.Build(gctx, rc, window)
		if err != nil {
			return fmt.Errorf("dashboard: informe 30 días: %w", err)
		}
		report = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardSummaryDTO{
		TotalMaterials:          figures.total,
		StockValue:              figures.value.Round(2),
		MaterialsWithoutPrice:   figures.withoutPrice,
		YearlyConsumptionTonnes: figures.yearlyT.Round(3),
		Last30From:              report.From,
		Last30To:                report.To,
		Last30CostValue:         report.Totals.CostValue.Round(2),
		Last30Consumption:       make([]dto.ConsumptionDTO, 0, len(report.Rows)),
		LowCoverageDays:         uc.lowCoverageDays,
		LowCoverage:             figures.low,
	}
	for _, row := range report.Rows {
		if row.PeriodConsumption == nil {
			continue
		}
		out.Last30Consumption = append(out.Last30Consumption, dto.ConsumptionDTO{
			MaterialID:  row.MaterialID,
			Material:    row.Material,
			Unit:        row.Unit,
			Consumption: *row.PeriodConsumption,
			CostValue:   row.PeriodCostValue,
		})
	}
	return out, nil
}

func (uc *DashboardUseCase) stockFigures(ctx context.Context, rc dto.RequestContext) (stockFigures, error) {
	f := stockFigures{value: decimal.Zero, yearlyT: decimal.Zero, low: make([]dto.LowCoverageDTO, 0)}
	materials, err := uc.materialRepo.ListByCompany(ctx, rc.CompanyID)
	if err != nil {
		return f, err
	}
	f.total = len(materials)
	for _, m := range materials {
		profile := domaininv.Profile(m.Stock, m.DailyConsumption)
		f.yearlyT = f.yearlyT.Add(m.DailyConsumption.Mul(decimal.NewFromInt(365)).Div(kgPerTonne))
		if profile.CoverageTwoLines != nil && profile.CoverageTwoLines.LessThan(uc.lowCoverageDays) {
			f.low = append(f.low, dto.LowCoverageDTO{
				MaterialID:   m.ID,
				Material:     m.Name,
				Stock:        m.Stock,
				CoverageDays: *profile.CoverageTwoLines,
			})
		}

		ledger, err := uc.materialRepo.GetLedger(ctx, rc.CompanyID, m.ID)
		if err != nil {
			return f, err
		}
		if ledger == nil {
			continue
		}
		cost := domaininv.WeightedAverageCost(domaininv.LedgerFrom(ledger))
		if cost == nil {
			f.withoutPrice++
			continue
		}
		f.value = f.value.Add(ledger.Material.Stock.Mul(*cost))
	}
	sort.SliceStable(f.low, func(i, j int) bool { return f.low[i].CoverageDays.LessThan(f.low[j].CoverageDays) })
	return f, nil
}
