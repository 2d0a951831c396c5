package inventory_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	appinv "github.com/jhoicas/Magacin-api/internal/application/inventory"
	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/infrastructure/memory"
)

// failingLedgerRepo falla al leer el historial de un material concreto.
type failingLedgerRepo struct {
	*memory.MaterialRepo
	failID string
}

func (r failingLedgerRepo) GetLedger(ctx context.Context, companyID, id string) (*entity.MaterialLedger, error) {
	if id == r.failID {
		return nil, errors.New("lectura fallida")
	}
	return r.MaterialRepo.GetLedger(ctx, companyID, id)
}

type fakeRenderer struct{ format string }

func (f fakeRenderer) Format() string { return f.format }

func (f fakeRenderer) Render(_ context.Context, r *dto.PeriodReportResponse) (*dto.ReportFile, error) {
	return &dto.ReportFile{Filename: "informe." + f.format, ContentType: "text/plain", Content: []byte(r.From + "|" + r.To)}, nil
}

func at(day int) string {
	return time.Date(2024, time.January, day, 10, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

func seedScenario(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	seedMaterial(t, store, "m1", "PVC", "70")
	seedMaterial(t, store, "m2", "Kreda", "5")
	ledger := newLedgerUC(store)

	_, err := ledger.RecordImport(ctx, rc, "m1", dto.RecordImportRequest{Quantity: dec("30"), UnitPrice: decp("2"), Date: at(20)})
	require.NoError(t, err)
	_, err = ledger.RecordUsage(ctx, rc, "m1", dto.RecordUsageRequest{Quantity: dec("10"), Date: at(21)})
	require.NoError(t, err)
	_, err = ledger.RecordUsage(ctx, rc, "m1", dto.RecordUsageRequest{Quantity: dec("10"), Date: at(25)})
	require.NoError(t, err)
}

func TestGetReport_FilasEnOrdenYCifras(t *testing.T) {
	store := memory.NewStore()
	seedScenario(t, store)
	uc := appinv.NewReportUseCase(store.Materials(), store.Companies(), time.UTC, zerolog.Nop())

	rep, err := uc.GetReport(context.Background(), rc, "2024-01-15", "2024-01-22")
	require.NoError(t, err)
	require.Len(t, rep.Rows, 2)

	pvc := rep.Rows[0]
	assert.Equal(t, "PVC", pvc.Material)
	assert.True(t, pvc.OpeningStock.Equal(dec("70")))
	assert.True(t, pvc.PeriodInflow.Equal(dec("30")))
	assert.True(t, pvc.ClosingStock.Equal(dec("90")))
	assert.True(t, pvc.PeriodConsumption.Equal(dec("10")))
	require.NotNil(t, pvc.PeriodCostValue)
	assert.True(t, pvc.PeriodCostValue.Equal(dec("20")))
	assert.True(t, pvc.CostTwoLines.Equal(dec("20")))
	assert.True(t, pvc.CostOneLine.Equal(dec("10")))

	kreda := rep.Rows[1]
	assert.Equal(t, "Kreda", kreda.Material)
	assert.Nil(t, kreda.LastUnitPrice)
	assert.Nil(t, kreda.PeriodCostValue)

	assert.True(t, rep.Totals.CostValue.Equal(dec("20")))
	assert.Equal(t, 1, rep.Totals.RowsWithPrice)
	assert.Equal(t, 1, rep.Totals.RowsWithoutPrice)
}

func TestGetReport_SinPrecioSeSerializaComoNull(t *testing.T) {
	store := memory.NewStore()
	seedMaterial(t, store, "m1", "Kreda", "5")
	uc := appinv.NewReportUseCase(store.Materials(), nil, time.UTC, zerolog.Nop())

	rep, err := uc.GetReport(context.Background(), rc, "2024-01-01", "2024-01-31")
	require.NoError(t, err)

	raw, err := json.Marshal(rep.Rows[0])
	require.NoError(t, err)
	var row map[string]any
	require.NoError(t, json.Unmarshal(raw, &row))
	for _, k := range []string{"last_unit_price", "period_cost_value", "cost_two_lines", "cost_one_line"} {
		v, ok := row[k]
		assert.True(t, ok, "%s debe estar presente", k)
		assert.Nil(t, v, "%s debe ser null, no 0", k)
	}
	assert.Equal(t, "0", row["period_consumption"])
}

func TestGetReport_PeriodoInvalidoNoLeeNada(t *testing.T) {
	uc := appinv.NewReportUseCase(memory.NewStore().Materials(), nil, time.UTC, zerolog.Nop())

	for _, q := range [][2]string{{"", "2024-01-01"}, {"2024-01-01", "x"}, {"2024-02-01", "2024-01-01"}} {
		rep, err := uc.GetReport(context.Background(), rc, q[0], q[1])
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Nil(t, rep)
	}
}

func TestGetReport_BestEffortPorMaterial(t *testing.T) {
	store := memory.NewStore()
	seedScenario(t, store)
	repo := failingLedgerRepo{MaterialRepo: store.Materials(), failID: "m1"}
	uc := appinv.NewReportUseCase(repo, nil, time.UTC, zerolog.Nop())

	rep, err := uc.GetReport(context.Background(), rc, "2024-01-15", "2024-01-22")
	require.NoError(t, err)
	require.Len(t, rep.Rows, 2)

	assert.NotEmpty(t, rep.Rows[0].Error)
	assert.Nil(t, rep.Rows[0].OpeningStock)
	assert.Empty(t, rep.Rows[1].Error)
	assert.NotNil(t, rep.Rows[1].OpeningStock)
	assert.Equal(t, 1, rep.Totals.RowsFailed)
}

func TestExportReport(t *testing.T) {
	store := memory.NewStore()
	seedScenario(t, store)
	uc := appinv.NewReportUseCase(store.Materials(), nil, time.UTC, zerolog.Nop(), fakeRenderer{format: dto.ReportFormatPDF})

	file, err := uc.ExportReport(context.Background(), rc, "2024-01-15", "2024-01-22", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15|2024-01-22", string(file.Content))

	_, err = uc.ExportReport(context.Background(), rc, "2024-01-15", "2024-01-22", "docx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
