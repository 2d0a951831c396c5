package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/infrastructure/pdf"
)

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRender_GeneraPDF(t *testing.T) {
	report := &dto.PeriodReportResponse{
		CompanyName: "Fabrika d.o.o.",
		From:        "2024-01-01",
		To:          "2024-01-31",
		Rows: []dto.ReportRowDTO{
			{MaterialID: "m1", Material: "PVC", Unit: "kg", OpeningStock: decp("80"), PeriodInflow: decp("30"),
				ClosingStock: decp("110"), PeriodConsumption: decp("0"), LastUnitPrice: decp("2"),
				PeriodCostValue: decp("0"), CostTwoLines: decp("0"), CostOneLine: decp("0")},
			{MaterialID: "m2", Material: "Kreda", Unit: "kg", OpeningStock: decp("5"), PeriodInflow: decp("0"),
				ClosingStock: decp("5"), PeriodConsumption: decp("0")},
			{MaterialID: "m3", Material: "Stabilizator", Unit: "kg", Error: "lectura fallida"},
		},
		Totals: dto.ReportTotalsDTO{CostValue: decimal.Zero, RowsWithPrice: 1, RowsWithoutPrice: 1, RowsFailed: 1},
	}

	r := pdf.NewReportRenderer("")
	assert.Equal(t, dto.ReportFormatPDF, r.Format())

	file, err := r.Render(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "informe_2024-01-01_2024-01-31.pdf", file.Filename)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF")))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "n/d", pdf.Money(nil, "EUR"))
	assert.Equal(t, "€1,234.56", pdf.Money(decp("1234.555"), "EUR"))
	assert.Equal(t, "€37.50", pdf.Money(decp("37.5"), "EUR"))
}
