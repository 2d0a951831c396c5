package spreadsheet_test

import (
	"context"
	"testing"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/infrastructure/spreadsheet"
)

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRender_SpreadsheetML(t *testing.T) {
	report := &dto.PeriodReportResponse{
		CompanyName: "Fabrika",
		From:        "2024-01-01",
		To:          "2024-01-31",
		Rows: []dto.ReportRowDTO{
			{Material: "PVC", Unit: "kg", OpeningStock: decp("80"), PeriodInflow: decp("30"), ClosingStock: decp("110"),
				PeriodConsumption: decp("0"), LastUnitPrice: decp("2"), CostTwoLines: decp("0"), CostOneLine: decp("0")},
			{Material: "Kreda", Unit: "kg", OpeningStock: decp("5"), PeriodInflow: decp("0"), ClosingStock: decp("5"),
				PeriodConsumption: decp("0")},
		},
		Totals: dto.ReportTotalsDTO{CostValue: decimal.RequireFromString("37.5")},
	}

	r := spreadsheet.NewReportRenderer()
	assert.Equal(t, dto.ReportFormatXML, r.Format())
	file, err := r.Render(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "informe_2024-01-01_2024-01-31.xml", file.Filename)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(file.Content))
	rows := doc.FindElements("//Worksheet/Table/Row")
	require.Len(t, rows, 5, "título, cabecera, dos materiales y totales")

	pvc := rows[2].SelectElements("Cell")
	require.Len(t, pvc, 10)
	assert.Equal(t, "PVC", pvc[0].FindElement("Data").Text())
	assert.Equal(t, "110", pvc[4].FindElement("Data").Text())
	assert.Equal(t, "Number", pvc[4].FindElement("Data").SelectAttrValue("ss:Type", ""))

	kreda := rows[3].SelectElements("Cell")
	assert.Nil(t, kreda[6].FindElement("Data"), "precio desconocido = celda vacía")

	total := rows[4].SelectElements("Cell")
	assert.Equal(t, "37.5", total[7].FindElement("Data").Text())
}
