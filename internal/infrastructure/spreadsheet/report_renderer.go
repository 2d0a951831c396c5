// Package spreadsheet exporta el informe de periodo como SpreadsheetML 2003 (XML que Excel abre directamente).
package spreadsheet

import (
	"context"
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/application/inventory"
)

var _ inventory.ReportRenderer = (*ReportRenderer)(nil)

const (
	nsSpreadsheet = "urn:schemas-microsoft-com:office:spreadsheet"
	contentType   = "application/vnd.ms-excel"
)

var columns = []string{
	"Material", "Unidad", "Stock inicial", "Entradas", "Stock final", "Consumo",
	"Último precio", "Costo dos líneas", "Costo una línea", "Error",
}

// ReportRenderer implementa inventory.ReportRenderer con etree.
type ReportRenderer struct{}

// NewReportRenderer construye el renderer.
func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

// Format identifica el formato en ?format=.
func (ReportRenderer) Format() string { return dto.ReportFormatXML }

// Render arma un libro con una hoja "Informe": cabecera, una fila por material y la fila de totales.
// Las cifras sin dato quedan como celdas vacías.
func (ReportRenderer) Render(_ context.Context, report *dto.PeriodReportResponse) (*dto.ReportFile, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateProcInst("mso-application", `progid="Excel.Sheet"`)

	wb := doc.CreateElement("Workbook")
	wb.CreateAttr("xmlns", nsSpreadsheet)
	wb.CreateAttr("xmlns:ss", nsSpreadsheet)

	props := wb.CreateElement("DocumentProperties")
	props.CreateAttr("xmlns", "urn:schemas-microsoft-com:office:office")
	props.CreateElement("Title").SetText(fmt.Sprintf("Informe %s / %s", report.From, report.To))
	props.CreateElement("Company").SetText(report.CompanyName)

	styles := wb.CreateElement("Styles")
	header := styles.CreateElement("Style")
	header.CreateAttr("ss:ID", "header")
	header.CreateElement("Font").CreateAttr("ss:Bold", "1")

	ws := wb.CreateElement("Worksheet")
	ws.CreateAttr("ss:Name", "Informe")
	table := ws.CreateElement("Table")

	title := table.CreateElement("Row")
	addString(title, report.CompanyName, "header")
	addString(title, "Periodo", "header")
	addString(title, report.From, "")
	addString(title, report.To, "")

	head := table.CreateElement("Row")
	for _, c := range columns {
		addString(head, c, "header")
	}

	for _, r := range report.Rows {
		row := table.CreateElement("Row")
		addString(row, r.Material, "")
		addString(row, r.Unit, "")
		for _, v := range []*decimal.Decimal{
			r.OpeningStock, r.PeriodInflow, r.ClosingStock, r.PeriodConsumption,
			r.LastUnitPrice, r.CostTwoLines, r.CostOneLine,
		} {
			addNumber(row, v)
		}
		addString(row, r.Error, "")
	}

	totals := table.CreateElement("Row")
	addString(totals, "Total", "header")
	for i := 0; i < 6; i++ {
		totals.CreateElement("Cell")
	}
	cost := report.Totals.CostValue
	addNumber(totals, &cost)

	doc.Indent(1)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: serializar: %w", err)
	}
	return &dto.ReportFile{
		Filename:    fmt.Sprintf("informe_%s_%s.xml", report.From, report.To),
		ContentType: contentType,
		Content:     out,
	}, nil
}

func addString(row *etree.Element, s, style string) {
	cell := row.CreateElement("Cell")
	if style != "" {
		cell.CreateAttr("ss:StyleID", style)
	}
	data := cell.CreateElement("Data")
	data.CreateAttr("ss:Type", "String")
	data.SetText(s)
}

// addNumber deja la celda vacía cuando no hay dato: null no es cero.
func addNumber(row *etree.Element, v *decimal.Decimal) {
	cell := row.CreateElement("Cell")
	if v == nil {
		return
	}
	data := cell.CreateElement("Data")
	data.CreateAttr("ss:Type", "Number")
	data.SetText(v.String())
}
