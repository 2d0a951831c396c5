// Package pdf genera el informe de periodo en PDF.
//
// Layout de la página A4 apaisada:
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa                     │  Informe de consumo + periodo│
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TABLA: Material | Ud | Inicial | Entradas | Final | Consumo |   │
//	│         Últ. precio | Costo 2 líneas | Costo 1 línea              │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TOTALES: costo del periodo / filas sin precio / filas con error  │
//	└──────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	"github.com/Rhymond/go-money"
	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/application/inventory"
)

var _ inventory.ReportRenderer = (*ReportRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorError   = &props.Color{Red: 170, Green: 20, Blue: 20}
)

// sin dato (precio desconocido o fila fallida)
const missing = "n/d"

// ── Renderer ──────────────────────────────────────────────────────────────────

// ReportRenderer implementa inventory.ReportRenderer usando Maroto v2.
type ReportRenderer struct {
	currency string
}

// NewReportRenderer construye el renderer; los importes se muestran en la moneda indicada (EUR por defecto).
func NewReportRenderer(currency string) *ReportRenderer {
	if currency == "" {
		currency = money.EUR
	}
	return &ReportRenderer{currency: currency}
}

// Format identifica el formato en ?format=.
func (g *ReportRenderer) Format() string { return dto.ReportFormatPDF }

// Render genera el PDF y devuelve sus bytes.
func (g *ReportRenderer) Render(_ context.Context, report *dto.PeriodReportResponse) (*dto.ReportFile, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Informe de consumo "+report.From+" / "+report.To, true).
		WithAuthor(report.CompanyName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(report.Rows, g.currency)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report.Totals, g.currency))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return &dto.ReportFile{
		Filename:    fmt.Sprintf("informe_%s_%s.pdf", report.From, report.To),
		ContentType: "application/pdf",
		Content:     doc.GetBytes(),
	}, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *dto.PeriodReportResponse) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(nonEmpty(report.CompanyName, "Magacin"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("INFORME DE CONSUMO DE MATERIAS PRIMAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Periodo: "+report.From+" a "+report.To, props.Text{
				Size: 9, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Material", 3, align.Left),
		h("Ud", 1, align.Center),
		h("Inicial", 1, align.Right),
		h("Entradas", 1, align.Right),
		h("Final", 1, align.Right),
		h("Consumo", 1, align.Right),
		h("Últ. precio", 1, align.Right),
		h("Costo 2 líneas", 2, align.Right),
		h("Costo 1 línea", 1, align.Right),
	)
}

func tableRows(rows []dto.ReportRowDTO, currency string) []core.Row {
	out := make([]core.Row, 0, len(rows))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, r := range rows {
		if r.Error != "" {
			out = append(out, row.New(7).Add(
				cell(r.Material, 3, align.Left),
				cell(r.Unit, 1, align.Center),
				col.New(8).Add(text.New("Error: "+r.Error, props.Text{Size: 8, Top: 1, Left: 1, Color: colorError})),
			))
			continue
		}
		out = append(out, row.New(7).Add(
			cell(r.Material, 3, align.Left),
			cell(r.Unit, 1, align.Center),
			cell(quantity(r.OpeningStock), 1, align.Right),
			cell(quantity(r.PeriodInflow), 1, align.Right),
			cell(quantity(r.ClosingStock), 1, align.Right),
			cell(quantity(r.PeriodConsumption), 1, align.Right),
			cell(Money(r.LastUnitPrice, currency), 1, align.Right),
			cell(Money(r.CostTwoLines, currency), 2, align.Right),
			cell(Money(r.CostOneLine, currency), 1, align.Right),
		))
	}
	return out
}

func totalsRow(t dto.ReportTotalsDTO, currency string) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	cost := t.CostValue
	return row.New(16).Add(
		col.New(6),
		col.New(3).Add(
			label("Costo del periodo:"),
			text.New("Materiales sin precio / con error:", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2, Top: 6, Color: colorGray,
			}),
		),
		col.New(3).Add(
			value(Money(&cost, currency)),
			text.New(fmt.Sprintf("%d / %d", t.RowsWithoutPrice, t.RowsFailed), props.Text{
				Size: 8, Align: align.Right, Right: 1, Top: 6, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// Money formatea un importe con go-money (símbolo y separadores de la moneda); nil se muestra como sin dato.
func Money(d *decimal.Decimal, currency string) string {
	if d == nil {
		return missing
	}
	m := money.New(0, currency)
	minor := d.Shift(int32(m.Currency().Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}

func quantity(d *decimal.Decimal) string {
	if d == nil {
		return missing
	}
	return d.StringFixed(2)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
