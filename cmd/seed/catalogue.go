package main

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
)

//go:embed catalogue.xml
var defaultCatalogue []byte

// parseCatalogue lee <catalogue><material name daily stock unit/></catalogue>.
// daily y stock vacíos valen cero; unit vacío deja la unidad por defecto.
func parseCatalogue(r io.Reader) ([]dto.CreateMaterialRequest, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("leer catálogo: %w", err)
	}
	root := doc.SelectElement("catalogue")
	if root == nil {
		return nil, fmt.Errorf("catálogo sin elemento <catalogue>")
	}
	var out []dto.CreateMaterialRequest
	for i, el := range root.SelectElements("material") {
		name := strings.TrimSpace(el.SelectAttrValue("name", ""))
		if name == "" {
			return nil, fmt.Errorf("material #%d sin nombre", i+1)
		}
		daily, err := attrDecimal(el, "daily")
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		stock, err := attrDecimal(el, "stock")
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		out = append(out, dto.CreateMaterialRequest{
			Name:             name,
			DailyConsumption: daily,
			Stock:            stock,
			Unit:             el.SelectAttrValue("unit", ""),
		})
	}
	return out, nil
}

func attrDecimal(el *etree.Element, attr string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(el.SelectAttrValue(attr, ""))
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s inválido %q", attr, raw)
	}
	return d, nil
}
