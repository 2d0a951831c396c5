package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalogue_PorDefecto(t *testing.T) {
	items, err := parseCatalogue(bytes.NewReader(defaultCatalogue))
	require.NoError(t, err)
	require.Len(t, items, 23)
	assert.Equal(t, "Feldspat", items[0].Name)
	assert.True(t, items[0].DailyConsumption.Equal(decimal.NewFromInt(532)))
	assert.Equal(t, "", items[0].Unit)

	film := items[10]
	assert.Equal(t, "rolni", film.Unit)
	assert.True(t, film.DailyConsumption.Equal(decimal.RequireFromString("0.16")))
}

func TestParseCatalogue_Errores(t *testing.T) {
	_, err := parseCatalogue(strings.NewReader(`<otro/>`))
	assert.Error(t, err)

	_, err = parseCatalogue(strings.NewReader(`<catalogue><material daily="1"/></catalogue>`))
	assert.Error(t, err)

	_, err = parseCatalogue(strings.NewReader(`<catalogue><material name="X" stock="mucho"/></catalogue>`))
	assert.ErrorContains(t, err, "stock")
}

func TestParseCatalogue_AtributosVaciosSonCero(t *testing.T) {
	items, err := parseCatalogue(strings.NewReader(`<catalogue><material name="Pesak"/></catalogue>`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Stock.IsZero())
	assert.True(t, items[0].DailyConsumption.IsZero())
}
