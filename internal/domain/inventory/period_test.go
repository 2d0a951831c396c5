package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/inventory"
)

func TestParsePeriod_Valido(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Belgrade")
	require.NoError(t, err)

	p, err := inventory.ParsePeriod("2024-03-01", "2024-03-31", loc)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), p.From)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 999_999_999, loc), p.To)
	assert.True(t, p.Contains(time.Date(2024, 3, 31, 23, 59, 59, 0, loc)))
	assert.False(t, p.Contains(time.Date(2024, 4, 1, 0, 0, 0, 0, loc)))
}

func TestParsePeriod_MismoDia(t *testing.T) {
	p, err := inventory.ParsePeriod("2024-03-05", "2024-03-05", time.UTC)
	require.NoError(t, err)
	assert.True(t, p.Contains(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)))
}

func TestParsePeriod_Invalido(t *testing.T) {
	cases := []struct {
		name     string
		from, to string
	}{
		{"from vacío", "", "2024-01-02"},
		{"to vacío", "2024-01-02", ""},
		{"from mal formado", "02/01/2024", "2024-01-03"},
		{"to mal formado", "2024-01-01", "mañana"},
		{"from posterior a to", "2024-02-01", "2024-01-31"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := inventory.ParsePeriod(tc.from, tc.to, time.UTC)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestLastDays(t *testing.T) {
	now := time.Date(2024, 5, 30, 15, 4, 5, 0, time.UTC)
	p := inventory.LastDays(now, 30)

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), p.From)
	assert.True(t, p.Contains(now))
}

func TestParseEntryDate(t *testing.T) {
	now := time.Date(2024, 5, 30, 15, 4, 5, 0, time.UTC)

	got, err := inventory.ParseEntryDate("", time.UTC, now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = inventory.ParseEntryDate("2024-05-01", time.UTC, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = inventory.ParseEntryDate("2024-05-01T10:30:00Z", time.UTC, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), got)

	_, err = inventory.ParseEntryDate("ayer", time.UTC, now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
