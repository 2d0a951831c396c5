package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Magacin-api/internal/application/dto"
	"github.com/jhoicas/Magacin-api/internal/application/usecase"
	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/infrastructure/memory"
)

func TestOrder_CicloCompleto(t *testing.T) {
	store := memory.NewStore()
	materials := newMaterialUC(store)
	uc := usecase.NewOrderUseCase(store.Orders(), store.Materials(), time.UTC)
	ctx := context.Background()

	m, err := materials.Create(ctx, adminRC, dto.CreateMaterialRequest{Name: "PVC"})
	require.NoError(t, err)

	first, err := uc.Create(ctx, adminRC, dto.CreateOrderRequest{MaterialID: m.ID, Quantity: dec("1000"), Price: dec("1.15"), OrderDate: "2024-02-01"})
	require.NoError(t, err)
	assert.Equal(t, "PVC", first.MaterialName)
	assert.True(t, first.Total.Equal(dec("1150")))

	_, err = uc.Create(ctx, adminRC, dto.CreateOrderRequest{MaterialID: m.ID, Quantity: dec("10"), Price: dec("1"), OrderDate: "2024-03-01"})
	require.NoError(t, err)

	list, err := uc.List(ctx, adminRC)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), list[0].OrderDate, "más reciente primero")

	updated, err := uc.Update(ctx, bodegueroRC, first.ID, dto.OrderPatch{Price: decp("1.2")})
	require.NoError(t, err)
	assert.True(t, updated.Total.Equal(dec("1200")))
	assert.Equal(t, bodegueroRC.Email, updated.LastModifiedBy)

	require.NoError(t, uc.Delete(ctx, adminRC, first.ID))
	assert.ErrorIs(t, uc.Delete(ctx, adminRC, first.ID), domain.ErrNotFound)
}

func TestOrder_Validaciones(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewOrderUseCase(store.Orders(), store.Materials(), time.UTC)
	ctx := context.Background()

	_, err := uc.Create(ctx, adminRC, dto.CreateOrderRequest{MaterialID: "m", Quantity: dec("0"), Price: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, adminRC, dto.CreateOrderRequest{MaterialID: "m", Quantity: dec("1"), Price: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, adminRC, dto.CreateOrderRequest{MaterialID: "m", Quantity: dec("0.00001"), Price: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, adminRC, dto.CreateOrderRequest{MaterialID: "m", Quantity: dec("1"), Price: dec("1.23456")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, adminRC, dto.CreateOrderRequest{MaterialID: "no-existe", Quantity: dec("1"), Price: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
