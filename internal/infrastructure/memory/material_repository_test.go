package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/infrastructure/memory"
)

func newMaterial(t *testing.T, repo *memory.MaterialRepo, companyID, id, stock string) {
	t.Helper()
	now := time.Now()
	m := &entity.Material{ID: id, CompanyID: companyID, Name: "mat-" + id, Stock: decimal.RequireFromString(stock), Unit: "kg", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), m, nil))
}

func TestMaterialRepo_UsoInsuficienteNoCambiaElLibro(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Materials()
	newMaterial(t, repo, "c1", "m1", "5")

	_, err := repo.AppendUsage(ctx, "c1", "m1", &entity.UsageEntry{ID: "u1", Quantity: decimal.NewFromInt(6), Date: time.Now()})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	l, err := repo.GetLedger(ctx, "c1", "m1")
	require.NoError(t, err)
	assert.True(t, l.Material.Stock.Equal(decimal.NewFromInt(5)))
	assert.Empty(t, l.Usages)
	assert.Empty(t, l.Imports)
}

func TestMaterialRepo_OtraEmpresaEsNoEncontrado(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Materials()
	newMaterial(t, repo, "c1", "m1", "5")

	_, err := repo.AppendImport(ctx, "c2", "m1", &entity.ImportEntry{ID: "i1", Quantity: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	m, err := repo.GetByID(ctx, "c2", "m1")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestMaterialRepo_UsosConcurrentesNoPierdenActualizaciones(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Materials()
	newMaterial(t, repo, "c1", "m1", "100")

	var wg sync.WaitGroup
	var mu sync.Mutex
	rejected := 0
	for i := 0; i < 150; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AppendUsage(ctx, "c1", "m1", &entity.UsageEntry{Quantity: decimal.NewFromInt(1), Date: time.Now()})
			if errors.Is(err, domain.ErrInsufficientStock) {
				mu.Lock()
				rejected++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	l, err := repo.GetLedger(ctx, "c1", "m1")
	require.NoError(t, err)
	assert.True(t, l.Material.Stock.IsZero())
	assert.Len(t, l.Usages, 100)
	assert.Equal(t, 50, rejected)
}

func TestMaterialRepo_RemoveImport(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Materials()
	newMaterial(t, repo, "c1", "m1", "0")
	_, err := repo.AppendImport(ctx, "c1", "m1", &entity.ImportEntry{ID: "i1", Quantity: decimal.NewFromInt(10), Date: time.Now()})
	require.NoError(t, err)
	_, err = repo.AppendImport(ctx, "c1", "m1", &entity.ImportEntry{ID: "i2", Quantity: decimal.NewFromInt(4), Date: time.Now()})
	require.NoError(t, err)

	removed, err := repo.RemoveImport(ctx, "c1", "m1", "i1", false, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "i1", removed.ID)
	l, _ := repo.GetLedger(ctx, "c1", "m1")
	assert.True(t, l.Material.Stock.Equal(decimal.NewFromInt(14)), "sin ajuste el stock no cambia")
	assert.Len(t, l.Imports, 1)

	_, err = repo.RemoveImport(ctx, "c1", "m1", "i2", true, "a@b.c")
	require.NoError(t, err)
	l, _ = repo.GetLedger(ctx, "c1", "m1")
	assert.True(t, l.Material.Stock.Equal(decimal.NewFromInt(10)))
	assert.Empty(t, l.Imports)

	_, err = repo.RemoveImport(ctx, "c1", "m1", "i2", true, "a@b.c")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMaterialRepo_UpdateConStock(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Materials()
	newMaterial(t, repo, "c1", "m1", "10")

	cur, err := repo.GetByID(ctx, "c1", "m1")
	require.NoError(t, err)
	cur.Supplier = "Ineos"
	cur.LastModifiedBy = "a@b.c"
	cur.UpdatedAt = time.Now()
	target := decimal.NewFromInt(4)
	m, err := repo.Update(ctx, cur, &target)
	require.NoError(t, err)
	assert.True(t, m.Stock.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "Ineos", m.Supplier)
	assert.Equal(t, "a@b.c", m.LastModifiedBy)

	l, _ := repo.GetLedger(ctx, "c1", "m1")
	require.Len(t, l.Usages, 1)
	assert.True(t, l.Usages[0].Quantity.Equal(decimal.NewFromInt(6)))
}

func TestMaterialRepo_UpdateSinStockNoTocaElLibro(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Materials()
	newMaterial(t, repo, "c1", "m1", "10")

	cur, _ := repo.GetByID(ctx, "c1", "m1")
	cur.Stock = decimal.NewFromInt(999)
	m, err := repo.Update(ctx, cur, nil)
	require.NoError(t, err)
	assert.True(t, m.Stock.Equal(decimal.NewFromInt(10)))

	l, _ := repo.GetLedger(ctx, "c1", "m1")
	assert.Empty(t, l.Usages)
	assert.Empty(t, l.Imports)
}

func TestMaterialRepo_ListByCompanyOrdenDeCreacion(t *testing.T) {
	repo := memory.NewStore().Materials()
	newMaterial(t, repo, "c1", "b", "1")
	newMaterial(t, repo, "c1", "a", "1")
	newMaterial(t, repo, "c2", "z", "1")

	list, err := repo.ListByCompany(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
}
