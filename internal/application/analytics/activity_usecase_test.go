package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportilla/tiendas-api/internal/application/analytics"
	"github.com/jportilla/tiendas-api/internal/domain"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
	"github.com/jportilla/tiendas-api/internal/domain/repository"
)

func buildActivity(repo *fakeAnalyticsRepo) *analytics.ActivityUseCase {
	stores := &fakeStoreRepo{stores: map[string]*entity.Store{
		testStoreID: {ID: testStoreID, Name: "La Esquina"},
	}}
	return analytics.NewActivityUseCase(stores, repo).
		WithClock(func() time.Time { return dashboardNow })
}

func activityDay(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestRecentActivity_TiendaInexistente(t *testing.T) {
	uc := buildActivity(&fakeAnalyticsRepo{})

	_, err := uc.RecentActivity(context.Background(), "fantasma", "", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecentActivity_FechaInvalida(t *testing.T) {
	uc := buildActivity(&fakeAnalyticsRepo{})

	_, err := uc.RecentActivity(context.Background(), testStoreID, "18-06-2025", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecentActivity_SinActividadDevuelveListasVacias(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		inventory: []repository.InventoryItem{
			{ProductID: "p1", Name: "Café", Stock: 10, Price: decimal.NewFromInt(5)},
		},
	}
	uc := buildActivity(repo)

	out, err := uc.RecentActivity(context.Background(), testStoreID, "", 0)
	require.NoError(t, err)

	assert.Empty(t, out.PurchaseDays)
	assert.Empty(t, out.SaleDays)
	require.Len(t, out.Inventory, 1, "el inventario se devuelve aunque no haya movimientos")
	assert.Equal(t, "2025-06-18", out.ReferenceDate, "sin fecha explícita la referencia es hoy")
}

// Los días sin movimiento no se emiten: si hubo ventas el 17 y el 15 pero no
// el 16, la respuesta trae exactamente dos días.
func TestRecentActivity_OmiteDiasSinMovimiento(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		inventory: []repository.InventoryItem{
			{ProductID: "p1", Name: "Café"},
			{ProductID: "p2", Name: "Azúcar"},
		},
		activityDays: map[entity.LedgerKind][]time.Time{
			entity.KindSale: {activityDay(17), activityDay(15)},
		},
		quantities: map[entity.LedgerKind][]repository.DayQuantity{
			entity.KindSale: {
				{Day: activityDay(17), ProductID: "p1", Quantity: 3},
				{Day: activityDay(15), ProductID: "p2", Quantity: 1},
			},
		},
	}
	uc := buildActivity(repo)

	out, err := uc.RecentActivity(context.Background(), testStoreID, "2025-06-18", 0)
	require.NoError(t, err)

	require.Len(t, out.SaleDays, 2)
	assert.Equal(t, "2025-06-17", out.SaleDays[0].Date, "más reciente primero")
	assert.Equal(t, "2025-06-15", out.SaleDays[1].Date)
	assert.Empty(t, out.PurchaseDays)
}

// Dentro de cada día devuelto aparecen todos los productos de la tienda, con
// cantidad cero para los que no se movieron ese día.
func TestRecentActivity_RellenaConCeros(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		inventory: []repository.InventoryItem{
			{ProductID: "p1", Name: "Café"},
			{ProductID: "p2", Name: "Azúcar"},
			{ProductID: "p3", Name: "Harina"},
		},
		activityDays: map[entity.LedgerKind][]time.Time{
			entity.KindPurchase: {activityDay(18)},
		},
		quantities: map[entity.LedgerKind][]repository.DayQuantity{
			entity.KindPurchase: {
				{Day: activityDay(18), ProductID: "p2", Quantity: 7},
			},
		},
	}
	uc := buildActivity(repo)

	out, err := uc.RecentActivity(context.Background(), testStoreID, "2025-06-18", 0)
	require.NoError(t, err)

	require.Len(t, out.PurchaseDays, 1)
	day := out.PurchaseDays[0]
	require.Len(t, day.Products, 3, "todos los productos del inventario, con o sin movimiento")

	byID := make(map[string]int64)
	for _, p := range day.Products {
		byID[p.ProductID] = p.Quantity
	}
	assert.Equal(t, int64(0), byID["p1"])
	assert.Equal(t, int64(7), byID["p2"])
	assert.Equal(t, int64(0), byID["p3"])
}

func TestRecentActivity_LimiteDeDias(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		inventory: []repository.InventoryItem{{ProductID: "p1", Name: "Café"}},
		activityDays: map[entity.LedgerKind][]time.Time{
			entity.KindSale: {activityDay(18), activityDay(17), activityDay(16), activityDay(15)},
		},
	}
	uc := buildActivity(repo)

	out, err := uc.RecentActivity(context.Background(), testStoreID, "", 2)
	require.NoError(t, err)
	assert.Len(t, out.SaleDays, 2, "limit_ops acota los días devueltos")
}

func TestRecentActivity_LimiteSeAcotaAlMaximo(t *testing.T) {
	var days []time.Time
	for d := 1; d <= 18; d++ {
		days = append(days, activityDay(d))
	}
	repo := &fakeAnalyticsRepo{
		inventory:    []repository.InventoryItem{{ProductID: "p1", Name: "Café"}},
		activityDays: map[entity.LedgerKind][]time.Time{entity.KindSale: days},
	}
	uc := buildActivity(repo)

	// Un límite absurdo se acota a 31; aquí solo hay 18 días disponibles.
	out, err := uc.RecentActivity(context.Background(), testStoreID, "", 10_000)
	require.NoError(t, err)
	assert.Len(t, out.SaleDays, 18)
}
