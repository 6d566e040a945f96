package analytics_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportilla/tiendas-api/internal/application/analytics"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
	"github.com/jportilla/tiendas-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeStoreRepo struct {
	stores map[string]*entity.Store
}

func (r *fakeStoreRepo) Create(s *entity.Store) error { r.stores[s.ID] = s; return nil }
func (r *fakeStoreRepo) GetByID(id string) (*entity.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}
func (r *fakeStoreRepo) Update(s *entity.Store) error { r.stores[s.ID] = s; return nil }
func (r *fakeStoreRepo) List(limit, offset int) ([]*entity.Store, error) {
	var out []*entity.Store
	for _, s := range r.stores {
		out = append(out, s)
	}
	return out, nil
}
func (r *fakeStoreRepo) Delete(id string) error { delete(r.stores, id); return nil }

// fakeAnalyticsRepo devuelve valores fijos y recuerda las ventanas con las
// que se le consultó. El caso de uso lo consulta desde varias goroutines, así
// que los campos de registro van protegidos por mutex.
type fakeAnalyticsRepo struct {
	stock        int64
	totals       map[entity.LedgerKind]decimal.Decimal
	topNames     map[entity.LedgerKind]*string
	topStore     *repository.TopStoreRow
	activityDays map[entity.LedgerKind][]time.Time
	quantities   map[entity.LedgerKind][]repository.DayQuantity
	inventory    []repository.InventoryItem

	mu       sync.Mutex
	lastFrom *time.Time
	lastTo   time.Time
}

func (r *fakeAnalyticsRepo) recordWindow(from *time.Time, to time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFrom, r.lastTo = from, to
}

func (r *fakeAnalyticsRepo) lastWindowFrom() *time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastFrom
}

func (r *fakeAnalyticsRepo) GetStoreStock(ctx context.Context, storeID string) (int64, error) {
	return r.stock, nil
}

func (r *fakeAnalyticsRepo) GetLedgerTotal(ctx context.Context, kind entity.LedgerKind, storeID string, from *time.Time, to time.Time) (decimal.Decimal, error) {
	r.recordWindow(from, to)
	if t, ok := r.totals[kind]; ok {
		return t, nil
	}
	return decimal.Zero, nil
}

func (r *fakeAnalyticsRepo) GetTopProductName(ctx context.Context, kind entity.LedgerKind, storeID string, from *time.Time, to time.Time) (*string, error) {
	return r.topNames[kind], nil
}

func (r *fakeAnalyticsRepo) GetTopStore(ctx context.Context, from *time.Time, to time.Time) (*repository.TopStoreRow, error) {
	r.recordWindow(from, to)
	return r.topStore, nil
}

func (r *fakeAnalyticsRepo) GetActivityDays(ctx context.Context, kind entity.LedgerKind, storeID string, reference time.Time, limit int) ([]time.Time, error) {
	days := r.activityDays[kind]
	if len(days) > limit {
		days = days[:limit]
	}
	return days, nil
}

func (r *fakeAnalyticsRepo) GetDayQuantities(ctx context.Context, kind entity.LedgerKind, storeID string, days []time.Time) ([]repository.DayQuantity, error) {
	return r.quantities[kind], nil
}

func (r *fakeAnalyticsRepo) GetInventory(ctx context.Context, storeID string) ([]repository.InventoryItem, error) {
	return r.inventory, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// GetStoreSummary
// ──────────────────────────────────────────────────────────────────────────────

const testStoreID = "00000000-0000-0000-0000-000000000010"

var dashboardNow = time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

func buildDashboard(repo *fakeAnalyticsRepo) *analytics.DashboardUseCase {
	stores := &fakeStoreRepo{stores: map[string]*entity.Store{
		testStoreID: {ID: testStoreID, Name: "La Esquina"},
	}}
	return analytics.NewDashboardUseCase(stores, repo).
		WithClock(func() time.Time { return dashboardNow })
}

func TestGetStoreSummary_CalculaBalance(t *testing.T) {
	topSold := "Café"
	repo := &fakeAnalyticsRepo{
		stock: 42,
		totals: map[entity.LedgerKind]decimal.Decimal{
			entity.KindPurchase: decimal.RequireFromString("100.555"),
			entity.KindSale:     decimal.RequireFromString("250.004"),
		},
		topNames: map[entity.LedgerKind]*string{entity.KindSale: &topSold},
	}
	uc := buildDashboard(repo)

	out, err := uc.GetStoreSummary(context.Background(), testStoreID, "month")
	require.NoError(t, err)

	assert.Equal(t, testStoreID, out.StoreID)
	assert.Equal(t, "La Esquina", out.StoreName)
	assert.Equal(t, int64(42), out.TotalStock)
	assert.Equal(t, "100.56", out.PurchasesTotal.String(), "redondeado a 2 decimales")
	assert.Equal(t, "250", out.SalesTotal.String())
	assert.Equal(t, "149.45", out.Balance.String(), "ventas - compras, redondeado")
	require.NotNil(t, out.TopSoldProduct)
	assert.Equal(t, "Café", *out.TopSoldProduct)
	assert.Nil(t, out.TopPurchasedProduct, "sin compras no hay producto más comprado")
	assert.Equal(t, "month", out.Period)
}

func TestGetStoreSummary_TiendaInexistenteDevuelveCeros(t *testing.T) {
	uc := buildDashboard(&fakeAnalyticsRepo{})

	out, err := uc.GetStoreSummary(context.Background(), "fantasma", "week")
	require.NoError(t, err, "tienda inexistente no es un error del dashboard")

	assert.Equal(t, "fantasma", out.StoreID)
	assert.Empty(t, out.StoreName)
	assert.Zero(t, out.TotalStock)
	assert.True(t, out.PurchasesTotal.IsZero())
	assert.True(t, out.SalesTotal.IsZero())
	assert.True(t, out.Balance.IsZero())
	assert.Equal(t, "week", out.Period)
}

func TestGetStoreSummary_PeriodoDesconocidoEsTotal(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	uc := buildDashboard(repo)

	out, err := uc.GetStoreSummary(context.Background(), testStoreID, "trimestre")
	require.NoError(t, err)
	assert.Equal(t, "total", out.Period)
	assert.Nil(t, repo.lastWindowFrom(), "total consulta sin cota inferior")
}

func TestGetStoreSummary_PeriodoVacioSinActividad(t *testing.T) {
	uc := buildDashboard(&fakeAnalyticsRepo{stock: 7})

	out, err := uc.GetStoreSummary(context.Background(), testStoreID, "today")
	require.NoError(t, err)
	assert.True(t, out.PurchasesTotal.IsZero())
	assert.True(t, out.SalesTotal.IsZero())
	assert.True(t, out.Balance.IsZero())
	assert.Equal(t, int64(7), out.TotalStock, "el stock es foto actual, no depende del período")
}

// ──────────────────────────────────────────────────────────────────────────────
// GetTopStore
// ──────────────────────────────────────────────────────────────────────────────

func TestGetTopStore_DevuelveLaDeMayorBalance(t *testing.T) {
	// La tienda sin compras también compite: su balance son sus ventas.
	repo := &fakeAnalyticsRepo{
		topStore: &repository.TopStoreRow{
			StoreID: "b", Name: "Tienda B", Balance: decimal.NewFromInt(250),
		},
	}
	uc := buildDashboard(repo)

	out, err := uc.GetTopStore(context.Background(), "total")
	require.NoError(t, err)
	assert.Equal(t, "b", out.StoreID)
	assert.Equal(t, "Tienda B", out.StoreName)
	assert.Equal(t, "250", out.Balance.String())
}

func TestGetTopStore_SinTiendasDevuelveCeros(t *testing.T) {
	uc := buildDashboard(&fakeAnalyticsRepo{})

	out, err := uc.GetTopStore(context.Background(), "year")
	require.NoError(t, err)
	assert.Empty(t, out.StoreID)
	assert.True(t, out.Balance.IsZero())
	assert.Equal(t, "year", out.Period)
}
