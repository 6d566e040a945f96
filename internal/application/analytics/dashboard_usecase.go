// Package analytics contiene los casos de uso de solo lectura del dashboard:
// resumen financiero por tienda, tienda con mayor balance y actividad
// reciente.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jportilla/tiendas-api/internal/application/dto"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
	"github.com/jportilla/tiendas-api/internal/domain/repository"
	"github.com/jportilla/tiendas-api/pkg/storage"
)

// DashboardUseCase calcula el resumen financiero de una tienda y la tienda
// con mayor balance para un período con nombre.
//
// Fuente de datos: AnalyticsRepository (consultas read-only). No accede
// directamente a las tablas; delega todo en el repositorio.
type DashboardUseCase struct {
	storeRepo     repository.StoreRepository
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(storeRepo repository.StoreRepository, analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{storeRepo: storeRepo, analyticsRepo: analyticsRepo, now: time.Now}
}

// WithClock reemplaza la fuente de "ahora" para las ventanas de período.
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetStoreSummary arma el resumen de una tienda para el período dado.
//
// Cinco consultas en paralelo:
//  1. stock total (foto actual, nunca filtrada por período)
//  2. suma de compras en ventana
//  3. suma de ventas en ventana
//  4. producto más vendido en ventana
//  5. producto más comprado en ventana
//
// Si la tienda no existe devuelve el resumen en ceros, no un error.
func (uc *DashboardUseCase) GetStoreSummary(ctx context.Context, storeID, period string) (*dto.StoreSummaryResponse, error) {
	from, to, name := ResolvePeriod(period, uc.now())

	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return &dto.StoreSummaryResponse{
			StoreID:        storeID,
			PurchasesTotal: decimal.Zero,
			SalesTotal:     decimal.Zero,
			Balance:        decimal.Zero,
			Period:         name,
		}, nil
	}

	type totalResult struct {
		total decimal.Decimal
		err   error
	}
	type nameResult struct {
		name *string
		err  error
	}
	type stockResult struct {
		stock int64
		err   error
	}

	stockCh := make(chan stockResult, 1)
	purchasesCh := make(chan totalResult, 1)
	salesCh := make(chan totalResult, 1)
	topSoldCh := make(chan nameResult, 1)
	topPurchasedCh := make(chan nameResult, 1)

	go func() {
		stock, err := uc.analyticsRepo.GetStoreStock(ctx, storeID)
		stockCh <- stockResult{stock, err}
	}()
	go func() {
		total, err := uc.analyticsRepo.GetLedgerTotal(ctx, entity.KindPurchase, storeID, from, to)
		purchasesCh <- totalResult{total, err}
	}()
	go func() {
		total, err := uc.analyticsRepo.GetLedgerTotal(ctx, entity.KindSale, storeID, from, to)
		salesCh <- totalResult{total, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.GetTopProductName(ctx, entity.KindSale, storeID, from, to)
		topSoldCh <- nameResult{n, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.GetTopProductName(ctx, entity.KindPurchase, storeID, from, to)
		topPurchasedCh <- nameResult{n, err}
	}()

	stock := <-stockCh
	purchases := <-purchasesCh
	sales := <-salesCh
	topSold := <-topSoldCh
	topPurchased := <-topPurchasedCh

	if stock.err != nil {
		return nil, fmt.Errorf("dashboard: stock total: %w", stock.err)
	}
	if purchases.err != nil {
		return nil, fmt.Errorf("dashboard: total de compras: %w", purchases.err)
	}
	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: total de ventas: %w", sales.err)
	}
	if topSold.err != nil {
		return nil, fmt.Errorf("dashboard: producto más vendido: %w", topSold.err)
	}
	if topPurchased.err != nil {
		return nil, fmt.Errorf("dashboard: producto más comprado: %w", topPurchased.err)
	}

	return &dto.StoreSummaryResponse{
		StoreID:             store.ID,
		StoreName:           store.Name,
		ImageURL:            storage.URLPath(store.ImagePath),
		TotalStock:          stock.stock,
		PurchasesTotal:      purchases.total.Round(2),
		SalesTotal:          sales.total.Round(2),
		Balance:             sales.total.Sub(purchases.total).Round(2),
		TopSoldProduct:      topSold.name,
		TopPurchasedProduct: topPurchased.name,
		Period:              name,
	}, nil
}

// GetTopStore devuelve la tienda con mayor balance (ventas - compras) en el
// período. Sin tiendas devuelve la respuesta en ceros.
func (uc *DashboardUseCase) GetTopStore(ctx context.Context, period string) (*dto.TopStoreResponse, error) {
	from, to, name := ResolvePeriod(period, uc.now())

	top, err := uc.analyticsRepo.GetTopStore(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("dashboard: top store: %w", err)
	}
	if top == nil {
		return &dto.TopStoreResponse{Balance: decimal.Zero, Period: name}, nil
	}
	return &dto.TopStoreResponse{
		StoreID:   top.StoreID,
		StoreName: top.Name,
		ImageURL:  storage.URLPath(top.ImagePath),
		Balance:   top.Balance.Round(2),
		Period:    name,
	}, nil
}
