package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jportilla/tiendas-api/internal/application/dto"
	"github.com/jportilla/tiendas-api/internal/domain"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
	"github.com/jportilla/tiendas-api/internal/domain/repository"
)

const (
	defaultActivityOps = 5
	maxActivityOps     = 31
	dateLayout         = "2006-01-02"
)

// ActivityUseCase arma la vista de actividad reciente de una tienda: los
// últimos días calendario con compras y con ventas hasta una fecha de
// referencia, cada uno desglosado por producto, más el inventario actual.
type ActivityUseCase struct {
	storeRepo     repository.StoreRepository
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewActivityUseCase construye el caso de uso.
func NewActivityUseCase(storeRepo repository.StoreRepository, analyticsRepo repository.AnalyticsRepository) *ActivityUseCase {
	return &ActivityUseCase{storeRepo: storeRepo, analyticsRepo: analyticsRepo, now: time.Now}
}

// WithClock reemplaza la fuente de la fecha de referencia por defecto.
func (uc *ActivityUseCase) WithClock(now func() time.Time) *ActivityUseCase {
	uc.now = now
	return uc
}

// RecentActivity devuelve hasta limitOps días distintos con compras y hasta
// limitOps días distintos con ventas, más recientes primero, hasta la fecha
// de referencia inclusive (vacía = hoy). Solo aparecen días con actividad;
// dentro de cada día devuelto se listan todos los productos de la tienda,
// con cantidad cero para los que no se movieron ese día.
func (uc *ActivityUseCase) RecentActivity(ctx context.Context, storeID, referenceDate string, limitOps int) (*dto.RecentActivityResponse, error) {
	store, err := uc.storeRepo.GetByID(storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	reference := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if s := strings.TrimSpace(referenceDate); s != "" {
		reference, err = time.ParseInLocation(dateLayout, s, now.Location())
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	if limitOps <= 0 {
		limitOps = defaultActivityOps
	}
	if limitOps > maxActivityOps {
		limitOps = maxActivityOps
	}

	inventory, err := uc.analyticsRepo.GetInventory(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("actividad: inventario: %w", err)
	}

	purchaseDays, err := uc.ledgerDays(ctx, entity.KindPurchase, storeID, reference, limitOps, inventory)
	if err != nil {
		return nil, fmt.Errorf("actividad: días de compra: %w", err)
	}
	saleDays, err := uc.ledgerDays(ctx, entity.KindSale, storeID, reference, limitOps, inventory)
	if err != nil {
		return nil, fmt.Errorf("actividad: días de venta: %w", err)
	}

	items := make([]dto.InventoryItemResponse, 0, len(inventory))
	for _, it := range inventory {
		items = append(items, dto.InventoryItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Stock:     it.Stock,
			Price:     it.Price,
		})
	}

	return &dto.RecentActivityResponse{
		StoreID:       storeID,
		ReferenceDate: reference.Format(dateLayout),
		PurchaseDays:  purchaseDays,
		SaleDays:      saleDays,
		Inventory:     items,
	}, nil
}

// ledgerDays resuelve los días con actividad del libro y rellena con ceros
// los productos sin movimiento dentro de cada día devuelto. Los días sin
// ninguna actividad no se emiten.
func (uc *ActivityUseCase) ledgerDays(
	ctx context.Context,
	kind entity.LedgerKind,
	storeID string,
	reference time.Time,
	limitOps int,
	inventory []repository.InventoryItem,
) ([]dto.ActivityDay, error) {
	days, err := uc.analyticsRepo.GetActivityDays(ctx, kind, storeID, reference, limitOps)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return []dto.ActivityDay{}, nil
	}
	quantities, err := uc.analyticsRepo.GetDayQuantities(ctx, kind, storeID, days)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]map[string]int64, len(days))
	for _, q := range quantities {
		key := q.Day.Format(dateLayout)
		if byDay[key] == nil {
			byDay[key] = make(map[string]int64)
		}
		byDay[key][q.ProductID] += q.Quantity
	}

	out := make([]dto.ActivityDay, 0, len(days))
	for _, day := range days {
		key := day.Format(dateLayout)
		products := make([]dto.ProductDayQuantity, 0, len(inventory))
		for _, it := range inventory {
			products = append(products, dto.ProductDayQuantity{
				ProductID: it.ProductID,
				Name:      it.Name,
				Quantity:  byDay[key][it.ProductID],
			})
		}
		out = append(out, dto.ActivityDay{Date: key, Products: products})
	}
	return out, nil
}
