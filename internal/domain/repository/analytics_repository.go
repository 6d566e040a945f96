package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
)

// TopStoreRow tienda con mayor balance en la ventana solicitada.
type TopStoreRow struct {
	StoreID   string
	Name      string
	ImagePath string
	Balance   decimal.Decimal
}

// DayQuantity cantidad acumulada de un producto en un día concreto.
type DayQuantity struct {
	Day       time.Time
	ProductID string
	Quantity  int64
}

// InventoryItem fila del inventario actual de una tienda.
type InventoryItem struct {
	ProductID string
	Name      string
	Stock     int64
	Price     decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para el dashboard y la
// actividad reciente. Las ventanas son [from, to] sobre created_at de las
// filas de libro; from == nil significa sin cota inferior (período total).
type AnalyticsRepository interface {
	// GetStoreStock suma el stock actual de todos los productos de la tienda.
	// El stock es una foto a hoy, nunca se filtra por período.
	GetStoreStock(ctx context.Context, storeID string) (int64, error)

	// GetLedgerTotal suma total_amount del libro indicado para los productos
	// de la tienda dentro de la ventana. Devuelve cero si no hay filas.
	GetLedgerTotal(ctx context.Context, kind entity.LedgerKind, storeID string, from *time.Time, to time.Time) (decimal.Decimal, error)

	// GetTopProductName nombre del producto con mayor cantidad acumulada en el
	// libro dentro de la ventana. Devuelve nil si el libro está vacío en ella.
	GetTopProductName(ctx context.Context, kind entity.LedgerKind, storeID string, from *time.Time, to time.Time) (*string, error)

	// GetTopStore tienda con mayor balance (ventas - compras) en la ventana.
	// Empates se resuelven por el orden por defecto de la base de datos.
	// Devuelve nil si no hay tiendas.
	GetTopStore(ctx context.Context, from *time.Time, to time.Time) (*TopStoreRow, error)

	// GetActivityDays días calendario distintos con actividad en el libro,
	// hasta reference inclusive, más recientes primero, máximo limit.
	GetActivityDays(ctx context.Context, kind entity.LedgerKind, storeID string, reference time.Time, limit int) ([]time.Time, error)

	// GetDayQuantities cantidades por (día, producto) del libro para los días
	// dados. Solo devuelve pares con actividad; el relleno con ceros por
	// producto lo hace el caso de uso.
	GetDayQuantities(ctx context.Context, kind entity.LedgerKind, storeID string, days []time.Time) ([]DayQuantity, error)

	// GetInventory listado plano del inventario actual de la tienda.
	GetInventory(ctx context.Context, storeID string) ([]InventoryItem, error)
}
