package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKind distingue los dos libros de movimientos: compras y ventas.
// Cada kind mapea a su propia tabla; la única diferencia de comportamiento
// es el signo del delta de stock (compra suma, venta resta).
type LedgerKind string

const (
	KindPurchase LedgerKind = "purchase"
	KindSale     LedgerKind = "sale"
)

// StockSign devuelve +1 para compras y -1 para ventas.
func (k LedgerKind) StockSign() int64 {
	if k == KindSale {
		return -1
	}
	return 1
}

// LedgerEntry es una fila agregada de actividad de compra o venta de un
// producto en un día calendario. La invariante de fusión por día garantiza a
// lo sumo una fila por (product_id, entry_date): los registros del mismo día
// acumulan Quantity y TotalAmount sobre la fila existente.
type LedgerEntry struct {
	ID          string
	ProductID   string
	Quantity    int64
	TotalAmount decimal.Decimal
	EntryDate   time.Time // fecha calendario de la actividad (00:00 local)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
