package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
)

// LedgerFilter filtros opcionales de fecha para listados de compras/ventas.
// Cero significa sin filtro para ese componente.
type LedgerFilter struct {
	Day   int
	Month int
	Year  int
}

// LedgerRepository define el puerto de persistencia para los libros de
// compras y ventas. Todas las operaciones reciben el kind que selecciona la
// tabla (purchases o sales); el esquema de ambas es idéntico.
type LedgerRepository interface {
	Create(kind entity.LedgerKind, e *entity.LedgerEntry) error
	GetByID(kind entity.LedgerKind, id string) (*entity.LedgerEntry, error)

	// GetByProductAndDate busca la fila del día para (producto, fecha).
	// Devuelve nil sin error si no existe.
	GetByProductAndDate(kind entity.LedgerKind, productID string, date time.Time) (*entity.LedgerEntry, error)

	// GetByProductAndDateForUpdate es igual pero bloquea la fila encontrada
	// (SELECT ... FOR UPDATE). Usar dentro de una transacción antes de decidir
	// entre fusionar o insertar, para que dos lotes concurrentes no inserten
	// filas duplicadas para la misma clave (producto, fecha).
	GetByProductAndDateForUpdate(kind entity.LedgerKind, productID string, date time.Time) (*entity.LedgerEntry, error)

	// AddToEntry acumula cantidad y monto sobre una fila existente
	// (quantity = quantity + $q, total_amount = total_amount + $t).
	AddToEntry(kind entity.LedgerKind, id string, quantity int64, amount decimal.Decimal) error

	Update(kind entity.LedgerKind, e *entity.LedgerEntry) error
	ListByStore(kind entity.LedgerKind, storeID string, f LedgerFilter, limit, offset int) ([]*entity.LedgerEntry, error)
	ListByProduct(kind entity.LedgerKind, productID string, f LedgerFilter, limit, offset int) ([]*entity.LedgerEntry, error)
	Delete(kind entity.LedgerKind, id string) error
}
