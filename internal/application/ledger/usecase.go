// Package ledger implementa el registro de compras y ventas: fusión por día
// calendario sobre la fila del libro y ajuste atómico del stock del producto.
package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jportilla/tiendas-api/internal/domain"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
	"github.com/jportilla/tiendas-api/internal/domain/repository"
)

// RecordUseCase registra movimientos en los libros de compras/ventas de forma
// transaccional, con bloqueo de fila (SELECT FOR UPDATE) en la búsqueda de la
// clave de fusión y Commit/Rollback.
//
// La clave de fusión es estrictamente (product_id, fecha calendario): varios
// registros del mismo producto y día acumulan sobre una sola fila.
type RecordUseCase struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewRecordUseCase construye el caso de uso con el reloj del sistema.
func NewRecordUseCase(txRunner TxRunner) *RecordUseCase {
	return &RecordUseCase{txRunner: txRunner, now: time.Now}
}

// WithClock reemplaza la fuente de "hoy" (fecha de fusión por defecto).
// La fecha resuelta se propaga explícitamente a cada operación, así los tests
// son deterministas en cualquier zona horaria.
func (uc *RecordUseCase) WithClock(now func() time.Time) *RecordUseCase {
	uc.now = now
	return uc
}

// EntryInput entrada cruda de un registro de compra o venta.
// TotalAmount llega como texto del request: si está vacío, no parsea o es
// negativo se sustituye por precio × cantidad en lugar de fallar.
// Date es opcional (YYYY-MM-DD); vacío significa la fecha local de hoy.
type EntryInput struct {
	ProductID   string
	Quantity    int64
	TotalAmount string
	Date        string
}

// RecordEntry registra un movimiento individual. Corre por el mismo camino
// transaccional con bloqueo que los lotes: buscar la fila de (producto, fecha)
// con FOR UPDATE, fusionar o insertar, y ajustar el stock con un único UPDATE
// atómico (stock = stock + delta). Devuelve la fila releída de storage, porque
// el ajuste de stock ocurre fuera del objeto en memoria.
func (uc *RecordUseCase) RecordEntry(ctx context.Context, kind entity.LedgerKind, in EntryInput) (*entity.LedgerEntry, error) {
	entries, err := uc.RecordBatch(ctx, kind, []EntryInput{in})
	if err != nil {
		return nil, err
	}
	return entries[0], nil
}

// RecordBatch registra un lote de movimientos en una sola transacción
// todo-o-nada. Los ítems que comparten (producto, fecha) se fusionan en
// memoria antes de tocar storage (una ida por clave distinta), y los deltas
// de stock se acumulan por producto y se aplican al final con un UPDATE
// atómico por producto, no uno por línea. Producto desconocido aborta el lote
// completo con domain.ErrNotFound.
//
// Devuelve las filas afectadas (creadas o fusionadas) ordenadas por fecha de
// creación descendente.
func (uc *RecordUseCase) RecordBatch(ctx context.Context, kind entity.LedgerKind, items []EntryInput) ([]*entity.LedgerEntry, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, in := range items {
		if in.ProductID == "" || in.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	now := uc.now()

	type mergeKey struct {
		productID string
		day       string // YYYY-MM-DD
	}
	type accumulated struct {
		date     time.Time
		quantity int64
		total    decimal.Decimal
	}

	var result []*entity.LedgerEntry
	err := uc.txRunner.Run(ctx, func(
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
	) error {
		// Resolver productos una sola vez por ID; desconocido aborta el lote.
		products := make(map[string]*entity.Product)
		for _, in := range items {
			if _, ok := products[in.ProductID]; ok {
				continue
			}
			product, err := productRepo.GetByID(in.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			products[in.ProductID] = product
		}

		// Fusión en memoria por (producto, fecha) antes de tocar storage.
		merged := make(map[mergeKey]*accumulated)
		var order []mergeKey
		stockDeltas := make(map[string]int64)
		for _, in := range items {
			date, err := resolveDate(in.Date, now)
			if err != nil {
				return err
			}
			total := resolveTotal(in.TotalAmount, products[in.ProductID].Price, in.Quantity)
			key := mergeKey{productID: in.ProductID, day: date.Format(dateLayout)}
			acc, ok := merged[key]
			if !ok {
				acc = &accumulated{date: date, total: decimal.Zero}
				merged[key] = acc
				order = append(order, key)
			}
			acc.quantity += in.Quantity
			acc.total = acc.total.Add(total)
			stockDeltas[in.ProductID] += kind.StockSign() * in.Quantity
		}

		// Una ida a storage por clave distinta: bloquear la fila preexistente
		// (FOR UPDATE) y decidir entre fusionar o insertar. El bloqueo evita
		// que dos lotes concurrentes inserten filas duplicadas para la misma
		// clave. Las claves se recorren en orden estable (producto, fecha)
		// para que dos lotes que comparten claves las bloqueen en el mismo
		// orden y no se interbloqueen.
		sort.Slice(order, func(i, j int) bool {
			if order[i].productID != order[j].productID {
				return order[i].productID < order[j].productID
			}
			return order[i].day < order[j].day
		})
		var affectedIDs []string
		for _, key := range order {
			acc := merged[key]
			existing, err := ledgerRepo.GetByProductAndDateForUpdate(kind, key.productID, acc.date)
			if err != nil {
				return err
			}
			if existing != nil {
				if err := ledgerRepo.AddToEntry(kind, existing.ID, acc.quantity, acc.total); err != nil {
					return err
				}
				affectedIDs = append(affectedIDs, existing.ID)
				continue
			}
			e := &entity.LedgerEntry{
				ID:          uuid.New().String(),
				ProductID:   key.productID,
				Quantity:    acc.quantity,
				TotalAmount: acc.total,
				EntryDate:   acc.date,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := ledgerRepo.Create(kind, e); err != nil {
				return err
			}
			affectedIDs = append(affectedIDs, e.ID)
		}

		// Un UPDATE atómico por producto con el delta acumulado del lote.
		// Iterar en orden estable de producto para un orden de bloqueo
		// predecible entre transacciones.
		productIDs := make([]string, 0, len(stockDeltas))
		for id := range stockDeltas {
			productIDs = append(productIDs, id)
		}
		sort.Strings(productIDs)
		for _, id := range productIDs {
			if err := productRepo.AdjustStock(id, stockDeltas[id]); err != nil {
				return err
			}
		}

		// Releer las filas afectadas dentro de la misma tx.
		result = result[:0]
		for _, id := range affectedIDs {
			e, err := ledgerRepo.GetByID(kind, id)
			if err != nil {
				return err
			}
			if e == nil {
				return domain.ErrNotFound
			}
			result = append(result, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

const dateLayout = "2006-01-02"

// resolveDate normaliza la fecha explícita a medianoche local, o usa la fecha
// local de hoy si no viene.
func resolveDate(raw string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), now.Location())
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return d, nil
}

// resolveTotal devuelve el total explícito si parsea como monto no negativo;
// en cualquier otro caso cae a precio × cantidad en lugar de fallar.
func resolveTotal(raw string, price decimal.Decimal, quantity int64) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil && !d.IsNegative() {
			return d
		}
	}
	return price.Mul(decimal.NewFromInt(quantity))
}
