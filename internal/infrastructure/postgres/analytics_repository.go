package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
	"github.com/jportilla/tiendas-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard y la actividad
// reciente.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetStoreStock suma el stock actual de los productos de la tienda.
// COALESCE devuelve cero si la tienda no tiene productos (o no existe).
func (r *AnalyticsRepo) GetStoreStock(ctx context.Context, storeID string) (int64, error) {
	const query = `SELECT COALESCE(SUM(stock), 0) FROM products WHERE store_id = $1`
	var total int64
	if err := r.pool.QueryRow(ctx, query, storeID).Scan(&total); err != nil {
		return 0, fmt.Errorf("analytics.GetStoreStock: %w", err)
	}
	return total, nil
}

// GetLedgerTotal suma total_amount del libro para los productos de la tienda
// dentro de la ventana [from, to] sobre created_at. Cero si no hay filas.
func (r *AnalyticsRepo) GetLedgerTotal(ctx context.Context, kind entity.LedgerKind, storeID string, from *time.Time, to time.Time) (decimal.Decimal, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(e.total_amount), 0)
		FROM %s e JOIN products p ON p.id = e.product_id
		WHERE p.store_id = $1 AND e.created_at <= $2`, tableFor(kind))
	args := []any{storeID, to}
	if from != nil {
		query += " AND e.created_at >= $3"
		args = append(args, *from)
	}
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.GetLedgerTotal: %w", err)
	}
	return total, nil
}

// GetTopProductName nombre del producto con mayor cantidad acumulada en el
// libro dentro de la ventana. nil si el libro está vacío en ella.
func (r *AnalyticsRepo) GetTopProductName(ctx context.Context, kind entity.LedgerKind, storeID string, from *time.Time, to time.Time) (*string, error) {
	query := fmt.Sprintf(`
		SELECT p.name
		FROM %s e JOIN products p ON p.id = e.product_id
		WHERE p.store_id = $1 AND e.created_at <= $2`, tableFor(kind))
	args := []any{storeID, to}
	if from != nil {
		query += " AND e.created_at >= $3"
		args = append(args, *from)
	}
	query += `
		GROUP BY p.id, p.name
		ORDER BY SUM(e.quantity) DESC
		LIMIT 1`
	var name string
	err := r.pool.QueryRow(ctx, query, args...).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("analytics.GetTopProductName: %w", err)
	}
	return &name, nil
}

// GetTopStore tienda con mayor balance (ventas - compras) en la ventana.
// Los empates quedan al orden por defecto de la base de datos.
func (r *AnalyticsRepo) GetTopStore(ctx context.Context, from *time.Time, to time.Time) (*repository.TopStoreRow, error) {
	fromCond := ""
	args := []any{to}
	if from != nil {
		fromCond = " AND e.created_at >= $2"
		args = append(args, *from)
	}
	query := fmt.Sprintf(`
		SELECT s.id, s.name, s.image_path,
		       COALESCE(v.total, 0) - COALESCE(c.total, 0) AS balance
		FROM stores s
		LEFT JOIN (
		    SELECT p.store_id, SUM(e.total_amount) AS total
		    FROM sales e JOIN products p ON p.id = e.product_id
		    WHERE e.created_at <= $1%s
		    GROUP BY p.store_id
		) v ON v.store_id = s.id
		LEFT JOIN (
		    SELECT p.store_id, SUM(e.total_amount) AS total
		    FROM purchases e JOIN products p ON p.id = e.product_id
		    WHERE e.created_at <= $1%s
		    GROUP BY p.store_id
		) c ON c.store_id = s.id
		ORDER BY balance DESC
		LIMIT 1`, fromCond, fromCond)

	var row repository.TopStoreRow
	err := r.pool.QueryRow(ctx, query, args...).Scan(&row.StoreID, &row.Name, &row.ImagePath, &row.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("analytics.GetTopStore: %w", err)
	}
	return &row, nil
}

// GetActivityDays días calendario distintos con actividad en el libro hasta
// reference inclusive, más recientes primero.
func (r *AnalyticsRepo) GetActivityDays(ctx context.Context, kind entity.LedgerKind, storeID string, reference time.Time, limit int) ([]time.Time, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT e.entry_date
		FROM %s e JOIN products p ON p.id = e.product_id
		WHERE p.store_id = $1 AND e.entry_date <= $2
		ORDER BY e.entry_date DESC
		LIMIT $3`, tableFor(kind))
	rows, err := r.pool.Query(ctx, query, storeID, reference, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetActivityDays: %w", err)
	}
	defer rows.Close()
	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("analytics.GetActivityDays scan: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// GetDayQuantities cantidades por (día, producto) del libro para los días
// dados. Solo pares con actividad; el relleno con ceros lo hace el caso de
// uso.
func (r *AnalyticsRepo) GetDayQuantities(ctx context.Context, kind entity.LedgerKind, storeID string, days []time.Time) ([]repository.DayQuantity, error) {
	if len(days) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT e.entry_date, e.product_id, SUM(e.quantity)
		FROM %s e JOIN products p ON p.id = e.product_id
		WHERE p.store_id = $1 AND e.entry_date = ANY($2)
		GROUP BY e.entry_date, e.product_id`, tableFor(kind))
	rows, err := r.pool.Query(ctx, query, storeID, days)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetDayQuantities: %w", err)
	}
	defer rows.Close()
	var out []repository.DayQuantity
	for rows.Next() {
		var q repository.DayQuantity
		if err := rows.Scan(&q.Day, &q.ProductID, &q.Quantity); err != nil {
			return nil, fmt.Errorf("analytics.GetDayQuantities scan: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// GetInventory listado plano del inventario actual de la tienda.
func (r *AnalyticsRepo) GetInventory(ctx context.Context, storeID string) ([]repository.InventoryItem, error) {
	const query = `
		SELECT id, name, stock, price FROM products
		WHERE store_id = $1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetInventory: %w", err)
	}
	defer rows.Close()
	var out []repository.InventoryItem
	for rows.Next() {
		var it repository.InventoryItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Stock, &it.Price); err != nil {
			return nil, fmt.Errorf("analytics.GetInventory scan: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
