package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jportilla/tiendas-api/internal/domain"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
	"github.com/jportilla/tiendas-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL (usable con
// pool o tx). Las tablas purchases y sales comparten esquema; el kind
// selecciona la tabla.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// tableFor mapea el kind a su tabla. El nombre se interpola en el SQL pero
// proviene de un conjunto cerrado, nunca de entrada del usuario.
func tableFor(kind entity.LedgerKind) string {
	if kind == entity.KindSale {
		return "sales"
	}
	return "purchases"
}

const ledgerColumns = "id, product_id, quantity, total_amount, entry_date, created_at, updated_at"

// Create persiste una nueva fila de libro.
func (r *LedgerRepo) Create(kind entity.LedgerKind, e *entity.LedgerEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, product_id, quantity, total_amount, entry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, tableFor(kind))
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.ProductID, e.Quantity, e.TotalAmount, e.EntryDate, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Índice único (product_id, entry_date): otra transacción insertó
			// la fila del día entre nuestra búsqueda y el insert.
			return domain.ErrConflict
		}
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// GetByID obtiene una fila por ID. Devuelve nil sin error si no existe.
func (r *LedgerRepo) GetByID(kind entity.LedgerKind, id string) (*entity.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, ledgerColumns, tableFor(kind))
	e, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

// GetByProductAndDate busca la fila del día para (producto, fecha).
func (r *LedgerRepo) GetByProductAndDate(kind entity.LedgerKind, productID string, date time.Time) (*entity.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE product_id = $1 AND entry_date = $2`,
		ledgerColumns, tableFor(kind))
	e, err := r.scanOne(r.q.QueryRow(context.Background(), query, productID, date))
	if err != nil {
		return nil, fmt.Errorf("get ledger entry by day: %w", err)
	}
	return e, nil
}

// GetByProductAndDateForUpdate igual que GetByProductAndDate pero bloquea la
// fila (SELECT ... FOR UPDATE). Usar dentro de una transacción.
func (r *LedgerRepo) GetByProductAndDateForUpdate(kind entity.LedgerKind, productID string, date time.Time) (*entity.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE product_id = $1 AND entry_date = $2 FOR UPDATE`,
		ledgerColumns, tableFor(kind))
	e, err := r.scanOne(r.q.QueryRow(context.Background(), query, productID, date))
	if err != nil {
		return nil, fmt.Errorf("get ledger entry for update: %w", err)
	}
	return e, nil
}

// AddToEntry acumula cantidad y monto sobre la fila del día en un único
// UPDATE.
func (r *LedgerRepo) AddToEntry(kind entity.LedgerKind, id string, quantity int64, amount decimal.Decimal) error {
	query := fmt.Sprintf(`
		UPDATE %s SET quantity = quantity + $2, total_amount = total_amount + $3, updated_at = now()
		WHERE id = $1`, tableFor(kind))
	_, err := r.q.Exec(context.Background(), query, id, quantity, amount)
	if err != nil {
		return fmt.Errorf("add to ledger entry: %w", err)
	}
	return nil
}

// Update reescribe cantidad y total de una fila.
func (r *LedgerRepo) Update(kind entity.LedgerKind, e *entity.LedgerEntry) error {
	query := fmt.Sprintf(`
		UPDATE %s SET quantity = $2, total_amount = $3, updated_at = $4 WHERE id = $1`, tableFor(kind))
	_, err := r.q.Exec(context.Background(), query, e.ID, e.Quantity, e.TotalAmount, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update ledger entry: %w", err)
	}
	return nil
}

// ListByStore lista filas del libro para los productos de una tienda, con
// filtros opcionales de día/mes/año sobre entry_date.
func (r *LedgerRepo) ListByStore(kind entity.LedgerKind, storeID string, f repository.LedgerFilter, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := fmt.Sprintf(`
		SELECT e.id, e.product_id, e.quantity, e.total_amount, e.entry_date, e.created_at, e.updated_at
		FROM %s e JOIN products p ON p.id = e.product_id
		WHERE p.store_id = $1`, tableFor(kind))
	args := []any{storeID}
	query, args = appendDateFilters(query, args, f)
	query += fmt.Sprintf(" ORDER BY e.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.list(query, args)
}

// ListByProduct lista filas del libro de un producto.
func (r *LedgerRepo) ListByProduct(kind entity.LedgerKind, productID string, f repository.LedgerFilter, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := fmt.Sprintf(`
		SELECT e.id, e.product_id, e.quantity, e.total_amount, e.entry_date, e.created_at, e.updated_at
		FROM %s e
		WHERE e.product_id = $1`, tableFor(kind))
	args := []any{productID}
	query, args = appendDateFilters(query, args, f)
	query += fmt.Sprintf(" ORDER BY e.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.list(query, args)
}

// Delete elimina una fila de libro por ID.
func (r *LedgerRepo) Delete(kind entity.LedgerKind, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, tableFor(kind))
	_, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("delete ledger entry: %w", err)
	}
	return nil
}

func appendDateFilters(query string, args []any, f repository.LedgerFilter) (string, []any) {
	if f.Day > 0 {
		args = append(args, f.Day)
		query += fmt.Sprintf(" AND EXTRACT(DAY FROM e.entry_date) = $%d", len(args))
	}
	if f.Month > 0 {
		args = append(args, f.Month)
		query += fmt.Sprintf(" AND EXTRACT(MONTH FROM e.entry_date) = $%d", len(args))
	}
	if f.Year > 0 {
		args = append(args, f.Year)
		query += fmt.Sprintf(" AND EXTRACT(YEAR FROM e.entry_date) = $%d", len(args))
	}
	return query, args
}

func (r *LedgerRepo) list(query string, args []any) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Quantity, &e.TotalAmount,
			&e.EntryDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

func (r *LedgerRepo) scanOne(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	err := row.Scan(&e.ID, &e.ProductID, &e.Quantity, &e.TotalAmount,
		&e.EntryDate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}
