package ledger

import (
	"context"

	"github.com/jportilla/tiendas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el registro de
// compras/ventas: o se confirman todas las mutaciones de libro y de stock,
// o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
	) error) error
}
