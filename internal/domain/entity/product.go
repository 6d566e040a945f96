package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de una tienda, con su stock actual y precio
// unitario. Stock se ajusta únicamente vía el registro de compras/ventas con
// updates atómicos (stock = stock + delta); puede quedar negativo si una venta
// excede el stock registrado, no se impone un piso.
type Product struct {
	ID        string
	StoreID   string
	Name      string
	Details   string
	Stock     int64
	Price     decimal.Decimal // precio unitario de venta
	ImagePath string
	CreatedAt time.Time
	UpdatedAt time.Time
}
