package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLedgerEntryRequest entrada para registrar una compra o venta.
// TotalAmount es opcional: si falta o no parsea como monto válido no negativo
// se usa precio × cantidad. Date es opcional en formato YYYY-MM-DD; si falta
// se usa la fecha local del servidor.
type CreateLedgerEntryRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	Quantity    int64  `json:"quantity" validate:"required,gt=0"`
	TotalAmount string `json:"total_amount"`
	Date        string `json:"date"`
}

// BulkCreateLedgerRequest lote de registros; se procesa todo-o-nada.
type BulkCreateLedgerRequest struct {
	Items []CreateLedgerEntryRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateLedgerEntryRequest actualización parcial de una fila de libro.
// Solo muta la fila; el stock del producto no se recompensa.
type UpdateLedgerEntryRequest struct {
	Quantity    *int64           `json:"quantity" validate:"omitempty,gt=0"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
}

// LedgerEntryResponse salida de una fila de compra o venta.
type LedgerEntryResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    int64           `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	EntryDate   string          `json:"entry_date"` // YYYY-MM-DD
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// LedgerListResponse lista paginada de filas de libro.
type LedgerListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
