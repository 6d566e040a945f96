package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	StoreID string          `json:"store_id" form:"store_id" validate:"required"`
	Name    string          `json:"name" form:"name" validate:"required,min=1,max=100"`
	Details string          `json:"details" form:"details"`
	Stock   int64           `json:"stock" form:"stock" validate:"min=0"`
	Price   decimal.Decimal `json:"price" form:"price"`
}

// UpdateProductRequest entrada para actualización parcial. Stock no se toca
// aquí: solo cambia vía compras y ventas.
type UpdateProductRequest struct {
	Name    *string          `json:"name" form:"name" validate:"omitempty,min=1,max=100"`
	Details *string          `json:"details" form:"details"`
	Price   *decimal.Decimal `json:"price" form:"price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store_id"`
	Name      string          `json:"name"`
	Details   string          `json:"details,omitempty"`
	Stock     int64           `json:"stock"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
