package dto

import "github.com/shopspring/decimal"

// ProductDayQuantity cantidad de un producto en un día de actividad.
// Los productos sin actividad ese día aparecen con cantidad cero.
type ProductDayQuantity struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
}

// ActivityDay un día calendario con actividad y el desglose por producto.
type ActivityDay struct {
	Date     string               `json:"date"` // YYYY-MM-DD
	Products []ProductDayQuantity `json:"products"`
}

// InventoryItemResponse fila del inventario actual.
type InventoryItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Stock     int64           `json:"stock"`
	Price     decimal.Decimal `json:"price"`
}

// RecentActivityResponse días recientes con compras y ventas de una tienda,
// hasta la fecha de referencia, más el inventario actual.
type RecentActivityResponse struct {
	StoreID       string                  `json:"store_id"`
	ReferenceDate string                  `json:"reference_date"` // YYYY-MM-DD
	PurchaseDays  []ActivityDay           `json:"purchase_days"`
	SaleDays      []ActivityDay           `json:"sale_days"`
	Inventory     []InventoryItemResponse `json:"inventory"`
}
