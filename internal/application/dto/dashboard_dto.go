package dto

import "github.com/shopspring/decimal"

// StoreSummaryResponse resumen financiero de una tienda para un período.
// Si la tienda no existe se devuelve el resumen en ceros, no un error.
type StoreSummaryResponse struct {
	StoreID             string          `json:"store_id"`
	StoreName           string          `json:"store_name"`
	ImageURL            string          `json:"image_url,omitempty"`
	TotalStock          int64           `json:"total_stock"`
	PurchasesTotal      decimal.Decimal `json:"purchases_total"`
	SalesTotal          decimal.Decimal `json:"sales_total"`
	Balance             decimal.Decimal `json:"balance"`
	TopSoldProduct      *string         `json:"top_sold_product"`
	TopPurchasedProduct *string         `json:"top_purchased_product"`
	Period              string          `json:"period"`
}

// TopStoreResponse tienda con mayor balance en el período.
type TopStoreResponse struct {
	StoreID   string          `json:"store_id"`
	StoreName string          `json:"store_name"`
	ImageURL  string          `json:"image_url,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	Period    string          `json:"period"`
}
