package dto

import "time"

// CreateStoreRequest entrada para crear una tienda. La imagen viaja aparte
// como archivo multipart opcional.
type CreateStoreRequest struct {
	Name        string `json:"name" form:"name" validate:"required,min=1,max=100"`
	Address     string `json:"address" form:"address" validate:"max=255"`
	Phone       string `json:"phone" form:"phone" validate:"max=20"`
	Description string `json:"description" form:"description"`
}

// UpdateStoreRequest entrada para actualización parcial de una tienda.
type UpdateStoreRequest struct {
	Name        *string `json:"name" form:"name" validate:"omitempty,min=1,max=100"`
	Address     *string `json:"address" form:"address" validate:"omitempty,max=255"`
	Phone       *string `json:"phone" form:"phone" validate:"omitempty,max=20"`
	Description *string `json:"description" form:"description"`
}

// StoreResponse salida de una tienda.
type StoreResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StoreListResponse lista paginada de tiendas.
type StoreListResponse struct {
	Items []StoreResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
