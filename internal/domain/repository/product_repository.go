package repository

import "github.com/jportilla/tiendas-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByStore(storeID string, limit, offset int) ([]*entity.Product, error)
	Delete(id string) error

	// AdjustStock suma delta al stock del producto como un único UPDATE
	// atómico (stock = stock + delta). Nunca leer-sumar-escribir: ese patrón
	// pierde actualizaciones bajo concurrencia.
	AdjustStock(productID string, delta int64) error
}
