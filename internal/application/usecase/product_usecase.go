package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jportilla/tiendas-api/internal/application/dto"
	"github.com/jportilla/tiendas-api/internal/domain"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
	"github.com/jportilla/tiendas-api/internal/domain/repository"
	"github.com/jportilla/tiendas-api/pkg/storage"
)

// ProductUseCase casos de uso CRUD para productos. El stock inicial se fija
// al crear; después solo cambia vía compras y ventas.
type ProductUseCase struct {
	repo      repository.ProductRepository
	storeRepo repository.StoreRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, storeRepo repository.StoreRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, storeRepo: storeRepo}
}

// Create crea un producto en una tienda existente.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest, imagePath string) (*dto.ProductResponse, error) {
	store, err := uc.storeRepo.GetByID(in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	if in.Stock < 0 || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		StoreID:   in.StoreID,
		Name:      in.Name,
		Details:   in.Details,
		Stock:     in.Stock,
		Price:     in.Price,
		ImagePath: imagePath,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. Devuelve nil si no existe.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualización parcial. No permite modificar Stock (se maneja vía
// compras/ventas). imagePath vacía = sin cambio.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest, imagePath string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Details != nil {
		product.Details = *in.Details
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if imagePath != "" {
		product.ImagePath = imagePath
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// ListByStore lista productos de una tienda con paginación.
func (uc *ProductUseCase) ListByStore(storeID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByStore(storeID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto; la cascada arrastra sus compras y ventas.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		StoreID:   p.StoreID,
		Name:      p.Name,
		Details:   p.Details,
		Stock:     p.Stock,
		Price:     p.Price,
		ImageURL:  storage.URLPath(p.ImagePath),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
