package ledger

import (
	"time"

	"github.com/jportilla/tiendas-api/internal/application/dto"
	"github.com/jportilla/tiendas-api/internal/domain"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
	"github.com/jportilla/tiendas-api/internal/domain/repository"
)

// QueryUseCase listados, actualización parcial y borrado de filas de libro.
// Opera fuera de transacción: estas rutas no tocan el stock del producto.
type QueryUseCase struct {
	repo repository.LedgerRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(repo repository.LedgerRepository) *QueryUseCase {
	return &QueryUseCase{repo: repo}
}

// ListByStore lista filas de libro de los productos de una tienda, con
// filtros opcionales de día/mes/año y paginación.
func (uc *QueryUseCase) ListByStore(kind entity.LedgerKind, storeID string, f repository.LedgerFilter, page dto.PageRequest) (*dto.LedgerListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByStore(kind, storeID, f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toLedgerListResponse(list, page), nil
}

// ListByProduct lista filas de libro de un producto.
func (uc *QueryUseCase) ListByProduct(kind entity.LedgerKind, productID string, f repository.LedgerFilter, page dto.PageRequest) (*dto.LedgerListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByProduct(kind, productID, f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toLedgerListResponse(list, page), nil
}

// Update modifica cantidad y/o total de una fila. No recompensa el stock:
// la fila del libro es la única mutación. Devuelve nil si no existe.
func (uc *QueryUseCase) Update(kind entity.LedgerKind, id string, in dto.UpdateLedgerEntryRequest) (*dto.LedgerEntryResponse, error) {
	e, err := uc.repo.GetByID(kind, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}
	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		e.Quantity = *in.Quantity
	}
	if in.TotalAmount != nil {
		if in.TotalAmount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		e.TotalAmount = *in.TotalAmount
	}
	e.UpdatedAt = time.Now()
	if err := uc.repo.Update(kind, e); err != nil {
		return nil, err
	}
	out := ToLedgerEntryResponse(e)
	return &out, nil
}

// Delete elimina una fila de libro. El stock del producto no se ajusta.
func (uc *QueryUseCase) Delete(kind entity.LedgerKind, id string) error {
	e, err := uc.repo.GetByID(kind, id)
	if err != nil {
		return err
	}
	if e == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(kind, id)
}

// ToLedgerEntryResponse convierte la entidad al DTO de salida.
func ToLedgerEntryResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:          e.ID,
		ProductID:   e.ProductID,
		Quantity:    e.Quantity,
		TotalAmount: e.TotalAmount,
		EntryDate:   e.EntryDate.Format(dateLayout),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toLedgerListResponse(list []*entity.LedgerEntry, page dto.PageRequest) *dto.LedgerListResponse {
	items := make([]dto.LedgerEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, ToLedgerEntryResponse(e))
	}
	return &dto.LedgerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
}
