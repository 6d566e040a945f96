package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jportilla/tiendas-api/internal/application/dto"
	"github.com/jportilla/tiendas-api/internal/application/ledger"
	"github.com/jportilla/tiendas-api/internal/domain"
	"github.com/jportilla/tiendas-api/internal/domain/entity"
	"github.com/jportilla/tiendas-api/pkg/validator"
)

// LedgerHandler maneja compras y ventas. El mismo handler sirve ambos
// libros; kind decide la tabla destino y el signo del ajuste de stock.
type LedgerHandler struct {
	kind   entity.LedgerKind
	record *ledger.RecordUseCase
	query  *ledger.QueryUseCase
}

// NewLedgerHandler construye el handler para un tipo de libro.
func NewLedgerHandler(kind entity.LedgerKind, record *ledger.RecordUseCase, query *ledger.QueryUseCase) *LedgerHandler {
	return &LedgerHandler{kind: kind, record: record, query: query}
}

// Create godoc
// @Summary      Registrar una compra o venta
// @Description  Si ya existe una fila del producto con la misma fecha, se acumula sobre ella.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLedgerEntryRequest  true  "Registro"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *LedgerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLedgerEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(errs)})
	}
	entry, err := h.record.RecordEntry(c.Context(), h.kind, ledger.EntryInput{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		TotalAmount: in.TotalAmount,
		Date:        in.Date,
	})
	if err != nil {
		return h.mapRecordError(c, err)
	}
	resp := ledger.ToLedgerEntryResponse(entry)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// CreateBulk godoc
// @Summary      Registrar un lote de compras o ventas
// @Description  Todo el lote se procesa en una sola transacción; los ítems del
// @Description  mismo producto y fecha se fusionan en una sola fila.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkCreateLedgerRequest  true  "Lote"
// @Success      201   {array}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases/bulk [post]
func (h *LedgerHandler) CreateBulk(c *fiber.Ctx) error {
	var in dto.BulkCreateLedgerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(errs)})
	}
	items := make([]ledger.EntryInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, ledger.EntryInput{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			TotalAmount: it.TotalAmount,
			Date:        it.Date,
		})
	}
	entries, err := h.record.RecordBatch(c.Context(), h.kind, items)
	if err != nil {
		return h.mapRecordError(c, err)
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ledger.ToLedgerEntryResponse(e))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByStore godoc
// @Summary      Listar filas del libro por tienda
// @Tags         ledger
// @Produce      json
// @Param        store_id  path   string  true   "ID de la tienda"
// @Param        day       query  int     false  "Filtrar por día del mes"
// @Param        month     query  int     false  "Filtrar por mes"
// @Param        year      query  int     false  "Filtrar por año"
// @Success      200       {object}  dto.LedgerListResponse
// @Router       /api/purchases/store/{store_id} [get]
func (h *LedgerHandler) ListByStore(c *fiber.Ctx) error {
	out, err := h.query.ListByStore(h.kind, c.Params("store_id"), parseLedgerFilter(c), parsePage(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListByProduct godoc
// @Summary      Listar filas del libro por producto
// @Tags         ledger
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200         {object}  dto.LedgerListResponse
// @Router       /api/purchases/product/{product_id} [get]
func (h *LedgerHandler) ListByProduct(c *fiber.Ctx) error {
	out, err := h.query.ListByProduct(h.kind, c.Params("product_id"), parseLedgerFilter(c), parsePage(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar fila del libro (parcial)
// @Description  Solo muta la fila; el stock del producto no se recalcula.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la fila"
// @Param        body  body  dto.UpdateLedgerEntryRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.LedgerEntryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [patch]
func (h *LedgerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLedgerEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(errs)})
	}
	out, err := h.query.Update(h.kind, c.Params("id"), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entrada inválida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar fila del libro
// @Description  Solo elimina la fila; el stock del producto no se recalcula.
// @Tags         ledger
// @Param        id  path  string  true  "ID de la fila"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *LedgerHandler) Delete(c *fiber.Ctx) error {
	if err := h.query.Delete(h.kind, c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LedgerHandler) mapRecordError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entrada inválida"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "registro concurrente, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
