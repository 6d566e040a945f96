package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jportilla/tiendas-api/internal/application/dto"
	"github.com/jportilla/tiendas-api/internal/domain/repository"
	"github.com/jportilla/tiendas-api/pkg/validator"
)

// validationMessage condensa los errores de validación en un solo mensaje.
func validationMessage(errs []*validator.ErrorResponse) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.FailedField+": "+e.Tag)
	}
	return strings.Join(parts, "; ")
}

// parsePage extrae paginación de la query string.
func parsePage(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
}

// parseLedgerFilter extrae los filtros day/month/year de la query string.
// Un valor ausente o no numérico se ignora.
func parseLedgerFilter(c *fiber.Ctx) repository.LedgerFilter {
	return repository.LedgerFilter{
		Day:   c.QueryInt("day", 0),
		Month: c.QueryInt("month", 0),
		Year:  c.QueryInt("year", 0),
	}
}
