package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sigfarma/sigfarma-api/internal/application/audit"
	"github.com/sigfarma/sigfarma-api/internal/application/dto"
)

// AuditHandler consulta del registro de auditoría (solo administrador).
type AuditHandler struct {
	q *audit.Query
}

// NewAuditHandler construye el handler.
func NewAuditHandler(q *audit.Query) *AuditHandler {
	return &AuditHandler{q: q}
}

// List godoc
// @Summary      Entradas de auditoría más recientes
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200  {array}  audit.EntryDTO
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "paginación inválida")
	}
	page.DefaultPage()
	out, err := h.q.ListRecent(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
