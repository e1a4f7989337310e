package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/application/inventory"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
	"github.com/sigfarma/sigfarma-api/pkg/validate"
)

// WriteOffHandler maneja el ciclo de bajas de inventario (vencimiento, daño,
// pérdida): solicitud, aprobación que descuenta del lote y rechazo.
type WriteOffHandler struct {
	uc *inventory.WriteOffUseCase
}

// NewWriteOffHandler construye el handler.
func NewWriteOffHandler(uc *inventory.WriteOffUseCase) *WriteOffHandler {
	return &WriteOffHandler{uc: uc}
}

// Create godoc
// @Summary      Solicitar baja de un lote
// @Tags         bajas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWriteOffRequest  true  "lote, cantidad, motivo"
// @Success      201   {object}  dto.WriteOffResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bajas [post]
func (h *WriteOffHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWriteOffRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return badRequest(c, err.Error())
	}
	out, err := h.uc.Create(GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Approve godoc
// @Summary      Aprobar baja: descuenta la cantidad del lote en una transacción
// @Tags         bajas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la baja"
// @Success      200  {object}  dto.WriteOffResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/bajas/{id}/approve [post]
func (h *WriteOffHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar baja (requiere motivo, no toca stock)
// @Tags         bajas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la baja"
// @Param        body  body  dto.RejectRequest  true  "motivo"
// @Success      200   {object}  dto.WriteOffResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bajas/{id}/reject [post]
func (h *WriteOffHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Reject(c.Context(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener baja por ID
// @Tags         bajas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la baja"
// @Success      200  {object}  dto.WriteOffResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bajas/{id} [get]
func (h *WriteOffHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "baja no encontrada")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar bajas
// @Tags         bajas
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "pendiente | aprobada | rechazada | completada"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.WriteOffResponse
// @Router       /api/bajas [get]
func (h *WriteOffHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "paginación inválida")
	}
	page.DefaultPage()
	out, err := h.uc.List(repository.WriteOffFilters{
		Status: c.Query("estado"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListPending godoc
// @Summary      Bajas pendientes de aprobar
// @Tags         bajas
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WriteOffResponse
// @Router       /api/bajas/pending [get]
func (h *WriteOffHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
