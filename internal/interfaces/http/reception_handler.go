package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/application/inventory"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
	"github.com/sigfarma/sigfarma-api/pkg/validate"
)

// ReceptionHandler maneja el ciclo de recepciones de mercancía: solicitud,
// aprobación (que crea o incrementa lotes) y rechazo.
type ReceptionHandler struct {
	uc *inventory.ReceptionUseCase
}

// NewReceptionHandler construye el handler.
func NewReceptionHandler(uc *inventory.ReceptionUseCase) *ReceptionHandler {
	return &ReceptionHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar recepción pendiente de aprobación
// @Tags         receptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceptionRequest  true  "proveedor y líneas"
// @Success      201   {object}  dto.ReceptionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/receptions [post]
func (h *ReceptionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReceptionRequest
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
// @Summary      Aprobar recepción: crea o incrementa los lotes en una transacción
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receptions/{id}/approve [post]
func (h *ReceptionHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar recepción (requiere motivo, no toca stock)
// @Tags         receptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la recepción"
// @Param        body  body  dto.RejectRequest  true  "motivo"
// @Success      200   {object}  dto.ReceptionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receptions/{id}/reject [post]
func (h *ReceptionHandler) Reject(c *fiber.Ctx) error {
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
// @Summary      Obtener recepción por ID
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.ReceptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receptions/{id} [get]
func (h *ReceptionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "recepción no encontrada")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar recepciones (más antiguas primero)
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Param        estado       query  string  false  "pendiente | aprobada | rechazada | completada"
// @Param        proveedor_id query  string  false  "Filtrar por proveedor"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.ReceptionResponse
// @Router       /api/receptions [get]
func (h *ReceptionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "paginación inválida")
	}
	page.DefaultPage()
	out, err := h.uc.List(repository.ReceptionFilters{
		Status:     c.Query("estado"),
		ProviderID: c.Query("proveedor_id"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListPending godoc
// @Summary      Recepciones pendientes de aprobar
// @Tags         receptions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReceptionResponse
// @Router       /api/receptions/pending [get]
func (h *ReceptionHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
