package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/application/inventory"
)

// NotificationHandler maneja las alertas de stock bajo y vencimiento.
type NotificationHandler struct {
	uc *inventory.NotificationUseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *inventory.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List godoc
// @Summary      Alertas activas (críticas primero)
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200  {array}  dto.NotificationResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "paginación inválida")
	}
	page.DefaultPage()
	out, err := h.uc.ListActive(page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Generate godoc
// @Summary      Barrido de alertas: stock bajo y ventanas de vencimiento
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/notifications/generate [post]
func (h *NotificationHandler) Generate(c *fiber.Ctx) error {
	created, err := h.uc.GenerateAlerts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"creadas": created})
}

// MarkRead godoc
// @Summary      Marcar alerta como leída
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "alerta marcada como leída"})
}

// Dismiss godoc
// @Summary      Descartar alerta (deja de listarse)
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id} [delete]
func (h *NotificationHandler) Dismiss(c *fiber.Ctx) error {
	if err := h.uc.Dismiss(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "alerta descartada"})
}
