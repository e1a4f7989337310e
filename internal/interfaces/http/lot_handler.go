package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sigfarma/sigfarma-api/internal/application/inventory"
)

// LotHandler consultas de lotes: por producto y por proximidad de vencimiento.
type LotHandler struct {
	uc *inventory.LotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *inventory.LotUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// ListByProduct godoc
// @Summary      Lotes de un producto (ordenados por vencimiento)
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {array}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/lots [get]
func (h *LotHandler) ListByProduct(c *fiber.Ctx) error {
	out, err := h.uc.ListByProduct(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListExpiring godoc
// @Summary      Lotes vencidos o por vencer, clasificados por severidad
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ExpiringLotResponse
// @Router       /api/lots/expiring [get]
func (h *LotHandler) ListExpiring(c *fiber.Ctx) error {
	out, err := h.uc.ListExpiring(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
