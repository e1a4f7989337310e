package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/sigfarma/sigfarma-api/internal/application/analytics"
)

// DashboardHandler resumen operativo y reporte de ventas (JSON y PDF).
type DashboardHandler struct {
	dashboard *appanalytics.DashboardUseCase
	report    *appanalytics.ReportUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(dashboard *appanalytics.DashboardUseCase, report *appanalytics.ReportUseCase) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, report: report}
}

// GetSummary godoc
// @Summary      Resumen del dashboard: ventas de hoy y del mes, alertas y pendientes
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.dashboard.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GetSalesReport godoc
// @Summary      Reporte de ventas por rango de fechas
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        desde  query  string  true  "Fecha inicial (RFC 3339)"
// @Param        hasta  query  string  true  "Fecha final (RFC 3339)"
// @Success      200  {object}  dto.SalesReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *DashboardHandler) GetSalesReport(c *fiber.Ctx) error {
	from, to, err := parseReportRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	report, err := h.report.GetSalesReport(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetSalesReportPDF godoc
// @Summary      Descargar el reporte de ventas en PDF
// @Tags         dashboard
// @Security     Bearer
// @Produce      application/pdf
// @Param        desde  query  string  true  "Fecha inicial (RFC 3339)"
// @Param        hasta  query  string  true  "Fecha final (RFC 3339)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales/pdf [get]
func (h *DashboardHandler) GetSalesReportPDF(c *fiber.Ctx) error {
	from, to, err := parseReportRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	data, filename, err := h.report.GetSalesReportPDF(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// parseReportRange lee el rango `desde`/`hasta`. Acepta RFC 3339 completo o
// solo la fecha (2006-01-02).
func parseReportRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	from, err := parseFlexibleDate(c.Query("desde"))
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "desde: fecha inválida")
	}
	to, err := parseFlexibleDate(c.Query("hasta"))
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "hasta: fecha inválida")
	}
	return from, to, nil
}

func parseFlexibleDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
