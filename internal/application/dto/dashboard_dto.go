package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopProductDTO producto más vendido en el mes.
type TopProductDTO struct {
	ProductID   string          `json:"producto_id"`
	ProductName string          `json:"producto_nombre"`
	UnitsSold   decimal.Decimal `json:"unidades_vendidas"`
	Revenue     decimal.Decimal `json:"ingresos"`
}

// DashboardSummaryDTO resumen del dashboard: ventas del día y del mes,
// alertas de inventario y recepciones pendientes de aprobar.
type DashboardSummaryDTO struct {
	TodaySales        decimal.Decimal `json:"ventas_hoy"`
	TodayCount        int             `json:"ventas_hoy_cantidad"`
	MonthSales        decimal.Decimal `json:"ventas_mes"`
	MonthCount        int             `json:"ventas_mes_cantidad"`
	LowStockCount     int             `json:"productos_stock_bajo"`
	ExpiringCount     int             `json:"lotes_por_vencer"`
	PendingReceptions int             `json:"recepciones_pendientes"`
	TopProducts       []TopProductDTO `json:"top_productos"`
	GeneratedAt       time.Time       `json:"generado_en"`
}

// SalesReportRowDTO fila del reporte de ventas.
type SalesReportRowDTO struct {
	SaleID      string          `json:"venta_id"`
	CashierName string          `json:"cajero"`
	CreatedAt   time.Time       `json:"fecha"`
	Status      string          `json:"estado"`
	ItemCount   int             `json:"lineas"`
	Total       decimal.Decimal `json:"total"`
}

// SalesReportDTO reporte de ventas por rango, exportable a PDF.
type SalesReportDTO struct {
	From       time.Time           `json:"desde"`
	To         time.Time           `json:"hasta"`
	Rows       []SalesReportRowDTO `json:"filas"`
	GrandTotal decimal.Decimal     `json:"total_general"`
}
