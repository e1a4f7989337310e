package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics agregado de ventas activas en un rango.
type SalesMetrics struct {
	Total decimal.Decimal
	Count int
}

// SalesReportRow fila del reporte de ventas por rango de fechas.
type SalesReportRow struct {
	SaleID      string
	CashierName string
	CreatedAt   time.Time
	Status      string
	ItemCount   int
	Total       decimal.Decimal
}

// TopProductRow producto más vendido en un rango.
type TopProductRow struct {
	ProductID   string
	ProductName string
	UnitsSold   decimal.Decimal
	Revenue     decimal.Decimal
}

// AnalyticsRepository consultas read-only para el dashboard y los reportes.
type AnalyticsRepository interface {
	GetSalesMetrics(ctx context.Context, from, to time.Time) (SalesMetrics, error)
	CountLowStock(ctx context.Context) (int, error)
	CountExpiring(ctx context.Context, withinDays int) (int, error)
	CountPendingReceptions(ctx context.Context) (int, error)
	GetSalesReport(ctx context.Context, from, to time.Time) ([]SalesReportRow, error)
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductRow, error)
}
