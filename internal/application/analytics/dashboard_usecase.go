// Package analytics contiene los casos de uso del dashboard y del reporte de
// ventas exportable.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	domaininv "github.com/sigfarma/sigfarma-api/internal/domain/inventory"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // productos en el widget de más vendidos

// DashboardUseCase genera el resumen operativo: ventas del día y del mes,
// alertas de inventario y aprobaciones en cola.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cinco consultas en paralelo:
//  1. GetSalesMetrics(hoy)            → TodaySales, TodayCount
//  2. GetSalesMetrics(mes)            → MonthSales, MonthCount
//  3. CountLowStock + CountExpiring   → contadores de alerta
//  4. CountPendingReceptions          → cola de aprobación
//  5. GetTopProducts(mes, top 5)      → TopProducts
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()

	// Hoy: 00:00:00.000 – 23:59:59.999; mes en curso: día 1 hasta hoy.
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type metricsResult struct {
		metrics repository.SalesMetrics
		err     error
	}
	type countsResult struct {
		lowStock int
		expiring int
		pending  int
		err      error
	}
	type topResult struct {
		rows []repository.TopProductRow
		err  error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	countsCh := make(chan countsResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, todayStart, todayEnd)
		todayCh <- metricsResult{m, err}
	}()
	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, monthStart, todayEnd)
		monthCh <- metricsResult{m, err}
	}()
	go func() {
		var r countsResult
		r.lowStock, r.err = uc.analyticsRepo.CountLowStock(ctx)
		if r.err == nil {
			r.expiring, r.err = uc.analyticsRepo.CountExpiring(ctx, domaininv.ExpiryWarningDays)
		}
		if r.err == nil {
			r.pending, r.err = uc.analyticsRepo.CountPendingReceptions(ctx)
		}
		countsCh <- r
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetTopProducts(ctx, monthStart, todayEnd, dashboardTopProducts)
		topCh <- topResult{rows, err}
	}()

	today := <-todayCh
	month := <-monthCh
	counts := <-countsCh
	top := <-topCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}
	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: contadores de inventario: %w", counts.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}

	topProducts := make([]dto.TopProductDTO, 0, len(top.rows))
	for _, row := range top.rows {
		topProducts = append(topProducts, dto.TopProductDTO{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			UnitsSold:   row.UnitsSold,
			Revenue:     row.Revenue.Round(2),
		})
	}

	return &dto.DashboardSummaryDTO{
		TodaySales:        today.metrics.Total.Round(2),
		TodayCount:        today.metrics.Count,
		MonthSales:        month.metrics.Total.Round(2),
		MonthCount:        month.metrics.Count,
		LowStockCount:     counts.lowStock,
		ExpiringCount:     counts.expiring,
		PendingReceptions: counts.pending,
		TopProducts:       topProducts,
		GeneratedAt:       now,
	}, nil
}
