package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
)

type stubAnalyticsRepo struct {
	reportRows []repository.SalesReportRow
}

func (s *stubAnalyticsRepo) GetSalesMetrics(_ context.Context, _, _ time.Time) (repository.SalesMetrics, error) {
	return repository.SalesMetrics{Total: decimal.NewFromInt(100), Count: 2}, nil
}
func (s *stubAnalyticsRepo) CountLowStock(context.Context) (int, error)          { return 3, nil }
func (s *stubAnalyticsRepo) CountExpiring(context.Context, int) (int, error)     { return 4, nil }
func (s *stubAnalyticsRepo) CountPendingReceptions(context.Context) (int, error) { return 1, nil }
func (s *stubAnalyticsRepo) GetSalesReport(_ context.Context, _, _ time.Time) ([]repository.SalesReportRow, error) {
	return s.reportRows, nil
}
func (s *stubAnalyticsRepo) GetTopProducts(_ context.Context, _, _ time.Time, _ int) ([]repository.TopProductRow, error) {
	return []repository.TopProductRow{{ProductID: "p1", ProductName: "Acetaminofén", UnitsSold: decimal.NewFromInt(40), Revenue: decimal.NewFromInt(60000)}}, nil
}

func TestDashboardSummary_AgregaTodasLasFuentes(t *testing.T) {
	uc := NewDashboardUseCase(&stubAnalyticsRepo{})

	summary, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.TodaySales.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 2, summary.TodayCount)
	assert.Equal(t, 3, summary.LowStockCount)
	assert.Equal(t, 4, summary.ExpiringCount)
	assert.Equal(t, 1, summary.PendingReceptions)
	require.Len(t, summary.TopProducts, 1)
	assert.Equal(t, "Acetaminofén", summary.TopProducts[0].ProductName)
}

func TestSalesReport_TotalesYValidacion(t *testing.T) {
	repo := &stubAnalyticsRepo{
		reportRows: []repository.SalesReportRow{
			{SaleID: "v1", CashierName: "Ana", Status: entity.SaleStatusActive, Total: decimal.NewFromFloat(1500.555)},
			{SaleID: "v2", CashierName: "Luis", Status: entity.SaleStatusActive, Total: decimal.NewFromInt(2000)},
			{SaleID: "v3", CashierName: "Ana", Status: entity.SaleStatusCancelled, Total: decimal.NewFromInt(9999)},
		},
	}
	uc := NewReportUseCase(repo, nil)
	from := time.Now().AddDate(0, -1, 0)
	to := time.Now()

	report, err := uc.GetSalesReport(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, report.Rows, 3)
	// La venta cancelada aparece en el listado pero no suma al total.
	assert.True(t, report.GrandTotal.Equal(decimal.NewFromFloat(3500.56)), "total = %s", report.GrandTotal)

	// Rango invertido
	_, err = uc.GetSalesReport(context.Background(), to, from)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Rango vacío no es error
	empty := &stubAnalyticsRepo{}
	report, err = NewReportUseCase(empty, nil).GetSalesReport(context.Background(), from, to)
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.True(t, report.GrandTotal.IsZero())
}
