package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
	"github.com/sigfarma/sigfarma-api/internal/domain/workflow"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas read-only para el dashboard y los reportes.
// Solo cuentan las ventas activas: las canceladas no aportan a métricas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	var m repository.SalesMetrics
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM sales
		WHERE status = $1 AND created_at BETWEEN $2 AND $3`,
		entity.SaleStatusActive, from, to,
	).Scan(&m.Total, &m.Count)
	if err != nil {
		return m, fmt.Errorf("sales metrics: %w", err)
	}
	return m, nil
}

func (r *AnalyticsRepo) CountLowStock(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM products p
		LEFT JOIN (SELECT product_id, SUM(quantity) AS stock FROM lots GROUP BY product_id) s
			ON s.product_id = p.id
		WHERE p.active AND COALESCE(s.stock, 0) < p.min_stock`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return count, nil
}

func (r *AnalyticsRepo) CountExpiring(ctx context.Context, withinDays int) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM lots
		WHERE quantity > 0 AND expiration <= now() + ($1 || ' days')::interval`,
		withinDays,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count expiring lots: %w", err)
	}
	return count, nil
}

func (r *AnalyticsRepo) CountPendingReceptions(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM receptions WHERE status = $1`, workflow.StatusPending,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending receptions: %w", err)
	}
	return count, nil
}

func (r *AnalyticsRepo) GetSalesReport(ctx context.Context, from, to time.Time) ([]repository.SalesReportRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT s.id, COALESCE(u.name, ''), s.created_at, s.status,
			(SELECT COUNT(*) FROM sale_items i WHERE i.sale_id = s.id), s.total
		FROM sales s
		LEFT JOIN users u ON u.id = s.cashier_id
		WHERE s.created_at BETWEEN $1 AND $2
		ORDER BY s.created_at`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}
	defer rows.Close()

	var list []repository.SalesReportRow
	for rows.Next() {
		var row repository.SalesReportRow
		if err := rows.Scan(&row.SaleID, &row.CashierName, &row.CreatedAt, &row.Status, &row.ItemCount, &row.Total); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.TopProductRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.product_id, p.name, SUM(i.quantity), SUM(i.quantity * i.unit_price)
		FROM sale_items i
		JOIN sales s ON s.id = i.sale_id
		JOIN products p ON p.id = i.product_id
		WHERE s.status = $1 AND s.created_at BETWEEN $2 AND $3
		GROUP BY i.product_id, p.name
		ORDER BY SUM(i.quantity) DESC
		LIMIT $4`,
		entity.SaleStatusActive, from, to, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var list []repository.TopProductRow
	for rows.Next() {
		var row repository.TopProductRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.UnitsSold, &row.Revenue); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
