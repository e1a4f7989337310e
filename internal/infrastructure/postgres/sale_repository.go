package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
// Cabecera en sales, líneas con atribución de lote en sale_items.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, cashier_id, status, total, created_at, cancelled_at`

func (r *SaleRepo) Create(s *entity.Sale) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.CashierID, s.Status, s.Total, s.CreatedAt, s.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, item := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, lot_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, s.ID, item.ProductID, item.LotID, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	return r.get(context.Background(), id, false)
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, id, true)
}

func (r *SaleRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) UpdateStatus(s *entity.Sale) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sales SET status = $2, cancelled_at = $3 WHERE id = $1`,
		s.ID, s.Status, s.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	return nil
}

func (r *SaleRepo) List(f repository.SaleFilters) ([]*entity.Sale, error) {
	ctx := context.Background()
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + saleColumns + ` FROM sales
		WHERE ($1 = '' OR cashier_id = $1::uuid)
			AND ($2 = '' OR status = $2)
			AND ($3::timestamptz IS NULL OR created_at >= $3)
			AND ($4::timestamptz IS NULL OR created_at <= $4)
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6`
	from := nullableTime(f.From)
	to := nullableTime(f.To)
	rows, err := r.q.Query(ctx, query, f.CashierID, f.Status, from, to, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		if err := r.loadItems(ctx, s); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *SaleRepo) loadItems(ctx context.Context, s *entity.Sale) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, lot_id, quantity, unit_price
		FROM sale_items WHERE sale_id = $1 ORDER BY product_id, lot_id`,
		s.ID)
	if err != nil {
		return fmt.Errorf("load sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.LotID, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, item)
	}
	return rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.CashierID, &s.Status, &s.Total, &s.CreatedAt, &s.CancelledAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
