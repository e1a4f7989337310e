package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación del puerto LotRepository sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, product_id, code, quantity, unit_cost, expiration, status, created_at, updated_at`

// Create persiste un lote nuevo.
func (r *LotRepo) Create(l *entity.Lot) error {
	query := `
		INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.ProductID, l.Code, l.Quantity, l.UnitCost, l.Expiration, l.Status, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	l, err := scanLot(r.q.QueryRow(context.Background(),
		`SELECT `+lotColumns+` FROM lots WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return l, nil
}

// GetByProductAndExpirationForUpdate bloquea el lote destino de una línea de
// recepción aprobada: mismo producto y misma fecha de vencimiento. El bloqueo
// evita que una venta o baja concurrente pierda su decremento frente al
// incremento de la recepción.
func (r *LotRepo) GetByProductAndExpirationForUpdate(ctx context.Context, productID string, expiration time.Time) (*entity.Lot, error) {
	l, err := scanLot(r.q.QueryRow(ctx,
		`SELECT `+lotColumns+` FROM lots WHERE product_id = $1 AND expiration::date = $2::date FOR UPDATE`,
		productID, expiration))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot by expiration: %w", err)
	}
	return l, nil
}

// ListByProduct lotes de un producto, vencimiento más próximo primero.
func (r *LotRepo) ListByProduct(productID string) ([]*entity.Lot, error) {
	return r.queryLots(context.Background(),
		`SELECT `+lotColumns+` FROM lots WHERE product_id = $1 ORDER BY expiration, created_at`,
		productID)
}

// ListForUpdateByProduct bloquea los lotes con existencia del producto en
// orden de vencimiento, para la asignación FEFO dentro de la transacción.
func (r *LotRepo) ListForUpdateByProduct(ctx context.Context, productID string) ([]*entity.Lot, error) {
	return r.queryLots(ctx,
		`SELECT `+lotColumns+` FROM lots
		WHERE product_id = $1 AND quantity > 0
		ORDER BY expiration, created_at
		FOR UPDATE`,
		productID)
}

// GetForUpdate bloquea un lote por ID.
func (r *LotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	l, err := scanLot(r.q.QueryRow(ctx,
		`SELECT `+lotColumns+` FROM lots WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot for update: %w", err)
	}
	return l, nil
}

// UpdateQuantity escribe cantidad y estado tras un movimiento de stock.
func (r *LotRepo) UpdateQuantity(l *entity.Lot) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE lots SET quantity = $2, unit_cost = $3, status = $4, updated_at = $5 WHERE id = $1`,
		l.ID, l.Quantity, l.UnitCost, l.Status, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lot quantity: %w", err)
	}
	return nil
}

// ListExpiring lotes con existencia que vencen dentro de withinDays días
// (incluye ya vencidos), con el nombre del producto.
func (r *LotRepo) ListExpiring(ctx context.Context, withinDays int) ([]repository.ExpiringLotRow, error) {
	query := `
		SELECT l.id, l.product_id, l.code, l.quantity, l.unit_cost, l.expiration, l.status,
			l.created_at, l.updated_at, p.name
		FROM lots l
		JOIN products p ON p.id = l.product_id
		WHERE l.quantity > 0 AND l.expiration <= now() + ($1 || ' days')::interval
		ORDER BY l.expiration`
	rows, err := r.q.Query(ctx, query, withinDays)
	if err != nil {
		return nil, fmt.Errorf("list expiring lots: %w", err)
	}
	defer rows.Close()

	var list []repository.ExpiringLotRow
	for rows.Next() {
		var row repository.ExpiringLotRow
		if err := rows.Scan(
			&row.Lot.ID, &row.Lot.ProductID, &row.Lot.Code, &row.Lot.Quantity, &row.Lot.UnitCost,
			&row.Lot.Expiration, &row.Lot.Status, &row.Lot.CreatedAt, &row.Lot.UpdatedAt,
			&row.ProductName,
		); err != nil {
			return nil, fmt.Errorf("scan expiring lot: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

func (r *LotRepo) queryLots(ctx context.Context, query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lots: %w", err)
	}
	defer rows.Close()

	var list []*entity.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(&l.ID, &l.ProductID, &l.Code, &l.Quantity, &l.UnitCost,
		&l.Expiration, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
