package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
	"github.com/sigfarma/sigfarma-api/internal/domain/workflow"
)

var _ repository.ReceptionRepository = (*ReceptionRepo)(nil)

// ReceptionRepo implementación del puerto ReceptionRepository sobre
// PostgreSQL. Cabecera en receptions, líneas en reception_items.
type ReceptionRepo struct {
	q Querier
}

// NewReceptionRepository construye el adaptador.
func NewReceptionRepository(q Querier) *ReceptionRepo {
	return &ReceptionRepo{q: q}
}

const receptionColumns = `id, provider_id, requester_id, COALESCE(approver_id::text, ''),
	COALESCE(order_id::text, ''), status, reason, created_at, resolved_at`

// Create persiste cabecera y líneas.
func (r *ReceptionRepo) Create(rec *entity.Reception) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO receptions (id, provider_id, requester_id, order_id, status, reason, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)`,
		rec.ID, rec.ProviderID, rec.RequesterID, rec.OrderID, rec.Status, rec.Reason, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reception: %w", err)
	}
	for _, item := range rec.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO reception_items (id, reception_id, product_id, lot_code, quantity, unit_cost, expiration)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, rec.ID, item.ProductID, item.LotCode, item.Quantity, item.UnitCost, item.Expiration,
		)
		if err != nil {
			return fmt.Errorf("insert reception item: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la cabecera con sus líneas.
func (r *ReceptionRepo) GetByID(id string) (*entity.Reception, error) {
	return r.get(context.Background(), id, false)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) y carga las líneas.
func (r *ReceptionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reception, error) {
	return r.get(ctx, id, true)
}

func (r *ReceptionRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Reception, error) {
	query := `SELECT ` + receptionColumns + ` FROM receptions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rec, err := scanReception(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reception: %w", err)
	}
	if err := r.loadItems(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateStatus escribe el resultado de la aprobación o rechazo.
func (r *ReceptionRepo) UpdateStatus(rec *entity.Reception) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE receptions
		SET status = $2, approver_id = NULLIF($3, ''), reason = $4, resolved_at = $5
		WHERE id = $1`,
		rec.ID, rec.Status, rec.ApproverID, rec.Reason, rec.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("update reception status: %w", err)
	}
	return nil
}

// ListPending recepciones pendientes, más antiguas primero.
func (r *ReceptionRepo) ListPending() ([]*entity.Reception, error) {
	return r.List(repository.ReceptionFilters{Status: workflow.StatusPending})
}

// List recepciones con filtros, pendientes en orden FIFO.
func (r *ReceptionRepo) List(f repository.ReceptionFilters) ([]*entity.Reception, error) {
	ctx := context.Background()
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + receptionColumns + ` FROM receptions
		WHERE ($1 = '' OR status = $1)
			AND ($2 = '' OR provider_id = $2::uuid)
		ORDER BY created_at
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.Status, f.ProviderID, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list receptions: %w", err)
	}
	defer rows.Close()

	var list []*entity.Reception
	for rows.Next() {
		rec, err := scanReception(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reception: %w", err)
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rec := range list {
		if err := r.loadItems(ctx, rec); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *ReceptionRepo) loadItems(ctx context.Context, rec *entity.Reception) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, reception_id, product_id, lot_code, quantity, unit_cost, expiration
		FROM reception_items WHERE reception_id = $1 ORDER BY product_id`,
		rec.ID)
	if err != nil {
		return fmt.Errorf("load reception items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.ReceptionItem
		if err := rows.Scan(&item.ID, &item.ReceptionID, &item.ProductID, &item.LotCode,
			&item.Quantity, &item.UnitCost, &item.Expiration); err != nil {
			return fmt.Errorf("scan reception item: %w", err)
		}
		rec.Items = append(rec.Items, item)
	}
	return rows.Err()
}

func scanReception(row pgx.Row) (*entity.Reception, error) {
	var rec entity.Reception
	err := row.Scan(&rec.ID, &rec.ProviderID, &rec.RequesterID, &rec.ApproverID,
		&rec.OrderID, &rec.Status, &rec.Reason, &rec.CreatedAt, &rec.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
