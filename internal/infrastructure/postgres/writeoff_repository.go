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

var _ repository.WriteOffRepository = (*WriteOffRepo)(nil)

// WriteOffRepo implementación del puerto WriteOffRepository sobre PostgreSQL.
type WriteOffRepo struct {
	q Querier
}

// NewWriteOffRepository construye el adaptador.
func NewWriteOffRepository(q Querier) *WriteOffRepo {
	return &WriteOffRepo{q: q}
}

const writeOffColumns = `id, lot_id, product_id, requester_id, COALESCE(approver_id::text, ''),
	status, quantity, reason, reject_reason, created_at, resolved_at`

func (r *WriteOffRepo) Create(w *entity.WriteOff) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO write_offs (id, lot_id, product_id, requester_id, status, quantity, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.LotID, w.ProductID, w.RequesterID, w.Status, w.Quantity, w.Reason, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert write-off: %w", err)
	}
	return nil
}

func (r *WriteOffRepo) GetByID(id string) (*entity.WriteOff, error) {
	return r.get(context.Background(), id, false)
}

func (r *WriteOffRepo) GetForUpdate(ctx context.Context, id string) (*entity.WriteOff, error) {
	return r.get(ctx, id, true)
}

func (r *WriteOffRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.WriteOff, error) {
	query := `SELECT ` + writeOffColumns + ` FROM write_offs WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	w, err := scanWriteOff(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get write-off: %w", err)
	}
	return w, nil
}

func (r *WriteOffRepo) UpdateStatus(w *entity.WriteOff) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE write_offs
		SET status = $2, approver_id = NULLIF($3, ''), reject_reason = $4, resolved_at = $5
		WHERE id = $1`,
		w.ID, w.Status, w.ApproverID, w.RejectReason, w.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("update write-off status: %w", err)
	}
	return nil
}

func (r *WriteOffRepo) ListPending() ([]*entity.WriteOff, error) {
	return r.List(repository.WriteOffFilters{Status: workflow.StatusPending})
}

func (r *WriteOffRepo) List(f repository.WriteOffFilters) ([]*entity.WriteOff, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + writeOffColumns + ` FROM write_offs
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, f.Status, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list write-offs: %w", err)
	}
	defer rows.Close()

	var list []*entity.WriteOff
	for rows.Next() {
		w, err := scanWriteOff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan write-off: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

func scanWriteOff(row pgx.Row) (*entity.WriteOff, error) {
	var w entity.WriteOff
	err := row.Scan(&w.ID, &w.LotID, &w.ProductID, &w.RequesterID, &w.ApproverID,
		&w.Status, &w.Quantity, &w.Reason, &w.RejectReason, &w.CreatedAt, &w.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
