package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, presentation, unit_id, controlled, refrigerated,
		min_stock, price, provider_id, active, created_at, updated_at`

// Create persiste un producto nuevo. search_name guarda el nombre plegado
// (minúsculas, sin acentos) para la búsqueda.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, search_name, presentation, unit_id, controlled, refrigerated,
			min_stock, price, provider_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, NULLIF($10, ''), $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Name, foldText(p.Name), p.Presentation, p.UnitID, p.Controlled, p.Refrigerated,
		p.MinStock, p.Price, p.ProviderID, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto con su stock derivado de los lotes.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `,
			COALESCE((SELECT SUM(quantity) FROM lots l WHERE l.product_id = p.id), 0) AS stock_total
		FROM products p WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza los datos del producto. El stock nunca se escribe aquí.
func (r *ProductRepo) Update(p *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, search_name = $3, presentation = $4, unit_id = NULLIF($5, ''), controlled = $6,
			refrigerated = $7, min_stock = $8, price = $9, provider_id = NULLIF($10, ''),
			active = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		p.ID, p.Name, foldText(p.Name), p.Presentation, p.UnitID, p.Controlled,
		p.Refrigerated, p.MinStock, p.Price, p.ProviderID, p.Active, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetActive habilita o deshabilita lógicamente el producto.
func (r *ProductRepo) SetActive(id string, active bool) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List busca por nombre plegado; query vacío lista todo.
func (r *ProductRepo) List(search string, onlyActive bool, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `,
			COALESCE((SELECT SUM(quantity) FROM lots l WHERE l.product_id = p.id), 0) AS stock_total
		FROM products p
		WHERE ($1 = '' OR search_name LIKE '%' || $1 || '%')
			AND (NOT $2 OR active)
		ORDER BY name
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, foldText(search), onlyActive, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListLowStock productos activos cuyo stock derivado está bajo su mínimo, con
// el proveedor por defecto y el último costo de lote para el auto-pedido.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]repository.LowStockRow, error) {
	query := `
		SELECT p.id, p.name, COALESCE(p.provider_id::text, ''), p.min_stock,
			COALESCE(s.stock, 0) AS stock,
			COALESCE((SELECT l.unit_cost FROM lots l WHERE l.product_id = p.id ORDER BY l.created_at DESC LIMIT 1), 0)
		FROM products p
		LEFT JOIN (SELECT product_id, SUM(quantity) AS stock FROM lots GROUP BY product_id) s
			ON s.product_id = p.id
		WHERE p.active AND COALESCE(s.stock, 0) < p.min_stock
		ORDER BY p.name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var list []repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.ProductID, &row.Name, &row.ProviderID, &row.MinStock, &row.Stock, &row.UnitCost); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// StockTotal suma las cantidades de los lotes del producto.
func (r *ProductRepo) StockTotal(id string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM lots WHERE product_id = $1`, id).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock total: %w", err)
	}
	return total, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var unitID, providerID *string
	err := row.Scan(
		&p.ID, &p.Name, &p.Presentation, &unitID, &p.Controlled, &p.Refrigerated,
		&p.MinStock, &p.Price, &providerID, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		&p.StockTotal,
	)
	if err != nil {
		return nil, err
	}
	if unitID != nil {
		p.UnitID = *unitID
	}
	if providerID != nil {
		p.ProviderID = *providerID
	}
	return &p, nil
}
