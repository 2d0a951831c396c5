package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

var _ repository.MaterialOrderRepository = (*MaterialOrderRepo)(nil)

const orderColumns = `id, company_id, material_id, quantity, price, order_date, last_modified_by, last_modified_at, created_at, updated_at`

// MaterialOrderRepo implementación de MaterialOrderRepository sobre PostgreSQL.
type MaterialOrderRepo struct {
	pool *pgxpool.Pool
}

// NewMaterialOrderRepository construye el adaptador.
func NewMaterialOrderRepository(pool *pgxpool.Pool) *MaterialOrderRepo {
	return &MaterialOrderRepo{pool: pool}
}

// Create persiste un pedido.
func (r *MaterialOrderRepo) Create(ctx context.Context, o *entity.MaterialOrder) error {
	query := `INSERT INTO material_orders (` + orderColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(ctx, query,
		o.ID, o.CompanyID, o.MaterialID, o.Quantity, o.Price, o.OrderDate, o.LastModifiedBy, o.LastModifiedAt,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido de la empresa; (nil, nil) si no existe.
func (r *MaterialOrderRepo) GetByID(ctx context.Context, companyID, id string) (*entity.MaterialOrder, error) {
	var o entity.MaterialOrder
	err := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM material_orders WHERE id = $1 AND company_id = $2`, id, companyID).Scan(
		&o.ID, &o.CompanyID, &o.MaterialID, &o.Quantity, &o.Price, &o.OrderDate, &o.LastModifiedBy, &o.LastModifiedAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// ListByCompany lista pedidos con el nombre del material, del más reciente al más antiguo.
func (r *MaterialOrderRepo) ListByCompany(ctx context.Context, companyID string) ([]repository.MaterialOrderView, error) {
	query := `
		SELECT o.id, o.company_id, o.material_id, o.quantity, o.price, o.order_date, o.last_modified_by,
			o.last_modified_at, o.created_at, o.updated_at, m.name, m.unit
		FROM material_orders o JOIN materials m ON m.id = o.material_id
		WHERE o.company_id = $1
		ORDER BY o.order_date DESC, o.id`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	out := make([]repository.MaterialOrderView, 0)
	for rows.Next() {
		var o entity.MaterialOrder
		v := repository.MaterialOrderView{Order: &o}
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.MaterialID, &o.Quantity, &o.Price, &o.OrderDate, &o.LastModifiedBy,
			&o.LastModifiedAt, &o.CreatedAt, &o.UpdatedAt, &v.MaterialName, &v.Unit); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Update actualiza cantidad, precio, material y fecha del pedido.
func (r *MaterialOrderRepo) Update(ctx context.Context, o *entity.MaterialOrder) error {
	query := `
		UPDATE material_orders SET material_id = $3, quantity = $4, price = $5, order_date = $6,
			last_modified_by = $7, last_modified_at = $8, updated_at = $9
		WHERE id = $1 AND company_id = $2`
	tag, err := r.pool.Exec(ctx, query,
		o.ID, o.CompanyID, o.MaterialID, o.Quantity, o.Price, o.OrderDate, o.LastModifiedBy, o.LastModifiedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un pedido.
func (r *MaterialOrderRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM material_orders WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
