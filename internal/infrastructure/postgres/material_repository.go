package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Magacin-api/internal/domain"
	"github.com/jhoicas/Magacin-api/internal/domain/entity"
	"github.com/jhoicas/Magacin-api/internal/domain/inventory"
	"github.com/jhoicas/Magacin-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const (
	materialColumns = `id, company_id, name, daily_consumption, stock, unit, supplier, origin_country, payment_terms,
		last_modified_by, last_modified_at, created_at, updated_at`
	importColumns = `id, material_id, date, quantity, unit_price, delivery_note, supplier, note, created_by, created_at`
	usageColumns  = `id, material_id, date, quantity, note, created_by, created_at`

	materialNameConstraint = "materials_company_name_key"
)

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL.
// Las mutaciones del libro corren en una transacción con la fila del material bloqueada,
// así dos movimientos concurrentes sobre el mismo material se serializan.
type MaterialRepo struct {
	pool *pgxpool.Pool
}

// NewMaterialRepository construye el adaptador.
func NewMaterialRepository(pool *pgxpool.Pool) *MaterialRepo {
	return &MaterialRepo{pool: pool}
}

// Create inserta el material y, si viene, su entrada inicial en la misma transacción.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material, opening *entity.ImportEntry) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO materials (id, company_id, name, daily_consumption, stock, unit, supplier, origin_country,
				payment_terms, last_modified_by, last_modified_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
		_, err := tx.Exec(ctx, query,
			m.ID, m.CompanyID, m.Name, m.DailyConsumption, m.Stock, m.Unit, m.Supplier, m.OriginCountry,
			m.PaymentTerms, m.LastModifiedBy, m.LastModifiedAt, m.CreatedAt, m.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolationOn(err, materialNameConstraint) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert material: %w", err)
		}
		if opening != nil {
			return insertImport(ctx, tx, opening)
		}
		return nil
	})
}

// GetByID obtiene un material de la empresa; (nil, nil) si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Material, error) {
	m, err := getMaterial(ctx, r.pool, companyID, id, false)
	if err != nil {
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// ListByCompany lista los materiales en orden de creación.
func (r *MaterialRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Material, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+materialColumns+` FROM materials WHERE company_id = $1 ORDER BY seq`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Material, 0)
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Update guarda los campos descriptivos y, si stock != nil, la corrección de stock en la misma transacción.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material, stock *decimal.Decimal) (*entity.Material, error) {
	var out *entity.Material
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		cur, err := getMaterial(ctx, tx, m.CompanyID, m.ID, true)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		query := `
			UPDATE materials SET name = $3, daily_consumption = $4, unit = $5, supplier = $6, origin_country = $7,
				payment_terms = $8, last_modified_by = $9, last_modified_at = $10, updated_at = $11
			WHERE id = $1 AND company_id = $2
			RETURNING ` + materialColumns
		out, err = scanMaterial(tx.QueryRow(ctx, query,
			m.ID, m.CompanyID, m.Name, m.DailyConsumption, m.Unit, m.Supplier, m.OriginCountry,
			m.PaymentTerms, m.LastModifiedBy, m.LastModifiedAt, m.UpdatedAt,
		))
		if err != nil {
			if isUniqueViolationOn(err, materialNameConstraint) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("update material: %w", err)
		}
		if stock == nil {
			return nil
		}
		imp, use := inventory.CorrectionEntry(m.ID, cur.Stock, *stock, m.UpdatedAt, m.LastModifiedBy)
		switch {
		case imp != nil:
			err = insertImport(ctx, tx, imp)
		case use != nil:
			err = insertUsage(ctx, tx, use)
		default:
			return nil
		}
		if err != nil {
			return err
		}
		out, err = addStock(ctx, tx, m.CompanyID, m.ID, stock.Sub(cur.Stock), m.LastModifiedBy, m.UpdatedAt)
		return err
	})
	return out, err
}

// Delete elimina el material con su historial y pedidos.
func (r *MaterialRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM materials WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetLedger lee stock e historial dentro de una transacción REPEATABLE READ de solo lectura.
func (r *MaterialRepo) GetLedger(ctx context.Context, companyID, materialID string) (*entity.MaterialLedger, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin ledger read: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	m, err := getMaterial(ctx, tx, companyID, materialID, false)
	if err != nil {
		return nil, fmt.Errorf("get material: %w", err)
	}
	if m == nil {
		return nil, nil
	}
	ledger := &entity.MaterialLedger{Material: m}

	rows, err := tx.Query(ctx, `SELECT `+importColumns+` FROM material_imports WHERE material_id = $1 ORDER BY seq`, materialID)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	ledger.Imports, err = collectImports(rows)
	if err != nil {
		return nil, err
	}

	rows, err = tx.Query(ctx, `SELECT `+usageColumns+` FROM material_usages WHERE material_id = $1 ORDER BY seq`, materialID)
	if err != nil {
		return nil, fmt.Errorf("list usages: %w", err)
	}
	ledger.Usages, err = collectUsages(rows)
	if err != nil {
		return nil, err
	}
	return ledger, tx.Commit(ctx)
}

// AppendImport suma la cantidad al stock y guarda la entrada.
func (r *MaterialRepo) AppendImport(ctx context.Context, companyID, materialID string, e *entity.ImportEntry) (*entity.Material, error) {
	var out *entity.Material
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		m, err := addStock(ctx, tx, companyID, materialID, e.Quantity, e.CreatedBy, e.CreatedAt)
		if err != nil {
			return err
		}
		if err := insertImport(ctx, tx, e); err != nil {
			return err
		}
		out = m
		return nil
	})
	return out, err
}

// AppendUsage resta la cantidad solo si hay stock suficiente; la condición va en el propio UPDATE.
func (r *MaterialRepo) AppendUsage(ctx context.Context, companyID, materialID string, e *entity.UsageEntry) (*entity.Material, error) {
	var out *entity.Material
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE materials SET stock = stock - $3, last_modified_by = $4, last_modified_at = $5, updated_at = $5
			WHERE id = $1 AND company_id = $2 AND stock >= $3
			RETURNING ` + materialColumns
		m, err := scanMaterial(tx.QueryRow(ctx, query, materialID, companyID, e.Quantity, e.CreatedBy, e.CreatedAt))
		if err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		if m == nil {
			exists, err := getMaterial(ctx, tx, companyID, materialID, false)
			if err != nil {
				return err
			}
			if exists == nil {
				return fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
			}
			return domain.ErrInsufficientStock
		}
		if err := insertUsage(ctx, tx, e); err != nil {
			return err
		}
		out = m
		return nil
	})
	return out, err
}

// RemoveImport borra la entrada; con adjustStock también descuenta su cantidad.
func (r *MaterialRepo) RemoveImport(ctx context.Context, companyID, materialID, entryID string, adjustStock bool, modifiedBy string) (*entity.ImportEntry, error) {
	var out *entity.ImportEntry
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		m, err := getMaterial(ctx, tx, companyID, materialID, true)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
		}
		rows, err := tx.Query(ctx, `DELETE FROM material_imports WHERE id = $1 AND material_id = $2 RETURNING `+importColumns, entryID, materialID)
		if err != nil {
			return fmt.Errorf("delete import: %w", err)
		}
		deleted, err := collectImports(rows)
		if err != nil {
			return err
		}
		if len(deleted) == 0 {
			return fmt.Errorf("entrada %s: %w", entryID, domain.ErrNotFound)
		}
		e := deleted[0]
		delta := decimal.Zero
		if adjustStock {
			if m.Stock.LessThan(e.Quantity) {
				return domain.ErrInsufficientStock
			}
			delta = e.Quantity.Neg()
		}
		if _, err := addStock(ctx, tx, companyID, materialID, delta, modifiedBy, time.Now()); err != nil {
			return err
		}
		out = &e
		return nil
	})
	return out, err
}

// RemoveUsage borra la salida; con adjustStock devuelve su cantidad al stock.
func (r *MaterialRepo) RemoveUsage(ctx context.Context, companyID, materialID, entryID string, adjustStock bool, modifiedBy string) (*entity.UsageEntry, error) {
	var out *entity.UsageEntry
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		m, err := getMaterial(ctx, tx, companyID, materialID, true)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
		}
		rows, err := tx.Query(ctx, `DELETE FROM material_usages WHERE id = $1 AND material_id = $2 RETURNING `+usageColumns, entryID, materialID)
		if err != nil {
			return fmt.Errorf("delete usage: %w", err)
		}
		deleted, err := collectUsages(rows)
		if err != nil {
			return err
		}
		if len(deleted) == 0 {
			return fmt.Errorf("salida %s: %w", entryID, domain.ErrNotFound)
		}
		e := deleted[0]
		delta := decimal.Zero
		if adjustStock {
			delta = e.Quantity
		}
		if _, err := addStock(ctx, tx, companyID, materialID, delta, modifiedBy, time.Now()); err != nil {
			return err
		}
		out = &e
		return nil
	})
	return out, err
}

// ListImportHistory entradas de todos los materiales de la empresa, de la más reciente a la más antigua.
func (r *MaterialRepo) ListImportHistory(ctx context.Context, companyID string, f repository.HistoryFilter) ([]repository.ImportHistoryItem, error) {
	where, args := historyWhere("i", companyID, f)
	query := `
		SELECT m.name, m.unit, i.id, i.material_id, i.date, i.quantity, i.unit_price, i.delivery_note, i.supplier,
			i.note, i.created_by, i.created_at
		FROM material_imports i JOIN materials m ON m.id = i.material_id
		WHERE ` + where + `
		ORDER BY i.date DESC, m.seq, i.seq`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("import history: %w", err)
	}
	defer rows.Close()
	out := make([]repository.ImportHistoryItem, 0)
	for rows.Next() {
		var item repository.ImportHistoryItem
		var price decimal.NullDecimal
		e := &item.Entry
		if err := rows.Scan(&item.MaterialName, &item.Unit, &e.ID, &e.MaterialID, &e.Date, &e.Quantity, &price,
			&e.DeliveryNote, &e.Supplier, &e.Note, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		e.UnitPrice = nullablePrice(price)
		item.MaterialID = e.MaterialID
		out = append(out, item)
	}
	return out, rows.Err()
}

// ListUsageHistory salidas de todos los materiales de la empresa, de la más reciente a la más antigua.
func (r *MaterialRepo) ListUsageHistory(ctx context.Context, companyID string, f repository.HistoryFilter) ([]repository.UsageHistoryItem, error) {
	where, args := historyWhere("u", companyID, f)
	query := `
		SELECT m.name, m.unit, u.id, u.material_id, u.date, u.quantity, u.note, u.created_by, u.created_at
		FROM material_usages u JOIN materials m ON m.id = u.material_id
		WHERE ` + where + `
		ORDER BY u.date DESC, m.seq, u.seq`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("usage history: %w", err)
	}
	defer rows.Close()
	out := make([]repository.UsageHistoryItem, 0)
	for rows.Next() {
		var item repository.UsageHistoryItem
		e := &item.Entry
		if err := rows.Scan(&item.MaterialName, &item.Unit, &e.ID, &e.MaterialID, &e.Date, &e.Quantity,
			&e.Note, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		item.MaterialID = e.MaterialID
		out = append(out, item)
	}
	return out, rows.Err()
}

// historyWhere arma el filtro por empresa y fechas sobre la tabla de movimientos con el alias dado.
func historyWhere(alias, companyID string, f repository.HistoryFilter) (string, []any) {
	where := "m.company_id = $1"
	args := []any{companyID}
	if f.From != nil {
		args = append(args, *f.From)
		where += " AND " + alias + ".date >= $" + strconv.Itoa(len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += " AND " + alias + ".date <= $" + strconv.Itoa(len(args))
	}
	return where, args
}

// getMaterial lee el material; con forUpdate bloquea la fila hasta el fin de la transacción.
func getMaterial(ctx context.Context, q Querier, companyID, id string, forUpdate bool) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1 AND company_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanMaterial(q.QueryRow(ctx, query, id, companyID))
}

// addStock suma delta al stock (puede ser cero o negativo) y marca la modificación.
func addStock(ctx context.Context, q Querier, companyID, materialID string, delta decimal.Decimal, by string, at time.Time) (*entity.Material, error) {
	query := `
		UPDATE materials SET stock = stock + $3, last_modified_by = $4, last_modified_at = $5, updated_at = $5
		WHERE id = $1 AND company_id = $2
		RETURNING ` + materialColumns
	m, err := scanMaterial(q.QueryRow(ctx, query, materialID, companyID, delta, by, at))
	if err != nil {
		if isNumericOverflow(err) {
			return nil, fmt.Errorf("%w: el stock resultante está fuera de rango", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("update stock: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
	}
	return m, nil
}

func insertImport(ctx context.Context, q Querier, e *entity.ImportEntry) error {
	query := `INSERT INTO material_imports (` + importColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := q.Exec(ctx, query,
		e.ID, e.MaterialID, e.Date, e.Quantity, e.UnitPrice, e.DeliveryNote, e.Supplier, e.Note, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert import: %w", err)
	}
	return nil
}

func insertUsage(ctx context.Context, q Querier, e *entity.UsageEntry) error {
	query := `INSERT INTO material_usages (` + usageColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := q.Exec(ctx, query, e.ID, e.MaterialID, e.Date, e.Quantity, e.Note, e.CreatedBy, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert usage: %w", err)
	}
	return nil
}

// scanMaterial lee una fila de materials; (nil, nil) si no hay fila.
func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.Name, &m.DailyConsumption, &m.Stock, &m.Unit, &m.Supplier, &m.OriginCountry,
		&m.PaymentTerms, &m.LastModifiedBy, &m.LastModifiedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func collectImports(rows pgx.Rows) ([]entity.ImportEntry, error) {
	defer rows.Close()
	out := make([]entity.ImportEntry, 0)
	for rows.Next() {
		var e entity.ImportEntry
		var price decimal.NullDecimal
		if err := rows.Scan(&e.ID, &e.MaterialID, &e.Date, &e.Quantity, &price, &e.DeliveryNote, &e.Supplier,
			&e.Note, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		e.UnitPrice = nullablePrice(price)
		out = append(out, e)
	}
	return out, rows.Err()
}

func collectUsages(rows pgx.Rows) ([]entity.UsageEntry, error) {
	defer rows.Close()
	out := make([]entity.UsageEntry, 0)
	for rows.Next() {
		var e entity.UsageEntry
		if err := rows.Scan(&e.ID, &e.MaterialID, &e.Date, &e.Quantity, &e.Note, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullablePrice(p decimal.NullDecimal) *decimal.Decimal {
	if !p.Valid {
		return nil
	}
	d := p.Decimal
	return &d
}
