package repositories

import (
	"context"
	"database/sql"

	"standards-backend/internal/domain"
	"standards-backend/internal/paginate"
)

type ProductRepo struct {
	DB *sql.DB
}

const productSelect = `
    SELECT p.id, p.name, COALESCE(p.description, ''), p.price, p.units,
           p.product_family_id, f.name, p.provider_id, pr.name,
           p.created_at, p.updated_at
    FROM products p
    LEFT JOIN product_families f ON f.id = p.product_family_id
    LEFT JOIN providers pr ON pr.id = p.provider_id`

func scanProduct(row interface{ Scan(...any) error }) (domain.Product, error) {
	var (
		p                domain.Product
		famID, famName   sql.NullString
		provID, provName sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Units,
		&famID, &famName, &provID, &provName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	p.ProductFamily = scanRef(famID, famName)
	p.Provider = scanRef(provID, provName)
	return p, nil
}

func (r ProductRepo) Insert(ctx context.Context, p domain.Product) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO products (id, name, description, price, units, product_family_id, provider_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
    `, p.ID, p.Name, p.Description, p.Price, p.Units, p.ProductFamily.ID, p.Provider.ID)
	return err
}

func (r ProductRepo) GetByID(ctx context.Context, id string) (domain.Product, error) {
	return scanProduct(r.DB.QueryRowContext(ctx, productSelect+` WHERE p.id = ?`, id))
}

func (r ProductRepo) Count(ctx context.Context, f Filters) (int, error) {
	return countRows(ctx, r.DB, "products p", f)
}

func (r ProductRepo) List(ctx context.Context, f Filters, w paginate.Window) ([]domain.Product, error) {
	where, args := f.Where()
	rows, err := r.DB.QueryContext(ctx,
		productSelect+where+` ORDER BY p.created_at DESC`+windowClause(w), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// NamesByIDs batch-fetches product names for an id set; this is the
// read-time expansion used for order lines.
func (r ProductRepo) NamesByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := ""
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		args = append(args, id)
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name FROM products WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

type ProductPatch struct {
	Name          *string
	Description   *string
	Price         *float64
	Units         *int
	ProductFamily *string
	Provider      *string
}

func (r ProductRepo) Update(ctx context.Context, id string, p ProductPatch) error {
	var b setBuilder
	b.Str("name", p.Name)
	b.Str("description", p.Description)
	b.Float("price", p.Price)
	b.Int("units", p.Units)
	b.Str("product_family_id", p.ProductFamily)
	b.Str("provider_id", p.Provider)

	set, args := b.Clause(id)
	_, err := r.DB.ExecContext(ctx, `UPDATE products SET `+set+` WHERE id = ?`, args...)
	return err
}

func (r ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteRow(ctx, r.DB, "products", id)
}
