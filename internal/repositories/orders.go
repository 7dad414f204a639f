package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"standards-backend/internal/domain"
	"standards-backend/internal/paginate"
)

type OrderRepo struct {
	DB       *sql.DB
	Products ProductRepo
}

// storedLine is the persisted shape of an order line: product id only,
// expanded to id+name at read time.
type storedLine struct {
	Product string `json:"product"`
	Units   int    `json:"units"`
}

const orderSelect = `
    SELECT o.id, o.number, o.dealership_id, d.name, o.provider_id, pr.name,
           o.lines, o.address, o.state, o.created_at, o.updated_at
    FROM orders o
    LEFT JOIN dealerships d ON d.id = o.dealership_id
    LEFT JOIN providers pr ON pr.id = o.provider_id`

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var (
		o                domain.Order
		dealID, dealName sql.NullString
		provID, provName sql.NullString
		rawLines         []byte
	)
	err := row.Scan(&o.ID, &o.Number, &dealID, &dealName, &provID, &provName,
		&rawLines, &o.Address, &o.State, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}
	o.Dealership = scanRef(dealID, dealName)
	o.Provider = scanRef(provID, provName)

	var stored []storedLine
	if err := json.Unmarshal(rawLines, &stored); err != nil {
		return o, err
	}
	o.Lines = make([]domain.OrderLine, 0, len(stored))
	for _, l := range stored {
		o.Lines = append(o.Lines, domain.OrderLine{Product: domain.Ref{ID: l.Product}, Units: l.Units})
	}
	return o, nil
}

func marshalLines(lines []domain.OrderLine) ([]byte, error) {
	stored := make([]storedLine, 0, len(lines))
	for _, l := range lines {
		stored = append(stored, storedLine{Product: l.Product.ID, Units: l.Units})
	}
	return json.Marshal(stored)
}

func (r OrderRepo) Insert(ctx context.Context, o domain.Order) error {
	raw, err := marshalLines(o.Lines)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
        INSERT INTO orders (id, number, dealership_id, provider_id, lines, address, state, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
    `, o.ID, o.Number, o.Dealership.ID, o.Provider.ID, raw, o.Address, o.State)
	return err
}

func (r OrderRepo) GetByID(ctx context.Context, id string) (domain.Order, error) {
	o, err := scanOrder(r.DB.QueryRowContext(ctx, orderSelect+` WHERE o.id = ?`, id))
	if err != nil {
		return o, err
	}
	orders := []domain.Order{o}
	if err := r.expandLines(ctx, orders); err != nil {
		return o, err
	}
	return orders[0], nil
}

func (r OrderRepo) Count(ctx context.Context, f Filters) (int, error) {
	return countRows(ctx, r.DB, "orders o", f)
}

func (r OrderRepo) List(ctx context.Context, f Filters, w paginate.Window) ([]domain.Order, error) {
	where, args := f.Where()
	rows, err := r.DB.QueryContext(ctx,
		orderSelect+where+` ORDER BY o.created_at DESC`+windowClause(w), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.expandLines(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// expandLines resolves product names for all line items with one batched
// fetch over the collected id set.
func (r OrderRepo) expandLines(ctx context.Context, orders []domain.Order) error {
	idSet := map[string]bool{}
	for _, o := range orders {
		for _, l := range o.Lines {
			idSet[l.Product.ID] = true
		}
	}
	if len(idSet) == 0 {
		return nil
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	names, err := r.Products.NamesByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for oi := range orders {
		for li := range orders[oi].Lines {
			orders[oi].Lines[li].Product.Name = names[orders[oi].Lines[li].Product.ID]
		}
	}
	return nil
}

// OrderPatch carries updatable order fields. The number is immutable after
// creation and deliberately absent here.
type OrderPatch struct {
	Dealership *string
	Provider   *string
	Lines      []domain.OrderLine
	Address    *string
	State      *string
}

func (r OrderRepo) Update(ctx context.Context, id string, p OrderPatch) error {
	var b setBuilder
	b.Str("dealership_id", p.Dealership)
	b.Str("provider_id", p.Provider)
	if p.Lines != nil {
		raw, err := marshalLines(p.Lines)
		if err != nil {
			return err
		}
		b.Raw("lines", raw)
	}
	b.Str("address", p.Address)
	b.Str("state", p.State)

	set, args := b.Clause(id)
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET `+set+` WHERE id = ?`, args...)
	return err
}

func (r OrderRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteRow(ctx, r.DB, "orders", id)
}
