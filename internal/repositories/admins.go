package repositories

import (
	"context"
	"database/sql"

	"standards-backend/internal/domain"
	"standards-backend/internal/paginate"
)

type AdminRepo struct {
	DB *sql.DB
}

const adminSelect = `
    SELECT a.id, a.name, a.surname, a.username, a.email, a.password,
           a.role_id, r.name, a.dealership_id, d.name,
           a.created_at, a.updated_at
    FROM admins a
    JOIN roles r ON r.id = a.role_id
    LEFT JOIN dealerships d ON d.id = a.dealership_id`

func scanAdmin(row interface{ Scan(...any) error }) (domain.Admin, error) {
	var (
		a                domain.Admin
		roleID, roleName sql.NullString
		dealID, dealName sql.NullString
	)
	err := row.Scan(&a.ID, &a.Name, &a.Surname, &a.Username, &a.Email, &a.Password,
		&roleID, &roleName, &dealID, &dealName, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return a, err
	}
	a.Role = scanRef(roleID, roleName)
	a.Dealership = scanRefPtr(dealID, dealName)
	return a, nil
}

func (r AdminRepo) Insert(ctx context.Context, a domain.Admin) error {
	var dealership any
	if a.Dealership != nil {
		dealership = a.Dealership.ID
	}
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO admins (id, name, surname, username, email, password, role_id, dealership_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
    `, a.ID, a.Name, a.Surname, a.Username, a.Email, a.Password, a.Role.ID, dealership)
	return err
}

func (r AdminRepo) GetByID(ctx context.Context, id string) (domain.Admin, error) {
	return scanAdmin(r.DB.QueryRowContext(ctx, adminSelect+` WHERE a.id = ?`, id))
}

// FindByLogin fetches an admin by email or username for credential checks.
func (r AdminRepo) FindByLogin(ctx context.Context, login string) (domain.Admin, error) {
	return scanAdmin(r.DB.QueryRowContext(ctx,
		adminSelect+` WHERE a.email = ? OR a.username = ?`, login, login))
}

// FindIDByEmailCI returns the id of the admin holding email, ignoring case.
// Uniqueness checks compare this id to the update target to avoid false
// positives when a document keeps its own value.
func (r AdminRepo) FindIDByEmailCI(ctx context.Context, email string) (string, error) {
	var id string
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM admins WHERE LOWER(email) = LOWER(?)`, email).Scan(&id)
	return id, err
}

func (r AdminRepo) FindIDByUsernameCI(ctx context.Context, username string) (string, error) {
	var id string
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM admins WHERE LOWER(username) = LOWER(?)`, username).Scan(&id)
	return id, err
}

func (r AdminRepo) Count(ctx context.Context, f Filters) (int, error) {
	return countRows(ctx, r.DB, "admins a", f)
}

func (r AdminRepo) List(ctx context.Context, f Filters, w paginate.Window) ([]domain.Admin, error) {
	where, args := f.Where()
	rows, err := r.DB.QueryContext(ctx,
		adminSelect+where+` ORDER BY a.created_at DESC`+windowClause(w), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type AdminPatch struct {
	Name       *string
	Surname    *string
	Username   *string
	Email      *string
	Password   *string
	Role       *string
	Dealership *string
}

func (r AdminRepo) Update(ctx context.Context, id string, p AdminPatch) error {
	var b setBuilder
	b.Str("name", p.Name)
	b.Str("surname", p.Surname)
	b.Str("username", p.Username)
	b.Str("email", p.Email)
	b.Str("password", p.Password)
	b.Str("role_id", p.Role)
	if p.Dealership != nil {
		if *p.Dealership == "" {
			b.Raw("dealership_id", nil)
		} else {
			b.Raw("dealership_id", *p.Dealership)
		}
	}

	set, args := b.Clause(id)
	_, err := r.DB.ExecContext(ctx, `UPDATE admins SET `+set+` WHERE id = ?`, args...)
	return err
}

func (r AdminRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteRow(ctx, r.DB, "admins", id)
}
