// Package db bootstraps the store schema. Every entity lives in its own
// table keyed by an opaque 24-hex-char identifier generated app-side;
// relationships are identifier references resolved by lookup at write time.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"standards-backend/internal/domain"
	"standards-backend/internal/validate"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS roles (
        id         CHAR(24) PRIMARY KEY,
        name       VARCHAR(100) NOT NULL,
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL,
        UNIQUE KEY uq_roles_name (name)
    )`,
	`CREATE TABLE IF NOT EXISTS incidence_types (
        id         CHAR(24) PRIMARY KEY,
        name       VARCHAR(100) NOT NULL,
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL,
        UNIQUE KEY uq_incidence_types_name (name)
    )`,
	`CREATE TABLE IF NOT EXISTS product_families (
        id         CHAR(24) PRIMARY KEY,
        name       VARCHAR(100) NOT NULL,
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL,
        UNIQUE KEY uq_product_families_name (name)
    )`,
	`CREATE TABLE IF NOT EXISTS dealerships (
        id          CHAR(24) PRIMARY KEY,
        name        VARCHAR(100) NOT NULL,
        address     VARCHAR(200) NOT NULL DEFAULT '',
        city        VARCHAR(100) NOT NULL DEFAULT '',
        province    VARCHAR(100) NOT NULL DEFAULT '',
        postal_code VARCHAR(10)  NOT NULL DEFAULT '',
        email       VARCHAR(254) NOT NULL DEFAULT '',
        phone       VARCHAR(30)  NOT NULL DEFAULT '',
        created_at  DATETIME NOT NULL,
        updated_at  DATETIME NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS admins (
        id            CHAR(24) PRIMARY KEY,
        name          VARCHAR(100) NOT NULL,
        surname       VARCHAR(100) NOT NULL,
        username      VARCHAR(20)  NOT NULL,
        email         VARCHAR(254) NOT NULL,
        password      VARCHAR(100) NOT NULL,
        role_id       CHAR(24) NOT NULL,
        dealership_id CHAR(24) NULL,
        created_at    DATETIME NOT NULL,
        updated_at    DATETIME NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS installations (
        id            CHAR(24) PRIMARY KEY,
        name          VARCHAR(100) NOT NULL,
        dealership_id CHAR(24) NOT NULL,
        type          VARCHAR(100) NOT NULL DEFAULT '',
        address       VARCHAR(200) NOT NULL DEFAULT '',
        surface       DOUBLE NOT NULL DEFAULT 0,
        created_at    DATETIME NOT NULL,
        updated_at    DATETIME NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS personnel (
        id              CHAR(24) PRIMARY KEY,
        name            VARCHAR(100) NOT NULL,
        surname         VARCHAR(100) NOT NULL,
        dni             VARCHAR(9)   NOT NULL DEFAULT '',
        email           VARCHAR(254) NOT NULL DEFAULT '',
        phone           VARCHAR(30)  NOT NULL DEFAULT '',
        position        VARCHAR(100) NOT NULL DEFAULT '',
        dealership_id   CHAR(24) NOT NULL,
        installation_id CHAR(24) NULL,
        created_at      DATETIME NOT NULL,
        updated_at      DATETIME NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS audits (
        id              CHAR(24) PRIMARY KEY,
        dealership_id   CHAR(24) NOT NULL,
        installation_id CHAR(24) NULL,
        auditor         VARCHAR(100) NOT NULL,
        date            VARCHAR(10)  NOT NULL,
        score           INT NOT NULL DEFAULT 0,
        status          VARCHAR(20) NOT NULL,
        comments        TEXT,
        created_at      DATETIME NOT NULL,
        updated_at      DATETIME NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS providers (
        id         CHAR(24) PRIMARY KEY,
        name       VARCHAR(100) NOT NULL,
        email_p1   VARCHAR(254) NOT NULL,
        email_p2   VARCHAR(254) NOT NULL DEFAULT '',
        phone      VARCHAR(30)  NOT NULL DEFAULT '',
        address    VARCHAR(200) NOT NULL DEFAULT '',
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS products (
        id                CHAR(24) PRIMARY KEY,
        name              VARCHAR(100) NOT NULL,
        description       TEXT,
        price             DOUBLE NOT NULL DEFAULT 0,
        units             INT NOT NULL DEFAULT 0,
        product_family_id CHAR(24) NOT NULL,
        provider_id       CHAR(24) NOT NULL,
        created_at        DATETIME NOT NULL,
        updated_at        DATETIME NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS orders (
        id            CHAR(24) PRIMARY KEY,
        number        VARCHAR(20) NOT NULL,
        dealership_id CHAR(24) NOT NULL,
        provider_id   CHAR(24) NOT NULL,
        lines         JSON NOT NULL,
        address       VARCHAR(200) NOT NULL DEFAULT '',
        state         VARCHAR(20) NOT NULL,
        created_at    DATETIME NOT NULL,
        updated_at    DATETIME NOT NULL,
        UNIQUE KEY uq_orders_number (number)
    )`,
	`CREATE TABLE IF NOT EXISTS incidences (
        id                CHAR(24) PRIMARY KEY,
        number            VARCHAR(20) NOT NULL,
        incidence_type_id CHAR(24) NOT NULL,
        dealership_id     CHAR(24) NOT NULL,
        installation_id   CHAR(24) NULL,
        description       TEXT NOT NULL,
        state             VARCHAR(20) NOT NULL,
        created_at        DATETIME NOT NULL,
        updated_at        DATETIME NOT NULL,
        UNIQUE KEY uq_incidences_number (number)
    )`,
	`CREATE TABLE IF NOT EXISTS counters (
        name  VARCHAR(32) PRIMARY KEY,
        value BIGINT NOT NULL
    )`,
}

// EnsureSchema creates missing tables, seeds the built-in roles and aligns
// the document-number counters with any pre-existing numbered documents.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	if err := seedRoles(ctx, db); err != nil {
		return err
	}
	if err := seedCounter(ctx, db, domain.OrderPrefix, "orders"); err != nil {
		return err
	}
	return seedCounter(ctx, db, domain.IncidencePrefix, "incidences")
}

func seedRoles(ctx context.Context, db *sql.DB) error {
	for _, name := range []string{domain.RoleAdmin, domain.RoleDealership} {
		var one int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM roles WHERE name = ?`, name).Scan(&one)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("seed roles: %w", err)
		}
		_, err = db.ExecContext(ctx, `
            INSERT INTO roles (id, name, created_at, updated_at) VALUES (?, ?, NOW(), NOW())
        `, validate.NewID(), name)
		if err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
	}
	return nil
}

// seedCounter fast-forwards a counter to the highest number already present
// so freshly minted numbers continue the legacy series.
func seedCounter(ctx context.Context, db *sql.DB, prefix, table string) error {
	var max int64
	query := fmt.Sprintf(
		`SELECT COALESCE(MAX(CAST(SUBSTRING(number, %d) AS UNSIGNED)), 0) FROM %s`,
		len(prefix)+2, table)
	if err := db.QueryRowContext(ctx, query).Scan(&max); err != nil {
		return fmt.Errorf("seed counter %s: %w", prefix, err)
	}
	_, err := db.ExecContext(ctx, `
        INSERT INTO counters (name, value) VALUES (?, ?)
        ON DUPLICATE KEY UPDATE value = GREATEST(value, VALUES(value))
    `, prefix, max)
	if err != nil {
		return fmt.Errorf("seed counter %s: %w", prefix, err)
	}
	return nil
}
