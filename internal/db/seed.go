package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"fueldesk/internal/auth"
	domauth "fueldesk/internal/domain/auth"
	"fueldesk/internal/platform/config"
)

// Seed is idempotent; every ensure step looks before it inserts.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	tenantID, err := ensureTenant(ctx, pool, cfg.SeedTenantName)
	if err != nil {
		return err
	}

	if err := ensureAdminUser(ctx, pool, tenantID, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}

	productIDs, err := ensureProducts(ctx, pool, tenantID)
	if err != nil {
		return err
	}

	if err := ensureNozzles(ctx, pool, tenantID, productIDs); err != nil {
		return err
	}

	if err := ensureWorkPeriods(ctx, pool, tenantID); err != nil {
		return err
	}

	return ensureWorkers(ctx, pool, tenantID)
}

func ensureTenant(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM tenants WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, "INSERT INTO tenants (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, tenantID, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE tenant_id = $1 AND lower(email) = lower($2)", tenantID, email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (tenant_id, email, password_hash, role, active)
    VALUES ($1, $2, $3, $4, TRUE)
  `, tenantID, strings.ToLower(email), hash, domauth.RoleOwner)
	return err
}

func ensureProducts(ctx context.Context, pool *pgxpool.Pool, tenantID string) (map[string]string, error) {
	products := map[string]decimal.Decimal{
		"Petrol": decimal.RequireFromString("102.50"),
		"Diesel": decimal.RequireFromString("94.20"),
	}

	ids := map[string]string{}
	for name, price := range products {
		var id string
		err := pool.QueryRow(ctx, "SELECT id FROM products WHERE tenant_id = $1 AND name = $2", tenantID, name).Scan(&id)
		if err != nil {
			err = pool.QueryRow(ctx, "INSERT INTO products (tenant_id, name) VALUES ($1, $2) RETURNING id", tenantID, name).Scan(&id)
			if err != nil {
				return nil, err
			}
			_, err = pool.Exec(ctx, `
        INSERT INTO product_prices (tenant_id, product_id, price, effective_from)
        VALUES ($1, $2, $3, now())
      `, tenantID, id, price)
			if err != nil {
				return nil, err
			}
		}
		ids[name] = id
	}
	return ids, nil
}

func ensureNozzles(ctx context.Context, pool *pgxpool.Pool, tenantID string, productIDs map[string]string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM pumps WHERE tenant_id = $1", tenantID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var pumpID string
	err := pool.QueryRow(ctx, "INSERT INTO pumps (tenant_id, label) VALUES ($1, 'Pump 1') RETURNING id", tenantID).Scan(&pumpID)
	if err != nil {
		return err
	}

	labels := []struct {
		label   string
		product string
	}{
		{"P1-N1", "Petrol"},
		{"P1-N2", "Diesel"},
	}
	for _, n := range labels {
		_, err := pool.Exec(ctx, `
      INSERT INTO nozzles (tenant_id, pump_id, product_id, label)
      VALUES ($1, $2, $3, $4)
    `, tenantID, pumpID, productIDs[n.product], n.label)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureWorkPeriods(ctx context.Context, pool *pgxpool.Pool, tenantID string) error {
	for _, name := range []string{"Morning", "Evening", "Night"} {
		_, err := pool.Exec(ctx, `
      INSERT INTO work_periods (tenant_id, name)
      VALUES ($1, $2)
      ON CONFLICT (tenant_id, name) DO NOTHING
    `, tenantID, name)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureWorkers(ctx context.Context, pool *pgxpool.Pool, tenantID string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM workers WHERE tenant_id = $1", tenantID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, name := range []string{"Ravi Kumar", "Sunil Sharma"} {
		_, err := pool.Exec(ctx, `
      INSERT INTO workers (tenant_id, full_name, opening_balance)
      VALUES ($1, $2, 0)
    `, tenantID, name)
		if err != nil {
			return err
		}
	}
	return nil
}
