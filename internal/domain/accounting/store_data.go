package accounting

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func (s *Store) CreateReconciliation(ctx context.Context, tenantID string, rec ShiftReconciliation) (string, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `
    INSERT INTO shift_reconciliations (
      tenant_id, shift_id, opening_cash, fuel_sales, credit, payments, expenses,
      upi, card, fleet_card,
      notes_2000, notes_1000, notes_500, notes_200, notes_100, notes_50, notes_20, notes_10,
      coins_5, coins_2, coins_1,
      cash_in_hand, expected_cash, balance, entered_by
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
    RETURNING id
  `, tenantID, rec.ShiftID, rec.OpeningCash, rec.FuelSales, rec.Credit, rec.Payments, rec.Expenses,
		rec.Electronic.UPI, rec.Electronic.Card, rec.Electronic.FleetCard,
		rec.Denominations.Notes2000, rec.Denominations.Notes1000, rec.Denominations.Notes500,
		rec.Denominations.Notes200, rec.Denominations.Notes100, rec.Denominations.Notes50,
		rec.Denominations.Notes20, rec.Denominations.Notes10,
		rec.Denominations.Coins5, rec.Denominations.Coins2, rec.Denominations.Coins1,
		rec.CashInHand, rec.ExpectedCash, rec.Balance, rec.EnteredBy).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrAlreadyReconciled
	}
	if err != nil {
		return "", err
	}

	if _, err := tx.Exec(ctx, `
    UPDATE shifts SET accounting_done = TRUE WHERE tenant_id = $1 AND id = $2
  `, tenantID, rec.ShiftID); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetReconciliationByShift(ctx context.Context, tenantID, shiftID string) (ShiftReconciliation, error) {
	var rec ShiftReconciliation
	err := s.DB.QueryRow(ctx, `
    SELECT id, shift_id, opening_cash, fuel_sales, credit, payments, expenses,
           upi, card, fleet_card,
           notes_2000, notes_1000, notes_500, notes_200, notes_100, notes_50, notes_20, notes_10,
           coins_5, coins_2, coins_1,
           cash_in_hand, expected_cash, balance, entered_by, created_at, updated_at
    FROM shift_reconciliations
    WHERE tenant_id = $1 AND shift_id = $2
  `, tenantID, shiftID).Scan(
		&rec.ID, &rec.ShiftID, &rec.OpeningCash, &rec.FuelSales, &rec.Credit, &rec.Payments, &rec.Expenses,
		&rec.Electronic.UPI, &rec.Electronic.Card, &rec.Electronic.FleetCard,
		&rec.Denominations.Notes2000, &rec.Denominations.Notes1000, &rec.Denominations.Notes500,
		&rec.Denominations.Notes200, &rec.Denominations.Notes100, &rec.Denominations.Notes50,
		&rec.Denominations.Notes20, &rec.Denominations.Notes10,
		&rec.Denominations.Coins5, &rec.Denominations.Coins2, &rec.Denominations.Coins1,
		&rec.CashInHand, &rec.ExpectedCash, &rec.Balance, &rec.EnteredBy, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ShiftReconciliation{}, ErrReconciliationNotFound
	}
	return rec, err
}

func (s *Store) UpdateReconciliation(ctx context.Context, tenantID string, rec ShiftReconciliation) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE shift_reconciliations
    SET opening_cash = $3, fuel_sales = $4, credit = $5, payments = $6, expenses = $7,
        upi = $8, card = $9, fleet_card = $10,
        notes_2000 = $11, notes_1000 = $12, notes_500 = $13, notes_200 = $14,
        notes_100 = $15, notes_50 = $16, notes_20 = $17, notes_10 = $18,
        coins_5 = $19, coins_2 = $20, coins_1 = $21,
        cash_in_hand = $22, expected_cash = $23, balance = $24, entered_by = $25,
        updated_at = now()
    WHERE tenant_id = $1 AND shift_id = $2
  `, tenantID, rec.ShiftID, rec.OpeningCash, rec.FuelSales, rec.Credit, rec.Payments, rec.Expenses,
		rec.Electronic.UPI, rec.Electronic.Card, rec.Electronic.FleetCard,
		rec.Denominations.Notes2000, rec.Denominations.Notes1000, rec.Denominations.Notes500,
		rec.Denominations.Notes200, rec.Denominations.Notes100, rec.Denominations.Notes50,
		rec.Denominations.Notes20, rec.Denominations.Notes10,
		rec.Denominations.Coins5, rec.Denominations.Coins2, rec.Denominations.Coins1,
		rec.CashInHand, rec.ExpectedCash, rec.Balance, rec.EnteredBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReconciliationNotFound
	}
	return nil
}

func (s *Store) DeleteReconciliation(ctx context.Context, tenantID, shiftID string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    DELETE FROM shift_reconciliations WHERE tenant_id = $1 AND shift_id = $2
  `, tenantID, shiftID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReconciliationNotFound
	}

	if _, err := tx.Exec(ctx, `
    UPDATE shifts SET accounting_done = FALSE WHERE tenant_id = $1 AND id = $2
  `, tenantID, shiftID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
