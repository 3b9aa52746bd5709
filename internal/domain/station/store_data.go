package station

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const assignmentColumns = `
    id, nozzle_id, product_id, worker_id, shift_id, start_time, end_time,
    opening_balance, closing_balance, status, dispensed_amount, total_amount, unit_price`

func (s *Store) FindOpenAssignmentByNozzle(ctx context.Context, tenantID, nozzleID string) (*NozzleAssignment, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+assignmentColumns+`
    FROM nozzle_assignments
    WHERE tenant_id = $1 AND nozzle_id = $2 AND status = 'OPEN'
  `, tenantID, nozzleID)
	assignment, err := scanAssignment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (s *Store) GetAssignment(ctx context.Context, tenantID, assignmentID string) (NozzleAssignment, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+assignmentColumns+`
    FROM nozzle_assignments
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, assignmentID)
	assignment, err := scanAssignment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return NozzleAssignment{}, ErrAssignmentNotFound
	}
	return assignment, err
}

func (s *Store) CreateAssignment(ctx context.Context, tenantID string, assignment NozzleAssignment) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO nozzle_assignments (tenant_id, nozzle_id, product_id, worker_id, shift_id, start_time, opening_balance, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,'OPEN')
    RETURNING id
  `, tenantID, assignment.NozzleID, assignment.ProductID, assignment.WorkerID, assignment.ShiftID, assignment.StartTime, assignment.OpeningBalance).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrNozzleInUse
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) CloseAssignment(ctx context.Context, tenantID, assignmentID string, endTime time.Time, closing, dispensed, total, unitPrice decimal.Decimal) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE nozzle_assignments
    SET status = 'CLOSED', end_time = $3, closing_balance = $4,
        dispensed_amount = $5, total_amount = $6, unit_price = $7
    WHERE tenant_id = $1 AND id = $2 AND status = 'OPEN'
  `, tenantID, assignmentID, endTime, closing, dispensed, total, unitPrice)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAssignmentClosed
	}
	return nil
}

func (s *Store) ListAssignmentsForShift(ctx context.Context, tenantID, shiftID string) ([]NozzleAssignment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+assignmentColumns+`
    FROM nozzle_assignments
    WHERE tenant_id = $1 AND shift_id = $2
    ORDER BY start_time
  `, tenantID, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []NozzleAssignment
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return assignments, rows.Err()
}

func (s *Store) GetShift(ctx context.Context, tenantID, shiftID string) (Shift, error) {
	var shift Shift
	err := s.DB.QueryRow(ctx, `
    SELECT id, worker_id, work_period_id, shift_date, start_time, end_time, opening_cash, accounting_done
    FROM shifts
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, shiftID).Scan(&shift.ID, &shift.WorkerID, &shift.WorkPeriodID, &shift.Date, &shift.StartTime, &shift.EndTime, &shift.OpeningCash, &shift.AccountingDone)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shift{}, ErrShiftNotFound
	}
	return shift, err
}

func (s *Store) CreateShift(ctx context.Context, tenantID string, shift Shift) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shifts (tenant_id, worker_id, work_period_id, shift_date, start_time, opening_cash)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, tenantID, shift.WorkerID, shift.WorkPeriodID, shift.Date, shift.StartTime, shift.OpeningCash).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) SetShiftEndTime(ctx context.Context, tenantID, shiftID string, endTime time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE shifts SET end_time = $3
    WHERE tenant_id = $1 AND id = $2 AND end_time IS NULL
  `, tenantID, shiftID, endTime)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrShiftAlreadyClosed
	}
	return nil
}

func (s *Store) ListNozzleTestsForShift(ctx context.Context, tenantID, shiftID string) ([]NozzleTest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, shift_id, nozzle_id, product_id, quantity, tested_at
    FROM nozzle_tests
    WHERE tenant_id = $1 AND shift_id = $2
    ORDER BY tested_at
  `, tenantID, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []NozzleTest
	for rows.Next() {
		var test NozzleTest
		if err := rows.Scan(&test.ID, &test.ShiftID, &test.NozzleID, &test.ProductID, &test.Quantity, &test.TestedAt); err != nil {
			return nil, err
		}
		tests = append(tests, test)
	}
	return tests, rows.Err()
}

func (s *Store) CreateNozzleTest(ctx context.Context, tenantID string, test NozzleTest) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO nozzle_tests (tenant_id, shift_id, nozzle_id, product_id, quantity, tested_at)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, tenantID, test.ShiftID, test.NozzleID, test.ProductID, test.Quantity, test.TestedAt).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListCreditBillsForShift(ctx context.Context, tenantID, shiftID string) ([]CreditBill, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, shift_id, customer_id, bill_number, net_amount, billed_at
    FROM credit_bills
    WHERE tenant_id = $1 AND shift_id = $2
    ORDER BY billed_at
  `, tenantID, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []CreditBill
	for rows.Next() {
		var bill CreditBill
		if err := rows.Scan(&bill.ID, &bill.ShiftID, &bill.CustomerID, &bill.BillNumber, &bill.NetAmount, &bill.BilledAt); err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

func (s *Store) CreateCreditBill(ctx context.Context, tenantID string, bill CreditBill) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO credit_bills (tenant_id, shift_id, customer_id, bill_number, net_amount, billed_at)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, tenantID, bill.ShiftID, bill.CustomerID, bill.BillNumber, bill.NetAmount, bill.BilledAt).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListPaymentsForShift(ctx context.Context, tenantID, shiftID string) ([]ShiftPayment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, shift_id, amount, reference, received_at
    FROM shift_payments
    WHERE tenant_id = $1 AND shift_id = $2
    ORDER BY received_at
  `, tenantID, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []ShiftPayment
	for rows.Next() {
		var payment ShiftPayment
		if err := rows.Scan(&payment.ID, &payment.ShiftID, &payment.Amount, &payment.Reference, &payment.ReceivedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (s *Store) CreatePayment(ctx context.Context, tenantID string, payment ShiftPayment) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shift_payments (tenant_id, shift_id, amount, reference, received_at)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, tenantID, payment.ShiftID, payment.Amount, payment.Reference, payment.ReceivedAt).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListExpensesForShift(ctx context.Context, tenantID, shiftID string) ([]ShiftExpense, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, shift_id, amount, description, spent_at
    FROM shift_expenses
    WHERE tenant_id = $1 AND shift_id = $2
    ORDER BY spent_at
  `, tenantID, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []ShiftExpense
	for rows.Next() {
		var expense ShiftExpense
		if err := rows.Scan(&expense.ID, &expense.ShiftID, &expense.Amount, &expense.Description, &expense.SpentAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (s *Store) CreateExpense(ctx context.Context, tenantID string, expense ShiftExpense) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shift_expenses (tenant_id, shift_id, amount, description, spent_at)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, tenantID, expense.ShiftID, expense.Amount, expense.Description, expense.SpentAt).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) NozzleProductID(ctx context.Context, tenantID, nozzleID string) (string, error) {
	var productID string
	err := s.DB.QueryRow(ctx, `
    SELECT product_id FROM nozzles WHERE tenant_id = $1 AND id = $2
  `, tenantID, nozzleID).Scan(&productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrAssignmentNotFound
	}
	return productID, err
}

func (s *Store) ResolveUnitPrice(ctx context.Context, tenantID, productID string, at time.Time) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := s.DB.QueryRow(ctx, `
    SELECT price FROM product_prices
    WHERE tenant_id = $1 AND product_id = $2 AND effective_from <= $3
    ORDER BY effective_from DESC
    LIMIT 1
  `, tenantID, productID, at).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, ErrPriceNotFound
	}
	return price, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (NozzleAssignment, error) {
	var assignment NozzleAssignment
	var closing, dispensed, total, unitPrice decimal.NullDecimal
	err := row.Scan(
		&assignment.ID, &assignment.NozzleID, &assignment.ProductID, &assignment.WorkerID,
		&assignment.ShiftID, &assignment.StartTime, &assignment.EndTime,
		&assignment.OpeningBalance, &closing, &assignment.Status,
		&dispensed, &total, &unitPrice,
	)
	if err != nil {
		return NozzleAssignment{}, err
	}
	if closing.Valid {
		assignment.ClosingBalance = &closing.Decimal
	}
	if dispensed.Valid {
		assignment.DispensedAmount = &dispensed.Decimal
	}
	if total.Valid {
		assignment.TotalAmount = &total.Decimal
	}
	if unitPrice.Valid {
		assignment.UnitPrice = &unitPrice.Decimal
	}
	return assignment, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
