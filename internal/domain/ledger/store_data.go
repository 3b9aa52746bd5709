package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

func (s *Store) GetWorker(ctx context.Context, tenantID, workerID string) (WorkerInfo, error) {
	var worker WorkerInfo
	err := s.DB.QueryRow(ctx, `
    SELECT id, full_name, opening_balance
    FROM workers
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, workerID).Scan(&worker.ID, &worker.Name, &worker.OpeningBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		return WorkerInfo{}, ErrWorkerNotFound
	}
	return worker, err
}

func (s *Store) ListSalaryRecords(ctx context.Context, tenantID, workerID string, to time.Time) ([]CalculatedSalary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, worker_id, period_from, period_to, net_salary, calculated_on
    FROM calculated_salaries
    WHERE tenant_id = $1 AND worker_id = $2 AND calculated_on <= $3
    ORDER BY calculated_on, id
  `, tenantID, workerID, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var salaries []CalculatedSalary
	for rows.Next() {
		var salary CalculatedSalary
		if err := rows.Scan(&salary.ID, &salary.WorkerID, &salary.PeriodFrom, &salary.PeriodTo, &salary.NetSalary, &salary.CalculatedOn); err != nil {
			return nil, err
		}
		salaries = append(salaries, salary)
	}
	return salaries, rows.Err()
}

func (s *Store) ListPaymentRecords(ctx context.Context, tenantID, workerID string, to time.Time) ([]SalaryPayment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, worker_id, amount, paid_at, salary_id, reference
    FROM salary_payments
    WHERE tenant_id = $1 AND worker_id = $2 AND paid_at <= $3
    ORDER BY paid_at, id
  `, tenantID, workerID, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []SalaryPayment
	for rows.Next() {
		var payment SalaryPayment
		if err := rows.Scan(&payment.ID, &payment.WorkerID, &payment.Amount, &payment.PaidAt, &payment.SalaryID, &payment.Reference); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (s *Store) CreateSalaryRecord(ctx context.Context, tenantID string, salary CalculatedSalary) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO calculated_salaries (tenant_id, worker_id, period_from, period_to, net_salary, calculated_on)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, tenantID, salary.WorkerID, salary.PeriodFrom, salary.PeriodTo, salary.NetSalary, salary.CalculatedOn).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) CreatePaymentRecord(ctx context.Context, tenantID string, payment SalaryPayment) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO salary_payments (tenant_id, worker_id, amount, paid_at, salary_id, reference)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, tenantID, payment.WorkerID, payment.Amount, payment.PaidAt, payment.SalaryID, payment.Reference).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) SalaryExists(ctx context.Context, tenantID, salaryID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM calculated_salaries WHERE tenant_id = $1 AND id = $2
  `, tenantID, salaryID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
