package ledger

import (
	"context"
	"time"

	"fueldesk/internal/domain/auth"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// BuildEmployeeLedger assembles the passbook-style statement for a
// worker over [from, to].
func (s *Service) BuildEmployeeLedger(ctx context.Context, tenantID, workerID string, from, to time.Time) (Statement, error) {
	if to.Before(from) {
		return Statement{}, ErrInvalidRange
	}

	worker, err := s.store.GetWorker(ctx, tenantID, workerID)
	if err != nil {
		return Statement{}, err
	}
	salaries, err := s.store.ListSalaryRecords(ctx, tenantID, workerID, to)
	if err != nil {
		return Statement{}, err
	}
	payments, err := s.store.ListPaymentRecords(ctx, tenantID, workerID, to)
	if err != nil {
		return Statement{}, err
	}

	return BuildStatement(workerID, worker.OpeningBalance, salaries, payments, from, to)
}

func (s *Service) RecordCalculatedSalary(ctx context.Context, actor auth.Actor, salary CalculatedSalary) (string, error) {
	if salary.NetSalary.IsNegative() {
		return "", ErrNegativeAmount
	}
	if salary.PeriodTo.Before(salary.PeriodFrom) {
		return "", ErrInvalidPeriod
	}
	if _, err := s.store.GetWorker(ctx, actor.TenantID, salary.WorkerID); err != nil {
		return "", err
	}
	calculatedOn, err := resolveDate(actor, salary.CalculatedOn)
	if err != nil {
		return "", err
	}
	salary.CalculatedOn = calculatedOn
	salary.NetSalary = salary.NetSalary.Round(MoneyScale)
	return s.store.CreateSalaryRecord(ctx, actor.TenantID, salary)
}

func (s *Service) RecordSalaryPayment(ctx context.Context, actor auth.Actor, payment SalaryPayment) (string, error) {
	if payment.Amount.IsNegative() {
		return "", ErrNegativeAmount
	}
	if _, err := s.store.GetWorker(ctx, actor.TenantID, payment.WorkerID); err != nil {
		return "", err
	}
	if payment.SalaryID != nil {
		exists, err := s.store.SalaryExists(ctx, actor.TenantID, *payment.SalaryID)
		if err != nil {
			return "", err
		}
		if !exists {
			return "", ErrSalaryNotFound
		}
	}
	paidAt, err := resolveDate(actor, payment.PaidAt)
	if err != nil {
		return "", err
	}
	payment.PaidAt = paidAt
	payment.Amount = payment.Amount.Round(MoneyScale)
	return s.store.CreatePaymentRecord(ctx, actor.TenantID, payment)
}

func resolveDate(actor auth.Actor, supplied time.Time) (time.Time, error) {
	if supplied.IsZero() {
		return time.Now(), nil
	}
	if !auth.CanBackdate(actor) {
		return time.Time{}, ErrBackdateNotAllowed
	}
	return supplied, nil
}
