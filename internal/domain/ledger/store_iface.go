package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type WorkerInfo struct {
	ID             string
	Name           string
	OpeningBalance decimal.Decimal
}

type StoreAPI interface {
	GetWorker(ctx context.Context, tenantID, workerID string) (WorkerInfo, error)
	// ListSalaryRecords returns all calculated salaries dated up to and
	// including `to`, oldest first.
	ListSalaryRecords(ctx context.Context, tenantID, workerID string, to time.Time) ([]CalculatedSalary, error)
	// ListPaymentRecords returns all salary payments up to and
	// including `to`, oldest first.
	ListPaymentRecords(ctx context.Context, tenantID, workerID string, to time.Time) ([]SalaryPayment, error)
	CreateSalaryRecord(ctx context.Context, tenantID string, salary CalculatedSalary) (string, error)
	CreatePaymentRecord(ctx context.Context, tenantID string, payment SalaryPayment) (string, error)
	SalaryExists(ctx context.Context, tenantID, salaryID string) (bool, error)
}
