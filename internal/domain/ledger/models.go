package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculatedSalary is a payroll run result for one worker and period.
// It credits the worker's ledger on its calculation date.
type CalculatedSalary struct {
	ID           string          `json:"id"`
	WorkerID     string          `json:"workerId"`
	PeriodFrom   time.Time       `json:"periodFrom"`
	PeriodTo     time.Time       `json:"periodTo"`
	NetSalary    decimal.Decimal `json:"netSalary"`
	CalculatedOn time.Time       `json:"calculatedOn"`
}

// SalaryPayment debits the worker's ledger. A nil SalaryID means an
// advance not tied to any calculated salary.
type SalaryPayment struct {
	ID        string          `json:"id"`
	WorkerID  string          `json:"workerId"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paidAt"`
	SalaryID  *string         `json:"salaryId,omitempty"`
	Reference string          `json:"reference"`
}

type Direction string

const (
	Credit Direction = "CREDIT"
	Debit  Direction = "DEBIT"
)

// Entry is one line of the derived statement; it is never persisted.
type Entry struct {
	At          time.Time       `json:"at"`
	Direction   Direction       `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description"`
	SourceType  string          `json:"sourceType"`
	SourceID    string          `json:"sourceId"`
}

type Summary struct {
	BalanceBefore  decimal.Decimal `json:"balanceBefore"`
	TotalCredits   decimal.Decimal `json:"totalCredits"`
	TotalDebits    decimal.Decimal `json:"totalDebits"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

type Statement struct {
	WorkerID string    `json:"workerId"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Entries  []Entry   `json:"entries"`
	Summary  Summary   `json:"summary"`
}

const (
	SourceSalary  = "calculated_salary"
	SourcePayment = "salary_payment"
)
