package station

import (
	"time"

	"github.com/shopspring/decimal"
)

type AssignmentStatus string

const (
	AssignmentOpen   AssignmentStatus = "OPEN"
	AssignmentClosed AssignmentStatus = "CLOSED"
)

// NozzleAssignment is one worker holding one nozzle for an interval.
// DispensedAmount, TotalAmount and UnitPrice are frozen when the
// assignment closes and are never recomputed from live prices.
type NozzleAssignment struct {
	ID              string           `json:"id"`
	NozzleID        string           `json:"nozzleId"`
	ProductID       string           `json:"productId"`
	WorkerID        string           `json:"workerId"`
	ShiftID         string           `json:"shiftId"`
	StartTime       time.Time        `json:"startTime"`
	EndTime         *time.Time       `json:"endTime,omitempty"`
	OpeningBalance  decimal.Decimal  `json:"openingBalance"`
	ClosingBalance  *decimal.Decimal `json:"closingBalance,omitempty"`
	Status          AssignmentStatus `json:"status"`
	DispensedAmount *decimal.Decimal `json:"dispensedAmount,omitempty"`
	TotalAmount     *decimal.Decimal `json:"totalAmount,omitempty"`
	UnitPrice       *decimal.Decimal `json:"unitPrice,omitempty"`
}

type Shift struct {
	ID             string          `json:"id"`
	WorkerID       string          `json:"workerId"`
	WorkPeriodID   string          `json:"workPeriodId"`
	Date           time.Time       `json:"date"`
	StartTime      time.Time       `json:"startTime"`
	EndTime        *time.Time      `json:"endTime,omitempty"`
	OpeningCash    decimal.Decimal `json:"openingCash"`
	AccountingDone bool            `json:"accountingDone"`
}

// NozzleTest is a small fuel draw used to verify the meter; it must not
// count as a sale.
type NozzleTest struct {
	ID        string          `json:"id"`
	ShiftID   string          `json:"shiftId"`
	NozzleID  string          `json:"nozzleId"`
	ProductID string          `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"`
	TestedAt  time.Time       `json:"testedAt"`
}

type CreditBill struct {
	ID         string          `json:"id"`
	ShiftID    string          `json:"shiftId"`
	CustomerID string          `json:"customerId"`
	BillNumber string          `json:"billNumber"`
	NetAmount  decimal.Decimal `json:"netAmount"`
	BilledAt   time.Time       `json:"billedAt"`
}

type ShiftPayment struct {
	ID         string          `json:"id"`
	ShiftID    string          `json:"shiftId"`
	Amount     decimal.Decimal `json:"amount"`
	Reference  string          `json:"reference"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

type ShiftExpense struct {
	ID          string          `json:"id"`
	ShiftID     string          `json:"shiftId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	SpentAt     time.Time       `json:"spentAt"`
}

// ShiftTotals is always derived fresh from the shift's children; it is
// never stored. Reconciliation copies it when it freezes.
type ShiftTotals struct {
	FuelSales         decimal.Decimal `json:"fuelSales"`
	Credit            decimal.Decimal `json:"credit"`
	Payments          decimal.Decimal `json:"payments"`
	Expenses          decimal.Decimal `json:"expenses"`
	OpenAssignments   int             `json:"openAssignments"`
	ClosedAssignments int             `json:"closedAssignments"`
}

func (t ShiftTotals) Complete() bool {
	return t.OpenAssignments == 0
}

// AssignmentSummary is returned from a successful close with the values
// captured at the moment of the transition.
type AssignmentSummary struct {
	AssignmentID    string          `json:"assignmentId"`
	EndTime         time.Time       `json:"endTime"`
	DispensedAmount decimal.Decimal `json:"dispensedAmount"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
}
