package accounting

import (
	"time"

	"github.com/shopspring/decimal"
)

// DenominationCounts is the physical cash count for the fixed currency
// set. Tenants that no longer see a face value simply leave it at zero.
type DenominationCounts struct {
	Notes2000 int `json:"notes2000"`
	Notes1000 int `json:"notes1000"`
	Notes500  int `json:"notes500"`
	Notes200  int `json:"notes200"`
	Notes100  int `json:"notes100"`
	Notes50   int `json:"notes50"`
	Notes20   int `json:"notes20"`
	Notes10   int `json:"notes10"`
	Coins5    int `json:"coins5"`
	Coins2    int `json:"coins2"`
	Coins1    int `json:"coins1"`
}

type ElectronicTotals struct {
	UPI       decimal.Decimal `json:"upi"`
	Card      decimal.Decimal `json:"card"`
	FleetCard decimal.Decimal `json:"fleetCard"`
}

// ShiftReconciliation compares declared cash against system-expected
// cash for one closed shift. FuelSales, Credit, Payments and Expenses
// are copied from the shift aggregates when the record is created and
// never recomputed afterwards.
type ShiftReconciliation struct {
	ID          string          `json:"id"`
	ShiftID     string          `json:"shiftId"`
	OpeningCash decimal.Decimal `json:"openingCash"`
	FuelSales   decimal.Decimal `json:"fuelSales"`
	Credit      decimal.Decimal `json:"credit"`
	Payments    decimal.Decimal `json:"payments"`
	Expenses    decimal.Decimal `json:"expenses"`

	Electronic    ElectronicTotals   `json:"electronic"`
	Denominations DenominationCounts `json:"denominations"`

	CashInHand   decimal.Decimal `json:"cashInHand"`
	ExpectedCash decimal.Decimal `json:"expectedCash"`
	// Balance is signed: positive means surplus, negative shortage.
	Balance decimal.Decimal `json:"balance"`

	EnteredBy string    `json:"enteredBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
