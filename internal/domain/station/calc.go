package station

import "github.com/shopspring/decimal"

const (
	// VolumeScale is the scale for fuel volumes (litres).
	VolumeScale = 3
	// MoneyScale is the scale for money amounts.
	MoneyScale = 2
)

// DispensedVolume returns closing minus opening at volume scale.
func DispensedVolume(opening, closing decimal.Decimal) decimal.Decimal {
	return closing.Sub(opening).Round(VolumeScale)
}

// SaleValue prices a volume at unitPrice, rounded half-up at money scale.
func SaleValue(volume, unitPrice decimal.Decimal) decimal.Decimal {
	return volume.Mul(unitPrice).Round(MoneyScale)
}

// DispensedAmount returns the frozen dispensed volume when the close
// cached it, otherwise recomputes from the meter readings. Assignments
// persisted before caching existed have no frozen value.
func DispensedAmount(a NozzleAssignment) decimal.Decimal {
	if a.DispensedAmount != nil {
		return *a.DispensedAmount
	}
	if a.ClosingBalance == nil {
		return decimal.Zero
	}
	return DispensedVolume(a.OpeningBalance, *a.ClosingBalance)
}

// TotalAmount returns the frozen sale amount when cached, otherwise
// recomputes from the meter readings and the price frozen at close.
func TotalAmount(a NozzleAssignment) decimal.Decimal {
	if a.TotalAmount != nil {
		return *a.TotalAmount
	}
	if a.UnitPrice == nil {
		return decimal.Zero
	}
	return SaleValue(DispensedAmount(a), *a.UnitPrice)
}

// SumClosedSales sums sale amounts over CLOSED assignments only.
func SumClosedSales(assignments []NozzleAssignment) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assignments {
		switch a.Status {
		case AssignmentClosed:
			total = total.Add(TotalAmount(a))
		case AssignmentOpen:
		}
	}
	return total
}

// TestDeduction values nozzle-test draws at the supplied per-product
// unit price so they can be excluded from fuel sales.
func TestDeduction(tests []NozzleTest, priceOf func(productID string) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, test := range tests {
		total = total.Add(SaleValue(test.Quantity, priceOf(test.ProductID)))
	}
	return total
}

func SumCreditBills(bills []CreditBill) decimal.Decimal {
	total := decimal.Zero
	for _, bill := range bills {
		total = total.Add(bill.NetAmount)
	}
	return total
}

func SumPayments(payments []ShiftPayment) decimal.Decimal {
	total := decimal.Zero
	for _, payment := range payments {
		total = total.Add(payment.Amount)
	}
	return total
}

func SumExpenses(expenses []ShiftExpense) decimal.Decimal {
	total := decimal.Zero
	for _, expense := range expenses {
		total = total.Add(expense.Amount)
	}
	return total
}

func OpenNozzleCount(assignments []NozzleAssignment) int {
	count := 0
	for _, a := range assignments {
		switch a.Status {
		case AssignmentOpen:
			count++
		case AssignmentClosed:
		}
	}
	return count
}

func IsShiftComplete(assignments []NozzleAssignment) bool {
	return OpenNozzleCount(assignments) == 0
}
