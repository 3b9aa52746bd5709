package accounting

import "github.com/shopspring/decimal"

const MoneyScale = 2

// CashInHand values the physical count: sum of count times face value.
func CashInHand(counts DenominationCounts) decimal.Decimal {
	total := int64(counts.Notes2000)*2000 +
		int64(counts.Notes1000)*1000 +
		int64(counts.Notes500)*500 +
		int64(counts.Notes200)*200 +
		int64(counts.Notes100)*100 +
		int64(counts.Notes50)*50 +
		int64(counts.Notes20)*20 +
		int64(counts.Notes10)*10 +
		int64(counts.Coins5)*5 +
		int64(counts.Coins2)*2 +
		int64(counts.Coins1)
	return decimal.NewFromInt(total).Round(MoneyScale)
}

// ExpectedCash is what the drawer should hold at shift end: opening
// cash plus fuel sales and collected payments, minus credit sales,
// expenses and everything that was paid electronically.
func ExpectedCash(openingCash, fuelSales, payments, credit, expenses decimal.Decimal, electronic ElectronicTotals) decimal.Decimal {
	return openingCash.
		Add(fuelSales).
		Add(payments).
		Sub(credit).
		Sub(expenses).
		Sub(electronic.UPI).
		Sub(electronic.Card).
		Sub(electronic.FleetCard).
		Round(MoneyScale)
}

func validateCounts(counts DenominationCounts) error {
	for _, count := range []int{
		counts.Notes2000, counts.Notes1000, counts.Notes500, counts.Notes200,
		counts.Notes100, counts.Notes50, counts.Notes20, counts.Notes10,
		counts.Coins5, counts.Coins2, counts.Coins1,
	} {
		if count < 0 {
			return ErrNegativeDenomination
		}
	}
	return nil
}

func validateElectronic(totals ElectronicTotals) error {
	if totals.UPI.IsNegative() || totals.Card.IsNegative() || totals.FleetCard.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}
