package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func salary(id string, calculatedOn time.Time, net string) CalculatedSalary {
	return CalculatedSalary{
		ID:           id,
		WorkerID:     "worker-1",
		PeriodFrom:   calculatedOn.AddDate(0, -1, 0),
		PeriodTo:     calculatedOn,
		NetSalary:    dec(net),
		CalculatedOn: calculatedOn,
	}
}

func payment(id string, paidAt time.Time, amount string) SalaryPayment {
	return SalaryPayment{ID: id, WorkerID: "worker-1", Amount: dec(amount), PaidAt: paidAt}
}

func TestStatementMergeOrder(t *testing.T) {
	statement, err := BuildStatement("worker-1", decimal.Zero,
		[]CalculatedSalary{salary("s1", day(1), "1000")},
		[]SalaryPayment{payment("p1", day(2).Add(10*time.Hour), "400")},
		day(1), day(3),
	)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(statement.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(statement.Entries))
	}
	first, second := statement.Entries[0], statement.Entries[1]
	if first.Direction != Credit || !first.Amount.Equal(dec("1000")) || !first.Balance.Equal(dec("1000")) {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if second.Direction != Debit || !second.Amount.Equal(dec("400")) || !second.Balance.Equal(dec("600")) {
		t.Fatalf("unexpected second entry: %+v", second)
	}
	if !statement.Summary.ClosingBalance.Equal(dec("600")) {
		t.Fatalf("expected closing 600, got %s", statement.Summary.ClosingBalance)
	}
}

func TestStatementBalanceBeforeRollsUpHistory(t *testing.T) {
	statement, err := BuildStatement("worker-1", dec("250"),
		[]CalculatedSalary{
			salary("s1", day(1), "1000"), // before range
			salary("s2", day(10), "1200"),
		},
		[]SalaryPayment{
			payment("p1", day(3).Add(9*time.Hour), "300"), // before range
			payment("p2", day(12).Add(9*time.Hour), "500"),
		},
		day(5), day(15),
	)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	// 250 + 1000 - 300
	if !statement.Summary.BalanceBefore.Equal(dec("950")) {
		t.Fatalf("expected balanceBefore 950, got %s", statement.Summary.BalanceBefore)
	}
	if !statement.Summary.ClosingBalance.Equal(dec("1650")) {
		t.Fatalf("expected closing 1650, got %s", statement.Summary.ClosingBalance)
	}
	if !statement.Summary.TotalCredits.Equal(dec("1200")) || !statement.Summary.TotalDebits.Equal(dec("500")) {
		t.Fatalf("unexpected totals: %+v", statement.Summary)
	}
}

func TestStatementPassbookInvariant(t *testing.T) {
	// closing == opening + all credits <= D - all debits <= D for any cutoff.
	opening := dec("100")
	salaries := []CalculatedSalary{
		salary("s1", day(2), "1000"),
		salary("s2", day(8), "1100.50"),
		salary("s3", day(20), "990"),
	}
	payments := []SalaryPayment{
		payment("p1", day(4).Add(8*time.Hour), "700"),
		payment("p2", day(9).Add(8*time.Hour), "450.25"),
		payment("p3", day(25).Add(8*time.Hour), "200"),
	}

	for _, cutoff := range []time.Time{day(1), day(5), day(10), day(30)} {
		statement, err := BuildStatement("worker-1", opening, salaries, payments, day(1), cutoff)
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		want := opening
		for _, s := range salaries {
			if !salaryEntryTime(s).After(cutoff) {
				want = want.Add(s.NetSalary)
			}
		}
		for _, p := range payments {
			if !p.PaidAt.After(cutoff) {
				want = want.Sub(p.Amount)
			}
		}
		if !statement.Summary.ClosingBalance.Equal(want) {
			t.Fatalf("cutoff %s: expected %s, got %s", cutoff, want, statement.Summary.ClosingBalance)
		}
	}
}

func TestStatementTieBreakSalaryBeforePayment(t *testing.T) {
	// Payment at exactly midnight of the salary's calculation day.
	statement, err := BuildStatement("worker-1", decimal.Zero,
		[]CalculatedSalary{salary("s1", day(5), "1000")},
		[]SalaryPayment{payment("p1", day(5), "1000")},
		day(1), day(10),
	)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if statement.Entries[0].Direction != Credit {
		t.Fatal("salary must order before payment at equal timestamps")
	}
	if !statement.Entries[1].Balance.IsZero() {
		t.Fatalf("expected zero final balance, got %s", statement.Entries[1].Balance)
	}
}

func TestStatementEmptyRange(t *testing.T) {
	statement, err := BuildStatement("worker-1", dec("42"), nil, nil, day(1), day(2))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(statement.Entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(statement.Entries))
	}
	if !statement.Summary.ClosingBalance.Equal(dec("42")) {
		t.Fatalf("closing must equal balanceBefore for empty range, got %s", statement.Summary.ClosingBalance)
	}
}

func TestStatementRejectsInvertedRange(t *testing.T) {
	if _, err := BuildStatement("worker-1", decimal.Zero, nil, nil, day(5), day(1)); err != ErrInvalidRange {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestAdvancePaymentDescription(t *testing.T) {
	linked := "salary-1"
	statement, err := BuildStatement("worker-1", decimal.Zero, nil,
		[]SalaryPayment{
			{ID: "p1", WorkerID: "worker-1", Amount: dec("100"), PaidAt: day(2)},
			{ID: "p2", WorkerID: "worker-1", Amount: dec("100"), PaidAt: day(3), SalaryID: &linked, Reference: "TXN-9"},
		},
		day(1), day(5),
	)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if statement.Entries[0].Description != "Advance payment" {
		t.Fatalf("unexpected advance description: %q", statement.Entries[0].Description)
	}
	if statement.Entries[1].Description != "Salary payment TXN-9" {
		t.Fatalf("unexpected payment description: %q", statement.Entries[1].Description)
	}
}
