package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const MoneyScale = 2

// entryTime is the position of a record on the statement timeline.
// Salary calculations are dated records, so they sit at the start of
// their calculation day; payments carry an exact timestamp.
func salaryEntryTime(salary CalculatedSalary) time.Time {
	calculated := salary.CalculatedOn
	return time.Date(calculated.Year(), calculated.Month(), calculated.Day(), 0, 0, 0, 0, calculated.Location())
}

type mergedItem struct {
	at        time.Time
	direction Direction
	amount    decimal.Decimal
	// rank breaks exact-timestamp ties: salaries before payments,
	// then record id. The order is arbitrary but deterministic.
	rank        int
	id          string
	description string
	sourceType  string
}

// BuildStatement merges salary credits and payment debits into one
// chronological running-balance statement. Records before the range
// roll into balanceBefore; records after `to` are ignored.
func BuildStatement(workerID string, openingBalance decimal.Decimal, salaries []CalculatedSalary, payments []SalaryPayment, from, to time.Time) (Statement, error) {
	if to.Before(from) {
		return Statement{}, ErrInvalidRange
	}

	balanceBefore := openingBalance
	var items []mergedItem

	for _, salary := range salaries {
		at := salaryEntryTime(salary)
		if at.After(to) {
			continue
		}
		if at.Before(from) {
			balanceBefore = balanceBefore.Add(salary.NetSalary)
			continue
		}
		items = append(items, mergedItem{
			at:        at,
			direction: Credit,
			amount:    salary.NetSalary,
			rank:      0,
			id:        salary.ID,
			description: fmt.Sprintf("Salary for %s to %s",
				salary.PeriodFrom.Format("02 Jan 2006"), salary.PeriodTo.Format("02 Jan 2006")),
			sourceType: SourceSalary,
		})
	}

	for _, payment := range payments {
		if payment.PaidAt.After(to) {
			continue
		}
		if payment.PaidAt.Before(from) {
			balanceBefore = balanceBefore.Sub(payment.Amount)
			continue
		}
		description := "Advance payment"
		if payment.SalaryID != nil {
			description = "Salary payment"
		}
		if payment.Reference != "" {
			description += " " + payment.Reference
		}
		items = append(items, mergedItem{
			at:          payment.PaidAt,
			direction:   Debit,
			amount:      payment.Amount,
			rank:        1,
			id:          payment.ID,
			description: description,
			sourceType:  SourcePayment,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].at.Equal(items[j].at) {
			return items[i].at.Before(items[j].at)
		}
		if items[i].rank != items[j].rank {
			return items[i].rank < items[j].rank
		}
		return items[i].id < items[j].id
	})

	balanceBefore = balanceBefore.Round(MoneyScale)
	running := balanceBefore
	totalCredits := decimal.Zero
	totalDebits := decimal.Zero
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		switch item.direction {
		case Credit:
			running = running.Add(item.amount)
			totalCredits = totalCredits.Add(item.amount)
		case Debit:
			running = running.Sub(item.amount)
			totalDebits = totalDebits.Add(item.amount)
		}
		entries = append(entries, Entry{
			At:          item.at,
			Direction:   item.direction,
			Amount:      item.amount.Round(MoneyScale),
			Balance:     running.Round(MoneyScale),
			Description: item.description,
			SourceType:  item.sourceType,
			SourceID:    item.id,
		})
	}

	return Statement{
		WorkerID: workerID,
		From:     from,
		To:       to,
		Entries:  entries,
		Summary: Summary{
			BalanceBefore:  balanceBefore,
			TotalCredits:   totalCredits.Round(MoneyScale),
			TotalDebits:    totalDebits.Round(MoneyScale),
			ClosingBalance: running.Round(MoneyScale),
		},
	}, nil
}
