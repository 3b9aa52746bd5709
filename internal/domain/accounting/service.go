package accounting

import (
	"context"

	"github.com/shopspring/decimal"

	"fueldesk/internal/domain/auth"
	"fueldesk/internal/domain/station"
)

type Service struct {
	store  StoreAPI
	shifts ShiftSource
}

func NewService(store StoreAPI, shifts ShiftSource) *Service {
	return &Service{store: store, shifts: shifts}
}

// Create freezes the shift's aggregates into a new reconciliation.
// The shift must be closed, and at most one reconciliation may exist
// per shift; the store's unique constraint backs the check under
// concurrent creates.
func (s *Service) Create(ctx context.Context, actor auth.Actor, shiftID string, electronic ElectronicTotals, counts DenominationCounts) (ShiftReconciliation, error) {
	if err := validateCounts(counts); err != nil {
		return ShiftReconciliation{}, err
	}
	if err := validateElectronic(electronic); err != nil {
		return ShiftReconciliation{}, err
	}

	shift, err := s.shifts.GetShift(ctx, actor.TenantID, shiftID)
	if err != nil {
		return ShiftReconciliation{}, err
	}
	if shift.EndTime == nil {
		return ShiftReconciliation{}, ErrShiftNotClosed
	}
	if shift.AccountingDone {
		return ShiftReconciliation{}, ErrAlreadyReconciled
	}

	totals, err := s.shifts.Totals(ctx, actor.TenantID, shiftID)
	if err != nil {
		return ShiftReconciliation{}, err
	}

	rec := buildReconciliation(shiftID, shift.OpeningCash, totals, electronic, counts, actor.UserID)
	id, err := s.store.CreateReconciliation(ctx, actor.TenantID, rec)
	if err != nil {
		return ShiftReconciliation{}, err
	}
	rec.ID = id
	return rec, nil
}

// Update is a correction: it recomputes from the live shift aggregates
// and overwrites every derived field, re-freezing at this instant.
func (s *Service) Update(ctx context.Context, actor auth.Actor, shiftID string, electronic ElectronicTotals, counts DenominationCounts) (ShiftReconciliation, error) {
	if err := validateCounts(counts); err != nil {
		return ShiftReconciliation{}, err
	}
	if err := validateElectronic(electronic); err != nil {
		return ShiftReconciliation{}, err
	}

	existing, err := s.store.GetReconciliationByShift(ctx, actor.TenantID, shiftID)
	if err != nil {
		return ShiftReconciliation{}, err
	}

	shift, err := s.shifts.GetShift(ctx, actor.TenantID, shiftID)
	if err != nil {
		return ShiftReconciliation{}, err
	}
	totals, err := s.shifts.Totals(ctx, actor.TenantID, shiftID)
	if err != nil {
		return ShiftReconciliation{}, err
	}

	rec := buildReconciliation(shiftID, shift.OpeningCash, totals, electronic, counts, actor.UserID)
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	if err := s.store.UpdateReconciliation(ctx, actor.TenantID, rec); err != nil {
		return ShiftReconciliation{}, err
	}
	return rec, nil
}

// Delete removes the reconciliation and reverts the shift's accounting
// flag so it can be recreated.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, shiftID string) error {
	return s.store.DeleteReconciliation(ctx, actor.TenantID, shiftID)
}

func (s *Service) GetByShift(ctx context.Context, tenantID, shiftID string) (ShiftReconciliation, error) {
	return s.store.GetReconciliationByShift(ctx, tenantID, shiftID)
}

func buildReconciliation(shiftID string, openingCash decimal.Decimal, totals station.ShiftTotals, electronic ElectronicTotals, counts DenominationCounts, enteredBy string) ShiftReconciliation {
	cashInHand := CashInHand(counts)
	expected := ExpectedCash(openingCash, totals.FuelSales, totals.Payments, totals.Credit, totals.Expenses, electronic)
	return ShiftReconciliation{
		ShiftID:       shiftID,
		OpeningCash:   openingCash.Round(MoneyScale),
		FuelSales:     totals.FuelSales,
		Credit:        totals.Credit,
		Payments:      totals.Payments,
		Expenses:      totals.Expenses,
		Electronic:    electronic,
		Denominations: counts,
		CashInHand:    cashInHand,
		ExpectedCash:  expected,
		Balance:       cashInHand.Sub(expected),
		EnteredBy:     enteredBy,
	}
}
